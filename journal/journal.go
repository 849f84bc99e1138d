// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

// Package journal keeps a record of every signing attempt in a
// sqlite database, so "which kernels did we actually sign" survives
// unattended runs.
package journal

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Change on ANY database update
const currentDatabaseVersion = 1

const versionField = "db_version"

// Entry is one sign-file invocation.
type Entry struct {
	ID        int
	Timestamp time.Time
	Kernel    string
	Module    string
	Ok        bool
}

type Journal struct {
	db *sql.DB
}

func Open(path string) (j *Journal, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return
	}

	db.SetMaxOpenConns(1)

	err = createMetadataTable(db)
	if err != nil {
		return
	}

	err = createLogTable(db)
	if err != nil {
		return
	}

	err = checkVersion(db)
	if err != nil {
		return
	}

	j = &Journal{db: db}
	return
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record one signing attempt.
func (j *Journal) Record(kernel, module string, ok bool) (err error) {
	stmt, err := j.db.Prepare("INSERT INTO log " +
		"(kernel_release, module, sign_ok) " +
		"VALUES ($1, $2, $3);")
	if err != nil {
		return
	}
	defer stmt.Close()

	_, err = stmt.Exec(kernel, module, ok)
	return
}

// Entries returns up to num most recent entries, newest first.
func (j *Journal) Entries(num int) (entries []Entry, err error) {
	stmt, err := j.db.Prepare("SELECT id, time, kernel_release, " +
		"module, sign_ok FROM log ORDER BY id DESC LIMIT $1")
	if err != nil {
		return
	}
	defer stmt.Close()

	rows, err := stmt.Query(num)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		err = rows.Scan(&e.ID, &e.Timestamp, &e.Kernel,
			&e.Module, &e.Ok)
		if err != nil {
			return
		}

		entries = append(entries, e)
	}

	err = rows.Err()
	return
}

// Entry returns a single entry by id.
func (j *Journal) Entry(id int) (e Entry, err error) {
	stmt, err := j.db.Prepare("SELECT id, time, kernel_release, " +
		"module, sign_ok FROM log WHERE id = $1")
	if err != nil {
		return
	}
	defer stmt.Close()

	err = stmt.QueryRow(id).Scan(&e.ID, &e.Timestamp, &e.Kernel,
		&e.Module, &e.Ok)
	return
}

func createLogTable(db *sql.DB) (err error) {
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS log (
		id		INTEGER PRIMARY KEY,
		time		DATETIME DEFAULT CURRENT_TIMESTAMP,

		kernel_release	TEXT,
		module		TEXT,

		sign_ok		BOOLEAN
	)`)
	return
}

func createMetadataTable(db *sql.DB) (err error) {
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS metadata (
		id	INTEGER PRIMARY KEY,
		key	TEXT UNIQUE,
		value	TEXT
	)`)
	return
}

func checkVersion(db *sql.DB) (err error) {
	exist, err := metaChkValue(db, versionField)
	if err != nil {
		return
	}

	if !exist {
		return metaSetValue(db, versionField,
			strconv.Itoa(currentDatabaseVersion))
	}

	s, err := metaGetValue(db, versionField)
	if err != nil {
		return
	}

	version, err := strconv.Atoi(s)
	if err != nil {
		return
	}

	if version != currentDatabaseVersion {
		err = fmt.Errorf("journal database version %d is not "+
			"supported", version)
	}
	return
}

func metaChkValue(db *sql.DB, key string) (exist bool, err error) {
	sql := "SELECT EXISTS(SELECT id FROM metadata WHERE key = $1)"
	stmt, err := db.Prepare(sql)
	if err != nil {
		return
	}
	defer stmt.Close()

	err = stmt.QueryRow(key).Scan(&exist)
	return
}

func metaGetValue(db *sql.DB, key string) (value string, err error) {
	stmt, err := db.Prepare("SELECT value FROM metadata " +
		"WHERE key = $1")
	if err != nil {
		return
	}
	defer stmt.Close()

	err = stmt.QueryRow(key).Scan(&value)
	return
}

func metaSetValue(db *sql.DB, key, value string) (err error) {
	stmt, err := db.Prepare("INSERT OR REPLACE INTO metadata " +
		"(key, value) VALUES ($1, $2)")
	if err != nil {
		return
	}
	defer stmt.Close()

	_, err = stmt.Exec(key, value)
	return
}
