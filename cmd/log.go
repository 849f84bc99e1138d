// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"code.dumpstack.io/tools/modsign/config"
	"code.dumpstack.io/tools/modsign/journal"
)

type LogCmd struct {
	List LogListCmd `cmd:"" help:"show signing journal"`
	Dump LogDumpCmd `cmd:"" help:"show one signing journal entry"`
}

type LogListCmd struct {
	Num int `help:"show no more than X entries" default:"50"`
}

func (cmd *LogListCmd) Run(g *Globals) (err error) {
	j, err := journal.Open(config.File("modsign.db"))
	if err != nil {
		return
	}
	defer j.Close()

	entries, err := j.Entries(cmd.Num)
	if err != nil {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Time", "Kernel", "Module", "OK"})

	for _, e := range entries {
		table.Append([]string{
			strconv.Itoa(e.ID),
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Kernel,
			e.Module,
			strconv.FormatBool(e.Ok),
		})
	}

	table.Render()
	return
}

type LogDumpCmd struct {
	ID int `arg:"" help:"journal entry id"`
}

func (cmd *LogDumpCmd) Run(g *Globals) (err error) {
	j, err := journal.Open(config.File("modsign.db"))
	if err != nil {
		return
	}
	defer j.Close()

	e, err := j.Entry(cmd.ID)
	if err != nil {
		return
	}

	fmt.Println("ID:", e.ID)
	fmt.Println("Date:", e.Timestamp)
	fmt.Println()

	fmt.Println("Kernel:", e.Kernel)
	fmt.Println("Module:", e.Module)
	fmt.Println("Sign ok:", e.Ok)
	return
}
