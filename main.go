// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

// modsign signs out-of-tree kernel modules (the proprietary Nvidia
// driver, unless configured otherwise) for every installed kernel
// newer than the one currently booted, so systems with kernel module
// signature enforcement keep working across kernel updates.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"code.dumpstack.io/tools/modsign/cmd"
	"code.dumpstack.io/tools/modsign/config"
)

type CLI struct {
	cmd.Globals

	Sign   cmd.SignCmd   `cmd:"" default:"withargs" help:"sign kernel modules for newly installed kernels"`
	Kernel cmd.KernelCmd `cmd:"" help:"installed kernels"`
	Log    cmd.LogCmd    `cmd:"" help:"signing journal"`

	LogLevel string `enum:"trace,debug,info,warn,error" default:"info" help:"console log level"`

	Version kong.VersionFlag `help:"show version"`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("modsign"),
		kong.Description("sign out-of-tree kernel modules "+
			"for kernels that are installed but not yet booted"),
		kong.Vars{"version": "2.0.0"},
	)

	level, err := zerolog.ParseLevel(cli.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("parse log level")
	}

	initLogger(level)

	err = ctx.Run(&cli.Globals)
	if err != nil {
		cmd.Fatal(err)
	}
}

func initLogger(level zerolog.Level) {
	cmd.ConsoleWriter = cmd.LevelWriter{
		Writer: zerolog.ConsoleWriter{Out: os.Stdout},
		Level:  level,
	}

	// The file always gets debug: unattended runs are exactly the
	// ones that need to be diagnosed after the fact.
	cmd.FileWriter = cmd.LevelWriter{
		Writer: zerolog.ConsoleWriter{
			Out: &lumberjack.Logger{
				Filename:   config.File("logs", "modsign.log"),
				MaxSize:    16, // megabytes
				MaxBackups: 8,
			},
			NoColor: true,
		},
		Level: zerolog.DebugLevel,
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(
		&cmd.ConsoleWriter,
		&cmd.FileWriter,
	)).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}
