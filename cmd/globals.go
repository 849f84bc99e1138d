package cmd

import (
	"io"

	"github.com/rs/zerolog"
)

type Globals struct {
	Config string `help:"path to configuration file" default:"~/.modsign/modsign.toml"`

	NoJournal bool `help:"do not record signing results to the journal"`
}

type LevelWriter struct {
	io.Writer
	Level zerolog.Level
}

func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	if l >= lw.Level {
		return lw.Writer.Write(p)
	}
	return len(p), nil
}

var ConsoleWriter, FileWriter LevelWriter
