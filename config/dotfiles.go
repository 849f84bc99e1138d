package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
)

// Directory for modsign dotfiles (logs, journal, configuration)
var Directory string

func directory() string {
	if Directory != "" {
		return Directory
	}

	home, err := homedir.Dir()
	if err != nil {
		log.Fatal().Err(err).Msg("get home directory")
	}

	Directory = filepath.Join(home, ".modsign")

	return Directory
}

// Dir that exist relative to the dotfiles directory
func Dir(s ...string) (dir string) {
	dir = filepath.Join(append([]string{directory()}, s...)...)
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		log.Fatal().Err(err).Msg("mkdir")
	}
	return
}

// File in existing dir relative to the dotfiles directory
func File(s ...string) (file string) {
	file = filepath.Join(append([]string{directory()}, s...)...)
	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		log.Fatal().Err(err).Msg("mkdir")
	}
	return
}
