// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"code.dumpstack.io/tools/modsign/config"
	"code.dumpstack.io/tools/modsign/kernel"
	"code.dumpstack.io/tools/modsign/pkgmgr"
	"code.dumpstack.io/tools/modsign/signer"
)

// Process exit codes, one per failure category. Cron and systemd
// units branch on these.
const (
	ExitSuccess = iota
	ExitNoPackageManager
	ExitSignFailed
	ExitVersionParse
	ExitConfigRead
	ExitConfigMalformed
	ExitModulesDir
	ExitAkmods
)

var exitDescriptions = [...]string{
	"success, normal exit",
	"package manager not found",
	"unable to sign a kernel module",
	"unable to extract kernel version string",
	"cannot open configuration file",
	"configuration file is malformed",
	"cannot access modules directory",
	"cannot build akmods for kernel",
}

// ExitCode maps an error to its exit code. The second return is
// false for errors outside the taxonomy, which exit 1 without a
// description.
func ExitCode(err error) (code int, known bool) {
	var signErr *signer.SignError
	var dirErr *signer.ModulesDirError
	var akmodsErr *signer.AkmodsError
	var parseErr *kernel.ParseError

	known = true
	switch {
	case err == nil:
		code = ExitSuccess
	case errors.Is(err, pkgmgr.ErrNotFound):
		code = ExitNoPackageManager
	case errors.As(err, &signErr):
		code = ExitSignFailed
	case errors.As(err, &parseErr):
		code = ExitVersionParse
	case errors.Is(err, config.ErrRead):
		code = ExitConfigRead
	case errors.Is(err, config.ErrMalformed):
		code = ExitConfigMalformed
	case errors.As(err, &dirErr):
		code = ExitModulesDir
	case errors.As(err, &akmodsErr):
		code = ExitAkmods
	default:
		code = 1
		known = false
	}
	return
}

// Fatal logs the error with its exit code description and
// terminates the process.
func Fatal(err error) {
	code, known := ExitCode(err)
	if known {
		log.Error().Err(err).Msgf("exiting with exit code: %d, %s",
			code, exitDescriptions[code])
	} else {
		log.Error().Err(err).Msgf("exiting with exit code: %d", code)
	}
	os.Exit(code)
}
