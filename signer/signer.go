// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

// Package signer embeds signatures into kernel modules of kernels
// that are installed but not yet booted, using the scripts/sign-file
// binary from each kernel's own build tree.
package signer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"code.dumpstack.io/tools/modsign/config"
	"code.dumpstack.io/tools/modsign/kernel"
	"code.dumpstack.io/tools/modsign/runner"
)

// SignError means the signing binary exited non-zero for a module.
// Signing aborts at that point; modules already signed stay signed.
type SignError struct {
	Kernel string
	Module string
	Status int
}

func (e *SignError) Error() string {
	return fmt.Sprintf("sign module %s for kernel %s: exit status %d",
		e.Module, e.Kernel, e.Status)
}

// ModulesDirError means the directory a module entry points to does
// not exist for this kernel.
type ModulesDirError struct {
	Kernel string
	Dir    string
}

func (e *ModulesDirError) Error() string {
	return fmt.Sprintf("cannot access modules directory %s "+
		"for kernel %s", e.Dir, e.Kernel)
}

// AkmodsError means akmods failed to build modules for a kernel.
type AkmodsError struct {
	Kernel string
	Status int
}

func (e *AkmodsError) Error() string {
	return fmt.Sprintf("build akmods for kernel %s: exit status %d",
		e.Kernel, e.Status)
}

// Recorder persists per-module signing results.
type Recorder interface {
	Record(kernel, module string, ok bool) error
}

// SelectNewer returns every installed kernel strictly newer than the
// current one, preserving input order. The current kernel itself is
// excluded: it booted, so its modules are already signed.
func SelectNewer(current string, installed []string) (newer []string) {
	for _, krel := range installed {
		if kernel.CompareVersions(krel, current) > 0 {
			newer = append(newer, krel)
		}
	}
	return
}

type Signer struct {
	Run  runner.Runner
	Conf config.Config

	PrivateKey string
	PublicKey  string

	// Journal is optional; signing proceeds without one.
	Journal Recorder
}

func (s Signer) signFile(krel string) string {
	return filepath.Join(s.Conf.KernelSourceDir, krel,
		"scripts", "sign-file")
}

// akmods exits 0 when the modules are built or already exist;
// --force builds even after a previously failed attempt.
func (s Signer) buildAkmods(krel string) (err error) {
	status := s.Run.Status("akmods", "--kernels", krel, "--force")
	if status != 0 {
		err = &AkmodsError{Kernel: krel, Status: status}
	}
	return
}

// SignKernel signs every configured module of one kernel, aborting
// on the first module the signing binary rejects.
func (s Signer) SignKernel(krel string) (err error) {
	slog := log.With().Str("kernel", krel).Logger()

	if s.Conf.BuildAkmods {
		err = s.buildAkmods(krel)
		if err != nil {
			return
		}
	}

	signFile := s.signFile(krel)

	for _, entry := range s.Conf.Modules {
		dir := filepath.Join(s.Conf.ModulesDir, krel, entry.Directory)
		if _, serr := os.Stat(dir); serr != nil {
			err = &ModulesDirError{Kernel: krel, Dir: dir}
			return
		}

		for _, file := range entry.Files {
			module := filepath.Join(dir, file)
			slog.Debug().Msgf("sign %s", module)

			status := s.Run.Status(signFile, s.Conf.Hash,
				s.PrivateKey, s.PublicKey, module)

			s.record(krel, file, status == 0)

			if status != 0 {
				err = &SignError{
					Kernel: krel,
					Module: file,
					Status: status,
				}
				return
			}
		}
	}

	slog.Info().Msg("modules signed")
	return
}

// SignAll signs kernels sequentially and stops at the first failure.
// There is no rollback: partial signing is an accepted side effect
// of aborting.
func (s Signer) SignAll(kernels []string) (err error) {
	for _, krel := range kernels {
		err = s.SignKernel(krel)
		if err != nil {
			return
		}
	}
	return
}

func (s Signer) record(krel, module string, ok bool) {
	if s.Journal == nil {
		return
	}

	err := s.Journal.Record(krel, module, ok)
	if err != nil {
		log.Warn().Err(err).Msg("journal record")
	}
}
