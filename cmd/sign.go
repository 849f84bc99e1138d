// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/zcalusic/sysinfo"
	"gopkg.in/logrusorgru/aurora.v2"

	"code.dumpstack.io/tools/modsign/config"
	"code.dumpstack.io/tools/modsign/journal"
	"code.dumpstack.io/tools/modsign/kernel"
	"code.dumpstack.io/tools/modsign/pkgmgr"
	"code.dumpstack.io/tools/modsign/runner"
	"code.dumpstack.io/tools/modsign/signer"
)

type SignCmd struct {
	PrivateKey string `arg:"" help:"private key for module signing"`
	PublicKey  string `arg:"" help:"public key (certificate) for module signing"`

	Kernels []string `help:"sign modules only for the given kernels instead of detecting new ones"`
}

func (cmd *SignCmd) Run(g *Globals) (err error) {
	conf, err := config.Read(g.Config)
	if err != nil {
		return
	}

	log.Debug().Msg(spew.Sdump(conf))

	logHostInfo()

	priv, err := homedir.Expand(cmd.PrivateKey)
	if err != nil {
		return
	}

	pub, err := homedir.Expand(cmd.PublicKey)
	if err != nil {
		return
	}

	r := runner.Host{}

	var kernels []string
	if len(cmd.Kernels) != 0 {
		// Manual mode: trust the user on which kernels need
		// signing, but each argument still has to contain a
		// valid version token.
		for _, arg := range cmd.Kernels {
			var krel string
			krel, err = kernel.ExtractVersion(arg)
			if err != nil {
				return
			}
			kernels = append(kernels, krel)
		}
		log.Info().Msgf("manual mode, kernels %v", kernels)
	} else {
		kernels, err = newKernels(r, conf)
		if err != nil {
			return
		}

		if len(kernels) == 0 {
			log.Info().Msg("no new kernels found")
			return
		}
		log.Info().Msgf("new kernels %v", kernels)
	}

	s := signer.Signer{
		Run:        r,
		Conf:       conf,
		PrivateKey: priv,
		PublicKey:  pub,
	}

	if !g.NoJournal {
		var j *journal.Journal
		j, err = journal.Open(config.File("modsign.db"))
		if err != nil {
			log.Warn().Err(err).Msg("signing journal is not available")
			err = nil
		} else {
			defer j.Close()
			s.Journal = j
		}
	}

	err = s.SignAll(kernels)
	if err != nil {
		fmt.Println(aurora.Sprintf("%s %v", genOkFail(false), err))
		return
	}

	fmt.Println(aurora.Sprintf("%s modules signed for %d kernel(s)",
		genOkFail(true), len(kernels)))
	return
}

// newKernels finds every installed kernel newer than the running one.
func newKernels(r runner.Runner, conf config.Config) (kernels []string, err error) {
	pm, err := detectManager(r, conf)
	if err != nil {
		return
	}

	current, err := kernel.Current(r)
	if err != nil {
		return
	}

	installed, err := kernel.Installed(r, pm)
	if err != nil {
		return
	}

	kernels = signer.SelectNewer(current, installed)
	return
}

func detectManager(r runner.Runner, conf config.Config) (pm pkgmgr.Kind, err error) {
	if conf.PackageManager != pkgmgr.None {
		pm = conf.PackageManager
		log.Debug().Msgf("package manager %s (from configuration)", pm)
		return
	}

	return pkgmgr.Detect(r)
}

func logHostInfo() {
	var si sysinfo.SysInfo
	si.GetSysInfo()

	log.Info().
		Str("vendor", si.OS.Vendor).
		Str("release", si.OS.Version).
		Str("kernel", si.Kernel.Release).
		Msg("host")
}

func genOkFail(ok bool) (aurv aurora.Value) {
	if ok {
		aurv = aurora.BgGreen(aurora.Black(" OK "))
	} else {
		aurv = aurora.BgRed(aurora.White(aurora.Bold(" FAIL ")))
	}
	return
}
