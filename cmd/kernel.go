// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/olekukonko/tablewriter"

	"code.dumpstack.io/tools/modsign/config"
	"code.dumpstack.io/tools/modsign/kernel"
	"code.dumpstack.io/tools/modsign/runner"
)

type KernelCmd struct {
	List KernelListCmd `cmd:"" help:"list installed kernels"`
}

type KernelListCmd struct{}

func (cmd *KernelListCmd) Run(g *Globals) (err error) {
	conf, err := config.Read(g.Config)
	if err != nil {
		return
	}

	r := runner.Host{}

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

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kernel", "Relation"})

	for _, krel := range installed {
		var relation string
		switch kernel.CompareVersions(krel, current) {
		case 1:
			relation = "newer"
		case -1:
			relation = "older"
		default:
			relation = "current"
		}

		table.Append([]string{krel, relation})
	}

	table.Render()
	return
}
