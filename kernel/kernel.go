// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

package kernel

import (
	"strings"

	"github.com/rs/zerolog/log"

	"code.dumpstack.io/tools/modsign/pkgmgr"
	"code.dumpstack.io/tools/modsign/runner"
)

// Current returns the version of the running kernel.
func Current(r runner.Runner) (version string, err error) {
	output, err := r.Output("uname", "-r")
	if err != nil {
		return
	}

	version, err = ExtractVersion(strings.TrimSpace(output))
	if err != nil {
		return
	}

	log.Debug().Msgf("current kernel %s", version)
	return
}

// Installed lists the versions of all installed kernels in the order
// the package manager reports them. No deduplication, no sorting. A
// line that yields no version token fails the whole enumeration.
func Installed(r runner.Runner, pm pkgmgr.Kind) (versions []string, err error) {
	command, args, filter := pm.ListCommand()

	output, err := r.Output(command, args...)
	if err != nil {
		return
	}

	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		if filter != "" && !strings.Contains(line, filter) {
			continue
		}

		var version string
		version, err = ExtractVersion(line)
		if err != nil {
			return
		}

		versions = append(versions, version)
	}

	log.Debug().Msgf("installed kernels %v", versions)
	return
}
