// Copyright 2024 Mikhail Klementev. All rights reserved.
// Use of this source code is governed by a AGPLv3 license
// (or later) that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/naoina/toml"

	"code.dumpstack.io/tools/modsign/pkgmgr"
)

// ErrRead means the configuration file exists but cannot be opened.
var ErrRead = errors.New("cannot open configuration file")

// ErrMalformed means the configuration file is not valid TOML or
// holds values of the wrong shape.
var ErrMalformed = errors.New("configuration file is malformed")

// ModuleEntry describes one directory of out-of-tree kernel modules,
// relative to ModulesDir/<kernel>.
type ModuleEntry struct {
	Name      string
	Directory string
	Files     []string
}

type Config struct {
	// PackageManager skips probing when set.
	PackageManager pkgmgr.Kind

	// Hash is passed as the first argument to scripts/sign-file.
	Hash string

	// KernelSourceDir holds per-kernel build trees; the signing
	// binary lives at KernelSourceDir/<kernel>/scripts/sign-file.
	KernelSourceDir string

	// ModulesDir holds per-kernel module trees.
	ModulesDir string

	// BuildAkmods runs akmods for each kernel before signing.
	BuildAkmods bool

	Modules []ModuleEntry
}

// Defaults covers the common case this tool exists for: the
// proprietary Nvidia driver on an rpm-based distro.
func Defaults() (c Config) {
	c.Hash = "sha256"
	c.KernelSourceDir = "/usr/src/kernels"
	c.ModulesDir = "/usr/lib/modules"
	c.Modules = []ModuleEntry{
		{
			Name:      "nvidia",
			Directory: "extra/nvidia",
			Files: []string{
				"nvidia-drm.ko",
				"nvidia.ko",
				"nvidia-modeset.ko",
				"nvidia-uvm.ko",
			},
		},
	}
	return
}

// Read loads the configuration from path, falling back to Defaults
// when no file exists there.
func Read(path string) (c Config, err error) {
	c = Defaults()

	path, err = homedir.Expand(path)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRead, err)
		return
	}

	buf, rerr := ioutil.ReadFile(path)
	if rerr != nil {
		if os.IsNotExist(rerr) {
			return
		}
		err = fmt.Errorf("%w: %v", ErrRead, rerr)
		return
	}

	err = toml.Unmarshal(buf, &c)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return
}
