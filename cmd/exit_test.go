package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"code.dumpstack.io/tools/modsign/config"
	"code.dumpstack.io/tools/modsign/kernel"
	"code.dumpstack.io/tools/modsign/pkgmgr"
	"code.dumpstack.io/tools/modsign/signer"
)

func TestExitCode(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		err   error
		code  int
		known bool
	}{
		{nil, ExitSuccess, true},
		{pkgmgr.ErrNotFound, ExitNoPackageManager, true},
		{&signer.SignError{Module: "nvidia.ko"}, ExitSignFailed, true},
		{&kernel.ParseError{Line: "no version"}, ExitVersionParse, true},
		{fmt.Errorf("%w: permission denied", config.ErrRead), ExitConfigRead, true},
		{fmt.Errorf("%w: bad toml", config.ErrMalformed), ExitConfigMalformed, true},
		{&signer.ModulesDirError{Kernel: "5.12.1"}, ExitModulesDir, true},
		{&signer.AkmodsError{Kernel: "5.12.1"}, ExitAkmods, true},
		{errors.New("something else"), 1, false},
	} {
		code, known := ExitCode(tc.err)
		assert.Equal(tc.code, code, "%v", tc.err)
		assert.Equal(tc.known, known, "%v", tc.err)
	}
}

func TestExitDescriptions(t *testing.T) {
	// one description per exit code
	assert.Len(t, exitDescriptions, ExitAkmods+1)
}
