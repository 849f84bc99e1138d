package kernel

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"code.dumpstack.io/tools/modsign/pkgmgr"
)

func init() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: true,
	})
}

type fakeRunner struct {
	outputs  map[string]string
	statuses map[string]int
}

func (f fakeRunner) Output(command string, args ...string) (string, error) {
	key := strings.Join(append([]string{command}, args...), " ")
	output, ok := f.outputs[key]
	if !ok {
		return "", errors.New("cannot run " + key)
	}
	return output, nil
}

func (f fakeRunner) Status(command string, args ...string) int {
	key := strings.Join(append([]string{command}, args...), " ")
	status, ok := f.statuses[key]
	if !ok {
		return 127
	}
	return status
}

func TestCurrent(t *testing.T) {
	assert := assert.New(t)

	r := fakeRunner{outputs: map[string]string{
		"uname -r": "4.7.2-201\n",
	}}

	current, err := Current(r)
	assert.NoError(err)
	assert.Equal("4.7.2-201", current)
}

func TestCurrentUnameMissing(t *testing.T) {
	_, err := Current(fakeRunner{})
	if err == nil {
		t.Fatal("expected an error when uname cannot run")
	}
}

func TestInstalledRPM(t *testing.T) {
	assert := assert.New(t)

	r := fakeRunner{outputs: map[string]string{
		"rpm -qa kernel": "kernel-4.5.5\nkernel-4.7.2-201\n",
	}}

	installed, err := Installed(r, pkgmgr.RPM)
	assert.NoError(err)
	assert.Equal([]string{"4.5.5", "4.7.2-201"}, installed)
}

func TestInstalledDpkgFiltersHeader(t *testing.T) {
	assert := assert.New(t)

	// dpkg --list prints a header with no version tokens, and
	// unrelated packages; only linux-image lines survive.
	output := "Desired=Unknown/Install/Remove/Purge/Hold\n" +
		"||/ Name            Version      Architecture\n" +
		"+++-===============-============-============\n" +
		"ii  linux-image-5.10.0-8-amd64 5.10.0-8 amd64\n" +
		"ii  vim             2:8.2        amd64\n"

	r := fakeRunner{outputs: map[string]string{
		"dpkg --list": output,
	}}

	installed, err := Installed(r, pkgmgr.Dpkg)
	assert.NoError(err)
	assert.Equal([]string{"5.10.0-8-amd64"}, installed)
}

func TestInstalledBadLineIsFatal(t *testing.T) {
	assert := assert.New(t)

	r := fakeRunner{outputs: map[string]string{
		"rpm -qa kernel": "kernel-4.5.5\nkernel\n",
	}}

	_, err := Installed(r, pkgmgr.RPM)
	assert.Error(err)

	var parseErr *ParseError
	assert.ErrorAs(err, &parseErr)
}

func TestInstalledEmptyOutputIsFatal(t *testing.T) {
	r := fakeRunner{outputs: map[string]string{
		"rpm -qa kernel": "",
	}}

	_, err := Installed(r, pkgmgr.RPM)
	if err == nil {
		t.Fatal("expected an error for empty listing output")
	}
}
