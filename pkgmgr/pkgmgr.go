package pkgmgr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"code.dumpstack.io/tools/modsign/runner"
)

// Kind of the package manager
type Kind int

const (
	None Kind = iota
	// RPM https://rpm.org/
	RPM
	// Dpkg https://wiki.debian.org/Teams/Dpkg
	Dpkg
	// Pacman https://wiki.archlinux.org/title/pacman
	Pacman
)

var Kinds = []Kind{RPM, Dpkg, Pacman}

var nameStrings = [...]string{
	"",
	"rpm",
	"dpkg",
	"pacman",
}

func NewKind(name string) (kind Kind, err error) {
	err = kind.UnmarshalTOML([]byte(name))
	return
}

func (kind Kind) String() string {
	return nameStrings[kind]
}

// UnmarshalTOML is for support github.com/naoina/toml
func (kind *Kind) UnmarshalTOML(data []byte) (err error) {
	name := strings.Trim(string(data), `"`)
	if strings.EqualFold(name, "rpm") {
		*kind = RPM
	} else if strings.EqualFold(name, "dpkg") {
		*kind = Dpkg
	} else if strings.EqualFold(name, "pacman") {
		*kind = Pacman
	} else if name != "" {
		err = fmt.Errorf("package manager %s is not supported", name)
	} else {
		*kind = None
	}
	return
}

// MarshalTOML is for support github.com/naoina/toml
func (kind Kind) MarshalTOML() (data []byte, err error) {
	data = []byte(`"` + kind.String() + `"`)
	return
}

// ErrNotFound means none of the supported package managers is
// installed on this host.
var ErrNotFound = errors.New("package manager could not be determined")

type probe struct {
	kind    Kind
	command string
	args    []string
}

// The low-level package database tool (rpm) is probed rather than a
// front end (dnf) so more systems are covered. --version is about
// the fastest invocation that reliably exits 0; running the tool
// with no arguments usually exits 1 even when it is installed.
// If multiple package managers are present only the first probed
// is ever detected.
var probes = []probe{
	{RPM, "rpm", []string{"--version"}},
	{Dpkg, "dpkg", []string{"--version"}},
	{Pacman, "pacman", []string{"--version"}},
}

// Detect returns the first supported package manager whose probe
// command exits 0.
func Detect(r runner.Runner) (kind Kind, err error) {
	for _, p := range probes {
		status := r.Status(p.command, p.args...)
		log.Debug().Msgf("probe %s: exit status %d", p.command, status)

		if status == 0 {
			kind = p.kind
			log.Debug().Msgf("package manager %s", kind)
			return
		}
	}

	err = ErrNotFound
	return
}

// ListCommand returns the command that lists installed kernel
// packages for this package manager, plus a substring filter to
// apply to its output lines. The filter replaces the shell pipe
// through grep that dpkg and pacman would otherwise need, since no
// shell is involved when the command runs.
func (kind Kind) ListCommand() (command string, args []string, filter string) {
	switch kind {
	case RPM:
		command, args = "rpm", []string{"-qa", "kernel"}
	case Dpkg:
		command, args = "dpkg", []string{"--list"}
		filter = "linux-image"
	case Pacman:
		command, args = "pacman", []string{"-Q"}
		filter = "linux"
	}
	return
}
