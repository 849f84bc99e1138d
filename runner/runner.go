package runner

import (
	"bytes"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// NotFoundStatus is what an interactive shell returns for a command
// that does not exist.
const NotFoundStatus = 127

// Runner runs external commands on behalf of the tool. Everything
// that shells out takes a Runner so tests can substitute one.
type Runner interface {
	// Output blocks until the command exits and returns its
	// decoded standard output. The exit status is not inspected:
	// callers parse the output and deal with malformed results
	// themselves, so a successful start is sufficient.
	Output(command string, args ...string) (output string, err error)

	// Status blocks until the command exits and returns its exit
	// status, discarding both output streams. A command that
	// cannot be started at all yields NotFoundStatus, which lets
	// callers treat "not installed" the same as "ran but failed".
	Status(command string, args ...string) (status int)
}

// Host runs commands directly on the host.
type Host struct{}

func (Host) Output(command string, args ...string) (output string, err error) {
	cmd := exec.Command(command, args...)
	log.Debug().Msgf("run %v", cmd)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err = cmd.Run()
	if _, exited := err.(*exec.ExitError); exited {
		err = nil
	}
	if err != nil {
		return
	}

	output = stdout.String()
	return
}

func (Host) Status(command string, args ...string) (status int) {
	cmd := exec.Command(command, args...)
	log.Debug().Msgf("run %v", cmd)

	err := cmd.Run()
	if err == nil {
		return
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		status = exitErr.ExitCode()
		return
	}

	status = NotFoundStatus
	return
}
