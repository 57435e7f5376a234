// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hooktools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"
)

// CommandRunner allows to run commands on the underlying system.
type CommandRunner interface {
	RunCommands(run exec.RunParams) (*exec.ExecResponse, error)
}

type defaultRunner struct{}

// RunCommands executes the Commands specified in the RunParams using
// '/bin/bash -s', passing the commands through as stdin, and collecting
// stdout and stderr. A non-zero return code is collected in the response
// and is not classified as an error.
func (defaultRunner) RunCommands(run exec.RunParams) (*exec.ExecResponse, error) {
	return exec.RunCommands(run)
}

// DefaultRunner runs hook tools found on the PATH set up by the agent.
var DefaultRunner CommandRunner = defaultRunner{}

// toolError is returned when a hook tool exits with a non-zero code.
type toolError struct {
	tool   string
	code   int
	stderr string
}

func (e *toolError) Error() string {
	if e.stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.tool, e.code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.tool, e.code, e.stderr)
}

// runTool runs the named hook tool with the given arguments and returns
// its standard output.
func runTool(runner CommandRunner, tool string, args ...string) ([]byte, error) {
	command := shellquote.Join(append([]string{tool}, args...)...)
	result, err := runner.RunCommands(exec.RunParams{
		Commands: command,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "running %s", tool)
	}
	if result.Code != 0 {
		return nil, &toolError{
			tool:   tool,
			code:   result.Code,
			stderr: strings.TrimSpace(string(result.Stderr)),
		}
	}
	return result.Stdout, nil
}

// runToolJSON runs a hook tool that supports --format=json and decodes its
// output into v.
func runToolJSON(runner CommandRunner, v interface{}, tool string, args ...string) error {
	out, err := runTool(runner, tool, append(args, "--format=json")...)
	if err != nil {
		return errors.Trace(err)
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return nil
	}
	if err := json.Unmarshal(out, v); err != nil {
		return errors.Annotatef(err, "decoding %s output", tool)
	}
	return nil
}
