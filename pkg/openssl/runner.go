// Package openssl wraps the external command-line X.509 toolkit. Every
// invocation is synchronous, appends the shared -config reference and fails
// the run on any non-zero exit.
package openssl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lamassuiot/pkix-fixtures/pkg/config"
	"github.com/lamassuiot/pkix-fixtures/pkg/errs"
)

// Environment variables read by the toolkit config file. They are set on the
// child process environment only, never on this process, so no state leaks
// between invocations.
const (
	EnvCAHome         = "CAHOME"
	EnvSubjectAltName = "SAN"
)

type Runner struct {
	logger     *logrus.Entry
	binary     string
	configFile string
}

func NewRunner(logger *logrus.Entry, conf config.ToolkitConfig) *Runner {
	return &Runner{
		logger:     logger.WithField("subsystem-provider", conf.Binary),
		binary:     conf.Binary,
		configFile: conf.ConfigFile,
	}
}

// Run executes one toolkit command and blocks until it exits. extraEnv is
// merged into the child environment for this call only. Arguments are passed
// as an argv slice, so values containing whitespace are safe.
func (r *Runner) Run(ctx context.Context, extraEnv map[string]string, args ...string) error {
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, args...)
	argv = append(argv, "-config", r.configFile)

	cmdline := fmt.Sprintf("%s %s", r.binary, strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, r.binary, argv...)
	cmd.Env = os.Environ()
	for key, value := range extraEnv {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.logger.Debugf("executing '%s'", cmdline)
	err := cmd.Run()
	if output.Len() > 0 {
		r.logger.Debugf("toolkit output: %s", strings.TrimSpace(output.String()))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: '%s' exited with code %d: %s",
				errs.ErrToolkitExec, cmdline, exitErr.ExitCode(), strings.TrimSpace(output.String()))
		}
		return fmt.Errorf("%w: '%s': %v", errs.ErrToolkitExec, cmdline, err)
	}

	return nil
}
