package sfcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrCommandTimeout - the subprocess hit the configured timeout.
var ErrCommandTimeout = errors.New("sf command timed out")

// Runner executes SF CLI subcommands. The interface exists so handlers and
// services can be tested against a mock instead of a real installation.
type Runner interface {
	Run(ctx context.Context, args ...string) (stdout, stderr []byte, err error)
}

// CLI - runs subcommands of a resolved SF CLI installation. Each call spawns
// exactly one subprocess and waits for it; there is no shared mutable state,
// so a single CLI value is safe for concurrent requests.
type CLI struct {
	command Command
	timeout time.Duration
	sugar   *zap.SugaredLogger
}

// NewCLI resolves the SF CLI and returns a runner for it. When binOverride
// is non-empty detection is skipped and the given executable is used as-is.
func NewCLI(ctx context.Context, binOverride string, timeout time.Duration, sugar *zap.SugaredLogger) (*CLI, error) {
	if binOverride != "" {
		return &CLI{command: Command{binOverride}, timeout: timeout, sugar: sugar}, nil
	}

	command, err := NewDetector(sugar).Detect(ctx)
	if err != nil {
		return nil, err
	}
	return &CLI{command: command, timeout: timeout, sugar: sugar}, nil
}

// Run executes one SF CLI invocation under the configured timeout and
// returns captured stdout and stderr. A non-zero exit or timeout is
// reported through err; stdout and stderr are returned in either case so
// callers can surface partial output.
func (c *CLI) Run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	argv := append(append([]string{}, c.command[1:]...), args...)
	cmd := exec.CommandContext(ctx, c.command[0], argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.sugar.Debugf("running: %s %s", strings.Join(c.command, " "), strings.Join(args, " "))

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%w after %s", ErrCommandTimeout, c.timeout)
		}
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("sf command failed: %w: %s", err, firstLine(stderr.String()))
	}

	return stdout.Bytes(), stderr.Bytes(), nil
}

// Command reports the resolved invocation prefix, for log messages.
func (c *CLI) Command() Command {
	return c.command
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
