// Package tools runs the external data tooling (great_expectations, dbt) as subprocesses.
package tools

import (
	"bytes"
	"context"
	"easy11ML/business/pipeline"
	"easy11ML/pkg/logger"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

type CommandRunner struct {
	dir string
	env []string
}

var _ pipeline.CommandRunner = (*CommandRunner)(nil)

// NewCommandRunner runs commands in dir (the current directory when empty) with extra
// KEY=VALUE entries appended to the inherited environment.
func NewCommandRunner(dir string, env ...string) *CommandRunner {
	return &CommandRunner{dir: dir, env: env}
}

// Run returns the combined output; a missing binary or non-zero exit is an error.
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	logger.Debug("command finished",
		"command", name,
		"args", strings.Join(args, " "),
		"duration", time.Since(start).String(),
		"error", err,
	)
	if err != nil {
		return out.String(), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out.String(), nil
}
