package storage

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
)

// AWSCLI runs the aws executable.
type AWSCLI struct {
	// Binary defaults to "aws".
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the aws command with args. Credentials come from the
// environment.
func (c AWSCLI) Run(ctx context.Context, args ...string) error {
	bin := c.Binary
	if bin == "" {
		bin = "aws"
	}
	logger := logging.GetLogger("storage")
	logger.Debug().Str("binary", bin).Strs("args", args).Msg("running aws cli")

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), "LC_CTYPE=en_US.UTF-8")
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		e := errors.Wrap(err, errors.ErrSync, "aws cli failed").WithDetail("args", args)
		if exit, ok := err.(*exec.ExitError); ok {
			e = e.WithDetail("exit_code", exit.ExitCode())
		}
		return e
	}
	return nil
}

// Sync mirrors from into to with "aws s3 sync".
func (c AWSCLI) Sync(ctx context.Context, from, to string) error {
	return c.Run(ctx, "s3", "sync", from, to)
}

// Download copies an artifact from its remote location to its local path.
func (c AWSCLI) Download(ctx context.Context, a config.Artifact) error {
	if a.Remote == "" {
		return errors.New(errors.ErrInvalidInput, "artifact has no remote location")
	}
	if a.Name != "" {
		return c.Run(ctx, "s3", "cp", a.RemotePath(), a.Path())
	}
	return c.Sync(ctx, a.Remote, a.LocalAbsolute)
}

// Upload copies an artifact from its local path to its remote location.
func (c AWSCLI) Upload(ctx context.Context, a config.Artifact) error {
	if a.Remote == "" {
		return errors.New(errors.ErrInvalidInput, "artifact has no remote location")
	}
	if a.Name != "" {
		return c.Run(ctx, "s3", "cp", a.Path(), a.RemotePath())
	}
	return c.Sync(ctx, a.LocalAbsolute, a.Remote)
}
