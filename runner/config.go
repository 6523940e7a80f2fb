// Package runner holds the validated configuration for one run and the
// launcher that turns it into a running Hypernode box.
package runner

import (
	"context"
	"fmt"

	"github.com/byteinternet/hypernode-vagrant-runner/hypernode"
)

// Config is the validated result of parsing the command line. It is built
// once and passed by value.
type Config struct {
	Verbose                bool
	RunOnce                bool
	ProjectPath            string
	CommandToRun           string
	PreExistingVagrantPath string
	PHPVersion             hypernode.PHPVersion
	SSHUser                hypernode.SSHUser
	XdebugEnabled          bool
	SkipTrySudo            bool
	Xenial                 bool
	NoProvision            bool
}

// DefaultConfig returns the configuration of an invocation without flags.
func DefaultConfig() Config {
	return Config{
		PHPVersion: hypernode.DefaultPHPVersion,
		SSHUser:    hypernode.DefaultSSHUser,
	}
}

// Image returns the Ubuntu image the box is built on.
func (c Config) Image() hypernode.Image {
	if c.Xenial {
		return hypernode.Xenial
	}
	return hypernode.Precise
}

// Validate checks the cross-field rules the flag parser cannot express.
func (c Config) Validate() error {
	if !hypernode.Supports(c.Image(), c.PHPVersion) {
		return Usagef("Can't use the Precise Hypernode with PHP%s. "+
			"Add the --xenial flag to use the Xenial version", c.PHPVersion)
	}
	return nil
}

// UsageError reports invalid command-line input.
type UsageError struct {
	msg string
}

func Usagef(format string, args ...any) *UsageError {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string { return e.msg }

// Launcher starts a box for a validated configuration. Launch blocks until
// the run is over.
type Launcher interface {
	Launch(ctx context.Context, cfg Config) error
}

// LaunchFunc adapts a function to the Launcher interface.
type LaunchFunc func(ctx context.Context, cfg Config) error

func (f LaunchFunc) Launch(ctx context.Context, cfg Config) error { return f(ctx, cfg) }
