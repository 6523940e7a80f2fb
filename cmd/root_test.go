package cmd

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/byteinternet/hypernode-vagrant-runner/hypernode"
	"github.com/byteinternet/hypernode-vagrant-runner/runner"
	"github.com/byteinternet/hypernode-vagrant-runner/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	called bool
	cfg    runner.Config
	log    *tui.Logger
	err    error
}

func run(t *testing.T, args ...string) (*fakeLauncher, error) {
	t.Helper()
	f := &fakeLauncher{}
	root := NewRootCommand(func(log *tui.Logger) (runner.Launcher, error) {
		f.log = log
		return runner.LaunchFunc(func(_ context.Context, cfg runner.Config) error {
			f.called = true
			f.cfg = cfg
			return f.err
		}), nil
	})
	root.Writer = io.Discard
	root.ErrWriter = io.Discard

	err := Execute(context.Background(), root, append([]string{"hypernode-vagrant-runner"}, args...))
	return f, err
}

func requireUsageError(t *testing.T, err error) *runner.UsageError {
	t.Helper()
	var usageErr *runner.UsageError
	require.True(t, errors.As(err, &usageErr), "expected a usage error, got %v", err)
	return usageErr
}

func TestRootCommand_NoSubcommands(t *testing.T) {
	root := RootCommand()
	assert.Equal(t, "hypernode-vagrant-runner", root.Name)
	assert.Empty(t, root.Commands)
}

func TestRun_Defaults(t *testing.T) {
	f, err := run(t)
	require.NoError(t, err)
	require.True(t, f.called)

	assert.Equal(t, runner.DefaultConfig(), f.cfg)
	assert.Equal(t, hypernode.PHP70, f.cfg.PHPVersion)
	assert.Equal(t, hypernode.UserApp, f.cfg.SSHUser)
	assert.False(t, f.cfg.Xenial)
	assert.Equal(t, tui.LevelInfo, f.log.Level())
}

func TestRun_AllFlags(t *testing.T) {
	f, err := run(t,
		"--verbose",
		"--run-once",
		"--project-path", "/src/shop",
		"--command-to-run", "sh runtests.sh",
		"--pre-existing-vagrant-path", "/src/hypernode-vagrant",
		"--php", "7.2",
		"--enable-xdebug",
		"--skip-try-sudo",
		"--user", "root",
		"--xenial",
		"--no-provision",
	)
	require.NoError(t, err)

	assert.Equal(t, runner.Config{
		Verbose:                true,
		RunOnce:                true,
		ProjectPath:            "/src/shop",
		CommandToRun:           "sh runtests.sh",
		PreExistingVagrantPath: "/src/hypernode-vagrant",
		PHPVersion:             hypernode.PHP72,
		SSHUser:                hypernode.UserRoot,
		XdebugEnabled:          true,
		SkipTrySudo:            true,
		Xenial:                 true,
		NoProvision:            true,
	}, f.cfg)
}

func TestRun_ShortFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg runner.Config)
	}{
		{"-v", []string{"-v"}, func(t *testing.T, cfg runner.Config) {
			assert.True(t, cfg.Verbose)
		}},
		{"-1", []string{"-1"}, func(t *testing.T, cfg runner.Config) {
			assert.True(t, cfg.RunOnce)
		}},
		{"-c", []string{"-c", "make test"}, func(t *testing.T, cfg runner.Config) {
			assert.Equal(t, "make test", cfg.CommandToRun)
		}},
		{"-p", []string{"-p", "/src/hv"}, func(t *testing.T, cfg runner.Config) {
			assert.Equal(t, "/src/hv", cfg.PreExistingVagrantPath)
		}},
		{"-1 followed by more flags", []string{"-1", "-v", "--php", "7.2", "--xenial", "-c", "sh runtests.sh"}, func(t *testing.T, cfg runner.Config) {
			assert.True(t, cfg.RunOnce)
			assert.True(t, cfg.Verbose)
			assert.Equal(t, hypernode.PHP72, cfg.PHPVersion)
			assert.True(t, cfg.Xenial)
			assert.Equal(t, "sh runtests.sh", cfg.CommandToRun)
		}},
		{"-1 after other flags", []string{"-c", "make test", "-1"}, func(t *testing.T, cfg runner.Config) {
			assert.True(t, cfg.RunOnce)
			assert.Equal(t, "make test", cfg.CommandToRun)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := run(t, tt.args...)
			require.NoError(t, err)
			require.True(t, f.called)
			tt.check(t, f.cfg)
		})
	}
}

func TestRun_Verbosity(t *testing.T) {
	f, err := run(t, "--verbose")
	require.NoError(t, err)
	assert.Equal(t, tui.LevelDebug, f.log.Level())

	f, err = run(t)
	require.NoError(t, err)
	assert.Equal(t, tui.LevelInfo, f.log.Level())
}

func TestRun_PreciseCompatibility(t *testing.T) {
	for _, php := range hypernode.PHPVersions {
		t.Run(string(php), func(t *testing.T) {
			f, err := run(t, "--php", string(php), "--xenial")
			require.NoError(t, err, "every version runs on xenial")
			assert.Equal(t, php, f.cfg.PHPVersion)
			assert.True(t, f.cfg.Xenial)

			f, err = run(t, "--php", string(php))
			if hypernode.Supports(hypernode.Precise, php) {
				require.NoError(t, err)
				assert.True(t, f.called)
				return
			}

			requireUsageError(t, err)
			assert.Contains(t, err.Error(), "PHP"+string(php))
			assert.Contains(t, err.Error(), "--xenial")
			assert.False(t, f.called, "launcher must not run")
		})
	}
}

func TestRun_PHP71RequiresXenial(t *testing.T) {
	f, err := run(t, "--php", "7.1")
	requireUsageError(t, err)
	assert.Equal(t, "Can't use the Precise Hypernode with PHP7.1. Add the --xenial flag to use the Xenial version", err.Error())
	assert.False(t, f.called)

	f, err = run(t, "--php", "7.1", "--xenial")
	require.NoError(t, err)
	assert.True(t, f.called)
}

func TestRun_InvalidEnums(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown php", []string{"--php", "8.3"}, "argument --php"},
		{"unknown php with xenial", []string{"--php", "8.3", "--xenial", "--run-once"}, "argument --php"},
		{"unknown user", []string{"--user", "vagrant"}, "argument --user"},
		{"unknown user with valid php", []string{"--user", "admin", "--php", "5.6"}, "argument --user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := run(t, tt.args...)
			requireUsageError(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.False(t, f.called)
		})
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	f, err := run(t, "--bogus")
	require.Error(t, err)
	assert.False(t, f.called)
}

func TestRun_PositionalArguments(t *testing.T) {
	f, err := run(t, "--xenial", "extra")
	requireUsageError(t, err)
	assert.Contains(t, err.Error(), "unrecognized arguments: extra")
	assert.False(t, f.called)
}

func TestRun_LauncherErrorIsReturned(t *testing.T) {
	boom := errors.New("vagrant up failed")
	f := &fakeLauncher{}
	root := NewRootCommand(func(log *tui.Logger) (runner.Launcher, error) {
		return runner.LaunchFunc(func(context.Context, runner.Config) error {
			f.called = true
			return boom
		}), nil
	})
	root.Writer = io.Discard
	root.ErrWriter = io.Discard

	err := root.Run(context.Background(), []string{"hypernode-vagrant-runner"})
	assert.ErrorIs(t, err, boom)
	assert.True(t, f.called)
}

func TestRun_FactoryError(t *testing.T) {
	root := NewRootCommand(func(*tui.Logger) (runner.Launcher, error) {
		return nil, errors.New("config: bad yaml")
	})
	root.Writer = io.Discard
	root.ErrWriter = io.Discard

	err := root.Run(context.Background(), []string{"hypernode-vagrant-runner"})
	assert.EqualError(t, err, "config: bad yaml")
}
