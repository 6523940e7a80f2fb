package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/byteinternet/hypernode-vagrant-runner/cmd"
	"github.com/byteinternet/hypernode-vagrant-runner/runner"
	"github.com/byteinternet/hypernode-vagrant-runner/tui"
	"github.com/byteinternet/hypernode-vagrant-runner/vagrant"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return exitCode(cmd.Execute(ctx, cmd.RootCommand(), os.Args))
}

// exitCode maps a run result to the process exit status. Child process
// failures keep their status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	code := 1
	var exitErr *vagrant.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		// The remote command has already reported its own failure.
		if err == error(exitErr) {
			return code
		}
	}

	tui.Error("%v", err)

	var usageErr *runner.UsageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return code
}
