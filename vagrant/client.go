// Package vagrant drives a hypernode-vagrant checkout through the vagrant,
// git, ssh, rsync and sudo executables.
//
// There is no Go API for Vagrant, so every operation is a child process.
// All of them go through an Exec function which tests replace with a
// recorder.
package vagrant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/byteinternet/hypernode-vagrant-runner/tui"
)

const (
	// Host is the alias the box gets in the generated ssh config.
	Host = "hypernode"

	sshConfigName = ".hypernode-ssh-config"
)

// Client operates on one hypernode-vagrant checkout.
type Client struct {
	dir  string
	exec Exec
	log  *tui.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type Option func(*Client)

// WithExec replaces the function that starts child processes.
func WithExec(e Exec) Option {
	return func(c *Client) { c.exec = e }
}

// WithStdin sets the reader forwarded to interactive commands.
func WithStdin(r io.Reader) Option {
	return func(c *Client) { c.stdin = r }
}

func NewClient(dir string, log *tui.Logger, opts ...Option) *Client {
	c := &Client{
		dir:    dir,
		exec:   OSExec,
		log:    log,
		stdin:  os.Stdin,
		stdout: log.Writer(),
		stderr: log.ErrWriter(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Dir() string { return c.dir }

func (c *Client) run(ctx context.Context, cmd Cmd) error {
	if cmd.Stdout == nil {
		cmd.Stdout = c.stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = c.stderr
	}
	c.log.Debug("running %s", cmd)
	return c.exec(ctx, cmd)
}

// TrySudo asks for sudo credentials up front. Vagrant needs root for NFS
// exports and host entries and would otherwise prompt halfway through
// booting.
func (c *Client) TrySudo(ctx context.Context) error {
	if err := c.run(ctx, Cmd{Name: "sudo", Args: []string{"-v"}, Stdin: c.stdin}); err != nil {
		return fmt.Errorf("sudo check failed (use --skip-try-sudo to skip it): %w", err)
	}
	return nil
}

// Clone checks out repo into the client directory, which must not exist
// or be empty.
func (c *Client) Clone(ctx context.Context, repo string) error {
	err := c.run(ctx, Cmd{
		Name: "git",
		Args: []string{"clone", "--depth", "1", repo, c.dir},
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", repo, err)
	}
	return nil
}

// Up boots the box. With provision false vagrant skips the provisioners.
func (c *Client) Up(ctx context.Context, provision bool) error {
	args := []string{"up"}
	if !provision {
		args = append(args, "--no-provision")
	}
	if err := c.run(ctx, Cmd{Dir: c.dir, Name: "vagrant", Args: args}); err != nil {
		return fmt.Errorf("vagrant up: %w", err)
	}
	return nil
}

// Destroy force-destroys the box.
func (c *Client) Destroy(ctx context.Context) error {
	if err := c.run(ctx, Cmd{Dir: c.dir, Name: "vagrant", Args: []string{"destroy", "-f"}}); err != nil {
		return fmt.Errorf("vagrant destroy: %w", err)
	}
	return nil
}

// SSHConfig writes the box's ssh configuration into the checkout and returns
// the file path.
func (c *Client) SSHConfig(ctx context.Context) (string, error) {
	var out bytes.Buffer
	err := c.run(ctx, Cmd{
		Dir:    c.dir,
		Name:   "vagrant",
		Args:   []string{"ssh-config", "--host", Host},
		Stdout: &out,
	})
	if err != nil {
		return "", fmt.Errorf("vagrant ssh-config: %w", err)
	}
	if !strings.Contains(out.String(), "Host "+Host) {
		return "", fmt.Errorf("vagrant ssh-config: no entry for host %q", Host)
	}

	path := filepath.Join(c.dir, sshConfigName)
	if err := os.WriteFile(path, out.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("write ssh config: %w", err)
	}
	return path, nil
}

// Upload copies the contents of src to dest inside the box as user.
func (c *Client) Upload(ctx context.Context, sshConfig, src, user, dest string) error {
	src = filepath.Clean(src) + string(filepath.Separator)
	err := c.run(ctx, Cmd{
		Name: "rsync",
		Args: []string{
			"-az",
			"-e", "ssh -F " + shellQuote(sshConfig),
			src,
			fmt.Sprintf("%s@%s:%s/", user, Host, strings.TrimSuffix(dest, "/")),
		},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", src, err)
	}
	return nil
}

// RunCommand executes command in the box as user. When workDir is not empty
// the command runs there. A non-zero exit is returned as *ExitError.
func (c *Client) RunCommand(ctx context.Context, sshConfig, user, workDir, command string, tty bool) error {
	remote := command
	if workDir != "" {
		remote = fmt.Sprintf("cd %s && %s", shellQuote(workDir), command)
	}

	args := []string{"-F", sshConfig}
	if tty {
		args = append(args, "-t")
	}
	args = append(args, "-l", user, Host, remote)

	return c.run(ctx, Cmd{Name: "ssh", Args: args, Stdin: c.stdin})
}
