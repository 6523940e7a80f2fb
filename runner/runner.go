package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/byteinternet/hypernode-vagrant-runner/config"
	"github.com/byteinternet/hypernode-vagrant-runner/tui"
	"github.com/byteinternet/hypernode-vagrant-runner/vagrant"
	"github.com/rs/xid"
	"golang.org/x/term"
	"golang.org/x/time/rate"
)

const (
	checkoutPrefix      = "hypernode-vagrant-"
	uploadRetryInterval = 5 * time.Second
)

// Runner is the default Launcher. It checks out hypernode-vagrant, boots a
// box, uploads the project, runs the command and destroys the box again.
type Runner struct {
	settings config.Settings
	log      *tui.Logger

	exec          vagrant.Exec
	stdin         io.Reader
	tempDir       string
	retryInterval time.Duration
	isTerminal    func() bool
}

type Option func(*Runner)

func WithExec(e vagrant.Exec) Option {
	return func(r *Runner) { r.exec = e }
}

func WithStdin(in io.Reader) Option {
	return func(r *Runner) { r.stdin = in }
}

// WithTempDir sets the directory fresh checkouts are cloned into.
func WithTempDir(dir string) Option {
	return func(r *Runner) { r.tempDir = dir }
}

// WithRetryInterval sets the pause between upload attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(r *Runner) { r.retryInterval = d }
}

// WithTerminal overrides terminal detection for the remote command.
func WithTerminal(tty bool) Option {
	return func(r *Runner) { r.isTerminal = func() bool { return tty } }
}

func New(settings config.Settings, log *tui.Logger, opts ...Option) *Runner {
	r := &Runner{
		settings:      settings,
		log:           log,
		exec:          vagrant.OSExec,
		stdin:         os.Stdin,
		tempDir:       os.TempDir(),
		retryInterval: uploadRetryInterval,
		isTerminal:    func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Launch runs cfg to completion. In run-once mode a failing command is
// returned as *vagrant.ExitError; otherwise the box persists until ctx is
// cancelled.
func (r *Runner) Launch(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := xid.New().String()
	tui.PrintHeader(r.log.Writer(), &tui.HeaderInfo{
		RunID: runID,
		PHP:   cfg.PHPVersion.String(),
		Image: cfg.Image().String(),
	})

	projectPath, err := resolveDir(cfg.ProjectPath, "project path")
	if err != nil {
		return err
	}

	dir := filepath.Join(r.tempDir, checkoutPrefix+runID)
	fresh := cfg.PreExistingVagrantPath == ""
	if !fresh {
		if dir, err = resolveDir(cfg.PreExistingVagrantPath, "hypernode-vagrant checkout"); err != nil {
			return err
		}
	}

	client := vagrant.NewClient(dir, r.log, vagrant.WithExec(r.exec), vagrant.WithStdin(r.stdin))

	if !cfg.SkipTrySudo {
		r.log.Status("Checking", "sudo credentials")
		if err := client.TrySudo(ctx); err != nil {
			return err
		}
	}

	if fresh {
		r.log.Status("Cloning", "%s into %s", r.settings.Repository, dir)
		defer func() {
			r.log.Status("Removing", "checkout %s", dir)
			if err := os.RemoveAll(dir); err != nil {
				r.log.Error("%v", err)
			}
		}()
		if err := client.Clone(ctx, r.settings.Repository); err != nil {
			return err
		}
	} else {
		r.log.Status("Using", "checkout %s", dir)
	}

	local := r.settings.LocalConfig(cfg.PHPVersion, cfg.Image(), cfg.XdebugEnabled)
	path, err := local.WriteFile(dir)
	if err != nil {
		return err
	}
	r.log.Debug("wrote %s", path)

	defer func() {
		r.log.Status("Destroying", "hypernode box")
		if err := client.Destroy(context.WithoutCancel(ctx)); err != nil {
			r.log.Error("%v", err)
		}
	}()

	r.log.Status("Starting", "hypernode box (PHP %s on %s)", cfg.PHPVersion, cfg.Image())
	if cfg.NoProvision {
		r.log.Status("Provisioning", "skipped")
	}
	if err := client.Up(ctx, !cfg.NoProvision); err != nil {
		return err
	}

	if projectPath != "" || cfg.CommandToRun != "" {
		if err := r.session(ctx, client, cfg, projectPath); err != nil {
			if cfg.RunOnce {
				return err
			}
			r.log.Error("%v", err)
		}
	}

	if !cfg.RunOnce {
		r.log.Status("Persisting", "box in %s, press CTRL+C to destroy it", dir)
		<-ctx.Done()
	}
	return nil
}

// session uploads the project and runs the command.
func (r *Runner) session(ctx context.Context, client *vagrant.Client, cfg Config, projectPath string) error {
	sshConfig, err := client.SSHConfig(ctx)
	if err != nil {
		return err
	}

	workDir := ""
	if projectPath != "" {
		r.log.Status("Uploading", "%s to %s", projectPath, r.settings.UploadPath)
		if err := r.upload(ctx, client, sshConfig, projectPath, cfg.SSHUser.String()); err != nil {
			return err
		}
		workDir = r.settings.UploadPath
	}

	if cfg.CommandToRun == "" {
		return nil
	}
	r.log.Status("Running", "%q as %s", cfg.CommandToRun, cfg.SSHUser)
	return client.RunCommand(ctx, sshConfig, cfg.SSHUser.String(), workDir, cfg.CommandToRun, r.isTerminal())
}

// upload retries rsync because sshd in a freshly booted box may still
// refuse connections.
func (r *Runner) upload(ctx context.Context, client *vagrant.Client, sshConfig, src, user string) error {
	limiter := rate.NewLimiter(rate.Every(r.retryInterval), 1)

	var err error
	for attempt := 1; attempt <= r.settings.UploadAttempts; attempt++ {
		if werr := limiter.Wait(ctx); werr != nil {
			return fmt.Errorf("upload: %w", werr)
		}
		if err = client.Upload(ctx, sshConfig, src, user, r.settings.UploadPath); err == nil {
			return nil
		}
		r.log.Debug("upload attempt %d/%d failed: %v", attempt, r.settings.UploadAttempts, err)
	}
	return err
}

// resolveDir returns the absolute form of path after checking that it is a
// directory. An empty path stays empty.
func resolveDir(path, what string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s %q does not exist", what, abs)
	} else if os.IsPermission(err) {
		return "", fmt.Errorf("can't access %s %q: %w", what, abs, err)
	} else if err != nil {
		return "", fmt.Errorf("couldn't stat %s %q: %w", what, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s %q is not a directory", what, abs)
	}
	return abs, nil
}
