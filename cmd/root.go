package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/byteinternet/hypernode-vagrant-runner/config"
	"github.com/byteinternet/hypernode-vagrant-runner/hypernode"
	"github.com/byteinternet/hypernode-vagrant-runner/runner"
	"github.com/byteinternet/hypernode-vagrant-runner/tui"
	"github.com/urfave/cli/v3"
)

const (
	verboseFlag      = "verbose"
	runOnceFlag      = "run-once"
	projectPathFlag  = "project-path"
	commandToRunFlag = "command-to-run"
	preExistingFlag  = "pre-existing-vagrant-path"
	phpFlag          = "php"
	enableXdebugFlag = "enable-xdebug"
	skipTrySudoFlag  = "skip-try-sudo"
	userFlag         = "user"
	xenialFlag       = "xenial"
	noProvisionFlag  = "no-provision"
)

// LauncherFactory builds the launcher for one invocation from the logger
// configured by the command line.
type LauncherFactory func(log *tui.Logger) (runner.Launcher, error)

// DefaultLauncher loads the runner settings and returns a Vagrant-backed
// launcher.
func DefaultLauncher(log *tui.Logger) (runner.Launcher, error) {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return runner.New(settings, log), nil
}

func RootCommand() *cli.Command {
	return NewRootCommand(DefaultLauncher)
}

func NewRootCommand(factory LauncherFactory) *cli.Command {
	return &cli.Command{
		Name:            "hypernode-vagrant-runner",
		Usage:           "Run a project inside a hypernode-vagrant",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    verboseFlag,
				Aliases: []string{"v"},
				Usage:   "Enable debug output",
			},
			&cli.BoolFlag{
				Name:    runOnceFlag,
				Aliases: []string{"1"},
				Usage:   "Run the provided hook once and destroy the machine. Default persists the machine until CTRL + C",
			},
			&cli.StringFlag{
				Name: projectPathFlag,
				Usage: fmt.Sprintf("Path to upload to the %s directory. If specified the command will be run in this directory. "+
					"Example: ~/code/projects/your_shop", hypernode.UploadPath),
			},
			&cli.StringFlag{
				Name:    commandToRunFlag,
				Aliases: []string{"c"},
				Usage:   `The command to run in the uploaded directory. Example: -c "sh runtests.sh"`,
			},
			&cli.StringFlag{
				Name:    preExistingFlag,
				Aliases: []string{"p"},
				Usage:   "Path to an existing hypernode-vagrant checkout. By default a new checkout in a temporary directory is used",
			},
			&cli.StringFlag{
				Name:  phpFlag,
				Value: hypernode.DefaultPHPVersion.String(),
				Usage: fmt.Sprintf("Specify a PHP version {%s}", hypernode.Choices(hypernode.PHPVersions)),
			},
			&cli.BoolFlag{
				Name:  enableXdebugFlag,
				Usage: "Enable xdebug in the Vagrant",
			},
			&cli.BoolFlag{
				Name:  skipTrySudoFlag,
				Usage: "Do not test sudo before attempting to start the Vagrant",
			},
			&cli.StringFlag{
				Name:  userFlag,
				Value: hypernode.DefaultSSHUser.String(),
				Usage: fmt.Sprintf("The SSH user to run the command as {%s}", hypernode.Choices(hypernode.SSHUsers)),
			},
			&cli.BoolFlag{
				Name:  xenialFlag,
				Usage: "Start a Xenial Hypernode",
			},
			&cli.BoolFlag{
				Name:  noProvisionFlag,
				Usage: `Run "vagrant up" with the --no-provision flag`,
			},
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return runner.Usagef("%v", err)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := ParseConfig(cmd)
			if err != nil {
				return err
			}

			log := tui.NewLogger(tui.LevelFor(cfg.Verbose))
			log.Debug("configuration: %+v", cfg)

			launcher, err := factory(log)
			if err != nil {
				return err
			}
			return launcher.Launch(ctx, cfg)
		},
	}
}

// ParseConfig reads the parsed flags into a validated runner.Config.
func ParseConfig(cmd *cli.Command) (runner.Config, error) {
	if cmd.Args().Present() {
		return runner.Config{}, runner.Usagef("unrecognized arguments: %s", strings.Join(cmd.Args().Slice(), " "))
	}

	php, err := hypernode.ParsePHPVersion(cmd.String(phpFlag))
	if err != nil {
		return runner.Config{}, runner.Usagef("argument --%s: %v", phpFlag, err)
	}
	user, err := hypernode.ParseSSHUser(cmd.String(userFlag))
	if err != nil {
		return runner.Config{}, runner.Usagef("argument --%s: %v", userFlag, err)
	}

	cfg := runner.Config{
		Verbose:                cmd.Bool(verboseFlag),
		RunOnce:                cmd.Bool(runOnceFlag),
		ProjectPath:            cmd.String(projectPathFlag),
		CommandToRun:           cmd.String(commandToRunFlag),
		PreExistingVagrantPath: cmd.String(preExistingFlag),
		PHPVersion:             php,
		SSHUser:                user,
		XdebugEnabled:          cmd.Bool(enableXdebugFlag),
		SkipTrySudo:            cmd.Bool(skipTrySudoFlag),
		Xenial:                 cmd.Bool(xenialFlag),
		NoProvision:            cmd.Bool(noProvisionFlag),
	}
	if err := cfg.Validate(); err != nil {
		return runner.Config{}, err
	}
	return cfg, nil
}
