package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/pom/internal/commands"
	"github.com/hay-kot/pom/internal/core/config"
	"github.com/hay-kot/pom/internal/core/logging"
	"github.com/hay-kot/pom/internal/core/styles"
	"github.com/hay-kot/pom/internal/pom"
	"github.com/hay-kot/pom/internal/store/jsonfile"
	"github.com/hay-kot/pom/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		pomApp    = &pom.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "pom",
		Usage:     "Track tasks, their estimations and the effort they took",
		UsageText: "pom [global options] command [command options]",
		Description: `pom keeps a personal list of tasks in a JSON file under your home directory.

Add a task with a story point estimation, complete it with the number of
pomodoros it took, and list what is still open.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("POM_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("POM_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Sources:     cli.EnvVars("POM_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "store-dir",
				Usage:       "directory holding the task file (overrides store.dir)",
				Sources:     cli.EnvVars("POM_STORE_DIR"),
				Destination: &flags.StoreDir,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "color output (auto, always, never; overrides the color setting)",
				Sources:     cli.EnvVars("POM_COLOR"),
				Destination: &flags.Color,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			home, err := os.UserHomeDir()
			if err != nil {
				return ctx, fmt.Errorf("resolve home directory: %w", err)
			}

			cfg, err := config.Load(flags.ConfigPath, home)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if flags.StoreDir != "" {
				cfg.Store.Dir = flags.StoreDir
			}
			if flags.Color != "" {
				cfg.Color = flags.Color
			}
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid flags: %w", err)
			}
			flags.Config = cfg

			store := jsonfile.NewTaskStore(jsonfile.Options{
				HomeDir:     cfg.HomeDir,
				Dir:         cfg.StoreDir(),
				File:        cfg.Store.File,
				LockTimeout: cfg.LockTimeout,
			})

			log.Debug().
				Str("store", store.Path()).
				Str("config", flags.ConfigPath).
				Msg("pom starting")

			tasks := pom.NewTaskService(store, log.Logger)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*pomApp = *pom.NewApp(tasks, cfg, styles.New(os.Stdout, styles.Mode(cfg.Color)))

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewAddCmd(flags, pomApp).Register(app)
	app = commands.NewLsCmd(flags, pomApp).Register(app)
	app = commands.NewCompleteCmd(flags, pomApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
