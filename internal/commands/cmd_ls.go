package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/pom/internal/core/logging"
	"github.com/hay-kot/pom/internal/core/task"
	"github.com/hay-kot/pom/internal/pom"
	"github.com/hay-kot/pom/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *pom.App

	// flags
	all        bool
	completed  bool
	match      string
	jsonOutput bool
}

// NewLsCmd creates a new list command
func NewLsCmd(flags *Flags, app *pom.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the list command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks (only active ones by default)",
		UsageText: "pom list [--all | --completed] [--match <glob>] [--json]",
		Description: `Lists tasks ordered by id.

Only active tasks are shown unless --all or --completed is given. When both
are given --all wins. Use --match to filter ids with a glob such as "api/*"
and --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "include completed tasks",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "completed",
				Aliases:     []string{"c"},
				Usage:       "only completed tasks",
				Destination: &cmd.completed,
			},
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "only tasks whose id matches the glob",
				Destination: &cmd.match,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) filter() task.Filter {
	filter := task.Filter{State: task.StateActive, Pattern: cmd.match}
	switch {
	case cmd.all:
		filter.State = task.StateAll
	case cmd.completed:
		filter.State = task.StateCompleted
	}
	return filter
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "list")

	filter := cmd.filter()
	if err := filter.Validate(); err != nil {
		return err
	}

	tasks, err := cmd.app.Tasks.List(ctx, filter)
	if err != nil {
		return describeStoreError(cmd.app.Styles, err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		if err := iojson.WriteLines(out, tasks); err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
		return nil
	}

	for _, t := range tasks {
		if _, err := fmt.Fprintln(out, formatTask(cmd.app.Styles, t)); err != nil {
			return err
		}
	}

	return nil
}
