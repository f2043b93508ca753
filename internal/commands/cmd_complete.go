package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/pom/internal/core/logging"
	"github.com/hay-kot/pom/internal/core/task"
	"github.com/hay-kot/pom/internal/pom"
)

type CompleteCmd struct {
	flags *Flags
	app   *pom.App

	// flags
	noEffort bool
}

// NewCompleteCmd creates a new complete command
func NewCompleteCmd(flags *Flags, app *pom.App) *CompleteCmd {
	return &CompleteCmd{flags: flags, app: app}
}

// Register adds the complete command to the application
func (cmd *CompleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "complete",
		Usage:     "Complete a task",
		UsageText: "pom complete [--no-effort] <task_id> [effort]",
		Description: `Marks a task as completed, recording the effort spent in pomodoros.

Exactly one of the effort argument or --no-effort must be given. A task can
only be completed once.

Examples:
  pom complete FIX-BUG 2
  pom complete --no-effort WRITE-DOCS`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-effort",
				Usage:       "complete the task without tracking an effort",
				Destination: &cmd.noEffort,
			},
		},
		ShellComplete: TaskIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *CompleteCmd) run(ctx context.Context, c *cli.Command) error {
	args := c.Args()
	if args.Len() < 1 || args.Len() > 2 {
		return userErrorf("complete expects a task id and an optional effort. Usage: pom complete [--no-effort] <task_id> [effort]")
	}

	st := cmd.app.Styles
	id := args.Get(0)
	effortArg := args.Get(1)
	hasEffort := effortArg != ""
	ctx = logging.WithTaskID(logging.WithCommand(ctx, "complete"), id)

	switch {
	case hasEffort && cmd.noEffort:
		return userErrorf("Pass either an effort or the --no-effort flag, not both")
	case !hasEffort && !cmd.noEffort:
		// Check existence first so a typo in the id gets the more useful hint.
		_, ok, err := cmd.app.Tasks.Get(ctx, id)
		if err != nil {
			return describeStoreError(st, err)
		}
		if !ok {
			return userErrorf("Task %s does not exist.", st.ID(id))
		}
		return userErrorf("You must either pass a second positional argument effort or the --no-effort flag")
	}

	var effort *string
	if hasEffort {
		effort = &effortArg
	}

	if _, err := cmd.app.Tasks.Complete(ctx, id, effort); err != nil {
		switch {
		case errors.Is(err, task.ErrNotFound):
			return userErrorf("Task %s does not exist.", st.ID(id))
		case errors.Is(err, task.ErrAlreadyCompleted):
			return userErrorf("Task %s is already complete. If you need to change some of its values, edit the %s file manually.",
				st.ID(id), st.File(cmd.app.Tasks.StorePath()))
		default:
			return describeStoreError(st, err)
		}
	}

	return nil
}
