package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/pom/internal/core/logging"
	"github.com/hay-kot/pom/internal/core/task"
	"github.com/hay-kot/pom/internal/core/validate"
	"github.com/hay-kot/pom/internal/pom"
)

type AddCmd struct {
	flags *Flags
	app   *pom.App
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *pom.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: "pom add <task_id> <estimation>",
		Description: `Adds a pending task with a story point estimation.

Task ids are free-form and case-sensitive. The estimation is an integer and
cannot be changed later.

Examples:
  pom add WRITE-DOCS 3
  pom add api/login 5`,
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return userErrorf("add expects 2 arguments, got %d. Usage: pom add <task_id> <estimation>", c.Args().Len())
	}

	id := c.Args().Get(0)
	ctx = logging.WithTaskID(logging.WithCommand(ctx, "add"), id)

	estimation, err := validate.Estimation(c.Args().Get(1))
	if err != nil {
		return err
	}

	st := cmd.app.Styles
	if _, err := cmd.app.Tasks.Add(ctx, id, estimation); err != nil {
		if errors.Is(err, task.ErrAlreadyExists) {
			return userErrorf("Task %s already exists", st.ID(id))
		}
		return describeStoreError(st, err)
	}

	return nil
}
