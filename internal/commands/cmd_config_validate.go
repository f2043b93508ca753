package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/pom/internal/core/config"
	"github.com/hay-kot/pom/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "pom config validate [options]",
				Description: "Validates the configuration file and checks that the task store location is usable.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationResult is the JSON output format for pom config validate.
type validationResult struct {
	Valid      bool              `json:"valid"`
	ConfigPath string            `json:"config_path"`
	StorePath  string            `json:"store_path"`
	Errors     []validationError `json:"errors,omitempty"`
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}

	result := validationResult{
		Valid:      true,
		ConfigPath: cmd.flags.ConfigPath,
		StorePath:  cfg.StorePath(),
	}

	if err := cfg.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		result.Valid = false
		result.Errors = toValidationErrors(err)
	}

	if cmd.format == "json" {
		if err := iojson.WriteLine(c.Root().Writer, result); err != nil {
			return err
		}
	} else {
		cmd.outputText(c, cfg, result)
	}

	if !result.Valid {
		return userErrorf("%d configuration error(s) found", len(result.Errors))
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(c *cli.Command, cfg *config.Config, result validationResult) {
	out := c.Root().Writer

	_, _ = fmt.Fprintf(out, "config: %s\n", result.ConfigPath)
	_, _ = fmt.Fprintf(out, "store:  %s\n", cfg.StorePath())

	for _, e := range result.Errors {
		_, _ = fmt.Fprintf(c.Root().ErrWriter, "  %s: %s\n", e.Field, e.Message)
	}

	if result.Valid {
		_, _ = fmt.Fprintln(out, "Configuration is valid")
	}
}

func toValidationErrors(err error) []validationError {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, validationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}
