// Package pom wires the task store, configuration and styles into the
// services consumed by the command line.
package pom

import (
	"github.com/hay-kot/pom/internal/core/config"
	"github.com/hay-kot/pom/internal/core/styles"
)

// App is the central entry point for all pom operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks  *TaskService
	Config *config.Config
	Styles *styles.Styles
}

// NewApp constructs an App from explicit dependencies.
func NewApp(tasks *TaskService, cfg *config.Config, st *styles.Styles) *App {
	return &App{
		Tasks:  tasks,
		Config: cfg,
		Styles: st,
	}
}
