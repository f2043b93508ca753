package commands

import (
	"fmt"

	"github.com/hay-kot/pom/internal/core/styles"
	"github.com/hay-kot/pom/internal/core/task"
)

// formatTask renders one list line:
//
//	FIX-BUG, 5 Story Points, DONE in 2 pomodoros.
func formatTask(st *styles.Styles, t task.Task) string {
	done := ""
	if t.Completed {
		if t.HasEffort() {
			done = fmt.Sprintf(", DONE in %s pomodoros.", *t.Effort)
		} else {
			done = ", DONE (effort not recorded)."
		}
	}

	return fmt.Sprintf("%s, %d Story Points%s", st.ID(t.ID), t.Estimation, done)
}
