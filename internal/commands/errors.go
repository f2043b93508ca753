package commands

import (
	"errors"
	"fmt"

	"github.com/hay-kot/pom/internal/core/styles"
	"github.com/hay-kot/pom/internal/core/task"
)

// userError is an error whose text is shown to the user verbatim.
type userError struct {
	msg string
}

func (e userError) Error() string { return e.msg }

func userErrorf(format string, args ...any) error {
	return userError{msg: fmt.Sprintf(format, args...)}
}

// describeStoreError rewrites store failures that have a user facing
// explanation. Other errors are returned unchanged.
func describeStoreError(st *styles.Styles, err error) error {
	var corrupt *task.CorruptError
	if errors.As(err, &corrupt) {
		return userErrorf("The task file %s could not be read: %v. Fix its content or remove it to start over.",
			st.File(corrupt.Path), corrupt.Err)
	}
	return err
}
