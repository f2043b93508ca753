// iojson are utilities for writing JSON IO from a command line interface
// perspective
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteLine writes obj as a single line of JSON followed by a newline, the
// JSON lines format consumed by jq and other line oriented tools.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	bits = append(bits, '\n')
	_, err = w.Write(bits)
	return err
}

// WriteLines writes every element of objs with WriteLine.
func WriteLines[T any](w io.Writer, objs []T) error {
	for _, obj := range objs {
		if err := WriteLine(w, obj); err != nil {
			return err
		}
	}
	return nil
}
