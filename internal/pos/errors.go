package pos

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNilSnapshot is returned when an operation is handed no snapshot.
var ErrNilSnapshot = errors.New("nil snapshot")

// MalformedInputError reports a data file whose shape does not match what the
// engine expects. Loading stops at the first malformed file.
type MalformedInputError struct {
	File     string
	Problems []string
}

func (e *MalformedInputError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("malformed %s", e.File)
	}
	return fmt.Sprintf("malformed %s: %s", e.File, strings.Join(e.Problems, "; "))
}
