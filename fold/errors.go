package fold

import (
	"errors"
	"fmt"
)

// ErrTimestampOrder is wrapped by OrderError.
var ErrTimestampOrder = errors.New("end before begin")

// OrderError reports an End event whose timestamp precedes the Begin it
// closes.
type OrderError struct {
	Path       string
	Begin, End uint64
}

func (e *OrderError) Unwrap() error {
	return ErrTimestampOrder
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s: %s began at %d and ended at %d", ErrTimestampOrder, e.Path, e.Begin, e.End)
}
