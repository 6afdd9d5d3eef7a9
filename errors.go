package arbor

import "fmt"

// ErrorCode classifies contract violations detected by the core. The
// panicking API panics with an error wrapping one of these codes; the Try*
// variants return the same error so callers can match with errors.Is.
type ErrorCode uint8

const (
	ErrCapacityExhausted ErrorCode = iota + 1 // table has no generation or slot left
	ErrInvalidHandle                          // stale or never-issued Id
	ErrNodeOutOfRange                         // node index outside the graph
	ErrParentOrder                            // parent index not smaller than child index
	ErrNodeNotFound                           // no node with the requested name
	ErrMalformedLayout                        // NodeLayout slices inconsistent or unsorted
)

var errorText = [...]string{
	ErrCapacityExhausted: "capacity exhausted",
	ErrInvalidHandle:     "invalid handle",
	ErrNodeOutOfRange:    "node index out of range",
	ErrParentOrder:       "parent must be < child",
	ErrNodeNotFound:      "node not found",
	ErrMalformedLayout:   "malformed node layout",
}

func (c ErrorCode) Error() string {
	if int(c) < len(errorText) && errorText[c] != "" {
		return errorText[c]
	}
	return fmt.Sprintf("error code %d", uint8(c))
}

// contractError wraps an ErrorCode with the operation that raised it.
func contractError(code ErrorCode, op string, format string, args ...any) error {
	return fmt.Errorf("arbor: %s: %w: %s", op, code, fmt.Sprintf(format, args...))
}

// must panics with err when it is non-nil.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
