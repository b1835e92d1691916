package buffer

import "strconv"

var (
	// ErrUnderflow is latched when a read reaches past the written
	// portion of the buffer. Once latched, subsequent reads return zero
	// values until Clear or Purge.
	ErrUnderflow error = errUnderflow{}

	// ErrOverflow is latched when a write exceeds capacity on a buffer
	// that cannot grow.
	ErrOverflow error = errOverflow{}
)

// Error is the interface satisfied by all errors that originate from
// this package.
type Error interface {
	error

	// Recoverable returns whether the error is local to a single call
	// and leaves the buffer usable, as opposed to the sticky
	// underflow/overflow latch.
	Recoverable() bool
}

// Recoverable reports whether err leaves the buffer in a usable state.
func Recoverable(err error) bool {
	if e, ok := err.(Error); ok {
		return e.Recoverable()
	}
	return false
}

type errUnderflow struct{}

func (errUnderflow) Error() string     { return "buffer: read past end of written data" }
func (errUnderflow) Recoverable() bool { return false }

type errOverflow struct{}

func (errOverflow) Error() string     { return "buffer: write past end of non-growable storage" }
func (errOverflow) Recoverable() bool { return false }

// DelimiterError is returned (by value, through boolean call contracts)
// when an expected start or end delimiter is absent. The cursor is left
// unmoved so the caller may retry a different parse.
type DelimiterError struct {
	Delim string
}

func (d DelimiterError) Error() string {
	return "buffer: expected delimiter " + strconv.Quote(d.Delim)
}

func (DelimiterError) Recoverable() bool { return true }

// UnsupportedWidthError is the panic value raised when a byte swap is
// requested for a width other than 1, 2, 4 or 8. A bad width indicates
// a type mismatch at the call site, not a runtime condition.
type UnsupportedWidthError struct {
	Width int
}

func (u UnsupportedWidthError) Error() string {
	return "buffer: unsupported swap width " + strconv.Itoa(u.Width)
}

func (UnsupportedWidthError) Recoverable() bool { return false }

// RecastError is the panic value raised by SetBufferType when a
// non-empty buffer is recast in a direction other than binary to
// text-with-CRLF.
type RecastError struct {
	ToText       bool
	ContainsCRLF bool
}

func (r RecastError) Error() string {
	return "buffer: illegal buffer type recast (only binary to text-with-CRLF is permitted)"
}

func (RecastError) Recoverable() bool { return false }
