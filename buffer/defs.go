package buffer

// Flag controls buffer behavior. Flags are fixed at construction except
// for the text/CRLF pair, which may be recast through SetBufferType.
type Flag uint8

const (
	// FlagText selects text mode: values are parsed and formatted as
	// ASCII instead of being copied as raw bytes.
	FlagText Flag = 1 << iota

	// FlagExternalGrowable permits a buffer attached to external memory
	// to switch to owned, reallocatable storage when a write overflows.
	FlagExternalGrowable

	// FlagContainsCRLF marks a text buffer whose lines end in \r\n
	// rather than \n.
	FlagContainsCRLF

	// FlagReadOnly suppresses all writes, including the trailing null
	// termination, for buffers wrapping immutable external memory.
	FlagReadOnly

	// FlagAutoTabsDisabled turns off pretty-print indentation even when
	// the tab depth is nonzero.
	FlagAutoTabsDisabled
)

// SeekType selects the origin for SeekGet and SeekPut.
type SeekType int

const (
	SeekHead SeekType = iota
	SeekCurrent
	SeekTail
)

// OverflowFunc is invoked when a read would underflow the written data
// or a write would exceed capacity. Returning true means the condition
// was handled (e.g. storage was grown) and the operation may proceed;
// returning false latches the buffer's sticky error state.
type OverflowFunc func(b *Buffer, n int) bool

// error latch bits
const (
	putOverflowFlag uint8 = 1 << iota
	getOverflowFlag
)

const unlimited = int(^uint(0) >> 1)

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
