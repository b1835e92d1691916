// Package buffer implements a dual-mode serialization buffer: a byte
// container that can be read and written either as raw binary or as
// human-readable text, over self-growing or externally supplied
// storage, with independent read/write cursors and on-the-fly
// endianness conversion.
//
// A Buffer is a single-threaded value type. It is not internally
// synchronized, and any view returned into its backing storage is
// invalidated by a later operation that grows it.
package buffer

import "bytes"

const defaultGrowSize = 32

// Buffer owns (or borrows) a contiguous byte region and tracks
// independent get and put cursors into it. It is simultaneously
// readable and writable at different positions; it is not a
// single-cursor stream.
type Buffer struct {
	mem      []byte
	growSize int
	external bool

	get    int
	put    int
	offset int // subtracted from cursors when indexing into mem

	errFlags uint8
	flags    Flag
	tab      int
	maxPut   int // high-water mark; never recedes

	getOverflow OverflowFunc
	putOverflow OverflowFunc

	swap Swapper
}

// New creates a growable buffer. growSize selects the reallocation
// step (0 doubles), initSize preallocates storage. Pass FlagText for
// a text-mode buffer.
func New(growSize, initSize int, flags Flag) *Buffer {
	b := &Buffer{
		growSize:    growSize,
		flags:       flags,
		swap:        NewSwapper(),
		getOverflow: defaultGetOverflow,
		putOverflow: defaultPutOverflow,
	}
	if initSize > 0 {
		b.mem = make([]byte, initSize)
	}
	b.maxPut = -1
	b.addNullTermination()
	return b
}

// NewExternal wraps caller-owned memory without taking ownership. The
// region is never reallocated or freed unless FlagExternalGrowable is
// set, in which case the first overflowing write copies it into owned
// storage. used is the initial write position (bytes already valid in
// data).
func NewExternal(data []byte, used int, flags Flag) *Buffer {
	b := &Buffer{
		flags:       flags,
		external:    true,
		mem:         data,
		put:         used,
		maxPut:      -1,
		swap:        NewSwapper(),
		getOverflow: defaultGetOverflow,
		putOverflow: defaultPutOverflow,
	}
	b.addNullTermination()
	return b
}

// Assume is like NewExternal but transfers ownership: the buffer may
// reallocate and will stop referencing data once it grows.
func Assume(data []byte, used int, flags Flag) *Buffer {
	b := NewExternal(data, used, flags)
	b.external = false
	return b
}

// AttachWindow wraps external memory holding a window of a larger
// logical stream that begins at baseOffset. Cursor positions are
// logical stream offsets; indexing into data subtracts baseOffset.
func AttachWindow(data []byte, baseOffset, used int, flags Flag) *Buffer {
	b := &Buffer{
		flags:       flags,
		external:    true,
		mem:         data,
		offset:      baseOffset,
		get:         baseOffset,
		put:         baseOffset + used,
		maxPut:      -1,
		swap:        NewSwapper(),
		getOverflow: defaultGetOverflow,
		putOverflow: defaultPutOverflow,
	}
	b.addNullTermination()
	return b
}

// GetFlags returns the construction flags.
func (b *Buffer) GetFlags() Flag { return b.flags }

// IsText reports whether values are parsed/formatted as ASCII.
func (b *Buffer) IsText() bool { return b.flags&FlagText != 0 }

// IsExternal reports whether the storage is caller-owned.
func (b *Buffer) IsExternal() bool { return b.external }

// IsGrowable reports whether an overflowing write may reallocate.
func (b *Buffer) IsGrowable() bool {
	return !b.external || b.flags&FlagExternalGrowable != 0
}

// IsReadOnly reports whether writes are suppressed.
func (b *Buffer) IsReadOnly() bool { return b.flags&FlagReadOnly != 0 }

// ContainsCRLF reports whether a text buffer uses \r\n line endings.
func (b *Buffer) ContainsCRLF() bool {
	return b.IsText() && b.flags&FlagContainsCRLF != 0
}

// IsValid reports whether the buffer has not latched an underflow or
// overflow. Once invalid it stays invalid until Clear or Purge.
func (b *Buffer) IsValid() bool { return b.errFlags == 0 }

// Err returns the latched error, or nil.
func (b *Buffer) Err() error {
	switch {
	case b.errFlags&getOverflowFlag != 0:
		return ErrUnderflow
	case b.errFlags&putOverflowFlag != 0:
		return ErrOverflow
	}
	return nil
}

// SetBufferType recasts the buffer's mode flags. The only legal recast
// of a non-empty buffer is binary to text-with-CRLF; anything else
// panics with RecastError.
func (b *Buffer) SetBufferType(isText, containsCRLF bool) {
	if b.maxPut != 0 {
		if b.IsText() {
			if b.ContainsCRLF() != containsCRLF {
				panic(RecastError{ToText: isText, ContainsCRLF: containsCRLF})
			}
		} else if isText && !containsCRLF {
			panic(RecastError{ToText: isText, ContainsCRLF: containsCRLF})
		}
	}
	if isText {
		b.flags |= FlagText
	} else {
		b.flags &^= FlagText
	}
	if containsCRLF {
		b.flags |= FlagContainsCRLF
	} else {
		b.flags &^= FlagContainsCRLF
	}
}

// ActivateByteSwapping forces the swapping state of binary accessors
// regardless of endianness.
func (b *Buffer) ActivateByteSwapping(on bool) { b.swap.Activate(on) }

// SetBigEndian sets the target byte order of binary accessors.
func (b *Buffer) SetBigEndian(big bool) { b.swap.SetTargetBigEndian(big) }

// IsBigEndian reports the current target byte order.
func (b *Buffer) IsBigEndian() bool { return b.swap.TargetBigEndian() }

// ByteSwap exposes the buffer's swapper, e.g. for standalone field
// swaps sharing the buffer's target order.
func (b *Buffer) ByteSwap() *Swapper { return &b.swap }

// SetOverflowFuncs replaces the underflow/overflow hooks. A nil hook
// restores the default (fail for reads, grow-or-fail for writes).
func (b *Buffer) SetOverflowFuncs(get, put OverflowFunc) {
	if get == nil {
		get = defaultGetOverflow
	}
	if put == nil {
		put = defaultPutOverflow
	}
	b.getOverflow = get
	b.putOverflow = put
}

// TellGet returns the read cursor.
func (b *Buffer) TellGet() int { return b.get }

// TellPut returns the write cursor.
func (b *Buffer) TellPut() int { return b.put }

// TellMaxPut returns the high-water mark: the furthest offset ever
// successfully written.
func (b *Buffer) TellMaxPut() int { return b.maxPut }

// BytesRemaining returns the number of unread bytes.
func (b *Buffer) BytesRemaining() int { return b.maxPut - b.get }

// Size returns the allocated storage length. It does not reflect the
// amount written or read; use TellPut or TellGet for that.
func (b *Buffer) Size() int { return len(b.mem) }

// Base returns the whole backing storage. The region up to
// TellMaxPut()-1 holds written data followed by a terminating zero
// byte (unless the buffer is read-only).
func (b *Buffer) Base() []byte { return b.mem }

// Bytes returns the written portion of the storage.
func (b *Buffer) Bytes() []byte {
	n := b.maxPut - b.offset
	if n < 0 {
		n = 0
	}
	if n > len(b.mem) {
		n = len(b.mem)
	}
	return b.mem[:n]
}

// String returns the written portion as a string.
func (b *Buffer) String() string { return string(b.Bytes()) }

// SeekGet moves the read cursor.
func (b *Buffer) SeekGet(whence SeekType, offset int) {
	switch whence {
	case SeekHead:
		b.get = offset
	case SeekCurrent:
		b.get += offset
	case SeekTail:
		b.get = b.maxPut - offset
	}
}

// SeekPut moves the write cursor. Seeking forward past the high-water
// mark commits the skipped region.
func (b *Buffer) SeekPut(whence SeekType, offset int) {
	switch whence {
	case SeekHead:
		b.put = offset
	case SeekCurrent:
		b.put += offset
	case SeekTail:
		b.put = b.maxPut - offset
	}
	b.addNullTermination()
}

// PeekGet returns a view of n bytes at the read cursor plus offset
// without consuming them. It returns nil when the bytes are not
// available; peeking never latches the error state.
func (b *Buffer) PeekGet(offset, n int) []byte {
	if !b.checkPeekGet(offset, n) {
		return nil
	}
	i := b.get + offset - b.offset
	return b.mem[i : i+n]
}

// PeekPut returns a view of the storage at the write cursor plus
// offset, or nil when out of bounds.
func (b *Buffer) PeekPut(offset int) []byte {
	i := b.put + offset - b.offset
	if i < 0 || i > len(b.mem) {
		return nil
	}
	return b.mem[i:]
}

// EnsureCapacity grows owned storage to at least n bytes. Calling it
// on non-growable external storage is a programming error.
func (b *Buffer) EnsureCapacity(n int) {
	if b.external {
		if b.flags&FlagExternalGrowable == 0 {
			panic("buffer: EnsureCapacity on non-growable external storage")
		}
		b.convertToGrowable(n)
	}
	b.ensure(n)
}

// Clear resets cursors and the error latch but keeps allocated
// storage.
func (b *Buffer) Clear() {
	b.get = 0
	b.put = 0
	b.offset = 0
	b.errFlags = 0
	b.maxPut = -1
	b.addNullTermination()
}

// Purge resets cursors and the error latch and releases owned
// storage. External storage stays attached.
func (b *Buffer) Purge() {
	b.get = 0
	b.put = 0
	b.offset = 0
	b.errFlags = 0
	b.maxPut = 0
	if !b.external {
		b.mem = nil
	}
}

// PushTab increases the pretty-print indentation depth.
func (b *Buffer) PushTab() { b.tab++ }

// PopTab decreases the pretty-print indentation depth.
func (b *Buffer) PopTab() {
	if b.tab--; b.tab < 0 {
		b.tab = 0
	}
}

// EnableTabs temporarily enables or disables pretty-print
// indentation without touching the depth.
func (b *Buffer) EnableTabs(on bool) {
	if on {
		b.flags &^= FlagAutoTabsDisabled
	} else {
		b.flags |= FlagAutoTabsDisabled
	}
}

// ConvertCRLF converts a text buffer between \n and \r\n conventions
// into out, remapping both cursors to equivalent positions. It
// returns false, leaving out untouched, when no conversion is needed
// (same convention or either buffer is binary).
func (b *Buffer) ConvertCRLF(out *Buffer) bool {
	if !b.IsText() || !out.IsText() {
		return false
	}
	if b.ContainsCRLF() == out.ContainsCRLF() {
		return false
	}

	inCount := b.maxPut
	out.Purge()
	out.EnsureCapacity(inCount)

	fromCRLF := b.ContainsCRLF()
	savedGet := b.get
	savedPut := b.put
	getDelta := 0
	putDelta := 0

	base := b.mem
	curr := 0
	for curr < inCount {
		if fromCRLF {
			next := bytes.Index(base[curr:inCount], []byte("\r\n"))
			if next < 0 {
				out.Put(base[curr:inCount])
				break
			}
			out.Put(base[curr : curr+next])
			out.PutChar('\n')
			curr += next + 2
			if savedGet >= curr-1 {
				getDelta--
			}
			if savedPut >= curr-1 {
				putDelta--
			}
		} else {
			next := bytes.IndexByte(base[curr:inCount], '\n')
			if next < 0 {
				out.Put(base[curr:inCount])
				break
			}
			out.Put(base[curr : curr+next])
			out.PutChar('\r')
			out.PutChar('\n')
			curr += next + 1
			if savedGet >= curr {
				getDelta++
			}
			if savedPut >= curr {
				putDelta++
			}
		}
	}

	out.SeekGet(SeekHead, savedGet+getDelta)
	out.SeekPut(SeekHead, savedPut+putDelta)
	return true
}

// ---------------------------------------------------------------------
// cursor checks, growth, null termination

func defaultGetOverflow(b *Buffer, n int) bool { return false }

func defaultPutOverflow(b *Buffer, n int) bool {
	if b.external {
		if b.flags&FlagExternalGrowable == 0 {
			return false
		}
		b.convertToGrowable(b.put - b.offset + n)
	}
	b.ensure(b.put - b.offset + n)
	return true
}

func (b *Buffer) ensure(need int) {
	if len(b.mem) >= need {
		return
	}
	c := len(b.mem)
	if c == 0 {
		c = b.growSize
		if c == 0 {
			c = defaultGrowSize
		}
	}
	for c < need {
		if b.growSize > 0 {
			c += b.growSize
		} else {
			c <<= 1
		}
	}
	nb := make([]byte, c)
	copy(nb, b.mem)
	b.mem = nb
}

// convertToGrowable switches an external buffer to owned storage,
// preserving all previously written bytes.
func (b *Buffer) convertToGrowable(need int) {
	if !b.external {
		return
	}
	nb := make([]byte, len(b.mem))
	copy(nb, b.mem)
	b.mem = nb
	b.external = false
	b.ensure(need)
}

func (b *Buffer) checkPut(n int) bool {
	if b.errFlags&putOverflowFlag != 0 || b.IsReadOnly() {
		return false
	}
	if b.put < b.offset {
		// A put cursor seeked before the window base has no backing
		// storage; no overflow hook can supply it.
		b.errFlags |= putOverflowFlag
		return false
	}
	if len(b.mem) < b.put-b.offset+n {
		if b.putOverflow == nil || !b.putOverflow(b, n) {
			b.errFlags |= putOverflowFlag
			return false
		}
	}
	return true
}

func (b *Buffer) checkGet(n int) bool {
	if b.errFlags&getOverflowFlag != 0 {
		return false
	}
	if b.maxPut < b.get+n {
		b.errFlags |= getOverflowFlag
		return false
	}
	if b.get < b.offset || len(b.mem) < b.get-b.offset+n {
		if b.getOverflow == nil || !b.getOverflow(b, n) {
			b.errFlags |= getOverflowFlag
			return false
		}
	}
	return true
}

// checkPeekGet is checkGet without latching; peeks may fail freely.
func (b *Buffer) checkPeekGet(offset, n int) bool {
	if b.errFlags&getOverflowFlag != 0 {
		return false
	}
	ok := b.checkGet(offset + n)
	b.errFlags &^= getOverflowFlag
	return ok
}

// checkArbitraryPeekGet clamps want to the readable bytes at
// get+offset. It fails only when nothing new can be read.
func (b *Buffer) checkArbitraryPeekGet(offset, want int) (int, bool) {
	if b.get+offset >= b.maxPut {
		return 0, false
	}
	if b.get+offset+want > b.maxPut {
		want = b.maxPut - b.get - offset
	}
	if !b.checkPeekGet(offset, want) {
		return 0, false
	}
	return want, want != 0
}

// gview returns the unread window [get, maxPut) of the storage.
func (b *Buffer) gview() []byte {
	lo := b.get - b.offset
	hi := b.maxPut - b.offset
	if lo < 0 || hi < lo || hi > len(b.mem) {
		return nil
	}
	return b.mem[lo:hi]
}

// addNullTermination keeps a zero byte just past the put cursor
// whenever the high-water mark advances, so Base() always reads as a
// zero-terminated string. The put cursor itself never moves.
func (b *Buffer) addNullTermination() {
	if b.put <= b.maxPut {
		return
	}
	if !b.IsReadOnly() && b.errFlags&putOverflowFlag == 0 {
		if b.checkPut(1) {
			b.mem[b.put-b.offset] = 0
		} else {
			// The overflow belongs to the null byte, not to the write
			// that got us here; the buffer was valid before.
			b.errFlags &^= putOverflowFlag
		}
	}
	b.maxPut = b.put
}
