package buffer

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// Typed reads follow a common contract: an invalid buffer returns the
// type's zero value without consuming input; a read past the
// high-water mark latches the underflow error and returns zero. In
// binary mode values are copied from storage and passed through the
// byte swapper when active (1-byte values are never swapped). In text
// mode values are scanned from ASCII and the get cursor advances by
// the number of characters consumed.

// GetChar reads a single raw character in either mode.
func (b *Buffer) GetChar() byte {
	if !b.checkGet(1) {
		return 0
	}
	c := b.mem[b.get-b.offset]
	b.get++
	return c
}

// GetUint8 reads an unsigned 8-bit value (text mode: decimal).
func (b *Buffer) GetUint8() uint8 {
	if b.IsText() {
		return uint8(b.scanUint(10))
	}
	return b.getBin8()
}

// GetInt8 reads a signed 8-bit value (text mode: decimal).
func (b *Buffer) GetInt8() int8 {
	if b.IsText() {
		return int8(b.scanInt())
	}
	return int8(b.getBin8())
}

// GetInt16 reads a signed 16-bit value.
func (b *Buffer) GetInt16() int16 {
	if b.IsText() {
		return int16(b.scanInt())
	}
	return int16(b.getBin16())
}

// GetUint16 reads an unsigned 16-bit value.
func (b *Buffer) GetUint16() uint16 {
	if b.IsText() {
		return uint16(b.scanUint(10))
	}
	return b.getBin16()
}

// GetInt32 reads a signed 32-bit value.
func (b *Buffer) GetInt32() int32 {
	if b.IsText() {
		return int32(b.scanInt())
	}
	return int32(b.getBin32())
}

// GetUint32 reads an unsigned 32-bit value.
func (b *Buffer) GetUint32() uint32 {
	if b.IsText() {
		return uint32(b.scanUint(10))
	}
	return b.getBin32()
}

// GetInt reads a signed value sized like the platform int, stored as
// 32 bits in binary mode.
func (b *Buffer) GetInt() int {
	return int(b.GetInt32())
}

// GetIntHex reads an integer written in hexadecimal in text mode; in
// binary mode it is identical to GetInt32.
func (b *Buffer) GetIntHex() int32 {
	if b.IsText() {
		return int32(b.scanUint(16))
	}
	return int32(b.getBin32())
}

// GetInt64 reads a signed 64-bit value.
func (b *Buffer) GetInt64() int64 {
	if b.IsText() {
		return b.scanInt()
	}
	return int64(b.getBin64())
}

// GetUint64 reads an unsigned 64-bit value.
func (b *Buffer) GetUint64() uint64 {
	if b.IsText() {
		return b.scanUint(10)
	}
	return b.getBin64()
}

// GetFloat32 reads a 32-bit float.
func (b *Buffer) GetFloat32() float32 {
	if b.IsText() {
		return float32(b.scanFloat(32))
	}
	return math.Float32frombits(b.getBin32())
}

// GetFloat64 reads a 64-bit float.
func (b *Buffer) GetFloat64() float64 {
	if b.IsText() {
		return b.scanFloat(64)
	}
	return math.Float64frombits(b.getBin64())
}

func (b *Buffer) getBin8() uint8 {
	if !b.checkGet(1) {
		return 0
	}
	v := b.mem[b.get-b.offset]
	b.get++
	return v
}

func (b *Buffer) getBin16() uint16 {
	if !b.checkGet(2) {
		return 0
	}
	v := binary.NativeEndian.Uint16(b.mem[b.get-b.offset:])
	if b.swap.Swapping() {
		v = bits.ReverseBytes16(v)
	}
	b.get += 2
	return v
}

func (b *Buffer) getBin32() uint32 {
	if !b.checkGet(4) {
		return 0
	}
	v := binary.NativeEndian.Uint32(b.mem[b.get-b.offset:])
	if b.swap.Swapping() {
		v = bits.ReverseBytes32(v)
	}
	b.get += 4
	return v
}

func (b *Buffer) getBin64() uint64 {
	if !b.checkGet(8) {
		return 0
	}
	v := binary.NativeEndian.Uint64(b.mem[b.get-b.offset:])
	if b.swap.Swapping() {
		v = bits.ReverseBytes64(v)
	}
	b.get += 8
	return v
}

// Get copies len(p) raw bytes into p. On underflow p is left
// untouched.
func (b *Buffer) Get(p []byte) {
	if len(p) == 0 || !b.checkGet(len(p)) {
		return
	}
	copy(p, b.mem[b.get-b.offset:])
	b.get += len(p)
}

// GetUpTo copies up to len(p) bytes into p and returns the number
// actually read. It returns 0 at end of data without latching an
// error.
func (b *Buffer) GetUpTo(p []byte) int {
	n, ok := b.checkArbitraryPeekGet(0, len(p))
	if !ok {
		return 0
	}
	copy(p[:n], b.mem[b.get-b.offset:])
	b.get += n
	return n
}

// GetObject reads one composite record of len(dst) bytes described by
// layout, swapping each field independently when byte swapping is
// active. On underflow dst is zeroed.
func (b *Buffer) GetObject(dst []byte, layout FieldLayout) {
	if !b.checkGet(len(dst)) {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	src := b.mem[b.get-b.offset : b.get-b.offset+len(dst)]
	if !b.swap.Swapping() || len(dst) == 1 {
		copy(dst, src)
	} else {
		b.swap.SwapFields(dst, src, layout)
	}
	b.get += len(dst)
}

// GetObjects reads len(dst)/recordSize consecutive records.
func (b *Buffer) GetObjects(dst []byte, recordSize int, layout FieldLayout) {
	for off := 0; off+recordSize <= len(dst); off += recordSize {
		b.GetObject(dst[off:off+recordSize], layout)
	}
}

// PeekStringLength returns the length of the string about to be read,
// including a slot for the terminator, without moving the cursor. In
// binary mode it counts up to and including the next zero byte; in
// text mode it skips leading whitespace and counts to the next
// whitespace. It returns 0 at end of data.
func (b *Buffer) PeekStringLength() int {
	if !b.IsValid() {
		return 0
	}
	view := b.gview()
	i := 0
	if b.IsText() {
		for i < len(view) && isSpace(view[i]) {
			i++
		}
	}
	start := i
	for ; i < len(view); i++ {
		c := view[i]
		if c == 0 {
			return i - start + 1
		}
		if b.IsText() && isSpace(c) {
			return i - start + 1
		}
	}
	if i == start {
		return 0
	}
	return i - start + 1
}

// GetString reads a string: in binary mode characters up to a
// terminating zero (which is consumed), in text mode the next
// whitespace-delimited token. maxChars bounds the returned length
// (0 means unlimited); the whole string is consumed regardless.
// Reading at end of data latches the underflow error.
func (b *Buffer) GetString(maxChars int) string {
	if !b.IsValid() {
		return ""
	}
	if maxChars == 0 {
		maxChars = unlimited
	}
	if b.IsText() {
		b.EatWhiteSpace()
	}
	n := b.PeekStringLength()
	if n == 0 {
		b.errFlags |= getOverflowFlag
		return ""
	}
	body := n - 1
	keep := body
	if keep > maxChars {
		keep = maxChars
	}
	s := string(b.mem[b.get-b.offset : b.get-b.offset+keep])
	b.SeekGet(SeekCurrent, body)
	if !b.IsText() {
		// consume the terminating zero
		b.GetChar()
	}
	return s
}

// GetLine reads up to and including the next newline (fgets-style).
// maxChars truncates the read, leaving the remainder of the line
// unconsumed; 0 means unlimited. Reading at end of data latches the
// underflow error.
func (b *Buffer) GetLine(maxChars int) string {
	if !b.IsValid() {
		return ""
	}
	n := b.PeekLineLength()
	if n == 0 {
		b.errFlags |= getOverflowFlag
		return ""
	}
	if maxChars != 0 && n > maxChars {
		n = maxChars
	}
	s := string(b.mem[b.get-b.offset : b.get-b.offset+n])
	b.get += n
	return s
}

// GetDelimitedChar reads one character of a delimited string,
// translating escape sequences through conv. In binary mode it is
// GetChar.
func (b *Buffer) GetDelimitedChar(conv *CharConversion) byte {
	if !b.IsText() || conv == nil {
		return b.GetChar()
	}
	return b.getDelimitedCharInternal(conv)
}

func (b *Buffer) getDelimitedCharInternal(conv *CharConversion) byte {
	c := b.GetChar()
	if c != conv.EscapeChar() {
		return c
	}
	n, ok := b.checkArbitraryPeekGet(0, conv.MaxReplacementLength())
	if !ok {
		return 0
	}
	actual, used := conv.FindConversion(b.mem[b.get-b.offset : b.get-b.offset+n])
	b.SeekGet(SeekCurrent, used)
	return actual
}

// GetDelimitedString reads a delimited string: leading whitespace,
// the conv delimiter, escaped content, and a matching trailing
// delimiter. A missing leading delimiter fails without consuming
// input and without latching the error state. In binary mode it
// behaves like GetString. maxChars bounds the returned length
// (0 means unlimited).
func (b *Buffer) GetDelimitedString(conv *CharConversion, maxChars int) (string, bool) {
	if !b.IsText() || conv == nil {
		return b.GetString(maxChars), true
	}
	if !b.IsValid() {
		return "", false
	}
	if maxChars == 0 {
		maxChars = unlimited
	}

	b.EatWhiteSpace()
	if !b.peekStringMatch(0, conv.Delimiter()) {
		return "", false
	}
	b.SeekGet(SeekCurrent, conv.DelimiterLength())

	var out []byte
	for b.IsValid() {
		if b.peekStringMatch(0, conv.Delimiter()) {
			b.SeekGet(SeekCurrent, conv.DelimiterLength())
			break
		}
		c := b.getDelimitedCharInternal(conv)
		if len(out) < maxChars {
			out = append(out, c)
		}
	}
	return string(out), true
}

// PeekDelimitedStringLength returns the length (including the
// terminator slot) of the delimited string ahead of the cursor.
// With actualSize true, escape sequences count as the single
// character they decode to; with actualSize false the count is the
// raw character count including delimiters and escapes. It returns 0
// when no leading delimiter is present.
func (b *Buffer) PeekDelimitedStringLength(conv *CharConversion, actualSize bool) int {
	if !b.IsText() || conv == nil {
		return b.PeekStringLength()
	}
	if !b.IsValid() {
		return 0
	}

	off := b.peekWhiteSpace(0)
	if !b.peekStringMatch(off, conv.Delimiter()) {
		return 0
	}
	start := off
	off += conv.DelimiterLength()

	n := 1 // terminator slot
	for {
		if b.peekStringMatch(off, conv.Delimiter()) {
			off += conv.DelimiterLength()
			break
		}
		if !b.checkPeekGet(off, 1) {
			break
		}
		c := b.mem[b.get+off-b.offset]
		n++
		off++
		if c == conv.EscapeChar() {
			avail, ok := b.checkArbitraryPeekGet(off, conv.MaxReplacementLength())
			if !ok {
				break
			}
			_, used := conv.FindConversion(b.mem[b.get+off-b.offset : b.get+off-b.offset+avail])
			off += used
			if !actualSize {
				n += used
			}
		}
	}
	if actualSize {
		return n
	}
	return off - start + 1
}

// peekStringMatch reports whether the bytes at get+offset equal s.
func (b *Buffer) peekStringMatch(offset int, s string) bool {
	if !b.checkPeekGet(offset, len(s)) {
		return false
	}
	i := b.get + offset - b.offset
	return string(b.mem[i:i+len(s)]) == s
}

// peekWhiteSpace returns the number of whitespace bytes at get+offset.
func (b *Buffer) peekWhiteSpace(offset int) int {
	for b.checkPeekGet(offset, 1) {
		if !isSpace(b.mem[b.get+offset-b.offset]) {
			break
		}
		offset++
	}
	return offset
}
