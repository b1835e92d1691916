package buffer

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// Typed writes mirror the typed reads: binary mode stores the value's
// bytes (swapped to the target order when active), text mode formats
// it as ASCII. Every successful write advances the put cursor and
// maintains a zero byte just past it. A failed write latches the
// overflow error unless the buffer is read-only.

// PutChar writes a single raw character. In text mode a character
// following a newline triggers pending indentation first.
func (b *Buffer) PutChar(c byte) {
	if b.IsText() && b.wasLastCharacterCR() {
		b.putTabs()
	}
	b.putByteRaw(c)
}

// PutUint8 writes an unsigned 8-bit value (text mode: decimal).
func (b *Buffer) PutUint8(v uint8) {
	if b.IsText() {
		b.putText(strconv.FormatUint(uint64(v), 10))
		return
	}
	b.putBin8(v)
}

// PutInt8 writes a signed 8-bit value (text mode: decimal).
func (b *Buffer) PutInt8(v int8) {
	if b.IsText() {
		b.putText(strconv.FormatInt(int64(v), 10))
		return
	}
	b.putBin8(uint8(v))
}

// PutInt16 writes a signed 16-bit value.
func (b *Buffer) PutInt16(v int16) {
	if b.IsText() {
		b.putText(strconv.FormatInt(int64(v), 10))
		return
	}
	b.putBin16(uint16(v))
}

// PutUint16 writes an unsigned 16-bit value.
func (b *Buffer) PutUint16(v uint16) {
	if b.IsText() {
		b.putText(strconv.FormatUint(uint64(v), 10))
		return
	}
	b.putBin16(v)
}

// PutInt32 writes a signed 32-bit value.
func (b *Buffer) PutInt32(v int32) {
	if b.IsText() {
		b.putText(strconv.FormatInt(int64(v), 10))
		return
	}
	b.putBin32(uint32(v))
}

// PutUint32 writes an unsigned 32-bit value.
func (b *Buffer) PutUint32(v uint32) {
	if b.IsText() {
		b.putText(strconv.FormatUint(uint64(v), 10))
		return
	}
	b.putBin32(v)
}

// PutInt writes a signed value sized like the platform int, stored as
// 32 bits in binary mode.
func (b *Buffer) PutInt(v int) {
	b.PutInt32(int32(v))
}

// PutInt64 writes a signed 64-bit value.
func (b *Buffer) PutInt64(v int64) {
	if b.IsText() {
		b.putText(strconv.FormatInt(v, 10))
		return
	}
	b.putBin64(uint64(v))
}

// PutUint64 writes an unsigned 64-bit value.
func (b *Buffer) PutUint64(v uint64) {
	if b.IsText() {
		b.putText(strconv.FormatUint(v, 10))
		return
	}
	b.putBin64(v)
}

// PutFloat32 writes a 32-bit float.
func (b *Buffer) PutFloat32(v float32) {
	if b.IsText() {
		b.putText(formatFloatText(float64(v), 32))
		return
	}
	b.putBin32(math.Float32bits(v))
}

// PutFloat64 writes a 64-bit float.
func (b *Buffer) PutFloat64(v float64) {
	if b.IsText() {
		b.putText(formatFloatText(v, 64))
		return
	}
	b.putBin64(math.Float64bits(v))
}

// formatFloatText renders floats the way the text decoders expect:
// plain decimal notation below 1e15, exponent notation above, and the
// spelled-out names for non-finite values.
func formatFloatText(v float64, bitSize int) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	if abs := math.Abs(v); abs < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, bitSize)
	}
	return strconv.FormatFloat(v, 'g', -1, bitSize)
}

func (b *Buffer) putBin8(v uint8) {
	if !b.checkPut(1) {
		return
	}
	b.mem[b.put-b.offset] = v
	b.put++
	b.addNullTermination()
}

func (b *Buffer) putBin16(v uint16) {
	if !b.checkPut(2) {
		return
	}
	if b.swap.Swapping() {
		v = bits.ReverseBytes16(v)
	}
	binary.NativeEndian.PutUint16(b.mem[b.put-b.offset:], v)
	b.put += 2
	b.addNullTermination()
}

func (b *Buffer) putBin32(v uint32) {
	if !b.checkPut(4) {
		return
	}
	if b.swap.Swapping() {
		v = bits.ReverseBytes32(v)
	}
	binary.NativeEndian.PutUint32(b.mem[b.put-b.offset:], v)
	b.put += 4
	b.addNullTermination()
}

func (b *Buffer) putBin64(v uint64) {
	if !b.checkPut(8) {
		return
	}
	if b.swap.Swapping() {
		v = bits.ReverseBytes64(v)
	}
	binary.NativeEndian.PutUint64(b.mem[b.put-b.offset:], v)
	b.put += 8
	b.addNullTermination()
}

// putByteRaw writes one byte with no tab processing.
func (b *Buffer) putByteRaw(c byte) {
	if !b.checkPut(1) {
		return
	}
	b.mem[b.put-b.offset] = c
	b.put++
	b.addNullTermination()
}

// putText appends formatted text verbatim (no newline processing; the
// formatters never emit newlines).
func (b *Buffer) putText(s string) {
	if b.IsText() && b.wasLastCharacterCR() {
		b.putTabs()
	}
	if !b.checkPut(len(s)) {
		return
	}
	copy(b.mem[b.put-b.offset:], s)
	b.put += len(s)
	b.addNullTermination()
}

// Put copies raw bytes, ignoring text-mode tab processing.
func (b *Buffer) Put(p []byte) {
	if len(p) == 0 || !b.checkPut(len(p)) {
		return
	}
	copy(b.mem[b.put-b.offset:], p)
	b.put += len(p)
	b.addNullTermination()
}

// PutString writes a string. In binary mode the bytes are followed by
// a terminating zero. In text mode the bytes are written without a
// terminator and each newline inside s restarts indentation, so
// multi-line writes indent every line.
func (b *Buffer) PutString(s string) {
	if !b.IsText() {
		if !b.checkPut(len(s) + 1) {
			return
		}
		copy(b.mem[b.put-b.offset:], s)
		b.mem[b.put-b.offset+len(s)] = 0
		b.put += len(s) + 1
		b.addNullTermination()
		return
	}

	for len(s) > 0 {
		if b.wasLastCharacterCR() {
			b.putTabs()
		}
		nl := -1
		for i := 0; i < len(s); i++ {
			if s[i] == '\n' {
				nl = i
				break
			}
		}
		if nl < 0 {
			b.putSegment(s)
			return
		}
		b.putSegment(s[:nl+1])
		s = s[nl+1:]
	}
}

func (b *Buffer) putSegment(s string) {
	if !b.checkPut(len(s)) {
		return
	}
	copy(b.mem[b.put-b.offset:], s)
	b.put += len(s)
	b.addNullTermination()
}

// Printf formats like fmt.Printf into the buffer via PutString.
func (b *Buffer) Printf(format string, args ...any) {
	b.PutString(fmt.Sprintf(format, args...))
}

// PutObject writes one composite record described by layout, swapping
// each field independently when byte swapping is active.
func (b *Buffer) PutObject(src []byte, layout FieldLayout) {
	if !b.checkPut(len(src)) {
		return
	}
	dst := b.mem[b.put-b.offset : b.put-b.offset+len(src)]
	if !b.swap.Swapping() || len(src) == 1 {
		copy(dst, src)
	} else {
		b.swap.SwapFields(dst, src, layout)
	}
	b.put += len(src)
	b.addNullTermination()
}

// PutObjects writes len(src)/recordSize consecutive records.
func (b *Buffer) PutObjects(src []byte, recordSize int, layout FieldLayout) {
	for off := 0; off+recordSize <= len(src); off += recordSize {
		b.PutObject(src[off:off+recordSize], layout)
	}
}

// PutDelimitedChar writes one character of a delimited string,
// expanding it to its escape sequence when conv maps it. In binary
// mode it is PutChar.
func (b *Buffer) PutDelimitedChar(conv *CharConversion, c byte) {
	if !b.IsText() || conv == nil {
		b.PutChar(c)
		return
	}
	b.putDelimitedCharInternal(conv, c)
}

func (b *Buffer) putDelimitedCharInternal(conv *CharConversion, c byte) {
	if repl, ok := conv.Replacement(c); ok {
		b.PutChar(conv.EscapeChar())
		b.putSegment(repl)
		return
	}
	b.PutChar(c)
}

// PutDelimitedString writes s wrapped in conv's delimiters with every
// mapped character escaped. In binary mode it is PutString.
func (b *Buffer) PutDelimitedString(conv *CharConversion, s string) {
	if !b.IsText() || conv == nil {
		b.PutString(s)
		return
	}
	if b.wasLastCharacterCR() {
		b.putTabs()
	}
	b.putSegment(conv.Delimiter())
	for i := 0; i < len(s); i++ {
		b.putDelimitedCharInternal(conv, s[i])
	}
	b.putSegment(conv.Delimiter())
}

// wasLastCharacterCR reports whether the most recently written
// character was a newline, meaning indentation is pending.
func (b *Buffer) wasLastCharacterCR() bool {
	if !b.IsText() || b.put == b.offset || b.put-b.offset > len(b.mem) {
		return false
	}
	return b.mem[b.put-b.offset-1] == '\n'
}

// putTabs writes the pending indentation. Each depth level is one tab
// character.
func (b *Buffer) putTabs() {
	if b.flags&FlagAutoTabsDisabled != 0 {
		return
	}
	for i := 0; i < b.tab; i++ {
		b.putByteRaw('\t')
	}
}
