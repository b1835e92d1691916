package buffer

import (
	"math"
	"strconv"
)

// EatWhiteSpace advances the read cursor past consecutive whitespace.
// It never latches an error; stopping at end of data is fine.
func (b *Buffer) EatWhiteSpace() {
	for b.checkPeekGet(0, 1) {
		if !isSpace(b.mem[b.get-b.offset]) {
			break
		}
		b.get++
	}
}

// EatCPPComment consumes one comment at the read cursor, either a //
// line comment (up to and including the newline) or a /* */ block
// comment, and reports whether one was found.
func (b *Buffer) EatCPPComment() bool {
	if b.peekStringMatch(0, "//") {
		b.SeekGet(SeekCurrent, 2)
		for b.checkPeekGet(0, 1) {
			c := b.mem[b.get-b.offset]
			b.get++
			if c == '\n' {
				break
			}
		}
		return true
	}
	if b.peekStringMatch(0, "/*") {
		b.SeekGet(SeekCurrent, 2)
		for b.checkPeekGet(0, 1) {
			if b.peekStringMatch(0, "*/") {
				b.SeekGet(SeekCurrent, 2)
				return true
			}
			b.get++
		}
		return true
	}
	return false
}

// PeekLineLength returns the number of characters in the current line
// including the newline, without moving the cursor. The last line
// counts even without a trailing newline. It returns 0 at end of
// data.
func (b *Buffer) PeekLineLength() int {
	view := b.gview()
	for i, c := range view {
		if c == '\n' {
			return i + 1
		}
	}
	return len(view)
}

// InplaceLine returns the next line as a sub-slice of the backing
// storage with the line ending trimmed, advancing the read cursor
// past it. It returns false at end of data. The slice is invalidated
// by any write that grows the buffer.
func (b *Buffer) InplaceLine() ([]byte, bool) {
	n := b.PeekLineLength()
	if n == 0 {
		return nil, false
	}
	line := b.mem[b.get-b.offset : b.get-b.offset+n]
	b.get += n
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, true
}

// ParseToken reads the next token: leading whitespace (and comments,
// when parseComments is set) is skipped, then characters accumulate
// until whitespace or a break character. A terminating break
// character is consumed, so tokens separated by single breaks come
// out back to back; a leading break yields an empty token. maxLen
// truncates the returned token (0 means unlimited). It returns false
// only at end of data.
func (b *Buffer) ParseToken(breaks *CharacterSet, maxLen int, parseComments bool) (string, bool) {
	if !b.IsValid() {
		return "", false
	}
	if maxLen == 0 {
		maxLen = unlimited
	}

	for {
		b.EatWhiteSpace()
		if !parseComments || !b.EatCPPComment() {
			break
		}
	}
	if !b.checkPeekGet(0, 1) {
		return "", false
	}

	var out []byte
	for b.checkPeekGet(0, 1) {
		c := b.mem[b.get-b.offset]
		if breaks != nil && breaks.Contains(c) {
			b.get++
			break
		}
		if isSpace(c) {
			break
		}
		b.get++
		if len(out) < maxLen {
			out = append(out, c)
		}
	}
	return string(out), true
}

// ParseTokenDelimited extracts the text between a starting and an
// ending delimiter, searching forward for the start. Matching is
// case-insensitive and the surrounding whitespace of the token is
// trimmed. When either delimiter is missing the cursor is restored
// and ok is false. maxLen truncates the token (0 means unlimited).
func (b *Buffer) ParseTokenDelimited(startDelim, endDelim string, maxLen int) (string, bool) {
	if !b.IsValid() || len(endDelim) == 0 {
		return "", false
	}
	if maxLen == 0 {
		maxLen = unlimited
	}
	saved := b.get

	for len(startDelim) > 0 {
		if !b.checkPeekGet(0, len(startDelim)) {
			b.get = saved
			return "", false
		}
		if b.peekCaseMatch(startDelim) {
			b.get += len(startDelim)
			break
		}
		b.get++
	}

	b.EatWhiteSpace()
	var out []byte
	for {
		if !b.checkPeekGet(0, 1) {
			b.get = saved
			return "", false
		}
		if b.peekCaseMatch(endDelim) {
			b.get += len(endDelim)
			break
		}
		out = append(out, b.mem[b.get-b.offset])
		b.get++
	}
	for len(out) > 0 && isSpace(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return string(out), true
}

// GetToken consumes the next whitespace-delimited token if it matches
// token case-insensitively, reporting whether it did. On a mismatch
// the cursor does not move.
func (b *Buffer) GetToken(token string) bool {
	if !b.IsValid() || len(token) == 0 {
		return false
	}
	saved := b.get
	b.EatWhiteSpace()
	if !b.checkPeekGet(0, len(token)) || !b.peekCaseMatch(token) {
		b.get = saved
		return false
	}
	// the match must end at a token boundary
	if b.checkPeekGet(len(token), 1) {
		if c := b.mem[b.get+len(token)-b.offset]; !isSpace(c) {
			b.get = saved
			return false
		}
	}
	b.get += len(token)
	return true
}

// peekCaseMatch reports whether the bytes at the read cursor equal s
// ignoring ASCII case. The caller has already bounds-checked.
func (b *Buffer) peekCaseMatch(s string) bool {
	if b.get-b.offset+len(s) > len(b.mem) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if lowerASCII(b.mem[b.get-b.offset+i]) != lowerASCII(s[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Scanf scans whitespace-separated values from the buffer per a
// printf-style format. Supported verbs: %c %d %i %u %x %f %s. Each
// argument must be a pointer of a matching type. It returns the
// number of conversions completed before input or the format ran out.
func (b *Buffer) Scanf(format string, args ...any) int {
	count := 0
	arg := 0
	i := 0
	for i < len(format) && b.IsValid() {
		c := format[i]
		switch {
		case isSpace(c):
			b.EatWhiteSpace()
			i++
		case c == '%':
			if i+1 >= len(format) || arg >= len(args) {
				return count
			}
			if !b.scanVerb(format[i+1], args[arg]) {
				return count
			}
			arg++
			count++
			i += 2
		default:
			if !b.checkPeekGet(0, 1) || b.mem[b.get-b.offset] != c {
				return count
			}
			b.get++
			i++
		}
	}
	return count
}

func (b *Buffer) scanVerb(verb byte, arg any) bool {
	before := b.get
	switch verb {
	case 'c':
		p, ok := arg.(*byte)
		if !ok {
			return false
		}
		*p = b.GetChar()
		return b.IsValid()
	case 'd', 'i':
		v := b.scanInt()
		if b.get == before {
			return false
		}
		switch p := arg.(type) {
		case *int:
			*p = int(v)
		case *int32:
			*p = int32(v)
		case *int64:
			*p = v
		default:
			return false
		}
	case 'u':
		v := b.scanUint(10)
		if b.get == before {
			return false
		}
		switch p := arg.(type) {
		case *uint:
			*p = uint(v)
		case *uint32:
			*p = uint32(v)
		case *uint64:
			*p = v
		default:
			return false
		}
	case 'x':
		v := b.scanUint(16)
		if b.get == before {
			return false
		}
		switch p := arg.(type) {
		case *uint:
			*p = uint(v)
		case *uint32:
			*p = uint32(v)
		case *uint64:
			*p = v
		case *int:
			*p = int(v)
		case *int32:
			*p = int32(v)
		default:
			return false
		}
	case 'f':
		v := b.scanFloat(64)
		if b.get == before {
			return false
		}
		switch p := arg.(type) {
		case *float32:
			*p = float32(v)
		case *float64:
			*p = v
		default:
			return false
		}
	case 's':
		p, ok := arg.(*string)
		if !ok {
			return false
		}
		*p = b.GetString(0)
		return b.IsValid()
	default:
		return false
	}
	return b.IsValid()
}

// ---------------------------------------------------------------------
// text-mode numeric scanners

// scanInt reads a signed decimal integer, skipping leading
// whitespace. End of data latches the underflow error; non-numeric
// input returns 0 with the cursor unmoved.
func (b *Buffer) scanInt() int64 {
	if !b.IsValid() {
		return 0
	}
	view := b.gview()
	i := 0
	for i < len(view) && isSpace(view[i]) {
		i++
	}
	if i == len(view) {
		b.errFlags |= getOverflowFlag
		return 0
	}
	j := i
	if view[j] == '+' || view[j] == '-' {
		j++
	}
	k := j
	for k < len(view) && view[k] >= '0' && view[k] <= '9' {
		k++
	}
	if k == j {
		return 0
	}
	v, _ := strconv.ParseInt(string(view[i:k]), 10, 64)
	b.get += k
	return v
}

// scanUint reads an unsigned integer in the given base (10 or 16),
// skipping leading whitespace and an optional 0x prefix in base 16.
func (b *Buffer) scanUint(base int) uint64 {
	if !b.IsValid() {
		return 0
	}
	view := b.gview()
	i := 0
	for i < len(view) && isSpace(view[i]) {
		i++
	}
	if i == len(view) {
		b.errFlags |= getOverflowFlag
		return 0
	}
	j := i
	if base == 16 && j+2 <= len(view) && view[j] == '0' && (view[j+1] == 'x' || view[j+1] == 'X') {
		j += 2
	}
	k := j
	for k < len(view) && isBaseDigit(view[k], base) {
		k++
	}
	if k == j {
		return 0
	}
	v, _ := strconv.ParseUint(string(view[j:k]), base, 64)
	b.get += k
	return v
}

func isBaseDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base != 16 {
		return false
	}
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanFloat reads a float, accepting the Infinity/-Infinity/NaN names
// the writer produces as well as decimal and exponent notation.
func (b *Buffer) scanFloat(bitSize int) float64 {
	if !b.IsValid() {
		return 0
	}
	view := b.gview()
	i := 0
	for i < len(view) && isSpace(view[i]) {
		i++
	}
	if i == len(view) {
		b.errFlags |= getOverflowFlag
		return 0
	}

	for _, name := range floatNames {
		if len(view)-i >= len(name.text) && string(view[i:i+len(name.text)]) == name.text {
			b.get += i + len(name.text)
			return name.value
		}
	}

	// longest prefix that still parses
	k := i
	for k < len(view) && isFloatChar(view[k]) {
		k++
	}
	for k > i {
		if v, err := strconv.ParseFloat(string(view[i:k]), bitSize); err == nil {
			b.get += k
			return v
		}
		k--
	}
	return 0
}

var floatNames = []struct {
	text  string
	value float64
}{
	{"-Infinity", math.Inf(-1)},
	{"Infinity", math.Inf(1)},
	{"NaN", math.NaN()},
}

func isFloatChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E':
		return true
	}
	return false
}
