package buffer_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillbyte/dualbuf/buffer"
)

func textBuf(s string) *buffer.Buffer {
	return buffer.NewExternal([]byte(s), len(s), buffer.FlagText|buffer.FlagReadOnly)
}

func TestTextNumericRoundTrip(t *testing.T) {
	b := buffer.New(0, 0, buffer.FlagText)
	b.PutInt32(-42)
	b.PutChar(' ')
	b.PutUint64(12345678901234567890)
	b.PutChar(' ')
	b.PutInt64(-7)
	b.PutChar(' ')
	b.PutFloat64(1.5)
	require.NoError(t, b.Err())

	assert.Equal(t, int32(-42), b.GetInt32())
	assert.Equal(t, uint64(12345678901234567890), b.GetUint64())
	assert.Equal(t, int64(-7), b.GetInt64())
	assert.Equal(t, 1.5, b.GetFloat64())
	require.NoError(t, b.Err())
}

func TestTextFloatFormatting(t *testing.T) {
	b := buffer.New(0, 0, buffer.FlagText)
	b.PutFloat64(1.5)
	assert.Equal(t, "1.5", b.String())

	b.Clear()
	b.PutFloat64(1e20)
	assert.Equal(t, "1e+20", b.String())
	assert.Equal(t, 1e20, b.GetFloat64())

	b.Clear()
	b.PutFloat32(0.25)
	assert.Equal(t, "0.25", b.String())
}

func TestTextFloatNonFinite(t *testing.T) {
	b := buffer.New(0, 0, buffer.FlagText)
	b.PutFloat64(math.Inf(1))
	b.PutChar(' ')
	b.PutFloat64(math.Inf(-1))
	b.PutChar(' ')
	b.PutFloat64(math.NaN())
	assert.Equal(t, "Infinity -Infinity NaN", b.String())

	assert.True(t, math.IsInf(b.GetFloat64(), 1))
	assert.True(t, math.IsInf(b.GetFloat64(), -1))
	assert.True(t, math.IsNaN(b.GetFloat64()))
	require.NoError(t, b.Err())
}

func TestTextIntHex(t *testing.T) {
	b := textBuf("ff 0x10")
	assert.Equal(t, int32(255), b.GetIntHex())
	assert.Equal(t, int32(16), b.GetIntHex())
}

func TestTextNonNumericIsRecoverable(t *testing.T) {
	b := textBuf("abc 12")
	assert.Equal(t, int32(0), b.GetInt32())
	assert.True(t, b.IsValid(), "non-numeric text does not latch")
	assert.Equal(t, 0, b.TellGet(), "failed scan leaves the cursor unmoved")

	assert.Equal(t, "abc", b.GetString(0))
	assert.Equal(t, int32(12), b.GetInt32())
	require.NoError(t, b.Err())
}

func TestTextNumericAtEndLatches(t *testing.T) {
	b := textBuf("   ")
	b.GetInt32()
	assert.ErrorIs(t, b.Err(), buffer.ErrUnderflow)
}

func TestTextGetString(t *testing.T) {
	b := textBuf("  foo\tbar baz")
	assert.Equal(t, "foo", b.GetString(0))
	assert.Equal(t, "bar", b.GetString(0))
	assert.Equal(t, "baz", b.GetString(0))
	require.NoError(t, b.Err())

	b.GetString(0)
	assert.ErrorIs(t, b.Err(), buffer.ErrUnderflow)
}

func TestPeekStringLength(t *testing.T) {
	b := textBuf(" foo bar")
	assert.Equal(t, 4, b.PeekStringLength())
	assert.Equal(t, 0, b.TellGet())
}

func TestAutoTabs(t *testing.T) {
	b := buffer.New(0, 0, buffer.FlagText)
	b.PutString("a\n")
	b.PushTab()
	b.PutString("b\nc\n")
	b.PopTab()
	b.PutString("d\n")
	assert.Equal(t, "a\n\tb\n\tc\nd\n", b.String())
}

func TestAutoTabsDisabled(t *testing.T) {
	b := buffer.New(0, 0, buffer.FlagText)
	b.PushTab()
	b.PutString("a\n")
	b.EnableTabs(false)
	b.PutString("b\n")
	b.EnableTabs(true)
	b.PutString("c\n")
	assert.Equal(t, "a\nb\n\tc\n", b.String())
}

func TestDelimitedStringRoundTrip(t *testing.T) {
	conv := buffer.CStringConversion()
	b := buffer.New(0, 0, buffer.FlagText)
	b.PutDelimitedString(conv, "say \"hi\"\nok")
	assert.Equal(t, `"say \"hi\"\nok"`, b.String())

	s, ok := b.GetDelimitedString(conv, 0)
	require.True(t, ok)
	assert.Equal(t, "say \"hi\"\nok", s)
	require.NoError(t, b.Err())
}

func TestDelimitedStringMissingDelimiter(t *testing.T) {
	conv := buffer.CStringConversion()
	b := textBuf("hello")

	s, ok := b.GetDelimitedString(conv, 0)
	assert.False(t, ok)
	assert.Empty(t, s)
	assert.True(t, b.IsValid(), "a missing delimiter does not latch")

	assert.Equal(t, "hello", b.GetString(0))
}

func TestGetDelimitedChar(t *testing.T) {
	conv := buffer.CStringConversion()
	b := textBuf(`a\nb`)
	assert.Equal(t, byte('a'), b.GetDelimitedChar(conv))
	assert.Equal(t, byte('\n'), b.GetDelimitedChar(conv))
	assert.Equal(t, byte('b'), b.GetDelimitedChar(conv))
}

func TestPeekDelimitedStringLength(t *testing.T) {
	conv := buffer.CStringConversion()
	b := textBuf(`"a\nb" tail`)

	assert.Equal(t, 4, b.PeekDelimitedStringLength(conv, true), "decoded chars plus terminator")
	assert.Equal(t, 7, b.PeekDelimitedStringLength(conv, false), "raw span plus terminator")
	assert.Equal(t, 0, b.TellGet())

	noDelim := textBuf("plain")
	assert.Equal(t, 0, noDelim.PeekDelimitedStringLength(conv, true))
}

func TestParseToken(t *testing.T) {
	breaks := buffer.NewCharacterSet(",")
	b := textBuf("foo,bar")

	tok, ok := b.ParseToken(breaks, 0, false)
	require.True(t, ok)
	assert.Equal(t, "foo", tok)

	tok, ok = b.ParseToken(breaks, 0, false)
	require.True(t, ok)
	assert.Equal(t, "bar", tok)

	_, ok = b.ParseToken(breaks, 0, false)
	assert.False(t, ok)
}

func TestParseTokenLeadingBreak(t *testing.T) {
	breaks := buffer.NewCharacterSet(",")
	b := textBuf(",x")

	tok, ok := b.ParseToken(breaks, 0, false)
	require.True(t, ok)
	assert.Empty(t, tok)

	tok, ok = b.ParseToken(breaks, 0, false)
	require.True(t, ok)
	assert.Equal(t, "x", tok)
}

func TestParseTokenWhitespace(t *testing.T) {
	b := textBuf("  foo bar")
	tok, ok := b.ParseToken(nil, 0, false)
	require.True(t, ok)
	assert.Equal(t, "foo", tok)

	tok, ok = b.ParseToken(nil, 0, false)
	require.True(t, ok)
	assert.Equal(t, "bar", tok)
}

func TestParseTokenMaxLen(t *testing.T) {
	b := textBuf("hello world")
	tok, ok := b.ParseToken(nil, 2, false)
	require.True(t, ok)
	assert.Equal(t, "he", tok, "token is truncated but fully consumed")

	tok, _ = b.ParseToken(nil, 0, false)
	assert.Equal(t, "world", tok)
}

func TestParseTokenComments(t *testing.T) {
	b := textBuf("// note\n/* block */ foo")
	tok, ok := b.ParseToken(nil, 0, true)
	require.True(t, ok)
	assert.Equal(t, "foo", tok)
}

func TestEatCPPComment(t *testing.T) {
	b := textBuf("// hi\nrest")
	assert.True(t, b.EatCPPComment())
	assert.Equal(t, "rest", b.GetString(0))

	c := textBuf("plain")
	assert.False(t, c.EatCPPComment())
	assert.Equal(t, 0, c.TellGet())
}

func TestParseTokenDelimited(t *testing.T) {
	b := textBuf("junk {  key  } tail")
	tok, ok := b.ParseTokenDelimited("{", "}", 0)
	require.True(t, ok)
	assert.Equal(t, "key", tok)

	assert.Equal(t, "tail", b.GetString(0))
}

func TestParseTokenDelimitedMissingEnd(t *testing.T) {
	b := textBuf("{ key")
	_, ok := b.ParseTokenDelimited("{", "}", 0)
	assert.False(t, ok)
	assert.Equal(t, 0, b.TellGet(), "failed parse restores the cursor")
}

func TestGetToken(t *testing.T) {
	b := textBuf("Hello world")
	assert.True(t, b.GetToken("hello"), "matching is case-insensitive")
	assert.False(t, b.GetToken("nope"))
	assert.True(t, b.GetToken("world"))
}

func TestGetTokenBoundary(t *testing.T) {
	b := textBuf("helloX")
	assert.False(t, b.GetToken("hello"), "a prefix of a longer token is not a match")
	assert.Equal(t, 0, b.TellGet())
}

func TestPeekLineLengthAndGetLine(t *testing.T) {
	b := textBuf("abc\nde\n")

	assert.Equal(t, 4, b.PeekLineLength())
	assert.Equal(t, "abc\n", b.GetLine(0))

	assert.Equal(t, 3, b.PeekLineLength())
	assert.Equal(t, "de\n", b.GetLine(0))

	assert.Equal(t, 0, b.PeekLineLength())
	assert.Equal(t, "", b.GetLine(0))
	assert.ErrorIs(t, b.Err(), buffer.ErrUnderflow)
}

func TestGetLineMaxChars(t *testing.T) {
	b := textBuf("abc\n")
	assert.Equal(t, "ab", b.GetLine(2))
	assert.Equal(t, "c\n", b.GetLine(0))
}

func TestGetLineWithoutTrailingNewline(t *testing.T) {
	b := textBuf("last")
	assert.Equal(t, "last", b.GetLine(0))
}

func TestInplaceLine(t *testing.T) {
	b := textBuf("abc\r\nde")

	line, ok := b.InplaceLine()
	require.True(t, ok)
	assert.Equal(t, "abc", string(line))

	line, ok = b.InplaceLine()
	require.True(t, ok)
	assert.Equal(t, "de", string(line))

	_, ok = b.InplaceLine()
	assert.False(t, ok)
}

func TestScanf(t *testing.T) {
	b := textBuf("x 12 3.5 ff")
	var d int
	var f float64
	var x uint32
	n := b.Scanf("x %d %f %x", &d, &f, &x)
	assert.Equal(t, 3, n)
	assert.Equal(t, 12, d)
	assert.Equal(t, 3.5, f)
	assert.Equal(t, uint32(0xFF), x)
}

func TestScanfCharAndString(t *testing.T) {
	b := textBuf("Zhello world")
	var c byte
	var s string
	n := b.Scanf("%c%s", &c, &s)
	assert.Equal(t, 2, n)
	assert.Equal(t, byte('Z'), c)
	assert.Equal(t, "hello", s)
}

func TestScanfLiteralMismatch(t *testing.T) {
	b := textBuf("y 12")
	var d int
	assert.Equal(t, 0, b.Scanf("x %d", &d))
}

func TestEatWhiteSpace(t *testing.T) {
	b := textBuf("   \t\n x")
	b.EatWhiteSpace()
	assert.Equal(t, byte('x'), b.GetChar())

	// At end of data it is a no-op, not an error.
	c := textBuf("  ")
	c.EatWhiteSpace()
	assert.True(t, c.IsValid())
	assert.Equal(t, 2, c.TellGet())
}
