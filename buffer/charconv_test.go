package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillbyte/dualbuf/buffer"
)

func TestCStringConversionTable(t *testing.T) {
	conv := buffer.CStringConversion()
	assert.Equal(t, byte('\\'), conv.EscapeChar())
	assert.Equal(t, "\"", conv.Delimiter())
	assert.Equal(t, 1, conv.DelimiterLength())

	repl, ok := conv.Replacement('\n')
	assert.True(t, ok)
	assert.Equal(t, "n", repl)

	_, ok = conv.Replacement('x')
	assert.False(t, ok)

	assert.Equal(t, 1, conv.MaxReplacementLength())
}

func TestFindConversion(t *testing.T) {
	conv := buffer.CStringConversion()

	c, n := conv.FindConversion([]byte("n rest"))
	assert.Equal(t, byte('\n'), c)
	assert.Equal(t, 1, n)

	c, n = conv.FindConversion([]byte("t"))
	assert.Equal(t, byte('\t'), c)
	assert.Equal(t, 1, n)

	c, n = conv.FindConversion([]byte("zzz"))
	assert.Equal(t, byte(0), c)
	assert.Equal(t, 0, n)
}

func TestFindConversionLongestMatch(t *testing.T) {
	conv := buffer.NewCharConversion('$', "|", []buffer.ConversionPair{
		{Actual: 'a', Replacement: "x"},
		{Actual: 'b', Replacement: "xy"},
	})
	assert.Equal(t, 2, conv.MaxReplacementLength())

	c, n := conv.FindConversion([]byte("xyz"))
	assert.Equal(t, byte('b'), c)
	assert.Equal(t, 2, n)

	c, n = conv.FindConversion([]byte("x"))
	assert.Equal(t, byte('a'), c)
	assert.Equal(t, 1, n)
}

func TestNoEscapeConversion(t *testing.T) {
	conv := buffer.NoEscapeConversion()
	assert.Equal(t, "\"", conv.Delimiter())
	assert.Equal(t, 0, conv.MaxReplacementLength())

	_, ok := conv.Replacement('\n')
	assert.False(t, ok)
}

func TestCharacterSet(t *testing.T) {
	cs := buffer.NewCharacterSet("{},")
	assert.True(t, cs.Contains('{'))
	assert.True(t, cs.Contains(','))
	assert.False(t, cs.Contains('a'))
	assert.False(t, cs.Contains(0))

	cs.Add(0xFF)
	assert.True(t, cs.Contains(0xFF))
}
