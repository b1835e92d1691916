package buffer

// ConversionPair maps a single character to the replacement string
// written after the escape character in delimited text.
type ConversionPair struct {
	Actual      byte
	Replacement string
}

// CharConversion is an immutable description of the character escaping
// used by delimited (quoted) string reads and writes: an escape
// character, a delimiter string, and per-character replacements.
type CharConversion struct {
	escape    byte
	delimiter string
	maxLength int
	repl      [256]string
	has       [256]bool
}

// NewCharConversion builds a conversion table. Replacement strings are
// what follows the escape character on output; on input FindConversion
// maps them back to the actual character.
func NewCharConversion(escape byte, delimiter string, pairs []ConversionPair) *CharConversion {
	c := &CharConversion{escape: escape, delimiter: delimiter}
	for _, p := range pairs {
		c.repl[p.Actual] = p.Replacement
		c.has[p.Actual] = true
		if len(p.Replacement) > c.maxLength {
			c.maxLength = len(p.Replacement)
		}
	}
	return c
}

// EscapeChar returns the escape character.
func (c *CharConversion) EscapeChar() byte { return c.escape }

// Delimiter returns the delimiter string.
func (c *CharConversion) Delimiter() string { return c.delimiter }

// DelimiterLength returns len(Delimiter()).
func (c *CharConversion) DelimiterLength() int { return len(c.delimiter) }

// Replacement returns the replacement string for ch and whether one
// exists.
func (c *CharConversion) Replacement(ch byte) (string, bool) {
	return c.repl[ch], c.has[ch]
}

// ReplacementLength returns the replacement length for ch, 0 if none.
func (c *CharConversion) ReplacementLength(ch byte) int { return len(c.repl[ch]) }

// MaxReplacementLength returns the longest replacement in the table.
func (c *CharConversion) MaxReplacementLength() int { return c.maxLength }

// FindConversion matches the longest replacement string at the start
// of text (the bytes following an escape character) and returns the
// actual character it encodes plus the number of bytes consumed.
// It returns (0, 0) when nothing matches.
func (c *CharConversion) FindConversion(text []byte) (byte, int) {
	bestLen := 0
	var best byte
	for i := 0; i < 256; i++ {
		if !c.has[i] {
			continue
		}
		r := c.repl[i]
		if len(r) > bestLen && len(r) <= len(text) && string(text[:len(r)]) == r {
			best = byte(i)
			bestLen = len(r)
		}
	}
	return best, bestLen
}

var cStringConversion = NewCharConversion('\\', "\"", []ConversionPair{
	{'\n', "n"},
	{'\t', "t"},
	{'\v', "v"},
	{'\b', "b"},
	{'\r', "r"},
	{'\f', "f"},
	{'\a', "a"},
	{'\\', "\\"},
	{'?', "?"},
	{'\'', "'"},
	{'"', "\""},
})

// 0x7F never occurs in the text these tables are used on, so the
// no-escape table effectively disables escaping while keeping the
// quoted-delimiter framing.
var noEscapeConversion = NewCharConversion(0x7F, "\"", nil)

// CStringConversion returns the conversion table for C-style quoted
// strings: backslash escapes, double-quote delimiters.
func CStringConversion() *CharConversion { return cStringConversion }

// NoEscapeConversion returns a conversion table for quoted strings
// with no escape sequences.
func NoEscapeConversion() *CharConversion { return noEscapeConversion }
