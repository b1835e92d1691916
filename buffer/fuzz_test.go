package buffer_test

import (
	"testing"

	"github.com/quillbyte/dualbuf/buffer"
)

// FuzzBinaryReadNoPanic drives the binary read path over arbitrary
// bytes with and without byte swapping to ensure it never panics;
// errors must surface only through the latch.
func FuzzBinaryReadNoPanic(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x01})
	f.Add([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	f.Add([]byte("hello\x00world\x00"))

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic in binary read: %v", r)
			}
		}()

		for _, swap := range []bool{false, true} {
			b := buffer.NewExternal(data, len(data), buffer.FlagReadOnly)
			b.ActivateByteSwapping(swap)

			_ = b.GetChar()
			_ = b.GetUint16()
			_ = b.GetInt32()
			_ = b.GetFloat32()
			_ = b.GetUint64()
			_ = b.GetString(16)
			p := make([]byte, 4)
			_ = b.GetUpTo(p)
			_ = b.PeekStringLength()
			_ = b.PeekGet(0, 4)
			_ = b.Err()
		}
	})
}

// FuzzTextParseNoPanic drives the text scanners and tokenizers over
// arbitrary input.
func FuzzTextParseNoPanic(f *testing.F) {
	f.Add("")
	f.Add("12 -3.5 0xff token \"quoted \\n\" // comment\nnext")
	f.Add(",,,a,b")
	f.Add("{ nested } /* block */ Infinity NaN")

	f.Fuzz(func(t *testing.T, s string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic in text parse: %v", r)
			}
		}()

		breaks := buffer.NewCharacterSet("{},")
		conv := buffer.CStringConversion()

		b := buffer.NewExternal([]byte(s), len(s), buffer.FlagText|buffer.FlagReadOnly)
		_ = b.GetInt32()
		_ = b.GetFloat64()
		_, _ = b.GetDelimitedString(conv, 32)
		_ = b.PeekDelimitedStringLength(conv, true)
		for i := 0; i < 8; i++ {
			if _, ok := b.ParseToken(breaks, 16, true); !ok {
				break
			}
		}
		_, _ = b.ParseTokenDelimited("{", "}", 16)
		_, _ = b.InplaceLine()
		_ = b.GetLine(8)
		_ = b.Err()
	})
}

// FuzzConvertCRLF checks that line-ending conversion round-trips any
// text payload.
func FuzzConvertCRLF(f *testing.F) {
	f.Add("a\nb\nc")
	f.Add("\n\n\n")
	f.Add("no newline")

	f.Fuzz(func(t *testing.T, s string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic in ConvertCRLF: %v", r)
			}
		}()

		// \r in the input would be conflated with inserted ones.
		for i := 0; i < len(s); i++ {
			if s[i] == '\r' {
				return
			}
		}

		in := buffer.New(0, 0, buffer.FlagText)
		in.PutString(s)

		crlf := buffer.New(0, 0, buffer.FlagText|buffer.FlagContainsCRLF)
		if !in.ConvertCRLF(crlf) {
			return
		}
		back := buffer.New(0, 0, buffer.FlagText)
		if !crlf.ConvertCRLF(back) {
			return
		}
		if in.String() != back.String() {
			t.Fatalf("round trip mismatch: %q != %q", in.String(), back.String())
		}
	})
}
