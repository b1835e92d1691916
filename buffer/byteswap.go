package buffer

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

var machineBigEndian = binary.NativeEndian.Uint16([]byte{0x12, 0x34}) == 0x1234

// IsMachineBigEndian reports whether the host stores multi-byte values
// most significant byte first.
func IsMachineBigEndian() bool { return machineBigEndian }

// Swapper converts fixed-width values between the machine byte order
// and a selected target order. The zero value targets the machine
// order (no swapping); NewSwapper returns the same thing explicitly.
type Swapper struct {
	bigEndian bool
	swapBytes bool
}

// NewSwapper returns a Swapper targeting the machine byte order.
func NewSwapper() Swapper {
	var s Swapper
	s.SetTargetBigEndian(machineBigEndian)
	return s
}

// SetTargetBigEndian sets the byte order being swapped to or from and
// recomputes whether swapping is required on this machine.
func (s *Swapper) SetTargetBigEndian(big bool) {
	s.bigEndian = big
	s.swapBytes = machineBigEndian != big
}

// FlipTarget toggles both the target order and the swap-active flag
// without consulting the machine order. It can force swapping even
// when the target already matches the host.
func (s *Swapper) FlipTarget() {
	s.swapBytes = !s.swapBytes
	s.bigEndian = !s.bigEndian
}

// Activate forces the swapping state regardless of endianness.
func (s *Swapper) Activate(on bool) {
	s.SetTargetBigEndian(machineBigEndian != on)
}

// Swapping reports whether bytes are currently being swapped.
func (s Swapper) Swapping() bool { return s.swapBytes }

// TargetBigEndian reports the current target byte order.
func (s Swapper) TargetBigEndian() bool { return s.bigEndian }

// SwapBytes writes the byte-reversed items of src into dst. Both
// slices are interpreted as a sequence of width-sized items; dst and
// src may alias for an in-place swap. Widths other than 1, 2, 4 and 8
// panic with UnsupportedWidthError.
func SwapBytes(dst, src []byte, width int) {
	switch width {
	case 1:
		copy(dst, src)
	case 2:
		for i := 0; i+2 <= len(src); i += 2 {
			binary.NativeEndian.PutUint16(dst[i:], bits.ReverseBytes16(binary.NativeEndian.Uint16(src[i:])))
		}
	case 4:
		for i := 0; i+4 <= len(src); i += 4 {
			binary.NativeEndian.PutUint32(dst[i:], bits.ReverseBytes32(binary.NativeEndian.Uint32(src[i:])))
		}
	case 8:
		for i := 0; i+8 <= len(src); i += 8 {
			binary.NativeEndian.PutUint64(dst[i:], bits.ReverseBytes64(binary.NativeEndian.Uint64(src[i:])))
		}
	default:
		panic(UnsupportedWidthError{Width: width})
	}
}

// SwapToTarget copies the width-sized items of src into dst, reversing
// the bytes of each item when swapping is active. One-byte items are
// never swapped. dst and src may alias.
func (s Swapper) SwapToTarget(dst, src []byte, width int) {
	if !s.swapBytes || width == 1 {
		if width != 1 && width != 2 && width != 4 && width != 8 {
			panic(UnsupportedWidthError{Width: width})
		}
		copy(dst, src)
		return
	}
	SwapBytes(dst, src, width)
}

// FieldKind identifies the element width of a record field.
type FieldKind uint8

const (
	FieldByte  FieldKind = iota // 1 byte, copied verbatim
	FieldWord                   // 2 bytes
	FieldDWord                  // 4 bytes
	FieldQWord                  // 8 bytes
	FieldRecord                 // embedded record described by Sub
)

// Width returns the element width in bytes, or 0 for FieldRecord.
func (k FieldKind) Width() int {
	switch k {
	case FieldByte:
		return 1
	case FieldWord:
		return 2
	case FieldDWord:
		return 4
	case FieldQWord:
		return 8
	}
	return 0
}

// Field describes one swappable field of a composite record.
type Field struct {
	Offset int       // byte offset from the start of the record
	Kind   FieldKind // element width
	Count  int       // fixed-array element count; 0 means 1
	Size   int       // element size in bytes, required for FieldRecord
	Sub    FieldLayout
}

// FieldLayout is an ordered description of a composite record's
// swappable fields. Layouts are supplied by the caller (or generated
// with layoutgen); the swapper knows nothing about concrete types.
type FieldLayout []Field

// SwapFields converts each field of a composite record independently,
// preserving field order while reversing intra-field byte order.
// Bytes not covered by the layout (padding) are written only when
// swapping is inactive, in which case the whole record is copied.
// dst and src may alias.
func (s Swapper) SwapFields(dst, src []byte, layout FieldLayout) {
	if !s.swapBytes {
		copy(dst, src)
		return
	}
	for _, f := range layout {
		n := f.Count
		if n == 0 {
			n = 1
		}
		if f.Kind == FieldRecord {
			for i := 0; i < n; i++ {
				off := f.Offset + i*f.Size
				s.SwapFields(dst[off:off+f.Size], src[off:off+f.Size], f.Sub)
			}
			continue
		}
		w := f.Kind.Width()
		off := f.Offset
		s.SwapToTarget(dst[off:off+n*w], src[off:off+n*w], w)
	}
}

// Endianness classification results for SourceIsNativeEndian,
// numerically compatible with the original 1/0/-1 convention.
const (
	SourceNative  = 1  // input equals the native constant
	SourceSwapped = 0  // input is the byte-swapped native constant
	SourceUnknown = -1 // input matches neither
)

// SourceIsNativeEndian classifies external data against a magic value
// known in native byte order. It is used to detect the endianness of
// tagged values in structure headers.
func SourceIsNativeEndian[T ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64](input, nativeConstant T) int {
	if input == nativeConstant {
		return SourceNative
	}
	if reverseScalar(input) == nativeConstant {
		return SourceSwapped
	}
	return SourceUnknown
}

func reverseScalar[T ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64](v T) T {
	switch unsafe.Sizeof(v) {
	case 2:
		return T(bits.ReverseBytes16(uint16(v)))
	case 4:
		return T(bits.ReverseBytes32(uint32(v)))
	default:
		return T(bits.ReverseBytes64(uint64(v)))
	}
}
