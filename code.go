package huffman

import (
	"fmt"
	"sort"
	"strings"
)

// MaxCodeSize is the longest Code, in bits, that this package can represent.
//
// A tree deep enough to need longer codes would require token counts whose
// total exceeds the range of uint64.
//
const MaxCodeSize = 128

const codeWords = MaxCodeSize / 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The least significant bit
	// of Bits[0] is the first bit; bit 64 of the sequence is the least
	// significant bit of Bits[1].  Bits past Size are always zero.
	Bits [codeWords]uint64
}

// MakeCode is a convenience function that constructs a Code of at most 64
// bits.  The least significant bit of bits is the first bit.
func MakeCode(size byte, bits uint64) Code {
	if size > 64 {
		panic(fmt.Errorf("MakeCode: size %d > 64", size))
	}
	if size < 64 {
		bits &= (uint64(1) << size) - 1
	}
	return Code{Size: size, Bits: [codeWords]uint64{bits}}
}

// ParseCode parses a string of '0' and '1' characters, first bit first.
func ParseCode(str string) (Code, error) {
	if len(str) > MaxCodeSize {
		return Code{}, fmt.Errorf("huffman: code %q is longer than %d bits", str, MaxCodeSize)
	}
	var hc Code
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '0':
			hc = hc.Append(0)
		case '1':
			hc = hc.Append(1)
		default:
			return Code{}, fmt.Errorf("huffman: invalid character %q in code %q", str[i], str)
		}
	}
	return hc, nil
}

// MustParseCode is like ParseCode, but panics on error.
func MustParseCode(str string) Code {
	hc, err := ParseCode(str)
	if err != nil {
		panic(err)
	}
	return hc
}

// Bit returns the i'th bit of the code, 0 or 1.
func (hc Code) Bit(i int) uint {
	if i < 0 || i >= int(hc.Size) {
		panic(fmt.Errorf("Code.Bit: index %d out of range [0, %d)", i, hc.Size))
	}
	return uint(hc.Bits[i/64]>>(uint(i)%64)) & 1
}

// Append returns the code extended by one bit.
func (hc Code) Append(bit uint) Code {
	if hc.Size >= MaxCodeSize {
		panic(fmt.Errorf("Code.Append: code is already %d bits long", hc.Size))
	}
	i := uint(hc.Size)
	hc.Bits[i/64] |= uint64(bit&1) << (i % 64)
	hc.Size++
	return hc
}

// Parent returns the code with its last bit removed.
func (hc Code) Parent() Code {
	if hc.Size == 0 {
		return hc
	}
	hc.Size--
	i := uint(hc.Size)
	hc.Bits[i/64] &^= uint64(1) << (i % 64)
	return hc
}

// Sibling returns the code with its last bit inverted.
func (hc Code) Sibling() Code {
	if hc.Size == 0 {
		return hc
	}
	i := uint(hc.Size) - 1
	hc.Bits[i/64] ^= uint64(1) << (i % 64)
	return hc
}

// HasPrefix returns true iff prefix is a (not necessarily proper) prefix of
// this code.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	for prefix.Size < hc.Size {
		hc = hc.Parent()
	}
	return hc == prefix
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	var buf strings.Builder
	buf.Grow(int(hc.Size) + 2)
	buf.WriteByte('"')
	for i := 0; i < int(hc.Size); i++ {
		buf.WriteByte('0' + byte(hc.Bit(i)))
	}
	buf.WriteByte('"')
	return buf.String()
}

var _ fmt.Stringer = Code{}

// type byCode {{{

type byCode []Code

func (list byCode) Sort() {
	sort.Sort(list)
}

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCode) Less(i, j int) bool {
	return list[i].Compare(list[j]) < 0
}

var _ sort.Interface = byCode(nil)

// }}}

// SortCodes sorts codes by size, then by bit pattern.
func SortCodes(list []Code) {
	byCode(list).Sort()
}

// Compare orders codes the way SortCodes does.  It returns -1, 0, or +1.
func (hc Code) Compare(other Code) int {
	if hc.Size != other.Size {
		if hc.Size < other.Size {
			return -1
		}
		return 1
	}
	for w := codeWords - 1; w >= 0; w-- {
		if hc.Bits[w] != other.Bits[w] {
			if hc.Bits[w] < other.Bits[w] {
				return -1
			}
			return 1
		}
	}
	return 0
}
