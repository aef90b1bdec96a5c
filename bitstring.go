package huffman

import (
	"fmt"
	"strings"
)

// BitString is an arbitrarily long sequence of bits, such as the output of
// Encode.  It is not byte aligned.
//
// The zero value is an empty BitString ready for use.  Append methods may
// share the underlying storage with the receiver, in the manner of the
// built-in append.
//
type BitString struct {
	words []uint64
	n     int
}

// BitStringFromBytes constructs a BitString holding the first nbits bits of
// data, where each byte is read most significant bit first.  This is the
// inverse of Bytes.
func BitStringFromBytes(data []byte, nbits int) (BitString, error) {
	if nbits < 0 || nbits > 8*len(data) {
		return BitString{}, fmt.Errorf("huffman: %d bits requested from %d bytes", nbits, len(data))
	}
	var bs BitString
	bs.grow(nbits)
	for i := 0; i < nbits; i++ {
		bit := uint(data[i/8]>>(7-uint(i)%8)) & 1
		bs = bs.AppendBit(bit)
	}
	return bs, nil
}

// ParseBitString parses a string of '0' and '1' characters, first bit first.
func ParseBitString(str string) (BitString, error) {
	var bs BitString
	bs.grow(len(str))
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '0':
			bs = bs.AppendBit(0)
		case '1':
			bs = bs.AppendBit(1)
		default:
			return BitString{}, fmt.Errorf("huffman: invalid character %q in bit string", str[i])
		}
	}
	return bs, nil
}

// Len returns the number of bits in the string.
func (bs BitString) Len() int {
	return bs.n
}

// Bit returns the i'th bit, 0 or 1.
func (bs BitString) Bit(i int) uint {
	if i < 0 || i >= bs.n {
		panic(fmt.Errorf("BitString.Bit: index %d out of range [0, %d)", i, bs.n))
	}
	return uint(bs.words[i/64]>>(uint(i)%64)) & 1
}

// AppendBit returns the string extended by one bit.
func (bs BitString) AppendBit(bit uint) BitString {
	i := bs.n
	if i%64 == 0 {
		bs.words = append(bs.words[:i/64], 0)
	} else {
		bs.words = bs.words[:i/64+1]
	}
	if bit&1 != 0 {
		bs.words[i/64] |= uint64(1) << (uint(i) % 64)
	} else {
		bs.words[i/64] &^= uint64(1) << (uint(i) % 64)
	}
	bs.n++
	return bs
}

// AppendCode returns the string extended by every bit of hc.
func (bs BitString) AppendCode(hc Code) BitString {
	for i := 0; i < int(hc.Size); i++ {
		bs = bs.AppendBit(hc.Bit(i))
	}
	return bs
}

// AppendBits returns the string extended by every bit of other.
func (bs BitString) AppendBits(other BitString) BitString {
	bs.grow(other.n)
	for i := 0; i < other.n; i++ {
		bs = bs.AppendBit(other.Bit(i))
	}
	return bs
}

// Concat joins the given bit strings, in order, into a new BitString.
func Concat(parts ...BitString) BitString {
	var total int
	for _, part := range parts {
		total += part.n
	}
	var out BitString
	out.grow(total)
	for _, part := range parts {
		out = out.AppendBits(part)
	}
	return out
}

// Bytes packs the string into bytes, most significant bit first, and pads
// the final byte with zero bits.  It returns the number of padding bits,
// which is always in [0, 8).
func (bs BitString) Bytes() (data []byte, padding byte) {
	data = make([]byte, (bs.n+7)/8)
	for i := 0; i < bs.n; i++ {
		if bs.Bit(i) != 0 {
			data[i/8] |= 0x80 >> (uint(i) % 8)
		}
	}
	padding = byte(8*len(data) - bs.n)
	return data, padding
}

// Equal returns true iff both strings hold the same bits.
func (bs BitString) Equal(other BitString) bool {
	if bs.n != other.n {
		return false
	}
	full := bs.n / 64
	for w := 0; w < full; w++ {
		if bs.words[w] != other.words[w] {
			return false
		}
	}
	for i := 64 * full; i < bs.n; i++ {
		if bs.Bit(i) != other.Bit(i) {
			return false
		}
	}
	return true
}

// String returns the bits as a string of '0' and '1' characters.
func (bs BitString) String() string {
	var buf strings.Builder
	buf.Grow(bs.n)
	for i := 0; i < bs.n; i++ {
		buf.WriteByte('0' + byte(bs.Bit(i)))
	}
	return buf.String()
}

// GoString returns a Go expression that reconstructs this BitString.
func (bs BitString) GoString() string {
	return fmt.Sprintf("huffman.MustParseBitString(%q)", bs.String())
}

var _ fmt.Stringer = BitString{}
var _ fmt.GoStringer = BitString{}

// MustParseBitString is like ParseBitString, but panics on error.
func MustParseBitString(str string) BitString {
	bs, err := ParseBitString(str)
	if err != nil {
		panic(err)
	}
	return bs
}

func (bs *BitString) grow(nbits int) {
	need := (bs.n + nbits + 63) / 64
	if need <= cap(bs.words) {
		return
	}
	words := make([]uint64, len(bs.words), need)
	copy(words, bs.words)
	bs.words = words
}
