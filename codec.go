package huffman

import (
	"context"
	"fmt"
)

// Codec bundles the code table built from a frequency table with the
// options used to build it.
type Codec[T comparable] struct {
	table *CodeTable[T]
	opts  []Option
}

// NewCodec builds the Huffman tree for freqs and generates its code table.
// The options are also applied to every later call on the Codec.
func NewCodec[T comparable](freqs *Frequencies[T], opts ...Option) (*Codec[T], error) {
	tree, err := Build(freqs, opts...)
	if err != nil {
		return nil, err
	}
	return &Codec[T]{table: Generate(tree, opts...), opts: opts}, nil
}

// NewCodecFromTable wraps an existing code table.
func NewCodecFromTable[T comparable](table *CodeTable[T], opts ...Option) *Codec[T] {
	return &Codec[T]{table: table, opts: opts}
}

// Table returns the code table.
func (c *Codec[T]) Table() *CodeTable[T] {
	return c.table
}

// Encode is Encode(tokens, c.Table()).
func (c *Codec[T]) Encode(tokens []T) (BitString, error) {
	return Encode(tokens, c.table, c.opts...)
}

// Decode is Decode(bits, c.Table()).
func (c *Codec[T]) Decode(bits BitString) ([]T, error) {
	return Decode(bits, c.table, c.opts...)
}

// Compress encodes every segment and pairs the results with the decode map,
// which is everything Decompress needs.
func (c *Codec[T]) Compress(ctx context.Context, segments [][]T) (*Payload[T], error) {
	bits, err := EncodeSegments(ctx, segments, c.table, c.opts...)
	if err != nil {
		return nil, err
	}
	return &Payload[T]{Codes: c.table.DecodeMap(), Segments: bits}, nil
}

// Payload is the unit of compressed data: the decode map together with the
// encoded segments.  A payload that was not segmented has one segment.
//
// Payload does not define a byte format; see package payload for one.
//
type Payload[T comparable] struct {
	Codes    map[Code]T
	Segments []BitString
}

// Bits returns the concatenation of all segments.
func (p *Payload[T]) Bits() BitString {
	return Concat(p.Segments...)
}

// NumBits returns the total number of encoded bits.
func (p *Payload[T]) NumBits() int {
	var total int
	for _, bs := range p.Segments {
		total += bs.Len()
	}
	return total
}

// String returns a short human-readable summary.
func (p *Payload[T]) String() string {
	return fmt.Sprintf("(Huffman payload with %d codes, %d segments, %d bits)", len(p.Codes), len(p.Segments), p.NumBits())
}

var _ fmt.Stringer = (*Payload[int])(nil)

// Decompress rebuilds the code table from p.Codes and decodes every segment.
func Decompress[T comparable](ctx context.Context, p *Payload[T], opts ...Option) ([][]T, error) {
	table, err := NewCodeTable(p.Codes)
	if err != nil {
		return nil, err
	}
	return DecompressWithTable(ctx, p, table, opts...)
}

// DecompressWithTable is like Decompress, but uses a table the caller has
// already rebuilt from p.Codes.
func DecompressWithTable[T comparable](ctx context.Context, p *Payload[T], table *CodeTable[T], opts ...Option) ([][]T, error) {
	return DecodeSegments(ctx, p.Segments, table, opts...)
}
