package huffman

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgryski/go-bitstream"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("huffman: write to closed Writer")

// Writer encodes tokens straight to an io.Writer, most significant bit of
// each byte first.  Close must be called to flush the final partial byte.
type Writer[T comparable] struct {
	table   *CodeTable[T]
	bw      *bitstream.BitWriter
	nbits   int
	count   int
	padding byte
	closed  bool
}

// NewWriter returns a Writer that encodes tokens with table onto w.
func NewWriter[T comparable](w io.Writer, table *CodeTable[T]) *Writer[T] {
	return &Writer[T]{table: table, bw: bitstream.NewWriter(w)}
}

// WriteToken writes the code for tok.  An unknown token is reported as an
// *UnknownTokenError whose Index counts the tokens written so far.
func (w *Writer[T]) WriteToken(tok T) error {
	if w.closed {
		return ErrClosed
	}
	hc, found := w.table.Lookup(tok)
	if !found {
		return &UnknownTokenError{Token: tok, Index: w.count}
	}
	for i := 0; i < int(hc.Size); i++ {
		if err := w.bw.WriteBit(bitstream.Bit(hc.Bit(i) != 0)); err != nil {
			return err
		}
	}
	w.nbits += int(hc.Size)
	w.count++
	return nil
}

// WriteTokens writes the codes for every token in tokens.
func (w *Writer[T]) WriteTokens(tokens []T) error {
	for _, tok := range tokens {
		if err := w.WriteToken(tok); err != nil {
			return err
		}
	}
	return nil
}

// WriteBits writes already-encoded bits, such as the output of Encode.
func (w *Writer[T]) WriteBits(bs BitString) error {
	if w.closed {
		return ErrClosed
	}
	for i := 0; i < bs.Len(); i++ {
		if err := w.bw.WriteBit(bitstream.Bit(bs.Bit(i) != 0)); err != nil {
			return err
		}
	}
	w.nbits += bs.Len()
	return nil
}

// Bits returns the number of bits written so far, not counting padding.
func (w *Writer[T]) Bits() int {
	return w.nbits
}

// Padding returns the number of zero bits Close added to complete the last
// byte.  It is only meaningful after Close.
func (w *Writer[T]) Padding() byte {
	return w.padding
}

// Close pads the last byte with zero bits and flushes it.  It does not close
// the underlying io.Writer.
func (w *Writer[T]) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.padding = byte((8 - w.nbits%8) % 8)
	return w.bw.Flush(bitstream.Zero)
}

var _ io.Closer = (*Writer[int])(nil)

// Reader decodes tokens from an io.Reader holding the output of a Writer.
// The number of meaningful bits must be known in advance, since the padding
// at the end of the last byte could otherwise be mistaken for codes.
type Reader[T comparable] struct {
	table     *CodeTable[T]
	br        *bitstream.BitReader
	remaining int
	offset    int
}

// NewReader returns a Reader that decodes nbits bits from r with table.
// A negative nbits is an error.
func NewReader[T comparable](r io.Reader, table *CodeTable[T], nbits int) (*Reader[T], error) {
	if nbits < 0 {
		return nil, fmt.Errorf("huffman: negative bit count %d", nbits)
	}
	return &Reader[T]{table: table, br: bitstream.NewReader(r), remaining: nbits}, nil
}

// ReadToken decodes the next token.  It returns io.EOF once all nbits bits
// have been consumed on a code boundary, an *UndecodableBitstreamError if
// they run out partway through a code, and io.ErrUnexpectedEOF if r runs
// out before nbits bits have been read.
func (r *Reader[T]) ReadToken() (T, error) {
	var zero T
	if r.remaining == 0 {
		return zero, io.EOF
	}

	var hc Code
	for {
		if r.remaining == 0 {
			return zero, &UndecodableBitstreamError{Offset: r.offset, Pending: hc}
		}

		bit, err := r.br.ReadBit()
		if err == io.EOF {
			return zero, io.ErrUnexpectedEOF
		}
		if err != nil {
			return zero, fmt.Errorf("huffman: read bit %d: %w", r.offset, err)
		}
		r.remaining--
		r.offset++

		if bit == bitstream.One {
			hc = hc.Append(1)
		} else {
			hc = hc.Append(0)
		}

		dd, found := r.table.prefixes[hc]
		if !found {
			return zero, &UndecodableBitstreamError{Offset: r.offset - 1, Pending: hc}
		}
		if dd.symbol >= 0 {
			return r.table.tokens[dd.symbol], nil
		}
	}
}

// ReadAll decodes tokens until io.EOF.  A clean io.EOF is not reported as an
// error.
func (r *Reader[T]) ReadAll() ([]T, error) {
	var out []T
	for {
		tok, err := r.ReadToken()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}
