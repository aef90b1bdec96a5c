package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Build when the frequency table has no
	// tokens.
	ErrEmptyInput = errors.New("huffman: empty frequency table")

	// ErrUnknownToken is matched by every *UnknownTokenError.
	ErrUnknownToken = errors.New("huffman: unknown token")

	// ErrUndecodableBitstream is matched by every *UndecodableBitstreamError.
	ErrUndecodableBitstream = errors.New("huffman: undecodable bitstream")

	// ErrInvalidCodeTable is returned when a decode map is not a valid
	// prefix-free code.
	ErrInvalidCodeTable = errors.New("huffman: invalid code table")
)

// UnknownTokenError is returned by the encoders when a token has no code in
// the table.
type UnknownTokenError struct {
	Token any
	Index int
}

func (err *UnknownTokenError) Error() string {
	return fmt.Sprintf("huffman: token %s at index %d has no code in the table", formatToken(err.Token), err.Index)
}

// Is matches ErrUnknownToken.
func (err *UnknownTokenError) Is(target error) bool {
	return target == ErrUnknownToken
}

// UndecodableBitstreamError is returned by the decoders when the input ends
// partway through a code, or contains a bit path that matches no code.
type UndecodableBitstreamError struct {
	// Offset is the index of the bit at which the problem was detected.
	// For a truncated input, it equals the input length.
	Offset int

	// Pending holds the unmatched bits accumulated so far.
	Pending Code
}

func (err *UndecodableBitstreamError) Error() string {
	return fmt.Sprintf("huffman: undecodable bitstream at bit %d: pending bits %s match no code", err.Offset, err.Pending)
}

// Is matches ErrUndecodableBitstream.
func (err *UndecodableBitstreamError) Is(target error) bool {
	return target == ErrUndecodableBitstream
}

// SegmentError wraps an error from one segment in segment mode.
type SegmentError struct {
	Segment int
	Err     error
}

func (err *SegmentError) Error() string {
	return fmt.Sprintf("segment %d: %v", err.Segment, err.Err)
}

// Unwrap returns the underlying error.
func (err *SegmentError) Unwrap() error {
	return err.Err
}

var (
	_ error = (*UnknownTokenError)(nil)
	_ error = (*UndecodableBitstreamError)(nil)
	_ error = (*SegmentError)(nil)
)
