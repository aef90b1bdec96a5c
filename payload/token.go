package payload

import (
	"fmt"
	"unicode/utf8"
)

// TokenCodec converts tokens to and from the bytes stored in a payload's
// code table.
type TokenCodec[T comparable] interface {
	// AppendToken appends the encoding of tok to dst.
	AppendToken(dst []byte, tok T) []byte

	// ParseToken decodes a token that was written by AppendToken.  The
	// input must be consumed exactly.
	ParseToken(data []byte) (T, error)
}

// Runes stores each rune as UTF-8.
type Runes struct{}

func (Runes) AppendToken(dst []byte, tok rune) []byte {
	return utf8.AppendRune(dst, tok)
}

func (Runes) ParseToken(data []byte) (rune, error) {
	ch, size := utf8.DecodeRune(data)
	if ch == utf8.RuneError && size <= 1 {
		return 0, fmt.Errorf("invalid UTF-8 sequence %q", data)
	}
	if size != len(data) {
		return 0, fmt.Errorf("rune token %q has %d trailing bytes", data, len(data)-size)
	}
	return ch, nil
}

// Strings stores each string as its raw bytes.
type Strings struct{}

func (Strings) AppendToken(dst []byte, tok string) []byte {
	return append(dst, tok...)
}

func (Strings) ParseToken(data []byte) (string, error) {
	return string(data), nil
}

var (
	_ TokenCodec[rune]   = Runes{}
	_ TokenCodec[string] = Strings{}
)
