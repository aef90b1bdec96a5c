// Package tokenize splits text into the token streams that package huffman
// compresses: either one token per character, or one token per
// space-terminated word.
//
// Concatenating the tokens of a line in order yields the line again, so
// decoded segments can be re-joined with JoinRunes or JoinWords.  Words
// preserves arbitrary bytes.  Chars only does so for valid UTF-8; check the
// input with CheckUTF8 first.
package tokenize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/chronos-tachyon/huffman/v2"
)

// ReadLines reads r to EOF and returns its lines.  Each line keeps its
// trailing '\n'; the last line has none if the input did not end with one.
// Empty input yields no lines.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// ErrInvalidUTF8 is matched by every *InvalidUTF8Error.
var ErrInvalidUTF8 = errors.New("tokenize: invalid UTF-8")

// InvalidUTF8Error reports the first byte of a line that is not valid UTF-8.
type InvalidUTF8Error struct {
	Line   int // 1-based
	Offset int // byte offset within the line
}

func (err *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("tokenize: line %d: invalid UTF-8 at byte %d", err.Line, err.Offset)
}

// Is matches ErrInvalidUTF8.
func (err *InvalidUTF8Error) Is(target error) bool {
	return target == ErrInvalidUTF8
}

// CheckUTF8 returns an *InvalidUTF8Error for the first line that is not
// valid UTF-8, or nil.
func CheckUTF8(lines []string) error {
	for i, line := range lines {
		if utf8.ValidString(line) {
			continue
		}
		for j := 0; j < len(line); {
			ch, size := utf8.DecodeRuneInString(line[j:])
			if ch == utf8.RuneError && size == 1 {
				return &InvalidUTF8Error{Line: i + 1, Offset: j}
			}
			j += size
		}
	}
	return nil
}

// Chars splits a line into runes.  Each invalid UTF-8 byte becomes
// utf8.RuneError, so the split is only reversible for valid input.
func Chars(line string) []rune {
	return []rune(line)
}

// Words splits a line after every space.  The space stays attached to the
// word before it, and a run of spaces yields one " " token per extra space.
func Words(line string) []string {
	words := strings.SplitAfter(line, " ")
	if n := len(words); n != 0 && words[n-1] == "" {
		words = words[:n-1]
	}
	return words
}

// Count tallies the tokens of every line, in order of first appearance.
func Count[T comparable](lines []string, split func(string) []T) *huffman.Frequencies[T] {
	freqs := huffman.NewFrequencies[T]()
	for _, line := range lines {
		for _, tok := range split(line) {
			freqs.Add(tok, 1)
		}
	}
	return freqs
}

// Segments splits every line, yielding one segment per line.
func Segments[T comparable](lines []string, split func(string) []T) [][]T {
	out := make([][]T, len(lines))
	for i, line := range lines {
		out[i] = split(line)
	}
	return out
}

// JoinRunes concatenates decoded character segments.
func JoinRunes(segments [][]rune) string {
	var sb strings.Builder
	for _, seg := range segments {
		for _, ch := range seg {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// JoinWords concatenates decoded word segments.
func JoinWords(segments [][]string) string {
	var sb strings.Builder
	for _, seg := range segments {
		for _, word := range seg {
			sb.WriteString(word)
		}
	}
	return sb.String()
}
