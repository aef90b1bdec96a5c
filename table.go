package huffman

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/chronos-tachyon/assert"
)

// CodeTable is a prefix-free code for a set of tokens.  It maps each token
// to its Code and each Code back to its token.
//
// A CodeTable is immutable once constructed and is safe for concurrent use.
//
type CodeTable[T comparable] struct {
	tokens   []T
	codes    []Code
	index    map[T]Symbol
	prefixes map[Code]decoderData
	minSize  byte
	maxSize  byte
}

// Generate derives the code table for a Huffman tree.  Descending to a left
// child appends a 0 bit and descending to a right child appends a 1 bit; each
// leaf's token receives the bits accumulated on the way to it.
//
// If the tree is a single leaf, its token receives the one-bit code "0".
//
// The returned table does not refer to the tree.
//
func Generate[T comparable](tree *Tree[T], opts ...Option) *CodeTable[T] {
	assert.Assertf(tree != nil && tree.root != nil, "Generate called with an empty tree")
	cfg := makeConfig(opts)

	tokens := make([]T, 0, tree.leaves)
	codes := make([]Code, 0, tree.leaves)

	if tree.root.IsLeaf() {
		tokens = append(tokens, tree.root.Token)
		codes = append(codes, MakeCode(1, 0))
	} else {
		// Same walk as Tree.Walk, but each stack item also carries the
		// code of the path leading to it.

		type stackItem struct {
			n  *Node[T]
			hc Code
			x  byte
		}

		stack := make([]stackItem, 0, log2int(tree.leaves)+1)
		stack = append(stack, stackItem{n: tree.root})
		for len(stack) != 0 {
			top := &stack[len(stack)-1]
			x := top.x
			top.x++

			var child *Node[T]
			var bit uint
			switch x {
			case 0:
				child, bit = top.n.Left, 0
			case 1:
				child, bit = top.n.Right, 1
			default:
				stack = stack[:len(stack)-1]
				continue
			}

			assert.Assertf(top.hc.Size < MaxCodeSize, "Huffman tree is deeper than %d levels", MaxCodeSize)
			hc := top.hc.Append(bit)
			if child.IsLeaf() {
				tokens = append(tokens, child.Token)
				codes = append(codes, hc)
			} else {
				stack = append(stack, stackItem{n: child, hc: hc})
			}
		}
	}

	assert.Assertf(len(tokens) == tree.leaves, "tree with %d leaves yielded %d codes", tree.leaves, len(tokens))

	t := newCodeTable(tokens, codes)
	cfg.emit(Event{Kind: EventTableGenerated, Tokens: len(tokens), MinSize: t.minSize, MaxSize: t.maxSize})
	return t
}

// NewCodeTable reconstructs a CodeTable from its decode map, such as one
// read back from storage.  The map must be non-empty, must not assign one
// token to two codes, and must be prefix-free; codes must be between 1 and
// MaxCodeSize bits long.  Violations are reported as ErrInvalidCodeTable.
func NewCodeTable[T comparable](decode map[Code]T) (*CodeTable[T], error) {
	if len(decode) == 0 {
		return nil, fmt.Errorf("%w: no codes", ErrInvalidCodeTable)
	}
	if uint64(len(decode)) > uint64(MaxSymbol) {
		return nil, fmt.Errorf("%w: %d codes > %d", ErrInvalidCodeTable, len(decode), MaxSymbol)
	}

	codes := make([]Code, 0, len(decode))
	for hc := range decode {
		codes = append(codes, hc)
	}
	SortCodes(codes)

	seen := make(map[T]Code, len(decode))
	tokens := make([]T, 0, len(decode))
	for _, hc := range codes {
		if hc.Size == 0 || hc.Size > MaxCodeSize {
			return nil, fmt.Errorf("%w: code size %d out of range [1, %d]", ErrInvalidCodeTable, hc.Size, MaxCodeSize)
		}
		if !isNormalized(hc) {
			return nil, fmt.Errorf("%w: code %s has bits set past its size", ErrInvalidCodeTable, hc)
		}

		tok := decode[hc]
		if other, found := seen[tok]; found {
			return nil, fmt.Errorf("%w: token %s has two codes, %s and %s", ErrInvalidCodeTable, formatToken(tok), other, hc)
		}
		seen[tok] = hc
		tokens = append(tokens, tok)

		for prefix := hc.Parent(); prefix.Size != 0; prefix = prefix.Parent() {
			if _, found := decode[prefix]; found {
				return nil, fmt.Errorf("%w: code %s is a prefix of code %s", ErrInvalidCodeTable, prefix, hc)
			}
		}
	}

	return newCodeTable(tokens, codes), nil
}

func newCodeTable[T comparable](tokens []T, codes []Code) *CodeTable[T] {
	numSymbols := len(tokens)
	assert.Assertf(uint64(numSymbols) <= uint64(MaxSymbol), "numSymbols %d > MaxSymbol %d", numSymbols, int(MaxSymbol))

	// len(prefixes) is approximately n×log2(n) when filled.
	numTableSlots := numSymbols * int(log2int(numSymbols))

	t := &CodeTable[T]{
		tokens:   tokens,
		codes:    codes,
		index:    make(map[T]Symbol, numSymbols),
		prefixes: make(map[Code]decoderData, numTableSlots),
	}

	for symbol := Symbol(0); symbol < Symbol(numSymbols); symbol++ {
		hc := codes[symbol]
		t.index[tokens[symbol]] = symbol
		fillTable(t.prefixes, symbol, hc)

		if symbol == 0 || t.minSize > hc.Size {
			t.minSize = hc.Size
		}
		if symbol == 0 || t.maxSize < hc.Size {
			t.maxSize = hc.Size
		}
	}
	return t
}

// Len returns the number of tokens in the table.
func (t *CodeTable[T]) Len() int {
	return len(t.tokens)
}

// Lookup returns the code for tok.
func (t *CodeTable[T]) Lookup(tok T) (Code, bool) {
	symbol, found := t.index[tok]
	if !found {
		return Code{}, false
	}
	return t.codes[symbol], true
}

// Token returns the token whose code is exactly hc.
func (t *CodeTable[T]) Token(hc Code) (T, bool) {
	dd, found := t.prefixes[hc]
	if !found || dd.symbol < 0 {
		var zero T
		return zero, false
	}
	return t.tokens[dd.symbol], true
}

// Decode looks up a possibly incomplete code.
//
// If hc is a complete code, symbol >= 0 and minSize == maxSize == hc.Size.
//
// If hc is a proper prefix of one or more codes, symbol == InvalidSymbol and
// the shortest and longest such codes are minSize and maxSize bits long.
//
// If hc is not a prefix of any code, symbol == InvalidSymbol and
// minSize == maxSize == 0.
//
func (t *CodeTable[T]) Decode(hc Code) (symbol Symbol, minSize byte, maxSize byte) {
	dd, found := t.prefixes[hc]
	if !found {
		return InvalidSymbol, 0, 0
	}
	return dd.symbol, dd.minSize, dd.maxSize
}

// TokenBySymbol returns the token with the given symbol.
func (t *CodeTable[T]) TokenBySymbol(symbol Symbol) T {
	return t.tokens[symbol]
}

// CodeBySymbol returns the code of the token with the given symbol.
func (t *CodeTable[T]) CodeBySymbol(symbol Symbol) Code {
	return t.codes[symbol]
}

// MinSize is the bit length of the shortest code.
func (t *CodeTable[T]) MinSize() byte {
	return t.minSize
}

// MaxSize is the bit length of the longest code.
func (t *CodeTable[T]) MaxSize() byte {
	return t.maxSize
}

// EncodeMap returns a copy of the token to code mapping.
func (t *CodeTable[T]) EncodeMap() map[T]Code {
	out := make(map[T]Code, len(t.tokens))
	for symbol, tok := range t.tokens {
		out[tok] = t.codes[symbol]
	}
	return out
}

// DecodeMap returns a copy of the code to token mapping.  This is the only
// part of the table a receiver needs; see NewCodeTable.
func (t *CodeTable[T]) DecodeMap() map[Code]T {
	out := make(map[Code]T, len(t.tokens))
	for symbol, tok := range t.tokens {
		out[t.codes[symbol]] = tok
	}
	return out
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer, one token per line in symbol order.
func (t *CodeTable[T]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", t.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", t.maxSize)
	for symbol, tok := range t.tokens {
		fmt.Fprintf(&buf, "\tEncode(%s) = %s\n", formatToken(tok), t.codes[symbol])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// String returns a short human-readable summary.
func (t *CodeTable[T]) String() string {
	return fmt.Sprintf("(Huffman code table with %d tokens, with coded lengths of %d .. %d bits)", len(t.tokens), t.minSize, t.maxSize)
}

var _ fmt.Stringer = (*CodeTable[int])(nil)

type decoderData struct {
	symbol  Symbol
	minSize byte
	maxSize byte
}

// fillTable records hc as the code for symbol, then walks back toward the
// root updating the min/max sizes reachable beneath each proper prefix.
func fillTable(table map[Code]decoderData, symbol Symbol, hc Code) {
	dd := decoderData{symbol, hc.Size, hc.Size}
	table[hc] = dd

	for hc.Size != 0 {
		// Merge the dd's from "xxx...a" (dd) and "xxx...A" (ddSibling)
		// into ddNew (the new parent for dd and ddSibling).

		ddNew := decoderData{InvalidSymbol, dd.minSize, dd.maxSize}
		if ddSibling, found := table[hc.Sibling()]; found {
			if ddNew.minSize > ddSibling.minSize {
				ddNew.minSize = ddSibling.minSize
			}
			if ddNew.maxSize < ddSibling.maxSize {
				ddNew.maxSize = ddSibling.maxSize
			}
		}

		hc = hc.Parent()

		// If table[hc] already equals ddNew, we can stop recursing.

		if ddOld, found := table[hc]; found && ddOld == ddNew {
			break
		}

		table[hc] = ddNew
		dd = ddNew
	}
}

func isNormalized(hc Code) bool {
	var clean Code
	for i := 0; i < int(hc.Size) && i < MaxCodeSize; i++ {
		clean = clean.Append(hc.Bit(i))
	}
	return clean == hc
}

func formatToken(tok any) string {
	switch x := tok.(type) {
	case rune:
		return strconv.QuoteRune(x)
	case string:
		return strconv.Quote(x)
	case byte:
		return fmt.Sprintf("0x%02x", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
