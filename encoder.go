package huffman

// Encode concatenates the codes of tokens, in order.
//
// It returns an *UnknownTokenError for the first token that has no code in
// table.  A token is never skipped.
//
func Encode[T comparable](tokens []T, table *CodeTable[T], opts ...Option) (BitString, error) {
	return AppendEncode(BitString{}, tokens, table, opts...)
}

// AppendEncode is like Encode, but appends the result to dst.  On error, the
// returned BitString is dst unchanged.
func AppendEncode[T comparable](dst BitString, tokens []T, table *CodeTable[T], opts ...Option) (BitString, error) {
	cfg := makeConfig(opts)

	start := dst.Len()
	dst.grow(len(tokens) * int(table.minSize))

	out := dst
	for i, tok := range tokens {
		symbol, found := table.index[tok]
		if !found {
			return dst, &UnknownTokenError{Token: tok, Index: i}
		}
		out = out.AppendCode(table.codes[symbol])
	}

	cfg.emit(Event{Kind: EventEncoded, Tokens: len(tokens), Bits: out.Len() - start})
	return out, nil
}

// EncodedSize returns the number of bits Encode would produce for tokens,
// without producing them.
func EncodedSize[T comparable](tokens []T, table *CodeTable[T]) (int, error) {
	var total int
	for i, tok := range tokens {
		symbol, found := table.index[tok]
		if !found {
			return 0, &UnknownTokenError{Token: tok, Index: i}
		}
		total += int(table.codes[symbol].Size)
	}
	return total, nil
}
