package huffman

// Decode splits bits back into the tokens whose codes it is made of.
//
// Bits are accumulated into a candidate code one at a time, and the token is
// emitted as soon as the candidate equals one of table's codes.  Since the
// code is prefix-free, the first match is the only possible match.
//
// It returns an *UndecodableBitstreamError if bits ends in the middle of a
// code, or if the candidate stops being a prefix of any code.
//
func Decode[T comparable](bits BitString, table *CodeTable[T], opts ...Option) ([]T, error) {
	return AppendDecode(nil, bits, table, opts...)
}

// AppendDecode is like Decode, but appends the tokens to dst.  On error, the
// returned slice is dst unchanged.
func AppendDecode[T comparable](dst []T, bits BitString, table *CodeTable[T], opts ...Option) ([]T, error) {
	cfg := makeConfig(opts)

	n := bits.Len()
	out := dst
	if table.maxSize != 0 {
		out = growTokens(out, n/int(table.maxSize))
	}
	var hc Code
	for i := 0; i < n; i++ {
		hc = hc.Append(bits.Bit(i))
		dd, found := table.prefixes[hc]
		if !found {
			return dst, &UndecodableBitstreamError{Offset: i, Pending: hc}
		}
		if dd.symbol >= 0 {
			out = append(out, table.tokens[dd.symbol])
			hc = Code{}
		}
	}
	if hc.Size != 0 {
		return dst, &UndecodableBitstreamError{Offset: n, Pending: hc}
	}

	cfg.emit(Event{Kind: EventDecoded, Tokens: len(out) - len(dst), Bits: n})
	return out, nil
}

func growTokens[T any](list []T, n int) []T {
	if n <= cap(list)-len(list) {
		return list
	}
	grown := make([]T, len(list), len(list)+n)
	copy(grown, list)
	return grown
}
