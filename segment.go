package huffman

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// EncodeSegments encodes each segment independently, several at a time, and
// returns the bit strings in the same order as the segments.
//
// Segments must be split along token boundaries (one segment per line of
// text, say).  Decoding the concatenation of the results, in order, gives
// the concatenation of the segments.
//
// If any segment fails, the remaining work is abandoned and the error is
// returned as a *SegmentError; no partial result is returned.
//
func EncodeSegments[T comparable](ctx context.Context, segments [][]T, table *CodeTable[T], opts ...Option) ([]BitString, error) {
	cfg := makeConfig(opts)
	out := make([]BitString, len(segments))

	err := forEachSegment(ctx, cfg, len(segments), func(i int) error {
		bs, err := AppendEncode(BitString{}, segments[i], table)
		if err != nil {
			return err
		}
		out[i] = bs
		return nil
	})
	if err != nil {
		return nil, err
	}

	var totalTokens, totalBits int
	for i := range segments {
		totalTokens += len(segments[i])
		totalBits += out[i].Len()
	}
	cfg.emit(Event{Kind: EventEncoded, Tokens: totalTokens, Bits: totalBits, Segments: len(segments)})
	return out, nil
}

// DecodeSegments decodes each bit string independently, several at a time,
// and returns the token sequences in the same order.  Each segment must end
// on a code boundary, as the output of EncodeSegments does.
//
// If any segment fails, the remaining work is abandoned and the error is
// returned as a *SegmentError; no partial result is returned.
//
func DecodeSegments[T comparable](ctx context.Context, segments []BitString, table *CodeTable[T], opts ...Option) ([][]T, error) {
	cfg := makeConfig(opts)
	out := make([][]T, len(segments))

	err := forEachSegment(ctx, cfg, len(segments), func(i int) error {
		tokens, err := AppendDecode(nil, segments[i], table)
		if err != nil {
			return err
		}
		out[i] = tokens
		return nil
	})
	if err != nil {
		return nil, err
	}

	var totalTokens, totalBits int
	for i := range segments {
		totalTokens += len(out[i])
		totalBits += segments[i].Len()
	}
	cfg.emit(Event{Kind: EventDecoded, Tokens: totalTokens, Bits: totalBits, Segments: len(segments)})
	return out, nil
}

// forEachSegment runs fn(0) .. fn(n-1) on at most cfg.Workers goroutines.
// Each fn(i) writes only to its own index of the caller's result slice.
func forEachSegment(ctx context.Context, cfg Config, n int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			// Check if another worker already failed
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if err := fn(i); err != nil {
				return &SegmentError{Segment: i, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
