// Package payload defines a self-contained byte format for huffman.Payload.
//
// Layout:
//
//	"HUF2" | version | uvarint(len(table)) | table | bits
//
//	table = uvarint(n) then, for each code in (size, bits) order:
//	        size byte | ceil(size/8) code bytes, first bit in the MSB |
//	        uvarint(len(token)) | token bytes
//
//	bits  = uvarint(segments) | uvarint(nbits) per segment |
//	        every segment's bits back to back, zero-padded to a whole byte
//
// The table is written canonically, so two payloads built from the same
// code table carry identical table bytes.  A Decoder uses this to cache
// rebuilt tables.
package payload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chronos-tachyon/huffman/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/icza/bitio"
)

const (
	// Magic opens every payload.
	Magic = "HUF2"

	// Version is the only format version understood by this package.
	Version = 1

	maxTableBytes = 1 << 26
	chunkBits     = 32
)

var (
	// ErrBadMagic is returned when the input does not start with Magic.
	ErrBadMagic = errors.New("payload: bad magic")

	// ErrUnsupportedVersion is returned for a version other than Version.
	ErrUnsupportedVersion = errors.New("payload: unsupported version")

	// ErrCorrupt is returned when the input is truncated or malformed.
	ErrCorrupt = errors.New("payload: corrupt data")
)

// Marshal writes p to w.  The codes in p.Codes are not validated.
func Marshal[T comparable](w io.Writer, p *huffman.Payload[T], tc TokenCodec[T]) error {
	table := appendTable(nil, p.Codes, tc)

	header := make([]byte, 0, len(Magic)+1+binary.MaxVarintLen64*(2+len(p.Segments))+len(table))
	header = append(header, Magic...)
	header = append(header, Version)
	header = binary.AppendUvarint(header, uint64(len(table)))
	header = append(header, table...)
	header = binary.AppendUvarint(header, uint64(len(p.Segments)))
	for _, bs := range p.Segments {
		header = binary.AppendUvarint(header, uint64(bs.Len()))
	}

	bw := bitio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	for _, bs := range p.Segments {
		if err := writeBitString(bw, bs); err != nil {
			return err
		}
	}
	return bw.Close()
}

func appendTable[T comparable](dst []byte, codes map[huffman.Code]T, tc TokenCodec[T]) []byte {
	sorted := make([]huffman.Code, 0, len(codes))
	for hc := range codes {
		sorted = append(sorted, hc)
	}
	huffman.SortCodes(sorted)

	dst = binary.AppendUvarint(dst, uint64(len(sorted)))
	for _, hc := range sorted {
		dst = append(dst, hc.Size)
		dst = appendCodeBits(dst, hc)

		tok := tc.AppendToken(nil, codes[hc])
		dst = binary.AppendUvarint(dst, uint64(len(tok)))
		dst = append(dst, tok...)
	}
	return dst
}

func appendCodeBits(dst []byte, hc huffman.Code) []byte {
	data := make([]byte, (int(hc.Size)+7)/8)
	for i := 0; i < int(hc.Size); i++ {
		if hc.Bit(i) != 0 {
			data[i/8] |= 0x80 >> (uint(i) % 8)
		}
	}
	return append(dst, data...)
}

func writeBitString(bw *bitio.Writer, bs huffman.BitString) error {
	n := bs.Len()
	for i := 0; i < n; i += chunkBits {
		end := i + chunkBits
		if end > n {
			end = n
		}
		var u uint64
		for j := i; j < end; j++ {
			u = u<<1 | uint64(bs.Bit(j))
		}
		if err := bw.WriteBits(u, uint8(end-i)); err != nil {
			return err
		}
	}
	return nil
}

// type Decoder {{{

// Decoder reads payloads whose tokens are decoded by a TokenCodec.
//
// A Decoder remembers the code tables it has rebuilt, keyed by their raw
// bytes, so a stream of payloads sharing a table only validates it once.
// It is safe for concurrent use.
//
type Decoder[T comparable] struct {
	tc    TokenCodec[T]
	cache *lru.Cache[string, *huffman.CodeTable[T]]
}

// NewDecoder returns a Decoder that caches up to cacheSize tables.  A
// cacheSize of zero disables the cache.
func NewDecoder[T comparable](tc TokenCodec[T], cacheSize int) (*Decoder[T], error) {
	d := &Decoder[T]{tc: tc}
	if cacheSize < 0 {
		return nil, fmt.Errorf("payload: cache size %d is negative", cacheSize)
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, *huffman.CodeTable[T]](cacheSize)
		if err != nil {
			return nil, err
		}
		d.cache = cache
	}
	return d, nil
}

// Unmarshal reads one payload from r.  Along with the payload, it returns
// the code table rebuilt from the payload's codes, ready for
// huffman.DecompressWithTable.
//
// Data past the end of the payload may be consumed from r by buffering.
func (d *Decoder[T]) Unmarshal(r io.Reader) (*huffman.Payload[T], *huffman.CodeTable[T], error) {
	br := bitio.NewReader(r)

	var magic [len(Magic)]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, nil, truncated(err, "magic")
	}
	if string(magic[:]) != Magic {
		return nil, nil, fmt.Errorf("%w: %q", ErrBadMagic, magic[:])
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, nil, truncated(err, "version")
	}
	if version != Version {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	tableLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, nil, truncated(err, "table length")
	}
	if tableLen > maxTableBytes {
		return nil, nil, fmt.Errorf("%w: table length %d exceeds %d", ErrCorrupt, tableLen, maxTableBytes)
	}
	// Grow with the data actually read, not with the declared length.
	raw, err := io.ReadAll(io.LimitReader(br, int64(tableLen)))
	if err != nil {
		return nil, nil, truncated(err, "table")
	}
	if uint64(len(raw)) != tableLen {
		return nil, nil, truncated(io.ErrUnexpectedEOF, "table")
	}

	table, err := d.table(raw)
	if err != nil {
		return nil, nil, err
	}

	segments, err := readSegments(br)
	if err != nil {
		return nil, nil, err
	}

	p := &huffman.Payload[T]{Codes: table.DecodeMap(), Segments: segments}
	return p, table, nil
}

func (d *Decoder[T]) table(raw []byte) (*huffman.CodeTable[T], error) {
	if d.cache != nil {
		if table, found := d.cache.Get(string(raw)); found {
			return table, nil
		}
	}

	codes, err := parseTable(raw, d.tc)
	if err != nil {
		return nil, err
	}
	table, err := huffman.NewCodeTable(codes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if d.cache != nil {
		d.cache.Add(string(raw), table)
	}
	return table, nil
}

// }}}

// Unmarshal reads one payload from r without caching its table.
func Unmarshal[T comparable](r io.Reader, tc TokenCodec[T]) (*huffman.Payload[T], *huffman.CodeTable[T], error) {
	d := &Decoder[T]{tc: tc}
	return d.Unmarshal(r)
}

func parseTable[T comparable](raw []byte, tc TokenCodec[T]) (map[huffman.Code]T, error) {
	rest := raw
	n, k := binary.Uvarint(rest)
	if k <= 0 {
		return nil, fmt.Errorf("%w: bad table entry count", ErrCorrupt)
	}
	rest = rest[k:]

	// Every entry takes at least three bytes.
	if n > uint64(len(rest)/3) {
		return nil, fmt.Errorf("%w: table claims %d entries in %d bytes", ErrCorrupt, n, len(rest))
	}

	codes := make(map[huffman.Code]T, n)
	var prev huffman.Code
	for i := uint64(0); i < n; i++ {
		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: table entry %d: missing code size", ErrCorrupt, i)
		}
		size := rest[0]
		rest = rest[1:]
		if size == 0 || size > huffman.MaxCodeSize {
			return nil, fmt.Errorf("%w: table entry %d: code size %d", ErrCorrupt, i, size)
		}

		nbytes := (int(size) + 7) / 8
		if len(rest) < nbytes {
			return nil, fmt.Errorf("%w: table entry %d: truncated code", ErrCorrupt, i)
		}
		hc, ok := parseCodeBits(rest[:nbytes], size)
		if !ok {
			return nil, fmt.Errorf("%w: table entry %d: nonzero padding bits", ErrCorrupt, i)
		}
		rest = rest[nbytes:]
		if i != 0 && prev.Compare(hc) >= 0 {
			return nil, fmt.Errorf("%w: table entry %d: code %s out of order", ErrCorrupt, i, hc)
		}
		prev = hc

		tokLen, k := binary.Uvarint(rest)
		if k <= 0 || tokLen > uint64(len(rest)-k) {
			return nil, fmt.Errorf("%w: table entry %d: bad token length", ErrCorrupt, i)
		}
		rest = rest[k:]
		tok, err := tc.ParseToken(rest[:tokLen])
		if err != nil {
			return nil, fmt.Errorf("%w: table entry %d: %w", ErrCorrupt, i, err)
		}
		rest = rest[tokLen:]

		codes[hc] = tok
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after table", ErrCorrupt, len(rest))
	}
	return codes, nil
}

func parseCodeBits(data []byte, size byte) (huffman.Code, bool) {
	var hc huffman.Code
	for i := 0; i < 8*len(data); i++ {
		bit := uint(data[i/8]>>(7-uint(i)%8)) & 1
		if i >= int(size) {
			if bit != 0 {
				return hc, false
			}
			continue
		}
		hc = hc.Append(bit)
	}
	return hc, true
}

func readSegments(br *bitio.Reader) ([]huffman.BitString, error) {
	count, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, truncated(err, "segment count")
	}

	lengths := make([]int, 0, min(count, 1024))
	var total uint64
	for i := uint64(0); i < count; i++ {
		nbits, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, truncated(err, "segment length")
		}
		total += nbits
		if nbits > math.MaxInt32 || total > math.MaxInt32 {
			return nil, fmt.Errorf("%w: segment %d: %d bits is too long", ErrCorrupt, i, nbits)
		}
		lengths = append(lengths, int(nbits))
	}

	segments := make([]huffman.BitString, len(lengths))
	for i, nbits := range lengths {
		bs, err := readBitString(br, nbits)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments[i] = bs
	}

	if pad := uint8((8 - total%8) % 8); pad != 0 {
		u, err := br.ReadBits(pad)
		if err != nil {
			return nil, truncated(err, "padding")
		}
		if u != 0 {
			return nil, fmt.Errorf("%w: nonzero padding bits", ErrCorrupt)
		}
	}
	return segments, nil
}

func readBitString(br *bitio.Reader, nbits int) (huffman.BitString, error) {
	var bs huffman.BitString
	for i := 0; i < nbits; i += chunkBits {
		n := nbits - i
		if n > chunkBits {
			n = chunkBits
		}
		u, err := br.ReadBits(uint8(n))
		if err != nil {
			return huffman.BitString{}, truncated(err, "bits")
		}
		for j := n - 1; j >= 0; j-- {
			bs = bs.AppendBit(uint(u>>uint(j)) & 1)
		}
	}
	return bs, nil
}

func truncated(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s: %w", ErrCorrupt, what, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("payload: reading %s: %w", what, err)
}
