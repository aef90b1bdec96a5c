package huffman

import (
	"context"
	"errors"
	"testing"
)

func TestCodec_CompressDecompress(t *testing.T) {
	segments := makeTestSegments()
	var all []rune
	for _, seg := range segments {
		all = append(all, seg...)
	}

	codec, err := NewCodec(FrequenciesOf(all), WithWorkers(3))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	p, err := codec.Compress(context.Background(), segments)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(p.Codes) != codec.Table().Len() {
		t.Errorf("payload has %d codes, table has %d", len(p.Codes), codec.Table().Len())
	}
	if len(p.Segments) != len(segments) {
		t.Errorf("payload has %d segments, expected %d", len(p.Segments), len(segments))
	}

	whole, err := codec.Encode(all)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !p.Bits().Equal(whole) || p.NumBits() != whole.Len() {
		t.Errorf("concatenated payload differs from a single Encode")
	}

	out, err := Decompress(context.Background(), p)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	for i := range segments {
		if string(out[i]) != string(segments[i]) {
			t.Errorf("segment %d: expected %q, got %q", i, string(segments[i]), string(out[i]))
		}
	}

	back, err := codec.Decode(whole)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(back) != string(all) {
		t.Errorf("Decode: expected %q, got %q", string(all), string(back))
	}
}

func TestNewCodec_Empty(t *testing.T) {
	if _, err := NewCodec(NewFrequencies[string]()); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestDecompress_BadTable(t *testing.T) {
	p := &Payload[rune]{
		Codes:    map[Code]rune{MustParseCode("0"): 'a', MustParseCode("00"): 'b'},
		Segments: []BitString{MustParseBitString("0")},
	}
	if _, err := Decompress(context.Background(), p); !errors.Is(err, ErrInvalidCodeTable) {
		t.Errorf("expected ErrInvalidCodeTable, got %v", err)
	}
}

func TestPayload_String(t *testing.T) {
	codec, err := NewCodec(FrequenciesOf([]rune("aab")))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	p, err := codec.Compress(context.Background(), [][]rune{[]rune("aab"), []rune("b")})
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	expect := "(Huffman payload with 2 codes, 2 segments, 4 bits)"
	if actual := p.String(); expect != actual {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expect, actual)
	}
}
