package huffman

import (
	"errors"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	table := makeTestTable()

	type testRow struct {
		input  string
		expect string
	}

	testData := [...]testRow{
		{input: "", expect: ""},
		{input: "f", expect: "0"},
		{input: "ff", expect: "00"},
		{input: "abc", expect: "11001101100"},
		{input: "face", expect: "01100100111"},
		{input: "deed", expect: "101111111101"},
	}
	for _, row := range testData {
		t.Run(row.input, func(t *testing.T) {
			bs, err := Encode([]rune(row.input), table)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			actual := bs.String()
			if row.expect != actual {
				t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", row.expect, actual)
			}
		})
	}
}

func TestEncode_UnknownToken(t *testing.T) {
	freqs := FrequenciesFromMap(map[rune]uint64{'a': 1, 'b': 2})
	table := mustTable(t, freqs)

	_, err := Encode([]rune{'x'}, table)
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
	var ute *UnknownTokenError
	if !errors.As(err, &ute) {
		t.Fatalf("expected *UnknownTokenError, got %T", err)
	}
	if ute.Token != 'x' || ute.Index != 0 {
		t.Errorf("wrong error fields: token %v index %d", ute.Token, ute.Index)
	}

	_, err = Encode([]rune("abxa"), table)
	if !errors.As(err, &ute) || ute.Index != 2 {
		t.Errorf("expected unknown token at index 2, got %v", err)
	}
}

func TestAppendEncode(t *testing.T) {
	table := makeTestTable()

	dst := MustParseBitString("1")
	out, err := AppendEncode(dst, []rune("fe"), table)
	if err != nil {
		t.Fatalf("AppendEncode failed: %v", err)
	}
	if expect, actual := "10111", out.String(); expect != actual {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expect, actual)
	}

	out, err = AppendEncode(dst, []rune("fz"), table)
	if err == nil {
		t.Fatalf("expected error")
	}
	if expect, actual := "1", out.String(); expect != actual {
		t.Errorf("dst modified on error:\n\texpect: %s\n\tactual: %s", expect, actual)
	}
}

func TestEncodedSize(t *testing.T) {
	table := makeTestTable()

	input := []rune(strings.Repeat("abcdef", 10))
	size, err := EncodedSize(input, table)
	if err != nil {
		t.Fatalf("EncodedSize failed: %v", err)
	}
	bs, err := Encode(input, table)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if size != bs.Len() {
		t.Errorf("EncodedSize = %d, Encode produced %d bits", size, bs.Len())
	}
	if expect := 10 * (4 + 4 + 3 + 3 + 3 + 1); size != expect {
		t.Errorf("expected %d bits, got %d", expect, size)
	}
}
