package huffman

import (
	"testing"
)

func TestCode_String(t *testing.T) {
	type testRow struct {
		code   Code
		expect string
	}

	testData := [...]testRow{
		{code: Code{}, expect: `""`},
		{code: MakeCode(1, 0), expect: `"0"`},
		{code: MakeCode(1, 1), expect: `"1"`},
		{code: MakeCode(4, 0x3), expect: `"1100"`},
		{code: MakeCode(3, 0xff), expect: `"111"`},
	}
	for _, row := range testData {
		actual := row.code.String()
		if row.expect != actual {
			t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", row.expect, actual)
		}
	}
}

func TestParseCode(t *testing.T) {
	hc, err := ParseCode("1100")
	if err != nil {
		t.Fatalf("ParseCode failed: %v", err)
	}
	if expect := MakeCode(4, 0x3); hc != expect {
		t.Errorf("expected %s, got %s", expect, hc)
	}

	if _, err := ParseCode("10x"); err == nil {
		t.Errorf("expected error for invalid character")
	}
	long := make([]byte, MaxCodeSize+1)
	for i := range long {
		long[i] = '1'
	}
	if _, err := ParseCode(string(long)); err == nil {
		t.Errorf("expected error for overlong code")
	}
}

func TestCode_Long(t *testing.T) {
	var hc Code
	for i := 0; i < 100; i++ {
		hc = hc.Append(uint(i % 3 / 2))
	}
	if hc.Size != 100 {
		t.Fatalf("expected 100 bits, got %d", hc.Size)
	}
	for i := 0; i < 100; i++ {
		if expect, actual := uint(i%3/2), hc.Bit(i); expect != actual {
			t.Errorf("bit %d: expected %d, got %d", i, expect, actual)
		}
	}

	again := MustParseCode(hc.String()[1 : 1+100])
	if again != hc {
		t.Errorf("round trip through String failed:\n\texpect: %s\n\tactual: %s", hc, again)
	}
}

func TestCode_ParentSibling(t *testing.T) {
	hc := MustParseCode("1011")

	if expect, actual := MustParseCode("101"), hc.Parent(); expect != actual {
		t.Errorf("Parent: expected %s, got %s", expect, actual)
	}
	if expect, actual := MustParseCode("1010"), hc.Sibling(); expect != actual {
		t.Errorf("Sibling: expected %s, got %s", expect, actual)
	}
	if (Code{}).Parent() != (Code{}) || (Code{}).Sibling() != (Code{}) {
		t.Errorf("empty code should be its own parent and sibling")
	}
}

func TestCode_HasPrefix(t *testing.T) {
	type testRow struct {
		code   string
		prefix string
		expect bool
	}

	testData := [...]testRow{
		{"1011", "", true},
		{"1011", "1", true},
		{"1011", "10", true},
		{"1011", "1011", true},
		{"1011", "11", false},
		{"1011", "10110", false},
		{"0", "1", false},
	}
	for _, row := range testData {
		actual := MustParseCode(row.code).HasPrefix(MustParseCode(row.prefix))
		if row.expect != actual {
			t.Errorf("%q.HasPrefix(%q): expected %v, got %v", row.code, row.prefix, row.expect, actual)
		}
	}
}

func TestSortCodes(t *testing.T) {
	codes := []Code{
		MustParseCode("111"),
		MustParseCode("0"),
		MustParseCode("110"),
		MustParseCode("10"),
	}
	SortCodes(codes)

	expect := []string{`"0"`, `"10"`, `"110"`, `"111"`}
	for i, hc := range codes {
		if hc.String() != expect[i] {
			t.Errorf("index %d: expected %s, got %s", i, expect[i], hc)
		}
	}
}

func TestCode_Compare(t *testing.T) {
	type testRow struct {
		a, b   string
		expect int
	}

	testData := [...]testRow{
		{"0", "0", 0},
		{"0", "1", -1},
		{"1", "00", -1},
		{"110", "011", -1},
		{"011", "110", 1},
	}
	for _, row := range testData {
		actual := MustParseCode(row.a).Compare(MustParseCode(row.b))
		if row.expect != actual {
			t.Errorf("Compare(%q, %q): expect %d, actual %d", row.a, row.b, row.expect, actual)
		}
	}
}
