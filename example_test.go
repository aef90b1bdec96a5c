package huffman_test

import (
	"fmt"
	"os"

	"github.com/chronos-tachyon/huffman/v2"
)

func Example() {
	freqs := huffman.FrequenciesFromMap(map[rune]uint64{'a': 10, '!': 38, 'e': 12})

	tree, err := huffman.Build(freqs)
	if err != nil {
		panic(err)
	}
	table := huffman.Generate(tree)
	_, _ = table.Dump(os.Stdout)

	bits, err := huffman.Encode([]rune("a!e"), table)
	if err != nil {
		panic(err)
	}
	fmt.Println(bits)

	tokens, err := huffman.Decode(bits, table)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(tokens))

	// Output:
	// CodeTable{
	// 	MinSize() = 1
	// 	MaxSize() = 2
	// 	Encode('a') = "00"
	// 	Encode('e') = "01"
	// 	Encode('!') = "1"
	// }
	// 00101
	// a!e
}

func ExampleEncode_unknownToken() {
	table := mustGenerate(huffman.FrequenciesFromMap(map[rune]uint64{'a': 1, 'b': 2}))

	_, err := huffman.Encode([]rune("abx"), table)
	fmt.Println(err)

	// Output:
	// huffman: token 'x' at index 2 has no code in the table
}

func mustGenerate[T comparable](freqs *huffman.Frequencies[T]) *huffman.CodeTable[T] {
	tree, err := huffman.Build(freqs)
	if err != nil {
		panic(err)
	}
	return huffman.Generate(tree)
}
