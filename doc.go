// Package huffman implements static Huffman codes over arbitrary token
// alphabets.  A caller counts its tokens into a Frequencies table, builds a
// Tree, derives a CodeTable from the tree, and then uses Encode and Decode to
// move between token sequences and bit strings.
//
// Writer and Reader stream codes over an io.Writer or io.Reader, and
// EncodeSegments and DecodeSegments code independent segments in parallel.
//
// The package never logs.  Callers that want to watch the codec work can
// attach an Observer with WithObserver.
//
// Tie-breaking is fixed: nodes are ordered by count, then by a sequence
// number which is the token's position in the Frequencies table for leaves
// and the order of creation for merged nodes.  The same table therefore
// always produces the same codes.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffman
