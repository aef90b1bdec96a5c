package huffman

import (
	"container/heap"

	"github.com/chronos-tachyon/assert"
)

// Node is one node of a Huffman tree.  A leaf has no children and holds a
// token; an internal node has exactly two children and a zero Token.
type Node[T comparable] struct {
	Token T
	Count uint64
	Left  *Node[T]
	Right *Node[T]
}

// IsLeaf returns true iff this node has no children.
func (n *Node[T]) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Tree is a Huffman tree built by Build.
type Tree[T comparable] struct {
	root      *Node[T]
	leaves    int
	internals int
}

// Build constructs the Huffman tree for the given frequencies.
//
// Nodes are merged two at a time, lowest count first.  The first node taken
// becomes the left child and the second becomes the right child.  Equal
// counts are ordered by sequence number: a leaf's sequence number is its
// token's position in freqs, and each merged node takes the next number
// after the last leaf, in order of creation.
//
// A table with a single token yields a tree whose root is a leaf.  An empty
// table yields ErrEmptyInput.
//
func Build[T comparable](freqs *Frequencies[T], opts ...Option) (*Tree[T], error) {
	if freqs == nil || freqs.Len() == 0 {
		return nil, ErrEmptyInput
	}
	cfg := makeConfig(opts)

	numLeaves := freqs.Len()

	// Step 1: build a minheap of leaves.

	items := make([]nodeAndSeq[T], 0, numLeaves)
	freqs.Each(func(tok T, count uint64) {
		node := &Node[T]{Token: tok, Count: count}
		items = append(items, nodeAndSeq[T]{node, len(items)})
	})
	h := nodeHeap[T]{items}
	h.Init()

	// Step 2: process the minheap by popping two nodes, combining them
	// into a new internal node, and pushing the new node back onto the
	// minheap.

	nextSeq := numLeaves
	numInternals := 0
	for h.Len() > 1 {
		a := heap.Pop(&h).(nodeAndSeq[T])
		b := heap.Pop(&h).(nodeAndSeq[T])

		parent := &Node[T]{
			Count: addSaturating(a.node.Count, b.node.Count),
			Left:  a.node,
			Right: b.node,
		}
		heap.Push(&h, nodeAndSeq[T]{parent, nextSeq})
		nextSeq++
		numInternals++
	}

	root := heap.Pop(&h).(nodeAndSeq[T]).node
	assert.Assertf(numInternals == numLeaves-1, "tree with %d leaves has %d internal nodes", numLeaves, numInternals)

	cfg.emit(Event{Kind: EventTreeBuilt, Tokens: numLeaves, Internals: numInternals})
	return &Tree[T]{root: root, leaves: numLeaves, internals: numInternals}, nil
}

// Root returns the root node.
func (t *Tree[T]) Root() *Node[T] {
	return t.root
}

// Leaves returns the number of leaf nodes, which is the number of distinct
// tokens.
func (t *Tree[T]) Leaves() int {
	return t.leaves
}

// Internals returns the number of internal nodes, which is always
// Leaves() - 1.
func (t *Tree[T]) Internals() int {
	return t.internals
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree[T]) Depth() int {
	var deepest int
	t.Walk(func(_ *Node[T], depth int) {
		if depth > deepest {
			deepest = depth
		}
	})
	return deepest
}

// Walk visits every node in depth-first order, parents before children and
// left before right.  The root has depth 0.
func (t *Tree[T]) Walk(fn func(n *Node[T], depth int)) {
	// We use stackItem.x to keep track of where we are in the tree walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the left child
	//   x=2 → We have already processed both children

	type stackItem struct {
		n *Node[T]
		x byte
	}

	if t.root == nil {
		return
	}

	stack := make([]stackItem, 0, log2int(t.leaves)+1)
	stack = append(stack, stackItem{n: t.root})
	fn(t.root, 0)
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++

		var child *Node[T]
		switch {
		case top.n.IsLeaf() || x == 2:
			stack = stack[:len(stack)-1]
			continue
		case x == 0:
			child = top.n.Left
		case x == 1:
			child = top.n.Right
		}

		fn(child, len(stack))
		stack = append(stack, stackItem{n: child})
	}
}

// type nodeAndSeq + type nodeHeap {{{

type nodeAndSeq[T comparable] struct {
	node *Node[T]
	seq  int
}

type nodeHeap[T comparable] struct {
	list []nodeAndSeq[T]
}

func (h *nodeHeap[T]) Init() {
	heap.Init(h)
}

func (h *nodeHeap[T]) Len() int {
	return len(h.list)
}

func (h *nodeHeap[T]) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap[T]) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.node.Count != b.node.Count {
		return a.node.Count < b.node.Count
	}
	return a.seq < b.seq
}

func (h *nodeHeap[T]) Push(x interface{}) {
	h.list = append(h.list, x.(nodeAndSeq[T]))
}

func (h *nodeHeap[T]) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list[last] = nodeAndSeq[T]{}
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap[int])(nil)

// }}}
