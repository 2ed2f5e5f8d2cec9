// Package huffman implements the Huffman entropy coder: frequency counting,
// tree construction over a 256-symbol alphabet, prefix code assignment and
// MSB-first bit packing.
package huffman

import "container/heap"

// AlphabetSize is the number of distinct byte symbols.
const AlphabetSize = 256

// Node is a Huffman tree node. Leaves carry a symbol, internal nodes carry
// the sum of their children's frequencies. A tree is built once per call and
// discarded after code extraction.
type Node struct {
	Symbol byte
	Leaf   bool
	Freq   int64
	Left   *Node
	Right  *Node

	seq int // insertion order, breaks frequency ties
}

// nodeHeap is a min-heap keyed by frequency, then insertion order.
type nodeHeap []*Node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].Freq != h[j].Freq {
		return h[i].Freq < h[j].Freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*Node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return node
}

// Frequencies counts occurrences of every byte value in data.
func Frequencies(data []byte) [AlphabetSize]int64 {
	var freqs [AlphabetSize]int64
	for _, b := range data {
		freqs[b]++
	}
	return freqs
}

// BuildTree builds a Huffman tree from a frequency table. Symbols with a zero
// count are left out. Returns nil when every count is zero.
//
// Leaves enter the queue in ascending symbol order and merged parents receive
// increasing sequence numbers; equal frequencies are extracted in that order,
// which makes the tree deterministic for a given table. The first extracted
// node becomes the left child.
func BuildTree(freqs [AlphabetSize]int64) *Node {
	h := make(nodeHeap, 0, AlphabetSize)
	seq := 0

	for symbol, freq := range freqs {
		if freq <= 0 {
			continue
		}
		h = append(h, &Node{Symbol: byte(symbol), Leaf: true, Freq: freq, seq: seq})
		seq++
	}

	if len(h) == 0 {
		return nil
	}

	heap.Init(&h)
	for h.Len() > 1 {
		left := heap.Pop(&h).(*Node)
		right := heap.Pop(&h).(*Node)

		heap.Push(&h, &Node{Freq: left.Freq + right.Freq, Left: left, Right: right, seq: seq})
		seq++
	}

	return heap.Pop(&h).(*Node)
}
