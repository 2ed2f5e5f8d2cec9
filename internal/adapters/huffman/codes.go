package huffman

import (
	"math"
	"sort"
	"strings"
)

// CodeTable maps a byte symbol to its code as a string of '0' and '1'.
type CodeTable map[byte]string

// BuildCodes walks the tree depth first, appending "0" on a left descent and
// "1" on a right descent. A tree made of a single leaf has no edges; its
// symbol gets the one bit code "0" so every symbol still costs a bit.
func BuildCodes(root *Node) CodeTable {
	codes := make(CodeTable)
	if root == nil {
		return codes
	}

	if root.Leaf {
		codes[root.Symbol] = "0"
		return codes
	}

	var walk func(n *Node, prefix []byte)
	walk = func(n *Node, prefix []byte) {
		if n.Leaf {
			codes[n.Symbol] = string(prefix)
			return
		}
		walk(n.Left, append(prefix, '0'))
		walk(n.Right, append(prefix, '1'))
	}
	walk(root, make([]byte, 0, 32))

	return codes
}

// IsPrefixFree reports whether no code in the table is a prefix of another.
func (t CodeTable) IsPrefixFree() bool {
	codes := make([]string, 0, len(t))
	for _, c := range t {
		codes = append(codes, c)
	}

	// After sorting, a prefix always sorts immediately before some word it prefixes.
	sort.Strings(codes)
	for i := 1; i < len(codes); i++ {
		if strings.HasPrefix(codes[i], codes[i-1]) {
			return false
		}
	}
	return true
}

// EncodedBits returns the total number of bits needed to encode a stream
// with the given frequencies using this table.
func (t CodeTable) EncodedBits(freqs [AlphabetSize]int64) int64 {
	var bits int64
	for symbol, freq := range freqs {
		if freq > 0 {
			bits += freq * int64(len(t[byte(symbol)]))
		}
	}
	return bits
}

// Entropy returns the Shannon entropy of the distribution in bits per symbol,
// the lower bound on the average code length.
func Entropy(freqs [AlphabetSize]int64) float64 {
	var total int64
	for _, f := range freqs {
		total += f
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, f := range freqs {
		if f > 0 {
			p := float64(f) / float64(total)
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
