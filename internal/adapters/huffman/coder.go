package huffman

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

var (
	ErrEmptyInput = errors.New("huffman: empty input")
	ErrBadStream  = errors.New("huffman: malformed codestream")
)

// Encoding is the outcome of entropy coding one byte stream.
type Encoding struct {
	Table       CodeTable
	Frequencies [AlphabetSize]int64

	// Packed holds the concatenated codes, MSB first, zero padded to a byte boundary.
	Packed []byte

	// BitLength is the number of meaningful bits in Packed.
	BitLength int64

	// SymbolCount is the length of the input stream.
	SymbolCount int64

	// Entropy is the Shannon entropy of the input in bits per symbol.
	Entropy float64
}

// Encode builds a Huffman code for data and packs data with it.
func Encode(data []byte) (*Encoding, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	freqs := Frequencies(data)
	root := BuildTree(freqs)
	table := BuildCodes(root)

	bits := table.EncodedBits(freqs)
	buf := bytes.NewBuffer(make([]byte, 0, (bits+7)/8))
	w := bitio.NewWriter(buf)

	for _, b := range data {
		for _, c := range table[b] {
			if err := w.WriteBool(c == '1'); err != nil {
				return nil, fmt.Errorf("huffman: pack: %w", err)
			}
		}
	}
	// Close pads the final partial byte with zero bits.
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("huffman: pack: %w", err)
	}

	return &Encoding{
		Table:       table,
		Frequencies: freqs,
		Packed:      buf.Bytes(),
		BitLength:   bits,
		SymbolCount: int64(len(data)),
		Entropy:     Entropy(freqs),
	}, nil
}

// Decode reads count symbols from packed using the tree built from the same
// frequency table. A single-leaf tree consumes one bit per symbol.
func Decode(packed []byte, root *Node, count int64) ([]byte, error) {
	if root == nil {
		if count == 0 {
			return []byte{}, nil
		}
		return nil, ErrBadStream
	}

	r := bitio.NewReader(bytes.NewReader(packed))
	out := make([]byte, 0, count)

	for int64(len(out)) < count {
		if root.Leaf {
			if _, err := r.ReadBool(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
			}
			out = append(out, root.Symbol)
			continue
		}

		n := root
		for !n.Leaf {
			bit, err := r.ReadBool()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
			}
			if bit {
				n = n.Right
			} else {
				n = n.Left
			}
		}
		out = append(out, n.Symbol)
	}

	return out, nil
}

// Container layout, little endian:
//
//	magic "MPHC" | version u8 | symbols u16 | (symbol u8, freq u64) * symbols |
//	symbol count u64 | bit length u64 | packed bits
var containerMagic = [4]byte{'M', 'P', 'H', 'C'}

const containerVersion uint8 = 1

// MarshalBinary serializes the frequency table and packed bits so that the
// stream can be decoded later.
func (e *Encoding) MarshalBinary() ([]byte, error) {
	var out bytes.Buffer
	out.Write(containerMagic[:])
	out.WriteByte(containerVersion)

	var symbols uint16
	for _, f := range e.Frequencies {
		if f > 0 {
			symbols++
		}
	}
	binary.Write(&out, binary.LittleEndian, symbols)

	for symbol, f := range e.Frequencies {
		if f > 0 {
			out.WriteByte(byte(symbol))
			binary.Write(&out, binary.LittleEndian, uint64(f))
		}
	}

	binary.Write(&out, binary.LittleEndian, uint64(e.SymbolCount))
	binary.Write(&out, binary.LittleEndian, uint64(e.BitLength))
	out.Write(e.Packed)

	return out.Bytes(), nil
}

// UnmarshalContainer parses a container produced by MarshalBinary and decodes
// the original byte stream.
func UnmarshalContainer(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != containerMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadStream)
	}

	version, err := r.ReadByte()
	if err != nil || version != containerVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadStream, version)
	}

	var symbols uint16
	if err := binary.Read(r, binary.LittleEndian, &symbols); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
	}

	var freqs [AlphabetSize]int64
	for i := 0; i < int(symbols); i++ {
		symbol, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
		}

		var f uint64
		if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
		}
		freqs[symbol] = int64(f)
	}

	var count, bitLength uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &bitLength); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
	}

	packed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStream, err)
	}
	if uint64(len(packed)) != (bitLength+7)/8 {
		return nil, fmt.Errorf("%w: %d packed bytes for %d bits", ErrBadStream, len(packed), bitLength)
	}

	return Decode(packed, BuildTree(freqs), int64(count))
}
