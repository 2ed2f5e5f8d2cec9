package checksum

import "hash/crc32"

var table = crc32.MakeTable(crc32.IEEE)

// Checksum returns the CRC-32 (IEEE) of data.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, table)
}
