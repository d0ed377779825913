// Package binformat implements the fixed-width integer and string codecs,
// the CityHash64-based name hashing, and the content-hashing primitives
// that the UTOC/UCAS formats build on.
package binformat

import "fmt"

// Overflow bounds for the unusual packed integer widths the IO Store
// format uses on disk. Native-width writes would silently truncate past
// these, so every packer asserts first.
const (
	MaxUint40 = 1<<40 - 1
	MaxUint24 = 1<<24 - 1
)

// PutUint40BE packs v into b[0:5] as a 5-byte big-endian integer. Used for
// the offset and length fields of an IoOffsetAndLength record.
func PutUint40BE(b []byte, v uint64) error {
	if v > MaxUint40 {
		return fmt.Errorf("binformat: value %d overflows 40-bit big-endian field", v)
	}
	b[0] = byte(v >> 32)
	b[1] = byte(v >> 24)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 8)
	b[4] = byte(v)
	return nil
}

// Uint40BE reads a 5-byte big-endian integer from b[0:5].
func Uint40BE(b []byte) uint64 {
	return uint64(b[0])<<32 | uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])
}

// PutUint40LE packs v into b[0:5] as a 5-byte little-endian integer. Used
// for the partition_offset field of a compression block, which is packed
// little-endian unlike the big-endian offset/length pair above.
func PutUint40LE(b []byte, v uint64) error {
	if v > MaxUint40 {
		return fmt.Errorf("binformat: value %d overflows 40-bit little-endian field", v)
	}
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	return nil
}

// Uint40LE reads a 5-byte little-endian integer from b[0:5].
func Uint40LE(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 | uint64(b[4])<<32
}

// PutUint24LE packs v into b[0:3] as a 3-byte little-endian integer. Used
// for the compressed/uncompressed size fields of a compression block.
func PutUint24LE(b []byte, v uint32) error {
	if v > MaxUint24 {
		return fmt.Errorf("binformat: value %d overflows 24-bit little-endian field", v)
	}
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	return nil
}

// Uint24LE reads a 3-byte little-endian integer from b[0:3].
func Uint24LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
