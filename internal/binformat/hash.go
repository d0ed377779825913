package binformat

import (
	"crypto/sha1"
	"strings"

	"github.com/tenfyzhong/cityhash"
	"golang.org/x/text/encoding/unicode"
)

// AlgorithmHashID is the constant that prefixes a name-hash table in the
// UE IO Store / uasset name-directory formats. It identifies the hashing
// algorithm (CityHash64 over lowercased UTF-16) used for every entry that
// follows it.
const AlgorithmHashID uint64 = 0x00000000_C1640000

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// UTF16LowerBytes lowercases s and encodes it as little-endian UTF-16,
// with no NUL terminator and no byte-order mark. This is the exact byte
// sequence the engine hashes for chunk IDs, container IDs, and directory
// names.
func UTF16LowerBytes(s string) []byte {
	lower := strings.ToLower(s)
	encoded, err := utf16le.NewEncoder().Bytes([]byte(lower))
	if err != nil {
		// ASCII/BMP mod asset names never fail UTF-16 transcoding; a
		// failure here means the input had an unpaired surrogate.
		encoded, _ = utf16le.NewEncoder().Bytes([]byte(strings.ToValidUTF8(lower, "")))
	}
	return encoded
}

// NameHash computes the CityHash64 of s the way the engine does: over the
// little-endian UTF-16 encoding of the lowercased string.
func NameHash(s string) uint64 {
	return cityhash.CityHash64(UTF16LowerBytes(s))
}

// ContentHash returns the SHA-1 digest of data, used as the per-chunk
// meta hash written into the UTOC.
func ContentHash(data []byte) [20]byte {
	return sha1.Sum(data)
}
