package binformat

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteStringA writes the "variant A" length-prefixed string used by the
// UTOC mount point and directory-index string pool: an i32 little-endian
// length (character count including the trailing NUL), the raw bytes, and
// a trailing NUL byte. An empty string serializes as a bare zero length
// with no bytes at all.
func WriteStringA(w io.Writer, s string) error {
	if s == "" {
		return binary.Write(w, binary.LittleEndian, int32(0))
	}
	length := int32(len(s) + 1)
	if err := binary.Write(w, binary.LittleEndian, length); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// ReadStringA is the inverse of WriteStringA. A negative length indicates
// a UTF-16 encoded string, which this codebase never produces and does
// not need to decode.
func ReadStringA(r io.Reader) (string, error) {
	var length int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	if length < 0 {
		return "", fmt.Errorf("binformat: UTF-16 length-prefixed strings are not supported (length=%d)", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	// drop the trailing NUL
	return string(buf[:length-1]), nil
}

// WriteStringB writes the "variant B" length-prefixed string used as the
// input to hash functions: a u16 little-endian byte length of the raw
// characters followed by the raw characters, with no trailing NUL.
func WriteStringB(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("binformat: string of length %d exceeds u16 length prefix", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadStringB is the inverse of WriteStringB.
func ReadStringB(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// SizeofStringA returns the number of bytes WriteStringA would emit for s,
// without allocating a buffer.
func SizeofStringA(s string) int {
	if s == "" {
		return 4
	}
	return 4 + len(s) + 1
}
