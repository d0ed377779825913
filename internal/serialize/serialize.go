// Package serialize emits the UTOC byte stream from a resolved TOC.
package serialize

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rirurin/FileEmulationFramework/internal/binformat"
	"github.com/rirurin/FileEmulationFramework/internal/tocresolve"
)

// TocMagic is the 16-byte ASCII magic at the start of every UTOC.
var TocMagic = [16]byte{'-', '=', '=', '-', '-', '=', '=', '-', '-', '=', '=', '-', '-', '=', '=', '-'}

const (
	tocHeaderSize            = 144
	tocVersionPartitionSize  = 3
	tocCompressedBlockSize   = 12
	tocContainerFlagsIndexed = 0x08
)

// Serialize emits the complete UTOC byte stream for result.
func Serialize(result *tocresolve.Result) ([]byte, error) {
	dirIndex, err := buildDirectoryIndex(result)
	if err != nil {
		return nil, fmt.Errorf("serialize: directory index: %w", err)
	}

	var out bytes.Buffer
	if err := writeHeader(&out, result, len(dirIndex)); err != nil {
		return nil, fmt.Errorf("serialize: header: %w", err)
	}
	for _, id := range result.ChunkIds {
		b := id.Bytes()
		out.Write(b[:])
	}
	for _, ol := range result.OffsetsAndLengths {
		var b [10]byte
		if err := binformat.PutUint40BE(b[0:5], ol.Offset); err != nil {
			return nil, fmt.Errorf("serialize: offset %d: %w", ol.Offset, err)
		}
		if err := binformat.PutUint40BE(b[5:10], ol.Length); err != nil {
			return nil, fmt.Errorf("serialize: length %d: %w", ol.Length, err)
		}
		out.Write(b[:])
	}
	for _, cb := range result.CompressionBlocks {
		var b [12]byte
		if err := binformat.PutUint40LE(b[0:5], cb.PartitionOffset); err != nil {
			return nil, fmt.Errorf("serialize: compression block offset %d: %w", cb.PartitionOffset, err)
		}
		if err := binformat.PutUint24LE(b[5:8], cb.CompressedSize); err != nil {
			return nil, fmt.Errorf("serialize: compressed size %d: %w", cb.CompressedSize, err)
		}
		if err := binformat.PutUint24LE(b[8:11], cb.UncompressedSize); err != nil {
			return nil, fmt.Errorf("serialize: uncompressed size %d: %w", cb.UncompressedSize, err)
		}
		b[11] = cb.Method
		out.Write(b[:])
	}
	out.Write(dirIndex)
	for _, m := range result.Metas {
		out.Write(m.Sha1[:])
		out.Write(make([]byte, 12))
		out.WriteByte(m.Flags)
	}

	return out.Bytes(), nil
}

func writeHeader(w *bytes.Buffer, result *tocresolve.Result, dirIndexSize int) error {
	w.Write(TocMagic[:])
	w.WriteByte(tocVersionPartitionSize)
	w.Write(make([]byte, 3)) // padding

	fields := []uint32{
		tocHeaderSize,
		uint32(len(result.ChunkIds)),
		uint32(len(result.CompressionBlocks)),
		tocCompressedBlockSize,
		0, // compression_method_name_count
		0, // compression_method_name_length
		tocresolve.CompressionBlockSize,
		uint32(dirIndexSize),
		1, // partition_count
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, result.ContainerID); err != nil {
		return err
	}
	w.Write(make([]byte, 16)) // encryption_key_guid, always zero
	w.WriteByte(tocContainerFlagsIndexed)
	w.Write(make([]byte, 3+4)) // padding
	if err := binary.Write(w, binary.LittleEndian, uint64(0xFFFFFFFFFFFFFFFF)); err != nil {
		return err
	}
	w.Write(make([]byte, 48)) // reserved

	return nil
}

func buildDirectoryIndex(result *tocresolve.Result) ([]byte, error) {
	var buf bytes.Buffer

	if err := binformat.WriteStringA(&buf, result.MountPoint); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(result.Dirs))); err != nil {
		return nil, err
	}
	for _, d := range result.Dirs {
		for _, v := range [4]uint32{d.NameIx, d.FirstChildIx, d.NextSiblingIx, d.FirstFileIx} {
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				return nil, err
			}
		}
	}

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(result.Files))); err != nil {
		return nil, err
	}
	for _, f := range result.Files {
		for _, v := range [3]uint32{f.NameIx, f.NextFileIx, f.UserDataIx} {
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				return nil, err
			}
		}
	}

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(result.Strings))); err != nil {
		return nil, err
	}
	for _, s := range result.Strings {
		if err := binformat.WriteStringA(&buf, s); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
