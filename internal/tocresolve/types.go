// Package tocresolve flattens a merged assettree.Tree into the parallel
// index arrays, per-chunk artifacts, and synthesized container header
// that the UTOC/UCAS formats are built from.
package tocresolve

import (
	"errors"

	"github.com/rirurin/FileEmulationFramework/internal/binformat"
)

// Sentinel is the "no entry" value for a 32-bit index field.
const Sentinel uint32 = 0xFFFFFFFF

const (
	// CompressionBlockSize is the fixed size of one compression block.
	// This emulator stores everything uncompressed, but files are still
	// accounted for in block-sized units.
	CompressionBlockSize = 0x10000
	// CompressionBlockAlignment is the alignment every file's starting
	// UCAS offset is rounded up to.
	CompressionBlockAlignment = 0x800
	// MemoryMappingAlignment is the alignment the engine mmaps the UCAS
	// partition at.
	MemoryMappingAlignment = 0x4000
)

// ErrHashPathMissingContent is returned when a file's directory path does
// not contain the "<RootName>/Content" segment the hash-path rewrite
// requires. Fatal to the build that produced it.
var ErrHashPathMissingContent = errors.New("tocresolve: path does not contain a <RootName>/Content segment")

// FlatDirectoryEntry is the pre-order-flattened directory record.
type FlatDirectoryEntry struct {
	NameIx        uint32
	FirstChildIx  uint32
	NextSiblingIx uint32
	FirstFileIx   uint32
}

// FlatFileEntry is the pre-order-flattened file record. Only NameIx,
// NextFileIx and UserDataIx serialize; the rest is transient bookkeeping
// used while building the per-chunk arrays.
type FlatFileEntry struct {
	NameIx     uint32
	NextFileIx uint32
	UserDataIx uint32

	SourcePath string
	HashPath   string
	Size       int64
}

// OffsetAndLength is the (offset, length) pair for one chunk, both
// packed as 5-byte big-endian integers on disk.
type OffsetAndLength struct {
	Offset uint64
	Length uint64
}

// CompressionBlock describes one fixed-size region of the UCAS
// partition. Method is always 0 (stored) in this emulator.
type CompressionBlock struct {
	PartitionOffset  uint64
	CompressedSize   uint32
	UncompressedSize uint32
	Method           uint8
	PartitionIndex   uint8
}

// ChunkMeta is the per-chunk metadata record: a content hash plus flags.
type ChunkMeta struct {
	Sha1  [20]byte
	Flags uint8
}

// PartitionBlock is one entry of the host-visible scatter/gather
// description of the virtual UCAS partition. Exactly one of
// SourcePath or InMemory is set.
type PartitionBlock struct {
	SourcePath    string
	SourceStart   int64
	Length        int64
	VirtualOffset int64
	InMemory      []byte
}

// StoreEntry is a container-header record for one ExportBundleData
// package in the synthesized ContainerHeader.
type StoreEntry struct {
	PackageID          uint64
	ExportBundlesSize  uint64
	ExportCount        uint32
	ExportBundleCount  uint32
	LoadOrder          uint32
	ImportedPackageIDs []binformat.PackageObjectIndex
}

// Result is everything the serializer needs to emit a UTOC byte stream
// and everything the host needs to build a virtual UCAS partition.
type Result struct {
	MountPoint string
	Dirs       []FlatDirectoryEntry
	Files      []FlatFileEntry
	Strings    []string

	ChunkIds           []binformat.ChunkId
	OffsetsAndLengths  []OffsetAndLength
	CompressionBlocks  []CompressionBlock
	Metas              []ChunkMeta

	ContainerID          uint64
	ContainerHeaderBytes []byte
	PartitionBlocks      []PartitionBlock

	// Skipped records files dropped while flattening (the source
	// vanished, or turned out to be a cooked package on re-probe).
	Skipped []string

	storeEntries []StoreEntry
}
