package tocresolve

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

// packageHeader mirrors the fixed-offset prefix of a serialized IO-Store
// package header. Only the fields needed to size a StoreEntry are kept;
// import/export object bodies and the dependency-package blob are
// treated as opaque — every ExportBundleData asset is otherwise just
// bytes to this resolver.
type packageHeader struct {
	RepeatNumber             [2]uint64
	PackageFlags             uint32
	TotalHeaderSize          uint32
	NamesDirectoryOffset     uint32
	NamesDirectoryLength     uint32
	NamesHashesOffset        uint32
	NamesHashesLength        uint32
	ImportObjectsOffset      uint32
	ExportObjectsOffset      uint32
	ExportMetaOffset         uint32
	DependencyPackagesOffset uint32
	DependencyPackagesSize   uint64
}

// exportObject mirrors one 72-byte export-object record.
type exportObject struct {
	SerialOffset     uint64
	SerialSize       uint64
	ObjectNameOffset uint64
	ClassNameOffset  uint64
	OtherProperties  [40]byte
}

const exportObjectSize = 72

// probePackageHeader reads the first ~0x40 bytes of an ExportBundleData
// asset and derives a StoreEntry from its export-object table. Any
// inconsistency (truncated file, non-monotonic offsets, a size that
// isn't a multiple of the export-object record size) falls back to a
// StoreEntry carrying only packageID, with zero counts and no imports,
// rather than aborting the build.
func probePackageHeader(path string, packageID uint64) StoreEntry {
	entry := StoreEntry{PackageID: packageID}

	f, err := os.Open(path)
	if err != nil {
		return entry
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return entry
	}
	size := info.Size()

	var hdr packageHeader
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return entry
	}
	if hdr.ExportMetaOffset < hdr.ExportObjectsOffset {
		return entry
	}
	exportLen := hdr.ExportMetaOffset - hdr.ExportObjectsOffset
	if exportLen%exportObjectSize != 0 {
		return entry
	}
	if int64(hdr.ExportObjectsOffset)+int64(exportLen) > size {
		return entry
	}

	if _, err := f.Seek(int64(hdr.ExportObjectsOffset), io.SeekStart); err != nil {
		return entry
	}
	buf := make([]byte, exportLen)
	if _, err := io.ReadFull(f, buf); err != nil {
		return entry
	}

	count := int(exportLen) / exportObjectSize
	reader := bytes.NewReader(buf)
	var totalSize uint64
	for i := 0; i < count; i++ {
		var obj exportObject
		if err := binary.Read(reader, binary.LittleEndian, &obj); err != nil {
			return entry
		}
		totalSize += obj.SerialSize
	}

	entry.ExportBundlesSize = totalSize
	entry.ExportCount = uint32(count)
	if count > 0 {
		entry.ExportBundleCount = 1
	}
	// LoadOrder's effect on in-engine load sequencing is unverified, so
	// it is always hard-coded to 0.
	entry.LoadOrder = 0
	// Imported-package-ID extraction belongs to a PAK->IO-Store asset
	// transcoder this emulator does not implement; never populated.
	entry.ImportedPackageIDs = nil
	return entry
}

// buildContainerHeader synthesizes the ContainerHeader blob: container
// ID, package-ID table, a fixed-size StoreEntry table whose imported-
// package lists live in a trailing blob referenced by offset+count, an
// empty culture map, and an empty redirect map, padded so the region is
// a multiple of 16 bytes and always ends on a zero byte.
func buildContainerHeader(containerID uint64, entries []StoreEntry) []byte {
	var buf bytes.Buffer

	_ = binary.Write(&buf, binary.LittleEndian, containerID)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(entries)))
	for _, e := range entries {
		_ = binary.Write(&buf, binary.LittleEndian, e.PackageID)
	}
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(entries)))

	var imports bytes.Buffer
	for _, e := range entries {
		offset := uint32(imports.Len())
		count := uint32(len(e.ImportedPackageIDs))
		_ = binary.Write(&buf, binary.LittleEndian, e.ExportBundlesSize)
		_ = binary.Write(&buf, binary.LittleEndian, e.ExportCount)
		_ = binary.Write(&buf, binary.LittleEndian, e.ExportBundleCount)
		_ = binary.Write(&buf, binary.LittleEndian, e.LoadOrder)
		_ = binary.Write(&buf, binary.LittleEndian, offset)
		_ = binary.Write(&buf, binary.LittleEndian, count)
		for _, imp := range e.ImportedPackageIDs {
			_ = binary.Write(&imports, binary.LittleEndian, uint64(imp))
		}
	}
	buf.Write(imports.Bytes())

	_ = binary.Write(&buf, binary.LittleEndian, uint32(0)) // empty culture map
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0)) // empty redirect map

	pad := 16 - (buf.Len() % 16)
	buf.Write(make([]byte, pad))
	return buf.Bytes()
}
