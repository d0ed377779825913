package uecastoc

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// assetHeaderPreview mirrors the same fixed-offset prefix the container
// header synthesizer probes (internal/tocresolve's packageHeader), kept
// here as a read-only diagnostic view for cmd/uecastoc-inspect's dump
// subcommand. It never feeds back into the TOC itself.
type assetHeaderPreview struct {
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

// AssetSummary is a human-readable summary of one collected uasset,
// printed by `uecastoc-inspect dump`.
type AssetSummary struct {
	Path         string
	NamesInFile  []string
	ExportCount  int
	HeaderLength uint32
}

// SummarizeAsset reads path's header and names directory for display
// purposes. It tolerates non-conforming files the same way the container
// header synthesizer does: a parse failure yields a summary holding only
// the fields read before the failure, never an error the caller has to
// special-case. Only a failure to open path is returned as an error.
func SummarizeAsset(path string) (AssetSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return AssetSummary{}, err
	}
	defer f.Close()

	summary := AssetSummary{Path: path}

	var hdr assetHeaderPreview
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return summary, nil
	}
	summary.HeaderLength = hdr.TotalHeaderSize

	if hdr.NamesDirectoryLength == 0 {
		return summary, nil
	}
	if _, err := f.Seek(int64(hdr.NamesDirectoryOffset)+1, io.SeekStart); err != nil {
		return summary, nil
	}
	namesBuf := make([]byte, hdr.NamesDirectoryLength)
	if _, err := io.ReadFull(f, namesBuf); err != nil {
		return summary, nil
	}
	summary.NamesInFile = parseNamesDirectory(namesBuf)

	if hdr.ExportMetaOffset >= hdr.ExportObjectsOffset {
		exportLen := hdr.ExportMetaOffset - hdr.ExportObjectsOffset
		const exportObjectSize = 72
		if exportLen%exportObjectSize == 0 {
			summary.ExportCount = int(exportLen) / exportObjectSize
		}
	}
	return summary, nil
}

// parseNamesDirectory decodes the uasset names block: a sequence of
// {length byte, name bytes, 1 pad byte} records terminated by running out
// of buffer.
func parseNamesDirectory(buf []byte) []string {
	var names []string
	for len(buf) > 0 {
		strlen := int(buf[0])
		if 1+strlen+1 > len(buf) {
			break
		}
		names = append(names, string(buf[1:1+strlen]))
		buf = buf[strlen+2:]
	}
	return names
}

// Fprint writes a one-line-per-field rendering of s to w.
func (s AssetSummary) Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s\n", s.Path)
	fmt.Fprintf(w, "  header length: %d\n", s.HeaderLength)
	fmt.Fprintf(w, "  export count:  %d\n", s.ExportCount)
	for i, n := range s.NamesInFile {
		fmt.Fprintf(w, "  name[%d]: %s\n", i, n)
	}
}
