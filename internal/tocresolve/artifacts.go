package tocresolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rirurin/FileEmulationFramework/internal/binformat"
	"github.com/rirurin/FileEmulationFramework/internal/collector"
)

func extensionOf(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}

// probeForSerialization re-validates a collected file: a uasset gets its
// cooked-package magic probed a second time (the first was at collection
// time), anything else just needs to still exist. Used both as
// flatten's keepFileFunc and, redundantly but harmlessly in this
// single-threaded model, again immediately before appendFile reads the
// file.
func probeForSerialization(name, sourcePath string) (keep bool, reason string) {
	if extensionOf(name) == "uasset" {
		cooked, err := collector.ProbeCooked(sourcePath)
		if err != nil {
			return false, "vanished or unreadable before serialization: " + err.Error()
		}
		if cooked {
			return false, "rejected at serialization: cooked PAK package"
		}
		return true, ""
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return false, "vanished before serialization: " + err.Error()
	}
	return true, ""
}

func ceilDivOrOne(length, blockSize int64) int64 {
	if length <= 0 {
		return 1
	}
	return (length + blockSize - 1) / blockSize
}

// readEffectiveBytes returns the bytes a file contributes to the UCAS and
// the list of on-disk regions that produced them. For a plain file this
// is just its own contents; for a uasset with MergeUexp enabled and a
// sibling uexp present, it is the uasset bytes followed by the uexp bytes
// minus the uexp's trailing 4-byte magic.
func readEffectiveBytes(name, sourcePath string, mergeUexp bool) ([]byte, []diskRegion, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, nil, err
	}
	if extensionOf(name) != "uasset" || !mergeUexp {
		return data, []diskRegion{{path: sourcePath, length: int64(len(data))}}, nil
	}

	uexpPath := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".uexp"
	uexpData, err := os.ReadFile(uexpPath)
	if err != nil {
		// No sibling uexp: pass the uasset through unchanged.
		return data, []diskRegion{{path: sourcePath, length: int64(len(data))}}, nil
	}
	trimmed := uexpData
	if len(trimmed) >= 4 {
		trimmed = trimmed[:len(trimmed)-4]
	}
	effective := make([]byte, 0, len(data)+len(trimmed))
	effective = append(effective, data...)
	effective = append(effective, trimmed...)
	return effective, []diskRegion{
		{path: sourcePath, length: int64(len(data))},
		{path: uexpPath, length: int64(len(trimmed))},
	}, nil
}

type diskRegion struct {
	path   string
	length int64
}

// fileArtifactState threads two independent running counters: blockCount,
// a tally of compression blocks emitted so far (offsets_and_lengths
// addresses chunks in units of whole blocks, regardless of how tightly
// their real bytes are packed), and ucasCursor, the actual byte cursor
// into the synthesized UCAS layout.
type fileArtifactState struct {
	blockCount int64
	ucasCursor int64
}

// appendFile computes every per-chunk artifact for one flattened file and
// appends it to result, or reports that the file should be dropped
// (vanished, or turned out to be cooked on re-probe).
func appendFile(result *Result, state *fileArtifactState, file FlatFileEntry, opts Options) (dropped bool, dropReason string, err error) {
	ext := extensionOf(file.Name)

	if keep, reason := probeForSerialization(file.Name, file.SourcePath); !keep {
		return true, reason, nil
	}

	effective, regions, err := readEffectiveBytes(file.Name, file.SourcePath, opts.MergeUexp)
	if err != nil {
		return true, "vanished before serialization: " + err.Error(), nil
	}

	length := int64(len(effective))
	chunkType := collector.ChunkTypeForExtension(ext)

	offsetValue := uint64(state.blockCount) * CompressionBlockSize
	result.OffsetsAndLengths = append(result.OffsetsAndLengths, OffsetAndLength{Offset: offsetValue, Length: uint64(length)})
	result.ChunkIds = append(result.ChunkIds, binformat.ChunkId{Hash: binformat.NameHash(file.HashPath), Index: 0, Type: chunkType})
	sha1 := binformat.ContentHash(effective)
	result.Metas = append(result.Metas, ChunkMeta{Sha1: sha1})

	numBlocks := ceilDivOrOne(length, CompressionBlockSize)
	remaining := length
	partOffset := uint64(state.ucasCursor)
	for i := int64(0); i < numBlocks; i++ {
		sz := remaining
		if sz > CompressionBlockSize {
			sz = CompressionBlockSize
		}
		result.CompressionBlocks = append(result.CompressionBlocks, CompressionBlock{
			PartitionOffset:  partOffset,
			CompressedSize:   uint32(sz),
			UncompressedSize: uint32(sz),
		})
		partOffset += CompressionBlockSize
		remaining -= sz
	}
	state.blockCount += numBlocks

	fileStartCursor := state.ucasCursor
	regionOffset := int64(0)
	for _, r := range regions {
		result.PartitionBlocks = append(result.PartitionBlocks, PartitionBlock{
			SourcePath:    r.path,
			SourceStart:   0,
			Length:        r.length,
			VirtualOffset: fileStartCursor + regionOffset,
		})
		regionOffset += r.length
	}

	state.ucasCursor += length
	pad := (CompressionBlockAlignment - state.ucasCursor%CompressionBlockAlignment) % CompressionBlockAlignment
	state.ucasCursor += pad

	if chunkType == binformat.ChunkTypeExportBundleData {
		packageID := binformat.NameHash(file.HashPath)
		entry := probePackageHeader(file.SourcePath, packageID)
		result.storeEntries = append(result.storeEntries, entry)
	}

	return false, "", nil
}

// appendContainerHeader synthesizes the ContainerHeader and appends its
// trailing chunk entries as the final chunk in the resolved TOC.
func appendContainerHeader(result *Result, state *fileArtifactState, containerName string) {
	headerBytes := buildContainerHeader(result.ContainerID, result.storeEntries)

	offsetValue := uint64(state.blockCount) * CompressionBlockSize
	result.OffsetsAndLengths = append(result.OffsetsAndLengths, OffsetAndLength{Offset: offsetValue, Length: uint64(len(headerBytes))})
	result.ChunkIds = append(result.ChunkIds, binformat.ChunkId{Hash: binformat.NameHash(containerName), Index: 0, Type: binformat.ChunkTypeContainerHeader})
	sha1 := binformat.ContentHash(headerBytes)
	result.Metas = append(result.Metas, ChunkMeta{Sha1: sha1})

	cursorBefore := state.ucasCursor
	result.CompressionBlocks = append(result.CompressionBlocks, CompressionBlock{
		PartitionOffset:  uint64(cursorBefore),
		CompressedSize:   uint32(len(headerBytes)),
		UncompressedSize: uint32(len(headerBytes)),
	})
	state.blockCount++

	result.PartitionBlocks = append(result.PartitionBlocks, PartitionBlock{
		InMemory:      headerBytes,
		Length:        int64(len(headerBytes)),
		VirtualOffset: cursorBefore,
	})

	state.ucasCursor += int64(len(headerBytes))
	const headerAlignment = 16
	pad := (headerAlignment - state.ucasCursor%headerAlignment) % headerAlignment
	if pad == 0 {
		pad = headerAlignment
	}
	state.ucasCursor += pad

	result.ContainerHeaderBytes = headerBytes
}
