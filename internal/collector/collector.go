// Package collector implements the asset collector: it walks a mod's
// FEmulator/UTOC subtree, classifies files by extension, probes uasset
// headers for the legacy cooked-PAK magic, and merges everything into a
// shared assettree.Tree with last-writer-wins semantics.
package collector

import (
	"encoding/binary"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rirurin/FileEmulationFramework/internal/assettree"
	"github.com/rirurin/FileEmulationFramework/internal/binformat"
)

// CookedPackageMagic is the 32-bit little-endian magic at the start of a
// legacy PAK-format uasset. The IO Store loader cannot consume these.
const CookedPackageMagic uint32 = 0x9E2A83C1

// SkipReason records one collection-time failure or rejection. These
// never abort a build; they're surfaced to the host as diagnostics.
type SkipReason struct {
	Path   string
	Reason string
}

// Collector accumulates mod contributions into a shared tree.
type Collector struct {
	tree    *assettree.Tree
	skipped []SkipReason
	log     *slog.Logger
}

// New creates a Collector backed by a fresh, unnamed root directory. The
// root itself is never a ProjectName; each mod's ProjectName directory is
// merged in as a child of this root.
func New(log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{tree: assettree.New(""), log: log}
}

// Tree returns the shared tree this collector merges into.
func (c *Collector) Tree() *assettree.Tree { return c.tree }

// Skipped returns every collection-time diagnostic recorded so far.
func (c *Collector) Skipped() []SkipReason {
	out := make([]SkipReason, len(c.skipped))
	copy(out, c.skipped)
	return out
}

func (c *Collector) skip(path, reason string) {
	c.skipped = append(c.skipped, SkipReason{Path: path, Reason: reason})
	c.log.Warn("uecastoc: skipping asset collector entry", "path", path, "reason", reason)
}

// AddModRoot merges modRoot/FEmulator/UTOC into the shared tree. Each
// direct child of that directory is treated as a ProjectName and
// ensure_child'd onto the tree root; the subtree below it is walked
// recursively. Failures are recorded via Skipped and never returned as a
// fatal error — only a missing/unreadable UTOC collection root itself is
// returned as an error, since that means the mod contributed nothing.
func (c *Collector) AddModRoot(modID, modRoot string) error {
	collectionRoot := filepath.Join(modRoot, "FEmulator", "UTOC")
	entries, err := os.ReadDir(collectionRoot)
	if err != nil {
		c.log.Warn("uecastoc: mod has no FEmulator/UTOC collection root", "mod", modID, "path", collectionRoot, "error", err)
		return err
	}
	c.log.Info("uecastoc: collecting mod", "mod", modID, "root", collectionRoot)
	for _, e := range entries {
		c.walkEntry(c.tree.Root(), collectionRoot, e)
	}
	return nil
}

// walkEntry dispatches a single directory-listing entry: recurse for a
// directory, classify-and-merge for a file, skip-and-continue for
// anything else.
func (c *Collector) walkEntry(parent assettree.DirHandle, parentPath string, e fs.DirEntry) {
	name := e.Name()
	if !utf8.ValidString(name) {
		c.skip(filepath.Join(parentPath, name), "filename is not valid UTF-8")
		return
	}
	full := filepath.Join(parentPath, name)

	info, err := e.Info()
	if err != nil {
		c.skip(full, "could not stat entry: "+err.Error())
		return
	}
	if info.Mode()&os.ModeSymlink != 0 {
		c.skip(full, "symbolic links are not followed")
		return
	}

	if e.IsDir() {
		child := c.tree.EnsureChild(parent, name)
		children, err := os.ReadDir(full)
		if err != nil {
			c.skip(full, "could not enumerate directory: "+err.Error())
			return
		}
		for _, ch := range children {
			c.walkEntry(child, full, ch)
		}
		return
	}

	c.collectFile(parent, full, name, info.Size())
}

// collectFile classifies a regular file by extension and merges it into
// dir, or records why it was skipped.
func (c *Collector) collectFile(dir assettree.DirHandle, sourcePath, name string, size int64) {
	ext := extensionOf(name)
	switch ext {
	case "uasset":
		cooked, err := ProbeCooked(sourcePath)
		if err != nil {
			c.skip(sourcePath, "could not read header for cooked-package probe: "+err.Error())
			return
		}
		if cooked {
			c.skip(sourcePath, "rejected: cooked PAK package, not an IO Store asset")
			return
		}
		c.tree.UpsertFile(dir, assettree.TreeFile{Name: name, SizeBytes: size, SourcePath: sourcePath})
	case "ubulk":
		c.tree.UpsertFile(dir, assettree.TreeFile{Name: name, SizeBytes: size, SourcePath: sourcePath})
	case "uptnl":
		c.tree.UpsertFile(dir, assettree.TreeFile{Name: name, SizeBytes: size, SourcePath: sourcePath})
	case "uexp":
		// Accepted, but never a standalone tree entry: it is
		// concatenated onto its sibling uasset at serialization time.
		return
	case "":
		c.skip(sourcePath, "missing extension")
	default:
		c.skip(sourcePath, "unsupported extension: "+ext)
	}
}

func extensionOf(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimPrefix(ext, ".")
}

// ChunkTypeForExtension maps an accepted asset extension to its IO Store
// chunk type.
func ChunkTypeForExtension(ext string) binformat.ChunkType {
	switch ext {
	case "uasset":
		return binformat.ChunkTypeExportBundleData
	case "ubulk":
		return binformat.ChunkTypeBulkData
	case "uptnl":
		return binformat.ChunkTypeOptionalBulkData
	default:
		return binformat.ChunkTypeInvalid
	}
}

// ProbeCooked reads the first 4 bytes of path and reports whether they
// equal the little-endian cooked-PAK magic.
func ProbeCooked(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	var header [4]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			// Shorter than 4 bytes: can't possibly be cooked.
			return false, nil
		}
		return false, err
	}
	return binary.LittleEndian.Uint32(header[:]) == CookedPackageMagic, nil
}
