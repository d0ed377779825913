// Package uecastoc emulates an Unreal Engine 4.27 IO Store table of
// contents (UTOC) and its companion container partition (UCAS) at
// runtime from loose on-disk asset files contributed by one or more
// mods. It exposes the host-visible API the FFI boundary calls into.
package uecastoc

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/rirurin/FileEmulationFramework/internal/assettree"
	"github.com/rirurin/FileEmulationFramework/internal/collector"
	"github.com/rirurin/FileEmulationFramework/internal/serialize"
	"github.com/rirurin/FileEmulationFramework/internal/tocresolve"
)

// SentinelName is the TOC/UCAS stem the host matches against. Only a
// build for this exact filename is ever produced.
const SentinelName = "UnrealEssentials_P"

var (
	// ErrNotSentinel is returned (or signals a null/0 host-API result)
	// when the requested file is not the sentinel UTOC/UCAS.
	ErrNotSentinel = errors.New("uecastoc: not the sentinel UTOC/UCAS")
	// ErrNotBuilt is returned when GetVirtualPartition is called before
	// a successful BuildTableOfContents.
	ErrNotBuilt = errors.New("uecastoc: build_table_of_contents has not completed successfully yet")
)

var logger = slog.Default()

// SetLogger overrides the package-level diagnostics logger. The zero
// value is never accepted; passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Emulator holds the single process-wide asset tree and the most recent
// build's output: created on first use, mutated only by AddFromFolders,
// read by BuildTableOfContents and GetVirtualPartition, and never touched
// by more than one goroutine at a time. It is exposed as a handle (rather
// than true package globals)
// so tests can construct independent instances; the package-level
// host-API functions below keep one instance for the FFI-facing caller.
type Emulator struct {
	mu        sync.Mutex
	collector *collector.Collector
	options   []tocresolve.Option

	lastResult *tocresolve.Result
	lastUTOC   []byte
	builtFor   string
}

// NewEmulator creates an Emulator with its own empty asset tree.
func NewEmulator(opts ...tocresolve.Option) *Emulator {
	return &Emulator{
		collector: collector.New(logger),
		options:   opts,
	}
}

// AddFromFolders merges modRoot/FEmulator/UTOC into the shared tree.
// Failures are recorded internally (via Diagnostics) and never returned
// as hard errors to match the host API's fire-and-forget shape; the
// returned error is purely informational for Go callers.
func (e *Emulator) AddFromFolders(modID, modRoot string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collector.AddModRoot(modID, modRoot)
}

// Diagnostics returns every collection-time skip/reject recorded so far.
func (e *Emulator) Diagnostics() []collector.SkipReason {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collector.Skipped()
}

// BuildTableOfContents builds the UTOC byte stream for tocPath if its
// filename matches SentinelName, and caches it (and the matching UCAS
// layout) for a following GetVirtualPartition call. A non-sentinel path
// returns (nil, ErrNotSentinel), matching the host API's "null/0"
// contract rather than a hard failure.
func (e *Emulator) BuildTableOfContents(tocPath string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stem := stemOf(tocPath)
	if stem != SentinelName {
		return nil, ErrNotSentinel
	}

	result, err := tocresolve.Resolve(e.collector.Tree(), SentinelName, e.options...)
	if err != nil {
		logger.Error("uecastoc: build_table_of_contents failed", "path", tocPath, "error", err)
		return nil, fmt.Errorf("uecastoc: build table of contents: %w", err)
	}
	utoc, err := serialize.Serialize(result)
	if err != nil {
		logger.Error("uecastoc: serialize failed", "path", tocPath, "error", err)
		return nil, fmt.Errorf("uecastoc: serialize: %w", err)
	}

	e.lastResult = result
	e.lastUTOC = utoc
	e.builtFor = stem
	logger.Info("uecastoc: built table of contents", "path", tocPath, "chunks", len(result.ChunkIds), "bytes", len(utoc))
	return utoc, nil
}

// GetVirtualPartition returns the scatter/gather description of the
// virtual UCAS partition for filePath, built by the most recent
// BuildTableOfContents call.
func (e *Emulator) GetVirtualPartition(filePath string) ([]tocresolve.PartitionBlock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stem := stemOf(filePath)
	if stem != SentinelName {
		return nil, ErrNotSentinel
	}
	if e.lastResult == nil || e.builtFor != stem {
		return nil, ErrNotBuilt
	}
	return e.lastResult.PartitionBlocks, nil
}

// Tree exposes the shared asset tree, mainly for tests and the
// cmd/uecastoc-inspect CLI.
func (e *Emulator) Tree() *assettree.Tree { return e.collector.Tree() }

func stemOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// --- package-level host API -------------------------------------------------
//
// The three entry points below are the ones the host FFI shim calls
// directly. They share one lazily-created Emulator, created on the first
// call to any of them and persisting for the rest of the process.

var (
	defaultOnce     sync.Once
	defaultEmulator *Emulator
)

func defaultHandle() *Emulator {
	defaultOnce.Do(func() {
		defaultEmulator = NewEmulator()
	})
	return defaultEmulator
}

// AddFromFolders is the package-level host API entry point.
func AddFromFolders(modID, modRoot string) error {
	return defaultHandle().AddFromFolders(modID, modRoot)
}

// BuildTableOfContents is the package-level host API entry point.
func BuildTableOfContents(tocPath string) ([]byte, error) {
	return defaultHandle().BuildTableOfContents(tocPath)
}

// GetVirtualPartition is the package-level host API entry point.
func GetVirtualPartition(filePath string) ([]tocresolve.PartitionBlock, error) {
	return defaultHandle().GetVirtualPartition(filePath)
}
