package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rirurin/FileEmulationFramework/internal/binformat"
)

func writeUnder(t *testing.T, modRoot, relPath string, data []byte) string {
	t.Helper()
	full := filepath.Join(modRoot, "FEmulator", "UTOC", relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
	return full
}

func TestAddModRoot_CollectsAndClassifies(t *testing.T) {
	modRoot := t.TempDir()
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "T_Chair_M.uasset"), make([]byte, 8))
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "T_Chair_M.ubulk"), make([]byte, 4))
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "Weapons", "Sword.uptnl"), make([]byte, 4))

	c := New(nil)
	require.NoError(t, c.AddModRoot("mod-a", modRoot))
	require.Empty(t, c.Skipped())

	root := c.Tree().Root()
	require.True(t, c.Tree().HasChildren(root))

	essentials := c.Tree().Dir(root).Children[0]
	require.Equal(t, "UnrealEssentials", c.Tree().Dir(essentials).Name)

	content := c.Tree().Dir(essentials).Children[0]
	require.Equal(t, "Content", c.Tree().Dir(content).Name)
	require.Len(t, c.Tree().Dir(content).Files, 2)
	require.True(t, c.Tree().HasChildren(content))
}

func TestAddModRoot_LastWriterWinsAcrossMods(t *testing.T) {
	modA := t.TempDir()
	modB := t.TempDir()
	writeUnder(t, modA, filepath.Join("UnrealEssentials", "Content", "A.ubulk"), make([]byte, 4))
	writeUnder(t, modB, filepath.Join("UnrealEssentials", "Content", "A.ubulk"), make([]byte, 99))

	c := New(nil)
	require.NoError(t, c.AddModRoot("mod-a", modA))
	require.NoError(t, c.AddModRoot("mod-b", modB))

	root := c.Tree().Root()
	essentials := c.Tree().Dir(root).Children[0]
	content := c.Tree().Dir(essentials).Children[0]
	files := c.Tree().Dir(content).Files
	require.Len(t, files, 1)
	require.EqualValues(t, 99, files[0].SizeBytes)
}

func TestAddModRoot_MissingCollectionRootIsError(t *testing.T) {
	c := New(nil)
	err := c.AddModRoot("mod-a", filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestCollectFile_RejectsCookedPackage(t *testing.T) {
	modRoot := t.TempDir()
	cooked := []byte{0xC1, 0x83, 0x2A, 0x9E}
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "Cooked.uasset"), cooked)

	c := New(nil)
	require.NoError(t, c.AddModRoot("mod-a", modRoot))

	skipped := c.Skipped()
	require.Len(t, skipped, 1)
	require.Contains(t, skipped[0].Reason, "cooked")

	root := c.Tree().Root()
	essentials := c.Tree().Dir(root).Children[0]
	content := c.Tree().Dir(essentials).Children[0]
	require.False(t, c.Tree().HasFiles(content))
}

func TestCollectFile_SkipsUnsupportedAndMissingExtension(t *testing.T) {
	modRoot := t.TempDir()
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "readme.txt"), []byte("hi"))
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "noext"), []byte("hi"))

	c := New(nil)
	require.NoError(t, c.AddModRoot("mod-a", modRoot))

	require.Len(t, c.Skipped(), 2)
}

func TestCollectFile_UexpIsAcceptedButNotInsertedAsTreeEntry(t *testing.T) {
	modRoot := t.TempDir()
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "T_Chair_M.uasset"), make([]byte, 8))
	writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "T_Chair_M.uexp"), make([]byte, 4))

	c := New(nil)
	require.NoError(t, c.AddModRoot("mod-a", modRoot))
	require.Empty(t, c.Skipped())

	root := c.Tree().Root()
	essentials := c.Tree().Dir(root).Children[0]
	content := c.Tree().Dir(essentials).Children[0]
	require.Len(t, c.Tree().Dir(content).Files, 1)
	require.Equal(t, "T_Chair_M.uasset", c.Tree().Dir(content).Files[0].Name)
}

func TestAddModRoot_SkipsSymlinks(t *testing.T) {
	modRoot := t.TempDir()
	real := writeUnder(t, modRoot, filepath.Join("UnrealEssentials", "Content", "Real.ubulk"), make([]byte, 4))
	linkPath := filepath.Join(filepath.Dir(real), "Link.ubulk")
	if err := os.Symlink(real, linkPath); err != nil {
		t.Skipf("symlinks unsupported on this platform: %v", err)
	}

	c := New(nil)
	require.NoError(t, c.AddModRoot("mod-a", modRoot))

	found := false
	for _, s := range c.Skipped() {
		if s.Path == linkPath {
			found = true
		}
	}
	require.True(t, found)
}

func TestProbeCooked(t *testing.T) {
	dir := t.TempDir()
	cooked := filepath.Join(dir, "cooked.uasset")
	require.NoError(t, os.WriteFile(cooked, []byte{0xC1, 0x83, 0x2A, 0x9E, 0, 0}, 0o644))
	isCooked, err := ProbeCooked(cooked)
	require.NoError(t, err)
	require.True(t, isCooked)

	short := filepath.Join(dir, "short.uasset")
	require.NoError(t, os.WriteFile(short, []byte{0x01}, 0o644))
	isCooked, err = ProbeCooked(short)
	require.NoError(t, err)
	require.False(t, isCooked)

	notCooked := filepath.Join(dir, "io_store.uasset")
	require.NoError(t, os.WriteFile(notCooked, make([]byte, 8), 0o644))
	isCooked, err = ProbeCooked(notCooked)
	require.NoError(t, err)
	require.False(t, isCooked)
}

func TestChunkTypeForExtension(t *testing.T) {
	require.Equal(t, binformat.ChunkTypeExportBundleData, ChunkTypeForExtension("uasset"))
	require.Equal(t, binformat.ChunkTypeBulkData, ChunkTypeForExtension("ubulk"))
	require.Equal(t, binformat.ChunkTypeOptionalBulkData, ChunkTypeForExtension("uptnl"))
	require.Equal(t, binformat.ChunkTypeInvalid, ChunkTypeForExtension("unknown"))
}
