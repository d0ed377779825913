package assettree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureChild_ReusesExisting(t *testing.T) {
	tree := New("UnrealEssentials")
	a := tree.EnsureChild(tree.Root(), "Content")
	b := tree.EnsureChild(tree.Root(), "Content")
	require.Equal(t, a, b)
	require.Len(t, tree.Dir(tree.Root()).Children, 1)
}

func TestUpsertFile_LastWriterWinsKeepsSlot(t *testing.T) {
	tree := New("UnrealEssentials")
	dir := tree.Root()
	tree.UpsertFile(dir, TreeFile{Name: "A.ubulk", SizeBytes: 10, SourcePath: "/mod1/A.ubulk"})
	tree.UpsertFile(dir, TreeFile{Name: "B.ubulk", SizeBytes: 5, SourcePath: "/mod1/B.ubulk"})
	tree.UpsertFile(dir, TreeFile{Name: "A.ubulk", SizeBytes: 20, SourcePath: "/mod2/A.ubulk"})

	require.Len(t, tree.Dir(dir).Files, 2)
	require.Equal(t, "A.ubulk", tree.Dir(dir).Files[0].Name)
	require.Equal(t, int64(20), tree.Dir(dir).Files[0].SizeBytes)
	require.Equal(t, "/mod2/A.ubulk", tree.Dir(dir).Files[0].SourcePath)
	require.Equal(t, "B.ubulk", tree.Dir(dir).Files[1].Name)
}

func TestHasChildrenHasFiles(t *testing.T) {
	tree := New("Root")
	require.False(t, tree.HasChildren(tree.Root()))
	require.False(t, tree.HasFiles(tree.Root()))

	child := tree.EnsureChild(tree.Root(), "Content")
	require.True(t, tree.HasChildren(tree.Root()))

	tree.UpsertFile(child, TreeFile{Name: "a.uasset", SizeBytes: 1})
	require.True(t, tree.HasFiles(child))
}

func TestRemoveFile_RepairsIndex(t *testing.T) {
	tree := New("Root")
	dir := tree.Root()
	tree.UpsertFile(dir, TreeFile{Name: "a", SizeBytes: 1})
	tree.UpsertFile(dir, TreeFile{Name: "b", SizeBytes: 2})
	tree.UpsertFile(dir, TreeFile{Name: "c", SizeBytes: 3})

	tree.RemoveFile(dir, "a")
	require.Len(t, tree.Dir(dir).Files, 2)
	require.Equal(t, "b", tree.Dir(dir).Files[0].Name)
	require.Equal(t, "c", tree.Dir(dir).Files[1].Name)

	// re-upsert should still find the right slot for the survivors
	tree.UpsertFile(dir, TreeFile{Name: "b", SizeBytes: 99})
	require.Equal(t, int64(99), tree.Dir(dir).Files[0].SizeBytes)
}

func TestPath(t *testing.T) {
	tree := New("UnrealEssentials")
	content := tree.EnsureChild(tree.Root(), "Content")
	weapons := tree.EnsureChild(content, "Weapons")
	require.Equal(t, "UnrealEssentials/Content/Weapons", tree.Path(weapons))
	require.Equal(t, "UnrealEssentials", tree.Path(tree.Root()))
}
