// Package assettree implements the merge-by-path tree that the asset
// collector accumulates mod contributions into: directories and files,
// insertion-ordered, with last-writer-wins semantics per file.
//
// Directories live in a dense arena indexed by 32-bit handles rather than
// as a web of pointers, so a parent back-reference never has to fight the
// owning parent->child edge for lifetime: dropping the arena drops the
// whole tree at once, and no cycle-breaking code is needed.
package assettree

// DirHandle indexes a TreeDirectory within a Tree's arena.
type DirHandle int32

// NoDir is the sentinel "no directory" handle, used for a root's parent.
const NoDir DirHandle = -1

// TreeFile is a leaf: a single collected asset file.
type TreeFile struct {
	Name       string // filename including extension
	SizeBytes  int64  // size on disk at time of collection
	SourcePath string // absolute OS path used to re-read content at serialization time
}

// TreeDirectory is a named interior node. Children and files retain
// insertion order; earlier mods' entries appear earlier in the tree, and
// a later-inserted replacement keeps the earlier slot's position.
type TreeDirectory struct {
	Name     string // leaf component only, never a path
	Parent   DirHandle
	Children []DirHandle
	Files    []TreeFile

	fileIndex map[string]int // name -> index into Files, for O(1) upsert
}

// Tree owns the directory arena and the root handle.
type Tree struct {
	dirs []*TreeDirectory
	root DirHandle
}

// New creates a tree with a single root directory named rootName.
func New(rootName string) *Tree {
	t := &Tree{}
	root := &TreeDirectory{Name: rootName, Parent: NoDir, fileIndex: map[string]int{}}
	t.dirs = append(t.dirs, root)
	t.root = 0
	return t
}

// Root returns the handle of the tree's root directory.
func (t *Tree) Root() DirHandle { return t.root }

// Dir resolves a handle to its TreeDirectory. Panics on an out-of-range
// handle; callers only ever pass handles this package has handed out.
func (t *Tree) Dir(h DirHandle) *TreeDirectory {
	return t.dirs[h]
}

// DirCount returns the number of directories in the arena, root included.
func (t *Tree) DirCount() int { return len(t.dirs) }

// EnsureChild returns the existing child of parent named name, or appends
// and returns a freshly created one.
func (t *Tree) EnsureChild(parent DirHandle, name string) DirHandle {
	p := t.dirs[parent]
	for _, ch := range p.Children {
		if t.dirs[ch].Name == name {
			return ch
		}
	}
	h := DirHandle(len(t.dirs))
	t.dirs = append(t.dirs, &TreeDirectory{Name: name, Parent: parent, fileIndex: map[string]int{}})
	p.Children = append(p.Children, h)
	return h
}

// UpsertFile replaces the file named file.Name in dir if one already
// exists (keeping its slot position, replacing its contents), otherwise
// appends file as a new entry.
func (t *Tree) UpsertFile(dir DirHandle, file TreeFile) {
	d := t.dirs[dir]
	if d.fileIndex == nil {
		d.fileIndex = map[string]int{}
	}
	if idx, ok := d.fileIndex[file.Name]; ok {
		d.Files[idx] = file
		return
	}
	d.fileIndex[file.Name] = len(d.Files)
	d.Files = append(d.Files, file)
}

// HasChildren reports whether dir has at least one child directory.
func (t *Tree) HasChildren(dir DirHandle) bool {
	return len(t.dirs[dir].Children) > 0
}

// HasFiles reports whether dir has at least one file.
func (t *Tree) HasFiles(dir DirHandle) bool {
	return len(t.dirs[dir].Files) > 0
}

// RemoveFile deletes the file named name from dir, if present, and shifts
// the slots of the files after it down by one.
func (t *Tree) RemoveFile(dir DirHandle, name string) {
	d := t.dirs[dir]
	idx, ok := d.fileIndex[name]
	if !ok {
		return
	}
	d.Files = append(d.Files[:idx], d.Files[idx+1:]...)
	delete(d.fileIndex, name)
	for n, i := range d.fileIndex {
		if i > idx {
			d.fileIndex[n] = i - 1
		}
	}
}

// Path returns the slash-joined path from the root to dir, root name
// included (e.g. "UnrealEssentials/Content/Weapons").
func (t *Tree) Path(dir DirHandle) string {
	var parts []string
	for h := dir; h != NoDir; h = t.dirs[h].Parent {
		parts = append(parts, t.dirs[h].Name)
	}
	out := ""
	for i := len(parts) - 1; i >= 0; i-- {
		if out != "" {
			out += "/"
		}
		out += parts[i]
	}
	return out
}
