package tocresolve

import "github.com/rirurin/FileEmulationFramework/internal/assettree"

// keepFileFunc re-validates a collected file at flatten time: the source
// may have vanished since collection, or (for a uasset) turn out to be a
// cooked PAK package after all. Returning false drops the file from the
// flattened output entirely.
//
// Dropping happens here, during flattening, rather than after a file
// entry has already been allocated and then repaired away: the two are
// observationally identical (first_file_ix/next_file_ix end up pointing
// only at surviving files either way) but filtering before allocation
// needs no index-repair pass. See DESIGN.md.
type keepFileFunc func(name, sourcePath string) (keep bool, reason string)

// flatten pre-order depth-first flattens tree into parallel directory and
// file arrays plus a deduplicated string pool.
func flatten(tree *assettree.Tree, keep keepFileFunc) (dirs []FlatDirectoryEntry, files []FlatFileEntry, pool *stringPool, skipped []string, err error) {
	pool = newStringPool()

	var visit func(h assettree.DirHandle) (uint32, error)
	visit = func(h assettree.DirHandle) (uint32, error) {
		d := tree.Dir(h)
		dIx := uint32(len(dirs))
		dirs = append(dirs, FlatDirectoryEntry{
			NameIx:        pool.Intern(d.Name),
			FirstChildIx:  Sentinel,
			NextSiblingIx: Sentinel,
			FirstFileIx:   Sentinel,
		})

		lastKeptIx := -1
		for _, f := range d.Files {
			if ok, reason := keep(f.Name, f.SourcePath); !ok {
				skipped = append(skipped, f.SourcePath+": "+reason)
				continue
			}
			hashPath, herr := buildHashPath(tree, h, f.Name)
			if herr != nil {
				return 0, herr
			}
			newIx := uint32(len(files))
			files = append(files, FlatFileEntry{
				NameIx:     pool.Intern(f.Name),
				NextFileIx: Sentinel,
				UserDataIx: newIx,
				SourcePath: f.SourcePath,
				HashPath:   hashPath,
				Size:       f.SizeBytes,
			})
			if lastKeptIx < 0 {
				dirs[dIx].FirstFileIx = newIx
			} else {
				files[lastKeptIx].NextFileIx = newIx
			}
			lastKeptIx = int(newIx)
		}

		if tree.HasChildren(h) {
			dirs[dIx].FirstChildIx = uint32(len(dirs))
			prevChildStart := -1
			for _, ch := range d.Children {
				childStart, cerr := visit(ch)
				if cerr != nil {
					return 0, cerr
				}
				if prevChildStart >= 0 {
					dirs[prevChildStart].NextSiblingIx = childStart
				}
				prevChildStart = int(childStart)
			}
		}
		return dIx, nil
	}

	_, err = visit(tree.Root())
	return dirs, files, pool, skipped, err
}
