package tocresolve

import (
	"fmt"

	"github.com/rirurin/FileEmulationFramework/internal/assettree"
	"github.com/rirurin/FileEmulationFramework/internal/binformat"
)

// Resolve flattens tree and computes every artifact a UTOC/UCAS pair
// needs: the directory index, the four parallel per-chunk arrays, the
// synthesized container header, and the host-visible partition layout.
func Resolve(tree *assettree.Tree, containerName string, opts ...Option) (*Result, error) {
	o := defaultOptions()
	o.ContainerName = containerName
	for _, opt := range opts {
		opt(&o)
	}

	dirs, files, pool, skipped, err := flatten(tree, probeForSerialization)
	if err != nil {
		return nil, fmt.Errorf("tocresolve: flatten: %w", err)
	}

	result := &Result{
		MountPoint:  o.MountPoint,
		Dirs:        dirs,
		Strings:     pool.strings,
		ContainerID: binformat.NameHash(containerName),
		Skipped:     skipped,
	}

	state := &fileArtifactState{}
	for _, f := range files {
		dropped, reason, aerr := appendFile(result, state, f, o)
		if aerr != nil {
			return nil, fmt.Errorf("tocresolve: building artifacts for %q: %w", f.SourcePath, aerr)
		}
		if dropped {
			// probeForSerialization already filtered flatten's output
			// on the same check; reaching this branch means the
			// filesystem changed between flatten and here, which this
			// single-threaded model never guards against.
			return nil, fmt.Errorf("tocresolve: %q vanished mid-build: %s", f.SourcePath, reason)
		}
	}
	result.Files = files

	appendContainerHeader(result, state, containerName)

	return result, nil
}
