package tocresolve

import (
	"path/filepath"
	"strings"

	"github.com/rirurin/FileEmulationFramework/internal/assettree"
)

// buildHashPath computes the chunk-ID hash input for a file named
// fileName inside directory dir: the slash-joined path from the tree
// root to dir, with the leading "<RootName>/Content" segment rewritten
// to "/Game", followed by "/" and the filename without its extension.
func buildHashPath(tree *assettree.Tree, dir assettree.DirHandle, fileName string) (string, error) {
	dirPath := tree.Path(dir)
	rewritten, err := rewriteContentPrefix(dirPath)
	if err != nil {
		return "", err
	}
	noExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return rewritten + "/" + noExt, nil
}

// rewriteContentPrefix replaces the leading "<RootName>/Content" segment
// of dirPath with "/Game". dirPath never includes the tree's synthetic,
// unnamed root; its first segment is the mod's ProjectName.
func rewriteContentPrefix(dirPath string) (string, error) {
	segments := strings.Split(dirPath, "/")
	if len(segments) < 2 || segments[1] != "Content" {
		return "", ErrHashPathMissingContent
	}
	rest := segments[2:]
	out := "/Game"
	for _, s := range rest {
		out += "/" + s
	}
	return out, nil
}
