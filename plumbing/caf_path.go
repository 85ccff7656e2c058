package plumbing

import (
	"fmt"
	"strings"

	"github.com/brickster241/caf/utils/constants"
	"github.com/brickster241/caf/utils/types"
)

// ResolvePath finds the entry at a slash separated path below rootSHA, one tree level at a time.
// The empty path (or "/") resolves to the root tree itself.
func ResolvePath(rootSHA [20]byte, p string) (types.TreeEntry, error) {
	entry := types.TreeEntry{
		TreeRecord: types.TreeRecord{Mode: constants.ModeTree, Type: types.TreeObject, SHA: rootSHA},
	}

	walked := ""
	for _, part := range strings.Split(strings.Trim(p, "/"), "/") {
		if part == "" || part == "." {
			continue
		}
		if entry.Type != types.TreeObject {
			return types.TreeEntry{}, fmt.Errorf("%s: %w", walked, ErrNotADirectory)
		}

		tree, err := ReadTree(entry.SHA)
		if err != nil {
			return types.TreeEntry{}, err
		}

		if walked == "" {
			walked = part
		} else {
			walked += "/" + part
		}

		rec, ok := tree.Record(part)
		if !ok {
			return types.TreeEntry{}, fmt.Errorf("%s: %w", walked, ErrPathNotFound)
		}
		entry = types.TreeEntry{Name: walked, TreeRecord: rec}
	}
	return entry, nil
}
