package plumbing

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/constants"
	"github.com/brickster241/caf/utils/types"
)

// EncodeTree serializes a tree as a sequence of "<mode> <name>\0<20 byte sha>" records. Entries are emitted in the
// tree's name order, so equal trees always encode (and hash) identically.
func EncodeTree(tree *types.Tree) []byte {
	var content bytes.Buffer
	for name, rec := range tree.All() {
		fmt.Fprintf(&content, "%o %s", rec.Mode, name)
		content.WriteByte(0)
		content.Write(rec.SHA[:])
	}
	return content.Bytes()
}

// DecodeTree parses the body of a tree object. Duplicate names are rejected rather than silently collapsed.
func DecodeTree(content []byte) (*types.Tree, error) {
	records := make(map[string]types.TreeRecord)
	i := 0

	for i < len(content) {
		// Find NUL separating "<mode> <name>" and SHA
		nullIdx := bytes.IndexByte(content[i:], 0)
		if nullIdx == -1 {
			return nil, fmt.Errorf("%w: unterminated tree entry header", ErrCorruptObject)
		}

		mode, name, ok := strings.Cut(string(content[i:i+nullIdx]), " ")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: invalid tree entry header", ErrCorruptObject)
		}

		// RAW SHA (next 20 bytes)
		shaStart := i + nullIdx + 1
		shaEnd := shaStart + 20
		if shaEnd > len(content) {
			return nil, fmt.Errorf("%w: truncated tree entry %q", ErrCorruptObject, name)
		}

		uint32Mode, err := utils.ParseModeStr(mode)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrCorruptObject, name, err)
		}
		if !validEntryName(name) {
			return nil, fmt.Errorf("%w: %w %q", ErrCorruptObject, ErrInvalidEntryName, name)
		}
		if _, dup := records[name]; dup {
			return nil, fmt.Errorf("%w: %w %q", ErrCorruptObject, ErrDuplicateEntry, name)
		}

		rec := types.TreeRecord{Mode: uint32Mode, Type: types.BlobObject}
		if uint32Mode == constants.ModeTree {
			rec.Type = types.TreeObject
		}
		copy(rec.SHA[:], content[shaStart:shaEnd])
		records[name] = rec

		i = shaEnd
	}

	return types.NewTree(records), nil
}

// validEntryName reports whether name can be a single path component of the work tree. The repository
// directory itself is never a valid entry.
func validEntryName(name string) bool {
	switch {
	case name == "", name == ".", name == "..":
		return false
	case strings.ContainsAny(name, "/\\\x00"):
		return false
	case strings.EqualFold(name, constants.RepoDir):
		return false
	}
	return true
}

// WriteTree stores a single tree object and returns its id.
func WriteTree(tree *types.Tree) ([20]byte, error) {
	return WriteObject(types.TreeObject, EncodeTree(tree))
}

// ReadTree loads and decodes one tree object (non-recursive).
func ReadTree(sha [20]byte) (*types.Tree, error) {
	shaHex := hex.EncodeToString(sha[:])
	objType, content, err := ReadObject(shaHex)
	if err != nil {
		return nil, err
	}
	if objType != types.TreeObject {
		return nil, fmt.Errorf("object %s is %w", shaHex, ErrNotATree)
	}

	tree, err := DecodeTree(content)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", shaHex, err)
	}
	return tree, nil
}

// BuildTreeFromIndex builds an in-memory directory hierarchy from the given index entries.
func BuildTreeFromIndex(entries []types.IndexEntry) *types.TreeNode {
	root := types.NewTreeNode()

	for _, entry := range entries {
		parts := strings.Split(entry.Filename, "/")

		// Traverse or create directories
		currNode := root
		for _, dir := range parts[:len(parts)-1] {
			if currNode.Dirs[dir] == nil {
				currNode.Dirs[dir] = types.NewTreeNode()
			}
			currNode = currNode.Dirs[dir]
		}

		currNode.Files[parts[len(parts)-1]] = entry
	}
	return root
}

// WriteTreeNode writes the subtrees of node bottom-up, then node itself, and returns the id of node's tree.
func WriteTreeNode(node *types.TreeNode) ([20]byte, error) {
	records := make(map[string]types.TreeRecord, len(node.Dirs)+len(node.Files))

	for name, child := range node.Dirs {
		sha, err := WriteTreeNode(child)
		if err != nil {
			return [20]byte{}, fmt.Errorf("write tree %s: %w", name, err)
		}
		records[name] = types.TreeRecord{Mode: constants.ModeTree, Type: types.TreeObject, SHA: sha}
	}

	for name, ie := range node.Files {
		mode := ie.Mode
		if mode == 0 {
			mode = constants.ModeFile
		}
		records[name] = types.TreeRecord{Mode: mode, Type: types.BlobObject, SHA: ie.SHA1}
	}

	return WriteTree(types.NewTree(records))
}

// WalkTree visits every entry below the tree depth-first in name order. fn receives the slash separated path of
// the entry; returning an error stops the walk.
func WalkTree(treeSHA [20]byte, fn func(path string, rec types.TreeRecord) error) error {
	return walkTreeRecur(treeSHA, "", fn)
}

func walkTreeRecur(treeSHA [20]byte, prefix string, fn func(string, types.TreeRecord) error) error {
	tree, err := ReadTree(treeSHA)
	if err != nil {
		return err
	}

	for name, rec := range tree.All() {
		p := path.Join(prefix, name)
		if err := fn(p, rec); err != nil {
			return err
		}
		if rec.Type == types.TreeObject {
			if err := walkTreeRecur(rec.SHA, p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlattenTree returns every path below the tree (blobs and subtrees) mapped to its entry.
func FlattenTree(treeSHA [20]byte) (map[string]types.TreeEntry, error) {
	out := make(map[string]types.TreeEntry)
	err := WalkTree(treeSHA, func(p string, rec types.TreeRecord) error {
		out[p] = types.TreeEntry{Name: p, TreeRecord: rec}
		return nil
	})
	return out, err
}

// EmptyTreeSHA is the id of the tree with no entries.
var EmptyTreeSHA = HashObject(types.TreeObject, nil)
