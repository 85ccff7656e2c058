package types

import (
	"iter"
	"slices"
	"strings"
)

// TreeRecord describes one entry of a tree object: its mode, the kind of object it points to and that object's id.
type TreeRecord struct {
	Mode uint32     // 100644, 100755, 040000
	Type ObjectType // "blob" or "tree"
	SHA  [20]byte   // raw SHA-1 of blob or subtree
}

// TreeEntry is a named TreeRecord. Walkers use it to carry a path alongside the record.
type TreeEntry struct {
	Name string
	TreeRecord
}

// Tree is an immutable directory listing: entry names mapped to records, kept in lexicographic name order.
// The zero value and a nil *Tree are both empty trees. A Tree is never mutated after NewTree returns,
// so any number of goroutines may read it without locking.
type Tree struct {
	entries []TreeEntry // sorted by Name, names unique
}

// NewTree builds a Tree from records. The map is copied, so later changes to it do not affect the Tree.
func NewTree(records map[string]TreeRecord) *Tree {
	entries := make([]TreeEntry, 0, len(records))
	for name, rec := range records {
		entries = append(entries, TreeEntry{Name: name, TreeRecord: rec})
	}
	slices.SortFunc(entries, func(a, b TreeEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &Tree{entries: entries}
}

// Record looks up name. The bool reports whether the entry exists; the match is exact and case-sensitive.
func (t *Tree) Record(name string) (TreeRecord, bool) {
	if t == nil {
		return TreeRecord{}, false
	}
	i, found := slices.BinarySearchFunc(t.entries, name, func(e TreeEntry, target string) int {
		return strings.Compare(e.Name, target)
	})
	if !found {
		return TreeRecord{}, false
	}
	return t.entries[i].TreeRecord, true
}

// All yields every entry in name order.
func (t *Tree) All() iter.Seq2[string, TreeRecord] {
	return func(yield func(string, TreeRecord) bool) {
		if t == nil {
			return
		}
		for _, e := range t.entries {
			if !yield(e.Name, e.TreeRecord) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in name order.
func (t *Tree) Entries() []TreeEntry {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}

// Names returns the entry names in order.
func (t *Tree) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// TreeNode represents a node in the in-memory tree structure. Will be used to build tree objects from the index.
type TreeNode struct {
	Files map[string]IndexEntry // blobs
	Dirs  map[string]*TreeNode  // subtrees
}

// NewTreeNode returns an empty directory node.
func NewTreeNode() *TreeNode {
	return &TreeNode{
		Files: make(map[string]IndexEntry),
		Dirs:  make(map[string]*TreeNode),
	}
}
