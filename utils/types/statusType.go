package types

type StatusType int

const (
	AddedStatus    StatusType = 0
	ModifiedStatus StatusType = 1
	DeletedStatus  StatusType = 2
)

func (s StatusType) String() string {
	switch s {
	case AddedStatus:
		return "new file"
	case ModifiedStatus:
		return "modified"
	case DeletedStatus:
		return "deleted"
	}
	return "unknown"
}

// StatusEntry is one changed path.
type StatusEntry struct {
	Path string
	Kind StatusType
}

// Status groups work tree paths by how they differ from HEAD and the index. Every list is sorted by path.
type Status struct {
	Branch    string // empty when HEAD is detached
	Staged    []StatusEntry
	Unstaged  []StatusEntry
	Untracked []string
}
