package types

type ObjectType string

const (
	BlobObject   ObjectType = "blob"
	TreeObject   ObjectType = "tree"
	CommitObject ObjectType = "commit"
)

// Valid reports whether t is one of the object types the store understands.
func (t ObjectType) Valid() bool {
	switch t {
	case BlobObject, TreeObject, CommitObject:
		return true
	}
	return false
}
