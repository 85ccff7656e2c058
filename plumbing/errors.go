package plumbing

import "errors"

var (
	ErrNoRepository     = errors.New("no repository found")
	ErrInvalidObjectID  = errors.New("invalid object id")
	ErrObjectNotFound   = errors.New("does not exist")
	ErrCorruptObject    = errors.New("corrupt object")
	ErrNotATree         = errors.New("not a tree object")
	ErrNotACommit       = errors.New("not a commit object")
	ErrDuplicateEntry   = errors.New("duplicate tree entry")
	ErrInvalidEntryName = errors.New("invalid tree entry name")
	ErrPathNotFound     = errors.New("path does not exist")
	ErrNotADirectory    = errors.New("not a directory")
	ErrOutsideWorkTree  = errors.New("outside work tree")
	ErrInsideRepoDir    = errors.New("inside the repository directory")
	ErrWouldOverwrite   = errors.New("untracked working tree file would be overwritten")
	ErrCorruptIndex     = errors.New("corrupt index")
	ErrNoCommits        = errors.New("no commits in repository")
	ErrInvalidRefName   = errors.New("invalid ref name")
	ErrBranchExists     = errors.New("already exists")
	ErrBranchNotFound   = errors.New("not found")
	ErrTagNameRequired  = errors.New("tag name is required")
	ErrTagExists        = errors.New("already exists")
	ErrTagNotFound      = errors.New("does not exist")
	ErrInvalidRevision  = errors.New("invalid revision")
)
