package types

// HeadInfo represents the state of .caf/HEAD
type HeadInfo struct {
	Branch   string   // branch name (empty if detached)
	SHA      [20]byte // valid if detached
	Detached bool
}

// Tag is a lightweight tag: a name under refs/tags pointing at a commit.
type Tag struct {
	Name      string
	CommitSHA [20]byte
}
