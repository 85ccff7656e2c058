package types

// Commit is a parsed commit object.
type Commit struct {
	TreeSHA    [20]byte   // root tree SHA
	ParentsSHA [][20]byte // parent commits, more than one for merges
	Author     Signature
	Committer  Signature
	Message    string
}

// Signature identifies who authored or committed a change and when.
type Signature struct {
	Name     string
	Email    string
	When     int64  // unix seconds
	Timezone string // "+0200"
}
