package plumbing

import (
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestErrorStringsAreLowerCase(t *testing.T) {
	for _, err := range []error{
		ErrNoRepository, ErrInvalidObjectID, ErrObjectNotFound, ErrCorruptObject, ErrNotATree,
		ErrNotACommit, ErrDuplicateEntry, ErrInvalidEntryName, ErrPathNotFound, ErrNotADirectory,
		ErrOutsideWorkTree, ErrInsideRepoDir, ErrWouldOverwrite, ErrCorruptIndex, ErrNoCommits,
		ErrInvalidRefName, ErrBranchExists, ErrBranchNotFound, ErrTagNameRequired, ErrTagExists,
		ErrTagNotFound, ErrInvalidRevision,
	} {
		first, _ := utf8.DecodeRuneInString(err.Error())
		assert.False(t, unicode.IsUpper(first), "%q", err.Error())
	}
}
