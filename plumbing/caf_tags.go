package plumbing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/types"
)

func tagPath(name string) string {
	return utils.RepoPath("refs", "tags", filepath.FromSlash(name))
}

func validateTagName(name string) error {
	if name == "" {
		return ErrTagNameRequired
	}
	return ValidateRefName(name)
}

// CreateTag creates a lightweight tag at commitIsh, or at HEAD when commitIsh is empty. It returns the tagged commit.
func CreateTag(name, commitIsh string) ([20]byte, error) {
	if err := validateTagName(name); err != nil {
		return [20]byte{}, err
	}
	if TagExists(name) {
		return [20]byte{}, fmt.Errorf("tag %q %w", name, ErrTagExists)
	}

	var commitSHA [20]byte
	if commitIsh == "" {
		sha, ok, err := CurrentCommit()
		if err != nil {
			return [20]byte{}, err
		}
		if !ok {
			return [20]byte{}, ErrNoCommits
		}
		commitSHA = sha
	} else {
		sha, err := ResolveCommitish(commitIsh)
		if err != nil {
			return [20]byte{}, err
		}
		commitSHA = sha
	}

	if err := writeRefFile(tagPath(name), commitSHA); err != nil {
		return [20]byte{}, fmt.Errorf("write tag %q: %w", name, err)
	}
	log.Debug("tag %s -> %x", name, commitSHA)
	return commitSHA, nil
}

// DeleteTag removes a tag.
func DeleteTag(name string) error {
	if err := validateTagName(name); err != nil {
		return err
	}
	err := os.Remove(tagPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tag %q %w", name, ErrTagNotFound)
	}
	return err
}

// TagExists reports whether a tag with this name exists.
func TagExists(name string) bool {
	if ValidateRefName(name) != nil {
		return false
	}
	_, ok := readRefFile(tagPath(name))
	return ok
}

// ReadTag returns the commit a tag points to.
func ReadTag(name string) ([20]byte, bool) {
	if ValidateRefName(name) != nil {
		return [20]byte{}, false
	}
	return readRefFile(tagPath(name))
}

// ListTags returns all tags sorted by name. A repository without a tags directory has no tags.
func ListTags() ([]types.Tag, error) {
	names, err := listRefs(utils.RepoPath("refs", "tags"))
	if err != nil {
		return nil, err
	}

	tags := make([]types.Tag, 0, len(names))
	for _, name := range names {
		sha, ok := ReadTag(name)
		if !ok {
			log.Warn("ignoring malformed tag %s", name)
			continue
		}
		tags = append(tags, types.Tag{Name: name, CommitSHA: sha})
	}
	return tags, nil
}
