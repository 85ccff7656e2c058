package plumbing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickster241/caf/utils/types"
)

// repoWithCommits creates three commits that each rewrite file1.txt and returns them oldest first.
func repoWithCommits(t *testing.T) [][20]byte {
	t.Helper()
	newTestRepo(t)

	var commits [][20]byte
	for _, msg := range []string{"First commit", "Second commit", "Third commit"} {
		commits = append(commits, commitFiles(t, msg, map[string]string{"file1.txt": msg + " content"}))
	}
	return commits
}

func TestCreateTagAtHead(t *testing.T) {
	commits := repoWithCommits(t)

	sha, err := CreateTag("v1.0.0", "")
	require.NoError(t, err)
	assert.Equal(t, commits[2], sha)

	assert.FileExists(t, filepath.Join(".caf", "refs", "tags", "v1.0.0"))
	got, ok := ReadTag("v1.0.0")
	require.True(t, ok)
	assert.Equal(t, commits[2], got)
}

func TestCreateTagAtSpecificCommit(t *testing.T) {
	commits := repoWithCommits(t)

	_, err := CreateTag("v0.1.0", hexOf(commits[0]))
	require.NoError(t, err)
	got, _ := ReadTag("v0.1.0")
	assert.Equal(t, commits[0], got)

	// Revisions are accepted too
	_, err = CreateTag("v0.2.0", "HEAD~1")
	require.NoError(t, err)
	got, _ = ReadTag("v0.2.0")
	assert.Equal(t, commits[1], got)
}

func TestCreateTagErrors(t *testing.T) {
	repoWithCommits(t)

	_, err := CreateTag("", "")
	require.ErrorIs(t, err, ErrTagNameRequired)
	assert.EqualError(t, err, "tag name is required")

	_, err = CreateTag("v1.0.0", "")
	require.NoError(t, err)
	_, err = CreateTag("v1.0.0", "")
	require.ErrorIs(t, err, ErrTagExists)
	assert.EqualError(t, err, `tag "v1.0.0" already exists`)

	_, err = CreateTag("v2.0.0", strings.Repeat("a", 40))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.False(t, TagExists("v2.0.0"))

	// Tags share the branch name rules
	for _, name := range []string{"../escape", "../../../escaped", "a..lock", "v1^", "-x"} {
		_, err = CreateTag(name, "")
		assert.ErrorIs(t, err, ErrInvalidRefName, name)
	}
	assert.NoFileExists(t, filepath.Join(".caf", "refs", "escape"))
	assert.ErrorIs(t, DeleteTag("../../HEAD"), ErrInvalidRefName)
	assert.FileExists(t, filepath.Join(".caf", "HEAD"))
}

func TestCreateTagInEmptyRepo(t *testing.T) {
	newTestRepo(t)

	_, err := CreateTag("v1.0.0", "")
	require.ErrorIs(t, err, ErrNoCommits)
	assert.EqualError(t, err, "no commits in repository")
}

func TestDeleteTag(t *testing.T) {
	repoWithCommits(t)

	_, err := CreateTag("v1.0.0", "")
	require.NoError(t, err)
	require.NoError(t, DeleteTag("v1.0.0"))
	assert.NoFileExists(t, filepath.Join(".caf", "refs", "tags", "v1.0.0"))

	err = DeleteTag("")
	assert.ErrorIs(t, err, ErrTagNameRequired)

	err = DeleteTag("nonexistent")
	require.ErrorIs(t, err, ErrTagNotFound)
	assert.EqualError(t, err, `tag "nonexistent" does not exist`)
}

func TestListTags(t *testing.T) {
	commits := repoWithCommits(t)

	tags, err := ListTags()
	require.NoError(t, err)
	assert.Empty(t, tags)

	for name, commit := range map[string][20]byte{"v1.0.0": commits[2], "v0.1.0": commits[0], "v0.2.0": commits[1]} {
		_, err := CreateTag(name, hexOf(commit))
		require.NoError(t, err)
	}

	tags, err = ListTags()
	require.NoError(t, err)
	assert.Equal(t, []types.Tag{
		{Name: "v0.1.0", CommitSHA: commits[0]},
		{Name: "v0.2.0", CommitSHA: commits[1]},
		{Name: "v1.0.0", CommitSHA: commits[2]},
	}, tags)
}

func TestListTagsWithoutTagsDirectory(t *testing.T) {
	repoWithCommits(t)
	require.NoError(t, os.RemoveAll(filepath.Join(".caf", "refs", "tags")))

	tags, err := ListTags()
	require.NoError(t, err)
	assert.Empty(t, tags)

	// Creating a tag recreates the directory
	_, err = CreateTag("v1.0.0", "")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(".caf", "refs", "tags"))
}

func TestTagExists(t *testing.T) {
	repoWithCommits(t)

	assert.False(t, TagExists("v1.0.0"))
	_, err := CreateTag("v1.0.0", "")
	require.NoError(t, err)
	assert.True(t, TagExists("v1.0.0"))
	require.NoError(t, DeleteTag("v1.0.0"))
	assert.False(t, TagExists("v1.0.0"))
	assert.False(t, TagExists(""))
}

func TestTagNames(t *testing.T) {
	repoWithCommits(t)

	for _, name := range []string{"v1.0.0", "release-2023", "feature_test", "v1.0.0-beta"} {
		_, err := CreateTag(name, "")
		require.NoError(t, err, name)
		assert.True(t, TagExists(name), name)
	}
}

func TestTagSurvivesNewCommits(t *testing.T) {
	commits := repoWithCommits(t)

	_, err := CreateTag("stable", hexOf(commits[1]))
	require.NoError(t, err)
	fourth := commitFiles(t, "Fourth commit", map[string]string{"file1.txt": "Fourth commit content"})

	got, ok := ReadTag("stable")
	require.True(t, ok)
	assert.Equal(t, commits[1], got)
	assert.NotEqual(t, fourth, got)
}

func TestMultipleTagsSameCommit(t *testing.T) {
	commits := repoWithCommits(t)

	for _, name := range []string{"v1.0.0", "latest", "production"} {
		_, err := CreateTag(name, hexOf(commits[2]))
		require.NoError(t, err)
	}

	tags, err := ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 3)
	for _, tag := range tags {
		assert.Equal(t, commits[2], tag.CommitSHA)
	}
}
