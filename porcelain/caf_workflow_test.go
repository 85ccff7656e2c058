package porcelain

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickster241/caf/plumbing"
)

func TestStatus(t *testing.T) {
	newCafRepo(t)

	assert.Equal(t, "On branch master\nnothing to commit, working tree clean\n", mustRunCaf(t, "status"))

	commitAll(t, "init", map[string]string{"tracked.txt": "v1", "gone.txt": "bye"})
	writeFile(t, "tracked.txt", "v2 is longer")
	require.NoError(t, os.Remove("gone.txt"))
	writeFile(t, "staged.txt", "staged")
	writeFile(t, "loose.txt", "loose")
	mustRunCaf(t, "add", "staged.txt")

	want := "On branch master\n" +
		"\nChanges to be committed:\n" +
		"\tnew file:   staged.txt\n" +
		"\nChanges not staged for commit:\n" +
		"\tdeleted:    gone.txt\n" +
		"\tmodified:   tracked.txt\n" +
		"\nUntracked files:\n" +
		"\tloose.txt\n"
	assert.Equal(t, want, mustRunCaf(t, "status"))
}

func TestCommit(t *testing.T) {
	newCafRepo(t)
	writeFile(t, "a.txt", "a")
	mustRunCaf(t, "add", "a.txt")

	out := mustRunCaf(t, "commit", "-m", "Add a\n\nlonger description")
	assert.Regexp(t, regexp.MustCompile(`^\[master [0-9a-f]{7}\] Add a\n$`), out)

	_, stderr, code := runCaf(t, "commit", "-m", "again")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nothing to commit, working tree clean")

	_, stderr, code = runCaf(t, "commit")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `required flag(s) "message" not set`)

	writeFile(t, "b.txt", "b")
	mustRunCaf(t, "add", ".")
	mustRunCaf(t, "commit", "-m", "Add b", "--author", "Grace Hopper <grace@example.com>")

	sha, _, err := plumbing.CurrentCommit()
	require.NoError(t, err)
	commit, err := plumbing.ReadCommit(sha)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", commit.Author.Name)
	assert.Equal(t, "grace@example.com", commit.Author.Email)
	assert.Equal(t, "username", commit.Committer.Name)
	assert.Len(t, commit.ParentsSHA, 1)

	writeFile(t, "c.txt", "c")
	mustRunCaf(t, "add", "c.txt")
	_, stderr, code = runCaf(t, "commit", "-m", "bad author", "--author", "nobody")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid --author")
}

func TestCommitIdentityFromEnvironment(t *testing.T) {
	newCafRepo(t)
	mustRunCaf(t, "config", "unset", "user.name")
	t.Setenv("CAF_USER_NAME", "Env User")

	commitAll(t, "env identity", map[string]string{"a.txt": "a"})
	sha, _, err := plumbing.CurrentCommit()
	require.NoError(t, err)
	commit, err := plumbing.ReadCommit(sha)
	require.NoError(t, err)
	assert.Equal(t, "Env User", commit.Author.Name)
	assert.Equal(t, "user@email.com", commit.Author.Email)

	mustRunCaf(t, "config", "unset", "user.email")
	writeFile(t, "b.txt", "b")
	mustRunCaf(t, "add", "b.txt")
	_, stderr, code := runCaf(t, "commit", "-m", "no email")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "user.email is not set")
}

func TestConfigCommand(t *testing.T) {
	newCafRepo(t)

	assert.Equal(t, "username\n", mustRunCaf(t, "config", "get", "user.name"))
	mustRunCaf(t, "config", "set", "user.name", "Ada")
	assert.Equal(t, "Ada\n", mustRunCaf(t, "config", "get", "user.name"))
	mustRunCaf(t, "config", "unset", "user.name")

	_, stderr, code := runCaf(t, "config", "get", "user.name")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config key not found: user.name")

	_, stderr, code = runCaf(t, "config", "get", "novalue")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid config key")
}

func TestBranchAndCheckout(t *testing.T) {
	newCafRepo(t)
	first := commitAll(t, "first", map[string]string{"shared.txt": "shared", "a.txt": "first version"})

	mustRunCaf(t, "branch", "feature")
	assert.Equal(t, "  feature\n* master\n", mustRunCaf(t, "branch"))

	_, stderr, code := runCaf(t, "branch", "feature")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `a branch named "feature" already exists`)

	assert.Equal(t, "Switched to branch 'feature'\n", mustRunCaf(t, "checkout", "feature"))
	second := commitAll(t, "on feature", map[string]string{"a.txt": "feature version", "feature.txt": "only here"})
	assert.Equal(t, "* feature\n  master\n", mustRunCaf(t, "branch"))

	mustRunCaf(t, "checkout", "master")
	data, err := os.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "first version", string(data))
	assert.NoFileExists(t, "feature.txt")

	// Uncommitted changes block a switch
	writeFile(t, "a.txt", "dirty, uncommitted change")
	_, stderr, code = runCaf(t, "checkout", "feature")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "your local changes would be overwritten")

	// Restoring a path discards the change
	mustRunCaf(t, "checkout", "--", "a.txt")
	data, err = os.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "first version", string(data))

	// Restore one file from another branch
	mustRunCaf(t, "checkout", "feature", "--", "feature.txt")
	assert.FileExists(t, "feature.txt")
	mustRunCaf(t, "commit", "-m", "take feature.txt")

	out := mustRunCaf(t, "checkout", "-b", "topic", first)
	assert.Equal(t, "Switched to a new branch 'topic'\n", out)
	assert.NoFileExists(t, "feature.txt")
	info, err := plumbing.ReadHEADInfo()
	require.NoError(t, err)
	assert.Equal(t, "topic", info.Branch)

	out = mustRunCaf(t, "checkout", second)
	assert.Equal(t, "HEAD is now at "+second[:8]+"\n", out)
	assert.Equal(t, "HEAD detached\nnothing to commit, working tree clean\n", mustRunCaf(t, "status"))
	data, err = os.ReadFile("feature.txt")
	require.NoError(t, err)
	assert.Equal(t, "only here", string(data))
}

func TestCheckoutNewBranchRefused(t *testing.T) {
	newCafRepo(t)
	commitAll(t, "first", map[string]string{"a.txt": "a"})

	writeFile(t, "a.txt", "dirty, uncommitted change")
	stdout, stderr, code := runCaf(t, "checkout", "-b", "topic")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "your local changes would be overwritten")
	assert.Equal(t, "* master\n", mustRunCaf(t, "branch"))

	info, err := plumbing.ReadHEADInfo()
	require.NoError(t, err)
	assert.Equal(t, "master", info.Branch)
}

func TestCheckoutNewBranchRollsBack(t *testing.T) {
	newCafRepo(t)
	commitAll(t, "first", map[string]string{"a.txt": "a"})
	mustRunCaf(t, "checkout", "-b", "feature")
	commitAll(t, "add new.txt", map[string]string{"new.txt": "tracked content"})
	mustRunCaf(t, "checkout", "master")
	assert.NoFileExists(t, "new.txt")

	// An untracked file in the way stops the switch after the branch was created
	writeFile(t, "new.txt", "precious untracked work")
	_, stderr, code := runCaf(t, "checkout", "-b", "topic", "feature")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "untracked working tree file would be overwritten by checkout: new.txt")
	assert.Equal(t, "  feature\n* master\n", mustRunCaf(t, "branch"))

	data, err := os.ReadFile("new.txt")
	require.NoError(t, err)
	assert.Equal(t, "precious untracked work", string(data))

	_, _, code = runCaf(t, "checkout", "feature")
	assert.Equal(t, 1, code)
	data, err = os.ReadFile("new.txt")
	require.NoError(t, err)
	assert.Equal(t, "precious untracked work", string(data))
}

func TestBranchNames(t *testing.T) {
	dir := newCafRepo(t)
	commitAll(t, "first", map[string]string{"a.txt": "a"})

	for _, args := range [][]string{
		{"branch", "../../../escaped"},
		{"branch", "-d", "../heads/master"},
		{"checkout", "-b", "../../escaped"},
		{"branch", "bad~name"},
	} {
		_, stderr, code := runCaf(t, args...)
		assert.Equal(t, 1, code, "%v", args)
		assert.Contains(t, stderr, "invalid ref name", "%v", args)
	}
	assert.NoFileExists(t, filepath.Join(dir, "escaped"))
	assert.NoFileExists(t, filepath.Join(dir, ".caf", "escaped"))
	assert.Equal(t, "* master\n", mustRunCaf(t, "branch"))

	mustRunCaf(t, "branch", "topic")
	assert.Equal(t, "Deleted branch topic\n", mustRunCaf(t, "branch", "-d", "topic"))
	assert.Equal(t, "* master\n", mustRunCaf(t, "branch"))

	_, stderr, code := runCaf(t, "branch", "-d", "master")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "checked out at HEAD")
	_, stderr, code = runCaf(t, "branch", "-d", "topic")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `branch "topic" not found`)
}
