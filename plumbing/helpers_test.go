package plumbing

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brickster241/caf/utils/types"
)

// newTestRepo initializes a repository in a fresh temporary directory and makes it the working directory.
func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	reinit, err := InitRepo()
	require.NoError(t, err)
	require.False(t, reinit)
	return dir
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

var testSig = types.Signature{Name: "Tester", Email: "tester@example.com", When: 1700000000, Timezone: "+0000"}

// commitFiles writes the files, stages everything and commits.
func commitFiles(t *testing.T, message string, files map[string]string) [20]byte {
	t.Helper()
	for p, content := range files {
		writeFile(t, p, content)
	}
	require.NoError(t, AddPaths([]string{"."}))

	sha, err := CommitIndex(testSig, testSig, message)
	require.NoError(t, err)
	return sha
}

func hexOf(sha [20]byte) string {
	return hex.EncodeToString(sha[:])
}
