package plumbing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/constants"
	"github.com/brickster241/caf/utils/types"
)

const headRefPrefix = "ref: refs/heads/"

// ReadHEADInfo reads .caf/HEAD and determines whether HEAD is detached.
func ReadHEADInfo() (*types.HeadInfo, error) {
	data, err := os.ReadFile(utils.RepoPath("HEAD"))
	if err != nil {
		return nil, err
	}

	// Symbolic Ref
	line := strings.TrimSpace(string(data))
	if branch, ok := strings.CutPrefix(line, headRefPrefix); ok {
		return &types.HeadInfo{Branch: branch}, nil
	}

	// Detached HEAD
	sha, err := utils.ParseSHA(line)
	if err != nil {
		return nil, fmt.Errorf("invalid HEAD contents: %w", err)
	}
	return &types.HeadInfo{SHA: sha, Detached: true}, nil
}

// readRefFile reads a file holding a single hex object id.
func readRefFile(p string) ([20]byte, bool) {
	data, err := os.ReadFile(p)
	if err != nil {
		return [20]byte{}, false
	}
	sha, err := utils.ParseSHA(strings.TrimSpace(string(data)))
	if err != nil {
		return [20]byte{}, false
	}
	return sha, true
}

func writeRefFile(p string, sha [20]byte) error {
	if err := os.MkdirAll(filepath.Dir(p), constants.DefaultDirPerm); err != nil {
		return err
	}
	return writeFileAtomic(p, []byte(fmt.Sprintf("%x\n", sha)))
}

// ValidateRefName checks a branch or tag name. Names are slash separated; no component may be empty, start
// with a dot or end in ".lock", and revision syntax characters are not allowed.
func ValidateRefName(name string) error {
	if name == "" || name == "HEAD" || strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w %q", ErrInvalidRefName, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".lock") || strings.HasPrefix(part, "tmp_") {
			return fmt.Errorf("%w %q", ErrInvalidRefName, name)
		}
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return fmt.Errorf("%w %q", ErrInvalidRefName, name)
		}
	}
	if strings.Contains(name, "@{") {
		return fmt.Errorf("%w %q", ErrInvalidRefName, name)
	}
	return nil
}

func branchPath(branch string) string {
	return utils.RepoPath("refs", "heads", filepath.FromSlash(branch))
}

// ReadBranchRef reads refs/heads/<branch>. The bool is false if the branch does not exist or the name is not
// a valid ref name.
func ReadBranchRef(branch string) ([20]byte, bool) {
	if ValidateRefName(branch) != nil {
		return [20]byte{}, false
	}
	return readRefFile(branchPath(branch))
}

// UpdateBranch points a branch at sha, creating it if needed.
func UpdateBranch(branch string, sha [20]byte) error {
	if err := ValidateRefName(branch); err != nil {
		return err
	}
	if err := writeRefFile(branchPath(branch), sha); err != nil {
		return err
	}
	log.Debug("branch %s -> %x", branch, sha)
	return nil
}

// CreateBranchRef creates a new branch pointing at sha. It fails if the branch already exists.
func CreateBranchRef(branch string, sha [20]byte) error {
	if err := ValidateRefName(branch); err != nil {
		return err
	}
	if _, exists := ReadBranchRef(branch); exists {
		return fmt.Errorf("a branch named %q %w", branch, ErrBranchExists)
	}
	return UpdateBranch(branch, sha)
}

// DeleteBranch removes a branch. The branch HEAD points to cannot be deleted.
func DeleteBranch(branch string) error {
	if err := ValidateRefName(branch); err != nil {
		return err
	}
	if headInfo, err := ReadHEADInfo(); err == nil && !headInfo.Detached && headInfo.Branch == branch {
		return fmt.Errorf("cannot delete branch %q checked out at HEAD", branch)
	}
	err := os.Remove(branchPath(branch))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("branch %q %w", branch, ErrBranchNotFound)
	}
	return err
}

// ListBranches returns the branch names in sorted order.
func ListBranches() ([]string, error) {
	return listRefs(utils.RepoPath("refs", "heads"))
}

// listRefs returns the names of the ref files below dir, slash separated and sorted. A missing dir has no refs.
func listRefs(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "tmp_") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// SetHEADBranch makes HEAD a symbolic ref to branch.
func SetHEADBranch(branch string) error {
	if err := ValidateRefName(branch); err != nil {
		return err
	}
	log.Debug("HEAD -> refs/heads/%s", branch)
	return writeFileAtomic(utils.RepoPath("HEAD"), []byte(headRefPrefix+branch+"\n"))
}

// SetHEADDetached moves HEAD directly to a commit.
func SetHEADDetached(sha [20]byte) error {
	log.Debug("HEAD -> %x (detached)", sha)
	return writeRefFile(utils.RepoPath("HEAD"), sha)
}

// CurrentCommit returns the commit HEAD points to. The bool is false on an unborn branch.
func CurrentCommit() ([20]byte, bool, error) {
	headInfo, err := ReadHEADInfo()
	if err != nil {
		return [20]byte{}, false, err
	}
	if headInfo.Detached {
		return headInfo.SHA, true, nil
	}
	sha, ok := ReadBranchRef(headInfo.Branch)
	return sha, ok, nil
}

// AdvanceHEAD moves whatever HEAD refers to (the current branch, or HEAD itself when detached) to sha.
func AdvanceHEAD(sha [20]byte) error {
	headInfo, err := ReadHEADInfo()
	if err != nil {
		return err
	}
	if headInfo.Detached {
		return SetHEADDetached(sha)
	}
	return UpdateBranch(headInfo.Branch, sha)
}
