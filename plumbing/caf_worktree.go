package plumbing

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/brickster241/caf/utils/constants"
	"github.com/brickster241/caf/utils/types"
)

// walkWorkTree calls fn for every regular file or symlink in the work tree, skipping the .caf directory.
func walkWorkTree(fn func(p string) error) error {
	return filepath.WalkDir(".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.EqualFold(d.Name(), constants.RepoDir) {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(filepath.ToSlash(filepath.Clean(p)))
	})
}

// stageFile hashes a work tree file into the object store and records it in indexMap. Files whose stat data
// matches their index entry are not re-read.
func stageFile(p string, indexMap map[string]types.IndexEntry) error {
	info, err := os.Lstat(p)
	if err != nil {
		return err
	}
	if existing, tracked := indexMap[p]; tracked {
		current := statEntry(info)
		if existing.SameStat(current) {
			return nil
		}
	}

	data, err := readWorkFile(p, info)
	if err != nil {
		return err
	}
	sha, err := WriteObject(types.BlobObject, data)
	if err != nil {
		return err
	}
	entry, err := IndexEntryFromFile(p, sha)
	if err != nil {
		return err
	}
	indexMap[entry.Filename] = entry
	return nil
}

// readWorkFile returns the blob content for a work tree path: the file bytes, or the link target for a symlink.
func readWorkFile(p string, info os.FileInfo) ([]byte, error) {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(p)
		return []byte(target), err
	}
	return os.ReadFile(p)
}

// AddPaths stages the given work tree paths. Directories are added recursively and "." adds the whole work tree;
// a directory argument also drops index entries below it whose files were deleted.
func AddPaths(paths []string) error {
	entries, err := LoadIndex()
	if err != nil {
		return err
	}
	indexMap := IndexToMap(entries)

	for _, arg := range paths {
		p, err := CleanWorkPath(arg)
		if err != nil {
			return err
		}

		info, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			if _, tracked := indexMap[p]; tracked {
				delete(indexMap, p)
				continue
			}
			return fmt.Errorf("pathspec %q did not match any files", arg)
		} else if err != nil {
			return err
		}

		if !info.IsDir() {
			if err := stageFile(p, indexMap); err != nil {
				return fmt.Errorf("add %s: %w", p, err)
			}
			continue
		}

		seen := map[string]bool{}
		err = walkWorkTree(func(file string) error {
			if p != "." && file != p && !strings.HasPrefix(file, p+"/") {
				return nil
			}
			seen[file] = true
			return stageFile(file, indexMap)
		})
		if err != nil {
			return fmt.Errorf("add %s: %w", p, err)
		}

		for name := range indexMap {
			if (p == "." || strings.HasPrefix(name, p+"/")) && !seen[name] {
				delete(indexMap, name)
			}
		}
	}

	return WriteIndex(MapToSortedIndex(indexMap))
}

// headTreeEntries returns the flattened blobs of the HEAD commit's tree, or an empty map on an unborn branch.
func headTreeEntries() (map[string]types.TreeEntry, error) {
	commitSHA, ok, err := CurrentCommit()
	if err != nil || !ok {
		return map[string]types.TreeEntry{}, err
	}
	commit, err := ReadCommit(commitSHA)
	if err != nil {
		return nil, err
	}
	flat, err := FlattenTree(commit.TreeSHA)
	if err != nil {
		return nil, err
	}
	for p, e := range flat {
		if e.Type == types.TreeObject {
			delete(flat, p)
		}
	}
	return flat, nil
}

// ComputeStatus compares HEAD with the index (staged changes) and the index with the work tree (unstaged changes).
func ComputeStatus() (*types.Status, error) {
	headInfo, err := ReadHEADInfo()
	if err != nil {
		return nil, err
	}
	entries, err := LoadIndex()
	if err != nil {
		return nil, err
	}
	headEntries, err := headTreeEntries()
	if err != nil {
		return nil, err
	}

	status := &types.Status{Branch: headInfo.Branch}
	indexMap := IndexToMap(entries)

	// HEAD vs index
	for _, ie := range entries {
		te, inHead := headEntries[ie.Filename]
		switch {
		case !inHead:
			status.Staged = append(status.Staged, types.StatusEntry{Path: ie.Filename, Kind: types.AddedStatus})
		case te.SHA != ie.SHA1 || te.Mode != ie.Mode:
			status.Staged = append(status.Staged, types.StatusEntry{Path: ie.Filename, Kind: types.ModifiedStatus})
		}
	}
	for p := range headEntries {
		if _, ok := indexMap[p]; !ok {
			status.Staged = append(status.Staged, types.StatusEntry{Path: p, Kind: types.DeletedStatus})
		}
	}

	// index vs work tree
	seen := map[string]bool{}
	err = walkWorkTree(func(p string) error {
		seen[p] = true
		ie, tracked := indexMap[p]
		if !tracked {
			status.Untracked = append(status.Untracked, p)
			return nil
		}

		info, err := os.Lstat(p)
		if err != nil {
			return err
		}
		if ie.SameStat(statEntry(info)) {
			return nil
		}
		data, err := readWorkFile(p, info)
		if err != nil {
			return err
		}
		if HashObject(types.BlobObject, data) != ie.SHA1 {
			status.Unstaged = append(status.Unstaged, types.StatusEntry{Path: p, Kind: types.ModifiedStatus})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, ie := range entries {
		if !seen[ie.Filename] {
			status.Unstaged = append(status.Unstaged, types.StatusEntry{Path: ie.Filename, Kind: types.DeletedStatus})
		}
	}

	byPath := func(a, b types.StatusEntry) int { return strings.Compare(a.Path, b.Path) }
	slices.SortFunc(status.Staged, byPath)
	slices.SortFunc(status.Unstaged, byPath)
	slices.Sort(status.Untracked)
	return status, nil
}

// writeBlobToWorkTree materializes a blob at p, creating parent directories.
func writeBlobToWorkTree(p string, rec types.TreeRecord) (types.IndexEntry, error) {
	if clean, err := CleanWorkPath(p); err != nil {
		return types.IndexEntry{}, err
	} else if clean != p {
		return types.IndexEntry{}, fmt.Errorf("%s: %w", p, ErrOutsideWorkTree)
	}

	_, content, err := ReadObject(hex.EncodeToString(rec.SHA[:]))
	if err != nil {
		return types.IndexEntry{}, fmt.Errorf("read blob for %s: %w", p, err)
	}
	if err := os.MkdirAll(filepath.Dir(filepath.FromSlash(p)), constants.DefaultDirPerm); err != nil {
		return types.IndexEntry{}, err
	}

	osPath := filepath.FromSlash(p)
	if err := os.Remove(osPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return types.IndexEntry{}, err
	}
	switch rec.Mode {
	case constants.ModeSymlink:
		err = os.Symlink(string(content), osPath)
	case constants.ModeExecutable:
		err = os.WriteFile(osPath, content, 0o755)
	default:
		err = os.WriteFile(osPath, content, constants.DefaultFilePerm)
	}
	if err != nil {
		return types.IndexEntry{}, fmt.Errorf("write %s: %w", p, err)
	}

	ie, err := IndexEntryFromFile(p, rec.SHA)
	if err != nil {
		return types.IndexEntry{}, err
	}
	ie.Mode = rec.Mode
	return ie, nil
}

// CheckoutTree makes the work tree and index match treeSHA. Tracked files absent from the target are removed;
// untracked files are left alone.
func CheckoutTree(treeSHA [20]byte) error {
	entries, err := LoadIndex()
	if err != nil {
		return err
	}
	target, err := FlattenTree(treeSHA)
	if err != nil {
		return err
	}

	if err := checkUntrackedOverwrite(entries, target); err != nil {
		return err
	}

	for _, ie := range entries {
		if te, ok := target[ie.Filename]; ok && te.Type == types.BlobObject {
			continue
		}
		if err := os.Remove(filepath.FromSlash(ie.Filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		removeEmptyParents(ie.Filename)
	}

	newIndex := make([]types.IndexEntry, 0, len(target))
	for p, te := range target {
		if te.Type != types.BlobObject {
			continue
		}
		ie, err := writeBlobToWorkTree(p, te.TreeRecord)
		if err != nil {
			return err
		}
		newIndex = append(newIndex, ie)
	}

	log.Debug("checked out tree %x (%d files)", treeSHA, len(newIndex))
	return WriteIndex(newIndex)
}

// checkUntrackedOverwrite fails if a blob of the target tree would land on a work tree file the index does
// not track.
func checkUntrackedOverwrite(entries []types.IndexEntry, target map[string]types.TreeEntry) error {
	tracked := IndexToMap(entries)

	var clobbered []string
	for p, te := range target {
		if te.Type != types.BlobObject {
			continue
		}
		if _, ok := tracked[p]; ok {
			continue
		}
		info, err := os.Lstat(filepath.FromSlash(p))
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			continue
		} else if err != nil {
			return err
		}
		if !info.IsDir() {
			clobbered = append(clobbered, p)
		}
	}
	if len(clobbered) == 0 {
		return nil
	}
	slices.Sort(clobbered)
	return fmt.Errorf("%w by checkout: %s", ErrWouldOverwrite, strings.Join(clobbered, ", "))
}

// removeEmptyParents deletes the now empty directories above a removed file.
func removeEmptyParents(p string) {
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if err := os.Remove(filepath.FromSlash(dir)); err != nil {
			return
		}
	}
}

// CheckoutPaths restores the given paths (files or directories) from treeSHA into the work tree and index.
func CheckoutPaths(treeSHA [20]byte, paths []string) error {
	entries, err := LoadIndex()
	if err != nil {
		return err
	}
	indexMap := IndexToMap(entries)

	for _, arg := range paths {
		p, err := CleanWorkPath(arg)
		if err != nil {
			return err
		}
		entry, err := ResolvePath(treeSHA, p)
		if err != nil {
			return err
		}

		if entry.Type == types.BlobObject {
			ie, err := writeBlobToWorkTree(p, entry.TreeRecord)
			if err != nil {
				return err
			}
			indexMap[p] = ie
			continue
		}

		err = WalkTree(entry.SHA, func(sub string, rec types.TreeRecord) error {
			if rec.Type != types.BlobObject {
				return nil
			}
			full := path.Join(entry.Name, sub)
			ie, err := writeBlobToWorkTree(full, rec)
			if err != nil {
				return err
			}
			indexMap[full] = ie
			return nil
		})
		if err != nil {
			return err
		}
	}

	return WriteIndex(MapToSortedIndex(indexMap))
}
