package plumbing

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
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

const (
	indexSignature  = "DIRC"
	indexVersion    = 2
	indexHeaderSize = 12
	indexEntryFixed = 62 // stat fields + sha + flags
	maxFlagsNameLen = 0xFFF
)

func indexPath() string {
	return utils.RepoPath("index")
}

// LoadIndex reads .caf/index. A missing index is an empty index.
func LoadIndex() ([]types.IndexEntry, error) {
	data, err := os.ReadFile(indexPath())
	if errors.Is(err, fs.ErrNotExist) {
		return []types.IndexEntry{}, nil
	} else if err != nil {
		return nil, err
	}

	if len(data) < indexHeaderSize+sha1.Size {
		return nil, fmt.Errorf("%w: file is too short", ErrCorruptIndex)
	}

	// Trailing checksum covers everything before it
	content := data[:len(data)-sha1.Size]
	sum := sha1.Sum(content)
	if !bytes.Equal(sum[:], data[len(content):]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptIndex)
	}

	if string(content[:4]) != indexSignature {
		return nil, fmt.Errorf("%w: invalid header", ErrCorruptIndex)
	}
	if version := binary.BigEndian.Uint32(content[4:8]); version != indexVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptIndex, version)
	}
	entryCount := binary.BigEndian.Uint32(content[8:12])

	entries := make([]types.IndexEntry, 0, entryCount)
	offset := indexHeaderSize

	for i := uint32(0); i < entryCount; i++ {
		entryStart := offset
		if offset+indexEntryFixed > len(content) {
			return nil, fmt.Errorf("%w: truncated entry %d", ErrCorruptIndex, i)
		}

		var fields [10]uint32
		for f := range fields {
			fields[f] = binary.BigEndian.Uint32(content[offset:])
			offset += 4
		}
		ie := types.IndexEntry{
			Ctime: fields[0], CtimeNs: fields[1],
			Mtime: fields[2], MtimeNs: fields[3],
			Dev: fields[4], Ino: fields[5],
			Mode: fields[6], Uid: fields[7], Gid: fields[8],
			FileSize: fields[9],
		}
		copy(ie.SHA1[:], content[offset:offset+20])
		offset += 20
		ie.Flags = binary.BigEndian.Uint16(content[offset:])
		offset += 2

		nameLen := bytes.IndexByte(content[offset:], 0)
		if nameLen == -1 {
			return nil, fmt.Errorf("%w: unterminated filename", ErrCorruptIndex)
		}
		ie.Filename = string(content[offset : offset+nameLen])
		offset += nameLen + 1

		// Entries are padded to a multiple of 8 bytes from the entry start
		offset = entryStart + padded(offset-entryStart)
		entries = append(entries, ie)
	}

	return entries, nil
}

func padded(n int) int {
	return (n + 7) &^ 7
}

// WriteIndex sorts entries by filename and writes them to .caf/index followed by a SHA-1 checksum.
func WriteIndex(entries []types.IndexEntry) error {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b types.IndexEntry) int {
		return strings.Compare(a.Filename, b.Filename)
	})

	buffer := []byte(indexSignature)
	buffer = binary.BigEndian.AppendUint32(buffer, indexVersion)
	buffer = binary.BigEndian.AppendUint32(buffer, uint32(len(sorted)))

	for _, entry := range sorted {
		entryStart := len(buffer)

		for _, v := range []uint32{
			entry.Ctime, entry.CtimeNs, entry.Mtime, entry.MtimeNs, entry.Dev,
			entry.Ino, entry.Mode, entry.Uid, entry.Gid, entry.FileSize,
		} {
			buffer = binary.BigEndian.AppendUint32(buffer, v)
		}
		buffer = append(buffer, entry.SHA1[:]...)

		// Flags only have 12 bits for the name length; longer names store the maximum
		buffer = binary.BigEndian.AppendUint16(buffer, uint16(min(len(entry.Filename), maxFlagsNameLen)))

		buffer = append(buffer, entry.Filename...)
		buffer = append(buffer, 0x00)

		buffer = append(buffer, make([]byte, padded(len(buffer)-entryStart)-(len(buffer)-entryStart))...)
	}

	hash := sha1.Sum(buffer)
	buffer = append(buffer, hash[:]...)

	if err := writeFileAtomic(indexPath(), buffer); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	log.Debug("wrote index with %d entries", len(sorted))
	return nil
}

// IndexToMap converts entries to map for fast lookup
func IndexToMap(entries []types.IndexEntry) map[string]types.IndexEntry {
	indexMap := make(map[string]types.IndexEntry, len(entries))
	for _, e := range entries {
		indexMap[e.Filename] = e
	}
	return indexMap
}

// MapToSortedIndex converts an index map back into a slice sorted by filename.
func MapToSortedIndex(indexMap map[string]types.IndexEntry) []types.IndexEntry {
	entries := make([]types.IndexEntry, 0, len(indexMap))
	for _, entry := range indexMap {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b types.IndexEntry) int {
		return strings.Compare(a.Filename, b.Filename)
	})
	return entries
}

// IndexEntryFromFile creates an index entry for a work tree file from its current stat data.
func IndexEntryFromFile(p string, sha [20]byte) (types.IndexEntry, error) {
	cleanPath, err := CleanWorkPath(p)
	if err != nil {
		return types.IndexEntry{}, err
	}

	info, err := os.Lstat(cleanPath)
	if err != nil {
		return types.IndexEntry{}, err
	}
	if info.IsDir() {
		return types.IndexEntry{}, fmt.Errorf("%s: is a directory", cleanPath)
	}

	ie := statEntry(info)
	ie.SHA1 = sha
	ie.Filename = cleanPath
	return ie, nil
}

// statEntry fills the stat fields of an index entry from portable os.FileInfo data. Device and inode numbers are
// filled in by platform specific code where available.
func statEntry(info os.FileInfo) types.IndexEntry {
	mtime := info.ModTime()
	mode := uint32(constants.ModeFile)
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		mode = constants.ModeSymlink
	case info.Mode().Perm()&0o111 != 0:
		mode = constants.ModeExecutable
	}

	ie := types.IndexEntry{
		Ctime:    uint32(mtime.Unix()),
		CtimeNs:  uint32(mtime.Nanosecond()),
		Mtime:    uint32(mtime.Unix()),
		MtimeNs:  uint32(mtime.Nanosecond()),
		Mode:     mode,
		FileSize: uint32(info.Size()),
	}
	fillSysStat(&ie, info)
	return ie
}

// CleanWorkPath normalizes a user supplied path to the slash separated, work tree relative form stored in the
// index and in trees.
func CleanWorkPath(p string) (string, error) {
	cleanPath := filepath.Clean(p)
	if filepath.IsAbs(cleanPath) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(wd, cleanPath)
		if err != nil {
			return "", err
		}
		cleanPath = rel
	}
	cleanPath = filepath.ToSlash(cleanPath)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, "../") {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideWorkTree)
	}
	if cleanPath == "." {
		return cleanPath, nil
	}
	for name := range strings.SplitSeq(cleanPath, "/") {
		if strings.EqualFold(name, constants.RepoDir) {
			return "", fmt.Errorf("%s: %w", p, ErrInsideRepoDir)
		}
		if !validEntryName(name) {
			return "", fmt.Errorf("%s: %w %q", p, ErrInvalidEntryName, name)
		}
	}
	return cleanPath, nil
}
