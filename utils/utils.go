package utils

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/brickster241/caf/utils/constants"
)

// RepoPath joins parts below the .caf directory of the current work tree.
func RepoPath(parts ...string) string {
	return filepath.Join(append([]string{constants.RepoDir}, parts...)...)
}

// ParseModeStr parses an octal tree mode ("100644", "40000", "040000") and rejects anything a tree may not hold.
func ParseModeStr(mode string) (uint32, error) {
	m, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", mode, err)
	}
	switch m {
	case constants.ModeFile, constants.ModeExecutable, constants.ModeSymlink, constants.ModeTree:
		return uint32(m), nil
	}
	return 0, fmt.Errorf("unsupported mode %q", mode)
}

// ModeString formats a mode the way ls-tree prints it (zero padded to six digits).
func ModeString(mode uint32) string {
	return fmt.Sprintf("%06o", mode)
}

// ParseSHA decodes a 40 character hex object id.
func ParseSHA(shaHex string) ([20]byte, error) {
	var sha [20]byte
	if len(shaHex) != 40 {
		return sha, fmt.Errorf("invalid SHA length %d", len(shaHex))
	}
	b, err := hex.DecodeString(shaHex)
	if err != nil {
		return sha, fmt.Errorf("invalid SHA %q: %w", shaHex, err)
	}
	copy(sha[:], b)
	return sha, nil
}
