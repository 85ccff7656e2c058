//go:build unix

package plumbing

import (
	"os"
	"syscall"

	"github.com/brickster241/caf/utils/types"
)

func fillSysStat(ie *types.IndexEntry, info os.FileInfo) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	ie.Dev = uint32(stat.Dev)
	ie.Ino = uint32(stat.Ino)
	ie.Uid = stat.Uid
	ie.Gid = stat.Gid
}
