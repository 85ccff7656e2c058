//go:build !unix

package plumbing

import (
	"os"

	"github.com/brickster241/caf/utils/types"
)

func fillSysStat(*types.IndexEntry, os.FileInfo) {}
