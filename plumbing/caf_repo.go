package plumbing

import (
	"fmt"
	"os"

	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/constants"
)

// RepoExists reports whether the current directory is the root of a work tree with a .caf directory.
func RepoExists() bool {
	info, err := os.Stat(utils.RepoPath("HEAD"))
	return err == nil && !info.IsDir()
}

// RequireRepo returns ErrNoRepository when there is no repository in the current directory.
func RequireRepo() error {
	if !RepoExists() {
		return ErrNoRepository
	}
	return nil
}

// InitRepo creates the .caf directory structure in the current directory. Re-running it on an existing repository
// recreates missing directories but keeps HEAD and config; the bool reports whether the repository already existed.
func InitRepo() (bool, error) {
	reinit := RepoExists()

	for _, p := range constants.Dir_paths {
		if err := os.MkdirAll(p, constants.DefaultDirPerm); err != nil {
			return reinit, err
		}
	}

	if !reinit {
		if err := os.WriteFile(utils.RepoPath("HEAD"), []byte(constants.Head), constants.DefaultFilePerm); err != nil {
			return reinit, err
		}
	}
	if _, err := os.Stat(configPath()); os.IsNotExist(err) {
		if err := os.WriteFile(configPath(), []byte(constants.Config), constants.DefaultFilePerm); err != nil {
			return reinit, fmt.Errorf("write config: %w", err)
		}
	}

	log.Debug("initialized repository (reinit=%t)", reinit)
	return reinit, nil
}
