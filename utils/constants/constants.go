package constants

const (
	RepoDir         = ".caf"
	ModeFile        = 0o100644
	ModeExecutable  = 0o100755
	ModeSymlink     = 0o120000
	ModeTree        = 0o040000
	DefaultFilePerm = 0o644 // rw-r--r--
	DefaultDirPerm  = 0o755 // rwxr-xr-x
	DefaultBranch   = "master"
	Head            = "ref: refs/heads/" + DefaultBranch + "\n" // Default .caf/HEAD content
	Config          = `[core]
repositoryformatversion = 0
filemode = true
bare = false

[user]
name = username
email = user@email.com
` // Default .caf/config content
)

// Dir_paths lists the directories created by init, relative to the work tree.
var Dir_paths = []string{
	RepoDir,
	RepoDir + "/objects",
	RepoDir + "/refs",
	RepoDir + "/refs/heads",
	RepoDir + "/refs/tags",
}
