package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/gitrepos/internal/execshell"
)

const (
	// OriginRemoteNameConstant names the remote every tracked branch follows.
	OriginRemoteNameConstant = "origin"
	// RemoteReferenceSeparatorConstant joins a remote name and a branch name.
	RemoteReferenceSeparatorConstant = "/"
)

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	Getwd() (string, error)
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// OpenedRepository answers read-only questions about a working copy.
type OpenedRepository interface {
	CurrentBranch() string
}

// RepositoryOpener opens working copies for inspection.
type RepositoryOpener interface {
	OpenRepository(repositoryPath string) (OpenedRepository, error)
}

// RemoteBranchReference builds the origin-qualified name of a branch.
func RemoteBranchReference(branchName string) string {
	return OriginRemoteNameConstant + RemoteReferenceSeparatorConstant + branchName
}
