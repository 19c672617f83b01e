package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/gitrepos/internal/execshell"
	"github.com/temirov/gitrepos/internal/gitrepo"
	"github.com/temirov/gitrepos/internal/repos/filesystem"
	"github.com/temirov/gitrepos/internal/repos/shared"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observers ...execshell.CommandEventObserver) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryOpener returns the provided opener or a go-git backed default.
func ResolveRepositoryOpener(existing shared.RepositoryOpener) shared.RepositoryOpener {
	if existing != nil {
		return existing
	}
	return gitRepositoryOpener{inspector: gitrepo.NewInspector()}
}

type gitRepositoryOpener struct {
	inspector *gitrepo.Inspector
}

func (opener gitRepositoryOpener) OpenRepository(repositoryPath string) (shared.OpenedRepository, error) {
	repository, openError := opener.inspector.Open(repositoryPath)
	if openError != nil {
		return nil, openError
	}
	return repository, nil
}
