package dependencies_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitrepos/internal/execshell"
	"github.com/temirov/gitrepos/internal/gitrepo"
	"github.com/temirov/gitrepos/internal/repos/dependencies"
	"github.com/temirov/gitrepos/internal/repos/filesystem"
	"github.com/temirov/gitrepos/internal/repos/shared"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestResolveFileSystemDefaultsToOperatingSystem(testInstance *testing.T) {
	require.IsType(testInstance, filesystem.OSFileSystem{}, dependencies.ResolveFileSystem(nil))
}

func TestResolveGitExecutor(testInstance *testing.T) {
	existing := stubGitExecutor{}
	resolved, resolveError := dependencies.ResolveGitExecutor(existing, nil)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, existing, resolved)

	constructed, constructError := dependencies.ResolveGitExecutor(nil, zap.NewNop())
	require.NoError(testInstance, constructError)
	require.IsType(testInstance, &execshell.ShellExecutor{}, constructed)

	_, missingLoggerError := dependencies.ResolveGitExecutor(nil, nil)
	require.ErrorIs(testInstance, missingLoggerError, execshell.ErrLoggerNotConfigured)
}

func TestResolveRepositoryOpenerUsesGoGit(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	_, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testInstance, initError)

	opener := dependencies.ResolveRepositoryOpener(nil)

	repository, openError := opener.OpenRepository(repositoryPath)
	require.NoError(testInstance, openError)
	require.NotEmpty(testInstance, repository.CurrentBranch())

	_, missingError := opener.OpenRepository(filepath.Join(repositoryPath, "absent"))
	require.ErrorIs(testInstance, missingError, gitrepo.ErrRepositoryNotFound)
}

var _ shared.FileSystem = filesystem.OSFileSystem{}
