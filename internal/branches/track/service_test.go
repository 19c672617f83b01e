package track_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitrepos/internal/branches/track"
	"github.com/temirov/gitrepos/internal/execshell"
	"github.com/temirov/gitrepos/internal/gitrepo"
	"github.com/temirov/gitrepos/internal/manifest"
	"github.com/temirov/gitrepos/internal/repos/shared"
)

const (
	testRootPathConstant   = "/workspace"
	testRemoteURLConstant  = "https://example.com/repo.git"
	testMissingRefConstant = "origin/gone"
)

type recordingGitExecutor struct {
	mutex            sync.Mutex
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.recordedCommands = append(executor.recordedCommands, details)
	if len(details.Arguments) > 0 {
		if failure, failing := executor.failures[details.Arguments[len(details.Arguments)-1]]; failing {
			return execshell.ExecutionResult{}, failure
		}
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *recordingGitExecutor) commands() []execshell.CommandDetails {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	return append([]execshell.CommandDetails(nil), executor.recordedCommands...)
}

type stubRepository struct {
	branch string
}

func (repository stubRepository) CurrentBranch() string {
	return repository.branch
}

type stubRepositoryOpener struct {
	branches map[string]string
}

func (opener stubRepositoryOpener) OpenRepository(repositoryPath string) (shared.OpenedRepository, error) {
	branch, exists := opener.branches[repositoryPath]
	if !exists {
		return nil, gitrepo.RepositoryOpenError{Path: repositoryPath, Cause: gitrepo.ErrRepositoryNotFound}
	}
	return stubRepository{branch: branch}, nil
}

type recordingProgress struct {
	mutex  sync.Mutex
	events []string
}

func (progress *recordingProgress) record(event string) {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	progress.events = append(progress.events, event)
}

func (progress *recordingProgress) RepositoriesStarted(total int) {
	progress.record(fmt.Sprintf("batch_start %d", total))
}

func (progress *recordingProgress) RepositoriesCompleted() {
	progress.record("batch_end")
}

func (progress *recordingProgress) RepositoryStarted(info track.RepositoryInfo) {
	progress.record("start " + info.LocalPath)
}

func (progress *recordingProgress) RepositoryInfo(info track.RepositoryInfo, message string) {
	progress.record("info " + info.LocalPath + " " + message)
}

func (progress *recordingProgress) RepositoryCompleted(_ track.RepositoryInfo, outcome track.Outcome) {
	progress.record("end " + outcome.Line())
}

func (progress *recordingProgress) RepositoryFailed(_ track.RepositoryInfo, outcome track.Outcome) {
	progress.record("error " + outcome.Line())
}

func (progress *recordingProgress) terminalEvents() []string {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	var terminal []string
	for _, event := range progress.events {
		if strings.HasPrefix(event, "end ") || strings.HasPrefix(event, "error ") {
			terminal = append(terminal, event)
		}
	}
	return terminal
}

func repositoryPath(local string) string {
	return filepath.Join(testRootPathConstant, local)
}

func newTestService(testInstance *testing.T, executor *recordingGitExecutor, opener stubRepositoryOpener) *track.Service {
	testInstance.Helper()
	service, serviceError := track.NewService(track.Dependencies{GitExecutor: executor, RepositoryOpener: opener})
	require.NoError(testInstance, serviceError)
	return service
}

func outcomeLines(outcomes []track.Outcome) []string {
	lines := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		lines = append(lines, outcome.Line())
	}
	return lines
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  track.Dependencies
		expectedError error
	}{
		{
			name:          "missing_executor",
			dependencies:  track.Dependencies{RepositoryOpener: stubRepositoryOpener{}},
			expectedError: track.ErrGitExecutorNotConfigured,
		},
		{
			name:          "missing_opener",
			dependencies:  track.Dependencies{GitExecutor: &recordingGitExecutor{}},
			expectedError: track.ErrRepositoryOpenerNotConfigured,
		},
		{
			name:         "complete",
			dependencies: track.Dependencies{GitExecutor: &recordingGitExecutor{}, RepositoryOpener: stubRepositoryOpener{}},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, serviceError := track.NewService(testCase.dependencies)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, serviceError, testCase.expectedError)
				require.Nil(testInstance, service)
				return
			}
			require.NoError(testInstance, serviceError)
			require.NotNil(testInstance, service)
		})
	}
}

func TestTrackReportsEveryEntryDespiteMissingRepository(testInstance *testing.T) {
	executor := &recordingGitExecutor{}
	opener := stubRepositoryOpener{branches: map[string]string{
		repositoryPath("alpha"): "develop",
		repositoryPath("gamma"): "main",
		repositoryPath("delta"): "main",
	}}
	service := newTestService(testInstance, executor, opener)

	outcomes := service.Track(context.Background(), track.Options{
		RootPath: testRootPathConstant,
		Manifest: manifest.Manifest{
			DefaultBranch: "main",
			Repositories: []manifest.RepositoryEntry{
				{Local: "alpha", Remote: testRemoteURLConstant, Branch: "develop"},
				{Local: "beta", Remote: testRemoteURLConstant},
				{Local: "gamma", Remote: testRemoteURLConstant, Tag: "v1.0"},
				{Local: "delta", Remote: testRemoteURLConstant},
			},
		},
	})

	require.Equal(testInstance, []string{
		"alpha: develop -> origin/develop",
		"beta: repository doesn't exist",
		"gamma: v1.0 untracked",
		"delta: main -> origin/main",
	}, outcomeLines(outcomes))
	require.ErrorIs(testInstance, outcomes[1].Cause, gitrepo.ErrRepositoryNotFound)

	commands := executor.commands()
	require.Len(testInstance, commands, 2)
	require.Equal(testInstance, []string{"branch", "--set-upstream-to", "origin/develop"}, commands[0].Arguments)
	require.Equal(testInstance, repositoryPath("alpha"), commands[0].WorkingDirectory)
	require.Equal(testInstance, "0", commands[0].EnvironmentVariables["GIT_TERMINAL_PROMPT"])
	require.Equal(testInstance, repositoryPath("delta"), commands[1].WorkingDirectory)
}

func TestTrackNeverRunsGitForPinnedEntries(testInstance *testing.T) {
	testCases := []struct {
		name         string
		entry        manifest.RepositoryEntry
		expectedLine string
	}{
		{
			name:         "tag",
			entry:        manifest.RepositoryEntry{Local: "pinned", Remote: testRemoteURLConstant, Tag: "v1.0"},
			expectedLine: "pinned: v1.0 untracked",
		},
		{
			name:         "commit_and_branch",
			entry:        manifest.RepositoryEntry{Local: "pinned", Remote: testRemoteURLConstant, Commit: testCommitHashConstant, Branch: "develop"},
			expectedLine: "pinned: abcdef1 untracked",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{}
			service := newTestService(testInstance, executor, stubRepositoryOpener{branches: map[string]string{repositoryPath("pinned"): ""}})

			outcome := service.TrackRepository(context.Background(), testRootPathConstant, 0, testCase.entry, "main")

			require.Equal(testInstance, track.OutcomeUntracked, outcome.Kind)
			require.Equal(testInstance, testCase.expectedLine, outcome.Line())
			require.Contains(testInstance, outcome.Line(), "untracked")
			require.False(testInstance, outcome.Failed())
			require.Empty(testInstance, executor.commands())
		})
	}
}

func TestTrackReportsFailedUpstreamAndContinues(testInstance *testing.T) {
	upstreamFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: the requested upstream branch 'origin/gone' does not exist"},
	}
	executor := &recordingGitExecutor{failures: map[string]error{testMissingRefConstant: upstreamFailure}}
	opener := stubRepositoryOpener{branches: map[string]string{
		repositoryPath("broken"):  "gone",
		repositoryPath("healthy"): "main",
	}}
	service := newTestService(testInstance, executor, opener)

	outcomes := service.Track(context.Background(), track.Options{
		RootPath: testRootPathConstant,
		Manifest: manifest.Manifest{
			DefaultBranch: "main",
			Repositories: []manifest.RepositoryEntry{
				{Local: "broken", Remote: testRemoteURLConstant, Branch: "gone"},
				{Local: "healthy", Remote: testRemoteURLConstant},
			},
		},
	})

	require.Len(testInstance, outcomes, 2)
	require.Equal(testInstance, track.OutcomeTrackFailed, outcomes[0].Kind)
	require.Contains(testInstance, outcomes[0].Line(), "track failed")
	require.Contains(testInstance, outcomes[0].Line(), testMissingRefConstant)
	require.ErrorAs(testInstance, outcomes[0].Cause, &execshell.CommandFailedError{})
	require.Equal(testInstance, "healthy: main -> origin/main", outcomes[1].Line())
}

func TestTrackReportsMissingTargetWithoutRunningGit(testInstance *testing.T) {
	executor := &recordingGitExecutor{}
	service := newTestService(testInstance, executor, stubRepositoryOpener{branches: map[string]string{repositoryPath("orphan"): "main"}})

	outcome := service.TrackRepository(context.Background(), testRootPathConstant, 0, manifest.RepositoryEntry{Local: "orphan", Remote: testRemoteURLConstant}, "")

	require.Equal(testInstance, track.OutcomeNoTarget, outcome.Kind)
	require.Equal(testInstance, "orphan: track failed, no remote branch configured!", outcome.Line())
	require.True(testInstance, outcome.Failed())
	require.Empty(testInstance, executor.commands())
}

func TestTrackIsIdempotent(testInstance *testing.T) {
	executor := &recordingGitExecutor{}
	service := newTestService(testInstance, executor, stubRepositoryOpener{branches: map[string]string{repositoryPath("alpha"): "main"}})
	options := track.Options{
		RootPath: testRootPathConstant,
		Manifest: manifest.Manifest{
			DefaultBranch: "main",
			Repositories:  []manifest.RepositoryEntry{{Local: "alpha", Remote: testRemoteURLConstant}},
		},
	}

	firstRun := outcomeLines(service.Track(context.Background(), options))
	secondRun := outcomeLines(service.Track(context.Background(), options))

	require.Equal(testInstance, firstRun, secondRun)
	require.Equal(testInstance, []string{"alpha: main -> origin/main"}, secondRun)
	require.Len(testInstance, executor.commands(), 2)
}

func TestTrackReportsDetachedHeadAsBlankBranch(testInstance *testing.T) {
	service := newTestService(testInstance, &recordingGitExecutor{}, stubRepositoryOpener{branches: map[string]string{repositoryPath("detached"): ""}})
	progress := &recordingProgress{}

	outcomes := service.Track(context.Background(), track.Options{
		RootPath: testRootPathConstant,
		Manifest: manifest.Manifest{Repositories: []manifest.RepositoryEntry{{Local: "detached", Remote: testRemoteURLConstant, Branch: "main"}}},
		Progress: progress,
	})

	require.Equal(testInstance, "detached:  -> origin/main", outcomes[0].Line())
	require.Equal(testInstance, []string{
		"batch_start 1",
		"start detached",
		"info detached HEAD is detached",
		"info detached tracking origin/main",
		"end detached:  -> origin/main",
		"batch_end",
	}, progress.events)
}

func TestTrackRoutesFailuresToProgress(testInstance *testing.T) {
	service := newTestService(testInstance, &recordingGitExecutor{}, stubRepositoryOpener{branches: map[string]string{repositoryPath("present"): "main"}})
	progress := &recordingProgress{}

	service.Track(context.Background(), track.Options{
		RootPath: testRootPathConstant,
		Manifest: manifest.Manifest{Repositories: []manifest.RepositoryEntry{
			{Local: "absent", Remote: testRemoteURLConstant},
			{Local: "present", Remote: testRemoteURLConstant, Branch: "main"},
		}},
		Progress: progress,
	})

	require.Equal(testInstance, []string{
		"error absent: repository doesn't exist",
		"end present: main -> origin/main",
	}, progress.terminalEvents())
}

func TestTrackInParallelPreservesManifestOrder(testInstance *testing.T) {
	const entryCount = 24
	branches := make(map[string]string, entryCount)
	entries := make([]manifest.RepositoryEntry, 0, entryCount)
	expectedLines := make([]string, 0, entryCount)
	for entryIndex := 0; entryIndex < entryCount; entryIndex++ {
		local := fmt.Sprintf("repo-%02d", entryIndex)
		entries = append(entries, manifest.RepositoryEntry{Local: local, Remote: testRemoteURLConstant})
		if entryIndex%5 == 3 {
			expectedLines = append(expectedLines, local+": repository doesn't exist")
			continue
		}
		branches[repositoryPath(local)] = "main"
		expectedLines = append(expectedLines, local+": main -> origin/main")
	}

	executor := &recordingGitExecutor{}
	observerCore, observerLogs := observer.New(zap.DebugLevel)
	service, serviceError := track.NewService(track.Dependencies{
		GitExecutor:      executor,
		RepositoryOpener: stubRepositoryOpener{branches: branches},
		Logger:           zap.New(observerCore),
	})
	require.NoError(testInstance, serviceError)
	progress := &recordingProgress{}

	outcomes := service.Track(context.Background(), track.Options{
		RootPath: testRootPathConstant,
		Manifest: manifest.Manifest{DefaultBranch: "main", Repositories: entries},
		Progress: progress,
		Jobs:     4,
	})

	require.Equal(testInstance, expectedLines, outcomeLines(outcomes))
	terminalEvents := progress.terminalEvents()
	require.Len(testInstance, terminalEvents, entryCount)
	for entryIndex, line := range expectedLines {
		require.Contains(testInstance, terminalEvents[entryIndex], line)
	}
	require.Equal(testInstance, "batch_start 24", progress.events[0])
	require.Equal(testInstance, "batch_end", progress.events[len(progress.events)-1])
	require.Len(testInstance, executor.commands(), len(branches))
	require.Equal(testInstance, entryCount, observerLogs.FilterMessage("repository processed").Len())
}
