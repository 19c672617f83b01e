package track

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitrepos/internal/execshell"
	"github.com/temirov/gitrepos/internal/manifest"
	"github.com/temirov/gitrepos/internal/repos/shared"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	repositoryOpenerMissingMessageConstant      = "repository opener not configured"
	gitBranchSubcommandConstant                 = "branch"
	gitSetUpstreamFlagConstant                  = "--set-upstream-to"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	currentBranchMessageTemplateConstant        = "current branch %q"
	detachedHeadMessageConstant                 = "HEAD is detached"
	trackingTargetMessageTemplateConstant       = "tracking %s"
	logFieldRepositoryConstant                  = "repository"
	logFieldRemoteReferenceConstant             = "remote_reference"
	logFieldOutcomeConstant                     = "outcome"
	logFieldTotalConstant                       = "total"
	logFieldJobsConstant                        = "jobs"
	repositoryMissingLogMessageConstant         = "repository could not be opened"
	trackFailedLogMessageConstant               = "unable to set upstream"
	repositoryProcessedLogMessageConstant       = "repository processed"
	batchStartedLogMessageConstant              = "tracking repositories"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryOpenerNotConfigured indicates the repository opener dependency was missing.
var ErrRepositoryOpenerNotConfigured = errors.New(repositoryOpenerMissingMessageConstant)

// Dependencies enumerates external collaborators required for tracking.
type Dependencies struct {
	GitExecutor      shared.GitExecutor
	RepositoryOpener shared.RepositoryOpener
	Logger           *zap.Logger
}

// Options configures a tracking batch.
type Options struct {
	RootPath string
	Manifest manifest.Manifest
	Progress Progress
	Jobs     int
}

// Service sets upstream branches for every manifest entry.
type Service struct {
	executor shared.GitExecutor
	opener   shared.RepositoryOpener
	logger   *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.RepositoryOpener == nil {
		return nil, ErrRepositoryOpenerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{executor: dependencies.GitExecutor, opener: dependencies.RepositoryOpener, logger: logger}, nil
}

// Track processes every manifest entry and returns their outcomes in manifest order.
// Per-repository failures are reported as outcomes and never stop the batch.
func (service *Service) Track(executionContext context.Context, options Options) []Outcome {
	progress := options.Progress
	if progress == nil {
		progress = NoopProgress{}
	}
	if options.Jobs > 1 {
		progress = NewOrderedProgress(progress)
	}

	entries := options.Manifest.Repositories
	outcomes := make([]Outcome, len(entries))

	service.logger.Debug(batchStartedLogMessageConstant, zap.Int(logFieldTotalConstant, len(entries)), zap.Int(logFieldJobsConstant, options.Jobs))
	progress.RepositoriesStarted(len(entries))

	if options.Jobs <= 1 {
		for entryIndex, entry := range entries {
			outcomes[entryIndex] = service.trackRepository(executionContext, options.RootPath, entryIndex, entry, options.Manifest.DefaultBranch, progress)
		}
	} else {
		var workerGroup errgroup.Group
		workerGroup.SetLimit(options.Jobs)
		for entryIndex, entry := range entries {
			workerGroup.Go(func() error {
				outcomes[entryIndex] = service.trackRepository(executionContext, options.RootPath, entryIndex, entry, options.Manifest.DefaultBranch, progress)
				return nil
			})
		}
		_ = workerGroup.Wait()
	}

	progress.RepositoriesCompleted()
	return outcomes
}

// TrackRepository runs the tracking workflow for a single entry without reporting progress.
func (service *Service) TrackRepository(executionContext context.Context, rootPath string, index int, entry manifest.RepositoryEntry, defaultBranch string) Outcome {
	return service.trackRepository(executionContext, rootPath, index, entry, defaultBranch, NoopProgress{})
}

func (service *Service) trackRepository(executionContext context.Context, rootPath string, index int, entry manifest.RepositoryEntry, defaultBranch string, progress Progress) Outcome {
	info := RepositoryInfo{Index: index, LocalPath: filepath.ToSlash(entry.Local)}
	progress.RepositoryStarted(info)

	outcome := service.resolveOutcome(executionContext, resolveRepositoryPath(rootPath, entry.Local), info, entry, defaultBranch, progress)

	service.logger.Debug(repositoryProcessedLogMessageConstant, zap.String(logFieldRepositoryConstant, info.LocalPath), zap.String(logFieldOutcomeConstant, outcome.Line()))
	if outcome.Failed() {
		progress.RepositoryFailed(info, outcome)
	} else {
		progress.RepositoryCompleted(info, outcome)
	}
	return outcome
}

func (service *Service) resolveOutcome(executionContext context.Context, repositoryPath string, info RepositoryInfo, entry manifest.RepositoryEntry, defaultBranch string, progress Progress) Outcome {
	repository, openError := service.opener.OpenRepository(repositoryPath)
	if openError != nil {
		service.logger.Debug(repositoryMissingLogMessageConstant, zap.String(logFieldRepositoryConstant, repositoryPath), zap.Error(openError))
		return Outcome{Repository: info, Kind: OutcomeRepositoryMissing, Cause: openError}
	}

	localBranch := repository.CurrentBranch()
	if len(localBranch) == 0 {
		progress.RepositoryInfo(info, detachedHeadMessageConstant)
	} else {
		progress.RepositoryInfo(info, fmt.Sprintf(currentBranchMessageTemplateConstant, localBranch))
	}

	resolution := Resolve(entry, defaultBranch)
	if resolution.Kind == ResolutionPinned {
		return Outcome{Repository: info, Kind: OutcomeUntracked, LocalBranch: localBranch, Label: resolution.Label}
	}
	if !resolution.HasTarget() {
		return Outcome{Repository: info, Kind: OutcomeNoTarget, LocalBranch: localBranch}
	}

	progress.RepositoryInfo(info, fmt.Sprintf(trackingTargetMessageTemplateConstant, resolution.RemoteReference))
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitSetUpstreamFlagConstant, resolution.RemoteReference},
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		service.logger.Debug(trackFailedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldRemoteReferenceConstant, resolution.RemoteReference),
			zap.Error(executionError),
		)
		return Outcome{Repository: info, Kind: OutcomeTrackFailed, LocalBranch: localBranch, RemoteReference: resolution.RemoteReference, Cause: executionError}
	}

	return Outcome{Repository: info, Kind: OutcomeTracked, LocalBranch: localBranch, RemoteReference: resolution.RemoteReference}
}

func resolveRepositoryPath(rootPath string, localPath string) string {
	trimmedLocalPath := strings.TrimSpace(localPath)
	if filepath.IsAbs(trimmedLocalPath) {
		return filepath.Clean(trimmedLocalPath)
	}
	return filepath.Join(rootPath, filepath.FromSlash(trimmedLocalPath))
}
