package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/temirov/gitrepos/internal/branches/track"
	"github.com/temirov/gitrepos/internal/utils"
)

const (
	pathSeparatorTextConstant          = ": "
	untrackedSuffixTextConstant        = " untracked"
	trackedArrowTextConstant           = " -> "
	repositoryMissingTextConstant      = "repository doesn't exist"
	noTargetTextConstant               = "track failed, no remote branch configured!"
	trackFailedPrefixTextConstant      = "track failed,"
	trackFailedSuffixTextConstant      = "not found!"
	spaceTextConstant                  = " "
	repositoryStartedLogMessage        = "processing repository"
	repositoryInfoLogMessage           = "repository status"
	repositoriesCompletedLogMessage    = "tracking finished"
	logFieldRepositoryConstant         = "repository"
	logFieldIndexConstant              = "index"
	logFieldDetailConstant             = "detail"
	logFieldFailedRepositoriesConstant = "failed_repositories"
)

// ConsoleProgress renders tracking outcomes as styled report lines.
type ConsoleProgress struct {
	writer             io.Writer
	logger             *zap.Logger
	theme              Theme
	failedRepositories int
}

// NewConsoleProgress constructs a ConsoleProgress whose styles adapt to output.
func NewConsoleProgress(output io.Writer, logger *zap.Logger) *ConsoleProgress {
	if output == nil {
		output = io.Discard
	}
	return NewConsoleProgressWithTheme(output, logger, NewTheme(lipgloss.NewRenderer(output)))
}

// NewConsoleProgressWithTheme constructs a ConsoleProgress with explicit styles.
func NewConsoleProgressWithTheme(output io.Writer, logger *zap.Logger, theme Theme) *ConsoleProgress {
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleProgress{writer: utils.NewFlushingWriter(output), logger: logger, theme: theme}
}

// RepositoriesStarted prints the report header.
func (progress *ConsoleProgress) RepositoriesStarted(int) {
	progress.failedRepositories = 0
	fmt.Fprintln(progress.writer, progress.theme.Header.Render(track.ReportHeaderConstant))
}

// RepositoriesCompleted logs the batch summary.
func (progress *ConsoleProgress) RepositoriesCompleted() {
	progress.logger.Debug(repositoriesCompletedLogMessage, zap.Int(logFieldFailedRepositoriesConstant, progress.failedRepositories))
}

// RepositoryStarted logs the repository being processed.
func (progress *ConsoleProgress) RepositoryStarted(info track.RepositoryInfo) {
	progress.logger.Debug(repositoryStartedLogMessage, zap.String(logFieldRepositoryConstant, info.LocalPath), zap.Int(logFieldIndexConstant, info.Index))
}

// RepositoryInfo logs intermediate repository details.
func (progress *ConsoleProgress) RepositoryInfo(info track.RepositoryInfo, message string) {
	progress.logger.Debug(repositoryInfoLogMessage, zap.String(logFieldRepositoryConstant, info.LocalPath), zap.String(logFieldDetailConstant, message))
}

// RepositoryCompleted prints the outcome line.
func (progress *ConsoleProgress) RepositoryCompleted(_ track.RepositoryInfo, outcome track.Outcome) {
	progress.writeOutcome(outcome)
}

// RepositoryFailed prints the outcome line.
func (progress *ConsoleProgress) RepositoryFailed(_ track.RepositoryInfo, outcome track.Outcome) {
	progress.failedRepositories++
	progress.writeOutcome(outcome)
}

func (progress *ConsoleProgress) writeOutcome(outcome track.Outcome) {
	fmt.Fprintln(progress.writer, track.ReportLineIndentConstant+progress.renderOutcome(outcome))
}

func (progress *ConsoleProgress) renderOutcome(outcome track.Outcome) string {
	var builder strings.Builder
	builder.WriteString(progress.theme.Path.Render(outcome.Repository.LocalPath))
	builder.WriteString(pathSeparatorTextConstant)

	switch outcome.Kind {
	case track.OutcomeRepositoryMissing:
		builder.WriteString(progress.theme.Failure.Render(repositoryMissingTextConstant))
	case track.OutcomeUntracked:
		builder.WriteString(progress.theme.Reference.Render(outcome.Label))
		builder.WriteString(progress.theme.Muted.Render(untrackedSuffixTextConstant))
	case track.OutcomeNoTarget:
		builder.WriteString(progress.theme.Failure.Render(noTargetTextConstant))
	case track.OutcomeTracked:
		builder.WriteString(progress.renderReference(outcome.LocalBranch))
		builder.WriteString(trackedArrowTextConstant)
		builder.WriteString(progress.renderReference(outcome.RemoteReference))
	default:
		builder.WriteString(progress.theme.Failure.Render(trackFailedPrefixTextConstant))
		builder.WriteString(spaceTextConstant)
		builder.WriteString(progress.renderReference(outcome.RemoteReference))
		builder.WriteString(spaceTextConstant)
		builder.WriteString(progress.theme.Failure.Render(trackFailedSuffixTextConstant))
	}

	return builder.String()
}

func (progress *ConsoleProgress) renderReference(reference string) string {
	if len(reference) == 0 {
		return reference
	}
	return progress.theme.Reference.Render(reference)
}
