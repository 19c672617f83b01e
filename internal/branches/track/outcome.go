package track

import "fmt"

const (
	repositoryMissingLineTemplateConstant = "%s: repository doesn't exist"
	untrackedLineTemplateConstant         = "%s: %s untracked"
	noTargetLineTemplateConstant          = "%s: track failed, no remote branch configured!"
	trackedLineTemplateConstant           = "%s: %s -> %s"
	trackFailedLineTemplateConstant       = "%s: track failed, %s not found!"
)

// OutcomeKind enumerates the terminal states of a repository.
type OutcomeKind int

const (
	// OutcomeRepositoryMissing means the entry's directory is not a working copy.
	OutcomeRepositoryMissing OutcomeKind = iota
	// OutcomeUntracked means the entry is pinned to a commit or tag.
	OutcomeUntracked
	// OutcomeNoTarget means neither the entry nor the manifest names a branch.
	OutcomeNoTarget
	// OutcomeTracked means the upstream was set.
	OutcomeTracked
	// OutcomeTrackFailed means git refused to set the upstream.
	OutcomeTrackFailed
)

// RepositoryInfo identifies a manifest entry while it is processed.
type RepositoryInfo struct {
	Index     int
	LocalPath string
}

// Outcome is the single reported result for one manifest entry.
type Outcome struct {
	Repository      RepositoryInfo
	Kind            OutcomeKind
	LocalBranch     string
	Label           string
	RemoteReference string
	Cause           error
}

// Failed reports whether the outcome should be presented as a failure.
func (outcome Outcome) Failed() bool {
	switch outcome.Kind {
	case OutcomeRepositoryMissing, OutcomeNoTarget, OutcomeTrackFailed:
		return true
	default:
		return false
	}
}

// Line renders the outcome as a plain report line.
func (outcome Outcome) Line() string {
	localPath := outcome.Repository.LocalPath
	switch outcome.Kind {
	case OutcomeRepositoryMissing:
		return fmt.Sprintf(repositoryMissingLineTemplateConstant, localPath)
	case OutcomeUntracked:
		return fmt.Sprintf(untrackedLineTemplateConstant, localPath, outcome.Label)
	case OutcomeNoTarget:
		return fmt.Sprintf(noTargetLineTemplateConstant, localPath)
	case OutcomeTracked:
		return fmt.Sprintf(trackedLineTemplateConstant, localPath, outcome.LocalBranch, outcome.RemoteReference)
	default:
		return fmt.Sprintf(trackFailedLineTemplateConstant, localPath, outcome.RemoteReference)
	}
}
