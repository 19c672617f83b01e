package track

import (
	"strings"

	"github.com/temirov/gitrepos/internal/manifest"
	"github.com/temirov/gitrepos/internal/repos/shared"
)

const abbreviatedCommitLengthConstant = 7

// ResolutionKind distinguishes pinned entries from entries whose branch can track a remote.
type ResolutionKind int

const (
	// ResolutionTrackable marks an entry whose local branch should follow RemoteReference.
	ResolutionTrackable ResolutionKind = iota
	// ResolutionPinned marks an entry fixed to a commit or tag.
	ResolutionPinned
)

// Resolution is the tracking decision for a single manifest entry.
type Resolution struct {
	Kind            ResolutionKind
	Label           string
	RemoteReference string
}

// HasTarget reports whether a trackable resolution names a remote reference.
func (resolution Resolution) HasTarget() bool {
	return resolution.Kind == ResolutionTrackable && len(resolution.RemoteReference) > 0
}

// Resolve decides what the entry's local branch should track.
// Precedence is commit > tag > branch > defaultBranch > none.
func Resolve(entry manifest.RepositoryEntry, defaultBranch string) Resolution {
	reference := entry.Reference()
	switch reference.Kind {
	case manifest.ReferenceCommit:
		return Resolution{Kind: ResolutionPinned, Label: abbreviateCommit(reference.Value)}
	case manifest.ReferenceTag:
		return Resolution{Kind: ResolutionPinned, Label: reference.Value}
	case manifest.ReferenceBranch:
		return Resolution{Kind: ResolutionTrackable, RemoteReference: shared.RemoteBranchReference(reference.Value)}
	}

	trimmedDefaultBranch := strings.TrimSpace(defaultBranch)
	if len(trimmedDefaultBranch) == 0 {
		return Resolution{Kind: ResolutionTrackable}
	}
	return Resolution{Kind: ResolutionTrackable, RemoteReference: shared.RemoteBranchReference(trimmedDefaultBranch)}
}

func abbreviateCommit(commit string) string {
	if len(commit) <= abbreviatedCommitLengthConstant {
		return commit
	}
	return commit[:abbreviatedCommitLengthConstant]
}
