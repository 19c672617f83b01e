package track_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitrepos/internal/branches/track"
	"github.com/temirov/gitrepos/internal/manifest"
)

const (
	testCommitHashConstant    = "abcdef1234567890"
	testCommitLabelConstant   = "abcdef1"
	testTagConstant           = "v1.0"
	testBranchConstant        = "develop"
	testDefaultBranchConstant = "main"
)

func TestResolveCoversEveryPresenceCombination(testInstance *testing.T) {
	for _, commitPresent := range []bool{false, true} {
		for _, tagPresent := range []bool{false, true} {
			for _, branchPresent := range []bool{false, true} {
				for _, defaultPresent := range []bool{false, true} {
					entry := manifest.RepositoryEntry{Local: "repo", Remote: "https://example.com/repo.git"}
					defaultBranch := ""
					if commitPresent {
						entry.Commit = testCommitHashConstant
					}
					if tagPresent {
						entry.Tag = testTagConstant
					}
					if branchPresent {
						entry.Branch = testBranchConstant
					}
					if defaultPresent {
						defaultBranch = testDefaultBranchConstant
					}

					expected := track.Resolution{Kind: track.ResolutionTrackable}
					switch {
					case commitPresent:
						expected = track.Resolution{Kind: track.ResolutionPinned, Label: testCommitLabelConstant}
					case tagPresent:
						expected = track.Resolution{Kind: track.ResolutionPinned, Label: testTagConstant}
					case branchPresent:
						expected.RemoteReference = "origin/" + testBranchConstant
					case defaultPresent:
						expected.RemoteReference = "origin/" + testDefaultBranchConstant
					}

					caseName := fmt.Sprintf("commit_%t_tag_%t_branch_%t_default_%t", commitPresent, tagPresent, branchPresent, defaultPresent)
					testInstance.Run(caseName, func(testInstance *testing.T) {
						resolution := track.Resolve(entry, defaultBranch)
						require.Equal(testInstance, expected, resolution)
						require.Equal(testInstance, commitPresent || tagPresent, resolution.Kind == track.ResolutionPinned)
						require.Equal(testInstance, !commitPresent && !tagPresent && (branchPresent || defaultPresent), resolution.HasTarget())
					})
				}
			}
		}
	}
}

func TestResolveAbbreviatesCommitRegardlessOfOtherPins(testInstance *testing.T) {
	resolution := track.Resolve(manifest.RepositoryEntry{Commit: testCommitHashConstant, Tag: "v9", Branch: "feature"}, testDefaultBranchConstant)

	require.Equal(testInstance, track.ResolutionPinned, resolution.Kind)
	require.Equal(testInstance, testCommitLabelConstant, resolution.Label)
}

func TestResolveKeepsShortCommitIntact(testInstance *testing.T) {
	resolution := track.Resolve(manifest.RepositoryEntry{Commit: "abc12"}, "")

	require.Equal(testInstance, "abc12", resolution.Label)
}

func TestResolveFallsBackToDefaultBranch(testInstance *testing.T) {
	resolution := track.Resolve(manifest.RepositoryEntry{Local: "repo"}, testDefaultBranchConstant)

	require.Equal(testInstance, track.Resolution{Kind: track.ResolutionTrackable, RemoteReference: "origin/main"}, resolution)
}
