// Package branches groups the branch-level commands that operate on the
// repositories listed in a workspace manifest. The track subpackage links each
// local branch to the remote branch the manifest selects.
package branches
