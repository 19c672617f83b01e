// Package track links the local branch of every repository listed in a
// manifest to the remote reference the manifest asks for.
//
// Resolve applies the commit > tag > branch > default-branch precedence,
// Service walks the manifest and reports exactly one Outcome per entry, and
// CommandBuilder exposes the workflow as the track subcommand.
package track
