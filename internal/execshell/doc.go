// Package execshell runs external tools such as git on behalf of gitrepos.
//
// ShellExecutor turns non-zero exits and undecodable output into typed errors,
// logs every invocation, and fans lifecycle events out to observers so the
// console can describe what is happening. OSCommandRunner is the default
// process runner; tests substitute their own CommandRunner.
package execshell
