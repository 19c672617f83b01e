// Package gitrepo opens working copies with go-git and answers the read-only
// questions the tracking workflow asks about them, such as which branch HEAD
// points to.
package gitrepo
