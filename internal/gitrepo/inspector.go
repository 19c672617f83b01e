package gitrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	repositoryNotFoundMessageConstant   = "repository not found"
	repositoryOpenErrorTemplateConstant = "%s: %s"
	blankPathMessageConstant            = "path is empty"
)

// ErrRepositoryNotFound indicates the requested path is not a git working copy.
var ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)

// RepositoryOpenError describes why a working copy could not be opened.
type RepositoryOpenError struct {
	Path  string
	Cause error
}

// Error describes the failure.
func (openError RepositoryOpenError) Error() string {
	return fmt.Sprintf(repositoryOpenErrorTemplateConstant, openError.Path, openError.Cause)
}

// Unwrap exposes the go-git failure.
func (openError RepositoryOpenError) Unwrap() error {
	return openError.Cause
}

// Is matches ErrRepositoryNotFound for every open failure.
func (openError RepositoryOpenError) Is(target error) bool {
	return target == ErrRepositoryNotFound
}

// Inspector opens working copies from disk.
type Inspector struct{}

// NewInspector constructs an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Open loads the working copy rooted at repositoryPath without searching parent directories.
func (inspector *Inspector) Open(repositoryPath string) (*Repository, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return nil, RepositoryOpenError{Path: repositoryPath, Cause: errors.New(blankPathMessageConstant)}
	}

	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, RepositoryOpenError{Path: repositoryPath, Cause: openError}
	}
	return &Repository{path: repositoryPath, repository: repository}, nil
}

// Repository is an opened working copy.
type Repository struct {
	path       string
	repository *git.Repository
}

// Path returns the directory the repository was opened from.
func (repository *Repository) Path() string {
	return repository.path
}

// CurrentBranch returns the branch HEAD points to, or an empty string when HEAD is detached.
// An unborn branch is still reported by name.
func (repository *Repository) CurrentBranch() string {
	headReference, referenceError := repository.repository.Reference(plumbing.HEAD, false)
	if referenceError != nil {
		return ""
	}
	if headReference.Type() != plumbing.SymbolicReference {
		return ""
	}
	target := headReference.Target()
	if !target.IsBranch() {
		return ""
	}
	return target.Short()
}
