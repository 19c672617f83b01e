// Package manifest models the .gitrepos file that lists the repositories of a
// working tree together with the default branch they should follow.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is the conventional manifest name inside a working root.
	FileName = ".gitrepos"
	// GeneratedHeader opens every manifest written by gitrepos.
	GeneratedHeader = "# This file is automatically @generated by gitrepos.\n# Editing it as you wish.\n"

	localFieldNameConstant           = "local"
	remoteFieldNameConstant          = "remote"
	missingFieldReasonTemplate       = "repos[%d]: missing required field %q"
	readFailureReasonConstant        = "unable to read manifest"
	notRegularFileReasonConstant     = "not a regular file"
	decodeFailureReasonConstant      = "malformed manifest"
	encodeFailureTemplateConstant    = "unable to encode manifest: %w"
	writeFailureTemplateConstant     = "unable to write manifest %s: %w"
	configErrorTemplateConstant      = "%s %s: %s"
	configErrorCauseTemplateConstant = "%s %s: %s: %v"
	manifestNotFoundMessageConstant  = "manifest not found"
	manifestFilePermissionsConstant  = 0o644
	inMemoryManifestLabelConstant    = "<memory>"
	configErrorSubjectConstant       = "manifest"
	tomlIndentationConstant          = ""
)

// ErrManifestNotFound matches ConfigErrors raised for a manifest file that does not exist.
var ErrManifestNotFound = errors.New(manifestNotFoundMessageConstant)

// Manifest is the typed form of a .gitrepos document.
type Manifest struct {
	DefaultBranch string
	Repositories  []RepositoryEntry
}

// RepositoryEntry is one [[repos]] table.
type RepositoryEntry struct {
	Local  string
	Remote string
	Branch string
	Commit string
	Tag    string
}

// ConfigError reports a manifest that is missing, malformed, or incomplete.
type ConfigError struct {
	Path   string
	Reason string
	Cause  error
}

func (configError *ConfigError) Error() string {
	if configError.Cause == nil {
		return fmt.Sprintf(configErrorTemplateConstant, configErrorSubjectConstant, configError.Path, configError.Reason)
	}
	return fmt.Sprintf(configErrorCauseTemplateConstant, configErrorSubjectConstant, configError.Path, configError.Reason, configError.Cause)
}

// Unwrap exposes the underlying read or decode failure.
func (configError *ConfigError) Unwrap() error {
	return configError.Cause
}

// Is reports ErrManifestNotFound for errors caused by a missing file.
// A path that is not a regular file carries ErrManifestNotFound as its cause.
func (configError *ConfigError) Is(target error) bool {
	return target == ErrManifestNotFound && errors.Is(configError.Cause, fs.ErrNotExist)
}

type manifestDocument struct {
	DefaultBranch string               `toml:"default-branch,omitempty"`
	Repositories  []repositoryDocument `toml:"repos,omitempty"`
}

type repositoryDocument struct {
	Local  string `toml:"local"`
	Remote string `toml:"remote"`
	Branch string `toml:"branch,omitempty"`
	Commit string `toml:"commit,omitempty"`
	Tag    string `toml:"tag,omitempty"`
}

// Path returns the conventional manifest location inside rootDirectory.
func Path(rootDirectory string) string {
	return filepath.Join(rootDirectory, FileName)
}

// Load reads and validates the manifest stored at manifestPath.
// A missing path, or one that is not a regular file, yields a ConfigError matching ErrManifestNotFound.
func Load(manifestPath string) (Manifest, error) {
	manifestInfo, statError := os.Stat(manifestPath)
	if statError != nil {
		return Manifest{}, &ConfigError{Path: manifestPath, Reason: readFailureReasonConstant, Cause: statError}
	}
	if !manifestInfo.Mode().IsRegular() {
		return Manifest{}, &ConfigError{Path: manifestPath, Reason: notRegularFileReasonConstant, Cause: ErrManifestNotFound}
	}

	content, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return Manifest{}, &ConfigError{Path: manifestPath, Reason: readFailureReasonConstant, Cause: readError}
	}
	return decode(manifestPath, content)
}

// Decode parses manifest content that did not come from a file.
func Decode(content []byte) (Manifest, error) {
	return decode(inMemoryManifestLabelConstant, content)
}

func decode(sourceLabel string, content []byte) (Manifest, error) {
	var document manifestDocument
	if _, decodeError := toml.Decode(string(content), &document); decodeError != nil {
		return Manifest{}, &ConfigError{Path: sourceLabel, Reason: decodeFailureReasonConstant, Cause: decodeError}
	}

	loaded := Manifest{
		DefaultBranch: strings.TrimSpace(document.DefaultBranch),
		Repositories:  make([]RepositoryEntry, 0, len(document.Repositories)),
	}

	for entryIndex, repository := range document.Repositories {
		entry := RepositoryEntry{
			Local:  strings.TrimSpace(repository.Local),
			Remote: strings.TrimSpace(repository.Remote),
			Branch: strings.TrimSpace(repository.Branch),
			Commit: strings.TrimSpace(repository.Commit),
			Tag:    strings.TrimSpace(repository.Tag),
		}
		if len(entry.Local) == 0 {
			return Manifest{}, &ConfigError{Path: sourceLabel, Reason: fmt.Sprintf(missingFieldReasonTemplate, entryIndex, localFieldNameConstant)}
		}
		if len(entry.Remote) == 0 {
			return Manifest{}, &ConfigError{Path: sourceLabel, Reason: fmt.Sprintf(missingFieldReasonTemplate, entryIndex, remoteFieldNameConstant)}
		}
		loaded.Repositories = append(loaded.Repositories, entry)
	}

	return loaded, nil
}

// Encode renders the manifest as TOML behind the generated-file header.
func Encode(manifest Manifest) ([]byte, error) {
	document := manifestDocument{DefaultBranch: manifest.DefaultBranch}
	for _, entry := range manifest.Repositories {
		document.Repositories = append(document.Repositories, repositoryDocument(entry))
	}

	var buffer bytes.Buffer
	buffer.WriteString(GeneratedHeader)
	buffer.WriteString("\n")

	encoder := toml.NewEncoder(&buffer)
	encoder.Indent = tomlIndentationConstant
	if encodeError := encoder.Encode(document); encodeError != nil {
		return nil, fmt.Errorf(encodeFailureTemplateConstant, encodeError)
	}
	return buffer.Bytes(), nil
}

// Write encodes the manifest and stores it at manifestPath.
func Write(manifestPath string, manifest Manifest) error {
	content, encodeError := Encode(manifest)
	if encodeError != nil {
		return encodeError
	}
	if writeError := os.WriteFile(manifestPath, content, manifestFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, manifestPath, writeError)
	}
	return nil
}
