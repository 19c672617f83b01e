package track

import (
	"strings"

	"github.com/temirov/gitrepos/internal/manifest"
)

const defaultJobsConstant = 1

// CommandConfiguration captures configuration values for the track command.
type CommandConfiguration struct {
	ManifestFileName string `mapstructure:"manifest"`
	Jobs             int    `mapstructure:"jobs"`
}

// DefaultCommandConfiguration provides baseline configuration values for tracking.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ManifestFileName: manifest.FileName,
		Jobs:             defaultJobsConstant,
	}
}

// Sanitize trims configuration values and restores defaults for unusable ones.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.ManifestFileName = strings.TrimSpace(configuration.ManifestFileName)
	if len(sanitized.ManifestFileName) == 0 {
		sanitized.ManifestFileName = manifest.FileName
	}
	if sanitized.Jobs < defaultJobsConstant {
		sanitized.Jobs = defaultJobsConstant
	}

	return sanitized
}
