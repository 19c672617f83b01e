package utils

import (
	"context"
	"strings"
)

type invocationContextKey string

const configurationFileContextKey = invocationContextKey("gitrepos.configuration_file")

// CommandContextAccessor stores invocation metadata on the context handed to subcommands.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the configuration file that was loaded.
// A blank path leaves the parent context unchanged.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	trimmedPath := strings.TrimSpace(configurationFilePath)
	if len(trimmedPath) == 0 {
		return parentContext
	}
	return context.WithValue(parentContext, configurationFileContextKey, trimmedPath)
}

// ConfigurationFilePath returns the recorded configuration file, if any.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, recorded := executionContext.Value(configurationFileContextKey).(string)
	return configurationFilePath, recorded
}
