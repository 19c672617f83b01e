package track

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitrepos/internal/execshell"
	"github.com/temirov/gitrepos/internal/manifest"
	"github.com/temirov/gitrepos/internal/repos/dependencies"
	"github.com/temirov/gitrepos/internal/repos/shared"
	"github.com/temirov/gitrepos/internal/utils"
)

const (
	commandUseConstant                      = "track [path]"
	commandShortDescriptionConstant         = "Set the upstream of every manifest repository"
	commandLongDescriptionConstant          = "track reads the .gitrepos manifest of a working root and points the current branch of every listed repository at the remote branch the manifest selects. Repositories pinned to a commit or tag are reported as untracked."
	manifestFlagNameConstant                = "manifest"
	manifestFlagDescriptionConstant         = "Path to the manifest file (defaults to <path>/.gitrepos)"
	jobsFlagNameConstant                    = "jobs"
	jobsFlagDescriptionConstant             = "Number of repositories processed concurrently"
	directoryNotFoundTemplateConstant       = "Directory %s not found!\n"
	manifestNotFoundTemplateConstant        = "%s not found, try init instead!\n"
	workingDirectoryErrorTemplateConstant   = "unable to determine working directory: %w"
	absoluteRootErrorTemplateConstant       = "unable to resolve %s: %w"
	trackingWorkspaceLogMessageConstant     = "tracking workspace"
	logFieldRootConstant                    = "root"
	logFieldManifestConstant                = "manifest"
	logFieldConfigFileConstant              = "config_file"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ProgressFactory builds the Progress that renders a batch to output.
type ProgressFactory func(output io.Writer, logger *zap.Logger) Progress

// CommandEventObserverFactory builds the observer attached to the git executor for human-readable logging.
type CommandEventObserverFactory func(logger *zap.Logger) execshell.CommandEventObserver

// CommandBuilder assembles the track command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  shared.GitExecutor
	RepositoryOpener             shared.RepositoryOpener
	FileSystem                   shared.FileSystem
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	ProgressFactory              ProgressFactory
	CommandEventObserverFactory  CommandEventObserverFactory
}

// Build constructs the track command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(manifestFlagNameConstant, "", manifestFlagDescriptionConstant)
	command.Flags().Int(jobsFlagNameConstant, 0, jobsFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	reporter := shared.NewWriterReporter(command.OutOrStdout())

	requestedRootPath, rootError := builder.resolveRootPath(fileSystem, arguments)
	if rootError != nil {
		return rootError
	}

	rootInfo, rootStatError := fileSystem.Stat(requestedRootPath)
	if rootStatError != nil || !rootInfo.IsDir() {
		reporter.Printf(directoryNotFoundTemplateConstant, requestedRootPath)
		return nil
	}

	rootPath, absoluteRootError := fileSystem.Abs(requestedRootPath)
	if absoluteRootError != nil {
		return fmt.Errorf(absoluteRootErrorTemplateConstant, requestedRootPath, absoluteRootError)
	}

	manifestPath, manifestPathError := builder.resolveManifestPath(command, configuration, rootPath)
	if manifestPathError != nil {
		return manifestPathError
	}

	loadedManifest, loadError := manifest.Load(manifestPath)
	if loadError != nil {
		if errors.Is(loadError, manifest.ErrManifestNotFound) {
			reporter.Printf(manifestNotFoundTemplateConstant, filepath.Base(manifestPath))
			return nil
		}
		fmt.Fprintln(command.ErrOrStderr(), loadError.Error())
		return nil
	}

	jobs, jobsError := builder.resolveJobs(command, configuration)
	if jobsError != nil {
		return jobsError
	}

	logger := builder.resolveLogger()
	configurationFilePath, _ := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	logger.Debug(trackingWorkspaceLogMessageConstant,
		zap.String(logFieldRootConstant, rootPath),
		zap.String(logFieldManifestConstant, manifestPath),
		zap.String(logFieldConfigFileConstant, configurationFilePath),
		zap.Int(logFieldJobsConstant, jobs),
	)

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.resolveObservers(logger)...)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(Dependencies{
		GitExecutor:      gitExecutor,
		RepositoryOpener: dependencies.ResolveRepositoryOpener(builder.RepositoryOpener),
		Logger:           logger,
	})
	if serviceError != nil {
		return serviceError
	}

	service.Track(command.Context(), Options{
		RootPath: rootPath,
		Manifest: loadedManifest,
		Progress: builder.resolveProgress(command.OutOrStdout(), logger),
		Jobs:     jobs,
	})

	return nil
}

func (builder *CommandBuilder) resolveRootPath(fileSystem shared.FileSystem, arguments []string) (string, error) {
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		return strings.TrimSpace(arguments[0]), nil
	}
	workingDirectory, workingDirectoryError := fileSystem.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}

func (builder *CommandBuilder) resolveManifestPath(command *cobra.Command, configuration CommandConfiguration, rootPath string) (string, error) {
	if command.Flags().Changed(manifestFlagNameConstant) {
		manifestFlagValue, manifestFlagError := command.Flags().GetString(manifestFlagNameConstant)
		if manifestFlagError != nil {
			return "", manifestFlagError
		}
		if trimmedManifestPath := strings.TrimSpace(manifestFlagValue); len(trimmedManifestPath) > 0 {
			return trimmedManifestPath, nil
		}
	}
	if filepath.IsAbs(configuration.ManifestFileName) {
		return configuration.ManifestFileName, nil
	}
	return filepath.Join(rootPath, configuration.ManifestFileName), nil
}

func (builder *CommandBuilder) resolveJobs(command *cobra.Command, configuration CommandConfiguration) (int, error) {
	if !command.Flags().Changed(jobsFlagNameConstant) {
		return configuration.Jobs, nil
	}
	jobsFlagValue, jobsFlagError := command.Flags().GetInt(jobsFlagNameConstant)
	if jobsFlagError != nil {
		return 0, jobsFlagError
	}
	if jobsFlagValue < defaultJobsConstant {
		return defaultJobsConstant, nil
	}
	return jobsFlagValue, nil
}

func (builder *CommandBuilder) resolveObservers(logger *zap.Logger) []execshell.CommandEventObserver {
	if builder.CommandEventObserverFactory == nil || builder.HumanReadableLoggingProvider == nil {
		return nil
	}
	if !builder.HumanReadableLoggingProvider() {
		return nil
	}
	observer := builder.CommandEventObserverFactory(logger)
	if observer == nil {
		return nil
	}
	return []execshell.CommandEventObserver{observer}
}

func (builder *CommandBuilder) resolveProgress(output io.Writer, logger *zap.Logger) Progress {
	if builder.ProgressFactory == nil {
		return NewLineProgress(output)
	}
	progress := builder.ProgressFactory(output, logger)
	if progress == nil {
		return NewLineProgress(output)
	}
	return progress
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
