package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	defaultWorkingDirectoryLabelConstant    = "current directory"
	unknownValueLabelConstant               = "unknown"
	emptyStringConstant                     = ""
)

const (
	gitBranchSubcommandNameConstant = "branch"
	gitSetUpstreamFlagConstant      = "--set-upstream-to"
	gitSetUpstreamFlagPrefix        = gitSetUpstreamFlagConstant + "="
)

const (
	gitSetUpstreamStartTemplateConstant            = "Setting upstream in %s to %s"
	gitSetUpstreamSuccessTemplateConstant          = "Current branch in %s now tracks %s"
	gitSetUpstreamFailureTemplateConstant          = "Failed to set upstream in %s to %s (exit code %d%s)"
	gitSetUpstreamExecutionFailureTemplateConstant = "Unable to set upstream in %s to %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if command.Name == CommandGit && len(arguments) > 0 && strings.TrimSpace(arguments[0]) == gitBranchSubcommandNameConstant {
		if upstream, found := formatter.extractUpstream(arguments); found {
			return formatter.describeSetUpstream(command, upstream, result, failure, stage)
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeSetUpstream(command ShellCommand, upstream string, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitSetUpstreamStartTemplateConstant, workingDirectory, upstream)
	case messageStageSuccess:
		return fmt.Sprintf(gitSetUpstreamSuccessTemplateConstant, workingDirectory, upstream)
	case messageStageFailure:
		return fmt.Sprintf(gitSetUpstreamFailureTemplateConstant, workingDirectory, upstream, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitSetUpstreamExecutionFailureTemplateConstant, workingDirectory, upstream, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := describeCommand(command) + formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

// extractUpstream reads the value of --set-upstream-to in either the separate or the joined form.
func (formatter CommandMessageFormatter) extractUpstream(arguments []string) (string, bool) {
	for argumentIndex, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, gitSetUpstreamFlagPrefix) {
			return formatter.ensureValue(strings.TrimPrefix(trimmedArgument, gitSetUpstreamFlagPrefix)), true
		}
		if trimmedArgument != gitSetUpstreamFlagConstant {
			continue
		}
		if argumentIndex+1 < len(arguments) {
			return formatter.ensureValue(strings.TrimSpace(arguments[argumentIndex+1])), true
		}
		return unknownValueLabelConstant, true
	}
	return emptyStringConstant, false
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(value) == 0 {
		return unknownValueLabelConstant
	}
	return value
}
