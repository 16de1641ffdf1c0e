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
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitGitDirFlagConstant             = "--git-dir"
	gitBranchSubcommandNameConstant   = "branch"
	gitShowCurrentFlagConstant        = "--show-current"
	gitCheckoutSubcommandNameConstant = "checkout"
)

// stageTemplates holds one template per messageStage. Start and success templates
// receive the subject arguments only; failure templates additionally receive the
// exit code and standard error suffix; execution failure templates receive the
// failure description.
type stageTemplates [4]string

var (
	gitRepositoryProbeTemplates = stageTemplates{
		"Checking whether %s is a Git repository",
		"%s is a Git repository",
		"%s is not a Git repository (exit code %d%s)",
		"Could not inspect %s: %s",
	}
	gitCurrentBranchTemplates = stageTemplates{
		"Identifying current branch in %s",
		"Identified current branch in %s",
		"Failed to identify current branch in %s (exit code %d%s)",
		"Unable to identify current branch in %s: %s",
	}
	gitCheckoutTemplates = stageTemplates{
		"Switching %s to branch %s",
		"%s now on branch %s",
		"Failed to switch %s to branch %s (exit code %d%s)",
		"Unable to switch %s to branch %s: %s",
	}
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
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitGitDirFlagConstant) {
			return formatter.applyTemplates(gitRepositoryProbeTemplates, stage, result, failure, workingDirectory)
		}
	case gitBranchSubcommandNameConstant:
		if containsArgument(arguments, gitShowCurrentFlagConstant) {
			return formatter.applyTemplates(gitCurrentBranchTemplates, stage, result, failure, workingDirectory)
		}
	case gitCheckoutSubcommandNameConstant:
		branchName := fallbackUnknownValueLabelConstant
		if len(arguments) > 1 && len(strings.TrimSpace(arguments[1])) > 0 {
			branchName = strings.TrimSpace(arguments[1])
		}
		return formatter.applyTemplates(gitCheckoutTemplates, stage, result, failure, workingDirectory, branchName)
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) applyTemplates(templates stageTemplates, stage messageStage, result ExecutionResult, failure error, subjects ...any) string {
	switch stage {
	case messageStageStart, messageStageSuccess:
		return fmt.Sprintf(templates[stage], subjects...)
	case messageStageFailure:
		return fmt.Sprintf(templates[stage], append(subjects, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates[stage], append(subjects, formatter.describeFailure(failure))...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
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

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
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

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
