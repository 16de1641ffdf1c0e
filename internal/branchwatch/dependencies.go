package branchwatch

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branch-notifier/internal/execshell"
	"github.com/temirov/branch-notifier/internal/gitrepo"
	"github.com/temirov/branch-notifier/internal/ui"
	"github.com/temirov/branch-notifier/internal/utils"
	"github.com/temirov/branch-notifier/internal/workspace"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandDependencies holds the collaborators shared by the check, switch and watch commands.
// Every provider is optional; nil providers fall back to terminal and git defaults.
type CommandDependencies struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	GitExecutor                  gitrepo.GitExecutor
	WorkspaceResolverProvider    func(command *cobra.Command) WorkspaceResolver
	PrompterProvider             func(command *cobra.Command) ActionPrompter
	NotifierProvider             func(command *cobra.Command) Notifier
}

func (dependencies CommandDependencies) resolveLogger() *zap.Logger {
	if dependencies.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := dependencies.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (dependencies CommandDependencies) buildService(command *cobra.Command, logger *zap.Logger) (*Service, error) {
	gitExecutor, executorError := dependencies.resolveGitExecutor(logger)
	if executorError != nil {
		return nil, executorError
	}
	repositoryManager, managerError := gitrepo.NewRepositoryManager(gitExecutor)
	if managerError != nil {
		return nil, managerError
	}

	return NewService(ServiceDependencies{
		Repository: repositoryManager,
		Workspace:  dependencies.resolveWorkspace(command),
		Prompter:   dependencies.resolvePrompter(command),
		Notifier:   dependencies.resolveNotifier(command),
	})
}

func (dependencies CommandDependencies) resolveGitExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if dependencies.GitExecutor != nil {
		return dependencies.GitExecutor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if dependencies.HumanReadableLoggingProvider != nil && dependencies.HumanReadableLoggingProvider() {
		return execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

func (dependencies CommandDependencies) resolveWorkspace(command *cobra.Command) WorkspaceResolver {
	if dependencies.WorkspaceResolverProvider != nil {
		if resolver := dependencies.WorkspaceResolverProvider(command); resolver != nil {
			return resolver
		}
	}
	launchDirectory := resolveLaunchDirectory(command)
	return workspace.NewResolver(workspace.ResolverOptions{BaseDirectory: launchDirectory, FallbackFolder: launchDirectory})
}

func (dependencies CommandDependencies) resolvePrompter(command *cobra.Command) ActionPrompter {
	if dependencies.PrompterProvider != nil {
		if prompter := dependencies.PrompterProvider(command); prompter != nil {
			return prompter
		}
	}
	return ui.NewActionPrompter(ui.PrompterOptions{Input: command.InOrStdin(), Output: command.OutOrStdout()})
}

func (dependencies CommandDependencies) resolveNotifier(command *cobra.Command) Notifier {
	if dependencies.NotifierProvider != nil {
		if notifier := dependencies.NotifierProvider(command); notifier != nil {
			return notifier
		}
	}
	return ui.NewConsoleNotifier(ui.NotifierOptions{Writer: command.OutOrStdout()})
}

func resolveLaunchDirectory(command *cobra.Command) string {
	if launchDirectory, available := utils.NewCommandContextAccessor().LaunchDirectory(commandContext(command)); available {
		return launchDirectory
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return ""
	}
	return workingDirectory
}

func commandContext(command *cobra.Command) context.Context {
	if command == nil || command.Context() == nil {
		return context.Background()
	}
	return command.Context()
}
