package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/branch-notifier/internal/execshell"
)

const (
	gitRevParseSubcommandConstant            = "rev-parse"
	gitGitDirFlagConstant                    = "--git-dir"
	gitBranchSubcommandConstant              = "branch"
	gitShowCurrentFlagConstant               = "--show-current"
	gitCheckoutSubcommandConstant            = "checkout"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
	executorMissingMessageConstant           = "git executor not configured"
	repositoryPathRequiredMessageConstant    = "repository path must be provided"
	branchNameRequiredMessageConstant        = "branch name must be provided"
	repositoryProbeErrorTemplateConstant     = "unable to inspect %s: %w"
	currentBranchErrorTemplateConstant       = "unable to read current branch in %s: %w"
	checkoutErrorTemplateConstant            = "unable to check out %s in %s: %w"
)

// ErrGitExecutorNotConfigured indicates the manager was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrBranchNameRequired indicates an empty branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// GitExecutor runs git commands on behalf of the manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager exposes the repository-level git operations used by the branch watcher.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsRepository probes repositoryPath for git metadata.
// A probe that runs and exits non-zero yields false without error; an error is
// returned only when git itself could not be run.
func (manager *RepositoryManager) IsRepository(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return false, ErrRepositoryPathRequired
	}

	_, probeError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitGitDirFlagConstant},
		WorkingDirectory: trimmedPath,
	})
	if probeError == nil {
		return true, nil
	}

	var failedError execshell.CommandFailedError
	if errors.As(probeError, &failedError) {
		return false, nil
	}
	return false, fmt.Errorf(repositoryProbeErrorTemplateConstant, trimmedPath, probeError)
}

// CurrentBranch returns the checked out branch name with surrounding whitespace removed.
// A detached HEAD yields an empty name.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, queryError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitShowCurrentFlagConstant},
		WorkingDirectory: trimmedPath,
	})
	if queryError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, trimmedPath, queryError)
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// CheckoutBranch runs git checkout for branchName. Success is judged by the exit status only.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrBranchNameRequired
	}

	_, checkoutError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitCheckoutSubcommandConstant, trimmedBranch},
		WorkingDirectory:     trimmedPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant},
	})
	if checkoutError != nil {
		return fmt.Errorf(checkoutErrorTemplateConstant, trimmedBranch, trimmedPath, checkoutError)
	}
	return nil
}
