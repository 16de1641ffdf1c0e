package branchwatch

import (
	"context"
	"errors"
	"fmt"
)

const (
	repositoryMissingMessageConstant = "repository inspector not configured"
	workspaceMissingMessageConstant  = "workspace resolver not configured"
	prompterMissingMessageConstant   = "action prompter not configured"
	notifierMissingMessageConstant   = "notifier not configured"
	promptFailureTemplateConstant    = "unable to show branch warning: %w"
)

// ErrRepositoryInspectorNotConfigured indicates the service was built without git access.
var ErrRepositoryInspectorNotConfigured = errors.New(repositoryMissingMessageConstant)

// ErrWorkspaceResolverNotConfigured indicates the service was built without a workspace resolver.
var ErrWorkspaceResolverNotConfigured = errors.New(workspaceMissingMessageConstant)

// ErrActionPrompterNotConfigured indicates the service was built without a prompter.
var ErrActionPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrNotifierNotConfigured indicates the service was built without a notifier.
var ErrNotifierNotConfigured = errors.New(notifierMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Repository RepositoryInspector
	Workspace  WorkspaceResolver
	Prompter   ActionPrompter
	Notifier   Notifier
}

// Service checks the active workspace branch and switches it back to main on request.
type Service struct {
	repository RepositoryInspector
	workspace  WorkspaceResolver
	prompter   ActionPrompter
	notifier   Notifier
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	switch {
	case dependencies.Repository == nil:
		return nil, ErrRepositoryInspectorNotConfigured
	case dependencies.Workspace == nil:
		return nil, ErrWorkspaceResolverNotConfigured
	case dependencies.Prompter == nil:
		return nil, ErrActionPrompterNotConfigured
	case dependencies.Notifier == nil:
		return nil, ErrNotifierNotConfigured
	}

	return &Service{
		repository: dependencies.Repository,
		workspace:  dependencies.Workspace,
		prompter:   dependencies.Prompter,
		notifier:   dependencies.Notifier,
	}, nil
}

// CheckCurrentBranch inspects the active workspace folder and warns when it is not on main or master.
// Nothing is returned as an error: failures are described by the result.
func (service *Service) CheckCurrentBranch(executionContext context.Context) CheckResult {
	workspacePath, workspaceAvailable := service.workspace.ActiveFolder()
	if !workspaceAvailable {
		return CheckResult{Outcome: CheckOutcomeNoWorkspace}
	}

	result := CheckResult{WorkspacePath: workspacePath}

	isRepository, probeError := service.repository.IsRepository(executionContext, workspacePath)
	if probeError != nil {
		result.Outcome = CheckOutcomeQueryFailed
		result.Error = probeError
		return result
	}
	if !isRepository {
		result.Outcome = CheckOutcomeNotRepository
		return result
	}

	branchName, queryError := service.repository.CurrentBranch(executionContext, workspacePath)
	if queryError != nil {
		result.Outcome = CheckOutcomeQueryFailed
		result.Error = queryError
		return result
	}

	result.BranchName = branchName
	if IsMainBranch(branchName) {
		result.Outcome = CheckOutcomeOnMainBranch
		return result
	}

	result.Outcome = CheckOutcomeOffMainBranch
	result.PromptShown = true
	selectedAction, promptError := service.prompter.SelectAction(formatOffMainBranchWarning(branchName), []string{SwitchToMainActionLabel, DismissActionLabel})
	if promptError != nil {
		result.Error = fmt.Errorf(promptFailureTemplateConstant, promptError)
		return result
	}

	result.SelectedAction = selectedAction
	if selectedAction == SwitchToMainActionLabel {
		switchResult := service.SwitchToMainBranch(executionContext, workspacePath)
		result.Switch = &switchResult
	}
	return result
}

// SwitchToMainBranch checks out main, falling back to master, and tells the user how it went.
// Success is judged by the checkout exit status only.
func (service *Service) SwitchToMainBranch(executionContext context.Context, workspacePath string) SwitchResult {
	result := SwitchResult{WorkspacePath: workspacePath}

	for _, candidateBranch := range []string{mainBranchNameConstant, masterBranchNameConstant} {
		checkoutError := service.repository.CheckoutBranch(executionContext, workspacePath, candidateBranch)
		if checkoutError == nil {
			result.Outcome = SwitchOutcomeSwitched
			result.BranchName = candidateBranch
			service.notifier.ShowInformation(fmt.Sprintf(switchSucceededMessageTemplate, candidateBranch))
			return result
		}
		result.AttemptErrors = append(result.AttemptErrors, checkoutError)
	}

	result.Outcome = SwitchOutcomeFailed
	service.notifier.ShowError(switchFailedMessageConstant)
	return result
}

// ActiveWorkspace exposes the folder the next check would inspect.
func (service *Service) ActiveWorkspace() (string, bool) {
	return service.workspace.ActiveFolder()
}

func formatOffMainBranchWarning(branchName string) string {
	if len(branchName) == 0 {
		return detachedHeadWarningMessageConstant
	}
	return fmt.Sprintf(offMainBranchWarningTemplateConstant, branchName)
}
