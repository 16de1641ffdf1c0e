package branchwatch

import "context"

const (
	mainBranchNameConstant   = "main"
	masterBranchNameConstant = "master"

	// SwitchToMainActionLabel is the prompt action that switches back to the main branch.
	SwitchToMainActionLabel = "Switch to Main"
	// DismissActionLabel is the prompt action that leaves the branch unchanged.
	DismissActionLabel = "Dismiss"

	offMainBranchWarningTemplateConstant = "You are currently on branch \"%s\" instead of main/master. Consider switching to the main branch."
	detachedHeadWarningMessageConstant   = "You are currently on a detached HEAD instead of main/master. Consider switching to the main branch."
	switchSucceededMessageTemplate       = "Successfully switched to %s branch!"
	switchFailedMessageConstant          = "Could not switch to main or master branch. Please switch manually."
)

// CheckOutcome classifies a branch check.
type CheckOutcome string

// Check outcomes.
const (
	CheckOutcomeNoWorkspace   CheckOutcome = "no_workspace"
	CheckOutcomeNotRepository CheckOutcome = "not_repository"
	CheckOutcomeQueryFailed   CheckOutcome = "query_failed"
	CheckOutcomeOnMainBranch  CheckOutcome = "on_main_branch"
	CheckOutcomeOffMainBranch CheckOutcome = "off_main_branch"
)

// CheckResult describes what a single branch check observed and did.
type CheckResult struct {
	Outcome        CheckOutcome
	WorkspacePath  string
	BranchName     string
	PromptShown    bool
	SelectedAction string
	// Switch is set when the user chose to switch.
	Switch *SwitchResult
	// Error holds the probe or query failure for query_failed, or the prompt failure for off_main_branch.
	Error error
}

// SwitchOutcome classifies a switch attempt.
type SwitchOutcome string

// Switch outcomes.
const (
	SwitchOutcomeSwitched SwitchOutcome = "switched"
	SwitchOutcomeFailed   SwitchOutcome = "failed"
)

// SwitchResult describes a switch to main (or master).
type SwitchResult struct {
	Outcome       SwitchOutcome
	WorkspacePath string
	// BranchName is the branch reached; empty when both checkouts failed.
	BranchName    string
	AttemptErrors []error
}

// RepositoryInspector exposes the git operations the watcher needs.
type RepositoryInspector interface {
	IsRepository(executionContext context.Context, repositoryPath string) (bool, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
}

// WorkspaceResolver reports the active project folder.
type WorkspaceResolver interface {
	ActiveFolder() (string, bool)
}

// ActionPrompter shows a warning with actions. An empty selection means dismissed.
type ActionPrompter interface {
	SelectAction(message string, actions []string) (string, error)
}

// Notifier shows information and error messages to the user.
type Notifier interface {
	ShowInformation(message string)
	ShowError(message string)
}

// IsMainBranch reports whether branchName is one of the main branch names.
func IsMainBranch(branchName string) bool {
	return branchName == mainBranchNameConstant || branchName == masterBranchNameConstant
}
