package branchwatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testWorkspacePathConstant = "/tmp/project"

type stubRepository struct {
	mutex          sync.Mutex
	isRepository   bool
	probeError     error
	branchName     string
	queryError     error
	checkoutErrors map[string]error
	probeCalls     int
	branchCalls    int
	checkouts      []string
}

func (repository *stubRepository) IsRepository(_ context.Context, _ string) (bool, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	repository.probeCalls++
	return repository.isRepository, repository.probeError
}

func (repository *stubRepository) CurrentBranch(_ context.Context, _ string) (string, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	repository.branchCalls++
	return repository.branchName, repository.queryError
}

func (repository *stubRepository) CheckoutBranch(_ context.Context, _ string, branchName string) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()
	repository.checkouts = append(repository.checkouts, branchName)
	return repository.checkoutErrors[branchName]
}

type stubWorkspace struct {
	path      string
	available bool
}

func (workspace stubWorkspace) ActiveFolder() (string, bool) {
	return workspace.path, workspace.available
}

type recordingPrompter struct {
	mutex     sync.Mutex
	selection string
	err       error
	messages  []string
	actions   [][]string
}

func (prompter *recordingPrompter) SelectAction(message string, actions []string) (string, error) {
	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()
	prompter.messages = append(prompter.messages, message)
	prompter.actions = append(prompter.actions, actions)
	return prompter.selection, prompter.err
}

type recordingNotifier struct {
	mutex       sync.Mutex
	information []string
	errors      []string
}

func (notifier *recordingNotifier) ShowInformation(message string) {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	notifier.information = append(notifier.information, message)
}

func (notifier *recordingNotifier) ShowError(message string) {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	notifier.errors = append(notifier.errors, message)
}

type serviceFixture struct {
	repository *stubRepository
	prompter   *recordingPrompter
	notifier   *recordingNotifier
	service    *Service
}

func newServiceFixture(t *testing.T, repository *stubRepository, workspace stubWorkspace, prompter *recordingPrompter) serviceFixture {
	t.Helper()
	notifier := &recordingNotifier{}
	service, err := NewService(ServiceDependencies{Repository: repository, Workspace: workspace, Prompter: prompter, Notifier: notifier})
	require.NoError(t, err)
	return serviceFixture{repository: repository, prompter: prompter, notifier: notifier, service: service}
}

func onRepository() stubWorkspace {
	return stubWorkspace{path: testWorkspacePathConstant, available: true}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	complete := ServiceDependencies{Repository: &stubRepository{}, Workspace: stubWorkspace{}, Prompter: &recordingPrompter{}, Notifier: &recordingNotifier{}}

	testCases := []struct {
		name          string
		mutate        func(dependencies *ServiceDependencies)
		expectedError error
	}{
		{name: "repository", mutate: func(dependencies *ServiceDependencies) { dependencies.Repository = nil }, expectedError: ErrRepositoryInspectorNotConfigured},
		{name: "workspace", mutate: func(dependencies *ServiceDependencies) { dependencies.Workspace = nil }, expectedError: ErrWorkspaceResolverNotConfigured},
		{name: "prompter", mutate: func(dependencies *ServiceDependencies) { dependencies.Prompter = nil }, expectedError: ErrActionPrompterNotConfigured},
		{name: "notifier", mutate: func(dependencies *ServiceDependencies) { dependencies.Notifier = nil }, expectedError: ErrNotifierNotConfigured},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			dependencies := complete
			testCase.mutate(&dependencies)
			_, err := NewService(dependencies)
			require.ErrorIs(t, err, testCase.expectedError)
		})
	}
}

func TestCheckCurrentBranchDoesNotPromptOnMainBranches(t *testing.T) {
	for _, branchName := range []string{"main", "master"} {
		t.Run(branchName, func(t *testing.T) {
			fixture := newServiceFixture(t, &stubRepository{isRepository: true, branchName: branchName}, onRepository(), &recordingPrompter{})

			result := fixture.service.CheckCurrentBranch(context.Background())
			require.Equal(t, CheckOutcomeOnMainBranch, result.Outcome)
			require.Equal(t, branchName, result.BranchName)
			require.False(t, result.PromptShown)
			require.Empty(t, fixture.prompter.messages)
		})
	}
}

func TestCheckCurrentBranchPromptsOnceForOtherBranches(t *testing.T) {
	testCases := []struct {
		branchName      string
		expectedMessage string
	}{
		{branchName: "feature/login", expectedMessage: `You are currently on branch "feature/login" instead of main/master. Consider switching to the main branch.`},
		{branchName: "develop", expectedMessage: `You are currently on branch "develop" instead of main/master. Consider switching to the main branch.`},
		{branchName: "Main", expectedMessage: `You are currently on branch "Main" instead of main/master. Consider switching to the main branch.`},
		{branchName: "mainline", expectedMessage: `You are currently on branch "mainline" instead of main/master. Consider switching to the main branch.`},
		{branchName: "", expectedMessage: "You are currently on a detached HEAD instead of main/master. Consider switching to the main branch."},
	}

	for _, testCase := range testCases {
		t.Run("branch_"+testCase.branchName, func(t *testing.T) {
			fixture := newServiceFixture(t, &stubRepository{isRepository: true, branchName: testCase.branchName}, onRepository(), &recordingPrompter{selection: DismissActionLabel})

			result := fixture.service.CheckCurrentBranch(context.Background())
			require.Equal(t, CheckOutcomeOffMainBranch, result.Outcome)
			require.True(t, result.PromptShown)
			require.Equal(t, DismissActionLabel, result.SelectedAction)
			require.Nil(t, result.Switch)
			require.Equal(t, []string{testCase.expectedMessage}, fixture.prompter.messages)
			require.Equal(t, [][]string{{"Switch to Main", "Dismiss"}}, fixture.prompter.actions)
			require.Empty(t, fixture.repository.checkouts)
		})
	}
}

func TestCheckCurrentBranchWithoutWorkspaceDoesNothing(t *testing.T) {
	fixture := newServiceFixture(t, &stubRepository{isRepository: true, branchName: "feature"}, stubWorkspace{}, &recordingPrompter{})

	result := fixture.service.CheckCurrentBranch(context.Background())
	require.Equal(t, CheckResult{Outcome: CheckOutcomeNoWorkspace}, result)
	require.Zero(t, fixture.repository.probeCalls)
	require.Zero(t, fixture.repository.branchCalls)
	require.Empty(t, fixture.prompter.messages)
}

func TestCheckCurrentBranchSkipsPlainDirectories(t *testing.T) {
	fixture := newServiceFixture(t, &stubRepository{isRepository: false, branchName: "feature"}, onRepository(), &recordingPrompter{})

	result := fixture.service.CheckCurrentBranch(context.Background())
	require.Equal(t, CheckOutcomeNotRepository, result.Outcome)
	require.NoError(t, result.Error)
	require.Equal(t, 1, fixture.repository.probeCalls)
	require.Zero(t, fixture.repository.branchCalls)
	require.Empty(t, fixture.prompter.messages)
}

func TestCheckCurrentBranchReportsQueryFailures(t *testing.T) {
	probeFailure := errors.New("git not found")
	queryFailure := errors.New("exit status 129")

	testCases := []struct {
		name          string
		repository    *stubRepository
		expectedError error
	}{
		{name: "probe", repository: &stubRepository{probeError: probeFailure}, expectedError: probeFailure},
		{name: "branch_query", repository: &stubRepository{isRepository: true, queryError: queryFailure}, expectedError: queryFailure},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fixture := newServiceFixture(t, testCase.repository, onRepository(), &recordingPrompter{})

			result := fixture.service.CheckCurrentBranch(context.Background())
			require.Equal(t, CheckOutcomeQueryFailed, result.Outcome)
			require.ErrorIs(t, result.Error, testCase.expectedError)
			require.Empty(t, fixture.prompter.messages)
			require.Empty(t, fixture.notifier.errors)
		})
	}
}

func TestCheckCurrentBranchRecordsPromptFailures(t *testing.T) {
	promptFailure := errors.New("terminal closed")
	fixture := newServiceFixture(t, &stubRepository{isRepository: true, branchName: "feature"}, onRepository(), &recordingPrompter{err: promptFailure})

	result := fixture.service.CheckCurrentBranch(context.Background())
	require.Equal(t, CheckOutcomeOffMainBranch, result.Outcome)
	require.ErrorIs(t, result.Error, promptFailure)
	require.Empty(t, fixture.repository.checkouts)
	require.Empty(t, fixture.notifier.errors)
}

func TestSelectingSwitchToMainFallsBackToMaster(t *testing.T) {
	checkoutFailure := errors.New("pathspec did not match")

	testCases := []struct {
		name                string
		checkoutErrors      map[string]error
		expectedCheckouts   []string
		expectedOutcome     SwitchOutcome
		expectedBranch      string
		expectedInformation []string
		expectedErrors      []string
	}{
		{
			name:                "main_succeeds",
			expectedCheckouts:   []string{"main"},
			expectedOutcome:     SwitchOutcomeSwitched,
			expectedBranch:      "main",
			expectedInformation: []string{"Successfully switched to main branch!"},
		},
		{
			name:                "master_fallback",
			checkoutErrors:      map[string]error{"main": checkoutFailure},
			expectedCheckouts:   []string{"main", "master"},
			expectedOutcome:     SwitchOutcomeSwitched,
			expectedBranch:      "master",
			expectedInformation: []string{"Successfully switched to master branch!"},
		},
		{
			name:              "both_fail",
			checkoutErrors:    map[string]error{"main": checkoutFailure, "master": checkoutFailure},
			expectedCheckouts: []string{"main", "master"},
			expectedOutcome:   SwitchOutcomeFailed,
			expectedErrors:    []string{"Could not switch to main or master branch. Please switch manually."},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			repository := &stubRepository{isRepository: true, branchName: "feature", checkoutErrors: testCase.checkoutErrors}
			fixture := newServiceFixture(t, repository, onRepository(), &recordingPrompter{selection: SwitchToMainActionLabel})

			result := fixture.service.CheckCurrentBranch(context.Background())
			require.Equal(t, SwitchToMainActionLabel, result.SelectedAction)
			require.NotNil(t, result.Switch)
			require.Equal(t, testCase.expectedOutcome, result.Switch.Outcome)
			require.Equal(t, testCase.expectedBranch, result.Switch.BranchName)
			require.Equal(t, testWorkspacePathConstant, result.Switch.WorkspacePath)
			require.Equal(t, testCase.expectedCheckouts, repository.checkouts)
			require.Equal(t, testCase.expectedInformation, fixture.notifier.information)
			require.Equal(t, testCase.expectedErrors, fixture.notifier.errors)
		})
	}
}

func TestSwitchToMainBranchCollectsAttemptErrors(t *testing.T) {
	mainFailure := errors.New("main missing")
	masterFailure := errors.New("master missing")
	repository := &stubRepository{checkoutErrors: map[string]error{"main": mainFailure, "master": masterFailure}}
	fixture := newServiceFixture(t, repository, onRepository(), &recordingPrompter{})

	result := fixture.service.SwitchToMainBranch(context.Background(), testWorkspacePathConstant)
	require.Equal(t, SwitchOutcomeFailed, result.Outcome)
	require.Empty(t, result.BranchName)
	require.Equal(t, []error{mainFailure, masterFailure}, result.AttemptErrors)
	require.Len(t, fixture.notifier.errors, 1)
	require.Empty(t, fixture.notifier.information)
}
