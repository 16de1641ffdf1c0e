package branchwatch

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/branch-notifier/internal/execshell"
	flagutils "github.com/temirov/branch-notifier/internal/utils/flags"
)

const (
	probeArgumentsConstant       = "rev-parse --git-dir"
	showCurrentArgumentsConstant = "branch --show-current"
)

type scriptedGitExecutor struct {
	mutex    sync.Mutex
	outputs  map[string]string
	failures map[string]int
	recorded []string
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()

	key := strings.Join(details.Arguments, " ")
	executor.recorded = append(executor.recorded, key)
	if exitCode, failing := executor.failures[key]; failing {
		result := execshell.ExecutionResult{ExitCode: exitCode}
		return result, execshell.CommandFailedError{Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details}, Result: result}
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[key]}, nil
}

func (executor *scriptedGitExecutor) calls() []string {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	return append([]string(nil), executor.recorded...)
}

func (executor *scriptedGitExecutor) count(key string) int {
	occurrences := 0
	for _, recorded := range executor.calls() {
		if recorded == key {
			occurrences++
		}
	}
	return occurrences
}

func testDependencies(executor *scriptedGitExecutor, workspace stubWorkspace, prompter *recordingPrompter, notifier *recordingNotifier) CommandDependencies {
	return CommandDependencies{
		LoggerProvider:            func() *zap.Logger { return zap.NewNop() },
		GitExecutor:               executor,
		WorkspaceResolverProvider: func(*cobra.Command) WorkspaceResolver { return workspace },
		PrompterProvider:          func(*cobra.Command) ActionPrompter { return prompter },
		NotifierProvider:          func(*cobra.Command) Notifier { return notifier },
	}
}

func TestCheckCommandSwitchesWhenRequested(t *testing.T) {
	executor := &scriptedGitExecutor{
		outputs:  map[string]string{showCurrentArgumentsConstant: "feature/login\n"},
		failures: map[string]int{"checkout main": 1},
	}
	prompter := &recordingPrompter{selection: SwitchToMainActionLabel}
	notifier := &recordingNotifier{}

	builder := CheckCommandBuilder{CommandDependencies: testDependencies(executor, onRepository(), prompter, notifier)}
	command, err := builder.Build()
	require.NoError(t, err)
	command.SetContext(context.Background())

	require.NoError(t, command.RunE(command, nil))
	require.Equal(t, []string{probeArgumentsConstant, showCurrentArgumentsConstant, "checkout main", "checkout master"}, executor.calls())
	require.Len(t, prompter.messages, 1)
	require.Equal(t, []string{"Successfully switched to master branch!"}, notifier.information)
}

func TestCheckCommandIgnoresPlainDirectories(t *testing.T) {
	executor := &scriptedGitExecutor{failures: map[string]int{probeArgumentsConstant: 128}}
	prompter := &recordingPrompter{}

	builder := CheckCommandBuilder{CommandDependencies: testDependencies(executor, onRepository(), prompter, &recordingNotifier{})}
	command, err := builder.Build()
	require.NoError(t, err)

	require.NoError(t, command.RunE(command, nil))
	require.Equal(t, []string{probeArgumentsConstant}, executor.calls())
	require.Empty(t, prompter.messages)
}

func TestCheckCommandUsesDefaultTerminalSurface(t *testing.T) {
	executor := &scriptedGitExecutor{outputs: map[string]string{showCurrentArgumentsConstant: "develop\n"}}
	builder := CheckCommandBuilder{CommandDependencies: CommandDependencies{
		GitExecutor:               executor,
		WorkspaceResolverProvider: func(*cobra.Command) WorkspaceResolver { return onRepository() },
	}}
	command, err := builder.Build()
	require.NoError(t, err)

	output := &bytes.Buffer{}
	command.SetIn(strings.NewReader("1\n"))
	command.SetOut(output)

	require.NoError(t, command.RunE(command, nil))
	require.Contains(t, output.String(), `You are currently on branch "develop" instead of main/master.`)
	require.Contains(t, output.String(), "1) Switch to Main")
	require.Contains(t, output.String(), "Successfully switched to main branch!")
	require.Equal(t, 1, executor.count("checkout main"))
}

func TestSwitchCommandOutcomes(t *testing.T) {
	testCases := []struct {
		name              string
		workspace         stubWorkspace
		failures          map[string]int
		expectedError     error
		expectedCheckouts []string
	}{
		{name: "no_workspace", workspace: stubWorkspace{}, expectedError: ErrNoWorkspace},
		{name: "main", workspace: onRepository(), expectedCheckouts: []string{"checkout main"}},
		{name: "both_fail", workspace: onRepository(), failures: map[string]int{"checkout main": 1, "checkout master": 1}, expectedError: ErrSwitchFailed, expectedCheckouts: []string{"checkout main", "checkout master"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &scriptedGitExecutor{failures: testCase.failures}
			notifier := &recordingNotifier{}
			builder := SwitchCommandBuilder{CommandDependencies: testDependencies(executor, testCase.workspace, &recordingPrompter{}, notifier)}
			command, err := builder.Build()
			require.NoError(t, err)

			runError := command.RunE(command, nil)
			if testCase.expectedError != nil {
				require.ErrorIs(t, runError, testCase.expectedError)
			} else {
				require.NoError(t, runError)
			}
			require.Equal(t, testCase.expectedCheckouts, executor.calls())
		})
	}
}

type watchHarness struct {
	factory   *fakeTickerFactory
	executor  *scriptedGitExecutor
	onChange  func(CommandConfiguration)
	subscribe sync.WaitGroup
	cancel    context.CancelFunc
	done      chan error
}

func startWatch(t *testing.T, configuration CommandConfiguration, arguments ...string) *watchHarness {
	t.Helper()
	harness := &watchHarness{
		factory:  &fakeTickerFactory{},
		executor: &scriptedGitExecutor{failures: map[string]int{probeArgumentsConstant: 128}},
		done:     make(chan error, 1),
	}
	harness.subscribe.Add(1)

	builder := WatchCommandBuilder{
		CommandDependencies:   testDependencies(harness.executor, onRepository(), &recordingPrompter{}, &recordingNotifier{}),
		ConfigurationProvider: func() CommandConfiguration { return configuration },
		ConfigurationSubscriber: func(onChange func(CommandConfiguration)) error {
			harness.onChange = onChange
			harness.subscribe.Done()
			return nil
		},
		TickerFactory: harness.factory.create,
	}
	command, err := builder.Build()
	require.NoError(t, err)

	watchContext, cancel := context.WithCancel(context.Background())
	harness.cancel = cancel
	command.SetContext(watchContext)
	command.SetArgs(flagutils.NormalizeToggleArguments(arguments))

	go func() {
		harness.done <- command.Execute()
	}()
	harness.subscribe.Wait()
	return harness
}

func (harness *watchHarness) stop(t *testing.T) {
	t.Helper()
	harness.cancel()
	select {
	case runError := <-harness.done:
		require.NoError(t, runError)
	case <-time.After(testEventuallyTimeout):
		t.Fatal("watch did not stop")
	}
}

func TestWatchCommandChecksImmediatelyAndOnTicks(t *testing.T) {
	harness := startWatch(t, CommandConfiguration{Enabled: true, CheckInterval: CheckIntervalThirtySeconds})
	defer harness.stop(t)

	require.Eventually(t, func() bool { return harness.executor.count(probeArgumentsConstant) == 1 }, testEventuallyTimeout, testEventuallyTick)
	require.Equal(t, []time.Duration{30 * time.Second}, harness.factory.requestedIntervals())

	harness.factory.created()[0].ticks <- time.Now()
	require.Eventually(t, func() bool { return harness.executor.count(probeArgumentsConstant) == 2 }, testEventuallyTimeout, testEventuallyTick)
}

func TestWatchCommandRestartsOnRelevantConfigurationChanges(t *testing.T) {
	harness := startWatch(t, CommandConfiguration{Enabled: false, CheckInterval: CheckIntervalOneMinute})

	require.Empty(t, harness.factory.created())

	harness.onChange(CommandConfiguration{Enabled: true, CheckInterval: CheckIntervalFiveMinutes})
	harness.onChange(CommandConfiguration{Enabled: true, CheckInterval: CheckIntervalFiveMinutes})
	require.Equal(t, []time.Duration{5 * time.Minute}, harness.factory.requestedIntervals())
	require.Equal(t, 1, harness.factory.activeCount())

	harness.onChange(CommandConfiguration{Enabled: true, CheckInterval: CheckIntervalThirtySeconds})
	require.Equal(t, []time.Duration{5 * time.Minute, 30 * time.Second}, harness.factory.requestedIntervals())
	require.Equal(t, 1, harness.factory.activeCount())

	harness.onChange(CommandConfiguration{Enabled: false, CheckInterval: CheckIntervalThirtySeconds})
	require.Zero(t, harness.factory.activeCount())

	harness.stop(t)
	require.Zero(t, harness.factory.activeCount())
}

func TestWatchCommandFlagsOverrideConfiguration(t *testing.T) {
	harness := startWatch(t, CommandConfiguration{Enabled: false, CheckInterval: CheckIntervalFiveMinutes}, "--enabled", "yes", "--check-interval", "30sec")
	defer harness.stop(t)

	require.Equal(t, []time.Duration{30 * time.Second}, harness.factory.requestedIntervals())

	harness.onChange(CommandConfiguration{Enabled: false, CheckInterval: CheckIntervalOneMinute})
	require.Equal(t, []time.Duration{30 * time.Second}, harness.factory.requestedIntervals())
	require.Equal(t, 1, harness.factory.activeCount())
}

func TestWatchCommandRejectsUnknownIntervalFlag(t *testing.T) {
	builder := WatchCommandBuilder{CommandDependencies: testDependencies(&scriptedGitExecutor{}, stubWorkspace{}, &recordingPrompter{}, &recordingNotifier{})}
	command, err := builder.Build()
	require.NoError(t, err)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--check-interval", "10min"})

	require.ErrorContains(t, command.Execute(), "expected one of 30sec|1min|5min")
}
