package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationTemplateConstant = `common:
  log_level: %s
  log_format: console
notifier:
  enabled: true
  check_interval: 30sec
workspace:
  folders:
    - %s
`
)

func newIsolatedApplication(t *testing.T) *Application {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return NewApplication()
}

func executeApplication(t *testing.T, application *Application, input string, arguments ...string) (string, error) {
	t.Helper()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetIn(strings.NewReader(input))
	application.rootCommand.SetArgs(arguments)
	executionError := application.rootCommand.Execute()
	return outputBuffer.String(), executionError
}

func writeConfigurationFile(t *testing.T, logLevel string, folder string) string {
	t.Helper()
	configurationPath := filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
	content := fmt.Sprintf(testConfigurationTemplateConstant, logLevel, folder)
	require.NoError(t, os.WriteFile(configurationPath, []byte(content), 0o644))
	return configurationPath
}

func TestConfigCommandPrintsEmbeddedDefaults(t *testing.T) {
	application := newIsolatedApplication(t)

	output, err := executeApplication(t, application, "", "config")
	require.NoError(t, err)
	require.Contains(t, output, "log_level: info")
	require.Contains(t, output, "log_format: structured")
	require.Contains(t, output, "enabled: false")
	require.Contains(t, output, "check_interval: 1min")
	require.Contains(t, output, "folders: []")
}

func TestConfigCommandAppliesConfigurationFile(t *testing.T) {
	application := newIsolatedApplication(t)
	configurationPath := writeConfigurationFile(t, "warn", "/srv/project")

	output, err := executeApplication(t, application, "", "config", "--config", configurationPath)
	require.NoError(t, err)
	require.Contains(t, output, "log_level: warn")
	require.Contains(t, output, "enabled: true")
	require.Contains(t, output, "check_interval: 30sec")
	require.Contains(t, output, "- /srv/project")
	require.Equal(t, configurationPath, application.configurationMetadata.ConfigFileUsed)
	require.Equal(t, []string{"/srv/project"}, application.workspaceResolver.Folders())
}

func TestEnvironmentOverridesNotifierSettings(t *testing.T) {
	application := newIsolatedApplication(t)
	t.Setenv("BRANCHNOTIFIER_NOTIFIER_ENABLED", "true")
	t.Setenv("BRANCHNOTIFIER_NOTIFIER_CHECK_INTERVAL", "5min")

	_, err := executeApplication(t, application, "", "config")
	require.NoError(t, err)
	require.True(t, application.configuration.Notifier.Enabled)
	require.Equal(t, "5min", string(application.configuration.Notifier.CheckInterval))
}

func TestLogFlagsOverrideConfiguration(t *testing.T) {
	application := newIsolatedApplication(t)
	configurationPath := writeConfigurationFile(t, "warn", "/srv/project")

	output, err := executeApplication(t, application, "", "--log-level", "debug", "--log-format", "structured", "config", "--config", configurationPath)
	require.NoError(t, err)
	require.Contains(t, output, "log_level: debug")
	require.False(t, application.humanReadableLoggingEnabled())
}

func TestInvalidLogLevelFailsInitialization(t *testing.T) {
	application := newIsolatedApplication(t)

	_, err := executeApplication(t, application, "", "--log-level", "verbose", "config")
	require.ErrorContains(t, err, "unsupported log level")
}

func TestHumanReadableLoggingFollowsConsoleFormat(t *testing.T) {
	application := newIsolatedApplication(t)
	configurationPath := writeConfigurationFile(t, "info", "/srv/project")

	_, err := executeApplication(t, application, "", "config", "--config", configurationPath)
	require.NoError(t, err)
	require.True(t, application.humanReadableLoggingEnabled())
}

func TestUnknownCheckIntervalFlagIsRejected(t *testing.T) {
	application := newIsolatedApplication(t)

	_, err := executeApplication(t, application, "", "watch", "--check-interval", "10min")
	require.ErrorContains(t, err, "invalid value")
}

func runGit(t *testing.T, repositoryPath string, arguments ...string) string {
	t.Helper()
	command := exec.Command("git", append([]string{"-c", "user.name=Branch Notifier", "-c", "user.email=notifier@example.com", "-c", "commit.gpgsign=false"}, arguments...)...)
	command.Dir = repositoryPath
	output, err := command.CombinedOutput()
	require.NoError(t, err, string(output))
	return strings.TrimSpace(string(output))
}

func initializeFeatureRepository(t *testing.T) string {
	t.Helper()
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		t.Skip("git not available")
	}

	repositoryPath := t.TempDir()
	runGit(t, repositoryPath, "init", "--quiet")
	runGit(t, repositoryPath, "symbolic-ref", "HEAD", "refs/heads/main")
	runGit(t, repositoryPath, "commit", "--quiet", "--allow-empty", "-m", "initial")
	runGit(t, repositoryPath, "checkout", "--quiet", "-b", "feature/login")
	return repositoryPath
}

func TestCheckCommandSwitchesRealRepositoryToMain(t *testing.T) {
	repositoryPath := initializeFeatureRepository(t)
	application := newIsolatedApplication(t)
	configurationPath := writeConfigurationFile(t, "error", repositoryPath)

	output, err := executeApplication(t, application, "1\n", "check", "--config", configurationPath)
	require.NoError(t, err)
	require.Contains(t, output, "You are currently on branch \"feature/login\" instead of main/master.")
	require.Contains(t, output, "Successfully switched to main branch!")
	require.Equal(t, "main", runGit(t, repositoryPath, "branch", "--show-current"))
}

func TestCheckCommandDismissalLeavesRealRepositoryUntouched(t *testing.T) {
	repositoryPath := initializeFeatureRepository(t)
	application := newIsolatedApplication(t)
	configurationPath := writeConfigurationFile(t, "error", repositoryPath)

	output, err := executeApplication(t, application, "2\n", "check", "--config", configurationPath)
	require.NoError(t, err)
	require.Contains(t, output, "feature/login")
	require.NotContains(t, output, "Successfully switched")
	require.Equal(t, "feature/login", runGit(t, repositoryPath, "branch", "--show-current"))
}

func TestCheckCommandIgnoresPlainDirectory(t *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		t.Skip("git not available")
	}
	plainDirectory := t.TempDir()
	application := newIsolatedApplication(t)
	configurationPath := writeConfigurationFile(t, "error", plainDirectory)

	output, err := executeApplication(t, application, "", "check", "--config", configurationPath)
	require.NoError(t, err)
	require.Empty(t, output)
}
