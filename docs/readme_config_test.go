package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branch-notifier/cmd/cli"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	unknownKeyMessageTemplate        = "README example uses key %s missing from the default configuration"
)

func extractReadmeConfiguration(testInstance *testing.T) string {
	testInstance.Helper()
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	contentBytes, readError := os.ReadFile(filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant))
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	fenceEndRelativeIndex := strings.Index(contentText[headerIndex:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : headerIndex+fenceEndRelativeIndex])
}

func TestReadmeConfigurationParses(testInstance *testing.T) {
	snippet := extractReadmeConfiguration(testInstance)

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippet), &configuration))

	require.True(testInstance, configuration.Notifier.Enabled)
	require.True(testInstance, configuration.Notifier.CheckInterval.Recognized())
	require.NotEmpty(testInstance, configuration.Workspace.Folders)
	require.NotEmpty(testInstance, configuration.Common.LogLevel)
}

func TestReadmeConfigurationMatchesDefaultKeys(testInstance *testing.T) {
	snippet := extractReadmeConfiguration(testInstance)
	embeddedContent, _ := cli.EmbeddedDefaultConfiguration()

	var readmeSections map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippet), &readmeSections))
	var defaultSections map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal(embeddedContent, &defaultSections))

	for sectionName, sectionValues := range readmeSections {
		defaultValues, sectionKnown := defaultSections[sectionName]
		require.Truef(testInstance, sectionKnown, unknownKeyMessageTemplate, sectionName)
		for keyName := range sectionValues {
			_, keyKnown := defaultValues[keyName]
			require.Truef(testInstance, keyKnown, unknownKeyMessageTemplate, sectionName+"."+keyName)
		}
	}
}
