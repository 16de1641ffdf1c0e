package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	configCommandUseConstant              = "config"
	configCommandShortDescriptionConstant = "Print the effective configuration"
	configCommandLongDescriptionConstant  = "config prints the configuration after embedded defaults, the configuration file, environment variables and flags have been applied."
	configEncodeErrorTemplateConstant     = "unable to render configuration: %w"
	yamlIndentConstant                    = 2
)

// ConfigCommandBuilder assembles the config command.
type ConfigCommandBuilder struct {
	ConfigurationProvider func() ApplicationConfiguration
}

// Build constructs the config command.
func (builder *ConfigCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   configCommandUseConstant,
		Short: configCommandShortDescriptionConstant,
		Long:  configCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *ConfigCommandBuilder) run(command *cobra.Command, _ []string) error {
	var configuration ApplicationConfiguration
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if configuration.Workspace.Folders == nil {
		configuration.Workspace.Folders = []string{}
	}

	encoder := yaml.NewEncoder(command.OutOrStdout())
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(configuration); encodeError != nil {
		return fmt.Errorf(configEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(configEncodeErrorTemplateConstant, closeError)
	}
	return nil
}
