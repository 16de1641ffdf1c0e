package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	flagutils "github.com/temirov/branch-notifier/internal/utils/flags"
)

const (
	initCommandUseConstant                = "init [local|user]"
	initCommandShortDescriptionConstant   = "Write the default configuration file"
	initCommandLongDescriptionTemplate    = "init writes the default configuration to ./config.yaml (local) or to the user configuration directory (user). Scope: %s"
	initScopeDescriptionConstant          = "where to write the configuration."
	initScopeLocalConstant                = "local"
	initScopeUserConstant                 = "user"
	initForceFlagNameConstant             = "force"
	initForceFlagUsageConstant            = "Overwrite an existing configuration file."
	initConfigurationFileNameConstant     = configurationNameConstant + "." + configurationTypeConstant
	initDirectoryPermissionsConstant      = 0o755
	initFilePermissionsConstant           = 0o644
	initSuccessMessageTemplateConstant    = "Wrote configuration to %s\n"
	initExistsErrorTemplateConstant       = "configuration file %s already exists; use --force to overwrite"
	initDirectoryErrorTemplateConstant    = "unable to create configuration directory %s: %w"
	initWriteErrorTemplateConstant        = "unable to write configuration file %s: %w"
	initUserDirectoryErrorTemplate        = "unable to determine user configuration directory: %w"
	initWorkingDirectoryErrorTemplate     = "unable to determine working directory: %w"
	initConfigurationWrittenLogMessage    = "configuration file written"
	initConfigurationPathLogFieldConstant = "path"
)

// ErrConfigurationFileExists indicates init refused to overwrite an existing configuration file.
var ErrConfigurationFileExists = errors.New("configuration file already exists")

// InitCommandBuilder assembles the init command.
type InitCommandBuilder struct {
	LoggerProvider func() *zap.Logger
	// UserConfigurationDirectory overrides os.UserConfigDir.
	UserConfigurationDirectory func() (string, error)
	// WorkingDirectory overrides os.Getwd.
	WorkingDirectory func() (string, error)
}

// Build constructs the init command.
func (builder *InitCommandBuilder) Build() (*cobra.Command, error) {
	var force bool
	command := &cobra.Command{
		Use:       initCommandUseConstant,
		Short:     initCommandShortDescriptionConstant,
		Long:      fmt.Sprintf(initCommandLongDescriptionTemplate, flagutils.FormatChoiceUsage(initScopeLocalConstant, []string{initScopeLocalConstant, initScopeUserConstant}, initScopeDescriptionConstant)),
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{initScopeLocalConstant, initScopeUserConstant},
		RunE: func(command *cobra.Command, arguments []string) error {
			scope := initScopeLocalConstant
			if len(arguments) > 0 {
				scope = strings.ToLower(strings.TrimSpace(arguments[0]))
			}
			return builder.run(command, scope, force)
		},
	}
	command.Flags().BoolVar(&force, initForceFlagNameConstant, false, initForceFlagUsageConstant)
	return command, nil
}

func (builder *InitCommandBuilder) run(command *cobra.Command, scope string, force bool) error {
	configurationPath, pathError := builder.resolveConfigurationPath(scope)
	if pathError != nil {
		return pathError
	}

	if !force {
		if _, statError := os.Stat(configurationPath); statError == nil {
			return fmt.Errorf("%w: %s", ErrConfigurationFileExists, fmt.Sprintf(initExistsErrorTemplateConstant, configurationPath))
		}
	}

	configurationDirectory := filepath.Dir(configurationPath)
	if mkdirError := os.MkdirAll(configurationDirectory, initDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(initDirectoryErrorTemplateConstant, configurationDirectory, mkdirError)
	}

	configurationContent, _ := EmbeddedDefaultConfiguration()
	if writeError := os.WriteFile(configurationPath, configurationContent, initFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(initWriteErrorTemplateConstant, configurationPath, writeError)
	}

	builder.resolveLogger().Debug(initConfigurationWrittenLogMessage, zap.String(initConfigurationPathLogFieldConstant, configurationPath))
	fmt.Fprintf(command.OutOrStdout(), initSuccessMessageTemplateConstant, configurationPath)
	return nil
}

func (builder *InitCommandBuilder) resolveConfigurationPath(scope string) (string, error) {
	if scope == initScopeUserConstant {
		userDirectoryProvider := builder.UserConfigurationDirectory
		if userDirectoryProvider == nil {
			userDirectoryProvider = os.UserConfigDir
		}
		userDirectory, userDirectoryError := userDirectoryProvider()
		if userDirectoryError != nil {
			return "", fmt.Errorf(initUserDirectoryErrorTemplate, userDirectoryError)
		}
		return filepath.Join(userDirectory, userConfigurationDirectoryNameConstant, initConfigurationFileNameConstant), nil
	}

	workingDirectoryProvider := builder.WorkingDirectory
	if workingDirectoryProvider == nil {
		workingDirectoryProvider = os.Getwd
	}
	workingDirectory, workingDirectoryError := workingDirectoryProvider()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(initWorkingDirectoryErrorTemplate, workingDirectoryError)
	}
	return filepath.Join(workingDirectory, initConfigurationFileNameConstant), nil
}

func (builder *InitCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}
