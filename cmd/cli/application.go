package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/branch-notifier/internal/branchwatch"
	"github.com/temirov/branch-notifier/internal/utils"
	flagutils "github.com/temirov/branch-notifier/internal/utils/flags"
	"github.com/temirov/branch-notifier/internal/workspace"
)

const (
	applicationNameConstant                  = "branch-notifier"
	applicationShortDescriptionConstant      = "Warn when the workspace is not on main or master"
	applicationLongDescriptionConstant       = "branch-notifier checks the current git branch of your workspace and offers to switch back to main (or master) when you have wandered off."
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagUsageConstant                = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagUsageConstant               = "Override the configured log format (structured or console)."
	versionFlagNameConstant                  = "version"
	versionFlagUsageConstant                 = "Print the version and exit."
	versionOutputTemplateConstant            = "%s version: %s\n"
	developmentVersionConstant               = "dev"
	commonConfigurationKeyConstant           = "common"
	commonLogLevelConfigKeyConstant          = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant         = commonConfigurationKeyConstant + ".log_format"
	notifierConfigurationKeyConstant         = "notifier"
	workspaceFoldersConfigKeyConstant        = "workspace.folders"
	environmentPrefixConstant                = "BRANCHNOTIFIER"
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationInitializedMessageConstant  = "configuration initialized"
	configurationReloadedMessageConstant     = "configuration reloaded"
	configurationReloadFailedMessageConstant = "unable to apply reloaded configuration"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationFileFieldConstant           = "config_file"
	workspaceFoldersFieldConstant            = "workspace_folders"
	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant   = "."
	userConfigurationDirectoryNameConstant   = "branch-notifier"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration    `mapstructure:"common" yaml:"common"`
	Notifier  branchwatch.CommandConfiguration  `mapstructure:"notifier" yaml:"notifier"`
	Workspace ApplicationWorkspaceConfiguration `mapstructure:"workspace" yaml:"workspace"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// ApplicationWorkspaceConfiguration lists the project folders. Only the first one is inspected.
type ApplicationWorkspaceConfiguration struct {
	Folders []string `mapstructure:"folders" yaml:"folders"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	versionFlagValue       bool
	commandContextAccessor utils.CommandContextAccessor
	launchDirectory        string
	workspaceResolver      *workspace.Resolver
	versionResolver        func(context.Context) string
	exitFunction           func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	launchDirectory, launchDirectoryError := os.Getwd()
	if launchDirectoryError != nil {
		launchDirectory = ""
	}

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		launchDirectory:        launchDirectory,
		workspaceResolver:      workspace.NewResolver(workspace.ResolverOptions{BaseDirectory: launchDirectory, FallbackFolder: launchDirectory}),
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if application.versionFlagValue {
				application.printVersion(command)
			}
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	flagutils.AddToggleFlag(cobraCommand.PersistentFlags(), &application.versionFlagValue, versionFlagNameConstant, "", false, versionFlagUsageConstant)

	commandDependencies := branchwatch.CommandDependencies{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		WorkspaceResolverProvider: func(*cobra.Command) branchwatch.WorkspaceResolver {
			return application.workspaceResolver
		},
	}

	checkBuilder := branchwatch.CheckCommandBuilder{CommandDependencies: commandDependencies}
	if checkCommand, checkBuildError := checkBuilder.Build(); checkBuildError == nil {
		cobraCommand.AddCommand(checkCommand)
	}

	switchBuilder := branchwatch.SwitchCommandBuilder{CommandDependencies: commandDependencies}
	if switchCommand, switchBuildError := switchBuilder.Build(); switchBuildError == nil {
		cobraCommand.AddCommand(switchCommand)
	}

	watchBuilder := branchwatch.WatchCommandBuilder{
		CommandDependencies: commandDependencies,
		ConfigurationProvider: func() branchwatch.CommandConfiguration {
			return application.configuration.Notifier
		},
		ConfigurationSubscriber: application.subscribeToConfigurationChanges,
	}
	if watchCommand, watchBuildError := watchBuilder.Build(); watchBuildError == nil {
		cobraCommand.AddCommand(watchCommand)
	}

	initBuilder := InitCommandBuilder{LoggerProvider: func() *zap.Logger { return application.logger }}
	if initCommand, initBuildError := initBuilder.Build(); initBuildError == nil {
		cobraCommand.AddCommand(initCommand)
	}

	configBuilder := ConfigCommandBuilder{ConfigurationProvider: func() ApplicationConfiguration { return application.configuration }}
	if configCommand, configBuildError := configBuilder.Build(); configBuildError == nil {
		cobraCommand.AddCommand(configCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	application.rootCommand.SetArgs(flagutils.NormalizeToggleArguments(os.Args[1:]))
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) defaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:   string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:  string(utils.LogFormatStructured),
		workspaceFoldersConfigKeyConstant: []string{},
	}
	for configurationKey, configurationValue := range branchwatch.DefaultConfigurationValues(notifierConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	return defaultValues
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, application.defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger
	application.workspaceResolver.ReplaceFolders(application.configuration.Workspace.Folders)

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(workspaceFoldersFieldConstant, application.workspaceResolver.Folders()),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithLaunchDirectory(updatedContext, application.launchDirectory)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) subscribeToConfigurationChanges(onChange func(branchwatch.CommandConfiguration)) error {
	_, watchError := application.configurationLoader.WatchConfiguration(
		application.configurationFilePath,
		application.defaultConfigurationValues(),
		func(changedFilePath string, decode utils.ConfigurationDecoder) {
			var reloadedConfiguration ApplicationConfiguration
			if decodeError := decode(&reloadedConfiguration); decodeError != nil {
				application.logger.Warn(configurationReloadFailedMessageConstant, zap.String(configurationFileFieldConstant, changedFilePath), zap.Error(decodeError))
				return
			}

			application.workspaceResolver.ReplaceFolders(reloadedConfiguration.Workspace.Folders)
			application.logger.Info(
				configurationReloadedMessageConstant,
				zap.String(configurationFileFieldConstant, changedFilePath),
				zap.Strings(workspaceFoldersFieldConstant, application.workspaceResolver.Folders()),
			)
			onChange(reloadedConfiguration.Notifier)
		},
	)
	return watchError
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) printVersion(command *cobra.Command) {
	executionContext := context.Background()
	if command != nil && command.Context() != nil {
		executionContext = command.Context()
	}
	fmt.Fprintf(os.Stdout, versionOutputTemplateConstant, applicationNameConstant, application.versionResolver(executionContext))
	application.exitFunction(0)
}

func resolveBuildVersion(context.Context) string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 || buildInformation.Main.Version == "(devel)" {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
