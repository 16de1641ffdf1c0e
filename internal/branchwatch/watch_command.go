package branchwatch

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	flagutils "github.com/temirov/branch-notifier/internal/utils/flags"
)

const (
	watchCommandUseConstant                = "watch"
	watchCommandShortDescriptionConstant   = "Check the workspace branch periodically"
	watchCommandLongDescriptionConstant    = "watch checks the workspace branch immediately and then on the configured interval while notifier.enabled is set. Configuration file changes to the enabled flag or the interval restart the schedule. Interrupt to stop."
	watchCommandExampleConstant            = "branch-notifier watch --enabled --check-interval 5min"
	enabledFlagNameConstant                = "enabled"
	enabledFlagUsageConstant               = "Run periodic checks (overrides notifier.enabled)."
	checkIntervalFlagNameConstant          = "check-interval"
	checkIntervalFlagUsageConstant         = "How often to check (overrides notifier.check_interval)."
	watchStartedLogMessageConstant         = "watching workspace branch"
	watchDisabledLogMessageConstant        = "periodic checks are disabled; waiting for configuration changes"
	watchStoppedLogMessageConstant         = "stopped watching workspace branch"
	watchRestartLogMessageConstant         = "notifier settings changed; restarting schedule"
	watchSubscriptionFailedMessageConstant = "configuration changes will not be applied"
	logFieldEnabledConstant                = "enabled"
)

// ConfigurationSubscriber registers onChange to receive notifier settings after every configuration reload.
type ConfigurationSubscriber func(onChange func(CommandConfiguration)) error

// WatchCommandBuilder assembles the watch command.
type WatchCommandBuilder struct {
	CommandDependencies
	ConfigurationProvider   func() CommandConfiguration
	ConfigurationSubscriber ConfigurationSubscriber
	TickerFactory           TickerFactory
	// Signals end the watch. Defaults to interrupt and terminate.
	Signals []os.Signal
}

type watchFlagValues struct {
	enabled       bool
	checkInterval string
}

// Build constructs the watch command.
func (builder *WatchCommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &watchFlagValues{}
	command := &cobra.Command{
		Use:     watchCommandUseConstant,
		Short:   watchCommandShortDescriptionConstant,
		Long:    watchCommandLongDescriptionConstant,
		Example: watchCommandExampleConstant,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return builder.run(command, flagValues)
		},
	}

	flagutils.AddToggleFlag(command.Flags(), &flagValues.enabled, enabledFlagNameConstant, "", false, enabledFlagUsageConstant)
	flagutils.AddChoiceFlag(command.Flags(), &flagValues.checkInterval, checkIntervalFlagNameConstant, string(DefaultCheckInterval), CheckIntervalChoices(), checkIntervalFlagUsageConstant)

	return command, nil
}

func (builder *WatchCommandBuilder) run(command *cobra.Command, flagValues *watchFlagValues) error {
	logger := builder.resolveLogger()
	service, serviceError := builder.buildService(command, logger)
	if serviceError != nil {
		return serviceError
	}

	watchContext, stopWatching := signal.NotifyContext(commandContext(command), builder.resolveSignals()...)
	defer stopWatching()

	controller, controllerError := NewController(ControllerDependencies{
		Check: func(checkContext context.Context) {
			ReportCheckResult(logger, service.CheckCurrentBranch(checkContext))
		},
		TickerFactory: builder.TickerFactory,
		Logger:        logger,
	})
	if controllerError != nil {
		return controllerError
	}

	overrides := builder.flagOverrides(command, flagValues)
	appliedSettings := overrides.apply(builder.resolveConfiguration().Settings())

	controller.TriggerCheck(watchContext)
	controller.Start(watchContext, appliedSettings)
	logger.Info(watchStartedLogMessageConstant, zap.Bool(logFieldEnabledConstant, appliedSettings.Enabled), zap.Duration(logFieldIntervalConstant, controller.Interval()))
	if !appliedSettings.Enabled {
		logger.Info(watchDisabledLogMessageConstant)
	}

	if builder.ConfigurationSubscriber != nil {
		var settingsMutex sync.Mutex
		subscriptionError := builder.ConfigurationSubscriber(func(reloaded CommandConfiguration) {
			reloadedSettings := overrides.apply(reloaded.Settings())

			settingsMutex.Lock()
			defer settingsMutex.Unlock()
			if reloadedSettings == appliedSettings || watchContext.Err() != nil {
				return
			}
			logger.Info(watchRestartLogMessageConstant, zap.Bool(logFieldEnabledConstant, reloadedSettings.Enabled), zap.String(logFieldIntervalNameConstant, string(reloadedSettings.CheckInterval)))
			appliedSettings = reloadedSettings
			controller.Start(watchContext, reloadedSettings)
		})
		if subscriptionError != nil {
			logger.Info(watchSubscriptionFailedMessageConstant, zap.Error(subscriptionError))
		}
	}

	<-watchContext.Done()
	controller.Stop()
	logger.Info(watchStoppedLogMessageConstant)
	return nil
}

func (builder *WatchCommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *WatchCommandBuilder) resolveSignals() []os.Signal {
	if len(builder.Signals) > 0 {
		return builder.Signals
	}
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

type settingsOverrides struct {
	enabled       *bool
	checkInterval *CheckInterval
}

func (builder *WatchCommandBuilder) flagOverrides(command *cobra.Command, flagValues *watchFlagValues) settingsOverrides {
	var overrides settingsOverrides
	if command.Flags().Changed(enabledFlagNameConstant) {
		enabled := flagValues.enabled
		overrides.enabled = &enabled
	}
	if command.Flags().Changed(checkIntervalFlagNameConstant) {
		checkInterval := CheckInterval(flagValues.checkInterval)
		overrides.checkInterval = &checkInterval
	}
	return overrides
}

func (overrides settingsOverrides) apply(settings Settings) Settings {
	if overrides.enabled != nil {
		settings.Enabled = *overrides.enabled
	}
	if overrides.checkInterval != nil {
		settings.CheckInterval = *overrides.checkInterval
	}
	return settings
}
