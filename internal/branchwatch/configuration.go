package branchwatch

const (
	enabledConfigurationKeyConstant       = "enabled"
	checkIntervalConfigurationKeyConstant = "check_interval"
	configurationKeySeparatorConstant     = "."
)

// CommandConfiguration captures the notifier settings read from configuration.
type CommandConfiguration struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	CheckInterval CheckInterval `mapstructure:"check_interval" yaml:"check_interval"`
}

// DefaultCommandConfiguration provides baseline notifier settings: disabled, checking every minute.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Enabled:       false,
		CheckInterval: DefaultCheckInterval,
	}
}

// DefaultConfigurationValues returns Viper defaults for the notifier settings under keyPrefix.
func DefaultConfigurationValues(keyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		keyPrefix + configurationKeySeparatorConstant + enabledConfigurationKeyConstant:       defaults.Enabled,
		keyPrefix + configurationKeySeparatorConstant + checkIntervalConfigurationKeyConstant: string(defaults.CheckInterval),
	}
}

// Sanitize fills a blank interval with the default. Other values are kept as written.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.CheckInterval = normalizeCheckInterval(configuration.CheckInterval)
	return sanitized
}

// Settings converts the configuration into schedule settings.
func (configuration CommandConfiguration) Settings() Settings {
	sanitized := configuration.Sanitize()
	return Settings{Enabled: sanitized.Enabled, CheckInterval: sanitized.CheckInterval}
}
