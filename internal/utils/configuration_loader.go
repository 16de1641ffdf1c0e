package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	configurationFileRequiredMessageConstant        = "configuration file is required to watch for changes"
	stringSliceSeparatorConstant                    = ","
)

// ErrConfigurationFileRequired indicates WatchConfiguration was asked to watch without a resolved file.
var ErrConfigurationFileRequired = errors.New(configurationFileRequiredMessageConstant)

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// ConfigurationDecoder fills targetConfiguration from the most recently read configuration state.
type ConfigurationDecoder func(targetConfiguration any) error

// ConfigurationChangeHandler is invoked after the watched configuration file changed on disk.
type ConfigurationChangeHandler func(changedFilePath string, decode ConfigurationDecoder)

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	duplicatedSearchPaths := make([]string, len(searchPaths))
	copy(duplicatedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      environmentPrefix,
		searchPaths:            duplicatedSearchPaths,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// SetEmbeddedConfiguration stores embedded configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = nil
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
	if len(configurationData) == 0 {
		return
	}

	duplicatedData := make([]byte, len(configurationData))
	copy(duplicatedData, configurationData)
	loader.embeddedConfiguration = duplicatedData
}

// LoadConfiguration populates targetConfiguration using configuration files, defaults, and environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance, readError := loader.readConfiguration(configurationFilePath, defaultValues)
	if readError != nil {
		return LoadedConfiguration{}, readError
	}

	if unmarshalError := decodeConfiguration(viperInstance, targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, unmarshalError
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

// WatchConfiguration resolves the configuration the same way LoadConfiguration does and invokes
// changeHandler every time the resolved file changes. Watching lasts for the life of the process.
func (loader *ConfigurationLoader) WatchConfiguration(configurationFilePath string, defaultValues map[string]any, changeHandler ConfigurationChangeHandler) (LoadedConfiguration, error) {
	viperInstance, readError := loader.readConfiguration(configurationFilePath, defaultValues)
	if readError != nil {
		return LoadedConfiguration{}, readError
	}

	configurationFileUsed := viperInstance.ConfigFileUsed()
	if len(configurationFileUsed) == 0 {
		return LoadedConfiguration{}, ErrConfigurationFileRequired
	}

	viperInstance.OnConfigChange(func(changeEvent fsnotify.Event) {
		if changeHandler == nil {
			return
		}
		changeHandler(changeEvent.Name, func(targetConfiguration any) error {
			return decodeConfiguration(viperInstance, targetConfiguration)
		})
	})
	viperInstance.WatchConfig()

	return LoadedConfiguration{ConfigFileUsed: configurationFileUsed}, nil
}

func (loader *ConfigurationLoader) readConfiguration(configurationFilePath string, defaultValues map[string]any) (*viper.Viper, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if len(loader.embeddedConfiguration) > 0 {
		configurationType := loader.configurationType
		if len(loader.embeddedConfigurationType) > 0 {
			configurationType = loader.embeddedConfigurationType
		}
		viperInstance.SetConfigType(configurationType)
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
			return nil, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}
		viperInstance.SetConfigType(loader.configurationType)
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	if loader.environmentKeyReplacer != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	}
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return nil, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	return viperInstance, nil
}

func decodeConfiguration(viperInstance *viper.Viper, targetConfiguration any) error {
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(stringSliceSeparatorConstant),
	))

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook); unmarshalError != nil {
		return fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}
	return nil
}
