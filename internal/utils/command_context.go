package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	launchDirectoryContextKeyConstant       = commandContextKey("launchDirectory")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the resolved configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return accessor.withString(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return accessor.lookupString(executionContext, configurationFilePathContextKeyConstant)
}

// WithLaunchDirectory attaches the directory the CLI was started from.
func (accessor CommandContextAccessor) WithLaunchDirectory(parentContext context.Context, launchDirectory string) context.Context {
	return accessor.withString(parentContext, launchDirectoryContextKeyConstant, launchDirectory)
}

// LaunchDirectory extracts the directory the CLI was started from.
func (accessor CommandContextAccessor) LaunchDirectory(executionContext context.Context) (string, bool) {
	return accessor.lookupString(executionContext, launchDirectoryContextKeyConstant)
}

func (accessor CommandContextAccessor) withString(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func (accessor CommandContextAccessor) lookupString(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	if !available || len(value) == 0 {
		return "", false
	}
	return value, true
}
