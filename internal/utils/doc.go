// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader integrates Viper, embedded defaults, environment
// variables and file watching; LoggerFactory builds zap loggers;
// CommandContextAccessor carries per-invocation values through Cobra
// contexts; FlushingWriter keeps terminal output prompt.
package utils
