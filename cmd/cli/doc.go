// Package cli constructs the branch-notifier command-line interface, wiring
// the Cobra command hierarchy, the Viper configuration loader with hot reload,
// and zap logging around the branch watcher commands.
package cli
