// Package ui provides the terminal surface of branch-notifier.
//
// ConsoleNotifier prints colored information, warning and error lines.
// NewActionPrompter picks an arrow-key menu on terminals and a numbered line
// prompt elsewhere. ConsoleCommandEventLogger turns git lifecycle events into
// readable log lines while structured telemetry flows through the executor.
package ui
