// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle events,
// turning non-zero exit codes into CommandFailedError values so callers can
// branch on the exit status alone. OSCommandRunner is the os/exec backed
// default runner.
package execshell
