// Package branchwatch warns when the active workspace is not on main or master
// and offers to switch it back.
//
// Service performs single checks and switches and reports what happened as
// CheckResult and SwitchResult values. Controller runs checks on a schedule
// that can be replaced or stopped at any time. The check, switch and watch
// commands expose both on the command line.
package branchwatch
