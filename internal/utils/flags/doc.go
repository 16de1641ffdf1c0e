// Package flags provides pflag values shared by the branch-notifier commands:
// yes/no toggles and closed-set choices with self-describing usage strings.
package flags
