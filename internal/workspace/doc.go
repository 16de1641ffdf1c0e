// Package workspace resolves the project folder the branch watcher inspects.
// Only the first configured folder is ever active.
package workspace
