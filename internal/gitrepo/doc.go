// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// RepositoryManager answers the three questions the branch watcher asks of a
// working copy: is it a repository, which branch is checked out, and can it
// be switched to another branch.
package gitrepo
