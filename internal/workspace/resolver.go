package workspace

import (
	"sync"

	pathutils "github.com/temirov/branch-notifier/internal/utils/path"
)

// Resolver tracks the configured workspace folders and reports the active one.
// Folders may be replaced at any time, for example after a configuration reload;
// every ActiveFolder call observes the latest replacement.
type Resolver struct {
	normalizer      *pathutils.FolderNormalizer
	baseDirectory   string
	fallbackFolder  string
	folderListGuard sync.RWMutex
	folders         []string
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// BaseDirectory anchors relative folder entries.
	BaseDirectory string
	// FallbackFolder is reported when no folder is configured. Empty means no workspace.
	FallbackFolder string
	// Folders holds the initially configured folders.
	Folders []string
	// HomeExpander overrides the home directory lookup used for "~" entries.
	HomeExpander *pathutils.HomeExpander
}

// NewResolver constructs a Resolver from options.
func NewResolver(options ResolverOptions) *Resolver {
	resolver := &Resolver{
		normalizer:     pathutils.NewFolderNormalizer(options.HomeExpander),
		baseDirectory:  options.BaseDirectory,
		fallbackFolder: options.FallbackFolder,
	}
	resolver.ReplaceFolders(options.Folders)
	return resolver
}

// ReplaceFolders swaps the configured folder list.
func (resolver *Resolver) ReplaceFolders(folders []string) {
	normalizedFolders := resolver.normalizer.Normalize(resolver.baseDirectory, folders)

	resolver.folderListGuard.Lock()
	defer resolver.folderListGuard.Unlock()
	resolver.folders = normalizedFolders
}

// Folders returns a copy of the normalized folder list.
func (resolver *Resolver) Folders() []string {
	resolver.folderListGuard.RLock()
	defer resolver.folderListGuard.RUnlock()
	if len(resolver.folders) == 0 {
		return nil
	}
	return append([]string(nil), resolver.folders...)
}

// ActiveFolder returns the first configured folder, or the fallback folder when none is configured.
// The boolean is false when neither is available.
func (resolver *Resolver) ActiveFolder() (string, bool) {
	resolver.folderListGuard.RLock()
	defer resolver.folderListGuard.RUnlock()

	if len(resolver.folders) > 0 {
		return resolver.folders[0], true
	}
	if len(resolver.fallbackFolder) > 0 {
		return resolver.fallbackFolder, true
	}
	return "", false
}
