package pathutils

import (
	"path/filepath"
	"strings"
)

// FolderNormalizer turns configured workspace folder entries into clean absolute paths.
type FolderNormalizer struct {
	homeExpander *HomeExpander
}

// NewFolderNormalizer constructs a FolderNormalizer. A nil expander uses the operating system home lookup.
func NewFolderNormalizer(homeExpander *HomeExpander) *FolderNormalizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &FolderNormalizer{homeExpander: homeExpander}
}

// Normalize trims, expands and cleans candidateFolders, resolving relative entries against
// baseDirectory. Blank entries and duplicates are dropped while preserving order.
// Nil is returned when nothing remains.
func (normalizer *FolderNormalizer) Normalize(baseDirectory string, candidateFolders []string) []string {
	var normalizedFolders []string
	seenFolders := make(map[string]struct{}, len(candidateFolders))

	for _, candidateFolder := range candidateFolders {
		trimmedFolder := strings.TrimSpace(candidateFolder)
		if len(trimmedFolder) == 0 {
			continue
		}

		resolvedFolder := normalizer.homeExpander.Expand(trimmedFolder)
		if !filepath.IsAbs(resolvedFolder) && len(strings.TrimSpace(baseDirectory)) > 0 {
			resolvedFolder = filepath.Join(strings.TrimSpace(baseDirectory), resolvedFolder)
		}
		resolvedFolder = filepath.Clean(resolvedFolder)

		if _, seen := seenFolders[resolvedFolder]; seen {
			continue
		}
		seenFolders[resolvedFolder] = struct{}{}
		normalizedFolders = append(normalizedFolders, resolvedFolder)
	}

	return normalizedFolders
}
