// Package pathutils normalizes user supplied folder paths.
package pathutils
