package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// Options configures the drop folder watcher behavior.
type Options struct {
	IgnorePatterns []string
	SettleDelay    time.Duration
	IgnoreHidden   bool
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 500 * time.Millisecond
	}

	// Set default ignore patterns if none specified (nil, not just empty).
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{
			".DS_Store",
			"*.tmp",
			"*.temp",
			"*.part",
			"Thumbs.db",
		}
		o.IgnoreHidden = true
	}
}

// shouldIgnore checks if a path matches ignore patterns.
func (o *Options) shouldIgnore(path string) bool {
	if o.IgnoreHidden {
		parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
		for _, part := range parts {
			if strings.HasPrefix(part, ".") && part != "." && part != ".." {
				return true
			}
		}
	}

	base := filepath.Base(path)
	for _, pattern := range o.IgnorePatterns {
		matched, err := filepath.Match(pattern, base)
		if err == nil && matched {
			return true
		}
	}

	return false
}
