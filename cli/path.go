package cli

import (
	"os"
	"path/filepath"
	"sync"
)

// cacheDir returns the directory for transient files such as REPL history
// and profiles.
var cacheDir = sync.OnceValue(
	func() string {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".cache")
			} else {
				dir = os.TempDir()
			}
		}

		return filepath.Join(dir, Name)
	},
)

// historyPath is the default REPL history file.
func historyPath() string {
	return filepath.Join(cacheDir(), "history")
}
