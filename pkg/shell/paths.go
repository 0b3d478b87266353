package shell

import (
	"errors"
	"os"
	"path/filepath"
)

var errNoHome = errors.New("cannot determine home directory")

// RCPath returns the path of rc.yaml, read before running scripts.
func RCPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "scenar", "rc.yaml"), nil
}

// DBPath returns the path of the history database. The directory containing
// it is created if needed.
func DBPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return "", errNoHome
		}
		dir = filepath.Join(home, ".local", "state")
	}
	dir = filepath.Join(dir, "scenar")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "db.bolt"), nil
}
