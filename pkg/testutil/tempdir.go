package testutil

import (
	"os"
	"path/filepath"

	"src.scenar.sh/pkg/must"
)

// TempDir creates a temporary directory that is removed when the test
// finishes, and returns its path with symlinks resolved.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "scenartest"))
	c.Cleanup(func() { os.RemoveAll(dir) })
	return must.OK1(filepath.EvalSymlinks(dir))
}

// InTempDir is like TempDir, but also changes into the directory for the
// duration of the test.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	old := must.OK1(os.Getwd())
	must.OK(os.Chdir(dir))
	c.Cleanup(func() { must.OK(os.Chdir(old)) })
	return dir
}

// Setenv sets an environment variable for the duration of a test.
func Setenv(c Cleanuper, name, value string) string {
	old, existed := os.LookupEnv(name)
	os.Setenv(name, value)
	if existed {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	return value
}
