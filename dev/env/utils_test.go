package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPassthrough(t *testing.T) {
	path, err := ResolvePath("out/export.csv")
	require.Nil(t, err)
	require.Equal(t, "out/export.csv", path)
}

func TestResolvePathDevState(t *testing.T) {
	root, err := GetWorkspaceRoot()
	require.Nil(t, err)

	path, err := ResolvePath("<dev_state>/resty/scraper")
	require.Nil(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "resty", "scraper"), path)

	info, err := os.Stat(filepath.Join(root, "dev", ".state"))
	require.Nil(t, err)
	require.True(t, info.IsDir())
}

func TestIsWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	require.False(t, isWorkspaceRoot(dir))

	err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module diary-export\n\ngo 1.22\n"), 0600)
	require.Nil(t, err)
	require.True(t, isWorkspaceRoot(dir))
}
