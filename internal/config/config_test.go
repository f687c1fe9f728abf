package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search_path: [\"corp.example.\"]\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"corp.example."}, f.SearchPath)
	require.Equal(t, 8, f.MaxRedirects)
	require.Equal(t, 1, f.Ndots)
	require.Equal(t, "/etc/hosts", f.HostsPath)
	require.Equal(t, 5*time.Second, f.Timeout)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolver.yaml")
	content := "max_redirects: 3\nndots: 2\nhosts_path: /tmp/hosts\ncycle_results: true\nupstreams: [\"1.1.1.1:53\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, f.MaxRedirects)
	require.Equal(t, 2, f.Ndots)
	require.Equal(t, "/tmp/hosts", f.HostsPath)
	require.True(t, f.CycleResults)
	require.Equal(t, []string{"1.1.1.1:53"}, f.Upstreams)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
