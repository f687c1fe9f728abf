package hosts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/stretchr/testify/require"
)

func writeHosts(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mustName(t *testing.T, s string) dnsname.Name {
	t.Helper()
	n, err := dnsname.Parse(s, dnsname.Root)
	require.NoError(t, err)
	return n
}

func TestFileParserResolvesV4AndV6(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n::1 localhost ip6-localhost\n10.0.0.1 db.internal db\n")
	p, err := NewFileParser(path)
	require.NoError(t, err)

	ip, ok := p.Lookup(mustName(t, "localhost."), 1)
	require.True(t, ok)
	require.Equal(t, "127.0.0.1", ip.String())

	ip, ok = p.Lookup(mustName(t, "localhost."), 28)
	require.True(t, ok)
	require.Equal(t, "::1", ip.String())

	ip, ok = p.Lookup(mustName(t, "db."), 1)
	require.True(t, ok)
	require.Equal(t, "10.0.0.1", ip.String())
}

func TestFileParserIgnoresCommentsAndBlankLines(t *testing.T) {
	path := writeHosts(t, "# a comment\n\n192.0.2.1 host.example.com. # trailing comment\n")
	p, err := NewFileParser(path)
	require.NoError(t, err)

	ip, ok := p.Lookup(mustName(t, "host.example.com."), 1)
	require.True(t, ok)
	require.Equal(t, "192.0.2.1", ip.String())
}

func TestFileParserMissReturnsFalse(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n")
	p, err := NewFileParser(path)
	require.NoError(t, err)

	_, ok := p.Lookup(mustName(t, "nowhere.example."), 1)
	require.False(t, ok)
}

func TestFileParserNonAddressTypeAlwaysMisses(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n")
	p, err := NewFileParser(path)
	require.NoError(t, err)

	_, ok := p.Lookup(mustName(t, "localhost."), 16) // TXT
	require.False(t, ok)
}

func TestFileParserMissingFile(t *testing.T) {
	_, err := NewFileParser(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestFileParserReload(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n")
	p, err := NewFileParser(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("127.0.0.1 localhost\n10.0.0.9 added.example.\n"), 0o644))
	require.NoError(t, p.Reload())

	ip, ok := p.Lookup(mustName(t, "added.example."), 1)
	require.True(t, ok)
	require.Equal(t, "10.0.0.9", ip.String())
}
