package lookup

import (
	"testing"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/stretchr/testify/require"
)

func relativeName(t *testing.T, text string) dnsname.Name {
	t.Helper()
	n, err := dnsname.Parse(text, dnsname.Name{})
	require.NoError(t, err)
	require.False(t, n.IsAbsolute())
	return n
}

func TestExpandNameAbsoluteIsSoleCandidate(t *testing.T) {
	abs := mustName(t, "www.example.com.")
	suffix := mustName(t, "corp.example.")
	got := expandName(abs, 1, []dnsname.Name{suffix})
	require.Equal(t, []dnsname.Name{abs}, got)
}

func TestExpandNameAbsoluteFirstWhenAboveNdots(t *testing.T) {
	name := relativeName(t, "www.corp")
	suffix := mustName(t, "example.com.")
	got := expandName(name, 1, []dnsname.Name{suffix})
	require.Len(t, got, 2)
	require.True(t, got[0].Equal(mustName(t, "www.corp.")))
	require.True(t, got[1].Equal(mustName(t, "www.corp.example.com.")))
}

func TestExpandNameAbsoluteLastWhenAtOrBelowNdots(t *testing.T) {
	name := relativeName(t, "host")
	suffix := mustName(t, "corp.example.")
	got := expandName(name, 1, []dnsname.Name{suffix})
	require.Len(t, got, 2)
	require.True(t, got[0].Equal(mustName(t, "host.corp.example.")))
	require.True(t, got[1].Equal(mustName(t, "host.")))
}

func TestExpandNameSkipsOverlongConcatenation(t *testing.T) {
	name := relativeName(t, "host")
	longLabel := make([]byte, 62)
	for i := range longLabel {
		longLabel[i] = 'a'
	}
	var text string
	for i := 0; i < 4; i++ {
		text += string(longLabel) + "."
	}
	oversized := mustName(t, text)
	got := expandName(name, 1, []dnsname.Name{oversized})
	// the oversized suffix concatenation overruns 255 octets and is
	// dropped; only the rooted candidate survives.
	require.Len(t, got, 1)
	require.True(t, got[0].Equal(mustName(t, "host.")))
}

func TestExpandNameNoSearchPath(t *testing.T) {
	name := relativeName(t, "host")
	got := expandName(name, 1, nil)
	require.Len(t, got, 1)
	require.True(t, got[0].Equal(mustName(t, "host.")))
}
