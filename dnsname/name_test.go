package dnsname

import (
	"testing"

	"github.com/dnsscience/goresolver/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Name {
	t.Helper()
	n, err := Parse(s, Root)
	require.NoError(t, err)
	return n
}

func TestEqualCaseInsensitiveASCII(t *testing.T) {
	a := mustParse(t, "WWW.Example.com.")
	b := mustParse(t, "www.example.com.")
	assert.True(t, a.Equal(b))
}

func TestEqualNonASCIIByteExact(t *testing.T) {
	n1, err := New([]string{"caf\xe9"}, true)
	require.NoError(t, err)
	n2, err := New([]string{"caf\xc9"}, true)
	require.NoError(t, err)
	assert.False(t, n1.Equal(n2))
}

func TestSubdomain(t *testing.T) {
	a := mustParse(t, "www.example.com.")
	b := mustParse(t, "example.com.")
	assert.True(t, a.Subdomain(b))
	assert.True(t, b.Subdomain(b))
	assert.False(t, b.Subdomain(a))
}

func TestIsWildcard(t *testing.T) {
	assert.True(t, mustParse(t, "*.example.com.").IsWildcard())
	assert.False(t, mustParse(t, "www.example.com.").IsWildcard())
}

func TestConcatRejectsOverlong(t *testing.T) {
	label, err := New([]string{stringOfLen(63)}, false)
	require.NoError(t, err)
	suffix := Root
	for i := 0; i < 3; i++ {
		suffix, err = Concat(label, suffix)
		require.NoError(t, err)
	}
	_, err = Concat(label, suffix)
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return string(b)
}

func TestFromDNAME(t *testing.T) {
	self := mustParse(t, "x.old.example.")
	owner := mustParse(t, "old.example.")
	target := mustParse(t, "new.example.")
	got, err := FromDNAME(self, owner, target)
	require.NoError(t, err)
	assert.True(t, got.Equal(mustParse(t, "x.new.example.")))
}

func TestFromDNAMENotSubdomain(t *testing.T) {
	self := mustParse(t, "x.other.example.")
	owner := mustParse(t, "old.example.")
	target := mustParse(t, "new.example.")
	_, err := FromDNAME(self, owner, target)
	assert.Error(t, err)
}

// round-trip: parse(serialize-canonical(N)) == N
func TestRoundTripCanonical(t *testing.T) {
	names := []string{".", "example.com.", "a.b.c.example.org.", "*.example.com."}
	for _, s := range names {
		n := mustParse(t, s)
		b := wire.NewWriter()
		require.NoError(t, n.WriteCanonical(b))
		rb := wire.NewBuffer(b.Bytes())
		got, err := ParseWire(rb)
		require.NoError(t, err)
		assert.True(t, n.Equal(got), "round trip mismatch for %q", s)
	}
}

// round-trip with compression: two names sharing a suffix compress, and both
// decode back to their original value.
func TestRoundTripCompressed(t *testing.T) {
	a := mustParse(t, "www.example.com.")
	b := mustParse(t, "mail.example.com.")

	w := wire.NewWriter()
	ctx := NewCompressionContext()
	require.NoError(t, a.WriteCompressed(w, ctx))
	aEnd := w.Pos()
	require.NoError(t, b.WriteCompressed(w, ctx))

	buf := wire.NewBuffer(w.Bytes())
	got1, err := ParseWire(buf)
	require.NoError(t, err)
	assert.True(t, a.Equal(got1))

	require.NoError(t, buf.Seek(aEnd))
	got2, err := ParseWire(buf)
	require.NoError(t, err)
	assert.True(t, b.Equal(got2))

	// the second name must have compressed (shorter than writing "example.com." again)
	assert.Less(t, w.Pos()-aEnd, b.WireLen())
}

func TestParseWireRejectsForwardPointer(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU16(0xC000 | 4) // pointer to offset 4, forward of position 0
	w.WriteU8(0)
	buf := wire.NewBuffer(w.Bytes())
	_, err := ParseWire(buf)
	assert.ErrorIs(t, err, ErrForwardPointer)
}

func TestParseWireRejectsLabelTooLong(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(0x80) // top bits "10": not a compression pointer, but exceeds the 63-octet label cap
	buf := wire.NewBuffer(w.Bytes())
	_, err := ParseWire(buf)
	assert.Error(t, err)
}
