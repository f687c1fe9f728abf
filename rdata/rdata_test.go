package rdata

import (
	"net"
	"testing"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, rd RDATA, factory Factory) RDATA {
	t.Helper()
	w := wire.NewWriter()
	require.NoError(t, rd.Encode(w, nil))
	got := factory()
	b := wire.NewBuffer(w.Bytes())
	require.NoError(t, got.Decode(b, dnsname.Root))
	require.Equal(t, 0, b.Len(), "decode left unread trailing bytes")
	return got
}

func name(t *testing.T, s string) dnsname.Name {
	t.Helper()
	n, err := dnsname.Parse(s, dnsname.Root)
	require.NoError(t, err)
	return n
}

func TestRoundTripA(t *testing.T) {
	orig := &A{Addr: net.ParseIP("192.0.2.1")}
	got := roundTrip(t, orig, NewA).(*A)
	require.Equal(t, orig.Addr.To4(), got.Addr.To4())
}

func TestRoundTripAAAA(t *testing.T) {
	orig := &AAAA{Addr: net.ParseIP("2001:db8::1")}
	got := roundTrip(t, orig, NewAAAA).(*AAAA)
	require.Equal(t, orig.Addr.To16(), got.Addr.To16())
}

func TestRoundTripCNAME(t *testing.T) {
	orig := &CNAME{singleName{rrtype: TypeCNAME, Target: name(t, "alias.example.com.")}}
	got := roundTrip(t, orig, NewCNAME).(*CNAME)
	require.True(t, orig.Target.Equal(got.Target))
}

func TestRoundTripMX(t *testing.T) {
	orig := &MX{Preference: 10, Exchange: name(t, "mail.example.com.")}
	got := roundTrip(t, orig, NewMX).(*MX)
	require.Equal(t, orig.Preference, got.Preference)
	require.True(t, orig.Exchange.Equal(got.Exchange))
}

func TestRoundTripSOA(t *testing.T) {
	orig := &SOA{
		MName: name(t, "ns1.example.com."), RName: name(t, "hostmaster.example.com."),
		Serial: 2024010100, Refresh: 3600, Retry: 900, Expire: 604800, Minimum: 300,
	}
	got := roundTrip(t, orig, NewSOA).(*SOA)
	require.Equal(t, *orig, *got)
}

func TestRoundTripTXT(t *testing.T) {
	orig := &TXT{Strings: [][]byte{[]byte("v=spf1 -all"), []byte("second chunk")}}
	got := roundTrip(t, orig, NewTXT).(*TXT)
	require.Equal(t, orig.Strings, got.Strings)
}

func TestRoundTripSRV(t *testing.T) {
	orig := &SRV{Priority: 1, Weight: 2, Port: 443, Target: name(t, "node1.example.com.")}
	got := roundTrip(t, orig, NewSRV).(*SRV)
	require.Equal(t, orig.Priority, got.Priority)
	require.True(t, orig.Target.Equal(got.Target))
}

func TestRoundTripNAPTR(t *testing.T) {
	orig := &NAPTR{Order: 100, Preference: 10, Flags: "S", Services: "SIP+D2U", Regexp: "", Replacement: name(t, "_sip._udp.example.com.")}
	got := roundTrip(t, orig, NewNAPTR).(*NAPTR)
	require.Equal(t, orig.Flags, got.Flags)
	require.Equal(t, orig.Services, got.Services)
	require.True(t, orig.Replacement.Equal(got.Replacement))
}

func TestRoundTripDS(t *testing.T) {
	orig := &DS{digestLayout{KeyTag: 1234, Algorithm: 8, DigestType: 2, Digest: []byte{0xAB, 0xCD, 0xEF}}}
	got := roundTrip(t, orig, NewDS).(*DS)
	require.Equal(t, orig.digestLayout, got.digestLayout)
}

func TestRoundTripRRSIG(t *testing.T) {
	orig := &RRSIG{sigLayout{
		TypeCovered: TypeA, Algorithm: 8, Labels: 2, OriginalTTL: 3600,
		SigExpiration: 1700000000, SigInception: 1690000000, KeyTag: 4321,
		SignerName: name(t, "example.com."), Signature: []byte{1, 2, 3, 4},
	}}
	got := roundTrip(t, orig, NewRRSIG).(*RRSIG)
	require.True(t, orig.SignerName.Equal(got.SignerName))
	require.Equal(t, orig.Signature, got.Signature)
	require.Equal(t, orig.KeyTag, got.KeyTag)
}

func TestRoundTripNSEC3(t *testing.T) {
	orig := &NSEC3{HashAlgorithm: 1, Flags: 0, Iterations: 10, Salt: []byte{0xaa}, NextHashed: []byte{1, 2, 3, 4, 5}, TypeBitMaps: []byte{0, 2, 0x40, 1}}
	got := roundTrip(t, orig, NewNSEC3).(*NSEC3)
	require.Equal(t, *orig, *got)
}

func TestRoundTripSVCB(t *testing.T) {
	orig := &SVCB{svcbLayout{Priority: 1, Target: name(t, "svc.example.com."), Params: []SvcParam{{Key: 1, Value: []byte("h2")}}}}
	got := roundTrip(t, orig, NewSVCB).(*SVCB)
	require.True(t, orig.Target.Equal(got.Target))
	require.Equal(t, orig.Params, got.Params)
}

func TestUnknownPresentation(t *testing.T) {
	u := &Unknown{Type: 9999}
	u.Data = []byte{0xDE, 0xAD}
	require.Equal(t, "\\# 2 dead", u.String())
}

func TestRegistryMnemonicCollision(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(CodecInfo{Type: 1, Mnemonic: "A", New: NewA}))
	err := r.Register(CodecInfo{Type: 2, Mnemonic: "A", New: NewA})
	require.Error(t, err)
}

func TestOverlayIndependence(t *testing.T) {
	base := NewRegistry()
	require.NoError(t, base.Register(CodecInfo{Type: TypeA, Mnemonic: "A", New: NewA}))
	overlay := Overlay(base)
	require.NoError(t, overlay.Register(CodecInfo{Type: 9999, Mnemonic: "X-CUSTOM", New: func() RDATA { return &Unknown{Type: 9999} }}))

	_, ok := base.LookupMnemonic("X-CUSTOM")
	require.False(t, ok, "mutating the overlay must not leak into base")

	_, ok = overlay.LookupMnemonic("X-CUSTOM")
	require.True(t, ok)
}

func TestDefaultRegistryFallsBackToUnknown(t *testing.T) {
	info := Default.Lookup(65432)
	rd := info.New()
	_, ok := rd.(*Unknown)
	require.True(t, ok)
}
