package dnsmsg

import (
	"net"
	"testing"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/stretchr/testify/require"
)

func mustName(t *testing.T, s string) dnsname.Name {
	t.Helper()
	n, err := dnsname.Parse(s, dnsname.Root)
	require.NoError(t, err)
	return n
}

func parseIP(t *testing.T, s string) net.IP {
	t.Helper()
	ip := net.ParseIP(s)
	require.NotNil(t, ip)
	return ip
}

func TestMessageRoundTrip(t *testing.T) {
	reg := rdata.Default
	owner := mustName(t, "www.example.com.")
	msg := &Message{
		Header: Header{ID: 0xBEEF, QR: true, RD: true, RA: true, Rcode: RcodeSuccess},
		Question: []Question{
			{Name: owner, Type: rdata.TypeA, Class: 1},
		},
		Answer: []Record{
			{Name: owner, Type: rdata.TypeA, Class: 1, TTL: 300, RDATA: &rdata.A{Addr: parseIP(t, "192.0.2.5")}},
			{Name: owner, Type: rdata.TypeA, Class: 1, TTL: 300, RDATA: &rdata.A{Addr: parseIP(t, "192.0.2.6")}},
		},
		Authority: []Record{
			{Name: mustName(t, "example.com."), Type: rdata.TypeNS, Class: 1, TTL: 3600,
				RDATA: rdata.NewNS()},
		},
	}

	raw, err := msg.Encode()
	require.NoError(t, err)

	got, err := Decode(raw, reg)
	require.NoError(t, err)

	require.Equal(t, msg.Header.ID, got.Header.ID)
	require.True(t, got.Header.QR)
	require.Len(t, got.Question, 1)
	require.True(t, got.Question[0].Name.Equal(owner))
	require.Len(t, got.Answer, 2)
	require.Len(t, got.Authority, 1)
	require.Nil(t, got.EDNS)
}

func TestMessageRDLengthOverrun(t *testing.T) {
	reg := rdata.Default
	owner := mustName(t, "example.com.")
	msg := &Message{
		Header: Header{ID: 1},
		Answer: []Record{
			{Name: owner, Type: rdata.TypeA, Class: 1, TTL: 60, RDATA: &rdata.A{Addr: parseIP(t, "10.0.0.1")}},
		},
	}
	raw, err := msg.Encode()
	require.NoError(t, err)

	ownerLen := owner.WireLen()
	rdlenPos := headerWireLen + ownerLen + 2 + 2 + 4
	raw[rdlenPos] = 0xFF
	raw[rdlenPos+1] = 0xFF

	_, err = Decode(raw, reg)
	require.Error(t, err)
}

func TestMessageSectionCountMismatch(t *testing.T) {
	reg := rdata.Default
	owner := mustName(t, "example.com.")
	msg := &Message{
		Header: Header{ID: 2},
		Answer: []Record{
			{Name: owner, Type: rdata.TypeA, Class: 1, TTL: 60, RDATA: &rdata.A{Addr: parseIP(t, "10.0.0.1")}},
		},
	}
	raw, err := msg.Encode()
	require.NoError(t, err)

	// lie about the answer count in the header so decode expects two records.
	raw[6] = 0x00
	raw[7] = 0x02

	_, err = Decode(raw, reg)
	require.Error(t, err)
}

func TestMessageEDNSRoundTrip(t *testing.T) {
	reg := rdata.Default
	owner := mustName(t, "example.com.")
	msg := &Message{
		Header: Header{ID: 3, RD: true},
		Question: []Question{
			{Name: owner, Type: rdata.TypeA, Class: 1},
		},
		EDNS: &OPT{
			UDPSize:       4096,
			ExtendedRcode: 0,
			Version:       0,
			DO:            true,
			Options: []EDNSOption{
				{Code: 10, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}, // cookie-shaped
			},
		},
	}
	raw, err := msg.Encode()
	require.NoError(t, err)

	got, err := Decode(raw, reg)
	require.NoError(t, err)
	require.NotNil(t, got.EDNS)
	require.Equal(t, uint16(4096), got.EDNS.UDPSize)
	require.True(t, got.EDNS.DO)
	require.Len(t, got.EDNS.Options, 1)
	require.Equal(t, uint16(10), got.EDNS.Options[0].Code)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, got.EDNS.Options[0].Data)
	require.Empty(t, got.Additional)
}

func TestSectionRRsetsGroupsAndAttachesSigs(t *testing.T) {
	owner := mustName(t, "example.com.")
	other := mustName(t, "other.example.com.")
	sig := &rdata.RRSIG{}
	sig.TypeCovered = rdata.TypeA
	section := []Record{
		{Name: owner, Type: rdata.TypeA, Class: 1, TTL: 300, RDATA: &rdata.A{Addr: parseIP(t, "192.0.2.1")}},
		{Name: owner, Type: rdata.TypeA, Class: 1, TTL: 100, RDATA: &rdata.A{Addr: parseIP(t, "192.0.2.2")}},
		{Name: owner, Type: rdata.TypeRRSIG, Class: 1, TTL: 300, RDATA: sig},
		{Name: other, Type: rdata.TypeAAAA, Class: 1, TTL: 600, RDATA: &rdata.AAAA{}},
	}

	rrsets := SectionRRsets(section)
	require.Len(t, rrsets, 2)

	var aSet, aaaaSet *RRset
	for i := range rrsets {
		switch rrsets[i].Name.Type {
		case rdata.TypeA:
			aSet = &rrsets[i]
		case rdata.TypeAAAA:
			aaaaSet = &rrsets[i]
		}
	}
	require.NotNil(t, aSet)
	require.NotNil(t, aaaaSet)
	require.Len(t, aSet.Records, 2)
	require.Equal(t, uint32(100), aSet.TTL, "RRset TTL must be the minimum member TTL")
	require.Len(t, aSet.Sigs, 1)
	require.Empty(t, aaaaSet.Sigs)
}
