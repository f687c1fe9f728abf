package rrcache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dnsscience/goresolver/dnsmsg"
	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/internal/eventbus"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/stretchr/testify/require"
)

func mustName(t *testing.T, s string) dnsname.Name {
	t.Helper()
	n, err := dnsname.Parse(s, dnsname.Root)
	require.NoError(t, err)
	return n
}

func aRecord(t *testing.T, owner, ip string, ttl uint32) dnsmsg.Record {
	t.Helper()
	return dnsmsg.Record{
		Name: mustName(t, owner), Type: rdata.TypeA, Class: 1, TTL: ttl,
		RDATA: &rdata.A{Addr: net.ParseIP(ip)},
	}
}

func TestCacheInsertAndLookup(t *testing.T) {
	c := New(1, nil)
	owner := mustName(t, "www.example.com.")
	c.InsertRRset(owner, rdata.TypeA, CredAuthAnswer, 300, []dnsmsg.Record{aRecord(t, "www.example.com.", "192.0.2.1", 300)})

	res := c.Lookup(owner, rdata.TypeA, CredNormal)
	require.Equal(t, Successful, res.Result)
	require.Len(t, res.RRset, 1)
}

func TestCacheLookupBelowMinCredMisses(t *testing.T) {
	c := New(1, nil)
	owner := mustName(t, "www.example.com.")
	c.InsertRRset(owner, rdata.TypeA, CredHint, 300, []dnsmsg.Record{aRecord(t, "www.example.com.", "192.0.2.1", 300)})

	res := c.Lookup(owner, rdata.TypeA, CredNormal)
	require.Equal(t, Unknown, res.Result)
}

func TestCacheCredibilityMonotonicOverwrite(t *testing.T) {
	c := New(1, nil)
	owner := mustName(t, "www.example.com.")

	c.InsertRRset(owner, rdata.TypeA, CredAuthAnswer, 300, []dnsmsg.Record{aRecord(t, "www.example.com.", "192.0.2.1", 300)})
	// a lower-credibility insert must not displace the existing higher one.
	c.InsertRRset(owner, rdata.TypeA, CredHint, 600, []dnsmsg.Record{aRecord(t, "www.example.com.", "192.0.2.9", 600)})

	res := c.Lookup(owner, rdata.TypeA, CredNormal)
	require.Equal(t, Successful, res.Result)
	require.Len(t, res.RRset, 1)
	a := res.RRset[0].RDATA.(*rdata.A)
	require.Equal(t, "192.0.2.1", a.Addr.String())
}

func TestCacheNXDomainDisplacesPositives(t *testing.T) {
	c := New(1, nil)
	owner := mustName(t, "gone.example.com.")
	c.InsertRRset(owner, rdata.TypeA, CredAuthAnswer, 300, []dnsmsg.Record{aRecord(t, "gone.example.com.", "192.0.2.1", 300)})
	c.InsertNXDomain(owner, CredAuthAuthority, 60)

	res := c.Lookup(owner, rdata.TypeA, CredNormal)
	require.Equal(t, NXDOMAIN, res.Result)
}

func TestCacheNXRRSet(t *testing.T) {
	c := New(1, nil)
	owner := mustName(t, "example.com.")
	c.InsertNXRRSet(owner, rdata.TypeAAAA, CredAuthAuthority, 60)

	res := c.Lookup(owner, rdata.TypeAAAA, CredNormal)
	require.Equal(t, NXRRSET, res.Result)
}

func TestCacheFollowsCNAMEChain(t *testing.T) {
	c := New(1, nil)
	alias := mustName(t, "alias.example.com.")
	target := mustName(t, "real.example.com.")

	cname := rdata.NewCNAME().(*rdata.CNAME)
	cname.Target = target
	cnameRec := dnsmsg.Record{
		Name: alias, Type: rdata.TypeCNAME, Class: 1, TTL: 300,
		RDATA: cname,
	}
	c.InsertRRset(alias, rdata.TypeCNAME, CredAuthAnswer, 300, []dnsmsg.Record{cnameRec})
	c.InsertRRset(target, rdata.TypeA, CredAuthAnswer, 300, []dnsmsg.Record{aRecord(t, "real.example.com.", "192.0.2.5", 300)})

	res := c.Lookup(alias, rdata.TypeA, CredNormal)
	require.Equal(t, Successful, res.Result)
	require.Len(t, res.RRset, 1)
}

func TestCacheExpiredEntryIsUnknown(t *testing.T) {
	c := New(1, nil)
	owner := mustName(t, "stale.example.com.")
	c.InsertRRset(owner, rdata.TypeA, CredAuthAnswer, 0, []dnsmsg.Record{aRecord(t, "stale.example.com.", "192.0.2.1", 0)})

	res := c.Lookup(owner, rdata.TypeA, CredNormal)
	require.Equal(t, Unknown, res.Result)
}

func TestCacheSweepRemovesExpired(t *testing.T) {
	c := New(1, nil)
	owner := mustName(t, "stale2.example.com.")
	c.InsertRRset(owner, rdata.TypeA, CredAuthAnswer, 0, []dnsmsg.Record{aRecord(t, "stale2.example.com.", "192.0.2.1", 0)})

	evicted := c.Sweep()
	require.Equal(t, 1, evicted)
	require.Equal(t, 0, c.Stats().Entries)
}

func TestCacheInsertPublishesStoreEvent(t *testing.T) {
	bus := eventbus.New(4)
	sub := bus.Subscribe(context.Background())
	defer sub.Close()

	c := New(1, bus)
	owner := mustName(t, "published.example.com.")
	c.InsertRRset(owner, rdata.TypeA, CredAuthAnswer, 300, []dnsmsg.Record{aRecord(t, "published.example.com.", "192.0.2.1", 300)})

	select {
	case ev := <-sub.Ch:
		require.Equal(t, eventbus.Store, ev.Kind)
		require.True(t, ev.Name.Equal(owner))
		require.Equal(t, uint16(rdata.TypeA), ev.Type)
		require.Equal(t, uint32(300), ev.TTL)
	case <-time.After(time.Second):
		t.Fatal("expected a store event")
	}
}

func TestCacheSweepPublishesEvictEvent(t *testing.T) {
	bus := eventbus.New(4)
	sub := bus.Subscribe(context.Background())
	defer sub.Close()

	c := New(1, bus)
	owner := mustName(t, "stale3.example.com.")
	c.InsertRRset(owner, rdata.TypeA, CredAuthAnswer, 0, []dnsmsg.Record{aRecord(t, "stale3.example.com.", "192.0.2.1", 0)})
	<-sub.Ch // drain the store event from the insert above

	evicted := c.Sweep()
	require.Equal(t, 1, evicted)

	select {
	case ev := <-sub.Ch:
		require.Equal(t, eventbus.Evict, ev.Kind)
		require.True(t, ev.Name.Equal(owner))
		require.Equal(t, uint16(rdata.TypeA), ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected an evict event")
	}
}
