package rrcache

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dnsscience/goresolver/dnsmsg"
	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/internal/eventbus"
	"github.com/dnsscience/goresolver/internal/metrics"
	"github.com/dnsscience/goresolver/rdata"
)

// defaultShardCount is a power-of-two shard count sized for a single
// process's working set rather than a server fleet's.
const defaultShardCount = 32

// Result is the outcome of a Lookup.
type Result int

const (
	Unknown Result = iota
	Partial
	CNAMEResult
	DNAMEResult
	NXDOMAIN
	NXRRSET
	Successful
)

// LookupResult bundles a Result with whatever data it carries.
type LookupResult struct {
	Result  Result
	RRset   []dnsmsg.Record // Successful: the final RRset; Partial: the CNAME records walked. Lookup never returns CNAMEResult or DNAMEResult.
	TTL     uint32
}

// Entry is the public shape of one cached (name, type, class) record,
// surfaced via ForEach/Stats for diagnostics.
type Entry struct {
	Name        dnsname.Name
	Type        uint16
	Class       uint16
	Credibility Credibility
	Negative    bool
	ExpiresAt   time.Time
}

type bucket struct {
	mu       sync.RWMutex
	owner    dnsname.Name
	byType   map[uint16]*entry
	nxdomain *entry // set only when the whole name is known absent
}

type shard struct {
	mu      sync.RWMutex
	buckets map[bucketKey]*bucket
}

type bucketKey struct {
	class uint16
	name  string
}

// Cache is a credibility-ranked, sharded, TTL-bounded store for a single
// query class. The zero value is not usable; construct with New.
type Cache struct {
	class  uint16
	shards []*shard
	mask   uint64
	bus    *eventbus.Bus // may be nil
}

// New returns an empty cache scoped to class. bus, if non-nil, receives a
// CacheEvent for every store and every Sweep-driven eviction.
func New(class uint16, bus *eventbus.Bus) *Cache {
	n := defaultShardCount
	c := &Cache{class: class, shards: make([]*shard, n), mask: uint64(n - 1), bus: bus}
	for i := range c.shards {
		c.shards[i] = &shard{buckets: make(map[bucketKey]*bucket)}
	}
	return c
}

func (c *Cache) shardFor(key bucketKey) *shard {
	h := xxhash.Sum64String(key.name)
	h ^= uint64(key.class)
	return c.shards[h&c.mask]
}

func classLabel(class uint16) string {
	switch class {
	case 1:
		return "IN"
	default:
		return "OTHER"
	}
}

// Lookup returns the most credible usable entry for (name, type) at or
// above minCred, following in-cache CNAMEs transparently up to a small hop
// limit.
func (c *Cache) Lookup(name dnsname.Name, qtype uint16, minCred Credibility) LookupResult {
	now := time.Now()
	const maxCNAMEHops = 8
	var chain []dnsmsg.Record

	cur := name
	for hop := 0; ; hop++ {
		b := c.lookupBucket(cur)
		if b == nil {
			if len(chain) > 0 {
				metrics.CacheHits.WithLabelValues(classLabel(c.class), "partial").Inc()
				return LookupResult{Result: Partial, RRset: chain}
			}
			metrics.CacheMisses.WithLabelValues(classLabel(c.class)).Inc()
			return LookupResult{Result: Unknown}
		}

		b.mu.RLock()
		nx := b.nxdomain
		if nx != nil && !nx.isExpired(now) && nx.cred.AtLeast(minCred) {
			b.mu.RUnlock()
			metrics.CacheHits.WithLabelValues(classLabel(c.class), "nxdomain").Inc()
			return LookupResult{Result: NXDOMAIN, TTL: nx.ttlOf(now)}
		}

		want, ok := b.byType[qtype]
		if ok && !want.isExpired(now) && want.cred.AtLeast(minCred) {
			b.mu.RUnlock()
			if want.neg == negNXRRSet {
				metrics.CacheHits.WithLabelValues(classLabel(c.class), "nxrrset").Inc()
				return LookupResult{Result: NXRRSET, TTL: want.ttlOf(now)}
			}
			metrics.CacheHits.WithLabelValues(classLabel(c.class), "success").Inc()
			return LookupResult{Result: Successful, RRset: want.records, TTL: want.ttlOf(now)}
		}

		cname, hasCNAME := b.byType[rdata.TypeCNAME]
		b.mu.RUnlock()

		if !hasCNAME || cname.isExpired(now) || !cname.cred.AtLeast(minCred) || hop >= maxCNAMEHops {
			if len(chain) > 0 {
				metrics.CacheHits.WithLabelValues(classLabel(c.class), "partial").Inc()
				return LookupResult{Result: Partial, RRset: chain}
			}
			metrics.CacheMisses.WithLabelValues(classLabel(c.class)).Inc()
			return LookupResult{Result: Unknown}
		}
		chain = append(chain, cname.records...)
		target, ok := singleTarget(cname.records)
		if !ok {
			metrics.CacheHits.WithLabelValues(classLabel(c.class), "partial").Inc()
			return LookupResult{Result: Partial, RRset: chain}
		}
		cur = target
	}
}

func singleTarget(records []dnsmsg.Record) (dnsname.Name, bool) {
	if len(records) != 1 {
		return dnsname.Name{}, false
	}
	cn, ok := records[0].RDATA.(*rdata.CNAME)
	if !ok {
		return dnsname.Name{}, false
	}
	return cn.Target, true
}

func (c *Cache) lookupBucket(name dnsname.Name) *bucket {
	key := bucketKey{class: c.class, name: name.Key()}
	sh := c.shardFor(key)
	sh.mu.RLock()
	b := sh.buckets[key]
	sh.mu.RUnlock()
	return b
}

func (c *Cache) bucketFor(name dnsname.Name) *bucket {
	key := bucketKey{class: c.class, name: name.Key()}
	sh := c.shardFor(key)
	sh.mu.Lock()
	b, ok := sh.buckets[key]
	if !ok {
		b = &bucket{owner: name, byType: make(map[uint16]*entry)}
		sh.buckets[key] = b
	}
	sh.mu.Unlock()
	return b
}

// InsertRRset applies the credibility-monotonic overwrite rule:
// strictly-lower stored credibility is replaced, equal credibility keeps
// the minimum TTL of the two, strictly higher stored credibility is kept
// as-is.
func (c *Cache) InsertRRset(name dnsname.Name, qtype uint16, cred Credibility, ttl uint32, records []dnsmsg.Record) {
	now := time.Now()
	b := c.bucketFor(name)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nxdomain != nil && cred.AtLeast(b.nxdomain.cred) {
		// a fresh positive at equal-or-higher credibility displaces the
		// name-wide NXDOMAIN marker.
		b.nxdomain = nil
	}
	e := &entry{records: records, cred: cred, expires: now.Add(time.Duration(ttl) * time.Second)}
	merged := mergeEntry(b.byType[qtype], e)
	b.byType[qtype] = merged

	metrics.CacheEntries.WithLabelValues(classLabel(c.class)).Inc()
	c.publishStore(name, qtype, cred, ttl)
}

// InsertNXDomain records that name (and every type at it) is known absent,
// per RFC 2308: ttl is the SOA-MINIMUM-derived negative TTL from the
// triggering response's authority section.
func (c *Cache) InsertNXDomain(name dnsname.Name, cred Credibility, ttl uint32) {
	now := time.Now()
	b := c.bucketFor(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	e := &entry{neg: negNXDomain, cred: cred, expires: now.Add(time.Duration(ttl) * time.Second)}
	b.nxdomain = mergeEntry(b.nxdomain, e)
	b.byType = make(map[uint16]*entry) // NXDOMAIN is name-wide: displaces all positives
	c.publishStore(name, 0, cred, ttl)
}

// InsertNXRRSet records that (name, type) is known absent while other types
// at name may still exist.
func (c *Cache) InsertNXRRSet(name dnsname.Name, qtype uint16, cred Credibility, ttl uint32) {
	now := time.Now()
	b := c.bucketFor(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	e := &entry{neg: negNXRRSet, cred: cred, expires: now.Add(time.Duration(ttl) * time.Second)}
	b.byType[qtype] = mergeEntry(b.byType[qtype], e)
	c.publishStore(name, qtype, cred, ttl)
}

// mergeEntry implements the overwrite rule: nil existing always accepts
// incoming; otherwise compare credibility, keeping the minimum TTL at a tie.
func mergeEntry(existing, incoming *entry) *entry {
	if existing == nil {
		return incoming
	}
	if incoming.cred > existing.cred {
		return incoming
	}
	if incoming.cred < existing.cred {
		return existing
	}
	if incoming.expires.Before(existing.expires) {
		return incoming
	}
	return existing
}

func (c *Cache) publishStore(name dnsname.Name, qtype uint16, cred Credibility, ttl uint32) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.CacheEvent{Kind: eventbus.Store, Name: name, Type: qtype, Class: c.class, Credibility: int(cred), TTL: ttl})
}
