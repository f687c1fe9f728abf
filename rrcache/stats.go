package rrcache

import (
	"time"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/internal/eventbus"
	"github.com/dnsscience/goresolver/internal/metrics"
)

// Stats summarizes a cache's current occupancy.
type Stats struct {
	Entries int
	Names   int
}

// Stats returns the cache's current occupancy, walking every shard.
func (c *Cache) Stats() Stats {
	var s Stats
	for _, sh := range c.shards {
		sh.mu.RLock()
		s.Names += len(sh.buckets)
		for _, b := range sh.buckets {
			b.mu.RLock()
			s.Entries += len(b.byType)
			if b.nxdomain != nil {
				s.Entries++
			}
			b.mu.RUnlock()
		}
		sh.mu.RUnlock()
	}
	return s
}

// ForEach visits every live (non-expired) entry. It locks one shard at a
// time, so fn may observe a cache that is concurrently being written to.
func (c *Cache) ForEach(fn func(Entry)) {
	now := time.Now()
	for _, sh := range c.shards {
		sh.mu.RLock()
		for key, b := range sh.buckets {
			b.mu.RLock()
			owner := b.owner
			if b.nxdomain != nil && !b.nxdomain.isExpired(now) {
				fn(Entry{Name: owner, Class: key.class, Credibility: b.nxdomain.cred, Negative: true, ExpiresAt: b.nxdomain.expires})
			}
			for t, e := range b.byType {
				if e.isExpired(now) {
					continue
				}
				fn(Entry{Name: owner, Type: t, Class: key.class, Credibility: e.cred, Negative: e.neg != negNone, ExpiresAt: e.expires})
			}
			b.mu.RUnlock()
		}
		sh.mu.RUnlock()
	}
}

// Sweep evicts every expired entry across all shards, publishing an Evict
// event on the cache's bus for each one. Callers typically run this
// periodically from a time.Ticker.
func (c *Cache) Sweep() int {
	now := time.Now()
	evicted := 0
	for _, sh := range c.shards {
		sh.mu.Lock()
		for key, b := range sh.buckets {
			b.mu.Lock()
			owner := b.owner
			if b.nxdomain != nil && b.nxdomain.isExpired(now) {
				cred := b.nxdomain.cred
				b.nxdomain = nil
				evicted++
				c.publishEvict(owner, 0, key.class, cred)
			}
			for t, e := range b.byType {
				if e.isExpired(now) {
					cred := e.cred
					delete(b.byType, t)
					evicted++
					c.publishEvict(owner, t, key.class, cred)
				}
			}
			empty := b.nxdomain == nil && len(b.byType) == 0
			b.mu.Unlock()
			if empty {
				delete(sh.buckets, key)
			}
		}
		sh.mu.Unlock()
	}
	if evicted > 0 {
		metrics.CacheEvictions.WithLabelValues(classLabel(c.class), "expired").Add(float64(evicted))
	}
	return evicted
}

func (c *Cache) publishEvict(name dnsname.Name, qtype, class uint16, cred Credibility) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.CacheEvent{Kind: eventbus.Evict, Name: name, Type: qtype, Class: class, Credibility: int(cred)})
}
