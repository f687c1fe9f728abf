// Package eventbus fans out cache mutation events to diagnostic
// subscribers — a log line, a metrics exporter, a debugging REPL — without
// the cache itself knowing who, if anyone, is listening.
package eventbus

import (
	"context"
	"sync"

	"github.com/dnsscience/goresolver/dnsname"
)

// Kind distinguishes the two mutations a cache reports.
type Kind int

const (
	// Store marks a positive or negative RRset write (InsertRRset,
	// InsertNXDomain, InsertNXRRSet).
	Store Kind = iota
	// Evict marks a TTL-expired entry removed by a Sweep pass.
	Evict
)

// CacheEvent describes one store or evict against a single (name, type,
// class) entry. Type is zero for a whole-name NXDOMAIN event.
type CacheEvent struct {
	Kind        Kind
	Name        dnsname.Name
	Type        uint16
	Class       uint16
	Credibility int
	TTL         uint32
}

// Subscriber is a live registration returned by Subscribe; Close stops
// delivery and releases the underlying channel.
type Subscriber struct {
	Ch   <-chan CacheEvent
	stop context.CancelFunc
}

// Close unregisters the subscriber. Safe to call more than once.
func (s *Subscriber) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// Bus is a fan-out broadcaster for CacheEvent. The zero Bus is not usable;
// construct with New.
type Bus struct {
	mu   sync.RWMutex
	subs []chan CacheEvent
	buf  int
}

// New returns a Bus whose subscriber channels are buffered to buf entries.
func New(buf int) *Bus {
	return &Bus{buf: buf}
}

// Publish delivers ev to every current subscriber. A subscriber whose
// buffer is full is skipped rather than blocking the publisher.
func (b *Bus) Publish(ev CacheEvent) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// drop if subscriber is slow
		}
	}
}

// Subscribe registers a new listener and returns it. The subscription ends
// either when ctx is canceled or when the returned Subscriber is closed.
func (b *Bus) Subscribe(ctx context.Context) *Subscriber {
	ch := make(chan CacheEvent, b.buf)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	cctx, cancel := context.WithCancel(ctx)
	go func() {
		<-cctx.Done()
		b.mu.Lock()
		for i, c := range b.subs {
			if c == ch {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		close(ch)
	}()
	return &Subscriber{Ch: ch, stop: cancel}
}
