// Package lookup implements the stub-resolver lookup session: search-path
// expansion, a hosts-file short-circuit, a cache probe, a transport
// round-trip, and CNAME/DNAME redirect chasing bounded by a configured hop
// limit.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dnsscience/goresolver/dnsmsg"
	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/internal/metrics"
	"github.com/dnsscience/goresolver/internal/workerpool"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/dnsscience/goresolver/rrcache"
	"golang.org/x/sync/singleflight"
)

// Result is the outcome of a successful lookup: the matched records plus
// every name the chase passed through to reach them.
type Result struct {
	Records []dnsmsg.Record
	Aliases []dnsname.Name
}

// Outcome is what LookupAsync's channel delivers: exactly one of Result or
// Err is meaningful.
type Outcome struct {
	Result Result
	Err    error
}

// Session is a long-lived, concurrency-safe lookup engine shared by many
// callers. The zero Session is not usable; construct with NewSession.
type Session struct {
	cfg          Config
	sf           singleflight.Group
	cycleCounter atomic.Uint64
}

// NewSession returns a ready-to-use Session. cfg.Executor and cfg.Resolver
// must be set.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg}
}

// LookupAsync returns a channel-of-one populated by a goroutine submitted
// to cfg.Executor, so a session never spawns unbounded goroutines under
// load. If the caller's ctx is canceled or dropped, in-flight work may
// still complete and populate the cache; the channel simply goes unread.
func (s *Session) LookupAsync(ctx context.Context, name dnsname.Name, qtype, class uint16) (<-chan Outcome, error) {
	ch := make(chan Outcome, 1)
	job := workerpool.JobFunc(func(context.Context) error {
		res, err := s.lookup(ctx, name, qtype, class)
		ch <- Outcome{Result: res, Err: err}
		return err
	})
	if err := s.cfg.Executor.SubmitAsync(job); err != nil {
		return nil, fmt.Errorf("lookup: submitting job: %w", err)
	}
	return ch, nil
}

func (s *Session) lookup(ctx context.Context, name dnsname.Name, qtype, class uint16) (Result, error) {
	start := time.Now()
	res, err := s.lookupUninstrumented(ctx, name, qtype, class)
	metrics.ObserveLookup(outcomeLabel(err), start)
	return res, err
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNoSuchDomain):
		return "nxdomain"
	case errors.Is(err, ErrNoSuchRRSet):
		return "nxrrset"
	case errors.Is(err, ErrServerFailed):
		return "servfail"
	case errors.Is(err, ErrRedirectOverflow):
		return "redirect_overflow"
	case errors.Is(err, ErrInvalidZoneData):
		return "invalid_zone_data"
	default:
		return "failed"
	}
}

func (s *Session) lookupUninstrumented(ctx context.Context, name dnsname.Name, qtype, class uint16) (Result, error) {
	candidates := expandName(name, s.cfg.ndots(), s.cfg.SearchPath)
	if len(candidates) == 0 {
		candidates = []dnsname.Name{name}
	}

	if hit, ok := s.probeHosts(candidates, qtype, class); ok {
		return hit, nil
	}

	var lastErr error
	for _, cand := range candidates {
		res, err := s.resolve(ctx, redirectState{current: cand}, qtype, class)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrNoSuchDomain) || errors.Is(err, ErrNoSuchRRSet) {
			lastErr = err
			continue
		}
		return Result{}, err
	}
	if lastErr == nil {
		lastErr = ErrNoSuchDomain
	}
	return Result{}, lastErr
}

// probeHosts consults the hosts file only for A/AAAA queries; the first
// candidate with a configured address short-circuits the cache and
// transport entirely with a synthetic, TTL-0 record.
func (s *Session) probeHosts(candidates []dnsname.Name, qtype, class uint16) (Result, bool) {
	if s.cfg.Hosts == nil || (qtype != rdata.TypeA && qtype != rdata.TypeAAAA) {
		return Result{}, false
	}
	for _, cand := range candidates {
		ip, ok := s.cfg.Hosts.Lookup(cand, qtype)
		if !ok {
			continue
		}
		var rr rdata.RDATA
		if qtype == rdata.TypeA {
			rr = &rdata.A{Addr: ip}
		} else {
			rr = &rdata.AAAA{Addr: ip}
		}
		rec := dnsmsg.Record{Name: cand, Type: qtype, Class: class, TTL: 0, RDATA: rr}
		return Result{Records: []dnsmsg.Record{rec}}, true
	}
	return Result{}, false
}

// resolve resolves one candidate, then follows any CNAME/DNAME chain the
// response's answer section describes, reissuing a query for the
// rewritten name until a final record set is collected or the redirect
// budget is exceeded.
func (s *Session) resolve(ctx context.Context, st redirectState, qtype, class uint16) (Result, error) {
	maxHops := s.cfg.maxRedirects()
	for {
		answer, err := s.resolveOne(ctx, st.current, qtype, class)
		if err != nil {
			return Result{}, err
		}

		final, next, err := chaseAnswer(st, qtype, class, answer, maxHops)
		if err != nil {
			return Result{}, err
		}
		if len(final) > 0 {
			return Result{Records: final, Aliases: next.aliases}, nil
		}
		if next.current.Equal(st.current) {
			// Nothing in the answer matched or redirected; the response
			// carried data for some other name. Treat as no usable data.
			return Result{}, fmt.Errorf("lookup: response for %s carried no matching record: %w", st.current, ErrNoSuchRRSet)
		}
		s.cfg.logger().Printf("lookup: redirect %s -> %s (hop %d/%d)", st.current, next.current, next.hops, maxHops)
		st = next
	}
}

// resolveOne resolves a single candidate name: cache probe, transport
// send, validation, cache insertion, and RCODE-to-error mapping.
func (s *Session) resolveOne(ctx context.Context, name dnsname.Name, qtype, class uint16) ([]dnsmsg.Record, error) {
	cache := s.cfg.Caches[class]

	if cache != nil {
		res := cache.Lookup(name, qtype, rrcache.CredNormal)
		switch res.Result {
		case rrcache.Successful:
			return s.cycle(res.RRset), nil
		case rrcache.NXDOMAIN:
			return nil, fmt.Errorf("lookup: %s: %w", name, ErrNoSuchDomain)
		case rrcache.NXRRSET:
			return nil, fmt.Errorf("lookup: %s: %w", name, ErrNoSuchRRSet)
		}
		// Partial or Unknown: fall through to the transport.
	}

	resp, err := s.sendQuery(ctx, name, qtype, class)
	if err != nil {
		return nil, fmt.Errorf("lookup: %s: transport: %v: %w", name, err, ErrLookupFailed)
	}

	if err := validateAnswer(resp.Answer); err != nil {
		return nil, err
	}

	insertResponse(cache, class, resp)

	if len(resp.Answer) == 0 && resp.Header.Rcode != dnsmsg.RcodeSuccess {
		switch resp.Header.Rcode {
		case dnsmsg.RcodeNameError:
			return nil, fmt.Errorf("lookup: %s: %w", name, ErrNoSuchDomain)
		case dnsmsg.RcodeServerFailure:
			return nil, fmt.Errorf("lookup: %s: %w", name, ErrServerFailed)
		case 8: // NXRRSET (RFC 2136)
			return nil, fmt.Errorf("lookup: %s: %w", name, ErrNoSuchRRSet)
		default:
			return nil, fmt.Errorf("lookup: %s: rcode %d: %w", name, resp.Header.Rcode, ErrLookupFailed)
		}
	}
	if len(resp.Answer) == 0 {
		return nil, fmt.Errorf("lookup: %s: %w", name, ErrNoSuchRRSet)
	}
	return resp.Answer, nil
}

// sendQuery dedupes identical in-flight transport round-trips with
// singleflight: it never serves stale or wrong-credibility data, only
// collapses the network call itself.
func (s *Session) sendQuery(ctx context.Context, name dnsname.Name, qtype, class uint16) (*dnsmsg.Message, error) {
	key := fmt.Sprintf("%s|%d|%d", name.Key(), qtype, class)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		query := &dnsmsg.Message{
			Header:   dnsmsg.Header{RD: true},
			Question: []dnsmsg.Question{{Name: name, Type: qtype, Class: class}},
		}
		resp, err := s.cfg.Resolver.Send(ctx, query)
		if err != nil {
			metrics.TransportRoundTrips.WithLabelValues("transport", "error").Inc()
			return nil, err
		}
		metrics.TransportRoundTrips.WithLabelValues("transport", "ok").Inc()
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dnsmsg.Message), nil
}

// cycle, when enabled, rotates each RRset's starting index by a counter
// shared across the session, the only source of non-deterministic
// ordering.
func (s *Session) cycle(records []dnsmsg.Record) []dnsmsg.Record {
	if !s.cfg.CycleResults || len(records) < 2 {
		return records
	}
	n := uint64(len(records))
	start := int(s.cycleCounter.Add(1) % n)
	if start == 0 {
		return records
	}
	out := make([]dnsmsg.Record, n)
	for i := range records {
		out[i] = records[(start+i)%int(n)]
	}
	return out
}
