package lookup

import (
	"fmt"

	"github.com/dnsscience/goresolver/dnsmsg"
	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/rdata"
)

// redirectState is an immutable-between-steps accumulator: each step of the
// chase returns a fresh value rather than mutating in place.
type redirectState struct {
	current dnsname.Name
	aliases []dnsname.Name
	hops    int
}

// validateAnswer rejects a response carrying more than one CNAME record for
// the same owner name.
func validateAnswer(answer []dnsmsg.Record) error {
	seen := make(map[string]bool)
	for _, rec := range answer {
		if rec.Type != rdata.TypeCNAME {
			continue
		}
		key := rec.Name.Key()
		if seen[key] {
			return fmt.Errorf("lookup: multiple CNAME records for %s: %w", rec.Name, ErrInvalidZoneData)
		}
		seen[key] = true
	}
	return nil
}

// chaseAnswer processes one response's answer section against st: CNAME and
// DNAME records update the current name and extend the alias list; any
// record matching (qtype, current) is collected as a final result record.
// hops is checked against maxHops as it increments so a single oversized
// response cannot itself exceed the redirect budget.
func chaseAnswer(st redirectState, qtype, class uint16, answer []dnsmsg.Record, maxHops int) (final []dnsmsg.Record, next redirectState, err error) {
	next = st
	for _, rec := range answer {
		if rec.Class != class {
			continue
		}
		switch {
		case rec.Type == qtype && rec.Name.Equal(next.current):
			final = append(final, rec)

		case rec.Type == rdata.TypeCNAME && rec.Name.Equal(next.current):
			cname, ok := rec.RDATA.(*rdata.CNAME)
			if !ok {
				return nil, st, fmt.Errorf("lookup: CNAME record with wrong RDATA codec: %w", ErrInvalidZoneData)
			}
			next.aliases = append(next.aliases, next.current)
			next.current = cname.Target
			next.hops++
			if next.hops > maxHops {
				return nil, next, ErrRedirectOverflow
			}

		case rec.Type == rdata.TypeDNAME && next.current.Subdomain(rec.Name):
			dname, ok := rec.RDATA.(*rdata.DNAME)
			if !ok {
				return nil, st, fmt.Errorf("lookup: DNAME record with wrong RDATA codec: %w", ErrInvalidZoneData)
			}
			rewritten, err := dnsname.FromDNAME(next.current, rec.Name, dname.Target)
			if err != nil {
				return nil, st, fmt.Errorf("lookup: %w: %w", err, ErrInvalidZoneData)
			}
			next.aliases = append(next.aliases, next.current)
			next.current = rewritten
			next.hops++
			if next.hops > maxHops {
				return nil, next, ErrRedirectOverflow
			}
		}
	}
	return final, next, nil
}
