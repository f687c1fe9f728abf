package lookup

import (
	"github.com/dnsscience/goresolver/dnsmsg"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/dnsscience/goresolver/rrcache"
)

// negativeTTL implements RFC 2308: the negative-cache TTL is the SOA
// MINIMUM field from the triggering response's authority section, capped
// by the SOA record's own TTL if that is smaller. A response with no SOA
// authority record (a malformed but not uncommon upstream) negatively
// caches for zero seconds.
func negativeTTL(resp *dnsmsg.Message) uint32 {
	for _, rec := range resp.Authority {
		soa, ok := rec.RDATA.(*rdata.SOA)
		if !ok {
			continue
		}
		ttl := rec.TTL
		if soa.Minimum < ttl {
			ttl = soa.Minimum
		}
		return ttl
	}
	return 0
}

// insertResponse feeds the whole response into the cache configured for
// class, not just the matched RRset, since authority and additional data
// are useful to later lookups too.
func insertResponse(cache *rrcache.Cache, class uint16, resp *dnsmsg.Message) {
	if cache == nil || len(resp.Question) == 0 {
		return
	}
	answerCred, authCred := rrcache.CredNonauthAnswer, rrcache.CredNonauthAuthority
	if resp.Header.AA {
		answerCred, authCred = rrcache.CredAuthAnswer, rrcache.CredAuthAuthority
	}

	q := resp.Question[0]
	if len(resp.Answer) == 0 {
		ttl := negativeTTL(resp)
		switch resp.Header.Rcode {
		case dnsmsg.RcodeNameError:
			cache.InsertNXDomain(q.Name, answerCred, ttl)
		case dnsmsg.RcodeSuccess:
			cache.InsertNXRRSet(q.Name, q.Type, answerCred, ttl)
		}
	} else {
		for _, rrset := range dnsmsg.SectionRRsets(resp.Answer) {
			cache.InsertRRset(rrset.Name.Name, rrset.Name.Type, answerCred, rrset.TTL, rrset.Records)
		}
	}

	for _, rrset := range dnsmsg.SectionRRsets(resp.Authority) {
		if _, ok := rrset.Records[0].RDATA.(*rdata.SOA); ok {
			continue // consumed above for its negative-TTL MINIMUM only
		}
		cache.InsertRRset(rrset.Name.Name, rrset.Name.Type, authCred, rrset.TTL, rrset.Records)
	}
	for _, rrset := range dnsmsg.SectionRRsets(resp.Additional) {
		cache.InsertRRset(rrset.Name.Name, rrset.Name.Type, rrcache.CredAdditional, rrset.TTL, rrset.Records)
	}
}
