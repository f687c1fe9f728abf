package rrcache

import (
	"time"

	"github.com/dnsscience/goresolver/dnsmsg"
)

// negKind distinguishes the two negative-cache shapes: a whole name known
// absent (NXDOMAIN) versus one RR type known absent at an existing name
// (NXRRSET).
type negKind uint8

const (
	negNone negKind = iota
	negNXDomain
	negNXRRSet
)

// entry is the value half of the cache's (type -> entry) inner map. A zero
// negKind means positive data; Records is empty for a negative entry.
type entry struct {
	neg     negKind
	records []dnsmsg.Record
	cred    Credibility
	expires time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return now.After(e.expires)
}

// ttlOf reports the remaining seconds until expiry, floored at zero.
func (e *entry) ttlOf(now time.Time) uint32 {
	if e.isExpired(now) {
		return 0
	}
	return uint32(e.expires.Sub(now) / time.Second)
}
