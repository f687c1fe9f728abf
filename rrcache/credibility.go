// Package rrcache implements a credibility-ranked, sharded, TTL-bounded
// cache: a positive/negative store keyed by (class, owner name, type), with
// a monotonic-credibility overwrite rule and RFC 2308 negative caching
// derived from the triggering response's own SOA.
package rrcache

// Credibility totally orders the trustworthiness of the source that
// produced a cached datum, from a root hint up to an authoritative answer.
// Stored data is only ever overwritten by data of equal-or-higher
// credibility.
type Credibility uint8

const (
	CredHint Credibility = iota
	CredAdditional
	CredNonauthAnswer
	CredNonauthAuthority
	CredAuthAdditional
	CredAuthAuthority
	CredAuthAnswer
)

// CredNormal is the minimum credibility a routine lookup requires.
const CredNormal = CredNonauthAnswer

// AtLeast reports whether c meets or exceeds min.
func (c Credibility) AtLeast(min Credibility) bool {
	return c >= min
}
