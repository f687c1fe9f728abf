package lookup

import "errors"

// Error kinds surfaced to callers of Session.LookupAsync. Wrap with
// fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	// ErrNoSuchDomain means RCODE=NXDOMAIN (or a cached NXDOMAIN), observed
	// after every search-path candidate was exhausted.
	ErrNoSuchDomain = errors.New("lookup: no such domain")
	// ErrNoSuchRRSet means RCODE=NXRRSET, or an empty NOERROR answer for a
	// name that exists, after search-path exhaustion.
	ErrNoSuchRRSet = errors.New("lookup: no such rrset")
	// ErrServerFailed means RCODE=SERVFAIL.
	ErrServerFailed = errors.New("lookup: server failed")
	// ErrRedirectOverflow means the CNAME/DNAME hop count exceeded
	// Config.MaxRedirects.
	ErrRedirectOverflow = errors.New("lookup: redirect budget exceeded")
	// ErrInvalidZoneData means the response violated a wire-level
	// invariant, e.g. multiple CNAMEs for one owner name.
	ErrInvalidZoneData = errors.New("lookup: invalid zone data in response")
	// ErrLookupFailed is the catch-all: any other RCODE, or a transport
	// failure.
	ErrLookupFailed = errors.New("lookup: failed")
)
