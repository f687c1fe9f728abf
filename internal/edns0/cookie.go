// Package edns0 implements the EDNS Cookie option (RFC 7873, RFC 9018) from
// the stub-resolver side: generating a stable per-upstream client cookie and
// echoing back whatever server cookie that upstream most recently handed
// out, so that repeat queries to the same server benefit from cookie-based
// off-path spoofing protection.
package edns0

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/dchest/siphash"
)

// ErrInvalidCookie is returned when a COOKIE option's data is malformed.
var ErrInvalidCookie = errors.New("edns0: invalid COOKIE option")

// CookieOptionCode is the EDNS option code for COOKIE (RFC 7873 §4).
const CookieOptionCode = 10

const (
	clientCookieSize = 8
	minServerCookie  = 8
	maxServerCookie  = 32
)

// CookieJar derives a stable client cookie per upstream address, keyed by
// a process-lifetime secret via SipHash-2-4, and remembers the last
// server cookie seen from each upstream so it can be replayed on the next
// query.
type CookieJar struct {
	mu      sync.Mutex
	secret  [16]byte
	servers map[string][]byte // upstream address -> last seen server cookie
}

// NewCookieJar returns a jar seeded with a fresh random secret.
func NewCookieJar() (*CookieJar, error) {
	var secret [16]byte
	if _, err := rand.Read(secret[:]); err != nil {
		return nil, err
	}
	return &CookieJar{secret: secret, servers: make(map[string][]byte)}, nil
}

// ClientCookie derives the 8-byte client cookie this jar presents to
// upstream, stable for the lifetime of the jar.
func (j *CookieJar) ClientCookie(upstream string) [8]byte {
	h := siphash.New(j.secret[:])
	h.Write([]byte(upstream))
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], h.Sum64())
	return out
}

// Option builds the outbound COOKIE option data for a query to upstream:
// the client cookie, plus whatever server cookie that upstream last issued.
func (j *CookieJar) Option(upstream string) []byte {
	cc := j.ClientCookie(upstream)
	j.mu.Lock()
	sc := j.servers[upstream]
	j.mu.Unlock()
	return FormatCookie(cc, sc)
}

// Observe records the server cookie returned in a response from upstream,
// so subsequent queries to it can present it. Malformed options are ignored.
func (j *CookieJar) Observe(upstream string, optionData []byte) {
	_, sc, err := ParseCookie(optionData)
	if err != nil || len(sc) == 0 {
		return
	}
	j.mu.Lock()
	j.servers[upstream] = append([]byte(nil), sc...)
	j.mu.Unlock()
}

// ParseCookie splits a COOKIE option's data into the 8-byte client cookie
// and the optional 8-32 byte server cookie (RFC 7873 §4).
func ParseCookie(data []byte) (clientCookie [8]byte, serverCookie []byte, err error) {
	if len(data) < clientCookieSize {
		return clientCookie, nil, ErrInvalidCookie
	}
	copy(clientCookie[:], data[:clientCookieSize])
	if len(data) == clientCookieSize {
		return clientCookie, nil, nil
	}
	sc := data[clientCookieSize:]
	if len(sc) < minServerCookie || len(sc) > maxServerCookie {
		return clientCookie, nil, ErrInvalidCookie
	}
	serverCookie = append([]byte(nil), sc...)
	return clientCookie, serverCookie, nil
}

// FormatCookie renders a COOKIE option's data from its parts.
func FormatCookie(clientCookie [8]byte, serverCookie []byte) []byte {
	out := make([]byte, clientCookieSize+len(serverCookie))
	copy(out[:clientCookieSize], clientCookie[:])
	copy(out[clientCookieSize:], serverCookie)
	return out
}

