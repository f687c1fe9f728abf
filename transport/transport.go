// Package transport defines the wire round-trip contract a lookup session
// sends queries through. transport/udptcp supplies a reference
// implementation; any other Transport (DoH, DoT, a test double) may be
// substituted.
package transport

import (
	"context"

	"github.com/dnsscience/goresolver/dnsmsg"
)

// Transport sends one query message and returns its response, or an error
// if the round-trip could not be completed (timeout, connection refused,
// malformed response). Send must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, query *dnsmsg.Message) (*dnsmsg.Message, error)
}
