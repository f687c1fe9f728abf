// Package udptcp is a reference transport.Transport: UDP-first with
// fallback to TCP when a response sets the truncation (TC) bit, backed by
// cryptographically random transaction IDs and a small message pool.
package udptcp

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/dnsscience/goresolver/dnsmsg"
	"github.com/dnsscience/goresolver/rdata"
)

// Config configures a Transport.
type Config struct {
	// Server is the upstream address, e.g. "9.9.9.9:53".
	Server string
	// Timeout bounds a single UDP or TCP round-trip. Zero selects 2s.
	Timeout time.Duration
	// Registry resolves RDATA codecs for decoding responses. Nil selects
	// rdata.Default.
	Registry *rdata.Registry
}

// Transport implements transport.Transport over UDP and TCP.
type Transport struct {
	server   string
	timeout  time.Duration
	registry *rdata.Registry
	dialer   net.Dialer
}

// New returns a ready-to-use Transport.
func New(cfg Config) *Transport {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	reg := cfg.Registry
	if reg == nil {
		reg = rdata.Default
	}
	return &Transport{server: cfg.Server, timeout: timeout, registry: reg}
}

// transactionID returns a cryptographically random 16-bit query ID; DNS
// transaction IDs are an off-path-spoofing defense and must never come
// from math/rand.
func transactionID() (uint16, error) {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// Send implements transport.Transport: it sends query over UDP, and
// automatically retries over TCP if the UDP response is truncated.
func (t *Transport) Send(ctx context.Context, query *dnsmsg.Message) (*dnsmsg.Message, error) {
	id, err := transactionID()
	if err != nil {
		return nil, fmt.Errorf("udptcp: generating transaction id: %w", err)
	}
	q := acquireMessage()
	defer releaseMessage(q)
	*q = *query
	q.Header.ID = id

	resp, err := t.sendUDP(ctx, q)
	if err != nil {
		return nil, err
	}
	if resp.Header.ID != id {
		return nil, fmt.Errorf("udptcp: transaction id mismatch: sent %d, got %d", id, resp.Header.ID)
	}
	if resp.Header.TC {
		return t.sendTCP(ctx, q)
	}
	return resp, nil
}

func (t *Transport) sendUDP(ctx context.Context, query *dnsmsg.Message) (*dnsmsg.Message, error) {
	raw, err := query.Encode()
	if err != nil {
		return nil, fmt.Errorf("udptcp: encoding query: %w", err)
	}

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn, err := t.dialer.DialContext(ctx, "udp", t.server)
	if err != nil {
		return nil, fmt.Errorf("udptcp: dial udp: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err := conn.Write(raw); err != nil {
		return nil, fmt.Errorf("udptcp: write udp: %w", err)
	}

	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("udptcp: read udp: %w", err)
	}

	resp, err := dnsmsg.Decode(buf[:n], t.registry)
	if err != nil {
		return nil, fmt.Errorf("udptcp: decoding udp response: %w", err)
	}
	return resp, nil
}

func (t *Transport) sendTCP(ctx context.Context, query *dnsmsg.Message) (*dnsmsg.Message, error) {
	raw, err := query.Encode()
	if err != nil {
		return nil, fmt.Errorf("udptcp: encoding query: %w", err)
	}

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn, err := t.dialer.DialContext(ctx, "tcp", t.server)
	if err != nil {
		return nil, fmt.Errorf("udptcp: dial tcp: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(raw)))
	if _, err := conn.Write(lenPrefix[:]); err != nil {
		return nil, fmt.Errorf("udptcp: write tcp length prefix: %w", err)
	}
	if _, err := conn.Write(raw); err != nil {
		return nil, fmt.Errorf("udptcp: write tcp payload: %w", err)
	}

	if _, err := readFull(conn, lenPrefix[:]); err != nil {
		return nil, fmt.Errorf("udptcp: read tcp length prefix: %w", err)
	}
	respLen := binary.BigEndian.Uint16(lenPrefix[:])
	respBuf := make([]byte, respLen)
	if _, err := readFull(conn, respBuf); err != nil {
		return nil, fmt.Errorf("udptcp: read tcp payload: %w", err)
	}

	resp, err := dnsmsg.Decode(respBuf, t.registry)
	if err != nil {
		return nil, fmt.Errorf("udptcp: decoding tcp response: %w", err)
	}
	return resp, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
