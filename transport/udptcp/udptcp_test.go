package udptcp

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/dnsscience/goresolver/dnsmsg"
	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/stretchr/testify/require"
)

func mustName(t *testing.T, s string) dnsname.Name {
	t.Helper()
	n, err := dnsname.Parse(s, dnsname.Root)
	require.NoError(t, err)
	return n
}

func testQuery(t *testing.T) *dnsmsg.Message {
	return &dnsmsg.Message{
		Header:   dnsmsg.Header{RD: true},
		Question: []dnsmsg.Question{{Name: mustName(t, "example.com."), Type: rdata.TypeA, Class: 1}},
	}
}

func answerFor(query *dnsmsg.Message, tc bool) *dnsmsg.Message {
	resp := *query
	resp.Header.QR = true
	resp.Header.RA = true
	resp.Header.TC = tc
	if !tc {
		resp.Answer = []dnsmsg.Record{
			{Name: query.Question[0].Name, Type: rdata.TypeA, Class: 1, TTL: 60,
				RDATA: &rdata.A{Addr: net.ParseIP("192.0.2.1")}},
		}
	}
	return &resp
}

// runUDPServer answers one query on a loopback UDP socket and returns its
// address. If tc is true, the response is marked truncated and carries no
// answer, forcing the caller to retry over TCP.
func runUDPServer(t *testing.T, tc bool) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 512)
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		reg := rdata.Default
		q, err := dnsmsg.Decode(buf[:n], reg)
		if err != nil {
			return
		}
		resp := answerFor(q, tc)
		resp.Header.ID = q.Header.ID
		raw, err := resp.Encode()
		if err != nil {
			return
		}
		conn.WriteToUDP(raw, addr)
	}()
	return conn.LocalAddr().String()
}

// runTCPServer answers one length-prefixed query over TCP. It binds the
// same port number as addr (UDP and TCP ports are independent namespaces,
// so this is safe) so a single Transport.Server value reaches both.
func runTCPServer(t *testing.T, addr string) {
	t.Helper()
	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var lenPrefix [2]byte
		if _, err := readFull(conn, lenPrefix[:]); err != nil {
			return
		}
		qLen := binary.BigEndian.Uint16(lenPrefix[:])
		qBuf := make([]byte, qLen)
		if _, err := readFull(conn, qBuf); err != nil {
			return
		}
		q, err := dnsmsg.Decode(qBuf, rdata.Default)
		if err != nil {
			return
		}
		resp := answerFor(q, false)
		resp.Header.ID = q.Header.ID
		raw, err := resp.Encode()
		if err != nil {
			return
		}
		var outLen [2]byte
		binary.BigEndian.PutUint16(outLen[:], uint16(len(raw)))
		conn.Write(outLen[:])
		conn.Write(raw)
	}()
}

func TestTransportSendOverUDP(t *testing.T) {
	addr := runUDPServer(t, false)
	tr := New(Config{Server: addr, Timeout: time.Second})

	resp, err := tr.Send(context.Background(), testQuery(t))
	require.NoError(t, err)
	require.True(t, resp.Header.QR)
	require.Len(t, resp.Answer, 1)
}

func TestTransportFallsBackToTCPOnTruncation(t *testing.T) {
	udpAddr := runUDPServer(t, true)
	runTCPServer(t, udpAddr)

	tr := New(Config{Server: udpAddr, Timeout: time.Second})
	resp, err := tr.Send(context.Background(), testQuery(t))
	require.NoError(t, err)
	require.False(t, resp.Header.TC)
	require.Len(t, resp.Answer, 1)
}

func TestTransportRespectsContextDeadline(t *testing.T) {
	// Nothing is listening on this address. The UDP dial itself succeeds
	// (UDP has no handshake), so the error comes from the read: a refused
	// port or the 50ms transport timeout, well before the context deadline.
	tr := New(Config{Server: "127.0.0.1:1", Timeout: 50 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := tr.Send(ctx, testQuery(t))
	require.Error(t, err)
}
