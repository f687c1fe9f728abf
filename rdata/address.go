package rdata

import (
	"fmt"
	"net"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
)

// A: a 4-octet IPv4 address.
type A struct {
	Addr net.IP
}

func NewA() RDATA { return &A{} }

func (a *A) Decode(b *wire.Buffer, _ dnsname.Name) error {
	raw, err := b.ReadByteArray(4)
	if err != nil {
		return err
	}
	a.Addr = net.IP(raw)
	return nil
}

func (a *A) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	v4 := a.Addr.To4()
	if v4 == nil {
		return fmt.Errorf("rdata: A record address %v is not IPv4", a.Addr)
	}
	b.WriteBytes(v4)
	return nil
}

func (a *A) String() string { return a.Addr.String() }

// AAAA: a 16-octet IPv6 address.
type AAAA struct {
	Addr net.IP
}

func NewAAAA() RDATA { return &AAAA{} }

func (a *AAAA) Decode(b *wire.Buffer, _ dnsname.Name) error {
	raw, err := b.ReadByteArray(16)
	if err != nil {
		return err
	}
	a.Addr = net.IP(raw)
	return nil
}

func (a *AAAA) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	v6 := a.Addr.To16()
	if v6 == nil {
		return fmt.Errorf("rdata: AAAA record address %v is invalid", a.Addr)
	}
	b.WriteBytes(v6)
	return nil
}

func (a *AAAA) String() string { return a.Addr.String() }
