package rdata

import (
	"fmt"
	"strings"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
)

// SvcParam is one SvcParamKey=value pair of an SVCB/HTTPS record (RFC 9460).
type SvcParam struct {
	Key   uint16
	Value []byte
}

// svcbLayout is the shared field layout of SVCB and HTTPS: priority, target
// name (never compressed), and an ordered list of service parameters.
type svcbLayout struct {
	Priority uint16
	Target   dnsname.Name
	Params   []SvcParam
}

func (s *svcbLayout) decode(b *wire.Buffer) error {
	pri, err := b.ReadU16()
	if err != nil {
		return err
	}
	target, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	var params []SvcParam
	for b.Len() > 0 {
		key, err := b.ReadU16()
		if err != nil {
			return err
		}
		length, err := b.ReadU16()
		if err != nil {
			return err
		}
		val, err := b.ReadByteArray(int(length))
		if err != nil {
			return err
		}
		params = append(params, SvcParam{Key: key, Value: val})
	}
	s.Priority, s.Target, s.Params = pri, target, params
	return nil
}

func (s *svcbLayout) encode(b *wire.Buffer) error {
	b.WriteU16(s.Priority)
	if err := s.Target.WriteCanonical(b); err != nil {
		return err
	}
	for _, p := range s.Params {
		b.WriteU16(p.Key)
		b.WriteU16(uint16(len(p.Value)))
		b.WriteBytes(p.Value)
	}
	return nil
}

func (s *svcbLayout) str() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = fmt.Sprintf("%d=%s", p.Key, encodeHex(p.Value))
	}
	return fmt.Sprintf("%d %s %s", s.Priority, s.Target, strings.Join(parts, " "))
}

// SVCB: general-purpose service binding (RFC 9460).
type SVCB struct{ svcbLayout }

func NewSVCB() RDATA { return &SVCB{} }

func (r *SVCB) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.svcbLayout.decode(b) }
func (r *SVCB) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.svcbLayout.encode(b) }
func (r *SVCB) String() string                                  { return r.svcbLayout.str() }

// HTTPS: HTTPS-specific service binding (RFC 9460), identical wire shape to SVCB.
type HTTPS struct{ svcbLayout }

func NewHTTPS() RDATA { return &HTTPS{} }

func (r *HTTPS) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.svcbLayout.decode(b) }
func (r *HTTPS) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.svcbLayout.encode(b) }
func (r *HTTPS) String() string                                  { return r.svcbLayout.str() }
