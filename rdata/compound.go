package rdata

import (
	"fmt"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
)

// MX: mail exchange.
type MX struct {
	Preference uint16
	Exchange   dnsname.Name
}

func NewMX() RDATA { return &MX{} }

func (r *MX) Decode(b *wire.Buffer, _ dnsname.Name) error {
	pref, err := b.ReadU16()
	if err != nil {
		return err
	}
	name, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Preference, r.Exchange = pref, name
	return nil
}

func (r *MX) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	b.WriteU16(r.Preference)
	if allowsCompression(TypeMX) {
		return r.Exchange.WriteCompressed(b, ctx)
	}
	return r.Exchange.WriteCanonical(b)
}

func (r *MX) String() string { return fmt.Sprintf("%d %s", r.Preference, r.Exchange) }

// SOA: start of a zone of authority.
type SOA struct {
	MName, RName                                 dnsname.Name
	Serial, Refresh, Retry, Expire, Minimum uint32
}

func NewSOA() RDATA { return &SOA{} }

func (r *SOA) Decode(b *wire.Buffer, _ dnsname.Name) error {
	m, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	rn, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	vals := make([]uint32, 5)
	for i := range vals {
		v, err := b.ReadU32()
		if err != nil {
			return err
		}
		vals[i] = v
	}
	r.MName, r.RName = m, rn
	r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum = vals[0], vals[1], vals[2], vals[3], vals[4]
	return nil
}

func (r *SOA) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	if err := r.MName.WriteCompressed(b, ctx); err != nil {
		return err
	}
	if err := r.RName.WriteCompressed(b, ctx); err != nil {
		return err
	}
	b.WriteU32(r.Serial)
	b.WriteU32(r.Refresh)
	b.WriteU32(r.Retry)
	b.WriteU32(r.Expire)
	b.WriteU32(r.Minimum)
	return nil
}

func (r *SOA) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", r.MName, r.RName, r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum)
}

// SRV: service locator (RFC 2782). Target is never compressed.
type SRV struct {
	Priority, Weight, Port uint16
	Target                 dnsname.Name
}

func NewSRV() RDATA { return &SRV{} }

func (r *SRV) Decode(b *wire.Buffer, _ dnsname.Name) error {
	vals := make([]uint16, 3)
	for i := range vals {
		v, err := b.ReadU16()
		if err != nil {
			return err
		}
		vals[i] = v
	}
	name, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Priority, r.Weight, r.Port, r.Target = vals[0], vals[1], vals[2], name
	return nil
}

func (r *SRV) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteU16(r.Priority)
	b.WriteU16(r.Weight)
	b.WriteU16(r.Port)
	return r.Target.WriteCanonical(b)
}

func (r *SRV) String() string {
	return fmt.Sprintf("%d %d %d %s", r.Priority, r.Weight, r.Port, r.Target)
}

// RP: responsible person (RFC 1183).
type RP struct {
	Mbox, Txt dnsname.Name
}

func NewRP() RDATA { return &RP{} }

func (r *RP) Decode(b *wire.Buffer, _ dnsname.Name) error {
	mbox, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	txt, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Mbox, r.Txt = mbox, txt
	return nil
}

func (r *RP) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	if err := r.Mbox.WriteCompressed(b, ctx); err != nil {
		return err
	}
	return r.Txt.WriteCompressed(b, ctx)
}

func (r *RP) String() string { return fmt.Sprintf("%s %s", r.Mbox, r.Txt) }

// AFSDB: AFS database location (RFC 1183).
type AFSDB struct {
	Subtype  uint16
	Hostname dnsname.Name
}

func NewAFSDB() RDATA { return &AFSDB{} }

func (r *AFSDB) Decode(b *wire.Buffer, _ dnsname.Name) error {
	st, err := b.ReadU16()
	if err != nil {
		return err
	}
	host, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Subtype, r.Hostname = st, host
	return nil
}

func (r *AFSDB) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	b.WriteU16(r.Subtype)
	return r.Hostname.WriteCompressed(b, ctx)
}

func (r *AFSDB) String() string { return fmt.Sprintf("%d %s", r.Subtype, r.Hostname) }

// KX: key exchanger (RFC 2230).
type KX struct {
	Preference uint16
	Exchanger  dnsname.Name
}

func NewKX() RDATA { return &KX{} }

func (r *KX) Decode(b *wire.Buffer, _ dnsname.Name) error {
	pref, err := b.ReadU16()
	if err != nil {
		return err
	}
	name, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Preference, r.Exchanger = pref, name
	return nil
}

func (r *KX) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	b.WriteU16(r.Preference)
	return r.Exchanger.WriteCompressed(b, ctx)
}

func (r *KX) String() string { return fmt.Sprintf("%d %s", r.Preference, r.Exchanger) }

// PX: X.400 mail mapping (RFC 2163).
type PX struct {
	Preference       uint16
	Map822, MapX400  dnsname.Name
}

func NewPX() RDATA { return &PX{} }

func (r *PX) Decode(b *wire.Buffer, _ dnsname.Name) error {
	pref, err := b.ReadU16()
	if err != nil {
		return err
	}
	m822, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	mx400, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Preference, r.Map822, r.MapX400 = pref, m822, mx400
	return nil
}

func (r *PX) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	b.WriteU16(r.Preference)
	if err := r.Map822.WriteCompressed(b, ctx); err != nil {
		return err
	}
	return r.MapX400.WriteCompressed(b, ctx)
}

func (r *PX) String() string {
	return fmt.Sprintf("%d %s %s", r.Preference, r.Map822, r.MapX400)
}

// RT: route-through (RFC 1183).
type RT struct {
	Preference       uint16
	IntermediateHost dnsname.Name
}

func NewRT() RDATA { return &RT{} }

func (r *RT) Decode(b *wire.Buffer, _ dnsname.Name) error {
	pref, err := b.ReadU16()
	if err != nil {
		return err
	}
	host, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Preference, r.IntermediateHost = pref, host
	return nil
}

func (r *RT) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	b.WriteU16(r.Preference)
	return r.IntermediateHost.WriteCompressed(b, ctx)
}

func (r *RT) String() string { return fmt.Sprintf("%d %s", r.Preference, r.IntermediateHost) }

// MINFO: mailbox/mail-list information (RFC 1035).
type MINFO struct {
	Rmailbx, Emailbx dnsname.Name
}

func NewMINFO() RDATA { return &MINFO{} }

func (r *MINFO) Decode(b *wire.Buffer, _ dnsname.Name) error {
	rm, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	em, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Rmailbx, r.Emailbx = rm, em
	return nil
}

func (r *MINFO) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	if err := r.Rmailbx.WriteCompressed(b, ctx); err != nil {
		return err
	}
	return r.Emailbx.WriteCompressed(b, ctx)
}

func (r *MINFO) String() string { return fmt.Sprintf("%s %s", r.Rmailbx, r.Emailbx) }

// NAPTR: naming authority pointer (RFC 3403). Replacement is never compressed
// in practice even though NAPTR predates RFC 3597; we follow that convention.
type NAPTR struct {
	Order, Preference            uint16
	Flags, Services, Regexp      string
	Replacement                  dnsname.Name
}

func NewNAPTR() RDATA { return &NAPTR{} }

func (r *NAPTR) Decode(b *wire.Buffer, _ dnsname.Name) error {
	order, err := b.ReadU16()
	if err != nil {
		return err
	}
	pref, err := b.ReadU16()
	if err != nil {
		return err
	}
	flags, err := b.ReadCountedString()
	if err != nil {
		return err
	}
	services, err := b.ReadCountedString()
	if err != nil {
		return err
	}
	regexp, err := b.ReadCountedString()
	if err != nil {
		return err
	}
	repl, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	r.Order, r.Preference = order, pref
	r.Flags, r.Services, r.Regexp = string(flags), string(services), string(regexp)
	r.Replacement = repl
	return nil
}

func (r *NAPTR) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteU16(r.Order)
	b.WriteU16(r.Preference)
	if err := b.WriteCountedString([]byte(r.Flags)); err != nil {
		return err
	}
	if err := b.WriteCountedString([]byte(r.Services)); err != nil {
		return err
	}
	if err := b.WriteCountedString([]byte(r.Regexp)); err != nil {
		return err
	}
	return r.Replacement.WriteCanonical(b)
}

func (r *NAPTR) String() string {
	return fmt.Sprintf("%d %d %q %q %q %s", r.Order, r.Preference, r.Flags, r.Services, r.Regexp, r.Replacement)
}

// HINFO: host information (RFC 1035). No embedded names.
type HINFO struct {
	CPU, OS string
}

func NewHINFO() RDATA { return &HINFO{} }

func (r *HINFO) Decode(b *wire.Buffer, _ dnsname.Name) error {
	cpu, err := b.ReadCountedString()
	if err != nil {
		return err
	}
	os, err := b.ReadCountedString()
	if err != nil {
		return err
	}
	r.CPU, r.OS = string(cpu), string(os)
	return nil
}

func (r *HINFO) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	if err := b.WriteCountedString([]byte(r.CPU)); err != nil {
		return err
	}
	return b.WriteCountedString([]byte(r.OS))
}

func (r *HINFO) String() string { return fmt.Sprintf("%q %q", r.CPU, r.OS) }
