package dnsmsg

import (
	"fmt"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/dnsscience/goresolver/wire"
)

// EDNSOption is one (code, data) option carried in an OPT pseudo-record's
// RDATA, e.g. a Cookie (code 10, RFC 7873/9018) or an NSID (code 3).
type EDNSOption struct {
	Code uint16
	Data []byte
}

// OPT represents the EDNS(0) pseudo-record (RFC 6891): max UDP payload,
// the extended RCODE bits, the EDNS version, the DO (DNSSEC OK) bit, and
// an ordered option list. It is exposed as Message.EDNS rather than as an
// ordinary additional-section record.
type OPT struct {
	UDPSize       uint16
	ExtendedRcode uint8 // high 8 bits of the 12-bit RCODE
	Version       uint8
	DO            bool
	Options       []EDNSOption
}

// FullRcode combines the header's low 4 RCODE bits with this OPT's extended
// high bits into the full 12-bit response code.
func (o *OPT) FullRcode(headerRcode uint8) uint16 {
	return uint16(o.ExtendedRcode)<<4 | uint16(headerRcode&0x0F)
}

const optOwnerMustBeRoot = "dnsmsg: OPT owner name must be root"

// toRecord renders o as the wire-level pseudo-record (owner root, type 41,
// class = UDP size, TTL packed with extended-rcode/version/flags).
func (o *OPT) toRecord(headerRcode uint8) Record {
	var ttl uint32
	ttl |= uint32(o.ExtendedRcode) << 24
	ttl |= uint32(o.Version) << 16
	if o.DO {
		ttl |= 1 << 15
	}
	w := wire.NewWriter()
	for _, opt := range o.Options {
		w.WriteU16(opt.Code)
		w.WriteU16(uint16(len(opt.Data)))
		w.WriteBytes(opt.Data)
	}
	return Record{
		Name:  dnsname.Root,
		Type:  rdata.TypeOPT,
		Class: o.UDPSize,
		TTL:   ttl,
		RDATA: &optRDATA{raw: w.Bytes()},
	}
}

// optRDATA carries the already-encoded option list so encodeRecord's
// generic RDATA.Encode path can write it without OPT-specific handling.
type optRDATA struct{ raw []byte }

func (o *optRDATA) Decode(b *wire.Buffer, _ dnsname.Name) error {
	rest, err := b.ReadRest()
	if err != nil {
		return err
	}
	o.raw = rest
	return nil
}
func (o *optRDATA) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteBytes(o.raw)
	return nil
}
func (o *optRDATA) String() string { return fmt.Sprintf("OPT(%d bytes)", len(o.raw)) }

// extractOPT pulls the (at most one) OPT pseudo-record out of a decoded
// additional section, returning the remaining ordinary records separately.
func extractOPT(additional []Record, headerRcode uint8) ([]Record, *OPT, error) {
	var opt *OPT
	remaining := make([]Record, 0, len(additional))
	for _, rec := range additional {
		if rec.Type != rdata.TypeOPT {
			remaining = append(remaining, rec)
			continue
		}
		if !rec.Name.Equal(dnsname.Root) {
			return nil, nil, fmt.Errorf(optOwnerMustBeRoot)
		}
		raw, ok := rec.RDATA.(*optRDATA)
		if !ok {
			return nil, nil, fmt.Errorf("dnsmsg: OPT RDATA has unexpected codec %T", rec.RDATA)
		}
		o := &OPT{
			UDPSize:       rec.Class,
			ExtendedRcode: uint8(rec.TTL >> 24),
			Version:       uint8(rec.TTL >> 16),
			DO:            rec.TTL&(1<<15) != 0,
		}
		opts, err := decodeOptions(raw.raw)
		if err != nil {
			return nil, nil, err
		}
		o.Options = opts
		opt = o
	}
	return remaining, opt, nil
}

func decodeOptions(raw []byte) ([]EDNSOption, error) {
	b := wire.NewBuffer(raw)
	var out []EDNSOption
	for b.Len() > 0 {
		code, err := b.ReadU16()
		if err != nil {
			return nil, err
		}
		length, err := b.ReadU16()
		if err != nil {
			return nil, err
		}
		data, err := b.ReadByteArray(int(length))
		if err != nil {
			return nil, err
		}
		out = append(out, EDNSOption{Code: code, Data: data})
	}
	return out, nil
}
