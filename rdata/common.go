package rdata

import (
	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
)

// singleName is embedded by every RR type whose RDATA is exactly one
// domain name (NS, CNAME, PTR, DNAME, MB, MG, MR).
type singleName struct {
	rrtype uint16
	Target dnsname.Name
}

func (s *singleName) Decode(b *wire.Buffer, origin dnsname.Name) error {
	n, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	s.Target = n
	return nil
}

func (s *singleName) Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error {
	if allowsCompression(s.rrtype) {
		return s.Target.WriteCompressed(b, ctx)
	}
	return s.Target.WriteCanonical(b)
}

func (s *singleName) String() string {
	return s.Target.String()
}

// rawBytes is embedded by RDATA whose payload is an opaque byte blob with
// no internal structure beyond "the rest of the RDATA" (NULL and the
// fallback Unknown codec both use it directly).
type rawBytes struct {
	Data []byte
}

func (r *rawBytes) Decode(b *wire.Buffer, _ dnsname.Name) error {
	rest, err := b.ReadRest()
	if err != nil {
		return err
	}
	r.Data = rest
	return nil
}

func (r *rawBytes) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteBytes(r.Data)
	return nil
}

func (r *rawBytes) String() string {
	return encodeHex(r.Data)
}
