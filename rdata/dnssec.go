package rdata

import (
	"fmt"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
)

// sigLayout is the shared field layout of SIG (RFC 2535) and RRSIG
// (RFC 4034): type covered, algorithm, labels, original TTL, signature
// expiration/inception as 32-bit POSIX seconds, key tag, signer name
// (never compressed), and the signature itself.
type sigLayout struct {
	TypeCovered   uint16
	Algorithm     uint8
	Labels        uint8
	OriginalTTL   uint32
	SigExpiration uint32
	SigInception  uint32
	KeyTag        uint16
	SignerName    dnsname.Name
	Signature     []byte
}

func (s *sigLayout) decode(b *wire.Buffer) error {
	tc, err := b.ReadU16()
	if err != nil {
		return err
	}
	alg, err := b.ReadU8()
	if err != nil {
		return err
	}
	labels, err := b.ReadU8()
	if err != nil {
		return err
	}
	origTTL, err := b.ReadU32()
	if err != nil {
		return err
	}
	exp, err := b.ReadU32()
	if err != nil {
		return err
	}
	inc, err := b.ReadU32()
	if err != nil {
		return err
	}
	tag, err := b.ReadU16()
	if err != nil {
		return err
	}
	signer, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	sig, err := b.ReadRest()
	if err != nil {
		return err
	}
	*s = sigLayout{tc, alg, labels, origTTL, exp, inc, tag, signer, sig}
	return nil
}

func (s *sigLayout) encode(b *wire.Buffer) error {
	b.WriteU16(s.TypeCovered)
	b.WriteU8(s.Algorithm)
	b.WriteU8(s.Labels)
	b.WriteU32(s.OriginalTTL)
	b.WriteU32(s.SigExpiration)
	b.WriteU32(s.SigInception)
	b.WriteU16(s.KeyTag)
	if err := s.SignerName.WriteCanonical(b); err != nil {
		return err
	}
	b.WriteBytes(s.Signature)
	return nil
}

func (s *sigLayout) str() string {
	return fmt.Sprintf("%d %d %d %d %d %d %d %s %s",
		s.TypeCovered, s.Algorithm, s.Labels, s.OriginalTTL, s.SigExpiration,
		s.SigInception, s.KeyTag, s.SignerName, encodeBase64(s.Signature))
}

// SIG: the original RFC 2535 signature record. Present in the catalog but
// not exercised by the lookup core beyond round-trip.
type SIG struct{ sigLayout }

func NewSIG() RDATA { return &SIG{} }

func (r *SIG) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.sigLayout.decode(b) }
func (r *SIG) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.sigLayout.encode(b) }
func (r *SIG) String() string                                  { return r.sigLayout.str() }

// RRSIG: DNSSEC signature (RFC 4034).
type RRSIG struct{ sigLayout }

func NewRRSIG() RDATA { return &RRSIG{} }

func (r *RRSIG) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.sigLayout.decode(b) }
func (r *RRSIG) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.sigLayout.encode(b) }
func (r *RRSIG) String() string                                  { return r.sigLayout.str() }

// DNSKEY: a DNSSEC public key (RFC 4034).
type DNSKEY struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

func NewDNSKEY() RDATA { return &DNSKEY{} }

func (r *DNSKEY) Decode(b *wire.Buffer, _ dnsname.Name) error {
	flags, err := b.ReadU16()
	if err != nil {
		return err
	}
	proto, err := b.ReadU8()
	if err != nil {
		return err
	}
	alg, err := b.ReadU8()
	if err != nil {
		return err
	}
	key, err := b.ReadRest()
	if err != nil {
		return err
	}
	r.Flags, r.Protocol, r.Algorithm, r.PublicKey = flags, proto, alg, key
	return nil
}

func (r *DNSKEY) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteU16(r.Flags)
	b.WriteU8(r.Protocol)
	b.WriteU8(r.Algorithm)
	b.WriteBytes(r.PublicKey)
	return nil
}

func (r *DNSKEY) String() string {
	return fmt.Sprintf("%d %d %d %s", r.Flags, r.Protocol, r.Algorithm, encodeBase64(r.PublicKey))
}

// CDNSKEY: child-side DNSKEY publication (RFC 7344), identical wire shape.
type CDNSKEY struct{ DNSKEY }

func NewCDNSKEY() RDATA { return &CDNSKEY{} }

// digestLayout is shared by DS and CDS (RFC 4034, RFC 7344).
type digestLayout struct {
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

func (d *digestLayout) decode(b *wire.Buffer) error {
	tag, err := b.ReadU16()
	if err != nil {
		return err
	}
	alg, err := b.ReadU8()
	if err != nil {
		return err
	}
	dt, err := b.ReadU8()
	if err != nil {
		return err
	}
	digest, err := b.ReadRest()
	if err != nil {
		return err
	}
	*d = digestLayout{tag, alg, dt, digest}
	return nil
}

func (d *digestLayout) encode(b *wire.Buffer) error {
	b.WriteU16(d.KeyTag)
	b.WriteU8(d.Algorithm)
	b.WriteU8(d.DigestType)
	b.WriteBytes(d.Digest)
	return nil
}

func (d *digestLayout) str() string {
	return fmt.Sprintf("%d %d %d %s", d.KeyTag, d.Algorithm, d.DigestType, encodeHex(d.Digest))
}

// DS: delegation signer (RFC 4034).
type DS struct{ digestLayout }

func NewDS() RDATA { return &DS{} }

func (r *DS) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.digestLayout.decode(b) }
func (r *DS) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.digestLayout.encode(b) }
func (r *DS) String() string                                  { return r.digestLayout.str() }

// CDS: child-side DS publication (RFC 7344), identical wire shape.
type CDS struct{ digestLayout }

func NewCDS() RDATA { return &CDS{} }

func (r *CDS) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.digestLayout.decode(b) }
func (r *CDS) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.digestLayout.encode(b) }
func (r *CDS) String() string                                  { return r.digestLayout.str() }

// NSEC: authenticated denial of existence (RFC 4034). NextDomain is never
// compressed; TypeBitMaps is kept as opaque windowed-bitmap bytes since the
// spec treats NSEC/NSEC3 type bitmaps as round-trip payload, not something
// the lookup core interprets.
type NSEC struct {
	NextDomain  dnsname.Name
	TypeBitMaps []byte
}

func NewNSEC() RDATA { return &NSEC{} }

func (r *NSEC) Decode(b *wire.Buffer, _ dnsname.Name) error {
	next, err := dnsname.ParseWire(b)
	if err != nil {
		return err
	}
	bitmaps, err := b.ReadRest()
	if err != nil {
		return err
	}
	r.NextDomain, r.TypeBitMaps = next, bitmaps
	return nil
}

func (r *NSEC) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	if err := r.NextDomain.WriteCanonical(b); err != nil {
		return err
	}
	b.WriteBytes(r.TypeBitMaps)
	return nil
}

func (r *NSEC) String() string { return fmt.Sprintf("%s %s", r.NextDomain, encodeHex(r.TypeBitMaps)) }

// NSEC3: hashed authenticated denial of existence (RFC 5155).
type NSEC3 struct {
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
	NextHashed    []byte
	TypeBitMaps   []byte
}

func NewNSEC3() RDATA { return &NSEC3{} }

func (r *NSEC3) Decode(b *wire.Buffer, _ dnsname.Name) error {
	alg, err := b.ReadU8()
	if err != nil {
		return err
	}
	flags, err := b.ReadU8()
	if err != nil {
		return err
	}
	iter, err := b.ReadU16()
	if err != nil {
		return err
	}
	saltLen, err := b.ReadU8()
	if err != nil {
		return err
	}
	salt, err := b.ReadByteArray(int(saltLen))
	if err != nil {
		return err
	}
	hashLen, err := b.ReadU8()
	if err != nil {
		return err
	}
	next, err := b.ReadByteArray(int(hashLen))
	if err != nil {
		return err
	}
	bitmaps, err := b.ReadRest()
	if err != nil {
		return err
	}
	r.HashAlgorithm, r.Flags, r.Iterations = alg, flags, iter
	r.Salt, r.NextHashed, r.TypeBitMaps = salt, next, bitmaps
	return nil
}

func (r *NSEC3) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteU8(r.HashAlgorithm)
	b.WriteU8(r.Flags)
	b.WriteU16(r.Iterations)
	b.WriteU8(uint8(len(r.Salt)))
	b.WriteBytes(r.Salt)
	b.WriteU8(uint8(len(r.NextHashed)))
	b.WriteBytes(r.NextHashed)
	b.WriteBytes(r.TypeBitMaps)
	return nil
}

func (r *NSEC3) String() string {
	return fmt.Sprintf("%d %d %d %s %s", r.HashAlgorithm, r.Flags, r.Iterations,
		encodeHex(r.Salt), encodeBase32Hex(r.NextHashed))
}

// NSEC3PARAM: NSEC3 parameters published at a zone apex (RFC 5155).
type NSEC3PARAM struct {
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
}

func NewNSEC3PARAM() RDATA { return &NSEC3PARAM{} }

func (r *NSEC3PARAM) Decode(b *wire.Buffer, _ dnsname.Name) error {
	alg, err := b.ReadU8()
	if err != nil {
		return err
	}
	flags, err := b.ReadU8()
	if err != nil {
		return err
	}
	iter, err := b.ReadU16()
	if err != nil {
		return err
	}
	saltLen, err := b.ReadU8()
	if err != nil {
		return err
	}
	salt, err := b.ReadByteArray(int(saltLen))
	if err != nil {
		return err
	}
	r.HashAlgorithm, r.Flags, r.Iterations, r.Salt = alg, flags, iter, salt
	return nil
}

func (r *NSEC3PARAM) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteU8(r.HashAlgorithm)
	b.WriteU8(r.Flags)
	b.WriteU16(r.Iterations)
	b.WriteU8(uint8(len(r.Salt)))
	b.WriteBytes(r.Salt)
	return nil
}

func (r *NSEC3PARAM) String() string {
	return fmt.Sprintf("%d %d %d %s", r.HashAlgorithm, r.Flags, r.Iterations, encodeHex(r.Salt))
}

// tlsaLayout is shared by TLSA (RFC 6698) and SMIMEA (RFC 8162).
type tlsaLayout struct {
	Usage        uint8
	Selector     uint8
	MatchingType uint8
	Data         []byte
}

func (t *tlsaLayout) decode(b *wire.Buffer) error {
	usage, err := b.ReadU8()
	if err != nil {
		return err
	}
	sel, err := b.ReadU8()
	if err != nil {
		return err
	}
	mt, err := b.ReadU8()
	if err != nil {
		return err
	}
	data, err := b.ReadRest()
	if err != nil {
		return err
	}
	*t = tlsaLayout{usage, sel, mt, data}
	return nil
}

func (t *tlsaLayout) encode(b *wire.Buffer) error {
	b.WriteU8(t.Usage)
	b.WriteU8(t.Selector)
	b.WriteU8(t.MatchingType)
	b.WriteBytes(t.Data)
	return nil
}

func (t *tlsaLayout) str() string {
	return fmt.Sprintf("%d %d %d %s", t.Usage, t.Selector, t.MatchingType, encodeHex(t.Data))
}

// TLSA: TLS certificate association (RFC 6698).
type TLSA struct{ tlsaLayout }

func NewTLSA() RDATA { return &TLSA{} }

func (r *TLSA) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.tlsaLayout.decode(b) }
func (r *TLSA) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.tlsaLayout.encode(b) }
func (r *TLSA) String() string                                  { return r.tlsaLayout.str() }

// SMIMEA: S/MIME certificate association (RFC 8162), identical wire shape to TLSA.
type SMIMEA struct{ tlsaLayout }

func NewSMIMEA() RDATA { return &SMIMEA{} }

func (r *SMIMEA) Decode(b *wire.Buffer, _ dnsname.Name) error      { return r.tlsaLayout.decode(b) }
func (r *SMIMEA) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error { return r.tlsaLayout.encode(b) }
func (r *SMIMEA) String() string                                  { return r.tlsaLayout.str() }
