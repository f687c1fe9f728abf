package rdata

import (
	"fmt"
	"strings"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
)

// TXT: a sequence of character-strings (RFC 1035 section 3.3.14).
type TXT struct {
	Strings [][]byte
}

func NewTXT() RDATA { return &TXT{} }

func (r *TXT) Decode(b *wire.Buffer, _ dnsname.Name) error {
	r.Strings = nil
	for b.Len() > 0 {
		s, err := b.ReadCountedString()
		if err != nil {
			return err
		}
		r.Strings = append(r.Strings, s)
	}
	return nil
}

func (r *TXT) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	for _, s := range r.Strings {
		if err := b.WriteCountedString(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *TXT) String() string {
	parts := make([]string, len(r.Strings))
	for i, s := range r.Strings {
		parts[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(parts, " ")
}

// NULL: an anything-goes byte blob (RFC 1035 section 3.3.10); its
// presentation form is a plain hex dump of the bytes.
type NULL struct{ rawBytes }

func NewNULL() RDATA { return &NULL{} }

// CERT: a certificate or CRL (RFC 4398).
type CERT struct {
	CertType  uint16
	KeyTag    uint16
	Algorithm uint8
	Cert      []byte
}

func NewCERT() RDATA { return &CERT{} }

func (r *CERT) Decode(b *wire.Buffer, _ dnsname.Name) error {
	ct, err := b.ReadU16()
	if err != nil {
		return err
	}
	tag, err := b.ReadU16()
	if err != nil {
		return err
	}
	alg, err := b.ReadU8()
	if err != nil {
		return err
	}
	cert, err := b.ReadRest()
	if err != nil {
		return err
	}
	r.CertType, r.KeyTag, r.Algorithm, r.Cert = ct, tag, alg, cert
	return nil
}

func (r *CERT) Encode(b *wire.Buffer, _ *dnsname.CompressionContext) error {
	b.WriteU16(r.CertType)
	b.WriteU16(r.KeyTag)
	b.WriteU8(r.Algorithm)
	b.WriteBytes(r.Cert)
	return nil
}

func (r *CERT) String() string {
	return fmt.Sprintf("%d %d %d %s", r.CertType, r.KeyTag, r.Algorithm, encodeBase64(r.Cert))
}

// OPENPGPKEY: an OpenPGP public key (RFC 7929), raw key material.
type OPENPGPKEY struct{ rawBytes }

func NewOPENPGPKEY() RDATA { return &OPENPGPKEY{} }

func (r *OPENPGPKEY) String() string { return encodeBase64(r.Data) }

// DHCID: a DHCP client identity digest (RFC 4701).
type DHCID struct{ rawBytes }

func NewDHCID() RDATA { return &DHCID{} }

func (r *DHCID) String() string { return encodeBase64(r.Data) }
