// Package rdata implements the resource-record catalog: a registry mapping
// numeric RR type codes to codecs for that record's RDATA, covering the
// single-name, address, compound, binary, DNSSEC, SVCB/HTTPS, and meta
// categories, plus an RFC 3597 opaque fallback for unregistered types.
package rdata

import (
	"fmt"
	"sync"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/wire"
)

// Well-known RR type codes this catalog registers a codec for.
const (
	TypeA          = 1
	TypeNS         = 2
	TypeCNAME      = 5
	TypeSOA        = 6
	TypeMB         = 7
	TypeMG         = 8
	TypeMR         = 9
	TypeNULL       = 10
	TypePTR        = 12
	TypeHINFO      = 13
	TypeMINFO      = 14
	TypeMX         = 15
	TypeTXT        = 16
	TypeRP         = 17
	TypeAFSDB      = 18
	TypeRT         = 21
	TypeSIG        = 24
	TypePX         = 26
	TypeAAAA       = 28
	TypeSRV        = 33
	TypeNAPTR      = 35
	TypeKX         = 36
	TypeCERT       = 37
	TypeDNAME      = 39
	TypeOPT        = 41
	TypeDS         = 43
	TypeRRSIG      = 46
	TypeNSEC       = 47
	TypeDNSKEY     = 48
	TypeDHCID      = 49
	TypeNSEC3      = 50
	TypeNSEC3PARAM = 51
	TypeTLSA       = 52
	TypeSMIMEA     = 53
	TypeCDS        = 59
	TypeCDNSKEY    = 60
	TypeOPENPGPKEY = 61
	TypeSVCB       = 64
	TypeHTTPS      = 65
	TypeTKEY       = 249
	TypeTSIG       = 250
)

// RDATA is implemented by every record's type-specific payload. Decode
// reads from a buffer already restricted to this record's RDLENGTH; Encode
// writes that payload (with embedded names compressed when permitted and a
// non-nil ctx is supplied). String renders the canonical presentation form.
type RDATA interface {
	Decode(b *wire.Buffer, origin dnsname.Name) error
	Encode(b *wire.Buffer, ctx *dnsname.CompressionContext) error
	String() string
}

// allowsCompression reports whether RFC 3597 permits compressing embedded
// domain names for the given type. Only the original RFC 1035 types (plus a
// handful of early additions) may compress; every type defined since 2003
// (RFC 3597's cutoff) must emit names uncompressed.
func allowsCompression(rrtype uint16) bool {
	switch rrtype {
	case TypeNS, TypeMD, TypeMF, TypeCNAME, TypeSOA, TypeMB, TypeMG, TypeMR,
		TypePTR, TypeMINFO, TypeMX, TypeRP, TypeAFSDB, TypeRT, TypeSIG, TypePX,
		TypeNAPTR, TypeKX:
		return true
	default:
		return false
	}
}

const (
	TypeMD = 3
	TypeMF = 4
)

// Factory constructs a zero-valued RDATA ready to Decode into.
type Factory func() RDATA

// CodecInfo binds a numeric type code to its textual mnemonic and factory.
type CodecInfo struct {
	Type     uint16
	Mnemonic string
	New      Factory
}

// Registry maps RR type codes to codecs. A mnemonic string binds to exactly
// one numeric code. The zero Registry is not usable; use NewRegistry.
type Registry struct {
	mu         sync.RWMutex
	byType     map[uint16]CodecInfo
	byMnemonic map[string]uint16
}

// NewRegistry returns an empty, independently-mutable registry.
func NewRegistry() *Registry {
	return &Registry{
		byType:     make(map[uint16]CodecInfo),
		byMnemonic: make(map[string]uint16),
	}
}

// Register binds info.Type to info's mnemonic and factory, replacing any
// prior registration for that type code. It fails if info.Mnemonic is
// already bound to a different type code.
func (r *Registry) Register(info CodecInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byMnemonic[info.Mnemonic]; ok && existing != info.Type {
		return fmt.Errorf("rdata: mnemonic %q already bound to type %d", info.Mnemonic, existing)
	}
	r.byType[info.Type] = info
	r.byMnemonic[info.Mnemonic] = info.Type
	return nil
}

// Lookup returns the codec registered for t, or the opaque Unknown fallback
// (RFC 3597) if none is registered.
func (r *Registry) Lookup(t uint16) CodecInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if info, ok := r.byType[t]; ok {
		return info
	}
	return CodecInfo{Type: t, Mnemonic: fmt.Sprintf("TYPE%d", t), New: func() RDATA { return &Unknown{Type: t} }}
}

// LookupMnemonic resolves a textual mnemonic (e.g. "A", "AAAA") to its type
// code.
func (r *Registry) LookupMnemonic(s string) (uint16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byMnemonic[s]
	return t, ok
}

// Overlay returns a new Registry pre-populated with a snapshot of base's
// bindings. Mutating the overlay never affects base, so a session that
// captures base by reference at construction is immune to later
// reconfiguration of a shared overlay.
func Overlay(base *Registry) *Registry {
	base.mu.RLock()
	defer base.mu.RUnlock()
	r := NewRegistry()
	for t, info := range base.byType {
		r.byType[t] = info
	}
	for m, t := range base.byMnemonic {
		r.byMnemonic[m] = t
	}
	return r
}

// Default is the process-wide, immutable-in-practice registry populated
// with this catalog's built-in codecs. Callers who need to register a
// custom or replacement codec should do so via Overlay(Default), never by
// mutating Default itself, to avoid racing other holders of the reference.
var Default = buildDefault()

func buildDefault() *Registry {
	r := NewRegistry()
	for _, info := range builtinCodecs() {
		if err := r.Register(info); err != nil {
			panic(err) // built-in table is self-consistent by construction
		}
	}
	return r
}
