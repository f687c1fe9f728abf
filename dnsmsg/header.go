// Package dnsmsg implements the DNS message codec: the 12-byte header, the
// four sections (question/answer/authority/additional), the OPT
// pseudo-record, and RRset grouping within a section.
package dnsmsg

import "github.com/dnsscience/goresolver/wire"

// Opcode values (RFC 1035 section 4.1.1).
const (
	OpcodeQuery  = 0
	OpcodeIQuery = 1
	OpcodeStatus = 2
	OpcodeNotify = 4
	OpcodeUpdate = 5
)

// Response codes. Values above 15 only arise via EDNS extended RCODE
// (see OPT.ExtendedRcode).
const (
	RcodeSuccess        = 0
	RcodeFormatError    = 1
	RcodeServerFailure  = 2
	RcodeNameError      = 3 // NXDOMAIN
	RcodeNotImplemented = 4
	RcodeRefused        = 5
)

// Header is the fixed 12-byte DNS message header.
type Header struct {
	ID                 uint16
	QR                 bool
	Opcode             uint8
	AA                 bool
	TC                 bool
	RD                 bool
	RA                 bool
	Z                  bool // reserved, must be zero on transmit
	AD                 bool // authentic data (RFC 4035)
	CD                 bool // checking disabled (RFC 4035)
	Rcode              uint8 // low 4 bits; OPT.FullRcode combines them with OPT.ExtendedRcode for the full code
	QDCount            uint16
	ANCount            uint16
	NSCount            uint16
	ARCount            uint16
}

const headerWireLen = 12

func decodeHeader(b *wire.Buffer) (Header, error) {
	var h Header
	id, err := b.ReadU16()
	if err != nil {
		return h, err
	}
	flags, err := b.ReadU16()
	if err != nil {
		return h, err
	}
	qd, err := b.ReadU16()
	if err != nil {
		return h, err
	}
	an, err := b.ReadU16()
	if err != nil {
		return h, err
	}
	ns, err := b.ReadU16()
	if err != nil {
		return h, err
	}
	ar, err := b.ReadU16()
	if err != nil {
		return h, err
	}
	h.ID = id
	h.QR = flags&0x8000 != 0
	h.Opcode = uint8((flags >> 11) & 0x0F)
	h.AA = flags&0x0400 != 0
	h.TC = flags&0x0200 != 0
	h.RD = flags&0x0100 != 0
	h.RA = flags&0x0080 != 0
	h.Z = flags&0x0040 != 0
	h.AD = flags&0x0020 != 0
	h.CD = flags&0x0010 != 0
	h.Rcode = uint8(flags & 0x000F)
	h.QDCount, h.ANCount, h.NSCount, h.ARCount = qd, an, ns, ar
	return h, nil
}

func encodeHeader(b *wire.Buffer, h Header) {
	b.WriteU16(h.ID)
	var flags uint16
	if h.QR {
		flags |= 0x8000
	}
	flags |= uint16(h.Opcode&0x0F) << 11
	if h.AA {
		flags |= 0x0400
	}
	if h.TC {
		flags |= 0x0200
	}
	if h.RD {
		flags |= 0x0100
	}
	if h.RA {
		flags |= 0x0080
	}
	if h.Z {
		flags |= 0x0040
	}
	if h.AD {
		flags |= 0x0020
	}
	if h.CD {
		flags |= 0x0010
	}
	flags |= uint16(h.Rcode & 0x0F)
	b.WriteU16(flags)
	b.WriteU16(h.QDCount)
	b.WriteU16(h.ANCount)
	b.WriteU16(h.NSCount)
	b.WriteU16(h.ARCount)
}
