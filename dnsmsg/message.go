package dnsmsg

import (
	"errors"
	"fmt"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/dnsscience/goresolver/wire"
)

// ErrSectionCountMismatch is returned when a decoded section does not hold
// exactly the number of entries its header count announced.
var ErrSectionCountMismatch = errors.New("dnsmsg: section record count mismatch")

// ErrRDLengthOverrun is returned when a record's RDLENGTH would read past
// the end of the message.
var ErrRDLengthOverrun = errors.New("dnsmsg: RDLENGTH overruns message")

// Question is a single entry in the question section.
type Question struct {
	Name  dnsname.Name
	Type  uint16
	Class uint16
}

// Record is one resource record: owner name, type, class, TTL, and
// type-specific RDATA.
type Record struct {
	Name  dnsname.Name
	Type  uint16
	Class uint16
	TTL   uint32
	RDATA rdata.RDATA
}

// Message is a full DNS message: header, question, and three record
// sections, plus an EDNS OPT pseudo-record exposed as a distinct field
// rather than a normal additional-section member.
type Message struct {
	Header     Header
	Question   []Question
	Answer     []Record
	Authority  []Record
	Additional []Record
	EDNS       *OPT
}

// Decode parses a complete wire-format message using reg to resolve each
// record's RDATA codec. It refuses messages whose sections don't match
// their announced counts, and never reads RDATA past its declared RDLENGTH.
func Decode(raw []byte, reg *rdata.Registry) (*Message, error) {
	b := wire.NewBuffer(raw)
	h, err := decodeHeader(b)
	if err != nil {
		return nil, fmt.Errorf("dnsmsg: header: %w", err)
	}
	m := &Message{Header: h}

	m.Question = make([]Question, 0, h.QDCount)
	for i := 0; i < int(h.QDCount); i++ {
		q, err := decodeQuestion(b)
		if err != nil {
			return nil, fmt.Errorf("dnsmsg: question %d: %w", i, err)
		}
		m.Question = append(m.Question, q)
	}
	if len(m.Question) != int(h.QDCount) {
		return nil, ErrSectionCountMismatch
	}

	m.Answer, err = decodeRRSection(b, int(h.ANCount), reg)
	if err != nil {
		return nil, fmt.Errorf("dnsmsg: answer section: %w", err)
	}

	var rawAuthority []Record
	rawAuthority, err = decodeRRSection(b, int(h.NSCount), reg)
	if err != nil {
		return nil, fmt.Errorf("dnsmsg: authority section: %w", err)
	}
	m.Authority = rawAuthority

	rawAdditional, err := decodeRRSection(b, int(h.ARCount), reg)
	if err != nil {
		return nil, fmt.Errorf("dnsmsg: additional section: %w", err)
	}

	m.Additional, m.EDNS, err = extractOPT(rawAdditional, h.Rcode)
	if err != nil {
		return nil, fmt.Errorf("dnsmsg: OPT: %w", err)
	}

	return m, nil
}

func decodeQuestion(b *wire.Buffer) (Question, error) {
	var q Question
	name, err := dnsname.ParseWire(b)
	if err != nil {
		return q, err
	}
	t, err := b.ReadU16()
	if err != nil {
		return q, err
	}
	c, err := b.ReadU16()
	if err != nil {
		return q, err
	}
	q.Name, q.Type, q.Class = name, t, c
	return q, nil
}

func decodeRRSection(b *wire.Buffer, count int, reg *rdata.Registry) ([]Record, error) {
	out := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		rec, err := decodeRecord(b, reg)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	if len(out) != count {
		return nil, ErrSectionCountMismatch
	}
	return out, nil
}

func decodeRecord(b *wire.Buffer, reg *rdata.Registry) (Record, error) {
	var rec Record
	name, err := dnsname.ParseWire(b)
	if err != nil {
		return rec, err
	}
	t, err := b.ReadU16()
	if err != nil {
		return rec, err
	}
	c, err := b.ReadU16()
	if err != nil {
		return rec, err
	}
	ttl, err := b.ReadU32()
	if err != nil {
		return rec, err
	}
	rdlen, err := b.ReadU16()
	if err != nil {
		return rec, err
	}
	sub, err := b.Restrict(int(rdlen))
	if err != nil {
		return rec, ErrRDLengthOverrun
	}
	var payload rdata.RDATA
	if t == rdata.TypeOPT {
		payload = &optRDATA{}
	} else {
		payload = reg.Lookup(t).New()
	}
	if err := payload.Decode(sub, name); err != nil {
		return rec, fmt.Errorf("rdata for type %d: %w", t, err)
	}
	if sub.Len() != 0 {
		return rec, fmt.Errorf("rdata for type %d: %d trailing bytes", t, sub.Len())
	}
	rec.Name, rec.Type, rec.Class, rec.TTL, rec.RDATA = name, t, c, ttl, payload
	return rec, nil
}

// Encode serializes m to wire format with name compression applied within
// a single, message-scoped compression context.
func (m *Message) Encode() ([]byte, error) {
	b := wire.NewWriter()
	h := m.Header
	h.QDCount = uint16(len(m.Question))
	h.ANCount = uint16(len(m.Answer))
	h.NSCount = uint16(len(m.Authority))
	arCount := len(m.Additional)
	if m.EDNS != nil {
		arCount++
	}
	h.ARCount = uint16(arCount)
	encodeHeader(b, h)

	ctx := dnsname.NewCompressionContext()

	for _, q := range m.Question {
		if err := q.Name.WriteCompressed(b, ctx); err != nil {
			return nil, err
		}
		b.WriteU16(q.Type)
		b.WriteU16(q.Class)
	}
	for _, sec := range [][]Record{m.Answer, m.Authority, m.Additional} {
		for _, rec := range sec {
			if err := encodeRecord(b, ctx, rec); err != nil {
				return nil, err
			}
		}
	}
	if m.EDNS != nil {
		if err := encodeRecord(b, ctx, m.EDNS.toRecord(h.Rcode)); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func encodeRecord(b *wire.Buffer, ctx *dnsname.CompressionContext, rec Record) error {
	if err := rec.Name.WriteCompressed(b, ctx); err != nil {
		return err
	}
	b.WriteU16(rec.Type)
	b.WriteU16(rec.Class)
	b.WriteU32(rec.TTL)
	rdlenPos := b.Pos()
	b.WriteU16(0) // placeholder, patched below
	startPos := b.Pos()
	if err := rec.RDATA.Encode(b, ctx); err != nil {
		return err
	}
	rdlen := b.Pos() - startPos
	b.PatchU16(rdlenPos, uint16(rdlen))
	return nil
}
