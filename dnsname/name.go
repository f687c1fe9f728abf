// Package dnsname implements domain name parsing, comparison, and wire
// encoding with compression, per RFC 1035 section 3.1 and 4.1.4.
package dnsname

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dnsscience/goresolver/wire"
)

const (
	maxLabelLen  = 63
	maxNameWire  = 255
	maxLabels    = 127
	maxPtrHops   = 128
	ptrMask      = 0xC0
	ptrOffsetCap = 0x3FFF
)

var (
	// ErrLabelTooLong is returned when a label exceeds 63 octets.
	ErrLabelTooLong = errors.New("dnsname: label exceeds 63 octets")
	// ErrNameTooLong is returned when the encoded name would exceed 255 octets.
	ErrNameTooLong = errors.New("dnsname: name exceeds 255 octets")
	// ErrTooManyLabels is returned when a name would carry more than 127 labels.
	ErrTooManyLabels = errors.New("dnsname: too many labels")
	// ErrCompressionLoop is returned when decompression revisits an offset.
	ErrCompressionLoop = errors.New("dnsname: compression pointer loop")
	// ErrForwardPointer is returned when a compression pointer targets a
	// later offset in the message, which RFC 1035 never permits.
	ErrForwardPointer = errors.New("dnsname: forward compression pointer")
	// ErrEmptyLabel is returned for a zero-length label appearing mid-name
	// in presentation text (the root label may only terminate a name).
	ErrEmptyLabel = errors.New("dnsname: empty non-terminal label")
)

// Name is an ordered, immutable sequence of labels. The zero Name is the
// empty relative name (no labels). Absolute names end in the zero-length
// root label, represented internally by the absolute flag rather than by a
// stored empty label.
type Name struct {
	labels   []string // raw label octets, case preserved
	absolute bool
}

// Root is the absolute root name ".".
var Root = Name{labels: nil, absolute: true}

// New builds a Name from already-separated label octets (no escaping, no
// root label included); absolute indicates whether to treat it as rooted.
func New(labels []string, absolute bool) (Name, error) {
	if len(labels) > maxLabels {
		return Name{}, ErrTooManyLabels
	}
	total := 1 // root/terminal length octet
	for _, l := range labels {
		if len(l) > maxLabelLen {
			return Name{}, ErrLabelTooLong
		}
		if len(l) == 0 {
			return Name{}, ErrEmptyLabel
		}
		total += len(l) + 1
	}
	if total > maxNameWire {
		return Name{}, ErrNameTooLong
	}
	cp := make([]string, len(labels))
	copy(cp, labels)
	return Name{labels: cp, absolute: absolute}, nil
}

// Parse reads a presentation-format name (dot-separated labels, with
// backslash-escapes for '.', '\\', and decimal byte values) relative to
// origin. A trailing unescaped dot makes the result absolute; otherwise
// origin is appended.
func Parse(text string, origin Name) (Name, error) {
	if text == "." {
		return Root, nil
	}
	labels, trailingDot, err := splitPresentation(text)
	if err != nil {
		return Name{}, err
	}
	if trailingDot {
		return New(labels, true)
	}
	n, err := New(labels, false)
	if err != nil {
		return Name{}, err
	}
	return Concat(n, origin)
}

func splitPresentation(text string) (labels []string, trailingDot bool, err error) {
	var cur strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\\':
			i++
			if i >= len(text) {
				return nil, false, fmt.Errorf("dnsname: dangling escape")
			}
			if text[i] >= '0' && text[i] <= '9' && i+2 < len(text) {
				// \DDD decimal byte escape
				var v int
				n, serr := fmt.Sscanf(text[i:i+3], "%3d", &v)
				if serr == nil && n == 1 && v <= 255 {
					cur.WriteByte(byte(v))
					i += 3
					continue
				}
			}
			cur.WriteByte(text[i])
			i++
		case c == '.':
			if cur.Len() == 0 && len(labels) == 0 && i == len(text)-1 {
				// textual root: lone trailing dot after nothing yields root
			}
			labels = append(labels, cur.String())
			cur.Reset()
			i++
			if i == len(text) {
				trailingDot = true
			}
		default:
			cur.WriteByte(c)
			i++
		}
	}
	if cur.Len() > 0 {
		labels = append(labels, cur.String())
	}
	for _, l := range labels {
		if len(l) == 0 {
			return nil, false, ErrEmptyLabel
		}
	}
	return labels, trailingDot, nil
}

// ParseWire decodes a name starting at the buffer's current position,
// following compression pointers per RFC 1035 section 4.1.4. Pointers must
// point strictly backward; pointer loops and truncated input are errors.
func ParseWire(b *wire.Buffer) (Name, error) {
	var labels []string
	visited := make(map[int]bool)
	hops := 0
	jumped := false
	startPos := b.Pos()
	cur := startPos

	for {
		if cur != b.Pos() {
			// only relevant when following a pointer; handled below
		}
		lenByte, err := peekByte(b, cur)
		if err != nil {
			return Name{}, err
		}
		if lenByte&ptrMask == ptrMask {
			hiByte, err := peekByte(b, cur)
			if err != nil {
				return Name{}, err
			}
			loByte, err := peekByte(b, cur+1)
			if err != nil {
				return Name{}, err
			}
			ptr := (int(hiByte&^ptrMask) << 8) | int(loByte)
			if ptr >= startPos {
				return Name{}, ErrForwardPointer
			}
			if visited[ptr] {
				return Name{}, ErrCompressionLoop
			}
			visited[ptr] = true
			hops++
			if hops > maxPtrHops {
				return Name{}, ErrCompressionLoop
			}
			if !jumped {
				if err := b.Seek(cur + 2); err != nil {
					return Name{}, err
				}
				jumped = true
			}
			cur = ptr
			continue
		}
		if lenByte == 0 {
			cur++
			if !jumped {
				if err := b.Seek(cur); err != nil {
					return Name{}, err
				}
			}
			break
		}
		if int(lenByte) > maxLabelLen {
			return Name{}, ErrLabelTooLong
		}
		labelStart := cur + 1
		label, err := peekBytes(b, labelStart, int(lenByte))
		if err != nil {
			return Name{}, err
		}
		labels = append(labels, string(label))
		cur = labelStart + int(lenByte)
	}

	n, err := New(labels, true)
	if err != nil {
		return Name{}, err
	}
	return n, nil
}

// peekByte/peekBytes read from the buffer's underlying storage at an
// absolute offset without disturbing its cursor; used while chasing
// compression pointers which may jump anywhere before the current position.
func peekByte(b *wire.Buffer, at int) (byte, error) {
	bs, err := peekBytes(b, at, 1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

func peekBytes(b *wire.Buffer, at, n int) ([]byte, error) {
	full := b.Bytes()
	if at < 0 || at+n > len(full) {
		return nil, wire.ErrTooShort
	}
	return full[at : at+n], nil
}

// WriteCanonical appends the lowercased, uncompressed wire form of n to b.
// Used for DNSSEC signing input, where compression must never be used.
func (n Name) WriteCanonical(b *wire.Buffer) error {
	lower := make([]string, len(n.labels))
	for i, l := range n.labels {
		lower[i] = foldASCII(l)
	}
	return Name{labels: lower, absolute: n.absolute}.writeWire(b, nil)
}

// WriteCompressed appends n's wire form to b, compressing against ctx
// where possible and registering any newly written suffixes for reuse by
// later names encoded into the same message.
func (n Name) WriteCompressed(b *wire.Buffer, ctx *CompressionContext) error {
	if ctx == nil {
		return n.writeWire(b, nil)
	}
	return n.writeWire(b, ctx)
}

func (n Name) writeWire(b *wire.Buffer, ctx *CompressionContext) error {
	labels := n.labels
	for i := 0; i <= len(labels); i++ {
		suffix := Name{labels: labels[i:], absolute: true}
		if ctx != nil {
			if ptr, ok := ctx.lookup(suffix); ok {
				b.WriteU16(uint16(ptrMask<<8) | uint16(ptr))
				return nil
			}
		}
		if i == len(labels) {
			b.WriteU8(0)
			return nil
		}
		if ctx != nil {
			ctx.register(suffix, b.Pos())
		}
		label := labels[i]
		if len(label) > maxLabelLen {
			return ErrLabelTooLong
		}
		b.WriteU8(uint8(len(label)))
		b.WriteBytes([]byte(label))
	}
	return nil
}

// CompressionContext tracks, for the encoding of a single message, every
// name suffix written so far and the offset it was written at. It must be
// created fresh per message and discarded afterward: offsets are only
// meaningful within the message they were recorded for.
type CompressionContext struct {
	offsets map[string]int
}

// NewCompressionContext returns an empty compression context scoped to one
// message encode.
func NewCompressionContext() *CompressionContext {
	return &CompressionContext{offsets: make(map[string]int)}
}

func (c *CompressionContext) lookup(suffix Name) (int, bool) {
	if len(suffix.labels) == 0 {
		return 0, false // never compress the root label itself
	}
	off, ok := c.offsets[suffix.key()]
	if !ok || off > ptrOffsetCap {
		return 0, false
	}
	return off, ok
}

func (c *CompressionContext) register(suffix Name, offset int) {
	if len(suffix.labels) == 0 || offset > ptrOffsetCap {
		return
	}
	key := suffix.key()
	if _, exists := c.offsets[key]; !exists {
		c.offsets[key] = offset
	}
}

func (n Name) key() string {
	return n.Key()
}

// Key returns a case-folded, separator-joined representation of n suitable
// for use as a map key (e.g. in a cache bucketed by owner name). Two names
// that are Equal always produce the same Key.
func (n Name) Key() string {
	var sb strings.Builder
	for _, l := range n.labels {
		sb.WriteString(foldASCII(l))
		sb.WriteByte(0)
	}
	return sb.String()
}

func foldASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// LabelCount returns the number of labels, excluding the implicit root.
func (n Name) LabelCount() int {
	return len(n.labels)
}

// IsAbsolute reports whether n's last label is the zero-length root.
func (n Name) IsAbsolute() bool {
	return n.absolute
}

// IsWildcard reports whether n's first label is the literal "*".
func (n Name) IsWildcard() bool {
	return len(n.labels) > 0 && n.labels[0] == "*"
}

// Equal reports whether a and b denote the same name under case-insensitive
// ASCII folding of the A-Z range (non-ASCII octets compare byte-exact).
func (a Name) Equal(b Name) bool {
	if a.absolute != b.absolute || len(a.labels) != len(b.labels) {
		return false
	}
	for i := range a.labels {
		if !labelEqual(a.labels[i], b.labels[i]) {
			return false
		}
	}
	return true
}

func labelEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Subdomain reports whether a's trailing labels equal b exactly (a is b,
// or a proper descendant of b).
func (a Name) Subdomain(b Name) bool {
	if len(b.labels) > len(a.labels) {
		return false
	}
	off := len(a.labels) - len(b.labels)
	for i := range b.labels {
		if !labelEqual(a.labels[off+i], b.labels[i]) {
			return false
		}
	}
	return true
}

// Concat appends suffix to prefix's labels, producing prefix+suffix. It
// fails if the combined wire length would exceed 255 octets. prefix must be
// relative (not absolute); the result's absoluteness follows suffix.
func Concat(prefix, suffix Name) (Name, error) {
	combined := make([]string, 0, len(prefix.labels)+len(suffix.labels))
	combined = append(combined, prefix.labels...)
	combined = append(combined, suffix.labels...)
	return New(combined, suffix.absolute)
}

// FromDNAME rewrites the owner-side prefix of self so that the dnameOwner
// suffix is replaced by dnameTarget, per RFC 6672. self must be a subdomain
// of dnameOwner.
func FromDNAME(self, dnameOwner, dnameTarget Name) (Name, error) {
	if !self.Subdomain(dnameOwner) {
		return Name{}, fmt.Errorf("dnsname: %s is not a subdomain of %s", self, dnameOwner)
	}
	prefixLen := len(self.labels) - len(dnameOwner.labels)
	prefix := Name{labels: self.labels[:prefixLen], absolute: false}
	return Concat(prefix, dnameTarget)
}

// String renders the presentation form with each label's case preserved,
// escaping '.' and '\\' and any byte outside printable ASCII as "\DDD".
func (n Name) String() string {
	if len(n.labels) == 0 {
		return "."
	}
	var sb strings.Builder
	for _, l := range n.labels {
		for i := 0; i < len(l); i++ {
			c := l[i]
			switch {
			case c == '.' || c == '\\':
				sb.WriteByte('\\')
				sb.WriteByte(c)
			case c < 0x21 || c > 0x7E:
				sb.WriteString(fmt.Sprintf("\\%03d", c))
			default:
				sb.WriteByte(c)
			}
		}
		sb.WriteByte('.')
	}
	if !n.absolute {
		s := sb.String()
		return strings.TrimSuffix(s, ".")
	}
	return sb.String()
}

// WireLen returns the encoded length in octets (including length prefixes
// and the terminating root octet).
func (n Name) WireLen() int {
	total := 1
	for _, l := range n.labels {
		total += len(l) + 1
	}
	return total
}
