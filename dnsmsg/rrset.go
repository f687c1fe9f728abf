package dnsmsg

import "github.com/dnsscience/goresolver/rdata"

// RRset is a non-empty collection of records sharing (owner name, type,
// class). Sigs holds any RRSIG records from the same section whose
// type-covered field names this RRset's type. TTL is the minimum TTL
// among the member records.
type RRset struct {
	Name    Question // Name/Type/Class reused as the grouping key shape
	TTL     uint32
	Records []Record
	Sigs    []*rdata.RRSIG
}

// SectionRRsets groups a section's records into RRsets by (name, type,
// class), preserving first-seen order, and attaches adjacent RRSIG records
// to the RRset they cover.
func SectionRRsets(section []Record) []RRset {
	type key struct {
		name  string
		typ   uint16
		class uint16
	}
	order := make([]key, 0, len(section))
	byKey := make(map[key]*RRset)

	var sigs []Record
	for _, rec := range section {
		if rec.Type == rdata.TypeRRSIG {
			sigs = append(sigs, rec)
			continue
		}
		k := key{rec.Name.String(), rec.Type, rec.Class}
		rs, ok := byKey[k]
		if !ok {
			rs = &RRset{Name: Question{Name: rec.Name, Type: rec.Type, Class: rec.Class}, TTL: rec.TTL}
			byKey[k] = rs
			order = append(order, k)
		}
		rs.Records = append(rs.Records, rec)
		if rec.TTL < rs.TTL {
			rs.TTL = rec.TTL
		}
	}

	out := make([]RRset, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}

	for _, sigRec := range sigs {
		sig, ok := sigRec.RDATA.(*rdata.RRSIG)
		if !ok {
			continue
		}
		for i := range out {
			if out[i].Name.Type == sig.TypeCovered &&
				out[i].Name.Class == sigRec.Class &&
				out[i].Name.Name.Equal(sigRec.Name) {
				out[i].Sigs = append(out[i].Sigs, sig)
			}
		}
	}
	return out
}
