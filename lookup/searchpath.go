package lookup

import "github.com/dnsscience/goresolver/dnsname"

// expandName builds the ordered list of absolute candidates for name: if
// name is already absolute, it is the only candidate. Otherwise every
// candidate is name with either the root label or a search-path suffix
// appended, in absolute-first order when name has more labels than ndots,
// absolute-last otherwise. Candidates that would overrun the 255-octet
// wire limit are dropped.
func expandName(name dnsname.Name, ndots int, searchPath []dnsname.Name) []dnsname.Name {
	if name.IsAbsolute() {
		return []dnsname.Name{name}
	}

	absolute, err := dnsname.Concat(name, dnsname.Root)
	haveAbsolute := err == nil

	var suffixed []dnsname.Name
	for _, suffix := range searchPath {
		cand, err := dnsname.Concat(name, suffix)
		if err != nil {
			continue
		}
		suffixed = append(suffixed, cand)
	}

	var out []dnsname.Name
	if name.LabelCount() > ndots {
		if haveAbsolute {
			out = append(out, absolute)
		}
		out = append(out, suffixed...)
	} else {
		out = append(out, suffixed...)
		if haveAbsolute {
			out = append(out, absolute)
		}
	}
	return out
}
