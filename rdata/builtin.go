package rdata

// builtinCodecs enumerates every RR type this catalog ships a codec for.
// OPT (41) is deliberately absent: it is a pseudo-RR handled by the message
// layer's EDNS field, never as an ordinary RRset member.
func builtinCodecs() []CodecInfo {
	return []CodecInfo{
		{TypeA, "A", NewA},
		{TypeNS, "NS", NewNS},
		{TypeCNAME, "CNAME", NewCNAME},
		{TypeSOA, "SOA", NewSOA},
		{TypeMB, "MB", NewMB},
		{TypeMG, "MG", NewMG},
		{TypeMR, "MR", NewMR},
		{TypeNULL, "NULL", NewNULL},
		{TypePTR, "PTR", NewPTR},
		{TypeHINFO, "HINFO", NewHINFO},
		{TypeMINFO, "MINFO", NewMINFO},
		{TypeMX, "MX", NewMX},
		{TypeTXT, "TXT", NewTXT},
		{TypeRP, "RP", NewRP},
		{TypeAFSDB, "AFSDB", NewAFSDB},
		{TypeRT, "RT", NewRT},
		{TypeSIG, "SIG", NewSIG},
		{TypePX, "PX", NewPX},
		{TypeAAAA, "AAAA", NewAAAA},
		{TypeSRV, "SRV", NewSRV},
		{TypeNAPTR, "NAPTR", NewNAPTR},
		{TypeKX, "KX", NewKX},
		{TypeCERT, "CERT", NewCERT},
		{TypeDNAME, "DNAME", NewDNAME},
		{TypeDS, "DS", NewDS},
		{TypeRRSIG, "RRSIG", NewRRSIG},
		{TypeNSEC, "NSEC", NewNSEC},
		{TypeDNSKEY, "DNSKEY", NewDNSKEY},
		{TypeDHCID, "DHCID", NewDHCID},
		{TypeNSEC3, "NSEC3", NewNSEC3},
		{TypeNSEC3PARAM, "NSEC3PARAM", NewNSEC3PARAM},
		{TypeTLSA, "TLSA", NewTLSA},
		{TypeSMIMEA, "SMIMEA", NewSMIMEA},
		{TypeCDS, "CDS", NewCDS},
		{TypeCDNSKEY, "CDNSKEY", NewCDNSKEY},
		{TypeOPENPGPKEY, "OPENPGPKEY", NewOPENPGPKEY},
		{TypeSVCB, "SVCB", NewSVCB},
		{TypeHTTPS, "HTTPS", NewHTTPS},
		{TypeTKEY, "TKEY", NewTKEY},
		{TypeTSIG, "TSIG", NewTSIG},
	}
}
