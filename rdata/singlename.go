package rdata

// NS: authoritative name server.
type NS struct{ singleName }

func NewNS() RDATA { return &NS{singleName{rrtype: TypeNS}} }

// CNAME: canonical name for an alias.
type CNAME struct{ singleName }

func NewCNAME() RDATA { return &CNAME{singleName{rrtype: TypeCNAME}} }

// PTR: domain name pointer.
type PTR struct{ singleName }

func NewPTR() RDATA { return &PTR{singleName{rrtype: TypePTR}} }

// DNAME: non-terminal name redirection (RFC 6672). Never compressed.
type DNAME struct{ singleName }

func NewDNAME() RDATA { return &DNAME{singleName{rrtype: TypeDNAME}} }

// MB: mailbox domain name (experimental, RFC 1035).
type MB struct{ singleName }

func NewMB() RDATA { return &MB{singleName{rrtype: TypeMB}} }

// MG: mail group member (experimental, RFC 1035).
type MG struct{ singleName }

func NewMG() RDATA { return &MG{singleName{rrtype: TypeMG}} }

// MR: mail rename domain name (experimental, RFC 1035).
type MR struct{ singleName }

func NewMR() RDATA { return &MR{singleName{rrtype: TypeMR}} }
