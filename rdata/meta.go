package rdata

// TKEY and TSIG are meta-RRs handled by the message layer (transaction
// key establishment and transaction signatures, RFC 2930/2845) rather than
// appearing in ordinary RRsets. This catalog treats them as opaque RDATA
// so a message containing one still round-trips.

// TKEY: transaction key (RFC 2930), carried opaquely.
type TKEY struct{ rawBytes }

func NewTKEY() RDATA { return &TKEY{} }

// TSIG: transaction signature (RFC 2845), carried opaquely.
type TSIG struct{ rawBytes }

func NewTSIG() RDATA { return &TSIG{} }
