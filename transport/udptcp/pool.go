package udptcp

import (
	"sync"

	"github.com/dnsscience/goresolver/dnsmsg"
)

// messagePool is a sync.Pool of *dnsmsg.Message to cut GC pressure under
// load. Reused for the per-query copy Send makes before stamping in a
// fresh transaction ID.
var messagePool = sync.Pool{
	New: func() interface{} {
		return new(dnsmsg.Message)
	},
}

func acquireMessage() *dnsmsg.Message {
	return messagePool.Get().(*dnsmsg.Message)
}

// releaseMessage resets m to prevent leaking one query's data into the
// next borrower, then returns it to the pool.
func releaseMessage(m *dnsmsg.Message) {
	*m = dnsmsg.Message{}
	messagePool.Put(m)
}
