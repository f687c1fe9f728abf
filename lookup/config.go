package lookup

import (
	"fmt"
	"log"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/hosts"
	"github.com/dnsscience/goresolver/internal/config"
	"github.com/dnsscience/goresolver/internal/workerpool"
	"github.com/dnsscience/goresolver/rrcache"
	"github.com/dnsscience/goresolver/transport"
)

// Config wires everything a Session needs: search-path policy, where to
// probe before the network, and where the network probe itself goes.
type Config struct {
	// MaxRedirects bounds the CNAME+DNAME hop count. Zero selects 16.
	MaxRedirects int
	// Ndots is the absolute-first threshold for search-path expansion. Zero
	// selects 1.
	Ndots int
	// SearchPath suffixes are appended, in order, to every relative name.
	// They are tried before the rooted name when the name has at most Ndots
	// labels, and after it otherwise.
	SearchPath []dnsname.Name
	// CycleResults rotates each RRset's starting index by a shared
	// per-query counter when true.
	CycleResults bool
	// Caches holds at most one cache per query class; a class absent here
	// bypasses the cache probe entirely.
	Caches map[uint16]*rrcache.Cache
	// Hosts is consulted before the cache or transport for A/AAAA
	// queries. Nil skips the hosts probe.
	Hosts hosts.Parser
	// Executor runs LookupAsync's continuation. Required.
	Executor *workerpool.Pool
	// Resolver sends queries that miss the cache and hosts probe. Required.
	Resolver transport.Transport
	// Logger receives redirect-chase decisions, one line per hop; nothing
	// else is logged. Nil selects log.Default(); pass log.New(io.Discard, "", 0) to silence.
	Logger *log.Logger
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func (c Config) maxRedirects() int {
	if c.MaxRedirects > 0 {
		return c.MaxRedirects
	}
	return 16
}

func (c Config) ndots() int {
	if c.Ndots > 0 {
		return c.Ndots
	}
	return 1
}

// NewConfig builds a Session Config from a loaded YAML file, parsing its
// string search path into dnsname.Name values and opening its hosts file.
// Executor and Resolver are not part of the file format and must be set on
// the returned Config by the caller before constructing a Session.
func NewConfig(f config.File) (Config, error) {
	cfg := Config{
		MaxRedirects: f.MaxRedirects,
		Ndots:        f.Ndots,
		CycleResults: f.CycleResults,
		Caches:       make(map[uint16]*rrcache.Cache),
	}
	for _, s := range f.SearchPath {
		n, err := dnsname.Parse(s, dnsname.Root)
		if err != nil {
			return Config{}, fmt.Errorf("lookup: search path entry %q: %w", s, err)
		}
		cfg.SearchPath = append(cfg.SearchPath, n)
	}
	if f.HostsPath != "" {
		h, err := hosts.NewFileParser(f.HostsPath)
		if err != nil {
			return Config{}, fmt.Errorf("lookup: hosts file: %w", err)
		}
		cfg.Hosts = h
	}
	return cfg, nil
}
