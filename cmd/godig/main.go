// Command godig runs a single stub-resolver lookup against a configured
// upstream server and prints the answer, modeled on the classic dig tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dnsscience/goresolver/dnsname"
	"github.com/dnsscience/goresolver/hosts"
	"github.com/dnsscience/goresolver/internal/config"
	"github.com/dnsscience/goresolver/internal/eventbus"
	"github.com/dnsscience/goresolver/internal/workerpool"
	"github.com/dnsscience/goresolver/lookup"
	"github.com/dnsscience/goresolver/rdata"
	"github.com/dnsscience/goresolver/rrcache"
	"github.com/dnsscience/goresolver/transport/udptcp"
)

var (
	server     = flag.String("server", "127.0.0.1:53", "Upstream DNS server (host:port)")
	qtypeFlag  = flag.String("type", "A", "Query type mnemonic, e.g. A, AAAA, MX, TXT")
	classFlag  = flag.Uint("class", 1, "Query class (1 = IN)")
	timeout    = flag.Duration("timeout", 2*time.Second, "Per-query transport timeout")
	configPath = flag.String("config", "", "Optional YAML configuration file (internal/config.File)")
	noCache    = flag.Bool("no-cache", false, "Disable the in-memory answer cache")
	verbose    = flag.Bool("verbose", false, "Log cache store/evict events to stderr")
)

const sweepInterval = 30 * time.Second

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: godig [flags] <name>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	qtype, ok := rdata.Default.LookupMnemonic(*qtypeFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "godig: unknown query type %q\n", *qtypeFlag)
		os.Exit(2)
	}
	class := uint16(*classFlag)

	cfg, bus, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "godig: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+time.Second)
	defer cancel()

	if *verbose {
		logCacheEvents(ctx, bus)
	}
	go sweepPeriodically(ctx, cfg.Caches)

	// A relative origin leaves an unqualified name (no trailing dot)
	// relative, so the session's own search-path expansion decides how to
	// qualify it; a trailing dot still makes it absolute immediately.
	name, err := dnsname.Parse(flag.Arg(0), dnsname.Name{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "godig: invalid name %q: %v\n", flag.Arg(0), err)
		os.Exit(2)
	}

	session := lookup.NewSession(cfg)
	ch, err := session.LookupAsync(ctx, name, qtype, class)
	if err != nil {
		fmt.Fprintf(os.Stderr, "godig: %v\n", err)
		os.Exit(1)
	}

	out := <-ch
	if out.Err != nil {
		fmt.Fprintf(os.Stderr, "godig: %s: %v\n", name, out.Err)
		os.Exit(1)
	}

	if len(out.Result.Aliases) > 0 {
		fmt.Printf(";; aliases:\n")
		for _, a := range out.Result.Aliases {
			fmt.Printf(";;   %s\n", a)
		}
	}
	fmt.Printf(";; ANSWER for %s %s:\n", name, *qtypeFlag)
	for _, rec := range out.Result.Records {
		fmt.Printf("%s\t%d\t%s\t%s\t%s\n", rec.Name, rec.TTL, classString(rec.Class), *qtypeFlag, rec.RDATA.String())
	}
}

func buildConfig() (lookup.Config, *eventbus.Bus, error) {
	file := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return lookup.Config{}, nil, fmt.Errorf("loading config: %w", err)
		}
		file = loaded
	}

	cfg, err := lookup.NewConfig(file)
	if err != nil {
		return lookup.Config{}, nil, err
	}

	cfg.Executor = workerpool.New(workerpool.Config{Workers: 4, QueueSize: 16})
	cfg.Resolver = udptcp.New(udptcp.Config{Server: *server, Timeout: *timeout})

	bus := eventbus.New(16)
	cfg.Caches = map[uint16]*rrcache.Cache{1: rrcache.New(1, bus)}
	if *noCache {
		cfg.Caches = nil
	}

	if cfg.Hosts == nil {
		if h, err := hosts.NewFileParser("/etc/hosts"); err == nil {
			cfg.Hosts = h
		}
	}
	return cfg, bus, nil
}

// logCacheEvents subscribes to bus and writes every store/evict to stderr
// until ctx is done; the subscription is torn down automatically when ctx
// is canceled.
func logCacheEvents(ctx context.Context, bus *eventbus.Bus) {
	sub := bus.Subscribe(ctx)
	go func() {
		for ev := range sub.Ch {
			kind := "store"
			if ev.Kind == eventbus.Evict {
				kind = "evict"
			}
			log.Printf("cache %s: %s type=%d class=%s cred=%d ttl=%d", kind, ev.Name, ev.Type, classString(ev.Class), ev.Credibility, ev.TTL)
		}
	}()
}

// sweepPeriodically runs Sweep on every configured cache until ctx is done.
func sweepPeriodically(ctx context.Context, caches map[uint16]*rrcache.Cache) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range caches {
				c.Sweep()
			}
		}
	}
}

func classString(c uint16) string {
	if c == 1 {
		return "IN"
	}
	return fmt.Sprintf("CLASS%d", c)
}
