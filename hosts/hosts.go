// Package hosts implements the lookup session's hosts-file short-circuit:
// a name-to-address map consulted before any cache or transport
// round-trip.
package hosts

import (
	"bufio"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/dnsscience/goresolver/dnsname"
)

// Parser returns the first configured address for name at the given
// record type (A or AAAA), or ok=false if none is configured. Parse
// failures are the caller's (lookup.Session's) to swallow.
type Parser interface {
	Lookup(name dnsname.Name, qtype uint16) (net.IP, bool)
}

// FileParser implements Parser over an /etc/hosts-grammar file: one record
// per line, leading whitespace-separated IP then one or more whitespace-
// separated names, '#' starting a comment to end of line. It is loaded
// once at construction; call Reload to pick up on-disk changes.
type FileParser struct {
	path string

	mu      sync.RWMutex
	byNameV4 map[string]net.IP
	byNameV6 map[string]net.IP
}

// NewFileParser parses path immediately and returns a ready-to-use Parser.
func NewFileParser(path string) (*FileParser, error) {
	fp := &FileParser{path: path}
	if err := fp.Reload(); err != nil {
		return nil, err
	}
	return fp, nil
}

// Reload re-reads and re-parses the hosts file, atomically swapping in the
// new map once parsing succeeds.
func (fp *FileParser) Reload() error {
	f, err := os.Open(fp.path)
	if err != nil {
		return err
	}
	defer f.Close()

	v4 := make(map[string]net.IP)
	v6 := make(map[string]net.IP)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ip := net.ParseIP(fields[0])
		if ip == nil {
			continue
		}
		target := v4
		if ip.To4() == nil {
			target = v6
		}
		for _, host := range fields[1:] {
			n, err := dnsname.Parse(host, dnsname.Root)
			if err != nil {
				continue
			}
			key := n.Key()
			if _, exists := target[key]; !exists {
				target[key] = ip
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fp.mu.Lock()
	fp.byNameV4, fp.byNameV6 = v4, v6
	fp.mu.Unlock()
	return nil
}

// Lookup implements Parser. qtype must be rdata.TypeA (1) or
// rdata.TypeAAAA (28); any other type always misses, since the hosts
// probe only fires for A/AAAA queries.
func (fp *FileParser) Lookup(name dnsname.Name, qtype uint16) (net.IP, bool) {
	const typeA, typeAAAA = 1, 28
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	key := name.Key()
	switch qtype {
	case typeA:
		ip, ok := fp.byNameV4[key]
		return ip, ok
	case typeAAAA:
		ip, ok := fp.byNameV6[key]
		return ip, ok
	default:
		return nil, false
	}
}
