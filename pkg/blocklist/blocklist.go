// Package blocklist decides which outgoing browser requests are aborted.
//
// Entries are host names or host globs. A plain entry such as "ads.example.com"
// blocks that host and every subdomain of it. An entry containing glob syntax
// ("*.tracker.*", "ads?.example.com") is matched as written, with "." as the
// segment separator, so "*" stays within one label and "**" spans several.
// Hosts and entries are normalised to lower-case ASCII (punycode) before
// matching so internationalised spellings of a blocked host are caught too.
package blocklist

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/net/idna"
)

// DefaultHosts is the policy applied when configuration does not supply one.
var DefaultHosts = []string{
	"maliciousbook.com",
	"evilvideos.com",
	"darkwebforum.com",
	"shadytok.com",
	"suspiciouspins.com",
}

// Blocklist matches request URLs against compiled host patterns.
// It holds no mutable state and is safe for concurrent use.
type Blocklist struct {
	entries  []string
	patterns []glob.Glob
}

// New compiles entries. Blank entries are ignored.
func New(entries []string) (*Blocklist, error) {
	b := &Blocklist{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pattern := toPattern(entry)
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid blocklist entry '%s': %w", entry, err)
		}
		b.entries = append(b.entries, entry)
		b.patterns = append(b.patterns, g)
	}
	return b, nil
}

// Default returns the blocklist built from DefaultHosts.
func Default() *Blocklist {
	b, err := New(DefaultHosts)
	if err != nil {
		panic(err)
	}
	return b
}

// Entries returns the configured entries in their original spelling.
func (b *Blocklist) Entries() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.entries...)
}

// IsBlocked reports whether rawURL targets a blocked host. URLs without a
// host (data:, blob:, about:blank) are never blocked.
func (b *Blocklist) IsBlocked(rawURL string) bool {
	if b == nil || len(b.patterns) == 0 {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := normalizeHost(u.Hostname())
	if host == "" {
		return false
	}
	for _, pattern := range b.patterns {
		if pattern.Match(host) {
			return true
		}
	}
	return false
}

func toPattern(entry string) string {
	if strings.ContainsAny(entry, "*?[{") {
		return strings.ToLower(entry)
	}
	host := normalizeHost(entry)
	return "{" + host + ",**." + host + "}"
}

func normalizeHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}
