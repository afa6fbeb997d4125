package links

import (
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/commentgraph/commentgraph/internal/types"
)

var (
	schemeRE    = regexp.MustCompile(`^https?://`)
	twoLabelsRE = regexp.MustCompile(`[^.]+\.[^.]+$`)

	errHostless = errors.New("no recognizable host")
)

// Shorten trims a link target to its shortest comparable form and returns
// it together with its registrable domain. Multiple spellings of the same
// destination ("http://", "www.", trailing "/", ".html") collapse to one
// key so the tally does not split counts across variants.
func Shorten(raw string) (short, domain string, err error) {
	l := strings.ToLower(strings.TrimSpace(raw))

	// Comment bodies surface plenty of link-shaped noise; a real target
	// carries both a dot and a path separator.
	if !strings.Contains(l, ".") || !strings.Contains(l, "/") {
		return "", "", types.ErrNotLink
	}

	l = strings.ReplaceAll(l, "www.", "")
	l = strings.TrimSuffix(strings.TrimSuffix(l, "/"), ".html")

	host := hostOf(l)
	if host == "" {
		return "", "", &types.LinkError{Target: raw, Err: errHostless}
	}

	domain = host
	if d, derr := publicsuffix.EffectiveTLDPlusOne(host); derr == nil {
		domain = d
	} else if m := twoLabelsRE.FindString(host); m != "" {
		// Unknown suffix; fall back to the last two labels.
		domain = m
	}

	short = schemeRE.ReplaceAllString(l, "")
	return short, domain, nil
}

// hostOf extracts the host from a lowercased target that may or may not
// carry a scheme. url.Parse only fills Host when a scheme is present, so
// schemeless targets are cut at the first slash instead.
func hostOf(l string) string {
	if u, err := url.Parse(l); err == nil && u.Host != "" {
		return u.Hostname()
	}
	head, _, _ := strings.Cut(schemeRE.ReplaceAllString(l, ""), "/")
	if h, _, ok := strings.Cut(head, ":"); ok {
		return h
	}
	return head
}

// Edge is one observed link occurrence: a pseudonymized author pointing
// at a shortened target. Edges are never deduplicated; the graph draws
// one per occurrence unless merging is requested at render time.
type Edge struct {
	Author string
	Color  string
	Domain string
	URL    string
}

// DomainCount pairs a domain with its total occurrence count.
type DomainCount struct {
	Domain string
	Count  int
}

// URLCount pairs a shortened URL with its occurrence count.
type URLCount struct {
	URL   string
	Count int
}

// Tally accumulates link occurrences across every retained comment.
// One instance lives for the whole run and is mutated sequentially.
type Tally struct {
	domains   map[string]int
	urls      map[string]map[string]int
	edges     []Edge
	malformed int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{
		domains: make(map[string]int),
		urls:    make(map[string]map[string]int),
	}
}

// Add records one raw link occurrence for an author. Non-link tokens are
// ignored silently; malformed targets are counted and reported back so
// the caller can log them, but never abort the run.
func (t *Tally) Add(author, color, raw string) error {
	short, domain, err := Shorten(raw)
	if err != nil {
		if !errors.Is(err, types.ErrNotLink) {
			t.malformed++
		}
		return err
	}

	t.domains[domain]++
	if t.urls[domain] == nil {
		t.urls[domain] = make(map[string]int)
	}
	t.urls[domain][short]++
	t.edges = append(t.edges, Edge{Author: author, Color: color, Domain: domain, URL: short})
	return nil
}

// Domains returns every domain with its total count, sorted by count
// descending then domain ascending for deterministic output.
func (t *Tally) Domains() []DomainCount {
	out := make([]DomainCount, 0, len(t.domains))
	for d, n := range t.domains {
		out = append(out, DomainCount{Domain: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

// URLs returns the per-URL counts under one domain, sorted by count
// descending then URL ascending.
func (t *Tally) URLs(domain string) []URLCount {
	out := make([]URLCount, 0, len(t.urls[domain]))
	for u, n := range t.urls[domain] {
		out = append(out, URLCount{URL: u, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].URL < out[j].URL
	})
	return out
}

// Edges returns every recorded occurrence in insertion order.
func (t *Tally) Edges() []Edge { return t.edges }

// Total returns the number of recorded link occurrences.
func (t *Tally) Total() int { return len(t.edges) }

// Malformed returns how many targets were dropped as unparseable.
func (t *Tally) Malformed() int { return t.malformed }
