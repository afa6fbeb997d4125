package anonymize

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/commentgraph/commentgraph/internal/config"
)

// Hash returns the md5 hex digest of a username, after trimming and
// lowercasing so that display-case variations of the same account match.
// Every pseudonym and color is derived from this value, which keeps
// repeated runs byte-identical.
func Hash(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// palette supplies edge colors for users without a styling override.
var palette = []string{
	"#ff3838", "#ffd954", "#7aebf2", "#7de17a",
	"#db6ae8", "#c44ee6", "#8caff3", "#eab87d",
}

// Registry answers target-membership questions and produces the
// deterministic pseudonym, color, and in-text redactions for each user.
type Registry struct {
	targets map[string]struct{}
	styling map[string]config.UserStyle
	nameRE  *regexp.Regexp
	logger  *slog.Logger
}

// NewRegistry builds a registry from the target-user list. The exclude
// list removes names from in-text redaction (for users whose names are
// common words); the include list force-adds strings.
func NewRegistry(users []string, cfg config.AnonymizeConfig, exclude, include []string, logger *slog.Logger) *Registry {
	r := &Registry{
		targets: make(map[string]struct{}, len(users)),
		styling: cfg.Styling,
		logger:  logger.With("component", "anonymizer"),
	}
	for _, u := range users {
		r.targets[Hash(u)] = struct{}{}
	}
	r.nameRE = buildNameRE(users, exclude, include)

	r.logger.Info("user registry loaded",
		"users", len(r.targets),
		"styled", len(cfg.Styling),
		"redaction_excludes", len(exclude),
		"redaction_includes", len(include),
	)
	return r
}

// buildNameRE compiles a word-boundary alternation of every redactable
// name, longest first so that full names win over their prefixes.
func buildNameRE(users, exclude, include []string) *regexp.Regexp {
	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[strings.ToLower(e)] = struct{}{}
	}

	var names []string
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if len(name) < 3 {
			return // too short to redact without mangling ordinary text
		}
		if _, skip := excluded[strings.ToLower(name)]; skip {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, u := range users {
		add(u)
	}
	for _, i := range include {
		add(i)
	}
	if len(names) == 0 {
		return nil
	}

	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
}

// IsTarget reports whether the author is on the target list, returning
// the author's hash for downstream pseudonym and color lookups.
func (r *Registry) IsTarget(author string) (string, bool) {
	h := Hash(author)
	if h == "" {
		return "", false
	}
	_, ok := r.targets[h]
	return h, ok
}

// Pseudonym returns the stand-in name for a hashed user: the configured
// alias when one exists, otherwise a short hash-derived handle.
func (r *Registry) Pseudonym(hash string) string {
	if s, ok := r.styling[hash]; ok && s.Alias != "" {
		return s.Alias
	}
	if len(hash) < 8 {
		return "user-" + hash
	}
	return "user-" + hash[:8]
}

// Color returns the edge color for a hashed user: the configured color
// when one exists, otherwise a stable pick from the palette.
func (r *Registry) Color(hash string) string {
	if s, ok := r.styling[hash]; ok && s.Color != "" {
		return s.Color
	}
	var sum int
	for _, b := range []byte(hash) {
		sum += int(b)
	}
	return palette[sum%len(palette)]
}

// Redact replaces usernames inside a comment's body with pseudonyms:
// linked "@name" mentions, leading "+name"/"@name" reply prefixes, and
// plain-text references to any known name.
func (r *Registry) Redact(text string, mentions []string) string {
	for _, m := range mentions {
		name := strings.TrimLeft(m, "@")
		text = r.replaceName(text, name)
		// Replies often shorten a mention to its first word.
		if first, _, ok := strings.Cut(name, " "); ok {
			text = r.replaceName(text, first)
		}
	}

	// Old-style replies start with "+name" or "@name" alone on the
	// first line. Without a line break the comment itself starts with
	// the marker and there is no name to lift out.
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "@") {
		if name, _, ok := strings.Cut(strings.TrimLeft(trimmed, "+@"), "\n"); ok {
			text = r.replaceName(text, strings.TrimSpace(name))
		}
	}

	if r.nameRE != nil {
		text = r.nameRE.ReplaceAllStringFunc(text, func(match string) string {
			return "[" + r.Pseudonym(Hash(match)) + "]"
		})
	}
	return text
}

// replaceName substitutes every occurrence of one name, using the same
// hash-derived pseudonym the author would get if they were a target.
func (r *Registry) replaceName(text, name string) string {
	if len(name) < 3 {
		return text
	}
	return strings.ReplaceAll(text, name, "["+r.Pseudonym(Hash(name))+"]")
}
