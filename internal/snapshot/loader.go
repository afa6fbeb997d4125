package snapshot

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/commentgraph/commentgraph/internal/types"
)

// Snapshot is one parsed saved page.
type Snapshot struct {
	Path string
	Doc  *goquery.Document
}

// Loader discovers and parses snapshot files in a folder.
type Loader struct {
	pattern string
	logger  *slog.Logger
}

// NewLoader creates a loader matching files against the given glob pattern.
func NewLoader(pattern string, logger *slog.Logger) *Loader {
	return &Loader{
		pattern: pattern,
		logger:  logger.With("component", "snapshot_loader"),
	}
}

// List enumerates snapshot files under folder, sorted by path so every
// run visits documents in the same order.
func (l *Loader) List(folder string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(folder, l.pattern))
	if err != nil {
		return nil, &types.ParseError{File: folder, Err: err}
	}
	if len(matches) == 0 {
		return nil, &types.ParseError{File: folder, Err: types.ErrNoSnapshots}
	}
	sort.Strings(matches)
	l.logger.Debug("snapshots found", "folder", folder, "count", len(matches))
	return matches, nil
}

// Load reads and parses one snapshot file.
func (l *Loader) Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.ParseError{File: path, Err: err}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &types.ParseError{File: path, Err: err}
	}
	return &Snapshot{Path: path, Doc: doc}, nil
}

// Name returns the snapshot's document identifier (its base filename).
func (s *Snapshot) Name() string {
	return filepath.Base(s.Path)
}

// Title returns the page title, usually the video title.
func (s *Snapshot) Title() string {
	return strings.TrimSpace(s.Doc.Find("title").First().Text())
}

var lcParamRE = regexp.MustCompile(`&lc=[^&]*`)

// VideoURL recovers the canonical watch URL from the first comment
// permalink on the page. Permalinks carry an "&lc=" comment parameter,
// which distinguishes them from ordinary video links in comment text;
// the parameter is stripped and relative paths are absolutized.
func (s *Snapshot) VideoURL() string {
	var found string
	s.Doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, "watch?v=") || !strings.Contains(href, "&lc=") {
			return true
		}
		found = lcParamRE.ReplaceAllString(href, "")
		if strings.HasPrefix(found, "/") {
			found = "https://www.youtube.com" + found
		}
		return false
	})
	return found
}
