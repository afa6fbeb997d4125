package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/commentgraph/commentgraph/internal/links"
	"github.com/commentgraph/commentgraph/internal/types"
)

// Artifact filenames within the output directory.
const (
	TranscriptFile = "comments.txt"
	LinksFile      = "links.txt"
	GraphFile      = "graph.gv"
	VideosFile     = "videos.txt"
)

// Bundle serializes the run's artifacts into one output directory. Every
// file is written atomically (write to temp, then rename), so a failed
// run never leaves a half-written report behind.
type Bundle struct {
	dir    string
	logger *slog.Logger
}

// NewBundle creates the output directory and a writer for it.
func NewBundle(dir string, logger *slog.Logger) (*Bundle, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Artifact: dir, Err: err}
	}
	return &Bundle{
		dir:    dir,
		logger: logger.With("component", "report"),
	}, nil
}

// Dir returns the output directory path.
func (b *Bundle) Dir() string { return b.dir }

// Path returns the full path of a named artifact.
func (b *Bundle) Path(name string) string { return filepath.Join(b.dir, name) }

func (b *Bundle) write(name, data string) error {
	path := b.Path(name)
	if err := atomic.WriteFile(path, strings.NewReader(data)); err != nil {
		return &types.StorageError{Artifact: name, Err: err}
	}
	b.logger.Info("artifact written", "path", path, "bytes", len(data))
	return nil
}

// WriteTranscript emits comments.txt: one heading per source document,
// one block per retained comment.
func (b *Bundle) WriteTranscript(pages []types.Page) error {
	var sb strings.Builder
	for _, page := range pages {
		if len(page.Comments) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n\n### %s ###\n\n", page.Source())
		for i, c := range page.Comments {
			fmt.Fprintf(&sb, "====\n%d\n%s\n%s\n---\n%s\n\n", i, c.Pseudonym, c.Permalink, c.Text)
		}
	}
	return b.write(TranscriptFile, sb.String())
}

// WriteLinkListing emits links.txt: every domain with its bracketed
// total, count descending then domain ascending, with per-URL detail.
func (b *Bundle) WriteLinkListing(t *links.Tally) error {
	var sb strings.Builder
	for _, dc := range t.Domains() {
		fmt.Fprintf(&sb, "%s [%d]\n", dc.Domain, dc.Count)
		for _, uc := range t.URLs(dc.Domain) {
			fmt.Fprintf(&sb, "  %s (%d)\n", uc.URL, uc.Count)
		}
		sb.WriteString("\n")
	}
	return b.write(LinksFile, sb.String())
}

// WriteGraph emits the DOT description as graph.gv.
func (b *Bundle) WriteGraph(dotSrc string) error {
	return b.write(GraphFile, dotSrc)
}

// WriteVideoIndex emits videos.txt: title and canonical URL per page.
func (b *Bundle) WriteVideoIndex(pages []types.Page) error {
	var sb strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&sb, "%s\t%s\n", page.Source(), page.URL)
	}
	return b.write(VideosFile, sb.String())
}
