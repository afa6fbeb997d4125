package analyzer

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/commentgraph/commentgraph/internal/anonymize"
	"github.com/commentgraph/commentgraph/internal/config"
	"github.com/commentgraph/commentgraph/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const snapshotHTML = `<!DOCTYPE html>
<html>
<head><title>Test Video - YouTube</title></head>
<body>
<ytd-comment-renderer>
  <div id="header">
    <a id="author-text" href="/channel/UC123"><span>alice</span></a>
    <span class="published-time-text"><a href="/watch?v=abc123&lc=Ug1">2 years ago</a></span>
  </div>
  <div id="content-text">read this
    <a class="yt-simple-endpoint" href="/redirect?q=x">https://example.com/article</a>
  </div>
</ytd-comment-renderer>
<ytd-comment-renderer>
  <div id="header">
    <a id="author-text" href="/channel/UC456"><span>bob</span></a>
    <span class="published-time-text"><a href="/watch?v=abc123&lc=Ug2">1 year ago</a></span>
  </div>
  <div id="content-text">I disagree</div>
</ytd-comment-renderer>
</body>
</html>`

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestAnalyzer(t *testing.T, users []string, useCache bool) (*Analyzer, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Snapshots.Cache = useCache
	cfg.Output.Dir = filepath.Join(t.TempDir(), "reports")
	registry := anonymize.NewRegistry(users, cfg.Anonymize, nil, nil, testLogger)
	return New(cfg, registry, testLogger), cfg
}

func TestRunKeepsOnlyTargetComments(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "video.html", snapshotHTML)

	a, _ := newTestAnalyzer(t, []string{"alice"}, false)
	res, err := a.Run(dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Stats.CommentsSeen != 2 {
		t.Errorf("expected 2 comments seen, got %d", res.Stats.CommentsSeen)
	}
	if res.Stats.CommentsKept != 1 {
		t.Errorf("expected 1 comment kept, got %d", res.Stats.CommentsKept)
	}
	if len(res.Pages) != 1 || len(res.Pages[0].Comments) != 1 {
		t.Fatalf("expected one page with one comment, got %+v", res.Pages)
	}

	c := res.Pages[0].Comments[0]
	if strings.Contains(c.Pseudonym, "alice") {
		t.Errorf("pseudonym leaks the raw name: %q", c.Pseudonym)
	}
	if c.Permalink != "https://www.youtube.com/watch?v=abc123&lc=Ug1" {
		t.Errorf("unexpected permalink %q", c.Permalink)
	}

	domains := res.Tally.Domains()
	if len(domains) != 1 || domains[0].Domain != "example.com" || domains[0].Count != 1 {
		t.Errorf("expected example.com counted once, got %+v", domains)
	}
	if res.Stats.LinksKept != 1 {
		t.Errorf("expected 1 link kept, got %d", res.Stats.LinksKept)
	}
}

func TestRunSkipsUnparseablePages(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "good.html", snapshotHTML)
	writeSnapshot(t, dir, "plain.html", "<html><body><p>no comments here</p></body></html>")

	a, _ := newTestAnalyzer(t, []string{"alice"}, false)
	res, err := a.Run(dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Stats.PagesParsed != 1 {
		t.Errorf("expected 1 page parsed, got %d", res.Stats.PagesParsed)
	}
	if res.Stats.PagesSkipped != 1 {
		t.Errorf("expected 1 page skipped, got %d", res.Stats.PagesSkipped)
	}
}

func TestRunEmptyFolderFails(t *testing.T) {
	a, _ := newTestAnalyzer(t, []string{"alice"}, false)
	_, err := a.Run(t.TempDir())
	if !errors.Is(err, types.ErrNoSnapshots) {
		t.Fatalf("expected ErrNoSnapshots, got %v", err)
	}
}

func TestRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "video.html", snapshotHTML)

	a, _ := newTestAnalyzer(t, []string{"alice"}, false)
	first, err := a.Run(dir)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := a.Run(dir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(first.Pages, second.Pages) {
		t.Error("page output differs between identical runs")
	}
	if !reflect.DeepEqual(first.Tally.Domains(), second.Tally.Domains()) {
		t.Error("tally differs between identical runs")
	}
}

func TestRunUsesCacheOnSecondPass(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "video.html", snapshotHTML)

	a, _ := newTestAnalyzer(t, []string{"alice"}, true)
	first, err := a.Run(dir)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Stats.FromCache {
		t.Fatal("first run must parse, not hit the cache")
	}

	// Delete the snapshot: the second run can only succeed via the cache.
	if err := os.Remove(filepath.Join(dir, "video.html")); err != nil {
		t.Fatalf("remove snapshot: %v", err)
	}

	second, err := a.Run(dir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Stats.FromCache {
		t.Fatal("second run should come from the cache")
	}
	if !reflect.DeepEqual(first.Pages, second.Pages) {
		t.Error("cached pages differ from parsed pages")
	}
	if !reflect.DeepEqual(first.Tally.Domains(), second.Tally.Domains()) {
		t.Error("cached tally differs from parsed tally")
	}
}

func TestNormalizeText(t *testing.T) {
	cases := []struct{ name, in, want string }{
		{"entities", "salt &amp; pepper", "salt & pepper"},
		{"residual markup", "hello <b>world</b>", "hello world"},
		{"space runs", "a   b\t\tc", "a b c"},
		{"blank lines dropped", "a\n\n   \nb", "a\nb"},
		{"line edges trimmed", "  a  \n  b  ", "a\nb"},
		{"zero width stripped", "a​b", "ab"},
		{"direction marks stripped", "‮truth‬", "truth"},
	}
	for _, c := range cases {
		if got := normalizeText(c.in); got != c.want {
			t.Errorf("%s: normalizeText(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}
