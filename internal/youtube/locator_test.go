package youtube

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const desktopHTML = `<!DOCTYPE html>
<html>
<head><title>Test Video - YouTube</title></head>
<body>
<ytd-comment-thread-renderer>
  <ytd-comment-renderer>
    <div id="header">
      <a id="author-text" href="/channel/UC123"><span>Alice</span></a>
      <span class="published-time-text"><a href="/watch?v=abc123&lc=Ug1">2 years ago</a></span>
    </div>
    <div id="content-text">Monsanto does not exist anymore!
      <a class="yt-simple-endpoint" href="/redirect?q=example">https://example.com/article</a>
    </div>
    <div id="replies">
      <ytd-comment-renderer>
        <div id="header">
          <a id="author-text" href="/channel/UC456"><span>Bob</span></a>
          <span class="published-time-text"><a href="/watch?v=abc123&lc=Ug2">1 year ago</a></span>
        </div>
        <div id="content-text">
          <a class="yt-simple-endpoint" href="/channel/UC123">@Alice</a>
          sure it does
          <img alt="🙂">
          <img alt="">
          <img alt="long screenshot">
        </div>
      </ytd-comment-renderer>
    </div>
  </ytd-comment-renderer>
</ytd-comment-thread-renderer>
</body>
</html>`

const legacyHTML = `<!DOCTYPE html>
<html>
<head><title>Old Video - YouTube</title></head>
<body>
<section class="comment-thread-renderer">
  <div class="comment-renderer">
    <a class="comment-author-text" href="/user/carol">carol</a>
    <a class="comment-renderer-time" href="/watch?v=old1&lc=z9">1 year ago</a>
    <div class="comment-renderer-text-content">worth reading
      <a href="http://example.org/study">http://example.org/study</a>
    </div>
  </div>
</section>
</body>
</html>`

func parseDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestDesktopLocator(t *testing.T) {
	loc := NewDesktopLocator(testLogger)
	raws := loc.Locate(parseDoc(t, desktopHTML))

	if len(raws) != 2 {
		t.Fatalf("expected 2 comments (reply flattened in), got %d", len(raws))
	}

	parent := raws[0]
	if parent.Author != "Alice" {
		t.Errorf("expected author Alice, got %q", parent.Author)
	}
	if parent.Permalink != "https://www.youtube.com/watch?v=abc123&lc=Ug1" {
		t.Errorf("unexpected permalink %q", parent.Permalink)
	}
	if !strings.Contains(parent.Text, "Monsanto does not exist anymore!") {
		t.Errorf("body text missing, got %q", parent.Text)
	}
	if len(parent.Links) != 1 || parent.Links[0] != "https://example.com/article" {
		t.Errorf("expected one outbound link, got %v", parent.Links)
	}
	if len(parent.Mentions) != 0 {
		t.Errorf("expected no mentions, got %v", parent.Mentions)
	}

	reply := raws[1]
	if reply.Author != "Bob" {
		t.Errorf("expected reply author Bob, got %q", reply.Author)
	}
	if len(reply.Mentions) != 1 || reply.Mentions[0] != "@Alice" {
		t.Errorf("expected @Alice mention, got %v", reply.Mentions)
	}
	if len(reply.Links) != 0 {
		t.Errorf("mention must not count as outbound link, got %v", reply.Links)
	}
}

func TestDesktopLocatorImageText(t *testing.T) {
	loc := NewDesktopLocator(testLogger)
	raws := loc.Locate(parseDoc(t, desktopHTML))
	if len(raws) < 2 {
		t.Fatal("fixture should yield two comments")
	}

	text := raws[1].Text
	if !strings.Contains(text, "🙂") {
		t.Errorf("emoji alt should pass through, got %q", text)
	}
	if !strings.Contains(text, "[IMAGE]") {
		t.Errorf("empty alt should become [IMAGE], got %q", text)
	}
	if !strings.Contains(text, `[IMAGE: "long screenshot"]`) {
		t.Errorf("descriptive alt should be labeled, got %q", text)
	}
}

func TestDesktopLocatorEmptyDocument(t *testing.T) {
	loc := NewDesktopLocator(testLogger)
	raws := loc.Locate(parseDoc(t, "<html><body><p>not a video page</p></body></html>"))
	if len(raws) != 0 {
		t.Errorf("expected no comments, got %d", len(raws))
	}
}

func TestLegacyLocator(t *testing.T) {
	loc := NewLegacyLocator(testLogger)
	raws := loc.Locate(parseDoc(t, legacyHTML))

	if len(raws) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(raws))
	}
	c := raws[0]
	if c.Author != "carol" {
		t.Errorf("expected author carol, got %q", c.Author)
	}
	if c.Permalink != "https://www.youtube.com/watch?v=old1&lc=z9" {
		t.Errorf("unexpected permalink %q", c.Permalink)
	}
	if !strings.Contains(c.Text, "worth reading") {
		t.Errorf("body text missing, got %q", c.Text)
	}
	if len(c.Links) != 1 || c.Links[0] != "http://example.org/study" {
		t.Errorf("expected one outbound link, got %v", c.Links)
	}
}

func TestLegacyLocatorIgnoresDesktopMarkup(t *testing.T) {
	loc := NewLegacyLocator(testLogger)
	if raws := loc.Locate(parseDoc(t, desktopHTML)); len(raws) != 0 {
		t.Errorf("legacy adapter should not match desktop markup, got %d", len(raws))
	}
}

func TestLocatorOrder(t *testing.T) {
	locs := Locators(testLogger)
	if len(locs) != 2 {
		t.Fatalf("expected 2 adapters, got %d", len(locs))
	}
	if locs[0].Name() != "desktop" || locs[1].Name() != "legacy" {
		t.Errorf("adapters out of order: %s, %s", locs[0].Name(), locs[1].Name())
	}
}

func TestGatherTextCollapsesWhitespace(t *testing.T) {
	doc := parseDoc(t, `<div id="content-text">a
		b    c</div>`)
	got := GatherText(doc.Find("#content-text"))
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace runs should collapse, got %q", got)
	}
	for _, want := range []string{"a", "b", "c"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}
