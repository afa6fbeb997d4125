// Package youtube isolates the structural markers used to find comments
// inside saved video pages. The markers are an external contract owned by
// the site, so each markup generation gets its own adapter: when the
// markup changes again, only this package should need a new Locator.
package youtube

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/commentgraph/commentgraph/internal/types"
)

// Locator extracts raw comments from one parsed snapshot.
type Locator interface {
	// Name identifies the markup generation the adapter understands.
	Name() string

	// Locate returns every comment found in document order, replies
	// flattened in with their parents. An empty result means the
	// document does not use this adapter's markup.
	Locate(doc *goquery.Document) []types.RawComment
}

// Locators returns all known adapters, newest markup first.
func Locators(logger *slog.Logger) []Locator {
	return []Locator{
		NewDesktopLocator(logger),
		NewLegacyLocator(logger),
	}
}

// DesktopLocator understands the Polymer desktop markup
// (ytd-comment-renderer elements).
type DesktopLocator struct {
	logger *slog.Logger
}

// NewDesktopLocator creates the adapter for current desktop snapshots.
func NewDesktopLocator(logger *slog.Logger) *DesktopLocator {
	return &DesktopLocator{logger: logger.With("component", "desktop_locator")}
}

func (l *DesktopLocator) Name() string { return "desktop" }

// Locate implements Locator. Reply comments render as nested
// ytd-comment-renderer elements and are picked up by the same selector.
func (l *DesktopLocator) Locate(doc *goquery.Document) []types.RawComment {
	var out []types.RawComment

	doc.Find("ytd-comment-renderer").Each(func(_ int, sel *goquery.Selection) {
		author := strings.TrimSpace(sel.Find("a#author-text").First().Text())
		if author == "" {
			// Channel-owner comments render the author in a span.
			author = strings.TrimSpace(sel.Find("#author-text").First().Text())
		}
		if author == "" {
			return
		}

		permalink, _ := sel.Find(".published-time-text a").First().Attr("href")
		permalink = absolutize(permalink)

		body := sel.Find("#content-text").First()
		rc := types.RawComment{
			Author:    author,
			Permalink: permalink,
			Text:      GatherText(body),
		}

		// Anchor text, not href: the markup routes every href through a
		// redirect endpoint, while the visible text is the real target.
		body.Find("a.yt-simple-endpoint").Each(func(_ int, a *goquery.Selection) {
			target := strings.TrimSpace(a.Text())
			if target == "" {
				return
			}
			if strings.HasPrefix(target, "@") {
				rc.Mentions = append(rc.Mentions, target)
			} else {
				rc.Links = append(rc.Links, target)
			}
		})

		out = append(out, rc)
	})

	return out
}

// absolutize turns site-relative hrefs into full watch URLs.
func absolutize(href string) string {
	if strings.HasPrefix(href, "/") {
		return "https://www.youtube.com" + href
	}
	return href
}
