package youtube

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/commentgraph/commentgraph/internal/types"
)

// Legacy markup markers (pre-Polymer pages). Older snapshots in an
// archive still use these class names.
const (
	legacyCommentXPath = `//*[contains(concat(' ', normalize-space(@class), ' '), ' comment-renderer ')]`
	legacyAuthorXPath  = `.//a[contains(@class, 'comment-author-text')]`
	legacyTimeXPath    = `.//a[contains(@class, 'comment-renderer-time')]`
	legacyBodyXPath    = `.//*[contains(@class, 'comment-renderer-text-content')]`
)

// LegacyLocator understands the pre-Polymer markup via XPath.
type LegacyLocator struct {
	logger *slog.Logger
}

// NewLegacyLocator creates the adapter for old-style snapshots.
func NewLegacyLocator(logger *slog.Logger) *LegacyLocator {
	return &LegacyLocator{logger: logger.With("component", "legacy_locator")}
}

func (l *LegacyLocator) Name() string { return "legacy" }

// Locate implements Locator.
func (l *LegacyLocator) Locate(doc *goquery.Document) []types.RawComment {
	root := doc.Get(0)
	if root == nil {
		return nil
	}

	nodes, err := htmlquery.QueryAll(root, legacyCommentXPath)
	if err != nil {
		l.logger.Warn("legacy comment query failed", "error", err)
		return nil
	}

	var out []types.RawComment
	for _, node := range nodes {
		author := firstText(node, legacyAuthorXPath)
		if author == "" {
			continue
		}

		rc := types.RawComment{
			Author:    author,
			Permalink: absolutize(firstAttr(node, legacyTimeXPath, "href")),
		}

		body := htmlquery.FindOne(node, legacyBodyXPath)
		if body != nil {
			rc.Text = gatherText(body)
			for _, a := range htmlquery.Find(body, ".//a") {
				target := strings.TrimSpace(htmlquery.InnerText(a))
				if target == "" {
					target = strings.TrimSpace(htmlquery.SelectAttr(a, "href"))
				}
				if target == "" {
					continue
				}
				if strings.HasPrefix(target, "@") || strings.HasPrefix(target, "+") {
					rc.Mentions = append(rc.Mentions, target)
				} else {
					rc.Links = append(rc.Links, target)
				}
			}
		}

		out = append(out, rc)
	}
	return out
}

func firstText(node *html.Node, xpath string) string {
	if n := htmlquery.FindOne(node, xpath); n != nil {
		return strings.TrimSpace(htmlquery.InnerText(n))
	}
	return ""
}

func firstAttr(node *html.Node, xpath, attr string) string {
	if n := htmlquery.FindOne(node, xpath); n != nil {
		return htmlquery.SelectAttr(n, attr)
	}
	return ""
}
