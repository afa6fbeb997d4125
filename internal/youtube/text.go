package youtube

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/forPelevin/gomoji"
	"golang.org/x/net/html"
)

var innerSpaceRE = regexp.MustCompile(`(\s)\s+`)

// GatherText flattens a comment body selection to plain text. Comment
// bodies nest text inside formatting elements and links, and render
// emoji as <img> tags whose alt text carries the actual character.
func GatherText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	return gatherText(sel.Nodes[0])
}

// gatherText walks one body subtree collecting text chunks.
func gatherText(root *html.Node) string {
	var chunks []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "img" {
				chunks = append(chunks, imageText(n))
				return
			}
			if n.Data == "br" {
				chunks = append(chunks, "\n")
				return
			}
		case html.TextNode:
			if s := n.Data; strings.TrimSpace(s) != "" {
				chunks = append(chunks, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	text := strings.Join(chunks, " ")
	return strings.TrimSpace(innerSpaceRE.ReplaceAllString(text, "$1"))
}

// imageText turns an inline image into text: the alt character itself
// when it is an emoji, a placeholder otherwise.
func imageText(n *html.Node) string {
	var alt string
	for _, a := range n.Attr {
		if a.Key == "alt" {
			alt = a.Val
			break
		}
	}
	switch {
	case alt == "":
		return "[IMAGE]"
	case gomoji.ContainsEmoji(alt):
		return alt
	default:
		return fmt.Sprintf("[IMAGE: %q]", alt)
	}
}
