package types

// RawComment is a comment as lifted straight out of the markup, before any
// filtering or normalization has happened.
type RawComment struct {
	// Author is the display name exactly as it appears in the snapshot.
	Author string

	// Permalink is the comment's own watch URL, absolutized.
	Permalink string

	// Text is the gathered plain text of the comment body.
	Text string

	// Links are the outbound hyperlink targets found inside the body.
	Links []string

	// Mentions are in-body "@name" references to other users.
	Mentions []string
}

// Comment is a retained, normalized comment from a target user.
type Comment struct {
	// AuthorHash identifies the author without exposing the raw name.
	AuthorHash string `json:"author_hash"`

	// Pseudonym is the short stand-in shown in reports.
	Pseudonym string `json:"pseudonym"`

	Permalink string `json:"permalink"`

	// Text is the normalized, redacted comment body.
	Text string `json:"text"`

	// Links are the raw outbound targets, kept unshortened so the tally
	// can be rebuilt from cached pages.
	Links []string `json:"links,omitempty"`
}

// Page holds everything extracted from one snapshot file.
type Page struct {
	// File is the snapshot filename, used as the document identifier.
	File string `json:"file"`

	// Title is the video title from the document head.
	Title string `json:"title,omitempty"`

	// URL is the canonical watch URL recovered from comment permalinks.
	URL string `json:"url,omitempty"`

	// Comments are the retained comments in document order.
	Comments []Comment `json:"comments"`
}

// Source returns the human-readable identifier used in reports: the video
// title when one was found, the filename otherwise.
func (p *Page) Source() string {
	if p.Title != "" {
		return p.Title
	}
	return p.File
}
