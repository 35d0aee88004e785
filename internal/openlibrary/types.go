package openlibrary

import (
	"fmt"
	"strings"
)

// CoverSize selects a cover image size on covers.openlibrary.org.
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// Doc is a single work returned by the search API.
// Key is always non-empty; documents without one are dropped during
// search because they cannot produce a destination link.
type Doc struct {
	Key              string
	Title            string
	AuthorNames      []string
	FirstPublishYear int
	CoverID          int
	ISBN             string
}

// Author returns the first author name, or an empty string.
func (d Doc) Author() string {
	if len(d.AuthorNames) == 0 {
		return ""
	}
	return d.AuthorNames[0]
}

// HasCover reports whether the document carries any cover reference.
func (d Doc) HasCover() bool {
	return d.CoverID > 0 || d.ISBN != ""
}

// Subtitle builds the display subtitle: "by Author (Year)" with
// per-field fallbacks when author or year are missing.
func (d Doc) Subtitle() string {
	var sb strings.Builder
	if author := d.Author(); author != "" {
		sb.WriteString("by " + author)
	} else {
		sb.WriteString("by Unknown Author")
	}
	if d.FirstPublishYear > 0 {
		fmt.Fprintf(&sb, " (%d)", d.FirstPublishYear)
	}
	return sb.String()
}

// searchResponse matches the /search.json wire format.
type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverI           int      `json:"cover_i"`
	ISBN             []string `json:"isbn"`
}
