// Package opml exports the Fundgrube list as an OPML outline.
package opml

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/model"
)

// OPML represents the root of an OPML document.
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head contains OPML metadata.
type Head struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

// Body contains the outlines.
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline is either an author group or a single link.
type Outline struct {
	Text     string    `xml:"text,attr"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	HTMLURL  string    `xml:"htmlUrl,attr,omitempty"`
	Created  string    `xml:"created,attr,omitempty"`
	Outlines []Outline `xml:"outline,omitempty"`
}

// unknownAuthor groups finds without an author.
const unknownAuthor = "Unbekannt"

// Now is the clock used for dateCreated.
var Now = time.Now

// ExportFinds renders items as an OPML 2.0 document. Finds are grouped by
// author; groups are sorted by name and keep the order of items within.
func ExportFinds(title string, items []model.FindItem) ([]byte, error) {
	doc := OPML{
		Version: "2.0",
		Head: Head{
			Title:       title,
			DateCreated: Now().Format(time.RFC1123Z),
		},
	}

	groups := make(map[string]*Outline)
	var authors []string
	for _, it := range items {
		author := it.Author
		if author == "" {
			author = unknownAuthor
		}
		g, ok := groups[author]
		if !ok {
			g = &Outline{Text: author, Title: author}
			groups[author] = g
			authors = append(authors, author)
		}

		text := it.Title
		if text == "" {
			text = it.URL
		}
		link := Outline{Text: text, Title: text, Type: "link", HTMLURL: it.URL}
		if it.CreatedAt > 0 {
			link.Created = time.Unix(it.CreatedAt, 0).UTC().Format(time.RFC1123Z)
		}
		g.Outlines = append(g.Outlines, link)
	}

	sort.Strings(authors)
	for _, a := range authors {
		doc.Body.Outlines = append(doc.Body.Outlines, *groups[a])
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode opml: %w", err)
	}
	return append([]byte(xml.Header), output...), nil
}
