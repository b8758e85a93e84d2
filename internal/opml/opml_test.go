package opml

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/model"
)

func TestExportFindsGroupsByAuthor(t *testing.T) {
	Now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }
	defer func() { Now = time.Now }()

	data, err := ExportFinds("Fundgrube", []model.FindItem{
		{URL: "https://a.example", Title: "A", Author: "zoe", CreatedAt: 1700000000},
		{URL: "https://b.example", Author: "anna"},
		{URL: "https://c.example", Title: "C", Author: "zoe"},
		{URL: "https://d.example", Title: "D"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte(xml.Header)) {
		t.Error("missing XML header")
	}

	var doc OPML
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Version != "2.0" || doc.Head.Title != "Fundgrube" || doc.Head.DateCreated != "Tue, 05 Mar 2024 12:00:00 +0000" {
		t.Errorf("head = %+v version %q", doc.Head, doc.Version)
	}

	groups := doc.Body.Outlines
	if len(groups) != 3 {
		t.Fatalf("%d groups, want 3", len(groups))
	}
	if groups[0].Text != "Unbekannt" || groups[1].Text != "anna" || groups[2].Text != "zoe" {
		t.Errorf("group order = %q %q %q", groups[0].Text, groups[1].Text, groups[2].Text)
	}
	if l := groups[1].Outlines; len(l) != 1 || l[0].Text != "https://b.example" || l[0].HTMLURL != "https://b.example" {
		t.Errorf("untitled link = %+v", l)
	}
	zoe := groups[2].Outlines
	if len(zoe) != 2 || zoe[0].Title != "A" || zoe[1].Title != "C" {
		t.Fatalf("zoe = %+v", zoe)
	}
	if zoe[0].Created == "" || zoe[1].Created != "" {
		t.Errorf("created = %q, %q", zoe[0].Created, zoe[1].Created)
	}
}

func TestExportFindsEmpty(t *testing.T) {
	data, err := ExportFinds("leer", nil)
	if err != nil {
		t.Fatal(err)
	}
	var doc OPML
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Body.Outlines) != 0 {
		t.Errorf("outlines = %+v", doc.Body.Outlines)
	}
}
