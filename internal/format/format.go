// Package format provides the display helpers used by the renderers.
package format

import (
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Vienna must resolve on hosts without zoneinfo.

	"github.com/bryan-buckman/newsdesk/internal/model"
)

// DescriptionWords is the word budget for card descriptions.
const DescriptionWords = 80

// Ellipsis is appended to truncated text.
const Ellipsis = " …"

var vienna = loadVienna()

func loadVienna() *time.Location {
	loc, err := time.LoadLocation("Europe/Vienna")
	if err != nil {
		return time.FixedZone("CET", 60*60)
	}
	return loc
}

// Timestamp formats epoch seconds the way the de-AT locale shows a
// short date and time ("18.10., 14:05"). Zero yields an empty string.
func Timestamp(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).In(vienna).Format("02.01., 15:04")
}

// TruncateWords returns text unchanged if it has at most max words.
// Otherwise it returns the first max words joined by single spaces
// followed by Ellipsis.
func TruncateWords(text string, max int) string {
	if text == "" {
		return ""
	}
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ") + Ellipsis
}

// CategoryLabel maps a category code to its display label. Unknown codes
// are returned as is.
func CategoryLabel(code string) string {
	switch code {
	case model.CategoryAustria:
		return "Österreich"
	case model.CategoryInternational:
		return "International"
	case model.CategoryGoodNews:
		return "Good News"
	case model.CategoryInvestigativ:
		return "Investigativ"
	case model.CategoryReddit:
		return "Reddit"
	case model.ViewFundgrube:
		return "Fundgrube"
	default:
		return code
	}
}

var (
	submittedByRe = regexp.MustCompile(`(?is)submitted by.*$`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
)

// CleanDescription strips a trailing "submitted by" block and any markup
// tags from a feed description, then truncates it to DescriptionWords.
func CleanDescription(raw string) string {
	s := submittedByRe.ReplaceAllString(raw, " ")
	s = tagRe.ReplaceAllString(s, " ")
	return TruncateWords(strings.TrimSpace(s), DescriptionWords)
}
