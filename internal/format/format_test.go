package format

import (
	"strings"
	"testing"
	"time"
)

func TestTimestamp(t *testing.T) {
	if got := Timestamp(0); got != "" {
		t.Fatalf("Timestamp(0) = %q, want empty", got)
	}

	// 2024-03-05 13:07:00 UTC is 14:07 in Vienna (CET).
	ts := time.Date(2024, 3, 5, 13, 7, 0, 0, time.UTC).Unix()
	if got, want := Timestamp(ts), "05.03., 14:07"; got != want {
		t.Errorf("Timestamp(%d) = %q, want %q", ts, got, want)
	}

	// Summer time shifts the offset to +2.
	ts = time.Date(2024, 7, 20, 22, 30, 0, 0, time.UTC).Unix()
	if got, want := Timestamp(ts), "21.07., 00:30"; got != want {
		t.Errorf("Timestamp(%d) = %q, want %q", ts, got, want)
	}
}

func TestTruncateWords(t *testing.T) {
	short := "one two  three"
	if got := TruncateWords(short, 3); got != short {
		t.Errorf("TruncateWords(%q, 3) = %q, want input unchanged", short, got)
	}
	if got := TruncateWords("", 80); got != "" {
		t.Errorf("TruncateWords empty = %q", got)
	}
	if got, want := TruncateWords("a b\tc\nd", 2), "a b"+Ellipsis; got != want {
		t.Errorf("TruncateWords = %q, want %q", got, want)
	}

	words := make([]string, 81)
	for i := range words {
		words[i] = "w"
	}
	long := strings.Join(words, "   ")
	got := TruncateWords(long, DescriptionWords)
	want := strings.Join(words[:80], " ") + Ellipsis
	if got != want {
		t.Errorf("TruncateWords 81 words = %q, want %q", got, want)
	}

	exact := strings.Join(words[:80], " ")
	if got := TruncateWords(exact, DescriptionWords); got != exact {
		t.Errorf("TruncateWords 80 words changed the input")
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := map[string]string{
		"austria":         "Österreich",
		"international":   "International",
		"good_news":       "Good News",
		"investigativ":    "Investigativ",
		"reddit_politics": "Reddit",
		"fundgrube":       "Fundgrube",
		"sports":          "sports",
		"":                "",
	}
	for code, want := range cases {
		if got := CategoryLabel(code); got != want {
			t.Errorf("CategoryLabel(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestCleanDescription(t *testing.T) {
	raw := `<p>Budget <b>talks</b> stall</p> submitted by <a href="/u/x">/u/x</a> [link] [comments]`
	if got, want := CleanDescription(raw), "Budget  talks  stall"; got != want {
		t.Errorf("CleanDescription = %q, want %q", got, want)
	}

	if got := CleanDescription("SUBMITTED BY someone\nmore"); got != "" {
		t.Errorf("CleanDescription boilerplate only = %q, want empty", got)
	}

	long := strings.Repeat("<i>x</i> ", 100)
	got := CleanDescription(long)
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("CleanDescription long text not truncated: %q", got)
	}
	if n := len(strings.Fields(strings.TrimSuffix(got, Ellipsis))); n != DescriptionWords {
		t.Errorf("CleanDescription kept %d words, want %d", n, DescriptionWords)
	}
}
