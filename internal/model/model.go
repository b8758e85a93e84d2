// Package model defines shared data structures.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Category codes assigned by the classification pipeline.
const (
	CategoryAustria       = "austria"
	CategoryInternational = "international"
	CategoryGoodNews      = "good_news"
	CategoryInvestigativ  = "investigativ"
	CategoryReddit        = "reddit_politics"
)

// ViewFundgrube is the finds list; it is a view but not a post category.
const ViewFundgrube = "fundgrube"

// DefaultView is the view shown on startup.
const DefaultView = CategoryAustria

// Views lists the tabs in display order.
var Views = []string{
	CategoryAustria,
	CategoryInternational,
	CategoryGoodNews,
	CategoryInvestigativ,
	CategoryReddit,
	ViewFundgrube,
}

// ID is an opaque identifier. The content API serves ids both as strings
// and as numbers; both decode to the same string form.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(strings.TrimSpace(n.String()))
	return nil
}

// Post is one aggregated article.
type Post struct {
	ID           ID     `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Source       string `json:"source"`
	Description  string `json:"description"`
	CreatedAt    int64  `json:"created_at"`
	Thumb        string `json:"thumb"`
	AutoCategory string `json:"auto_category"`
	AutoScore    int    `json:"auto_score"`
	Likes        int    `json:"likes"`
	CommentCount int    `json:"comment_count"`
}

// Comment is one entry of a post's discussion thread.
type Comment struct {
	ID        ID     `json:"id"`
	PostID    ID     `json:"post_id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// ChatMessage is one message of the shared chat stream.
type ChatMessage struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// FindItem is a user-submitted link in the Fundgrube list.
type FindItem struct {
	ID        ID     `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"created_at"`
}

// Lists is the response of the list-collection endpoint.
type Lists struct {
	Fundgrube []FindItem `json:"fundgrube"`
}

// Status holds the aggregate counters shown in the status line.
type Status struct {
	PostsCount     int `json:"posts_count"`
	FundgrubeCount int `json:"fundgrube_count"`
}

// Local state keys.
const (
	KeyLikedPosts = "liked_posts"
)
