package ui

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/bryan-buckman/newsdesk/internal/model"
)

func TestLoadPostsRendersCards(t *testing.T) {
	f := newFixture(t)
	f.srv.SetPosts(
		model.Post{
			ID: "a1", Title: "Budget", URL: "https://news.example/a1", Source: "ORF",
			Description:  "<p>Parliament <b>agrees</b></p> submitted by /u/bot [link]",
			CreatedAt:    1700000000,
			Thumb:        "https://img.example/a1.jpg",
			AutoCategory: "austria", AutoScore: 42, Likes: 3,
		},
		model.Post{ID: "a2", AutoCategory: "austria"},
	)
	if err := f.ledger.MarkLiked("a2"); err != nil {
		t.Fatal(err)
	}

	f.app.LoadPosts(context.Background(), model.CategoryAustria)
	st := f.app.Page().Snapshot()
	if st.Posts.State != PaneListed || len(st.Posts.Cards) != 2 {
		t.Fatalf("posts pane = %+v", st.Posts)
	}

	c := st.Posts.Cards[0]
	if c.Title != "Budget" || c.Thumb != "https://img.example/a1.jpg" || c.Score != 42 || c.Likes != 3 {
		t.Errorf("card = %+v", c)
	}
	if c.Description != "Parliament  agrees" {
		t.Errorf("description = %q", c.Description)
	}
	if c.CategoryLabel != "Österreich" || c.Date == "" || c.Source != "ORF" {
		t.Errorf("card meta = %+v", c)
	}
	if c.Liked || c.LikeDisabled || c.LikeLabel != labelLike {
		t.Errorf("unliked card has like state %+v", c)
	}

	u := st.Posts.Cards[1]
	if u.Title != titleUntitled {
		t.Errorf("untitled card title = %q", u.Title)
	}
	if u.Thumb != "" || u.Date != "" || u.Score != 0 || u.Likes != 0 || u.Source != sourceUnknown {
		t.Errorf("defaults not applied: %+v", u)
	}
	if !u.Liked || !u.LikeDisabled || u.LikeLabel != labelLiked {
		t.Errorf("ledger state not applied: %+v", u)
	}
}

func TestRedditViewSuppressesThumbnails(t *testing.T) {
	f := newFixture(t)
	f.srv.SetPosts(model.Post{ID: "r1", Title: "Thread", Thumb: "https://thumb", AutoCategory: model.CategoryReddit})

	f.app.LoadPosts(context.Background(), model.CategoryReddit)
	cards := f.app.Page().Snapshot().Posts.Cards
	if len(cards) != 1 || cards[0].Thumb != "" {
		t.Errorf("cards = %+v, want no thumbnail", cards)
	}
}

func TestLoadPostsEmptyAndError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.app.LoadPosts(ctx, model.CategoryInvestigativ)
	if p := f.app.Page().Snapshot().Posts; p.State != PaneEmpty || p.Message != msgNoPosts {
		t.Errorf("empty pane = %+v", p)
	}

	f.srv.Fail("GET /api/posts", http.StatusBadGateway)
	f.app.LoadPosts(ctx, model.CategoryInvestigativ)
	if p := f.app.Page().Snapshot().Posts; p.State != PaneError || p.Message != msgPostsError {
		t.Errorf("error pane = %+v", p)
	}
}

func TestLoadPostsWithoutView(t *testing.T) {
	f := newFixture(t)
	f.srv.SetPosts(model.Post{ID: "1", AutoCategory: "austria"}, model.Post{ID: "2", AutoCategory: "good_news"})
	f.app.LoadPosts(context.Background(), "")
	if n := len(f.app.Page().Snapshot().Posts.Cards); n != 2 {
		t.Errorf("unfiltered view rendered %d cards, want 2", n)
	}
}

func TestSupersededViewIsNotPainted(t *testing.T) {
	f := newFixture(t)
	f.srv.SetPosts(
		model.Post{ID: "at", Title: "Austria", AutoCategory: model.CategoryAustria},
		model.Post{ID: "in", Title: "World", AutoCategory: model.CategoryInternational},
	)

	started := make(chan struct{})
	var once sync.Once
	f.srv.OnRequest(func(route string, r *http.Request) {
		if route == "GET /api/posts" && r.URL.Query().Get("category") == model.CategoryAustria {
			once.Do(func() { close(started) })
			<-r.Context().Done()
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.app.LoadPosts(context.Background(), model.CategoryAustria)
	}()
	<-started

	f.app.LoadPosts(context.Background(), model.CategoryInternational)
	<-done

	st := f.app.Page().Snapshot()
	if st.View != model.CategoryInternational {
		t.Fatalf("view = %q", st.View)
	}
	if st.Posts.State != PaneListed || len(st.Posts.Cards) != 1 || st.Posts.Cards[0].PostID != "in" {
		t.Errorf("posts pane = %+v, want only the international card", st.Posts)
	}
}

func TestFindsView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.app.LoadPosts(ctx, model.ViewFundgrube)
	if p := f.app.Page().Snapshot().Posts; p.State != PaneEmpty || p.Message != msgNoFinds {
		t.Errorf("empty finds = %+v", p)
	}

	f.srv.SetFinds(
		model.FindItem{URL: "https://a.example", Title: "A", Author: "eva", CreatedAt: 1700000000, Image: "/static/uploads/a.png"},
		model.FindItem{URL: "https://b.example"},
	)
	f.app.LoadPosts(ctx, model.ViewFundgrube)
	p := f.app.Page().Snapshot().Posts
	if p.State != PaneListed || len(p.Finds) != 2 || len(p.Cards) != 0 {
		t.Fatalf("finds pane = %+v", p)
	}
	if p.Finds[0].Label != "A" || p.Finds[0].Author != "eva" || p.Finds[0].Image == "" || p.Finds[0].Date == "" {
		t.Errorf("find = %+v", p.Finds[0])
	}
	if p.Finds[1].Label != "https://b.example" || p.Finds[1].Author != authorUnknown {
		t.Errorf("fallbacks = %+v", p.Finds[1])
	}
	if f.srv.Hits("GET /api/posts") != 0 {
		t.Error("finds view fetched posts")
	}

	f.srv.Fail("GET /api/lists", http.StatusInternalServerError)
	f.app.LoadPosts(ctx, model.ViewFundgrube)
	if p := f.app.Page().Snapshot().Posts; p.State != PaneError || !strings.Contains(p.Message, "Fundgrube") {
		t.Errorf("finds error pane = %+v", p)
	}
}
