package ui

import (
	"context"
	"log"

	"github.com/bryan-buckman/newsdesk/internal/format"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

// beginFeed starts a new feed generation for view. It cancels the request
// of the previous generation and paints the loading placeholder.
func (a *App) beginFeed(view string, cancel context.CancelFunc) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.feedCancel != nil {
		a.feedCancel()
	}
	a.feedCancel = cancel
	a.feedGen++
	gen := a.feedGen

	a.page.mutate(func(s *State) bool {
		s.View = view
		s.QuickAddHidden = view != model.ViewFundgrube
		s.Posts = PostsPane{State: PaneLoading, Message: msgLoading}
		return true
	}, RegionPosts, RegionTabs, RegionQuickAdd)
	return gen
}

// paintFeed replaces the posts container if gen is still current.
func (a *App) paintFeed(gen uint64, pane PostsPane) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.feedGen {
		return false
	}
	return a.page.mutate(func(s *State) bool {
		s.Posts = pane
		return true
	}, RegionPosts)
}

func (a *App) feedCurrent(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen == a.feedGen
}

// LoadPosts makes view current and renders it into the posts container.
// The Fundgrube view is delegated to the finds renderer. A later call
// supersedes an earlier one: the earlier request is cancelled and its
// result is never painted.
func (a *App) LoadPosts(ctx context.Context, view string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	gen := a.beginFeed(view, cancel)

	if view == model.ViewFundgrube {
		a.renderFinds(ctx, gen)
		return
	}

	posts, err := a.api.Posts(ctx, view)
	if err != nil {
		if !a.feedCurrent(gen) {
			return
		}
		log.Printf("Load posts %q: %v", view, err)
		a.paintFeed(gen, PostsPane{State: PaneError, Message: msgPostsError})
		return
	}
	if len(posts) == 0 {
		a.paintFeed(gen, PostsPane{State: PaneEmpty, Message: msgNoPosts})
		return
	}

	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, a.buildCard(view, p))
	}
	a.paintFeed(gen, PostsPane{State: PaneListed, Cards: cards})
}

// buildCard derives the view model of one post. The liked state comes from
// the local ledger, not from the server's like counter.
func (a *App) buildCard(view string, p model.Post) Card {
	id := string(p.ID)
	c := Card{
		PostID:        id,
		Title:         p.Title,
		URL:           p.URL,
		Source:        p.Source,
		Date:          format.Timestamp(p.CreatedAt),
		Score:         p.AutoScore,
		Likes:         p.Likes,
		CategoryLabel: format.CategoryLabel(p.AutoCategory),
		Description:   format.CleanDescription(p.Description),
		CommentCount:  p.CommentCount,
		LikeLabel:     labelLike,
	}
	if c.Title == "" {
		c.Title = titleUntitled
	}
	if c.Source == "" {
		c.Source = sourceUnknown
	}
	if view != model.CategoryReddit && p.Thumb != "" {
		c.Thumb = p.Thumb
	}

	if a.likes.HasLiked(id) {
		c.Liked = true
		c.LikeDisabled = true
		c.LikeLabel = labelLiked
	} else {
		a.mu.Lock()
		c.LikeDisabled = a.liking[id]
		a.mu.Unlock()
	}
	return c
}
