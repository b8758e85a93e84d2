package ui

import (
	"context"
	"errors"
	"log"

	"github.com/bryan-buckman/newsdesk/internal/api"
	"github.com/bryan-buckman/newsdesk/internal/format"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

// renderFinds fills the posts container with the Fundgrube list for feed
// generation gen.
func (a *App) renderFinds(ctx context.Context, gen uint64) {
	lists, err := a.api.Lists(ctx)
	if err != nil {
		if !a.feedCurrent(gen) {
			return
		}
		log.Printf("Load fundgrube: %v", err)
		a.paintFeed(gen, PostsPane{State: PaneError, Message: msgFindsError})
		return
	}
	if len(lists.Fundgrube) == 0 {
		a.paintFeed(gen, PostsPane{State: PaneEmpty, Message: msgNoFinds})
		return
	}

	finds := make([]FindCard, 0, len(lists.Fundgrube))
	for _, it := range lists.Fundgrube {
		finds = append(finds, findCard(it))
	}
	a.paintFeed(gen, PostsPane{State: PaneListed, Finds: finds})
}

func findCard(it model.FindItem) FindCard {
	f := FindCard{
		Label:  it.Title,
		URL:    it.URL,
		Image:  it.Image,
		Author: it.Author,
		Date:   format.Timestamp(it.CreatedAt),
	}
	if f.Label == "" {
		f.Label = it.URL
	}
	if f.Author == "" {
		f.Author = authorUnknown
	}
	return f
}

// OpenQuickAdd shows the Fundgrube submission dialog.
func (a *App) OpenQuickAdd() {
	a.page.mutate(func(s *State) bool {
		s.QuickAdd.Open = true
		return true
	}, RegionQuickAdd)
}

// CloseQuickAdd hides the Fundgrube submission dialog.
func (a *App) CloseQuickAdd() {
	a.page.mutate(func(s *State) bool {
		s.QuickAdd.Open = false
		return true
	}, RegionQuickAdd)
}

// SubmitFind sends a quick-add entry. An expired session alerts and
// redirects to the login page; other rejections alert. On success the
// dialog closes, the Fundgrube list is rendered again if it is the current
// view, and the status line is refreshed.
func (a *App) SubmitFind(ctx context.Context, f api.FindForm) error {
	err := a.api.AddFind(ctx, f)
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		a.page.alert(msgSessionExpired)
		a.page.redirect(LoginPath)
		return err
	case errors.As(err, &se):
		a.page.alert(msgSaveFailed)
		return err
	case err != nil:
		log.Printf("Add find: %v", err)
		return err
	}

	a.CloseQuickAdd()
	if a.CurrentView() == model.ViewFundgrube {
		a.LoadPosts(ctx, model.ViewFundgrube)
	}
	a.LoadStatus(ctx)
	return nil
}
