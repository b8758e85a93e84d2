package ui

import (
	"context"

	"github.com/bryan-buckman/newsdesk/internal/format"
)

// SelectTab makes view the active tab, updates the view title and loads the
// view. Exactly one tab is active afterwards; a view without a tab leaves
// none active.
func (a *App) SelectTab(ctx context.Context, view string) {
	a.page.mutate(func(s *State) bool {
		for i := range s.Tabs {
			s.Tabs[i].Active = s.Tabs[i].View == view
		}
		s.ViewTitle = format.CategoryLabel(view)
		return true
	}, RegionTabs)
	a.LoadPosts(ctx, view)
}
