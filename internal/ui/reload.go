package ui

import (
	"context"
	"log"
)

// ReloadAll asks the server to refresh its content, then reloads the status
// line, the current view and the chat. The reload control is disabled for
// the duration and restored afterwards, also on failure.
func (a *App) ReloadAll(ctx context.Context) error {
	a.page.mutate(func(s *State) bool {
		s.Reload = ReloadButton{Disabled: true, Label: labelReloading}
		return true
	}, RegionReload)
	defer a.page.mutate(func(s *State) bool {
		s.Reload = ReloadButton{Label: labelReload}
		return true
	}, RegionReload)

	if err := a.api.Reload(ctx); err != nil {
		log.Printf("Reload: %v", err)
		return err
	}
	a.LoadStatus(ctx)
	a.LoadPosts(ctx, a.CurrentView())
	a.RefreshChat(ctx)
	return nil
}
