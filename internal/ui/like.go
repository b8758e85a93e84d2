package ui

import (
	"context"
	"log"
)

// LikePost endorses a post once from this device.
//
// The like control is disabled before the request is issued, so at most one
// like per post is in flight. On failure the control is enabled again and
// the ledger is left untouched; the card keeps whatever style it had. On
// success the ledger is marked, the card switches to its liked state and
// the status line is refreshed in the background.
func (a *App) LikePost(ctx context.Context, id string) error {
	if a.likes.HasLiked(id) {
		return nil
	}

	a.mu.Lock()
	if a.liking[id] || a.likes.HasLiked(id) {
		a.mu.Unlock()
		return nil
	}
	a.liking[id] = true
	a.page.mutate(func(s *State) bool {
		c := s.card(id)
		if c == nil {
			return false
		}
		c.LikeDisabled = true
		return true
	}, RegionPosts)
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.liking, id)
		a.mu.Unlock()
	}()

	if err := a.api.Like(ctx, id); err != nil {
		log.Printf("Like %s: %v", id, err)
		a.page.mutate(func(s *State) bool {
			c := s.card(id)
			if c == nil {
				return false
			}
			c.LikeDisabled = false
			return true
		}, RegionPosts)
		return err
	}

	if err := a.likes.MarkLiked(id); err != nil {
		log.Printf("Like %s: %v", id, err)
	}
	a.page.mutate(func(s *State) bool {
		c := s.card(id)
		if c == nil {
			return false
		}
		c.Liked = true
		c.LikeDisabled = true
		c.LikeLabel = labelLiked
		return true
	}, RegionPosts)

	a.background(ctx, func(ctx context.Context) {
		a.LoadStatus(ctx)
	})
	return nil
}
