package ui

import (
	"context"
	"fmt"
	"log"
)

// LoadStatus refreshes the aggregate status line. Failures are logged and
// leave the line unchanged.
func (a *App) LoadStatus(ctx context.Context) error {
	st, err := a.api.Status(ctx)
	if err != nil {
		log.Printf("Status error: %v", err)
		return err
	}
	text := fmt.Sprintf(statusFormat, st.PostsCount, st.FundgrubeCount)
	a.page.mutate(func(s *State) bool {
		s.Status = text
		return true
	}, RegionStatus)
	return nil
}
