package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bryan-buckman/newsdesk/internal/format"
)

// OpenComments shows the comment dialog for a post and lists its thread.
func (a *App) OpenComments(ctx context.Context, postID, title string) {
	if title == "" {
		title = titleComments
	}

	a.mu.Lock()
	a.commentGen++
	gen := a.commentGen
	a.page.mutate(func(s *State) bool {
		s.Comments = CommentModal{
			Open:    true,
			PostID:  postID,
			Title:   title,
			State:   PaneLoading,
			Message: msgLoading,
		}
		return true
	}, RegionComments)
	a.mu.Unlock()

	a.listComments(ctx, gen, postID)
}

// paintComments applies fn to the dialog if gen is still the open dialog.
func (a *App) paintComments(gen uint64, fn func(m *CommentModal)) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.commentGen {
		return false
	}
	return a.page.mutate(func(s *State) bool {
		fn(&s.Comments)
		return true
	}, RegionComments)
}

func (a *App) listComments(ctx context.Context, gen uint64, postID string) {
	a.paintComments(gen, func(m *CommentModal) {
		m.State, m.Message, m.Comments = PaneLoading, msgLoading, nil
	})

	comments, err := a.api.Comments(ctx, postID)
	if err != nil {
		log.Printf("Load comments for %s: %v", postID, err)
		a.paintComments(gen, func(m *CommentModal) {
			m.State, m.Message, m.Comments = PaneError, msgCommentsError, nil
		})
		return
	}
	if len(comments) == 0 {
		a.paintComments(gen, func(m *CommentModal) {
			m.State, m.Message, m.Comments = PaneEmpty, msgNoComments, nil
		})
		return
	}

	rows := make([]Row, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, Row{
			Author: c.Author,
			Date:   format.Timestamp(c.CreatedAt),
			Text:   c.Text,
		})
	}
	a.paintComments(gen, func(m *CommentModal) {
		m.State, m.Message, m.Comments = PaneListed, "", rows
	})
}

// SetCommentDraft sets the text of the comment input.
func (a *App) SetCommentDraft(text string) {
	a.page.mutate(func(s *State) bool {
		if !s.Comments.Open {
			return false
		}
		s.Comments.Input = text
		return true
	}, RegionComments)
}

// SubmitComment posts the drafted comment for the open dialog. Blank drafts
// are ignored without a request. After a successful post the thread is
// listed again from the server, the draft is cleared and the card's comment
// badge is incremented by one; the feed is not fetched again.
func (a *App) SubmitComment(ctx context.Context) error {
	a.mu.Lock()
	gen := a.commentGen
	st := a.page.Snapshot()
	a.mu.Unlock()

	if !st.Comments.Open {
		return nil
	}
	postID := st.Comments.PostID
	text := strings.TrimSpace(st.Comments.Input)
	if text == "" {
		return nil
	}

	if err := a.api.AddComment(ctx, postID, text); err != nil {
		log.Printf("Add comment to %s: %v", postID, err)
		a.page.alert(msgSaveFailed)
		return err
	}

	a.listComments(ctx, gen, postID)
	a.paintComments(gen, func(m *CommentModal) {
		m.Input = ""
	})
	a.page.mutate(func(s *State) bool {
		c := s.card(postID)
		if c == nil {
			return false
		}
		c.CommentCount++
		return true
	}, RegionPosts)
	return nil
}

// CloseComments hides the dialog and clears it. Completions of requests
// issued for the closed dialog are dropped.
func (a *App) CloseComments() {
	a.mu.Lock()
	a.commentGen++
	a.page.mutate(func(s *State) bool {
		s.Comments = CommentModal{}
		return true
	}, RegionComments)
	a.mu.Unlock()
}

// CommentBadge formats a card's comment count.
func CommentBadge(n int) string {
	return fmt.Sprintf(commentBadgeFormat, n)
}
