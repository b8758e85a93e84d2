package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/api"
	"github.com/bryan-buckman/newsdesk/internal/format"
)

// DefaultChatInterval is the chat polling period.
const DefaultChatInterval = 10 * time.Second

// RefreshChat fetches the chat stream and replaces the message list. An
// expired session shows a passive notice for this cycle only. A response
// older than one already painted is dropped.
func (a *App) RefreshChat(ctx context.Context) {
	a.mu.Lock()
	a.chatGen++
	gen := a.chatGen
	a.mu.Unlock()

	msgs, err := a.api.Chat(ctx)

	var box ChatBox
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		box.Message = msgChatSession
	case errors.As(err, &se):
		log.Printf("Load chat: %v", err)
		return
	case err != nil:
		log.Printf("Load chat: %v", err)
		box.Message = msgChatError
	case len(msgs) == 0:
		box.Message = msgNoChat
	default:
		box.Messages = make([]Row, 0, len(msgs))
		for _, m := range msgs {
			box.Messages = append(box.Messages, Row{
				Author: m.Author,
				Date:   format.Timestamp(m.CreatedAt),
				Text:   m.Text,
			})
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen < a.chatApplied {
		return
	}
	a.chatApplied = gen
	a.page.mutate(func(s *State) bool {
		s.Chat.Message = box.Message
		s.Chat.Messages = box.Messages
		return true
	}, RegionChat)
}

// SetChatDraft sets the text of the chat input.
func (a *App) SetChatDraft(text string) {
	a.page.mutate(func(s *State) bool {
		s.Chat.Input = text
		return true
	}, RegionChat)
}

// SendChat posts the drafted chat message. A blank draft is ignored
// without a request. On success the draft is cleared and the stream is
// fetched once right away.
func (a *App) SendChat(ctx context.Context) error {
	text := strings.TrimSpace(a.page.Snapshot().Chat.Input)
	if text == "" {
		return nil
	}

	err := a.api.SendChat(ctx, text)
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		a.page.alert(msgSessionExpired)
		a.page.redirect(LoginPath)
		return err
	case errors.As(err, &se):
		a.page.alert(msgSendFailed)
		return err
	case err != nil:
		log.Printf("Send chat: %v", err)
		return err
	}

	a.SetChatDraft("")
	a.RefreshChat(ctx)
	return nil
}

// ChatPoller refreshes the chat on a fixed interval. Ticks are not
// coordinated with in-flight requests, so a slow fetch may overlap the
// next one.
type ChatPoller struct {
	app      *App
	interval time.Duration
	timeout  time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewChatPoller creates a poller for app. Each fetch is bounded by timeout
// when it is positive.
func NewChatPoller(app *App, interval, timeout time.Duration) *ChatPoller {
	if interval <= 0 {
		interval = DefaultChatInterval
	}
	return &ChatPoller{
		app:      app,
		interval: interval,
		timeout:  timeout,
		stopChan: make(chan struct{}),
	}
}

// Start fetches immediately and then on every tick until Stop.
func (p *ChatPoller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		log.Printf("Chat poller: every %s", p.interval)

		p.tick(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.stopChan:
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

func (p *ChatPoller) tick(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		p.app.RefreshChat(ctx)
	}()
}

// Stop ends polling, cancels in-flight fetches and waits for them.
func (p *ChatPoller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
	p.wg.Wait()
}
