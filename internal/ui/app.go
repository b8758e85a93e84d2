package ui

import (
	"context"
	"sync"

	"github.com/bryan-buckman/newsdesk/internal/api"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

// API is the subset of the content API the engine uses.
type API interface {
	Status(ctx context.Context) (model.Status, error)
	Posts(ctx context.Context, category string) ([]model.Post, error)
	Like(ctx context.Context, postID string) error
	Comments(ctx context.Context, postID string) ([]model.Comment, error)
	AddComment(ctx context.Context, postID, text string) error
	Lists(ctx context.Context) (model.Lists, error)
	AddFind(ctx context.Context, f api.FindForm) error
	Reload(ctx context.Context) error
	Chat(ctx context.Context) ([]model.ChatMessage, error)
	SendChat(ctx context.Context, text string) error
}

// Likes is the local like ledger.
type Likes interface {
	HasLiked(id string) bool
	MarkLiked(id string) error
}

// Ensure the concrete client satisfies API.
var _ API = (*api.Client)(nil)

// App wires the controllers to one page.
//
// Every asynchronous completion is tagged with the generation that was
// current when its request was issued. Feed, comment and chat completions
// whose generation is no longer current are dropped instead of painted.
type App struct {
	api   API
	likes Likes
	page  *Page

	mu          sync.Mutex // guards the fields below; taken before page.mu
	feedGen     uint64
	feedCancel  context.CancelFunc
	commentGen  uint64
	chatGen     uint64
	chatApplied uint64
	liking      map[string]bool

	bg sync.WaitGroup
}

// New creates an engine for client and likes with a fresh page.
func New(client API, likes Likes) *App {
	return &App{
		api:    client,
		likes:  likes,
		page:   NewPage(),
		liking: make(map[string]bool),
	}
}

// Page returns the page driven by the app.
func (a *App) Page() *Page {
	return a.page
}

// Init loads the status line and selects the initial view.
func (a *App) Init(ctx context.Context, view string) {
	a.LoadStatus(ctx)
	a.SelectTab(ctx, view)
}

// Wait blocks until background work started by controllers has finished.
func (a *App) Wait() {
	a.bg.Wait()
}

// background runs fn on its own goroutine, detached from ctx cancellation.
func (a *App) background(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		fn(ctx)
	}()
}

// CurrentView returns the view the feed is scoped to.
func (a *App) CurrentView() string {
	a.page.mu.Lock()
	defer a.page.mu.Unlock()
	return a.page.state.View
}
