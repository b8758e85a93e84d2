// Package ui is the client state and rendering engine. It keeps the page
// state in sync with the content API and the local like ledger.
package ui

import (
	"sync"

	"github.com/bryan-buckman/newsdesk/internal/format"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

// Region names a part of the page that can be redrawn on its own.
type Region string

const (
	RegionTabs     Region = "tabs"
	RegionStatus   Region = "status"
	RegionPosts    Region = "posts"
	RegionComments Region = "comments"
	RegionQuickAdd Region = "quickadd"
	RegionImage    Region = "image"
	RegionChat     Region = "chat"
	RegionReload   Region = "reload"
	RegionFlash    Region = "flash"
)

// Regions lists every region.
var Regions = []Region{
	RegionTabs, RegionStatus, RegionPosts, RegionComments,
	RegionQuickAdd, RegionImage, RegionChat, RegionReload, RegionFlash,
}

// PaneState is the lifecycle of a list container.
type PaneState string

const (
	PaneIdle    PaneState = ""
	PaneLoading PaneState = "loading"
	PaneEmpty   PaneState = "empty"
	PaneError   PaneState = "error"
	PaneListed  PaneState = "listed"
)

// Tab is one view selector.
type Tab struct {
	View   string
	Label  string
	Active bool
}

// Card is the view model of one rendered post.
type Card struct {
	PostID        string
	Title         string
	URL           string
	Source        string
	Date          string
	Score         int
	Likes         int
	CategoryLabel string
	Thumb         string
	Description   string
	CommentCount  int
	Liked         bool // card style
	LikeDisabled  bool
	LikeLabel     string
}

// FindCard is the view model of one Fundgrube entry.
type FindCard struct {
	Label  string
	URL    string
	Image  string
	Author string
	Date   string
}

// PostsPane is the main container. It shows either post cards or finds.
type PostsPane struct {
	State   PaneState
	Message string
	Cards   []Card
	Finds   []FindCard
}

// Row is a rendered comment or chat message.
type Row struct {
	Author string
	Date   string
	Text   string
}

// CommentModal is the comment thread dialog.
type CommentModal struct {
	Open     bool
	PostID   string
	Title    string
	State    PaneState
	Message  string
	Comments []Row
	Input    string
}

// QuickAddModal is the Fundgrube submission dialog.
type QuickAddModal struct {
	Open bool
}

// ImageOverlay is the full-size image preview.
type ImageOverlay struct {
	Open bool
	Src  string
}

// ChatBox is the chat message list and its input.
type ChatBox struct {
	Message  string
	Messages []Row
	Input    string
}

// ReloadButton is the "reload everything" control.
type ReloadButton struct {
	Disabled bool
	Label    string
}

// State is the complete presentational state of the page.
type State struct {
	View           string
	ViewTitle      string
	Tabs           []Tab
	Status         string
	QuickAddHidden bool
	Posts          PostsPane
	Comments       CommentModal
	QuickAdd       QuickAddModal
	Image          ImageOverlay
	Chat           ChatBox
	Reload         ReloadButton
	Alerts         []string
	Redirect       string
}

// card returns the rendered card for postID, or nil.
func (s *State) card(postID string) *Card {
	for i := range s.Posts.Cards {
		if s.Posts.Cards[i].PostID == postID {
			return &s.Posts.Cards[i]
		}
	}
	return nil
}

func (s State) clone() State {
	c := s
	c.Tabs = append([]Tab(nil), s.Tabs...)
	c.Posts.Cards = append([]Card(nil), s.Posts.Cards...)
	c.Posts.Finds = append([]FindCard(nil), s.Posts.Finds...)
	c.Comments.Comments = append([]Row(nil), s.Comments.Comments...)
	c.Chat.Messages = append([]Row(nil), s.Chat.Messages...)
	c.Alerts = append([]string(nil), s.Alerts...)
	return c
}

// Page owns the page state. All writes go through mutate, which notifies
// subscribers of the regions that changed.
type Page struct {
	mu    sync.Mutex
	state State
	subs  map[chan Region]struct{}
}

// NewPage returns a page with one tab per view and nothing loaded.
func NewPage() *Page {
	tabs := make([]Tab, 0, len(model.Views))
	for _, v := range model.Views {
		tabs = append(tabs, Tab{View: v, Label: format.CategoryLabel(v)})
	}
	return &Page{
		state: State{
			Tabs:           tabs,
			QuickAddHidden: true,
			Reload:         ReloadButton{Label: labelReload},
		},
		subs: make(map[chan Region]struct{}),
	}
}

// Snapshot returns a deep copy of the current state.
func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// mutate runs fn with the page locked. If fn reports a change, every
// subscriber is notified of regions.
func (p *Page) mutate(fn func(s *State) bool, regions ...Region) bool {
	p.mu.Lock()
	changed := fn(&p.state)
	var subs []chan Region
	if changed {
		for ch := range p.subs {
			subs = append(subs, ch)
		}
	}
	p.mu.Unlock()

	for _, ch := range subs {
		for _, r := range regions {
			select {
			case ch <- r:
			default:
			}
		}
	}
	return changed
}

// Subscribe returns a channel receiving the names of redrawn regions and a
// function to unsubscribe. Notifications are dropped when the channel is
// full.
func (p *Page) Subscribe() (<-chan Region, func()) {
	ch := make(chan Region, 32)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, ch)
			p.mu.Unlock()
		})
	}
}

// TakeFlash returns and clears pending alerts and the pending redirect.
func (p *Page) TakeFlash() (alerts []string, redirect string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	alerts, redirect = p.state.Alerts, p.state.Redirect
	p.state.Alerts, p.state.Redirect = nil, ""
	return alerts, redirect
}

func (p *Page) alert(msg string) {
	p.mutate(func(s *State) bool {
		s.Alerts = append(s.Alerts, msg)
		return true
	}, RegionFlash)
}

func (p *Page) redirect(to string) {
	p.mutate(func(s *State) bool {
		s.Redirect = to
		return true
	}, RegionFlash)
}
