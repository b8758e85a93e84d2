package ui

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/api"
	"github.com/bryan-buckman/newsdesk/internal/apitest"
	"github.com/bryan-buckman/newsdesk/internal/database"
	"github.com/bryan-buckman/newsdesk/internal/ledger"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

type fixture struct {
	app    *App
	srv    *apitest.Server
	ledger *ledger.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	db, err := database.New(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	l := ledger.New(db)
	app := New(client, l)
	t.Cleanup(app.Wait)
	return &fixture{app: app, srv: srv, ledger: l}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestLoadStatus(t *testing.T) {
	f := newFixture(t)
	f.srv.SetPosts(model.Post{ID: "1"}, model.Post{ID: "2"})
	f.srv.SetFinds(model.FindItem{URL: "https://x"})

	if err := f.app.LoadStatus(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := f.app.Page().Snapshot().Status, "2 Artikel · 1 Fundgrube"; got != want {
		t.Errorf("Status = %q, want %q", got, want)
	}

	f.srv.Fail("GET /api/status", http.StatusInternalServerError)
	f.app.LoadStatus(context.Background())
	if got := f.app.Page().Snapshot().Status; got != "2 Artikel · 1 Fundgrube" {
		t.Errorf("failed refresh changed status to %q", got)
	}
}

func TestSelectTab(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.app.SelectTab(ctx, model.CategoryGoodNews)
	st := f.app.Page().Snapshot()
	active := 0
	for _, tab := range st.Tabs {
		if tab.Active {
			active++
			if tab.View != model.CategoryGoodNews {
				t.Errorf("active tab = %s", tab.View)
			}
		}
	}
	if active != 1 {
		t.Errorf("%d active tabs, want 1", active)
	}
	if st.ViewTitle != "Good News" || st.View != model.CategoryGoodNews {
		t.Errorf("view = %q title = %q", st.View, st.ViewTitle)
	}
	if !st.QuickAddHidden {
		t.Error("quick-add visible outside the Fundgrube view")
	}

	f.app.SelectTab(ctx, model.ViewFundgrube)
	st = f.app.Page().Snapshot()
	if st.QuickAddHidden {
		t.Error("quick-add hidden in the Fundgrube view")
	}
	if st.ViewTitle != "Fundgrube" {
		t.Errorf("title = %q", st.ViewTitle)
	}
}

func TestImagePreview(t *testing.T) {
	f := newFixture(t)
	f.app.OpenImage("/img/big.jpg")
	if im := f.app.Page().Snapshot().Image; !im.Open || im.Src != "/img/big.jpg" {
		t.Fatalf("overlay = %+v", im)
	}
	f.app.CloseImage()
	if im := f.app.Page().Snapshot().Image; im.Open || im.Src != "" {
		t.Errorf("overlay after close = %+v", im)
	}
}

func TestReloadAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.SetPosts(model.Post{ID: "1", Title: "A", AutoCategory: "austria"})
	f.srv.SetChat(model.ChatMessage{Author: "a", Text: "hi", CreatedAt: 1})
	f.app.SelectTab(ctx, model.CategoryAustria)

	if err := f.app.ReloadAll(ctx); err != nil {
		t.Fatalf("ReloadAll: %v", err)
	}
	st := f.app.Page().Snapshot()
	if st.Reload.Disabled || st.Reload.Label != labelReload {
		t.Errorf("reload button = %+v", st.Reload)
	}
	if f.srv.Hits("GET /api/posts") != 2 || len(st.Chat.Messages) != 1 {
		t.Errorf("reload did not refresh feed and chat")
	}
	if st.Status == "" {
		t.Error("status not refreshed")
	}

	f.srv.Fail("POST /api/reload", http.StatusInternalServerError)
	if err := f.app.ReloadAll(ctx); err == nil {
		t.Fatal("expected reload error")
	}
	if st := f.app.Page().Snapshot(); st.Reload.Disabled || st.Reload.Label != labelReload {
		t.Errorf("reload button after failure = %+v", st.Reload)
	}
}

func TestSubscribeNotifiesRegions(t *testing.T) {
	f := newFixture(t)
	ch, unsubscribe := f.app.Page().Subscribe()
	defer unsubscribe()

	f.app.OpenImage("x.png")
	select {
	case r := <-ch:
		if r != RegionImage {
			t.Errorf("region = %s, want %s", r, RegionImage)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	unsubscribe()
	f.app.CloseImage()
	select {
	case r := <-ch:
		t.Errorf("notified after unsubscribe: %s", r)
	default:
	}
}

func TestTakeFlashDrains(t *testing.T) {
	p := NewPage()
	p.alert("a")
	p.redirect(LoginPath)
	alerts, to := p.TakeFlash()
	if len(alerts) != 1 || to != LoginPath {
		t.Fatalf("TakeFlash = %v, %q", alerts, to)
	}
	if alerts, to := p.TakeFlash(); len(alerts) != 0 || to != "" {
		t.Errorf("second TakeFlash = %v, %q", alerts, to)
	}
}
