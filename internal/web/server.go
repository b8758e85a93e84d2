// Package web serves the page rendered from the engine state.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/bryan-buckman/newsdesk/internal/api"
	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/bryan-buckman/newsdesk/internal/opml"
	"github.com/bryan-buckman/newsdesk/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// maxUpload bounds quick-add submissions.
const maxUpload = 10 << 20

// Backend is the part of the content API the host talks to directly.
type Backend interface {
	Login(ctx context.Context, username, password string) error
	Lists(ctx context.Context) (model.Lists, error)
}

// Server is the HTTP host of one page.
type Server struct {
	app       *ui.App
	backend   Backend
	router    chi.Router
	templates *template.Template
	srv       *http.Server

	mu     sync.Mutex
	alerts []string // drained from the page, shown on the next full render
}

// New creates a server for app. backend handles login and the export.
func New(app *ui.App, backend Backend) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"badge": ui.CommentBadge,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		app:       app,
		backend:   backend,
		templates: tmpl,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))

		// Pages.
		r.Get("/", s.handleHome)
		r.Get("/fragments/{region}", s.handleFragment)
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Get("/export/fundgrube.opml", s.handleExportOPML)

		// Actions.
		r.Post("/tabs/{view}", s.handleSelectTab)
		r.Post("/posts/like", s.handleLike)
		r.Post("/comments/open", s.handleOpenComments)
		r.Post("/comments", s.handleSubmitComment)
		r.Post("/comments/close", s.handleCloseComments)
		r.Post("/fundgrube/open", s.handleOpenQuickAdd)
		r.Post("/fundgrube/close", s.handleCloseQuickAdd)
		r.Post("/fundgrube", s.handleSubmitFind)
		r.Post("/chat", s.handleSendChat)
		r.Post("/images/open", s.handleOpenImage)
		r.Post("/images/close", s.handleCloseImage)
		r.Post("/reload", s.handleReload)
	})

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.srv = &http.Server{Addr: addr, Handler: s.router}
	srv := s.srv
	s.mu.Unlock()

	log.Printf("Server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// --- Page Handlers ---

type pageData struct {
	ui.State
	LoginError string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if to := s.keepFlash(); to != "" {
		http.Redirect(w, r, to, http.StatusSeeOther)
		return
	}
	st := s.app.Page().Snapshot()
	st.Alerts = s.takeAlerts()
	s.render(w, "layout.html", pageData{State: st})
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	region := ui.Region(chi.URLParam(r, "region"))
	if !knownRegion(region) {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := s.renderRegion(&buf, region, s.app.Page().Snapshot()); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.keepFlash()
	s.render(w, "login.html", pageData{State: ui.State{Alerts: s.takeAlerts()}})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))

	err := s.backend.Login(r.Context(), username, password)
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		s.render(w, "login.html", pageData{LoginError: "Ungültige Zugangsdaten."})
		return
	case err != nil:
		log.Printf("Login error: %v", err)
		s.renderStatus(w, http.StatusBadGateway, "login.html", pageData{LoginError: "Anmeldung derzeit nicht möglich."})
		return
	}

	s.app.Init(r.Context(), s.app.CurrentView())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExportOPML(w http.ResponseWriter, r *http.Request) {
	lists, err := s.backend.Lists(r.Context())
	if err != nil {
		log.Printf("Export error: %v", err)
		http.Error(w, "Failed to get Fundgrube", http.StatusBadGateway)
		return
	}

	data, err := opml.ExportFinds("Fundgrube", lists.Fundgrube)
	if err != nil {
		http.Error(w, "Failed to export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", "attachment; filename=fundgrube.opml")
	w.Write(data)
}

// --- Action Handlers ---

func (s *Server) handleSelectTab(w http.ResponseWriter, r *http.Request) {
	s.app.SelectTab(r.Context(), chi.URLParam(r, "view"))
	s.finish(w, r)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	if id := r.FormValue("post_id"); id != "" {
		s.app.LikePost(r.Context(), id)
	}
	s.finish(w, r)
}

func (s *Server) handleOpenComments(w http.ResponseWriter, r *http.Request) {
	s.app.OpenComments(r.Context(), r.FormValue("post_id"), r.FormValue("title"))
	s.finish(w, r)
}

func (s *Server) handleSubmitComment(w http.ResponseWriter, r *http.Request) {
	s.app.SetCommentDraft(r.FormValue("text"))
	s.app.SubmitComment(r.Context())
	s.finish(w, r)
}

func (s *Server) handleCloseComments(w http.ResponseWriter, r *http.Request) {
	s.app.CloseComments()
	s.finish(w, r)
}

func (s *Server) handleOpenQuickAdd(w http.ResponseWriter, r *http.Request) {
	s.app.OpenQuickAdd()
	s.finish(w, r)
}

func (s *Server) handleCloseQuickAdd(w http.ResponseWriter, r *http.Request) {
	s.app.CloseQuickAdd()
	s.finish(w, r)
}

func (s *Server) handleSubmitFind(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := api.FindForm{
		URL:   strings.TrimSpace(r.FormValue("url")),
		Title: strings.TrimSpace(r.FormValue("title")),
	}
	if file, hdr, err := r.FormFile("image"); err == nil {
		defer file.Close()
		form.ImageName = hdr.Filename
		form.Image = file
	}

	s.app.SubmitFind(r.Context(), form)
	s.finish(w, r)
}

func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	s.app.SetChatDraft(r.FormValue("text"))
	s.app.SendChat(r.Context())
	s.finish(w, r)
}

func (s *Server) handleOpenImage(w http.ResponseWriter, r *http.Request) {
	s.app.OpenImage(r.FormValue("src"))
	s.finish(w, r)
}

func (s *Server) handleCloseImage(w http.ResponseWriter, r *http.Request) {
	s.app.CloseImage()
	s.finish(w, r)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.app.ReloadAll(r.Context())
	s.finish(w, r)
}

// --- Helpers ---

// finish ends an action with a redirect: to the page the engine asked for,
// or back to the page.
func (s *Server) finish(w http.ResponseWriter, r *http.Request) {
	to := s.keepFlash()
	if to == "" {
		to = "/"
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// keepFlash drains the page's alerts into the server and returns the
// pending redirect, if any.
func (s *Server) keepFlash() string {
	alerts, to := s.app.Page().TakeFlash()
	if len(alerts) > 0 {
		s.mu.Lock()
		s.alerts = append(s.alerts, alerts...)
		s.mu.Unlock()
	}
	return to
}

func (s *Server) takeAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.alerts
	s.alerts = nil
	return a
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	s.renderStatus(w, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, code int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func (s *Server) renderRegion(buf *bytes.Buffer, region ui.Region, st ui.State) error {
	return s.templates.ExecuteTemplate(buf, string(region), pageData{State: st})
}

func knownRegion(r ui.Region) bool {
	for _, known := range ui.Regions {
		if r == known {
			return true
		}
	}
	return false
}
