// Package apitest provides an in-memory content API for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/go-chi/chi/v5"
)

const sessionCookie = "session"

// Upload records the last accepted quick-add submission.
type Upload struct {
	URL       string
	Title     string
	ImageName string
	Image     []byte
}

// Server is a fake content API backed by in-memory slices. Routes are
// keyed as "METHOD /pattern", e.g. "POST /api/posts/{id}/like".
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	posts    []model.Post
	comments []model.Comment
	finds    []model.FindItem
	chat     []model.ChatMessage
	failures map[string]int
	hits     map[string]int
	users    map[string]string
	sessions map[string]string
	upload   Upload

	requireLogin bool
	onRequest    func(route string, r *http.Request)

	// Now is the clock used for created_at of new records.
	Now func() time.Time
}

// New starts a fake API. Close it with Server.Close.
func New() *Server {
	s := &Server{
		failures: make(map[string]int),
		hits:     make(map[string]int),
		users:    make(map[string]string),
		sessions: make(map[string]string),
		Now:      time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/login", s.handleLogin)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.intercept)
		r.Get("/status", s.handleStatus)
		r.Get("/posts", s.handlePosts)
		r.Post("/posts/{id}/like", s.handleLike)
		r.Get("/comments", s.handleComments)
		r.Post("/comments", s.handleAddComment)
		r.Get("/lists", s.handleLists)
		r.Post("/fundgrube/add", s.handleAddFind)
		r.Post("/reload", s.handleReload)
		r.Get("/chat", s.handleChat)
		r.Post("/chat", s.handleSendChat)
	})
	return r
}

// --- Fixtures & inspection ---

// SetPosts replaces the post collection.
func (s *Server) SetPosts(posts ...model.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]model.Post(nil), posts...)
}

// SetComments replaces all comments.
func (s *Server) SetComments(comments ...model.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append([]model.Comment(nil), comments...)
}

// SetFinds replaces the Fundgrube list.
func (s *Server) SetFinds(items ...model.FindItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds = append([]model.FindItem(nil), items...)
}

// SetChat replaces the chat stream.
func (s *Server) SetChat(msgs ...model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append([]model.ChatMessage(nil), msgs...)
}

// AddUser registers login credentials.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// RequireLogin makes every /api route answer 401 without a session.
func (s *Server) RequireLogin(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireLogin = on
}

// OnRequest installs a hook that runs before a route is handled. Tests use
// it to hold specific requests.
func (s *Server) OnRequest(fn func(route string, r *http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRequest = fn
}

// Fail makes route answer with code until cleared with Fail(route, 0).
func (s *Server) Fail(route string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = code
}

// Hits returns how many requests reached route.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Post returns the stored post with id.
func (s *Server) Post(id string) (model.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if string(p.ID) == id {
			return p, true
		}
	}
	return model.Post{}, false
}

// Chat returns a copy of the chat stream.
func (s *Server) Chat() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.chat...)
}

// LastUpload returns the last accepted quick-add submission.
func (s *Server) LastUpload() Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload
}

// --- Middleware ---

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + routePattern(r.URL.Path)

		s.mu.Lock()
		s.hits[route]++
		code := s.failures[route]
		requireLogin := s.requireLogin
		hook := s.onRequest
		s.mu.Unlock()

		if hook != nil {
			hook(route, r)
		}
		if requireLogin && s.user(r) == "" {
			code = http.StatusUnauthorized
		}
		if code != 0 {
			writeJSON(w, code, map[string]any{"ok": false, "error": http.StatusText(code)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// routePattern maps a concrete path to its route key.
func routePattern(path string) string {
	if strings.HasPrefix(path, "/api/posts/") && strings.HasSuffix(path, "/like") {
		return "/api/posts/{id}/like"
	}
	return path
}

func (s *Server) user(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[c.Value]
}

func (s *Server) author(r *http.Request) string {
	if u := s.user(r); u != "" {
		return u
	}
	return "tester"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// --- Handlers ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := strings.TrimSpace(r.FormValue("password"))

	s.mu.Lock()
	want, ok := s.users[username]
	if !ok || want != password {
		s.mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<form>login</form>")
		return
	}
	token := "sess-" + username
	s.sessions[token] = username
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/"})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := model.Status{PostsCount: len(s.posts), FundgrubeCount: len(s.finds)}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	counts := make(map[model.ID]int)
	for _, c := range s.comments {
		counts[c.PostID]++
	}
	out := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if category != "" && p.AutoCategory != category {
			continue
		}
		p.CommentCount = counts[p.ID]
		out = append(out, p)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].AutoScore > out[j].AutoScore })
	if len(out) > 50 {
		out = out[:50]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad id"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if string(s.posts[i].ID) == id {
			s.posts[i].Likes++
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "post": s.posts[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "post not found"})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	postID := model.ID(r.URL.Query().Get("post_id"))
	s.mu.Lock()
	out := []model.Comment{}
	for _, c := range s.comments {
		if postID != "" && c.PostID == postID {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID string `json:"post_id"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false})
		return
	}
	req.PostID = strings.TrimSpace(req.PostID)
	req.Text = strings.TrimSpace(req.Text)
	if req.PostID == "" || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "post_id and text required"})
		return
	}
	author := s.author(r)
	s.mu.Lock()
	s.comments = append(s.comments, model.Comment{
		PostID:    model.ID(req.PostID),
		Author:    author,
		Text:      req.Text,
		CreatedAt: s.Now().Unix(),
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	l := model.Lists{Fundgrube: append([]model.FindItem{}, s.finds...)}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleAddFind(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad form"})
		return
	}
	up := Upload{
		URL:   strings.TrimSpace(r.FormValue("url")),
		Title: strings.TrimSpace(r.FormValue("title")),
	}
	if up.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "url required"})
		return
	}
	if f, hdr, err := r.FormFile("image"); err == nil {
		up.ImageName = hdr.Filename
		up.Image, _ = io.ReadAll(f)
		f.Close()
	}
	title := up.Title
	if title == "" {
		title = up.URL
	}
	item := model.FindItem{
		URL:       up.URL,
		Title:     title,
		Author:    s.author(r),
		CreatedAt: s.Now().Unix(),
	}
	if up.ImageName != "" {
		item.Image = "/static/uploads/" + up.ImageName
	}

	s.mu.Lock()
	item.ID = model.ID("user_" + strconv.Itoa(len(s.finds)+1))
	s.finds = append(s.finds, item)
	s.upload = up
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	msgs := append([]model.ChatMessage{}, s.chat...)
	s.mu.Unlock()
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt < msgs[j].CreatedAt })
	if len(msgs) > 50 {
		msgs = msgs[len(msgs)-50:]
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "text required"})
		return
	}
	author := s.author(r)
	s.mu.Lock()
	s.chat = append(s.chat, model.ChatMessage{
		Author:    author,
		Text:      strings.TrimSpace(req.Text),
		CreatedAt: s.Now().Unix(),
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
