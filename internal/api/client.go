// Package api is the client for the remote content API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/model"
	"golang.org/x/net/publicsuffix"
)

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 15 * time.Second

// ErrSessionExpired matches any StatusError carrying 401 Unauthorized.
var ErrSessionExpired = errors.New("session expired")

// ErrInvalidCredentials is returned by Login when the server rejects the
// username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// StatusError is returned for any non-success HTTP status.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Op, e.Code)
}

// Is lets errors.Is(err, ErrSessionExpired) match 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrSessionExpired && e.Code == http.StatusUnauthorized
}

// Client talks to the content API. The session cookie obtained by Login is
// kept in the client's cookie jar and sent with every request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for baseURL with its own cookie jar.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// FindForm is the quick-add payload for the Fundgrube list.
type FindForm struct {
	URL       string
	Title     string
	ImageName string
	Image     io.Reader // optional
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, bytes.NewReader(body), "application/json", nil)
}

// Status returns the aggregate counters.
func (c *Client) Status(ctx context.Context) (model.Status, error) {
	var s model.Status
	err := c.do(ctx, "status", http.MethodGet, "/api/status", nil, "", &s)
	return s, err
}

// Posts lists posts of a category, or all posts if category is empty.
func (c *Client) Posts(ctx context.Context, category string) ([]model.Post, error) {
	path := "/api/posts"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var posts []model.Post
	err := c.do(ctx, "list posts", http.MethodGet, path, nil, "", &posts)
	return posts, err
}

// Like endorses a post.
func (c *Client) Like(ctx context.Context, postID string) error {
	path := "/api/posts/" + url.PathEscape(postID) + "/like"
	return c.do(ctx, "like post", http.MethodPost, path, nil, "", nil)
}

// Comments lists the discussion of a post in server order.
func (c *Client) Comments(ctx context.Context, postID string) ([]model.Comment, error) {
	path := "/api/comments?" + url.Values{"post_id": {postID}}.Encode()
	var comments []model.Comment
	err := c.do(ctx, "list comments", http.MethodGet, path, nil, "", &comments)
	return comments, err
}

// AddComment appends a comment to a post's thread.
func (c *Client) AddComment(ctx context.Context, postID, text string) error {
	return c.postJSON(ctx, "add comment", "/api/comments", map[string]string{
		"post_id": postID,
		"text":    text,
	})
}

// Lists returns the list collection.
func (c *Client) Lists(ctx context.Context) (model.Lists, error) {
	var l model.Lists
	err := c.do(ctx, "lists", http.MethodGet, "/api/lists", nil, "", &l)
	return l, err
}

// AddFind submits a Fundgrube entry as a multipart form.
func (c *Client) AddFind(ctx context.Context, f FindForm) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("url", f.URL); err != nil {
		return fmt.Errorf("add find: %w", err)
	}
	if err := mw.WriteField("title", f.Title); err != nil {
		return fmt.Errorf("add find: %w", err)
	}
	if f.Image != nil {
		name := f.ImageName
		if name == "" {
			name = "image"
		}
		fw, err := mw.CreateFormFile("image", name)
		if err != nil {
			return fmt.Errorf("add find: %w", err)
		}
		if _, err := io.Copy(fw, f.Image); err != nil {
			return fmt.Errorf("add find: copy image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("add find: %w", err)
	}
	return c.do(ctx, "add find", http.MethodPost, "/api/fundgrube/add", &buf, mw.FormDataContentType(), nil)
}

// Reload asks the server to re-run ingestion.
func (c *Client) Reload(ctx context.Context) error {
	return c.do(ctx, "reload", http.MethodPost, "/api/reload", nil, "", nil)
}

// Chat returns the current chat stream.
func (c *Client) Chat(ctx context.Context) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := c.do(ctx, "get chat", http.MethodGet, "/api/chat", nil, "", &msgs)
	return msgs, err
}

// SendChat posts a chat message.
func (c *Client) SendChat(ctx context.Context, text string) error {
	return c.postJSON(ctx, "send chat", "/api/chat", map[string]string{"text": text})
}

// Login establishes a session. The server answers a successful login with
// a redirect; a rejected one re-renders the login page.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	noFollow := *c.HTTPClient
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := noFollow.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusOK:
		return ErrInvalidCredentials
	default:
		return &StatusError{Op: "login", Code: resp.StatusCode}
	}
}
