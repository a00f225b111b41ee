// Package client is a Go client for the PostFeed API. It carries the
// session cookie across requests, optionally persists it to disk, and
// maps API error envelopes to friendly messages.
package client

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
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// User is the account shape returned by the API.
type User struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	ProfilePic string    `json:"profilePic,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Post is a feed item with its owner byline.
type Post struct {
	ID        uint      `json:"id"`
	Image     string    `json:"image,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	IsSecret  bool      `json:"isSecret"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Track is a catalog entry with its uploader byline.
type Track struct {
	ID        uint      `json:"id"`
	URI       string    `json:"uri"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Artist    User      `json:"artist"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadAuth carries the short-lived credentials for a direct upload to
// the media provider.
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// FriendlyMessage turns any client error into a message suitable for
// direct display.
func FriendlyMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return "Please log in to continue."
		case http.StatusConflict:
			// Conflict bodies already carry field-specific copy.
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "That username or email is already in use."
		case http.StatusRequestEntityTooLarge:
			return "That file is too large. The limit is 10MB."
		case http.StatusTooManyRequests:
			return "You're doing that too fast. Please wait a moment."
		default:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "Something went wrong. Please try again."
		}
	}
	if err != nil {
		return "Cannot reach the server. Check your connection and try again."
	}
	return ""
}

type persistedState struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Client talks to a PostFeed server. All methods are safe for
// concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	stateFile string

	mu          sync.RWMutex
	currentUser *User
	token       string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// installed if the given client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStateFile enables session persistence: the session token and user
// are written to path after login and loaded once at construction.
func WithStateFile(path string) Option {
	return func(c *Client) { c.stateFile = path }
}

// New creates a Client for the API at baseURL, e.g. "http://localhost:3001".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{baseURL: u}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}

	if c.stateFile != "" {
		c.hydrate()
	}
	return c, nil
}

// hydrate restores a persisted session, if any. Corrupt or missing
// state files are ignored; the client just starts logged out.
func (c *Client) hydrate() {
	data, err := os.ReadFile(c.stateFile)
	if err != nil {
		return
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil || state.Token == "" {
		return
	}
	c.token = state.Token
	c.currentUser = state.User
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  "token",
		Value: state.Token,
		Path:  "/",
	}})
}

func (c *Client) persist() {
	if c.stateFile == "" {
		return
	}
	c.mu.RLock()
	state := persistedState{Token: c.token, User: c.currentUser}
	c.mu.RUnlock()
	if data, err := json.Marshal(state); err == nil {
		_ = os.WriteFile(c.stateFile, data, 0600)
	}
}

// CurrentUser returns the logged-in user, or nil.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentUser
}

func (c *Client) setSession(user *User, token string) {
	c.mu.Lock()
	c.currentUser = user
	c.token = token
	c.mu.Unlock()
	c.persist()
}

// do performs a request and decodes the success envelope into out.
// path may carry a query string. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid request path: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Error
			apiErr.Code = envelope.Code
		}
		return apiErr
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// Register creates an account and establishes a session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("username", username)
	_ = w.WriteField("email", email)
	_ = w.WriteField("password", password)
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", &buf, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	c.setSession(resp.User, resp.Token)
	return resp.User, nil
}

// Login authenticates with an email or username plus password and
// establishes a session.
func (c *Client) Login(ctx context.Context, identifier, password string) (*User, error) {
	payload := map[string]string{"password": password}
	if strings.Contains(identifier, "@") {
		payload["email"] = identifier
	} else {
		payload["username"] = identifier
	}
	body, _ := json.Marshal(payload)

	var resp struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}
	c.setSession(resp.User, resp.Token)
	return resp.User, nil
}

// Logout ends the session on both sides. The local session is dropped
// even if the server is unreachable.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, "", nil)
	c.setSession(nil, "")
	if c.stateFile != "" {
		_ = os.Remove(c.stateFile)
	}
	return err
}

// Feed fetches a page of the public feed.
func (c *Client) Feed(ctx context.Context, page, limit int) ([]Post, error) {
	var resp struct {
		Posts []Post `json:"posts"`
	}
	path := fmt.Sprintf("/api/posts/feed?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// CreatePost publishes a post with an optional image.
func (c *Client) CreatePost(ctx context.Context, caption string, image []byte, imageName string, isSecret bool) (*Post, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("caption", caption)
	_ = w.WriteField("isSecret", strconv.FormatBool(isSecret))
	if len(image) > 0 {
		part, err := w.CreateFormFile("image", imageName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(image); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp struct {
		Post *Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts/create", &buf, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return resp.Post, nil
}

// DeletePost removes one of the current user's posts.
func (c *Client) DeletePost(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil, "", nil)
}

// Music fetches a page of the public track catalog.
func (c *Client) Music(ctx context.Context, page, limit int) ([]Track, error) {
	var resp struct {
		Musics []Track `json:"musics"`
	}
	path := fmt.Sprintf("/api/music?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Musics, nil
}

// MusicUploadAuth fetches direct-upload credentials for the media
// provider.
func (c *Client) MusicUploadAuth(ctx context.Context) (*UploadAuth, error) {
	var resp UploadAuth
	if err := c.do(ctx, http.MethodGet, "/api/music/imagekit-auth", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateMusicInput describes a track already uploaded to the provider.
type CreateMusicInput struct {
	Title           string `json:"title"`
	AudioURL        string `json:"audioUrl"`
	AudioFileID     string `json:"audioFileId"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	ThumbnailFileID string `json:"thumbnailFileId,omitempty"`
}

// CreateMusic registers an uploaded track in the catalog.
func (c *Client) CreateMusic(ctx context.Context, in CreateMusicInput) (*Track, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Music *Track `json:"music"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/music", bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}
	return resp.Music, nil
}

// DeleteMusic removes one of the current user's tracks.
func (c *Client) DeleteMusic(ctx context.Context, trackID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/music/%d", trackID), nil, "", nil)
}

// Profile fetches the authenticated user's full profile and refreshes
// the cached current user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, "", &resp); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.currentUser = resp.User
	c.mu.Unlock()
	c.persist()
	return resp.User, nil
}

// DeleteAccount removes the authenticated user's account and drops the
// local session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/users/profile", nil, "", nil); err != nil {
		return err
	}
	c.setSession(nil, "")
	if c.stateFile != "" {
		_ = os.Remove(c.stateFile)
	}
	return nil
}
