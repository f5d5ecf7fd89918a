// Package client talks to the admin API on behalf of the back-office. It keeps
// the signed-in session and tells listeners when that session ends.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

const (
	CollectionTourism  = "tourism"
	CollectionUmkm     = "umkm"
	CollectionArticles = "articles"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNoSession    = errors.New("not signed in")
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

type Options struct {
	BaseURL string
	// Token resumes a session saved by an earlier login. It is checked by
	// GetSession before it is trusted.
	Token      string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *log.Logger
}

type Client struct {
	rest   *resty.Client
	logger *log.Logger
	now    func() time.Time

	mu        sync.Mutex
	token     string
	session   *domain.AuthSession
	expiry    *time.Timer
	listeners map[int]func(domain.AuthEvent, *domain.AuthSession)
	nextID    int
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("api url required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", raw)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	var rest *resty.Client
	if opts.HTTPClient != nil {
		rest = resty.NewWithClient(opts.HTTPClient)
	} else {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		rest = resty.New().SetTimeout(timeout)
	}
	rest.SetBaseURL(base.String()).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger})
	return &Client{
		rest:      rest,
		logger:    logger,
		now:       time.Now,
		token:     strings.TrimSpace(opts.Token),
		listeners: make(map[int]func(domain.AuthEvent, *domain.AuthSession)),
	}, nil
}

// Token is the bearer token currently attached to requests.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// OnAuthStateChange registers fn for session events. The returned function
// removes it; calling it more than once is harmless.
func (c *Client) OnAuthStateChange(fn func(domain.AuthEvent, *domain.AuthSession)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// GetSession confirms the stored token with the API. It returns nil without
// an error when there is no usable session.
func (c *Client) GetSession(ctx context.Context) (*domain.AuthSession, error) {
	c.mu.Lock()
	token := c.token
	session := c.session
	c.mu.Unlock()
	if token == "" {
		return nil, nil
	}
	if session != nil && !session.Expired(c.now()) {
		return session, nil
	}

	var resp domain.AuthSession
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, nil, &resp)
	if errors.Is(err, ErrUnauthorized) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		resp.Token = token
	}
	c.setSession(&resp, false)
	return &resp, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]string{"email": email, "password": password}
	var resp domain.AuthSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	c.setSession(&resp, true)
	return &resp, nil
}

// SignOut ends the session on the API and locally. The local session is
// cleared even when the API call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil)
	c.clearSession(domain.AuthEventSignedOut)
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// Select loads rows of collection matching q into out, which must be a
// pointer to a slice.
func (c *Client) Select(ctx context.Context, collection string, q domain.ListQuery, out any) error {
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, collectionPath(collection), listValues(q), nil, &resp); err != nil {
		return err
	}
	return decodeData(resp.Data, out)
}

func (c *Client) Get(ctx context.Context, collection string, id uuid.UUID, out any) error {
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, collectionPath(collection)+"/"+id.String(), nil, nil, &resp); err != nil {
		return err
	}
	return decodeData(resp.Data, out)
}

func (c *Client) Insert(ctx context.Context, collection string, record any, out any) error {
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, collectionPath(collection), nil, record, &resp); err != nil {
		return err
	}
	return decodeData(resp.Data, out)
}

// Update sends patch as a partial update of the row with id.
func (c *Client) Update(ctx context.Context, collection string, id uuid.UUID, patch any, out any) error {
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, collectionPath(collection)+"/"+id.String(), nil, patch, &resp); err != nil {
		return err
	}
	return decodeData(resp.Data, out)
}

func (c *Client) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, collectionPath(collection)+"/"+id.String(), nil, nil, nil)
}

func (c *Client) Count(ctx context.Context, collection string, q domain.ListQuery) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, collectionPath(collection)+"/count", listValues(q), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var resp struct {
		Stats domain.DashboardStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/dashboard", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// Visitors fetches the public traffic report. rangeKey is 24h, 7d, 30d or
// all.
func (c *Client) Visitors(ctx context.Context, rangeKey domain.VisitorRange) (*domain.VisitorStats, error) {
	values := url.Values{}
	if rangeKey != "" {
		values.Set("range", string(rangeKey))
	}
	var resp struct {
		Visitors domain.VisitorStats `json:"visitors"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/dashboard/visitors", values, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Visitors, nil
}

func (c *Client) Categories(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error) {
	values := url.Values{}
	if categoryType != "" {
		values.Set("type", string(categoryType))
	}
	var resp struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", values, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var failure struct {
		Error string `json:"error"`
	}
	req := c.rest.R().SetContext(ctx).SetError(&failure)
	token := c.Token()
	if token != "" {
		req.SetAuthToken(token)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized && token != "" {
		c.clearSession(domain.AuthEventSignedOut)
	}
	if !resp.IsSuccess() {
		return &APIError{StatusCode: resp.StatusCode(), Message: failure.Error}
	}
	return nil
}

func (c *Client) setSession(session *domain.AuthSession, signedIn bool) {
	c.mu.Lock()
	c.token = session.Token
	c.session = session
	c.armExpiryLocked(session)
	c.mu.Unlock()
	if signedIn {
		c.emit(domain.AuthEventSignedIn, session)
	}
}

func (c *Client) armExpiryLocked(session *domain.AuthSession) {
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
	if session.ExpiresAt.IsZero() {
		return
	}
	token := session.Token
	wait := session.ExpiresAt.Sub(c.now())
	if wait < 0 {
		wait = 0
	}
	c.expiry = time.AfterFunc(wait, func() {
		c.mu.Lock()
		current := c.token
		c.mu.Unlock()
		if current == token {
			c.clearSession(domain.AuthEventTokenExpired)
		}
	})
}

func (c *Client) clearSession(event domain.AuthEvent) {
	c.mu.Lock()
	if c.token == "" && c.session == nil {
		c.mu.Unlock()
		return
	}
	c.token = ""
	c.session = nil
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
	c.mu.Unlock()
	c.logger.Printf("client: session ended (%s)", event)
	c.emit(event, nil)
}

func (c *Client) emit(event domain.AuthEvent, session *domain.AuthSession) {
	c.mu.Lock()
	fns := make([]func(domain.AuthEvent, *domain.AuthSession), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(event, session)
	}
}

func collectionPath(collection string) string {
	return "/api/v1/admin/" + url.PathEscape(collection)
}

func listValues(q domain.ListQuery) url.Values {
	values := url.Values{}
	for column, value := range q.Equals {
		values.Set(column, value)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("query", search)
	}
	if q.OrderBy != "" {
		values.Set("order", domain.FormatOrder(q.OrderBy, q.Descending))
	}
	return values
}

func decodeData(raw json.RawMessage, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// restyLogger routes resty's own messages to the client logger.
type restyLogger struct{ l *log.Logger }

func (r restyLogger) Errorf(format string, v ...any) { r.l.Printf("client: error: "+format, v...) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Printf("client: warn: "+format, v...) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Printf("client: debug: "+format, v...) }
