package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/client/models"
)

// Client is the typed facade over the library service.
type Client struct {
	doer gateway.Doer
}

// NewClient binds a Client to the given dispatcher.
func NewClient(doer gateway.Doer) *Client {
	return &Client{doer: doer}
}

func idPath(prefix string, id models.ID) string {
	return prefix + url.PathEscape(id.String())
}

// ---- auth ----

// Login exchanges an email and password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	return gateway.Call[models.AuthResponse](ctx, c.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   models.LoginRequest{Username: email, Password: password},
	})
}

// Register provisions an account and returns its first credential.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return gateway.Call[models.AuthResponse](ctx, c.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   req,
	})
}

// Me resolves the profile behind the current credential.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	return gateway.Call[models.User](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   "/auth/me",
	})
}

// ---- catalog ----

// ListBooks returns up to limit books; limit <= 0 leaves paging to the server.
func (c *Client) ListBooks(ctx context.Context, limit int) ([]models.Book, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	return gateway.Call[[]models.Book](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/books",
		Query:  q,
	})
}

func (c *Client) GetBook(ctx context.Context, id models.ID) (models.Book, error) {
	return gateway.Call[models.Book](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   idPath("/api/books/", id),
		Route:  "/api/books/{id}",
	})
}

// Search runs a keyword search.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	return c.search(ctx, "/api/search", query)
}

// SemanticSearch runs an embedding-based search.
func (c *Client) SemanticSearch(ctx context.Context, query string) ([]models.SearchResult, error) {
	return c.search(ctx, "/api/search/semantic", query)
}

func (c *Client) search(ctx context.Context, path, query string) ([]models.SearchResult, error) {
	return gateway.Call[[]models.SearchResult](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  url.Values{"q": {query}},
	})
}

// ---- borrowing ----

// Borrow requests a copy of the book. Availability is decided by the server.
func (c *Client) Borrow(ctx context.Context, bookID models.ID) (models.Borrowing, error) {
	return gateway.Call[models.Borrowing](ctx, c.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/api/borrow",
		Body:   models.BorrowRequest{BookID: bookID},
	})
}

func (c *Client) Return(ctx context.Context, borrowingID models.ID) (models.Borrowing, error) {
	return gateway.Call[models.Borrowing](ctx, c.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   idPath("/api/return/", borrowingID),
		Route:  "/api/return/{id}",
	})
}

func (c *Client) MyBorrowings(ctx context.Context) ([]models.Borrowing, error) {
	return gateway.Call[[]models.Borrowing](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/my-borrowings",
	})
}

// ---- reading ----

func (c *Client) StartReading(ctx context.Context, bookID models.ID) (models.ReadingSession, error) {
	return gateway.Call[models.ReadingSession](ctx, c.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   "/api/reading/start",
		Body:   models.StartReadingRequest{BookID: bookID},
	})
}

// EndReading closes a reading session; pagesRead travels as a query parameter.
func (c *Client) EndReading(ctx context.Context, sessionID models.ID, pagesRead int) (models.ReadingSession, error) {
	return gateway.Call[models.ReadingSession](ctx, c.doer, gateway.Request{
		Method: http.MethodPost,
		Path:   idPath("/api/reading/end/", sessionID),
		Route:  "/api/reading/end/{id}",
		Query:  url.Values{"pages_read": {strconv.Itoa(pagesRead)}},
	})
}

func (c *Client) ReadingStats(ctx context.Context) (models.ReadingStats, error) {
	return gateway.Call[models.ReadingStats](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/reading/stats",
	})
}

// ---- insights ----

func (c *Client) Recommendations(ctx context.Context, limit int) ([]models.Recommendation, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	return gateway.Call[[]models.Recommendation](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/recommendations",
		Query:  q,
	})
}

func (c *Client) ProfileStats(ctx context.Context) (models.ProfileStats, error) {
	return gateway.Call[models.ProfileStats](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/profile/stats",
	})
}

func (c *Client) LibraryAnalytics(ctx context.Context) (models.LibraryAnalytics, error) {
	return gateway.Call[models.LibraryAnalytics](ctx, c.doer, gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/analytics/library",
	})
}

// ---- passthrough ----

// Get issues an arbitrary GET and returns the raw payload.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.doer.Do(ctx, gateway.Request{Method: http.MethodGet, Path: path, Route: "raw", Query: query})
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.doer.Do(ctx, gateway.Request{Method: http.MethodPost, Path: path, Route: "raw", Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.doer.Do(ctx, gateway.Request{Method: http.MethodPut, Path: path, Route: "raw", Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.doer.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: path, Route: "raw"})
}
