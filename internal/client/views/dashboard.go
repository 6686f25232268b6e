package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

// Catalog is what the dashboard needs from the service.
type Catalog interface {
	Borrower
	ListBooks(ctx context.Context, limit int) ([]models.Book, error)
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	SemanticSearch(ctx context.Context, query string) ([]models.SearchResult, error)
}

// DashboardState is a copy of what the dashboard shows.
type DashboardState struct {
	User     *models.User
	Books    []models.Book
	Query    string
	Semantic bool
	Results  []models.SearchResult
	Loading  bool
}

// Displayed returns the search hits when there are any, else the listing.
func (s DashboardState) Displayed() []models.Book {
	if len(s.Results) == 0 {
		return s.Books
	}
	out := make([]models.Book, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Book
	}
	return out
}

// Dashboard lists and searches the catalog.
type Dashboard struct {
	cat      Catalog
	notifier Notifier
	logger   logging.Logger
	pageSize int

	mu    sync.Mutex
	state DashboardState
}

func NewDashboard(cat Catalog, notifier Notifier, logger logging.Logger, pageSize int) *Dashboard {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Dashboard{cat: cat, notifier: notifier, logger: logger.With("view", "dashboard"), pageSize: pageSize}
}

func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state
	st.Books = append([]models.Book(nil), d.state.Books...)
	st.Results = append([]models.SearchResult(nil), d.state.Results...)
	return st
}

// Activate resets the screen for user and loads the first catalog page.
func (d *Dashboard) Activate(ctx context.Context, user *models.User) {
	d.mu.Lock()
	d.state = DashboardState{User: user, Loading: true}
	d.mu.Unlock()

	d.fetchBooks(ctx)
}

// Refresh reloads the catalog page and keeps the current search.
func (d *Dashboard) Refresh(ctx context.Context) {
	d.fetchBooks(ctx)
}

func (d *Dashboard) fetchBooks(ctx context.Context) {
	books, err := d.cat.ListBooks(ctx, d.pageSize)

	d.mu.Lock()
	defer d.mu.Unlock()
	if stale(ctx) {
		return
	}
	d.state.Loading = false
	if err != nil {
		logging.LogErrorAt(ctx, d.logger.Warn, "fetch books", err)
		return
	}
	d.state.Books = books
}

// Search runs a keyword or semantic search. A blank query clears the
// results. Failures are logged and leave the previous results in place.
func (d *Dashboard) Search(ctx context.Context, query string, semantic bool) error {
	query = strings.TrimSpace(query)
	if query == "" {
		d.mu.Lock()
		d.state.Query = ""
		d.state.Semantic = false
		d.state.Results = nil
		d.mu.Unlock()
		return nil
	}

	search := d.cat.Search
	if semantic {
		search = d.cat.SemanticSearch
	}
	results, err := search(ctx, query)
	if err != nil {
		logging.LogErrorAt(ctx, d.logger.Warn, "search books", err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if stale(ctx) {
		return ctx.Err()
	}
	d.state.Query = query
	d.state.Semantic = semantic
	d.state.Results = results
	return nil
}

// Borrow borrows a displayed book, then re-fetches the listing and the
// active search so the availability shown is the server's.
func (d *Dashboard) Borrow(ctx context.Context, bookID models.ID, force bool) error {
	st := d.State()
	book := findBook(st.Displayed(), bookID)

	if err := borrow(ctx, d.cat, d.notifier, bookID, book, force); err != nil {
		return err
	}

	d.fetchBooks(ctx)
	if st.Query != "" {
		_ = d.Search(ctx, st.Query, st.Semantic)
	}
	return nil
}

func (d *Dashboard) Render(w io.Writer) {
	st := d.State()

	name := ""
	if st.User != nil {
		name = st.User.DisplayName()
	}
	fmt.Fprintf(w, "== Welcome to biblio, %s! ==\n", name)
	if st.Loading {
		fmt.Fprintln(w, "Loading...")
		return
	}
	if st.Query != "" {
		kind := "keyword"
		if st.Semantic {
			kind = "semantic"
		}
		fmt.Fprintf(w, "Results for %q (%s search):\n", st.Query, kind)
	}

	books := st.Displayed()
	if len(books) == 0 {
		fmt.Fprintln(w, "  (no books)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range books {
		fmt.Fprintf(tw, "  %s\t%s\tby %s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Genre, availability(b))
	}
	_ = tw.Flush()
}
