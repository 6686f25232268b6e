package views

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/common"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

// Library is what the home screen needs from the service.
type Library interface {
	Borrower
	Recommendations(ctx context.Context, limit int) ([]models.Recommendation, error)
	LibraryAnalytics(ctx context.Context) (models.LibraryAnalytics, error)
	ReadingStats(ctx context.Context) (models.ReadingStats, error)
	ProfileStats(ctx context.Context) (models.ProfileStats, error)
	MyBorrowings(ctx context.Context) ([]models.Borrowing, error)
	Return(ctx context.Context, borrowingID models.ID) (models.Borrowing, error)
	StartReading(ctx context.Context, bookID models.ID) (models.ReadingSession, error)
	EndReading(ctx context.Context, sessionID models.ID, pagesRead int) (models.ReadingSession, error)
}

// HomeState is a copy of what the home screen shows.
type HomeState struct {
	User            *models.User
	Recommendations []models.Recommendation
	Analytics       *models.LibraryAnalytics
	ReadingStats    *models.ReadingStats
	ProfileStats    models.ProfileStats
	Borrowings      []models.Borrowing
	Reading         *models.ReadingSession
}

// Home is the landing screen for signed-in users.
type Home struct {
	lib      Library
	notifier Notifier
	logger   logging.Logger
	limit    int

	mu    sync.Mutex
	state HomeState
}

// NewHome builds the controller. limit bounds the recommendation list.
func NewHome(lib Library, notifier Notifier, logger logging.Logger, limit int) *Home {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Home{lib: lib, notifier: notifier, logger: logger.With("view", "home"), limit: limit}
}

func (h *Home) State() HomeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.state
	st.Recommendations = append([]models.Recommendation(nil), h.state.Recommendations...)
	st.Borrowings = append([]models.Borrowing(nil), h.state.Borrowings...)
	return st
}

// Activate is called on entry into the authenticated state. Whatever the
// screen held before is dropped, then Refresh loads it for user.
func (h *Home) Activate(ctx context.Context, user *models.User) {
	h.mu.Lock()
	h.state = HomeState{User: user}
	h.mu.Unlock()

	h.Refresh(ctx)
}

// Refresh fetches the recommendations, the library analytics, the reading
// stats and the caller's borrowings concurrently and returns when all have
// settled. A failed fetch leaves its part of the screen as it was.
func (h *Home) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	for _, fetch := range []func(context.Context){
		h.fetchRecommendations,
		h.fetchAnalytics,
		h.fetchReadingStats,
		h.fetchBorrowings,
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetch(ctx)
		}()
	}
	wg.Wait()
}

func (h *Home) backgroundFailure(ctx context.Context, what string, err error) {
	logging.LogErrorAt(ctx, h.logger.Warn, "fetch "+what, err)
}

func (h *Home) fetchRecommendations(ctx context.Context) {
	recs, err := h.lib.Recommendations(ctx, h.limit)
	if err != nil {
		h.backgroundFailure(ctx, "recommendations", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !stale(ctx) {
		h.state.Recommendations = recs
	}
}

func (h *Home) fetchAnalytics(ctx context.Context) {
	a, err := h.lib.LibraryAnalytics(ctx)
	if err != nil {
		h.backgroundFailure(ctx, "library analytics", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !stale(ctx) {
		h.state.Analytics = &a
	}
}

func (h *Home) fetchReadingStats(ctx context.Context) {
	s, err := h.lib.ReadingStats(ctx)
	if err != nil {
		h.backgroundFailure(ctx, "reading stats", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !stale(ctx) {
		h.state.ReadingStats = &s
	}
}

func (h *Home) fetchBorrowings(ctx context.Context) {
	b, err := h.lib.MyBorrowings(ctx)
	if err != nil {
		h.backgroundFailure(ctx, "borrowings", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !stale(ctx) {
		h.state.Borrowings = b
	}
}

// RefreshBorrowings re-reads the caller's borrowings.
func (h *Home) RefreshBorrowings(ctx context.Context) {
	h.fetchBorrowings(ctx)
}

// LoadProfileStats fetches the free-form profile statistics.
func (h *Home) LoadProfileStats(ctx context.Context) {
	s, err := h.lib.ProfileStats(ctx)
	if err != nil {
		h.backgroundFailure(ctx, "profile stats", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !stale(ctx) {
		h.state.ProfileStats = s
	}
}

// Borrow borrows a recommended book and re-fetches the recommendations so
// that availability reflects the server's count.
func (h *Home) Borrow(ctx context.Context, bookID models.ID, force bool) error {
	h.mu.Lock()
	var book *models.Book
	for _, r := range h.state.Recommendations {
		if r.Book.ID == bookID {
			b := r.Book
			book = &b
			break
		}
	}
	h.mu.Unlock()

	if err := borrow(ctx, h.lib, h.notifier, bookID, book, force); err != nil {
		return err
	}
	h.fetchRecommendations(ctx)
	h.fetchBorrowings(ctx)
	return nil
}

// Return hands a borrowed book back.
func (h *Home) Return(ctx context.Context, borrowingID models.ID) error {
	if _, err := h.lib.Return(ctx, borrowingID); err != nil {
		h.notifier.Notify(ctx, "Error returning book: "+gateway.MessageOf(err))
		return err
	}
	h.notifier.Notify(ctx, "Book returned.")
	h.fetchBorrowings(ctx)
	h.fetchRecommendations(ctx)
	return nil
}

// StartReading opens a reading session for bookID.
func (h *Home) StartReading(ctx context.Context, bookID models.ID) error {
	rs, err := h.lib.StartReading(ctx, bookID)
	if err != nil {
		h.notifier.Notify(ctx, "Error starting reading session: "+gateway.MessageOf(err))
		return err
	}
	h.mu.Lock()
	h.state.Reading = &rs
	h.mu.Unlock()
	return nil
}

// EndReading closes the open reading session and refreshes the stats.
func (h *Home) EndReading(ctx context.Context, pagesRead int) error {
	h.mu.Lock()
	cur := h.state.Reading
	h.mu.Unlock()
	if cur == nil {
		return fmt.Errorf("end reading: %w", common.ErrorNotFound)
	}

	if _, err := h.lib.EndReading(ctx, cur.ID, pagesRead); err != nil {
		h.notifier.Notify(ctx, "Error ending reading session: "+gateway.MessageOf(err))
		return err
	}
	h.mu.Lock()
	if h.state.Reading == cur {
		h.state.Reading = nil
	}
	h.mu.Unlock()
	h.fetchReadingStats(ctx)
	return nil
}

func (h *Home) Render(w io.Writer) {
	st := h.State()

	name := "reader"
	if st.User != nil {
		name = st.User.DisplayName()
	}
	fmt.Fprintf(w, "== Welcome to biblio, %s! ==\n", name)

	if a := st.Analytics; a != nil {
		fmt.Fprintf(w, "Library: %d books, %d readers, %d active borrowings\n", a.TotalBooks, a.TotalUsers, a.ActiveBorrowings)
	}
	if s := st.ReadingStats; s != nil {
		fmt.Fprintf(w, "You: %d books read, %d pages, streak %d (best %d)", s.TotalBooksRead, s.TotalPagesRead, s.CurrentStreak, s.LongestStreak)
		if s.FavoriteGenre != "" {
			fmt.Fprintf(w, ", favourite genre %s", s.FavoriteGenre)
		}
		fmt.Fprintln(w)
	}
	if st.Reading != nil {
		fmt.Fprintf(w, "Reading: book %s (session %s)\n", st.Reading.BookID, st.Reading.ID)
	}

	fmt.Fprintln(w, "\nRecommended for you:")
	if len(st.Recommendations) == 0 {
		fmt.Fprintln(w, "  (nothing yet)")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, r := range st.Recommendations {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.Book.ID, r.Book.Title, r.Book.Author, availability(r.Book))
			if r.Reason != "" {
				fmt.Fprintf(tw, "  \t  %s\t\t\n", r.Reason)
			}
		}
		_ = tw.Flush()
	}

	if len(st.Borrowings) > 0 {
		fmt.Fprintln(w, "\nYour borrowings:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, b := range st.Borrowings {
			title := string(b.BookID)
			if b.Book != nil {
				title = b.Book.Title
			}
			due := "-"
			if b.DueDate != nil {
				due = b.DueDate.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\tdue %s\n", b.ID, title, b.Status, due)
		}
		_ = tw.Flush()
	}

	if len(st.ProfileStats) > 0 {
		fmt.Fprintln(w, "\nProfile stats:")
		keys := make([]string, 0, len(st.ProfileStats))
		for k := range st.ProfileStats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, st.ProfileStats[k])
		}
	}
}

func availability(b models.Book) string {
	if !b.Available() {
		return "unavailable"
	}
	return fmt.Sprintf("%d available", b.AvailableCopies)
}
