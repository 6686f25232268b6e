package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/biblio/internal/client/models"
)

// fakeService implements Library and Catalog with canned answers.
type fakeService struct {
	mu sync.Mutex

	Books     []models.Book
	Results   []models.SearchResult
	Recs      []models.Recommendation
	Analytics models.LibraryAnalytics
	Stats     models.ReadingStats
	Profile   models.ProfileStats
	Loans     []models.Borrowing
	Session   models.ReadingSession

	ListErr      error
	SearchErr    error
	RecsErr      error
	AnalyticsErr error
	StatsErr     error
	BorrowErr    error
	ReturnErr    error
	ReadingErr   error

	// ListGate, when set, blocks ListBooks until it is closed.
	ListGate chan struct{}

	Calls          map[string]int
	LastLimit      int
	LastQuery      string
	LastBorrowed   models.ID
	LastPagesRead  int
	LastEndSession models.ID
}

func newFakeService() *fakeService {
	return &fakeService{Calls: map[string]int{}}
}

func (f *fakeService) hit(name string) {
	f.mu.Lock()
	f.Calls[name]++
	f.mu.Unlock()
}

func (f *fakeService) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeService) ListBooks(ctx context.Context, limit int) ([]models.Book, error) {
	f.hit("ListBooks")
	if f.ListGate != nil {
		<-f.ListGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLimit = limit
	return append([]models.Book(nil), f.Books...), f.ListErr
}

func (f *fakeService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	f.hit("Search")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastQuery = query
	return f.Results, f.SearchErr
}

func (f *fakeService) SemanticSearch(ctx context.Context, query string) ([]models.SearchResult, error) {
	f.hit("SemanticSearch")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastQuery = query
	return f.Results, f.SearchErr
}

func (f *fakeService) Borrow(ctx context.Context, bookID models.ID) (models.Borrowing, error) {
	f.hit("Borrow")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastBorrowed = bookID
	return models.Borrowing{BookID: bookID}, f.BorrowErr
}

func (f *fakeService) Recommendations(ctx context.Context, limit int) ([]models.Recommendation, error) {
	f.hit("Recommendations")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLimit = limit
	return f.Recs, f.RecsErr
}

func (f *fakeService) LibraryAnalytics(ctx context.Context) (models.LibraryAnalytics, error) {
	f.hit("LibraryAnalytics")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Analytics, f.AnalyticsErr
}

func (f *fakeService) ReadingStats(ctx context.Context) (models.ReadingStats, error) {
	f.hit("ReadingStats")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Stats, f.StatsErr
}

func (f *fakeService) ProfileStats(ctx context.Context) (models.ProfileStats, error) {
	f.hit("ProfileStats")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Profile, nil
}

func (f *fakeService) MyBorrowings(ctx context.Context) ([]models.Borrowing, error) {
	f.hit("MyBorrowings")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Loans, nil
}

func (f *fakeService) Return(ctx context.Context, borrowingID models.ID) (models.Borrowing, error) {
	f.hit("Return")
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Borrowing{ID: borrowingID, Status: "returned"}, f.ReturnErr
}

func (f *fakeService) StartReading(ctx context.Context, bookID models.ID) (models.ReadingSession, error) {
	f.hit("StartReading")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Session, f.ReadingErr
}

func (f *fakeService) EndReading(ctx context.Context, sessionID models.ID, pagesRead int) (models.ReadingSession, error) {
	f.hit("EndReading")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastEndSession = sessionID
	f.LastPagesRead = pagesRead
	return f.Session, f.ReadingErr
}

type fakeNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, msg)
}

func (f *fakeNotifier) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Messages) == 0 {
		return ""
	}
	return f.Messages[len(f.Messages)-1]
}

type fakeNav struct {
	Paths []string
}

func (f *fakeNav) Navigate(ctx context.Context, path string) {
	f.Paths = append(f.Paths, path)
}

type fakeAuth struct {
	User      models.User
	Err       error
	Calls     int
	LastEmail string
	LastReq   models.RegisterRequest
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (models.User, error) {
	f.Calls++
	f.LastEmail = email
	return f.User, f.Err
}

func (f *fakeAuth) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	f.Calls++
	f.LastReq = req
	return f.User, f.Err
}
