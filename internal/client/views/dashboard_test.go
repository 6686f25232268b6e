package views

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/common"
)

func sampleBooks() []models.Book {
	return []models.Book{
		{ID: "42", Title: "Dune", Author: "Herbert", Genre: "sci-fi", AvailableCopies: 0},
		{ID: "7", Title: "Hyperion", Author: "Simmons", Genre: "sci-fi", AvailableCopies: 2},
	}
}

func TestDashboard_ActivateListsFirstPage(t *testing.T) {
	svc := newFakeService()
	svc.Books = sampleBooks()
	d := NewDashboard(svc, &fakeNotifier{}, nil, 12)

	d.Activate(context.Background(), &models.User{Name: "A"})

	st := d.State()
	assert.False(t, st.Loading)
	assert.Len(t, st.Books, 2)
	assert.Equal(t, 12, svc.LastLimit)

	var buf bytes.Buffer
	d.Render(&buf)
	assert.Contains(t, buf.String(), "Hyperion")
	assert.Contains(t, buf.String(), "2 available")
}

func TestDashboard_ListFailureIsLogged(t *testing.T) {
	svc := newFakeService()
	svc.ListErr = &gateway.Error{Kind: gateway.KindServer, Status: 503}
	notifier := &fakeNotifier{}
	d := NewDashboard(svc, notifier, nil, 12)

	d.Activate(context.Background(), nil)
	assert.False(t, d.State().Loading)
	assert.Empty(t, d.State().Books)
	assert.Empty(t, notifier.Messages)
}

func TestDashboard_Search(t *testing.T) {
	svc := newFakeService()
	svc.Books = sampleBooks()
	svc.Results = []models.SearchResult{{Book: models.Book{ID: "9", Title: "Solaris"}, SimilarityScore: 0.7}}
	d := NewDashboard(svc, &fakeNotifier{}, nil, 12)
	ctx := context.Background()
	d.Activate(ctx, nil)

	require.NoError(t, d.Search(ctx, " ocean planet ", false))
	assert.Equal(t, "ocean planet", svc.LastQuery)
	assert.Equal(t, 1, svc.count("Search"))
	displayed := d.State().Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, "Solaris", displayed[0].Title)

	require.NoError(t, d.Search(ctx, "ocean planet", true))
	assert.Equal(t, 1, svc.count("SemanticSearch"))
	assert.True(t, d.State().Semantic)

	// blank query clears the results without a call
	require.NoError(t, d.Search(ctx, "   ", false))
	assert.Equal(t, 1, svc.count("Search"))
	assert.Len(t, d.State().Displayed(), 2)
}

func TestDashboard_SearchFailureKeepsResults(t *testing.T) {
	svc := newFakeService()
	svc.Results = []models.SearchResult{{Book: models.Book{ID: "9", Title: "Solaris"}}}
	d := NewDashboard(svc, &fakeNotifier{}, nil, 12)
	ctx := context.Background()

	require.NoError(t, d.Search(ctx, "ocean", false))
	svc.SearchErr = &gateway.Error{Kind: gateway.KindNetwork, Message: "refused"}
	require.ErrorIs(t, d.Search(ctx, "desert", false), gateway.ErrNetwork)

	st := d.State()
	assert.Equal(t, "ocean", st.Query)
	assert.Len(t, st.Results, 1)
}

func TestDashboard_ActivateDropsPreviousSearch(t *testing.T) {
	svc := newFakeService()
	svc.Books = sampleBooks()
	svc.Results = []models.SearchResult{{Book: models.Book{ID: "9", Title: "Solaris"}}}
	d := NewDashboard(svc, &fakeNotifier{}, nil, 12)
	ctx := context.Background()

	d.Activate(ctx, &models.User{Name: "A"})
	require.NoError(t, d.Search(ctx, "ocean", false))

	svc.mu.Lock()
	svc.ListErr = errors.New("boom")
	svc.mu.Unlock()

	d.Activate(ctx, &models.User{Name: "B"})

	st := d.State()
	assert.Equal(t, "B", st.User.Name)
	assert.Empty(t, st.Query)
	assert.Empty(t, st.Results)
	assert.Empty(t, st.Books)
	assert.False(t, st.Loading)
}

func TestDashboard_RefreshKeepsSearch(t *testing.T) {
	svc := newFakeService()
	svc.Books = sampleBooks()
	svc.Results = []models.SearchResult{{Book: models.Book{ID: "9", Title: "Solaris"}}}
	d := NewDashboard(svc, &fakeNotifier{}, nil, 12)
	ctx := context.Background()

	d.Activate(ctx, nil)
	require.NoError(t, d.Search(ctx, "ocean", false))
	d.Refresh(ctx)

	assert.Equal(t, "ocean", d.State().Query)
	assert.Len(t, d.State().Results, 1)
	assert.Equal(t, 2, svc.count("ListBooks"))
}

func TestDashboard_BorrowRefetches(t *testing.T) {
	svc := newFakeService()
	svc.Books = sampleBooks()
	svc.Results = []models.SearchResult{{Book: sampleBooks()[1]}}
	notifier := &fakeNotifier{}
	d := NewDashboard(svc, notifier, nil, 12)
	ctx := context.Background()
	d.Activate(ctx, nil)
	require.NoError(t, d.Search(ctx, "hyperion", false))

	require.NoError(t, d.Borrow(ctx, "7", false))
	assert.Equal(t, msgBorrowed, notifier.Last())
	assert.Equal(t, 2, svc.count("ListBooks"))
	assert.Equal(t, 2, svc.count("Search"))
}

func TestDashboard_BorrowScenarios(t *testing.T) {
	t.Run("zero availability is refused locally", func(t *testing.T) {
		svc := newFakeService()
		svc.Books = sampleBooks()
		d := NewDashboard(svc, &fakeNotifier{}, nil, 12)
		d.Activate(context.Background(), nil)

		require.ErrorIs(t, d.Borrow(context.Background(), "42", false), common.ErrUnavailable)
		assert.Zero(t, svc.count("Borrow"))
	})

	t.Run("server rejection", func(t *testing.T) {
		svc := newFakeService()
		svc.Books = sampleBooks()
		svc.BorrowErr = &gateway.Error{Kind: gateway.KindValidation, Status: 400, Message: "Book not available"}
		notifier := &fakeNotifier{}
		d := NewDashboard(svc, notifier, nil, 12)
		d.Activate(context.Background(), nil)

		err := d.Borrow(context.Background(), "42", true)
		require.ErrorIs(t, err, gateway.ErrValidation)
		assert.Equal(t, "Error borrowing book: Book not available", notifier.Last())
		assert.Equal(t, 1, svc.count("ListBooks"))
	})

	t.Run("book not on screen goes to the server", func(t *testing.T) {
		svc := newFakeService()
		d := NewDashboard(svc, &fakeNotifier{}, nil, 12)
		require.NoError(t, d.Borrow(context.Background(), "100", false))
		assert.Equal(t, models.ID("100"), svc.LastBorrowed)
	})
}

func TestDashboard_LateResultIsDiscarded(t *testing.T) {
	svc := newFakeService()
	svc.Books = sampleBooks()
	svc.ListGate = make(chan struct{})
	d := NewDashboard(svc, &fakeNotifier{}, nil, 12)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Activate(ctx, nil)
	}()

	// leave the view while the listing is in flight
	cancel()
	close(svc.ListGate)
	<-done

	assert.Empty(t, d.State().Books)
}
