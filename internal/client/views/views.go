package views

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/common"
)

// Notifier shows a message the user has to acknowledge.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// Navigator receives navigation commands.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// Borrower issues borrow mutations.
type Borrower interface {
	Borrow(ctx context.Context, bookID models.ID) (models.Borrowing, error)
}

const (
	msgBorrowed       = "Book borrowed successfully!"
	msgBorrowFailed   = "Error borrowing book: "
	msgRequiredFields = "Email and password are required"
)

// stale reports whether a result computed under ctx must be discarded.
func stale(ctx context.Context) bool {
	return ctx.Err() != nil
}

// borrow runs the shared borrow flow. book is the locally displayed copy,
// nil when the id is not on screen. Zero availability is refused without a
// call unless force is set.
func borrow(ctx context.Context, b Borrower, n Notifier, bookID models.ID, book *models.Book, force bool) error {
	if book != nil && !book.Available() && !force {
		n.Notify(ctx, fmt.Sprintf("%q is unavailable", book.Title))
		return fmt.Errorf("borrow %s: %w", bookID, common.ErrUnavailable)
	}
	if _, err := b.Borrow(ctx, bookID); err != nil {
		n.Notify(ctx, msgBorrowFailed+gateway.MessageOf(err))
		return err
	}
	n.Notify(ctx, msgBorrowed)
	return nil
}

func findBook(books []models.Book, id models.ID) *models.Book {
	for i := range books {
		if books[i].ID == id {
			b := books[i]
			return &b
		}
	}
	return nil
}
