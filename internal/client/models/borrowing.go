package models

import "time"

// Borrowing is a server-tracked loan of a book to the caller.
type Borrowing struct {
	ID           ID         `json:"id"`
	UserID       ID         `json:"user_id"`
	BookID       ID         `json:"book_id"`
	BorrowedDate *time.Time `json:"borrowed_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	Status       string     `json:"status,omitempty"`
	FineAmount   *float64   `json:"fine_amount,omitempty"`
	Book         *Book      `json:"book,omitempty"`
}

// BorrowRequest is the borrow mutation payload.
type BorrowRequest struct {
	BookID ID `json:"book_id"`
}

// ReadingSession tracks one reading period for a book.
type ReadingSession struct {
	ID                 ID         `json:"id"`
	UserID             ID         `json:"user_id"`
	BookID             ID         `json:"book_id"`
	StartTime          *time.Time `json:"start_time,omitempty"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	DurationMinutes    *int       `json:"duration_minutes,omitempty"`
	PagesRead          *int       `json:"pages_read,omitempty"`
	ProgressPercentage *float64   `json:"progress_percentage,omitempty"`
}

// StartReadingRequest is the reading start payload.
type StartReadingRequest struct {
	BookID ID `json:"book_id"`
}
