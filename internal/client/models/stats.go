package models

// ReadingStats aggregates the caller's reading history.
type ReadingStats struct {
	TotalBooksRead   int            `json:"total_books_read"`
	TotalPagesRead   int            `json:"total_pages_read"`
	TotalReadingTime int            `json:"total_reading_time"`
	CurrentStreak    int            `json:"current_streak"`
	LongestStreak    int            `json:"longest_streak"`
	FavoriteGenre    string         `json:"favorite_genre"`
	MonthlyReading   map[string]int `json:"monthly_reading"`
}

// ProfileStats has no fixed shape on the service side.
type ProfileStats map[string]any

// DemandPrediction is one forecast row of the library analytics.
type DemandPrediction struct {
	ID              ID       `json:"id"`
	BookID          ID       `json:"book_id"`
	PredictedDemand *int     `json:"predicted_demand,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
}

// LibraryAnalytics is the library-wide aggregate.
type LibraryAnalytics struct {
	TotalBooks        int                `json:"total_books"`
	TotalUsers        int                `json:"total_users"`
	ActiveBorrowings  int                `json:"active_borrowings"`
	PopularBooks      []Book             `json:"popular_books"`
	DemandPredictions []DemandPrediction `json:"demand_predictions"`
}
