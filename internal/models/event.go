package models

import "time"

// Event represents a loggable action in the catalog.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "book.created", "user.registered"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	BookID    *string   `json:"bookId,omitempty"` // Nullable for non-book events
	CreatedAt time.Time `json:"createdAt"`
}
