package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/isandoval/librarian-be/internal/models"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, bookID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService keeps an audit trail of catalog activity.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(eventType, level, message string, bookID *string) error {
	event := models.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Level:   level,
		Message: message,
		BookID:  bookID,
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, book_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.BookID)
	return err
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, book_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.BookID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
