package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/isandoval/librarian-be/internal/apperr"
	"github.com/isandoval/librarian-be/internal/models"
	"github.com/isandoval/librarian-be/internal/storage"
	ws "github.com/isandoval/librarian-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CoverUpload carries an optional cover image supplied with a new book.
type CoverUpload struct {
	Filename string
	Reader   io.Reader
}

// BookServiceProvider defines the interface for book services.
type BookServiceProvider interface {
	CreateBook(input models.BookInput, cover *CoverUpload) (models.Book, error)
	GetAllBooks() ([]models.Book, error)
	GetBookByID(id string) (models.Book, error)
	DeleteBookByID(id string) (models.Book, error)
	ReferencedCovers() (map[string]bool, error)
}

// BookService owns the catalog records: it is the only component that writes
// the books table.
type BookService struct {
	db       *sql.DB
	covers   *storage.CoverStore
	eventSvc EventServiceProvider
	hub      *ws.Hub
}

// NewBookService creates a new BookService. hub may be nil when no live feed
// is wanted (tests).
func NewBookService(db *sql.DB, covers *storage.CoverStore, eventSvc EventServiceProvider, hub *ws.Hub) *BookService {
	return &BookService{db: db, covers: covers, eventSvc: eventSvc, hub: hub}
}

// CreateBook validates and persists a new catalog record. All five text
// fields are required and the year must be positive; failures are
// apperr.ErrInvalidInput. When a cover upload is supplied the file is stored
// first and only its served path is persisted.
func (s *BookService) CreateBook(input models.BookInput, cover *CoverUpload) (models.Book, error) {
	if err := validateBookInput(input); err != nil {
		return models.Book{}, err
	}

	book := models.Book{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Author:      input.Author,
		Genre:       input.Genre,
		Year:        input.Year,
		Description: input.Description,
	}

	if cover != nil {
		path, err := s.covers.Save(cover.Filename, cover.Reader)
		if err != nil {
			return models.Book{}, fmt.Errorf("failed to store cover image: %w", err)
		}
		book.CoverImage = path
	}

	stmt, err := s.db.Prepare("INSERT INTO books(id, title, author, genre, year, description, cover_image) VALUES(?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Book{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(book.ID, book.Title, book.Author, book.Genre, book.Year, book.Description, book.CoverImage)
	if err != nil {
		return models.Book{}, err
	}

	if s.eventSvc != nil {
		msg := fmt.Sprintf("Book %q by %s added to the catalog", book.Title, book.Author)
		if err := s.eventSvc.CreateEvent("book.created", "info", msg, &book.ID); err != nil {
			log.Warn().Err(err).Str("book_id", book.ID).Msg("Failed to record catalog event")
		}
	}
	s.broadcast("book.created", book)

	return s.GetBookByID(book.ID)
}

// GetAllBooks retrieves the full catalog. No pagination; the dashboard
// filters and sorts client-side.
func (s *BookService) GetAllBooks() ([]models.Book, error) {
	rows, err := s.db.Query("SELECT id, title, author, genre, year, description, cover_image, created_at FROM books ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// GetBookByID retrieves a single book by its ID.
func (s *BookService) GetBookByID(id string) (models.Book, error) {
	row := s.db.QueryRow("SELECT id, title, author, genre, year, description, cover_image, created_at FROM books WHERE id = ?", id)
	book, err := scanBook(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Book{}, fmt.Errorf("%w: book with ID %s", apperr.ErrNotFound, id)
		}
		return models.Book{}, err
	}
	return book, nil
}

// DeleteBookByID removes a book and returns the removed record. The cover
// file, if any, is deleted alongside it.
func (s *BookService) DeleteBookByID(id string) (models.Book, error) {
	book, err := s.GetBookByID(id)
	if err != nil {
		return models.Book{}, err
	}

	if _, err := s.db.Exec("DELETE FROM books WHERE id = ?", id); err != nil {
		return models.Book{}, err
	}

	if book.CoverImage != "" && s.covers != nil {
		if err := s.covers.Remove(book.CoverImage); err != nil {
			log.Warn().Err(err).Str("book_id", id).Msg("Failed to remove cover file")
		}
	}

	if s.eventSvc != nil {
		msg := fmt.Sprintf("Book %q removed from the catalog", book.Title)
		if err := s.eventSvc.CreateEvent("book.deleted", "info", msg, &book.ID); err != nil {
			log.Warn().Err(err).Str("book_id", id).Msg("Failed to record catalog event")
		}
	}
	s.broadcast("book.deleted", book)

	return book, nil
}

// ReferencedCovers returns the set of cover paths currently attached to
// books, keyed by served path. Used by the upload sweeper.
func (s *BookService) ReferencedCovers() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT cover_image FROM books WHERE cover_image IS NOT NULL AND cover_image != ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referenced := make(map[string]bool)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		referenced[path] = true
	}
	return referenced, rows.Err()
}

func (s *BookService) broadcast(action string, book models.Book) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(ws.Message{Action: action, Payload: book})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func validateBookInput(input models.BookInput) error {
	if input.Title == "" || input.Author == "" || input.Genre == "" || input.Description == "" {
		return fmt.Errorf("%w: all fields are required", apperr.ErrInvalidInput)
	}
	if input.Year <= 0 {
		return fmt.Errorf("%w: year must be a positive integer", apperr.ErrInvalidInput)
	}
	return nil
}

// scanBook reads a book row from either a *sql.Row or *sql.Rows.
func scanBook(row interface{ Scan(...any) error }) (models.Book, error) {
	var book models.Book
	var cover sql.NullString
	err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Genre, &book.Year, &book.Description, &cover, &book.CreatedAt)
	if err != nil {
		return models.Book{}, err
	}
	book.CoverImage = cover.String
	return book, nil
}
