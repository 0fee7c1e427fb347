package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isandoval/librarian-be/internal/auth"
	"github.com/isandoval/librarian-be/internal/models"
	"github.com/isandoval/librarian-be/internal/policy"
	"github.com/isandoval/librarian-be/internal/services"
	"github.com/rs/zerolog/log"
)

// maxUploadSize bounds the multipart form held in memory for a book upload.
const maxUploadSize = 10 << 20

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service services.BookServiceProvider
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service services.BookServiceProvider) *BookHandler {
	return &BookHandler{service: service}
}

// Add handles the admin-only creation of a book from a multipart form with an
// optional coverImage file.
func (h *BookHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "No token provided"})
		return
	}
	if err := policy.Authorize(identity, policy.ActionCreateBook); err != nil {
		respondError(w, err, "Only admins can add books")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid form data"})
		return
	}

	year, _ := strconv.Atoi(r.FormValue("year"))
	input := models.BookInput{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Genre:       r.FormValue("genre"),
		Year:        year,
		Description: r.FormValue("description"),
	}

	var cover *services.CoverUpload
	if file, header, err := r.FormFile("coverImage"); err == nil {
		defer file.Close()
		cover = &services.CoverUpload{Filename: header.Filename, Reader: file}
	}

	book, err := h.service.CreateBook(input, cover)
	if err != nil {
		log.Warn().Err(err).Str("user_id", identity.ID).Msg("Failed to add book")
		respondError(w, err, "All fields are required")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"msg":  "New book added successfully",
		"book": book,
	})
}

// GetAll handles the request to list the whole catalog.
func (h *BookHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.GetAllBooks()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch books")
		respondError(w, err, "Failed to fetch the book data")
		return
	}
	if books == nil {
		books = []models.Book{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    books,
	})
}

// Get handles the request to fetch a single book by its ID. This route is
// public: book detail pages render without a login.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	book, err := h.service.GetBookByID(id)
	if err != nil {
		respondError(w, err, "Book not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    book,
	})
}

// Delete handles the admin-only removal of a book, returning the removed
// record.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "No token provided"})
		return
	}
	if err := policy.Authorize(identity, policy.ActionDeleteBook); err != nil {
		respondError(w, err, "Only admins can delete books")
		return
	}

	id := chi.URLParam(r, "id")
	book, err := h.service.DeleteBookByID(id)
	if err != nil {
		log.Warn().Err(err).Str("book_id", id).Msg("Failed to delete book")
		respondError(w, err, "Book not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"msg":         "Book deleted successfully",
		"deletedBook": book,
	})
}
