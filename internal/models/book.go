package models

import "time"

// Book represents a catalog record.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	CoverImage  string    `json:"coverImage,omitempty"` // Served path under /uploads
	CreatedAt   time.Time `json:"createdAt"`
}

// BookInput carries the fields a client supplies when adding a book.
type BookInput struct {
	Title       string
	Author      string
	Genre       string
	Year        int
	Description string
}
