package models

import (
	"time"

	"github.com/justyntemme/bookinsights/internal/metadata"
)

// LibraryEntry is a work saved to a user's library
type LibraryEntry struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	WorkID    string    `json:"workId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LibraryPreview is a library entry joined with its catalog summary
type LibraryPreview struct {
	EntryID int64     `json:"entryId"`
	AddedAt time.Time `json:"addedAt"`
	metadata.BookPreview
}

// NewLibraryPreview combines a stored entry with its preview
func NewLibraryPreview(entry LibraryEntry, preview metadata.BookPreview) LibraryPreview {
	return LibraryPreview{
		EntryID:     entry.ID,
		AddedAt:     entry.CreatedAt,
		BookPreview: preview,
	}
}

// Order is a simple user-owned order record
type Order struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Item      string    `json:"item"`
	CreatedAt time.Time `json:"createdAt"`
}
