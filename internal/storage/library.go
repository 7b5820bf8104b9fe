package storage

import (
	"fmt"
	"time"

	"github.com/justyntemme/bookinsights/internal/models"
)

// CreateLibraryEntry stores a work for a user. A second insert of the same
// (user, work) pair returns ErrDuplicate.
func (d *Database) CreateLibraryEntry(user, workID string) (*models.LibraryEntry, error) {
	entry := &models.LibraryEntry{
		User:      user,
		WorkID:    workID,
		CreatedAt: time.Now().UTC(),
	}

	res, err := d.db.Exec(`
		INSERT INTO library_entries (user, work_id, created_at)
		VALUES (?, ?, ?)`,
		entry.User, entry.WorkID, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("library entry %s for %s: %w", workID, user, ErrDuplicate)
		}
		return nil, err
	}

	entry.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListLibraryEntries returns a user's entries, newest first
func (d *Database) ListLibraryEntries(user string) ([]models.LibraryEntry, error) {
	rows, err := d.db.Query(`
		SELECT id, user, work_id, created_at
		FROM library_entries
		WHERE user = ?
		ORDER BY created_at DESC, id DESC`, user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.LibraryEntry{}
	for rows.Next() {
		var entry models.LibraryEntry
		if err := rows.Scan(&entry.ID, &entry.User, &entry.WorkID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteLibraryEntries removes a work from a user's library and reports how many rows went
func (d *Database) DeleteLibraryEntries(user, workID string) (int64, error) {
	res, err := d.db.Exec(`
		DELETE FROM library_entries WHERE user = ? AND work_id = ?`,
		user, workID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
