package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/bookinsights/internal/logger"
	"github.com/justyntemme/bookinsights/internal/metadata"
	"github.com/justyntemme/bookinsights/internal/models"
	"github.com/justyntemme/bookinsights/internal/storage"
)

// UnavailableTitle replaces the title of a library entry whose summary could not be fetched
const UnavailableTitle = "OpenLibrary data unavailable"

var (
	ErrQueryRequired      = errors.New("query is required")
	ErrSearchUnavailable  = errors.New("OpenLibrary search is unavailable")
	ErrWorkIDRequired     = errors.New("workId is required")
	ErrAlreadyStored      = errors.New("Book already stored for this user")
	ErrBookNotFound       = errors.New("Book not found")
	ErrDetailsUnavailable = errors.New("Cannot fetch book details")
)

// Catalog is the slice of the metadata catalog the service needs
type Catalog interface {
	Search(ctx context.Context, query string, scope metadata.Scope) ([]metadata.BookPreview, error)
	Summarize(ctx context.Context, workID string) (metadata.BookPreview, error)
	Detail(ctx context.Context, workID string) (metadata.BookDetail, error)
}

// LibraryStore persists library entries per user
type LibraryStore interface {
	CreateLibraryEntry(user, workID string) (*models.LibraryEntry, error)
	ListLibraryEntries(user string) ([]models.LibraryEntry, error)
	DeleteLibraryEntries(user, workID string) (int64, error)
}

// Service implements the book endpoints on top of the catalog and the library store
type Service struct {
	catalog     Catalog
	store       LibraryStore
	concurrency int
	log         *logger.Logger
}

// NewService creates a book service. concurrency bounds the summaries fetched
// at once while listing a library.
func NewService(catalog Catalog, store LibraryStore, concurrency int, log *logger.Logger) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		catalog:     catalog,
		store:       store,
		concurrency: concurrency,
		log:         log,
	}
}

// Search runs a catalog search. Any catalog failure is reported as ErrSearchUnavailable.
func (s *Service) Search(ctx context.Context, query string, scope metadata.Scope) ([]metadata.BookPreview, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}

	results, err := s.catalog.Search(ctx, query, scope)
	if err != nil {
		s.log.Error("catalog search failed", "query", query, "scope", string(scope), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	return results, nil
}

// AddBook stores a work in the user's library and returns it with its summary
func (s *Service) AddBook(ctx context.Context, user, workID string) (models.LibraryPreview, error) {
	workID = normalizeWork(workID)
	if workID == "" {
		return models.LibraryPreview{}, ErrWorkIDRequired
	}

	entry, err := s.store.CreateLibraryEntry(user, workID)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.LibraryPreview{}, ErrAlreadyStored
		}
		return models.LibraryPreview{}, fmt.Errorf("store library entry: %w", err)
	}

	s.log.Info("library entry added", "user", user, "work_id", workID, "entry_id", entry.ID)
	return models.NewLibraryPreview(*entry, s.safeSummary(ctx, workID)), nil
}

// ListLibrary returns the user's library, newest first. Summaries are fetched
// concurrently and an entry whose summary fails gets a placeholder preview.
func (s *Service) ListLibrary(ctx context.Context, user string) ([]models.LibraryPreview, error) {
	entries, err := s.store.ListLibraryEntries(user)
	if err != nil {
		return nil, fmt.Errorf("list library entries: %w", err)
	}

	previews := make([]models.LibraryPreview, len(entries))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			previews[i] = models.NewLibraryPreview(entry, s.safeSummary(ctx, entry.WorkID))
			return nil
		})
	}
	_ = g.Wait()

	return previews, nil
}

// Remove deletes a work from the user's library and reports whether anything was removed
func (s *Service) Remove(_ context.Context, user, workID string) (bool, error) {
	count, err := s.store.DeleteLibraryEntries(user, normalizeWork(workID))
	if err != nil {
		return false, fmt.Errorf("delete library entries: %w", err)
	}
	return count > 0, nil
}

// Details returns the full view of a work
func (s *Service) Details(ctx context.Context, workID string) (metadata.BookDetail, error) {
	detail, err := s.catalog.Detail(ctx, normalizeWork(workID))
	if err != nil {
		if metadata.IsNotFound(err) {
			return metadata.BookDetail{}, ErrBookNotFound
		}
		s.log.Error("catalog detail failed", "work_id", workID, "error", err)
		return metadata.BookDetail{}, fmt.Errorf("%w: %v", ErrDetailsUnavailable, err)
	}
	return detail, nil
}

func (s *Service) safeSummary(ctx context.Context, workID string) metadata.BookPreview {
	preview, err := s.catalog.Summarize(ctx, workID)
	if err != nil {
		s.log.Warn("using placeholder summary", "work_id", workID, "error", err)
		return unavailablePreview(workID)
	}
	return preview
}

func unavailablePreview(workID string) metadata.BookPreview {
	return metadata.BookPreview{
		WorkID:  workID,
		Title:   UnavailableTitle,
		Authors: []string{},
	}
}

func normalizeWork(workID string) string {
	return strings.TrimSpace(metadata.NormalizeWorkID(strings.TrimSpace(workID)))
}
