package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justyntemme/bookinsights/internal/auth"
	"github.com/justyntemme/bookinsights/internal/books"
	"github.com/justyntemme/bookinsights/internal/metadata"
	"github.com/justyntemme/bookinsights/internal/models"
)

// BookService is what the book routes need from the books package
type BookService interface {
	Search(ctx context.Context, query string, scope metadata.Scope) ([]metadata.BookPreview, error)
	AddBook(ctx context.Context, user, workID string) (models.LibraryPreview, error)
	ListLibrary(ctx context.Context, user string) ([]models.LibraryPreview, error)
	Remove(ctx context.Context, user, workID string) (bool, error)
	Details(ctx context.Context, workID string) (metadata.BookDetail, error)
}

// BookHandler serves the /books routes
type BookHandler struct {
	books BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(books BookService) *BookHandler {
	return &BookHandler{books: books}
}

type addBookRequest struct {
	WorkID string `json:"workId"`
}

// Search handles GET /books/search?q=&scope=
func (h *BookHandler) Search(c *gin.Context) {
	scope := metadata.ParseScope(c.Query("scope"))
	results, err := h.books.Search(c.Request.Context(), c.Query("q"), scope)
	if err != nil {
		respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ListLibrary handles GET /books/library
func (h *BookHandler) ListLibrary(c *gin.Context) {
	previews, err := h.books.ListLibrary(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, previews)
}

// AddBook handles POST /books/library
func (h *BookHandler) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.WorkID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": books.ErrWorkIDRequired.Error()})
		return
	}

	preview, err := h.books.AddBook(c.Request.Context(), auth.GetUserID(c), req.WorkID)
	if err != nil {
		respondBookError(c, err)
		return
	}
	c.JSON(http.StatusCreated, preview)
}

// RemoveBook handles DELETE /books/library/:workId
func (h *BookHandler) RemoveBook(c *gin.Context) {
	deleted, err := h.books.Remove(c.Request.Context(), auth.GetUserID(c), c.Param("workId"))
	if err != nil {
		respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Details handles GET /books/details/:workId
func (h *BookHandler) Details(c *gin.Context) {
	detail, err := h.books.Details(c.Request.Context(), c.Param("workId"))
	if err != nil {
		respondBookError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func respondBookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, books.ErrQueryRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": books.ErrQueryRequired.Error()})
	case errors.Is(err, books.ErrWorkIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": books.ErrWorkIDRequired.Error()})
	case errors.Is(err, books.ErrAlreadyStored):
		c.JSON(http.StatusConflict, gin.H{"error": books.ErrAlreadyStored.Error()})
	case errors.Is(err, books.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": books.ErrBookNotFound.Error()})
	case errors.Is(err, books.ErrSearchUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": books.ErrSearchUnavailable.Error()})
	case errors.Is(err, books.ErrDetailsUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": books.ErrDetailsUnavailable.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
