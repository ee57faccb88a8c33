package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CoverCache serves cached book cover images.
type CoverCache interface {
	Get(bookID uint, coverURL string) (string, error)
}

// CoversController handles book cover requests.
type CoversController struct {
	cache CoverCache
	books BookStore
}

// NewCoversController creates a new covers controller.
func NewCoversController(cache CoverCache, books BookStore) *CoversController {
	return &CoversController{
		cache: cache,
		books: books,
	}
}

// GetCover serves a book's cover image from the local cache, fetching it on
// a miss. If the fetch fails the client is redirected to the upstream URL.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.books.GetBookByID(id)
	if err != nil {
		respondNotFound(c, "book")
		return
	}

	if book.CoverURL == "" {
		respondNotFound(c, "cover")
		return
	}

	path, err := cc.cache.Get(id, book.CoverURL)
	if err != nil || path == "" {
		c.Redirect(http.StatusTemporaryRedirect, book.CoverURL)
		return
	}

	c.File(path)
}
