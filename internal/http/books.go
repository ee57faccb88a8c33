package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/openshelf/lendhub/internal/audit"
	"github.com/openshelf/lendhub/internal/database/books"
	"github.com/openshelf/lendhub/internal/entities"
	"github.com/openshelf/lendhub/internal/tasks"
)

// BookStore defines database operations for the catalog.
type BookStore interface {
	CreateBook(in books.CreateBookInput) (*entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	GetAllBooks() ([]entities.Book, error)
	UpdateBook(id uint, in books.CreateBookInput) (*entities.Book, error)
	DeleteBook(id uint) error
}

// CoverInvalidator drops cached covers for a book.
type CoverInvalidator interface {
	Invalidate(bookID uint) error
}

// TaskEnqueuer enqueues background tasks. Satisfied by *tasks.Client.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// BooksController handles catalog endpoints. The audit service, cover cache
// and task client are optional; a nil value disables that concern.
type BooksController struct {
	store      BookStore
	auditor    *audit.Service
	coverCache CoverInvalidator
	taskClient TaskEnqueuer
}

// NewBooksController creates a new catalog controller.
func NewBooksController(store BookStore, auditor *audit.Service, coverCache CoverInvalidator, taskClient TaskEnqueuer) *BooksController {
	return &BooksController{
		store:      store,
		auditor:    auditor,
		coverCache: coverCache,
		taskClient: taskClient,
	}
}

// CreateBook adds a book to the catalog.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var in books.CreateBookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.store.CreateBook(in)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogCatalog(GetUserID(c), "book_add", book.ID, book.Title, nil)
	}
	bc.prefetchCover(book)

	respondCreated(c, book)
}

// GetBooks lists the catalog. A numeric id query parameter narrows the
// response to a single book, matching clients that query GET /api/books?id=N.
// GET /api/books
func (bc *BooksController) GetBooks(c *gin.Context) {
	if c.Query("id") != "" {
		id, ok := parseQueryID(c, "id")
		if !ok {
			return
		}
		bc.respondWithBook(c, id)
		return
	}

	all, err := bc.store.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": all, "count": len(all)})
}

// GetBook retrieves a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bc.respondWithBook(c, id)
}

// UpdateBook edits a book's catalog fields. Availability is owned by the
// lending flow and cannot be changed here.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var in books.CreateBookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.store.UpdateBook(id, in)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		default:
			respondBadRequest(c, err.Error())
		}
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogCatalog(GetUserID(c), "book_update", book.ID, book.Title, nil)
	}
	// The cover URL may have changed; drop any stale cached image.
	if bc.coverCache != nil {
		_ = bc.coverCache.Invalidate(book.ID)
	}
	bc.prefetchCover(book)

	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book from the catalog.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondNotFound(c, "book")
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogCatalog(GetUserID(c), "book_delete", id, book.Title, nil)
	}
	if bc.coverCache != nil {
		_ = bc.coverCache.Invalidate(id)
	}

	respondSuccess(c, "book deleted")
}

func (bc *BooksController) respondWithBook(c *gin.Context, id uint) {
	book, err := bc.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// prefetchCover schedules a background fetch of the book's cover image.
func (bc *BooksController) prefetchCover(book *entities.Book) {
	if bc.taskClient == nil || book.CoverURL == "" {
		return
	}
	if _, err := bc.taskClient.Add(tasks.PrefetchCoverTask{
		BookID:   book.ID,
		CoverURL: book.CoverURL,
	}).Save(); err != nil {
		// Prefetching is opportunistic; the cover endpoint fetches on demand.
		return
	}
}
