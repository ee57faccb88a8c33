package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/lendhub/internal/audit"
	"github.com/openshelf/lendhub/internal/entities"
	"github.com/openshelf/lendhub/internal/lending"
)

// LendingService executes borrow and return state transitions.
type LendingService interface {
	Borrow(userID, bookID uint) (*entities.Borrowing, error)
	Return(userID, bookID uint) error
	ListBorrowings(userID uint) ([]entities.Borrowing, error)
}

// LendingController handles borrow, return and borrowing list endpoints.
// All routes require an authenticated caller.
type LendingController struct {
	service LendingService
	books   BookStore
	auditor *audit.Service
}

// NewLendingController creates a new lending controller.
func NewLendingController(service LendingService, books BookStore, auditor *audit.Service) *LendingController {
	return &LendingController{
		service: service,
		books:   books,
		auditor: auditor,
	}
}

// Borrow checks the book out to the caller. Exactly one of any number of
// concurrent borrowers succeeds; the rest get a 400 with "book not available".
// POST /api/books/:id/borrow
func (lc *LendingController) Borrow(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := GetUserID(c)

	borrowing, err := lc.service.Borrow(userID, bookID)
	if err != nil {
		lc.logBorrow(userID, bookID, err)

		switch {
		case errors.Is(err, lending.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, lending.ErrBookNotAvailable):
			respondBadRequest(c, "book not available")
		default:
			respondInternalError(c, err, "borrow book")
		}
		return
	}

	lc.logBorrow(userID, bookID, nil)
	respondCreated(c, borrowing)
}

// Return checks the book back in. Returning a book the caller never borrowed
// is a no-op that still reports success.
// POST /api/books/:id/return
func (lc *LendingController) Return(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := GetUserID(c)

	if err := lc.service.Return(userID, bookID); err != nil {
		respondInternalError(c, err, "return book")
		return
	}

	if lc.auditor != nil {
		lc.auditor.LogReturn(userID, bookID, lc.bookTitle(bookID))
	}
	respondSuccess(c, "book returned")
}

// ListBorrowings returns the caller's outstanding borrowings, oldest first.
// GET /api/borrowings
func (lc *LendingController) ListBorrowings(c *gin.Context) {
	borrowings, err := lc.service.ListBorrowings(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list borrowings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrowings": borrowings, "count": len(borrowings)})
}

func (lc *LendingController) logBorrow(userID, bookID uint, err error) {
	if lc.auditor == nil {
		return
	}
	lc.auditor.LogBorrow(userID, bookID, lc.bookTitle(bookID), err)
}

func (lc *LendingController) bookTitle(bookID uint) string {
	if lc.books == nil {
		return ""
	}
	book, err := lc.books.GetBookByID(bookID)
	if err != nil {
		return ""
	}
	return book.Title
}
