package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/lendhub/internal/auth"
	"github.com/openshelf/lendhub/internal/database/wishlist"
	"github.com/openshelf/lendhub/internal/entities"
)

// WishlistStore defines database operations for wishlist management.
type WishlistStore interface {
	AddBook(userID, bookID uint) error
	RemoveBook(userID, bookID uint) error
	ListBooks(userID uint) ([]entities.Book, error)
}

// WishlistController handles wishlist endpoints.
type WishlistController struct {
	store WishlistStore
}

// NewWishlistController creates a new wishlist controller.
func NewWishlistController(store WishlistStore) *WishlistController {
	return &WishlistController{store: store}
}

// List returns the caller's wishlist. Anonymous callers get an empty list
// rather than an error, so the catalog page renders without a session.
// GET /api/wishlist
func (wc *WishlistController) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == auth.AnonymousUserID {
		c.JSON(http.StatusOK, gin.H{"books": []entities.Book{}, "count": 0})
		return
	}

	books, err := wc.store.ListBooks(userID)
	if err != nil {
		respondInternalError(c, err, "list wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// Add puts a book on the caller's wishlist. Adding the same book twice
// leaves a single entry.
// POST /api/wishlist/:bookId
func (wc *WishlistController) Add(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := wc.store.AddBook(GetUserID(c), bookID); err != nil {
		if errors.Is(err, wishlist.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "add to wishlist")
		return
	}

	respondCreated(c, SuccessResponse{Message: "book added to wishlist"})
}

// Remove takes a book off the caller's wishlist. Removing an absent entry
// still reports success.
// DELETE /api/wishlist/:bookId
func (wc *WishlistController) Remove(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := wc.store.RemoveBook(GetUserID(c), bookID); err != nil {
		respondInternalError(c, err, "remove from wishlist")
		return
	}

	respondSuccess(c, "book removed from wishlist")
}
