package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/lendhub/internal/auth"
	"github.com/openshelf/lendhub/internal/database"
	"github.com/openshelf/lendhub/internal/database/books"
	"github.com/openshelf/lendhub/internal/entities"
	"github.com/openshelf/lendhub/internal/lending"
)

func lendingRouter(db *database.Database, userID uint) *gin.Engine {
	controller := NewLendingController(lending.NewService(db.DB), books.NewRepository(db.DB), nil)
	authMW := auth.NewMiddleware(nil)

	router := gin.New()
	router.Use(identityMW(userID, false))
	router.POST("/api/books/:id/borrow", authMW.RequireAuth(), controller.Borrow)
	router.POST("/api/books/:id/return", authMW.RequireAuth(), controller.Return)
	router.GET("/api/borrowings", authMW.RequireAuth(), controller.ListBorrowings)
	return router
}

func bookAvailable(t *testing.T, db *database.Database, bookID uint) bool {
	t.Helper()
	var book entities.Book
	require.NoError(t, db.DB.First(&book, bookID).Error)
	return book.Available
}

func TestLendingController_Borrow(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()
	router := lendingRouter(db, 1)

	book := seedBook(t, db, "Dune")

	w := performJSON(router, http.MethodPost, "/api/books/1/borrow", nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	var borrowing entities.Borrowing
	decodeBody(t, w, &borrowing)
	assert.Equal(t, book.ID, borrowing.BookID)
	assert.EqualValues(t, 1, borrowing.UserID)
	assert.False(t, bookAvailable(t, db, book.ID))
}

func TestLendingController_Borrow_NotAvailable(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()

	seedBook(t, db, "Dune")

	first := lendingRouter(db, 1)
	w := performJSON(first, http.MethodPost, "/api/books/1/borrow", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Another user hits the same copy
	second := lendingRouter(db, 2)
	w = performJSON(second, http.MethodPost, "/api/books/1/borrow", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"book not available"}`, w.Body.String())
}

func TestLendingController_Borrow_BookNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()
	router := lendingRouter(db, 1)

	w := performJSON(router, http.MethodPost, "/api/books/99/borrow", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLendingController_Borrow_RequiresAuth(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()
	router := lendingRouter(db, auth.AnonymousUserID)

	seedBook(t, db, "Dune")

	w := performJSON(router, http.MethodPost, "/api/books/1/borrow", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, bookAvailable(t, db, 1), "anonymous request must not claim the book")
}

func TestLendingController_Return(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()
	router := lendingRouter(db, 1)

	seedBook(t, db, "Dune")

	w := performJSON(router, http.MethodPost, "/api/books/1/borrow", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodPost, "/api/books/1/return", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bookAvailable(t, db, 1))
}

func TestLendingController_Return_NoBorrowingStillSucceeds(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()
	router := lendingRouter(db, 1)

	seedBook(t, db, "Dune")

	w := performJSON(router, http.MethodPost, "/api/books/1/return", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLendingController_Return_OtherUsersBorrowing(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()

	seedBook(t, db, "Dune")

	borrower := lendingRouter(db, 1)
	w := performJSON(borrower, http.MethodPost, "/api/books/1/borrow", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	other := lendingRouter(db, 2)
	w = performJSON(other, http.MethodPost, "/api/books/1/return", nil)

	// No-op success for the other user; the borrowing stays in place
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, bookAvailable(t, db, 1))
}

func TestLendingController_ListBorrowings(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()
	router := lendingRouter(db, 1)

	seedBook(t, db, "Dune")
	seedBook(t, db, "Dune Messiah")

	w := performJSON(router, http.MethodPost, "/api/books/1/borrow", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = performJSON(router, http.MethodPost, "/api/books/2/borrow", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodGet, "/api/borrowings", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Borrowings []entities.Borrowing `json:"borrowings"`
		Count      int                  `json:"count"`
	}
	decodeBody(t, w, &response)
	require.Len(t, response.Borrowings, 2)
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "Dune", response.Borrowings[0].Book.Title)
	assert.Equal(t, "Dune Messiah", response.Borrowings[1].Book.Title)
}

func TestLendingController_ListBorrowings_Empty(t *testing.T) {
	db, cleanup := setupTestDB(t, "lending")
	defer cleanup()
	router := lendingRouter(db, 1)

	w := performJSON(router, http.MethodGet, "/api/borrowings", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Borrowings []entities.Borrowing `json:"borrowings"`
		Count      int                  `json:"count"`
	}
	decodeBody(t, w, &response)
	assert.Empty(t, response.Borrowings)
	assert.Equal(t, 0, response.Count)
}
