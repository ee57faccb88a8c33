package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/lendhub/internal/auth"
	"github.com/openshelf/lendhub/internal/database"
	"github.com/openshelf/lendhub/internal/database/wishlist"
	"github.com/openshelf/lendhub/internal/entities"
)

func wishlistRouter(db *database.Database, userID uint) *gin.Engine {
	controller := NewWishlistController(wishlist.NewRepository(db.DB))
	authMW := auth.NewMiddleware(nil)

	router := gin.New()
	router.Use(identityMW(userID, false))
	router.GET("/api/wishlist", controller.List)
	router.POST("/api/wishlist/:bookId", authMW.RequireAuth(), controller.Add)
	router.DELETE("/api/wishlist/:bookId", authMW.RequireAuth(), controller.Remove)
	return router
}

func seedUser(t *testing.T, db *database.Database, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

type wishlistResponse struct {
	Books []entities.Book `json:"books"`
	Count int             `json:"count"`
}

func TestWishlistController_List_Anonymous(t *testing.T) {
	db, cleanup := setupTestDB(t, "wishlist")
	defer cleanup()
	router := wishlistRouter(db, auth.AnonymousUserID)

	w := performJSON(router, http.MethodGet, "/api/wishlist", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response wishlistResponse
	decodeBody(t, w, &response)
	assert.Empty(t, response.Books)
	assert.Equal(t, 0, response.Count)
}

func TestWishlistController_AddAndList(t *testing.T) {
	db, cleanup := setupTestDB(t, "wishlist")
	defer cleanup()

	user := seedUser(t, db, "reader")
	seedBook(t, db, "Dune")
	router := wishlistRouter(db, user.ID)

	w := performJSON(router, http.MethodPost, "/api/wishlist/1", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodGet, "/api/wishlist", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response wishlistResponse
	decodeBody(t, w, &response)
	require.Len(t, response.Books, 1)
	assert.Equal(t, "Dune", response.Books[0].Title)
}

func TestWishlistController_Add_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t, "wishlist")
	defer cleanup()

	user := seedUser(t, db, "reader")
	seedBook(t, db, "Dune")
	router := wishlistRouter(db, user.ID)

	w := performJSON(router, http.MethodPost, "/api/wishlist/1", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = performJSON(router, http.MethodPost, "/api/wishlist/1", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodGet, "/api/wishlist", nil)
	var response wishlistResponse
	decodeBody(t, w, &response)
	assert.Len(t, response.Books, 1, "duplicate add keeps a single entry")
}

func TestWishlistController_Add_BookNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t, "wishlist")
	defer cleanup()

	user := seedUser(t, db, "reader")
	router := wishlistRouter(db, user.ID)

	w := performJSON(router, http.MethodPost, "/api/wishlist/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWishlistController_Add_RequiresAuth(t *testing.T) {
	db, cleanup := setupTestDB(t, "wishlist")
	defer cleanup()

	seedBook(t, db, "Dune")
	router := wishlistRouter(db, auth.AnonymousUserID)

	w := performJSON(router, http.MethodPost, "/api/wishlist/1", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWishlistController_Remove(t *testing.T) {
	db, cleanup := setupTestDB(t, "wishlist")
	defer cleanup()

	user := seedUser(t, db, "reader")
	seedBook(t, db, "Dune")
	router := wishlistRouter(db, user.ID)

	w := performJSON(router, http.MethodPost, "/api/wishlist/1", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodDelete, "/api/wishlist/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/api/wishlist", nil)
	var response wishlistResponse
	decodeBody(t, w, &response)
	assert.Empty(t, response.Books)
}

func TestWishlistController_Remove_AbsentEntrySucceeds(t *testing.T) {
	db, cleanup := setupTestDB(t, "wishlist")
	defer cleanup()

	user := seedUser(t, db, "reader")
	router := wishlistRouter(db, user.ID)

	w := performJSON(router, http.MethodDelete, "/api/wishlist/99", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
