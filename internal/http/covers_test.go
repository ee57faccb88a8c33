package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/lendhub/internal/covers"
	"github.com/openshelf/lendhub/internal/database"
	"github.com/openshelf/lendhub/internal/database/books"
)

func coversRouter(t *testing.T, db *database.Database) *gin.Engine {
	t.Helper()

	cache, err := covers.NewCache(t.TempDir())
	require.NoError(t, err)

	controller := NewCoversController(cache, books.NewRepository(db.DB))
	router := gin.New()
	router.GET("/api/books/:id/cover", controller.GetCover)
	return router
}

func TestCoversController_GetCover(t *testing.T) {
	db, cleanup := setupTestDB(t, "covers")
	defer cleanup()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("fake image data"))
	}))
	defer upstream.Close()

	_, err := books.NewRepository(db.DB).CreateBook(books.CreateBookInput{
		Title:    "Dune",
		Author:   "Frank Herbert",
		Category: "Science Fiction",
		CoverURL: upstream.URL + "/dune.jpg",
	})
	require.NoError(t, err)

	router := coversRouter(t, db)

	w := performJSON(router, http.MethodGet, "/api/books/1/cover", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fake image data", w.Body.String())
}

func TestCoversController_GetCover_BookNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t, "covers")
	defer cleanup()

	router := coversRouter(t, db)

	w := performJSON(router, http.MethodGet, "/api/books/99/cover", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoversController_GetCover_NoCoverURL(t *testing.T) {
	db, cleanup := setupTestDB(t, "covers")
	defer cleanup()

	seedBook(t, db, "Dune") // no cover URL
	router := coversRouter(t, db)

	w := performJSON(router, http.MethodGet, "/api/books/1/cover", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoversController_GetCover_FetchFailureRedirects(t *testing.T) {
	db, cleanup := setupTestDB(t, "covers")
	defer cleanup()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	coverURL := upstream.URL + "/broken.jpg"
	_, err := books.NewRepository(db.DB).CreateBook(books.CreateBookInput{
		Title:    "Dune",
		Author:   "Frank Herbert",
		Category: "Science Fiction",
		CoverURL: coverURL,
	})
	require.NoError(t, err)

	router := coversRouter(t, db)

	w := performJSON(router, http.MethodGet, "/api/books/1/cover", nil)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, coverURL, w.Header().Get("Location"))
}
