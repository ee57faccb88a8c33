package books

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/lendhub/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func validInput() CreateBookInput {
	return CreateBookInput{
		Title:       "Dune",
		Author:      "Herbert",
		Category:    "SciFi",
		CoverURL:    "http://x/cover.jpg",
		Description: "desc",
	}
}

func TestRepository_CreateBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.CreateBook(validInput())

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.True(t, book.Available) // New books are always lendable
}

func TestRepository_CreateBook_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name    string
		mutate  func(*CreateBookInput)
		wantErr error
	}{
		{"missing title", func(in *CreateBookInput) { in.Title = "" }, ErrTitleRequired},
		{"missing author", func(in *CreateBookInput) { in.Author = "" }, ErrAuthorRequired},
		{"missing category", func(in *CreateBookInput) { in.Category = "" }, ErrCategoryRequired},
		{"title too long", func(in *CreateBookInput) { in.Title = strings.Repeat("a", 101) }, ErrTitleTooLong},
		{"author too long", func(in *CreateBookInput) { in.Author = strings.Repeat("a", 101) }, ErrAuthorTooLong},
		{"category too long", func(in *CreateBookInput) { in.Category = strings.Repeat("a", 101) }, ErrCategoryTooLong},
		{"cover url too long", func(in *CreateBookInput) { in.CoverURL = "http://" + strings.Repeat("a", 200) }, ErrCoverURLTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := repo.CreateBook(in)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepository_GetBookByID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateBook(validInput())
	require.NoError(t, err)

	book, err := repo.GetBookByID(created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, book.ID)
	assert.Equal(t, "Herbert", book.Author)
}

func TestRepository_GetBookByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetBookByID(999)

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_GetAllBooks_InsertionOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := validInput()
	second := validInput()
	second.Title = "Dune Messiah"

	_, err := repo.CreateBook(first)
	require.NoError(t, err)
	_, err = repo.CreateBook(second)
	require.NoError(t, err)

	all, err := repo.GetAllBooks()

	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Dune", all[0].Title)
	assert.Equal(t, "Dune Messiah", all[1].Title)
}

func TestRepository_UpdateBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateBook(validInput())
	require.NoError(t, err)

	in := validInput()
	in.Category = "Classics"
	updated, err := repo.UpdateBook(created.ID, in)

	require.NoError(t, err)
	assert.Equal(t, "Classics", updated.Category)

	fetched, err := repo.GetBookByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Classics", fetched.Category)
	assert.True(t, fetched.Available)
}

func TestRepository_UpdateBook_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.UpdateBook(42, validInput())

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateBook(validInput())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBook(created.ID))

	_, err = repo.GetBookByID(created.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_DeleteBook_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.DeleteBook(999)

	assert.ErrorIs(t, err, ErrBookNotFound)
}
