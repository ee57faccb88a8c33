// Package wishlist provides database operations for the user-to-book
// wishlist relation. The relation has set semantics: adding an entry twice
// is a no-op, and removing an absent entry is not an error.
package wishlist

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/lendhub/internal/entities"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrUserNotFound = errors.New("user not found")
)

// Repository handles all wishlist database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new wishlist repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddBook puts a book on the user's wishlist. The book must exist; adding
// the same book twice leaves a single entry.
func (r *Repository) AddBook(userID, bookID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	user, err := r.getUser(userID)
	if err != nil {
		return err
	}

	if err := r.db.Model(user).Association("Wishlist").Append(&book); err != nil {
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

// RemoveBook takes a book off the user's wishlist. Removing an absent
// entry is a no-op.
func (r *Repository) RemoveBook(userID, bookID uint) error {
	user, err := r.getUser(userID)
	if err != nil {
		return err
	}

	book := entities.Book{ID: bookID}
	if err := r.db.Model(user).Association("Wishlist").Delete(&book); err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return nil
}

// ListBooks returns all wishlisted books for the user.
func (r *Repository) ListBooks(userID uint) ([]entities.Book, error) {
	user, err := r.getUser(userID)
	if err != nil {
		return nil, err
	}

	books := []entities.Book{}
	if err := r.db.Model(user).Order("id ASC").Association("Wishlist").Find(&books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *Repository) getUser(userID uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
