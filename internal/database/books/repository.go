// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.CreateBook(books.CreateBookInput{Title: "Dune", Author: "Herbert"})
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/lendhub/internal/entities"
)

// Field length limits enforced on catalog writes.
const (
	MaxTitleLength    = 100
	MaxAuthorLength   = 100
	MaxCategoryLength = 100
	MaxCoverURLLength = 200
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrAuthorRequired   = errors.New("author is required")
	ErrCategoryRequired = errors.New("category is required")
	ErrTitleTooLong     = fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	ErrAuthorTooLong    = fmt.Errorf("author exceeds maximum length of %d characters", MaxAuthorLength)
	ErrCategoryTooLong  = fmt.Errorf("category exceeds maximum length of %d characters", MaxCategoryLength)
	ErrCoverURLTooLong  = fmt.Errorf("cover URL exceeds maximum length of %d characters", MaxCoverURLLength)
)

// CreateBookInput holds the writable catalog fields for a new book.
type CreateBookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	CoverURL    string `json:"cover_url"`
	Description string `json:"description"`
}

// Validate checks required fields and length limits.
func (in CreateBookInput) Validate() error {
	switch {
	case in.Title == "":
		return ErrTitleRequired
	case in.Author == "":
		return ErrAuthorRequired
	case in.Category == "":
		return ErrCategoryRequired
	case len(in.Title) > MaxTitleLength:
		return ErrTitleTooLong
	case len(in.Author) > MaxAuthorLength:
		return ErrAuthorTooLong
	case len(in.Category) > MaxCategoryLength:
		return ErrCategoryTooLong
	case len(in.CoverURL) > MaxCoverURLLength:
		return ErrCoverURLTooLong
	}
	return nil
}

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook validates the input and inserts a new book, available by default.
func (r *Repository) CreateBook(in CreateBookInput) (*entities.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book := &entities.Book{
		Title:       in.Title,
		Author:      in.Author,
		Category:    in.Category,
		CoverURL:    in.CoverURL,
		Description: in.Description,
		Available:   true,
	}

	if err := r.db.Create(book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// GetBookByID retrieves a single book.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetAllBooks returns the full catalog in insertion order.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// UpdateBook applies the given catalog fields to an existing book.
// The availability flag is owned by the lending service and never touched here.
func (r *Repository) UpdateBook(id uint, in CreateBookInput) (*entities.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book, err := r.GetBookByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":       in.Title,
		"author":      in.Author,
		"category":    in.Category,
		"cover_url":   in.CoverURL,
		"description": in.Description,
	}
	if err := r.db.Model(book).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return book, nil
}

// DeleteBook removes a book from the catalog.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
