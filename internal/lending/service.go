// Package lending implements the borrow/return state machine.
//
// A book is either Available or Borrowed. Borrowing flips the availability
// flag and creates a Borrowing row in one transaction; returning deletes the
// row and flips the flag back. The conditional update on the flag serializes
// concurrent borrow attempts, and the unique index on borrowings.book_id
// backstops the at-most-one-outstanding-borrowing invariant.
package lending

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/lendhub/internal/entities"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrBookNotAvailable = errors.New("book not available")
)

// Service executes lending state transitions against the relational store.
type Service struct {
	db *gorm.DB
}

// NewService creates a new lending service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Borrow checks the book out to the user. The availability flag and the
// ledger row change atomically; a concurrent borrower of the same book
// observes zero rows affected and fails with ErrBookNotAvailable.
func (s *Service) Borrow(userID, bookID uint) (*entities.Borrowing, error) {
	var borrowing *entities.Borrowing

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The conditional update is the first statement on purpose: it takes
		// the write lock up front, so concurrent transactions queue here
		// instead of failing on a read-to-write upgrade.
		res := tx.Model(&entities.Book{}).
			Where("id = ? AND available = ?", bookID, true).
			Update("available", false)
		if res.Error != nil {
			return fmt.Errorf("failed to claim book: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrBookNotFound
			}
			return ErrBookNotAvailable
		}

		b := &entities.Borrowing{
			UserID:     userID,
			BookID:     bookID,
			BorrowedAt: time.Now(),
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create borrowing: %w", err)
		}

		borrowing = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return borrowing, nil
}

// Return checks the book back in. If the user has no outstanding borrowing
// for the book the call is a no-op and reports success without touching the
// availability flag.
func (s *Service) Return(userID, bookID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND book_id = ?", userID, bookID).
			Delete(&entities.Borrowing{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete borrowing: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			return nil
		}

		err := tx.Model(&entities.Book{}).
			Where("id = ?", bookID).
			Update("available", true).Error
		if err != nil {
			return fmt.Errorf("failed to release book: %w", err)
		}
		return nil
	})
}

// ListBorrowings returns the user's outstanding borrowings with their books,
// oldest first.
func (s *Service) ListBorrowings(userID uint) ([]entities.Borrowing, error) {
	borrowings := []entities.Borrowing{}
	err := s.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("borrowed_at ASC, id ASC").
		Find(&borrowings).Error
	return borrowings, err
}
