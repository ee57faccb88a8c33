package entities

import "time"

// Borrowing links a user to a book for the duration it is checked out.
// A row exists if and only if the book is currently borrowed; the row is
// deleted on return. The unique index on BookID guarantees at most one
// outstanding borrowing per book at the database level.
type Borrowing struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	BookID     uint      `gorm:"uniqueIndex" json:"book_id"`
	BorrowedAt time.Time `gorm:"autoCreateTime" json:"borrowed_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (Borrowing) TableName() string {
	return "borrowings"
}
