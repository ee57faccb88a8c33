package entities

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string     `gorm:"size:255" json:"email"`
	PasswordHash string     `gorm:"size:100" json:"-"` // bcrypt hash, hidden from JSON
	FirstName    string     `gorm:"size:100" json:"first_name"`
	LastName     string     `gorm:"size:100" json:"last_name"`
	IsStaff      bool       `gorm:"default:false" json:"is_staff"`
	DateJoined   time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Account lockout tracking
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`

	Wishlist []Book `gorm:"many2many:user_wishlist;" json:"wishlist,omitempty"`
}
