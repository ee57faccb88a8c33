package entities

import "time"

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;size:100" json:"title"`
	Author      string    `gorm:"index;size:100" json:"author"`
	Category    string    `gorm:"index;size:100" json:"category"`
	CoverURL    string    `gorm:"size:200" json:"cover_url"`
	Description string    `gorm:"type:text" json:"description"`
	Available   bool      `gorm:"default:true" json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
