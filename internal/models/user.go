package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"` // Immutable after signup
	Email     string    `gorm:"not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never the raw password
	CreatedAt time.Time `json:"created_at"`
}
