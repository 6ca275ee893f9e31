package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title     string    `gorm:"not null" json:"title"`
	URL       string    `json:"url"` // Optional
	CreatedAt time.Time `json:"created_at"`

	// 非数据库字段，查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}
