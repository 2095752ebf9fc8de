package model

import "time"

type Task struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:200;not null" json:"text"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
