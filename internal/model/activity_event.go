package model

import "time"

// ActivityEvent records a user-visible action (registration, login, task
// creation). Events are published to the broker on the request path and
// persisted asynchronously by the activity worker.
type ActivityEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	Detail    string    `gorm:"size:200" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
	EventTaskCreated    = "task_created"
)
