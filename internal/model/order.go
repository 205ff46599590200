package model

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Order struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Files     []string  `json:"files"`
	Status    string    `json:"status"` // pending, completed
	Timestamp time.Time `json:"timestamp"`
}
