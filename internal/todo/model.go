package todo

import (
	"time"
)

// Todo is a task owned by exactly one user.
type Todo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
