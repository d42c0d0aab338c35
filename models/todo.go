package models

import "time"

// Todo is a single task owned by a user. UserID is internal; responses
// carry only the fields the owner already knows.
type Todo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoUpdate carries a partial update; nil fields are left untouched.
type TodoUpdate struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`
}
