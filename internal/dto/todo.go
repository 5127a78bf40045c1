package dto

import "time"

type TodoResponse struct {
	ID        uint       `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Priority  string     `json:"priority"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	OwnerID   uint       `json:"ownerId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CreateTodoRequest struct {
	Text      string     `json:"text" binding:"required,max=500"`
	Completed bool       `json:"completed"`
	Priority  string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate   *time.Time `json:"dueDate"`
}

// UpdateTodoRequest replaces the whole todo (PUT).
type UpdateTodoRequest struct {
	Text      string     `json:"text" binding:"required,max=500"`
	Completed bool       `json:"completed"`
	Priority  string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate   *time.Time `json:"dueDate"`
}

// PatchTodoRequest updates only the supplied fields (PATCH).
type PatchTodoRequest struct {
	Text      *string    `json:"text" binding:"omitempty,max=500"`
	Completed *bool      `json:"completed"`
	Priority  *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate   *time.Time `json:"dueDate"`
}

// TodoFilter narrows owner-scoped listings.
type TodoFilter struct {
	Completed *bool
	Priority  string
	Search    string
}

type TodoStatsResponse struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Pending    int64 `json:"pending"`
	ByPriority struct {
		Low    int64 `json:"low"`
		Medium int64 `json:"medium"`
		High   int64 `json:"high"`
	} `json:"byPriority"`
}
