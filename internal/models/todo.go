package models

import "time"

// TodoStatus represents the lifecycle state of a todo
type TodoStatus string

const (
	StatusTodo       TodoStatus = "todo"
	StatusInProgress TodoStatus = "in_progress"
	StatusCompleted  TodoStatus = "completed"
	StatusArchived   TodoStatus = "archived"
)

// Priority represents the importance of a todo
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidStatus reports whether s is a known todo status
func ValidStatus(s TodoStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo represents a single task owned by a user
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsStarred   bool       `json:"is_starred"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TodoFilter holds the filtering, sorting and pagination parameters for
// listing todos. UserID is always required.
type TodoFilter struct {
	UserID    string
	Status    TodoStatus
	Priority  Priority
	Search    string
	IsStarred bool
	FromDue   *time.Time
	ToDue     *time.Time
	SortBy    string
	SortDesc  bool
	Page      int
	PageSize  int
}

// TodoList is a page of todos plus the total match count
type TodoList struct {
	Todos    []*Todo `json:"todos"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// CreateTodoRequest represents the request body for creating a todo
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	IsStarred   bool       `json:"is_starred"`
}

// UpdateTodoRequest represents the request body for updating a todo.
// Nil pointers leave the corresponding field unchanged.
type UpdateTodoRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *TodoStatus `json:"status"`
	Priority    *Priority   `json:"priority"`
	DueDate     *time.Time  `json:"due_date"`
	IsStarred   *bool       `json:"is_starred"`
}
