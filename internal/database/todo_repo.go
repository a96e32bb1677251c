package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"todostack-backend/internal/models"
)

var ErrTodoNotFound = errors.New("todo not found")

// Columns a todo list may be sorted by. Anything else falls back to
// created_at to keep user input out of the ORDER BY clause.
var todoSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"title":      "title",
	"status":     "status",
}

// TodoRepo handles todo database operations
type TodoRepo struct {
	db *sql.DB
}

// NewTodoRepo creates a new todo repository
func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{db: db}
}

// Create inserts a new todo
func (r *TodoRepo) Create(todo *models.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO todos (id, user_id, title, description, status, priority, due_date, completed_at, is_starred, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, todo.ID, todo.UserID, todo.Title, todo.Description, todo.Status, todo.Priority,
		todo.DueDate, todo.CompletedAt, todo.IsStarred, todo.CreatedAt, todo.UpdatedAt)
	return err
}

// GetByID retrieves a todo owned by the given user
func (r *TodoRepo) GetByID(id, userID string) (*models.Todo, error) {
	todo := &models.Todo{}
	err := r.db.QueryRow(`
		SELECT id, user_id, title, description, status, priority, due_date, completed_at, is_starred, created_at, updated_at
		FROM todos WHERE id = ? AND user_id = ?
	`, id, userID).Scan(
		&todo.ID, &todo.UserID, &todo.Title, &todo.Description, &todo.Status, &todo.Priority,
		&todo.DueDate, &todo.CompletedAt, &todo.IsStarred, &todo.CreatedAt, &todo.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, err
	}
	return todo, nil
}

// List retrieves a filtered, sorted page of todos for a user
func (r *TodoRepo) List(f models.TodoFilter) (*models.TodoList, error) {
	where, args := buildTodoConditions(f)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM todos WHERE "+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	column, ok := todoSortFields[f.SortBy]
	if !ok {
		column = "created_at"
		f.SortDesc = true
	}
	order := "ASC"
	if f.SortDesc {
		order = "DESC"
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	offset := (f.Page - 1) * f.PageSize

	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, status, priority, due_date, completed_at, is_starred, created_at, updated_at
		FROM todos WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?
	`, where, column, order)

	rows, err := r.db.Query(query, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		todo := &models.Todo{}
		err := rows.Scan(
			&todo.ID, &todo.UserID, &todo.Title, &todo.Description, &todo.Status, &todo.Priority,
			&todo.DueDate, &todo.CompletedAt, &todo.IsStarred, &todo.CreatedAt, &todo.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.TodoList{
		Todos:    todos,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

func buildTodoConditions(f models.TodoFilter) (string, []any) {
	conditions := []string{"user_id = ?"}
	args := []any{f.UserID}

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, f.Priority)
	}
	if f.IsStarred {
		conditions = append(conditions, "is_starred = 1")
	}
	if f.Search != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.FromDue != nil {
		conditions = append(conditions, "due_date >= ?")
		args = append(args, *f.FromDue)
	}
	if f.ToDue != nil {
		conditions = append(conditions, "due_date <= ?")
		args = append(args, *f.ToDue)
	}

	return strings.Join(conditions, " AND "), args
}

// Update persists changes to an existing todo
func (r *TodoRepo) Update(todo *models.Todo) error {
	todo.UpdatedAt = time.Now().UTC()

	result, err := r.db.Exec(`
		UPDATE todos SET
			title = ?,
			description = ?,
			status = ?,
			priority = ?,
			due_date = ?,
			completed_at = ?,
			is_starred = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`, todo.Title, todo.Description, todo.Status, todo.Priority, todo.DueDate,
		todo.CompletedAt, todo.IsStarred, todo.UpdatedAt, todo.ID, todo.UserID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// Delete removes a todo owned by the given user
func (r *TodoRepo) Delete(id, userID string) error {
	result, err := r.db.Exec("DELETE FROM todos WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}
