package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"todostack-backend/internal/auth"
	"todostack-backend/internal/database"
	"todostack-backend/internal/models"
)

// TodoHandlers exposes the todo CRUD endpoints
type TodoHandlers struct {
	todos *database.TodoRepo
}

// NewTodoHandlers creates the todo handler set
func NewTodoHandlers(todos *database.TodoRepo) *TodoHandlers {
	return &TodoHandlers{todos: todos}
}

// List handles GET /api/todos
func (h *TodoHandlers) List(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	filter := models.TodoFilter{
		UserID:    user.ID,
		Status:    models.TodoStatus(c.QueryParam("status")),
		Priority:  models.Priority(c.QueryParam("priority")),
		Search:    c.QueryParam("search"),
		IsStarred: c.QueryParam("isStarred") == "true",
		SortBy:    c.QueryParam("sortBy"),
		SortDesc:  c.QueryParam("sortOrder") != "asc",
	}

	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return respondError(c, http.StatusBadRequest, "invalid status filter")
	}
	if filter.Priority != "" && !models.ValidPriority(filter.Priority) {
		return respondError(c, http.StatusBadRequest, "invalid priority filter")
	}

	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))

	if from := c.QueryParam("fromDueDate"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid fromDueDate")
		}
		filter.FromDue = &t
	}
	if to := c.QueryParam("toDueDate"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid toDueDate")
		}
		// Inclusive through the end of the day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.ToDue = &end
	}

	list, err := h.todos.List(filter)
	if err != nil {
		c.Logger().Error("list todos error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to list todos")
	}

	return respondOK(c, list)
}

// Get handles GET /api/todos/:id
func (h *TodoHandlers) Get(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	todo, err := h.todos.GetByID(c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			return respondError(c, http.StatusNotFound, "todo not found")
		}
		c.Logger().Error("get todo error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to load todo")
	}

	return respondOK(c, todo)
}

// Create handles POST /api/todos
func (h *TodoHandlers) Create(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req models.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return respondError(c, http.StatusBadRequest, "title is required")
	}

	if req.Status == "" {
		req.Status = models.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = models.PriorityLow
	}
	if !models.ValidStatus(req.Status) {
		return respondError(c, http.StatusBadRequest, "invalid status")
	}
	if !models.ValidPriority(req.Priority) {
		return respondError(c, http.StatusBadRequest, "invalid priority")
	}

	todo := &models.Todo{
		UserID:      user.ID,
		Title:       title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		IsStarred:   req.IsStarred,
	}
	if todo.Status == models.StatusCompleted {
		now := time.Now().UTC()
		todo.CompletedAt = &now
	}

	if err := h.todos.Create(todo); err != nil {
		c.Logger().Error("create todo error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to create todo")
	}

	return respondOK(c, todo)
}

// Update handles PUT /api/todos/:id
func (h *TodoHandlers) Update(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	todo, err := h.todos.GetByID(c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			return respondError(c, http.StatusNotFound, "todo not found")
		}
		c.Logger().Error("load todo error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to load todo")
	}

	var req models.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return respondError(c, http.StatusBadRequest, "title must not be empty")
		}
		todo.Title = title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return respondError(c, http.StatusBadRequest, "invalid status")
		}
		// Completing a todo stamps completed_at; leaving the completed
		// state clears it.
		if *req.Status == models.StatusCompleted && todo.Status != models.StatusCompleted {
			now := time.Now().UTC()
			todo.CompletedAt = &now
		} else if *req.Status != models.StatusCompleted {
			todo.CompletedAt = nil
		}
		todo.Status = *req.Status
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			return respondError(c, http.StatusBadRequest, "invalid priority")
		}
		todo.Priority = *req.Priority
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate
	}
	if req.IsStarred != nil {
		todo.IsStarred = *req.IsStarred
	}

	if err := h.todos.Update(todo); err != nil {
		c.Logger().Error("update todo error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to update todo")
	}

	return respondOK(c, todo)
}

// Delete handles DELETE /api/todos/:id
func (h *TodoHandlers) Delete(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	if err := h.todos.Delete(c.Param("id"), user.ID); err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			return respondError(c, http.StatusNotFound, "todo not found")
		}
		c.Logger().Error("delete todo error: ", err)
		return respondError(c, http.StatusInternalServerError, "failed to delete todo")
	}

	return respondOK(c, map[string]string{"message": "todo deleted"})
}
