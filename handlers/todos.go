package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskpulse/go-todo/models"
	"github.com/taskpulse/go-todo/stream"
)

// TodoHandler owns the user-scoped todo CRUD. Every mutation is
// mirrored to the fan-out hub so the user's other connections see it
// without polling.
type TodoHandler struct {
	db  *sql.DB
	hub *stream.Hub
}

func NewTodoHandler(db *sql.DB, hub *stream.Hub) *TodoHandler {
	return &TodoHandler{db: db, hub: hub}
}

const todoColumns = "id, user_id, text, completed, priority, created_at, updated_at"

// fetchTodos returns a user's full collection, newest first. Shared
// with the stream endpoint for the initial snapshot.
func fetchTodos(ctx context.Context, db *sql.DB, userID string) ([]models.Todo, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE user_id = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.Completed, &t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}
	return todos, nil
}

func (h *TodoHandler) fetchOne(ctx context.Context, id string) (*models.Todo, error) {
	var t models.Todo
	err := h.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = $1", id,
	).Scan(&t.ID, &t.UserID, &t.Text, &t.Completed, &t.Priority, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List godoc
// @Summary All todos of the caller, newest first
// @Produce json
// @Security BearerAuth
// @Success 200
// @Router /todos [get]
func (h *TodoHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	todos, err := fetchTodos(c.Context(), h.db, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(200).JSON(todos)
}

type createTodoRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// Create godoc
// @Summary Create a todo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201
// @Router /todos [post]
func (h *TodoHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(createTodoRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Text == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing todo text"})
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}

	id := uuid.New().String()
	_, err := h.db.ExecContext(c.Context(),
		"INSERT INTO todos (id, user_id, text, priority) VALUES ($1, $2, $3, $4)",
		id, userID, req.Text, req.Priority,
	)
	if err != nil {
		return fail(c, fmt.Errorf("failed to insert todo: %w", err))
	}

	todo, err := h.fetchOne(c.Context(), id)
	if err != nil {
		return fail(c, fmt.Errorf("failed to read back todo: %w", err))
	}

	h.hub.Publish(userID, stream.EventCreated, todo)
	return c.Status(201).JSON(todo)
}

// GetOne godoc
// @Summary One todo by id
// @Produce json
// @Security BearerAuth
// @Success 200
// @Router /todos/{id} [get]
func (h *TodoHandler) GetOne(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	todo, err := h.fetchOne(c.Context(), id)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "todo not found"})
	}
	if err != nil {
		return fail(c, err)
	}
	if todo.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "not your todo"})
	}

	return c.Status(200).JSON(todo)
}

// Update godoc
// @Summary Partially update a todo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200
// @Router /todos/{id} [put]
func (h *TodoHandler) Update(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	req := new(models.TodoUpdate)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var ownerID string
	err := h.db.QueryRowContext(c.Context(), "SELECT user_id FROM todos WHERE id = $1", id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "todo not found"})
	}
	if err != nil {
		return fail(c, fmt.Errorf("failed to look up todo: %w", err))
	}
	if ownerID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "not your todo"})
	}

	sets := []string{}
	args := []any{}
	if req.Text != nil {
		args = append(args, *req.Text)
		sets = append(sets, fmt.Sprintf("text = $%d", len(args)))
	}
	if req.Completed != nil {
		args = append(args, *req.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	if req.Priority != nil {
		args = append(args, *req.Priority)
		sets = append(sets, fmt.Sprintf("priority = $%d", len(args)))
	}
	if len(sets) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no fields to update"})
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE todos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := h.db.ExecContext(c.Context(), query, args...); err != nil {
		return fail(c, fmt.Errorf("failed to update todo: %w", err))
	}

	todo, err := h.fetchOne(c.Context(), id)
	if err != nil {
		return fail(c, fmt.Errorf("failed to read back todo: %w", err))
	}

	h.hub.Publish(userID, stream.EventUpdated, todo)
	return c.Status(200).JSON(todo)
}

// Delete godoc
// @Summary Delete a todo
// @Security BearerAuth
// @Success 200
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var ownerID string
	err := h.db.QueryRowContext(c.Context(), "SELECT user_id FROM todos WHERE id = $1", id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "todo not found"})
	}
	if err != nil {
		return fail(c, fmt.Errorf("failed to look up todo: %w", err))
	}
	if ownerID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "not your todo"})
	}

	if _, err := h.db.ExecContext(c.Context(), "DELETE FROM todos WHERE id = $1", id); err != nil {
		return fail(c, fmt.Errorf("failed to delete todo: %w", err))
	}

	h.hub.Publish(userID, stream.EventDeleted, fiber.Map{"id": id})
	return c.Status(200).JSON(fiber.Map{"message": "todo deleted"})
}

// ClearCompleted godoc
// @Summary Delete all completed todos of the caller
// @Security BearerAuth
// @Success 200
// @Router /todos/batch/completed [delete]
func (h *TodoHandler) ClearCompleted(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	_, err := h.db.ExecContext(c.Context(),
		"DELETE FROM todos WHERE user_id = $1 AND completed = TRUE", userID,
	)
	if err != nil {
		return fail(c, fmt.Errorf("failed to clear completed todos: %w", err))
	}

	// Bulk change: push the fresh full collection instead of one event
	// per deleted row.
	todos, err := fetchTodos(c.Context(), h.db, userID)
	if err != nil {
		return fail(c, err)
	}

	h.hub.Publish(userID, stream.EventList, todos)
	return c.Status(200).JSON(fiber.Map{"message": "completed todos cleared"})
}
