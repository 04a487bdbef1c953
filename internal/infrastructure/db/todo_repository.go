package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/taskbox/todo-api/internal/core/domain"
	"github.com/taskbox/todo-api/internal/core/ports"
)

// TodoRepository persists todos over database/sql. Every query carries the
// owning user's id, so rows of other users are invisible here.
type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	const query = `
		INSERT INTO todos (user_id, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	t := *todo
	err := r.db.QueryRowContext(ctx, query,
		t.UserID, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	return &t, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	const query = `
		SELECT id, user_id, description, completed, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2`

	var t domain.Todo
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&t.ID, &t.UserID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}

	return &t, nil
}

func (r *TodoRepository) List(ctx context.Context, userID int64, filter ports.TodoFilter) ([]*domain.Todo, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, user_id, description, completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1`)
	args := []any{userID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&query, " AND completed = $%d", len(args))
	}
	if filter.Search != "" {
		// LOWER on both sides keeps the match case-insensitive on Postgres
		// as well as SQLite.
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		fmt.Fprintf(&query, " AND LOWER(description) LIKE $%d", len(args))
	}
	query.WriteString(" ORDER BY id")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []*domain.Todo{}
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	const query = `
		UPDATE todos
		SET description = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5`

	res, err := r.db.ExecContext(ctx, query,
		todo.Description, todo.Completed, todo.UpdatedAt, todo.ID, todo.UserID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if affected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if affected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}
