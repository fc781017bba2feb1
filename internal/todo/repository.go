package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Chrix-Dev/To-do-app/internal/database"
)

var ErrNotFound = errors.New("todo not found")

// Repository handles todo data persistence.
// Every query constrains owner_id so a todo is only ever reachable
// through its owner.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new todo for the given owner
func (r *Repository) Create(ctx context.Context, ownerID int64, title string) (*Todo, error) {
	dbTodo := &database.Todo{
		Title:   title,
		OwnerID: ownerID,
	}

	_, err := r.db.NewInsert().
		Model(dbTodo).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// ListByOwner returns all todos owned by ownerID in insertion order
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]Todo, error) {
	var dbTodos []database.Todo
	err := r.db.NewSelect().
		Model(&dbTodos).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos := make([]Todo, 0, len(dbTodos))
	for i := range dbTodos {
		todos = append(todos, *mapDBTodoToModel(&dbTodos[i]))
	}

	return todos, nil
}

// GetByID retrieves a todo by id, scoped to the owner.
// A todo that exists but belongs to someone else is ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, ownerID, id int64) (*Todo, error) {
	dbTodo := new(database.Todo)
	err := r.db.NewSelect().
		Model(dbTodo).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// UpdateTitle replaces the title of an owned todo and returns the updated record
func (r *Repository) UpdateTitle(ctx context.Context, ownerID, id int64, title string) (*Todo, error) {
	dbTodo := new(database.Todo)
	result, err := r.db.NewUpdate().
		Model(dbTodo).
		Set("title = ?", title).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTodoToModel(dbTodo), nil
}

// Delete removes an owned todo permanently
func (r *Repository) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Todo)(nil)).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteManyByID removes every owned todo whose id is in ids and returns
// the number of rows deleted. The whole batch is one DELETE statement, so
// overlapping concurrent batches cannot double-count.
func (r *Repository) DeleteManyByID(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.NewDelete().
		Model((*database.Todo)(nil)).
		Where("owner_id = ?", ownerID).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected, nil
}

// mapDBTodoToModel converts database model to domain model
func mapDBTodoToModel(dbt *database.Todo) *Todo {
	return &Todo{
		ID:        dbt.ID,
		Title:     dbt.Title,
		OwnerID:   dbt.OwnerID,
		CreatedAt: dbt.CreatedAt,
	}
}
