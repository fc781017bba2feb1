package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chrix-Dev/To-do-app/internal/user"
)

var ErrTitleRequired = errors.New("title is required")

// Store defines the todo persistence operations the service depends on.
// *Repository is the production implementation.
type Store interface {
	Create(ctx context.Context, ownerID int64, title string) (*Todo, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Todo, error)
	GetByID(ctx context.Context, ownerID, id int64) (*Todo, error)
	UpdateTitle(ctx context.Context, ownerID, id int64, title string) (*Todo, error)
	Delete(ctx context.Context, ownerID, id int64) error
	DeleteManyByID(ctx context.Context, ownerID int64, ids []int64) (int64, error)
}

// Service implements ownership-scoped todo operations. Every operation
// takes the already-resolved owner and only ever touches that owner's
// records; ids belonging to other users behave as if they did not exist.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create persists a new todo owned by owner. Titles are not unique.
func (s *Service) Create(ctx context.Context, owner *user.User, title string) (*Todo, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	newTodo, err := s.store.Create(ctx, owner.ID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return newTodo, nil
}

// List returns all of the owner's todos in insertion order
func (s *Service) List(ctx context.Context, owner *user.User) ([]Todo, error) {
	todos, err := s.store.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// Get returns the owner's todo with the given id, or ErrNotFound
func (s *Service) Get(ctx context.Context, owner *user.User, id int64) (*Todo, error) {
	return s.store.GetByID(ctx, owner.ID, id)
}

// Update replaces the title of the owner's todo and returns the updated record
func (s *Service) Update(ctx context.Context, owner *user.User, id int64, newTitle string) (*Todo, error) {
	if newTitle == "" {
		return nil, ErrTitleRequired
	}

	return s.store.UpdateTitle(ctx, owner.ID, id, newTitle)
}

// Delete removes the owner's todo with the given id permanently
func (s *Service) Delete(ctx context.Context, owner *user.User, id int64) error {
	return s.store.Delete(ctx, owner.ID, id)
}

// DeleteMany removes every owned todo whose id is in ids and returns the
// count deleted. Ids that do not match an owned todo are silently ignored;
// if nothing matches at all the result is ErrNotFound.
func (s *Service) DeleteMany(ctx context.Context, owner *user.User, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNotFound
	}

	count, err := s.store.DeleteManyByID(ctx, owner.ID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}

	if count == 0 {
		return 0, ErrNotFound
	}

	return count, nil
}
