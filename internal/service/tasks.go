package service

import (
	"context"
	"fmt"

	"github.com/tazhibayda/task-manager/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tasks scopes every operation to an owner; a task of another user is
// indistinguishable from a missing one.
type Tasks struct {
	store TaskStore
}

func NewTasks(store TaskStore) *Tasks { return &Tasks{store: store} }

func (s *Tasks) Create(ctx context.Context, owner primitive.ObjectID, in domain.NewTask) (*domain.Task, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &domain.Task{
		ID:          primitive.NewObjectID(),
		Description: in.Description,
		Completed:   in.Completed,
		Owner:       owner,
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *Tasks) Get(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	return s.store.FindTask(ctx, owner, id)
}

func (s *Tasks) List(ctx context.Context, owner primitive.ObjectID, f domain.TaskFilter) ([]domain.Task, error) {
	out, err := s.store.ListTasks(ctx, owner, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Task{}
	}
	return out, nil
}

func (s *Tasks) Update(ctx context.Context, owner, id primitive.ObjectID, p domain.TaskPatch) (*domain.Task, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Empty() {
		return s.store.FindTask(ctx, owner, id)
	}
	return s.store.UpdateTask(ctx, owner, id, p)
}

func (s *Tasks) Delete(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	return s.store.DeleteTask(ctx, owner, id)
}

func (s *Tasks) DeleteByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	n, err := s.store.DeleteTasksByOwner(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("delete tasks of %s: %w", owner.Hex(), err)
	}
	return n, nil
}
