// Package service holds the account, session-token and task operations the HTTP
// layer calls. Persistence sits behind UserStore and TaskStore so the MongoDB
// store and the in-memory store are interchangeable.
package service

import (
	"context"

	"github.com/tazhibayda/task-manager/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	InsertUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindUserByToken(ctx context.Context, id primitive.ObjectID, token string) (*domain.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, ch domain.UserChanges) (*domain.User, error)
	PushToken(ctx context.Context, id primitive.ObjectID, token string) error
	PullToken(ctx context.Context, id primitive.ObjectID, token string) error
	ClearTokens(ctx context.Context, id primitive.ObjectID) error
	SetAvatar(ctx context.Context, id primitive.ObjectID, img []byte) error
	FindAvatar(ctx context.Context, id primitive.ObjectID) ([]byte, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *domain.Task) error
	FindTask(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)
	ListTasks(ctx context.Context, owner primitive.ObjectID, f domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, owner, id primitive.ObjectID, p domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)
	DeleteTasksByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)
}

// Notifier receives account lifecycle events. Implementations must not block
// and must not report failures back to the caller.
type Notifier interface {
	Welcome(ctx context.Context, u *domain.User)
	Cancellation(ctx context.Context, u *domain.User)
}

type nopNotifier struct{}

func (nopNotifier) Welcome(context.Context, *domain.User)      {}
func (nopNotifier) Cancellation(context.Context, *domain.User) {}
