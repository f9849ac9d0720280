// Package memory is a process-local implementation of the user and task stores.
// It backs STORE=memory and the HTTP and service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tazhibayda/task-manager/internal/domain"
	"github.com/tazhibayda/task-manager/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]*domain.User
	byEmail map[string]primitive.ObjectID
	tasks   map[primitive.ObjectID]*domain.Task
}

func NewStore() *Store {
	return &Store{
		users:   make(map[primitive.ObjectID]*domain.User),
		byEmail: make(map[string]primitive.ObjectID),
		tasks:   make(map[primitive.ObjectID]*domain.Task),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func cloneUser(u *domain.User, withAvatar bool) *domain.User {
	c := *u
	c.Tokens = append([]string{}, u.Tokens...)
	c.Avatar = nil
	if withAvatar && u.Avatar != nil {
		c.Avatar = append([]byte(nil), u.Avatar...)
	}
	return &c
}

func (s *Store) InsertUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
	s.users[u.ID] = cloneUser(u, true)
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(s.users[id], false), nil
}

func (s *Store) FindUserByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u, false), nil
}

func (s *Store) FindUserByToken(_ context.Context, id primitive.ObjectID, token string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok || !u.HasToken(token) {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u, false), nil
}

func (s *Store) UpdateUser(_ context.Context, id primitive.ObjectID, ch domain.UserChanges) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if ch.Email != nil && *ch.Email != u.Email {
		if _, taken := s.byEmail[*ch.Email]; taken {
			return nil, domain.ErrEmailTaken
		}
		delete(s.byEmail, u.Email)
		s.byEmail[*ch.Email] = id
		u.Email = *ch.Email
	}
	if ch.Name != nil {
		u.Name = *ch.Name
	}
	if ch.PasswordHash != nil {
		u.PasswordHash = *ch.PasswordHash
	}
	if ch.Age != nil {
		u.Age = *ch.Age
	}
	s.touch(u)
	return cloneUser(u, false), nil
}

func (s *Store) touch(u *domain.User) {
	u.UpdatedAt = now()
	u.Rev++
}

func (s *Store) mutate(id primitive.ObjectID, fn func(u *domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(u)
	s.touch(u)
	return nil
}

func (s *Store) PushToken(_ context.Context, id primitive.ObjectID, token string) error {
	return s.mutate(id, func(u *domain.User) { u.Tokens = append(u.Tokens, token) })
}

func (s *Store) PullToken(_ context.Context, id primitive.ObjectID, token string) error {
	return s.mutate(id, func(u *domain.User) {
		kept := u.Tokens[:0]
		for _, t := range u.Tokens {
			if t != token {
				kept = append(kept, t)
			}
		}
		u.Tokens = kept
	})
}

func (s *Store) ClearTokens(_ context.Context, id primitive.ObjectID) error {
	return s.mutate(id, func(u *domain.User) { u.Tokens = []string{} })
}

func (s *Store) SetAvatar(_ context.Context, id primitive.ObjectID, img []byte) error {
	return s.mutate(id, func(u *domain.User) {
		u.Avatar = append([]byte(nil), img...)
		if img == nil {
			u.Avatar = nil
		}
	})
}

func (s *Store) FindAvatar(_ context.Context, id primitive.ObjectID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok || len(u.Avatar) == 0 {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), u.Avatar...), nil
}

func (s *Store) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.users, id)
	return nil
}

func (s *Store) CreateTask(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	ts := now()
	t.CreatedAt, t.UpdatedAt = ts, ts
	c := *t
	s.tasks[t.ID] = &c
	return nil
}

func (s *Store) FindTask(_ context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *Store) ListTasks(_ context.Context, owner primitive.ObjectID, f domain.TaskFilter) ([]domain.Task, error) {
	f = repo.ClampTaskFilter(f)

	s.mu.RLock()
	out := []domain.Task{}
	for _, t := range s.tasks {
		if t.Owner != owner {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, *t)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		c := compareTasks(out[i], out[j], f.SortBy)
		if c == 0 {
			c = strings.Compare(out[i].ID.Hex(), out[j].ID.Hex())
		}
		if f.Desc {
			return c > 0
		}
		return c < 0
	})

	if f.Skip >= len(out) {
		return []domain.Task{}, nil
	}
	out = out[f.Skip:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func compareTasks(a, b domain.Task, field string) int {
	switch field {
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "description":
		return strings.Compare(a.Description, b.Description)
	case "completed":
		switch {
		case a.Completed == b.Completed:
			return 0
		case !a.Completed:
			return -1
		default:
			return 1
		}
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (s *Store) UpdateTask(_ context.Context, owner, id primitive.ObjectID, p domain.TaskPatch) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrNotFound
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = now()
	t.Rev++
	c := *t
	return &c, nil
}

func (s *Store) DeleteTask(_ context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrNotFound
	}
	delete(s.tasks, id)
	return t, nil
}

func (s *Store) DeleteTasksByOwner(_ context.Context, owner primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.tasks {
		if t.Owner == owner {
			delete(s.tasks, id)
			n++
		}
	}
	return n, nil
}
