//go:build integration

package repo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/task-manager/internal/domain"
	"github.com/tazhibayda/task-manager/internal/repo"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	testcontainers.CleanupContainer(t, mc)
	require.NoError(t, err)

	uri, err := mc.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := repo.NewStore(ctx, uri, "task_manager_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := &domain.User{Email: "a@x.com", PasswordHash: "h", Tokens: []string{"t0"}}
	require.NoError(t, s.InsertUser(ctx, u))
	require.ErrorIs(t, s.InsertUser(ctx, &domain.User{Email: "a@x.com"}), domain.ErrEmailTaken)

	got, err := s.FindUserByToken(ctx, u.ID, "t0")
	require.NoError(t, err)
	require.True(t, got.CreatedAt.Equal(got.UpdatedAt))

	require.NoError(t, s.PushToken(ctx, u.ID, "t1"))
	require.NoError(t, s.PullToken(ctx, u.ID, "t0"))
	_, err = s.FindUserByToken(ctx, u.ID, "t0")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.FindUserByToken(ctx, u.ID, "t1")
	require.NoError(t, err)

	require.NoError(t, s.ClearTokens(ctx, u.ID))
	_, err = s.FindUserByToken(ctx, u.ID, "t1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	name := "Ann"
	upd, err := s.UpdateUser(ctx, u.ID, domain.UserChanges{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Ann", upd.Name)
	require.Greater(t, upd.Rev, int64(0))

	require.NoError(t, s.SetAvatar(ctx, u.ID, []byte{1, 2, 3}))
	img, err := s.FindAvatar(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, img)
	require.NoError(t, s.SetAvatar(ctx, u.ID, nil))
	_, err = s.FindAvatar(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	require.ErrorIs(t, s.DeleteUser(ctx, u.ID), domain.ErrNotFound)
}

func TestStore_Tasks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	owner := primitive.NewObjectID()

	for _, d := range []string{"one", "two", "three"} {
		require.NoError(t, s.CreateTask(ctx, &domain.Task{Owner: owner, Description: d}))
	}
	list, err := s.ListTasks(ctx, owner, domain.TaskFilter{SortBy: "description"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "one", list[0].Description)

	done := true
	upd, err := s.UpdateTask(ctx, owner, list[0].ID, domain.TaskPatch{Completed: &done})
	require.NoError(t, err)
	require.True(t, upd.Completed)

	_, err = s.FindTask(ctx, primitive.NewObjectID(), list[0].ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	n, err := s.DeleteTasksByOwner(ctx, owner)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestStore_ConcurrentTokenUpdates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := &domain.User{Email: "race@x.com", PasswordHash: "h"}
	require.NoError(t, s.InsertUser(ctx, u))

	const n = 24
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.PushToken(ctx, u.ID, fmt.Sprintf("t%d", i)))
		}(i)
	}
	wg.Wait()

	var want []string
	for i := 0; i < n; i++ {
		tok := fmt.Sprintf("t%d", i)
		if i%3 != 0 {
			want = append(want, tok)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.PullToken(ctx, u.ID, tok))
		}()
	}
	wg.Wait()

	got, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, want, got.Tokens)
}
