package repo

import (
	"context"
	"errors"

	"github.com/tazhibayda/task-manager/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const (
	defaultTaskLimit = 50
	maxTaskLimit     = 200
)

var taskSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"description": true,
	"completed":   true,
}

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) (err error) {
	ctx, finish := startSpan(ctx, "tasks.insert")
	defer func() { finish(err) }()

	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	ts := now()
	t.CreatedAt, t.UpdatedAt = ts, ts
	_, err = s.tasks().InsertOne(ctx, t)
	return err
}

func (s *Store) FindTask(ctx context.Context, owner, id primitive.ObjectID) (t *domain.Task, err error) {
	ctx, finish := startSpan(ctx, "tasks.find")
	defer func() { finish(ignoreNotFound(err)) }()

	var out domain.Task
	err = s.tasks().FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListTasks(ctx context.Context, owner primitive.ObjectID, f domain.TaskFilter) (out []domain.Task, err error) {
	ctx, finish := startSpan(ctx, "tasks.list", tracer.Tag("owner", owner.Hex()))
	defer func() { finish(err) }()

	f = ClampTaskFilter(f)
	filter := bson.M{"owner": owner}
	if f.Completed != nil {
		filter["completed"] = *f.Completed
	}
	dir := 1
	if f.Desc {
		dir = -1
	}
	cur, err := s.tasks().Find(ctx, filter, options.Find().
		SetLimit(int64(f.Limit)).
		SetSkip(int64(f.Skip)).
		SetSort(bson.D{{Key: f.SortBy, Value: dir}, {Key: "_id", Value: dir}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out = []domain.Task{}
	for cur.Next(ctx) {
		var t domain.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

func (s *Store) UpdateTask(ctx context.Context, owner, id primitive.ObjectID, p domain.TaskPatch) (t *domain.Task, err error) {
	ctx, finish := startSpan(ctx, "tasks.update")
	defer func() { finish(ignoreNotFound(err)) }()

	set := bson.M{"updated_at": now()}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	var out domain.Task
	err = s.tasks().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner": owner},
		bson.M{"$set": set, "$inc": bson.M{"rev": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) DeleteTask(ctx context.Context, owner, id primitive.ObjectID) (t *domain.Task, err error) {
	ctx, finish := startSpan(ctx, "tasks.delete")
	defer func() { finish(ignoreNotFound(err)) }()

	var out domain.Task
	err = s.tasks().FindOneAndDelete(ctx, bson.M{"_id": id, "owner": owner}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) DeleteTasksByOwner(ctx context.Context, owner primitive.ObjectID) (n int64, err error) {
	ctx, finish := startSpan(ctx, "tasks.delete_by_owner", tracer.Tag("owner", owner.Hex()))
	defer func() { finish(err) }()

	res, err := s.tasks().DeleteMany(ctx, bson.M{"owner": owner})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ClampTaskFilter applies the listing defaults shared by every store.
func ClampTaskFilter(f domain.TaskFilter) domain.TaskFilter {
	if f.Limit <= 0 || f.Limit > maxTaskLimit {
		f.Limit = defaultTaskLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	if !taskSortFields[f.SortBy] {
		f.SortBy = "created_at"
	}
	return f
}
