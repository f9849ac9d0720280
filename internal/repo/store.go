package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colUsers = "users"
	colTasks = "tasks"
)

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}
	return &Store{Client: cli, DB: cli.Database(dbname)}, nil
}

func (s *Store) users() *mongo.Collection { return s.DB.Collection(colUsers) }
func (s *Store) tasks() *mongo.Collection { return s.DB.Collection(colTasks) }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index and the task listing indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.tasks().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("owner_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "completed", Value: 1}},
			Options: options.Index().SetName("owner_completed"),
		},
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}

// now is truncated to the millisecond precision BSON dates keep, so that
// created_at == updated_at survives a round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
