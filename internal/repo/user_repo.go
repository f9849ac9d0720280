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

// avatar bytes are only read by FindAvatar
var withoutAvatar = bson.M{"avatar": 0}

func (s *Store) InsertUser(ctx context.Context, u *domain.User) (err error) {
	ctx, finish := startSpan(ctx, "users.insert")
	defer func() { finish(err) }()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
	_, err = s.users().InsertOne(ctx, u)
	if IsDup(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (s *Store) findUser(ctx context.Context, op string, filter bson.M) (u *domain.User, err error) {
	ctx, finish := startSpan(ctx, op)
	defer func() { finish(ignoreNotFound(err)) }()

	var out domain.User
	err = s.users().FindOne(ctx, filter, options.FindOne().SetProjection(withoutAvatar)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, "users.find_by_email", bson.M{"email": email})
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return s.findUser(ctx, "users.find_by_id", bson.M{"_id": id})
}

// FindUserByToken matches the id and the live token in one query, so a revoked
// token never resolves even if its signature is still valid.
func (s *Store) FindUserByToken(ctx context.Context, id primitive.ObjectID, token string) (*domain.User, error) {
	return s.findUser(ctx, "users.find_by_token", bson.M{"_id": id, "tokens": token})
}

func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, ch domain.UserChanges) (u *domain.User, err error) {
	ctx, finish := startSpan(ctx, "users.update", tracer.Tag("user_id", id.Hex()))
	defer func() { finish(ignoreNotFound(err)) }()

	set := bson.M{"updated_at": now()}
	if ch.Name != nil {
		set["name"] = *ch.Name
	}
	if ch.Email != nil {
		set["email"] = *ch.Email
	}
	if ch.PasswordHash != nil {
		set["password_hash"] = *ch.PasswordHash
	}
	if ch.Age != nil {
		set["age"] = *ch.Age
	}

	var out domain.User
	err = s.users().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set, "$inc": bson.M{"rev": 1}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(withoutAvatar),
	).Decode(&out)
	switch {
	case IsDup(err):
		return nil, domain.ErrEmailTaken
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrNotFound
	case err != nil:
		return nil, err
	}
	return &out, nil
}

func (s *Store) updateOne(ctx context.Context, op string, id primitive.ObjectID, update bson.M) (err error) {
	ctx, finish := startSpan(ctx, op, tracer.Tag("user_id", id.Hex()))
	defer func() { finish(ignoreNotFound(err)) }()

	res, err := s.users().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) PushToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return s.updateOne(ctx, "users.push_token", id, bson.M{
		"$push": bson.M{"tokens": token},
		"$set":  bson.M{"updated_at": now()},
		"$inc":  bson.M{"rev": 1},
	})
}

func (s *Store) PullToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return s.updateOne(ctx, "users.pull_token", id, bson.M{
		"$pull": bson.M{"tokens": token},
		"$set":  bson.M{"updated_at": now()},
		"$inc":  bson.M{"rev": 1},
	})
}

func (s *Store) ClearTokens(ctx context.Context, id primitive.ObjectID) error {
	return s.updateOne(ctx, "users.clear_tokens", id, bson.M{
		"$set": bson.M{"tokens": []string{}, "updated_at": now()},
		"$inc": bson.M{"rev": 1},
	})
}

// SetAvatar stores img, or removes the avatar when img is nil.
func (s *Store) SetAvatar(ctx context.Context, id primitive.ObjectID, img []byte) error {
	update := bson.M{
		"$set": bson.M{"avatar": img, "updated_at": now()},
		"$inc": bson.M{"rev": 1},
	}
	if img == nil {
		update = bson.M{
			"$unset": bson.M{"avatar": ""},
			"$set":   bson.M{"updated_at": now()},
			"$inc":   bson.M{"rev": 1},
		}
	}
	return s.updateOne(ctx, "users.set_avatar", id, update)
}

func (s *Store) FindAvatar(ctx context.Context, id primitive.ObjectID) (img []byte, err error) {
	ctx, finish := startSpan(ctx, "users.find_avatar")
	defer func() { finish(ignoreNotFound(err)) }()

	var out struct {
		Avatar []byte `bson:"avatar"`
	}
	err = s.users().FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"avatar": 1})).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(out.Avatar) == 0 {
		return nil, domain.ErrNotFound
	}
	return out.Avatar, nil
}

func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) (err error) {
	ctx, finish := startSpan(ctx, "users.delete", tracer.Tag("user_id", id.Hex()))
	defer func() { finish(ignoreNotFound(err)) }()

	res, err := s.users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
