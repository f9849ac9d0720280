package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tazhibayda/task-manager/internal/avatar"
	"github.com/tazhibayda/task-manager/internal/domain"
	"github.com/tazhibayda/task-manager/internal/metrics"
	"github.com/tazhibayda/task-manager/internal/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Accounts struct {
	users    UserStore
	tasks    *Tasks
	tokens   *Tokens
	hasher   security.Hasher
	avatars  avatar.Transformer
	notifier Notifier
	log      *zap.Logger
}

type AccountsDeps struct {
	Users    UserStore
	Tasks    *Tasks
	Tokens   *Tokens
	Hasher   security.Hasher
	Avatars  avatar.Transformer
	Notifier Notifier
	Log      *zap.Logger
}

func NewAccounts(d AccountsDeps) *Accounts {
	a := &Accounts{
		users:    d.Users,
		tasks:    d.Tasks,
		tokens:   d.Tokens,
		hasher:   d.Hasher,
		avatars:  d.Avatars,
		notifier: d.Notifier,
		log:      d.Log,
	}
	if a.notifier == nil {
		a.notifier = nopNotifier{}
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

// Create registers a user and returns it with its first session token. The
// token is part of the inserted document, so a failed insert leaves nothing behind.
func (a *Accounts) Create(ctx context.Context, in domain.Registration) (*domain.User, string, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, "", err
	}
	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Age:          in.Age,
	}
	tok, err := a.tokens.Mint(u.ID)
	if err != nil {
		return nil, "", err
	}
	u.Tokens = []string{tok}
	if err := a.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", domain.NewValidationError("email", "is already registered")
		}
		return nil, "", fmt.Errorf("insert user: %w", err)
	}
	metrics.TokensIssued.Inc()
	a.log.Info("user registered", zap.String("uid", u.ID.Hex()))
	a.notifier.Welcome(ctx, u)
	return u, tok, nil
}

// FindByCredentials never says which half of the pair was wrong.
func (a *Accounts) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := a.users.FindUserByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		a.hasher.Burn(password)
		metrics.AuthFailures.WithLabelValues("credentials").Inc()
		return nil, domain.ErrAuthentication
	}
	if err != nil {
		return nil, err
	}
	if !a.hasher.Check(u.PasswordHash, password) {
		metrics.AuthFailures.WithLabelValues("credentials").Inc()
		return nil, domain.ErrAuthentication
	}
	return u, nil
}

func (a *Accounts) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := a.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	tok, err := a.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	u.Tokens = append(u.Tokens, tok)
	return u, tok, nil
}

// Update applies a patch that has already passed strict decoding. An empty
// patch returns the stored user unchanged.
func (a *Accounts) Update(ctx context.Context, id primitive.ObjectID, p domain.UserPatch) (*domain.User, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Empty() {
		return a.users.FindUserByID(ctx, id)
	}
	ch := domain.UserChanges{Name: p.Name, Email: p.Email, Age: p.Age}
	if p.Password != nil {
		hash, err := a.hasher.Hash(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		ch.PasswordHash = &hash
	}
	u, err := a.users.UpdateUser(ctx, id, ch)
	if errors.Is(err, domain.ErrEmailTaken) {
		return nil, domain.NewValidationError("email", "is already registered")
	}
	return u, err
}

// Remove deletes the account and every task it owns. The cancellation notice
// goes out first; its delivery does not gate the deletion.
func (a *Accounts) Remove(ctx context.Context, u *domain.User) error {
	a.notifier.Cancellation(ctx, u)
	if _, err := a.tasks.DeleteByOwner(ctx, u.ID); err != nil {
		return err
	}
	if err := a.users.DeleteUser(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	a.log.Info("user removed", zap.String("uid", u.ID.Hex()))
	return nil
}

func (a *Accounts) SetAvatar(ctx context.Context, id primitive.ObjectID, raw []byte) error {
	img, err := a.avatars.Normalize(raw)
	if err != nil {
		return err
	}
	return a.users.SetAvatar(ctx, id, img)
}

func (a *Accounts) DeleteAvatar(ctx context.Context, id primitive.ObjectID) error {
	return a.users.SetAvatar(ctx, id, nil)
}

// Avatar returns the stored PNG or ErrNotFound.
func (a *Accounts) Avatar(ctx context.Context, id primitive.ObjectID) ([]byte, error) {
	return a.users.FindAvatar(ctx, id)
}
