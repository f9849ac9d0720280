package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tazhibayda/task-manager/internal/domain"
	"github.com/tazhibayda/task-manager/internal/metrics"
	"github.com/tazhibayda/task-manager/internal/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Tokens issues and checks session tokens. A token is valid only while it is
// listed on its owner's record, whatever its signature says.
type Tokens struct {
	users  UserStore
	signer security.Signer
	ttl    time.Duration
	log    *zap.Logger
}

// NewTokens builds the issuer. ttl <= 0 mints tokens without an exp claim.
func NewTokens(users UserStore, signer security.Signer, ttl time.Duration, log *zap.Logger) *Tokens {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tokens{users: users, signer: signer, ttl: ttl, log: log}
}

// Mint signs a token for uid without recording it anywhere. Callers that
// persist the token count it with metrics.TokensIssued.
func (t *Tokens) Mint(uid primitive.ObjectID) (string, error) {
	tok, err := t.signer.Sign(uid.Hex(), t.ttl)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

func (t *Tokens) Issue(ctx context.Context, uid primitive.ObjectID) (string, error) {
	tok, err := t.Mint(uid)
	if err != nil {
		return "", err
	}
	if err := t.users.PushToken(ctx, uid, tok); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	metrics.TokensIssued.Inc()
	t.log.Debug("token issued", zap.String("uid", uid.Hex()), zap.String("token", security.Fingerprint(tok)))
	return tok, nil
}

// Verify resolves a bearer token to its user. Every rejection is ErrInvalidToken;
// store outages are returned as-is.
func (t *Tokens) Verify(ctx context.Context, token string) (*domain.User, string, error) {
	claims, err := t.signer.Parse(token)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("bad_token").Inc()
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	uid, err := primitive.ObjectIDFromHex(claims.UID)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("bad_token").Inc()
		return nil, "", fmt.Errorf("%w: uid", domain.ErrInvalidToken)
	}
	u, err := t.users.FindUserByToken(ctx, uid, token)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.AuthFailures.WithLabelValues("revoked").Inc()
		return nil, "", domain.ErrInvalidToken
	}
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Revoke drops one token. Revoking an unknown token is not an error.
func (t *Tokens) Revoke(ctx context.Context, uid primitive.ObjectID, token string) error {
	if err := t.users.PullToken(ctx, uid, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}
	metrics.TokensRevoked.WithLabelValues("one").Inc()
	return nil
}

func (t *Tokens) RevokeAll(ctx context.Context, uid primitive.ObjectID) error {
	if err := t.users.ClearTokens(ctx, uid); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	metrics.TokensRevoked.WithLabelValues("all").Inc()
	return nil
}
