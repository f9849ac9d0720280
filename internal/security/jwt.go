package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrBadToken = errors.New("bad token")

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// Signer mints and verifies session tokens.
type Signer interface {
	Sign(uid string, ttl time.Duration) (string, error)
	Parse(token string) (*Claims, error)
}

func newClaims(uid string, ttl time.Duration) Claims {
	now := time.Now()
	c := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  uid,
		},
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return c
}

type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (s *HMACSigner) Sign(uid string, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(uid, ttl))
	return t.SignedString(s.secret)
}

func (s *HMACSigner) Parse(token string) (*Claims, error) {
	return parse(token, []string{"HS256"}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
}

type RSASigner struct {
	km *KeyManager
}

func NewRSASigner(km *KeyManager) *RSASigner {
	return &RSASigner{km: km}
}

func (s *RSASigner) Sign(uid string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, newClaims(uid, ttl))
	token.Header["kid"] = s.km.active.kid
	return token.SignedString(s.km.active.priv)
}

func (s *RSASigner) Parse(token string) (*Claims, error) {
	return parse(token, []string{"RS256"}, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if pk, ok := s.km.PublicKey(kid); ok {
			return pk, nil
		}
		return nil, errors.New("no key by kid")
	})
}

func parse(token string, methods []string, keyfunc jwt.Keyfunc) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, keyfunc, jwt.WithValidMethods(methods))
	if err != nil {
		return nil, errors.Join(ErrBadToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == "" {
		return nil, ErrBadToken
	}
	return c, nil
}
