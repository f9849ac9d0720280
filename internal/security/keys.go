package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
)

// rsaKey is one RS256 key pair known by its kid.
type rsaKey struct {
	kid  string
	priv *rsa.PrivateKey
}

// KeyManager owns the RS256 keys: the active key signs, and the active key
// plus the optional next key verify and are published in the JWKS. Announcing
// the next key before it starts signing lets verifiers that cache the JWKS
// accept tokens across a rotation.
type KeyManager struct {
	active *rsaKey
	next   *rsaKey
}

// ParseRSAKey reads a PKCS#1 or PKCS#8 RSA private key. src is either the PEM
// text itself (as set in JWT_PRIVATE_KEY) or a path to a PEM file.
func ParseRSAKey(src string) (*rsa.PrivateKey, error) {
	b := []byte(src)
	if !strings.Contains(src, "-----BEGIN") {
		var err error
		if b, err = os.ReadFile(src); err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("invalid PEM")
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rk, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("not an RSA key")
		}
		return rk, nil
	default:
		return nil, errors.New("unsupported key type: " + block.Type)
	}
}

// NewKeyManager builds the key set from config values. The next key is
// optional and ignored when either of its values is empty.
func NewKeyManager(activeKid, activeKey, nextKid, nextKey string) (*KeyManager, error) {
	if activeKid == "" {
		return nil, errors.New("active key id is required")
	}
	priv, err := ParseRSAKey(activeKey)
	if err != nil {
		return nil, fmt.Errorf("active key %q: %w", activeKid, err)
	}
	km := &KeyManager{active: &rsaKey{kid: activeKid, priv: priv}}

	if nextKid == "" || nextKey == "" {
		return km, nil
	}
	if nextKid == activeKid {
		return nil, fmt.Errorf("next key reuses active key id %q", nextKid)
	}
	npriv, err := ParseRSAKey(nextKey)
	if err != nil {
		return nil, fmt.Errorf("next key %q: %w", nextKid, err)
	}
	km.next = &rsaKey{kid: nextKid, priv: npriv}
	return km, nil
}

func (km *KeyManager) ActiveKid() string { return km.active.kid }

func (km *KeyManager) keys() []*rsaKey {
	if km.next == nil {
		return []*rsaKey{km.active}
	}
	return []*rsaKey{km.active, km.next}
}

// PublicKey returns the verification key for kid.
func (km *KeyManager) PublicKey(kid string) (*rsa.PublicKey, bool) {
	for _, k := range km.keys() {
		if k.kid == kid {
			return &k.priv.PublicKey, true
		}
	}
	return nil, false
}

// JWK is the RFC 7517 subset published for RSA signing keys.
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"` // base64url modulus
	E   string `json:"e"` // base64url exponent
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWKS lists the active key first, then the next key.
func (km *KeyManager) JWKS() JWKS {
	out := make([]JWK, 0, 2)
	for _, k := range km.keys() {
		pub := k.priv.PublicKey
		out = append(out, JWK{
			Kty: "RSA",
			Kid: k.kid,
			Use: "sig",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		})
	}
	return JWKS{Keys: out}
}
