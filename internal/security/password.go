package security

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

// Hasher hashes raw passwords with a per-hash random salt (bcrypt).
type Hasher struct {
	Cost int
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

func (h Hasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.Cost)
	return string(b), err
}

func (h Hasher) Check(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Burn spends one comparison's worth of CPU so that an unknown email costs as much as a wrong password.
func (h Hasher) Burn(pw string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-credential"), h.Cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pw))
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)
