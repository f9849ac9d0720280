package domain

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Age          int                `bson:"age"`
	Tokens       []string           `bson:"tokens"`
	Avatar       []byte             `bson:"avatar,omitempty"`
	Rev          int64              `bson:"rev"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// HasToken reports whether token is one of the user's live session tokens.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

type userView struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Age       int                `json:"age"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// MarshalJSON is the only external shape of a user: credentials, session tokens,
// avatar bytes and the revision counter never leave the process.
func (u User) MarshalJSON() ([]byte, error) {
	v := userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
	}
	if !u.UpdatedAt.Equal(u.CreatedAt) {
		upd := u.UpdatedAt
		v.UpdatedAt = &upd
	}
	return json.Marshal(v)
}

// Registration is the input of account creation.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

// UserPatch carries one optional field per attribute a user may change.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Age == nil
}

// UserChanges is a validated patch ready for persistence; the password is already hashed.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Age          *int
}
