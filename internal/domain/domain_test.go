package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserJSON_HidesSecrets(t *testing.T) {
	now := time.Now().UTC()
	u := User{
		ID:           primitive.NewObjectID(),
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "$2a$12$secret",
		Tokens:       []string{"tok"},
		Avatar:       []byte{1, 2, 3},
		Rev:          3,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"password_hash", "tokens", "avatar", "rev", "updated_at"} {
		require.NotContains(t, m, k)
	}
	require.Equal(t, "ann@example.com", m["email"])

	u.UpdatedAt = now.Add(time.Second)
	b, err = json.Marshal(&u)
	require.NoError(t, err)
	require.Contains(t, string(b), "updated_at")
}

func TestTaskJSON_UpdatedAtOmittedUntilChanged(t *testing.T) {
	now := time.Now().UTC()
	task := Task{ID: primitive.NewObjectID(), Description: "x", CreatedAt: now, UpdatedAt: now}
	b, err := json.Marshal(task)
	require.NoError(t, err)
	require.NotContains(t, string(b), "updated_at")
	require.NotContains(t, string(b), "rev")
}

func TestRegistration_Validate(t *testing.T) {
	cases := []struct {
		name  string
		in    Registration
		field string
	}{
		{"ok", Registration{Email: "u1@test.com", Password: "abcdefg"}, ""},
		{"bad email", Registration{Email: "nope", Password: "abcdefg"}, "email"},
		{"short password", Registration{Email: "a@b.co", Password: "abc"}, "password"},
		{"contains password", Registration{Email: "a@b.co", Password: "myPassWord1"}, "password"},
		{"negative age", Registration{Email: "a@b.co", Password: "abcdefg", Age: -1}, "age"},
		{"72 byte password", Registration{Email: "a@b.co", Password: strings.Repeat("a", MaxPasswordBytes)}, ""},
		{"73 byte password", Registration{Email: "a@b.co", Password: strings.Repeat("a", MaxPasswordBytes+1)}, "password"},
		{"multibyte over limit", Registration{Email: "a@b.co", Password: strings.Repeat("é", 37)}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestRegistration_Normalize(t *testing.T) {
	r := Registration{Name: "  Bob ", Email: "  Bob@Example.COM "}
	r.Normalize()
	require.Equal(t, "Bob", r.Name)
	require.Equal(t, "bob@example.com", r.Email)
}

func TestDecodeStrict_RejectsUnknownField(t *testing.T) {
	var p UserPatch
	err := DecodeStrict(strings.NewReader(`{"name":"x","role":"admin"}`), &p)
	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Contains(t, ve.Fields, "role")
}

func TestDecodeStrict_TypeMismatch(t *testing.T) {
	var p UserPatch
	err := DecodeStrict(strings.NewReader(`{"age":"old"}`), &p)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Contains(t, ve.Fields, "age")
}

func TestUserPatch_Validate(t *testing.T) {
	var p UserPatch
	require.NoError(t, DecodeStrict(strings.NewReader(`{"age":30}`), &p))
	require.NoError(t, p.Validate())

	blank := ""
	require.ErrorIs(t, UserPatch{Email: &blank}.Validate(), ErrValidation)

	weak := "password123"
	require.ErrorIs(t, UserPatch{Password: &weak}.Validate(), ErrValidation)

	neg := -5
	require.ErrorIs(t, UserPatch{Age: &neg}.Validate(), ErrValidation)

	long := strings.Repeat("a", MaxPasswordBytes+1)
	require.ErrorIs(t, UserPatch{Password: &long}.Validate(), ErrValidation)
	limit := strings.Repeat("a", MaxPasswordBytes)
	require.NoError(t, UserPatch{Password: &limit}.Validate())
}

func TestTaskPatch_Validate(t *testing.T) {
	var p TaskPatch
	err := DecodeStrict(strings.NewReader(`{"owner":"someone"}`), &p)
	require.ErrorIs(t, err, ErrValidation)

	blank := "   "
	p = TaskPatch{Description: &blank}
	p.Normalize()
	require.ErrorIs(t, p.Validate(), ErrValidation)
}
