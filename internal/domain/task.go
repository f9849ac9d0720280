package domain

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	Owner       primitive.ObjectID `bson:"owner"`
	Rev         int64              `bson:"rev"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type taskView struct {
	ID          primitive.ObjectID `json:"id"`
	Description string             `json:"description"`
	Completed   bool               `json:"completed"`
	Owner       primitive.ObjectID `json:"owner"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	v := taskView{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Owner:       t.Owner,
		CreatedAt:   t.CreatedAt,
	}
	if !t.UpdatedAt.Equal(t.CreatedAt) {
		upd := t.UpdatedAt
		v.UpdatedAt = &upd
	}
	return json.Marshal(v)
}

type NewTask struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type TaskPatch struct {
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (p TaskPatch) Empty() bool { return p.Description == nil && p.Completed == nil }

type TaskFilter struct {
	Completed *bool
	Limit     int
	Skip      int
	SortBy    string // "created_at" | "updated_at" | "description" | "completed"
	Desc      bool
}
