package queue

const (
	KeyUserRegistered = "user.registered"
	KeyUserCancelled  = "user.cancelled"
)

// AccountEvent is the payload of every user.* message.
type AccountEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
