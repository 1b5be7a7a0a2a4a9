package domain

// Event is implemented by every payload published on the account
// event stream.
type Event interface {
	Type() string
}

// Event types published on the account event stream.
const (
	EventUserApproved = "user.approved"
	EventUserDeleted  = "user.deleted"
)

// UserApprovedEvent is emitted when an account's approval state changes.
// Fire-and-forget; never stored.
type UserApprovedEvent struct {
	User       UserInfo `json:"user"`
	Approved   bool     `json:"approved"`
	RequestURI string   `json:"request_uri"`
}

// Type returns the event type for stream routing.
func (UserApprovedEvent) Type() string { return EventUserApproved }

// UserDeletedEvent is emitted after an account record has been removed.
type UserDeletedEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Type returns the event type for stream routing.
func (UserDeletedEvent) Type() string { return EventUserDeleted }
