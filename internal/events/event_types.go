package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/vnshop/storefront/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionCleared   EventType = "session.cleared"
	EventCartCountChanged EventType = "cart.count_changed"

	// Raised by the devserver.
	EventAccountRegistered  EventType = "account.registered"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// ClearReason says why a session was torn down.
type ClearReason string

const (
	ReasonLogout       ClearReason = "logout"
	ReasonExpired      ClearReason = "expired"
	ReasonUnauthorized ClearReason = "unauthorized"
	ReasonInvalid      ClearReason = "invalid"
)

// Event represents a state change observed by the client.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh ID and the current time.
func New(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionStartedPayload payload.
type SessionStartedPayload struct {
	Username string         `json:"username"`
	UserID   domain.ID      `json:"user_id"`
	Roles    domain.RoleSet `json:"roles"`
}

// SessionClearedPayload payload.
type SessionClearedPayload struct {
	Reason ClearReason `json:"reason"`
}

// CartCountChangedPayload payload.
type CartCountChangedPayload struct {
	OldCount int `json:"old_count"`
	NewCount int `json:"new_count"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	SecretCode string `json:"secret_code"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OrderID   int64              `json:"order_id"`
	OrderCode string             `json:"order_code"`
	UserID    int64              `json:"user_id"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}
