// Package chat holds the conversation state for one program run: the
// transcript, the single in-flight request, connection status and the
// notifications raised along the way.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Bot replies used when a request does not produce a result.
const (
	ProcessingErrorText = "❌ Sorry, I encountered an error processing your request."
	ConnectionErrorText = "⚠️ Unable to connect to the server. Please check your connection and try again."
)

// Message is one transcript entry. It is never modified after creation.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Timestamp time.Time
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Pending describes the request currently in flight.
type Pending struct {
	ID        string
	Task      string
	StartedAt time.Time
}

// Outcome is how a submit resolved.
type Outcome int

const (
	// OutcomeRejected means nothing was sent: empty input or a request already pending.
	OutcomeRejected Outcome = iota
	OutcomeReplied
	OutcomeProcessingError
	OutcomeConnectionError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeReplied:
		return "replied"
	case OutcomeProcessingError:
		return "processing_error"
	case OutcomeConnectionError:
		return "connection_error"
	default:
		return "unknown"
	}
}

func newID() string {
	return uuid.NewString()
}
