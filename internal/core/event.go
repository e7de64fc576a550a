package core

// EventTypeChat is the only event type currently carried in history. The
// field exists on the wire so clients can introduce new types without a
// breaking change.
const EventTypeChat = "chat"

// ChatEvent is a single chat message, both as it travels on the wire and as
// it is retained in history. Events are immutable once accepted.
type ChatEvent struct {
	SenderID   string `json:"senderId"`
	SenderNick string `json:"senderNick"`
	Body       string `json:"body"`
	EventType  string `json:"eventType"`
	Room       string `json:"room"`
	Timestamp  int64  `json:"timestamp"`
}

// Validate checks the boundary schema: required string fields present and the
// event type recognised. It normalises an empty event type to "chat" and
// stamps a missing timestamp with now (seconds). Identity attribution is the
// hub's job, not Validate's.
func (e *ChatEvent) Validate(now int64) error {
	if e.SenderID == "" || e.SenderNick == "" || e.Body == "" || e.Room == "" {
		return ErrMalformedEvent
	}
	if e.EventType == "" {
		e.EventType = EventTypeChat
	}
	if e.EventType != EventTypeChat {
		return ErrMalformedEvent
	}
	if e.Timestamp <= 0 {
		e.Timestamp = now
	}
	return nil
}

// Outbound is the envelope for every message the service pushes to clients.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// InitInfo is sent to a connection right after it authenticates.
type InitInfo struct {
	UID  string `json:"uid"`
	Nick string `json:"nick"`
}

// JoinNotify announces an identity's first active connection to a room.
type JoinNotify struct {
	Identity string `json:"identity"`
	Nick     string `json:"nick"`
}

// LeaveNotify announces that an identity's last connection has closed.
type LeaveNotify struct {
	Identity string `json:"identity"`
	Nick     string `json:"nick"`
}

// RosterEntry pairs a known identity with its display name for client-side
// roster rendering.
type RosterEntry struct {
	Identity string `json:"identity"`
	Nick     string `json:"nick"`
}
