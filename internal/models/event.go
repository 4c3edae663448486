package models

type EventKind string

const (
	EventProgramAssigned EventKind = "program-assigned"
	EventMessage         EventKind = "message"
)

// ChangeEvent is an ephemeral, targeted notification. It exists only on the
// wire: if the target has no live connections it is dropped, never queued.
type ChangeEvent struct {
	Kind         EventKind
	TargetUserID string
	Payload      any
}

// NotificationFrame tells a client that program content changed. An empty Day
// means the whole week changed (week copy) and the client should refresh
// every day.
type NotificationFrame struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	Day     string `json:"day"`
	Content string `json:"content"`
}

type MessageFrame struct {
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

const (
	FrameTypeNotification = "notification"
	FrameTypeMessage      = "message"
	FrameTypeError        = "error"
)
