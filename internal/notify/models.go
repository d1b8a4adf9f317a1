// Package notify is the explicit notification channel. Services emit events
// through a Publisher; a Worker fans them out to sinks (an in-memory feed
// served over HTTP, the structured log and optionally Kafka).
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

func (l Level) IsValid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}

// Event is one user-facing notification.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Subject   string    `json:"subject,omitempty"`
	Agent     string    `json:"agent,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	At        time.Time `json:"at"`
}

// Sink receives delivered events. Implementations must be safe for use by a
// single worker goroutine; the memory sink is also read concurrently.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

// Filter decides whether an event reaches the inbox at all.
type Filter interface {
	Allow(ctx context.Context, e Event) bool
}

// Subject kinds used by the emitting services. A subject is "<kind>:<id>".
const (
	SubjectClient      = "client"
	SubjectDocument    = "document"
	SubjectApplication = "application"
	SubjectWizard      = "wizard"
	SubjectDeadline    = "deadline"
	SubjectSettings    = "settings"
)

// SubjectKind returns the part of subject before the first colon.
func SubjectKind(subject string) string {
	kind, _, _ := strings.Cut(subject, ":")
	return kind
}

// Notifier is the emitting side services depend on.
type Notifier interface {
	Emit(ctx context.Context, e Event)
}

// Success, Info, Warning and Error build events with the given level.
func Success(title, message, subject string) Event {
	return Event{Level: LevelSuccess, Title: title, Message: message, Subject: subject}
}

func Info(title, message, subject string) Event {
	return Event{Level: LevelInfo, Title: title, Message: message, Subject: subject}
}

func Warning(title, message, subject string) Event {
	return Event{Level: LevelWarning, Title: title, Message: message, Subject: subject}
}

func Error(title, message, subject string) Event {
	return Event{Level: LevelError, Title: title, Message: message, Subject: subject}
}
