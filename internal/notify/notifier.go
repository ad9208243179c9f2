// Package notify is the side-effect channel page controllers report action
// outcomes through. Fire-and-forget; nothing reads a return value.
package notify

import (
	"sync"

	"warehouse/internal/utils"
)

type Type string

const (
	Success Type = "success"
	Error   Type = "error"
	Warning Type = "warning"
	Info    Type = "info"
)

type Notification struct {
	Type        Type   `json:"type"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct {
	RequestID string
}

func (l LogNotifier) Notify(n Notification) {
	msg := n.Message
	if n.Description != "" {
		msg += ": " + n.Description
	}
	utils.LogEvent(l.RequestID, "notify", string(n.Type), msg)
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Discard drops everything. Useful where a controller requires a sink but the
// caller has nowhere to surface it.
type Discard struct{}

func (Discard) Notify(Notification) {}
