package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/export"
	"warehouse/internal/notify"
	"warehouse/internal/staged"
)

const (
	secConversations = "conversations"
	secMessages      = "messages"
)

// ChatbotData drives the assistant screen: the conversation list, the active
// conversation's messages, and message sending with optimistic echo.
//
// Optimistic messages carry a generated local id (never a server id) so the
// ack can swap them out atomically even when two sends land in the same
// instant.
type ChatbotData struct {
	Svc      dataservice.ChatbotService
	Notifier notify.Notifier
	Session  domain.Session

	loader *staged.Loader

	mu     sync.Mutex
	active string
}

func NewChatbotData(svc dataservice.ChatbotService, notifier notify.Notifier, session domain.Session) *ChatbotData {
	d := &ChatbotData{Svc: svc, Notifier: notifier, Session: session}

	d.loader = staged.NewLoader(
		staged.Section{Name: secConversations, Phase: staged.PhaseBasic, Critical: true, Fetch: func(ctx context.Context) (any, error) {
			res, err := svc.GetAllConversations(ctx, domain.ListQuery{})
			if err != nil {
				return nil, err
			}
			return res.Items, nil
		}},
		staged.Section{Name: secMessages, Phase: staged.PhaseOnDemand, Fetch: func(ctx context.Context) (any, error) {
			id := d.ActiveConversation()
			if id == "" {
				return []domain.Record{}, nil
			}
			msgs, err := svc.GetConversationMessages(ctx, id)
			if err != nil {
				return nil, err
			}
			return msgs, nil
		}},
	)
	return d
}

// Load fetches the conversation list. Messages wait for a selection.
func (d *ChatbotData) Load(ctx context.Context) { d.loader.Load(ctx) }

func (d *ChatbotData) RefreshAll(ctx context.Context) {
	d.loader.RefreshBasic(ctx)
	if d.ActiveConversation() != "" {
		d.loader.LoadSection(ctx, secMessages)
	}
}

func (d *ChatbotData) Close() { d.loader.Close() }

func (d *ChatbotData) Snapshot() staged.Snapshot { return d.loader.Snapshot() }

func (d *ChatbotData) ActiveConversation() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Conversations returns the current conversation list.
func (d *ChatbotData) Conversations() []domain.Record {
	if recs, ok := d.loader.Data(secConversations).([]domain.Record); ok {
		return recs
	}
	return nil
}

// Messages returns the active conversation's messages.
func (d *ChatbotData) Messages() []domain.Record {
	if recs, ok := d.loader.Data(secMessages).([]domain.Record); ok {
		return recs
	}
	return nil
}

// SelectConversation switches the active conversation and loads its
// messages. The stale conversation's messages are cleared first so the view
// never shows another conversation's thread.
func (d *ChatbotData) SelectConversation(ctx context.Context, id string) {
	d.mu.Lock()
	d.active = id
	d.mu.Unlock()
	d.loader.Set(secMessages, []domain.Record{})
	if id != "" {
		d.loader.LoadSection(ctx, secMessages)
	}
}

// SendMessage appends a pending local echo, sends, then atomically swaps the
// echo for the server's record. On failure the echo is removed again.
func (d *ChatbotData) SendMessage(ctx context.Context, text string) domain.ActionResult {
	convID := d.ActiveConversation()
	if convID == "" {
		return domain.Fail("no active conversation")
	}
	if text == "" {
		return domain.ActionResult{
			Success:          false,
			Error:            "message text is required",
			ValidationErrors: map[string]string{"text": "cannot be empty"},
		}
	}

	localID := "local-" + uuid.NewString()
	pending := domain.Record{
		"local_id": localID,
		"text":     text,
		"sender":   "user",
		"pending":  true,
	}
	d.loader.Update(secMessages, func(old any) any {
		msgs, _ := old.([]domain.Record)
		out := make([]domain.Record, len(msgs), len(msgs)+1)
		copy(out, msgs)
		return append(out, pending)
	})

	rec, err := d.Svc.SendMessage(ctx, convID, text)
	if err != nil {
		d.loader.Update(secMessages, func(old any) any {
			msgs, _ := old.([]domain.Record)
			return withoutLocal(msgs, localID)
		})
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Message failed to send", Description: err.Error()})
		return actionFailure(err)
	}

	d.loader.Update(secMessages, func(old any) any {
		msgs, _ := old.([]domain.Record)
		out := make([]domain.Record, 0, len(msgs))
		swapped := false
		for _, m := range msgs {
			if m.String("local_id") == localID {
				out = append(out, rec)
				swapped = true
				continue
			}
			out = append(out, m)
		}
		if !swapped {
			out = append(out, rec)
		}
		return out
	})
	return domain.OK(rec)
}

func withoutLocal(msgs []domain.Record, localID string) []domain.Record {
	out := make([]domain.Record, 0, len(msgs))
	for _, m := range msgs {
		if m.String("local_id") == localID {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CreateConversation opens a new conversation and makes it active.
func (d *ChatbotData) CreateConversation(ctx context.Context, title, agentRole string) domain.ActionResult {
	id, err := d.Svc.CreateConversation(ctx, title, agentRole)
	if err != nil {
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Could not create conversation", Description: err.Error()})
		return actionFailure(err)
	}

	d.mu.Lock()
	d.active = id
	d.mu.Unlock()
	d.loader.Set(secMessages, []domain.Record{})
	d.loader.RefreshBasic(ctx)

	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Conversation created"})
	return domain.OK(domain.Record{"conversation_id": id})
}

// DeleteConversation removes a conversation. Deleting the active one clears
// the selection and resets the message thread.
func (d *ChatbotData) DeleteConversation(ctx context.Context, id string) domain.ActionResult {
	if err := d.Svc.DeleteConversation(ctx, id); err != nil {
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Could not delete conversation", Description: err.Error()})
		return actionFailure(err)
	}

	d.loader.Update(secConversations, func(old any) any {
		convs, _ := old.([]domain.Record)
		out := make([]domain.Record, 0, len(convs))
		for _, c := range convs {
			if conversationID(c) == id {
				continue
			}
			out = append(out, c)
		}
		return out
	})

	d.mu.Lock()
	wasActive := d.active == id
	if wasActive {
		d.active = ""
	}
	d.mu.Unlock()
	if wasActive {
		d.loader.Set(secMessages, []domain.Record{})
	}

	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Conversation deleted"})
	return domain.OK(nil)
}

func conversationID(rec domain.Record) string {
	if id := recordID(rec, "conversation_id"); id != "" {
		return id
	}
	return recordID(rec, "id")
}

// ExportConversation serializes the active thread to pretty JSON. An empty
// thread fails without producing a file.
func (d *ChatbotData) ExportConversation() ([]byte, domain.ActionResult) {
	convID := d.ActiveConversation()
	if convID == "" {
		return nil, domain.Fail("no active conversation")
	}
	return export.ConversationJSON(convID, d.Messages())
}
