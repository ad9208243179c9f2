package dataservice

import (
	"context"
	"strconv"

	"warehouse/internal/domain"
)

// ChatbotService is the conversation boundary for the assistant screens.
type ChatbotService interface {
	GetAllConversations(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	GetConversationMessages(ctx context.Context, id string) ([]domain.Record, error)
	SendMessage(ctx context.Context, conversationID, text string) (domain.Record, error)
	CreateConversation(ctx context.Context, title, agentRole string) (string, error)
	DeleteConversation(ctx context.Context, id string) error
}

type chatbotREST struct {
	c *Client
}

func NewChatbotService(c *Client) ChatbotService { return chatbotREST{c: c} }

func (s chatbotREST) GetAllConversations(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	return s.c.List(ctx, "/chatbot/conversations", q)
}

func (s chatbotREST) GetConversationMessages(ctx context.Context, id string) ([]domain.Record, error) {
	res, err := s.c.List(ctx, "/chatbot/conversations/"+id+"/messages", domain.ListQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s chatbotREST) SendMessage(ctx context.Context, conversationID, text string) (domain.Record, error) {
	rec, err := s.c.Create(ctx, "/chatbot/conversations/"+conversationID+"/messages",
		domain.Record{"text": text})
	if err != nil {
		return nil, err
	}
	// Some deployments wrap the created message in {message: {...}}.
	if inner, ok := rec["message"].(map[string]any); ok {
		return domain.Record(inner), nil
	}
	return rec, nil
}

func (s chatbotREST) CreateConversation(ctx context.Context, title, agentRole string) (string, error) {
	rec, err := s.c.Create(ctx, "/chatbot/conversations",
		domain.Record{"title": title, "agent_role": agentRole})
	if err != nil {
		return "", err
	}
	for _, key := range []string{"conversation_id", "id"} {
		if id := stringID(rec[key]); id != "" {
			return id, nil
		}
	}
	return "", domain.NetworkError{Msg: "upstream returned no conversation id"}
}

// stringID tolerates numeric ids from upstreams that don't quote them.
func stringID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func (s chatbotREST) DeleteConversation(ctx context.Context, id string) error {
	return s.c.Delete(ctx, "/chatbot/conversations/"+id)
}
