package export

import (
	"encoding/json"
	"time"

	"warehouse/internal/domain"
)

// conversationDump is the structured export shape of one message thread.
type conversationDump struct {
	ConversationID string          `json:"conversationId"`
	ExportDate     string          `json:"exportDate"`
	Messages       []domain.Record `json:"messages"`
}

// ConversationJSON serializes a thread with pretty indentation. An empty
// message list is an error, not an empty file.
func ConversationJSON(conversationID string, messages []domain.Record) ([]byte, domain.ActionResult) {
	if len(messages) == 0 {
		return nil, domain.Fail("No messages to export")
	}
	dump := conversationDump{
		ConversationID: conversationID,
		ExportDate:     time.Now().UTC().Format(time.RFC3339),
		Messages:       messages,
	}
	raw, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return nil, domain.FailErr(err)
	}
	return raw, domain.OK(nil)
}
