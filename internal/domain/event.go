package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

const EventMessageCreated = "message_created"

type WebhookEvent struct {
	Event string     `json:"webhook_event"`
	Body  *EventBody `json:"body"`
}

type EventBody struct {
	MessageID   ID       `json:"message_id"`
	Message     *string  `json:"message"`
	FromAccount *Account `json:"from_account"`
	Room        *Room    `json:"room"`
}

type Account struct {
	AccountID AccountID `json:"account_id"`
	Name      string    `json:"name"`
}

type Room struct {
	Name string `json:"name"`
}

// ID accepts either a JSON number or a JSON string and keeps its textual
// form.
type ID string

type AccountID = ID

func (a *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = ID(n.String())
	return nil
}

func (a ID) String() string {
	return string(a)
}

// Text returns the trimmed message, or "" when none was sent.
func (b *EventBody) Text() string {
	if b == nil || b.Message == nil {
		return ""
	}
	return strings.TrimSpace(*b.Message)
}

const RoleAdmin = "admin"

// Member is one entry of GET /rooms/{room_id}/members.
type Member struct {
	AccountID AccountID `json:"account_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
}

// IsAdmin reports whether accountID holds the admin role among members.
func IsAdmin(members []Member, accountID AccountID) bool {
	for _, m := range members {
		if m.AccountID == accountID && m.Role == RoleAdmin {
			return true
		}
	}
	return false
}
