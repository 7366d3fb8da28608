package domain

import (
	"encoding/json"
	"testing"
)

func TestWebhookEventUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		accountID AccountID
		text      string
	}{
		{
			name:      "numeric account id",
			data:      `{"webhook_event":"message_created","body":{"message":" /test \n","from_account":{"account_id":42},"room":{"name":"Ops"}}}`,
			accountID: "42",
			text:      "/test",
		},
		{
			name:      "string account id",
			data:      `{"webhook_event":"message_created","body":{"message":"hi","from_account":{"account_id":"abc"},"room":{"name":"X"}}}`,
			accountID: "abc",
			text:      "hi",
		},
		{
			name:      "null account id and missing message",
			data:      `{"webhook_event":"message_created","body":{"from_account":{"account_id":null},"room":{"name":"X"}}}`,
			accountID: "",
			text:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev WebhookEvent
			if err := json.Unmarshal([]byte(tt.data), &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ev.Event != EventMessageCreated {
				t.Errorf("expected %s, got %s", EventMessageCreated, ev.Event)
			}
			if ev.Body.FromAccount.AccountID != tt.accountID {
				t.Errorf("expected account id %q, got %q", tt.accountID, ev.Body.FromAccount.AccountID)
			}
			if got := ev.Body.Text(); got != tt.text {
				t.Errorf("expected text %q, got %q", tt.text, got)
			}
		})
	}
}

func TestWebhookEventUnmarshal_NoBody(t *testing.T) {
	var ev WebhookEvent
	if err := json.Unmarshal([]byte(`{"webhook_event":"other_event"}`), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Body != nil {
		t.Errorf("expected nil body, got %+v", ev.Body)
	}
	if ev.Body.Text() != "" {
		t.Errorf("expected empty text for nil body")
	}
}

func TestAccountIDUnmarshal_Invalid(t *testing.T) {
	var a AccountID
	if err := json.Unmarshal([]byte(`{"id":1}`), &a); err == nil {
		t.Error("expected error for object account id")
	}
}

func TestIsAdmin(t *testing.T) {
	var members []Member
	data := `[{"account_id":1,"name":"Alice","role":"admin"},{"account_id":2,"name":"Bob","role":"member"},{"account_id":3,"name":"Carol","role":"readonly"}]`
	if err := json.Unmarshal([]byte(data), &members); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	tests := []struct {
		id   AccountID
		want bool
	}{
		{"1", true},
		{"2", false},
		{"3", false},
		{"4", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAdmin(members, tt.id); got != tt.want {
			t.Errorf("IsAdmin(%q): expected %v, got %v", tt.id, tt.want, got)
		}
	}
}

func TestWebhookEventUnmarshal_MessageID(t *testing.T) {
	for _, data := range []string{
		`{"webhook_event":"message_created","body":{"message_id":"1234567890","from_account":{"account_id":1,"name":"Alice"}}}`,
		`{"webhook_event":"message_created","body":{"message_id":1234567890,"from_account":{"account_id":1,"name":"Alice"}}}`,
	} {
		var ev WebhookEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if ev.Body.MessageID != "1234567890" {
			t.Errorf("expected message id 1234567890, got %q", ev.Body.MessageID)
		}
		if ev.Body.FromAccount.Name != "Alice" {
			t.Errorf("expected Alice, got %q", ev.Body.FromAccount.Name)
		}
	}
}
