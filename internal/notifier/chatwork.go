package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"chatworkbot/internal/config"
	"chatworkbot/internal/domain"
)

// maxErrorBody caps how much of an error response is kept for logging.
const maxErrorBody = 4 << 10

// APIError is returned when Chatwork answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("chatwork error: %d", e.StatusCode)
	}
	return fmt.Sprintf("chatwork error: %d: %s", e.StatusCode, e.Body)
}

type Chatwork struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewChatwork(cfg config.ChatworkConfig) *Chatwork {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return &Chatwork{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Chatwork) Notify(ctx context.Context, n Notification) error {
	endpoint := fmt.Sprintf("%s/rooms/%s/messages", c.baseURL, url.PathEscape(n.RoomID))

	body, err := json.Marshal(map[string]string{"body": n.Body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ChatWorkToken", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	log.Info().Str("room_id", n.RoomID).Str("body", n.Body).Msg("message sent")
	return nil
}

// Members lists the members of roomID with their roles.
func (c *Chatwork) Members(ctx context.Context, roomID string) ([]domain.Member, error) {
	endpoint := fmt.Sprintf("%s/rooms/%s/members", c.baseURL, url.PathEscape(roomID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-ChatWorkToken", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get members: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var members []domain.Member
	if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}

	return members, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(payload)),
	}
}
