package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turbostar190/birthify/internal/usecase"
)

// Client posts a JSON event to an external endpoint for every birthday
// reminder that goes out.
type Client struct {
	URL        string
	AuthToken  string
	HTTPClient *http.Client
}

func NewClient(rawURL string, opts ...func(*Client)) *Client {
	c := &Client{
		URL:        rawURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithAuthToken(token string) func(*Client) {
	return func(c *Client) {
		c.AuthToken = strings.TrimSpace(token)
	}
}

func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

func (c *Client) NotifyReminder(ctx context.Context, ev usecase.ReminderEvent) error {
	if c == nil || strings.TrimSpace(c.URL) == "" {
		return errors.New("webhook url is not set")
	}

	payload := struct {
		ChatID int64  `json:"chat_id"`
		Name   string `json:"name"`
		Years  int    `json:"years"`
		Date   string `json:"date"`
	}{ev.ChatID, ev.Name, ev.Years, ev.Date.Format("2006-01-02")}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook non-2xx: %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
