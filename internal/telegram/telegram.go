// Package telegram is a thin Bot API publisher: sendMessage and sendPhoto
// with inline URL buttons. Retrying is the caller's concern.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const apiBase = "https://api.telegram.org"

// Button is one inline URL button under a message.
type Button struct {
	Label string
	URL   string
}

// Client publishes to a single chat/channel.
type Client struct {
	token  string
	chatID string
	http   *http.Client
	log    *slog.Logger
}

// New builds a Client with the given request timeout.
func New(token, chatID string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		token:  token,
		chatID: chatID,
		http:   &http.Client{Timeout: timeout},
		log:    log,
	}
}

// SendMessage posts an HTML-formatted text message. Link previews are
// disabled; the inline buttons carry the links instead.
func (c *Client) SendMessage(ctx context.Context, text string, buttons []Button) error {
	payload := map[string]any{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	if markup := keyboard(buttons); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload)
}

// SendPhoto posts a photo by URL with an HTML caption. Captions above the
// Telegram limit are cut.
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string, buttons []Button) error {
	if len([]rune(caption)) > 1024 {
		caption = string([]rune(caption)[:1024])
	}
	payload := map[string]any{
		"chat_id":    c.chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	}
	if markup := keyboard(buttons); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendPhoto", payload)
}

// keyboard renders one button per row, the layout the channel uses.
func keyboard(buttons []Button) map[string]any {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]map[string]string, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []map[string]string{{"text": b.Label, "url": b.URL}})
	}
	return map[string]any{"inline_keyboard": rows}
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", method, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn("close response body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram %s: status %d: %s", method, resp.StatusCode, detail)
	}
	c.log.Debug("telegram call ok", "method", method)
	return nil
}
