package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// maxTextLength is the WhatsApp Cloud API message body limit.
const maxTextLength = 4096

// Client sends messages through the WhatsApp Cloud API. The identity is
// the recipient's phone-channel address. Implements domain.Messenger.
type Client struct {
	accessToken   string
	phoneNumberID string
	apiVersion    string
	client        *http.Client
}

func NewClient(accessToken, phoneNumberID, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = "v17.0"
	}
	return &Client{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		apiVersion:    apiVersion,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, identity, text, mediaURL string) error {
	if text == "" && mediaURL == "" {
		return nil
	}
	if len(text) > maxTextLength {
		text = text[:maxTextLength-3] + "..."
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                identity,
	}
	if mediaURL != "" {
		payload["type"] = "image"
		payload["image"] = map[string]string{"link": mediaURL, "caption": text}
	} else {
		payload["type"] = "text"
		payload["text"] = map[string]string{"body": text}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	reqURL := fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
