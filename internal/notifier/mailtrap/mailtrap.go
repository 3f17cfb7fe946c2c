// Package mailtrap delivers mail through the Mailtrap send API.
package mailtrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/identops/identity-server/internal/model"
)

var _ model.Notifier = (*Client)(nil)

// Client posts messages to the Mailtrap HTTP API.
type Client struct {
	apiURL    string
	apiKey    string
	fromEmail string
	fromName  string
	http      *http.Client
}

// NewClient creates a mail client with the given API endpoint and sender.
func NewClient(apiURL, apiKey, fromEmail, fromName string) *Client {
	return &Client{
		apiURL:    apiURL,
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From    recipient   `json:"from"`
	To      []recipient `json:"to"`
	Subject string      `json:"subject"`
	HTML    string      `json:"html,omitempty"`
}

// Send delivers a single HTML message. A non-2xx API response is an error.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(sendRequest{
		From:    recipient{Email: c.fromEmail, Name: c.fromName},
		To:      []recipient{{Email: to}},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail API returned status: %d", resp.StatusCode)
	}

	return nil
}
