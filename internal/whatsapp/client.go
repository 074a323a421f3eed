// Package whatsapp provides an outbound client for the WhatsApp Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Meta Graph API endpoint for the Cloud API.
	DefaultBaseURL = "https://graph.facebook.com/v21.0"

	// RequestTimeout for outbound message requests
	RequestTimeout = 10 * time.Second
)

// textMessage is the Cloud API payload for a plain text message.
type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// sendResponse is the Cloud API response for a send request.
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	client        *http.Client
	logger        *slog.Logger
	baseURL       string
	accessToken   string
	phoneNumberID string
}

// NewClient creates a Cloud API client for the given business phone number.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(accessToken, phoneNumberID, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		logger:        logger,
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
	}
}

// SendText sends a plain text message to the given recipient phone number.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if to == "" {
		return errors.New("recipient phone number is required")
	}

	msg := textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	msg.Text.Body = body

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read send response: %w", err)
	}

	var sendResp sendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		c.logger.Error("failed to parse send response", "body", string(respBody), "error", err)
		return fmt.Errorf("failed to parse send response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("message send failed", "status", resp.StatusCode, "error", sendResp.Error.Message)
		return fmt.Errorf("message send failed (%d): %s", resp.StatusCode, sendResp.Error.Message)
	}

	if len(sendResp.Messages) > 0 {
		c.logger.Info("message sent", "messageId", sendResp.Messages[0].ID)
	}
	return nil
}
