// Package instagram is a thin client for the Meta Graph API surface the DM
// worker and conversation service need: listing new direct messages and
// sending replies.
package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// DM is one inbound direct message as returned by the conversations feed.
type DM struct {
	ConversationID     string    `json:"conversation_id"`
	MessageID          string    `json:"message_id"`
	SenderID           string    `json:"sender_id"`
	SenderUsername     string    `json:"sender_username"`
	Text               string    `json:"text"`
	Timestamp          time.Time `json:"timestamp"`
	InstagramAccountID string    `json:"instagram_account_id"`
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
}

type sendMessageResponse struct {
	MessageID string `json:"message_id"`
}

type listDMsResponse struct {
	Data  []DM    `json:"data"`
	After *string `json:"after,omitempty"`
}

// NewClient creates a new Graph API client.
func NewClient(baseURL, accessToken string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// ListNewDMs fetches direct messages for the account newer than the cursor.
// An empty cursor fetches from the beginning of the retention window.
func (c *Client) ListNewDMs(ctx context.Context, accountID, cursor string) ([]DM, string, error) {
	endpoint := fmt.Sprintf("%s/v19.0/%s/conversations?access_token=%s",
		c.baseURL, url.PathEscape(accountID), url.QueryEscape(c.accessToken))
	if cursor != "" {
		endpoint += "&after=" + url.QueryEscape(cursor)
	}

	var result listDMsResponse
	if err := c.doWithRetry(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, cursor, err
	}

	next := cursor
	if result.After != nil {
		next = *result.After
	}
	return result.Data, next, nil
}

// SendMessage sends a text reply into a conversation and returns the external
// message id assigned by the Graph API.
func (c *Client) SendMessage(ctx context.Context, accountID, recipientID, text string) (string, error) {
	endpoint := fmt.Sprintf("%s/v19.0/%s/messages?access_token=%s",
		c.baseURL, url.PathEscape(accountID), url.QueryEscape(c.accessToken))

	reqBody := sendMessageRequest{RecipientID: recipientID, Text: text}
	var result sendMessageResponse
	if err := c.doWithRetry(ctx, http.MethodPost, endpoint, reqBody, &result); err != nil {
		return "", err
	}
	return result.MessageID, nil
}

// doWithRetry performs one JSON round trip with up to three attempts on
// transport errors and 5xx responses.
func (c *Client) doWithRetry(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var lastErr error
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = c.do(ctx, method, endpoint, body, out)
		if lastErr == nil {
			return nil
		}
		var re *retryableError
		if !errors.As(lastErr, &re) {
			return lastErr
		}
		c.logger.Warn("Instagram API call failed, retrying",
			zap.Int("attempt", attempt+1), zap.Error(lastErr))
	}
	return lastErr
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		respBody, _ := io.ReadAll(resp.Body)
		return &retryableError{err: fmt.Errorf("instagram API returned status %d: %s", resp.StatusCode, string(respBody))}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("instagram API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
