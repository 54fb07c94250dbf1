package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// Client talks to the chat service. It authenticates with username/password,
// keeps the bearer credential in a CredentialStore, and exposes the sync and
// streaming chat calls.
type Client struct {
	baseURL    string
	username   string
	password   string
	creds      *CredentialStore
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		creds:    NewCredentialStore(),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // Long timeout for streaming
		},
	}
}

// Credentials exposes the credential store, for wiring a Refresher.
func (c *Client) Credentials() *CredentialStore { return c.creds }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate obtains a fresh credential and swaps it into the store. Safe
// to call concurrently with in-flight requests.
func (c *Client) Authenticate(ctx context.Context) (Credential, error) {
	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return Credential{}, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return Credential{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to authenticate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Credential{}, decodeError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Credential{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	cred := Credential{
		Token:     tr.AccessToken,
		Subject:   c.username,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Unix(tr.ExpiresAt, 0),
	}
	c.creds.Set(cred)
	return cred, nil
}

// Logout drops the credential. Subsequent calls fail until Authenticate runs
// again.
func (c *Client) Logout() {
	c.creds.Clear()
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Chat sends a message and blocks for the full response.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*domain.ChatResult, error) {
	resp, err := c.postChat(ctx, "/v1/chat", sessionID, message, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var result domain.ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return &result, nil
}

// ChatStream sends a message and returns a channel of stream events. The
// channel closes after the terminal event, or without one if the context is
// canceled or the connection drops mid-stream.
func (c *Client) ChatStream(ctx context.Context, sessionID, message string) (<-chan domain.StreamEvent, error) {
	resp, err := c.postChat(ctx, "/v1/chat/stream", sessionID, message, "text/event-stream")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	events := make(chan domain.StreamEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}
			var ev domain.StreamEvent
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			if ev.Terminal() {
				return
			}
		}
	}()
	return events, nil
}

func (c *Client) postChat(ctx context.Context, path, sessionID, message, accept string) (*http.Response, error) {
	cred, ok := c.creds.Current()
	if !ok {
		return nil, domain.E(domain.KindAuthExpired, "not authenticated")
	}

	body, err := json.Marshal(chatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// ResetSession clears a session's history on the server.
func (c *Client) ResetSession(ctx context.Context, sessionID string) error {
	cred, ok := c.creds.Current()
	if !ok {
		return domain.E(domain.KindAuthExpired, "not authenticated")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/sessions/"+sessionID, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

// decodeError turns a non-200 response into a typed error when the body
// carries the service's error envelope.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Error string           `json:"error"`
		Kind  domain.ErrorKind `json:"kind"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		if envelope.Kind != "" {
			return &domain.Error{Kind: envelope.Kind, Message: envelope.Error}
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, envelope.Error)
	}
	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
}
