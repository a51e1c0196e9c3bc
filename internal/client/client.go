// Package client is the CLI's HTTP client for the dashboard API. Every
// protected call attaches the cached bearer credential; a missing or
// expired credential fails fast without touching the network.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sysboard/internal/session"
	"sysboard/internal/sysmon"
)

var ErrNotAuthenticated = errors.New("not authenticated: run 'sysboardctl login'")

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Cache
}

func New(baseURL string, sess *session.Cache) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: sess,
	}
}

type authResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type apiError struct {
	Error string `json:"error"`
}

// Login exchanges credentials for a bearer token and caches it.
func (c *Client) Login(ctx context.Context, email, password string) (time.Time, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return time.Time{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, decodeError(resp)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return time.Time{}, fmt.Errorf("login: decode response: %w", err)
	}

	c.session.SetToken(ctx, auth.AccessToken)
	return auth.ExpiresAt, nil
}

// Logout drops the cached credential. The server keeps no session state.
func (c *Client) Logout(ctx context.Context) {
	c.session.RemoveToken(ctx)
}

func (c *Client) Services(ctx context.Context) ([]sysmon.Service, error) {
	var envelope struct {
		Services []sysmon.Service `json:"services"`
		Total    int              `json:"total"`
	}
	if err := c.get(ctx, "/api/services", &envelope); err != nil {
		return nil, err
	}
	return envelope.Services, nil
}

// ServiceAction runs start, stop or restart and returns the server message.
func (c *Client) ServiceAction(ctx context.Context, name, action string) (string, error) {
	var result struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	path := "/api/services/" + name + "/" + action
	if err := c.do(ctx, http.MethodPost, path, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *Client) ServiceLogs(ctx context.Context, name string, lines int) (string, error) {
	var result struct {
		Logs string `json:"logs"`
	}
	path := "/api/services/" + name + "/logs?lines=" + strconv.Itoa(lines)
	if err := c.get(ctx, path, &result); err != nil {
		return "", err
	}
	return result.Logs, nil
}

func (c *Client) Containers(ctx context.Context, all bool) ([]sysmon.Container, error) {
	var envelope struct {
		Containers []sysmon.Container `json:"containers"`
		Total      int                `json:"total"`
	}
	path := "/api/containers?all=" + strconv.FormatBool(all)
	if err := c.get(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Containers, nil
}

func (c *Client) ContainerAction(ctx context.Context, id, action string) (string, error) {
	var result struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	path := "/api/containers/" + id + "/" + action
	if err := c.do(ctx, http.MethodPost, path, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *Client) ContainerLogs(ctx context.Context, id string, lines int) (string, error) {
	var result struct {
		Logs string `json:"logs"`
	}
	path := "/api/containers/" + id + "/logs?lines=" + strconv.Itoa(lines)
	if err := c.get(ctx, path, &result); err != nil {
		return "", err
	}
	return result.Logs, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	raw, ok := c.session.Token(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+raw)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Server rejected the credential; drop the stale copy.
		c.session.RemoveToken(ctx)
		return ErrNotAuthenticated
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("server: %s (%s)", apiErr.Error, resp.Status)
	}
	return fmt.Errorf("server: %s", resp.Status)
}
