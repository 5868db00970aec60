// Package client talks to a hostlink dashboard server over HTTP and
// WebSocket. All request URLs are derived from a canonical origin produced
// by hostutil.Normalize, so callers can hand it raw host strings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/hostutil"
)

// Client is an API client bound to one canonical origin.
type Client struct {
	origin string
	token  string
	http   *http.Client
}

// New creates a client for the given canonical origin. token may be empty
// for open endpoints like the health check.
func New(origin, token string) *Client {
	return &Client{
		origin: origin,
		token:  token,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// FromConfig normalizes the configured host (falling back as configured)
// and returns a client for the resulting origin.
func FromConfig(cfg *config.Config, token string) *Client {
	return New(hostutil.Normalize(cfg.Server.Host, cfg.Server.Fallback), token)
}

// Origin returns the canonical origin this client talks to.
func (c *Client) Origin() string {
	return c.origin
}

// Health is the /api/health response.
type Health struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Devices int    `json:"devices"`
	Time    string `json:"time"`
}

// Health probes the server's health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/api/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ResolveOrigin asks the server to normalize a host, returning the canonical
// origin and whether the server classified it as local.
func (c *Client) ResolveOrigin(ctx context.Context, host, fallback string) (string, bool, error) {
	var resp struct {
		Origin string `json:"origin"`
		Local  bool   `json:"local"`
	}
	body := map[string]string{"host": host, "fallback": fallback}
	if err := c.postJSON(ctx, "/api/origin", body, &resp); err != nil {
		return "", false, err
	}
	return resp.Origin, resp.Local, nil
}

// InitiatePair asks the server for a new pairing code. Returns the code and
// the externally reachable origin to embed in the QR payload.
func (c *Client) InitiatePair(ctx context.Context, name string) (code, origin string, err error) {
	var resp struct {
		Code   string `json:"code"`
		Origin string `json:"origin"`
	}
	if err := c.postJSON(ctx, "/api/pair/initiate", map[string]string{"name": name}, &resp); err != nil {
		return "", "", err
	}
	return resp.Code, resp.Origin, nil
}

// PairStatus reports whether the pairing code has been claimed.
func (c *Client) PairStatus(ctx context.Context, code string) (claimed bool, deviceName string, err error) {
	var resp struct {
		Claimed    bool   `json:"claimed"`
		DeviceName string `json:"device_name"`
	}
	if err := c.getJSON(ctx, "/api/pair/status?code="+code, &resp); err != nil {
		return false, "", err
	}
	return resp.Claimed, resp.DeviceName, nil
}

// Event mirrors the server's event stream messages.
type Event struct {
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
	Uptime  string    `json:"uptime,omitempty"`
	Devices int       `json:"devices,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Events connects to the server's WebSocket endpoint and streams events
// until ctx is cancelled or the connection drops, after which the returned
// channel is closed.
func (c *Client) Events(ctx context.Context) (<-chan Event, error) {
	wsURL := hostutil.WebSocketURL(c.origin, "/api/ws")
	if c.token != "" {
		wsURL += "?token=" + c.token
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", wsURL, err)
	}

	ch := make(chan Event)
	go func() {
		defer close(ch)
		defer conn.Close()

		// Close the connection when ctx ends so the read loop unblocks.
		go func() {
			<-ctx.Done()
			conn.Close()
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var e Event
			if err := json.Unmarshal(data, &e); err != nil {
				continue
			}
			select {
			case ch <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.origin+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.origin+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d)", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
