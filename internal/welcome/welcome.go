// Package welcome implements the content providers invoked when a client
// joins a room. The server forwards whatever they return as a chat line
// from a configured persona; failures simply suppress the extra line.
package welcome

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Static returns a fixed greeting line.
type Static struct {
	Name string
	Text string
}

// Persona returns the attributed sender name.
func (s *Static) Persona() string { return s.Name }

// Welcome formats the configured text for the joining client.
func (s *Static) Welcome(_ context.Context, room, client string) (string, error) {
	if s.Text == "" {
		return fmt.Sprintf("%s, welcome to %s", client, room), nil
	}
	return fmt.Sprintf("%s, %s", client, s.Text), nil
}

// Remote fetches a line from an HTTP endpoint returning {"facts": [...]},
// the shape of the fact-of-the-day service the feature originated with.
type Remote struct {
	Name    string
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// Persona returns the attributed sender name.
func (r *Remote) Persona() string { return r.Name }

// Welcome performs the lookup. Any transport or decode failure is
// returned to the caller, which drops the extra content.
func (r *Remote) Welcome(ctx context.Context, _, client string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build welcome request: %w", err)
	}

	httpClient := r.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch welcome content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("welcome endpoint returned %s", resp.Status)
	}

	var payload struct {
		Facts []string `json:"facts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode welcome content: %w", err)
	}
	if len(payload.Facts) == 0 {
		return "", nil
	}
	return fmt.Sprintf("%s, did you know... %s", client, payload.Facts[0]), nil
}
