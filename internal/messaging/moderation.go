// internal/messaging/moderation.go
// Moderation verdict providers. The engine never analyzes content itself;
// it consumes a flagged/not-flagged verdict from an external collaborator.

package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Moderator returns the external moderation verdict for a message.
type Moderator interface {
	Moderate(ctx context.Context, content string) (flagged bool, err error)
}

// HTTPModerator calls an external moderation service.
type HTTPModerator struct {
	url    string
	client *http.Client
}

// NewHTTPModerator creates a moderator backed by an HTTP verdict endpoint.
func NewHTTPModerator(url string, timeout time.Duration) *HTTPModerator {
	return &HTTPModerator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (m *HTTPModerator) Moderate(ctx context.Context, content string) (bool, error) {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("moderation service returned %d", resp.StatusCode)
	}

	var verdict struct {
		Flagged bool `json:"flagged"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false, err
	}

	return verdict.Flagged, nil
}

// MockModerator implements Moderator for testing
type MockModerator struct {
	FlagAll  bool
	Verdicts []string
}

// NewMockModerator creates a new mock moderator
func NewMockModerator() *MockModerator {
	return &MockModerator{
		Verdicts: make([]string, 0),
	}
}

// Moderate mocks a moderation verdict
func (m *MockModerator) Moderate(ctx context.Context, content string) (bool, error) {
	m.Verdicts = append(m.Verdicts, content)
	return m.FlagAll, nil
}
