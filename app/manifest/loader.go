package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Manifests are published either as bare JSON or as a script file that
// assigns the document to a window global.
var scriptWrapperPattern = regexp.MustCompile(`(?is)window\.[A-Z0-9_]+\s*=\s*(\{.*\})\s*;?\s*$`)

type Loader struct {
	httpClient *http.Client
	userAgent  string
}

func NewLoader(userAgent string) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
	}
}

// Fetch retrieves a manifest document from the given URL.
func (l *Loader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return body, nil
}

// ParseSchedule decodes a schedule manifest payload.
func ParseSchedule(payload []byte) (*ScheduleManifest, error) {
	raw, err := extractPayload(payload)
	if err != nil {
		return nil, err
	}
	sm := &ScheduleManifest{}
	if err := json.Unmarshal(raw, sm); err != nil {
		return nil, fmt.Errorf("failed to parse schedule manifest: %w", err)
	}
	return sm, nil
}

// ParseProgram decodes a program manifest payload.
func ParseProgram(payload []byte) (*ProgramManifest, error) {
	raw, err := extractPayload(payload)
	if err != nil {
		return nil, err
	}
	pm := &ProgramManifest{}
	if err := json.Unmarshal(raw, pm); err != nil {
		return nil, fmt.Errorf("failed to parse program manifest: %w", err)
	}
	return pm, nil
}

// extractPayload returns the JSON object inside a payload, unwrapping the
// window-global script form when present.
func extractPayload(payload []byte) ([]byte, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return nil, fmt.Errorf("empty manifest payload")
	}
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}
	if m := scriptWrapperPattern.FindStringSubmatch(trimmed); m != nil {
		return []byte(m[1]), nil
	}
	return nil, fmt.Errorf("manifest payload is neither JSON nor a script wrapper")
}
