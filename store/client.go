package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/botanika/portal/models"
)

// ErrUnavailable covers transport failures and malformed responses from the
// announcement store. Callers keep their previous list state when they see it.
var ErrUnavailable = errors.New("announcement store unavailable")

// RejectedError is returned when the store refuses a write (validation or
// server-side failure). The draft must be preserved so the user can correct it.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("announcement rejected by store (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("announcement rejected by store (status %d)", e.Status)
}

// Client talks to the remote announcement store over HTTP.
//
// Search matching semantics (substring vs full-text, case sensitivity) are
// owned by the store; the client forwards the trimmed query verbatim.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a store client. timeout bounds every request so a hung
// store cannot leave a caller loading indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches announcements matching the given filters. category equal to
// models.CategoryAll (or empty) and an empty search each omit the respective
// query parameter; when both are present the store applies them as an AND.
func (c *Client) List(ctx context.Context, category, search string) ([]models.Announcement, error) {
	q := url.Values{}
	if category != "" && category != models.CategoryAll {
		q.Set("category", category)
	}
	if s := strings.TrimSpace(search); s != "" {
		q.Set("search", s)
	}
	endpoint := c.baseURL
	if enc := q.Encode(); enc != "" {
		endpoint += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var items []models.Announcement
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		// Malformed body is treated the same as a transport failure.
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if items == nil {
		items = []models.Announcement{}
	}
	return items, nil
}

// Create submits a new announcement. The store assigns id, date and the
// pending status; the client never sends a status field. Exactly one write is
// issued per call, with no retries.
func (c *Client) Create(ctx context.Context, draft models.Draft) error {
	if draft.Category == "" {
		draft.Category = models.CategoryOther
	}
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: encode draft: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	rej := &RejectedError{Status: resp.StatusCode}
	if b, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(b, &payload) == nil {
			if payload.Error != "" {
				rej.Message = payload.Error
			} else {
				rej.Message = payload.Message
			}
		}
	}
	return rej
}
