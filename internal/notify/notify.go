// Package notify dispatches resolution notices to citizens. Dispatch is
// fire-and-forget: failures are logged and reported upward as a warning
// at most, never as an error that could roll back a status change.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Notice is the payload handed to the notification channel.
type Notice struct {
	ComplaintID string `json:"complaint_id"`
	Recipient   string `json:"recipient"`
	FullName    string `json:"full_name"`
	Summary     string `json:"summary"`
}

// Dispatcher delivers resolution notices.
type Dispatcher interface {
	ResolutionNotice(ctx context.Context, notice Notice) error
}

// WebhookDispatcher POSTs notices to a configured webhook (the mail
// relay). An empty URL degrades to log-only delivery, matching local
// development where no relay runs.
type WebhookDispatcher struct {
	URL  string
	http *http.Client
}

func NewWebhookDispatcher(url string) *WebhookDispatcher {
	return &WebhookDispatcher{
		URL:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *WebhookDispatcher) ResolutionNotice(ctx context.Context, notice Notice) error {
	if d.URL == "" {
		log.Printf("INFO: Resolution notice for %s to %s: %s", notice.ComplaintID, notice.Recipient, notice.Summary)
		return nil
	}

	body, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("notification dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification dispatch failed: status %d", resp.StatusCode)
	}
	return nil
}

// Summary renders the one-line resolution message for a complaint.
func Summary(issueType, description string) string {
	return fmt.Sprintf("Your %s report (%q) has been resolved. Thank you for helping improve the city.", issueType, description)
}
