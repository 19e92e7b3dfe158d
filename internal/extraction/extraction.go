// Package extraction wraps the external text/vision AI service and
// normalizes its answers into complaint fields. The models themselves are
// black boxes; this package only enforces their I/O contract, the call
// timeout, and the keyword fallback used when the service is down.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/config"
	"civicpulse/backend/internal/routing"
)

// ExtractedFields is the structured complaint data pulled out of a
// citizen's message.
type ExtractedFields struct {
	IssueType    string `json:"issue_type"`
	Description  string `json:"description"`
	LocationText string `json:"location_text"`
}

// ChatResult is the assistant's answer for one conversational turn.
type ChatResult struct {
	AssistantReply string           `json:"assistant_reply"`
	Extracted      *ExtractedFields `json:"extracted_data,omitempty"`
}

// VisionResult is the normalized vision verdict for an evidence image.
type VisionResult struct {
	IsCivicIssue    bool   `json:"is_civic_issue"`
	IssueType       string `json:"issue_type"`
	Description     string `json:"description"`
	LocationContext string `json:"location_context"`
	// Severity is on a 0..10 scale; the intake pipeline maps it to a
	// priority bucket.
	Severity        int    `json:"severity"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Client talks to the AI endpoint over HTTP. The http.Client timeout is
// the caller-visible bound: an unresponsive model cannot stall intake.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a client for the extraction endpoint. An empty
// baseURL yields a nil client, which callers treat as "unconfigured".
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: config.ExtractionTimeout},
	}
}

// Extract asks the text model to answer the citizen in their language and
// pull out structured fields. Transport and decode failures come back as
// ErrExtractionUnavailable so callers fall back to manual fields.
func (c *Client) Extract(ctx context.Context, message, language string) (*ChatResult, error) {
	if c == nil {
		return nil, apperrors.ErrExtractionUnavailable
	}

	payload := map[string]string{"message": message, "language": language}
	var result ChatResult
	if err := c.post(ctx, "/chat", payload, &result); err != nil {
		return nil, err
	}
	if result.AssistantReply == "" {
		return nil, apperrors.ErrExtractionUnavailable
	}
	return &result, nil
}

// Analyze asks the vision model whether the image shows a civic issue.
func (c *Client) Analyze(ctx context.Context, imageURL string) (*VisionResult, error) {
	if c == nil {
		return nil, apperrors.ErrExtractionUnavailable
	}

	payload := map[string]string{"image_url": imageURL}
	var result VisionResult
	if err := c.post(ctx, "/analyze-image", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("ERROR: Extraction call %s failed: %v", path, err)
		return fmt.Errorf("%w: %v", apperrors.ErrExtractionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("ERROR: Extraction call %s returned status %d", path, resp.StatusCode)
		return fmt.Errorf("%w: status %d", apperrors.ErrExtractionUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrExtractionUnavailable, err)
	}

	if err := json.Unmarshal(CleanModelJSON(raw), out); err != nil {
		return fmt.Errorf("%w: bad response: %v", apperrors.ErrExtractionUnavailable, err)
	}
	return nil
}

// CleanModelJSON strips the markdown code fences language models like to
// wrap JSON answers in.
func CleanModelJSON(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}

// Fallback produces a ChatResult from keyword classification alone. Used
// whenever the AI endpoint is unconfigured or unavailable; the citizen's
// own message becomes the description.
func Fallback(message string) *ChatResult {
	category := routing.Classify(message)
	return &ChatResult{
		Extracted: &ExtractedFields{
			IssueType:   category,
			Description: message,
		},
	}
}
