package extraction_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/extraction"
	"civicpulse/backend/internal/localization"
	"civicpulse/backend/internal/routing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json untouched", `{"a":1}`, `{"a":1}`},
		{"json fence stripped", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence stripped", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace trimmed", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(extraction.CleanModelJSON([]byte(tc.in))))
		})
	}
}

func TestClient_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		// Models wrap JSON in markdown fences; the client must cope.
		w.Write([]byte("```json\n{\"assistant_reply\":\"Noted.\",\"extracted_data\":{\"issue_type\":\"Garbage\",\"description\":\"overflowing bin\",\"location_text\":\"Main St\"}}\n```"))
	}))
	defer server.Close()

	client := extraction.NewClient(server.URL, "test-key")
	result, err := client.Extract(context.Background(), "overflowing bin on Main St", "English")

	require.NoError(t, err)
	assert.Equal(t, "Noted.", result.AssistantReply)
	require.NotNil(t, result.Extracted)
	assert.Equal(t, "Garbage", result.Extracted.IssueType)
	assert.Equal(t, "Main St", result.Extracted.LocationText)
}

func TestClient_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze-image", r.URL.Path)
		w.Write([]byte(`{"is_civic_issue":true,"issue_type":"Road","description":"deep pothole","location_context":"near crossing","severity":8}`))
	}))
	defer server.Close()

	client := extraction.NewClient(server.URL, "")
	result, err := client.Analyze(context.Background(), "https://cdn.example.com/p.jpg")

	require.NoError(t, err)
	assert.True(t, result.IsCivicIssue)
	assert.Equal(t, "Road", result.IssueType)
	assert.Equal(t, 8, result.Severity)
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := extraction.NewClient(server.URL, "")

	_, err := client.Extract(context.Background(), "hello", "English")
	assert.ErrorIs(t, err, apperrors.ErrExtractionUnavailable)

	_, err = client.Analyze(context.Background(), "https://cdn.example.com/p.jpg")
	assert.ErrorIs(t, err, apperrors.ErrExtractionUnavailable)
}

func TestClient_UnconfiguredIsNilAndUnavailable(t *testing.T) {
	client := extraction.NewClient("", "key")
	assert.Nil(t, client)

	_, err := client.Extract(context.Background(), "hello", "English")
	assert.ErrorIs(t, err, apperrors.ErrExtractionUnavailable)
}

func TestFallback_ClassifiesFromKeywords(t *testing.T) {
	result := extraction.Fallback("the streetlight near my house is broken")

	assert.Equal(t, routing.CategoryStreetlight, result.Extracted.IssueType)
	assert.Equal(t, "the streetlight near my house is broken", result.Extracted.Description)
	assert.Empty(t, result.AssistantReply)
}

func TestAssistant_FallsBackWhenUnavailable(t *testing.T) {
	loc, err := localization.NewLocalizer("")
	require.NoError(t, err)

	assistant := extraction.NewAssistant(nil, loc)
	result := assistant.Reply(context.Background(), "huge pothole on station road", "English")

	require.NotNil(t, result.Extracted)
	assert.Equal(t, routing.CategoryRoad, result.Extracted.IssueType)
	assert.NotEmpty(t, result.AssistantReply)
}

func TestAssistant_PrefersLiveEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"assistant_reply":"Thanks, logging it now."}`))
	}))
	defer server.Close()

	loc, err := localization.NewLocalizer("")
	require.NoError(t, err)

	assistant := extraction.NewAssistant(extraction.NewClient(server.URL, ""), loc)
	result := assistant.Reply(context.Background(), "water leak", "English")

	assert.Equal(t, "Thanks, logging it now.", result.AssistantReply)
}
