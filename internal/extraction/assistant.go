package extraction

import (
	"context"
	"errors"
	"log"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/localization"
)

// Assistant is the conversational intake front: it prefers the AI
// endpoint and silently degrades to the keyword classifier, answering in
// the citizen's chosen language either way.
type Assistant struct {
	Client    *Client
	Localizer *localization.Localizer
}

func NewAssistant(client *Client, loc *localization.Localizer) *Assistant {
	return &Assistant{Client: client, Localizer: loc}
}

// Reply processes one conversational turn. It never fails: extraction
// unavailability triggers the fallback path instead of an error.
func (a *Assistant) Reply(ctx context.Context, message, language string) *ChatResult {
	if result, err := a.Client.Extract(ctx, message, language); err == nil {
		return result
	} else if !errors.Is(err, apperrors.ErrExtractionUnavailable) {
		log.Printf("WARNING: Unexpected extraction error, using fallback: %v", err)
	}

	result := Fallback(message)
	result.AssistantReply = a.Localizer.Sprintf(language, "fallback_reply", result.Extracted.IssueType)
	return result
}
