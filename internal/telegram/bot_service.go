// Package telegram is the Telegram intake channel: citizens report an
// issue to the bot in plain language (optionally with a photo) and the
// bot files the complaint through the same pipeline as the web form.
package telegram

import (
	"context"
	"errors"
	"log"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/extraction"
	"civicpulse/backend/internal/identity"
	"civicpulse/backend/internal/intake"
	"civicpulse/backend/internal/localization"
	"civicpulse/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram reporters are anonymous to the complaint system; the bot chat
// itself is the back-channel for updates.
const reportLanguage = "English"

// BotService receives Telegram updates and routes reports into intake.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Assistant *extraction.Assistant
	Intake    *intake.Service
	Localizer *localization.Localizer
}

// NewBotService creates a new BotService instance.
func NewBotService(token string, assistant *extraction.Assistant, intakeSvc *intake.Service, loc *localization.Localizer) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	return &BotService{
		BotAPI:    bot,
		Assistant: assistant,
		Intake:    intakeSvc,
		Localizer: loc,
	}, nil
}

// Run consumes the update feed until the process exits.
func (b *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range b.BotAPI.GetUpdatesChan(u) {
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
}

func (b *BotService) handleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.reply(msg.Chat.ID, b.Localizer.GetString(reportLanguage, "greeting"))
		}
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	imageURL := b.photoURL(msg)
	if text == "" && imageURL == nil {
		b.reply(msg.Chat.ID, b.Localizer.GetString(reportLanguage, "ask_description"))
		return
	}

	draft := models.ComplaintDraft{Description: text, ImageURL: imageURL}
	if text != "" {
		result := b.Assistant.Reply(context.Background(), text, reportLanguage)
		if result.Extracted != nil {
			draft.IssueType = result.Extracted.IssueType
			if result.Extracted.Description != "" {
				draft.Description = result.Extracted.Description
			}
			draft.LocationText = result.Extracted.LocationText
		}
	}

	complaint, err := b.Intake.Submit(context.Background(), draft, identity.Anonymous())
	if err != nil {
		var ingErr *apperrors.IngestionError
		if errors.As(err, &ingErr) && ingErr.Kind == apperrors.ContentRejected {
			b.reply(msg.Chat.ID, b.Localizer.Sprintf(reportLanguage, "report_rejected", ingErr.Reason))
			return
		}
		log.Printf("ERROR: Telegram report from chat %d failed: %v", msg.Chat.ID, err)
		b.reply(msg.Chat.ID, b.Localizer.GetString(reportLanguage, "report_failed"))
		return
	}

	if complaint.AssignedDepartment != nil {
		b.reply(msg.Chat.ID, b.Localizer.Sprintf(reportLanguage, "report_received", complaint.ID, *complaint.AssignedDepartment))
	} else {
		b.reply(msg.Chat.ID, b.Localizer.Sprintf(reportLanguage, "report_unrouted", complaint.ID))
	}
}

// photoURL resolves the largest attached photo to a public file URL so
// the vision gate can inspect it without re-uploading.
func (b *BotService) photoURL(msg *tgbotapi.Message) *string {
	if len(msg.Photo) == 0 {
		return nil
	}

	best := msg.Photo[len(msg.Photo)-1]
	url, err := b.BotAPI.GetFileDirectURL(best.FileID)
	if err != nil {
		log.Printf("WARNING: Failed to resolve Telegram photo URL: %v", err)
		return nil
	}
	return &url
}

func (b *BotService) reply(chatID int64, text string) {
	if _, err := b.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Failed to send Telegram reply to %d: %v", chatID, err)
	}
}
