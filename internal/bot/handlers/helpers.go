package handlers

import (
	"context"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvarov/ishbot/internal/database"
	"github.com/anvarov/ishbot/internal/session"
)

// Button labels for the category selection keyboard.
var categoryLabels = map[string]string{
	database.CategoryProgramming: "💻 Programming",
	database.CategoryDesign:      "🎨 Design",
	database.CategorySMM:         "📱 SMM",
	database.CategoryOther:       "🔄 Other",
}

// callbackRef identifies the message a callback query originated from.
type callbackRef struct {
	chatID    int64
	messageID int
	userID    int64
}

// callbackContext extracts the chat, message, and sender of a callback
// query. The second return is false when the originating message is
// inaccessible and cannot be edited.
func callbackContext(update *models.Update) (callbackRef, bool) {
	cb := update.CallbackQuery
	if cb == nil {
		return callbackRef{}, false
	}
	if cb.Message.Message == nil {
		return callbackRef{userID: cb.From.ID}, false
	}
	return callbackRef{
		chatID:    cb.Message.Message.Chat.ID,
		messageID: cb.Message.Message.ID,
		userID:    cb.From.ID,
	}, true
}

// editCallbackText replaces the text of the message the callback came from,
// which both acknowledges the action and removes its inline keyboard.
func editCallbackText(ctx context.Context, b *tgbot.Bot, log *slog.Logger, ref callbackRef, text string) {
	_, err := b.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:    ref.chatID,
		MessageID: ref.messageID,
		Text:      text,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to edit callback message", "error", err, "chat_id", ref.chatID, "message_id", ref.messageID)
	}
}

// sendText sends a plain text message, logging delivery failures.
func sendText(ctx context.Context, b *tgbot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// categoryKeyboard builds the inline keyboard offering the vacancy categories.
func categoryKeyboard() *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(session.Categories))
	for _, tag := range session.Categories {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: categoryLabels[tag], CallbackData: CategoryCallback(tag)},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// confirmKeyboard builds the confirm/restart keyboard shown with the preview.
func confirmKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "✅ Confirm", CallbackData: CallbackConfirm}},
			{{Text: "🔄 Start over", CallbackData: CallbackRestart}},
		},
	}
}
