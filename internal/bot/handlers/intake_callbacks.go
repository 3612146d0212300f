package handlers

import (
	"context"
	"errors"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvarov/ishbot/internal/session"
)

// NewCategoryHandler returns the callback handler for category selection
// buttons (callback data "category_<tag>").
func NewCategoryHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "category")

		ref, ok := callbackContext(update)
		if !ok {
			return
		}

		tag := strings.TrimPrefix(update.CallbackQuery.Data, CallbackCategoryPrefix)
		err := deps.Sessions.SetCategory(ref.userID, tag)
		switch {
		case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrAwaitingSelection):
			// A stale button press after the session moved on or was cleared.
			log.DebugContext(ctx, "Ignoring category selection without matching session", "user_id", ref.userID)
			return
		case errors.Is(err, session.ErrInvalidCategory):
			log.WarnContext(ctx, "Received unknown category tag", "user_id", ref.userID, "tag", tag)
			return
		case err != nil:
			log.ErrorContext(ctx, "Failed to record category selection", "error", err, "user_id", ref.userID)
			return
		}

		editCallbackText(ctx, b, log, ref, deps.Config.Messages.CategoryChosen)
		sendText(ctx, b, log, ref.chatID, deps.Config.Messages.CompanyPrompt)
	}
}

// NewConfirmHandler returns the callback handler for the confirm button on
// the intake preview. The session is cleared whether or not the create
// succeeds, so a failure never leaves the participant stuck mid-form.
func NewConfirmHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "confirm")

		ref, ok := callbackContext(update)
		if !ok {
			return
		}

		var username string
		if update.CallbackQuery.From.Username != "" {
			username = update.CallbackQuery.From.Username
		}

		draft, err := deps.Sessions.Confirm(ref.userID)
		switch {
		case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrNotConfirmable):
			log.DebugContext(ctx, "Ignoring confirm without a confirmable session", "user_id", ref.userID)
			return
		case errors.Is(err, session.ErrIncompleteDraft):
			log.WarnContext(ctx, "Confirm attempted with incomplete draft", "user_id", ref.userID)
			sendText(ctx, b, log, ref.chatID, deps.Config.Messages.CreateFailed)
			return
		case err != nil:
			log.ErrorContext(ctx, "Failed to confirm session", "error", err, "user_id", ref.userID)
			sendText(ctx, b, log, ref.chatID, deps.Config.Messages.GeneralError)
			return
		}

		if _, err := deps.Vacancies.Create(ctx, draft, ref.userID, username); err != nil {
			log.ErrorContext(ctx, "Failed to create vacancy from confirmed draft", "error", err, "user_id", ref.userID)
			sendText(ctx, b, log, ref.chatID, deps.Config.Messages.CreateFailed)
			return
		}

		editCallbackText(ctx, b, log, ref, deps.Config.Messages.Confirmed)
		sendText(ctx, b, log, ref.chatID, deps.Config.Messages.SentForReview)
	}
}

// NewRestartHandler returns the callback handler for the restart button. It
// discards the draft and re-enters the category step.
func NewRestartHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "restart")

		ref, ok := callbackContext(update)
		if !ok {
			return
		}

		deps.Sessions.Restart(ref.userID)
		log.InfoContext(ctx, "Intake session restarted", "user_id", ref.userID)

		editCallbackText(ctx, b, log, ref, deps.Config.Messages.Restarted)

		_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      ref.chatID,
			Text:        deps.Config.Messages.CategoryPrompt,
			ReplyMarkup: categoryKeyboard(),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send category prompt after restart", "error", err, "chat_id", ref.chatID)
		}
	}
}
