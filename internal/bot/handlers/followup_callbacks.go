package handlers

import (
	"context"
	"errors"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvarov/ishbot/internal/vacancy"
)

// NewFilledHandler returns the callback handler for the submitter reporting
// the position as filled (callback data "filled_<id>").
func NewFilledHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "filled")

		ref, ok := callbackContext(update)
		if !ok {
			return
		}

		id, err := parseCallbackID(update.CallbackQuery.Data, CallbackFilledPrefix)
		if err != nil {
			log.WarnContext(ctx, "Malformed filled callback", "error", err, "data", update.CallbackQuery.Data)
			return
		}

		_, err = deps.Vacancies.MarkFilled(ctx, id)
		switch {
		case errors.Is(err, vacancy.ErrInvalidTransition):
			// Pressing the button twice, or after a moderator action.
			log.InfoContext(ctx, "Filled report ignored: vacancy not in approved state", "vacancy_id", id)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.AlreadyDecided)
			return
		case errors.Is(err, vacancy.ErrNotFound):
			log.WarnContext(ctx, "Filled report for unknown vacancy", "vacancy_id", id)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.GeneralError)
			return
		case err != nil:
			log.ErrorContext(ctx, "Failed to mark vacancy as filled", "error", err, "vacancy_id", id)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.GeneralError)
			return
		}

		editCallbackText(ctx, b, log, ref, deps.Config.Messages.FilledNotice)
	}
}

// NewNotFilledHandler returns the callback handler for the submitter
// reporting the position as still open. No state changes; the vacancy stays
// approved.
func NewNotFilledHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "not_filled")

		ref, ok := callbackContext(update)
		if !ok {
			return
		}

		_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
		if err != nil {
			log.WarnContext(ctx, "Failed to answer callback query", "error", err)
		}

		editCallbackText(ctx, b, log, ref, deps.Config.Messages.StillActiveNotice)
	}
}
