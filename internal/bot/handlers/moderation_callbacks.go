package handlers

import (
	"context"
	"errors"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvarov/ishbot/internal/vacancy"
)

// NewApproveHandler returns the callback handler for moderator approve
// buttons (callback data "approve_<id>"). A vacancy that was already
// decided yields an explicit "already decided" response instead of a
// duplicate publication.
func NewApproveHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "approve")

		ref, ok := callbackContext(update)
		if !ok {
			return
		}

		id, err := parseCallbackID(update.CallbackQuery.Data, CallbackApprovePrefix)
		if err != nil {
			log.WarnContext(ctx, "Malformed approve callback", "error", err, "data", update.CallbackQuery.Data)
			return
		}

		_, err = deps.Vacancies.Approve(ctx, id, ref.chatID)
		switch {
		case errors.Is(err, vacancy.ErrInvalidTransition):
			log.InfoContext(ctx, "Approve rejected: vacancy already decided", "vacancy_id", id, "chat_id", ref.chatID)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.AlreadyDecided)
			return
		case errors.Is(err, vacancy.ErrNotFound):
			log.WarnContext(ctx, "Approve rejected: vacancy not found", "vacancy_id", id)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.GeneralError)
			return
		case err != nil:
			log.ErrorContext(ctx, "Failed to approve vacancy", "error", err, "vacancy_id", id)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.GeneralError)
			return
		}

		editCallbackText(ctx, b, log, ref, deps.Config.Messages.ApprovedNotice)
	}
}

// NewRejectHandler returns the callback handler for moderator reject
// buttons (callback data "reject_<id>").
func NewRejectHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "reject")

		ref, ok := callbackContext(update)
		if !ok {
			return
		}

		id, err := parseCallbackID(update.CallbackQuery.Data, CallbackRejectPrefix)
		if err != nil {
			log.WarnContext(ctx, "Malformed reject callback", "error", err, "data", update.CallbackQuery.Data)
			return
		}

		_, err = deps.Vacancies.Reject(ctx, id, ref.chatID)
		switch {
		case errors.Is(err, vacancy.ErrInvalidTransition):
			log.InfoContext(ctx, "Reject rejected: vacancy already decided", "vacancy_id", id, "chat_id", ref.chatID)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.AlreadyDecided)
			return
		case errors.Is(err, vacancy.ErrNotFound):
			log.WarnContext(ctx, "Reject rejected: vacancy not found", "vacancy_id", id)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.GeneralError)
			return
		case err != nil:
			log.ErrorContext(ctx, "Failed to reject vacancy", "error", err, "vacancy_id", id)
			editCallbackText(ctx, b, log, ref, deps.Config.Messages.GeneralError)
			return
		}

		editCallbackText(ctx, b, log, ref, deps.Config.Messages.RejectedNotice)
	}
}
