package handlers

import (
	"context"
	"errors"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvarov/ishbot/internal/session"
	"github.com/anvarov/ishbot/internal/vacancy"
)

// NewTextHandler returns the default handler for plain text messages. The
// intake button starts a session; any other text feeds the participant's
// active session. Text from participants without a session is a silent
// no-op so the bot stays quiet in unrelated conversations.
func NewTextHandler(deps *HandlerDeps) tgbot.HandlerFunc {
	return textHandler{deps}.Handle
}

type textHandler struct {
	deps *HandlerDeps
}

func (h textHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "intake_text")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.Text == deps.Config.Messages.IntakeButton {
		deps.Sessions.Begin(userID)
		log.InfoContext(ctx, "Intake session started", "user_id", userID)

		_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      chatID,
			Text:        deps.Config.Messages.CategoryPrompt,
			ReplyMarkup: categoryKeyboard(),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send category prompt", "error", err, "chat_id", chatID)
		}
		return
	}

	step, err := deps.Sessions.Input(userID, msg.Text)
	switch {
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrAwaitingSelection):
		// Stray text outside an active free-text step is ignored.
		log.DebugContext(ctx, "Ignoring text without matching session step", "user_id", userID)
		return
	case errors.Is(err, session.ErrEmptyInput):
		sendText(ctx, b, log, chatID, deps.Config.Messages.EmptyInput)
		return
	case err != nil:
		log.ErrorContext(ctx, "Unexpected session input error", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, deps.Config.Messages.GeneralError)
		return
	}

	if step == session.StepConfirm {
		h.sendPreview(ctx, b, log, chatID, userID)
		return
	}

	sendText(ctx, b, log, chatID, h.promptFor(step))
}

// promptFor maps an awaited step to its configured question.
func (h textHandler) promptFor(step session.Step) string {
	msgs := h.deps.Config.Messages
	switch step {
	case session.StepCompany:
		return msgs.CompanyPrompt
	case session.StepTechnology:
		return msgs.TechnologyPrompt
	case session.StepContact:
		return msgs.ContactPrompt
	case session.StepLocation:
		return msgs.LocationPrompt
	case session.StepResponsible:
		return msgs.ResponsiblePrompt
	case session.StepSalary:
		return msgs.SalaryPrompt
	case session.StepNotes:
		return msgs.NotesPrompt
	default:
		return h.deps.Config.Messages.GeneralError
	}
}

func (h textHandler) sendPreview(ctx context.Context, b *tgbot.Bot, log *slog.Logger, chatID, userID int64) {
	_, draft, ok := h.deps.Sessions.Snapshot(userID)
	if !ok {
		return
	}

	text := h.deps.Config.Messages.PreviewHeader + "\n\n" + vacancy.FormatDraft(draft)
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: confirmKeyboard(),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send confirmation preview", "error", err, "chat_id", chatID)
	}
}
