package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvarov/ishbot/internal/bot/handlers"
	"github.com/anvarov/ishbot/internal/config"
	"github.com/anvarov/ishbot/internal/database"
	"github.com/anvarov/ishbot/internal/vacancy"
)

// Notifier sends vacancy-related messages to moderator chats, the public
// channel, and submitters. Every outbound call is bounded by the configured
// send timeout; a timeout is reported as a delivery failure, never as a
// reason to block unrelated work.
type Notifier struct {
	bot              *tgbot.Bot
	moderatorChatIDs []int64
	channelChatID    int64
	sendTimeout      time.Duration
	logger           *slog.Logger
}

var _ vacancy.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier over a connected bot instance.
func NewNotifier(b *tgbot.Bot, cfg *config.Config, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		bot:              b,
		moderatorChatIDs: cfg.Telegram.ModeratorChatIDs,
		channelChatID:    cfg.Telegram.ChannelChatID,
		sendTimeout:      cfg.Telegram.SendTimeout,
		logger:           logger.With("component", "notifier"),
	}
}

// NotifyModerators sends the vacancy with approve/reject buttons to every
// moderator chat. Each recipient is attempted independently; one failed
// send never aborts the rest. The returned map holds the message IDs of
// the sends that succeeded, alongside a joined error for the ones that
// did not.
func (n *Notifier) NotifyModerators(ctx context.Context, v *database.Vacancy) (map[int64]int, error) {
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "✅ Approve", CallbackData: handlers.ApproveCallback(v.ID)},
			{Text: "❌ Reject", CallbackData: handlers.RejectCallback(v.ID)},
		}},
	}

	refs := make(map[int64]int, len(n.moderatorChatIDs))
	var errs []error

	for _, chatID := range n.moderatorChatIDs {
		msg, err := n.send(ctx, func(ctx context.Context) (*models.Message, error) {
			return n.bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID:      chatID,
				Text:        vacancy.FormatVacancy(v),
				ReplyMarkup: keyboard,
			})
		})
		if err != nil {
			n.logger.ErrorContext(ctx, "Failed to send vacancy to moderator chat",
				"vacancy_id", v.ID, "chat_id", chatID, "error", err)
			errs = append(errs, fmt.Errorf("moderator chat %d: %w", chatID, err))
			continue
		}
		refs[chatID] = msg.ID
	}

	return refs, errors.Join(errs...)
}

// Publish posts the vacancy to the public channel as a photo with the
// formatted caption and hashtag line, returning the message ID.
func (n *Notifier) Publish(ctx context.Context, v *database.Vacancy) (int, error) {
	msg, err := n.send(ctx, func(ctx context.Context) (*models.Message, error) {
		return n.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:  n.channelChatID,
			Photo:   &models.InputFileString{Data: vacancy.ImageURL(v.Category)},
			Caption: vacancy.PublicationCaption(v),
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to publish vacancy %d to channel: %w", v.ID, err)
	}

	n.logger.InfoContext(ctx, "Vacancy published to channel", "vacancy_id", v.ID, "message_id", msg.ID)
	return msg.ID, nil
}

// MarkPublicationFilled overlays the filled notice on the published post.
func (n *Notifier) MarkPublicationFilled(ctx context.Context, v *database.Vacancy) error {
	if !v.GroupMessageID.Valid {
		return fmt.Errorf("vacancy %d has no publication message to edit", v.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()

	_, err := n.bot.EditMessageCaption(ctx, &tgbot.EditMessageCaptionParams{
		ChatID:    n.channelChatID,
		MessageID: int(v.GroupMessageID.Int64),
		Caption:   vacancy.FilledCaption(v),
	})
	if err != nil {
		return fmt.Errorf("failed to edit publication caption for vacancy %d: %w", v.ID, err)
	}

	n.logger.InfoContext(ctx, "Publication updated with filled notice",
		"vacancy_id", v.ID, "message_id", v.GroupMessageID.Int64)
	return nil
}

// NotifyDecision tells moderator chats other than the acting one which
// decision was taken, so a shared queue does not get double-worked.
func (n *Notifier) NotifyDecision(ctx context.Context, v *database.Vacancy, actorChatID int64, approved bool) error {
	action := "rejected"
	if approved {
		action = "approved and posted to the channel"
	}
	text := fmt.Sprintf("Vacancy from %s was %s by another moderator.", v.Company, action)

	var errs []error
	for _, chatID := range n.moderatorChatIDs {
		if chatID == actorChatID {
			continue
		}
		_, err := n.send(ctx, func(ctx context.Context) (*models.Message, error) {
			return n.bot.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text})
		})
		if err != nil {
			n.logger.WarnContext(ctx, "Failed to notify moderator chat about decision",
				"vacancy_id", v.ID, "chat_id", chatID, "error", err)
			errs = append(errs, fmt.Errorf("moderator chat %d: %w", chatID, err))
		}
	}

	return errors.Join(errs...)
}

// PromptSubmitter asks the original submitter whether the position was filled.
func (n *Notifier) PromptSubmitter(ctx context.Context, v *database.Vacancy) error {
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "✅ Yes, filled", CallbackData: handlers.FilledCallback(v.ID)},
			{Text: "❌ Not yet", CallbackData: handlers.NotFilledCallback(v.ID)},
		}},
	}

	text := fmt.Sprintf("Have you found someone for the %s vacancy you posted?", v.Company)

	_, err := n.send(ctx, func(ctx context.Context) (*models.Message, error) {
		return n.bot.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      v.UserID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to prompt submitter of vacancy %d: %w", v.ID, err)
	}

	return nil
}

// send runs one outbound call under the configured timeout.
func (n *Notifier) send(ctx context.Context, fn func(ctx context.Context) (*models.Message, error)) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()
	return fn(ctx)
}
