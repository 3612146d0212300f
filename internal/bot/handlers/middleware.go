package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ModeratorOnly creates a middleware that only lets callback queries
// originating from a configured moderator chat through. There is no richer
// auth model: whoever can press buttons in a moderator chat is a moderator.
func ModeratorOnly(deps *HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			ref, ok := callbackContext(update)
			if !ok {
				return
			}

			if !isModeratorChat(deps, ref.chatID) {
				log := deps.Logger.With("middleware", "moderator_only")
				log.WarnContext(ctx, "Moderation action from non-moderator chat",
					"chat_id", ref.chatID, "user_id", ref.userID)

				_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
					Text:            deps.Config.Messages.NotAuthorized,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to answer unauthorized callback", "error", err)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}

func isModeratorChat(deps *HandlerDeps, chatID int64) bool {
	for _, id := range deps.Config.Telegram.ModeratorChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
