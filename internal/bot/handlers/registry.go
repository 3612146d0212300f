package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a handler with its match rule and middleware.
// It encapsulates all information needed to register it with the bot.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllHandlers initializes and returns a map of all bot handlers:
// the /start command, the participant-side intake callbacks, the
// moderator-side decision callbacks, and the submitter follow-up callbacks.
// The plain-text intake handler is registered separately as the bot's
// default handler.
func RegisterAllHandlers(deps *HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	handlers["category"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackCategoryPrefix,
		Handler:     NewCategoryHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["confirm"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackConfirm,
		Handler:     NewConfirmHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
	}
	handlers["restart"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackRestart,
		Handler:     NewRestartHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
	}

	moderatorMiddleware := []tgbot.Middleware{ModeratorOnly(deps)}

	handlers["approve"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackApprovePrefix,
		Handler:     NewApproveHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  moderatorMiddleware,
	}
	handlers["reject"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackRejectPrefix,
		Handler:     NewRejectHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  moderatorMiddleware,
	}

	handlers["filled"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackFilledPrefix,
		Handler:     NewFilledHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["not_filled"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackNotFilledPrefix,
		Handler:     NewNotFilledHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
