// Package handlers contains Telegram bot command, text, and callback
// handlers, along with their registration logic and middleware.
package handlers

import (
	"log/slog"

	"github.com/anvarov/ishbot/internal/config"
	"github.com/anvarov/ishbot/internal/session"
	"github.com/anvarov/ishbot/internal/vacancy"
)

// HandlerDeps provides dependencies for Telegram handlers. The struct is
// shared by pointer so the bot's default handler can be wired before the
// lifecycle service (which needs the bot instance) exists.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Sessions  *session.Manager
	Vacancies *vacancy.Service
}
