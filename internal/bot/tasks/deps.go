// Package tasks implements scheduled tasks for IshBot: the approved-vacancy
// follow-up sweep and periodic database maintenance.
package tasks

import (
	"log/slog"

	"github.com/anvarov/ishbot/internal/config"
	"github.com/anvarov/ishbot/internal/database"
	"github.com/anvarov/ishbot/internal/vacancy"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Vacancies *vacancy.Service
	Notifier  vacancy.Notifier
}
