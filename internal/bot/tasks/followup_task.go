package tasks

import (
	"context"
	"fmt"
	"time"
)

// newFollowupSweepTask creates the scheduled task that prompts submitters of
// recently approved vacancies to report whether the position was filled.
//
// Each run covers the trailing window [now-W, now). The window W is expected
// to equal the task's tick period so every approved vacancy is visited
// exactly once; both are deployment configuration. The sweep mutates nothing:
// status only changes if the submitter answers the prompt.
func newFollowupSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "followup_sweep")
	window := deps.Config.Followup.Window

	return func(ctx context.Context) error {
		now := time.Now().UTC()
		from := now.Add(-window)

		vacancies, err := deps.Vacancies.ApprovedBetween(ctx, from, now)
		if err != nil {
			return fmt.Errorf("failed to query approved vacancies for follow-up: %w", err)
		}

		if len(vacancies) == 0 {
			log.DebugContext(ctx, "No vacancies approved in window", "from", from, "to", now)
			return nil
		}

		log.InfoContext(ctx, "Sending follow-up prompts", "count", len(vacancies), "from", from, "to", now)

		failures := 0
		for i := range vacancies {
			v := &vacancies[i]
			if err := deps.Notifier.PromptSubmitter(ctx, v); err != nil {
				// One unreachable submitter must not abort the batch.
				log.ErrorContext(ctx, "Failed to send follow-up prompt",
					"vacancy_id", v.ID, "user_id", v.UserID, "error", err)
				failures++
			}
		}

		if failures > 0 {
			return fmt.Errorf("follow-up sweep completed with %d of %d prompts failed", failures, len(vacancies))
		}
		return nil
	}
}
