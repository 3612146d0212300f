package tasks_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anvarov/ishbot/internal/bot/tasks"
	"github.com/anvarov/ishbot/internal/config"
	"github.com/anvarov/ishbot/internal/database"
	"github.com/anvarov/ishbot/internal/vacancy"
)

// promptRecorder implements vacancy.Notifier and records follow-up prompts.
type promptRecorder struct {
	mu        sync.Mutex
	prompted  []int64
	promptErr map[int64]error
}

func (r *promptRecorder) NotifyModerators(context.Context, *database.Vacancy) (map[int64]int, error) {
	return nil, nil
}
func (r *promptRecorder) Publish(context.Context, *database.Vacancy) (int, error) { return 0, nil }
func (r *promptRecorder) MarkPublicationFilled(context.Context, *database.Vacancy) error {
	return nil
}
func (r *promptRecorder) NotifyDecision(context.Context, *database.Vacancy, int64, bool) error {
	return nil
}

func (r *promptRecorder) PromptSubmitter(_ context.Context, v *database.Vacancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.promptErr[v.ID]; err != nil {
		return err
	}
	r.prompted = append(r.prompted, v.ID)
	return nil
}

func newTaskDeps(t *testing.T) (tasks.TaskDeps, database.Store, *promptRecorder) {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	store := database.NewStore(db, nil)
	notifier := &promptRecorder{promptErr: make(map[int64]error)}

	cfg := &config.Config{
		Followup: config.FollowupConfig{Window: time.Minute},
	}
	deps := tasks.TaskDeps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:    cfg,
		Store:     store,
		Vacancies: vacancy.NewService(store, notifier, nil),
		Notifier:  notifier,
	}
	return deps, store, notifier
}

// seedVacancy inserts a vacancy, optionally approved at the given time.
func seedVacancy(t *testing.T, store database.Store, approvedAt time.Time, approved bool) *database.Vacancy {
	t.Helper()

	v := &database.Vacancy{
		UserID:   42,
		Username: "submitter",
		Company:  "Acme",
		Category: database.CategoryProgramming,
		Status:   database.StatusPending,
	}
	if err := store.CreateVacancy(context.Background(), v); err != nil {
		t.Fatalf("CreateVacancy returned error: %v", err)
	}
	if approved {
		v.Status = database.StatusApproved
		v.ApprovedAt = sql.NullTime{Time: approvedAt, Valid: true}
		claimed, err := store.ClaimVacancyStatus(context.Background(), v, database.StatusPending)
		if err != nil || !claimed {
			t.Fatalf("failed to approve seed vacancy: claimed=%v err=%v", claimed, err)
		}
	}
	return v
}

func followupTask(t *testing.T, deps tasks.TaskDeps) tasks.ScheduledTaskFunc {
	t.Helper()

	task, ok := tasks.RegisterAllTasks(deps)["followup_sweep"]
	if !ok {
		t.Fatal("followup_sweep task not registered")
	}
	return task
}

func TestFollowupSweepPromptsOnlyRecentApprovals(t *testing.T) {
	t.Parallel()

	deps, store, notifier := newTaskDeps(t)
	now := time.Now().UTC()

	inWindow := seedVacancy(t, store, now.Add(-10*time.Second), true)
	seedVacancy(t, store, now.Add(-70*time.Second), true) // outside the 60s window
	seedVacancy(t, store, time.Time{}, false)             // still pending

	if err := followupTask(t, deps)(context.Background()); err != nil {
		t.Fatalf("follow-up sweep returned error: %v", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.prompted) != 1 || notifier.prompted[0] != inWindow.ID {
		t.Fatalf("expected exactly vacancy %d to be prompted, got %v", inWindow.ID, notifier.prompted)
	}
}

func TestFollowupSweepEmptyWindow(t *testing.T) {
	t.Parallel()

	deps, store, notifier := newTaskDeps(t)
	seedVacancy(t, store, time.Now().UTC().Add(-10*time.Minute), true)

	if err := followupTask(t, deps)(context.Background()); err != nil {
		t.Fatalf("follow-up sweep returned error: %v", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.prompted) != 0 {
		t.Fatalf("expected no prompts, got %v", notifier.prompted)
	}
}

func TestFollowupSweepContinuesPastFailedPrompt(t *testing.T) {
	t.Parallel()

	deps, store, notifier := newTaskDeps(t)
	now := time.Now().UTC()

	failing := seedVacancy(t, store, now.Add(-20*time.Second), true)
	reachable := seedVacancy(t, store, now.Add(-10*time.Second), true)
	notifier.promptErr[failing.ID] = errors.New("submitter blocked the bot")

	err := followupTask(t, deps)(context.Background())
	if err == nil {
		t.Fatal("expected the sweep to report the failed prompt")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.prompted) != 1 || notifier.prompted[0] != reachable.ID {
		t.Fatalf("expected the reachable submitter %d to still be prompted, got %v", reachable.ID, notifier.prompted)
	}
}

func TestFollowupSweepDoesNotChangeStatus(t *testing.T) {
	t.Parallel()

	deps, store, _ := newTaskDeps(t)
	v := seedVacancy(t, store, time.Now().UTC().Add(-10*time.Second), true)

	if err := followupTask(t, deps)(context.Background()); err != nil {
		t.Fatalf("follow-up sweep returned error: %v", err)
	}

	got, err := store.GetVacancyByID(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("GetVacancyByID returned error: %v", err)
	}
	if got.Status != database.StatusApproved {
		t.Fatalf("sweep changed status to %s; status must only change when the submitter answers", got.Status)
	}
}

func TestSQLMaintenanceTaskRegistered(t *testing.T) {
	t.Parallel()

	deps, _, _ := newTaskDeps(t)
	task, ok := tasks.RegisterAllTasks(deps)["sqlite_maintenance"]
	if !ok {
		t.Fatal("sqlite_maintenance task not registered")
	}
	if err := task(context.Background()); err != nil {
		t.Fatalf("maintenance task returned error: %v", err)
	}
}
