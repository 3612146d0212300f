package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/anvarov/ishbot/internal/database"
)

// newTestStore opens a fresh migrated SQLite database in a temp directory.
func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func newTestVacancy() *database.Vacancy {
	return &database.Vacancy{
		UserID:            42,
		Username:          "submitter",
		Company:           "Acme",
		Technology:        "Go",
		ContactTelegram:   "@acme_hr",
		Location:          "Tashkent",
		ResponsiblePerson: "Jane",
		Salary:            "$2000",
		AdditionalInfo:    "none",
		Category:          database.CategoryProgramming,
		Status:            database.StatusPending,
	}
}

func TestCreateAndGetVacancy(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	v := newTestVacancy()
	if err := store.CreateVacancy(ctx, v); err != nil {
		t.Fatalf("CreateVacancy returned error: %v", err)
	}
	if v.ID == 0 {
		t.Fatal("expected a generated ID")
	}

	got, err := store.GetVacancyByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVacancyByID returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected the vacancy to be found")
	}
	if got.Company != "Acme" || got.Status != database.StatusPending || got.UserID != 42 {
		t.Fatalf("stored vacancy mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set on create")
	}
}

func TestCreateVacancyValidation(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateVacancy(ctx, nil); err == nil {
		t.Error("expected error for nil vacancy")
	}

	noUser := newTestVacancy()
	noUser.UserID = 0
	if err := store.CreateVacancy(ctx, noUser); err == nil {
		t.Error("expected error for zero user_id")
	}

	noCompany := newTestVacancy()
	noCompany.Company = ""
	if err := store.CreateVacancy(ctx, noCompany); err == nil {
		t.Error("expected error for empty company")
	}
}

func TestGetVacancyByIDNotFound(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	got, err := store.GetVacancyByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetVacancyByID returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing vacancy, got %+v", got)
	}
}

func TestUpdateAdminMessageRefs(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	v := newTestVacancy()
	if err := store.CreateVacancy(ctx, v); err != nil {
		t.Fatalf("CreateVacancy returned error: %v", err)
	}

	// Commit a transition first; the refs write must not disturb it.
	v.Status = database.StatusApproved
	v.ApprovedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if _, err := store.ClaimVacancyStatus(ctx, v, database.StatusPending); err != nil {
		t.Fatalf("ClaimVacancyStatus returned error: %v", err)
	}

	if err := v.SetAdminRefs(map[int64]int{100: 11, 200: 22}); err != nil {
		t.Fatalf("SetAdminRefs returned error: %v", err)
	}
	if err := store.UpdateAdminMessageRefs(ctx, v.ID, v.AdminMessageRefs); err != nil {
		t.Fatalf("UpdateAdminMessageRefs returned error: %v", err)
	}

	got, err := store.GetVacancyByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVacancyByID returned error: %v", err)
	}
	refs, err := got.AdminRefs()
	if err != nil {
		t.Fatalf("AdminRefs returned error: %v", err)
	}
	if refs[100] != 11 || refs[200] != 22 {
		t.Fatalf("unexpected refs after round trip: %v", refs)
	}
	if got.Status != database.StatusApproved || !got.ApprovedAt.Valid {
		t.Fatalf("refs write disturbed status columns: %+v", got)
	}
}

func TestUpdateGroupMessageID(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	v := newTestVacancy()
	if err := store.CreateVacancy(ctx, v); err != nil {
		t.Fatalf("CreateVacancy returned error: %v", err)
	}

	v.Status = database.StatusFilled
	v.FilledAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if _, err := store.ClaimVacancyStatus(ctx, v, database.StatusPending); err != nil {
		t.Fatalf("ClaimVacancyStatus returned error: %v", err)
	}

	if err := store.UpdateGroupMessageID(ctx, v.ID, 5001); err != nil {
		t.Fatalf("UpdateGroupMessageID returned error: %v", err)
	}

	got, err := store.GetVacancyByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVacancyByID returned error: %v", err)
	}
	if !got.GroupMessageID.Valid || got.GroupMessageID.Int64 != 5001 {
		t.Fatalf("unexpected group message id: %+v", got.GroupMessageID)
	}
	if got.Status != database.StatusFilled || !got.FilledAt.Valid {
		t.Fatalf("message id write disturbed status columns: %+v", got)
	}
}

func TestClaimVacancyStatus(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	v := newTestVacancy()
	if err := store.CreateVacancy(ctx, v); err != nil {
		t.Fatalf("CreateVacancy returned error: %v", err)
	}
	if err := v.SetAdminRefs(map[int64]int{100: 11}); err != nil {
		t.Fatalf("SetAdminRefs returned error: %v", err)
	}
	if err := store.UpdateAdminMessageRefs(ctx, v.ID, v.AdminMessageRefs); err != nil {
		t.Fatalf("UpdateAdminMessageRefs returned error: %v", err)
	}

	v.Status = database.StatusApproved
	v.ApprovedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	v.AdminMessageRefs = ""
	claimed, err := store.ClaimVacancyStatus(ctx, v, database.StatusPending)
	if err != nil {
		t.Fatalf("ClaimVacancyStatus returned error: %v", err)
	}
	if !claimed {
		t.Fatal("expected the first claim to win")
	}

	// A second claim against the stale expected status must lose.
	stale := newTestVacancy()
	stale.ID = v.ID
	stale.Status = database.StatusRejected
	claimed, err = store.ClaimVacancyStatus(ctx, stale, database.StatusPending)
	if err != nil {
		t.Fatalf("ClaimVacancyStatus returned error: %v", err)
	}
	if claimed {
		t.Fatal("expected the stale claim to lose")
	}

	got, err := store.GetVacancyByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVacancyByID returned error: %v", err)
	}
	if got.Status != database.StatusApproved {
		t.Fatalf("expected status to remain %s, got %s", database.StatusApproved, got.Status)
	}
	if !got.ApprovedAt.Valid {
		t.Fatal("expected approved_at to be persisted")
	}

	// The claim writes status columns only; previously persisted delivery
	// refs survive even when the claimant's in-memory copy lacks them.
	refs, err := got.AdminRefs()
	if err != nil {
		t.Fatalf("AdminRefs returned error: %v", err)
	}
	if refs[100] != 11 {
		t.Fatalf("claim clobbered admin message refs: %v", refs)
	}
}

func TestGetApprovedVacanciesBetween(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	approve := func(t *testing.T, at time.Time) *database.Vacancy {
		t.Helper()
		v := newTestVacancy()
		if err := store.CreateVacancy(ctx, v); err != nil {
			t.Fatalf("CreateVacancy returned error: %v", err)
		}
		v.Status = database.StatusApproved
		v.ApprovedAt = sql.NullTime{Time: at, Valid: true}
		claimed, err := store.ClaimVacancyStatus(ctx, v, database.StatusPending)
		if err != nil || !claimed {
			t.Fatalf("failed to approve seed vacancy: claimed=%v err=%v", claimed, err)
		}
		return v
	}

	inside := approve(t, now.Add(-30*time.Second))
	atLowerBound := approve(t, now.Add(-60*time.Second))
	tooOld := approve(t, now.Add(-90*time.Second))
	atUpperBound := approve(t, now)

	// A pending vacancy in the window must not surface.
	pending := newTestVacancy()
	if err := store.CreateVacancy(ctx, pending); err != nil {
		t.Fatalf("CreateVacancy returned error: %v", err)
	}

	got, err := store.GetApprovedVacanciesBetween(ctx, now.Add(-60*time.Second), now)
	if err != nil {
		t.Fatalf("GetApprovedVacanciesBetween returned error: %v", err)
	}

	ids := make(map[int64]bool, len(got))
	for _, v := range got {
		ids[v.ID] = true
	}
	if len(got) != 2 || !ids[inside.ID] || !ids[atLowerBound.ID] {
		t.Fatalf("expected exactly the in-window vacancies %d and %d, got %v", inside.ID, atLowerBound.ID, ids)
	}
	if ids[tooOld.ID] {
		t.Error("vacancy older than the window must not surface")
	}
	if ids[atUpperBound.ID] {
		t.Error("the upper bound is exclusive")
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance returned error: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.RunSQLMaintenance(cancelled); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"bot.db", "bot.db"},
		{"file:bot.db", "bot.db"},
		{"file:bot.db?cache=shared&mode=rwc", "bot.db"},
		{"/var/lib/bot/bot.db", "/var/lib/bot/bot.db"},
		{"file:my%20bot.db", "my bot.db"},
	}

	for _, tc := range tests {
		if got := database.ExtractDBNameFromPath(tc.path); got != tc.want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
