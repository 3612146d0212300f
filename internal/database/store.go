package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for vacancy persistence.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateVacancy inserts a new vacancy record and sets its generated ID.
	CreateVacancy(ctx context.Context, vacancy *Vacancy) error

	// GetVacancyByID retrieves a vacancy by ID. Returns nil, nil if not found.
	GetVacancyByID(ctx context.Context, id int64) (*Vacancy, error)

	// UpdateAdminMessageRefs persists only the moderator review message refs.
	UpdateAdminMessageRefs(ctx context.Context, id int64, refs string) error

	// UpdateGroupMessageID persists only the publication message ID.
	UpdateGroupMessageID(ctx context.Context, id int64, messageID int64) error

	// ClaimVacancyStatus persists the vacancy's status and status timestamps
	// only if its stored status still equals expected, returning whether the
	// claim won. Concurrent callers racing on the same transition see exactly
	// one true result.
	ClaimVacancyStatus(ctx context.Context, vacancy *Vacancy, expected Status) (bool, error)

	// GetApprovedVacanciesBetween retrieves vacancies with status approved
	// whose approval time falls in [from, to).
	GetApprovedVacanciesBetween(ctx context.Context, from, to time.Time) ([]Vacancy, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateVacancy inserts a new vacancy record and sets its generated ID.
func (s *sqlxStore) CreateVacancy(ctx context.Context, vacancy *Vacancy) error {
	if vacancy == nil {
		return errors.New("cannot save nil vacancy")
	}
	if vacancy.UserID == 0 {
		return errors.New("vacancy must have a non-zero user_id")
	}
	if vacancy.Company == "" {
		return errors.New("vacancy must have a non-empty company")
	}
	if vacancy.Status == "" {
		vacancy.Status = StatusPending
	}

	now := time.Now().UTC()
	vacancy.CreatedAt = now
	vacancy.UpdatedAt = now

	query := `
        INSERT INTO vacancies (
            created_at, updated_at, user_id, username,
            company, technology, contact_telegram, location,
            responsible_person, salary, additional_info, category,
            status, admin_message_refs, group_message_id, approved_at, filled_at
        ) VALUES (
            :created_at, :updated_at, :user_id, :username,
            :company, :technology, :contact_telegram, :location,
            :responsible_person, :salary, :additional_info, :category,
            :status, :admin_message_refs, :group_message_id, :approved_at, :filled_at
        );
    `

	result, err := s.db.NamedExecContext(ctx, query, vacancy)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving vacancy", "user_id", vacancy.UserID, "error", err)
		return fmt.Errorf("failed to save vacancy for user %d: %w", vacancy.UserID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving vacancy",
			"user_id", vacancy.UserID, "error", err)
	} else {
		vacancy.ID = id
	}

	s.logger.DebugContext(ctx, "Vacancy saved successfully",
		"vacancy_id", vacancy.ID, "user_id", vacancy.UserID)
	return nil
}

// GetVacancyByID retrieves a vacancy by ID. Returns nil, nil if not found.
func (s *sqlxStore) GetVacancyByID(ctx context.Context, id int64) (*Vacancy, error) {
	if id == 0 {
		return nil, errors.New("vacancy id cannot be zero")
	}

	var vacancy Vacancy
	query := `SELECT * FROM vacancies WHERE id = ?;`

	err := s.db.GetContext(ctx, &vacancy, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting vacancy", "vacancy_id", id, "error", err)
		return nil, fmt.Errorf("failed to get vacancy %d: %w", id, err)
	}

	return &vacancy, nil
}

// UpdateAdminMessageRefs persists only the moderator review message refs.
// Status columns are untouched: a transition committed by a concurrent
// caller must survive this write.
func (s *sqlxStore) UpdateAdminMessageRefs(ctx context.Context, id int64, refs string) error {
	if id == 0 {
		return errors.New("cannot update vacancy without an id")
	}

	query := `UPDATE vacancies SET updated_at = ?, admin_message_refs = ? WHERE id = ?;`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), refs, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating admin message refs", "vacancy_id", id, "error", err)
		return fmt.Errorf("failed to update admin message refs of vacancy %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating admin message refs",
			"vacancy_id", id, "affected", affected)
	}

	return nil
}

// UpdateGroupMessageID persists only the publication message ID. Like
// UpdateAdminMessageRefs, it never writes status columns.
func (s *sqlxStore) UpdateGroupMessageID(ctx context.Context, id int64, messageID int64) error {
	if id == 0 {
		return errors.New("cannot update vacancy without an id")
	}

	query := `UPDATE vacancies SET updated_at = ?, group_message_id = ? WHERE id = ?;`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), messageID, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating group message id", "vacancy_id", id, "error", err)
		return fmt.Errorf("failed to update group message id of vacancy %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating group message id",
			"vacancy_id", id, "affected", affected)
	}

	return nil
}

// ClaimVacancyStatus persists the vacancy's status and status timestamps
// only if its stored status still equals expected. The conditional WHERE
// clause is what serializes racing transitions on the same record; delivery
// refs are left alone so concurrent writes to them are never clobbered.
func (s *sqlxStore) ClaimVacancyStatus(ctx context.Context, vacancy *Vacancy, expected Status) (bool, error) {
	if vacancy == nil || vacancy.ID == 0 {
		return false, errors.New("cannot claim status for vacancy without an id")
	}

	vacancy.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE vacancies SET
            updated_at = :updated_at,
            status = :status,
            approved_at = :approved_at,
            filled_at = :filled_at
        WHERE id = :id AND status = :expected_status;
    `

	arg := struct {
		*Vacancy
		ExpectedStatus Status `db:"expected_status"`
	}{Vacancy: vacancy, ExpectedStatus: expected}

	result, err := s.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error claiming vacancy status",
			"vacancy_id", vacancy.ID, "expected_status", expected, "new_status", vacancy.Status, "error", err)
		return false, fmt.Errorf("failed to claim status of vacancy %d: %w", vacancy.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for vacancy %d: %w", vacancy.ID, err)
	}

	claimed := affected == 1
	s.logger.DebugContext(ctx, "Vacancy status claim attempted",
		"vacancy_id", vacancy.ID, "expected_status", expected, "new_status", vacancy.Status, "claimed", claimed)
	return claimed, nil
}

// GetApprovedVacanciesBetween retrieves approved vacancies whose approval
// time falls in [from, to).
func (s *sqlxStore) GetApprovedVacanciesBetween(ctx context.Context, from, to time.Time) ([]Vacancy, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var vacancies []Vacancy
	query := `
        SELECT * FROM vacancies
        WHERE status = ? AND approved_at >= ? AND approved_at < ?
        ORDER BY approved_at;
    `

	err := s.db.SelectContext(ctx, &vacancies, query, StatusApproved, from.UTC(), to.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error querying approved vacancies",
			"from", from, "to", to, "error", err)
		return nil, fmt.Errorf("failed to query approved vacancies: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched approved vacancies", "from", from, "to", to, "count", len(vacancies))
	return vacancies, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance failed", "error", err)
		return fmt.Errorf("failed to run VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
