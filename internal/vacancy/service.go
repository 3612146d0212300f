// Package vacancy implements the submission lifecycle: creation, moderation
// decisions, publication, and filled-status tracking. It is the only place
// that couples status changes to persistence and outbound notifications.
package vacancy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/anvarov/ishbot/internal/database"
)

// Draft holds the field values collected during a conversation session,
// before a vacancy record exists.
type Draft struct {
	Category          string
	Company           string
	Technology        string
	ContactTelegram   string
	Location          string
	ResponsiblePerson string
	Salary            string
	AdditionalInfo    string
}

// Notifier is the outbound notification gateway the lifecycle service calls
// on every transition. Implementations must treat each call as best-effort;
// the service never rolls back a committed status change when delivery fails.
type Notifier interface {
	// NotifyModerators sends the vacancy to every moderator chat for review
	// and returns the per-chat message IDs of the sends that succeeded.
	NotifyModerators(ctx context.Context, vacancy *database.Vacancy) (map[int64]int, error)

	// Publish posts the vacancy to the public channel and returns the
	// message ID of the published post.
	Publish(ctx context.Context, vacancy *database.Vacancy) (int, error)

	// MarkPublicationFilled edits the published post to overlay the
	// position-filled notice.
	MarkPublicationFilled(ctx context.Context, vacancy *database.Vacancy) error

	// NotifyDecision tells moderator chats other than the acting one which
	// decision was taken.
	NotifyDecision(ctx context.Context, vacancy *database.Vacancy, actorChatID int64, approved bool) error

	// PromptSubmitter asks the original submitter whether the position was
	// filled.
	PromptSubmitter(ctx context.Context, vacancy *database.Vacancy) error
}

// Service is the authoritative state machine for vacancy statuses.
type Service struct {
	store    database.Store
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a lifecycle service over the given store and notifier.
func NewService(store database.Store, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger.With("component", "vacancy_service"),
		now:      time.Now,
	}
}

// Create persists a new pending vacancy from the draft and fans it out to
// the moderator chats. A fan-out failure is logged but does not fail the
// create; the record exists even if moderators were never notified.
func (s *Service) Create(ctx context.Context, draft Draft, userID int64, username string) (*database.Vacancy, error) {
	vacancy := &database.Vacancy{
		UserID:            userID,
		Username:          username,
		Company:           draft.Company,
		Technology:        draft.Technology,
		ContactTelegram:   draft.ContactTelegram,
		Location:          draft.Location,
		ResponsiblePerson: draft.ResponsiblePerson,
		Salary:            draft.Salary,
		AdditionalInfo:    draft.AdditionalInfo,
		Category:          draft.Category,
		Status:            database.StatusPending,
	}

	if err := s.store.CreateVacancy(ctx, vacancy); err != nil {
		return nil, fmt.Errorf("failed to create vacancy: %w", err)
	}

	refs, err := s.notifier.NotifyModerators(ctx, vacancy)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to notify one or more moderators about new vacancy",
			"vacancy_id", vacancy.ID, "delivered", len(refs), "error", err)
	}

	if len(refs) > 0 {
		if err := vacancy.SetAdminRefs(refs); err != nil {
			s.logger.ErrorContext(ctx, "Failed to encode moderator message refs", "vacancy_id", vacancy.ID, "error", err)
		} else if err := s.store.UpdateAdminMessageRefs(ctx, vacancy.ID, vacancy.AdminMessageRefs); err != nil {
			// Targeted write: a moderator may have decided the vacancy while
			// the fan-out was still in flight, and that transition must stand.
			s.logger.ErrorContext(ctx, "Failed to persist moderator message refs", "vacancy_id", vacancy.ID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "Vacancy created",
		"vacancy_id", vacancy.ID, "user_id", userID, "category", vacancy.Category)
	return vacancy, nil
}

// Approve moves a pending vacancy to approved, publishes it to the channel,
// and best-effort notifies the remaining moderator chats. Approving a
// missing vacancy returns ErrNotFound; approving a non-pending one returns
// ErrInvalidTransition.
func (s *Service) Approve(ctx context.Context, id int64, approverChatID int64) (*database.Vacancy, error) {
	vacancy, err := s.claimTransition(ctx, id, database.StatusApproved)
	if err != nil {
		return nil, err
	}

	messageID, err := s.notifier.Publish(ctx, vacancy)
	if err != nil {
		// The approval is already committed; a failed publication is a
		// delivery problem for an operator to reconcile, not a rollback.
		s.logger.ErrorContext(ctx, "Failed to publish approved vacancy to channel",
			"vacancy_id", vacancy.ID, "error", err)
	} else {
		vacancy.GroupMessageID = sql.NullInt64{Int64: int64(messageID), Valid: true}
		// Targeted write: the submitter may have marked the vacancy filled
		// between the claim and this persist, and that transition must stand.
		if err := s.store.UpdateGroupMessageID(ctx, vacancy.ID, int64(messageID)); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist publication message id",
				"vacancy_id", vacancy.ID, "message_id", messageID, "error", err)
		}
	}

	if err := s.notifier.NotifyDecision(ctx, vacancy, approverChatID, true); err != nil {
		s.logger.WarnContext(ctx, "Failed to notify other moderators about approval",
			"vacancy_id", vacancy.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "Vacancy approved", "vacancy_id", vacancy.ID, "approver_chat_id", approverChatID)
	return vacancy, nil
}

// Reject moves a pending vacancy to rejected and best-effort notifies the
// remaining moderator chats. Guards match Approve.
func (s *Service) Reject(ctx context.Context, id int64, rejecterChatID int64) (*database.Vacancy, error) {
	vacancy, err := s.claimTransition(ctx, id, database.StatusRejected)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyDecision(ctx, vacancy, rejecterChatID, false); err != nil {
		s.logger.WarnContext(ctx, "Failed to notify other moderators about rejection",
			"vacancy_id", vacancy.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "Vacancy rejected", "vacancy_id", vacancy.ID, "rejecter_chat_id", rejecterChatID)
	return vacancy, nil
}

// MarkFilled moves an approved vacancy to filled and overlays the filled
// notice on the published post when one exists. Marking a missing vacancy
// returns ErrNotFound; marking a non-approved one returns ErrInvalidTransition.
func (s *Service) MarkFilled(ctx context.Context, id int64) (*database.Vacancy, error) {
	vacancy, err := s.claimTransition(ctx, id, database.StatusFilled)
	if err != nil {
		return nil, err
	}

	if vacancy.GroupMessageID.Valid {
		if err := s.notifier.MarkPublicationFilled(ctx, vacancy); err != nil {
			s.logger.ErrorContext(ctx, "Failed to update published post with filled notice",
				"vacancy_id", vacancy.ID, "message_id", vacancy.GroupMessageID.Int64, "error", err)
		}
	} else {
		s.logger.WarnContext(ctx, "Vacancy marked filled but has no publication to update", "vacancy_id", vacancy.ID)
	}

	s.logger.InfoContext(ctx, "Vacancy marked as filled", "vacancy_id", vacancy.ID)
	return vacancy, nil
}

// ApprovedBetween returns vacancies approved within [from, to). It is a
// read-only query used by the follow-up sweep.
func (s *Service) ApprovedBetween(ctx context.Context, from, to time.Time) ([]database.Vacancy, error) {
	return s.store.GetApprovedVacanciesBetween(ctx, from, to)
}

// claimTransition loads the vacancy, validates the transition against the
// state machine, stamps the status timestamps, and claims the transition
// with a conditional update. When two callers race, the conditional update
// guarantees exactly one winner; the loser gets ErrInvalidTransition.
func (s *Service) claimTransition(ctx context.Context, id int64, to database.Status) (*database.Vacancy, error) {
	vacancy, err := s.store.GetVacancyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load vacancy %d: %w", id, err)
	}
	if vacancy == nil {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	from := vacancy.Status
	if !CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s (vacancy %d)", ErrInvalidTransition, from, to, id)
	}

	now := s.now().UTC()
	vacancy.Status = to
	switch to {
	case database.StatusApproved:
		vacancy.ApprovedAt = sql.NullTime{Time: now, Valid: true}
	case database.StatusFilled:
		vacancy.FilledAt = sql.NullTime{Time: now, Valid: true}
	}

	claimed, err := s.store.ClaimVacancyStatus(ctx, vacancy, from)
	if err != nil {
		return nil, fmt.Errorf("failed to persist transition of vacancy %d: %w", id, err)
	}
	if !claimed {
		// Someone else transitioned the record between our read and write.
		return nil, fmt.Errorf("%w: %s -> %s (vacancy %d, lost claim)", ErrInvalidTransition, from, to, id)
	}

	return vacancy, nil
}
