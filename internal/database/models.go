package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the moderation status of a vacancy.
type Status string

// Vacancy statuses. A vacancy starts as pending; moderators move it to
// approved or rejected, and an approved vacancy can later be marked filled.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFilled   Status = "filled"
)

// Vacancy categories offered during intake.
const (
	CategoryProgramming = "programming"
	CategoryDesign      = "design"
	CategorySMM         = "smm"
	CategoryOther       = "other"
)

// Vacancy represents one job posting submitted through the bot.
// AdminMessageRefs holds a JSON-encoded map of moderator chat ID to the
// message ID of the review message sent to that chat; the refs are opaque
// to queries, so a text column is sufficient.
type Vacancy struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	UserID   int64  `db:"user_id"`
	Username string `db:"username"`

	Company           string `db:"company"`
	Technology        string `db:"technology"`
	ContactTelegram   string `db:"contact_telegram"`
	Location          string `db:"location"`
	ResponsiblePerson string `db:"responsible_person"`
	Salary            string `db:"salary"`
	AdditionalInfo    string `db:"additional_info"`
	Category          string `db:"category"`

	Status           Status        `db:"status"`
	AdminMessageRefs string        `db:"admin_message_refs"`
	GroupMessageID   sql.NullInt64 `db:"group_message_id"`
	ApprovedAt       sql.NullTime  `db:"approved_at"`
	FilledAt         sql.NullTime  `db:"filled_at"`
}

// SetAdminRefs stores the per-moderator review message IDs on the vacancy.
func (v *Vacancy) SetAdminRefs(refs map[int64]int) error {
	if len(refs) == 0 {
		v.AdminMessageRefs = ""
		return nil
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return fmt.Errorf("failed to encode admin message refs: %w", err)
	}
	v.AdminMessageRefs = string(data)
	return nil
}

// AdminRefs returns the per-moderator review message IDs, or an empty map
// when none were recorded.
func (v *Vacancy) AdminRefs() (map[int64]int, error) {
	refs := make(map[int64]int)
	if v.AdminMessageRefs == "" {
		return refs, nil
	}
	if err := json.Unmarshal([]byte(v.AdminMessageRefs), &refs); err != nil {
		return nil, fmt.Errorf("failed to decode admin message refs: %w", err)
	}
	return refs, nil
}
