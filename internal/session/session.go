// Package session implements the per-participant conversation state machine
// that drives the multi-step vacancy intake form. Sessions live only in
// memory; they are lost on restart by design.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/anvarov/ishbot/internal/database"
	"github.com/anvarov/ishbot/internal/vacancy"
)

// Step identifies the intake form step a session is waiting on.
type Step int

// Intake steps in the fixed order the form walks through them.
const (
	StepIdle Step = iota
	StepCategory
	StepCompany
	StepTechnology
	StepContact
	StepLocation
	StepResponsible
	StepSalary
	StepNotes
	StepConfirm
)

var stepNames = map[Step]string{
	StepIdle:        "idle",
	StepCategory:    "awaiting_category",
	StepCompany:     "awaiting_company",
	StepTechnology:  "awaiting_technology",
	StepContact:     "awaiting_contact",
	StepLocation:    "awaiting_region",
	StepResponsible: "awaiting_responsible_person",
	StepSalary:      "awaiting_salary",
	StepNotes:       "awaiting_notes",
	StepConfirm:     "awaiting_confirmation",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Errors reported by session transitions. All are recoverable: the session
// stays where it is and the handler decides whether to re-prompt or stay
// silent.
var (
	// ErrNoSession indicates the participant has no active intake session.
	ErrNoSession = errors.New("no active session")

	// ErrEmptyInput indicates a whitespace-only answer; the step does not advance.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidCategory indicates a category tag outside the offered set.
	ErrInvalidCategory = errors.New("unknown category")

	// ErrAwaitingSelection indicates free text arrived while the session
	// expects a button selection; such input is ignored, not rejected.
	ErrAwaitingSelection = errors.New("step expects a button selection")

	// ErrNotConfirmable indicates a confirm attempt outside the confirmation step.
	ErrNotConfirmable = errors.New("session is not awaiting confirmation")

	// ErrIncompleteDraft indicates a confirm attempt on a draft missing required fields.
	ErrIncompleteDraft = errors.New("draft is missing required fields")
)

// Categories lists the selectable vacancy categories in presentation order.
var Categories = []string{
	database.CategoryProgramming,
	database.CategoryDesign,
	database.CategorySMM,
	database.CategoryOther,
}

// ValidCategory reports whether tag is one of the offered categories.
func ValidCategory(tag string) bool {
	for _, c := range Categories {
		if c == tag {
			return true
		}
	}
	return false
}

type state struct {
	step  Step
	draft vacancy.Draft
}

// Manager owns one intake session per participant. Access is scoped per
// participant key; distinct participants never share state.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*state
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*state)}
}

// Begin starts (or restarts) an intake session for the participant with a
// fresh draft, entering the category step.
func (m *Manager) Begin(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &state{step: StepCategory}
}

// Restart is Begin under its user-facing name: any previously entered draft
// values are discarded.
func (m *Manager) Restart(userID int64) {
	m.Begin(userID)
}

// Clear removes the participant's session entirely.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// SetCategory records the selected category and advances to the company
// step. It is only valid while the session awaits a category selection.
func (m *Manager) SetCategory(userID int64, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok || sess.step == StepIdle {
		return ErrNoSession
	}
	if sess.step != StepCategory {
		return ErrAwaitingSelection
	}
	if !ValidCategory(tag) {
		return ErrInvalidCategory
	}

	sess.draft.Category = tag
	sess.step = StepCompany
	return nil
}

// Input feeds one free-text answer into the session. On success it records
// the trimmed value into the draft field matching the current step and
// returns the step now awaited. Empty input keeps the session in place.
func (m *Manager) Input(userID int64, text string) (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok || sess.step == StepIdle {
		return StepIdle, ErrNoSession
	}

	if sess.step == StepCategory || sess.step == StepConfirm {
		return sess.step, ErrAwaitingSelection
	}

	value := strings.TrimSpace(text)
	if value == "" {
		return sess.step, ErrEmptyInput
	}

	switch sess.step {
	case StepCompany:
		sess.draft.Company = value
	case StepTechnology:
		sess.draft.Technology = value
	case StepContact:
		sess.draft.ContactTelegram = value
	case StepLocation:
		sess.draft.Location = value
	case StepResponsible:
		sess.draft.ResponsiblePerson = value
	case StepSalary:
		sess.draft.Salary = value
	case StepNotes:
		sess.draft.AdditionalInfo = value
	}

	sess.step++
	return sess.step, nil
}

// Confirm finalizes the intake. It is only valid in the confirmation step
// and requires the company field to be present. The session is cleared on
// success; a failed create downstream must not leave the participant stuck.
func (m *Manager) Confirm(userID int64) (vacancy.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok || sess.step == StepIdle {
		return vacancy.Draft{}, ErrNoSession
	}
	if sess.step != StepConfirm {
		return vacancy.Draft{}, ErrNotConfirmable
	}
	if sess.draft.Company == "" {
		return vacancy.Draft{}, ErrIncompleteDraft
	}

	draft := sess.draft
	delete(m.sessions, userID)
	return draft, nil
}

// Snapshot returns the participant's current step and a copy of the draft.
// The second return is false when no session exists.
func (m *Manager) Snapshot(userID int64) (Step, vacancy.Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return StepIdle, vacancy.Draft{}, false
	}
	return sess.step, sess.draft, true
}
