// Package session_test tests the intake conversation state machine.
package session_test

import (
	"errors"
	"testing"

	"github.com/anvarov/ishbot/internal/session"
	"github.com/anvarov/ishbot/internal/vacancy"
)

const userID = int64(1001)

// runIntake walks a session through the full form with the given answers.
func runIntake(t *testing.T, m *session.Manager, id int64, category string, answers []string) {
	t.Helper()

	m.Begin(id)
	if err := m.SetCategory(id, category); err != nil {
		t.Fatalf("SetCategory(%q) returned error: %v", category, err)
	}
	for i, answer := range answers {
		if _, err := m.Input(id, answer); err != nil {
			t.Fatalf("Input #%d (%q) returned error: %v", i, answer, err)
		}
	}
}

func TestIntakeFlow(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	answers := []string{"Acme", "Go", "@acme_hr", "Tashkent", "Jane", "$2000", "none"}
	runIntake(t, m, userID, "programming", answers)

	step, draft, ok := m.Snapshot(userID)
	if !ok {
		t.Fatal("expected an active session after intake")
	}
	if step != session.StepConfirm {
		t.Fatalf("expected step %v after all answers, got %v", session.StepConfirm, step)
	}

	want := vacancy.Draft{
		Category:          "programming",
		Company:           "Acme",
		Technology:        "Go",
		ContactTelegram:   "@acme_hr",
		Location:          "Tashkent",
		ResponsiblePerson: "Jane",
		Salary:            "$2000",
		AdditionalInfo:    "none",
	}
	if draft != want {
		t.Fatalf("draft mismatch:\n got: %+v\nwant: %+v", draft, want)
	}

	confirmed, err := m.Confirm(userID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if confirmed != want {
		t.Fatalf("confirmed draft mismatch:\n got: %+v\nwant: %+v", confirmed, want)
	}

	// The session is cleared on confirmation.
	if _, _, ok := m.Snapshot(userID); ok {
		t.Fatal("expected session to be cleared after confirmation")
	}
	if _, err := m.Confirm(userID); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession on second confirm, got %v", err)
	}
}

func TestStepOrder(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	m.Begin(userID)
	if err := m.SetCategory(userID, "design"); err != nil {
		t.Fatalf("SetCategory returned error: %v", err)
	}

	wantOrder := []session.Step{
		session.StepTechnology,
		session.StepContact,
		session.StepLocation,
		session.StepResponsible,
		session.StepSalary,
		session.StepNotes,
		session.StepConfirm,
	}
	for i, want := range wantOrder {
		step, err := m.Input(userID, "value")
		if err != nil {
			t.Fatalf("Input #%d returned error: %v", i, err)
		}
		if step != want {
			t.Fatalf("Input #%d advanced to %v, want %v", i, step, want)
		}
	}
}

func TestEmptyInputRejected(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	m.Begin(userID)
	if err := m.SetCategory(userID, "smm"); err != nil {
		t.Fatalf("SetCategory returned error: %v", err)
	}

	for _, input := range []string{"", "   ", "\n\t "} {
		step, err := m.Input(userID, input)
		if !errors.Is(err, session.ErrEmptyInput) {
			t.Fatalf("Input(%q): expected ErrEmptyInput, got %v", input, err)
		}
		if step != session.StepCompany {
			t.Fatalf("Input(%q): session moved to %v, expected to stay on %v", input, step, session.StepCompany)
		}
	}

	// A real answer still works afterwards.
	step, err := m.Input(userID, "Acme")
	if err != nil {
		t.Fatalf("Input after empty attempts returned error: %v", err)
	}
	if step != session.StepTechnology {
		t.Fatalf("expected advance to %v, got %v", session.StepTechnology, step)
	}
}

func TestInputTrimsWhitespace(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	m.Begin(userID)
	if err := m.SetCategory(userID, "other"); err != nil {
		t.Fatalf("SetCategory returned error: %v", err)
	}
	if _, err := m.Input(userID, "  Acme  \n"); err != nil {
		t.Fatalf("Input returned error: %v", err)
	}

	_, draft, _ := m.Snapshot(userID)
	if draft.Company != "Acme" {
		t.Fatalf("expected trimmed company %q, got %q", "Acme", draft.Company)
	}
}

func TestTextWithoutSessionIsNoOp(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	if _, err := m.Input(userID, "hello"); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestTextDuringSelectionStepsIgnored(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	m.Begin(userID)

	// Free text while a category button is awaited.
	if _, err := m.Input(userID, "programming"); !errors.Is(err, session.ErrAwaitingSelection) {
		t.Fatalf("expected ErrAwaitingSelection at category step, got %v", err)
	}

	runIntake(t, m, userID, "programming", []string{"Acme", "Go", "@hr", "Remote", "Jane", "$1", "none"})

	// Free text while the confirm/restart buttons are awaited.
	if _, err := m.Input(userID, "yes please"); !errors.Is(err, session.ErrAwaitingSelection) {
		t.Fatalf("expected ErrAwaitingSelection at confirmation step, got %v", err)
	}

	// The draft is untouched by the ignored input.
	_, draft, _ := m.Snapshot(userID)
	if draft.Company != "Acme" {
		t.Fatalf("draft company changed by ignored input: %q", draft.Company)
	}
}

func TestInvalidCategoryRejected(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	m.Begin(userID)

	if err := m.SetCategory(userID, "gardening"); !errors.Is(err, session.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	step, _, _ := m.Snapshot(userID)
	if step != session.StepCategory {
		t.Fatalf("session moved to %v after invalid category, expected to stay on %v", step, session.StepCategory)
	}
}

func TestRestartClearsDraft(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	runIntake(t, m, userID, "programming", []string{"OldCo", "COBOL", "@old", "Nowhere", "Bob", "$1", "legacy"})

	m.Restart(userID)

	step, draft, ok := m.Snapshot(userID)
	if !ok || step != session.StepCategory {
		t.Fatalf("expected fresh session at %v after restart, got step %v ok=%v", session.StepCategory, step, ok)
	}
	if draft != (vacancy.Draft{}) {
		t.Fatalf("expected empty draft after restart, got %+v", draft)
	}

	// A completed intake after restart contains none of the discarded values.
	if err := m.SetCategory(userID, "design"); err != nil {
		t.Fatalf("SetCategory returned error: %v", err)
	}
	for _, answer := range []string{"NewCo", "Figma", "@new", "Tashkent", "Eve", "$900", "remote ok"} {
		if _, err := m.Input(userID, answer); err != nil {
			t.Fatalf("Input(%q) returned error: %v", answer, err)
		}
	}

	confirmed, err := m.Confirm(userID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if confirmed.Company != "NewCo" || confirmed.Category != "design" {
		t.Fatalf("confirmed draft contains stale values: %+v", confirmed)
	}
}

func TestClearAbandonsSession(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	runIntake(t, m, userID, "programming", []string{"Acme", "Go", "@hr", "Remote", "Jane", "$1", "none"})

	m.Clear(userID)

	if _, _, ok := m.Snapshot(userID); ok {
		t.Fatal("expected no session after Clear")
	}
	if _, err := m.Input(userID, "Acme"); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after Clear, got %v", err)
	}
	if _, err := m.Confirm(userID); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession on confirm after Clear, got %v", err)
	}
}

func TestConfirmOutsideConfirmationStep(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	m.Begin(userID)
	if err := m.SetCategory(userID, "programming"); err != nil {
		t.Fatalf("SetCategory returned error: %v", err)
	}

	if _, err := m.Confirm(userID); !errors.Is(err, session.ErrNotConfirmable) {
		t.Fatalf("expected ErrNotConfirmable mid-form, got %v", err)
	}

	// The session survives the failed confirm.
	step, _, ok := m.Snapshot(userID)
	if !ok || step != session.StepCompany {
		t.Fatalf("expected session to remain at %v, got step %v ok=%v", session.StepCompany, step, ok)
	}
}

func TestParticipantsAreIndependent(t *testing.T) {
	t.Parallel()

	m := session.NewManager()
	other := int64(2002)

	runIntake(t, m, userID, "programming", []string{"Acme", "Go", "@a", "X", "Jane", "$1", "n"})
	m.Begin(other)

	if err := m.SetCategory(other, "smm"); err != nil {
		t.Fatalf("SetCategory for second participant returned error: %v", err)
	}

	_, first, _ := m.Snapshot(userID)
	if first.Category != "programming" || first.Company != "Acme" {
		t.Fatalf("first participant's draft was affected by second participant: %+v", first)
	}
}
