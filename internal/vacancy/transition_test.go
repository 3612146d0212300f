package vacancy_test

import (
	"testing"

	"github.com/anvarov/ishbot/internal/database"
	"github.com/anvarov/ishbot/internal/vacancy"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	statuses := []database.Status{
		database.StatusPending,
		database.StatusApproved,
		database.StatusRejected,
		database.StatusFilled,
	}
	allowed := map[[2]database.Status]bool{
		{database.StatusPending, database.StatusApproved}: true,
		{database.StatusPending, database.StatusRejected}: true,
		{database.StatusApproved, database.StatusFilled}:  true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]database.Status{from, to}]
			if got := vacancy.CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}

	if vacancy.CanTransition("bogus", database.StatusApproved) {
		t.Error("unknown source status must not transition anywhere")
	}
}
