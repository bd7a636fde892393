package session_test

import (
	"sync"
	"testing"

	search "github.com/shopvoice/backend/internal/model/search"
	"github.com/shopvoice/backend/internal/service/session"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestResolveCreatesOnUnknownID(t *testing.T) {
	svc := session.NewService()

	created := svc.Resolve("")
	if created.ID == "" {
		t.Fatal("expected a generated session id")
	}
	if len(created.History) != 0 || !created.LastFilters.IsEmpty() {
		t.Fatalf("new session must start empty, got %+v", created)
	}

	other := svc.Resolve("does-not-exist")
	if other.ID == created.ID {
		t.Fatalf("distinct resolves must yield distinct ids, both got %s", other.ID)
	}
}

func TestResolveReturnsExistingSession(t *testing.T) {
	svc := session.NewService()

	created := svc.Resolve("")
	if _, ok := svc.CommitTurn(created.ID, "red shirts", search.PartialFilter{Color: strPtr("red")}); !ok {
		t.Fatal("CommitTurn on fresh session failed")
	}

	resolved := svc.Resolve(created.ID)
	if resolved.ID != created.ID {
		t.Fatalf("expected same session, got %s want %s", resolved.ID, created.ID)
	}
	if resolved.LastFilters.Color == nil || *resolved.LastFilters.Color != "red" {
		t.Fatalf("mutations must be visible on later resolves, got %+v", resolved.LastFilters)
	}
	if len(resolved.History) != 1 {
		t.Fatalf("expected 1 turn in history, got %d", len(resolved.History))
	}
}

func TestCommitTurnAccumulatesAcrossTurns(t *testing.T) {
	svc := session.NewService()
	sess := svc.Resolve("")

	if _, ok := svc.CommitTurn(sess.ID, "show me shirts", search.PartialFilter{Category: strPtr("shirt")}); !ok {
		t.Fatal("first CommitTurn failed")
	}
	merged, ok := svc.CommitTurn(sess.ID, "only red ones", search.PartialFilter{Color: strPtr("red")})
	if !ok {
		t.Fatal("second CommitTurn failed")
	}

	if merged.Category == nil || *merged.Category != "shirt" {
		t.Fatalf("category lost across turns: %+v", merged)
	}
	if merged.Color == nil || *merged.Color != "red" {
		t.Fatalf("color missing after second turn: %+v", merged)
	}

	resolved := svc.Resolve(sess.ID)
	if len(resolved.History) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(resolved.History))
	}
	if resolved.History[1].Query != "only red ones" {
		t.Fatalf("history out of order: %+v", resolved.History)
	}
}

func TestResetClearsFiltersAndHistoryTogether(t *testing.T) {
	svc := session.NewService()
	sess := svc.Resolve("")

	svc.CommitTurn(sess.ID, "blue jackets", search.PartialFilter{Category: strPtr("jacket"), Color: strPtr("blue")})
	svc.CommitTurn(sess.ID, "under 80", search.PartialFilter{MaxPrice: numPtr(80)})

	svc.Reset(sess.ID)

	resolved := svc.Resolve(sess.ID)
	if resolved.ID != sess.ID {
		t.Fatalf("reset must preserve identity, got %s", resolved.ID)
	}
	if !resolved.LastFilters.IsEmpty() {
		t.Fatalf("filters not cleared: %+v", resolved.LastFilters)
	}
	if len(resolved.History) != 0 {
		t.Fatalf("history not cleared: %d turns remain", len(resolved.History))
	}
}

func TestCommitTurnUnknownSession(t *testing.T) {
	svc := session.NewService()

	if _, ok := svc.CommitTurn("missing", "q", search.PartialFilter{}); ok {
		t.Fatal("CommitTurn must report unknown sessions")
	}
	if _, ok := svc.Snapshot("missing"); ok {
		t.Fatal("Snapshot must report unknown sessions")
	}
}

// Interleaved turns on one session must not lose updates: every commit lands
// in history and the merged filters reflect all fields that were only set once.
func TestConcurrentCommitsDoNotLoseUpdates(t *testing.T) {
	svc := session.NewService()
	sess := svc.Resolve("")

	const turns = 64
	var wg sync.WaitGroup
	wg.Add(turns)
	for i := 0; i < turns; i++ {
		go func(i int) {
			defer wg.Done()
			partial := search.PartialFilter{Color: strPtr("red")}
			if i == 0 {
				partial.Category = strPtr("shirt")
			}
			svc.CommitTurn(sess.ID, "turn", partial)
		}(i)
	}
	wg.Wait()

	resolved := svc.Resolve(sess.ID)
	if len(resolved.History) != turns {
		t.Fatalf("lost turns: got %d, want %d", len(resolved.History), turns)
	}
	if resolved.LastFilters.Category == nil || *resolved.LastFilters.Category != "shirt" {
		t.Fatalf("category update lost under concurrency: %+v", resolved.LastFilters)
	}
}
