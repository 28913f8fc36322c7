package workflow

import (
	"testing"

	"github.com/spigell/applicant/internal/portal"
)

func TestSubscribeLatestWins(t *testing.T) {
	store := NewStore()
	updates, unsubscribe := store.Subscribe()

	initial := <-updates
	if initial.Phase != PhaseIdle || initial.JobPhase != JobIdle {
		t.Fatalf("unexpected initial state: %+v", initial)
	}

	store.jobLoading()
	store.jobFailed(MsgJobLoadFailed)
	store.rejectInput(portal.MsgMissingResume)

	st := <-updates
	if st.JobPhase != JobFailed || st.LastError != portal.MsgMissingResume {
		t.Fatalf("expected the latest state, got %+v", st)
	}

	select {
	case extra := <-updates:
		t.Fatalf("expected no pending state, got %+v", extra)
	default:
	}

	unsubscribe()
	unsubscribe()

	if _, ok := <-updates; ok {
		t.Fatal("expected channel to be closed")
	}

	// publishing after unsubscribe must not panic
	store.jobLoading()
}

func TestAdmitIsExclusive(t *testing.T) {
	store := NewStore()

	if !store.admit("a") {
		t.Fatal("expected first admission")
	}
	if store.admit("b") {
		t.Fatal("expected second admission to be refused")
	}
	if store.rejectInput("x") {
		t.Fatal("expected validation error to be ignored while in flight")
	}
	if st := store.Snapshot(); st.AttemptID != "a" || st.LastError != "" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestStaleAttemptIsIgnored(t *testing.T) {
	store := NewStore()
	store.admit("a")
	store.fail("a", "first failed")
	store.admit("b")

	store.succeed("a", &portal.Assessment{Decision: portal.DecisionAccepted})
	store.fail("a", "late")

	st := store.Snapshot()
	if st.Phase != PhaseInFlight || st.AttemptID != "b" || st.LastResult != nil || st.LastError != "" {
		t.Fatalf("stale completion changed state: %+v", st)
	}

	result := &portal.Assessment{Decision: portal.DecisionRejected, CompatibilityScore: 30}
	store.succeed("b", result)

	st = store.Snapshot()
	if st.Phase != PhaseSucceeded || st.LastResult != result || st.LastError != "" {
		t.Fatalf("unexpected final state: %+v", st)
	}
}

func TestPhaseStrings(t *testing.T) {
	if PhaseInFlight.String() != "in_flight" || JobLoaded.String() != "loaded" {
		t.Fatal("unexpected phase names")
	}
	if Phase(42).String() != "unknown" || JobPhase(42).String() != "unknown" {
		t.Fatal("unexpected fallback name")
	}
}
