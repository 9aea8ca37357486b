package record

import (
	"math/rand"
	"testing"

	"mighty/card"
	"mighty/mighty"
)

func scriptedElectionSteps() []Step {
	spade := card.Spade
	return []Step{
		{Seat: 0, Command: mighty.StartGame(0)},
		{Seat: 0, Command: mighty.PledgeBid(0, &spade, 16)},
		{Seat: 1, Command: mighty.RandomCmd(1)},
		{Seat: 2, Command: mighty.RandomCmd(2)},
		{Seat: 3, Command: mighty.RandomCmd(3)},
		{Seat: 4, Command: mighty.RandomCmd(4)},
		{Seat: 0, Command: mighty.RandomCmd(0)},
	}
}

func TestGenerateTapeRecordsEveryAcceptedStep(t *testing.T) {
	rule := mighty.NewRule()
	rule.Election &^= mighty.ElectionOrdered
	rng := rand.New(rand.NewSource(9))

	tape, err := GenerateTape("room-1", rule, rng, scriptedElectionSteps())
	if err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	if len(tape.Entries) != len(scriptedElectionSteps()) {
		t.Fatalf("recorded %d entries, want %d", len(tape.Entries), len(scriptedElectionSteps()))
	}
	if tape.Last().Phase != mighty.PhaseSelectFriend {
		t.Fatalf("final phase = %v, want SelectFriend", tape.Last().Phase)
	}
}

func TestGenerateTapeStopsAtFirstRejectedStep(t *testing.T) {
	rule := mighty.NewRule()
	rng := rand.New(rand.NewSource(1))
	steps := []Step{
		{Seat: 1, Command: mighty.StartGame(1)}, // not the leader seat
	}
	tape, err := GenerateTape("room-2", rule, rng, steps)
	if err == nil {
		t.Fatal("expected a ReplayError")
	}
	re, ok := err.(*ReplayError)
	if !ok || re.StepIndex != 0 {
		t.Fatalf("got %v, want ReplayError at step 0", err)
	}
	if len(tape.Entries) != 0 {
		t.Fatalf("tape recorded %d entries past the rejected step", len(tape.Entries))
	}
}

func TestVerifyDetectsTamperedState(t *testing.T) {
	rule := mighty.NewRule()
	rule.Election &^= mighty.ElectionOrdered
	rng := rand.New(rand.NewSource(9))

	tape, err := GenerateTape("room-3", rule, rng, scriptedElectionSteps())
	if err != nil {
		t.Fatal(err)
	}
	rng2 := rand.New(rand.NewSource(9))
	if err := Verify(rule, rng2, tape); err != nil {
		t.Fatalf("verify of an untampered tape failed: %v", err)
	}

	tape.Entries[len(tape.Entries)-1].State.SelectFriend.President = 4
	rng3 := rand.New(rand.NewSource(9))
	if err := Verify(rule, rng3, tape); err == nil {
		t.Fatal("expected Verify to detect the tampered entry")
	}
}
