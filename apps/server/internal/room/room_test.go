package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"mighty/apps/server/internal/storage"
	"mighty/mighty"
)

type fakeHub struct {
	mu      sync.Mutex
	removed []int
}

func (h *fakeHub) RemoveRoom(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removed = append(h.removed, id)
}

type fakeSub struct {
	mu     sync.Mutex
	infos  []RoomInfo
	states []mighty.State
	errs   []error
}

func (s *fakeSub) SendRoomInfo(i RoomInfo)  { s.mu.Lock(); defer s.mu.Unlock(); s.infos = append(s.infos, i) }
func (s *fakeSub) SendState(st mighty.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, st)
}
func (s *fakeSub) SendError(err error) { s.mu.Lock(); defer s.mu.Unlock(); s.errs = append(s.errs, err) }

func (s *fakeSub) lastState() mighty.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[len(s.states)-1]
}

func newTestRoom(t *testing.T) (*Room, *fakeHub) {
	t.Helper()
	h := &fakeHub{}
	store := storage.NewMemoryStore()
	r := New(Spec{ID: 123456, Name: "table", Rule: mighty.NewRule(), IsRank: false}, h, store, storage.NewLinearRatingPolicy())
	return r, h
}

func TestRoom_SettleGameAppliesRatingDeltaToExistingRating(t *testing.T) {
	h := &fakeHub{}
	store := storage.NewMemoryStore(
		storage.UserInfo{No: 1, Name: "p0", Rating: 1000},
		storage.UserInfo{No: 2, Name: "p1", Rating: 1000},
		storage.UserInfo{No: 3, Name: "p2", Rating: 1000},
		storage.UserInfo{No: 4, Name: "p3", Rating: 1000},
		storage.UserInfo{No: 5, Name: "p4", Rating: 1000},
	)
	r := New(Spec{ID: 654321, Name: "ranked", Rule: mighty.NewRule(), IsRank: true}, h, store, storage.NewLinearRatingPolicy())
	for no := 1; no <= 5; no++ {
		if err := r.Join(no, &fakeSub{}); err != nil {
			t.Fatalf("Join(%d): %v", no, err)
		}
	}
	if err := r.StartGame(1); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	final := mighty.State{
		Phase: mighty.PhaseGameEnded,
		GameEnded: mighty.GameEndedState{
			Winners:   0b00011, // seats 0 and 1 (users 1 and 2) won
			President: 0,
			Score:     14,
			Pledge:    13,
		},
	}
	r.settleGame(final)

	winner, err := store.GetUserInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserInfo(1): %v", err)
	}
	if winner.Rating == 1000 {
		t.Fatalf("expected winner's rating to move away from the seeded 1000, stayed at %d", winner.Rating)
	}

	loser, err := store.GetUserInfo(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetUserInfo(3): %v", err)
	}
	if loser.Rating == 1000 {
		t.Fatalf("expected loser's rating to move away from the seeded 1000, stayed at %d", loser.Rating)
	}
	if loser.Rating >= winner.Rating {
		t.Fatalf("expected loser's rating (%d) below winner's (%d)", loser.Rating, winner.Rating)
	}
}

func TestRoom_SettleGameRotatesSeatsToNextDealer(t *testing.T) {
	h := &fakeHub{}
	store := storage.NewMemoryStore()
	rule := mighty.NewRule()
	rule.NextDealer = mighty.DealerWinner
	r := New(Spec{ID: 1, Name: "table", Rule: rule, IsRank: false}, h, store, storage.NewLinearRatingPolicy())
	for no := 1; no <= 5; no++ {
		if err := r.Join(no, &fakeSub{}); err != nil {
			t.Fatalf("Join(%d): %v", no, err)
		}
	}
	if err := r.StartGame(1); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	final := mighty.State{
		Phase: mighty.PhaseGameEnded,
		GameEnded: mighty.GameEndedState{
			Winners: 0b01000, // seat 3 (user 4) won
			Score:   14,
			Pledge:  13,
		},
	}
	r.settleGame(final)

	if got := r.seats[0]; got != 4 {
		t.Fatalf("expected user 4 (the winning seat) rotated to seat 0, got seats=%v", r.seats)
	}
	want := []int{4, 5, 1, 2, 3}
	for i, no := range want {
		if r.seats[i] != no {
			t.Fatalf("expected rotated seats %v, got %v", want, r.seats)
		}
	}
}

func TestRoom_JoinFillsSeatsAndElectsHead(t *testing.T) {
	r, _ := newTestRoom(t)
	for no := 1; no <= 5; no++ {
		if err := r.Join(no, &fakeSub{}); err != nil {
			t.Fatalf("Join(%d): %v", no, err)
		}
	}
	if err := r.Join(6, &fakeSub{}); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull for a 6th player, got %v", err)
	}
	if r.head != 0 {
		t.Fatalf("expected the first joiner's seat 0 to be head, got %d", r.head)
	}
}

func TestRoom_LeaveForbiddenDuringGame(t *testing.T) {
	r, _ := newTestRoom(t)
	for no := 1; no <= 5; no++ {
		if err := r.Join(no, &fakeSub{}); err != nil {
			t.Fatalf("Join(%d): %v", no, err)
		}
	}
	// seat of user 1 is head (first joiner); StartGame drives actor 0
	// regardless of headship.
	if err := r.StartGame(1); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if err := r.Leave(2); err != ErrGameInProgress {
		t.Fatalf("expected ErrGameInProgress, got %v", err)
	}
}

func TestRoom_LastLeaveRemovesFromHub(t *testing.T) {
	r, h := newTestRoom(t)
	if err := r.Join(1, &fakeSub{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := r.Leave(1); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.removed) != 1 || h.removed[0] != 123456 {
		t.Fatalf("expected hub.RemoveRoom(123456), got %v", h.removed)
	}
}

func TestRoom_StartGameRequiresFullSeats(t *testing.T) {
	r, _ := newTestRoom(t)
	if err := r.Join(1, &fakeSub{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := r.StartGame(1); err != ErrNotEnoughSeats {
		t.Fatalf("expected ErrNotEnoughSeats, got %v", err)
	}
}

func TestRoom_StartGameOnlyHead(t *testing.T) {
	r, _ := newTestRoom(t)
	for no := 1; no <= 5; no++ {
		if err := r.Join(no, &fakeSub{}); err != nil {
			t.Fatalf("Join(%d): %v", no, err)
		}
	}
	if err := r.StartGame(2); err != ErrNotHead {
		t.Fatalf("expected ErrNotHead for non-head user, got %v", err)
	}
}

func TestRoom_CommandFlowsThroughEngine(t *testing.T) {
	r, _ := newTestRoom(t)
	subs := make([]*fakeSub, 5)
	for i := 0; i < 5; i++ {
		subs[i] = &fakeSub{}
		if err := r.Join(i+1, subs[i]); err != nil {
			t.Fatalf("Join(%d): %v", i+1, err)
		}
	}
	if err := r.StartGame(1); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	for _, s := range subs {
		if got := s.lastState().Phase; got != mighty.PhaseElection {
			t.Fatalf("expected Election after StartGame, got phase %v", got)
		}
	}

	// NewRule sets ElectionPassFirst, so seat 1 (user 2, the second
	// joiner) opens the ordered election; pass from seat 1.
	if err := r.Command(2, mighty.PledgePass(1)); err != nil {
		t.Fatalf("Command pass: %v", err)
	}
	if got := subs[0].lastState().Phase; got != mighty.PhaseElection {
		t.Fatalf("expected still Election after one pass, got %v", got)
	}
}
