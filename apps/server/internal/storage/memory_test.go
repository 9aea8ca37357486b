package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"mighty/mighty"
)

func TestMemoryStore_GetUserInfo_NotFound(t *testing.T) {
	m := NewMemoryStore()
	if _, err := m.GetUserInfo(context.Background(), 7); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryStore_ChangeRatingUpdatesUserAndHistory(t *testing.T) {
	m := NewMemoryStore(UserInfo{No: 1, Name: "alice", Rating: 1000})
	gameID := uuid.New()

	if err := m.ChangeRating(context.Background(), 1, gameID, 16, 1016); err != nil {
		t.Fatalf("ChangeRating: %v", err)
	}

	u, err := m.GetUserInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if u.Rating != 1016 {
		t.Fatalf("expected rating 1016, got %d", u.Rating)
	}

	history, err := m.GetRating(context.Background(), 1, time.Hour)
	if err != nil {
		t.Fatalf("GetRating: %v", err)
	}
	if len(history) != 1 || history[0].Diff != 16 {
		t.Fatalf("expected one history entry with diff 16, got %+v", history)
	}
}

func TestMemoryStore_SaveStateAppendsRecord(t *testing.T) {
	m := NewMemoryStore()
	gameID := uuid.New()
	state := mighty.NewState()

	if err := m.SaveState(context.Background(), gameID, 123456, 0, state); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if len(m.records[gameID]) != 1 {
		t.Fatalf("expected one recorded state, got %d", len(m.records[gameID]))
	}
}

func TestLinearRatingPolicy_SplitsGainEvenly(t *testing.T) {
	policy := NewLinearRatingPolicy()
	outcome := GameOutcome{
		Users:   []int{10, 20, 30, 40, 50},
		Winners: 0b00011, // seats 0 and 1
		Gain:    10,
	}
	deltas := policy(outcome)
	if deltas[10] != 5 || deltas[20] != 5 {
		t.Fatalf("expected winners to split the gain evenly, got %+v", deltas)
	}
	for _, no := range []int{30, 40, 50} {
		if deltas[no] >= 0 {
			t.Fatalf("expected loser %d to have a negative delta, got %d", no, deltas[no])
		}
	}
}
