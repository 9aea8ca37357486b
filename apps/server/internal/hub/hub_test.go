package hub

import (
	"testing"

	"mighty/apps/server/internal/storage"
	"mighty/mighty"
)

func newTestHub(seed ...storage.UserInfo) *Hub {
	store := storage.NewMemoryStore(seed...)
	return New(store, storage.NewLinearRatingPolicy())
}

func TestHub_MakeRoomThenGetRoom(t *testing.T) {
	h := newTestHub()
	id, err := h.MakeRoom("table", mighty.NewRule(), false)
	if err != nil {
		t.Fatalf("MakeRoom: %v", err)
	}
	if id < 0 || id >= roomIDSpace {
		t.Fatalf("room id %d out of range", id)
	}
	if _, err := h.GetRoom(id); err != nil {
		t.Fatalf("GetRoom(%d): %v", id, err)
	}
}

func TestHub_GetRoomNotFound(t *testing.T) {
	h := newTestHub()
	if _, err := h.GetRoom(999999); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestHub_RemoveRoomDropsMapping(t *testing.T) {
	h := newTestHub()
	id, err := h.MakeRoom("table", mighty.NewRule(), false)
	if err != nil {
		t.Fatalf("MakeRoom: %v", err)
	}
	h.RemoveRoom(id)
	if _, err := h.GetRoom(id); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound after RemoveRoom, got %v", err)
	}
}

func TestHub_ConnectUnknownUserFails(t *testing.T) {
	h := newTestHub()
	if _, err := h.Connect(42); err != storage.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHub_ConnectReturnsSameActorOnReconnect(t *testing.T) {
	h := newTestHub(storage.UserInfo{No: 1, Name: "alice"})
	u1, err := h.Connect(1)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	u2, err := h.Connect(1)
	if err != nil {
		t.Fatalf("Connect (again): %v", err)
	}
	if u1 != u2 {
		t.Fatalf("expected the same *presence.User actor across reconnects")
	}
}

func TestHub_DisconnectThenGetUserNotFound(t *testing.T) {
	h := newTestHub(storage.UserInfo{No: 1, Name: "alice"})
	if _, err := h.Connect(1); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	h.Disconnect(1)
	if _, err := h.GetUser(1); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHub_MakeRoomAllocatesDistinctIDs(t *testing.T) {
	h := newTestHub()
	seen := make(map[int]bool)
	for i := 0; i < 20; i++ {
		id, err := h.MakeRoom("table", mighty.NewRule(), false)
		if err != nil {
			t.Fatalf("MakeRoom: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate room id %d", id)
		}
		seen[id] = true
	}
}
