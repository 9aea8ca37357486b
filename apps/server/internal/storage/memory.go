package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mighty/mighty"
)

// MemoryStore is an in-process Store, grounded on auth.Manager's
// mutex-guarded map idiom (apps/server/internal/auth/session.go). It
// backs StoreModeMemory and the test suite; nothing here survives a
// restart.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[int]UserInfo
	rules   map[int]mighty.Rule
	games   map[uuid.UUID]gameRow
	records map[uuid.UUID][]stateRow
	ratings map[int][]RatingEntry
}

type gameRow struct {
	RoomID   int
	RoomName string
	Users    []int
	IsRank   bool
	Rule     mighty.Rule
}

type stateRow struct {
	RoomID int
	Seq    uint64
	State  mighty.State
}

// NewMemoryStore seeds the store with the given users, keyed by UserNo.
func NewMemoryStore(seed ...UserInfo) *MemoryStore {
	m := &MemoryStore{
		users:   make(map[int]UserInfo),
		rules:   make(map[int]mighty.Rule),
		games:   make(map[uuid.UUID]gameRow),
		records: make(map[uuid.UUID][]stateRow),
		ratings: make(map[int][]RatingEntry),
	}
	for _, u := range seed {
		m.users[u.No] = u
	}
	return m
}

func (m *MemoryStore) PutUser(u UserInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.No] = u
}

func (m *MemoryStore) GetUserInfo(ctx context.Context, userNo int) (UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userNo]
	if !ok {
		return UserInfo{}, ErrUserNotFound
	}
	return u, nil
}

func (m *MemoryStore) SaveRule(ctx context.Context, roomID int, rule mighty.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[roomID] = rule
	return nil
}

func (m *MemoryStore) MakeGameRecord(ctx context.Context, gameID uuid.UUID, roomID int, roomName string, users []int, isRank bool, rule mighty.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]int, len(users))
	copy(cp, users)
	m.games[gameID] = gameRow{RoomID: roomID, RoomName: roomName, Users: cp, IsRank: isRank, Rule: rule}
	return nil
}

func (m *MemoryStore) SaveState(ctx context.Context, gameID uuid.UUID, roomID int, seq uint64, state mighty.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[gameID] = append(m.records[gameID], stateRow{RoomID: roomID, Seq: seq, State: state})
	return nil
}

func (m *MemoryStore) ChangeRating(ctx context.Context, userNo int, gameID uuid.UUID, diff int, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[userNo] = append(m.ratings[userNo], RatingEntry{GameID: gameID, Diff: diff, Rating: rating, Time: time.Now()})
	if u, ok := m.users[userNo]; ok {
		u.Rating = rating
		m.users[userNo] = u
	}
	return nil
}

func (m *MemoryStore) GetRating(ctx context.Context, userNo int, window time.Duration) ([]RatingEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-window)
	out := make([]RatingEntry, 0)
	for _, e := range m.ratings[userNo] {
		if window <= 0 || e.Time.After(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
