// Package storage is the persistence façade spec.md §4.6 and §6 describe:
// user lookups, rule/game-record bookkeeping, per-state append, and rating
// adjustment, behind a single Store interface so Room and Hub never touch
// a driver directly. The core treats every failure here as non-fatal for
// gameplay (log and continue) except GetUserInfo during Hub.Connect, which
// fails the connection — see hub.Connect.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"mighty/mighty"
)

// ErrUserNotFound is returned by GetUserInfo when no row matches.
var ErrUserNotFound = errors.New("storage: user not found")

// UserInfo mirrors the users(no, id, name, email, password, rating,
// is_admin) table's public columns; password is never read back through
// this façade (spec.md §1 places credential handling out of scope).
type UserInfo struct {
	No      int
	ID      uuid.UUID
	Name    string
	Email   string
	Rating  int
	IsAdmin bool
}

// RatingEntry is one row of the rating(user_no, game_id, diff, rating,
// time) table, returned by GetRating for the requested lookback window.
type RatingEntry struct {
	GameID uuid.UUID
	Diff   int
	Rating int
	Time   time.Time
}

// GameOutcome is the input RatingPolicy adjusts ratings from: the set of
// seats that ended up on the winning side of GameEndedState.
type GameOutcome struct {
	GameID    uuid.UUID
	Users     []int // UserNo per seat, in seat order
	Winners   uint8 // seat bitmask, mighty.GameEndedState.Winners
	President int
	Friend    *int
	Gain      int // the scoring swing, mighty.GameEndedState.Score
}

// RatingPolicy computes a per-user rating delta for a finished game. The
// exact formula is left unspecified by spec.md §9's open questions; a
// placeholder linear policy is wired in by default (see NewLinearRatingPolicy).
type RatingPolicy func(outcome GameOutcome) map[int]int

// NewLinearRatingPolicy returns a placeholder RatingPolicy: each winner
// gains outcome.Gain divided by the number of winners, and each loser
// loses outcome.Gain divided by the number of losers (integer division).
// This is explicitly NOT a designed ranking system (spec.md §9, open
// question 4) — it exists so Room has something to call and storage has
// something to persist, pending a product decision.
func NewLinearRatingPolicy() RatingPolicy {
	return func(outcome GameOutcome) map[int]int {
		deltas := make(map[int]int, len(outcome.Users))
		winners := 0
		for seat := range outcome.Users {
			if outcome.Winners&(1<<uint(seat)) != 0 {
				winners++
			}
		}
		losers := len(outcome.Users) - winners
		if winners == 0 || losers == 0 || outcome.Gain == 0 {
			for _, no := range outcome.Users {
				deltas[no] = 0
			}
			return deltas
		}
		winShare := outcome.Gain / winners
		loseShare := outcome.Gain / losers
		for seat, no := range outcome.Users {
			if outcome.Winners&(1<<uint(seat)) != 0 {
				deltas[no] = winShare
			} else {
				deltas[no] = -loseShare
			}
		}
		return deltas
	}
}

// Store is the persistence adapter contract consumed by hub and room.
// Every method is safe to call concurrently; implementations own their
// own connection pooling.
type Store interface {
	// GetUserInfo resolves a user's static profile by their externally
	// assigned UserNo. Hub.Connect treats a failure here as fatal to the
	// connection attempt (spec.md §7).
	GetUserInfo(ctx context.Context, userNo int) (UserInfo, error)

	// SaveRule persists a room's rule at creation time.
	SaveRule(ctx context.Context, roomID int, rule mighty.Rule) error

	// MakeGameRecord records a new game row when a Room starts one.
	MakeGameRecord(ctx context.Context, gameID uuid.UUID, roomID int, roomName string, users []int, isRank bool, rule mighty.Rule) error

	// SaveState appends one (sequence, state) row to a game's record log.
	SaveState(ctx context.Context, gameID uuid.UUID, roomID int, seq uint64, state mighty.State) error

	// ChangeRating records diff for one user from one game and sets the
	// user's rating to rating, the new absolute value.
	ChangeRating(ctx context.Context, userNo int, gameID uuid.UUID, diff int, rating int) error

	// GetRating returns a user's rating history within the lookback window.
	GetRating(ctx context.Context, userNo int, window time.Duration) ([]RatingEntry, error)

	Close() error
}
