// Package hub implements the Hub actor spec.md §4.2 describes: the
// single authoritative directory of rooms and users. Grounded on
// apps/server/internal/lobby/lobby.go's table/session registry (room
// creation, idle cleanup, QuickStart-style lookup) reworked from a
// mutex-guarded map into a channel-driven actor per spec.md §9's "actor
// mesh with typed messages" design note, and on its own RoomId
// allocation rule (spec.md §4.2: 6-digit, rejection-sampled uniform).
package hub

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"mighty/apps/server/internal/presence"
	"mighty/apps/server/internal/room"
	"mighty/apps/server/internal/storage"
	"mighty/mighty"
)

var (
	ErrRoomNotFound    = errors.New("hub: room not found")
	ErrUserNotFound    = errors.New("hub: user not found")
	ErrRoomIDExhausted = errors.New("hub: could not allocate a free room id")
)

const (
	roomIDSpace        = 1_000_000 // 6-digit ids, [0, 1_000_000)
	roomIDSampleBudget = 10_000    // rejection-sampling give-up threshold
)

type commandKind int

const (
	cmdGetRoom commandKind = iota
	cmdMakeRoom
	cmdRemoveRoom
	cmdConnect
	cmdGetUser
	cmdDisconnectUser
)

type command struct {
	kind   commandKind
	roomID int
	name   string
	rule   mighty.Rule
	isRank bool
	userNo int
	reply  chan result
}

type result struct {
	room   *room.Room
	user   *presence.User
	roomID int
	err    error
}

// Hub is the single-instance directory actor.
type Hub struct {
	store        storage.Store
	ratingPolicy storage.RatingPolicy
	rng          *rand.Rand

	cmds chan command
	done chan struct{}

	rooms map[int]*room.Room
	users map[int]*presence.User
}

func New(store storage.Store, ratingPolicy storage.RatingPolicy) *Hub {
	h := &Hub{
		store:        store,
		ratingPolicy: ratingPolicy,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		cmds:         make(chan command, 128),
		done:         make(chan struct{}),
		rooms:        make(map[int]*room.Room),
		users:        make(map[int]*presence.User),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case cmd := <-h.cmds:
			h.handle(cmd)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) submit(cmd command) result {
	cmd.reply = make(chan result, 1)
	select {
	case h.cmds <- cmd:
	case <-h.done:
		return result{err: ErrRoomNotFound}
	}
	select {
	case r := <-cmd.reply:
		return r
	case <-h.done:
		return result{err: ErrRoomNotFound}
	}
}

func (h *Hub) handle(cmd command) {
	switch cmd.kind {
	case cmdGetRoom:
		r, ok := h.rooms[cmd.roomID]
		if !ok {
			cmd.reply <- result{err: ErrRoomNotFound}
			return
		}
		cmd.reply <- result{room: r}

	case cmdMakeRoom:
		id, err := h.freshRoomID()
		if err != nil {
			cmd.reply <- result{err: err}
			return
		}
		if err := h.store.SaveRule(context.Background(), id, cmd.rule); err != nil {
			log.Printf("[Hub] save_rule failed for room %d: %v", id, err)
		}
		r := room.New(room.Spec{ID: id, Name: cmd.name, Rule: cmd.rule, IsRank: cmd.isRank}, h, h.store, h.ratingPolicy)
		h.rooms[id] = r
		log.Printf("[Hub] created room %d (%q)", id, cmd.name)
		cmd.reply <- result{roomID: id}

	case cmdRemoveRoom:
		if _, ok := h.rooms[cmd.roomID]; ok {
			delete(h.rooms, cmd.roomID)
			log.Printf("[Hub] removed room %d", cmd.roomID)
		}
		cmd.reply <- result{}

	case cmdConnect:
		if u, ok := h.users[cmd.userNo]; ok {
			cmd.reply <- result{user: u}
			return
		}
		info, err := h.store.GetUserInfo(context.Background(), cmd.userNo)
		if err != nil {
			cmd.reply <- result{err: err}
			return
		}
		u := presence.New(cmd.userNo, info.Name, h)
		h.users[cmd.userNo] = u
		log.Printf("[Hub] connected user %d (%s)", cmd.userNo, info.Name)
		cmd.reply <- result{user: u}

	case cmdGetUser:
		u, ok := h.users[cmd.userNo]
		if !ok {
			cmd.reply <- result{err: ErrUserNotFound}
			return
		}
		cmd.reply <- result{user: u}

	case cmdDisconnectUser:
		if u, ok := h.users[cmd.userNo]; ok {
			u.Stop()
			delete(h.users, cmd.userNo)
			log.Printf("[Hub] disconnected user %d", cmd.userNo)
		}
		cmd.reply <- result{}
	}
}

// freshRoomID allocates a 6-digit id not already in use by rejection
// sampling over the uniform [0, 1_000_000) space (spec.md §4.2). Must
// only be called from the Hub goroutine.
func (h *Hub) freshRoomID() (int, error) {
	for i := 0; i < roomIDSampleBudget; i++ {
		id := h.rng.Intn(roomIDSpace)
		if _, taken := h.rooms[id]; !taken {
			return id, nil
		}
	}
	return 0, ErrRoomIDExhausted
}

// GetRoom returns the Room for id, or ErrRoomNotFound.
func (h *Hub) GetRoom(id int) (*room.Room, error) {
	r := h.submit(command{kind: cmdGetRoom, roomID: id})
	return r.room, r.err
}

// MakeRoom allocates a fresh RoomId, persists rule, and creates a Room.
func (h *Hub) MakeRoom(name string, rule mighty.Rule, isRank bool) (int, error) {
	r := h.submit(command{kind: cmdMakeRoom, name: name, rule: rule, isRank: isRank})
	return r.roomID, r.err
}

// RemoveRoom drops a room's mapping. Satisfies room.HubHandle.
func (h *Hub) RemoveRoom(id int) {
	h.submit(command{kind: cmdRemoveRoom, roomID: id})
}

// Connect returns the existing User actor for userNo, or loads it from
// storage and spawns a fresh one. Failure here fails the connection
// attempt (spec.md §7).
func (h *Hub) Connect(userNo int) (*presence.User, error) {
	r := h.submit(command{kind: cmdConnect, userNo: userNo})
	return r.user, r.err
}

// GetUser returns the User actor for userNo, or ErrUserNotFound.
func (h *Hub) GetUser(userNo int) (*presence.User, error) {
	r := h.submit(command{kind: cmdGetUser, userNo: userNo})
	return r.user, r.err
}

// Disconnect drops userNo's entry. Satisfies presence.HubHandle; also
// called directly once a User actor reports it has gone fully Offline.
func (h *Hub) Disconnect(userNo int) {
	h.submit(command{kind: cmdDisconnectUser, userNo: userNo})
}

func (h *Hub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}
