// Package room implements the Room actor spec.md §4.3 describes: seats,
// head election, a single owned Game instance, and fan-out to room
// users, observers, and list subscribers. Grounded on
// apps/server/internal/table/table.go's actor loop (a buffered event
// channel plus a ticker for stall timeouts) generalized from Hold'em's
// single always-dealing table to Mighty's five-phase mighty.State and
// the Join/Leave/head-election shape spec.md §4.3 names — and de-
// mutexed per spec.md §9's "shared-nothing state" design note: Room
// fields are only ever touched from the run() goroutine.
package room

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"mighty/apps/server/internal/storage"
	"mighty/mighty"
)

// HubHandle is the slice of Hub a Room needs: to deregister itself when
// the last user leaves (spec.md §4.3 Leave).
type HubHandle interface {
	RemoveRoom(id int)
}

// Subscriber is a live session bound to a seat or to the observer set.
// It receives Room-protocol / Observe-protocol server messages.
type Subscriber interface {
	SendRoomInfo(RoomInfo)
	SendState(mighty.State)
	SendError(error)
}

// ListSubscriber is a live List-protocol session watching this room.
type ListSubscriber interface {
	SendRoomInfo(RoomInfo)
}

// Spec is the immutable configuration a Room is created with.
type Spec struct {
	ID     int
	Name   string
	Rule   mighty.Rule
	IsRank bool
}

// Room is the per-room actor. All exported methods submit a command to
// the run() goroutine and (where a result is needed) block on a reply
// channel; no field below is ever read or written from any other
// goroutine.
type Room struct {
	uid string
	id  int

	hub          HubHandle
	store        storage.Store
	ratingPolicy storage.RatingPolicy
	rng          *rand.Rand

	events chan event
	done   chan struct{}

	name   string
	rule   mighty.Rule
	isRank bool
	head   int
	seats  []int // UserNo per seat; emptySeat when open
	subs   map[int]Subscriber
	joined map[int]time.Time // seat -> join time

	observers map[Subscriber]bool
	listSubs  map[ListSubscriber]bool

	game          *mighty.State
	gameID        uuid.UUID
	seq           uint64
	lastCommandAt time.Time
}

// New creates a Room and starts its actor goroutine.
func New(spec Spec, hub HubHandle, store storage.Store, ratingPolicy storage.RatingPolicy) *Room {
	seats := make([]int, spec.Rule.UserCount)
	for i := range seats {
		seats[i] = emptySeat
	}
	r := &Room{
		uid:          uuid.New().String(),
		id:           spec.ID,
		hub:          hub,
		store:        store,
		ratingPolicy: ratingPolicy,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		events:       make(chan event, 64),
		done:         make(chan struct{}),
		name:         spec.Name,
		rule:         spec.Rule,
		isRank:       spec.IsRank,
		head:         emptySeat,
		seats:        seats,
		subs:         make(map[int]Subscriber),
		joined:       make(map[int]time.Time),
		observers:    make(map[Subscriber]bool),
		listSubs:     make(map[ListSubscriber]bool),
	}
	go r.run()
	return r
}

func (r *Room) ID() int     { return r.id }
func (r *Room) UID() string { return r.uid }

type eventKind int

const (
	evJoinUser eventKind = iota
	evJoinObserver
	evLeaveUser
	evLeaveObserver
	evChangeName
	evChangeRule
	evStartGame
	evCommand
	evSubscribeList
	evUnsubscribeList
	evTick
)

type event struct {
	kind    eventKind
	userNo  int
	sub     Subscriber
	listSub ListSubscriber
	name    string
	rule    mighty.Rule
	cmd     mighty.Command
	reply   chan error
}

func (r *Room) submit(e event) error {
	if e.reply == nil {
		e.reply = make(chan error, 1)
	}
	select {
	case r.events <- e:
	case <-r.done:
		return ErrRoomClosed
	}
	select {
	case err := <-e.reply:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

// Join seats userNo at the first empty chair, or reconnects it to its
// existing seat if already seated.
func (r *Room) Join(userNo int, sub Subscriber) error {
	return r.submit(event{kind: evJoinUser, userNo: userNo, sub: sub})
}

// JoinObserver adds a read-only observer session.
func (r *Room) JoinObserver(sub Subscriber) error {
	return r.submit(event{kind: evJoinObserver, sub: sub})
}

// Leave removes userNo's seat. Forbidden while a game is in progress.
func (r *Room) Leave(userNo int) error {
	return r.submit(event{kind: evLeaveUser, userNo: userNo})
}

// LeaveObserver drops an observer session.
func (r *Room) LeaveObserver(sub Subscriber) error {
	return r.submit(event{kind: evLeaveObserver, sub: sub})
}

// ChangeName renames the room; only the head may call this.
func (r *Room) ChangeName(userNo int, name string) error {
	return r.submit(event{kind: evChangeName, userNo: userNo, name: name})
}

// ChangeRule replaces the room's rule; only the head may call this, and
// only while no game is in progress.
func (r *Room) ChangeRule(userNo int, rule mighty.Rule) error {
	return r.submit(event{kind: evChangeRule, userNo: userNo, rule: rule})
}

// StartGame begins a game; only the head may call this, and only when
// every seat is occupied.
func (r *Room) StartGame(userNo int) error {
	return r.submit(event{kind: evStartGame, userNo: userNo})
}

// Command drives one mighty.Command from userNo's seat through the engine.
func (r *Room) Command(userNo int, cmd mighty.Command) error {
	return r.submit(event{kind: evCommand, userNo: userNo, cmd: cmd})
}

// SubscribeList / UnsubscribeList register or drop a List-protocol watcher.
func (r *Room) SubscribeList(sub ListSubscriber) error {
	return r.submit(event{kind: evSubscribeList, listSub: sub})
}

func (r *Room) UnsubscribeList(sub ListSubscriber) error {
	return r.submit(event{kind: evUnsubscribeList, listSub: sub})
}

func (r *Room) run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case e := <-r.events:
			err := r.handle(e)
			e.reply <- err
		case <-ticker.C:
			r.checkStall()
		case <-r.done:
			return
		}
	}
}

func (r *Room) stop() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

func (r *Room) handle(e event) error {
	switch e.kind {
	case evJoinUser:
		return r.handleJoinUser(e.userNo, e.sub)
	case evJoinObserver:
		return r.handleJoinObserver(e.sub)
	case evLeaveUser:
		return r.handleLeaveUser(e.userNo)
	case evLeaveObserver:
		delete(r.observers, e.sub)
		r.broadcastRoomInfo()
		return nil
	case evChangeName:
		return r.handleChangeName(e.userNo, e.name)
	case evChangeRule:
		return r.handleChangeRule(e.userNo, e.rule)
	case evStartGame:
		return r.handleStartGame(e.userNo)
	case evCommand:
		return r.handleCommand(e.userNo, e.cmd)
	case evSubscribeList:
		r.listSubs[e.listSub] = true
		e.listSub.SendRoomInfo(r.info())
		return nil
	case evUnsubscribeList:
		delete(r.listSubs, e.listSub)
		return nil
	default:
		return nil
	}
}

func (r *Room) seatOf(userNo int) int {
	for seat, no := range r.seats {
		if no == userNo {
			return seat
		}
	}
	return emptySeat
}

func (r *Room) handleJoinUser(userNo int, sub Subscriber) error {
	if seat := r.seatOf(userNo); seat != emptySeat {
		r.subs[seat] = sub
		r.sendSnapshot(seat, sub)
		r.broadcastRoomInfo()
		return nil
	}
	for seat, no := range r.seats {
		if no == emptySeat {
			r.seats[seat] = userNo
			r.subs[seat] = sub
			r.joined[seat] = time.Now()
			if r.head == emptySeat {
				r.head = seat
			}
			r.sendSnapshot(seat, sub)
			r.broadcastRoomInfo()
			return nil
		}
	}
	return ErrRoomFull
}

func (r *Room) sendSnapshot(seat int, sub Subscriber) {
	sub.SendRoomInfo(r.info())
	if r.game != nil {
		sub.SendState(mighty.Project(*r.game, seat, r.rule))
	}
}

func (r *Room) handleJoinObserver(sub Subscriber) error {
	r.observers[sub] = true
	sub.SendRoomInfo(r.info())
	if r.game != nil {
		sub.SendState(mighty.Project(*r.game, -1, r.rule))
	}
	r.broadcastRoomInfo()
	return nil
}

func (r *Room) handleLeaveUser(userNo int) error {
	if r.game != nil {
		return ErrGameInProgress
	}
	seat := r.seatOf(userNo)
	if seat == emptySeat {
		return ErrNotInRoom
	}
	r.seats[seat] = emptySeat
	delete(r.subs, seat)
	delete(r.joined, seat)

	if !r.anyOccupied() {
		if r.hub != nil {
			r.hub.RemoveRoom(r.id)
		}
		r.stop()
		return nil
	}
	if seat == r.head {
		r.promoteHead()
	}
	r.broadcastRoomInfo()
	return nil
}

func (r *Room) anyOccupied() bool {
	for _, no := range r.seats {
		if no != emptySeat {
			return true
		}
	}
	return false
}

// promoteHead hands headship to the next occupied seat by seat index,
// scanning cyclically from the vacated head seat (spec.md §4.3 Leave).
func (r *Room) promoteHead() {
	n := len(r.seats)
	for i := 1; i <= n; i++ {
		seat := (r.head + i) % n
		if r.seats[seat] != emptySeat {
			r.head = seat
			return
		}
	}
	r.head = emptySeat
}

func (r *Room) requireHead(userNo int) error {
	if r.head == emptySeat || r.seats[r.head] != userNo {
		return ErrNotHead
	}
	return nil
}

func (r *Room) handleChangeName(userNo int, name string) error {
	if err := r.requireHead(userNo); err != nil {
		return err
	}
	r.name = name
	r.broadcastRoomInfo()
	return nil
}

func (r *Room) handleChangeRule(userNo int, rule mighty.Rule) error {
	if err := r.requireHead(userNo); err != nil {
		return err
	}
	if r.game != nil {
		return ErrGameInProgress
	}
	if err := rule.Validate(); err != nil {
		return err
	}
	r.rule = rule
	if err := r.store.SaveRule(context.Background(), r.id, rule); err != nil {
		log.Printf("[Room %d] save_rule failed: %v", r.id, err)
	}
	r.broadcastRoomInfo()
	return nil
}

func (r *Room) handleStartGame(userNo int) error {
	if err := r.requireHead(userNo); err != nil {
		return err
	}
	if r.game != nil {
		return ErrGameInProgress
	}
	for _, no := range r.seats {
		if no == emptySeat {
			return ErrNotEnoughSeats
		}
	}

	state := mighty.NewState()
	next, err := mighty.Next(state, 0, mighty.StartGame(0), r.rule, r.rng)
	if err != nil {
		return err
	}
	r.game = &next
	r.gameID = uuid.New()
	r.seq = 0
	r.lastCommandAt = time.Now()

	users := make([]int, len(r.seats))
	copy(users, r.seats)
	if err := r.store.MakeGameRecord(context.Background(), r.gameID, r.id, r.name, users, r.isRank, r.rule); err != nil {
		log.Printf("[Room %d] make_game_record failed: %v", r.id, err)
	}
	r.persistAndBroadcast()
	return nil
}

func (r *Room) handleCommand(userNo int, cmd mighty.Command) error {
	if r.game == nil {
		return ErrNoGame
	}
	seat := r.seatOf(userNo)
	if seat == emptySeat {
		return ErrNotInRoom
	}
	cmd.Seat = seat

	next, err := mighty.Next(*r.game, seat, cmd, r.rule, r.rng)
	if err != nil {
		if sub, ok := r.subs[seat]; ok {
			sub.SendError(err)
		}
		return err
	}
	r.game = &next
	r.lastCommandAt = time.Now()
	r.seq++
	r.persistAndBroadcast()

	if next.Phase == mighty.PhaseGameEnded {
		r.settleGame(next)
	}
	return nil
}

func (r *Room) persistAndBroadcast() {
	if err := r.store.SaveState(context.Background(), r.gameID, r.id, r.seq, *r.game); err != nil {
		log.Printf("[Room %d] save_state failed: %v", r.id, err)
	}
	for seat, sub := range r.subs {
		sub.SendState(mighty.Project(*r.game, seat, r.rule))
	}
	for sub := range r.observers {
		sub.SendState(mighty.Project(*r.game, -1, r.rule))
	}
	r.broadcastRoomInfo()
}

func (r *Room) settleGame(final mighty.State) {
	if r.isRank && r.ratingPolicy != nil {
		outcome := storage.GameOutcome{
			GameID:    r.gameID,
			Users:     append([]int(nil), r.seats...),
			Winners:   final.GameEnded.Winners,
			President: final.GameEnded.President,
			Friend:    final.GameEnded.Friend,
			Gain:      ratingGain(final),
		}
		deltas := r.ratingPolicy(outcome)
		for _, no := range r.seats {
			diff := deltas[no]
			info, err := r.store.GetUserInfo(context.Background(), no)
			if err != nil {
				log.Printf("[Room %d] get_user_info failed for user %d during settlement: %v", r.id, no, err)
				continue
			}
			newRating := info.Rating + diff
			if err := r.store.ChangeRating(context.Background(), no, r.gameID, diff, newRating); err != nil {
				log.Printf("[Room %d] change_rating failed for user %d: %v", r.id, no, err)
			}
		}
	}
	r.game = nil
	r.gameID = uuid.UUID{}
	r.seq = 0
	r.rotateForNextDealer(final)
	r.broadcastRoomInfo()
}

// nextDealerSeat picks who deals the room's next game, per r.rule.NextDealer.
func (r *Room) nextDealerSeat(final mighty.State) int {
	ge := final.GameEnded
	switch r.rule.NextDealer {
	case mighty.DealerFriend:
		if ge.Friend != nil {
			return *ge.Friend
		}
		return ge.President
	case mighty.DealerWinner:
		for seat := range r.seats {
			if ge.Winners&(1<<uint(seat)) != 0 {
				return seat
			}
		}
		return 0
	case mighty.DealerRandom:
		return r.rng.Intn(len(r.seats))
	default:
		return 0
	}
}

// rotateForNextDealer reseats players so the chosen next dealer occupies
// seat 0 — the engine always treats seat 0 as the leader that issues
// StartGame (see engine.go's CmdStartGame handling), so consecutive
// games express "who deals" purely through seat assignment.
func (r *Room) rotateForNextDealer(final mighty.State) {
	dealer := r.nextDealerSeat(final)
	n := len(r.seats)
	if n == 0 || dealer <= 0 || dealer >= n {
		return
	}
	newSeats := make([]int, n)
	newSubs := make(map[int]Subscriber, len(r.subs))
	newJoined := make(map[int]time.Time, len(r.joined))
	for old := 0; old < n; old++ {
		nw := (old - dealer + n) % n
		newSeats[nw] = r.seats[old]
		if sub, ok := r.subs[old]; ok {
			newSubs[nw] = sub
		}
		if t, ok := r.joined[old]; ok {
			newJoined[nw] = t
		}
	}
	r.seats = newSeats
	r.subs = newSubs
	r.joined = newJoined
	if r.head != emptySeat {
		r.head = (r.head - dealer + n) % n
	}
}

// ratingGain hands the rating policy the point swing that the engine's
// end-of-game scoring already recorded in GameEndedState.Score (the
// ruling side's gain, or the opposition's margin), independent of which
// side it favored.
func ratingGain(final mighty.State) int {
	return final.GameEnded.Score
}

// checkStall injects Random for whichever seat the current phase is
// waiting on once its rule.Timing cap elapses without a command
// (spec.md §5, "Cancellation and timeouts").
func (r *Room) checkStall() {
	if r.game == nil {
		return
	}
	seat, cap, ok := stalledSeat(*r.game, r.rule.Timing)
	if !ok || cap <= 0 {
		return
	}
	if time.Since(r.lastCommandAt) < cap {
		return
	}
	userNo := r.seats[seat]
	if err := r.handleCommand(userNo, mighty.RandomCmd(seat)); err != nil {
		log.Printf("[Room %d] stall timeout Random for seat %d failed: %v", r.id, seat, err)
	}
}

func stalledSeat(state mighty.State, timing mighty.TimingRule) (seat int, cap time.Duration, ok bool) {
	switch state.Phase {
	case mighty.PhaseElection:
		if timing.ElectionOneTurn > 0 {
			return state.Election.Current, timing.ElectionOneTurn, true
		}
	case mighty.PhaseSelectFriend:
		if timing.SelectFriendTime > 0 {
			return state.SelectFriend.President, timing.SelectFriendTime, true
		}
	case mighty.PhaseInGame:
		if timing.InGameOneTurn > 0 {
			return state.InGame.CurrentSeat, timing.InGameOneTurn, true
		}
	}
	return 0, 0, false
}

func (r *Room) info() RoomInfo {
	users := make([]int, len(r.seats))
	copy(users, r.seats)
	return RoomInfo{
		UID:           r.uid,
		ID:            r.id,
		Name:          r.name,
		Rule:          r.rule,
		IsRank:        r.isRank,
		Head:          r.head,
		Users:         users,
		ObserverCount: len(r.observers),
		IsGame:        r.game != nil,
	}
}

func (r *Room) broadcastRoomInfo() {
	info := r.info()
	for seat, sub := range r.subs {
		_ = seat
		sub.SendRoomInfo(info)
	}
	for sub := range r.observers {
		sub.SendRoomInfo(info)
	}
	for sub := range r.listSubs {
		sub.SendRoomInfo(info)
	}
}
