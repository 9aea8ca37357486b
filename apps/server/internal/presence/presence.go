// Package presence implements the per-user presence actor spec.md §4.4
// describes: a live-connection set per sub-protocol channel, a derived
// Status, and a debounced listener registry. Like room.Room and
// table.Table before it, a User mutates its own state only from its own
// goroutine — callers never lock anything, they submit and (when they
// need an answer) wait.
package presence

import (
	"sync"
	"time"
)

// Channel names one of the four sub-protocol connection sets a User
// tracks independently (spec.md §4.4).
type Channel int

const (
	ChannelMain Channel = iota
	ChannelRoom
	ChannelObserve
	ChannelChat
	numChannels
)

// Status is the derived presence state spec.md §4.4 defines.
type Status int

const (
	StatusOnline Status = iota
	StatusAbsent
	StatusDisconnected
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusAbsent:
		return "absent"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "offline"
	}
}

// Timing constants from spec.md §6.
const (
	AbsentTime       = 300 * time.Second
	ReconnectionTime = 10 * time.Second
)

// HubHandle lets a User tell its owning Hub it has gone fully Offline, so
// the Hub can garbage-collect the entry (spec.md §4.4, §4.2 Disconnect).
type HubHandle interface {
	Disconnect(userNo int)
}

// Conn is an opaque handle identifying one live session on one channel.
// Sessions satisfy this implicitly; presence never calls into it.
type Conn interface{}

// ListenerID is returned by AddListener and passed back to RemoveListener.
type ListenerID uint64

// User is the presence actor for one UserNo.
type User struct {
	No   int
	Name string

	hub            HubHandle
	absentAfter    time.Duration
	reconnectAfter time.Duration

	cmds chan func(*User)
	done chan struct{}
	once sync.Once

	conns            [numChannels]map[Conn]time.Time
	hasEverConnected bool
	lastClose        time.Time
	status           Status
	listeners        map[ListenerID]func(Status)
	nextListenerID   ListenerID
}

// New starts a User actor's goroutine and returns a handle to it.
func New(no int, name string, hub HubHandle) *User {
	u := &User{
		No:             no,
		Name:           name,
		hub:            hub,
		absentAfter:    AbsentTime,
		reconnectAfter: ReconnectionTime,
		cmds:           make(chan func(*User), 64),
		done:           make(chan struct{}),
		status:         StatusOffline,
		listeners:      make(map[ListenerID]func(Status)),
	}
	for i := range u.conns {
		u.conns[i] = make(map[Conn]time.Time)
	}
	go u.run()
	return u
}

func (u *User) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case cmd := <-u.cmds:
			cmd(u)
		case now := <-ticker.C:
			u.recompute(now)
		case <-u.done:
			return
		}
	}
}

func (u *User) submit(fn func(*User)) {
	select {
	case u.cmds <- fn:
	case <-u.done:
	}
}

func (u *User) submitWait(fn func(*User)) {
	reply := make(chan struct{})
	u.submit(func(u *User) {
		fn(u)
		close(reply)
	})
	select {
	case <-reply:
	case <-u.done:
	}
}

// Connect registers a new live session on the given channel.
func (u *User) Connect(ch Channel, c Conn) {
	u.submit(func(u *User) {
		u.conns[ch][c] = time.Now()
		u.hasEverConnected = true
		u.recompute(time.Now())
	})
}

// Disconnect drops a session from the given channel. If it was the last
// open connection across all channels, the reconnection window starts now.
func (u *User) Disconnect(ch Channel, c Conn) {
	u.submit(func(u *User) {
		delete(u.conns[ch], c)
		if u.openConnCount() == 0 {
			u.lastClose = time.Now()
		}
		u.recompute(time.Now())
	})
}

// Activity bumps the last-activity timestamp for an already-registered
// session, e.g. on every inbound frame a session decodes.
func (u *User) Activity(ch Channel, c Conn) {
	u.submit(func(u *User) {
		if _, ok := u.conns[ch][c]; ok {
			u.conns[ch][c] = time.Now()
			u.recompute(time.Now())
		}
	})
}

func (u *User) openConnCount() int {
	n := 0
	for _, m := range u.conns {
		n += len(m)
	}
	return n
}

func (u *User) lastActivity() (t time.Time, open bool) {
	for _, m := range u.conns {
		for _, ts := range m {
			if !open || ts.After(t) {
				t, open = ts, true
			}
		}
	}
	return t, open
}

// recompute re-derives Status per spec.md §4.4 and fires listeners only
// on an actual transition (debounced).
func (u *User) recompute(now time.Time) {
	last, open := u.lastActivity()
	var next Status
	switch {
	case open && now.Sub(last) < u.absentAfter:
		next = StatusOnline
	case open:
		next = StatusAbsent
	case u.hasEverConnected && now.Sub(u.lastClose) < u.reconnectAfter:
		next = StatusDisconnected
	default:
		next = StatusOffline
	}
	if next == u.status {
		return
	}
	prev := u.status
	u.status = next
	for _, fn := range u.listeners {
		fn(next)
	}
	if prev != StatusOffline && next == StatusOffline && u.hub != nil {
		u.hub.Disconnect(u.No)
	}
}

// AddListener registers fn to be called on every Status transition and
// returns an id for RemoveListener.
func (u *User) AddListener(fn func(Status)) ListenerID {
	var id ListenerID
	u.submitWait(func(u *User) {
		u.nextListenerID++
		id = u.nextListenerID
		u.listeners[id] = fn
	})
	return id
}

func (u *User) RemoveListener(id ListenerID) {
	u.submit(func(u *User) {
		delete(u.listeners, id)
	})
}

// GetStatus returns the current derived Status.
func (u *User) GetStatus() Status {
	var s Status
	u.submitWait(func(u *User) { s = u.status })
	return s
}

// Stop shuts the actor's goroutine down; safe to call more than once.
func (u *User) Stop() {
	u.once.Do(func() { close(u.done) })
}
