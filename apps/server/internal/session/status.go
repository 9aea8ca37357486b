package session

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"mighty/apps/server/internal/hub"
	"mighty/apps/server/internal/presence"
)

// statusClientMsg decodes the Main protocol's client→server frames
// (spec.md §6): the bare string "Update", or an object selecting a
// UserNo to watch.
type statusClientMsg struct {
	Subscribe   *int `json:"Subscribe,omitempty"`
	Unsubscribe *int `json:"Unsubscribe,omitempty"`
}

// statusServerMsg is the Main protocol's server→client frame.
type statusServerMsg struct {
	UserNo int    `json:"user_no"`
	Status string `json:"status"`
}

// StatusSession is the Main-protocol handler: it owns a connection on
// the caller's own ChannelMain and forwards status changes for whichever
// UserNos the client subscribes to.
type StatusSession struct {
	*Session
	h      *hub.Hub
	self   *presence.User
	userNo int

	mu        sync.Mutex
	listeners map[int]presence.ListenerID
	watched   map[int]*presence.User
}

// ServeStatus upgrades r and runs a Main-protocol session until the
// stream closes. Expects ?user_no=<UserNo>.
func ServeStatus(h *hub.Hub, w http.ResponseWriter, r *http.Request) {
	userNo, ok := queryInt(r, "user_no")
	if !ok {
		http.Error(w, "missing user_no", http.StatusBadRequest)
		return
	}
	self, err := h.Connect(userNo)
	if err != nil {
		log.Printf("[Status] connect failed for user %d: %v", userNo, err)
		http.Error(w, "connect failed", http.StatusUnauthorized)
		return
	}

	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Status] upgrade failed: %v", err)
		return
	}

	ss := &StatusSession{
		Session:   newSession(conn),
		h:         h,
		self:      self,
		userNo:    userNo,
		listeners: make(map[int]presence.ListenerID),
		watched:   make(map[int]*presence.User),
	}
	self.Connect(presence.ChannelMain, ss)
	ss.start(ss.onClosed, ss.onMessage)
}

func (ss *StatusSession) onMessage(data []byte) {
	ss.self.Activity(presence.ChannelMain, ss)

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString == "Update" {
			return // Activity above already refreshed the sender's own status.
		}
		return
	}

	var msg statusClientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	switch {
	case msg.Subscribe != nil:
		ss.subscribe(*msg.Subscribe)
	case msg.Unsubscribe != nil:
		ss.unsubscribe(*msg.Unsubscribe)
	}
}

func (ss *StatusSession) subscribe(userNo int) {
	ss.mu.Lock()
	if _, ok := ss.watched[userNo]; ok {
		ss.mu.Unlock()
		return
	}
	ss.mu.Unlock()

	u, err := ss.h.GetUser(userNo)
	if err != nil {
		return
	}
	id := u.AddListener(func(st presence.Status) {
		ss.Enqueue(statusServerMsg{UserNo: userNo, Status: st.String()})
	})
	ss.Enqueue(statusServerMsg{UserNo: userNo, Status: u.GetStatus().String()})

	ss.mu.Lock()
	ss.watched[userNo] = u
	ss.listeners[userNo] = id
	ss.mu.Unlock()
}

func (ss *StatusSession) unsubscribe(userNo int) {
	ss.mu.Lock()
	u, ok := ss.watched[userNo]
	id := ss.listeners[userNo]
	delete(ss.watched, userNo)
	delete(ss.listeners, userNo)
	ss.mu.Unlock()
	if ok {
		u.RemoveListener(id)
	}
}

func (ss *StatusSession) onClosed() {
	ss.self.Disconnect(presence.ChannelMain, ss)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for userNo, u := range ss.watched {
		u.RemoveListener(ss.listeners[userNo])
	}
}
