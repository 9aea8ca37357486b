package session

import (
	"encoding/json"
	"net/http"
	"sync"

	"mighty/apps/server/internal/hub"
	"mighty/apps/server/internal/room"
)

// listClientMsg decodes the List protocol's client→server frames.
type listClientMsg struct {
	Subscribe   *int `json:"Subscribe,omitempty"`
	Unsubscribe *int `json:"Unsubscribe,omitempty"`
}

// listServerMsg is the List protocol's server→client frame.
type listServerMsg struct {
	Room *room.RoomInfo `json:"Room,omitempty"`
}

// ListSession is the List-protocol handler: a read side onto the rooms
// the client has chosen to watch, each added/dropped independently.
type ListSession struct {
	*Session
	h *hub.Hub

	mu      sync.Mutex
	watched map[int]*room.Room
}

func (ls *ListSession) SendRoomInfo(info room.RoomInfo) {
	ls.Enqueue(listServerMsg{Room: &info})
}

// ServeList upgrades r and runs a List-protocol session until the stream closes.
func ServeList(h *hub.Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ls := &ListSession{
		Session: newSession(conn),
		h:       h,
		watched: make(map[int]*room.Room),
	}
	ls.start(ls.onClosed, ls.onMessage)
}

func (ls *ListSession) onMessage(data []byte) {
	var msg listClientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	switch {
	case msg.Subscribe != nil:
		ls.subscribe(*msg.Subscribe)
	case msg.Unsubscribe != nil:
		ls.unsubscribe(*msg.Unsubscribe)
	}
}

func (ls *ListSession) subscribe(id int) {
	ls.mu.Lock()
	if _, ok := ls.watched[id]; ok {
		ls.mu.Unlock()
		return
	}
	ls.mu.Unlock()

	rm, err := ls.h.GetRoom(id)
	if err != nil {
		return
	}
	if err := rm.SubscribeList(ls); err != nil {
		return
	}
	ls.mu.Lock()
	ls.watched[id] = rm
	ls.mu.Unlock()
}

func (ls *ListSession) unsubscribe(id int) {
	ls.mu.Lock()
	rm, ok := ls.watched[id]
	delete(ls.watched, id)
	ls.mu.Unlock()
	if ok {
		rm.UnsubscribeList(ls)
	}
}

func (ls *ListSession) onClosed() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, rm := range ls.watched {
		rm.UnsubscribeList(ls)
	}
}
