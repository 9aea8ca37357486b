package session

import (
	"encoding/json"
	"net/http"
	"sync"

	"mighty/apps/server/internal/hub"
	"mighty/apps/server/internal/presence"
)

// chatMessage is the Chat sub-protocol's one frame shape, in both
// directions: spec.md §6 names the "chat" tag but leaves its payload
// unspecified, so this is a minimal best-effort text relay scoped to one
// room, not a feature the rule engine or storage adapter is aware of.
type chatMessage struct {
	UserNo int    `json:"user_no"`
	Text   string `json:"text"`
}

var chatRooms sync.Map // roomID -> *chatRoom

type chatRoom struct {
	mu       sync.Mutex
	sessions map[*ChatSession]bool
}

func chatRoomFor(roomID int) *chatRoom {
	v, _ := chatRooms.LoadOrStore(roomID, &chatRoom{sessions: make(map[*ChatSession]bool)})
	return v.(*chatRoom)
}

// ChatSession relays text frames between every session currently
// connected to the same room's chat stream.
type ChatSession struct {
	*Session
	h      *hub.Hub
	self   *presence.User
	userNo int
	roomID int
	cr     *chatRoom
}

// ServeChat upgrades r and runs a Chat-protocol session. Expects
// ?room_id=<RoomId>&user_no=<UserNo>.
func ServeChat(h *hub.Hub, w http.ResponseWriter, r *http.Request) {
	roomID, ok := queryInt(r, "room_id")
	if !ok {
		http.Error(w, "missing room_id", http.StatusBadRequest)
		return
	}
	userNo, ok := queryInt(r, "user_no")
	if !ok {
		http.Error(w, "missing user_no", http.StatusBadRequest)
		return
	}
	self, err := h.Connect(userNo)
	if err != nil {
		http.Error(w, "connect failed", http.StatusUnauthorized)
		return
	}

	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	cs := &ChatSession{
		Session: newSession(conn),
		h:       h,
		self:    self,
		userNo:  userNo,
		roomID:  roomID,
		cr:      chatRoomFor(roomID),
	}
	self.Connect(presence.ChannelChat, cs)
	cs.cr.mu.Lock()
	cs.cr.sessions[cs] = true
	cs.cr.mu.Unlock()

	cs.start(cs.onClosed, cs.onMessage)
}

func (cs *ChatSession) onMessage(data []byte) {
	cs.self.Activity(presence.ChannelChat, cs)

	var msg chatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	msg.UserNo = cs.userNo

	cs.cr.mu.Lock()
	defer cs.cr.mu.Unlock()
	for peer := range cs.cr.sessions {
		peer.Enqueue(msg)
	}
}

func (cs *ChatSession) onClosed() {
	cs.self.Disconnect(presence.ChannelChat, cs)
	cs.cr.mu.Lock()
	delete(cs.cr.sessions, cs)
	cs.cr.mu.Unlock()
}
