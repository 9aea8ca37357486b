package session

import (
	"encoding/json"
	"log"
	"net/http"

	"mighty/apps/server/internal/hub"
	"mighty/apps/server/internal/room"
	"mighty/mighty"
)

// roomClientMsg decodes the Room protocol's client→server frames
// (spec.md §6): the bare string "Start", or one of the three object forms.
type roomClientMsg struct {
	ChangeName *string        `json:"ChangeName,omitempty"`
	ChangeRule *mighty.Rule   `json:"ChangeRule,omitempty"`
	Command    *mighty.Command `json:"Command,omitempty"`
}

// roomServerMsg is the Room/Observe protocols' shared server→client frame.
type roomServerMsg struct {
	Room  *room.RoomInfo `json:"Room,omitempty"`
	Game  *mighty.State  `json:"Game,omitempty"`
	Error *string        `json:"Error,omitempty"`
}

// RoomSession is the Room-protocol (playing) and Observe-protocol
// (read-only) handler. addr resolves asynchronously: the websocket
// upgrade and read pump start immediately, while the Hub round trip to
// look up the room is still in flight (spec.md §4.5's ExternalAddr
// pattern), so any client frame racing the lookup is queued rather than
// dropped.
type RoomSession struct {
	*Session
	userNo     int
	isObserver bool
	addr       ExternalAddr[*room.Room]
}

func (rs *RoomSession) SendRoomInfo(info room.RoomInfo) { rs.Enqueue(roomServerMsg{Room: &info}) }
func (rs *RoomSession) SendState(st mighty.State)        { rs.Enqueue(roomServerMsg{Game: &st}) }
func (rs *RoomSession) SendError(err error) {
	msg := err.Error()
	rs.Enqueue(roomServerMsg{Error: &msg})
}

// ServeRoom upgrades r and runs a Room-protocol session. Expects
// ?room_id=<RoomId>&user_no=<UserNo>.
func ServeRoom(h *hub.Hub, w http.ResponseWriter, r *http.Request) {
	serveRoomOrObserve(h, w, r, false)
}

// ServeObserve upgrades r and runs an Observe-protocol session. Expects
// ?room_id=<RoomId>.
func ServeObserve(h *hub.Hub, w http.ResponseWriter, r *http.Request) {
	serveRoomOrObserve(h, w, r, true)
}

func serveRoomOrObserve(h *hub.Hub, w http.ResponseWriter, r *http.Request, observer bool) {
	roomID, ok := queryInt(r, "room_id")
	if !ok {
		http.Error(w, "missing room_id", http.StatusBadRequest)
		return
	}
	var userNo int
	if !observer {
		userNo, ok = queryInt(r, "user_no")
		if !ok {
			http.Error(w, "missing user_no", http.StatusBadRequest)
			return
		}
	}

	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Room] upgrade failed: %v", err)
		return
	}

	rs := &RoomSession{
		Session:    newSession(conn),
		userNo:     userNo,
		isObserver: observer,
	}
	rs.start(rs.onClosed, rs.onMessage)

	go func() {
		rm, err := h.GetRoom(roomID)
		if err != nil {
			msg := err.Error()
			rs.Enqueue(roomServerMsg{Error: &msg})
			rs.Close()
			return
		}
		var joinErr error
		if observer {
			joinErr = rm.JoinObserver(rs)
		} else {
			joinErr = rm.Join(userNo, rs)
		}
		if joinErr != nil {
			msg := joinErr.Error()
			rs.Enqueue(roomServerMsg{Error: &msg})
			rs.Close()
			return
		}
		rs.addr.Bind(rm)
	}()
}

func (rs *RoomSession) onMessage(data []byte) {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString == "Start" && !rs.isObserver {
			rs.addr.Send(func(rm *room.Room) {
				if err := rm.StartGame(rs.userNo); err != nil {
					rs.SendError(err)
				}
			})
		}
		return
	}
	if rs.isObserver {
		return // Observe is read-only; ignore any non-"Start" client frame too.
	}

	var msg roomClientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	switch {
	case msg.ChangeName != nil:
		name := *msg.ChangeName
		rs.addr.Send(func(rm *room.Room) {
			if err := rm.ChangeName(rs.userNo, name); err != nil {
				rs.SendError(err)
			}
		})
	case msg.ChangeRule != nil:
		rule := *msg.ChangeRule
		rs.addr.Send(func(rm *room.Room) {
			if err := rm.ChangeRule(rs.userNo, rule); err != nil {
				rs.SendError(err)
			}
		})
	case msg.Command != nil:
		cmd := *msg.Command
		rs.addr.Send(func(rm *room.Room) {
			if err := rm.Command(rs.userNo, cmd); err != nil {
				rs.SendError(err)
			}
		})
	}
}

func (rs *RoomSession) onClosed() {
	if !rs.addr.Bound() {
		return
	}
	rs.addr.Send(func(rm *room.Room) {
		if rs.isObserver {
			rm.LeaveObserver(rs)
		} else {
			if err := rm.Leave(rs.userNo); err != nil {
				log.Printf("[Room] leave on disconnect failed for user %d: %v", rs.userNo, err)
			}
		}
	})
}
