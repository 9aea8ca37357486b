package room

import "mighty"

// emptySeat marks an unoccupied seat in Room.seats.
const emptySeat = -1

// RoomInfo is the §6 wire record broadcast to list subscribers and
// embedded in every Room-protocol and Observe-protocol "Room" message.
type RoomInfo struct {
	UID           string      `json:"uid"`
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Rule          mighty.Rule `json:"rule"`
	IsRank        bool        `json:"is_rank"`
	Head          int         `json:"head"`
	Users         []int       `json:"user"` // UserNo per seat; emptySeat for an open seat
	ObserverCount int         `json:"observer_cnt"`
	IsGame        bool        `json:"is_game"`
}
