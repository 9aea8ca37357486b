package room

import "errors"

var (
	ErrRoomFull        = errors.New("room: no empty seat")
	ErrNotInRoom       = errors.New("room: user is not seated here")
	ErrAlreadyJoined   = errors.New("room: user already seated")
	ErrGameInProgress  = errors.New("room: game in progress")
	ErrNotHead         = errors.New("room: only the head may do that")
	ErrNotEnoughSeats  = errors.New("room: not every seat is occupied")
	ErrNoGame          = errors.New("room: no game in progress")
	ErrRoomClosed      = errors.New("room: room closed")
)
