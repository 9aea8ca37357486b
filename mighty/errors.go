package mighty

import (
	"errors"
	"fmt"

	"mighty/card"
)

// ErrParse is returned by ParseCommand when the compact wire form is
// malformed.
var ErrParse = errors.New("mighty: parse error")

// Sentinel errors for the no-payload kinds, named exactly after the
// protocol's error codes (see spec §7).
var (
	ErrNotLeader    = errors.New("mighty: not leader")
	ErrNotPresident = errors.New("mighty: not president")
	ErrNotInDeck    = errors.New("mighty: card not in hand")
	ErrWrongCard    = errors.New("mighty: must-follow violation")
	ErrSameGiruda   = errors.New("mighty: trump already declared")
)

// InvalidCommandError reports a command rejected by the current phase.
type InvalidCommandError struct {
	Expected string
}

func (e InvalidCommandError) Error() string {
	return fmt.Sprintf("mighty: invalid command, expected %s", e.Expected)
}

// InvalidPledgeError reports a pledge outside the admissible range.
// IsCeiling distinguishes "above max" from "below floor".
type InvalidPledgeError struct {
	IsCeiling bool
	Bound     int
}

func (e InvalidPledgeError) Error() string {
	if e.IsCeiling {
		return fmt.Sprintf("mighty: pledge above ceiling %d", e.Bound)
	}
	return fmt.Sprintf("mighty: pledge below floor %d", e.Bound)
}

// InvalidUserError reports an action taken out of turn.
type InvalidUserError struct {
	ExpectedSeat int
}

func (e InvalidUserError) Error() string {
	return fmt.Sprintf("mighty: expected seat %d", e.ExpectedSeat)
}

// WrongCardTypeError reports an inconsistent joker rush declaration.
type WrongCardTypeError struct {
	ExpectedRush card.Rush
}

func (e WrongCardTypeError) Error() string {
	return fmt.Sprintf("mighty: expected rush %s", e.ExpectedRush)
}

// InternalError marks an engine invariant violation that should never
// occur in normal play.
type InternalError string

func (e InternalError) Error() string {
	return "mighty: internal: " + string(e)
}
