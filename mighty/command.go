package mighty

import (
	"encoding/json"
	"fmt"
	"strconv"

	"mighty/card"
)

// CommandKind tags the Command variant.
type CommandKind byte

const (
	CmdStartGame CommandKind = iota
	CmdPledge
	CmdSelectFriend
	CmdGo
	CmdRandom
)

// Command is the tagged union every Next() call consumes. Seat is the
// acting seat, carried on every variant; Next acts on its own seat
// argument, and Room overwrites this field with the sender's seat.
type Command struct {
	Kind CommandKind
	Seat int

	// CmdPledge: nil Pledge means a pass (done), matching how Random
	// lowers to a pass in the Election phase.
	Pledge *Pledge

	// CmdSelectFriend
	FriendFunc FriendFunc
	Dropped    [4]card.Card

	// CmdGo
	Card        card.Card
	Rush        card.Rush
	JokerCalled bool
}

func StartGame(seat int) Command { return Command{Kind: CmdStartGame, Seat: seat} }

func PledgeBid(seat int, trump *card.Pattern, count int) Command {
	return Command{Kind: CmdPledge, Seat: seat, Pledge: &Pledge{Trump: trump, Count: count}}
}

func PledgePass(seat int) Command {
	return Command{Kind: CmdPledge, Seat: seat, Pledge: nil}
}

func SelectFriendCmd(seat int, fn FriendFunc, dropped [4]card.Card) Command {
	return Command{Kind: CmdSelectFriend, Seat: seat, FriendFunc: fn, Dropped: dropped}
}

func Go(seat int, c card.Card, rush card.Rush, jokerCalled bool) Command {
	return Command{Kind: CmdGo, Seat: seat, Card: c, Rush: rush, JokerCalled: jokerCalled}
}

func RandomCmd(seat int) Command { return Command{Kind: CmdRandom, Seat: seat} }

// --- compact text grammar -------------------------------------------------

// Format renders the compact wire/logging form described in spec §6.
func (c Command) Format() string {
	switch c.Kind {
	case CmdStartGame:
		return fmt.Sprintf("h%d", c.Seat)
	case CmdPledge:
		if c.Pledge == nil {
			// Pass has no direct text encoding; callers should use Random.
			return fmt.Sprintf("r%d", c.Seat)
		}
		if c.Pledge.IsNoTrump() {
			return fmt.Sprintf("p%dn%d", c.Seat, c.Pledge.Count-12)
		}
		return fmt.Sprintf("p%d%s%d", c.Seat, c.Pledge.Trump.String(), c.Pledge.Count-13)
	case CmdSelectFriend:
		base := fmt.Sprintf("s%d%s%s%s%s", c.Seat,
			c.Dropped[0], c.Dropped[1], c.Dropped[2], c.Dropped[3])
		switch c.FriendFunc.Kind {
		case FriendByCard:
			return base + "c" + c.FriendFunc.Card.String()
		case FriendByUser:
			return base + fmt.Sprintf("u%d", c.FriendFunc.Seat)
		case FriendByWinning:
			return base + fmt.Sprintf("w%d", c.FriendFunc.Turn)
		default:
			return base + "n"
		}
	case CmdGo:
		called := 0
		if c.JokerCalled {
			called = 1
		}
		return fmt.Sprintf("g%d%s%s%d", c.Seat, c.Card, c.Rush, called)
	case CmdRandom:
		return fmt.Sprintf("r%d", c.Seat)
	}
	return ""
}

func (c Command) String() string { return c.Format() }

// ParseCommand reads the compact text grammar back into a Command.
func ParseCommand(s string) (Command, error) {
	if len(s) < 2 {
		return Command{}, ErrParse
	}
	seat, err := strconv.Atoi(s[1:2])
	if err != nil {
		return Command{}, ErrParse
	}
	switch s[0:1] {
	case "h":
		return StartGame(seat), nil
	case "p":
		if len(s) < 4 {
			return Command{}, ErrParse
		}
		switch s[2:3] {
		case "n":
			n, err := strconv.Atoi(s[3:4])
			if err != nil {
				return Command{}, ErrParse
			}
			return PledgeBid(seat, nil, n+12), nil
		case "s", "d", "h", "c":
			p, err := card.ParsePattern(s[2:3])
			if err != nil {
				return Command{}, ErrParse
			}
			n, err := strconv.Atoi(s[3:4])
			if err != nil {
				return Command{}, ErrParse
			}
			return PledgeBid(seat, &p, n+13), nil
		default:
			return Command{}, ErrParse
		}
	case "s":
		if len(s) < 11 {
			return Command{}, ErrParse
		}
		var dropped [4]card.Card
		for i := 0; i < 4; i++ {
			c, err := card.Parse(s[2+2*i : 4+2*i])
			if err != nil {
				return Command{}, ErrParse
			}
			dropped[i] = c
		}
		switch s[10:11] {
		case "n":
			return SelectFriendCmd(seat, FriendFunc{Kind: FriendNone}, dropped), nil
		case "c":
			if len(s) < 13 {
				return Command{}, ErrParse
			}
			c, err := card.Parse(s[11:13])
			if err != nil {
				return Command{}, ErrParse
			}
			return SelectFriendCmd(seat, FriendFunc{Kind: FriendByCard, Card: c}, dropped), nil
		case "u":
			if len(s) < 12 {
				return Command{}, ErrParse
			}
			n, err := strconv.Atoi(s[11:12])
			if err != nil {
				return Command{}, ErrParse
			}
			return SelectFriendCmd(seat, FriendFunc{Kind: FriendByUser, Seat: n}, dropped), nil
		case "w":
			if len(s) < 12 {
				return Command{}, ErrParse
			}
			n, err := strconv.Atoi(s[11:12])
			if err != nil {
				return Command{}, ErrParse
			}
			return SelectFriendCmd(seat, FriendFunc{Kind: FriendByWinning, Turn: n}, dropped), nil
		default:
			return Command{}, ErrParse
		}
	case "g":
		if len(s) < 6 {
			return Command{}, ErrParse
		}
		c, err := card.Parse(s[2:4])
		if err != nil {
			return Command{}, ErrParse
		}
		rush, err := card.ParseRush(s[4:5])
		if err != nil {
			return Command{}, ErrParse
		}
		return Go(seat, c, rush, s[5:6] == "1"), nil
	case "r":
		return RandomCmd(seat), nil
	default:
		return Command{}, ErrParse
	}
}

// --- JSON wire form --------------------------------------------------------

type wirePledgeValue struct {
	Trump *card.Pattern `json:"Trump,omitempty"`
	Count int           `json:"Count"`
}

type wireSelectFriend struct {
	FriendKind string      `json:"Kind"`
	Card       *card.Card  `json:"Card,omitempty"`
	Seat       *int        `json:"Seat,omitempty"`
	Turn       *int        `json:"Turn,omitempty"`
	Dropped    [4]card.Card `json:"Dropped"`
}

type wireGo struct {
	Card        card.Card `json:"Card"`
	Rush        card.Rush `json:"Rush"`
	JokerCalled bool      `json:"JokerCalled"`
}

type wireCommand struct {
	StartGame    *int              `json:"StartGame,omitempty"`
	Pledge       *wirePledgeValue  `json:"Pledge,omitempty"`
	PledgePass   *int              `json:"PledgePass,omitempty"`
	SelectFriend *wireSelectFriend `json:"SelectFriend,omitempty"`
	Go           *wireGo           `json:"Go,omitempty"`
	Random       *int              `json:"Random,omitempty"`
}

func (c Command) MarshalJSON() ([]byte, error) {
	var w wireCommand
	switch c.Kind {
	case CmdStartGame:
		w.StartGame = &c.Seat
	case CmdPledge:
		if c.Pledge == nil {
			w.PledgePass = &c.Seat
		} else {
			w.Pledge = &wirePledgeValue{Trump: c.Pledge.Trump, Count: c.Pledge.Count}
		}
	case CmdSelectFriend:
		wsf := &wireSelectFriend{Dropped: c.Dropped}
		switch c.FriendFunc.Kind {
		case FriendByCard:
			wsf.FriendKind = "ByCard"
			cc := c.FriendFunc.Card
			wsf.Card = &cc
		case FriendByUser:
			wsf.FriendKind = "ByUser"
			s := c.FriendFunc.Seat
			wsf.Seat = &s
		case FriendByWinning:
			wsf.FriendKind = "ByWinning"
			t := c.FriendFunc.Turn
			wsf.Turn = &t
		default:
			wsf.FriendKind = "None"
		}
		w.SelectFriend = wsf
	case CmdGo:
		w.Go = &wireGo{Card: c.Card, Rush: c.Rush, JokerCalled: c.JokerCalled}
	case CmdRandom:
		w.Random = &c.Seat
	}
	// the acting seat is carried as one top-level Seat field beside the
	// variant payload, so a single Seat round trips regardless of variant.
	type withSeat struct {
		wireCommand
		Seat int `json:"Seat"`
	}
	return json.Marshal(withSeat{wireCommand: w, Seat: c.Seat})
}

func (c *Command) UnmarshalJSON(data []byte) error {
	var w struct {
		wireCommand
		Seat int `json:"Seat"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	seat := w.Seat
	switch {
	case w.StartGame != nil:
		*c = StartGame(seat)
	case w.Pledge != nil:
		*c = PledgeBid(seat, w.Pledge.Trump, w.Pledge.Count)
	case w.PledgePass != nil:
		*c = PledgePass(seat)
	case w.SelectFriend != nil:
		sf := w.SelectFriend
		var fn FriendFunc
		switch sf.FriendKind {
		case "ByCard":
			if sf.Card == nil {
				return ErrParse
			}
			fn = FriendFunc{Kind: FriendByCard, Card: *sf.Card}
		case "ByUser":
			if sf.Seat == nil {
				return ErrParse
			}
			fn = FriendFunc{Kind: FriendByUser, Seat: *sf.Seat}
		case "ByWinning":
			if sf.Turn == nil {
				return ErrParse
			}
			fn = FriendFunc{Kind: FriendByWinning, Turn: *sf.Turn}
		default:
			fn = FriendFunc{Kind: FriendNone}
		}
		*c = SelectFriendCmd(seat, fn, sf.Dropped)
	case w.Go != nil:
		*c = Go(seat, w.Go.Card, w.Go.Rush, w.Go.JokerCalled)
	case w.Random != nil:
		*c = RandomCmd(seat)
	default:
		return ErrParse
	}
	return nil
}
