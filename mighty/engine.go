package mighty

import (
	"math/rand"

	"mighty/card"
)

// Next is the engine's single entry point: given a state, the acting
// seat, a command and the rule the game runs under, it returns the next
// state or the first invariant the command violates. rng is only
// consulted by commands that have a random component (an initial deal,
// a Random pass/pick, or settling a tied election) so replays stay
// deterministic when driven by a seeded source.
func Next(state State, seat int, cmd Command, rule Rule, rng *rand.Rand) (State, error) {
	switch state.Phase {
	case PhaseNotStarted:
		return nextNotStarted(state, seat, cmd, rule, rng)
	case PhaseElection:
		return nextElection(state, seat, cmd, rule, rng)
	case PhaseSelectFriend:
		return nextSelectFriend(state, seat, cmd, rule, rng)
	case PhaseInGame:
		return nextInGame(state, seat, cmd, rule, rng)
	case PhaseGameEnded:
		return state, nil
	default:
		return state, InternalError("unknown phase")
	}
}

func nextNotStarted(state State, seat int, cmd Command, rule Rule, rng *rand.Rand) (State, error) {
	if cmd.Kind != CmdStartGame {
		return state, InvalidCommandError{Expected: "StartGame"}
	}
	if seat != 0 {
		return state, ErrNotLeader
	}
	hands, left := dealHands(rule, rng)
	current := 0
	if rule.Election.Has(ElectionPassFirst) {
		current = 1 % rule.UserCount
	}
	return State{
		Phase: PhaseElection,
		Election: ElectionState{
			Pledge:  make([]*Pledge, rule.UserCount),
			Done:    make([]bool, rule.UserCount),
			Hands:   hands,
			Left:    left,
			Current: current,
		},
	}, nil
}

func cloneElection(es ElectionState) ElectionState {
	out := es
	out.Pledge = append([]*Pledge(nil), es.Pledge...)
	out.Done = append([]bool(nil), es.Done...)
	out.Hands = cloneHands(es.Hands)
	out.Left = es.Left.Clone()
	return out
}

func cloneHands(hands []card.Deck) []card.Deck {
	out := make([]card.Deck, len(hands))
	for i, h := range hands {
		out[i] = h.Clone()
	}
	return out
}

func nextElection(state State, seat int, cmd Command, rule Rule, rng *rand.Rand) (State, error) {
	switch cmd.Kind {
	case CmdRandom:
		return nextElection(state, seat, PledgePass(seat), rule, rng)
	case CmdPledge:
		if cmd.Pledge == nil {
			return electionPass(state, seat, rule, rng)
		}
		return electionBid(state, seat, *cmd.Pledge, rule)
	default:
		return state, InvalidCommandError{Expected: "Pledge"}
	}
}

// electionBid validates and records a bid. The admissible floor is the
// greater of rule.Pledge.Min and the highest existing bid, shifted by
// NoGirudaOffset for a no-trump bid; when Election.Increasing is set the
// floor instead becomes one above the highest *actual* existing bid (a
// fresh floor of rule.Pledge.Min is still accepted at par, since nobody
// has outbid it yet).
func electionBid(state State, seat int, p Pledge, rule Rule) (State, error) {
	es := state.Election
	if seat < 0 || seat >= len(es.Pledge) {
		return state, InternalError("seat out of range")
	}
	if es.Done[seat] {
		return state, InvalidCommandError{Expected: "seat already settled"}
	}
	if rule.Election.Has(ElectionOrdered) && seat != es.Current {
		return state, InvalidUserError{ExpectedSeat: es.Current}
	}
	if p.IsNoTrump() && !rule.Election.Has(ElectionNoGirudaExist) {
		return state, InvalidCommandError{Expected: "trump pledge"}
	}
	if p.Count > rule.Pledge.Max {
		return state, InvalidPledgeError{IsCeiling: true, Bound: rule.Pledge.Max}
	}

	priorMax, anyBid := 0, false
	for _, pl := range es.Pledge {
		if pl != nil {
			anyBid = true
			if pl.Count > priorMax {
				priorMax = pl.Count
			}
		}
	}
	offset := 0
	if p.IsNoTrump() {
		offset = rule.Pledge.NoGirudaOffset
	}
	floor := rule.Pledge.Min
	if priorMax > floor {
		floor = priorMax
	}
	floor += offset
	if rule.Election.Has(ElectionIncreasing) && anyBid {
		floor = priorMax + offset + 1
	}
	if p.Count < floor {
		return state, InvalidPledgeError{IsCeiling: false, Bound: floor}
	}
	if own := es.Pledge[seat]; own != nil && p.Count <= own.Count &&
		(own.Trump == nil) == (p.Trump == nil) && (own.Trump == nil || *own.Trump == *p.Trump) {
		return state, ErrSameGiruda
	}

	out := cloneElection(es)
	pCopy := p
	out.Pledge[seat] = &pCopy
	if rule.Election.Has(ElectionOrdered) {
		out.Current = (out.Current + 1) % rule.UserCount
	}
	return State{Phase: PhaseElection, Election: out}, nil
}

func electionPass(state State, seat int, rule Rule, rng *rand.Rand) (State, error) {
	es := state.Election
	if seat < 0 || seat >= len(es.Done) {
		return state, InternalError("seat out of range")
	}
	if es.Done[seat] {
		return state, InvalidCommandError{Expected: "seat already settled"}
	}
	if rule.Election.Has(ElectionOrdered) && seat != es.Current {
		return state, InvalidUserError{ExpectedSeat: es.Current}
	}

	out := cloneElection(es)
	out.Done[seat] = true
	if rule.Election.Has(ElectionOrdered) {
		out.Current = (out.Current + 1) % rule.UserCount
	}

	allDone := true
	for _, d := range out.Done {
		if !d {
			allDone = false
			break
		}
	}
	if !allDone {
		return State{Phase: PhaseElection, Election: out}, nil
	}

	candidates := []int{}
	lastMax := 0
	for i, pl := range out.Pledge {
		c := 0
		if pl != nil {
			c = pl.Count
		}
		switch {
		case c > lastMax:
			candidates = []int{i}
			lastMax = c
		case c == lastMax:
			candidates = append(candidates, i)
		}
	}
	president := candidates[rng.Intn(len(candidates))]

	var chosen Pledge
	if lastMax <= 0 {
		options := defaultPledgeOptions(rule)
		chosen = options[rng.Intn(len(options))]
	} else if out.Pledge[president] != nil {
		chosen = *out.Pledge[president]
	}

	hands := cloneHands(out.Hands)
	hands[president] = append(hands[president], out.Left...)

	return State{
		Phase: PhaseSelectFriend,
		SelectFriend: SelectFriendState{
			President: president,
			Pledge:    chosen,
			Hands:     hands,
		},
	}, nil
}

// defaultPledgeOptions is drawn from when an election closes with every
// seat passing: rule.Pledge.Min-1 with no trump (when admissible), or
// rule.Pledge.Min in each pattern rule.PatternOrder names.
func defaultPledgeOptions(rule Rule) []Pledge {
	var out []Pledge
	if rule.Election.Has(ElectionNoGirudaExist) {
		out = append(out, Pledge{Trump: nil, Count: rule.Pledge.Min - 1})
	}
	for i := range rule.PatternOrder {
		p := rule.PatternOrder[i]
		out = append(out, Pledge{Trump: &p, Count: rule.Pledge.Min})
	}
	return out
}

func nextSelectFriend(state State, seat int, cmd Command, rule Rule, rng *rand.Rand) (State, error) {
	sf := state.SelectFriend
	switch cmd.Kind {
	case CmdRandom:
		hand := sf.Hands[sf.President]
		perm := rng.Perm(len(hand))
		var dropped [4]card.Card
		for i := 0; i < 4 && i < len(perm); i++ {
			dropped[i] = hand[perm[i]]
		}
		fn := FriendFunc{Kind: FriendByUser, Seat: rng.Intn(rule.UserCount)}
		return nextSelectFriend(state, sf.President, SelectFriendCmd(sf.President, fn, dropped), rule, rng)
	case CmdSelectFriend:
		return selectFriend(state, seat, cmd, rule)
	default:
		return state, InvalidCommandError{Expected: "SelectFriend"}
	}
}

func selectFriend(state State, seat int, cmd Command, rule Rule) (State, error) {
	sf := state.SelectFriend
	if seat != sf.President {
		return state, ErrNotPresident
	}
	hands := cloneHands(sf.Hands)
	for _, d := range cmd.Dropped {
		if !hands[seat].Remove(d) {
			return state, ErrNotInDeck
		}
	}

	var friend *int
	switch cmd.FriendFunc.Kind {
	case FriendByCard:
		for i, h := range hands {
			if i != sf.President && h.Contains(cmd.FriendFunc.Card) {
				f := i
				friend = &f
				break
			}
		}
	case FriendByUser:
		if cmd.FriendFunc.Seat != sf.President {
			f := cmd.FriendFunc.Seat
			friend = &f
		}
	case FriendByWinning:
		// resolved once that turn's trick is won.
	case FriendNone:
	}
	friendKnown := cmd.FriendFunc.Kind == FriendNone || cmd.FriendFunc.Kind == FriendByUser

	placed := make([]card.Card, rule.UserCount)
	scorePiles := make([]card.Deck, rule.UserCount)
	return State{
		Phase: PhaseInGame,
		InGame: InGameState{
			President:   sf.President,
			FriendFunc:  cmd.FriendFunc,
			Friend:      friend,
			FriendKnown: friendKnown,
			Trump:       sf.Pledge.Trump,
			PledgeCount: sf.Pledge.Count,
			Hands:       hands,
			ScorePiles:  scorePiles,
			Turn:        0,
			Placed:      placed,
			StartSeat:   sf.President,
			CurrentSeat: sf.President,
			CurrentRush: card.RushSpade,
			JokerCalled: false,
		},
	}, nil
}
