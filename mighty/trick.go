package mighty

import (
	"math/rand"

	"mighty/card"
)

// mightyCard is the single supreme card: the ace of spades, unless
// spade is trump, in which case it shifts to the ace of diamonds.
func mightyCard(trump *card.Pattern) card.Card {
	if trump != nil && *trump == card.Spade {
		c, _ := card.NewNormal(card.Diamond, 14)
		return c
	}
	c, _ := card.NewNormal(card.Spade, 14)
	return c
}

// Beats reports whether candidate wins a trick over the current best
// card played so far, given the trump (nil if none was pledged), the
// rush the trick's leader established, and whether a joker call is
// suppressing joker supremacy this trick.
func Beats(candidate, best card.Card, trump *card.Pattern, rush card.Rush, jokerCalled bool) bool {
	mighty := mightyCard(trump)
	if candidate == mighty {
		return true
	}
	if best == mighty {
		return false
	}

	switch {
	case !candidate.IsJoker() && !best.IsJoker():
		cTrump := trump != nil && candidate.Pattern() == *trump
		bTrump := trump != nil && best.Pattern() == *trump
		if cTrump != bTrump {
			return cTrump
		}
		if cTrump && bTrump {
			return candidate.Rank() > best.Rank()
		}
		cLed := rush.IsSameType(candidate)
		bLed := rush.IsSameType(best)
		if cLed != bLed {
			return cLed
		}
		return candidate.Rank() > best.Rank()

	case candidate.IsJoker() && !best.IsJoker():
		if jokerCalled || card.ColorOfRush(rush) != candidate.JokerColor() {
			return false
		}
		return !(trump != nil && best.Pattern() == *trump)

	case !candidate.IsJoker() && best.IsJoker():
		if jokerCalled || card.ColorOfRush(rush) != best.JokerColor() {
			return true
		}
		return trump != nil && candidate.Pattern() == *trump

	default: // both jokers
		return candidate.JokerColor() == card.ColorOfRush(rush)
	}
}

func nextInGame(state State, seat int, cmd Command, rule Rule, rng *rand.Rand) (State, error) {
	ig := state.InGame
	switch cmd.Kind {
	case CmdRandom:
		hand := ig.Hands[ig.CurrentSeat]
		if len(hand) == 0 {
			return state, InternalError("empty hand on Random Go")
		}
		c := hand[rng.Intn(len(hand))]
		return nextInGame(state, ig.CurrentSeat, Go(ig.CurrentSeat, c, card.RushOfCard(c), false), rule, rng)
	case CmdGo:
		return playCard(state, seat, cmd, rule)
	default:
		return state, InvalidCommandError{Expected: "Go"}
	}
}

func playCard(state State, seat int, cmd Command, rule Rule) (State, error) {
	ig := state.InGame
	if seat != ig.CurrentSeat {
		return state, InvalidUserError{ExpectedSeat: ig.CurrentSeat}
	}
	hand := ig.Hands[seat]
	if !hand.Contains(cmd.Card) {
		return state, ErrNotInDeck
	}

	mighty := mightyCard(ig.Trump)
	isLeader := seat == ig.StartSeat
	newRush := ig.CurrentRush
	newJokerCalled := ig.JokerCalled

	if isLeader {
		newJokerCalled = false
		if cmd.Card.IsJoker() {
			if card.ColorOfRush(cmd.Rush) != cmd.Card.JokerColor() {
				return state, WrongCardTypeError{ExpectedRush: card.RushOfColor(cmd.Card.JokerColor())}
			}
			newRush = cmd.Rush
		} else {
			newRush = card.RushOfCard(cmd.Card)
			if cmd.Card != mighty {
				if err := validateLeadCard(cmd.Card, hand, ig.Trump, rule, ig.Turn); err != nil {
					return state, err
				}
			}
			if cmd.JokerCalled && rule.JokerCall.IsCallCard(cmd.Card) {
				newJokerCalled = true
			}
		}
	} else if cmd.Card != mighty {
		if err := validateFollowCard(cmd.Card, hand, ig.CurrentRush); err != nil {
			return state, err
		}
	}

	newHands := cloneHands(ig.Hands)
	newHands[seat].Remove(cmd.Card)
	placed := append([]card.Card(nil), ig.Placed...)
	placed[seat] = cmd.Card

	next := (seat + 1) % rule.UserCount
	if next != ig.StartSeat {
		out := ig
		out.Hands = newHands
		out.Placed = placed
		out.CurrentRush = newRush
		out.JokerCalled = newJokerCalled
		out.CurrentSeat = next
		return State{Phase: PhaseInGame, InGame: out}, nil
	}

	return resolveTrick(ig, newHands, placed, newRush, newJokerCalled, rule)
}

// validateLeadCard enforces the "may not lead trump" restriction named
// by rule.CardPolicy.Giruda: leading the trump suit is only allowed when
// every other card in hand is itself trump (or the mighty card, or a joker).
func validateLeadCard(c card.Card, hand card.Deck, trump *card.Pattern, rule Rule, turn int) error {
	if c.IsJoker() {
		return nil
	}
	if trump == nil || c.Pattern() != *trump {
		return nil
	}
	policy := rule.CardPolicy.Giruda.For(turn, rule.LastTurn())
	if policy != PolicyInvalid && !(policy == PolicyInvalidForFirst && turn == 0) {
		return nil
	}
	mighty := mightyCard(trump)
	for _, h := range hand {
		if h == c || h == mighty || h.IsJoker() {
			continue
		}
		if h.Pattern() != *trump {
			return ErrWrongCard
		}
	}
	return nil
}

// validateFollowCard enforces must-follow-rush: a card not matching the
// led rush is only legal when the hand holds nothing that does.
func validateFollowCard(c card.Card, hand card.Deck, rush card.Rush) error {
	if rush.IsSameType(c) {
		return nil
	}
	for _, h := range hand {
		if rush.IsSameType(h) {
			return ErrWrongCard
		}
	}
	return nil
}

// trickWinner finds the seat that takes the trick, skipping any card whose
// class has no effect on this turn per rule.CardPolicy (spec.md §4.1: "NoEffect
// skips the card from winner consideration on turns 0 or 9"; by default
// Mighty is always Valid and Joker is NoEffect on both ends). A skipped card
// never starts or displaces the running winner.
//
// basic.rs's legacy winner loop also drops any plain card matching the led
// suit on turn 0 unconditionally (`current_pattern.contains(t)`), but that
// isn't reproduced here: spec.md §4.1 scopes the turn-0/turn-9 skip to
// rule.card_policy classes only, and the unconditional version would make an
// ordinary first trick where every seat simply follows suit unwinnable.
func trickWinner(ig InGameState, placed []card.Card, rush card.Rush, jokerCalled bool, rule Rule) (int, error) {
	mighty := mightyCard(ig.Trump)
	lastTurn := rule.LastTurn()
	winner := -1
	for i := 0; i < rule.UserCount; i++ {
		c := placed[i]
		switch {
		case c == mighty:
			if rule.CardPolicy.Mighty.For(ig.Turn, lastTurn) == PolicyNoEffect {
				continue
			}
		case c.IsJoker():
			if rule.CardPolicy.Joker.For(ig.Turn, lastTurn) == PolicyNoEffect {
				continue
			}
		}
		if winner == -1 || Beats(c, placed[winner], ig.Trump, rush, jokerCalled) {
			winner = i
		}
	}
	if winner == -1 {
		return 0, InternalError("no card eligible to win trick")
	}
	return winner, nil
}

func resolveTrick(ig InGameState, hands []card.Deck, placed []card.Card, rush card.Rush, jokerCalled bool, rule Rule) (State, error) {
	winner, err := trickWinner(ig, placed, rush, jokerCalled, rule)
	if err != nil {
		return State{}, err
	}

	scorePiles := make([]card.Deck, rule.UserCount)
	for i := range ig.ScorePiles {
		scorePiles[i] = ig.ScorePiles[i].Clone()
	}
	for _, c := range placed {
		if c.IsScore() {
			scorePiles[winner] = append(scorePiles[winner], c)
		}
	}

	friend := ig.Friend
	friendKnown := ig.FriendKnown
	if ig.FriendFunc.Kind == FriendByWinning && ig.FriendFunc.Turn == ig.Turn && friend == nil {
		friendKnown = true
		if winner != ig.President {
			f := winner
			friend = &f
		}
	}

	turn := ig.Turn + 1
	if turn >= rule.CardsPerUser {
		return settle(ig, scorePiles, friend, rule)
	}

	return State{
		Phase: PhaseInGame,
		InGame: InGameState{
			President:   ig.President,
			FriendFunc:  ig.FriendFunc,
			Friend:      friend,
			FriendKnown: friendKnown,
			Trump:       ig.Trump,
			PledgeCount: ig.PledgeCount,
			Hands:       hands,
			ScorePiles:  scorePiles,
			Turn:        turn,
			Placed:      make([]card.Card, rule.UserCount),
			StartSeat:   winner,
			CurrentSeat: winner,
			CurrentRush: 0,
			JokerCalled: false,
		},
	}, nil
}

// settle scores the completed game. Each of "no trump" and "no friend"
// independently doubles the ruling side's winning score, matching the
// two-multiplier stacking described in the original rule text.
func settle(ig InGameState, scorePiles []card.Deck, friend *int, rule Rule) (State, error) {
	score := len(scorePiles[ig.President])
	if friend != nil {
		score += len(scorePiles[*friend])
	}

	mul := 1
	if ig.Trump == nil {
		mul *= 2
	}
	if friend == nil {
		mul *= 2
	}

	var winners uint8
	var final int
	if score >= ig.PledgeCount {
		winners |= 1 << uint(ig.President)
		if friend != nil {
			winners |= 1 << uint(*friend)
		}
		final = mul * (score - 10)
	} else {
		final = ig.PledgeCount + score - 20
		for i := 0; i < rule.UserCount; i++ {
			if i == ig.President || (friend != nil && i == *friend) {
				continue
			}
			winners |= 1 << uint(i)
		}
	}

	return State{
		Phase: PhaseGameEnded,
		GameEnded: GameEndedState{
			Winners:   winners,
			President: ig.President,
			Friend:    friend,
			Score:     final,
			Pledge:    ig.PledgeCount,
			Trump:     ig.Trump,
		},
	}, nil
}
