package mighty

import "mighty/card"

// Project redacts state for a given viewer seat, hiding every hand the
// viewer should not see. A negative viewerSeat (an observer, not a
// seated player) has no hand of its own: in InGame it sees the hands that
// the President and Friend bits of Rule.Visibility reveal to every
// viewer, and a concealed friend's seat only when the Other bit is set.
func Project(state State, viewerSeat int, rule Rule) State {
	out := state
	switch state.Phase {
	case PhaseElection:
		out.Election = state.Election
		out.Election.Hands = redactHands(state.Election.Hands, viewerSeat)
		out.Election.Left = nil
	case PhaseSelectFriend:
		out.SelectFriend = state.SelectFriend
		out.SelectFriend.Hands = redactHands(state.SelectFriend.Hands, viewerSeat)
	case PhaseInGame:
		out.InGame = state.InGame
		out.InGame.Hands = redactInGameHands(state.InGame, viewerSeat, rule)
		if !canSeeFriend(state.InGame, viewerSeat, rule) {
			out.InGame.Friend = nil
		}
	}
	return out
}

func redactHands(hands []card.Deck, viewerSeat int) []card.Deck {
	out := make([]card.Deck, len(hands))
	for i, h := range hands {
		if i == viewerSeat {
			out[i] = h.Clone()
		} else {
			out[i] = make(card.Deck, len(h))
		}
	}
	return out
}

func redactInGameHands(ig InGameState, viewerSeat int, rule Rule) []card.Deck {
	out := make([]card.Deck, len(ig.Hands))
	for i, h := range ig.Hands {
		if i == viewerSeat {
			out[i] = h.Clone()
			continue
		}
		if rule.Visibility.Has(VisibilityPresident) && i == ig.President {
			out[i] = h.Clone()
			continue
		}
		if rule.Visibility.Has(VisibilityFriend) && ig.Friend != nil && i == *ig.Friend {
			out[i] = h.Clone()
			continue
		}
		out[i] = make(card.Deck, len(h))
	}
	return out
}

func canSeeFriend(ig InGameState, viewerSeat int, rule Rule) bool {
	if ig.FriendKnown {
		return true
	}
	if viewerSeat == ig.President {
		return true
	}
	if ig.Friend != nil && viewerSeat == *ig.Friend {
		return true
	}
	return rule.Visibility.Has(VisibilityOther)
}
