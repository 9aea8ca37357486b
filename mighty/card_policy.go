package mighty

import "mighty/card"

// CardPolicy governs how a class of cards behaves on the first or last
// trick of a game.
type CardPolicy byte

const (
	PolicyValid CardPolicy = iota
	PolicyNoEffect
	PolicyInvalid
	PolicyInvalidForFirst
)

// TurnPolicy is a (first-turn, last-turn) policy pair.
type TurnPolicy struct {
	First CardPolicy
	Last  CardPolicy
}

// CardPolicyRule holds per-card-class policies, plus overrides for
// individually named cards.
type CardPolicyRule struct {
	Mighty     TurnPolicy
	Giruda     TurnPolicy
	Joker      TurnPolicy
	JokerCall  TurnPolicy
	Card       map[card.Card]TurnPolicy
}

func NewCardPolicyRule() CardPolicyRule {
	return CardPolicyRule{
		Mighty:    TurnPolicy{PolicyValid, PolicyValid},
		Giruda:    TurnPolicy{PolicyInvalid, PolicyValid},
		Joker:     TurnPolicy{PolicyNoEffect, PolicyNoEffect},
		JokerCall: TurnPolicy{PolicyValid, PolicyValid},
		Card:      map[card.Card]TurnPolicy{},
	}
}

// For resolves the effective policy for a card class on a given turn
// index (0 = first, 9 = last, anything else = mid-game "Valid").
func (t TurnPolicy) For(turn, lastTurn int) CardPolicy {
	switch turn {
	case 0:
		return t.First
	case lastTurn:
		return t.Last
	default:
		return PolicyValid
	}
}
