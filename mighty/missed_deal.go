package mighty

import "mighty/card"

// MissedDealRule scores a dealt hand to decide whether it must be
// re-shuffled: each card contributes its class weight (or a per-card
// override), and a hand at or below Limit is a missed deal.
type MissedDealRule struct {
	Score int
	Joker int
	Card  map[card.Card]int
	Limit int
}

func NewMissedDealRule() MissedDealRule {
	return MissedDealRule{
		Score: 1,
		Joker: 0,
		Card:  map[card.Card]int{},
		Limit: 0,
	}
}

// IsMissedDeal sums the configured weight of every card in the hand and
// compares it against Limit.
func (m MissedDealRule) IsMissedDeal(hand card.Deck) bool {
	sum := 0
	for _, c := range hand {
		if w, ok := m.Card[c]; ok {
			sum += w
		} else if c.IsJoker() {
			sum += m.Joker
		} else if c.IsScore() {
			sum += m.Score
		}
	}
	return sum <= m.Limit
}
