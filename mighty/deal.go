package mighty

import (
	"math/rand"

	"mighty/card"
)

// dealHands shuffles rule.Deck and splits it into rule.UserCount hands of
// rule.CardsPerUser cards plus a leftover pile, re-shuffling whenever any
// dealt hand is a missed deal under rule.MissedDeal.
func dealHands(rule Rule, rng *rand.Rand) ([]card.Deck, card.Deck) {
	for {
		deck := rule.Deck.Clone()
		deck.Shuffle(rng)
		chunks := deck.Chunks(rule.CardsPerUser)
		hands := chunks[:rule.UserCount]

		missed := false
		for _, h := range hands {
			if rule.MissedDeal.IsMissedDeal(h) {
				missed = true
				break
			}
		}
		if missed {
			continue
		}

		var leftover card.Deck
		for _, chunk := range chunks[rule.UserCount:] {
			leftover = append(leftover, chunk...)
		}
		out := make([]card.Deck, len(hands))
		copy(out, hands)
		return out, leftover
	}
}
