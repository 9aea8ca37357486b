package mighty

import "mighty/card"

// JokerCallPair is a leading-card / called-card pair: playing the first
// card as the trick leader lets the player declare the joker-call flag,
// obliging the joker's holder per MightyDefense/HasPower.
type JokerCallPair struct {
	Lead   card.Card
	Called card.Card
}

// JokerCallRule configures which cards trigger a joker call.
type JokerCallRule struct {
	Cards         []JokerCallPair
	MightyDefense bool
	HasPower      bool
}

func NewJokerCallRule() JokerCallRule {
	clover2, _ := card.NewNormal(card.Clover, 2)
	spade2, _ := card.NewNormal(card.Spade, 2)
	return JokerCallRule{
		Cards:         []JokerCallPair{{Lead: clover2, Called: spade2}},
		MightyDefense: true,
		HasPower:      false,
	}
}

func (j JokerCallRule) Len() int {
	return len(j.Cards)
}

// IsCallCard reports whether c is the leading half of any configured pair.
func (j JokerCallRule) IsCallCard(c card.Card) bool {
	for _, pair := range j.Cards {
		if pair.Lead == c {
			return true
		}
	}
	return false
}
