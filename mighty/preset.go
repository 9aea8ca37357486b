package mighty

import "mighty/card"

// Preset names a regional rule variant. Values and their tweaks are
// reproduced from the named school/university rule sets this engine was
// distilled from; see SPEC_FULL.md §4.
type Preset byte

const (
	PresetDefault5 Preset = iota
	PresetDdshs5
	PresetDhsh5
	PresetKmla5
	PresetGsa5
	PresetGshs5
	PresetSkku5
	PresetSshs5
	PresetYu5
)

// RuleFromPreset builds the Rule a Preset names, starting from NewRule()
// and applying that preset's deltas.
func RuleFromPreset(p Preset) Rule {
	r := NewRule()
	switch p {
	case PresetDefault5:
		// baseline, no changes.
	case PresetDdshs5:
		r.Election = ElectionAll &^ ElectionNoGirudaExist
		r.Pledge.ChangeCost = 1
		r.Friend = FriendModeCard | FriendModeFake | FriendModeNone
		clover2, _ := card.NewNormal(card.Clover, 2)
		r.JokerCall.Cards = []JokerCallPair{{Lead: clover2, Called: clover2}}
	case PresetDhsh5:
		r.Pledge.Min, r.Pledge.Max = 12, 23
		r.Election = ElectionAll &^ ElectionPassFirst
		r.CardPolicy.Mighty = TurnPolicy{PolicyNoEffect, PolicyValid}
	case PresetKmla5:
		r.MissedDeal.Score = 1
		r.MissedDeal.Joker = -1
		r.MissedDeal.Limit = 1
		r.JokerCall.MightyDefense = false
	case PresetGsa5:
		r.Pledge.Min = 12
		r.CardPolicy.Mighty = TurnPolicy{PolicyNoEffect, PolicyValid}
		r.CardPolicy.Joker = TurnPolicy{PolicyValid, PolicyValid}
	case PresetGshs5:
		r.Deck = card.FullDeck()
		r.Election = ElectionNoGirudaExist | ElectionPassFirst
		r.MissedDeal.Score = 2
		r.MissedDeal.Joker = -1
		mightySpade, _ := card.NewNormal(card.Spade, 14)
		r.MissedDeal.Card = map[card.Card]int{mightySpade: -2}
		r.MissedDeal.Limit = 1
		r.Pledge.Min = 14
		heart2, _ := card.NewNormal(card.Heart, 2)
		diamond2, _ := card.NewNormal(card.Diamond, 2)
		r.JokerCall.Cards = append(r.JokerCall.Cards, JokerCallPair{Lead: heart2, Called: diamond2})
	case PresetSkku5:
		r.Pledge.Min = 12
		r.Pledge.ChangeCost = 0
		r.CardPolicy.Joker = TurnPolicy{PolicyValid, PolicyValid}
		r.CardPolicy.Giruda = TurnPolicy{PolicyValid, PolicyValid}
		r.JokerCall.HasPower = true
	case PresetSshs5:
		r.MissedDeal.Score = 2
		r.MissedDeal.Joker = -1
		r.MissedDeal.Card = tenAndMightyWeights(1)
		r.MissedDeal.Limit = 1
		r.Friend = FriendModeAll &^ FriendModePick
		r.CardPolicy.JokerCall = TurnPolicy{PolicyNoEffect, PolicyValid}
	case PresetYu5:
		r.MissedDeal.Score = 2
		spade10, _ := card.NewNormal(card.Spade, 10)
		heart10, _ := card.NewNormal(card.Heart, 10)
		mightySpade, _ := card.NewNormal(card.Spade, 14)
		r.MissedDeal.Card = map[card.Card]int{spade10: 1, heart10: 1, mightySpade: 1}
		r.MissedDeal.Limit = 1
		r.Election = ElectionIncreasing | ElectionOrdered
		r.Pledge.Min, r.Pledge.Max = 14, 23
		r.CardPolicy.JokerCall = TurnPolicy{PolicyNoEffect, PolicyValid}
	}
	return r
}

func tenAndMightyWeights(w int) map[card.Card]int {
	m := map[card.Card]int{}
	for _, p := range []card.Pattern{card.Spade, card.Diamond, card.Heart, card.Clover} {
		c, _ := card.NewNormal(p, 10)
		m[c] = w
	}
	mighty, _ := card.NewNormal(card.Spade, 14)
	m[mighty] = w
	return m
}
