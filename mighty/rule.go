package mighty

import (
	"fmt"

	"mighty/card"
)

// Rule is an immutable configuration a Game is played under. It is
// exhaustively covered by the rule sub-types above; regional variants
// are expressed as Presets (preset.go) rather than arbitrary field
// programmability (see Non-goals).
type Rule struct {
	UserCount      int
	CardsPerUser   int
	Deck           card.Deck
	MissedDeal     MissedDealRule
	Election       Election
	Pledge         PledgeRule
	Friend         FriendMode
	FriendCount    int
	CardPolicy     CardPolicyRule
	JokerCall      JokerCallRule
	PatternOrder   []card.Pattern
	Visibility     Visibility
	NextDealer     Dealer
	Timing         TimingRule
}

// NewRule returns the Default5 baseline: 5 users, 10 cards each, a
// single-joker 53-card deck, every election flag set, and the card
// policy defaults reproduced from the original implementation.
func NewRule() Rule {
	return Rule{
		UserCount:    5,
		CardsPerUser: 10,
		Deck:         card.SingleJokerDeck(),
		MissedDeal:   NewMissedDealRule(),
		Election:     ElectionAll,
		Pledge:       NewPledgeRule(),
		Friend:       FriendModeAll,
		FriendCount:  1,
		CardPolicy:   NewCardPolicyRule(),
		JokerCall:    NewJokerCallRule(),
		PatternOrder: []card.Pattern{card.Spade, card.Diamond, card.Heart, card.Clover},
		Visibility:   VisibilityFriend,
		NextDealer:   DealerFriend,
		Timing:       NewTimingRule(),
	}
}

// LastTurn is the zero-based index of the final trick.
func (r Rule) LastTurn() int {
	return r.CardsPerUser - 1
}

// Validate checks the invariants spec.md §3 requires of a Rule: min <
// max, user_cnt*cards_per_user <= deck size, joker count == joker-call
// table size, and pattern_order is a permutation of the four patterns.
func (r Rule) Validate() error {
	if r.UserCount <= 0 || r.UserCount > 8 {
		return fmt.Errorf("mighty: user count out of range: %d", r.UserCount)
	}
	if r.CardsPerUser <= 0 {
		return fmt.Errorf("mighty: cards per user must be > 0")
	}
	if r.UserCount*r.CardsPerUser > r.Deck.Count() {
		return fmt.Errorf("mighty: deck too small for %d users x %d cards", r.UserCount, r.CardsPerUser)
	}
	if !r.Pledge.Valid() {
		return fmt.Errorf("mighty: pledge min must be < max")
	}
	jokers := 0
	for _, c := range r.Deck {
		if c.IsJoker() {
			jokers++
		}
	}
	if jokers != r.JokerCall.Len() {
		return fmt.Errorf("mighty: joker count %d does not match joker-call table size %d", jokers, r.JokerCall.Len())
	}
	if len(r.PatternOrder) != 4 {
		return fmt.Errorf("mighty: pattern_order must list exactly 4 patterns")
	}
	seen := map[card.Pattern]bool{}
	for _, p := range r.PatternOrder {
		seen[p] = true
	}
	if len(seen) != 4 {
		return fmt.Errorf("mighty: pattern_order must be a permutation of the four patterns")
	}
	return nil
}
