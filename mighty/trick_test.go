package mighty

import (
	"math/rand"
	"testing"

	"mighty/card"
)

func mustCard(t *testing.T, p card.Pattern, rank byte) card.Card {
	t.Helper()
	c, err := card.NewNormal(p, rank)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestMightyCardShiftsWithSpadeTrump(t *testing.T) {
	diamondAce := mustCard(t, card.Diamond, 14)
	spadeAce := mustCard(t, card.Spade, 14)

	if mightyCard(nil) != spadeAce {
		t.Fatalf("no-trump mighty = %v, want spade ace", mightyCard(nil))
	}
	spade := card.Spade
	if mightyCard(&spade) != diamondAce {
		t.Fatalf("spade-trump mighty = %v, want diamond ace", mightyCard(&spade))
	}
}

func TestMightyAlwaysWins(t *testing.T) {
	spade := card.Spade
	mighty := mustCard(t, card.Diamond, 14)
	trumpAce := mustCard(t, card.Spade, 14)
	if !Beats(mighty, trumpAce, &spade, card.RushDiamond, false) {
		t.Fatal("mighty card did not beat a trump card")
	}
	if Beats(trumpAce, mighty, &spade, card.RushDiamond, false) {
		t.Fatal("a trump card beat the mighty card")
	}
}

func TestTrumpBeatsLedSuit(t *testing.T) {
	heart := card.Heart
	led := mustCard(t, card.Clover, 14)
	trump := mustCard(t, card.Heart, 2)
	if !Beats(trump, led, &heart, card.RushClover, false) {
		t.Fatal("trump card did not beat the led suit's ace")
	}
}

func TestOffSuitNeverBeatsLedSuit(t *testing.T) {
	diamond := card.Diamond
	led := mustCard(t, card.Clover, 5)
	offSuit := mustCard(t, card.Heart, 14)
	if Beats(offSuit, led, &diamond, card.RushClover, false) {
		t.Fatal("an off-suit, non-trump card beat the led suit")
	}
}

func TestCalledJokerLosesToRushMatch(t *testing.T) {
	diamond := card.Diamond
	clover9 := mustCard(t, card.Clover, 9)
	if Beats(card.JokerBlack, clover9, &diamond, card.RushClover, true) {
		t.Fatal("called joker beat a rush-matching card")
	}
}

func TestJokerOfWrongColorNeverWins(t *testing.T) {
	diamond := card.Diamond
	clover9 := mustCard(t, card.Clover, 9)
	if !Beats(clover9, card.JokerRed, &diamond, card.RushClover, false) {
		t.Fatal("a rush-matching card did not beat a wrong-colored joker")
	}
}

func TestBothJokersHigherColorWins(t *testing.T) {
	if !Beats(card.JokerBlack, card.JokerRed, nil, card.RushBlack, false) {
		t.Fatal("black joker should win when the rush is black")
	}
	if Beats(card.JokerRed, card.JokerBlack, nil, card.RushBlack, false) {
		t.Fatal("red joker should not win when the rush is black")
	}
}

// TestPlayCardEnforcesTurnOrder checks that a seat acting out of turn is
// rejected without mutating hands.
func TestPlayCardEnforcesTurnOrder(t *testing.T) {
	rule := NewRule()
	hands := make([]card.Deck, 5)
	for i := range hands {
		hands[i] = card.Deck{mustCard(t, card.Spade, byte(2+i))}
	}
	ig := InGameState{
		Hands:       hands,
		Placed:      make([]card.Card, 5),
		StartSeat:   0,
		CurrentSeat: 0,
		ScorePiles:  make([]card.Deck, 5),
	}
	state := State{Phase: PhaseInGame, InGame: ig}
	rng := rand.New(rand.NewSource(1))

	_, err := Next(state, 1, Go(1, hands[1][0], card.RushSpade, false), rule, rng)
	iu, ok := err.(InvalidUserError)
	if !ok || iu.ExpectedSeat != 0 {
		t.Fatalf("got %v, want InvalidUserError(0)", err)
	}
}

// TestMustFollowRush checks a seat holding the led rush cannot discard
// off-suit instead.
func TestMustFollowRush(t *testing.T) {
	rule := NewRule()
	hands := make([]card.Deck, 5)
	hands[0] = card.Deck{mustCard(t, card.Clover, 5)}
	hands[1] = card.Deck{mustCard(t, card.Clover, 9), mustCard(t, card.Heart, 9)}
	for i := 2; i < 5; i++ {
		hands[i] = card.Deck{mustCard(t, card.Spade, byte(2+i))}
	}
	ig := InGameState{
		Hands:       hands,
		Placed:      make([]card.Card, 5),
		StartSeat:   0,
		CurrentSeat: 0,
		CurrentRush: 0,
		ScorePiles:  make([]card.Deck, 5),
	}
	state := State{Phase: PhaseInGame, InGame: ig}
	rng := rand.New(rand.NewSource(1))

	led := hands[0][0]
	state, err := Next(state, 0, Go(0, led, card.RushOfCard(led), false), rule, rng)
	if err != nil {
		t.Fatal(err)
	}
	heart9 := hands[1][1]
	_, err = Next(state, 1, Go(1, heart9, 0, false), rule, rng)
	if err != ErrWrongCard {
		t.Fatalf("got %v, want ErrWrongCard", err)
	}
}

// TestCannotLeadTrumpUnlessHandIsAllTrump reproduces the "may not lead
// trump" restriction: holding any non-trump card blocks leading trump.
func TestCannotLeadTrumpUnlessHandIsAllTrump(t *testing.T) {
	rule := NewRule()
	spade := card.Spade
	hands := make([]card.Deck, 5)
	hands[0] = card.Deck{mustCard(t, card.Spade, 5), mustCard(t, card.Heart, 9)}
	for i := 1; i < 5; i++ {
		hands[i] = card.Deck{mustCard(t, card.Clover, byte(2+i))}
	}
	ig := InGameState{
		Hands:       hands,
		Placed:      make([]card.Card, 5),
		StartSeat:   0,
		CurrentSeat: 0,
		Trump:       &spade,
		ScorePiles:  make([]card.Deck, 5),
		Turn:        0,
	}
	state := State{Phase: PhaseInGame, InGame: ig}
	rng := rand.New(rand.NewSource(1))

	trumpCard := hands[0][0]
	_, err := Next(state, 0, Go(0, trumpCard, card.RushSpade, false), rule, rng)
	if err != ErrWrongCard {
		t.Fatalf("got %v, want ErrWrongCard", err)
	}
}

func TestFriendByWinningResolvesOnThatTrick(t *testing.T) {
	rule := NewRule()
	hands := make([]card.Deck, 5)
	for i := range hands {
		hands[i] = card.Deck{mustCard(t, card.Spade, byte(2+i))}
	}
	hands[3][0] = mustCard(t, card.Spade, 13) // highest non-mighty card, seat 3 wins the trick
	ig := InGameState{
		President:   0,
		FriendFunc:  FriendFunc{Kind: FriendByWinning, Turn: 0},
		Hands:       hands,
		Placed:      make([]card.Card, 5),
		StartSeat:   0,
		CurrentSeat: 0,
		ScorePiles:  make([]card.Deck, 5),
		Turn:        0,
	}
	state := State{Phase: PhaseInGame, InGame: ig}
	rng := rand.New(rand.NewSource(1))

	var err error
	for seat := 0; seat < 5; seat++ {
		c := state.InGame.Hands[seat][0]
		state, err = Next(state, seat, Go(seat, c, card.RushOfCard(c), false), rule, rng)
		if err != nil {
			t.Fatal(err)
		}
	}
	if state.InGame.Friend == nil || *state.InGame.Friend != 3 {
		t.Fatalf("friend = %v, want seat 3", state.InGame.Friend)
	}
	if state.InGame.StartSeat != 3 {
		t.Fatalf("trick winner (next leader) = %d, want 3", state.InGame.StartSeat)
	}
}
