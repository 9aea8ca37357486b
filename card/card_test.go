package card

import "testing"

func TestColorOfPattern(t *testing.T) {
	cases := []struct {
		p    Pattern
		want Color
	}{
		{Spade, Black},
		{Clover, Black},
		{Diamond, Red},
		{Heart, Red},
	}
	for _, c := range cases {
		if got := ColorOf(c.p); got != c.want {
			t.Errorf("ColorOf(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestRushOfCard(t *testing.T) {
	sp, _ := NewNormal(Spade, 2)
	if got := RushOfCard(sp); got != RushSpade {
		t.Errorf("RushOfCard(spade2) = %v, want RushSpade", got)
	}
	if got := RushOfCard(JokerRed); got != RushRed {
		t.Errorf("RushOfCard(JokerRed) = %v, want RushRed", got)
	}
	if got := RushOfCard(JokerBlack); got != RushBlack {
		t.Errorf("RushOfCard(JokerBlack) = %v, want RushBlack", got)
	}
}

func TestIsScore(t *testing.T) {
	ten, _ := NewNormal(Spade, 10)
	nine, _ := NewNormal(Spade, 9)
	ace, _ := NewNormal(Spade, 14)
	if !ten.IsScore() {
		t.Error("rank 10 should be a score card")
	}
	if nine.IsScore() {
		t.Error("rank 9 should not be a score card")
	}
	if !ace.IsScore() {
		t.Error("ace (rank 14) should be a score card")
	}
	if JokerBlack.IsScore() {
		t.Error("joker should never be a score card")
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	deck := FullDeck()
	for _, c := range deck {
		s := c.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		if got != c {
			t.Errorf("round trip mismatch: %v -> %q -> %v", c, s, got)
		}
	}
}

func TestRushIsSameType(t *testing.T) {
	spade2, _ := NewNormal(Spade, 2)
	clover3, _ := NewNormal(Clover, 3)
	diamond4, _ := NewNormal(Diamond, 4)

	if !RushBlack.IsSameType(spade2) {
		t.Error("RushBlack should contain spade")
	}
	if !RushBlack.IsSameType(clover3) {
		t.Error("RushBlack should contain clover")
	}
	if RushBlack.IsSameType(diamond4) {
		t.Error("RushBlack should not contain diamond")
	}
	if !RushSpade.IsSameType(spade2) {
		t.Error("RushSpade should contain spade")
	}
	if RushSpade.IsSameType(clover3) {
		t.Error("RushSpade should not contain clover (pattern-level rush is exact)")
	}
}

func TestFullDeckSize(t *testing.T) {
	d := FullDeck()
	if d.Count() != 54 {
		t.Errorf("FullDeck size = %d, want 54", d.Count())
	}
	if got := d.Presence(); got != JokerPresenceBlack|JokerPresenceRed {
		t.Errorf("FullDeck presence = %v, want both jokers", got)
	}
}

func TestSingleJokerDeckSize(t *testing.T) {
	d := SingleJokerDeck()
	if d.Count() != 53 {
		t.Errorf("SingleJokerDeck size = %d, want 53", d.Count())
	}
	if got := d.Presence(); got != JokerPresenceBlack {
		t.Errorf("SingleJokerDeck presence = %v, want black only", got)
	}
}

func TestChunks(t *testing.T) {
	d := FullDeck()
	chunks := d.Chunks(10)
	if len(chunks) != 6 {
		t.Fatalf("Chunks(10) on 54 cards = %d chunks, want 6", len(chunks))
	}
	if chunks[5].Count() != 4 {
		t.Errorf("last chunk size = %d, want 4", chunks[5].Count())
	}
}
