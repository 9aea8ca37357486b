package mighty

import (
	"encoding/json"
	"testing"

	"mighty/card"
)

func TestCommandTextRoundTrip(t *testing.T) {
	spade := card.Spade
	c9 := func() card.Card { c, _ := card.NewNormal(card.Clover, 9); return c }()
	cmds := []Command{
		StartGame(0),
		PledgeBid(1, &spade, 14),
		PledgeBid(2, nil, 12),
		RandomCmd(3),
		SelectFriendCmd(0, FriendFunc{Kind: FriendByUser, Seat: 3}, [4]card.Card{c9, c9, c9, c9}),
		SelectFriendCmd(0, FriendFunc{Kind: FriendNone}, [4]card.Card{c9, c9, c9, c9}),
		Go(2, c9, card.RushClover, true),
	}
	for _, cmd := range cmds {
		s := cmd.Format()
		got, err := ParseCommand(s)
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", s, err)
		}
		if got.Format() != s {
			t.Fatalf("round trip mismatch: %q -> %+v -> %q", s, got, got.Format())
		}
	}
}

func TestCommandJSONRoundTrip(t *testing.T) {
	spade := card.Spade
	c9 := func() card.Card { c, _ := card.NewNormal(card.Clover, 9); return c }()
	cmds := []Command{
		StartGame(0),
		PledgeBid(1, &spade, 14),
		PledgePass(2),
		RandomCmd(3),
		SelectFriendCmd(0, FriendFunc{Kind: FriendByCard, Card: c9}, [4]card.Card{c9, c9, c9, c9}),
		Go(2, c9, card.RushClover, true),
	}
	for _, cmd := range cmds {
		data, err := json.Marshal(cmd)
		if err != nil {
			t.Fatal(err)
		}
		var got Command
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if !commandsEqual(got, cmd) {
			t.Fatalf("JSON round trip mismatch: %+v -> %s -> %+v", cmd, data, got)
		}
	}
}

// commandsEqual compares two Commands by value, since Command.Pledge is a
// pointer and a JSON round trip always allocates a fresh one.
func commandsEqual(a, b Command) bool {
	if a.Kind != b.Kind || a.Seat != b.Seat || a.FriendFunc != b.FriendFunc ||
		a.Dropped != b.Dropped || a.Card != b.Card || a.Rush != b.Rush || a.JokerCalled != b.JokerCalled {
		return false
	}
	if (a.Pledge == nil) != (b.Pledge == nil) {
		return false
	}
	if a.Pledge != nil && !pledgesEqual(*a.Pledge, *b.Pledge) {
		return false
	}
	return true
}

func pledgesEqual(a, b Pledge) bool {
	if a.Count != b.Count {
		return false
	}
	if (a.Trump == nil) != (b.Trump == nil) {
		return false
	}
	return a.Trump == nil || *a.Trump == *b.Trump
}

func TestParseCommandRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "x", "p0z9", "g0zz0", "s0"} {
		if _, err := ParseCommand(s); err == nil {
			t.Fatalf("ParseCommand(%q) accepted garbage input", s)
		}
	}
}

func TestCardTextRoundTrip(t *testing.T) {
	for _, p := range []card.Pattern{card.Spade, card.Diamond, card.Heart, card.Clover} {
		for rank := byte(2); rank <= 14; rank++ {
			c, err := card.NewNormal(p, rank)
			if err != nil {
				t.Fatal(err)
			}
			got, err := card.Parse(c.String())
			if err != nil {
				t.Fatalf("card.Parse(%q): %v", c.String(), err)
			}
			if got != c {
				t.Fatalf("round trip mismatch: %v -> %q -> %v", c, c.String(), got)
			}
		}
	}
	for _, j := range []card.Card{card.JokerBlack, card.JokerRed} {
		got, err := card.Parse(j.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != j {
			t.Fatalf("joker round trip mismatch: %v -> %q -> %v", j, j.String(), got)
		}
	}
}
