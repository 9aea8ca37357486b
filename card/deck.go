package card

import "math/rand"

// Deck is an ordered multiset of cards, as dealt or as a draw pile.
type Deck []Card

// JokerPresence records which Joker colors a deck carries; used to
// validate a Rule's joker-call table against the deck it is paired with.
type JokerPresence byte

const (
	JokerPresenceBlack JokerPresence = 1 << 0
	JokerPresenceRed   JokerPresence = 1 << 1
)

// Builder accumulates a card -> count multiset before flattening it into
// a Deck, mirroring the teacher's CardList construction idiom but keyed
// by card rather than built from a fixed 52-card table.
type Builder map[Card]int

func NewBuilder() Builder {
	return make(Builder)
}

func (b Builder) Add(c Card, count int) Builder {
	b[c] += count
	return b
}

// Build flattens the multiset into a Deck in a stable order (pattern,
// then rank, then jokers last) so tests can assert on exact contents.
func (b Builder) Build() Deck {
	d := make(Deck, 0, 54)
	for _, p := range []Pattern{Spade, Diamond, Heart, Clover} {
		for rank := byte(2); rank <= 14; rank++ {
			c, err := NewNormal(p, rank)
			if err != nil {
				continue
			}
			for i := 0; i < b[c]; i++ {
				d = append(d, c)
			}
		}
	}
	for i := 0; i < b[JokerBlack]; i++ {
		d = append(d, JokerBlack)
	}
	for i := 0; i < b[JokerRed]; i++ {
		d = append(d, JokerRed)
	}
	return d
}

// Presence reports which Joker colors appear in the deck.
func (d Deck) Presence() JokerPresence {
	var p JokerPresence
	for _, c := range d {
		switch c {
		case JokerBlack:
			p |= JokerPresenceBlack
		case JokerRed:
			p |= JokerPresenceRed
		}
	}
	return p
}

// FullDeck builds the canonical 54-card deck: 4 patterns x 13 ranks plus
// both Jokers.
func FullDeck() Deck {
	b := NewBuilder()
	for _, p := range []Pattern{Spade, Diamond, Heart, Clover} {
		for rank := byte(2); rank <= 14; rank++ {
			c, _ := NewNormal(p, rank)
			b.Add(c, 1)
		}
	}
	b.Add(JokerBlack, 1)
	b.Add(JokerRed, 1)
	return b.Build()
}

// SingleJokerDeck builds the 53-card variant carrying only the Black Joker.
func SingleJokerDeck() Deck {
	d := FullDeck()
	out := make(Deck, 0, len(d))
	for _, c := range d {
		if c == JokerRed {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (d Deck) Count() int {
	return len(d)
}

// Shuffle permutes the deck in place using the supplied source, so the
// engine's randomness stays an explicit parameter rather than a global.
func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Chunks splits the deck into consecutive groups of size n, with a final
// short chunk if it doesn't divide evenly (the Election leftover pile).
func (d Deck) Chunks(n int) []Deck {
	out := make([]Deck, 0, (len(d)+n-1)/n)
	for len(d) > 0 {
		end := n
		if end > len(d) {
			end = len(d)
		}
		chunk := make(Deck, end)
		copy(chunk, d[:end])
		out = append(out, chunk)
		d = d[end:]
	}
	return out
}

// Contains reports whether c is present in the deck.
func (d Deck) Contains(c Card) bool {
	for _, x := range d {
		if x == c {
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of c, reporting whether it was found.
func (d *Deck) Remove(c Card) bool {
	for i, x := range *d {
		if x == c {
			*d = append((*d)[:i], (*d)[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns an independent copy, for the projection/snapshot paths
// that must never let a viewer mutate server-owned state.
func (d Deck) Clone() Deck {
	out := make(Deck, len(d))
	copy(out, d)
	return out
}
