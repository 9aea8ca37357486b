package card

import "fmt"

// Rush is the effective follow-suit in play: a bit-set over the four
// patterns, with Black/Red as derived two-bit aliases. Jokers contribute
// Rush equal to their color rather than a single pattern bit.
type Rush byte

const (
	RushSpade   Rush = 1 << 0
	RushDiamond Rush = 1 << 1
	RushHeart   Rush = 1 << 2
	RushClover  Rush = 1 << 3

	RushBlack = RushSpade | RushClover
	RushRed   = RushDiamond | RushHeart
	RushAny   = RushSpade | RushDiamond | RushHeart | RushClover
)

// RushOfPattern is a single-bit Rush naming exactly one pattern.
func RushOfPattern(p Pattern) Rush {
	switch p {
	case Spade:
		return RushSpade
	case Diamond:
		return RushDiamond
	case Heart:
		return RushHeart
	default:
		return RushClover
	}
}

// RushOfColor is a two-bit Rush naming every pattern of that color.
func RushOfColor(c Color) Rush {
	if c == Black {
		return RushBlack
	}
	return RushRed
}

// RushOfCard derives the Rush a leading card puts into play: its pattern
// for a normal card, its color for a Joker.
func RushOfCard(c Card) Rush {
	if c.IsJoker() {
		return RushOfColor(c.JokerColor())
	}
	return RushOfPattern(c.Pattern())
}

func (r Rush) Contains(o Rush) bool {
	return r&o == o
}

// ColorOfRush reports which color a (possibly multi-bit) Rush belongs to.
// Undefined for a Rush spanning both colors.
func ColorOfRush(r Rush) Color {
	if r&RushBlack != 0 {
		return Black
	}
	return Red
}

// IsSameType mirrors the original engine's follow-suit containment check:
// a single-pattern Rush only matches its own pattern, while a color-level
// Rush (Black/Red) matches every pattern sharing that color.
func (r Rush) IsSameType(c Card) bool {
	cr := RushOfCard(c)
	if r == cr {
		return true
	}
	switch r {
	case RushBlack:
		return ColorOfRush(cr) == Black
	case RushRed:
		return ColorOfRush(cr) == Red
	default:
		return false
	}
}

func (r Rush) String() string {
	switch r {
	case RushSpade:
		return "s"
	case RushDiamond:
		return "d"
	case RushHeart:
		return "h"
	case RushClover:
		return "c"
	case RushBlack:
		return "b"
	case RushRed:
		return "r"
	}
	return fmt.Sprintf("rush(%#x)", byte(r))
}

func ParseRush(s string) (Rush, error) {
	switch s {
	case "s":
		return RushSpade, nil
	case "d":
		return RushDiamond, nil
	case "h":
		return RushHeart, nil
	case "c":
		return RushClover, nil
	case "b":
		return RushBlack, nil
	case "r":
		return RushRed, nil
	}
	return 0, fmt.Errorf("card: invalid rush %q", s)
}
