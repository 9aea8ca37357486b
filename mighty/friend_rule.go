package mighty

// FriendMode is a bit-set naming which FriendFunc kinds a Rule admits.
// Fake/Pick broaden the original ByCard/ByUser vocabulary for presets
// that allow a decoy card declaration or an open pick; both still land
// on the FriendByCard/FriendByUser FriendKind at the engine level.
type FriendMode uint8

const (
	FriendModeCard    FriendMode = 1 << 0
	FriendModePick    FriendMode = 1 << 1
	FriendModeFirst   FriendMode = 1 << 2
	FriendModeLast    FriendMode = 1 << 3
	FriendModeFake    FriendMode = 1 << 4
	FriendModeNone    FriendMode = 1 << 5

	FriendModeAll = FriendModeCard | FriendModePick | FriendModeFirst | FriendModeLast | FriendModeFake | FriendModeNone
)

func (f FriendMode) Has(flag FriendMode) bool {
	return f&flag == flag
}
