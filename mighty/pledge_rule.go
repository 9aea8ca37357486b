package mighty

// PledgeRule bounds the bidding phase. Counts are raw totals (a trump
// pledge's floor starts at 13, a no-trump pledge's at 12, exactly as the
// wire grammar encodes them).
type PledgeRule struct {
	Min            int
	Max            int
	NoGirudaOffset int
	ChangeCost     int
	FirstOffset    int
}

func NewPledgeRule() PledgeRule {
	return PledgeRule{
		Min:            13,
		Max:            20,
		NoGirudaOffset: -1,
		ChangeCost:     2,
		FirstOffset:    0,
	}
}

func (p PledgeRule) Valid() bool {
	return p.Min < p.Max
}
