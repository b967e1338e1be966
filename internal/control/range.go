package control

// RangeBand holds the target at conversational distance with a three-band
// rule on apparent area: inside (Min, Max) hold position, at or above Max
// back away, at or below Min (but detected) approach. Both boundary areas
// fall outside the dead zone and produce motion.
type RangeBand struct {
	Min   int
	Max   int
	Speed int
}

// ForwardBack returns the forward/back speed for the given apparent area.
// ok is false when the area indicates no detected target (area <= 0); that
// case belongs to the search path, not to range keeping.
func (b RangeBand) ForwardBack(area int) (speed int, ok bool) {
	switch {
	case area <= 0:
		return 0, false
	case area > b.Min && area < b.Max:
		return 0, true
	case area >= b.Max:
		return -b.Speed, true
	default:
		return b.Speed, true
	}
}
