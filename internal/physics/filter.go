package physics

// Filter decides which bodies may touch. Bodies in the same non-zero group
// always collide when the group is positive and never when it is negative;
// otherwise each side's mask must include the other's category.
type Filter struct {
	Category uint16
	Mask     uint16
	Group    int16
}

// ShouldCollide applies the filtering rule to a pair of bodies.
func (f Filter) ShouldCollide(other Filter) bool {
	if f.Group != 0 && f.Group == other.Group {
		return f.Group > 0
	}
	return f.Mask&other.Category != 0 && other.Mask&f.Category != 0
}
