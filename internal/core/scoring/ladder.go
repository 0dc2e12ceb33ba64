package scoring

// tier awards points when a value reaches min.
type tier struct {
	min    float64
	points float64
}

// ladder returns the points of the first tier the value reaches, or floor.
// Tiers must be ordered by min descending.
func ladder(tiers []tier, value, floor float64) float64 {
	for _, t := range tiers {
		if value >= t.min {
			return t.points
		}
	}
	return floor
}

// ceiling awards points while a value stays at or below max.
type ceiling struct {
	max    float64
	points float64
}

// ladderAtMost returns the points of the first ceiling the value fits under,
// or floor. Ceilings must be ordered by max ascending.
func ladderAtMost(ceilings []ceiling, value, floor float64) float64 {
	for _, c := range ceilings {
		if value <= c.max {
			return c.points
		}
	}
	return floor
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
