package model

const (
	ZoneFortress    = "fortress"
	ZoneCompression = "compression"
	ZoneAdaptation  = "adaptation"
	ZoneDead        = "dead"
)

// DeriveZone maps a pair of axis scores to a zone using a clean 50/50 split.
// X is workflow complexity, Y is data moat depth. This is the single source
// of truth: stored zone values are recomputed from scores on every read.
func DeriveZone(x, y int) string {
	switch {
	case x >= 50 && y >= 50:
		return ZoneFortress
	case x < 50 && y >= 50:
		return ZoneCompression
	case x >= 50 && y < 50:
		return ZoneAdaptation
	default:
		return ZoneDead
	}
}

// ZoneRank orders zones for display: fortress first, dead zone last.
func ZoneRank(zone string) int {
	switch zone {
	case ZoneFortress:
		return 0
	case ZoneAdaptation:
		return 1
	case ZoneCompression:
		return 2
	case ZoneDead:
		return 3
	default:
		return 4
	}
}

// ClampFactor bounds a single sub-factor to [0,20].
func ClampFactor(v int) int {
	if v < 0 {
		return 0
	}
	if v > 20 {
		return 20
	}
	return v
}

// ClampScore bounds an axis score to [0,100].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampFactors clamps every sub-factor of a map, preserving keys.
func ClampFactors(factors map[string]int) map[string]int {
	if len(factors) == 0 {
		return nil
	}
	clamped := make(map[string]int, len(factors))
	for k, v := range factors {
		clamped[k] = ClampFactor(v)
	}
	return clamped
}

// SumFactors totals a clamped factor map into an axis score.
func SumFactors(factors map[string]int) int {
	sum := 0
	for _, v := range factors {
		sum += v
	}
	return sum
}
