package systems

import "math"

// clampFloat clamps a value between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Wrap maps a coordinate that left [0, size) back onto the opposite edge.
func Wrap(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		// -tiny + size rounds up to size
		v = 0
	}
	return v
}

// DistanceSq returns the squared Euclidean distance between two points.
func DistanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSq(x1, y1, x2, y2))
}

// Overlaps reports whether two circles touch: distance < r1 + r2.
func Overlaps(x1, y1, r1, x2, y2, r2 float64) bool {
	return Distance(x1, y1, x2, y2) < r1+r2
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
