package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// NormalizeAngle wraps an angle to [-Pi, Pi].
func NormalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Overlaps reports whether two circles/spheres overlap: the distance between
// centers is below the sum of their half-sizes.
func Overlaps(a r3.Vec, sizeA float64, b r3.Vec, sizeB float64) bool {
	reach := (sizeA + sizeB) / 2
	return r3.Norm2(r3.Sub(a, b)) < reach*reach
}

// clampLength rescales v so its magnitude does not exceed max.
func clampLength(v r3.Vec, max float64) r3.Vec {
	n2 := r3.Norm2(v)
	if n2 <= max*max || n2 == 0 {
		return v
	}
	return r3.Scale(max/math.Sqrt(n2), v)
}

// flatten zeroes the depth axis for the flat variant.
func flatten(v r3.Vec, is3D bool) r3.Vec {
	if !is3D {
		v.Z = 0
	}
	return v
}
