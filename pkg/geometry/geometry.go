package geometry

import "math"

type Point struct {
	X float64
	Y float64
}

// AngleAt returns the angle in degrees at vertex b formed by the rays b->a and
// b->c, normalized into [0,180]. When a or c coincides with b the ray has no
// direction and the result is finite but meaningless.
func AngleAt(a, b, c Point) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)

	if angle > 180.0 {
		angle = 360.0 - angle
	}

	return angle
}

// Distance is the planar Euclidean distance between a and b. Depth is ignored.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func Midpoint(a, b Point) Point {
	return Point{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
	}
}
