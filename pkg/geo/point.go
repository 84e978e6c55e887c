package geo

import "math"

// Point2D is a position on a local tangent plane in metres. X points east
// and Y points north.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rotate returns p rotated counterclockwise by angle radians around the origin.
func (p Point2D) Rotate(angle float64) Point2D {
	c, s := math.Cos(angle), math.Sin(angle)
	return Point2D{
		X: p.X*c - p.Y*s,
		Y: p.X*s + p.Y*c,
	}
}
