package geo

import "math"

// Polygon is a closed planar polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Point2D
}

// LocalPolygon projects a geographic ring onto the tangent plane at its
// centroid.
func LocalPolygon(vertices []LatLng) Polygon {
	pts := ring(vertices)
	origin := Centroid(pts)
	out := make([]Point2D, len(pts))
	for i, v := range pts {
		out[i] = ToLocal(origin, v)
	}
	return Polygon{Vertices: out}
}

// Rotate returns the polygon rotated counterclockwise by angle radians around
// the origin.
func (p Polygon) Rotate(angle float64) Polygon {
	out := make([]Point2D, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Rotate(angle)
	}
	return Polygon{Vertices: out}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point2D, Point2D) {
	if len(p.Vertices) == 0 {
		return Point2D{}, Point2D{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
	}
	return minP, maxP
}

// AlignedExtent returns the length and depth of the polygon's bounding box
// when its axis is turned to the given compass bearing. Length runs along the
// bearing.
func (p Polygon) AlignedExtent(bearingDeg float64) (length, depth float64) {
	// A compass bearing b is the math angle 90-b; rotating by b-90 brings it onto +X.
	aligned := p.Rotate(rad(bearingDeg - 90))
	minP, maxP := aligned.BoundingBox()
	return maxP.X - minP.X, maxP.Y - minP.Y
}
