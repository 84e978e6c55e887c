package geo

import (
	"fmt"
	"math"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

// EarthRadiusM is the mean Earth radius in metres.
const EarthRadiusM = 6371008.8

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinates are within range.
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// PolygonArea is the measured shape of a roof or ground area.
type PolygonArea struct {
	Vertices            []LatLng  `json:"vertices"`
	AreaM2              float64   `json:"area_m2"`
	PerimeterM          float64   `json:"perimeter_m"`
	DominantEdgeAzimuth float64   `json:"dominant_edge_azimuth"`
	EdgeLengthsM        []float64 `json:"edge_lengths_m"`
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeAngle maps any angle in degrees to [0, 360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// Distance returns the great-circle distance between a and b in metres.
func Distance(a, b LatLng) float64 {
	lat1, lat2 := rad(a.Lat), rad(b.Lat)
	dLat := lat2 - lat1
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Heading returns the initial bearing from a to b in degrees, [0, 360).
// North is 0 and east is 90.
func Heading(a, b LatLng) float64 {
	lat1, lat2 := rad(a.Lat), rad(b.Lat)
	dLng := rad(b.Lng - a.Lng)
	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return NormalizeAngle(deg(math.Atan2(y, x)))
}

// ring drops consecutive duplicates and a repeated closing vertex.
func ring(vertices []LatLng) []LatLng {
	out := make([]LatLng, 0, len(vertices))
	for _, v := range vertices {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// Area returns the geodesic area in square metres of the polygon through the
// given vertices, computed from the spherical excess. Fewer than three
// distinct vertices or a collinear ring yields 0.
func Area(vertices []LatLng) float64 {
	pts := ring(vertices)
	n := len(pts)
	if n < 3 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		p1, p2 := pts[i], pts[(i+1)%n]
		dLng := rad(p2.Lng - p1.Lng)
		// Edges crossing the antimeridian take the short way round.
		if dLng > math.Pi {
			dLng -= 2 * math.Pi
		} else if dLng < -math.Pi {
			dLng += 2 * math.Pi
		}
		total += dLng * (2 + math.Sin(rad(p1.Lat)) + math.Sin(rad(p2.Lat)))
	}
	area := math.Abs(total * EarthRadiusM * EarthRadiusM / 2)
	if area < 1e-6 {
		return 0
	}
	return area
}

// Perimeter returns the length of the closed ring in metres.
func Perimeter(vertices []LatLng) float64 {
	total := 0.0
	for _, l := range edgeLengths(ring(vertices)) {
		total += l
	}
	return total
}

func edgeLengths(pts []LatLng) []float64 {
	n := len(pts)
	if n < 2 {
		return nil
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Distance(pts[i], pts[(i+1)%n])
	}
	return out
}

// Measure computes the area, perimeter and dominant-edge azimuth of a polygon.
// Unlike Area it rejects malformed input instead of returning zero.
func Measure(vertices []LatLng) (PolygonArea, error) {
	for i, v := range vertices {
		if !v.Valid() {
			return PolygonArea{}, validation.Invalid("vertices", v, fmt.Sprintf("coordinate out of range at index %d", i))
		}
	}
	pts := ring(vertices)
	if len(pts) < 3 {
		return PolygonArea{}, validation.Invalid("vertices", len(pts), "polygon needs at least 3 distinct vertices")
	}

	edges := edgeLengths(pts)
	longest, perimeter := 0, 0.0
	for i, l := range edges {
		perimeter += l
		if l > edges[longest] {
			longest = i
		}
	}

	return PolygonArea{
		Vertices:            pts,
		AreaM2:              Area(pts),
		PerimeterM:          perimeter,
		DominantEdgeAzimuth: Heading(pts[longest], pts[(longest+1)%len(pts)]),
		EdgeLengthsM:        edges,
	}, nil
}

// Centroid returns the arithmetic mean of the vertices. It is only meant as a
// projection origin for small polygons.
func Centroid(vertices []LatLng) LatLng {
	if len(vertices) == 0 {
		return LatLng{}
	}
	var c LatLng
	for _, v := range vertices {
		c.Lat += v.Lat
		c.Lng += v.Lng
	}
	n := float64(len(vertices))
	return LatLng{Lat: c.Lat / n, Lng: c.Lng / n}
}

// metresPerDegree is the arc length of one degree of latitude on the sphere.
const metresPerDegree = EarthRadiusM * math.Pi / 180

// ToLocal projects p onto an equirectangular plane at origin. X points east
// and Y points north, both in metres. Only meant for roof and field sized
// polygons.
func ToLocal(origin, p LatLng) Point2D {
	return Point2D{
		X: (p.Lng - origin.Lng) * metresPerDegree * math.Cos(rad(origin.Lat)),
		Y: (p.Lat - origin.Lat) * metresPerDegree,
	}
}
