package scale

import (
	"math"

	"scrollmap/internal/geom"
)

// Projection maps lng/lat degrees into canvas space.
type Projection interface {
	Project(lng, lat float64) geom.Point
}

// mercatorLatLimit keeps the Mercator y finite near the poles.
const mercatorLatLimit = 85.05112878

func mercatorRaw(lng, lat float64) (x, y float64) {
	lat = math.Max(-mercatorLatLimit, math.Min(mercatorLatLimit, lat))
	lambda := lng * math.Pi / 180
	phi := lat * math.Pi / 180
	return lambda, math.Log(math.Tan(math.Pi/4 + phi/2))
}

// Mercator is a spherical Mercator projection scaled and translated so that a
// fitted extent sits centred inside the canvas.
type Mercator struct {
	k      float64
	tx, ty float64
}

// Project implements Projection. Screen y grows downwards.
func (m Mercator) Project(lng, lat float64) geom.Point {
	x, y := mercatorRaw(lng, lat)
	return geom.Point{X: m.tx + m.k*x, Y: m.ty - m.k*y}
}

// FitMercator fits a Mercator projection so the bbox fills size while
// keeping its aspect ratio. An empty bbox yields a projection that maps
// everything to the canvas centre.
func FitMercator(bb geom.BBox, size geom.Size) Mercator {
	x0, y0 := mercatorRaw(bb.MinX, bb.MinY)
	x1, y1 := mercatorRaw(bb.MaxX, bb.MaxY)
	dx, dy := x1-x0, y1-y0
	if dx <= 0 && dy <= 0 {
		return Mercator{k: 0, tx: size.W / 2, ty: size.H / 2}
	}
	k := math.Inf(1)
	if dx > 0 {
		k = size.W / dx
	}
	if dy > 0 {
		k = math.Min(k, size.H/dy)
	}
	return Mercator{
		k:  k,
		tx: (size.W-k*dx)/2 - k*x0,
		ty: (size.H-k*dy)/2 + k*y1,
	}
}

// LinearGeo maps lng and lat independently onto the canvas, the plain
// coordinate scatter used when there is no map backdrop.
type LinearGeo struct {
	X Linear
	Y Linear
}

// Project implements Projection.
func (l LinearGeo) Project(lng, lat float64) geom.Point {
	return geom.Point{X: l.X.Apply(lng), Y: l.Y.Apply(lat)}
}

// FitLinear spans the bbox across the full canvas, latitude inverted so north
// is up.
func FitLinear(bb geom.BBox, size geom.Size) LinearGeo {
	return LinearGeo{
		X: NewLinear(bb.MinX, bb.MaxX, 0, size.W),
		Y: NewLinear(bb.MinY, bb.MaxY, size.H, 0),
	}
}
