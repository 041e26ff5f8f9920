package models

import (
	"math"

	"github.com/sebas2906/portfolio/pkg/math3d"
)

// NewTorus builds a ring of the given radius around the Z axis. tube is the
// radius of the ring's cross-section.
func NewTorus(radius, tube float64, radialSegments, tubularSegments int) *Mesh {
	m := NewMesh("torus")
	radialSegments = max(radialSegments, 3)
	tubularSegments = max(tubularSegments, 3)

	for j := 0; j <= radialSegments; j++ {
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		for i := 0; i <= tubularSegments; i++ {
			u := float64(i) / float64(tubularSegments) * 2 * math.Pi

			pos := math3d.V3(
				(radius+tube*math.Cos(v))*math.Cos(u),
				(radius+tube*math.Cos(v))*math.Sin(u),
				tube*math.Sin(v),
			)
			center := math3d.V3(radius*math.Cos(u), radius*math.Sin(u), 0)
			m.addVertex(pos, pos.Sub(center).Normalize(), math3d.V2(
				float64(i)/float64(tubularSegments),
				float64(j)/float64(radialSegments),
			))
		}
	}

	stride := tubularSegments + 1
	for j := 1; j <= radialSegments; j++ {
		for i := 1; i <= tubularSegments; i++ {
			a := stride*j + i - 1
			b := stride*(j-1) + i - 1
			c := stride*(j-1) + i
			d := stride*j + i
			m.addTriangle(a, b, d)
			m.addTriangle(b, c, d)
		}
	}

	m.CalculateBounds()
	return m
}

// NewCone builds a closed cone with its apex on +Y, centered on the origin.
func NewCone(radius, height float64, radialSegments int) *Mesh {
	m := NewMesh("cone")
	radialSegments = max(radialSegments, 3)
	half := height / 2
	slope := radius / height

	// Side: an apex ring (one vertex per segment so each keeps its own
	// normal) and a base ring.
	ring := func(r, y float64, v float64) int {
		start := len(m.Vertices)
		for x := 0; x <= radialSegments; x++ {
			u := float64(x) / float64(radialSegments)
			theta := u * 2 * math.Pi
			sin, cos := math.Sin(theta), math.Cos(theta)
			m.addVertex(
				math3d.V3(r*sin, y, r*cos),
				math3d.V3(sin, slope, cos).Normalize(),
				math3d.V2(u, v),
			)
		}
		return start
	}
	apex := ring(0, half, 1)
	base := ring(radius, -half, 0)
	for x := range radialSegments {
		b := base + x
		c := base + x + 1
		d := apex + x + 1
		m.addTriangle(b, c, d)
	}

	// Bottom cap.
	down := math3d.V3(0, -1, 0)
	centers := len(m.Vertices)
	for range radialSegments {
		m.addVertex(math3d.V3(0, -half, 0), down, math3d.V2(0.5, 0.5))
	}
	rim := len(m.Vertices)
	for x := 0; x <= radialSegments; x++ {
		theta := float64(x) / float64(radialSegments) * 2 * math.Pi
		sin, cos := math.Sin(theta), math.Cos(theta)
		m.addVertex(math3d.V3(radius*sin, -half, radius*cos), down,
			math3d.V2(cos*0.5+0.5, sin*0.5+0.5))
	}
	for x := range radialSegments {
		m.addTriangle(rim+x+1, rim+x, centers+x)
	}

	m.CalculateBounds()
	return m
}

// NewTorusKnot builds a (p, q) torus knot. The defaults used by the page are
// p = 2 and q = 3.
func NewTorusKnot(radius, tube float64, tubularSegments, radialSegments, p, q int) *Mesh {
	m := NewMesh("torus-knot")
	tubularSegments = max(tubularSegments, 3)
	radialSegments = max(radialSegments, 3)
	if p == 0 {
		p = 2
	}
	if q == 0 {
		q = 3
	}

	for i := 0; i <= tubularSegments; i++ {
		u := float64(i) / float64(tubularSegments) * float64(p) * 2 * math.Pi

		p1 := knotPoint(u, p, q, radius)
		p2 := knotPoint(u+0.01, p, q, radius)

		// Frenet-like frame along the curve.
		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n)
		n = b.Cross(t)
		b = b.Normalize()
		n = n.Normalize()

		for j := 0; j <= radialSegments; j++ {
			v := float64(j) / float64(radialSegments) * 2 * math.Pi
			cx := -tube * math.Cos(v)
			cy := tube * math.Sin(v)

			pos := p1.Add(n.Scale(cx)).Add(b.Scale(cy))
			m.addVertex(pos, pos.Sub(p1).Normalize(), math3d.V2(
				float64(i)/float64(tubularSegments),
				float64(j)/float64(radialSegments),
			))
		}
	}

	stride := radialSegments + 1
	for j := 1; j <= tubularSegments; j++ {
		for i := 1; i <= radialSegments; i++ {
			a := stride*(j-1) + (i - 1)
			b := stride*j + (i - 1)
			c := stride*j + i
			d := stride*(j-1) + i
			m.addTriangle(a, b, d)
			m.addTriangle(b, c, d)
		}
	}

	m.CalculateBounds()
	return m
}

func knotPoint(u float64, p, q int, radius float64) math3d.Vec3 {
	cu, su := math.Cos(u), math.Sin(u)
	quOverP := float64(q) / float64(p) * u
	cs := math.Cos(quOverP)

	return math3d.V3(
		radius*(2+cs)*0.5*cu,
		radius*(2+cs)*su*0.5,
		radius*math.Sin(quOverP)*0.5,
	)
}
