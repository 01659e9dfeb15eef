package impact2d

import (
	"math"
)

/// A convex polygon. It is assumed that the interior of the polygon is to
/// the left of each edge.
/// Polygons have a maximum number of vertices equal to maxPolygonVertices.
/// In most cases you should not need many vertices for a convex polygon.

type PolygonShape struct {
	Shape

	M_centroid Vec2
	M_vertices [MaxPolygonVertices]Vec2
	M_normals  [MaxPolygonVertices]Vec2
	M_count    int
}

func MakePolygonShape() PolygonShape {
	return PolygonShape{
		Shape: Shape{
			M_type:   Shape_Type.E_polygon,
			M_radius: 0.0,
		},
		M_count:    0,
		M_centroid: MakeVec2(0, 0),
	}
}

func NewPolygonShape() *PolygonShape {
	res := MakePolygonShape()
	return &res
}

func (poly *PolygonShape) GetVertexCount() int {
	return poly.M_count
}

func (poly *PolygonShape) GetVertex(index int) *Vec2 {
	Assert(0 <= index && index < poly.M_count)
	return &poly.M_vertices[index]
}

func (poly *PolygonShape) GetNormal(index int) *Vec2 {
	Assert(0 <= index && index < poly.M_count)
	return &poly.M_normals[index]
}

///////////////////////////////////////////////////////////////////////////////

func (poly PolygonShape) Clone() ShapeInterface {

	clone := NewPolygonShape()
	clone.M_centroid = poly.M_centroid
	clone.M_count = poly.M_count

	for i := range poly.M_vertices {
		clone.M_vertices[i] = poly.M_vertices[i]
	}

	for i := range poly.M_normals {
		clone.M_normals[i] = poly.M_normals[i]
	}

	return clone
}

func (poly PolygonShape) GetCenter() Vec2 {
	return poly.M_centroid
}

func (poly *PolygonShape) SetAsBox(hx float64, hy float64) {
	poly.M_count = 4
	poly.M_vertices[0].Set(-hx, -hy)
	poly.M_vertices[1].Set(hx, -hy)
	poly.M_vertices[2].Set(hx, hy)
	poly.M_vertices[3].Set(-hx, hy)
	poly.M_normals[0].Set(0.0, -1.0)
	poly.M_normals[1].Set(1.0, 0.0)
	poly.M_normals[2].Set(0.0, 1.0)
	poly.M_normals[3].Set(-1.0, 0.0)
	poly.M_centroid.SetZero()
}

func (poly *PolygonShape) SetAsBoxFromCenterAndAngle(hx float64, hy float64, center Vec2, angle float64) {
	poly.M_count = 4
	poly.M_vertices[0].Set(-hx, -hy)
	poly.M_vertices[1].Set(hx, -hy)
	poly.M_vertices[2].Set(hx, hy)
	poly.M_vertices[3].Set(-hx, hy)
	poly.M_normals[0].Set(0.0, -1.0)
	poly.M_normals[1].Set(1.0, 0.0)
	poly.M_normals[2].Set(0.0, 1.0)
	poly.M_normals[3].Set(-1.0, 0.0)
	poly.M_centroid = center

	xf := MakeTransform()
	xf.P = center
	xf.Q.Set(angle)

	// Transform vertices and normals.
	for i := 0; i < poly.M_count; i++ {
		poly.M_vertices[i] = TransformVec2Mul(xf, poly.M_vertices[i])
		poly.M_normals[i] = RotVec2Mul(xf.Q, poly.M_normals[i])
	}
}

func ComputeCentroid(vs []Vec2, count int) Vec2 {

	Assert(count >= 3)

	c := MakeVec2(0, 0)
	area := 0.0

	// pRef is the reference point for forming triangles.
	// It's location doesn't change the result (except for rounding error).
	pRef := MakeVec2(0.0, 0.0)

	// This code would put the reference point inside the polygon.
	for i := 0; i < count; i++ {
		pRef.OperatorPlusInplace(vs[i])
	}
	pRef.OperatorScalarMulInplace(1.0 / float64(count))

	inv3 := 1.0 / 3.0

	for i := 0; i < count; i++ {
		// Triangle vertices.
		p1 := pRef
		p2 := vs[i]
		p3 := MakeVec2(0, 0)
		if i+1 < count {
			p3 = vs[i+1]
		} else {
			p3 = vs[0]
		}

		e1 := Vec2Sub(p2, p1)
		e2 := Vec2Sub(p3, p1)

		D := Vec2Cross(e1, e2)

		triangleArea := 0.5 * D
		area += triangleArea

		// Area weighted centroid
		c.OperatorPlusInplace(Vec2MulScalar(triangleArea*inv3, Vec2Add(Vec2Add(p1, p2), p3)))
	}

	// Centroid
	Assert(area > Epsilon)
	c.OperatorScalarMulInplace(1.0 / area)
	return c
}

func (poly *PolygonShape) Set(vertices []Vec2, count int) {
	assertArg(vertices != nil, "polygon vertices must not be nil")
	assertArg(3 <= count && count <= MaxPolygonVertices, "polygon vertex count out of range")

	n := MinInt(count, MaxPolygonVertices)

	// Perform welding and copy vertices into local buffer.
	ps := make([]Vec2, MaxPolygonVertices)
	tempCount := 0

	for i := 0; i < n; i++ {
		v := vertices[i]

		unique := true
		for j := 0; j < tempCount; j++ {
			if Vec2DistanceSquared(v, ps[j]) < ((0.5 * LinearSlop) * (0.5 * LinearSlop)) {
				unique = false
				break
			}
		}

		if unique {
			ps[tempCount] = v
			tempCount++
		}
	}

	n = tempCount
	if n < 3 {
		// All points welded together. Fall back to a unit box.
		poly.SetAsBox(1.0, 1.0)
		return
	}

	// Create the convex hull using the Gift wrapping algorithm
	// http://en.wikipedia.org/wiki/Gift_wrapping_algorithm

	// Find the right most point on the hull
	i0 := 0
	x0 := ps[0].X
	for i := 1; i < n; i++ {
		x := ps[i].X
		if x > x0 || (x == x0 && ps[i].Y < ps[i0].Y) {
			i0 = i
			x0 = x
		}
	}

	hull := make([]int, MaxPolygonVertices)
	m := 0
	ih := i0

	for {
		Assert(m < MaxPolygonVertices)
		hull[m] = ih

		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := Vec2Sub(ps[ie], ps[hull[m]])
			v := Vec2Sub(ps[j], ps[hull[m]])
			c := Vec2Cross(r, v)
			if c < 0.0 {
				ie = j
			}

			// Collinearity check
			if c == 0.0 && v.LengthSquared() > r.LengthSquared() {
				ie = j
			}
		}

		m++
		ih = ie

		if ie == i0 {
			break
		}
	}

	if m < 3 {
		// The hull collapsed to a line. Fall back to a unit box.
		poly.SetAsBox(1.0, 1.0)
		return
	}

	poly.M_count = m

	// Copy vertices.
	for i := 0; i < m; i++ {
		poly.M_vertices[i] = ps[hull[i]]
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < m; i++ {
		i1 := i
		i2 := 0
		if i+1 < m {
			i2 = i + 1
		}

		edge := Vec2Sub(poly.M_vertices[i2], poly.M_vertices[i1])
		Assert(edge.LengthSquared() > Epsilon*Epsilon)
		poly.M_normals[i] = Vec2CrossVectorScalar(edge, 1.0)
		poly.M_normals[i].Normalize()
	}

	// Compute the polygon centroid.
	poly.M_centroid = ComputeCentroid(poly.M_vertices[:], m)
}

func (poly PolygonShape) TestPoint(xf Transform, p Vec2) bool {
	pLocal := RotVec2MulT(xf.Q, Vec2Sub(p, xf.P))

	for i := 0; i < poly.M_count; i++ {
		dot := Vec2Dot(poly.M_normals[i], Vec2Sub(pLocal, poly.M_vertices[i]))
		if dot > 0.0 {
			return false
		}
	}

	return true
}

func (poly PolygonShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform) bool {

	// Put the ray into the polygon's frame of reference.
	p1 := RotVec2MulT(xf.Q, Vec2Sub(input.P1, xf.P))
	p2 := RotVec2MulT(xf.Q, Vec2Sub(input.P2, xf.P))
	d := Vec2Sub(p2, p1)

	lower := 0.0
	upper := input.MaxFraction

	index := -1

	for i := 0; i < poly.M_count; i++ {
		// p = p1 + a * d
		// dot(normal, p - v) = 0
		// dot(normal, p1 - v) + a * dot(normal, d) = 0
		numerator := Vec2Dot(poly.M_normals[i], Vec2Sub(poly.M_vertices[i], p1))
		denominator := Vec2Dot(poly.M_normals[i], d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return false
			}
		} else {
			// Note: we want this predicate without division:
			// lower < numerator / denominator, where denominator < 0
			// Since denominator < 0, we have to flip the inequality:
			// lower < numerator / denominator <==> denominator * lower > numerator.
			if denominator < 0.0 && numerator < lower*denominator {
				// Increase lower.
				// The segment enters this half-space.
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				// Decrease upper.
				// The segment exits this half-space.
				upper = numerator / denominator
			}
		}

		if upper < lower {
			return false
		}
	}

	Assert(0.0 <= lower && lower <= input.MaxFraction)

	if index >= 0 {
		output.Fraction = lower
		output.Normal = RotVec2Mul(xf.Q, poly.M_normals[index])
		return true
	}

	return false
}

func (poly PolygonShape) ComputeAABB(aabb *AABB, xf Transform) {

	lower := TransformVec2Mul(xf, poly.M_vertices[0])
	upper := lower

	for i := 1; i < poly.M_count; i++ {
		v := TransformVec2Mul(xf, poly.M_vertices[i])
		lower = Vec2Min(lower, v)
		upper = Vec2Max(upper, v)
	}

	r := MakeVec2(poly.M_radius, poly.M_radius)
	aabb.LowerBound = Vec2Sub(lower, r)
	aabb.UpperBound = Vec2Add(upper, r)
}

func (poly PolygonShape) ComputeMass(massData *MassData, density float64) {
	// Polygon mass, centroid, and inertia.
	// Let rho be the polygon density in mass per unit area.
	// Then:
	// mass = rho * int(dA)
	// centroid.x = (1/mass) * rho * int(x * dA)
	// centroid.y = (1/mass) * rho * int(y * dA)
	// I = rho * int((x*x + y*y) * dA)
	//
	// We can compute these integrals by summing all the integrals
	// for each triangle of the polygon. To evaluate the integral
	// for a single triangle, we make a change of variables to
	// the (u,v) coordinates of the triangle:
	// x = x0 + e1x * u + e2x * v
	// y = y0 + e1y * u + e2y * v
	// where 0 <= u && 0 <= v && u + v <= 1.
	//
	// We integrate u from [0,1-v] and then v from [0,1].
	// We also need to use the Jacobian of the transformation:
	// D = cross(e1, e2)
	//
	// Simplification: triangle centroid = (1/3) * (p1 + p2 + p3)
	//
	// The rest of the derivation is handled by computer algebra.

	Assert(poly.M_count >= 3)

	center := MakeVec2(0, 0)

	area := 0.0
	I := 0.0

	// s is the reference point for forming triangles.
	// It's location doesn't change the result (except for rounding error).
	s := MakeVec2(0.0, 0.0)

	// This code would put the reference point inside the polygon.
	for i := 0; i < poly.M_count; i++ {
		s.OperatorPlusInplace(poly.M_vertices[i])
	}

	s.OperatorScalarMulInplace(1.0 / float64(poly.M_count))

	k_inv3 := 1.0 / 3.0

	for i := 0; i < poly.M_count; i++ {
		// Triangle vertices.
		e1 := Vec2Sub(poly.M_vertices[i], s)
		e2 := MakeVec2(0, 0)

		if i+1 < poly.M_count {
			e2 = Vec2Sub(poly.M_vertices[i+1], s)
		} else {
			e2 = Vec2Sub(poly.M_vertices[0], s)
		}

		D := Vec2Cross(e1, e2)

		triangleArea := 0.5 * D
		area += triangleArea

		// Area weighted centroid
		center.OperatorPlusInplace(Vec2MulScalar(triangleArea*k_inv3, Vec2Add(e1, e2)))

		ex1 := e1.X
		ey1 := e1.Y
		ex2 := e2.X
		ey2 := e2.Y

		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2

		I += (0.25 * k_inv3 * D) * (intx2 + inty2)
	}

	// Total mass
	massData.Mass = density * area

	// Center of mass
	Assert(area > Epsilon)
	center.OperatorScalarMulInplace(1.0 / area)
	massData.Center = Vec2Add(center, s)

	// Inertia tensor relative to the local origin (point s).
	massData.I = density * I

	// Shift to center of mass then to original body origin.
	massData.I += massData.Mass * (Vec2Dot(massData.Center, massData.Center) - Vec2Dot(center, center))
}

func (poly PolygonShape) ComputeRadius(center Vec2) float64 {
	r2 := 0.0
	for i := 0; i < poly.M_count; i++ {
		r2 = math.Max(r2, Vec2DistanceSquared(center, poly.M_vertices[i]))
	}
	return math.Sqrt(r2)
}

func (poly PolygonShape) Project(axis Vec2, xf Transform) Interval {
	p := TransformVec2Mul(xf, poly.M_vertices[0])
	min := Vec2Dot(axis, p)
	max := min

	for i := 1; i < poly.M_count; i++ {
		p = TransformVec2Mul(xf, poly.M_vertices[i])
		v := Vec2Dot(axis, p)
		if v < min {
			min = v
		} else if v > max {
			max = v
		}
	}

	return MakeInterval(min, max)
}

/// The candidate axes of a polygon are its edge normals plus, for each focal
/// point of the other shape, the direction from the focus to the closest
/// vertex.
func (poly PolygonShape) GetAxes(foci []Vec2, xf Transform) []Vec2 {
	axes := make([]Vec2, 0, poly.M_count+len(foci))

	for i := 0; i < poly.M_count; i++ {
		axes = append(axes, RotVec2Mul(xf.Q, poly.M_normals[i]))
	}

	for _, f := range foci {
		closest := TransformVec2Mul(xf, poly.M_vertices[0])
		d := Vec2DistanceSquared(f, closest)

		for j := 1; j < poly.M_count; j++ {
			p := TransformVec2Mul(xf, poly.M_vertices[j])
			dt := Vec2DistanceSquared(f, p)
			if dt < d {
				closest = p
				d = dt
			}
		}

		axis := Vec2Sub(closest, f)
		axis.Normalize()
		axes = append(axes, axis)
	}

	return axes
}

func (poly PolygonShape) GetFoci(xf Transform) []Vec2 {
	return nil
}

func (poly PolygonShape) GetFarthestPoint(direction Vec2, xf Transform) Vec2 {
	localn := RotVec2MulT(xf.Q, direction)

	index := 0
	best := Vec2Dot(localn, poly.M_vertices[0])
	for i := 1; i < poly.M_count; i++ {
		d := Vec2Dot(localn, poly.M_vertices[i])
		if d > best {
			best = d
			index = i
		}
	}

	return TransformVec2Mul(xf, poly.M_vertices[index])
}

func (poly PolygonShape) GetFarthestFeature(direction Vec2, xf Transform) ShapeFeature {
	localn := RotVec2MulT(xf.Q, direction)

	index := 0
	best := Vec2Dot(localn, poly.M_vertices[0])
	for i := 1; i < poly.M_count; i++ {
		d := Vec2Dot(localn, poly.M_vertices[i])
		if d > best {
			best = d
			index = i
		}
	}

	count := poly.M_count
	l := index + 1
	if l == count {
		l = 0
	}
	r := index - 1
	if index == 0 {
		r = count - 1
	}

	// The edge ending at the maximum vertex and the edge starting there.
	leftN := poly.M_normals[r]
	rightN := poly.M_normals[index]

	maximum := TransformVec2Mul(xf, poly.M_vertices[index])

	if Vec2Dot(leftN, localn) < Vec2Dot(rightN, localn) {
		// The outgoing edge faces the direction most.
		left := TransformVec2Mul(xf, poly.M_vertices[l])
		return ShapeFeature{
			Type:        ShapeFeature_Type.E_edge,
			Vertex:      maximum,
			VertexIndex: index,
			Vertex1:     maximum,
			Vertex2:     left,
			Index1:      index,
			Index2:      l,
			EdgeIndex:   index + 1,
		}
	}

	// The incoming edge faces the direction most.
	right := TransformVec2Mul(xf, poly.M_vertices[r])
	return ShapeFeature{
		Type:        ShapeFeature_Type.E_edge,
		Vertex:      maximum,
		VertexIndex: index,
		Vertex1:     right,
		Vertex2:     maximum,
		Index1:      r,
		Index2:      index,
		EdgeIndex:   index,
	}
}

func (poly PolygonShape) Validate() bool {

	for i := 0; i < poly.M_count; i++ {
		i1 := i
		i2 := 0

		if i < poly.M_count-1 {
			i2 = i1 + 1
		}

		p := poly.M_vertices[i1]
		e := Vec2Sub(poly.M_vertices[i2], p)

		for j := 0; j < poly.M_count; j++ {
			if j == i1 || j == i2 {
				continue
			}

			v := Vec2Sub(poly.M_vertices[j], p)
			c := Vec2Cross(e, v)
			if c < 0.0 {
				return false
			}
		}
	}

	return true
}
