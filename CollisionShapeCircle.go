package impact2d

import (
	"math"
)

/// A circle shape.
type CircleShape struct {
	Shape
	/// Position
	M_p Vec2
}

func MakeCircleShape() CircleShape {
	return CircleShape{
		Shape: Shape{
			M_type:   Shape_Type.E_circle,
			M_radius: 0.0,
		},
		M_p: MakeVec2(0, 0),
	}
}

func NewCircleShape() *CircleShape {
	res := MakeCircleShape()
	return &res
}

///////////////////////////////////////////////////////////////////////////////

func (shape CircleShape) Clone() ShapeInterface {
	clone := NewCircleShape()
	clone.M_radius = shape.M_radius
	clone.M_p = shape.M_p
	return clone
}

func (shape CircleShape) GetCenter() Vec2 {
	return shape.M_p
}

func (shape CircleShape) TestPoint(transform Transform, p Vec2) bool {
	center := Vec2Add(transform.P, RotVec2Mul(transform.Q, shape.M_p))
	d := Vec2Sub(p, center)
	return Vec2Dot(d, d) <= shape.M_radius*shape.M_radius
}

// Collision Detection in Interactive 3D Environments by Gino van den Bergen
// From Section 3.1.2
// x = s + a * r
// norm(x) = radius
func (shape CircleShape) RayCast(output *RayCastOutput, input RayCastInput, transform Transform) bool {

	position := Vec2Add(transform.P, RotVec2Mul(transform.Q, shape.M_p))
	s := Vec2Sub(input.P1, position)
	b := Vec2Dot(s, s) - shape.M_radius*shape.M_radius

	// Solve quadratic equation.
	r := Vec2Sub(input.P2, input.P1)
	c := Vec2Dot(s, r)
	rr := Vec2Dot(r, r)
	sigma := c*c - rr*b

	// Check for negative discriminant and short segment.
	if sigma < 0.0 || rr < Epsilon {
		return false
	}

	// Find the point of intersection of the line with the circle.
	a := -(c + math.Sqrt(sigma))

	// Is the intersection point on the segment?
	if 0.0 <= a && a <= input.MaxFraction*rr {
		a /= rr
		output.Fraction = a
		output.Normal = Vec2Add(s, Vec2MulScalar(a, r))
		output.Normal.Normalize()
		return true
	}

	return false
}

func (shape CircleShape) ComputeAABB(aabb *AABB, transform Transform) {
	p := Vec2Add(transform.P, RotVec2Mul(transform.Q, shape.M_p))
	aabb.LowerBound.Set(p.X-shape.M_radius, p.Y-shape.M_radius)
	aabb.UpperBound.Set(p.X+shape.M_radius, p.Y+shape.M_radius)
}

func (shape CircleShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = density * Pi * shape.M_radius * shape.M_radius
	massData.Center = shape.M_p

	// inertia about the local origin
	massData.I = massData.Mass * (0.5*shape.M_radius*shape.M_radius + Vec2Dot(shape.M_p, shape.M_p))
}

func (shape CircleShape) ComputeRadius(center Vec2) float64 {
	return Vec2Distance(center, shape.M_p) + shape.M_radius
}

func (shape CircleShape) Project(axis Vec2, xf Transform) Interval {
	center := TransformVec2Mul(xf, shape.M_p)
	c := Vec2Dot(center, axis)
	return MakeInterval(c-shape.M_radius, c+shape.M_radius)
}

/// A circle has no edges; every separating axis candidate comes from the
/// other shape's edges or from this circle's focus.
func (shape CircleShape) GetAxes(foci []Vec2, xf Transform) []Vec2 {
	return nil
}

func (shape CircleShape) GetFoci(xf Transform) []Vec2 {
	return []Vec2{TransformVec2Mul(xf, shape.M_p)}
}

func (shape CircleShape) GetFarthestPoint(direction Vec2, xf Transform) Vec2 {
	n := direction
	n.Normalize()
	center := TransformVec2Mul(xf, shape.M_p)
	return Vec2Add(center, Vec2MulScalar(shape.M_radius, n))
}

/// The farthest feature of a circle is always a single point.
func (shape CircleShape) GetFarthestFeature(direction Vec2, xf Transform) ShapeFeature {
	return ShapeFeature{
		Type:        ShapeFeature_Type.E_vertex,
		Vertex:      shape.GetFarthestPoint(direction, xf),
		VertexIndex: 0,
	}
}
