package impact2d

import (
	"math"
)

/// A line segment shape with two endpoints and zero thickness.
type SegmentShape struct {
	Shape
	/// These are the segment endpoints
	M_vertex1, M_vertex2 Vec2

	M_center Vec2
	M_length float64
}

func MakeSegmentShape() SegmentShape {
	return SegmentShape{
		Shape: Shape{
			M_type:   Shape_Type.E_segment,
			M_radius: 0.0,
		},
	}
}

func NewSegmentShape() *SegmentShape {
	res := MakeSegmentShape()
	return &res
}

///////////////////////////////////////////////////////////////////////////////

func (segment *SegmentShape) Set(v1 Vec2, v2 Vec2) {
	assertArg(Vec2NotEquals(v1, v2), "segment endpoints must be distinct")

	segment.M_vertex1 = v1
	segment.M_vertex2 = v2
	segment.M_center = Vec2MulScalar(0.5, Vec2Add(v1, v2))
	segment.M_length = Vec2Distance(v1, v2)
}

func (segment SegmentShape) Clone() ShapeInterface {
	clone := NewSegmentShape()
	clone.M_vertex1 = segment.M_vertex1
	clone.M_vertex2 = segment.M_vertex2
	clone.M_center = segment.M_center
	clone.M_length = segment.M_length

	return clone
}

func (segment SegmentShape) GetCenter() Vec2 {
	return segment.M_center
}

func (segment SegmentShape) TestPoint(xf Transform, p Vec2) bool {
	return false
}

// p = p1 + t * d
// v = v1 + s * e
// p1 + t * d = v1 + s * e
// s * e - t * d = p1 - v1
func (segment SegmentShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform) bool {

	// Put the ray into the segment's frame of reference.
	p1 := RotVec2MulT(xf.Q, Vec2Sub(input.P1, xf.P))
	p2 := RotVec2MulT(xf.Q, Vec2Sub(input.P2, xf.P))
	d := Vec2Sub(p2, p1)

	v1 := segment.M_vertex1
	v2 := segment.M_vertex2
	e := Vec2Sub(v2, v1)
	normal := MakeVec2(e.Y, -e.X)
	normal.Normalize()

	// q = p1 + t * d
	// dot(normal, q - v1) = 0
	// dot(normal, p1 - v1) + t * dot(normal, d) = 0
	numerator := Vec2Dot(normal, Vec2Sub(v1, p1))
	denominator := Vec2Dot(normal, d)

	if denominator == 0.0 {
		return false
	}

	t := numerator / denominator
	if t < 0.0 || input.MaxFraction < t {
		return false
	}

	q := Vec2Add(p1, Vec2MulScalar(t, d))

	// q = v1 + s * r
	// s = dot(q - v1, r) / dot(r, r)
	r := Vec2Sub(v2, v1)
	rr := Vec2Dot(r, r)
	if rr == 0.0 {
		return false
	}

	s := Vec2Dot(Vec2Sub(q, v1), r) / rr
	if s < 0.0 || 1.0 < s {
		return false
	}

	output.Fraction = t
	if numerator > 0.0 {
		output.Normal = RotVec2Mul(xf.Q, normal).OperatorNegate()
	} else {
		output.Normal = RotVec2Mul(xf.Q, normal)
	}

	return true
}

func (segment SegmentShape) ComputeAABB(aabb *AABB, xf Transform) {

	v1 := TransformVec2Mul(xf, segment.M_vertex1)
	v2 := TransformVec2Mul(xf, segment.M_vertex2)

	aabb.LowerBound = Vec2Min(v1, v2)
	aabb.UpperBound = Vec2Max(v1, v2)
}

func (segment SegmentShape) ComputeMass(massData *MassData, density float64) {
	// Treat the segment as a thin rod.
	massData.Mass = density * segment.M_length
	massData.Center = segment.M_center

	// inertia about the local origin
	I := segment.M_length * segment.M_length * massData.Mass / 12.0
	massData.I = I + massData.Mass*Vec2Dot(segment.M_center, segment.M_center)
}

func (segment SegmentShape) ComputeRadius(center Vec2) float64 {
	return math.Sqrt(math.Max(Vec2DistanceSquared(center, segment.M_vertex1), Vec2DistanceSquared(center, segment.M_vertex2)))
}

func (segment SegmentShape) Project(axis Vec2, xf Transform) Interval {
	v1 := Vec2Dot(axis, TransformVec2Mul(xf, segment.M_vertex1))
	v2 := Vec2Dot(axis, TransformVec2Mul(xf, segment.M_vertex2))

	if v1 <= v2 {
		return MakeInterval(v1, v2)
	}
	return MakeInterval(v2, v1)
}

/// The candidate axes of a segment are its direction, its normal, plus the
/// axis from each focal point of the other shape to the closest endpoint.
func (segment SegmentShape) GetAxes(foci []Vec2, xf Transform) []Vec2 {
	axes := make([]Vec2, 0, 2+len(foci))

	p1 := TransformVec2Mul(xf, segment.M_vertex1)
	p2 := TransformVec2Mul(xf, segment.M_vertex2)

	e := Vec2Sub(p2, p1)
	e.Normalize()
	axes = append(axes, e)
	axes = append(axes, Vec2CrossVectorScalar(e, 1.0))

	for _, f := range foci {
		var axis Vec2
		if Vec2DistanceSquared(p1, f) < Vec2DistanceSquared(p2, f) {
			axis = Vec2Sub(f, p1)
		} else {
			axis = Vec2Sub(f, p2)
		}
		axis.Normalize()
		axes = append(axes, axis)
	}

	return axes
}

func (segment SegmentShape) GetFoci(xf Transform) []Vec2 {
	return nil
}

func (segment SegmentShape) GetFarthestPoint(direction Vec2, xf Transform) Vec2 {
	p1 := TransformVec2Mul(xf, segment.M_vertex1)
	p2 := TransformVec2Mul(xf, segment.M_vertex2)

	if Vec2Dot(direction, p1) >= Vec2Dot(direction, p2) {
		return p1
	}
	return p2
}

/// The farthest feature of a segment is always the whole segment, wound so
/// that its outward normal faces the query direction.
func (segment SegmentShape) GetFarthestFeature(direction Vec2, xf Transform) ShapeFeature {
	p1 := TransformVec2Mul(xf, segment.M_vertex1)
	p2 := TransformVec2Mul(xf, segment.M_vertex2)
	return SegmentFarthestFeature(p1, p2, direction)
}

/// Get the edge feature of the world segment p1-p2 along the direction. The
/// winding is chosen so that the outward normal of the edge faces the
/// direction.
func SegmentFarthestFeature(p1 Vec2, p2 Vec2, direction Vec2) ShapeFeature {
	maximum := p1
	index := 0
	if Vec2Dot(direction, p2) > Vec2Dot(direction, p1) {
		maximum = p2
		index = 1
	}

	feature := ShapeFeature{
		Type:        ShapeFeature_Type.E_edge,
		Vertex:      maximum,
		VertexIndex: index,
		EdgeIndex:   0,
	}

	e := Vec2Sub(p2, p1)
	if Vec2Dot(Vec2CrossVectorScalar(e, 1.0), direction) >= 0.0 {
		feature.Vertex1 = p1
		feature.Vertex2 = p2
		feature.Index1 = 0
		feature.Index2 = 1
	} else {
		feature.Vertex1 = p2
		feature.Vertex2 = p1
		feature.Index1 = 1
		feature.Index2 = 0
	}

	return feature
}
