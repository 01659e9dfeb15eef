package impact2d

import (
	"math"
)

/// The selection window for the flat side of a capsule: the side is the
/// farthest feature only when the query direction is within roughly 15
/// degrees of perpendicular to the local axis, otherwise a cap point wins.
const capsuleSideFeatureCriteria = 0.25

/// A capsule shape: the segment between two focal points, radially expanded
/// by the cap radius. Built from the dimensions of its bounding box, the
/// longer dimension becoming the segment axis. Centered on the local origin.
type CapsuleShape struct {
	Shape

	/// The full length along the major axis
	M_length float64

	/// The focal points of the two caps
	M_foci [2]Vec2

	/// The unit local axis along the length
	M_xAxis Vec2

	M_center Vec2
}

func MakeCapsuleShape() CapsuleShape {
	return CapsuleShape{
		Shape: Shape{
			M_type:   Shape_Type.E_capsule,
			M_radius: 0.0,
		},
	}
}

func NewCapsuleShape() *CapsuleShape {
	res := MakeCapsuleShape()
	return &res
}

///////////////////////////////////////////////////////////////////////////////

func (capsule *CapsuleShape) Set(width float64, height float64) {
	assertArg(width > 0.0, "capsule width must be positive")
	assertArg(height > 0.0, "capsule height must be positive")

	major := width
	minor := height
	vertical := false
	if width < height {
		major = height
		minor = width
		vertical = true
	}
	assertArg(major > minor, "degenerate capsule, use a circle")

	capsule.M_length = major
	// the cap radius is half the minor dimension
	capsule.M_radius = 0.5 * minor

	// place the cap foci on the major axis
	f := (major - minor) * 0.5
	if vertical {
		capsule.M_foci[0] = MakeVec2(0.0, -f)
		capsule.M_foci[1] = MakeVec2(0.0, f)
		capsule.M_xAxis = MakeVec2(0.0, 1.0)
	} else {
		capsule.M_foci[0] = MakeVec2(-f, 0.0)
		capsule.M_foci[1] = MakeVec2(f, 0.0)
		capsule.M_xAxis = MakeVec2(1.0, 0.0)
	}

	capsule.M_center = MakeVec2(0.0, 0.0)
}

func (capsule CapsuleShape) Clone() ShapeInterface {
	clone := NewCapsuleShape()
	clone.M_radius = capsule.M_radius
	clone.M_length = capsule.M_length
	clone.M_foci = capsule.M_foci
	clone.M_xAxis = capsule.M_xAxis
	clone.M_center = capsule.M_center

	return clone
}

func (capsule CapsuleShape) GetCenter() Vec2 {
	return capsule.M_center
}

func (capsule CapsuleShape) TestPoint(xf Transform, p Vec2) bool {
	f1 := TransformVec2Mul(xf, capsule.M_foci[0])
	f2 := TransformVec2Mul(xf, capsule.M_foci[1])

	// closest point on the focal segment
	line := Vec2Sub(f2, f1)
	t := Vec2Dot(Vec2Sub(p, f1), line) / Vec2Dot(line, line)
	t = FloatClamp(t, 0.0, 1.0)
	closest := Vec2Add(f1, Vec2MulScalar(t, line))

	return Vec2DistanceSquared(closest, p) <= capsule.M_radius*capsule.M_radius
}

/// A capsule is the union of two cap circles and two side segments; cast
/// against each part and keep the nearest hit.
func (capsule CapsuleShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform) bool {
	offset := Vec2MulScalar(capsule.M_radius, Vec2CrossVectorScalar(capsule.M_xAxis, 1.0))

	side1 := MakeSegmentShape()
	side1.Set(Vec2Add(capsule.M_foci[0], offset), Vec2Add(capsule.M_foci[1], offset))
	side2 := MakeSegmentShape()
	side2.Set(Vec2Sub(capsule.M_foci[0], offset), Vec2Sub(capsule.M_foci[1], offset))

	cap1 := MakeCircleShape()
	cap1.M_radius = capsule.M_radius
	cap1.M_p = capsule.M_foci[0]
	cap2 := MakeCircleShape()
	cap2.M_radius = capsule.M_radius
	cap2.M_p = capsule.M_foci[1]

	parts := []ShapeInterface{side1, side2, cap1, cap2}

	hit := false
	sub := input
	for _, part := range parts {
		var out RayCastOutput
		if part.RayCast(&out, sub, xf) {
			*output = out
			sub.MaxFraction = out.Fraction
			hit = true
		}
	}

	return hit
}

func (capsule CapsuleShape) ComputeAABB(aabb *AABB, xf Transform) {
	f1 := TransformVec2Mul(xf, capsule.M_foci[0])
	f2 := TransformVec2Mul(xf, capsule.M_foci[1])

	r := MakeVec2(capsule.M_radius, capsule.M_radius)
	aabb.LowerBound = Vec2Sub(Vec2Min(f1, f2), r)
	aabb.UpperBound = Vec2Add(Vec2Max(f1, f2), r)
}

func (capsule CapsuleShape) ComputeMass(massData *MassData, density float64) {
	// the rectangular middle plus the two half discs
	h := capsule.M_radius * 2.0
	w := capsule.M_length - h
	r2 := capsule.M_radius * capsule.M_radius

	ra := w * h
	ca := r2 * Pi
	rm := density * ra
	cm := density * ca

	massData.Mass = rm + cm
	massData.Center = capsule.M_center

	// the discs sit at the foci, so move their inertia out by the focal
	// distance
	d := w * 0.5
	cI := 0.5*cm*r2 + cm*d*d
	rI := rm * (h*h + w*w) / 12.0

	// inertia about the local origin, which is the centroid
	massData.I = rI + cI
}

func (capsule CapsuleShape) ComputeRadius(center Vec2) float64 {
	r2 := math.Max(Vec2DistanceSquared(center, capsule.M_foci[0]), Vec2DistanceSquared(center, capsule.M_foci[1]))
	return math.Sqrt(r2) + capsule.M_radius
}

func (capsule CapsuleShape) Project(axis Vec2, xf Transform) Interval {
	d := Vec2Dot(capsule.GetFarthestPoint(axis, xf), axis)
	c := Vec2Dot(TransformVec2Mul(xf, capsule.M_center), axis)

	// the projection is symmetric about the center
	return MakeInterval(2.0*c-d, d)
}

/// The candidate axes of a capsule are its local axis, the side normal, plus
/// the axis from each focal point of the other shape to the closest focus.
func (capsule CapsuleShape) GetAxes(foci []Vec2, xf Transform) []Vec2 {
	axes := make([]Vec2, 0, 2+len(foci))

	axes = append(axes, RotVec2Mul(xf.Q, capsule.M_xAxis))
	axes = append(axes, RotVec2Mul(xf.Q, Vec2CrossVectorScalar(capsule.M_xAxis, 1.0)))

	f1 := TransformVec2Mul(xf, capsule.M_foci[0])
	f2 := TransformVec2Mul(xf, capsule.M_foci[1])

	for _, f := range foci {
		var axis Vec2
		if Vec2DistanceSquared(f1, f) < Vec2DistanceSquared(f2, f) {
			axis = Vec2Sub(f, f1)
		} else {
			axis = Vec2Sub(f, f2)
		}
		axis.Normalize()
		axes = append(axes, axis)
	}

	return axes
}

func (capsule CapsuleShape) GetFoci(xf Transform) []Vec2 {
	return []Vec2{
		TransformVec2Mul(xf, capsule.M_foci[0]),
		TransformVec2Mul(xf, capsule.M_foci[1]),
	}
}

func (capsule CapsuleShape) GetFarthestPoint(direction Vec2, xf Transform) Vec2 {
	n := direction
	n.Normalize()

	f1 := TransformVec2Mul(xf, capsule.M_foci[0])
	f2 := TransformVec2Mul(xf, capsule.M_foci[1])

	p := f1
	if Vec2Dot(n, f2) > Vec2Dot(n, f1) {
		p = f2
	}

	return Vec2Add(p, Vec2MulScalar(capsule.M_radius, n))
}

func (capsule CapsuleShape) GetFarthestFeature(direction Vec2, xf Transform) ShapeFeature {
	localn := RotVec2MulT(xf.Q, direction)
	localn.Normalize()

	if math.Abs(Vec2Dot(localn, capsule.M_xAxis)) < capsuleSideFeatureCriteria {
		// the flat side facing the direction
		n1 := Vec2CrossVectorScalar(capsule.M_xAxis, 1.0)
		if Vec2Dot(localn, n1) < 0.0 {
			n1 = n1.OperatorNegate()
		}

		offset := Vec2MulScalar(capsule.M_radius, n1)
		v1 := TransformVec2Mul(xf, Vec2Add(capsule.M_foci[0], offset))
		v2 := TransformVec2Mul(xf, Vec2Add(capsule.M_foci[1], offset))

		return SegmentFarthestFeature(v1, v2, direction)
	}

	// the nearer cap contributes a single point
	return ShapeFeature{
		Type:        ShapeFeature_Type.E_vertex,
		Vertex:      capsule.GetFarthestPoint(direction, xf),
		VertexIndex: 0,
	}
}
