package impact2d

import (
	"math"
)

/// The separating axis overlap detector. The candidate axes come from the
/// edge normals of both shapes plus the focal axes of their curved parts;
/// the winning axis is the one with the smallest projection overlap.
type Sat struct {
}

func MakeSat() Sat {
	return Sat{}
}

func NewSat() *Sat {
	res := MakeSat()
	return &res
}

/// Collide two circles. The normal points from the first circle toward the
/// second.
func CollideCircles(penetration *Penetration, circle1 *CircleShape, xf1 Transform, circle2 *CircleShape, xf2 Transform) bool {
	ce1 := TransformVec2Mul(xf1, circle1.M_p)
	ce2 := TransformVec2Mul(xf2, circle2.M_p)

	v := Vec2Sub(ce2, ce1)
	radii := circle1.M_radius + circle2.M_radius

	mag := v.LengthSquared()
	if mag >= radii*radii {
		return false
	}

	normal := MakeVec2(1.0, 0.0)
	if mag > Epsilon*Epsilon {
		normal = v
		normal.Normalize()
	}

	penetration.Normal = normal
	penetration.Depth = radii - math.Sqrt(mag)

	return true
}

/// Test the axes for a separating one, tracking the smallest overlap seen so
/// far. Returns false as soon as a separating axis is found.
func satTestAxes(axes []Vec2, shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform, minAxis *Vec2, minOverlap *float64) bool {
	for _, axis := range axes {
		// skip degenerate axes
		if axis.LengthSquared() < Epsilon*Epsilon {
			continue
		}

		intervalA := shape1.Project(axis, xf1)
		intervalB := shape2.Project(axis, xf2)

		if !intervalA.Overlaps(intervalB) {
			return false
		}

		overlap := intervalA.GetOverlap(intervalB)

		if intervalA.ContainsExclusive(intervalB) || intervalB.ContainsExclusive(intervalA) {
			// One projection sits inside the other. The shortest exit adds
			// the distance of the closer pair of endpoints; the axis flips
			// when that exit lies on the min side.
			maxd := math.Abs(intervalA.Max - intervalB.Max)
			mind := math.Abs(intervalA.Min - intervalB.Min)
			if maxd > mind {
				axis = axis.OperatorNegate()
				overlap += mind
			} else {
				overlap += maxd
			}
		}

		if overlap < *minOverlap {
			*minOverlap = overlap
			*minAxis = axis
		}
	}

	return true
}

func (sat Sat) Detect(shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform) bool {
	if shape1.GetType() == Shape_Type.E_circle && shape2.GetType() == Shape_Type.E_circle {
		circle1 := shape1.(*CircleShape)
		circle2 := shape2.(*CircleShape)

		ce1 := TransformVec2Mul(xf1, circle1.M_p)
		ce2 := TransformVec2Mul(xf2, circle2.M_p)
		radii := circle1.M_radius + circle2.M_radius

		return Vec2DistanceSquared(ce1, ce2) < radii*radii
	}

	foci1 := shape1.GetFoci(xf1)
	foci2 := shape2.GetFoci(xf2)

	axes1 := shape1.GetAxes(foci2, xf1)
	axes2 := shape2.GetAxes(foci1, xf2)

	for _, axes := range [2][]Vec2{axes1, axes2} {
		for _, axis := range axes {
			if axis.LengthSquared() < Epsilon*Epsilon {
				continue
			}

			intervalA := shape1.Project(axis, xf1)
			intervalB := shape2.Project(axis, xf2)

			if !intervalA.Overlaps(intervalB) {
				return false
			}
		}
	}

	return true
}

func (sat Sat) DetectPenetration(shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform, penetration *Penetration) bool {
	// circle on circle has a single candidate axis, use the direct test
	if shape1.GetType() == Shape_Type.E_circle && shape2.GetType() == Shape_Type.E_circle {
		circle1 := shape1.(*CircleShape)
		circle2 := shape2.(*CircleShape)
		return CollideCircles(penetration, circle1, xf1, circle2, xf2)
	}

	foci1 := shape1.GetFoci(xf1)
	foci2 := shape2.GetFoci(xf2)

	// each shape contributes axes against the other's focal points
	axes1 := shape1.GetAxes(foci2, xf1)
	axes2 := shape2.GetAxes(foci1, xf2)

	minOverlap := MaxFloat
	minAxis := MakeVec2(0, 0)

	if !satTestAxes(axes1, shape1, xf1, shape2, xf2, &minAxis, &minOverlap) {
		return false
	}
	if !satTestAxes(axes2, shape1, xf1, shape2, xf2, &minAxis, &minOverlap) {
		return false
	}

	// point the normal from the first shape toward the second
	c1 := TransformVec2Mul(xf1, shape1.GetCenter())
	c2 := TransformVec2Mul(xf2, shape2.GetCenter())
	if Vec2Dot(Vec2Sub(c2, c1), minAxis) < 0.0 {
		minAxis = minAxis.OperatorNegate()
	}

	penetration.Normal = minAxis
	penetration.Depth = minOverlap

	return true
}
