package impact2d

import (
	"math"
)

/// Ray-cast input data. The ray extends from p1 to p1 + maxFraction * (p2 - p1).
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

func MakeRayCastInput() RayCastInput {
	return RayCastInput{
		P1:          MakeVec2(0, 0),
		P2:          MakeVec2(0, 0),
		MaxFraction: 0,
	}
}

/// Ray-cast output data. The ray hits at p1 + fraction * (p2 - p1), where p1 and p2
/// come from RayCastInput.
type RayCastOutput struct {
	Normal   Vec2
	Fraction float64
}

func MakeRayCastOutput() RayCastOutput {
	return RayCastOutput{
		Normal:   MakeVec2(0, 0),
		Fraction: 0,
	}
}

/// A ray as a start point plus a unit direction. The broadphase and world
/// raycasts take a ray and a length and convert to segment form internally.
type Ray struct {
	Start     Vec2
	Direction Vec2
}

func MakeRay(start, direction Vec2) Ray {
	assertArg(direction.LengthSquared() > 0.0, "ray direction must not be zero")
	direction.Normalize()
	return Ray{
		Start:     start,
		Direction: direction,
	}
}

/// An axis aligned bounding box. Invariant: lower <= upper on each axis.
type AABB struct {
	LowerBound Vec2 ///< the lower vertex
	UpperBound Vec2 ///< the upper vertex
}

func MakeAABB() AABB {
	return AABB{
		LowerBound: MakeVec2(0, 0),
		UpperBound: MakeVec2(0, 0),
	}
}

func MakeAABBFromBounds(lower, upper Vec2) AABB {
	return AABB{
		LowerBound: lower,
		UpperBound: upper,
	}
}

func NewAABB() *AABB {
	res := MakeAABB()
	return &res
}

/// Get the center of the AABB.
func (bb AABB) GetCenter() Vec2 {
	return Vec2MulScalar(
		0.5,
		Vec2Add(bb.LowerBound, bb.UpperBound),
	)
}

/// Get the extents of the AABB (half-widths).
func (bb AABB) GetExtents() Vec2 {
	return Vec2MulScalar(
		0.5,
		Vec2Sub(bb.UpperBound, bb.LowerBound),
	)
}

/// Get the perimeter length
func (bb AABB) GetPerimeter() float64 {
	wx := bb.UpperBound.X - bb.LowerBound.X
	wy := bb.UpperBound.Y - bb.LowerBound.Y
	return 2.0 * (wx + wy)
}

/// Combine an AABB into this one.
func (bb *AABB) CombineInPlace(aabb AABB) {
	bb.LowerBound = Vec2Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = Vec2Max(bb.UpperBound, aabb.UpperBound)
}

/// Combine two AABBs into this one.
func (bb *AABB) CombineTwoInPlace(aabb1, aabb2 AABB) {
	bb.LowerBound = Vec2Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = Vec2Max(aabb1.UpperBound, aabb2.UpperBound)
}

/// Get the union of this and the provided AABB, leaving this one untouched.
func (bb AABB) Combine(aabb AABB) AABB {
	return AABB{
		LowerBound: Vec2Min(bb.LowerBound, aabb.LowerBound),
		UpperBound: Vec2Max(bb.UpperBound, aabb.UpperBound),
	}
}

/// Get a copy grown by the margin on every side.
func (bb AABB) Extend(margin float64) AABB {
	r := MakeVec2(margin, margin)
	return AABB{
		LowerBound: Vec2Sub(bb.LowerBound, r),
		UpperBound: Vec2Add(bb.UpperBound, r),
	}
}

/// Get a copy shifted by the given translation.
func (bb AABB) Translate(translation Vec2) AABB {
	return AABB{
		LowerBound: Vec2Add(bb.LowerBound, translation),
		UpperBound: Vec2Add(bb.UpperBound, translation),
	}
}

/// Does this aabb contain the provided AABB.
func (bb AABB) Contains(aabb AABB) bool {

	return (bb.LowerBound.X <= aabb.LowerBound.X &&
		bb.LowerBound.Y <= aabb.LowerBound.Y &&
		aabb.UpperBound.X <= bb.UpperBound.X &&
		aabb.UpperBound.Y <= bb.UpperBound.Y)
}

func (bb AABB) IsValid() bool {
	d := Vec2Sub(bb.UpperBound, bb.LowerBound)
	valid := d.X >= 0.0 && d.Y >= 0.0
	valid = valid && bb.LowerBound.IsValid() && bb.UpperBound.IsValid()
	return valid
}

func (bb AABB) Clone() AABB {
	clone := MakeAABB()
	clone.LowerBound = bb.LowerBound.Clone()
	clone.UpperBound = bb.UpperBound.Clone()

	return clone
}

func TestOverlapBoundingBoxes(a, b AABB) bool {

	d1 := Vec2Sub(b.LowerBound, a.UpperBound)
	d2 := Vec2Sub(a.LowerBound, b.UpperBound)

	if d1.X > 0.0 || d1.Y > 0.0 {
		return false
	}

	if d2.X > 0.0 || d2.Y > 0.0 {
		return false
	}

	return true
}

// From Real-time Collision Detection, p179.
func (bb AABB) RayCast(output *RayCastOutput, input RayCastInput) bool {
	tmin := -MaxFloat
	tmax := MaxFloat

	p := input.P1
	d := Vec2Sub(input.P2, input.P1)
	absD := Vec2Abs(d)

	normal := MakeVec2(0, 0)

	for i := 0; i < 2; i++ {
		if absD.OperatorIndexGet(i) < Epsilon {
			// Parallel.
			if p.OperatorIndexGet(i) < bb.LowerBound.OperatorIndexGet(i) || bb.UpperBound.OperatorIndexGet(i) < p.OperatorIndexGet(i) {
				return false
			}
		} else {
			inv_d := 1.0 / d.OperatorIndexGet(i)
			t1 := (bb.LowerBound.OperatorIndexGet(i) - p.OperatorIndexGet(i)) * inv_d
			t2 := (bb.UpperBound.OperatorIndexGet(i) - p.OperatorIndexGet(i)) * inv_d

			// Sign of the normal vector.
			s := -1.0

			if t1 > t2 {
				t1, t2 = t2, t1
				s = 1.0
			}

			// Push the min up
			if t1 > tmin {
				normal.SetZero()
				normal.OperatorIndexSet(i, s)
				tmin = t1
			}

			// Pull the max down
			tmax = math.Min(tmax, t2)

			if tmin > tmax {
				return false
			}
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max fraction?
	if tmin < 0.0 || input.MaxFraction < tmin {
		return false
	}

	// Intersection.
	output.Fraction = tmin
	output.Normal = normal
	return true
}
