package impact2d

/// The result of an overlap test: the normal points from the first shape
/// toward the second and the depth is the overlap along that normal.
type Penetration struct {
	Normal Vec2
	Depth  float64
}

func MakePenetration() Penetration {
	return Penetration{
		Normal: MakeVec2(0, 0),
		Depth:  0.0,
	}
}

/// The result of a distance test on two separated shapes: the closest points
/// on each shape, the normal from the first toward the second and the gap
/// between them.
type Separation struct {
	Distance float64
	Normal   Vec2
	Point1   Vec2
	Point2   Vec2
}

func MakeSeparation() Separation {
	return Separation{
		Distance: 0.0,
		Normal:   MakeVec2(0, 0),
		Point1:   MakeVec2(0, 0),
		Point2:   MakeVec2(0, 0),
	}
}

/// The result of a time of impact test: the fraction of the motion at which
/// the shapes first come within tolerance of touching, and their separation
/// at that time.
type TimeOfImpact struct {
	T          float64
	Separation Separation
}

func MakeTimeOfImpact() TimeOfImpact {
	return TimeOfImpact{
		T:          0.0,
		Separation: MakeSeparation(),
	}
}

/// A pairwise overlap test between convex shapes.
type NarrowphaseDetectorInterface interface {
	/// Fast boolean overlap test.
	Detect(shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform) bool

	/// Overlap test filling the penetration normal and depth. Returns false
	/// when the shapes do not overlap, leaving the penetration untouched.
	DetectPenetration(shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform, penetration *Penetration) bool
}

/// A pairwise closest-distance test between convex shapes.
type DistanceDetectorInterface interface {
	/// Distance test filling the separation. Returns false when the shapes
	/// overlap, leaving the separation untouched.
	Distance(shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform, separation *Separation) bool
}

/// Builds a contact manifold from a penetration.
type ManifoldSolverInterface interface {
	/// Returns false when no manifold could be built for the penetration,
	/// which callers treat as no contact rather than an error.
	GetManifold(penetration Penetration, shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform, manifold *Manifold) bool
}

/// Computes the time of first impact of two moving shapes.
type TimeOfImpactDetectorInterface interface {
	/// Returns false when the shapes do not come within tolerance of each
	/// other over the motion.
	GetTimeOfImpact(shape1 ShapeInterface, sweep1 Sweep, shape2 ShapeInterface, sweep2 Sweep, toi *TimeOfImpact) bool
}
