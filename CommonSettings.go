package impact2d

import "math"

const DEBUG = false

func Assert(a bool) {
	if !a {
		panic("impact2d: assert")
	}
}

/// Contract violations (nil shapes, nil fixtures, and friends) fail loudly at
/// the call boundary. Geometric "no collision" outcomes are ordinary boolean
/// results and never come through here.
func assertArg(ok bool, msg string) {
	if !ok {
		panic("impact2d: invalid argument: " + msg)
	}
}

const MaxFloat = math.MaxFloat64
const Pi = math.Pi

/// The single "is this essentially zero" constant shared by every numeric
/// guard in the pipeline. This is the double precision machine epsilon, the
/// smallest e with 1 + e != 1.
var Epsilon = math.Nextafter(1.0, 2.0) - 1.0

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.
///

// Collision

/// The maximum number of contact points between two convex shapes. Do
/// not change this value.
const MaxManifoldPoints = 2

/// The maximum number of vertices on a convex polygon.
const MaxPolygonVertices = 8

/// This is used to fatten AABBs in the dynamic tree. This allows proxies
/// to move by a small amount without triggering a tree adjustment.
/// This is in meters.
const AabbExtension = 0.2

/// This is used to fatten AABBs in the dynamic tree. This is used to predict
/// the future position based on the current displacement.
/// This is a dimensionless multiplier.
const AabbMultiplier = 2.0

/// A small length used as a collision and constraint tolerance. Usually it is
/// chosen to be numerically significant, but visually insignificant.
const LinearSlop = 0.005

/// A small angle used as a collision and constraint tolerance. Usually it is
/// chosen to be numerically significant, but visually insignificant.
const AngularSlop = (2.0 / 180.0 * Pi)

/// The maximum number of simplex refinement iterations for a distance query.
const GjkMaxIterations = 20

/// The maximum number of advancement iterations for a time of impact query.
const CcdMaxIterations = 30

// Dynamics

/// A velocity threshold for elastic collisions. Any collision with a relative linear
/// velocity below this threshold will be treated as inelastic.
const VelocityThreshold = 1.0

/// The maximum linear position correction used when solving constraints. This helps to
/// prevent overshoot.
const MaxLinearCorrection = 0.2

/// The maximum linear velocity of a body. This limit is very large and is used
/// to prevent numerical problems. You shouldn't need to adjust this.
const MaxTranslation = 2.0
const MaxTranslationSquared = (MaxTranslation * MaxTranslation)

/// The maximum angular velocity of a body. This limit is very large and is used
/// to prevent numerical problems. You shouldn't need to adjust this.
const MaxRotation = (0.5 * Pi)
const MaxRotationSquared = (MaxRotation * MaxRotation)

/// This scale factor controls how fast overlap is resolved. Ideally this would be 1 so
/// that overlap is removed in one time step. However using values close to 1 often lead
/// to overshoot.
const Baumgarte = 0.2

/// Accumulated impulses from the previous step are reused when a new contact
/// point has no feature id to match on; two distance-id points correlate when
/// they lie within this world distance of each other.
const WarmStartDistance = 1.0e-2

/// Default iteration counts for the sequential impulse solver.
const VelocityIterations = 8
const PositionIterations = 3

// Sleep

/// The time that a body must be still before it will go to sleep.
const TimeToSleep = 0.5

/// A body cannot sleep if its linear velocity is above this tolerance.
const LinearSleepTolerance = 0.01

/// A body cannot sleep if its angular velocity is above this tolerance.
const AngularSleepTolerance = (2.0 / 180.0 * Pi)

///////////////////////////////////////////////////////////////////////////////
/// The numeric knobs consumed read-only by the pipeline each step. A zero
/// value is not usable; construct with MakeSettings and adjust from there.
///////////////////////////////////////////////////////////////////////////////
type Settings struct {
	/// Margin added around a fixture's true AABB when stored in the
	/// broadphase tree.
	AabbMargin float64

	/// Linear and angular collision/constraint tolerances.
	LinearTolerance  float64
	AngularTolerance float64

	/// The largest positional correction applied in a single solver pass.
	MaxLinearCorrection float64

	/// Relative approach speed below which restitution is ignored.
	RestitutionVelocity float64

	/// Fraction of residual penetration corrected per position iteration.
	Baumgarte float64

	/// Solver iteration counts.
	VelocityIterations int
	PositionIterations int

	/// Maximum world distance between two distance-id contact points that
	/// still correlate for warm starting.
	WarmStartDistance float64

	/// Iteration bounds for the distance and time of impact queries.
	GjkMaxIterations int
	CcdMaxIterations int
}

func MakeSettings() Settings {
	return Settings{
		AabbMargin:          AabbExtension,
		LinearTolerance:     LinearSlop,
		AngularTolerance:    AngularSlop,
		MaxLinearCorrection: MaxLinearCorrection,
		RestitutionVelocity: VelocityThreshold,
		Baumgarte:           Baumgarte,
		VelocityIterations:  VelocityIterations,
		PositionIterations:  PositionIterations,
		WarmStartDistance:   WarmStartDistance,
		GjkMaxIterations:    GjkMaxIterations,
		CcdMaxIterations:    CcdMaxIterations,
	}
}
