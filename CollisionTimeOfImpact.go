package impact2d

import (
	"math"
)

var toiCalls, toiIters, toiMaxItersSeen int

/// Computes the time of first impact of two moving shapes by conservative
/// advancement. Between distance queries the shapes can close no faster than
/// the relative linear motion projected on the separation normal plus the
/// angular sweep of each shape's rotation disc, so the time parameter can
/// safely advance by distance over that rate without tunneling past the
/// first touch.
type ConservativeAdvancement struct {
	M_distanceDetector DistanceDetectorInterface

	/// Shapes closer than this are considered touching.
	M_distanceEpsilon float64

	M_maxIterations int
}

func MakeConservativeAdvancement() ConservativeAdvancement {
	return ConservativeAdvancement{
		M_distanceDetector: MakeGjk(),
		M_distanceEpsilon:  LinearSlop,
		M_maxIterations:    CcdMaxIterations,
	}
}

func NewConservativeAdvancement() *ConservativeAdvancement {
	res := MakeConservativeAdvancement()
	return &res
}

/// Find the first time in [0,1] at which the two swept shapes come within
/// the distance tolerance of each other. Returns false when the shapes
/// never touch inside the interval, when they already overlap at its start,
/// when no net approach remains, or when the iteration budget runs out.
/// None of those outcomes is an error.
func (ca ConservativeAdvancement) GetTimeOfImpact(shape1 ShapeInterface, sweep1 Sweep, shape2 ShapeInterface, sweep2 Sweep, toi *TimeOfImpact) bool {
	assertArg(shape1 != nil, "shape1 must not be nil")
	assertArg(shape2 != nil, "shape2 must not be nil")

	toiCalls++

	// Large rotations make the angular bound useless, so normalize the
	// sweep angles first.
	sweep1.Normalize()
	sweep2.Normalize()

	// Displacements over the whole interval. These do not change while the
	// time parameter advances.
	dp1 := Vec2Sub(sweep1.C, sweep1.C0)
	dp2 := Vec2Sub(sweep2.C, sweep2.C0)
	da1 := sweep1.A - sweep1.A0
	da2 := sweep2.A - sweep2.A0

	// Motion of shape1 relative to shape2.
	relLinear := Vec2Sub(dp1, dp2)

	// The rotation discs bound how much extra approach each shape's spin
	// can contribute.
	rmax1 := shape1.ComputeRadius(sweep1.LocalCenter)
	rmax2 := shape2.ComputeRadius(sweep2.LocalCenter)
	amax := rmax1*math.Abs(da1) + rmax2*math.Abs(da2)

	if relLinear.Length()+amax == 0.0 {
		// No relative motion at all.
		return false
	}

	t := 0.0

	xf1 := MakeTransform()
	xf2 := MakeTransform()
	sweep1.GetTransform(&xf1, t)
	sweep2.GetTransform(&xf2, t)

	separation := MakeSeparation()
	separated := ca.M_distanceDetector.Distance(shape1, xf1, shape2, xf2, &separation)

	if !separated {
		// Overlapping at the start of the interval. Continuous detection
		// has nothing to add; the discrete pipeline owns this case.
		return false
	}

	d := separation.Distance
	if d < ca.M_distanceEpsilon {
		// Touching at t = 0.
		toi.T = 0.0
		toi.Separation = separation
		return true
	}

	n := separation.Normal

	iterations := 0
	for d > ca.M_distanceEpsilon {
		if iterations == ca.M_maxIterations {
			// Could not converge inside the budget. Report no impact
			// rather than an error.
			toiMaxItersSeen = MaxInt(toiMaxItersSeen, iterations)
			return false
		}

		// The fastest the shapes can close along the current normal.
		rate := Vec2Dot(relLinear, n) + amax
		if rate <= Epsilon {
			// No net approach remains.
			return false
		}

		t += d / rate
		if t < 0.0 || t > 1.0 {
			// First touch lies outside the interval.
			return false
		}

		iterations++
		toiIters++

		sweep1.GetTransform(&xf1, t)
		sweep2.GetTransform(&xf2, t)

		separated = ca.M_distanceDetector.Distance(shape1, xf1, shape2, xf2, &separation)

		if !separated {
			// The advance overshot into penetration, which the bound does
			// not prevent under numeric error. Back the time off a little
			// and retry once.
			t -= (0.5 * ca.M_distanceEpsilon) / rate

			sweep1.GetTransform(&xf1, t)
			sweep2.GetTransform(&xf2, t)

			separated = ca.M_distanceDetector.Distance(shape1, xf1, shape2, xf2, &separation)
			if !separated {
				return false
			}
		}

		d = separation.Distance
		n = separation.Normal
	}

	toiMaxItersSeen = MaxInt(toiMaxItersSeen, iterations)

	toi.T = t
	toi.Separation = separation

	return true
}
