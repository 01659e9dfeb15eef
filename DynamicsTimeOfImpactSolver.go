package impact2d

/// A single-constraint position solver used after continuous collision
/// detection. Once the bodies have been advanced to the time of impact they
/// sit within the distance epsilon of each other; this nudges them to the
/// linear tolerance along the separation normal so the next discrete step
/// starts from a resolvable state. The correction distributes by inverse
/// mass, so a static wall never moves.
type TimeOfImpactSolver struct {
}

func MakeTimeOfImpactSolver() TimeOfImpactSolver {
	return TimeOfImpactSolver{}
}

func NewTimeOfImpactSolver() *TimeOfImpactSolver {
	res := MakeTimeOfImpactSolver()
	return &res
}

/// Push body1 and body2 apart along the stored separation normal. Both
/// bodies must already be advanced to the time of impact so the separation
/// points still lie on their surfaces. The correction is clamped to the
/// maximum linear correction of the settings.
func (solver TimeOfImpactSolver) Solve(body1 *Body, body2 *Body, toi TimeOfImpact, settings Settings) {

	assertArg(body1 != nil && body2 != nil, "time of impact solver needs two bodies")

	linearTolerance := settings.LinearTolerance
	maxCorrection := settings.MaxLinearCorrection

	separation := toi.Separation
	n := separation.Normal
	d := separation.Distance

	c1 := body1.GetWorldCenter()
	c2 := body2.GetWorldCenter()

	r1 := Vec2Sub(separation.Point1, c1)
	r2 := Vec2Sub(separation.Point2, c2)

	C := FloatClamp(d-linearTolerance, -maxCorrection, 0.0)

	rn1 := Vec2Cross(r1, n)
	rn2 := Vec2Cross(r2, n)

	K := body1.M_invMass + body2.M_invMass + body1.M_invI*rn1*rn1 + body2.M_invI*rn2*rn2

	impulse := 0.0
	if K > 0.0 {
		impulse = -C / K
	}

	P := Vec2MulScalar(impulse, n)

	body1.M_sweep.C.OperatorMinusInplace(Vec2MulScalar(body1.M_invMass, P))
	body1.M_sweep.A -= body1.M_invI * Vec2Cross(r1, P)

	body2.M_sweep.C.OperatorPlusInplace(Vec2MulScalar(body2.M_invMass, P))
	body2.M_sweep.A += body2.M_invI * Vec2Cross(r2, P)

	body1.SynchronizeTransform()
	body2.SynchronizeTransform()
}
