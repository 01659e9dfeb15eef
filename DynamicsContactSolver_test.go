package impact2d_test

import (
	"math"
	"testing"

	"github.com/impact2d/impact2d"
)

func makeGroundedBoxWorld(hx float64) (*impact2d.World, *impact2d.Body) {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))

	groundDef := impact2d.MakeBodyDef()
	groundDef.Position = impact2d.MakeVec2(0, -0.5)
	ground := world.CreateBody(&groundDef)
	groundShape := impact2d.MakePolygonShape()
	groundShape.SetAsBox(hx, 0.5)
	ground.CreateFixture(&groundShape, 0.0)

	boxDef := impact2d.MakeBodyDef()
	boxDef.Type = impact2d.BodyType.DynamicBody
	boxDef.Position = impact2d.MakeVec2(0, 0.495)
	box := world.CreateBody(&boxDef)
	boxShape := impact2d.MakePolygonShape()
	boxShape.SetAsBox(0.5, 0.5)
	box.CreateFixture(&boxShape, 1.0)

	return world, box
}

// Solving a contact twice from the same initial velocities, once cold and
// once warm started from the impulses the first run stored, must land on
// the same final velocities. Warm starting only changes how fast the
// solver gets there.
func TestContactSolverWarmStartIdempotence(t *testing.T) {
	world, _ := makeGroundedBoxWorld(5)

	// One step builds the touching contact and its stored manifold.
	world.Step(1.0/60.0, 8, 3)

	contact := world.GetContactList()
	if contact == nil || !contact.IsTouching() {
		t.Fatalf("no touching contact after a step")
	}
	if contact.GetContactCount() != 2 {
		t.Fatalf("contact has %d points, want 2", contact.GetContactCount())
	}

	bodyA := contact.GetBodyA()
	bodyB := contact.GetBodyB()
	bodyA.M_islandIndex = 0
	bodyB.M_islandIndex = 1

	step := impact2d.TimeStep{
		Dt:                 1.0 / 60.0,
		Inv_dt:             60.0,
		DtRatio:            1.0,
		VelocityIterations: 8,
		PositionIterations: 3,
		WarmStarting:       true,
	}

	// The dynamic body drives into the contact; the static one has no mass
	// and keeps its zero velocity.
	base := []impact2d.Velocity{
		{V: impact2d.MakeVec2(0, 0), W: 0},
		{V: impact2d.MakeVec2(0, 0), W: 0},
	}
	if bodyA.GetType() == impact2d.BodyType.DynamicBody {
		base[0].V = impact2d.MakeVec2(0, -2)
	} else {
		base[1].V = impact2d.MakeVec2(0, -2)
	}

	basePositions := []impact2d.Position{
		{C: bodyA.M_sweep.C, A: bodyA.M_sweep.A},
		{C: bodyB.M_sweep.C, A: bodyB.M_sweep.A},
	}

	solve := func() []impact2d.Velocity {
		velocities := make([]impact2d.Velocity, len(base))
		copy(velocities, base)
		positions := make([]impact2d.Position, len(basePositions))
		copy(positions, basePositions)

		def := impact2d.MakeContactSolverDef()
		def.Step = step
		def.Contacts = []*impact2d.ContactConstraint{contact}
		def.Count = 1
		def.Positions = positions
		def.Velocities = velocities

		solver := impact2d.MakeContactSolver(&def)
		solver.InitializeVelocityConstraints()
		solver.WarmStart()
		for i := 0; i < step.VelocityIterations; i++ {
			solver.SolveVelocityConstraints()
		}
		solver.StoreImpulses()

		return velocities
	}

	for j := 0; j < contact.GetContactCount(); j++ {
		ct := contact.GetContact(j)
		ct.M_normalImpulse = 0.0
		ct.M_tangentImpulse = 0.0
	}
	cold := solve()

	// The cold run stored its converged impulses, so this run warm starts.
	warm := solve()

	for i := range cold {
		if math.Abs(cold[i].V.X-warm[i].V.X) > 1e-9 ||
			math.Abs(cold[i].V.Y-warm[i].V.Y) > 1e-9 ||
			math.Abs(cold[i].W-warm[i].W) > 1e-9 {
			t.Fatalf("warm started solve diverged from cold solve: %v %g vs %v %g",
				cold[i].V, cold[i].W, warm[i].V, warm[i].W)
		}
	}

	total := 0.0
	for j := 0; j < contact.GetContactCount(); j++ {
		if contact.GetContact(j).M_normalImpulse < 0 {
			t.Fatalf("negative accumulated normal impulse")
		}
		total += contact.GetContact(j).M_normalImpulse
	}
	if total <= 0 {
		t.Fatalf("no accumulated normal impulse after solving")
	}
}

// A resting box is held up by exactly the impulse gravity adds each step,
// and the contact keeps that impulse around between steps.
func TestContactImpulsesCarryAcrossSteps(t *testing.T) {
	world, _ := makeGroundedBoxWorld(5)

	for i := 0; i < 3; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	contact := world.GetContactList()
	if contact == nil || !contact.IsTouching() {
		t.Fatalf("no touching contact after settling")
	}

	total := 0.0
	for j := 0; j < contact.GetContactCount(); j++ {
		ct := contact.GetContact(j)
		if ct.M_normalImpulse < 0 {
			t.Fatalf("negative normal impulse on point %d", j)
		}
		if math.Abs(ct.M_tangentImpulse) > 1e-6 {
			t.Errorf("tangent impulse %g on a contact with no sliding", ct.M_tangentImpulse)
		}
		total += ct.M_normalImpulse
	}

	// mass * gravity * dt, the impulse that cancels one step of free fall.
	want := 1.0 * 10.0 * (1.0 / 60.0)
	if total < 0.8*want || total > 1.2*want {
		t.Fatalf("accumulated normal impulse %g, want about %g", total, want)
	}
}

func slideBox(t *testing.T, friction float64) float64 {
	t.Helper()

	world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))

	groundDef := impact2d.MakeBodyDef()
	groundDef.Position = impact2d.MakeVec2(0, -0.5)
	ground := world.CreateBody(&groundDef)
	groundShape := impact2d.MakePolygonShape()
	groundShape.SetAsBox(50, 0.5)
	groundFd := impact2d.MakeFixtureDef()
	groundFd.Shape = &groundShape
	groundFd.Friction = friction
	ground.CreateFixtureFromDef(&groundFd)

	boxDef := impact2d.MakeBodyDef()
	boxDef.Type = impact2d.BodyType.DynamicBody
	boxDef.Position = impact2d.MakeVec2(0, 0.495)
	boxDef.LinearVelocity = impact2d.MakeVec2(2, 0)
	boxDef.AllowSleep = false
	box := world.CreateBody(&boxDef)
	boxShape := impact2d.MakePolygonShape()
	boxShape.SetAsBox(0.5, 0.5)
	boxFd := impact2d.MakeFixtureDef()
	boxFd.Shape = &boxShape
	boxFd.Density = 1.0
	boxFd.Friction = friction
	box.CreateFixtureFromDef(&boxFd)

	for i := 0; i < 30; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	return box.GetLinearVelocity().X
}

// The friction cone caps the tangent impulse at friction times the normal
// impulse, which for a sliding box comes out as a deceleration of friction
// times gravity.
func TestFrictionConeGovernsSliding(t *testing.T) {
	vx := slideBox(t, 0.1)
	checkFloat(t, "low friction speed after half a second", vx, 1.5, 0.05)

	vx = slideBox(t, 1.0)
	if math.Abs(vx) > 0.01 {
		t.Errorf("high friction box still sliding at %g", vx)
	}

	vx = slideBox(t, 0.0)
	if math.Abs(vx-2.0) > 1e-6 {
		t.Errorf("frictionless box changed speed to %g", vx)
	}
}

func dropBall(t *testing.T, restitution float64, speed float64) (maxUpward float64, restY float64) {
	t.Helper()

	world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))

	groundDef := impact2d.MakeBodyDef()
	groundDef.Position = impact2d.MakeVec2(0, -0.5)
	ground := world.CreateBody(&groundDef)
	groundShape := impact2d.MakePolygonShape()
	groundShape.SetAsBox(5, 0.5)
	ground.CreateFixture(&groundShape, 0.0)

	ballDef := impact2d.MakeBodyDef()
	ballDef.Type = impact2d.BodyType.DynamicBody
	ballDef.Position = impact2d.MakeVec2(0, 0.52)
	ballDef.LinearVelocity = impact2d.MakeVec2(0, -speed)
	ballDef.AllowSleep = false
	ball := world.CreateBody(&ballDef)
	ballShape := impact2d.MakeCircleShape()
	ballShape.M_radius = 0.5
	ballFd := impact2d.MakeFixtureDef()
	ballFd.Shape = &ballShape
	ballFd.Density = 1.0
	ballFd.Restitution = restitution
	ball.CreateFixtureFromDef(&ballFd)

	maxUpward = 0.0
	for i := 0; i < 60; i++ {
		world.Step(1.0/60.0, 8, 3)
		maxUpward = math.Max(maxUpward, ball.GetLinearVelocity().Y)
	}

	return maxUpward, ball.GetPosition().Y
}

// Impacts slower than the restitution velocity threshold are absorbed no
// matter the coefficient; fast impacts restore most of the approach speed.
func TestRestitutionThreshold(t *testing.T) {
	up, y := dropBall(t, 1.0, 0.2)
	if up > 0.1 {
		t.Errorf("slow impact bounced with upward speed %g", up)
	}
	if math.Abs(y-0.5) > 0.02 {
		t.Errorf("ball rests at %g, want about 0.5", y)
	}

	up, _ = dropBall(t, 0.8, 5.0)
	if up < 3.0 {
		t.Errorf("fast impact bounced with upward speed %g, want above 3", up)
	}
}
