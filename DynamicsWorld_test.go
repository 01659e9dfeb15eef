package impact2d_test

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/impact2d/impact2d"
	"github.com/pmezard/go-difflib/difflib"
)

func addDynamicBox(world *impact2d.World, x, y, half float64) *impact2d.Body {
	bd := impact2d.MakeBodyDef()
	bd.Type = impact2d.BodyType.DynamicBody
	bd.Position = impact2d.MakeVec2(x, y)
	body := world.CreateBody(&bd)

	shape := impact2d.MakePolygonShape()
	shape.SetAsBox(half, half)
	body.CreateFixture(&shape, 1.0)
	return body
}

// Counts every contact callback the world emits. With accept false the
// recorder vetoes resolution from Begin and Persist, which keeps the pair
// detectable but never solid.
type contactRecorder struct {
	impact2d.DefaultContactListener
	accept bool

	begins     int
	persists   int
	ends       int
	sensed     int
	preSolves  int
	postSolves int
}

func (r *contactRecorder) Sensed(point impact2d.ContactPoint) {
	r.sensed++
}

func (r *contactRecorder) Begin(point impact2d.ContactPoint) bool {
	r.begins++
	return r.accept
}

func (r *contactRecorder) Persist(point impact2d.ContactPoint, old impact2d.ContactPoint) bool {
	r.persists++
	return r.accept
}

func (r *contactRecorder) End(point impact2d.ContactPoint) bool {
	r.ends++
	return true
}

func (r *contactRecorder) PreSolve(constraint *impact2d.ContactConstraint, oldManifold impact2d.Manifold) {
	r.preSolves++
}

func (r *contactRecorder) PostSolve(constraint *impact2d.ContactConstraint, impulse *impact2d.ContactImpulse) {
	r.postSolves++
}

func TestWorldBodyLifecycle(t *testing.T) {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))

	if n := world.GetBodyCount(); n != 0 {
		t.Fatalf("new world reports %d bodies", n)
	}

	ground := addStaticBox(world, 0, -0.5, 10, 0.5, "ground").GetBody()
	first := addDynamicBox(world, -2, 1, 0.5)
	second := addDynamicBox(world, 2, 1, 0.5)

	if n := world.GetBodyCount(); n != 3 {
		t.Fatalf("after three creates GetBodyCount() = %d", n)
	}
	if n := world.GetProxyCount(); n != 3 {
		t.Fatalf("three single-fixture bodies hold %d proxies", n)
	}

	world.DestroyBody(first)

	if n := world.GetBodyCount(); n != 2 {
		t.Fatalf("after destroy GetBodyCount() = %d", n)
	}
	if n := world.GetProxyCount(); n != 2 {
		t.Fatalf("destroyed body left its proxy behind, count = %d", n)
	}

	// The list keeps the survivors, most recently created first.
	var got []*impact2d.Body
	for b := world.GetBodyList(); b != nil; b = b.GetNext() {
		got = append(got, b)
	}
	if len(got) != 2 || got[0] != second || got[1] != ground {
		t.Fatalf("unexpected body list after destroy: %d entries", len(got))
	}
}

// A box resting on the ground begins two contact points on the first step,
// persists them while nothing moves, and ends them when the pair stops
// overlapping in the broad phase.
func TestWorldContactLifecycleCallbacks(t *testing.T) {
	world, box := makeGroundedBoxWorld(10)
	rec := contactRecorder{accept: true}
	world.SetContactListener(&rec)

	world.Step(1.0/60.0, 8, 3)

	if rec.begins != 2 {
		t.Fatalf("first step began %d points, want 2", rec.begins)
	}
	if rec.ends != 0 || rec.sensed != 0 {
		t.Fatalf("first step also reported ends=%d sensed=%d", rec.ends, rec.sensed)
	}
	contact := world.GetContactList()
	if contact == nil || !contact.IsTouching() {
		t.Fatal("box on ground is not touching after the first step")
	}

	for i := 0; i < 9; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if rec.begins != 2 {
		t.Errorf("resting box re-began points, begins = %d", rec.begins)
	}
	if rec.persists < 16 {
		t.Errorf("nine resting steps persisted %d points, want >= 16", rec.persists)
	}
	if rec.preSolves == 0 || rec.postSolves == 0 {
		t.Errorf("solver callbacks never fired: pre=%d post=%d", rec.preSolves, rec.postSolves)
	}

	// Teleporting the box away destroys the pair and closes out its points.
	box.SetTransform(impact2d.MakeVec2(50, 20), 0)
	world.Step(1.0/60.0, 8, 3)

	if rec.ends != 2 {
		t.Errorf("separation ended %d points, want 2", rec.ends)
	}
	if n := world.GetContactCount(); n != 0 {
		t.Errorf("world still holds %d contacts after separation", n)
	}
}

// Returning false from Begin or Persist disables resolution for that step,
// so a listener that always vetoes lets a ball fall straight through the
// ground. The veto does not survive the step: without it the same scene
// comes to rest.
func TestWorldContactVetoDisablesResolution(t *testing.T) {
	drop := func(listener impact2d.ContactListenerInterface) float64 {
		world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))
		addStaticBox(world, 0, -0.5, 10, 0.5, "ground")

		ballDef := impact2d.MakeBodyDef()
		ballDef.Type = impact2d.BodyType.DynamicBody
		ballDef.Position = impact2d.MakeVec2(0, 1)
		ball := world.CreateBody(&ballDef)
		ballShape := impact2d.MakeCircleShape()
		ballShape.M_radius = 0.5
		ball.CreateFixture(&ballShape, 1.0)

		if listener != nil {
			world.SetContactListener(listener)
		}

		for i := 0; i < 90; i++ {
			world.Step(1.0/60.0, 8, 3)
		}
		return ball.GetPosition().Y
	}

	rec := contactRecorder{accept: false}
	vetoed := drop(&rec)
	resting := drop(nil)

	if rec.begins == 0 {
		t.Fatal("veto listener never saw a contact begin")
	}
	if vetoed > -2 {
		t.Errorf("vetoed ball stopped at y=%.3f, want it to fall through", vetoed)
	}
	if math.Abs(resting-0.5) > 0.05 {
		t.Errorf("ball without a veto rests at y=%.3f, want about 0.5", resting)
	}
}

// Sensor pairs run the full narrow phase and report through Sensed, but
// they build no resolvable points and never reach the solver callbacks.
func TestWorldSensorReportsWithoutResolving(t *testing.T) {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))

	plateDef := impact2d.MakeBodyDef()
	plate := world.CreateBody(&plateDef)
	plateShape := impact2d.MakePolygonShape()
	plateShape.SetAsBox(2, 0.2)
	plateFd := impact2d.MakeFixtureDef()
	plateFd.Shape = &plateShape
	plateFd.IsSensor = true
	plate.CreateFixtureFromDef(&plateFd)

	ballDef := impact2d.MakeBodyDef()
	ballDef.Type = impact2d.BodyType.DynamicBody
	ballDef.Position = impact2d.MakeVec2(0, 2)
	ball := world.CreateBody(&ballDef)
	ballShape := impact2d.MakeCircleShape()
	ballShape.M_radius = 0.5
	ball.CreateFixture(&ballShape, 1.0)

	rec := contactRecorder{accept: true}
	world.SetContactListener(&rec)

	sawTouching := false
	maxResolved := 0
	for i := 0; i < 90; i++ {
		world.Step(1.0/60.0, 8, 3)

		for c := world.GetContactList(); c != nil; c = c.GetNext() {
			if !c.IsTouching() {
				continue
			}
			sawTouching = true
			if !c.IsSensing() {
				t.Fatal("plate pair is not flagged as sensing")
			}
			if c.GetContactCount() > maxResolved {
				maxResolved = c.GetContactCount()
			}
		}
	}

	if rec.sensed == 0 {
		t.Error("sensor overlap never reported through Sensed")
	}
	if rec.begins != 0 || rec.persists != 0 || rec.ends != 0 {
		t.Errorf("sensing pair leaked into the solid life cycle: begins=%d persists=%d ends=%d",
			rec.begins, rec.persists, rec.ends)
	}
	if !sawTouching {
		t.Error("sensing contact never reported touching")
	}
	if maxResolved != 0 {
		t.Errorf("sensing contact built %d resolvable points", maxResolved)
	}
	if rec.preSolves != 0 || rec.postSolves != 0 {
		t.Errorf("sensing pair reached the solver callbacks: pre=%d post=%d", rec.preSolves, rec.postSolves)
	}
	if y := ball.GetPosition().Y; y > -2 {
		t.Errorf("ball stopped at y=%.3f, want it to fall through the sensor", y)
	}
}

// Bodies joined only through a static body land in separate islands. The
// stack shares one id, the loner on the same ground gets another.
func TestWorldIslandsIsolateContactClusters(t *testing.T) {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))
	addStaticBox(world, 0, -0.5, 20, 0.5, "ground")

	stackLower := addDynamicBox(world, -5, 0.495, 0.5)
	stackUpper := addDynamicBox(world, -5, 1.49, 0.5)
	loner := addDynamicBox(world, 5, 0.495, 0.5)

	for i := 0; i < 3; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	lowerId := stackLower.GetIslandId()
	upperId := stackUpper.GetIslandId()
	lonerId := loner.GetIslandId()

	if lowerId < 0 || lonerId < 0 {
		t.Fatalf("island ids not assigned: stack=%d loner=%d", lowerId, lonerId)
	}
	if lowerId != upperId {
		t.Errorf("stacked boxes split across islands %d and %d", lowerId, upperId)
	}
	if lonerId == lowerId {
		t.Errorf("bodies joined only through static ground share island %d", lonerId)
	}
}

// Destroying the middle of a touching row takes its contacts with it and
// the next step grows two islands where there was one.
func TestWorldIslandSeveredByDestroyBody(t *testing.T) {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, 0))
	world.SetAllowSleeping(false)

	left := addDynamicBox(world, 0, 0, 0.5)
	middle := addDynamicBox(world, 0.99, 0, 0.5)
	right := addDynamicBox(world, 1.98, 0, 0.5)

	world.Step(1.0/60.0, 8, 3)

	if left.GetIslandId() != middle.GetIslandId() || middle.GetIslandId() != right.GetIslandId() {
		t.Fatalf("overlapping row split into islands %d %d %d",
			left.GetIslandId(), middle.GetIslandId(), right.GetIslandId())
	}
	if n := world.GetContactCount(); n != 2 {
		t.Fatalf("row carries %d contacts, want 2", n)
	}

	world.DestroyBody(middle)
	world.Step(1.0/60.0, 8, 3)

	if n := world.GetContactCount(); n != 0 {
		t.Fatalf("destroying the middle body left %d contacts", n)
	}
	if left.GetIslandId() == right.GetIslandId() {
		t.Errorf("severed halves still share island %d", left.GetIslandId())
	}
}

// A body crossing a thin wall in a single step tunnels unless it is
// flagged as a bullet, in which case the TOI pass holds it at the wall.
func TestWorldBulletStopsAtThinWall(t *testing.T) {
	fire := func(bullet bool) float64 {
		world := impact2d.NewWorld(impact2d.MakeVec2(0, 0))
		addStaticBox(world, 0, 0, 0.05, 5, "wall")

		bd := impact2d.MakeBodyDef()
		bd.Type = impact2d.BodyType.DynamicBody
		bd.Position = impact2d.MakeVec2(-5, 0)
		bd.LinearVelocity = impact2d.MakeVec2(600, 0)
		bd.Bullet = bullet
		body := world.CreateBody(&bd)

		shape := impact2d.MakeCircleShape()
		shape.M_radius = 0.2
		body.CreateFixture(&shape, 1.0)

		world.Step(1.0/60.0, 8, 3)
		return body.GetPosition().X
	}

	stopped := fire(true)
	if stopped > 0 || stopped < -1 {
		t.Errorf("bullet ended at x=%.3f, want it held at the wall", stopped)
	}

	tunneled := fire(false)
	if tunneled < 4 {
		t.Errorf("plain body ended at x=%.3f, want it past the wall in one step", tunneled)
	}
}

func worldTrace(steps int) string {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, -10))
	addStaticBox(world, 0, -0.5, 20, 0.5, "ground")
	addDynamicBox(world, -0.1, 0.6, 0.5)
	addDynamicBox(world, 0.07, 1.72, 0.5)

	ballDef := impact2d.MakeBodyDef()
	ballDef.Type = impact2d.BodyType.DynamicBody
	ballDef.Position = impact2d.MakeVec2(-0.2, 3.1)
	ball := world.CreateBody(&ballDef)
	ballShape := impact2d.MakeCircleShape()
	ballShape.M_radius = 0.4
	ball.CreateFixture(&ballShape, 1.0)

	var trace strings.Builder
	for i := 0; i < steps; i++ {
		world.Step(1.0/60.0, 8, 3)

		slot := 0
		for b := world.GetBodyList(); b != nil; b = b.GetNext() {
			p := b.GetPosition()
			v := b.GetLinearVelocity()
			fmt.Fprintf(&trace, "%03d/%d %.17g %.17g %.17g %.17g %.17g %.17g\n",
				i, slot, p.X, p.Y, b.GetAngle(), v.X, v.Y, b.GetAngularVelocity())
			slot++
		}
	}
	return trace.String()
}

// Two worlds built the same way must produce bitwise identical
// trajectories. A toppling stack with a ball on top runs every stage of
// the pipeline, so any order dependence shows up as a diverging trace.
func TestWorldStepIsDeterministic(t *testing.T) {
	first := worldTrace(90)
	second := worldTrace(90)

	if lines := strings.Count(first, "\n"); lines != 90*4 {
		t.Fatalf("trace holds %d samples, want %d", lines, 90*4)
	}

	if first != second {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "FirstRun",
			ToFile:   "SecondRun",
			Context:  2,
		})
		if err != nil {
			t.Fatalf("diffing traces: %v", err)
		}
		t.Errorf("identical worlds diverged:\n%s", diff)
	}
}

func TestWorldQueryAABB(t *testing.T) {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, 0))
	addStaticBox(world, 0, 0, 0.5, 0.5, "left")
	addStaticBox(world, 5, 0, 0.5, 0.5, "middle")
	addStaticBox(world, 10, 0, 0.5, 0.5, "right")

	region := impact2d.MakeAABB()
	region.LowerBound = impact2d.MakeVec2(4, -1)
	region.UpperBound = impact2d.MakeVec2(6, 1)

	var found []string
	world.QueryAABB(func(f *impact2d.Fixture) bool {
		found = append(found, fixtureLabel(f))
		return true
	}, region)

	if len(found) != 1 || found[0] != "middle" {
		t.Errorf("query found %v, want only the middle box", found)
	}

	// A false return ends the query after the first fixture.
	wide := impact2d.MakeAABB()
	wide.LowerBound = impact2d.MakeVec2(-2, -2)
	wide.UpperBound = impact2d.MakeVec2(12, 2)

	visits := 0
	world.QueryAABB(func(f *impact2d.Fixture) bool {
		visits++
		return false
	}, wide)

	if visits != 1 {
		t.Errorf("halted query visited %d fixtures, want 1", visits)
	}
}

// Returning the reported fraction clips the ray, so the last report is
// the closest hit no matter which order the tree visits the boxes in.
func TestWorldRayCastClosestHit(t *testing.T) {
	world := impact2d.NewWorld(impact2d.MakeVec2(0, 0))
	addStaticBox(world, 2, 0, 0.5, 0.5, "near")
	addStaticBox(world, 5, 0, 0.5, 0.5, "mid")
	addStaticBox(world, 8, 0, 0.5, 0.5, "far")

	p1 := impact2d.MakeVec2(-1, 0)
	p2 := impact2d.MakeVec2(11, 0)

	var hit *impact2d.Fixture
	var hitPoint, hitNormal impact2d.Vec2
	world.RayCast(func(f *impact2d.Fixture, point impact2d.Vec2, normal impact2d.Vec2, fraction float64) float64 {
		hit = f
		hitPoint = point
		hitNormal = normal
		return fraction
	}, p1, p2)

	if hit == nil {
		t.Fatal("ray along the row hit nothing")
	}
	if got := fixtureLabel(hit); got != "near" {
		t.Errorf("closest hit is %q, want \"near\"", got)
	}
	checkVec2(t, "hit point", hitPoint, 1.5, 0, 1e-9)
	checkVec2(t, "hit normal", hitNormal, -1, 0, 1e-9)

	// Returning 1 keeps the ray at full length and reports every fixture.
	var all []string
	world.RayCast(func(f *impact2d.Fixture, point impact2d.Vec2, normal impact2d.Vec2, fraction float64) float64 {
		all = append(all, fixtureLabel(f))
		return 1
	}, p1, p2)

	sort.Strings(all)
	if got := strings.Join(all, ","); got != "far,mid,near" {
		t.Errorf("full-length ray reported %q", got)
	}

	// Returning 0 terminates at the first report.
	count := 0
	world.RayCast(func(f *impact2d.Fixture, point impact2d.Vec2, normal impact2d.Vec2, fraction float64) float64 {
		count++
		return 0
	}, p1, p2)

	if count != 1 {
		t.Errorf("terminated ray reported %d fixtures, want 1", count)
	}
}

// A resting body falls asleep once it has been still long enough, an
// impulse wakes it, and disabling sleep wakes everything for good.
func TestWorldSleepAndWake(t *testing.T) {
	world, box := makeGroundedBoxWorld(10)

	if !box.IsAwake() {
		t.Fatal("a fresh body starts asleep")
	}

	for i := 0; i < 90; i++ {
		world.Step(1.0/60.0, 8, 3)
	}

	if box.IsAwake() {
		t.Fatal("box still awake after 1.5s at rest")
	}
	p := box.GetPosition()
	if math.Abs(p.Y-0.5) > 0.02 || math.Abs(p.X) > 1e-6 {
		t.Errorf("box fell asleep at (%.4f, %.4f), want near (0, 0.5)", p.X, p.Y)
	}

	box.ApplyLinearImpulseToCenter(impact2d.MakeVec2(0.5, 0), true)
	if !box.IsAwake() {
		t.Fatal("impulse did not wake the box")
	}
	if v := box.GetLinearVelocity(); v.X <= 0 {
		t.Errorf("impulse left velocity at %.4f", v.X)
	}

	for i := 0; i < 120; i++ {
		world.Step(1.0/60.0, 8, 3)
	}
	if box.IsAwake() {
		t.Fatal("box never went back to sleep after the nudge")
	}

	world.SetAllowSleeping(false)
	if !box.IsAwake() {
		t.Error("disabling sleep did not wake the sleeping box")
	}
}
