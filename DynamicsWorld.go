package impact2d

/// The world class manages all physics entities, dynamic simulation,
/// and asynchronous queries.

var World_Flags = struct {
	E_newFixture int
	E_locked     int
}{
	E_newFixture: 0x0001,
	E_locked:     0x0002,
}

type World struct {
	M_flags int

	M_contactManager ContactManager

	M_bodyList  *Body // linked list
	M_bodyCount int

	M_gravity    Vec2
	M_allowSleep bool

	M_settings Settings

	M_destructionListener DestructionListenerInterface

	M_timeOfImpactDetector TimeOfImpactDetectorInterface
	M_timeOfImpactSolver   TimeOfImpactSolver

	// This is used to compute the time step ratio to
	// support a variable time step.
	M_inv_dt0 float64

	// These are for debugging the solver.
	M_warmStarting      bool
	M_continuousPhysics bool

	M_profile Profile
}

func (world World) GetBodyList() *Body {
	return world.M_bodyList
}

func (world World) GetContactList() *ContactConstraint {
	return world.M_contactManager.M_contactList
}

func (world World) GetBodyCount() int {
	return world.M_bodyCount
}

func (world World) GetContactCount() int {
	return world.M_contactManager.M_contactCount
}

func (world *World) SetGravity(gravity Vec2) {
	world.M_gravity = gravity
}

func (world World) GetGravity() Vec2 {
	return world.M_gravity
}

func (world World) IsLocked() bool {
	return (world.M_flags & World_Flags.E_locked) == World_Flags.E_locked
}

func (world World) GetContactManager() ContactManager {
	return world.M_contactManager
}

func (world World) GetProfile() Profile {
	return world.M_profile
}

func (world World) GetSettings() Settings {
	return world.M_settings
}

/// Replace the tunable tolerances. The broad-phase margin applies to
/// proxies created or moved from now on.
func (world *World) SetSettings(settings Settings) {
	world.M_settings = settings
	world.M_contactManager.M_broadPhase.M_tree.M_margin = settings.AabbMargin
}

func MakeWorld(gravity Vec2) World {

	world := World{}

	world.M_destructionListener = nil

	world.M_bodyList = nil
	world.M_bodyCount = 0

	world.M_warmStarting = true
	world.M_continuousPhysics = true

	world.M_allowSleep = true
	world.M_gravity = gravity

	world.M_settings = MakeSettings()

	world.M_flags = 0

	world.M_inv_dt0 = 0.0

	world.M_contactManager = MakeContactManager()

	world.M_timeOfImpactDetector = NewConservativeAdvancement()
	world.M_timeOfImpactSolver = MakeTimeOfImpactSolver()

	return world
}

func NewWorld(gravity Vec2) *World {
	res := MakeWorld(gravity)
	return &res
}

func (world *World) SetDestructionListener(listener DestructionListenerInterface) {
	world.M_destructionListener = listener
}

func (world *World) SetContactFilter(filter ContactFilterInterface) {
	world.M_contactManager.M_contactFilter = filter
}

func (world *World) SetContactListener(listener ContactListenerInterface) {
	world.M_contactManager.M_contactListener = listener
}

/// Replace the rule that mixes fixture friction and restitution into a
/// contact. Existing contacts keep their mixed values until reset.
func (world *World) SetCoefficientMixer(mixer CoefficientMixerInterface) {
	world.M_contactManager.M_coefficientMixer = mixer
}

func (world *World) CreateBody(def *BodyDef) *Body {
	Assert(world.IsLocked() == false)

	if world.IsLocked() {
		return nil
	}

	b := NewBody(def, world)

	// Add to world doubly linked list.
	b.M_prev = nil
	b.M_next = world.M_bodyList
	if world.M_bodyList != nil {
		world.M_bodyList.M_prev = b
	}
	world.M_bodyList = b
	world.M_bodyCount++

	return b
}

func (world *World) DestroyBody(b *Body) {
	Assert(world.M_bodyCount > 0)
	Assert(world.IsLocked() == false)

	if world.IsLocked() {
		return
	}

	// Delete the attached contacts.
	ce := b.M_contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		world.M_contactManager.Destroy(ce0.Contact)
	}
	b.M_contactList = nil

	// Delete the attached fixtures. This destroys broad-phase proxies.
	f := b.M_fixtureList
	for f != nil {
		f0 := f
		f = f.M_next

		if world.M_destructionListener != nil {
			world.M_destructionListener.SayGoodbyeToFixture(f0)
		}

		world.M_contactManager.M_broadPhase.Remove(f0)
		f0.Destroy()

		b.M_fixtureList = f
		b.M_fixtureCount -= 1
	}

	b.M_fixtureList = nil
	b.M_fixtureCount = 0

	// Remove world body list.
	if b.M_prev != nil {
		b.M_prev.M_next = b.M_next
	}

	if b.M_next != nil {
		b.M_next.M_prev = b.M_prev
	}

	if b == world.M_bodyList {
		world.M_bodyList = b.M_next
	}

	world.M_bodyCount--
}

func (world *World) SetAllowSleeping(flag bool) {
	if flag == world.M_allowSleep {
		return
	}

	world.M_allowSleep = flag
	if world.M_allowSleep == false {
		for b := world.M_bodyList; b != nil; b = b.M_next {
			b.SetAwake(true)
		}
	}
}

// Find islands, integrate and solve constraints, solve position constraints
func (world *World) Solve(step TimeStep) {
	world.M_profile.SolveInit = 0.0
	world.M_profile.SolveVelocity = 0.0
	world.M_profile.SolvePosition = 0.0

	// Size the island for the worst case.
	island := MakeIsland(
		world.M_bodyCount,
		world.M_contactManager.M_contactCount,
		world.M_contactManager.M_contactListener,
	)

	// Clear all the island flags.
	for b := world.M_bodyList; b != nil; b = b.M_next {
		b.M_flags &= ^Body_Flags.E_islandFlag
	}
	for c := world.M_contactManager.M_contactList; c != nil; c = c.GetNext() {
		c.M_flags &= ^ContactConstraint_Flag.E_islandFlag
	}

	// Build and simulate all awake islands.
	stackSize := world.M_bodyCount
	stack := make([]*Body, stackSize)

	islandId := 0

	for seed := world.M_bodyList; seed != nil; seed = seed.M_next {
		if (seed.M_flags & Body_Flags.E_islandFlag) != 0x0000 {
			continue
		}

		if seed.IsAwake() == false || seed.IsActive() == false {
			continue
		}

		// The seed can be dynamic or kinematic.
		if seed.GetType() == BodyType.StaticBody {
			continue
		}

		// Reset island and stack.
		island.Clear()
		stackCount := 0
		stack[stackCount] = seed
		stackCount++
		seed.M_flags |= Body_Flags.E_islandFlag

		// Perform a depth first search (DFS) on the constraint graph.
		for stackCount > 0 {
			// Grab the next body off the stack and add it to the island.
			stackCount--
			b := stack[stackCount]
			Assert(b.IsActive() == true)
			island.AddBody(b)
			b.M_islandId = islandId

			// Make sure the body is awake (without resetting sleep timer).
			b.M_flags |= Body_Flags.E_awakeFlag

			// To keep islands as small as possible, we don't
			// propagate islands across static bodies.
			if b.GetType() == BodyType.StaticBody {
				continue
			}

			// Search all contacts connected to this body.
			for ce := b.M_contactList; ce != nil; ce = ce.Next {
				contact := ce.Contact

				// Has this contact already been added to an island?
				if (contact.M_flags & ContactConstraint_Flag.E_islandFlag) != 0x0000 {
					continue
				}

				// Is this contact solid and touching?
				if contact.IsEnabled() == false || contact.IsTouching() == false {
					continue
				}

				// Sensing pairs produce no impulses.
				if contact.IsSensing() {
					continue
				}

				island.AddContact(contact)
				contact.M_flags |= ContactConstraint_Flag.E_islandFlag

				other := ce.Other

				// Was the other body already added to this island?
				if (other.M_flags & Body_Flags.E_islandFlag) != 0x0000 {
					continue
				}

				Assert(stackCount < stackSize)
				stack[stackCount] = other
				stackCount++
				other.M_flags |= Body_Flags.E_islandFlag
			}
		}

		profile := MakeProfile()
		island.Solve(&profile, step, world.M_settings, world.M_gravity, world.M_allowSleep)
		world.M_profile.SolveInit += profile.SolveInit
		world.M_profile.SolveVelocity += profile.SolveVelocity
		world.M_profile.SolvePosition += profile.SolvePosition

		// Post solve cleanup.
		for i := 0; i < island.M_bodyCount; i++ {
			// Allow static bodies to participate in other islands.
			b := island.M_bodies[i]
			if b.GetType() == BodyType.StaticBody {
				b.M_flags &= ^Body_Flags.E_islandFlag
			}
		}

		islandId++
	}

	stack = nil

	{
		timer := MakeTimer()

		// Synchronize fixtures, check for out of range bodies.
		for b := world.M_bodyList; b != nil; b = b.GetNext() {
			// If a body was not in an island then it did not move.
			if (b.M_flags & Body_Flags.E_islandFlag) == 0 {
				continue
			}

			if b.GetType() == BodyType.StaticBody {
				continue
			}

			// Update fixtures (for broad-phase).
			b.SynchronizeFixtures()
		}

		// Look for new contacts.
		world.M_contactManager.FindNewContacts()
		world.M_profile.Broadphase = timer.GetMilliseconds()
	}
}

// Advance each bullet to its earliest time of impact and separate the pair
// there. Velocities are left alone; the next discrete step resolves the
// collision response.
func (world *World) SolveTOI(step TimeStep) {

	for b := world.M_bodyList; b != nil; b = b.M_next {
		if b.IsBullet() == false || b.M_type != BodyType.DynamicBody {
			continue
		}

		if b.IsAwake() == false || b.IsActive() == false {
			continue
		}

		world.solveBulletTOI(b)
	}

	// Moved bodies may have new pairs waiting.
	world.M_contactManager.FindNewContacts()
}

func (world *World) solveBulletTOI(body *Body) bool {

	if body.M_fixtureList == nil {
		return false
	}

	// An AABB covering the whole motion of the body over this step.
	xf0 := MakeTransform()
	body.M_sweep.GetTransform(&xf0, 0.0)

	swept := MakeAABB()
	first := true
	for f := body.M_fixtureList; f != nil; f = f.M_next {
		if f.M_shape == nil {
			continue
		}

		aabb0 := MakeAABB()
		aabb1 := MakeAABB()
		f.M_shape.ComputeAABB(&aabb0, xf0)
		f.M_shape.ComputeAABB(&aabb1, body.M_xf)

		if first {
			swept.CombineTwoInPlace(aabb0, aabb1)
			first = false
		} else {
			swept.CombineInPlace(aabb0)
			swept.CombineInPlace(aabb1)
		}
	}

	if first {
		return false
	}

	candidates := make([]*Fixture, 0, 16)
	world.M_contactManager.M_broadPhase.DetectAABB(&swept, func(f *Fixture) bool {
		if f.GetBody() != body {
			candidates = append(candidates, f)
		}
		return true
	})

	filter := world.M_contactManager.M_contactFilter

	minT := 1.0
	minToi := MakeTimeOfImpact()
	var minBody *Body
	found := false

	for f1 := body.M_fixtureList; f1 != nil; f1 = f1.M_next {
		if f1.M_shape == nil || f1.IsSensor() {
			continue
		}

		for _, f2 := range candidates {
			if f2.M_shape == nil || f2.IsSensor() {
				continue
			}

			other := f2.GetBody()
			if other.ShouldCollide(body) == false {
				continue
			}

			if filter != nil && filter.ShouldCollide(f1, f2) == false {
				continue
			}

			toi := MakeTimeOfImpact()
			if world.M_timeOfImpactDetector.GetTimeOfImpact(f1.M_shape, body.M_sweep, f2.M_shape, other.M_sweep, &toi) == false {
				continue
			}

			if toi.T < minT {
				minT = toi.T
				minToi = toi
				minBody = other
				found = true
			}
		}
	}

	if found == false {
		return false
	}

	// Advance the pair to the earliest impact and nudge the bodies apart so
	// the next discrete pass starts from a touching, non-overlapping state.
	body.Advance(minT)
	minBody.Advance(minT)

	world.M_timeOfImpactSolver.Solve(body, minBody, minToi, world.M_settings)

	// The pair's motion for this step ends at the impact site.
	body.M_sweep.C0 = body.M_sweep.C
	body.M_sweep.A0 = body.M_sweep.A
	body.M_sweep.Alpha0 = 0.0
	minBody.M_sweep.C0 = minBody.M_sweep.C
	minBody.M_sweep.A0 = minBody.M_sweep.A
	minBody.M_sweep.Alpha0 = 0.0

	body.SetAwake(true)
	minBody.SetAwake(true)

	body.SynchronizeFixtures()
	if minBody.M_type == BodyType.DynamicBody {
		minBody.SynchronizeFixtures()
	}

	return true
}

func (world *World) Step(dt float64, velocityIterations int, positionIterations int) {
	stepTimer := MakeTimer()

	// If new fixtures were added, we need to find the new contacts.
	if (world.M_flags & World_Flags.E_newFixture) != 0x0000 {
		world.M_contactManager.FindNewContacts()
		world.M_flags &= ^World_Flags.E_newFixture
	}

	world.M_flags |= World_Flags.E_locked

	step := MakeTimeStep()
	step.Dt = dt
	step.VelocityIterations = velocityIterations
	step.PositionIterations = positionIterations
	if dt > 0.0 {
		step.Inv_dt = 1.0 / dt
	} else {
		step.Inv_dt = 0.0
	}

	step.DtRatio = world.M_inv_dt0 * dt

	step.WarmStarting = world.M_warmStarting

	// Update contacts. This is where some contacts are destroyed.
	{
		timer := MakeTimer()
		world.M_contactManager.Collide()
		world.M_profile.Collide = timer.GetMilliseconds()
	}

	// Integrate velocities, solve velocity constraints, and integrate positions.
	if step.Dt > 0.0 {
		timer := MakeTimer()
		world.Solve(step)
		world.M_profile.Solve = timer.GetMilliseconds()
	}

	// Handle TOI events.
	if world.M_continuousPhysics && step.Dt > 0.0 {
		timer := MakeTimer()
		world.SolveTOI(step)
		world.M_profile.SolveTOI = timer.GetMilliseconds()
	}

	if step.Dt > 0.0 {
		world.M_inv_dt0 = step.Inv_dt
	}

	world.M_flags &= ^World_Flags.E_locked

	world.M_profile.Step = stepTimer.GetMilliseconds()
}

/// Query the world for all fixtures whose fat AABBs overlap the given
/// box. The callback returns false to end the query early.
func (world *World) QueryAABB(callback BroadphaseQueryCallback, aabb AABB) {
	world.M_contactManager.M_broadPhase.DetectAABB(&aabb, callback)
}

/// Ray-cast the world for all fixtures in the path of the ray. Your
/// callback controls whether you get the closest point, any point, or
/// n-points. The ray-cast ignores shapes that contain the starting point.
/// @param callback a user implemented callback function.
/// @param point1 the ray starting point
/// @param point2 the ray ending point
func (world *World) RayCast(callback RaycastCallback, point1 Vec2, point2 Vec2) {

	wrapper := func(input RayCastInput, nodeId int) float64 {

		userData := world.M_contactManager.M_broadPhase.M_tree.GetUserData(nodeId)
		fixture := userData.(*Fixture)
		output := MakeRayCastOutput()
		hit := fixture.RayCast(&output, input)

		if hit {
			fraction := output.Fraction
			point := Vec2Add(Vec2MulScalar((1.0-fraction), input.P1), Vec2MulScalar(fraction, input.P2))
			return callback(fixture, point, output.Normal, fraction)
		}

		return input.MaxFraction
	}

	input := MakeRayCastInput()
	input.MaxFraction = 1.0
	input.P1 = point1
	input.P2 = point2
	world.M_contactManager.M_broadPhase.RayCast(wrapper, input)
}

func (world World) GetProxyCount() int {
	return world.M_contactManager.M_broadPhase.GetProxyCount()
}

func (world World) GetTreeHeight() int {
	return world.M_contactManager.M_broadPhase.GetTreeHeight()
}

func (world World) GetTreeBalance() int {
	return world.M_contactManager.M_broadPhase.GetTreeBalance()
}

func (world World) GetTreeQuality() float64 {
	return world.M_contactManager.M_broadPhase.GetTreeQuality()
}

/// Shift the world origin. Useful for large worlds.
/// The body shift formula is: position -= newOrigin
func (world *World) ShiftOrigin(newOrigin Vec2) {

	Assert((world.M_flags & World_Flags.E_locked) == 0)
	if (world.M_flags & World_Flags.E_locked) == World_Flags.E_locked {
		return
	}

	for b := world.M_bodyList; b != nil; b = b.M_next {
		b.M_xf.P.OperatorMinusInplace(newOrigin)
		b.M_sweep.C0.OperatorMinusInplace(newOrigin)
		b.M_sweep.C.OperatorMinusInplace(newOrigin)
	}

	world.M_contactManager.M_broadPhase.ShiftOrigin(newOrigin)
}
