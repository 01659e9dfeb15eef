package impact2d

/// The contact manager owns the broad-phase and the world contact list. It
/// creates a contact constraint for every broad-phase pair that passes
/// filtering, runs the narrow phase over the list each step, and destroys
/// constraints whose fat AABBs no longer overlap.
type ContactManager struct {
	M_broadPhase   BroadPhase
	M_contactList  *ContactConstraint
	M_contactCount int

	M_contactFilter   ContactFilterInterface
	M_contactListener ContactListenerInterface

	M_coefficientMixer CoefficientMixerInterface

	M_narrowphaseDetector NarrowphaseDetectorInterface
	M_manifoldSolver      ManifoldSolverInterface
}

func MakeContactManager() ContactManager {
	return ContactManager{
		M_broadPhase:          MakeBroadPhase(),
		M_contactList:         nil,
		M_contactCount:        0,
		M_contactFilter:       &ContactFilter{},
		M_contactListener:     nil,
		M_coefficientMixer:    &DefaultCoefficientMixer{},
		M_narrowphaseDetector: NewSat(),
		M_manifoldSolver:      NewClippingManifoldSolver(),
	}
}

func NewContactManager() *ContactManager {
	res := MakeContactManager()
	return &res
}

func (mgr *ContactManager) Destroy(c *ContactConstraint) {
	fixtureA := c.GetFixtureA()
	fixtureB := c.GetFixtureB()
	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	if mgr.M_contactListener != nil && c.IsTouching() && !c.IsSensing() {
		for i := 0; i < c.M_contactCount; i++ {
			ct := &c.M_contacts[i]
			mgr.M_contactListener.End(ContactPoint{
				FixtureA: fixtureA,
				FixtureB: fixtureB,
				Normal:   c.M_manifold.Normal,
				Point:    ct.M_p,
				Depth:    ct.M_depth,
				Id:       ct.M_id,
			})
		}
	}

	// Remove from the world.
	if c.M_prev != nil {
		c.M_prev.M_next = c.M_next
	}

	if c.M_next != nil {
		c.M_next.M_prev = c.M_prev
	}

	if c == mgr.M_contactList {
		mgr.M_contactList = c.M_next
	}

	// Remove from body 1
	if c.M_nodeA.Prev != nil {
		c.M_nodeA.Prev.Next = c.M_nodeA.Next
	}

	if c.M_nodeA.Next != nil {
		c.M_nodeA.Next.Prev = c.M_nodeA.Prev
	}

	if c.M_nodeA == bodyA.M_contactList {
		bodyA.M_contactList = c.M_nodeA.Next
	}

	// Remove from body 2
	if c.M_nodeB.Prev != nil {
		c.M_nodeB.Prev.Next = c.M_nodeB.Next
	}

	if c.M_nodeB.Next != nil {
		c.M_nodeB.Next.Prev = c.M_nodeB.Prev
	}

	if c.M_nodeB == bodyB.M_contactList {
		bodyB.M_contactList = c.M_nodeB.Next
	}

	mgr.M_contactCount--
}

// This is the top level collision call for the time step. Here
// all the narrow phase collision is processed for the world
// contact list.
func (mgr *ContactManager) Collide() {
	// Update awake contacts.
	c := mgr.M_contactList

	for c != nil {
		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()

		// Is this contact flagged for filtering?
		if (c.M_flags & ContactConstraint_Flag.E_filterFlag) != 0x0000 {
			// Should these bodies collide?
			if bodyB.ShouldCollide(bodyA) == false {
				cNuke := c
				c = cNuke.GetNext()
				mgr.Destroy(cNuke)
				continue
			}

			// Check user filtering.
			if mgr.M_contactFilter != nil && mgr.M_contactFilter.ShouldCollide(fixtureA, fixtureB) == false {
				cNuke := c
				c = cNuke.GetNext()
				mgr.Destroy(cNuke)
				continue
			}

			// Clear the filtering flag.
			c.M_flags &= ^ContactConstraint_Flag.E_filterFlag
		}

		activeA := bodyA.IsAwake() && bodyA.M_type != BodyType.StaticBody
		activeB := bodyB.IsAwake() && bodyB.M_type != BodyType.StaticBody

		// At least one body must be awake and it must be dynamic or kinematic.
		if activeA == false && activeB == false {
			c = c.GetNext()
			continue
		}

		// Here we destroy contacts that cease to overlap in the broad-phase.
		if mgr.M_broadPhase.TestOverlap(fixtureA, fixtureB) == false {
			cNuke := c
			c = cNuke.GetNext()
			mgr.Destroy(cNuke)
			continue
		}

		// The contact persists. Run the narrow phase and drive the life
		// cycle. Sensing pairs take the same path; the constraint reports
		// them without building resolvable points.
		manifold := MakeManifold()
		penetration := MakePenetration()

		shapeA := fixtureA.GetShape()
		shapeB := fixtureB.GetShape()
		xfA := bodyA.GetTransform()
		xfB := bodyB.GetTransform()

		if mgr.M_narrowphaseDetector.DetectPenetration(shapeA, xfA, shapeB, xfB, &penetration) {
			mgr.M_manifoldSolver.GetManifold(penetration, shapeA, xfA, shapeB, xfB, &manifold)
		}

		c.Update(&manifold, mgr.M_contactListener)
		c = c.GetNext()
	}
}

func (mgr *ContactManager) FindNewContacts() {
	pairs := mgr.M_broadPhase.Detect(func(fixtureA *Fixture, fixtureB *Fixture) bool {
		// Fixtures on the same body never collide.
		return fixtureA.GetBody() != fixtureB.GetBody()
	})

	for i := range pairs {
		mgr.AddPair(pairs[i].FixtureA, pairs[i].FixtureB)
	}
}

func (mgr *ContactManager) AddPair(fixtureA *Fixture, fixtureB *Fixture) {

	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	// Are the fixtures on the same body?
	if bodyA == bodyB {
		return
	}

	// Does a contact already exist?
	edge := bodyB.GetContactList()
	for edge != nil {
		if edge.Other == bodyA {
			fA := edge.Contact.GetFixtureA()
			fB := edge.Contact.GetFixtureB()

			if fA == fixtureA && fB == fixtureB {
				// A contact already exists.
				return
			}

			if fA == fixtureB && fB == fixtureA {
				// A contact already exists.
				return
			}
		}

		edge = edge.Next
	}

	// Is at least one body dynamic?
	if bodyB.ShouldCollide(bodyA) == false {
		return
	}

	// Check user filtering.
	if mgr.M_contactFilter != nil && mgr.M_contactFilter.ShouldCollide(fixtureA, fixtureB) == false {
		return
	}

	c := NewContactConstraint(fixtureA, fixtureB, mgr.M_coefficientMixer)

	// Insert into the world.
	c.M_prev = nil
	c.M_next = mgr.M_contactList
	if mgr.M_contactList != nil {
		mgr.M_contactList.M_prev = c
	}
	mgr.M_contactList = c

	// Connect to island graph.

	// Connect to body A
	c.M_nodeA.Contact = c
	c.M_nodeA.Other = bodyB

	c.M_nodeA.Prev = nil
	c.M_nodeA.Next = bodyA.M_contactList
	if bodyA.M_contactList != nil {
		bodyA.M_contactList.Prev = c.M_nodeA
	}
	bodyA.M_contactList = c.M_nodeA

	// Connect to body B
	c.M_nodeB.Contact = c
	c.M_nodeB.Other = bodyA

	c.M_nodeB.Prev = nil
	c.M_nodeB.Next = bodyB.M_contactList
	if bodyB.M_contactList != nil {
		bodyB.M_contactList.Prev = c.M_nodeB
	}
	bodyB.M_contactList = c.M_nodeB

	// Wake up the bodies
	if fixtureA.IsSensor() == false && fixtureB.IsSensor() == false {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	mgr.M_contactCount++
}
