package impact2d

/// A contact edge is used to connect bodies and contacts together
/// in a contact graph where each body is a node and each contact
/// is an edge. A contact edge belongs to a doubly linked list
/// maintained in each attached body. Each contact has two contact
/// nodes, one for each attached body.
type ContactEdge struct {
	Other   *Body              ///< provides quick access to the other body attached.
	Contact *ContactConstraint ///< the contact
	Prev    *ContactEdge       ///< the previous contact edge in the body's contact list
	Next    *ContactEdge       ///< the next contact edge in the body's contact list
}

func NewContactEdge() *ContactEdge {
	return &ContactEdge{}
}

var ContactConstraint_Flag = struct {
	// Used when crawling contact graph when forming islands.
	E_islandFlag uint32

	// Set when the shapes are touching.
	E_touchingFlag uint32

	// This contact can be disabled (by user, or by a listener veto).
	E_enabledFlag uint32

	// This contact needs filtering because a fixture filter was changed.
	E_filterFlag uint32

	// Either fixture is a sensor. The pair is detected and reported but
	// never resolved.
	E_sensingFlag uint32
}{
	E_islandFlag:   0x0001,
	E_touchingFlag: 0x0002,
	E_enabledFlag:  0x0004,
	E_filterFlag:   0x0008,
	E_sensingFlag:  0x0010,
}

/// A single resolvable point of a contact constraint. It carries the
/// manifold point in solver form plus the impulses accumulated across steps
/// for warm starting.
type Contact struct {
	M_id ManifoldPointId

	/// World point midway between the two surfaces at the last update.
	M_p Vec2

	M_depth float64

	/// Anchor on the reference body's surface, in that body's frame.
	M_localPointRef Vec2

	/// Anchor on the incident body's surface, in that body's frame.
	M_localPointInc Vec2

	M_normalImpulse  float64
	M_tangentImpulse float64
}

/// The class manages contact between two fixtures. A contact exists for each
/// overlapping AABB in the broad-phase (except if filtered). Therefore a
/// contact object may exist that has no contact points.
///
/// The per-pair life cycle observed through the listener is
/// none -> begin -> persist* -> end, driven point-by-point: a new point with
/// no old match begins, a matched point persists and inherits the old
/// point's impulses, an old point with no new match ends. Sensing pairs run
/// the same detection but report through Sensed and never resolve.
type ContactConstraint struct {
	M_flags uint32

	// World list pointers.
	M_prev *ContactConstraint
	M_next *ContactConstraint

	// Nodes for connecting bodies.
	M_nodeA *ContactEdge
	M_nodeB *ContactEdge

	M_fixtureA *Fixture
	M_fixtureB *Fixture

	/// The geometric manifold of the last update, in world space.
	M_manifold Manifold

	M_contacts     [MaxManifoldPoints]Contact
	M_contactCount int

	/// True when the manifold's reference edge belongs to fixtureB's shape.
	/// The local normal below then lives in body B's frame.
	M_flipped bool

	/// Contact normal in the reference body's frame, pointing at the
	/// incident body. The position solver re-derives the world normal from
	/// this so it tracks the reference body's rotation.
	M_localNormal Vec2

	M_friction    float64
	M_restitution float64

	M_mixer CoefficientMixerInterface
}

func (c ContactConstraint) GetPrev() *ContactConstraint {
	return c.M_prev
}

func (c ContactConstraint) GetNext() *ContactConstraint {
	return c.M_next
}

func (c ContactConstraint) GetNodeA() *ContactEdge {
	return c.M_nodeA
}

func (c ContactConstraint) GetNodeB() *ContactEdge {
	return c.M_nodeB
}

func (c ContactConstraint) GetFixtureA() *Fixture {
	return c.M_fixtureA
}

func (c ContactConstraint) GetFixtureB() *Fixture {
	return c.M_fixtureB
}

func (c ContactConstraint) GetBodyA() *Body {
	return c.M_fixtureA.GetBody()
}

func (c ContactConstraint) GetBodyB() *Body {
	return c.M_fixtureB.GetBody()
}

func (c *ContactConstraint) GetManifold() *Manifold {
	return &c.M_manifold
}

/// The world contact normal of the last update, pointing from fixtureA's
/// shape to fixtureB's.
func (c ContactConstraint) GetNormal() Vec2 {
	return c.M_manifold.Normal
}

func (c *ContactConstraint) GetContact(index int) *Contact {
	Assert(0 <= index && index < c.M_contactCount)
	return &c.M_contacts[index]
}

func (c ContactConstraint) GetContactCount() int {
	return c.M_contactCount
}

func (c ContactConstraint) GetFriction() float64 {
	return c.M_friction
}

func (c *ContactConstraint) SetFriction(friction float64) {
	c.M_friction = friction
}

func (c *ContactConstraint) ResetFriction() {
	c.M_friction = c.M_mixer.MixFriction(c.M_fixtureA.M_friction, c.M_fixtureB.M_friction)
}

func (c ContactConstraint) GetRestitution() float64 {
	return c.M_restitution
}

func (c *ContactConstraint) SetRestitution(restitution float64) {
	c.M_restitution = restitution
}

func (c *ContactConstraint) ResetRestitution() {
	c.M_restitution = c.M_mixer.MixRestitution(c.M_fixtureA.M_restitution, c.M_fixtureB.M_restitution)
}

func (c *ContactConstraint) SetEnabled(flag bool) {
	if flag {
		c.M_flags |= ContactConstraint_Flag.E_enabledFlag
	} else {
		c.M_flags &= ^ContactConstraint_Flag.E_enabledFlag
	}
}

func (c ContactConstraint) IsEnabled() bool {
	return (c.M_flags & ContactConstraint_Flag.E_enabledFlag) == ContactConstraint_Flag.E_enabledFlag
}

func (c ContactConstraint) IsTouching() bool {
	return (c.M_flags & ContactConstraint_Flag.E_touchingFlag) == ContactConstraint_Flag.E_touchingFlag
}

func (c ContactConstraint) IsSensing() bool {
	return (c.M_flags & ContactConstraint_Flag.E_sensingFlag) == ContactConstraint_Flag.E_sensingFlag
}

func (c *ContactConstraint) FlagForFiltering() {
	c.M_flags |= ContactConstraint_Flag.E_filterFlag
}

///////////////////////////////////////////////////////////////////////////////

func NewContactConstraint(fixtureA *Fixture, fixtureB *Fixture, mixer CoefficientMixerInterface) *ContactConstraint {

	c := &ContactConstraint{}
	c.M_flags = ContactConstraint_Flag.E_enabledFlag

	if fixtureA.IsSensor() || fixtureB.IsSensor() {
		c.M_flags |= ContactConstraint_Flag.E_sensingFlag
	}

	c.M_fixtureA = fixtureA
	c.M_fixtureB = fixtureB

	c.M_manifold = MakeManifold()
	c.M_contactCount = 0

	c.M_prev = nil
	c.M_next = nil

	c.M_nodeA = NewContactEdge()
	c.M_nodeB = NewContactEdge()

	c.M_mixer = mixer
	c.M_friction = mixer.MixFriction(fixtureA.M_friction, fixtureB.M_friction)
	c.M_restitution = mixer.MixRestitution(fixtureA.M_restitution, fixtureB.M_restitution)

	return c
}

// True when a fresh manifold point continues the life of a stored contact.
// Indexed ids must agree exactly; distance ids correlate by proximity.
func contactPointsMatch(id ManifoldPointId, p Vec2, old *Contact, warmStartDistance float64) bool {
	if id.Type == ManifoldPointId_Type.E_indexed || old.M_id.Type == ManifoldPointId_Type.E_indexed {
		return id == old.M_id
	}

	return Vec2DistanceSquared(p, old.M_p) <= warmStartDistance
}

/// Drive the contact life cycle from a freshly computed manifold.
/// Note: do not assume the fixture AABBs are overlapping or are valid.
func (c *ContactConstraint) Update(manifold *Manifold, listener ContactListenerInterface) {

	oldManifold := c.M_manifold
	oldContacts := c.M_contacts
	oldCount := c.M_contactCount

	// Re-enable this contact. A listener veto lasts a single step.
	c.M_flags |= ContactConstraint_Flag.E_enabledFlag

	wasTouching := (c.M_flags & ContactConstraint_Flag.E_touchingFlag) == ContactConstraint_Flag.E_touchingFlag

	sensor := c.M_fixtureA.IsSensor() || c.M_fixtureB.IsSensor()
	if sensor {
		c.M_flags |= ContactConstraint_Flag.E_sensingFlag
	} else {
		c.M_flags &= ^ContactConstraint_Flag.E_sensingFlag
	}

	bodyA := c.M_fixtureA.GetBody()
	bodyB := c.M_fixtureB.GetBody()
	xfA := bodyA.GetTransform()
	xfB := bodyB.GetTransform()

	touching := manifold.PointCount > 0

	c.M_manifold = *manifold

	if sensor {
		// Sensing pairs keep no resolvable points.
		c.M_contactCount = 0

		if touching {
			c.M_flags |= ContactConstraint_Flag.E_touchingFlag
		} else {
			c.M_flags &= ^ContactConstraint_Flag.E_touchingFlag
		}

		if listener != nil {
			for i := 0; i < manifold.PointCount; i++ {
				mp := &manifold.Points[i]
				listener.Sensed(ContactPoint{
					FixtureA: c.M_fixtureA,
					FixtureB: c.M_fixtureB,
					Normal:   manifold.Normal,
					Point:    mp.Point,
					Depth:    mp.Depth,
					Id:       mp.Id,
				})
			}
		}

		return
	}

	// Rebuild the resolvable points. The reference body is the one whose
	// edge the clipper used; its frame keeps the normal and the anchors so
	// the position solver can track it after integration.
	c.M_contactCount = manifold.PointCount

	if touching {
		c.M_flipped = manifold.Points[0].Id.Flipped

		refXf := xfA
		incXf := xfB
		frontNormal := manifold.Normal
		if c.M_flipped {
			refXf = xfB
			incXf = xfA
			frontNormal = frontNormal.OperatorNegate()
		}

		c.M_localNormal = RotVec2MulT(refXf.Q, frontNormal)

		for i := 0; i < manifold.PointCount; i++ {
			mp := &manifold.Points[i]
			ct := &c.M_contacts[i]

			ct.M_id = mp.Id
			ct.M_p = mp.Point
			ct.M_depth = mp.Depth
			ct.M_normalImpulse = 0.0
			ct.M_tangentImpulse = 0.0

			// The manifold point sits midway between the surfaces.
			offset := Vec2MulScalar(0.5*mp.Depth, frontNormal)
			ct.M_localPointRef = TransformVec2MulT(refXf, Vec2Add(mp.Point, offset))
			ct.M_localPointInc = TransformVec2MulT(incXf, Vec2Sub(mp.Point, offset))
		}
	}

	// Match new points to old points, carry their impulses over, and
	// report the per-point transitions. Any false return disables
	// resolution for this step without touching the bookkeeping above.
	enabled := true
	matched := [MaxManifoldPoints]bool{}

	for i := 0; i < c.M_contactCount; i++ {
		ct := &c.M_contacts[i]

		point := ContactPoint{
			FixtureA: c.M_fixtureA,
			FixtureB: c.M_fixtureB,
			Normal:   manifold.Normal,
			Point:    ct.M_p,
			Depth:    ct.M_depth,
			Id:       ct.M_id,
		}

		found := false
		for j := 0; j < oldCount; j++ {
			if matched[j] {
				continue
			}

			old := &oldContacts[j]
			if contactPointsMatch(ct.M_id, ct.M_p, old, WarmStartDistance) {
				matched[j] = true
				found = true

				ct.M_normalImpulse = old.M_normalImpulse
				ct.M_tangentImpulse = old.M_tangentImpulse

				if listener != nil {
					oldPoint := ContactPoint{
						FixtureA: c.M_fixtureA,
						FixtureB: c.M_fixtureB,
						Normal:   oldManifold.Normal,
						Point:    old.M_p,
						Depth:    old.M_depth,
						Id:       old.M_id,
					}
					if !listener.Persist(point, oldPoint) {
						enabled = false
					}
				}
				break
			}
		}

		if !found && listener != nil {
			if !listener.Begin(point) {
				enabled = false
			}
		}
	}

	if listener != nil {
		for j := 0; j < oldCount; j++ {
			if matched[j] {
				continue
			}

			old := &oldContacts[j]
			if !listener.End(ContactPoint{
				FixtureA: c.M_fixtureA,
				FixtureB: c.M_fixtureB,
				Normal:   oldManifold.Normal,
				Point:    old.M_p,
				Depth:    old.M_depth,
				Id:       old.M_id,
			}) {
				enabled = false
			}
		}
	}

	c.SetEnabled(enabled)

	if touching != wasTouching {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	if touching {
		c.M_flags |= ContactConstraint_Flag.E_touchingFlag
	} else {
		c.M_flags &= ^ContactConstraint_Flag.E_touchingFlag
	}

	if touching && listener != nil {
		listener.PreSolve(c, oldManifold)
	}
}
