package impact2d

/// The body type.
/// static: zero mass, zero velocity, may be manually moved
/// kinematic: zero mass, non-zero velocity set by user, moved by solver
/// dynamic: positive mass, non-zero velocity determined by forces, moved by solver

var BodyType = struct {
	StaticBody    uint8
	KinematicBody uint8
	DynamicBody   uint8
}{
	StaticBody:    0,
	KinematicBody: 1,
	DynamicBody:   2,
}

/// A body definition holds all the data needed to construct a rigid body.
/// You can safely re-use body definitions. Shapes are added to a body after construction.
type BodyDef struct {

	/// The body type: static, kinematic, or dynamic.
	/// Note: if a dynamic body would have zero mass, the mass is set to one.
	Type uint8

	/// The world position of the body. Avoid creating bodies at the origin
	/// since this can lead to many overlapping shapes.
	Position Vec2

	/// The world angle of the body in radians.
	Angle float64

	/// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity Vec2

	/// The angular velocity of the body.
	AngularVelocity float64

	/// Linear damping is use to reduce the linear velocity. The damping parameter
	/// can be larger than 1.0 but the damping effect becomes sensitive to the
	/// time step when the damping parameter is large.
	/// Units are 1/time
	LinearDamping float64

	/// Angular damping is use to reduce the angular velocity. The damping parameter
	/// can be larger than 1.0 but the damping effect becomes sensitive to the
	/// time step when the damping parameter is large.
	/// Units are 1/time
	AngularDamping float64

	/// Set this flag to false if this body should never fall asleep. Note that
	/// this increases CPU usage.
	AllowSleep bool

	/// Is this body initially awake or sleeping?
	Awake bool

	/// Should this body be prevented from rotating? Useful for characters.
	FixedRotation bool

	/// Is this a fast moving body that should be prevented from tunneling through
	/// other moving bodies? Note that all bodies are prevented from tunneling through
	/// kinematic and static bodies. This setting is only considered on dynamic bodies.
	/// @warning You should use this flag sparingly since it increases processing time.
	Bullet bool

	/// Does this body start out active?
	Active bool

	/// Use this to store application specific body data.
	UserData interface{}

	/// Scale the gravity applied to this body.
	GravityScale float64
}

/// This constructor sets the body definition default values.
func MakeBodyDef() BodyDef {
	return BodyDef{
		UserData:        nil,
		Position:        MakeVec2(0, 0),
		Angle:           0.0,
		LinearVelocity:  MakeVec2(0, 0),
		AngularVelocity: 0.0,
		LinearDamping:   0.0,
		AngularDamping:  0.0,
		AllowSleep:      true,
		Awake:           true,
		FixedRotation:   false,
		Bullet:          false,
		Type:            BodyType.StaticBody,
		Active:          true,
		GravityScale:    1.0,
	}
}

func NewBodyDef() *BodyDef {
	res := MakeBodyDef()
	return &res
}

var Body_Flags = struct {
	E_islandFlag        uint32
	E_awakeFlag         uint32
	E_autoSleepFlag     uint32
	E_bulletFlag        uint32
	E_fixedRotationFlag uint32
	E_activeFlag        uint32
	E_toiFlag           uint32
}{
	E_islandFlag:        0x0001,
	E_awakeFlag:         0x0002,
	E_autoSleepFlag:     0x0004,
	E_bulletFlag:        0x0008,
	E_fixedRotationFlag: 0x0010,
	E_activeFlag:        0x0020,
	E_toiFlag:           0x0040,
}

type Body struct {
	M_type uint8

	M_flags uint32

	/// Index of the body inside its island's solver arrays.
	M_islandIndex int

	/// Id of the island the body was grouped into during the last step, or
	/// -1 when it was not part of any. A static body borders many islands;
	/// it records the last one that claimed it.
	M_islandId int

	M_xf    Transform // the body origin transform
	M_sweep Sweep     // the swept motion for CCD

	M_linearVelocity  Vec2
	M_angularVelocity float64

	M_world *World
	M_prev  *Body
	M_next  *Body

	M_fixtureList  *Fixture // linked list
	M_fixtureCount int

	M_contactList *ContactEdge // linked list

	M_mass, M_invMass float64

	// Rotational inertia about the center of mass.
	M_I, M_invI float64

	M_linearDamping  float64
	M_angularDamping float64
	M_gravityScale   float64

	M_sleepTime float64

	M_userData interface{}
}

func (body Body) GetType() uint8 {
	return body.M_type
}

func (body Body) GetTransform() Transform {
	return body.M_xf
}

func (body Body) GetPosition() Vec2 {
	return body.M_xf.P
}

func (body Body) GetAngle() float64 {
	return body.M_sweep.A
}

func (body Body) GetWorldCenter() Vec2 {
	return body.M_sweep.C
}

func (body Body) GetLocalCenter() Vec2 {
	return body.M_sweep.LocalCenter
}

func (body *Body) SetLinearVelocity(v Vec2) {
	if body.M_type == BodyType.StaticBody {
		return
	}

	if Vec2Dot(v, v) > 0.0 {
		body.SetAwake(true)
	}

	body.M_linearVelocity = v
}

func (body Body) GetLinearVelocity() Vec2 {
	return body.M_linearVelocity
}

func (body *Body) SetAngularVelocity(w float64) {
	if body.M_type == BodyType.StaticBody {
		return
	}

	if w*w > 0.0 {
		body.SetAwake(true)
	}

	body.M_angularVelocity = w
}

func (body Body) GetAngularVelocity() float64 {
	return body.M_angularVelocity
}

func (body Body) GetMass() float64 {
	return body.M_mass
}

func (body Body) GetInertia() float64 {
	return body.M_I + body.M_mass*Vec2Dot(body.M_sweep.LocalCenter, body.M_sweep.LocalCenter)
}

func (body Body) GetMassData(data *MassData) {
	data.Mass = body.M_mass
	data.I = body.M_I + body.M_mass*Vec2Dot(body.M_sweep.LocalCenter, body.M_sweep.LocalCenter)
	data.Center = body.M_sweep.LocalCenter
}

func (body Body) GetWorldPoint(localPoint Vec2) Vec2 {
	return TransformVec2Mul(body.M_xf, localPoint)
}

func (body Body) GetWorldVector(localVector Vec2) Vec2 {
	return RotVec2Mul(body.M_xf.Q, localVector)
}

func (body Body) GetLocalPoint(worldPoint Vec2) Vec2 {
	return TransformVec2MulT(body.M_xf, worldPoint)
}

func (body Body) GetLocalVector(worldVector Vec2) Vec2 {
	return RotVec2MulT(body.M_xf.Q, worldVector)
}

func (body Body) GetLinearVelocityFromWorldPoint(worldPoint Vec2) Vec2 {
	return Vec2Add(body.M_linearVelocity, Vec2CrossScalarVector(body.M_angularVelocity, Vec2Sub(worldPoint, body.M_sweep.C)))
}

func (body Body) GetLinearVelocityFromLocalPoint(localPoint Vec2) Vec2 {
	return body.GetLinearVelocityFromWorldPoint(body.GetWorldPoint(localPoint))
}

func (body Body) GetLinearDamping() float64 {
	return body.M_linearDamping
}

func (body *Body) SetLinearDamping(linearDamping float64) {
	body.M_linearDamping = linearDamping
}

func (body Body) GetAngularDamping() float64 {
	return body.M_angularDamping
}

func (body *Body) SetAngularDamping(angularDamping float64) {
	body.M_angularDamping = angularDamping
}

func (body Body) GetGravityScale() float64 {
	return body.M_gravityScale
}

func (body *Body) SetGravityScale(scale float64) {
	body.M_gravityScale = scale
}

func (body *Body) SetBullet(flag bool) {
	if flag {
		body.M_flags |= Body_Flags.E_bulletFlag
	} else {
		body.M_flags &= ^Body_Flags.E_bulletFlag
	}
}

func (body Body) IsBullet() bool {
	return (body.M_flags & Body_Flags.E_bulletFlag) == Body_Flags.E_bulletFlag
}

func (body *Body) SetAwake(flag bool) {
	if flag {
		body.M_flags |= Body_Flags.E_awakeFlag
		body.M_sleepTime = 0.0
	} else {
		body.M_flags &= ^Body_Flags.E_awakeFlag
		body.M_sleepTime = 0.0
		body.M_linearVelocity.SetZero()
		body.M_angularVelocity = 0.0
	}
}

func (body Body) IsAwake() bool {
	return (body.M_flags & Body_Flags.E_awakeFlag) == Body_Flags.E_awakeFlag
}

func (body Body) IsActive() bool {
	return (body.M_flags & Body_Flags.E_activeFlag) == Body_Flags.E_activeFlag
}

func (body Body) IsFixedRotation() bool {
	return (body.M_flags & Body_Flags.E_fixedRotationFlag) == Body_Flags.E_fixedRotationFlag
}

func (body *Body) SetSleepingAllowed(flag bool) {
	if flag {
		body.M_flags |= Body_Flags.E_autoSleepFlag
	} else {
		body.M_flags &= ^Body_Flags.E_autoSleepFlag
		body.SetAwake(true)
	}
}

func (body Body) IsSleepingAllowed() bool {
	return (body.M_flags & Body_Flags.E_autoSleepFlag) == Body_Flags.E_autoSleepFlag
}

func (body Body) GetFixtureList() *Fixture {
	return body.M_fixtureList
}

func (body Body) GetContactList() *ContactEdge {
	return body.M_contactList
}

func (body Body) GetNext() *Body {
	return body.M_next
}

func (body Body) GetIslandId() int {
	return body.M_islandId
}

func (body *Body) SetUserData(data interface{}) {
	body.M_userData = data
}

func (body Body) GetUserData() interface{} {
	return body.M_userData
}

func (body *Body) ApplyLinearImpulse(impulse Vec2, point Vec2, wake bool) {
	if body.M_type != BodyType.DynamicBody {
		return
	}

	if wake && (body.M_flags&Body_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if (body.M_flags & Body_Flags.E_awakeFlag) != 0x0000 {
		body.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(body.M_invMass, impulse))
		body.M_angularVelocity += body.M_invI * Vec2Cross(
			Vec2Sub(point, body.M_sweep.C),
			impulse,
		)
	}
}

func (body *Body) ApplyLinearImpulseToCenter(impulse Vec2, wake bool) {
	if body.M_type != BodyType.DynamicBody {
		return
	}

	if wake && (body.M_flags&Body_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if (body.M_flags & Body_Flags.E_awakeFlag) != 0x0000 {
		body.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(body.M_invMass, impulse))
	}
}

func (body *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if body.M_type != BodyType.DynamicBody {
		return
	}

	if wake && (body.M_flags&Body_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if (body.M_flags & Body_Flags.E_awakeFlag) != 0x0000 {
		body.M_angularVelocity += body.M_invI * impulse
	}
}

func (body *Body) SynchronizeTransform() {
	body.M_xf.Q.Set(body.M_sweep.A)
	body.M_xf.P = Vec2Sub(body.M_sweep.C, RotVec2Mul(body.M_xf.Q, body.M_sweep.LocalCenter))
}

func (body *Body) Advance(alpha float64) {
	// Advance to the new safe time. This doesn't sync the broad-phase.
	body.M_sweep.Advance(alpha)
	body.M_sweep.C = body.M_sweep.C0
	body.M_sweep.A = body.M_sweep.A0
	body.M_xf.Q.Set(body.M_sweep.A)
	body.M_xf.P = Vec2Sub(body.M_sweep.C, RotVec2Mul(body.M_xf.Q, body.M_sweep.LocalCenter))
}

func (body Body) GetWorld() *World {
	return body.M_world
}

///////////////////////////////////////////////////////////////////////////////

func NewBody(bd *BodyDef, world *World) *Body {
	Assert(bd.Position.IsValid())
	Assert(bd.LinearVelocity.IsValid())
	Assert(IsValidFloat(bd.Angle))
	Assert(IsValidFloat(bd.AngularVelocity))
	Assert(IsValidFloat(bd.AngularDamping) && bd.AngularDamping >= 0.0)
	Assert(IsValidFloat(bd.LinearDamping) && bd.LinearDamping >= 0.0)

	body := &Body{}

	body.M_flags = 0

	if bd.Bullet {
		body.M_flags |= Body_Flags.E_bulletFlag
	}

	if bd.FixedRotation {
		body.M_flags |= Body_Flags.E_fixedRotationFlag
	}

	if bd.AllowSleep {
		body.M_flags |= Body_Flags.E_autoSleepFlag
	}

	if bd.Awake {
		body.M_flags |= Body_Flags.E_awakeFlag
	}

	if bd.Active {
		body.M_flags |= Body_Flags.E_activeFlag
	}

	body.M_world = world

	body.M_xf.P = bd.Position
	body.M_xf.Q.Set(bd.Angle)

	body.M_sweep.LocalCenter.SetZero()
	body.M_sweep.C0 = body.M_xf.P
	body.M_sweep.C = body.M_xf.P
	body.M_sweep.A0 = bd.Angle
	body.M_sweep.A = bd.Angle
	body.M_sweep.Alpha0 = 0.0

	body.M_contactList = nil
	body.M_prev = nil
	body.M_next = nil

	body.M_islandIndex = 0
	body.M_islandId = -1

	body.M_linearVelocity = bd.LinearVelocity
	body.M_angularVelocity = bd.AngularVelocity

	body.M_linearDamping = bd.LinearDamping
	body.M_angularDamping = bd.AngularDamping
	body.M_gravityScale = bd.GravityScale

	body.M_sleepTime = 0.0

	body.M_type = bd.Type

	if body.M_type == BodyType.DynamicBody {
		body.M_mass = 1.0
		body.M_invMass = 1.0
	} else {
		body.M_mass = 0.0
		body.M_invMass = 0.0
	}

	body.M_I = 0.0
	body.M_invI = 0.0

	body.M_userData = bd.UserData

	body.M_fixtureList = nil
	body.M_fixtureCount = 0

	return body
}

func (body *Body) SetType(bodytype uint8) {

	Assert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return
	}

	if body.M_type == bodytype {
		return
	}

	body.M_type = bodytype

	body.ResetMassData()

	if body.M_type == BodyType.StaticBody {
		body.M_linearVelocity.SetZero()
		body.M_angularVelocity = 0.0
		body.M_sweep.A0 = body.M_sweep.A
		body.M_sweep.C0 = body.M_sweep.C
		body.SynchronizeFixtures()
	}

	body.SetAwake(true)

	// Delete the attached contacts. New ones are found on the next step's
	// full broad-phase pass.
	ce := body.M_contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		body.M_world.M_contactManager.Destroy(ce0.Contact)
	}

	body.M_contactList = nil
}

func (body *Body) CreateFixtureFromDef(def *FixtureDef) *Fixture {

	Assert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return nil
	}

	fixture := NewFixture()
	fixture.Create(body, def)

	if (body.M_flags & Body_Flags.E_activeFlag) != 0x0000 {
		broadPhase := &body.M_world.M_contactManager.M_broadPhase
		broadPhase.Add(fixture)
	}

	fixture.M_next = body.M_fixtureList
	body.M_fixtureList = fixture
	body.M_fixtureCount++

	// Adjust mass properties if needed.
	if fixture.M_density > 0.0 {
		body.ResetMassData()
	}

	// Let the world know we have a new fixture. This will cause new contacts
	// to be created at the beginning of the next time step.
	body.M_world.M_flags |= World_Flags.E_newFixture

	return fixture
}

func (body *Body) CreateFixture(shape ShapeInterface, density float64) *Fixture {

	def := MakeFixtureDef()
	def.Shape = shape
	def.Density = density

	return body.CreateFixtureFromDef(&def)
}

func (body *Body) DestroyFixture(fixture *Fixture) {

	if fixture == nil {
		return
	}

	Assert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return
	}

	Assert(fixture.M_body == body)

	// Remove the fixture from this body's singly linked list.
	Assert(body.M_fixtureCount > 0)
	node := &body.M_fixtureList
	found := false
	for *node != nil {
		if *node == fixture {
			*node = fixture.M_next
			found = true
			break
		}

		node = &(*node).M_next
	}

	// You tried to remove a shape that is not attached to this body.
	Assert(found)

	// Destroy any contacts associated with the fixture.
	edge := body.M_contactList
	for edge != nil {
		c := edge.Contact
		edge = edge.Next

		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()

		if fixture == fixtureA || fixture == fixtureB {
			// This destroys the contact and removes it from
			// this body's contact list.
			body.M_world.M_contactManager.Destroy(c)
		}
	}

	if (body.M_flags & Body_Flags.E_activeFlag) != 0x0000 {
		broadPhase := &body.M_world.M_contactManager.M_broadPhase
		broadPhase.Remove(fixture)
	}

	fixture.M_body = nil
	fixture.M_next = nil
	fixture.Destroy()

	body.M_fixtureCount--

	// Reset the mass data.
	body.ResetMassData()
}

func (body *Body) ResetMassData() {

	// Compute mass data from shapes. Each shape has its own density.
	body.M_mass = 0.0
	body.M_invMass = 0.0
	body.M_I = 0.0
	body.M_invI = 0.0
	body.M_sweep.LocalCenter.SetZero()

	// Static and kinematic bodies have zero mass.
	if body.M_type == BodyType.StaticBody || body.M_type == BodyType.KinematicBody {
		body.M_sweep.C0 = body.M_xf.P
		body.M_sweep.C = body.M_xf.P
		body.M_sweep.A0 = body.M_sweep.A
		return
	}

	Assert(body.M_type == BodyType.DynamicBody)

	// Accumulate mass over all fixtures.
	localCenter := MakeVec2(0, 0)
	for f := body.M_fixtureList; f != nil; f = f.M_next {
		if f.M_density == 0.0 {
			continue
		}

		massData := NewMassData()
		f.GetMassData(massData)
		body.M_mass += massData.Mass
		localCenter.OperatorPlusInplace(Vec2MulScalar(massData.Mass, massData.Center))
		body.M_I += massData.I
	}

	// Compute center of mass.
	if body.M_mass > 0.0 {
		body.M_invMass = 1.0 / body.M_mass
		localCenter.OperatorScalarMulInplace(body.M_invMass)
	} else {
		// Force all dynamic bodies to have a positive mass.
		body.M_mass = 1.0
		body.M_invMass = 1.0
	}

	if body.M_I > 0.0 && (body.M_flags&Body_Flags.E_fixedRotationFlag) == 0 {
		// Center the inertia about the center of mass.
		body.M_I -= body.M_mass * Vec2Dot(localCenter, localCenter)
		Assert(body.M_I > 0.0)
		body.M_invI = 1.0 / body.M_I

	} else {
		body.M_I = 0.0
		body.M_invI = 0.0
	}

	// Move center of mass.
	oldCenter := body.M_sweep.C
	body.M_sweep.LocalCenter = localCenter
	body.M_sweep.C0 = TransformVec2Mul(body.M_xf, body.M_sweep.LocalCenter)
	body.M_sweep.C = TransformVec2Mul(body.M_xf, body.M_sweep.LocalCenter)

	// Update center of mass velocity.
	body.M_linearVelocity.OperatorPlusInplace(Vec2CrossScalarVector(
		body.M_angularVelocity,
		Vec2Sub(body.M_sweep.C, oldCenter),
	))
}

func (body *Body) SetMassData(massData *MassData) {

	Assert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return
	}

	if body.M_type != BodyType.DynamicBody {
		return
	}

	body.M_invMass = 0.0
	body.M_I = 0.0
	body.M_invI = 0.0

	body.M_mass = massData.Mass
	if body.M_mass <= 0.0 {
		body.M_mass = 1.0
	}

	body.M_invMass = 1.0 / body.M_mass

	if massData.I > 0.0 && (body.M_flags&Body_Flags.E_fixedRotationFlag) == 0 {
		body.M_I = massData.I - body.M_mass*Vec2Dot(massData.Center, massData.Center)
		Assert(body.M_I > 0.0)
		body.M_invI = 1.0 / body.M_I
	}

	// Move center of mass.
	oldCenter := body.M_sweep.C
	body.M_sweep.LocalCenter = massData.Center
	body.M_sweep.C0 = TransformVec2Mul(body.M_xf, body.M_sweep.LocalCenter)
	body.M_sweep.C = TransformVec2Mul(body.M_xf, body.M_sweep.LocalCenter)

	// Update center of mass velocity.
	body.M_linearVelocity.OperatorPlusInplace(
		Vec2CrossScalarVector(
			body.M_angularVelocity,
			Vec2Sub(body.M_sweep.C, oldCenter),
		),
	)
}

func (body Body) ShouldCollide(other *Body) bool {

	// At least one body should be dynamic.
	if body.M_type != BodyType.DynamicBody && other.M_type != BodyType.DynamicBody {
		return false
	}

	return true
}

func (body *Body) SetTransform(position Vec2, angle float64) {
	Assert(body.M_world.IsLocked() == false)

	if body.M_world.IsLocked() == true {
		return
	}

	body.M_xf.Q.Set(angle)
	body.M_xf.P = position

	body.M_sweep.C = TransformVec2Mul(body.M_xf, body.M_sweep.LocalCenter)
	body.M_sweep.A = angle

	body.M_sweep.C0 = body.M_sweep.C
	body.M_sweep.A0 = angle

	broadPhase := &body.M_world.M_contactManager.M_broadPhase
	for f := body.M_fixtureList; f != nil; f = f.M_next {
		broadPhase.Synchronize(f, body.M_xf, body.M_xf)
	}
}

func (body *Body) SynchronizeFixtures() {
	xf1 := MakeTransform()
	xf1.Q.Set(body.M_sweep.A0)
	xf1.P = Vec2Sub(body.M_sweep.C0, RotVec2Mul(xf1.Q, body.M_sweep.LocalCenter))

	broadPhase := &body.M_world.M_contactManager.M_broadPhase
	for f := body.M_fixtureList; f != nil; f = f.M_next {
		broadPhase.Synchronize(f, xf1, body.M_xf)
	}
}

func (body *Body) SetActive(flag bool) {

	Assert(body.M_world.IsLocked() == false)

	if flag == body.IsActive() {
		return
	}

	if flag {
		body.M_flags |= Body_Flags.E_activeFlag

		// Create all proxies.
		broadPhase := &body.M_world.M_contactManager.M_broadPhase
		for f := body.M_fixtureList; f != nil; f = f.M_next {
			broadPhase.Add(f)
		}

		// Contacts are created the next time step.
	} else {
		body.M_flags &= ^Body_Flags.E_activeFlag

		// Destroy all proxies.
		broadPhase := &body.M_world.M_contactManager.M_broadPhase
		for f := body.M_fixtureList; f != nil; f = f.M_next {
			broadPhase.Remove(f)
		}

		// Destroy the attached contacts.
		ce := body.M_contactList
		for ce != nil {
			ce0 := ce
			ce = ce.Next
			body.M_world.M_contactManager.Destroy(ce0.Contact)
		}

		body.M_contactList = nil
	}
}

func (body *Body) SetFixedRotation(flag bool) {
	status := (body.M_flags & Body_Flags.E_fixedRotationFlag) == Body_Flags.E_fixedRotationFlag

	if status == flag {
		return
	}

	if flag {
		body.M_flags |= Body_Flags.E_fixedRotationFlag
	} else {
		body.M_flags &= ^Body_Flags.E_fixedRotationFlag
	}

	body.M_angularVelocity = 0.0

	body.ResetMassData()
}
