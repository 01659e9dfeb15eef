package impact2d

/// This holds contact filtering data.
type Filter struct {
	/// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	/// The collision mask bits. This states the categories that this
	/// shape would accept for collision.
	MaskBits uint16

	/// Collision groups allow a certain group of objects to never collide (negative)
	/// or always collide (positive). Zero means no collision group. Non-zero group
	/// filtering always wins against the mask bits.
	GroupIndex int16
}

func MakeFilter() Filter {
	return Filter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
		GroupIndex:   0,
	}
}

/// A fixture definition is used to create a fixture. This class defines an
/// abstract fixture definition. You can reuse fixture definitions safely.
type FixtureDef struct {

	/// The shape, this must be set. The shape will be cloned, so you
	/// can create the shape on the stack.
	Shape ShapeInterface

	/// Use this to store application specific fixture data.
	UserData interface{}

	/// The friction coefficient, usually in the range [0,1].
	Friction float64

	/// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	/// The density, usually in kg/m^2.
	Density float64

	/// A sensor shape collects contact information but never generates a collision
	/// response.
	IsSensor bool

	/// Contact filtering data.
	Filter Filter
}

/// The constructor sets the default fixture definition values.
func MakeFixtureDef() FixtureDef {
	return FixtureDef{
		Shape:       nil,
		UserData:    nil,
		Friction:    0.2,
		Restitution: 0.0,
		Density:     0.0,
		IsSensor:    false,
		Filter:      MakeFilter(),
	}
}

/// A fixture is used to attach a shape to a body for collision detection. A fixture
/// inherits its transform from its parent. Fixtures hold additional non-geometric data
/// such as friction, collision filters, etc.
/// Fixtures are created via Body.CreateFixture.
/// @warning you cannot reuse fixtures.
type Fixture struct {
	M_density float64

	M_next *Fixture
	M_body *Body

	M_shape ShapeInterface

	M_friction    float64
	M_restitution float64

	/// The broad-phase proxy, or NullNode while the fixture is not indexed.
	M_proxyId int

	M_filter Filter

	M_isSensor bool

	M_userData interface{}
}

func NewFixture() *Fixture {
	return &Fixture{
		M_next:    nil,
		M_body:    nil,
		M_proxyId: NullNode,
		M_filter:  MakeFilter(),
	}
}

func (fix Fixture) GetType() uint8 {
	return fix.M_shape.GetType()
}

func (fix Fixture) GetShape() ShapeInterface {
	return fix.M_shape
}

func (fix Fixture) IsSensor() bool {
	return fix.M_isSensor
}

func (fix Fixture) GetFilterData() Filter {
	return fix.M_filter
}

func (fix Fixture) GetUserData() interface{} {
	return fix.M_userData
}

func (fix *Fixture) SetUserData(data interface{}) {
	fix.M_userData = data
}

func (fix Fixture) GetBody() *Body {
	return fix.M_body
}

func (fix Fixture) GetNext() *Fixture {
	return fix.M_next
}

func (fix *Fixture) SetDensity(density float64) {
	Assert(IsValidFloat(density) && density >= 0.0)
	fix.M_density = density
}

func (fix Fixture) GetDensity() float64 {
	return fix.M_density
}

func (fix Fixture) GetFriction() float64 {
	return fix.M_friction
}

func (fix *Fixture) SetFriction(friction float64) {
	fix.M_friction = friction
}

func (fix Fixture) GetRestitution() float64 {
	return fix.M_restitution
}

func (fix *Fixture) SetRestitution(restitution float64) {
	fix.M_restitution = restitution
}

func (fix Fixture) TestPoint(p Vec2) bool {
	return fix.M_shape.TestPoint(fix.M_body.GetTransform(), p)
}

func (fix Fixture) RayCast(output *RayCastOutput, input RayCastInput) bool {
	return fix.M_shape.RayCast(output, input, fix.M_body.GetTransform())
}

func (fix Fixture) GetMassData(massData *MassData) {
	fix.M_shape.ComputeMass(massData, fix.M_density)
}

/// The tight AABB of the shape at the body's current transform. The
/// broad-phase keeps a fattened copy; see BroadPhase.GetFatAABB.
func (fix Fixture) GetAABB() AABB {
	aabb := MakeAABB()
	fix.M_shape.ComputeAABB(&aabb, fix.M_body.GetTransform())
	return aabb
}

///////////////////////////////////////////////////////////////////////////////

func MakeFixture() Fixture {
	return Fixture{
		M_userData: nil,
		M_body:     nil,
		M_next:     nil,
		M_proxyId:  NullNode,
		M_shape:    nil,
		M_density:  0.0,
	}
}

func (fix *Fixture) Create(body *Body, def *FixtureDef) {
	fix.M_userData = def.UserData
	fix.M_friction = def.Friction
	fix.M_restitution = def.Restitution

	fix.M_body = body
	fix.M_next = nil

	fix.M_filter = def.Filter

	fix.M_isSensor = def.IsSensor

	// A fixture may carry no shape; the broad-phase skips it.
	if def.Shape != nil {
		fix.M_shape = def.Shape.Clone()
	}

	fix.M_proxyId = NullNode

	fix.M_density = def.Density
}

func (fix *Fixture) Destroy() {

	// The broad-phase proxy must be removed before calling this.
	Assert(fix.M_proxyId == NullNode)

	fix.M_shape = nil
}

func (fix *Fixture) SetFilterData(filter Filter) {
	fix.M_filter = filter
	fix.Refilter()
}

func (fix *Fixture) Refilter() {

	if fix.M_body == nil {
		return
	}

	// Flag associated contacts for filtering. The next full broad-phase
	// pass re-evaluates any new pairs on its own.
	edge := fix.M_body.GetContactList()
	for edge != nil {
		contact := edge.Contact
		fixtureA := contact.GetFixtureA()
		fixtureB := contact.GetFixtureB()
		if fixtureA == fix || fixtureB == fix {
			contact.FlagForFiltering()
		}

		edge = edge.Next
	}
}

func (fix *Fixture) SetSensor(sensor bool) {
	if sensor != fix.M_isSensor {
		fix.M_body.SetAwake(true)
		fix.M_isSensor = sensor
	}
}
