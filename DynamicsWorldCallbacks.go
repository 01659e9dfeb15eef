package impact2d

import (
	"math"
)

type DestructionListenerInterface interface {
	/// Called when any fixture is about to be destroyed due
	/// to the destruction of its parent body.
	SayGoodbyeToFixture(fixture *Fixture)
}

type ContactFilterInterface interface {
	ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool
}

/// Contact impulses for reporting. Impulses are used instead of forces because
/// sub-step forces may approach infinity for rigid body collisions. These
/// match up one-to-one with the contact points in the constraint.
type ContactImpulse struct {
	NormalImpulses  [MaxManifoldPoints]float64
	TangentImpulses [MaxManifoldPoints]float64
	Count           int
}

func MakeContactImpulse() ContactImpulse {
	return ContactImpulse{}
}

/// A contact point event payload. Carries enough of the manifold point for a
/// listener to act on without reaching into the solver's state.
type ContactPoint struct {
	FixtureA *Fixture
	FixtureB *Fixture

	/// World normal pointing from fixtureA's shape to fixtureB's.
	Normal Vec2

	/// World point midway between the two surfaces.
	Point Vec2

	Depth float64

	Id ManifoldPointId
}

type ContactListenerInterface interface {
	/// Called once per manifold point of a sensing pair. Sensor pairs run
	/// the full narrow phase but are never resolved, so there is nothing
	/// to veto.
	Sensed(point ContactPoint)

	/// Called when a contact point appears where none existed last step.
	/// Return false to disable resolution of the owning constraint for
	/// this step. Detection bookkeeping is unaffected.
	Begin(point ContactPoint) bool

	/// Called when a contact point survived from the previous step, with
	/// the previous step's values. Return false to disable resolution.
	Persist(point ContactPoint, old ContactPoint) bool

	/// Called when a contact point from the previous step found no match.
	/// Return false to disable resolution of whatever remains of the
	/// constraint.
	End(point ContactPoint) bool

	/// This is called after a contact is updated and before it goes to the
	/// solver. A copy of the old manifold is provided so that you can detect
	/// changes.
	/// Note: this is called only for awake bodies.
	/// Note: this is not called for sensors.
	PreSolve(constraint *ContactConstraint, oldManifold Manifold)

	/// This lets you inspect a contact after the solver is finished. This is
	/// useful for inspecting impulses.
	/// Note: this is only called for contacts that are touching, solid, and
	/// awake.
	PostSolve(constraint *ContactConstraint, impulse *ContactImpulse)
}

/// A listener that accepts everything. Embed it to override a subset.
type DefaultContactListener struct {
}

func (listener DefaultContactListener) Sensed(point ContactPoint) {
}

func (listener DefaultContactListener) Begin(point ContactPoint) bool {
	return true
}

func (listener DefaultContactListener) Persist(point ContactPoint, old ContactPoint) bool {
	return true
}

func (listener DefaultContactListener) End(point ContactPoint) bool {
	return true
}

func (listener DefaultContactListener) PreSolve(constraint *ContactConstraint, oldManifold Manifold) {
}

func (listener DefaultContactListener) PostSolve(constraint *ContactConstraint, impulse *ContactImpulse) {
}

/// Mixes the friction and restitution of the two fixtures of a constraint
/// into the effective coefficients the solver uses.
type CoefficientMixerInterface interface {
	MixFriction(friction1 float64, friction2 float64) float64
	MixRestitution(restitution1 float64, restitution2 float64) float64
}

type DefaultCoefficientMixer struct {
}

/// Friction mixing law. The idea is to allow either fixture to drive the
/// friction to zero. For example, anything slides on ice.
func (mixer DefaultCoefficientMixer) MixFriction(friction1 float64, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

/// Restitution mixing law. The idea is allow for anything to bounce off an
/// inelastic surface. For example, a superball bounces on anything.
func (mixer DefaultCoefficientMixer) MixRestitution(restitution1 float64, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}

	return restitution2
}

///////////////////////////////////////////////////////////////////////////////

type ContactFilter struct {
}

// Return true if contact calculations should be performed between these two shapes.
// If you implement your own collision filter you may want to build from this implementation.
func (cf *ContactFilter) ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool {
	filterA := fixtureA.GetFilterData()
	filterB := fixtureB.GetFilterData()

	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	collide := (filterA.MaskBits&filterB.CategoryBits) != 0 && (filterA.CategoryBits&filterB.MaskBits) != 0
	return collide
}

/// Called for each fixture found in the query. You control how the ray cast
/// proceeds by returning a float:
/// return -1: ignore this fixture and continue
/// return 0: terminate the ray cast
/// return fraction: clip the ray to this point
/// return 1: don't clip the ray and continue
/// @param fixture the fixture hit by the ray
/// @param point the point of initial intersection
/// @param normal the normal vector at the point of intersection
/// @return -1 to filter, 0 to terminate, fraction to clip the ray for
/// closest hit, 1 to continue
type RaycastCallback func(fixture *Fixture, point Vec2, normal Vec2, fraction float64) float64
