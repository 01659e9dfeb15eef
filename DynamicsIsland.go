package impact2d

import (
	"math"
)

/// A group of bodies connected by touching, resolvable contacts, solved as
/// one unit. Body state is copied into compact position and velocity arrays
/// for the solver passes and written back afterwards; the constraint
/// structures reference bodies by island index only.
type Island struct {
	M_listener ContactListenerInterface

	M_bodies   []*Body
	M_contacts []*ContactConstraint

	M_positions  []Position
	M_velocities []Velocity

	M_bodyCount    int
	M_contactCount int

	M_bodyCapacity    int
	M_contactCapacity int
}

func MakeIsland(bodyCapacity int, contactCapacity int, listener ContactListenerInterface) Island {

	island := Island{}

	island.M_bodyCapacity = bodyCapacity
	island.M_contactCapacity = contactCapacity
	island.M_bodyCount = 0
	island.M_contactCount = 0

	island.M_listener = listener

	island.M_bodies = make([]*Body, bodyCapacity)
	island.M_contacts = make([]*ContactConstraint, contactCapacity)

	island.M_velocities = make([]Velocity, bodyCapacity)
	island.M_positions = make([]Position, bodyCapacity)

	return island
}

func (island *Island) Clear() {
	island.M_bodyCount = 0
	island.M_contactCount = 0
}

func (island *Island) AddBody(body *Body) {
	Assert(island.M_bodyCount < island.M_bodyCapacity)
	body.M_islandIndex = island.M_bodyCount
	island.M_bodies[island.M_bodyCount] = body
	island.M_bodyCount++
}

func (island *Island) AddContact(contact *ContactConstraint) {
	Assert(island.M_contactCount < island.M_contactCapacity)
	island.M_contacts[island.M_contactCount] = contact
	island.M_contactCount++
}

func (island *Island) Solve(profile *Profile, step TimeStep, settings Settings, gravity Vec2, allowSleep bool) {

	timer := MakeTimer()

	h := step.Dt

	// Integrate velocities and apply damping. Initialize the body state.
	for i := 0; i < island.M_bodyCount; i++ {
		b := island.M_bodies[i]

		c := b.M_sweep.C
		a := b.M_sweep.A
		v := b.M_linearVelocity
		w := b.M_angularVelocity

		// Store positions for continuous collision.
		b.M_sweep.C0 = b.M_sweep.C
		b.M_sweep.A0 = b.M_sweep.A

		if b.M_type == BodyType.DynamicBody {

			// Integrate velocities.
			v.OperatorPlusInplace(Vec2MulScalar(h*b.M_gravityScale, gravity))

			// Apply damping.
			// ODE: dv/dt + c * v = 0
			// Solution: v(t) = v0 * exp(-c * t)
			// Pade approximation:
			// v2 = v1 * 1 / (1 + c * dt)
			v.OperatorScalarMulInplace(1.0 / (1.0 + h*b.M_linearDamping))
			w *= 1.0 / (1.0 + h*b.M_angularDamping)
		}

		island.M_positions[i].C = c
		island.M_positions[i].A = a
		island.M_velocities[i].V = v
		island.M_velocities[i].W = w
	}

	timer.Reset()

	// Initialize velocity constraints.
	contactSolverDef := MakeContactSolverDef()
	contactSolverDef.Step = step
	contactSolverDef.Settings = settings
	contactSolverDef.Contacts = island.M_contacts
	contactSolverDef.Count = island.M_contactCount
	contactSolverDef.Positions = island.M_positions
	contactSolverDef.Velocities = island.M_velocities

	contactSolver := MakeContactSolver(&contactSolverDef)
	contactSolver.InitializeVelocityConstraints()

	if step.WarmStarting {
		contactSolver.WarmStart()
	}

	profile.SolveInit = timer.GetMilliseconds()

	// Solve velocity constraints
	timer.Reset()
	for i := 0; i < step.VelocityIterations; i++ {
		contactSolver.SolveVelocityConstraints()
	}

	// Store impulses for warm starting
	contactSolver.StoreImpulses()
	profile.SolveVelocity = timer.GetMilliseconds()

	// Integrate positions
	for i := 0; i < island.M_bodyCount; i++ {
		c := island.M_positions[i].C
		a := island.M_positions[i].A
		v := island.M_velocities[i].V
		w := island.M_velocities[i].W

		// Check for large velocities
		translation := Vec2MulScalar(h, v)
		if Vec2Dot(translation, translation) > MaxTranslationSquared {
			ratio := MaxTranslation / translation.Length()
			v.OperatorScalarMulInplace(ratio)
		}

		rotation := h * w
		if rotation*rotation > MaxRotationSquared {
			ratio := MaxRotation / math.Abs(rotation)
			w *= ratio
		}

		// Integrate
		c.OperatorPlusInplace(Vec2MulScalar(h, v))
		a += h * w

		island.M_positions[i].C = c
		island.M_positions[i].A = a
		island.M_velocities[i].V = v
		island.M_velocities[i].W = w
	}

	// Solve position constraints
	timer.Reset()
	positionSolved := false
	for i := 0; i < step.PositionIterations; i++ {
		contactsOkay := contactSolver.SolvePositionConstraints()

		if contactsOkay {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies
	for i := 0; i < island.M_bodyCount; i++ {
		body := island.M_bodies[i]
		body.M_sweep.C = island.M_positions[i].C
		body.M_sweep.A = island.M_positions[i].A
		body.M_linearVelocity = island.M_velocities[i].V
		body.M_angularVelocity = island.M_velocities[i].W
		body.SynchronizeTransform()
	}

	profile.SolvePosition = timer.GetMilliseconds()

	island.Report(contactSolver.M_velocityConstraints)

	if allowSleep {
		minSleepTime := MaxFloat

		linTolSqr := LinearSleepTolerance * LinearSleepTolerance
		angTolSqr := AngularSleepTolerance * AngularSleepTolerance

		for i := 0; i < island.M_bodyCount; i++ {
			b := island.M_bodies[i]
			if b.GetType() == BodyType.StaticBody {
				continue
			}

			if (b.M_flags&Body_Flags.E_autoSleepFlag) == 0 || b.M_angularVelocity*b.M_angularVelocity > angTolSqr || Vec2Dot(b.M_linearVelocity, b.M_linearVelocity) > linTolSqr {
				b.M_sleepTime = 0.0
				minSleepTime = 0.0
			} else {
				b.M_sleepTime += h
				minSleepTime = math.Min(minSleepTime, b.M_sleepTime)
			}
		}

		if minSleepTime >= TimeToSleep && positionSolved {
			for i := 0; i < island.M_bodyCount; i++ {
				b := island.M_bodies[i]
				b.SetAwake(false)
			}
		}
	}
}

func (island *Island) Report(constraints []ContactVelocityConstraint) {
	if island.M_listener == nil {
		return
	}

	for i := 0; i < island.M_contactCount; i++ {
		c := island.M_contacts[i]

		vc := constraints[i]

		impulse := MakeContactImpulse()
		impulse.Count = vc.PointCount

		for j := 0; j < vc.PointCount; j++ {
			impulse.NormalImpulses[j] = vc.Points[j].NormalImpulse
			impulse.TangentImpulses[j] = vc.Points[j].TangentImpulse
		}

		island.M_listener.PostSolve(c, &impulse)
	}
}
