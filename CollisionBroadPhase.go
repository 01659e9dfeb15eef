package impact2d

/// An overlapping fixture pair reported by the broad-phase.
type BroadphasePair struct {
	FixtureA *Fixture
	FixtureB *Fixture
}

/// Pre-filters broad-phase pairs. Return false to drop the pair before
/// it is reported.
type BroadphaseFilter func(fixtureA *Fixture, fixtureB *Fixture) bool

/// Called once per candidate fixture of a region query or a ray cast.
/// Return false to terminate the query.
type BroadphaseQueryCallback func(fixture *Fixture) bool

/// The broad-phase indexes fixtures in a dynamic AABB tree so the
/// narrow-phase only runs on pairs whose fat AABBs overlap.
type BroadPhase struct {
	M_tree DynamicTree

	M_proxyCount int
}

func MakeBroadPhase() BroadPhase {
	return MakeBroadPhaseWithMargin(AabbExtension)
}

func MakeBroadPhaseWithMargin(margin float64) BroadPhase {
	return BroadPhase{
		M_tree:       MakeDynamicTreeWithMargin(margin),
		M_proxyCount: 0,
	}
}

func NewBroadPhase() *BroadPhase {
	res := MakeBroadPhase()
	return &res
}

/// Add a fixture to the broad-phase. A fixture without a shape has no
/// volume to index and is ignored. Adding the same fixture twice is
/// undefined.
func (bp *BroadPhase) Add(fixture *Fixture) {
	assertArg(fixture != nil, "fixture must not be nil")

	if fixture.M_shape == nil {
		return
	}

	aabb := MakeAABB()
	fixture.M_shape.ComputeAABB(&aabb, fixture.M_body.M_xf)

	fixture.M_proxyId = bp.M_tree.CreateProxy(aabb, fixture)
	bp.M_proxyCount++
}

/// Remove a fixture from the broad-phase. Returns false when the fixture
/// was never added.
func (bp *BroadPhase) Remove(fixture *Fixture) bool {
	assertArg(fixture != nil, "fixture must not be nil")

	if fixture.M_proxyId == NullNode {
		return false
	}

	bp.M_tree.DestroyProxy(fixture.M_proxyId)
	fixture.M_proxyId = NullNode
	bp.M_proxyCount--

	return true
}

/// Update a fixture after its body transform changed. A fixture that was
/// never added is added instead.
func (bp *BroadPhase) Update(fixture *Fixture) {
	assertArg(fixture != nil, "fixture must not be nil")

	if fixture.M_proxyId == NullNode {
		bp.Add(fixture)
		return
	}

	xf := fixture.M_body.M_xf
	bp.Synchronize(fixture, xf, xf)
}

/// Move a fixture's proxy so it covers the swept shape between the two
/// transforms. The proxy is only reinserted when the fat AABB no longer
/// contains the swept AABB.
func (bp *BroadPhase) Synchronize(fixture *Fixture, transform1 Transform, transform2 Transform) {
	if fixture.M_proxyId == NullNode {
		return
	}

	// Compute an AABB that covers the swept shape (may miss some rotation effect).
	aabb1 := MakeAABB()
	aabb2 := MakeAABB()
	fixture.M_shape.ComputeAABB(&aabb1, transform1)
	fixture.M_shape.ComputeAABB(&aabb2, transform2)

	aabb := aabb1.Combine(aabb2)

	displacement := Vec2Sub(aabb2.GetCenter(), aabb1.GetCenter())

	bp.M_tree.MoveProxy(fixture.M_proxyId, aabb, displacement)
}

/// Test overlap of the fat AABBs of two fixtures.
func (bp BroadPhase) TestOverlap(fixtureA *Fixture, fixtureB *Fixture) bool {
	assertArg(fixtureA != nil && fixtureB != nil, "fixture must not be nil")

	if fixtureA.M_proxyId == NullNode || fixtureB.M_proxyId == NullNode {
		return false
	}

	return TestOverlapBoundingBoxes(
		bp.M_tree.GetFatAABB(fixtureA.M_proxyId),
		bp.M_tree.GetFatAABB(fixtureB.M_proxyId),
	)
}

/// Get the fat AABB of a fixture. For a fixture that was never added the
/// tight AABB at the body's current transform is computed instead.
func (bp BroadPhase) GetFatAABB(fixture *Fixture) AABB {
	assertArg(fixture != nil, "fixture must not be nil")

	if fixture.M_proxyId == NullNode {
		aabb := MakeAABB()
		fixture.M_shape.ComputeAABB(&aabb, fixture.M_body.M_xf)
		return aabb
	}

	return bp.M_tree.GetFatAABB(fixture.M_proxyId)
}

/// Find all pairs of fixtures whose fat AABBs overlap. Each unordered
/// pair appears exactly once. The filter, when not nil, runs before a
/// pair is added.
func (bp *BroadPhase) Detect(filter BroadphaseFilter) []BroadphasePair {
	pairs := make([]BroadphasePair, 0, bp.M_proxyCount)

	var treeFilter TreeDetectFilter
	if filter != nil {
		treeFilter = func(userDataA interface{}, userDataB interface{}) bool {
			return filter(userDataA.(*Fixture), userDataB.(*Fixture))
		}
	}

	bp.M_tree.DetectPairs(treeFilter, func(userDataA interface{}, userDataB interface{}) {
		pairs = append(pairs, BroadphasePair{
			FixtureA: userDataA.(*Fixture),
			FixtureB: userDataB.(*Fixture),
		})
	})

	return pairs
}

/// Find all fixtures whose fat AABBs overlap the given region.
func (bp *BroadPhase) DetectAABB(aabb *AABB, callback BroadphaseQueryCallback) {
	assertArg(aabb != nil, "query region must not be nil")

	bp.M_tree.Query(func(nodeId int) bool {
		return callback(bp.M_tree.GetUserData(nodeId).(*Fixture))
	}, *aabb)
}

/// Find all fixtures whose fat AABBs overlap the ray over the given
/// length. A length of zero or less casts across the whole tree. This is
/// a pre-filter: candidates still need an exact shape ray cast.
func (bp *BroadPhase) Raycast(ray *Ray, length float64, callback BroadphaseQueryCallback) {
	assertArg(ray != nil, "ray must not be nil")

	if bp.M_tree.M_root == NullNode {
		return
	}

	l := length
	if l <= 0.0 {
		// Span the whole tree from the ray start.
		rootAabb := bp.M_tree.GetFatAABB(bp.M_tree.M_root)
		l = Vec2Distance(ray.Start, rootAabb.GetCenter()) + rootAabb.GetExtents().Length()
	}

	input := MakeRayCastInput()
	input.P1 = ray.Start
	input.P2 = Vec2Add(ray.Start, Vec2MulScalar(l, ray.Direction))
	input.MaxFraction = 1.0

	bp.M_tree.RayCast(func(subInput RayCastInput, nodeId int) float64 {
		if callback(bp.M_tree.GetUserData(nodeId).(*Fixture)) {
			// Keep the full segment; exact clipping is the caller's job.
			return subInput.MaxFraction
		}
		return 0.0
	}, input)
}

/// Cast a segment against the tree with fraction control. The callback may
/// shorten the remaining segment by returning a smaller fraction, or stop
/// the cast by returning zero.
func (bp BroadPhase) RayCast(rayCastCallback TreeRayCastCallback, input RayCastInput) {
	bp.M_tree.RayCast(rayCastCallback, input)
}

func (bp BroadPhase) GetProxyCount() int {
	return bp.M_proxyCount
}

func (bp BroadPhase) GetTreeHeight() int {
	return bp.M_tree.GetHeight()
}

func (bp BroadPhase) GetTreeBalance() int {
	return bp.M_tree.GetMaxBalance()
}

func (bp BroadPhase) GetTreeQuality() float64 {
	return bp.M_tree.GetAreaRatio()
}

func (bp *BroadPhase) ShiftOrigin(newOrigin Vec2) {
	bp.M_tree.ShiftOrigin(newOrigin)
}
