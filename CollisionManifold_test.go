package impact2d_test

import (
	"math"
	"testing"

	"github.com/impact2d/impact2d"
)

func satManifold(t *testing.T, shape1 impact2d.ShapeInterface, xf1 impact2d.Transform, shape2 impact2d.ShapeInterface, xf2 impact2d.Transform) impact2d.Manifold {
	t.Helper()

	sat := impact2d.MakeSat()
	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(shape1, xf1, shape2, xf2, &pen) {
		t.Fatalf("shapes do not overlap")
	}

	solver := impact2d.MakeClippingManifoldSolver()
	manifold := impact2d.MakeManifold()
	if !solver.GetManifold(pen, shape1, xf1, shape2, xf2, &manifold) {
		t.Fatalf("no manifold for overlapping shapes")
	}

	return manifold
}

// Order the points bottom to top so assertions do not depend on the
// incident edge winding.
func sortManifoldByY(manifold *impact2d.Manifold) {
	if manifold.PointCount == 2 && manifold.Points[0].Point.Y > manifold.Points[1].Point.Y {
		manifold.Points[0], manifold.Points[1] = manifold.Points[1], manifold.Points[0]
	}
}

func TestClipSegmentToLineKeepsPointsBehind(t *testing.T) {
	vIn := []impact2d.ClipVertex{
		{V: impact2d.MakeVec2(0, 0), Index: 0},
		{V: impact2d.MakeVec2(0.5, 1), Index: 1},
	}
	vOut := make([]impact2d.ClipVertex, 2)

	np := impact2d.ClipSegmentToLine(vOut, vIn, impact2d.MakeVec2(1, 0), 1.0)
	if np != 2 {
		t.Fatalf("clip kept %d points, want 2", np)
	}
	checkVec2(t, "first point", vOut[0].V, 0, 0, 0)
	checkVec2(t, "second point", vOut[1].V, 0.5, 1, 0)
	if vOut[0].Index != 0 || vOut[1].Index != 1 {
		t.Fatalf("kept points changed their indices: %d %d", vOut[0].Index, vOut[1].Index)
	}
}

func TestClipSegmentToLineStraddleInheritsCutIndex(t *testing.T) {
	vIn := []impact2d.ClipVertex{
		{V: impact2d.MakeVec2(-1, 0), Index: 3},
		{V: impact2d.MakeVec2(1, 2), Index: 7},
	}
	vOut := make([]impact2d.ClipVertex, 2)

	np := impact2d.ClipSegmentToLine(vOut, vIn, impact2d.MakeVec2(1, 0), 0.0)
	if np != 2 {
		t.Fatalf("clip kept %d points, want 2", np)
	}

	checkVec2(t, "kept point", vOut[0].V, -1, 0, 0)
	if vOut[0].Index != 3 {
		t.Fatalf("kept point index is %d, want 3", vOut[0].Index)
	}

	// The interpolated replacement sits on the plane and carries the index
	// of the point it cut away.
	checkVec2(t, "interpolated point", vOut[1].V, 0, 1, 1e-12)
	if vOut[1].Index != 7 {
		t.Fatalf("interpolated point index is %d, want 7", vOut[1].Index)
	}
}

func TestClipSegmentToLineAllInFront(t *testing.T) {
	vIn := []impact2d.ClipVertex{
		{V: impact2d.MakeVec2(0, 0), Index: 0},
		{V: impact2d.MakeVec2(1, 1), Index: 1},
	}
	vOut := make([]impact2d.ClipVertex, 2)

	np := impact2d.ClipSegmentToLine(vOut, vIn, impact2d.MakeVec2(1, 0), -2.0)
	if np != 0 {
		t.Fatalf("clip kept %d points, want 0", np)
	}
}

func TestManifoldBoxesTwoPoints(t *testing.T) {
	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	manifold := satManifold(t, &boxA, transformAt(0, 0), &boxB, transformAt(0.7, 0))

	if manifold.PointCount != 2 {
		t.Fatalf("box-box manifold has %d points, want 2", manifold.PointCount)
	}
	checkVec2(t, "normal", manifold.Normal, 1, 0, 1e-9)

	sortManifoldByY(&manifold)
	checkVec2(t, "lower point", manifold.Points[0].Point, 0.35, -0.5, 1e-9)
	checkVec2(t, "upper point", manifold.Points[1].Point, 0.35, 0.5, 1e-9)

	for i := 0; i < 2; i++ {
		pt := manifold.Points[i]
		checkFloat(t, "depth", pt.Depth, 0.3, 1e-9)
		if pt.Id.Type != impact2d.ManifoldPointId_Type.E_indexed {
			t.Errorf("point %d id is not indexed", i)
		}
		if pt.Id.Flipped {
			t.Errorf("point %d flagged flipped, reference should stay on the first shape", i)
		}
	}
	if manifold.Points[0].Id == manifold.Points[1].Id {
		t.Fatalf("the two points share an id")
	}
}

func TestManifoldBoxesSwappedOrder(t *testing.T) {
	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	manifold := satManifold(t, &boxB, transformAt(0.7, 0), &boxA, transformAt(0, 0))

	if manifold.PointCount != 2 {
		t.Fatalf("swapped manifold has %d points, want 2", manifold.PointCount)
	}

	// The normal flips with the argument order but the contact points are
	// the same world positions.
	checkVec2(t, "swapped normal", manifold.Normal, -1, 0, 1e-9)

	sortManifoldByY(&manifold)
	checkVec2(t, "lower point", manifold.Points[0].Point, 0.35, -0.5, 1e-9)
	checkVec2(t, "upper point", manifold.Points[1].Point, 0.35, 0.5, 1e-9)
	checkFloat(t, "depth", manifold.Points[0].Depth, 0.3, 1e-9)
}

func TestManifoldVertexFeatureSinglePoint(t *testing.T) {
	box := impact2d.MakePolygonShape()
	box.SetAsBox(0.5, 0.5)
	circle := impact2d.MakeCircleShape()
	circle.M_radius = 0.5

	manifold := satManifold(t, &box, transformAt(0, 0), &circle, transformAt(0.9, 0))

	if manifold.PointCount != 1 {
		t.Fatalf("box-circle manifold has %d points, want 1", manifold.PointCount)
	}
	checkVec2(t, "normal", manifold.Normal, 1, 0, 1e-9)
	checkVec2(t, "point", manifold.Points[0].Point, 0.45, 0, 1e-9)
	checkFloat(t, "depth", manifold.Points[0].Depth, 0.1, 1e-9)
	if manifold.Points[0].Id != impact2d.ManifoldPointId_Distance {
		t.Fatalf("vertex feature point should carry the distance id, got %+v", manifold.Points[0].Id)
	}

	// Circle first: the normal flips, the world point stays.
	manifold = satManifold(t, &circle, transformAt(0.9, 0), &box, transformAt(0, 0))
	if manifold.PointCount != 1 {
		t.Fatalf("circle-box manifold has %d points, want 1", manifold.PointCount)
	}
	checkVec2(t, "flipped normal", manifold.Normal, -1, 0, 1e-9)
	checkVec2(t, "flipped point", manifold.Points[0].Point, 0.45, 0, 1e-9)
	checkFloat(t, "flipped depth", manifold.Points[0].Depth, 0.1, 1e-9)
}

func TestManifoldCapsuleSideTwoPoints(t *testing.T) {
	box := impact2d.MakePolygonShape()
	box.SetAsBox(0.5, 0.5)
	capsule := impact2d.MakeCapsuleShape()
	capsule.Set(2.0, 1.0)

	// The capsule lies flat on the box top. Its offset side makes a full
	// edge contact clipped down to the box's width.
	manifold := satManifold(t, &box, transformAt(0, 0), &capsule, transformAt(0, 0.9))

	if manifold.PointCount != 2 {
		t.Fatalf("box-capsule manifold has %d points, want 2", manifold.PointCount)
	}
	checkVec2(t, "normal", manifold.Normal, 0, 1, 1e-9)

	if manifold.Points[0].Point.X > manifold.Points[1].Point.X {
		manifold.Points[0], manifold.Points[1] = manifold.Points[1], manifold.Points[0]
	}
	checkVec2(t, "left point", manifold.Points[0].Point, -0.5, 0.45, 1e-9)
	checkVec2(t, "right point", manifold.Points[1].Point, 0.5, 0.45, 1e-9)
	checkFloat(t, "depth", manifold.Points[0].Depth, 0.1, 1e-9)
	checkFloat(t, "depth", manifold.Points[1].Depth, 0.1, 1e-9)
}

func TestManifoldFlippedReference(t *testing.T) {
	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	// Tilt the first box so its candidate edge is less perpendicular to the
	// collision normal than the second box's face. The reference edge moves
	// to the second shape and the ids flag the flip.
	tilted := impact2d.MakeTransformByPositionAndAngle(impact2d.MakeVec2(0, 0), 0.1)
	manifold := satManifold(t, &boxA, tilted, &boxB, transformAt(0.9, 0))

	if manifold.PointCount != 2 {
		t.Fatalf("tilted manifold has %d points, want 2", manifold.PointCount)
	}

	// The reference face belongs to the axis aligned box, so the normal is
	// exactly horizontal even though the first shape is rotated.
	checkVec2(t, "normal", manifold.Normal, 1, 0, 1e-12)

	maxDepth := 0.0
	for i := 0; i < 2; i++ {
		pt := manifold.Points[i]
		if !pt.Id.Flipped {
			t.Errorf("point %d id not flagged flipped", i)
		}
		if pt.Depth < 0 {
			t.Errorf("point %d has negative depth %g", i, pt.Depth)
		}
		maxDepth = math.Max(maxDepth, pt.Depth)
	}

	// The deepest point is the tilted corner reaching past the second
	// box's face at x = 0.4.
	want := 0.5*math.Cos(0.1) + 0.5*math.Sin(0.1) - 0.4
	checkFloat(t, "max depth", maxDepth, want, 1e-9)
}

func TestManifoldPointsMatchIndexed(t *testing.T) {
	idA := impact2d.ManifoldPointId{
		Type:           impact2d.ManifoldPointId_Type.E_indexed,
		ReferenceEdge:  1,
		IncidentEdge:   3,
		IncidentVertex: 0,
	}
	idB := idA
	idB.IncidentVertex = 1

	// Indexed ids match on identity, even when the points drifted apart.
	a := impact2d.ManifoldPoint{Id: idA, Point: impact2d.MakeVec2(0, 0)}
	b := impact2d.ManifoldPoint{Id: idA, Point: impact2d.MakeVec2(5, 5)}
	if !impact2d.ManifoldPointsMatch(&a, &b, impact2d.WarmStartDistance) {
		t.Fatalf("identical indexed ids did not match")
	}

	b.Id = idB
	b.Point = a.Point
	if impact2d.ManifoldPointsMatch(&a, &b, impact2d.WarmStartDistance) {
		t.Fatalf("different indexed ids matched")
	}

	// An indexed id never matches a distance id.
	b.Id = impact2d.ManifoldPointId_Distance
	if impact2d.ManifoldPointsMatch(&a, &b, impact2d.WarmStartDistance) {
		t.Fatalf("indexed id matched a distance id")
	}
}

func TestManifoldPointsMatchDistance(t *testing.T) {
	a := impact2d.ManifoldPoint{Id: impact2d.ManifoldPointId_Distance, Point: impact2d.MakeVec2(0, 0)}
	b := impact2d.ManifoldPoint{Id: impact2d.ManifoldPointId_Distance, Point: impact2d.MakeVec2(0.09, 0)}

	// The threshold compares squared distances, so points within a tenth
	// of a unit still identify the same contact.
	if !impact2d.ManifoldPointsMatch(&a, &b, impact2d.WarmStartDistance) {
		t.Fatalf("nearby distance points did not match")
	}

	b.Point = impact2d.MakeVec2(0.11, 0)
	if impact2d.ManifoldPointsMatch(&a, &b, impact2d.WarmStartDistance) {
		t.Fatalf("distant points matched")
	}
}

func TestGetPointStates(t *testing.T) {
	idX := impact2d.ManifoldPointId{Type: impact2d.ManifoldPointId_Type.E_indexed, ReferenceEdge: 1, IncidentEdge: 3, IncidentVertex: 0}
	idY := impact2d.ManifoldPointId{Type: impact2d.ManifoldPointId_Type.E_indexed, ReferenceEdge: 1, IncidentEdge: 3, IncidentVertex: 1}
	idZ := impact2d.ManifoldPointId{Type: impact2d.ManifoldPointId_Type.E_indexed, ReferenceEdge: 2, IncidentEdge: 0, IncidentVertex: 1}

	m1 := impact2d.MakeManifold()
	m1.PointCount = 2
	m1.Points[0] = impact2d.ManifoldPoint{Id: idX, Point: impact2d.MakeVec2(0, 0)}
	m1.Points[1] = impact2d.ManifoldPoint{Id: idY, Point: impact2d.MakeVec2(1, 0)}

	m2 := impact2d.MakeManifold()
	m2.PointCount = 2
	m2.Points[0] = impact2d.ManifoldPoint{Id: idY, Point: impact2d.MakeVec2(1, 0)}
	m2.Points[1] = impact2d.ManifoldPoint{Id: idZ, Point: impact2d.MakeVec2(2, 0)}

	var state1, state2 [impact2d.MaxManifoldPoints]uint8
	impact2d.GetPointStates(&state1, &state2, &m1, &m2)

	if state1[0] != impact2d.PointState.RemoveState {
		t.Errorf("dropped point state is %d, want remove", state1[0])
	}
	if state1[1] != impact2d.PointState.PersistState {
		t.Errorf("kept point state is %d, want persist", state1[1])
	}
	if state2[0] != impact2d.PointState.PersistState {
		t.Errorf("carried point state is %d, want persist", state2[0])
	}
	if state2[1] != impact2d.PointState.AddState {
		t.Errorf("new point state is %d, want add", state2[1])
	}
}

// Sliding the incident box a little keeps the same feature ids, so every
// point persists and carries its accumulated impulse across the update.
func TestManifoldIdsStableUnderSmallSlide(t *testing.T) {
	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	before := satManifold(t, &boxA, transformAt(0, 0), &boxB, transformAt(0.7, 0))
	after := satManifold(t, &boxA, transformAt(0, 0), &boxB, transformAt(0.7, 0.03))

	if before.PointCount != 2 || after.PointCount != 2 {
		t.Fatalf("point counts %d and %d, want 2 and 2", before.PointCount, after.PointCount)
	}

	var state1, state2 [impact2d.MaxManifoldPoints]uint8
	impact2d.GetPointStates(&state1, &state2, &before, &after)

	for i := 0; i < 2; i++ {
		if state1[i] != impact2d.PointState.PersistState {
			t.Errorf("old point %d state is %d, want persist", i, state1[i])
		}
		if state2[i] != impact2d.PointState.PersistState {
			t.Errorf("new point %d state is %d, want persist", i, state2[i])
		}
	}
}
