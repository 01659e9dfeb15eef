package impact2d_test

import (
	"testing"

	"github.com/impact2d/impact2d"
)

func transformAt(x, y float64) impact2d.Transform {
	return impact2d.MakeTransformByPositionAndAngle(impact2d.MakeVec2(x, y), 0)
}

func TestCollideCircles(t *testing.T) {
	c1 := impact2d.MakeCircleShape()
	c1.M_radius = 1.0
	c2 := impact2d.MakeCircleShape()
	c2.M_radius = 1.0

	pen := impact2d.MakePenetration()
	if !impact2d.CollideCircles(&pen, &c1, transformAt(0, 0), &c2, transformAt(1.5, 0)) {
		t.Fatalf("overlapping circles not detected")
	}
	checkVec2(t, "circle normal", pen.Normal, 1, 0, 1e-12)
	checkFloat(t, "circle depth", pen.Depth, 0.5, 1e-12)
}

func TestCollideCirclesTouchingIsNotCollision(t *testing.T) {
	c1 := impact2d.MakeCircleShape()
	c1.M_radius = 1.0
	c2 := impact2d.MakeCircleShape()
	c2.M_radius = 1.0

	pen := impact2d.MakePenetration()
	if impact2d.CollideCircles(&pen, &c1, transformAt(0, 0), &c2, transformAt(2, 0)) {
		t.Fatalf("exactly touching circles should not collide")
	}
}

func TestSatDetectBoxes(t *testing.T) {
	sat := impact2d.MakeSat()

	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	if !sat.Detect(&boxA, transformAt(0, 0), &boxB, transformAt(0.5, 0)) {
		t.Fatalf("overlapping boxes not detected")
	}
	if sat.Detect(&boxA, transformAt(0, 0), &boxB, transformAt(1.5, 0)) {
		t.Fatalf("separated boxes detected as colliding")
	}
}

func TestSatDetectPenetrationBoxes(t *testing.T) {
	sat := impact2d.MakeSat()

	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(&boxA, transformAt(0, 0), &boxB, transformAt(0.75, 0), &pen) {
		t.Fatalf("overlapping boxes not detected")
	}
	checkVec2(t, "box normal", pen.Normal, 1, 0, 1e-9)
	checkFloat(t, "box depth", pen.Depth, 0.25, 1e-9)

	// Swapping the shapes flips the normal; it always points from the
	// first shape toward the second.
	if !sat.DetectPenetration(&boxB, transformAt(0.75, 0), &boxA, transformAt(0, 0), &pen) {
		t.Fatalf("swapped boxes not detected")
	}
	checkVec2(t, "swapped normal", pen.Normal, -1, 0, 1e-9)
	checkFloat(t, "swapped depth", pen.Depth, 0.25, 1e-9)
}

func TestSatDetectPenetrationPolygonCircle(t *testing.T) {
	sat := impact2d.MakeSat()

	box := impact2d.MakePolygonShape()
	box.SetAsBox(0.5, 0.5)
	circle := impact2d.MakeCircleShape()
	circle.M_radius = 0.5

	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(&box, transformAt(0, 0), &circle, transformAt(0.9, 0), &pen) {
		t.Fatalf("box-circle overlap not detected")
	}
	checkVec2(t, "box-circle normal", pen.Normal, 1, 0, 1e-9)
	checkFloat(t, "box-circle depth", pen.Depth, 0.1, 1e-9)
}

func TestSatDetectPenetrationCapsuleBox(t *testing.T) {
	sat := impact2d.MakeSat()

	box := impact2d.MakePolygonShape()
	box.SetAsBox(0.5, 0.5)
	capsule := impact2d.MakeCapsuleShape()
	capsule.Set(2.0, 1.0)

	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(&box, transformAt(0, 0), &capsule, transformAt(0, 0.9), &pen) {
		t.Fatalf("box-capsule overlap not detected")
	}
	checkVec2(t, "box-capsule normal", pen.Normal, 0, 1, 1e-9)
	checkFloat(t, "box-capsule depth", pen.Depth, 0.1, 1e-9)
}

func TestSatDetectPenetrationCapsules(t *testing.T) {
	sat := impact2d.MakeSat()

	capA := impact2d.MakeCapsuleShape()
	capA.Set(2.0, 1.0)
	capB := impact2d.MakeCapsuleShape()
	capB.Set(2.0, 1.0)

	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(&capA, transformAt(0, 0), &capB, transformAt(0, 0.8), &pen) {
		t.Fatalf("capsule-capsule overlap not detected")
	}
	checkVec2(t, "capsule normal", pen.Normal, 0, 1, 1e-9)
	checkFloat(t, "capsule depth", pen.Depth, 0.2, 1e-9)
}

func TestSatDetectPenetrationSegmentCircle(t *testing.T) {
	sat := impact2d.MakeSat()

	segment := impact2d.MakeSegmentShape()
	segment.Set(impact2d.MakeVec2(-1, 0), impact2d.MakeVec2(1, 0))
	circle := impact2d.MakeCircleShape()
	circle.M_radius = 0.5

	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(&segment, transformAt(0, 0), &circle, transformAt(0, 0.3), &pen) {
		t.Fatalf("segment-circle overlap not detected")
	}
	checkVec2(t, "segment-circle normal", pen.Normal, 0, 1, 1e-9)
	checkFloat(t, "segment-circle depth", pen.Depth, 0.2, 1e-9)
}

func TestSatContainmentDepth(t *testing.T) {
	sat := impact2d.MakeSat()

	big := impact2d.MakePolygonShape()
	big.SetAsBox(2, 2)
	small := impact2d.MakePolygonShape()
	small.SetAsBox(0.25, 0.25)

	// The small box sits entirely inside the big one. The reported depth
	// must cover the full exit distance, not just the projection overlap.
	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(&big, transformAt(0, 0), &small, transformAt(0.5, 0), &pen) {
		t.Fatalf("contained box not detected")
	}
	checkVec2(t, "containment normal", pen.Normal, 1, 0, 1e-9)
	checkFloat(t, "containment depth", pen.Depth, 1.75, 1e-9)
}

func TestSatAndGjkAgree(t *testing.T) {
	sat := impact2d.MakeSat()
	gjk := impact2d.MakeGjk()

	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)
	circle := impact2d.MakeCircleShape()
	circle.M_radius = 0.5
	capsule := impact2d.MakeCapsuleShape()
	capsule.Set(2.0, 1.0)

	cases := []struct {
		name     string
		shape1   impact2d.ShapeInterface
		xf1      impact2d.Transform
		shape2   impact2d.ShapeInterface
		xf2      impact2d.Transform
		expected bool
	}{
		{"boxes overlapping", &boxA, transformAt(0, 0), &boxB, transformAt(0.6, 0.2), true},
		{"boxes separated", &boxA, transformAt(0, 0), &boxB, transformAt(3, 0), false},
		{"box circle overlapping", &boxA, transformAt(0, 0), &circle, transformAt(0.8, 0), true},
		{"box circle separated", &boxA, transformAt(0, 0), &circle, transformAt(2, 2), false},
		{"capsule box overlapping", &capsule, transformAt(0, 0), &boxB, transformAt(1.1, 0), true},
		{"capsule box separated", &capsule, transformAt(0, 0), &boxB, transformAt(0, 3), false},
	}

	for _, tc := range cases {
		satHit := sat.Detect(tc.shape1, tc.xf1, tc.shape2, tc.xf2)
		gjkHit := gjk.Detect(tc.shape1, tc.xf1, tc.shape2, tc.xf2)

		if satHit != tc.expected {
			t.Errorf("%s: sat reported %v, want %v", tc.name, satHit, tc.expected)
		}
		if gjkHit != tc.expected {
			t.Errorf("%s: gjk reported %v, want %v", tc.name, gjkHit, tc.expected)
		}
	}
}

func TestSatPenetrationResolves(t *testing.T) {
	sat := impact2d.MakeSat()

	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	xf1 := transformAt(0, 0)
	xf2 := transformAt(0.7, 0.1)

	pen := impact2d.MakePenetration()
	if !sat.DetectPenetration(&boxA, xf1, &boxB, xf2, &pen) {
		t.Fatalf("boxes not detected")
	}

	// Moving the second shape out along the normal by the depth separates
	// the pair.
	push := impact2d.Vec2MulScalar(pen.Depth+1e-6, pen.Normal)
	moved := transformAt(0.7+push.X, 0.1+push.Y)
	if sat.Detect(&boxA, xf1, &boxB, moved) {
		t.Fatalf("shapes still overlap after resolving along the normal")
	}
}
