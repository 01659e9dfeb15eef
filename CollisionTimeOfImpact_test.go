package impact2d_test

import (
	"math"
	"testing"

	"github.com/impact2d/impact2d"
)

func staticSweepAt(x, y float64) impact2d.Sweep {
	return impact2d.Sweep{
		C0: impact2d.MakeVec2(x, y),
		C:  impact2d.MakeVec2(x, y),
	}
}

// A fast circle crossing a thin wall in one step. The discrete pipeline
// would miss the wall entirely; the time of impact finds the crossing.
func TestTimeOfImpactCatchesTunneling(t *testing.T) {
	ca := impact2d.MakeConservativeAdvancement()

	circle := impact2d.MakeCircleShape()
	circle.M_radius = 1.0
	wall := impact2d.MakePolygonShape()
	wall.SetAsBox(0.05, 5.0)

	circleSweep := impact2d.Sweep{
		C0: impact2d.MakeVec2(-5, 0),
		C:  impact2d.MakeVec2(5, 0),
	}

	toi := impact2d.MakeTimeOfImpact()
	if !ca.GetTimeOfImpact(&circle, circleSweep, &wall, staticSweepAt(0, 0), &toi) {
		t.Fatalf("no impact found for a circle sweeping through a wall")
	}

	// The surfaces meet when the circle center reaches x = -1.05, which is
	// just short of forty percent into the motion.
	if toi.T <= 0.3 || toi.T >= 0.5 {
		t.Fatalf("impact time %g, want just before 0.395", toi.T)
	}
	if toi.Separation.Distance > impact2d.LinearSlop {
		t.Fatalf("separation at impact is %g, want at most the slop", toi.Separation.Distance)
	}
	checkVec2(t, "impact normal", toi.Separation.Normal, 1, 0, 1e-9)
}

func TestTimeOfImpactOverlappingAtStart(t *testing.T) {
	ca := impact2d.MakeConservativeAdvancement()

	boxA := impact2d.MakePolygonShape()
	boxA.SetAsBox(0.5, 0.5)
	boxB := impact2d.MakePolygonShape()
	boxB.SetAsBox(0.5, 0.5)

	moving := impact2d.Sweep{
		C0: impact2d.MakeVec2(0, 0),
		C:  impact2d.MakeVec2(1, 0),
	}

	// Shapes already overlapping belong to the discrete pipeline.
	toi := impact2d.MakeTimeOfImpact()
	if ca.GetTimeOfImpact(&boxA, moving, &boxB, staticSweepAt(0.5, 0), &toi) {
		t.Fatalf("impact reported for shapes overlapping at the start")
	}
}

func TestTimeOfImpactNoRelativeMotion(t *testing.T) {
	ca := impact2d.MakeConservativeAdvancement()

	circleA := impact2d.MakeCircleShape()
	circleA.M_radius = 0.5
	circleB := impact2d.MakeCircleShape()
	circleB.M_radius = 0.5

	toi := impact2d.MakeTimeOfImpact()
	if ca.GetTimeOfImpact(&circleA, staticSweepAt(0, 0), &circleB, staticSweepAt(3, 0), &toi) {
		t.Fatalf("impact reported for two resting shapes")
	}
}

func TestTimeOfImpactMovingApart(t *testing.T) {
	ca := impact2d.MakeConservativeAdvancement()

	circle := impact2d.MakeCircleShape()
	circle.M_radius = 1.0
	wall := impact2d.MakePolygonShape()
	wall.SetAsBox(0.05, 5.0)

	receding := impact2d.Sweep{
		C0: impact2d.MakeVec2(-5, 0),
		C:  impact2d.MakeVec2(-10, 0),
	}

	toi := impact2d.MakeTimeOfImpact()
	if ca.GetTimeOfImpact(&circle, receding, &wall, staticSweepAt(0, 0), &toi) {
		t.Fatalf("impact reported for a shape moving away")
	}
}

func TestTimeOfImpactStopsShort(t *testing.T) {
	ca := impact2d.MakeConservativeAdvancement()

	circle := impact2d.MakeCircleShape()
	circle.M_radius = 1.0
	wall := impact2d.MakePolygonShape()
	wall.SetAsBox(0.05, 5.0)

	// Approaching, but the motion ends well before the surfaces meet.
	short := impact2d.Sweep{
		C0: impact2d.MakeVec2(-5, 0),
		C:  impact2d.MakeVec2(-3, 0),
	}

	toi := impact2d.MakeTimeOfImpact()
	if ca.GetTimeOfImpact(&circle, short, &wall, staticSweepAt(0, 0), &toi) {
		t.Fatalf("impact reported outside the motion interval")
	}
}

func TestTimeOfImpactTouchingAtStart(t *testing.T) {
	ca := impact2d.MakeConservativeAdvancement()

	circle := impact2d.MakeCircleShape()
	circle.M_radius = 1.0
	wall := impact2d.MakePolygonShape()
	wall.SetAsBox(0.05, 5.0)

	// The gap is already inside the tolerance, so the impact is immediate.
	grazing := impact2d.Sweep{
		C0: impact2d.MakeVec2(-1.052, 0),
		C:  impact2d.MakeVec2(1, 0),
	}

	toi := impact2d.MakeTimeOfImpact()
	if !ca.GetTimeOfImpact(&circle, grazing, &wall, staticSweepAt(0, 0), &toi) {
		t.Fatalf("no impact for shapes touching at the start")
	}
	if toi.T != 0.0 {
		t.Fatalf("impact time %g, want 0", toi.T)
	}
}

// Rotation alone can cause an impact. A long blade spinning a quarter turn
// reaches a circle sitting beside it; the rotation disc bound keeps the
// advancement from stepping past the first touch.
func TestTimeOfImpactRotationOnly(t *testing.T) {
	ca := impact2d.MakeConservativeAdvancement()

	blade := impact2d.MakeSegmentShape()
	blade.Set(impact2d.MakeVec2(-2, 0), impact2d.MakeVec2(2, 0))
	circle := impact2d.MakeCircleShape()
	circle.M_radius = 0.5

	spinning := impact2d.Sweep{
		C0: impact2d.MakeVec2(0, 0),
		C:  impact2d.MakeVec2(0, 0),
		A0: 0,
		A:  math.Pi / 2,
	}

	toi := impact2d.MakeTimeOfImpact()
	if !ca.GetTimeOfImpact(&blade, spinning, &circle, staticSweepAt(0, 1), &toi) {
		t.Fatalf("no impact found for a blade spinning into a circle")
	}

	// The blade touches the circle at sixty degrees, two thirds of the
	// quarter turn. The advancement stops within tolerance short of it.
	if toi.T <= 0.6 || toi.T > 2.0/3.0+1e-9 {
		t.Fatalf("impact time %g, want just before 2/3", toi.T)
	}
	if toi.Separation.Distance > impact2d.LinearSlop {
		t.Fatalf("separation at impact is %g, want at most the slop", toi.Separation.Distance)
	}
}
