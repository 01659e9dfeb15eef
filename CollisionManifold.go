package impact2d

import (
	"math"
)

/// Manifold point id types. Indexed ids name the features that produced the
/// point and match exactly; distance ids carry no feature information and
/// match by proximity.
var ManifoldPointId_Type = struct {
	E_distance uint8
	E_indexed  uint8
}{
	E_distance: 0,
	E_indexed:  1,
}

/// Identifies a contact point across detection passes so that accumulated
/// impulses can be carried over.
type ManifoldPointId struct {
	Type           uint8
	ReferenceEdge  int
	IncidentEdge   int
	IncidentVertex int
	Flipped        bool
}

/// The id shared by all single-point manifolds produced from vertex
/// features.
var ManifoldPointId_Distance = ManifoldPointId{
	Type: ManifoldPointId_Type.E_distance,
}

/// A single contact point: the world midpoint between the two penetrating
/// surfaces and the depth of the overlap along the manifold normal.
type ManifoldPoint struct {
	Id    ManifoldPointId
	Point Vec2
	Depth float64
}

/// A contact manifold: up to two world-space contact points sharing one
/// normal. The normal points from the first shape toward the second. The
/// surface anchor of the first shape sits at point + normal * depth / 2,
/// the anchor of the second at point - normal * depth / 2.
type Manifold struct {
	Points     [MaxManifoldPoints]ManifoldPoint
	Normal     Vec2
	PointCount int
}

func MakeManifold() Manifold {
	return Manifold{
		Normal:     MakeVec2(0, 0),
		PointCount: 0,
	}
}

func NewManifold() *Manifold {
	res := MakeManifold()
	return &res
}

func (manifold *Manifold) Clear() {
	manifold.Normal.SetZero()
	manifold.PointCount = 0
}

/// Do two manifold points identify the same contact? Indexed ids must match
/// exactly; distance ids match when the points lie within the warm start
/// distance (compared against the squared world distance).
func ManifoldPointsMatch(a *ManifoldPoint, b *ManifoldPoint, warmStartDistance float64) bool {
	if a.Id.Type == ManifoldPointId_Type.E_indexed || b.Id.Type == ManifoldPointId_Type.E_indexed {
		return a.Id == b.Id
	}

	return Vec2DistanceSquared(a.Point, b.Point) <= warmStartDistance
}

///////////////////////////////////////////////////////////////////////////////

/// Used for computing contact manifolds.
type ClipVertex struct {
	V Vec2

	/// The incident vertex index carried through the clip.
	Index int
}

/// Clipping for contact manifolds. Keeps the points behind the plane
/// normal * p - offset <= 0 and interpolates a replacement when the edge
/// straddles the plane. Returns the number of points kept.
func ClipSegmentToLine(vOut []ClipVertex, vIn []ClipVertex, normal Vec2, offset float64) int {

	// Start with no output points
	count := 0

	// Calculate the distance of end points to the line
	distance0 := Vec2Dot(normal, vIn[0].V) - offset
	distance1 := Vec2Dot(normal, vIn[1].V) - offset

	// If the points are behind the plane
	if distance0 <= 0.0 {
		vOut[count] = vIn[0]
		count++
	}

	if distance1 <= 0.0 {
		vOut[count] = vIn[1]
		count++
	}

	// If the points are on different sides of the plane
	if distance0*distance1 < 0.0 {
		// Find intersection point of edge and plane
		interp := distance0 / (distance0 - distance1)
		vOut[count].V = Vec2Add(
			vIn[0].V,
			Vec2MulScalar(
				interp,
				Vec2Sub(vIn[1].V, vIn[0].V),
			),
		)

		// The interpolated point inherits the index of the point it cut away
		if distance0 > 0.0 {
			vOut[count].Index = vIn[0].Index
		} else {
			vOut[count].Index = vIn[1].Index
		}
		count++
	}

	return count
}

///////////////////////////////////////////////////////////////////////////////

/// Builds contact manifolds by clipping the incident edge against the sides
/// of the reference edge. The reference edge is the farthest feature less
/// aligned with the penetration normal; when it belongs to the second shape
/// the manifold is flagged as flipped through the point ids.
type ClippingManifoldSolver struct {
}

func MakeClippingManifoldSolver() ClippingManifoldSolver {
	return ClippingManifoldSolver{}
}

func NewClippingManifoldSolver() *ClippingManifoldSolver {
	res := MakeClippingManifoldSolver()
	return &res
}

func (solver ClippingManifoldSolver) GetManifold(penetration Penetration, shape1 ShapeInterface, xf1 Transform, shape2 ShapeInterface, xf2 Transform, manifold *Manifold) bool {
	manifold.Clear()

	n := penetration.Normal

	feature1 := shape1.GetFarthestFeature(n, xf1)
	if feature1.Type == ShapeFeature_Type.E_vertex {
		// the deepest point of the first shape carries the whole contact
		mid := Vec2Sub(feature1.Vertex, Vec2MulScalar(0.5*penetration.Depth, n))
		manifold.Normal = n
		manifold.Points[0] = ManifoldPoint{
			Id:    ManifoldPointId_Distance,
			Point: mid,
			Depth: penetration.Depth,
		}
		manifold.PointCount = 1
		return true
	}

	ne := n.OperatorNegate()
	feature2 := shape2.GetFarthestFeature(ne, xf2)
	if feature2.Type == ShapeFeature_Type.E_vertex {
		mid := Vec2Add(feature2.Vertex, Vec2MulScalar(0.5*penetration.Depth, n))
		manifold.Normal = n
		manifold.Points[0] = ManifoldPoint{
			Id:    ManifoldPointId_Distance,
			Point: mid,
			Depth: penetration.Depth,
		}
		manifold.PointCount = 1
		return true
	}

	// Both features are edges. The reference edge is the one more
	// perpendicular to the normal; ties keep the first shape as reference.
	reference := feature1
	incident := feature2
	flipped := false
	if math.Abs(Vec2Dot(feature1.GetEdge(), n)) > math.Abs(Vec2Dot(feature2.GetEdge(), n)) {
		reference = feature2
		incident = feature1
		flipped = true
	}

	refev := reference.GetEdge()
	refev.Normalize()

	incidentEdge := []ClipVertex{
		{V: incident.Vertex1, Index: incident.Index1},
		{V: incident.Vertex2, Index: incident.Index2},
	}

	clipPoints1 := make([]ClipVertex, 2)
	clipPoints2 := make([]ClipVertex, 2)

	// Clip the incident edge by the side planes of the reference edge.
	offset1 := -Vec2Dot(refev, reference.Vertex1)
	np := ClipSegmentToLine(clipPoints1, incidentEdge, refev.OperatorNegate(), offset1)
	if np < 2 {
		return false
	}

	offset2 := Vec2Dot(refev, reference.Vertex2)
	np = ClipSegmentToLine(clipPoints2, clipPoints1, refev, offset2)
	if np < 2 {
		return false
	}

	// The outward face normal follows from the reference winding.
	frontNormal := Vec2CrossVectorScalar(refev, 1.0)
	frontOffset := Vec2Dot(frontNormal, reference.Vertex)

	// Re-derive the manifold normal from the reference edge so that it stays
	// pointing from the first shape toward the second.
	if flipped {
		manifold.Normal = frontNormal.OperatorNegate()
	} else {
		manifold.Normal = frontNormal
	}

	pointCount := 0
	for i := 0; i < MaxManifoldPoints; i++ {
		depth := frontOffset - Vec2Dot(frontNormal, clipPoints2[i].V)

		// Points in front of the reference face are not touching.
		if depth >= 0.0 {
			id := ManifoldPointId{
				Type:           ManifoldPointId_Type.E_indexed,
				ReferenceEdge:  reference.EdgeIndex,
				IncidentEdge:   incident.EdgeIndex,
				IncidentVertex: clipPoints2[i].Index,
				Flipped:        flipped,
			}

			mid := Vec2Add(clipPoints2[i].V, Vec2MulScalar(0.5*depth, frontNormal))

			manifold.Points[pointCount] = ManifoldPoint{
				Id:    id,
				Point: mid,
				Depth: depth,
			}
			pointCount++
		}
	}

	manifold.PointCount = pointCount

	return pointCount > 0
}

///////////////////////////////////////////////////////////////////////////////

/// This is used for determining the state of contact points.
var PointState = struct {
	NullState    uint8 ///< point does not exist
	AddState     uint8 ///< point was added in the update
	PersistState uint8 ///< point persisted across the update
	RemoveState  uint8 ///< point was removed in the update
}{
	NullState:    0,
	AddState:     1,
	PersistState: 2,
	RemoveState:  3,
}

/// Compute the point states given two manifolds. The states pertain to the
/// transition from manifold1 to manifold2. So state1 is either persist or
/// remove while state2 is either add or persist.
func GetPointStates(state1 *[MaxManifoldPoints]uint8, state2 *[MaxManifoldPoints]uint8, manifold1 *Manifold, manifold2 *Manifold) {

	for i := 0; i < MaxManifoldPoints; i++ {
		state1[i] = PointState.NullState
		state2[i] = PointState.NullState
	}

	// Detect persists and removes.
	for i := 0; i < manifold1.PointCount; i++ {
		state1[i] = PointState.RemoveState

		for j := 0; j < manifold2.PointCount; j++ {
			if ManifoldPointsMatch(&manifold1.Points[i], &manifold2.Points[j], WarmStartDistance) {
				state1[i] = PointState.PersistState
				break
			}
		}
	}

	// Detect persists and adds.
	for i := 0; i < manifold2.PointCount; i++ {
		state2[i] = PointState.AddState

		for j := 0; j < manifold1.PointCount; j++ {
			if ManifoldPointsMatch(&manifold2.Points[i], &manifold1.Points[j], WarmStartDistance) {
				state2[i] = PointState.PersistState
				break
			}
		}
	}
}
