package impact2d

/// This holds the mass data computed for a shape.
type MassData struct {
	/// The mass of the shape, usually in kilograms.
	Mass float64

	/// The position of the shape's centroid relative to the shape's origin.
	Center Vec2

	/// The rotational inertia of the shape about the local origin.
	I float64
}

func MakeMassData() MassData {
	return MassData{
		Mass:   0.0,
		Center: MakeVec2(0, 0),
		I:      0.0,
	}
}

func NewMassData() *MassData {
	res := MakeMassData()
	return &res
}

/// A shape is used for collision detection. Shapes used for simulation in a
/// World are bound when a Fixture is created. The set of concrete shapes is
/// closed: circle, polygon, segment, and capsule.

var Shape_Type = struct {
	E_circle    uint8
	E_polygon   uint8
	E_segment   uint8
	E_capsule   uint8
	E_typeCount uint8
}{
	E_circle:    0,
	E_polygon:   1,
	E_segment:   2,
	E_capsule:   3,
	E_typeCount: 4,
}

var ShapeFeature_Type = struct {
	E_vertex uint8
	E_edge   uint8
}{
	E_vertex: 0,
	E_edge:   1,
}

/// The farthest vertex or edge of a convex shape along a query direction, in
/// world coordinates. The indexes identify the feature on the shape so that
/// contact points can be correlated across steps.
/// For an edge feature, Vertex1/Vertex2 follow the shape winding and Vertex
/// holds the endpoint farthest along the direction.
type ShapeFeature struct {
	Type uint8

	Vertex      Vec2
	VertexIndex int

	Vertex1 Vec2
	Vertex2 Vec2
	Index1  int
	Index2  int

	/// The index of the edge on the shape.
	EdgeIndex int
}

/// Get the edge vector (vertex1 to vertex2). Only meaningful for edges.
func (f ShapeFeature) GetEdge() Vec2 {
	return Vec2Sub(f.Vertex2, f.Vertex1)
}

type ShapeInterface interface {
	/// Clone the concrete shape.
	Clone() ShapeInterface

	/// Get the type of this shape. You can use this to down cast to the concrete shape.
	/// @return the shape type.
	GetType() uint8

	/// Get the radius of the curved surface of the shape. Zero for polygons
	/// and segments.
	GetRadius() float64

	/// Get the center (centroid) of the shape in local coordinates.
	GetCenter() Vec2

	/// Project the shape onto the given world axis. The axis is assumed to
	/// be unit length.
	/// @param axis the world axis.
	/// @param xf the shape world transform.
	Project(axis Vec2, xf Transform) Interval

	/// Get the separating axis candidates of this shape in world coordinates:
	/// the edge normals plus, for each focal point of the other shape, the
	/// axis toward the nearest vertex. May be nil for shapes with no edges.
	/// @param foci the world focal points of the other shape, or nil.
	/// @param xf the shape world transform.
	GetAxes(foci []Vec2, xf Transform) []Vec2

	/// Get the focal points of the curved portions of this shape in world
	/// coordinates, or nil when the shape has none.
	GetFoci(xf Transform) []Vec2

	/// Get the world point on the shape farthest along the given direction.
	GetFarthestPoint(direction Vec2, xf Transform) Vec2

	/// Get the world vertex or edge of the shape farthest along the given
	/// direction.
	GetFarthestFeature(direction Vec2, xf Transform) ShapeFeature

	/// Test a point for containment in this shape. This only works for convex shapes.
	/// @param xf the shape world transform.
	/// @param p a point in world coordinates.
	TestPoint(xf Transform, p Vec2) bool

	/// Cast a ray against the shape.
	/// @param output the ray-cast results.
	/// @param input the ray-cast input parameters.
	/// @param transform the transform to be applied to the shape.
	RayCast(output *RayCastOutput, input RayCastInput, transform Transform) bool

	/// Given a transform, compute the associated axis aligned bounding box.
	/// @param aabb returns the axis aligned box.
	/// @param xf the world transform of the shape.
	ComputeAABB(aabb *AABB, xf Transform)

	/// Compute the mass properties of this shape using its dimensions and density.
	/// The inertia tensor is computed about the local origin.
	/// @param massData returns the mass data for this shape.
	/// @param density the density in kilograms per meter squared.
	ComputeMass(massData *MassData, density float64)

	/// Compute the rotation disc radius: the farthest distance from the given
	/// local center to any point on the shape. Bounds the sweep of the shape
	/// when the body rotates about that center.
	ComputeRadius(center Vec2) float64
}

type Shape struct {
	M_type uint8

	/// Radius of the curved surface of the shape. Zero for polygons and
	/// segments; there is no support for rounded polygons.
	M_radius float64
}

func (shape Shape) GetType() uint8 {
	return shape.M_type
}

func (shape Shape) GetRadius() float64 {
	return shape.M_radius
}
