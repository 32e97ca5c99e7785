package spatialmath

import (
	"math"
	"time"

	"github.com/golang/geo/r3"
)

// Pose is a timestamped planar rigid transform: a translation in the map
// frame plus a yaw about Z. Translation is kept as an r3.Vector (z always 0)
// so this type composes with the rest of the ecosystem's 3-D pose
// conventions even though the coordinator only ever reads X/Y.
type Pose struct {
	Point     r3.Vector
	Yaw       float64
	Timestamp time.Time
}

// NewPose builds a Pose from planar coordinates and a yaw in radians.
func NewPose(x, y, yaw float64, ts time.Time) Pose {
	return Pose{Point: r3.Vector{X: x, Y: y, Z: 0}, Yaw: yaw, Timestamp: ts}
}

// NewPoseFromQuaternion builds a Pose from a position and a unit quaternion,
// extracting yaw the way the source extracts roll/pitch/yaw from a
// tf2::Quaternion and keeps only yaw.
func NewPoseFromQuaternion(x, y float64, qx, qy, qz, qw float64, ts time.Time) Pose {
	yaw := math.Atan2(2*(qw*qz+qx*qy), 1-2*(qy*qy+qz*qz))
	return NewPose(x, y, yaw, ts)
}

// Position returns the planar position as a Vector2.
func (p Pose) Position() Vector2 {
	return Vector2{p.Point.X, p.Point.Y}
}

// Heading returns the unit heading vector (cos(yaw), sin(yaw)).
func (p Pose) Heading() Vector2 {
	return Vector2{math.Cos(p.Yaw), math.Sin(p.Yaw)}
}
