package agent

import (
	"math"

	"github.com/mtg-robotics/lazytraffic/spatialmath"
)

// ControlAngleThreshold is the heading-error cutoff beyond which an agent
// rotates in place rather than also driving forward.
const ControlAngleThreshold = math.Pi / 2

// Command is a differential-drive command: forward linear speed and
// angular speed about Z.
type Command struct {
	Linear  float64
	Angular float64
}

// IsZero reports whether both components of the command are zero.
func (c Command) IsZero() bool {
	return spatialmath.AreSame(c.Linear, 0) && spatialmath.AreSame(c.Angular, 0)
}

// Synthesize converts a planar velocity vOut and the agent's current
// heading into a differential-drive Command.
//
// vMax bounds the linear term; wMax bounds the angular term. If vOut is
// (within tolerance) the zero vector, the zero Command is returned.
func Synthesize(vOut spatialmath.Vector2, heading spatialmath.Vector2, vMax, wMax float64) Command {
	if vOut.IsZero() {
		return Command{}
	}

	vHat := vOut.Normalize()
	cosErr := spatialmath.Clamp(heading.Dot(vHat), -1, 1)
	headingError := math.Acos(cosErr)

	sign := 1.0
	if heading.CrossZ(vHat) < 0 {
		sign = -1.0
	}

	angular := sign * math.Min(headingError, wMax)

	linear := 0.0
	if headingError <= ControlAngleThreshold {
		linear = vMax * math.Max(0, 1-headingError/ControlAngleThreshold)
	}

	return Command{Linear: linear, Angular: angular}
}
