package systems

import (
	"math"

	"github.com/pthm-cable/ecosim/components"
)

// Steer turns the heading by (turn-0.5)*2*turnRate and sets the velocity to
// speedFrac*maxSpeed along the new heading. turn and speedFrac are brain
// outputs in (0, 1).
func Steer(rot *components.Rotation, vel *components.Velocity, turn, speedFrac, turnRate, maxSpeed float64) {
	heading := rot.Heading + (turn-0.5)*2*turnRate
	speed := maxSpeed * speedFrac
	vel.X = math.Cos(heading) * speed
	vel.Y = math.Sin(heading) * speed
	rot.Heading = heading
}

// Integrate advances the position by one tick of velocity and wraps it
// onto the torus.
func Integrate(pos *components.Position, vel components.Velocity, width, height float64) {
	pos.X = Wrap(pos.X+vel.X, width)
	pos.Y = Wrap(pos.Y+vel.Y, height)
}

// AlignHeading points the heading along the velocity.
func AlignHeading(rot *components.Rotation, vel components.Velocity) {
	rot.Heading = math.Atan2(vel.Y, vel.X)
}
