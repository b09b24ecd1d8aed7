// Package kinematics defines the MotionModel interface for per-vehicle-type
// acceleration physics, along with built-in implementations.
//
// Adding a new physics model requires only implementing MotionModel and
// registering its discriminator string in vehicle.UnmarshalKinematics — the
// simulation engine itself never needs to change.
package kinematics

// MotionModel is the physics contract every kinematics implementation must
// satisfy. Speeds are in length-units per second, acceleration in
// length-units per second squared.
type MotionModel interface {
	// VMax returns the vehicle type's unrestricted maximum speed.
	VMax() float64

	// Accel returns the rate used when speeding up toward a target speed.
	Accel() float64

	// Decel returns the rate used when slowing down toward a target speed.
	Decel() float64

	// FollowGapStop and FollowGapSlow give the following-gap behavior, in
	// graph length-units, that the kinematics step uses when a vehicle is
	// gaining on the one ahead of it: below FollowGapStop the vehicle
	// stops dead; between FollowGapStop and FollowGapSlow its target speed
	// ramps linearly from 0 up to free-flow.
	FollowGapStop() float64
	FollowGapSlow() float64
}

// Step advances current toward target by at most rate*dt and clamps the
// result to [0, target]. Callers pick Accel() or Decel() as rate depending
// on whether target is above or below current.
func Step(current, target, rate, dt float64) float64 {
	delta := rate * dt
	if delta < 0 {
		delta = 0
	}
	diff := target - current
	var next float64
	switch {
	case diff > delta:
		next = current + delta
	case diff < -delta:
		next = current - delta
	default:
		next = target
	}
	if next < 0 {
		next = 0
	}
	if target >= 0 && next > target {
		next = target
	}
	return next
}

// EMA applies exponential smoothing: alpha*next + (1-alpha)*prev.
func EMA(prev, next, alpha float64) float64 {
	return alpha*next + (1-alpha)*prev
}
