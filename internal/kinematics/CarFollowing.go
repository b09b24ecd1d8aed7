package kinematics

// CarFollowingModelName is the JSON discriminator string for the
// CarFollowing model.
const CarFollowingModelName = "car_following"

// CarFollowing implements MotionModel with separate acceleration and
// braking rates — braking is typically the stronger of the two — and its
// own tunable following-gap thresholds, for vehicle types that need to
// react to the vehicle ahead of them rather than just cruise at a fixed
// rate.
//
// JSON discriminator: "model": "car_following"
type CarFollowing struct {
	AccelVal float64 `json:"accel"`    // length-units/s^2, speeding-up rate
	DecelVal float64 `json:"decel"`    // length-units/s^2, braking rate
	VMaxVal  float64 `json:"v_max"`    // length-units/s
	GapStop  float64 `json:"gap_stop"` // following gap below which the vehicle stops dead
	GapSlow  float64 `json:"gap_slow"` // following gap below which target speed ramps down
}

func (c CarFollowing) VMax() float64  { return c.VMaxVal }
func (c CarFollowing) Accel() float64 { return c.AccelVal }

// Decel falls back to AccelVal if DecelVal was left unset, so a partially
// specified model still behaves like ConstantAcceleration rather than
// refusing to brake.
func (c CarFollowing) Decel() float64 {
	if c.DecelVal <= 0 {
		return c.AccelVal
	}
	return c.DecelVal
}

func (c CarFollowing) FollowGapStop() float64 {
	if c.GapStop <= 0 {
		return defaultFollowGapStop
	}
	return c.GapStop
}

func (c CarFollowing) FollowGapSlow() float64 {
	if c.GapSlow <= 0 {
		return defaultFollowGapSlow
	}
	return c.GapSlow
}
