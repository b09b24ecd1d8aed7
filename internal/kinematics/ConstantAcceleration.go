package kinematics

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

// defaultFollowGapStop and defaultFollowGapSlow are the following-gap
// thresholds used by models that have no gap-awareness of their own
// (pedestrians and bicycles don't meaningfully "follow" a lead vehicle).
const (
	defaultFollowGapStop = 30.0
	defaultFollowGapSlow = 60.0
)

// ConstantAcceleration implements MotionModel with a single fixed rate
// shared between speeding up and braking, and type-level maximum speed.
// This is the default and simplest kinematics model.
//
// JSON discriminator: "model": "constant"
type ConstantAcceleration struct {
	AccelVal float64 `json:"accel"` // length-units/s^2, shared accel/decel rate
	VMaxVal  float64 `json:"v_max"` // length-units/s
}

func (c ConstantAcceleration) VMax() float64          { return c.VMaxVal }
func (c ConstantAcceleration) Accel() float64         { return c.AccelVal }
func (c ConstantAcceleration) Decel() float64         { return c.AccelVal }
func (c ConstantAcceleration) FollowGapStop() float64 { return defaultFollowGapStop }
func (c ConstantAcceleration) FollowGapSlow() float64 { return defaultFollowGapSlow }
