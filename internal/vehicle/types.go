// Package vehicle defines the vehicle entity, its per-type physical
// constants, and the id-keyed manager that owns the live vehicle arena.
package vehicle

import (
	"encoding/json"
	"fmt"

	"github.com/tms-sim/citytraffic/internal/graph"
	"github.com/tms-sim/citytraffic/internal/kinematics"
)

// Type identifies a vehicle's travel mode.
type Type string

const (
	TypeCar        Type = "car"
	TypeBicycle    Type = "bicycle"
	TypePedestrian Type = "pedestrian"
)

// Mode returns the graph travel mode corresponding to this vehicle type.
func (t Type) Mode() graph.Mode { return graph.Mode(t) }

// Status describes a vehicle's current motion state.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusMoving    Status = "moving"
	StatusStuck     Status = "stuck"
	StatusRerouting Status = "rerouting"
	StatusArrived   Status = "arrived"
)

// CapacityWeight is the per-type contribution to an edge's weighted load.
var CapacityWeight = map[Type]float64{
	TypeCar:        1.0,
	TypeBicycle:    0.5,
	TypePedestrian: 0.2,
}

// kinematicsDisc is the minimum JSON structure needed to read the model
// discriminator out of a kinematics spec before decoding the rest of it.
type kinematicsDisc struct {
	Model string `json:"model"`
}

// UnmarshalKinematics decodes a JSON kinematics spec into the MotionModel
// its "model" discriminator names. Adding a new physics model requires
// implementing kinematics.MotionModel and adding one case here — nothing
// else in the engine needs to change.
func UnmarshalKinematics(data []byte) (kinematics.MotionModel, error) {
	var disc kinematicsDisc
	if err := json.Unmarshal(data, &disc); err != nil {
		return nil, fmt.Errorf("reading kinematics model discriminator: %w", err)
	}
	switch disc.Model {
	case "", kinematics.ConstantModelName:
		var m kinematics.ConstantAcceleration
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decoding %q kinematics model: %w", kinematics.ConstantModelName, err)
		}
		return m, nil
	case kinematics.CarFollowingModelName:
		var m kinematics.CarFollowing
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decoding %q kinematics model: %w", kinematics.CarFollowingModelName, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown kinematics model %q", disc.Model)
	}
}

// defaultKinematicsJSON declares each vehicle type's kinematics model as a
// discriminated JSON spec: cars use car_following (asymmetric accel/decel,
// with explicit 30/60 following gaps equal to the package defaults),
// bicycles and pedestrians use the simpler constant model.
var defaultKinematicsJSON = map[Type][]byte{
	TypeCar:        []byte(`{"model":"car_following","v_max":60,"accel":1.5,"decel":3.0,"gap_stop":30,"gap_slow":60}`),
	TypeBicycle:    []byte(`{"model":"constant","v_max":40,"accel":1.2}`),
	TypePedestrian: []byte(`{"model":"constant","v_max":20,"accel":0.8}`),
}

// defaultKinematics returns the default kinematics model for a vehicle
// type, decoded through the same JSON discriminator UnmarshalKinematics
// uses for externally supplied specs.
func defaultKinematics(t Type) kinematics.MotionModel {
	spec, ok := defaultKinematicsJSON[t]
	if !ok {
		spec = defaultKinematicsJSON[TypeCar]
	}
	m, err := UnmarshalKinematics(spec)
	if err != nil {
		// defaultKinematicsJSON is a fixed, valid literal; a decode failure
		// here means the literal itself is broken, not bad external input.
		panic(fmt.Sprintf("vehicle: invalid built-in kinematics spec for %q: %v", t, err))
	}
	return m
}
