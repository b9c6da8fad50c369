package geometry

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"

	"github.com/dronesurvey/dss/internal/model"
)

// Planner turns a survey area and a flight pattern into an ordered flight path.
type Planner interface {
	Plan(area orb.Geometry, pattern model.FlightPattern, altitude float64) ([]*model.Waypoint, error)
}

// NoopPlanner produces no waypoints. Missions planned with it carry only the
// waypoints supplied by the operator.
type NoopPlanner struct{}

func (NoopPlanner) Plan(_ orb.Geometry, _ model.FlightPattern, _ float64) ([]*model.Waypoint, error) {
	return nil, nil
}

// CheckSequence verifies that sequence orders are unique and dense, starting at 0 or 1.
func CheckSequence(wps []*model.Waypoint) error {
	if len(wps) == 0 {
		return nil
	}

	orders := make([]int, len(wps))
	for i, w := range wps {
		orders[i] = w.SequenceOrder
	}

	sort.Ints(orders)

	base := orders[0]
	if base != 0 && base != 1 {
		return fmt.Errorf("waypoint sequence must start at 0 or 1, got %d", base)
	}

	for i, o := range orders {
		if o != base+i {
			return fmt.Errorf("waypoint sequence is not dense at %d", base+i)
		}
	}

	return nil
}
