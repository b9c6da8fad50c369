package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronesurvey/dss/internal/model"
)

const square = `{"type":"Polygon","coordinates":[[[30,59],[30.1,59],[30.1,59.1],[30,59.1],[30,59]]]}`

func TestParseArea(t *testing.T) {
	g, err := ParseArea([]byte(square))
	require.NoError(t, err)
	assert.IsType(t, orb.Polygon{}, g)

	g, err = ParseArea([]byte(`{"type":"Feature","properties":{},"geometry":` + square + `}`))
	require.NoError(t, err)
	assert.IsType(t, orb.Polygon{}, g)

	g, err = ParseArea([]byte(`{"type":"MultiPolygon","coordinates":[[[[30,59],[30.1,59],[30.1,59.1],[30,59]]]]}`))
	require.NoError(t, err)
	assert.IsType(t, orb.MultiPolygon{}, g)
}

func TestParseAreaBad(t *testing.T) {
	for _, s := range []string{
		"",
		"not json",
		`{"type":"Point","coordinates":[30,59]}`,
		`{"type":"Polygon","coordinates":[[[30,59],[30.1,59],[30.1,59.1]]]}`,
		`{"type":"Polygon","coordinates":[[[30,95],[30.1,59],[30.1,59.1],[30,95]]]}`,
	} {
		_, err := ParseArea([]byte(s))
		assert.ErrorIs(t, err, ErrBadArea, s)
	}
}

func wps(orders ...int) []*model.Waypoint {
	res := make([]*model.Waypoint, len(orders))
	for i, o := range orders {
		res[i] = &model.Waypoint{SequenceOrder: o}
	}

	return res
}

func TestCheckSequence(t *testing.T) {
	assert.NoError(t, CheckSequence(nil))
	assert.NoError(t, CheckSequence(wps(0, 1, 2)))
	assert.NoError(t, CheckSequence(wps(3, 1, 2)))

	assert.Error(t, CheckSequence(wps(0, 2)))
	assert.Error(t, CheckSequence(wps(1, 1, 2)))
	assert.Error(t, CheckSequence(wps(2, 3)))
}

func TestNoopPlanner(t *testing.T) {
	res, err := NoopPlanner{}.Plan(orb.Polygon{}, model.PatternGrid, 100)
	require.NoError(t, err)
	assert.Empty(t, res)
}
