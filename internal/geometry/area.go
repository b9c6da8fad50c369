package geometry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrBadArea = errors.New("survey area must be a GeoJSON polygon")

// ParseArea accepts a GeoJSON Polygon or MultiPolygon, bare or wrapped in a Feature.
func ParseArea(data []byte) (orb.Geometry, error) {
	if len(data) == 0 {
		return nil, ErrBadArea
	}

	var probe struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadArea, err.Error())
	}

	var g orb.Geometry

	switch probe.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadArea, err.Error())
		}

		g = f.Geometry
	default:
		gg, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadArea, err.Error())
		}

		g = gg.Geometry()
	}

	switch p := g.(type) {
	case orb.Polygon:
		return p, checkPolygon(p)
	case orb.MultiPolygon:
		if len(p) == 0 {
			return nil, ErrBadArea
		}

		for _, pp := range p {
			if err := checkPolygon(pp); err != nil {
				return nil, err
			}
		}

		return p, nil
	default:
		return nil, ErrBadArea
	}
}

func checkPolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return ErrBadArea
	}

	for _, ring := range p {
		// closed ring: at least 3 distinct points plus the closing one
		if len(ring) < 4 || !ring.Closed() {
			return fmt.Errorf("%w: ring is not closed", ErrBadArea)
		}

		for _, pt := range ring {
			if pt.Lat() < -90 || pt.Lat() > 90 || pt.Lon() < -180 || pt.Lon() > 180 {
				return fmt.Errorf("%w: point %v out of range", ErrBadArea, pt)
			}
		}
	}

	return nil
}
