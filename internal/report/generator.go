// Package report builds the survey summary stored when a mission reaches a terminal status.
package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dronesurvey/dss/internal/model"
)

// No flight path integration yet: metrics are fixed.
const (
	flightDuration = 3600
	flightDistance = 15000.0
	coverageArea   = 500000.0
)

// Generate returns a new, unsaved report for m. It has no side effects.
func Generate(m *model.Mission) *model.SurveyReport {
	return &model.SurveyReport{
		MissionID:     m.ID,
		Summary:       summary(m.Name, m.Status, flightDistance, coverageArea),
		TotalDuration: flightDuration,
		TotalDistance: flightDistance,
		CoverageArea:  coverageArea,
		GeneratedAt:   time.Now().UTC(),
	}
}

func summary(name string, status model.MissionStatus, distance, coverage float64) string {
	return fmt.Sprintf("Survey report for mission '%s'. Status: %s. Distance %s, coverage %s m².",
		name, status, humanize.SI(distance, "m"), humanize.Comma(int64(coverage)))
}
