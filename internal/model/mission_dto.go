package model

import (
	"encoding/json"
	"sort"
	"time"
)

// MissionDTO is the mission snapshot sent to API callers and live observers.
type MissionDTO struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Status            MissionStatus   `json:"status"`
	FlightPattern     FlightPattern   `json:"flight_pattern"`
	FlightAltitude    float64         `json:"flight_altitude_m"`
	OverlapPercentage int             `json:"overlap_percentage"`
	SurveyArea        json.RawMessage `json:"survey_area_geojson"`
	CollectionFreq    float64         `json:"data_collection_frequency_hz"`
	Sensors           []string        `json:"sensors_to_use"`
	CreatedAt         time.Time       `json:"created_at"`
	StartedAt         *time.Time      `json:"started_at"`
	CompletedAt       *time.Time      `json:"completed_at"`
	DroneID           *uint           `json:"drone_id"`
	Waypoints         []*WaypointDTO  `json:"waypoints"`
	Report            *ReportDTO      `json:"report,omitempty"`
}

type WaypointDTO struct {
	ID            uint    `json:"id"`
	MissionID     uint    `json:"mission_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`
	SequenceOrder int     `json:"sequence_order"`
}

type ReportDTO struct {
	ID            uint      `json:"id"`
	MissionID     uint      `json:"mission_id"`
	Summary       string    `json:"summary"`
	TotalDuration int       `json:"total_duration_s"`
	TotalDistance float64   `json:"total_distance_m"`
	CoverageArea  float64   `json:"coverage_sq_meters"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type DroneDTO struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Model        string      `json:"model"`
	Status       DroneStatus `json:"status"`
	BatteryLevel int         `json:"battery_level"`
	Lat          *float64    `json:"current_location_lat"`
	Lon          *float64    `json:"current_location_lon"`
}

func ToMissionDTO(m *Mission) *MissionDTO {
	if m == nil {
		return nil
	}

	dto := &MissionDTO{
		ID:                m.ID,
		Name:              m.Name,
		Status:            m.Status,
		FlightPattern:     m.FlightPattern,
		FlightAltitude:    m.FlightAltitude,
		OverlapPercentage: m.OverlapPercentage,
		CollectionFreq:    m.CollectionFreq,
		Sensors:           []string(m.Sensors),
		CreatedAt:         m.CreatedAt,
		StartedAt:         m.StartedAt,
		CompletedAt:       m.CompletedAt,
		DroneID:           m.DroneID,
		Waypoints:         make([]*WaypointDTO, 0, len(m.Waypoints)),
		Report:            ToReportDTO(m.Report),
	}

	if len(m.SurveyArea) > 0 {
		dto.SurveyArea = json.RawMessage(m.SurveyArea)
	}

	if dto.Sensors == nil {
		dto.Sensors = []string{}
	}

	for _, w := range m.Waypoints {
		dto.Waypoints = append(dto.Waypoints, ToWaypointDTO(w))
	}

	sort.Slice(dto.Waypoints, func(i, j int) bool {
		return dto.Waypoints[i].SequenceOrder < dto.Waypoints[j].SequenceOrder
	})

	return dto
}

func ToWaypointDTO(w *Waypoint) *WaypointDTO {
	return &WaypointDTO{
		ID:            w.ID,
		MissionID:     w.MissionID,
		Latitude:      w.Latitude,
		Longitude:     w.Longitude,
		Altitude:      w.Altitude,
		SequenceOrder: w.SequenceOrder,
	}
}

func ToReportDTO(r *SurveyReport) *ReportDTO {
	if r == nil || r.ID == 0 {
		return nil
	}

	return &ReportDTO{
		ID:            r.ID,
		MissionID:     r.MissionID,
		Summary:       r.Summary,
		TotalDuration: r.TotalDuration,
		TotalDistance: r.TotalDistance,
		CoverageArea:  r.CoverageArea,
		GeneratedAt:   r.GeneratedAt,
	}
}

func ToDroneDTO(d *Drone) *DroneDTO {
	if d == nil {
		return nil
	}

	return &DroneDTO{
		ID:           d.ID,
		Name:         d.Name,
		Model:        d.Model,
		Status:       d.Status,
		BatteryLevel: d.BatteryLevel,
		Lat:          d.Lat,
		Lon:          d.Lon,
	}
}
