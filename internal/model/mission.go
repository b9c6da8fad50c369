package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type MissionStatus string

const (
	StatusPlanned    MissionStatus = "planned"
	StatusInProgress MissionStatus = "in_progress"
	StatusPaused     MissionStatus = "paused"
	StatusCompleted  MissionStatus = "completed"
	StatusAborted    MissionStatus = "aborted"
)

// IsTerminal reports whether no further transition is possible from s.
func (s MissionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAborted
}

func (s MissionStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusPaused, StatusCompleted, StatusAborted:
		return true
	default:
		return false
	}
}

type FlightPattern string

const (
	PatternGrid       FlightPattern = "grid"
	PatternPerimeter  FlightPattern = "perimeter"
	PatternCrosshatch FlightPattern = "crosshatch"
)

func (p FlightPattern) Valid() bool {
	switch p {
	case PatternGrid, PatternPerimeter, PatternCrosshatch:
		return true
	default:
		return false
	}
}

type Mission struct {
	ID                uint          `gorm:"primarykey"`
	Name              string        `gorm:"size:100;index"`
	Status            MissionStatus `gorm:"size:20;index;default:planned"`
	FlightPattern     FlightPattern `gorm:"size:20"`
	FlightAltitude    float64
	OverlapPercentage int
	SurveyArea        datatypes.JSON
	CollectionFreq    float64
	Sensors           datatypes.JSONSlice[string]
	CreatedAt         time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
	DroneID           *uint         `gorm:"index"`
	Waypoints         []*Waypoint   `gorm:"foreignKey:MissionID"`
	Report            *SurveyReport `gorm:"foreignKey:MissionID"`
}

// Waypoint belongs to exactly one mission; SequenceOrder is unique within it.
type Waypoint struct {
	ID            uint `gorm:"primarykey"`
	MissionID     uint `gorm:"uniqueIndex:idx_waypoint_order"`
	Latitude      float64
	Longitude     float64
	Altitude      float64
	SequenceOrder int `gorm:"uniqueIndex:idx_waypoint_order"`
}

type SurveyReport struct {
	ID            uint   `gorm:"primarykey"`
	MissionID     uint   `gorm:"uniqueIndex"`
	Summary       string `gorm:"type:text"`
	TotalDuration int
	TotalDistance float64
	CoverageArea  float64
	GeneratedAt   time.Time
}

func (m *Mission) String() string {
	if m == nil {
		return "nil"
	}

	return fmt.Sprintf("mission %d (%s), status %s", m.ID, m.Name, m.Status)
}

func (m *Mission) HasReport() bool {
	return m != nil && m.Report != nil && m.Report.ID != 0
}
