package model

type DroneStatus string

const (
	DroneAvailable   DroneStatus = "available"
	DroneInMission   DroneStatus = "in_mission"
	DroneMaintenance DroneStatus = "maintenance"
)

func (s DroneStatus) Valid() bool {
	switch s {
	case DroneAvailable, DroneInMission, DroneMaintenance:
		return true
	default:
		return false
	}
}

type Drone struct {
	ID           uint        `gorm:"primarykey"                yaml:"-"`
	Name         string      `gorm:"size:50;uniqueIndex"       yaml:"name"`
	Model        string      `gorm:"size:50"                   yaml:"model"`
	Status       DroneStatus `gorm:"size:20;default:available" yaml:"status,omitempty"`
	BatteryLevel int         `yaml:"battery_level"`
	Lat          *float64    `yaml:"lat,omitempty"`
	Lon          *float64    `yaml:"lon,omitempty"`
}
