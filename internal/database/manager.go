package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/dronesurvey/dss/internal/model"
)

// ErrStaleStatus is returned when the mission status no longer equals the expected prior status.
var ErrStaleStatus = errors.New("mission status changed")

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

// StatusChange is one mission transition, persisted as a single unit.
type StatusChange struct {
	MissionID   uint
	From        model.MissionStatus
	To          model.MissionStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
	Report      *model.SurveyReport
	DroneID     *uint
	DroneStatus model.DroneStatus
}

func New(db *gorm.DB) *DatabaseManager {
	m := &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}

	return m
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) MissionQuery() *MissionQuery {
	return NewMissionQuery(mm.db)
}

func (mm *DatabaseManager) DroneQuery() *DroneQuery {
	return NewDroneQuery(mm.db)
}

func (mm *DatabaseManager) ReportQuery() *ReportQuery {
	return NewReportQuery(mm.db)
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	return mm.db.AutoMigrate(
		&model.Drone{},
		&model.Mission{},
		&model.Waypoint{},
		&model.SurveyReport{},
	)
}

// LoadMission returns the full mission snapshot, or nil if there is no such mission.
func (mm *DatabaseManager) LoadMission(id uint) (*model.Mission, error) {
	return mm.MissionQuery().Id(id).Full().First()
}

// ApplyStatusChange updates the mission status only if it still equals c.From.
// Timestamps are never overwritten once set, and at most one report is stored per mission.
func (mm *DatabaseManager) ApplyStatusChange(c *StatusChange) error {
	if c == nil {
		return nil
	}

	return mm.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": c.To}

		if c.StartedAt != nil {
			updates["started_at"] = gorm.Expr("COALESCE(started_at, ?)", *c.StartedAt)
		}

		if c.CompletedAt != nil {
			updates["completed_at"] = gorm.Expr("COALESCE(completed_at, ?)", *c.CompletedAt)
		}

		res := tx.Model(&model.Mission{}).
			Where("id = ? AND status = ?", c.MissionID, c.From).
			Updates(updates)

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if c.Report != nil {
			var n int64

			if err := tx.Model(&model.SurveyReport{}).Where("mission_id = ?", c.MissionID).Count(&n).Error; err != nil {
				return err
			}

			if n == 0 {
				c.Report.MissionID = c.MissionID

				if err := tx.Create(c.Report).Error; err != nil {
					return err
				}
			}
		}

		if c.DroneID != nil && c.DroneStatus != "" {
			err := tx.Model(&model.Drone{}).
				Where("id = ? AND status <> ?", *c.DroneID, model.DroneMaintenance).
				Update("status", c.DroneStatus).Error

			if err != nil {
				return err
			}
		}

		return nil
	})
}

// ReportTotals sums flight duration (seconds) and distance (meters) over all reports.
func (mm *DatabaseManager) ReportTotals() (int64, float64, error) {
	var duration int64
	var distance float64

	row := mm.db.Model(&model.SurveyReport{}).
		Select("COALESCE(SUM(total_duration), 0), COALESCE(SUM(total_distance), 0)").
		Row()

	if err := row.Scan(&duration, &distance); err != nil {
		return 0, 0, err
	}

	return duration, distance, nil
}

// SeedDrones stores drones whose names are not known yet.
func (mm *DatabaseManager) SeedDrones(drones []*model.Drone) (int, error) {
	n := 0

	for _, d := range drones {
		if d == nil || d.Name == "" {
			continue
		}

		if mm.DroneQuery().Name(d.Name).One() != nil {
			continue
		}

		if d.Status == "" {
			d.Status = model.DroneAvailable
		}

		if err := mm.Create(d); err != nil {
			return n, err
		}

		n++
	}

	return n, nil
}
