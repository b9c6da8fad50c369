package missions

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dronesurvey/dss/internal/database"
	"github.com/dronesurvey/dss/internal/model"
	"github.com/dronesurvey/dss/internal/report"
)

type Store interface {
	LoadMission(id uint) (*model.Mission, error)
	ApplyStatusChange(c *database.StatusChange) error
}

type Publisher interface {
	Publish(missionID uint, snapshot *model.MissionDTO)
}

type ReportFunc func(m *model.Mission) *model.SurveyReport

// Controller applies operator commands to missions, one command per mission at a time.
type Controller struct {
	store  Store
	pub    Publisher
	report ReportFunc
	locks  *missionLocks
	now    func() time.Time
	logger *slog.Logger
}

func NewController(store Store, pub Publisher) *Controller {
	return &Controller{
		store:  store,
		pub:    pub,
		report: report.Generate,
		locks:  newMissionLocks(),
		now:    time.Now,
		logger: slog.With("logger", "controller"),
	}
}

func (c *Controller) SetReportFunc(f ReportFunc) {
	c.report = f
}

// Apply validates action against the mission's current status, persists the
// transition and publishes the resulting snapshot.
func (c *Controller) Apply(missionID uint, action Action) (*model.MissionDTO, error) {
	unlock := c.locks.Lock(missionID)
	defer unlock()

	m, err := c.store.LoadMission(missionID)
	if err != nil {
		return nil, fmt.Errorf("load mission %d: %w", missionID, err)
	}

	if m == nil {
		return nil, ErrNotFound
	}

	from := m.Status

	to, ok := Next(from, action)
	if !ok {
		transitionsMetric.WithLabelValues(string(action), "rejected").Inc()
		return nil, &TransitionError{Action: action, Status: from}
	}

	change := c.makeChange(m, to)

	if err := c.store.ApplyStatusChange(change); err != nil {
		if errors.Is(err, database.ErrStaleStatus) {
			transitionsMetric.WithLabelValues(string(action), "rejected").Inc()
			return nil, &TransitionError{Action: action, Status: c.currentStatus(missionID, from)}
		}

		transitionsMetric.WithLabelValues(string(action), "error").Inc()
		c.logger.Error("transition failed", slog.Uint64("mission", uint64(missionID)), slog.Any("error", err))

		return nil, fmt.Errorf("save mission %d: %w", missionID, err)
	}

	transitionsMetric.WithLabelValues(string(action), "ok").Inc()

	updated, err := c.store.LoadMission(missionID)
	if err != nil {
		return nil, fmt.Errorf("reload mission %d: %w", missionID, err)
	}

	if updated == nil {
		return nil, ErrNotFound
	}

	c.logger.Info(fmt.Sprintf("%s, was %s", updated, from), slog.String("action", string(action)))

	snapshot := model.ToMissionDTO(updated)

	if c.pub != nil {
		c.pub.Publish(missionID, snapshot)
	}

	return snapshot, nil
}

func (c *Controller) makeChange(m *model.Mission, to model.MissionStatus) *database.StatusChange {
	now := c.now().UTC()

	change := &database.StatusChange{
		MissionID: m.ID,
		From:      m.Status,
		To:        to,
	}

	if to == model.StatusInProgress && m.StartedAt == nil {
		change.StartedAt = &now
	}

	if to.IsTerminal() {
		change.CompletedAt = &now

		if !m.HasReport() {
			final := *m
			final.Status = to
			final.CompletedAt = &now
			change.Report = c.report(&final)
		}
	}

	if m.DroneID != nil {
		switch {
		case to == model.StatusInProgress:
			change.DroneID = m.DroneID
			change.DroneStatus = model.DroneInMission
		case to.IsTerminal():
			change.DroneID = m.DroneID
			change.DroneStatus = model.DroneAvailable
		}
	}

	return change
}

func (c *Controller) currentStatus(missionID uint, fallback model.MissionStatus) model.MissionStatus {
	m, err := c.store.LoadMission(missionID)
	if err != nil || m == nil {
		return fallback
	}

	return m.Status
}
