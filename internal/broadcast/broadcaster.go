package broadcast

import (
	"log/slog"

	"github.com/dronesurvey/dss/internal/model"
)

type Broadcaster struct {
	reg    *Registry
	logger *slog.Logger
}

func New(reg *Registry) *Broadcaster {
	return &Broadcaster{
		reg:    reg,
		logger: slog.With("logger", "broadcast"),
	}
}

// Publish delivers the snapshot to every observer of the mission. Observers that
// cannot take it are dropped; nothing is reported back to the caller.
func (b *Broadcaster) Publish(missionID uint, snapshot *model.MissionDTO) {
	if b == nil || snapshot == nil {
		return
	}

	for _, o := range b.reg.Observers(missionID) {
		if o.Send(snapshot) {
			deliveryMetric.WithLabelValues("ok").Inc()
			continue
		}

		deliveryMetric.WithLabelValues("dropped").Inc()

		if b.reg.Unregister(missionID, o) {
			b.logger.Info("observer dropped", slog.String("observer", o.GetName()), slog.Uint64("mission", uint64(missionID)))
		}
	}
}
