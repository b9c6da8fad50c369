//nolint:gochecknoglobals
package broadcast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	observersMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dss",
		Name:      "observers",
		Help:      "The number of live mission observers",
	})

	deliveryMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dss",
		Name:      "snapshot_deliveries",
		Help:      "Snapshot deliveries to observers",
	}, []string{"result"})
)
