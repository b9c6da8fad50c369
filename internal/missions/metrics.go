//nolint:gochecknoglobals
package missions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dss",
	Name:      "mission_commands",
	Help:      "Mission control commands by action and result",
}, []string{"action", "result"})
