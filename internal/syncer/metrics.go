package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kantine_remote_sync_attempts_total",
		Help: "Remote sync attempts by result.",
	}, []string{"result"})

	onlineGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kantine_remote_online",
		Help: "Whether the last remote operation succeeded (1) or failed (0).",
	})

	snapshotWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kantine_snapshot_writes_total",
		Help: "Local snapshot writes.",
	})
)
