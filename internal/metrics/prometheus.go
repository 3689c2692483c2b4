package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counters
	EvictionActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpusched_eviction_actions_total",
			Help: "Total eviction plan actions executed",
		},
		[]string{"action", "success"}, // action: unload, offload, optimize
	)

	PlacementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpusched_placements_total",
			Help: "Total placement decisions by strategy and outcome",
		},
		[]string{"strategy", "outcome"}, // outcome: local, transfer, rejected
	)

	TransfersRequestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpusched_transfers_requested_total",
			Help: "Total cross-machine transfer requests",
		},
		[]string{"coordination_type"},
	)

	DefragmentationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gpusched_defragmentations_total",
			Help: "Total defragmentation passes triggered",
		},
	)

	// Gauges
	MemoryUsageMB = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gpusched_memory_usage_mb",
			Help: "Current local VRAM usage in MB",
		},
	)

	PeakMemoryUsageMB = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gpusched_peak_memory_usage_mb",
			Help: "Peak local VRAM usage in MB",
		},
	)

	PressureLevel = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gpusched_pressure_level",
			Help: "Current memory pressure level (0=low .. 4=emergency)",
		},
	)

	FragmentationPct = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gpusched_fragmentation_pct",
			Help: "Current free-memory fragmentation percentage",
		},
	)

	PredictionAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gpusched_prediction_accuracy",
			Help: "Trend predictor accuracy over recent resolved predictions (0..1)",
		},
	)

	LoadedModels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gpusched_loaded_models",
			Help: "Number of tracked model memory profiles",
		},
	)

	MachinesByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gpusched_machines",
			Help: "Known machines by status",
		},
		[]string{"status"},
	)
)
