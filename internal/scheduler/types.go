package scheduler

import "time"

// PressureLevel classifies current usage severity.
type PressureLevel int

const (
	PressureLow PressureLevel = iota
	PressureMedium
	PressureHigh
	PressureCritical
	PressureEmergency
)

func (p PressureLevel) String() string {
	switch p {
	case PressureLow:
		return "low"
	case PressureMedium:
		return "medium"
	case PressureHigh:
		return "high"
	case PressureCritical:
		return "critical"
	case PressureEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// ClassifyPressure maps usage percent (usage/threshold*100) to a level.
// Boundaries are exact at 70/85/95/98.
func ClassifyPressure(pct float64) PressureLevel {
	switch {
	case pct >= 98:
		return PressureEmergency
	case pct >= 95:
		return PressureCritical
	case pct >= 85:
		return PressureHigh
	case pct >= 70:
		return PressureMedium
	default:
		return PressureLow
	}
}

// TargetOccupancy is the post-optimization occupancy fraction per level.
func TargetOccupancy(level PressureLevel) float64 {
	switch level {
	case PressureEmergency:
		return 0.60
	case PressureCritical:
		return 0.70
	case PressureHigh:
		return 0.80
	default:
		return 0.85
	}
}

// Strategy selects how aggressively the eviction planner frees memory.
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyBalanced     Strategy = "balanced"
	StrategyAggressive   Strategy = "aggressive"
	StrategyEmergency    Strategy = "emergency"
)

// StrategyForPressure maps a pressure level to the planner strategy used for
// reactive optimization.
func StrategyForPressure(level PressureLevel) Strategy {
	switch level {
	case PressureEmergency:
		return StrategyEmergency
	case PressureCritical:
		return StrategyAggressive
	case PressureHigh:
		return StrategyBalanced
	default:
		return StrategyConservative
	}
}

// ModelMemoryProfile tracks one locally loaded model. Owned exclusively by
// the scheduler; callers only ever see copies.
type ModelMemoryProfile struct {
	ModelID            string    `json:"model_id"`
	ModelType          string    `json:"model_type"`
	BaseMemoryMB       float64   `json:"base_memory_mb"`
	CurrentMemoryMB    float64   `json:"current_memory_mb"`
	AccessFrequency    int64     `json:"access_frequency"`
	LastAccessTime     time.Time `json:"last_access_time"`
	LoadedAt           time.Time `json:"loaded_at"`
	LoadTimeS          float64   `json:"load_time_s"`
	AvgInferenceTimeMS float64   `json:"avg_inference_time_ms"`
	PriorityScore      float64   `json:"priority_score"`      // 0..100, higher = keep
	MemoryEfficiency   float64   `json:"memory_efficiency"`   // actual/expected ratio
	FragmentationScore float64   `json:"fragmentation_score"`
}

// MemoryWasteMB is the reclaimable overhead above the model's base footprint.
func (p *ModelMemoryProfile) MemoryWasteMB() float64 {
	waste := p.CurrentMemoryMB - p.BaseMemoryMB
	if waste < 0 {
		return 0
	}
	return waste
}

// MemorySegment is one block in the local VRAM layout model.
type MemorySegment struct {
	StartOffsetMB float64 `json:"start_offset_mb"`
	SizeMB        float64 `json:"size_mb"`
	ModelID       string  `json:"model_id,omitempty"`
	IsFree        bool    `json:"is_free"`
}

type ActionType string

const (
	ActionUnload   ActionType = "unload"
	ActionOffload  ActionType = "offload"
	ActionOptimize ActionType = "optimize"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type PlannedAction struct {
	Type          ActionType
	ModelID       string
	MemoryFreedMB float64
	Risk          RiskLevel
	Reasoning     string
}

type PlanStatus string

const (
	PlanPlanned   PlanStatus = "planned"
	PlanRunning   PlanStatus = "running"
	PlanCompleted PlanStatus = "completed"
	PlanFailed    PlanStatus = "failed" // partial completion, no rollback
)

// OptimizationPlan is transient: built, executed, discarded.
type OptimizationPlan struct {
	Strategy              Strategy
	Actions               []PlannedAction
	ExpectedMemoryFreedMB float64
	ConfidenceScore       float64
	Risk                  RiskLevel
	Status                PlanStatus
}

// HistorySample is one entry in the bounded usage history ring.
type HistorySample struct {
	At               time.Time
	UsageMB          float64
	Level            PressureLevel
	FragmentationPct float64
	ModelCount       int
}
