package events

import "time"

type Type string

// Inbound events consumed by the scheduler.
const (
	TypeModelLoadRequested       Type = "model_load_requested"
	TypeModelLoaded              Type = "model_loaded"
	TypeModelUnloaded            Type = "model_unloaded"
	TypeModelPerformanceDegraded Type = "model_performance_degraded"
)

// Outbound events published by the scheduler.
const (
	TypeModelUnloadRequested          Type = "model_unload_requested"
	TypeCrossMachineTransferRequested Type = "cross_machine_transfer_requested"
	TypeVRAMOptimized                 Type = "vram_optimized"
	TypeMemoryOptimizationCompleted   Type = "memory_optimization_completed"
	TypeLoadBalancingRequired         Type = "load_balancing_required"
)

// Event is the envelope carried over the bus. Exactly one payload pointer is
// set, matching Type.
type Event struct {
	Type Type      `json:"type"`
	At   time.Time `json:"at"`

	ModelLoadRequested       *ModelLoadRequested       `json:"model_load_requested,omitempty"`
	ModelLoaded              *ModelLoaded              `json:"model_loaded,omitempty"`
	ModelUnloaded            *ModelUnloaded            `json:"model_unloaded,omitempty"`
	ModelPerformanceDegraded *ModelPerformanceDegraded `json:"model_performance_degraded,omitempty"`
	ModelUnloadRequested     *ModelUnloadRequested     `json:"model_unload_requested,omitempty"`
	CrossMachineTransfer     *CrossMachineTransfer     `json:"cross_machine_transfer_requested,omitempty"`
	VRAMOptimized            *VRAMOptimized            `json:"vram_optimized,omitempty"`
	MemoryOptimizationResult *MemoryOptimizationResult `json:"memory_optimization_completed,omitempty"`
	LoadBalancingRequired    *LoadBalancingRequired    `json:"load_balancing_required,omitempty"`
}

type ModelLoadRequested struct {
	ModelID          string  `json:"model_id"`
	ExpectedVRAMMB   float64 `json:"expected_vram_mb"`
	RequesterMachine string  `json:"requester_machine"`
}

type ModelLoaded struct {
	ModelID     string  `json:"model_id"`
	VRAMUsageMB float64 `json:"vram_usage_mb"`
	LoadTimeS   float64 `json:"load_time_s"`
	ModelType   string  `json:"model_type"`
}

type ModelUnloaded struct {
	ModelID string `json:"model_id"`
}

type ModelPerformanceDegraded struct {
	ModelID         string  `json:"model_id"`
	InferenceTimeMS float64 `json:"inference_time_ms"`
}

type ModelUnloadRequested struct {
	ModelID string `json:"model_id"`
}

type CrossMachineTransfer struct {
	ModelID          string  `json:"model_id"`
	SourceMachine    string  `json:"source_machine"`
	TargetMachine    string  `json:"target_machine"`
	SizeMB           float64 `json:"size_mb"`
	CoordinationType string  `json:"coordination_type"`
	Priority         string  `json:"priority"`
}

type VRAMOptimized struct {
	FreedMB        float64  `json:"freed_mb"`
	AffectedModels []string `json:"affected_models"`
}

type MemoryOptimizationResult struct {
	FragmentationPct float64 `json:"fragmentation_pct"`
}

type LoadBalancingRequired struct {
	SourceMachine string `json:"source_machine"`
}
