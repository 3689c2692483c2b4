package state

import (
	"sync"
	"time"
)

type MachineStatus string

const (
	StatusOnline      MachineStatus = "online"
	StatusDegraded    MachineStatus = "degraded"
	StatusOffline     MachineStatus = "offline"
	StatusMaintenance MachineStatus = "maintenance"
)

// Health thresholds. A machine that stops heartbeating is offline; one that
// is saturated but alive is degraded and still placement-eligible.
const (
	HeartbeatTimeout   = 120 * time.Second
	DegradedGPUUtilPct = 95.0
	DegradedMemUtilPct = 90.0
)

type GPUMetrics struct {
	Index          int     `json:"index"`
	UtilizationPct float64 `json:"utilization_pct"`
	MemoryUsedMB   float64 `json:"memory_used_mb"`
	MemoryTotalMB  float64 `json:"memory_total_mb"`
}

type Capabilities struct {
	GPUCount int
	Primary  bool
}

// ModelPlacement records a model resident on a machine, as reported by its
// agent.
type ModelPlacement struct {
	ModelID     string    `json:"model_id"`
	SizeMB      float64   `json:"size_mb"`
	LoadedSince time.Time `json:"loaded_since"`
}

type MachineInfo struct {
	MachineID        string
	Status           MachineStatus
	GPUs             []GPUMetrics
	CPUPercent       float64
	NetworkLatencyMS float64
	LastHeartbeat    time.Time
	Capabilities     Capabilities
	Models           map[string]ModelPlacement
}

// AvgGPUUtilization averages utilization over all reported GPUs.
func (m *MachineInfo) AvgGPUUtilization() float64 {
	if len(m.GPUs) == 0 {
		return 0
	}
	var sum float64
	for _, g := range m.GPUs {
		sum += g.UtilizationPct
	}
	return sum / float64(len(m.GPUs))
}

// MemoryUsedMB sums used VRAM over all GPUs.
func (m *MachineInfo) MemoryUsedMB() float64 {
	var sum float64
	for _, g := range m.GPUs {
		sum += g.MemoryUsedMB
	}
	return sum
}

// MemoryTotalMB sums total VRAM over all GPUs.
func (m *MachineInfo) MemoryTotalMB() float64 {
	var sum float64
	for _, g := range m.GPUs {
		sum += g.MemoryTotalMB
	}
	return sum
}

// AvailableMemoryMB is total minus used VRAM across the machine.
func (m *MachineInfo) AvailableMemoryMB() float64 {
	return m.MemoryTotalMB() - m.MemoryUsedMB()
}

// MemoryUtilizationPct is used/total in percent, 0 when nothing is reported.
func (m *MachineInfo) MemoryUtilizationPct() float64 {
	total := m.MemoryTotalMB()
	if total <= 0 {
		return 0
	}
	return m.MemoryUsedMB() / total * 100
}

// Eligible reports whether the machine may receive placements.
func (m *MachineInfo) Eligible() bool {
	return m.Status == StatusOnline || m.Status == StatusDegraded
}

// Tracker maintains per-machine health and residency from agent heartbeats.
// All access goes through the tracker's lock; snapshots are deep copies.
type Tracker struct {
	mu       sync.RWMutex
	machines map[string]*MachineInfo
}

func NewTracker() *Tracker {
	return &Tracker{machines: map[string]*MachineInfo{}}
}

// UpsertHello registers a machine from its hello message.
func (t *Tracker) UpsertHello(machineID string, caps Capabilities) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.machines[machineID]
	if !ok {
		m = &MachineInfo{
			MachineID: machineID,
			Status:    StatusOnline,
			Models:    map[string]ModelPlacement{},
		}
		t.machines[machineID] = m
	}
	m.Capabilities = caps
	m.LastHeartbeat = time.Now()
}

// UpdateStatus refreshes a machine from an agent status report.
func (t *Tracker) UpdateStatus(machineID string, gpus []GPUMetrics, cpuPct, latencyMS float64, models map[string]ModelPlacement) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.machines[machineID]
	if !ok {
		m = &MachineInfo{
			MachineID: machineID,
			Status:    StatusOnline,
			Models:    map[string]ModelPlacement{},
		}
		t.machines[machineID] = m
	}
	m.GPUs = append([]GPUMetrics(nil), gpus...)
	m.CPUPercent = cpuPct
	m.NetworkLatencyMS = latencyMS
	m.LastHeartbeat = time.Now()
	if models != nil {
		m.Models = models
	}
}

// SetMaintenance toggles the administrative maintenance state. Leaving
// maintenance re-evaluates health on the next tick.
func (t *Tracker) SetMaintenance(machineID string, on bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.machines[machineID]
	if !ok {
		return false
	}
	if on {
		m.Status = StatusMaintenance
	} else {
		m.Status = StatusOnline
	}
	return true
}

// EvaluateHealth reclassifies every machine. Maintenance is sticky until
// cleared administratively.
func (t *Tracker) EvaluateHealth(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, m := range t.machines {
		if m.Status == StatusMaintenance {
			continue
		}
		switch {
		case now.Sub(m.LastHeartbeat) > HeartbeatTimeout:
			m.Status = StatusOffline
		case m.AvgGPUUtilization() > DegradedGPUUtilPct || m.MemoryUtilizationPct() > DegradedMemUtilPct:
			m.Status = StatusDegraded
		default:
			m.Status = StatusOnline
		}
	}
}

// Snapshot returns deep copies of all machines.
func (t *Tracker) Snapshot() []*MachineInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*MachineInfo, 0, len(t.machines))
	for _, m := range t.machines {
		out = append(out, cloneMachine(m))
	}
	return out
}

// SnapshotEligible returns copies of Online/Degraded machines only.
func (t *Tracker) SnapshotEligible() []*MachineInfo {
	all := t.Snapshot()
	out := make([]*MachineInfo, 0, len(all))
	for _, m := range all {
		if m.Eligible() {
			out = append(out, m)
		}
	}
	return out
}

// Get returns a copy of one machine.
func (t *Tracker) Get(machineID string) (*MachineInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m, ok := t.machines[machineID]
	if !ok {
		return nil, false
	}
	return cloneMachine(m), true
}

// PlacementMap returns model id -> machine id over all machines.
func (t *Tracker) PlacementMap() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := map[string]string{}
	for id, m := range t.machines {
		for modelID := range m.Models {
			out[modelID] = id
		}
	}
	return out
}

func cloneMachine(m *MachineInfo) *MachineInfo {
	cp := *m
	cp.GPUs = append([]GPUMetrics(nil), m.GPUs...)
	cp.Models = make(map[string]ModelPlacement, len(m.Models))
	for k, v := range m.Models {
		cp.Models[k] = v
	}
	return &cp
}
