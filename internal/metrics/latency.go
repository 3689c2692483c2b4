package metrics

import (
	"sync"
	"time"
)

type MachineLatency struct {
	// EWMA of control-plane RTT in milliseconds.
	EWMAms float64

	// Counters (rolling since start).
	OK    uint64
	Error uint64

	// Last observed RTT.
	LastRTT time.Duration

	// Timestamp of last observation.
	LastAt time.Time
}

// LatencyTracker smooths per-machine network RTT with an EWMA. The adaptive
// placement strategy reads it as a tie-breaking signal.
type LatencyTracker struct {
	mu       sync.RWMutex
	alpha    float64
	machines map[string]*MachineLatency
}

// NewLatencyTracker creates a tracker with EWMA smoothing factor alpha.
// Typical alpha: 0.1..0.3 (higher reacts faster).
func NewLatencyTracker(alpha float64) *LatencyTracker {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.2
	}
	return &LatencyTracker{
		alpha:    alpha,
		machines: map[string]*MachineLatency{},
	}
}

func (t *LatencyTracker) ObserveOK(machineID string, rtt time.Duration) {
	t.observe(machineID, rtt, true)
}

func (t *LatencyTracker) ObserveError(machineID string, rtt time.Duration) {
	t.observe(machineID, rtt, false)
}

func (t *LatencyTracker) observe(machineID string, rtt time.Duration, ok bool) {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.machines[machineID]
	if m == nil {
		m = &MachineLatency{}
		t.machines[machineID] = m
	}

	ms := float64(rtt.Milliseconds())
	if ms < 0 {
		ms = 0
	}

	if m.EWMAms == 0 {
		m.EWMAms = ms
	} else {
		m.EWMAms = (t.alpha * ms) + ((1.0 - t.alpha) * m.EWMAms)
	}

	m.LastRTT = rtt
	m.LastAt = now
	if ok {
		m.OK++
	} else {
		m.Error++
	}
}

func (t *LatencyTracker) Get(machineID string) (MachineLatency, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m := t.machines[machineID]
	if m == nil {
		return MachineLatency{}, false
	}
	return *m, true
}

func (t *LatencyTracker) Snapshot() map[string]MachineLatency {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]MachineLatency, len(t.machines))
	for k, v := range t.machines {
		out[k] = *v
	}
	return out
}

func (t *LatencyTracker) Delete(machineID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.machines, machineID)
}
