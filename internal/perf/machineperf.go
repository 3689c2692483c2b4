package perf

import (
	"sync"
	"time"
)

// historySize is how many recent scores feed the per-machine average.
const historySize = 5

// ScoreFromLatency maps an observed inference latency to a 0..100
// performance score. 100ms costs 10 points.
func ScoreFromLatency(latencyMS float64) float64 {
	score := 100 - latencyMS/100*10
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

type machineHistory struct {
	scores []float64
	next   int
	full   bool

	// Rolling counters, not time-windowed.
	Observations uint64
	LastAt       time.Time
}

// Store keeps the last few performance scores per machine. Placement's
// best-performance strategy and the strategy auto-tuner both read it.
type Store struct {
	mu       sync.RWMutex
	machines map[string]*machineHistory
}

func New() *Store {
	return &Store{machines: map[string]*machineHistory{}}
}

// ObserveLatency records one inference latency sample for a machine.
func (s *Store) ObserveLatency(machineID string, latencyMS float64) {
	s.ObserveScore(machineID, ScoreFromLatency(latencyMS))
}

// ObserveScore records an already-computed performance score.
func (s *Store) ObserveScore(machineID string, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.machines[machineID]
	if h == nil {
		h = &machineHistory{scores: make([]float64, historySize)}
		s.machines[machineID] = h
	}
	h.scores[h.next] = score
	h.next++
	if h.next >= len(h.scores) {
		h.next = 0
		h.full = true
	}
	h.Observations++
	h.LastAt = time.Now()
}

// Average returns the mean of the recorded scores for a machine. ok is false
// when no score has been observed yet.
func (s *Store) Average(machineID string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.machines[machineID]
	if h == nil {
		return 0, false
	}
	n := h.next
	if h.full {
		n = len(h.scores)
	}
	if n == 0 {
		return 0, false
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += h.scores[i]
	}
	return sum / float64(n), true
}

// ClusterAverage averages over every machine with history. ok is false when
// no machine has any.
func (s *Store) ClusterAverage() (float64, bool) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.machines))
	for id := range s.machines {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	var sum float64
	var n int
	for _, id := range ids {
		if avg, ok := s.Average(id); ok {
			sum += avg
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Delete drops a machine's history.
func (s *Store) Delete(machineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.machines, machineID)
}
