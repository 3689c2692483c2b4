package placement

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/metrics"
	"github.com/mcules/gpu-scheduler/internal/perf"
	"github.com/mcules/gpu-scheduler/internal/state"
)

type Strategy string

const (
	StrategyRoundRobin      Strategy = "round_robin"
	StrategyLeastLoaded     Strategy = "least_loaded"
	StrategyBestPerformance Strategy = "best_performance"
	StrategyAdaptive        Strategy = "adaptive"
)

// Adaptive scoring weights. Hand-tuned; kept as configured constants.
const (
	adaptiveMemoryWeight     = 0.30
	adaptiveUtilWeight       = 0.25
	adaptiveHistoryWeight    = 0.20
	adaptiveCapabilityWeight = 0.15
	adaptiveLatencyWeight    = 0.10
)

// Self-tuning bounds on recent cluster-wide performance.
const (
	tuneToBestPerformanceBelow = 60.0
	tuneToLeastLoadedAbove     = 85.0
)

// Rough transfer speed used for load-time estimates.
const loadSecondsPerGB = 2.0

const roundRobinConfidence = 0.8

// Request asks where a model should be loaded.
type Request struct {
	ModelID          string
	ExpectedVRAMMB   float64
	RequesterMachine string
}

// Decision is the transient result of one placement evaluation.
type Decision struct {
	TargetMachine      string  `json:"target_machine"`
	TargetGPU          int     `json:"target_gpu"` // -1 when not applicable
	ConfidenceScore    float64 `json:"confidence_score"`
	Reasoning          string  `json:"reasoning"`
	EstimatedLoadTimeS float64 `json:"estimated_load_time_s"`
}

// Engine chooses a target machine for model-load requests. Decisions are
// stateless reads of cluster state; the round-robin index is the only
// mutable placement state, updated under the engine lock.
type Engine struct {
	Cluster *state.Tracker
	Perf    *perf.Store
	Latency *metrics.LatencyTracker

	mu       sync.Mutex
	rrIndex  int
	strategy Strategy
}

func NewEngine(cluster *state.Tracker, perfs *perf.Store, latency *metrics.LatencyTracker) *Engine {
	return &Engine{
		Cluster:  cluster,
		Perf:     perfs,
		Latency:  latency,
		strategy: StrategyAdaptive,
	}
}

func (e *Engine) Strategy() Strategy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strategy
}

func (e *Engine) SetStrategy(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategy = s
}

// Decide evaluates one load request against the current cluster state.
func (e *Engine) Decide(req Request) Decision {
	candidates := e.candidates(req.ExpectedVRAMMB)
	if len(candidates) == 0 {
		return Decision{
			TargetGPU:       -1,
			ConfidenceScore: 0,
			Reasoning:       "no suitable machine",
		}
	}

	strat := e.Strategy()
	var d Decision
	switch strat {
	case StrategyRoundRobin:
		d = e.decideRoundRobin(candidates)
	case StrategyLeastLoaded:
		d = e.decideLeastLoaded(candidates)
	case StrategyBestPerformance:
		d = e.decideBestPerformance(candidates)
	default:
		d = e.decideAdaptive(candidates)
	}

	d.EstimatedLoadTimeS = req.ExpectedVRAMMB / 1024 * loadSecondsPerGB
	return d
}

// candidates filters eligible machines with enough free VRAM, sorted by id
// for a stable round-robin order.
func (e *Engine) candidates(requiredMB float64) []*state.MachineInfo {
	all := e.Cluster.SnapshotEligible()
	out := make([]*state.MachineInfo, 0, len(all))
	for _, m := range all {
		if m.AvailableMemoryMB() >= requiredMB {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MachineID < out[j].MachineID })
	return out
}

func (e *Engine) decideRoundRobin(candidates []*state.MachineInfo) Decision {
	e.mu.Lock()
	idx := e.rrIndex % len(candidates)
	e.rrIndex++
	e.mu.Unlock()

	m := candidates[idx]
	return Decision{
		TargetMachine:   m.MachineID,
		TargetGPU:       bestGPU(m),
		ConfidenceScore: roundRobinConfidence,
		Reasoning:       "round robin",
	}
}

// loadScore combines GPU, memory and CPU load; lower is better.
func loadScore(m *state.MachineInfo) float64 {
	return m.AvgGPUUtilization()*0.4 + m.MemoryUtilizationPct()*0.4 + m.CPUPercent*0.2
}

func (e *Engine) decideLeastLoaded(candidates []*state.MachineInfo) Decision {
	best := candidates[0]
	bestScore := loadScore(best)
	for _, m := range candidates[1:] {
		if s := loadScore(m); s < bestScore {
			best = m
			bestScore = s
		}
	}
	conf := 1 - bestScore/100
	if conf < 0 {
		conf = 0
	}
	return Decision{
		TargetMachine:   best.MachineID,
		TargetGPU:       bestGPU(best),
		ConfidenceScore: conf,
		Reasoning:       "least loaded",
	}
}

func (e *Engine) decideBestPerformance(candidates []*state.MachineInfo) Decision {
	var best *state.MachineInfo
	var bestAvg float64
	for _, m := range candidates {
		avg, ok := e.Perf.Average(m.MachineID)
		if !ok {
			continue
		}
		if best == nil || avg > bestAvg {
			best = m
			bestAvg = avg
		}
	}
	if best == nil {
		// No candidate has performance history yet.
		return e.decideLeastLoaded(candidates)
	}
	return Decision{
		TargetMachine:   best.MachineID,
		TargetGPU:       bestGPU(best),
		ConfidenceScore: bestAvg / 100,
		Reasoning:       "best recent performance",
	}
}

func (e *Engine) adaptiveScore(m *state.MachineInfo) float64 {
	memScore := 0.0
	if total := m.MemoryTotalMB(); total > 0 {
		memScore = m.AvailableMemoryMB() / total * 100
	}
	utilScore := 100 - m.AvgGPUUtilization()

	historyScore := 50.0
	if avg, ok := e.Perf.Average(m.MachineID); ok {
		historyScore = avg
	}

	capabilityScore := 50.0
	if m.Capabilities.Primary {
		capabilityScore += 20
	}
	if m.Capabilities.GPUCount > 0 {
		capabilityScore += 30
	}

	latencyMS := m.NetworkLatencyMS
	if e.Latency != nil {
		if l, ok := e.Latency.Get(m.MachineID); ok && l.EWMAms > 0 {
			latencyMS = l.EWMAms
		}
	}
	latencyPenalty := latencyMS / 10
	if latencyPenalty > 20 {
		latencyPenalty = 20
	}
	latencyScore := 50 - latencyPenalty

	return memScore*adaptiveMemoryWeight +
		utilScore*adaptiveUtilWeight +
		historyScore*adaptiveHistoryWeight +
		capabilityScore*adaptiveCapabilityWeight +
		latencyScore*adaptiveLatencyWeight
}

func (e *Engine) decideAdaptive(candidates []*state.MachineInfo) Decision {
	best := candidates[0]
	bestScore := e.adaptiveScore(best)
	for _, m := range candidates[1:] {
		if s := e.adaptiveScore(m); s > bestScore {
			best = m
			bestScore = s
		}
	}
	conf := bestScore / 100
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return Decision{
		TargetMachine:   best.MachineID,
		TargetGPU:       bestGPU(best),
		ConfidenceScore: conf,
		Reasoning:       "adaptive score",
	}
}

// bestGPU picks the GPU with the most free memory on the machine, -1 when
// none are reported.
func bestGPU(m *state.MachineInfo) int {
	best := -1
	var bestFree float64
	for _, g := range m.GPUs {
		if free := g.MemoryTotalMB - g.MemoryUsedMB; best == -1 || free > bestFree {
			best = g.Index
			bestFree = free
		}
	}
	return best
}

// AutoTune switches strategy based on recent cluster-wide performance.
func (e *Engine) AutoTune() {
	avg, ok := e.Perf.ClusterAverage()
	if !ok {
		return
	}
	switch {
	case avg < tuneToBestPerformanceBelow:
		if e.Strategy() != StrategyBestPerformance {
			log.Printf("placement: cluster perf %.1f, switching to best_performance", avg)
			e.SetStrategy(StrategyBestPerformance)
		}
	case avg > tuneToLeastLoadedAbove:
		if e.Strategy() != StrategyLeastLoaded {
			log.Printf("placement: cluster perf %.1f, switching to least_loaded", avg)
			e.SetStrategy(StrategyLeastLoaded)
		}
	}
}

// RunAutoTune periodically re-evaluates the active strategy.
func (e *Engine) RunAutoTune(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.AutoTune()
		}
	}
}

// HandleLoadRequested routes one inbound model-load request: a remote winner
// becomes a cross-machine transfer request, a local winner is bookkeeping
// only.
func (e *Engine) HandleLoadRequested(ctx context.Context, req Request, pub events.Publisher, act *activity.Log) Decision {
	d := e.Decide(req)
	strat := string(e.Strategy())

	if d.TargetMachine == "" {
		metrics.PlacementsTotal.WithLabelValues(strat, "rejected").Inc()
		log.Printf("placement: model=%s size=%.0fMB rejected: %s", req.ModelID, req.ExpectedVRAMMB, d.Reasoning)
		return d
	}

	if d.TargetMachine != req.RequesterMachine {
		metrics.PlacementsTotal.WithLabelValues(strat, "transfer").Inc()
		metrics.TransfersRequestedTotal.WithLabelValues("load_balancing").Inc()
		if err := pub.Publish(ctx, events.Event{
			Type: events.TypeCrossMachineTransferRequested,
			At:   time.Now(),
			CrossMachineTransfer: &events.CrossMachineTransfer{
				ModelID:          req.ModelID,
				SourceMachine:    req.RequesterMachine,
				TargetMachine:    d.TargetMachine,
				SizeMB:           req.ExpectedVRAMMB,
				CoordinationType: "load_balancing",
				Priority:         "normal",
			},
		}); err != nil {
			log.Printf("placement: transfer publish model=%s err=%v", req.ModelID, err)
		}
	} else {
		metrics.PlacementsTotal.WithLabelValues(strat, "local").Inc()
	}

	if act != nil {
		act.Add(activity.Event{
			At:      time.Now(),
			Type:    activity.EventPlacement,
			Machine: d.TargetMachine,
			Model:   req.ModelID,
			Note:    d.Reasoning,
		})
	}
	log.Printf("placement: model=%s -> machine=%s gpu=%d confidence=%.2f (%s)", req.ModelID, d.TargetMachine, d.TargetGPU, d.ConfidenceScore, d.Reasoning)
	return d
}
