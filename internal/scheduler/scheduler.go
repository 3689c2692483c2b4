package scheduler

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
	"github.com/mcules/gpu-scheduler/internal/policy"
	"github.com/mcules/gpu-scheduler/internal/state"
	"github.com/mcules/gpu-scheduler/internal/vram"
)

const (
	defaultHistorySize = 1440
	defaultPriority    = 50.0
)

type Config struct {
	// MachineID identifies the local machine in cluster state and events.
	MachineID string

	// MemoryThresholdMB is the local VRAM budget the scheduler keeps usage
	// under. When 0, the provider's reported total is used.
	MemoryThresholdMB float64

	// Tick frequencies.
	PressureInterval      time.Duration // default 5s
	FragmentationInterval time.Duration // default 60s
	PredictionInterval    time.Duration // default 5m

	// Pause between plan actions during execution.
	ActionPause time.Duration

	// HistorySize bounds the usage history ring.
	HistorySize int
}

func (c Config) withDefaults() Config {
	if c.PressureInterval <= 0 {
		c.PressureInterval = 5 * time.Second
	}
	if c.FragmentationInterval <= 0 {
		c.FragmentationInterval = 60 * time.Second
	}
	if c.PredictionInterval <= 0 {
		c.PredictionInterval = 5 * time.Minute
	}
	if c.HistorySize <= 0 {
		c.HistorySize = defaultHistorySize
	}
	return c
}

// Scheduler is the local VRAM engine: pressure monitoring, fragmentation
// analysis, trend prediction and eviction planning over one machine's model
// profiles. Each state collection has its own lock; no code path holds two
// locks at once.
type Scheduler struct {
	cfg      Config
	provider vram.MetricsProvider
	bus      events.Publisher
	cluster  *state.Tracker
	policies *policy.Store // optional
	activity *activity.Log // optional
	perfs    *perf.Store   // optional

	profilesMu sync.Mutex
	profiles   map[string]*ModelMemoryProfile

	segmentsMu sync.Mutex
	segments   []MemorySegment

	historyMu sync.Mutex
	history   []HistorySample
	histNext  int
	histFull  bool

	statusMu       sync.Mutex
	currentUsageMB float64
	peakUsageMB    float64
	thresholdMB    float64
	lastLevel      PressureLevel
	lastFragPct    float64
	activeStrategy Strategy

	optMu      sync.Mutex
	optimizing bool

	predMu      sync.Mutex
	predictions []predictionRecord
	accuracy    float64
}

func New(cfg Config, provider vram.MetricsProvider, bus events.Publisher, cluster *state.Tracker) *Scheduler {
	cfg = cfg.withDefaults()
	return &Scheduler{
		cfg:            cfg,
		provider:       provider,
		bus:            bus,
		cluster:        cluster,
		profiles:       map[string]*ModelMemoryProfile{},
		history:        make([]HistorySample, cfg.HistorySize),
		thresholdMB:    cfg.MemoryThresholdMB,
		activeStrategy: StrategyConservative,
	}
}

// WithPolicies attaches the sqlite policy store (priorities, pins, TTLs).
func (s *Scheduler) WithPolicies(p *policy.Store) *Scheduler {
	s.policies = p
	return s
}

// WithActivity attaches the action ring log.
func (s *Scheduler) WithActivity(a *activity.Log) *Scheduler {
	s.activity = a
	return s
}

// WithPerf attaches the machine performance store fed by degradation events.
func (s *Scheduler) WithPerf(p *perf.Store) *Scheduler {
	s.perfs = p
	return s
}

// Subscribe registers the scheduler's inbound event handlers on the bus.
func (s *Scheduler) Subscribe(bus events.Bus) {
	bus.Subscribe(events.TypeModelLoaded, func(ctx context.Context, ev events.Event) {
		if ev.ModelLoaded != nil {
			s.HandleModelLoaded(ctx, *ev.ModelLoaded)
		}
	})
	bus.Subscribe(events.TypeModelUnloaded, func(ctx context.Context, ev events.Event) {
		if ev.ModelUnloaded != nil {
			s.HandleModelUnloaded(ctx, *ev.ModelUnloaded)
		}
	})
	bus.Subscribe(events.TypeModelPerformanceDegraded, func(ctx context.Context, ev events.Event) {
		if ev.ModelPerformanceDegraded != nil {
			s.HandlePerformanceDegraded(ctx, *ev.ModelPerformanceDegraded)
		}
	})
}

// HandleModelLoaded creates or refreshes the model's profile and extends the
// segment map.
func (s *Scheduler) HandleModelLoaded(ctx context.Context, ev events.ModelLoaded) {
	now := time.Now()

	base := ev.VRAMUsageMB
	prio := defaultPriority
	if s.policies != nil {
		if pol, ok, err := s.policies.Get(ctx, ev.ModelID); err != nil {
			log.Printf("scheduler: policy lookup model=%s err=%v", ev.ModelID, err)
		} else if ok {
			prio = float64(pol.Priority)
			if pol.ExpectedVRAMMB > 0 {
				base = pol.ExpectedVRAMMB
			}
		}
	}

	efficiency := 1.0
	if base > 0 {
		efficiency = ev.VRAMUsageMB / base
	}

	s.profilesMu.Lock()
	s.profiles[ev.ModelID] = &ModelMemoryProfile{
		ModelID:          ev.ModelID,
		ModelType:        ev.ModelType,
		BaseMemoryMB:     base,
		CurrentMemoryMB:  ev.VRAMUsageMB,
		AccessFrequency:  1,
		LastAccessTime:   now,
		LoadedAt:         now,
		LoadTimeS:        ev.LoadTimeS,
		PriorityScore:    prio,
		MemoryEfficiency: efficiency,
	}
	count := len(s.profiles)
	s.profilesMu.Unlock()

	metrics.LoadedModels.Set(float64(count))
	s.RebuildSegments()
	log.Printf("scheduler: model loaded id=%s vram=%.0fMB priority=%.0f", ev.ModelID, ev.VRAMUsageMB, prio)
}

// HandleModelUnloaded drops the profile and frees its segment in place. The
// hole it leaves is what the fragmentation analyzer measures.
func (s *Scheduler) HandleModelUnloaded(ctx context.Context, ev events.ModelUnloaded) {
	s.profilesMu.Lock()
	_, existed := s.profiles[ev.ModelID]
	delete(s.profiles, ev.ModelID)
	count := len(s.profiles)
	s.profilesMu.Unlock()

	if !existed {
		// Unload of an unknown model is a no-op.
		return
	}

	metrics.LoadedModels.Set(float64(count))
	s.freeSegment(ev.ModelID)
	log.Printf("scheduler: model unloaded id=%s", ev.ModelID)
}

// HandlePerformanceDegraded lowers the model's priority and records the
// latency sample for placement performance history.
func (s *Scheduler) HandlePerformanceDegraded(ctx context.Context, ev events.ModelPerformanceDegraded) {
	s.profilesMu.Lock()
	if p, ok := s.profiles[ev.ModelID]; ok {
		p.PriorityScore -= 10
		if p.PriorityScore < 0 {
			p.PriorityScore = 0
		}
		p.AvgInferenceTimeMS = ev.InferenceTimeMS
	}
	s.profilesMu.Unlock()

	if s.perfs != nil {
		s.perfs.ObserveLatency(s.cfg.MachineID, ev.InferenceTimeMS)
	}
}

// RecordAccess bumps access frequency, e.g. when a load request hits an
// already-resident model.
func (s *Scheduler) RecordAccess(modelID string) {
	s.profilesMu.Lock()
	defer s.profilesMu.Unlock()

	if p, ok := s.profiles[modelID]; ok {
		p.AccessFrequency++
		p.LastAccessTime = time.Now()
	}
}

// HasModel reports whether a profile exists for the model.
func (s *Scheduler) HasModel(modelID string) bool {
	s.profilesMu.Lock()
	defer s.profilesMu.Unlock()
	_, ok := s.profiles[modelID]
	return ok
}

// Profiles returns a sorted snapshot of all model profiles.
func (s *Scheduler) Profiles() []ModelMemoryProfile {
	s.profilesMu.Lock()
	out := make([]ModelMemoryProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	s.profilesMu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out
}

// threshold returns the effective memory budget.
func (s *Scheduler) threshold() float64 {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.thresholdMB
}

func (s *Scheduler) setThreshold(totalMB float64) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if s.thresholdMB <= 0 && totalMB > 0 {
		s.thresholdMB = totalMB
	}
}

// EnsureCapacity pre-emptively frees memory for an incoming load when the
// local budget cannot fit it. Returns false when an optimization was needed
// but another one was already running.
func (s *Scheduler) EnsureCapacity(ctx context.Context, requiredMB float64) bool {
	threshold := s.threshold()
	if threshold <= 0 {
		return true
	}

	s.statusMu.Lock()
	current := s.currentUsageMB
	s.statusMu.Unlock()

	deficit := current + requiredMB - threshold
	if deficit <= 0 {
		return true
	}
	log.Printf("scheduler: insufficient capacity for %.0fMB (deficit %.0fMB), planning eviction", requiredMB, deficit)
	return s.Optimize(ctx, StrategyBalanced, deficit)
}

func (s *Scheduler) appendHistory(sample HistorySample) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history[s.histNext] = sample
	s.histNext++
	if s.histNext >= len(s.history) {
		s.histNext = 0
		s.histFull = true
	}
}

// recentHistory returns up to n most recent samples, oldest first.
func (s *Scheduler) recentHistory(n int) []HistorySample {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	var all []HistorySample
	if s.histFull {
		all = append(all, s.history[s.histNext:]...)
		all = append(all, s.history[:s.histNext]...)
	} else {
		all = append(all, s.history[:s.histNext]...)
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// OptimizationStatus is the synchronous local query surface.
type OptimizationStatus struct {
	MachineID          string               `json:"machine_id"`
	UsageMB            float64              `json:"usage_mb"`
	PeakUsageMB        float64              `json:"peak_usage_mb"`
	ThresholdMB        float64              `json:"threshold_mb"`
	UsagePct           float64              `json:"usage_pct"`
	PressureLevel      string               `json:"pressure_level"`
	FragmentationPct   float64              `json:"fragmentation_pct"`
	ActiveStrategy     Strategy             `json:"active_strategy"`
	PredictionAccuracy float64              `json:"prediction_accuracy"`
	OptimizationActive bool                 `json:"optimization_active"`
	Models             []ModelMemoryProfile `json:"models"`
}

func (s *Scheduler) OptimizationStatus() OptimizationStatus {
	s.statusMu.Lock()
	st := OptimizationStatus{
		MachineID:        s.cfg.MachineID,
		UsageMB:          s.currentUsageMB,
		PeakUsageMB:      s.peakUsageMB,
		ThresholdMB:      s.thresholdMB,
		PressureLevel:    s.lastLevel.String(),
		FragmentationPct: s.lastFragPct,
		ActiveStrategy:   s.activeStrategy,
	}
	if st.ThresholdMB > 0 {
		st.UsagePct = st.UsageMB / st.ThresholdMB * 100
	}
	s.statusMu.Unlock()

	s.predMu.Lock()
	st.PredictionAccuracy = s.accuracy
	s.predMu.Unlock()

	s.optMu.Lock()
	st.OptimizationActive = s.optimizing
	s.optMu.Unlock()

	st.Models = s.Profiles()
	return st
}
