package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/policy"
	"github.com/mcules/gpu-scheduler/internal/vram"
)

func newTestScheduler(t *testing.T, usedMB, totalMB float64) (*Scheduler, *events.InProcBus, *vram.Synthetic) {
	t.Helper()
	bus := events.NewInProcBus()
	provider := vram.NewSynthetic(usedMB, totalMB)
	s := New(Config{MachineID: "machine-a", MemoryThresholdMB: totalMB}, provider, bus, nil)
	return s, bus, provider
}

func loadModel(s *Scheduler, id string, sizeMB float64) {
	s.HandleModelLoaded(context.Background(), events.ModelLoaded{
		ModelID:     id,
		VRAMUsageMB: sizeMB,
		ModelType:   "llm",
	})
}

func TestEvictionScoreOrdersStaleLowPriorityFirst(t *testing.T) {
	now := time.Now()

	// Old, unpopular, low priority.
	a := ModelMemoryProfile{
		ModelID:          "a",
		PriorityScore:    20,
		AccessFrequency:  2,
		LastAccessTime:   now.Add(-90 * time.Minute),
		MemoryEfficiency: 1.0,
	}
	// Fresh, popular, high priority.
	b := ModelMemoryProfile{
		ModelID:          "b",
		PriorityScore:    80,
		AccessFrequency:  50,
		LastAccessTime:   now.Add(-5 * time.Minute),
		MemoryEfficiency: 0.95,
	}

	scoreA := EvictionScore(a, now, 50, 0, StrategyBalanced)
	scoreB := EvictionScore(b, now, 50, 0, StrategyBalanced)
	require.Greater(t, scoreA, scoreB)

	// Age factor saturates at one hour idle.
	a.LastAccessTime = now.Add(-10 * time.Hour)
	require.Equal(t, scoreA, EvictionScore(a, now, 50, 0, StrategyBalanced))
}

func TestEvictionScoreEmergencySizeBias(t *testing.T) {
	now := time.Now()
	small := ModelMemoryProfile{ModelID: "s", PriorityScore: 50, CurrentMemoryMB: 1000, LastAccessTime: now, MemoryEfficiency: 1}
	big := small
	big.ModelID = "b"
	big.CurrentMemoryMB = 8000

	require.Equal(t,
		EvictionScore(small, now, 0, 8000, StrategyBalanced),
		EvictionScore(big, now, 0, 8000, StrategyBalanced))

	require.Greater(t,
		EvictionScore(big, now, 0, 8000, StrategyEmergency),
		EvictionScore(small, now, 0, 8000, StrategyEmergency))
}

func TestBuildPlanReachesTarget(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "low-prio", 4000)
	loadModel(s, "wasteful", 5000)
	loadModel(s, "keeper", 2000)

	s.profilesMu.Lock()
	s.profiles["low-prio"].PriorityScore = 10
	s.profiles["wasteful"].BaseMemoryMB = 4000
	s.profiles["wasteful"].MemoryEfficiency = 5000.0 / 4000.0 // above 1, not optimizable
	s.profiles["keeper"].PriorityScore = 90
	s.profilesMu.Unlock()

	// Only the low-priority model qualifies under balanced rules; "wasteful"
	// has efficiency above the optimize threshold and "keeper" is high prio.
	plan := s.BuildPlan(ctx, StrategyBalanced, 3000)
	require.Equal(t, PlanPlanned, plan.Status)
	require.Len(t, plan.Actions, 1)
	require.Equal(t, ActionUnload, plan.Actions[0].Type)
	require.Equal(t, "low-prio", plan.Actions[0].ModelID)
	require.Equal(t, 4000.0, plan.ExpectedMemoryFreedMB)
	require.Equal(t, 1.0, plan.ConfidenceScore)
}

func TestBuildPlanOptimizesInefficientModels(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "bloated", 5000)
	s.profilesMu.Lock()
	s.profiles["bloated"].BaseMemoryMB = 4000
	s.profiles["bloated"].MemoryEfficiency = 0.8
	s.profilesMu.Unlock()

	plan := s.BuildPlan(ctx, StrategyBalanced, 800)
	require.Len(t, plan.Actions, 1)
	require.Equal(t, ActionOptimize, plan.Actions[0].Type)
	require.Equal(t, 1000.0, plan.Actions[0].MemoryFreedMB) // waste only
	require.Equal(t, RiskLow, plan.Risk)
}

func TestBuildPlanConfidenceBelowOneWhenShort(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "only", 2000)
	s.profilesMu.Lock()
	s.profiles["only"].PriorityScore = 10
	s.profilesMu.Unlock()

	plan := s.BuildPlan(ctx, StrategyBalanced, 8000)
	require.Len(t, plan.Actions, 1)
	require.InDelta(t, 0.25, plan.ConfidenceScore, 1e-9)
}

func TestBuildPlanSkipsPinned(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	store, err := policy.Open(filepath.Join(t.TempDir(), "policies.db"))
	require.NoError(t, err)
	defer store.Close()
	s.WithPolicies(store)

	require.NoError(t, store.Upsert(ctx, policy.ModelPolicy{ModelID: "pinned", Priority: 5, Pinned: true}))

	loadModel(s, "pinned", 4000)
	loadModel(s, "evictable", 4000)
	s.profilesMu.Lock()
	s.profiles["pinned"].PriorityScore = 5
	s.profiles["evictable"].PriorityScore = 10
	s.profilesMu.Unlock()

	plan := s.BuildPlan(ctx, StrategyEmergency, 10000)
	require.Len(t, plan.Actions, 1)
	require.Equal(t, "evictable", plan.Actions[0].ModelID)
}

func TestEmergencyPlanUnloadsRegardlessOfPriority(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "important", 6000)
	s.profilesMu.Lock()
	s.profiles["important"].PriorityScore = 95
	s.profilesMu.Unlock()

	plan := s.BuildPlan(ctx, StrategyEmergency, 5000)
	require.Len(t, plan.Actions, 1)
	require.Equal(t, ActionUnload, plan.Actions[0].Type)
	require.Equal(t, RiskHigh, plan.Risk)
}

func TestOptimizeSingleFlight(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	s.optMu.Lock()
	s.optimizing = true
	s.optMu.Unlock()

	require.False(t, s.Optimize(ctx, StrategyBalanced, 1000))

	s.optMu.Lock()
	s.optimizing = false
	s.optMu.Unlock()

	require.True(t, s.Optimize(ctx, StrategyBalanced, 1000))
}

func TestExecutePlanPublishesUnloadAndResult(t *testing.T) {
	ctx := context.Background()
	s, bus, _ := newTestScheduler(t, 0, 24576)

	var unloads []string
	bus.Subscribe(events.TypeModelUnloadRequested, func(ctx context.Context, ev events.Event) {
		unloads = append(unloads, ev.ModelUnloadRequested.ModelID)
	})
	var optimized []events.VRAMOptimized
	bus.Subscribe(events.TypeVRAMOptimized, func(ctx context.Context, ev events.Event) {
		optimized = append(optimized, *ev.VRAMOptimized)
	})

	loadModel(s, "victim", 3000)
	s.profilesMu.Lock()
	s.profiles["victim"].PriorityScore = 10
	s.profilesMu.Unlock()

	require.True(t, s.Optimize(ctx, StrategyBalanced, 2000))
	require.Equal(t, []string{"victim"}, unloads)
	require.Len(t, optimized, 1)
	require.Equal(t, 3000.0, optimized[0].FreedMB)
	require.Equal(t, []string{"victim"}, optimized[0].AffectedModels)
}

func TestExecuteActionUnloadUnknownModelIsNoop(t *testing.T) {
	ctx := context.Background()
	s, bus, _ := newTestScheduler(t, 0, 24576)

	var unloads int
	bus.Subscribe(events.TypeModelUnloadRequested, func(ctx context.Context, ev events.Event) {
		unloads++
	})

	err := s.executeAction(ctx, StrategyBalanced, PlannedAction{Type: ActionUnload, ModelID: "ghost"})
	require.NoError(t, err)
	require.Zero(t, unloads)
}
