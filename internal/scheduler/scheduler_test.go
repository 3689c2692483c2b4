package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/vram"
)

func TestHandleModelLoadedSeedsProfile(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	s.HandleModelLoaded(ctx, events.ModelLoaded{
		ModelID:     "llama-7b",
		VRAMUsageMB: 4200,
		LoadTimeS:   12.5,
		ModelType:   "llm",
	})

	profiles := s.Profiles()
	require.Len(t, profiles, 1)
	p := profiles[0]
	require.Equal(t, "llama-7b", p.ModelID)
	require.Equal(t, 4200.0, p.CurrentMemoryMB)
	require.Equal(t, 4200.0, p.BaseMemoryMB)
	require.Equal(t, defaultPriority, p.PriorityScore)
	require.Equal(t, 1.0, p.MemoryEfficiency)
	require.Equal(t, int64(1), p.AccessFrequency)
	require.True(t, s.HasModel("llama-7b"))
}

func TestHandlePerformanceDegradedLowersPriority(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "m", 1000)
	for i := 0; i < 6; i++ {
		s.HandlePerformanceDegraded(ctx, events.ModelPerformanceDegraded{ModelID: "m", InferenceTimeMS: 900})
	}

	p := s.Profiles()[0]
	require.Equal(t, 0.0, p.PriorityScore) // floored, 50 - 6*10
	require.Equal(t, 900.0, p.AvgInferenceTimeMS)
}

func TestRecordAccessBumpsFrequency(t *testing.T) {
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "m", 1000)
	s.RecordAccess("m")
	s.RecordAccess("m")
	s.RecordAccess("ghost") // unknown model, no-op

	require.Equal(t, int64(3), s.Profiles()[0].AccessFrequency)
}

func TestPressureTickHighPressureEvicts(t *testing.T) {
	ctx := context.Background()
	s, bus, provider := newTestScheduler(t, 22000, 24576)

	var unloads []string
	bus.Subscribe(events.TypeModelUnloadRequested, func(ctx context.Context, ev events.Event) {
		unloads = append(unloads, ev.ModelUnloadRequested.ModelID)
	})

	loadModel(s, "cold", 3000)
	for i := 0; i < 3; i++ { // 50 -> 20, below the unload threshold
		s.HandlePerformanceDegraded(ctx, events.ModelPerformanceDegraded{ModelID: "cold", InferenceTimeMS: 500})
	}

	// 22000/24576 = 89.5%: high pressure, free down to 80% occupancy.
	s.PressureTick(ctx)

	require.Equal(t, []string{"cold"}, unloads)

	st := s.OptimizationStatus()
	require.Equal(t, "high", st.PressureLevel)
	require.Equal(t, StrategyBalanced, st.ActiveStrategy)
	require.Equal(t, 22000.0, st.UsageMB)
	require.Equal(t, 22000.0, st.PeakUsageMB)

	// Peak is sticky across falling usage.
	provider.SetUsage(10000)
	s.PressureTick(ctx)
	st = s.OptimizationStatus()
	require.Equal(t, 10000.0, st.UsageMB)
	require.Equal(t, 22000.0, st.PeakUsageMB)
	require.Equal(t, "low", st.PressureLevel)
}

func TestPressureTickLowPressureDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	s, bus, _ := newTestScheduler(t, 5000, 24576)

	var published int
	bus.Subscribe(events.TypeModelUnloadRequested, func(ctx context.Context, ev events.Event) { published++ })

	loadModel(s, "m", 1000)
	s.PressureTick(ctx)

	require.Zero(t, published)
	require.Equal(t, "low", s.OptimizationStatus().PressureLevel)
}

func TestPressureTickProviderFailureKeepsLastKnown(t *testing.T) {
	ctx := context.Background()
	s, _, provider := newTestScheduler(t, 8000, 24576)

	s.PressureTick(ctx)
	require.Equal(t, 8000.0, s.OptimizationStatus().UsageMB)

	provider.SetFailing(true)
	s.PressureTick(ctx)

	// Last-known usage survives the failed read.
	require.Equal(t, 8000.0, s.OptimizationStatus().UsageMB)
}

func TestPressureTickAdoptsProviderTotalAsThreshold(t *testing.T) {
	ctx := context.Background()
	bus := events.NewInProcBus()
	provider := vram.NewSynthetic(6000, 16384)
	s := New(Config{MachineID: "m"}, provider, bus, nil)

	s.PressureTick(ctx)
	require.Equal(t, 16384.0, s.OptimizationStatus().ThresholdMB)
}

func TestEnsureCapacity(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 10000, 24576)
	s.PressureTick(ctx)

	// Fits within the budget: nothing to do.
	require.True(t, s.EnsureCapacity(ctx, 5000))
	require.Equal(t, StrategyConservative, s.OptimizationStatus().ActiveStrategy)

	// Deficit triggers a pre-emptive balanced pass.
	require.True(t, s.EnsureCapacity(ctx, 20000))
	require.Equal(t, StrategyBalanced, s.OptimizationStatus().ActiveStrategy)
}

func TestRecentHistoryRingWraps(t *testing.T) {
	bus := events.NewInProcBus()
	s := New(Config{MachineID: "m", MemoryThresholdMB: 1000, HistorySize: 4}, vram.NewSynthetic(0, 1000), bus, nil)

	for i := 0; i < 6; i++ {
		s.appendHistory(HistorySample{UsageMB: float64(i)})
	}

	recent := s.recentHistory(10)
	require.Len(t, recent, 4)
	require.Equal(t, 2.0, recent[0].UsageMB)
	require.Equal(t, 5.0, recent[3].UsageMB)

	recent = s.recentHistory(2)
	require.Len(t, recent, 2)
	require.Equal(t, 4.0, recent[0].UsageMB)
}
