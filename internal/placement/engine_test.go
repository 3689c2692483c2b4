package placement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/metrics"
	"github.com/mcules/gpu-scheduler/internal/perf"
	"github.com/mcules/gpu-scheduler/internal/state"
)

// addMachine registers a machine with one GPU of the given shape.
func addMachine(tr *state.Tracker, id string, usedMB, totalMB, utilPct, cpuPct float64) {
	tr.UpsertHello(id, state.Capabilities{GPUCount: 1})
	tr.UpdateStatus(id, []state.GPUMetrics{{
		Index:          0,
		UtilizationPct: utilPct,
		MemoryUsedMB:   usedMB,
		MemoryTotalMB:  totalMB,
	}}, cpuPct, 0, nil)
}

func newTestEngine() (*Engine, *state.Tracker, *perf.Store) {
	tr := state.NewTracker()
	perfs := perf.New()
	return NewEngine(tr, perfs, metrics.NewLatencyTracker(0.2)), tr, perfs
}

func TestDecideNoSuitableMachine(t *testing.T) {
	e, tr, _ := newTestEngine()
	addMachine(tr, "tiny", 7000, 8192, 10, 10)

	d := e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 4000})
	require.Empty(t, d.TargetMachine)
	require.Equal(t, -1, d.TargetGPU)
	require.Zero(t, d.ConfidenceScore)
	require.Equal(t, "no suitable machine", d.Reasoning)
}

func TestDecideRoundRobinCycles(t *testing.T) {
	e, tr, _ := newTestEngine()
	e.SetStrategy(StrategyRoundRobin)

	addMachine(tr, "a", 0, 24576, 10, 10)
	addMachine(tr, "b", 0, 24576, 10, 10)
	addMachine(tr, "c", 0, 24576, 10, 10)

	var got []string
	for i := 0; i < 6; i++ {
		d := e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 1000})
		require.Equal(t, roundRobinConfidence, d.ConfidenceScore)
		got = append(got, d.TargetMachine)
	}
	require.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, got)
}

func TestDecideLeastLoaded(t *testing.T) {
	e, tr, _ := newTestEngine()
	e.SetStrategy(StrategyLeastLoaded)

	addMachine(tr, "busy", 20000, 24576, 90, 80)
	addMachine(tr, "idle", 2000, 24576, 5, 10)

	d := e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 1000})
	require.Equal(t, "idle", d.TargetMachine)
	// score = 5*0.4 + 8.14*0.4 + 10*0.2 -> confidence just over 0.92
	require.Greater(t, d.ConfidenceScore, 0.9)
}

func TestDecideBestPerformanceFallsBackWithoutHistory(t *testing.T) {
	e, tr, perfs := newTestEngine()
	e.SetStrategy(StrategyBestPerformance)

	addMachine(tr, "a", 2000, 24576, 50, 20)
	addMachine(tr, "b", 2000, 24576, 5, 10)

	// No history: least-loaded picks b.
	d := e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 1000})
	require.Equal(t, "b", d.TargetMachine)
	require.Equal(t, "least loaded", d.Reasoning)

	// History flips the choice to the faster machine.
	perfs.ObserveLatency("a", 50)  // score 95
	perfs.ObserveLatency("b", 800) // score 20
	d = e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 1000})
	require.Equal(t, "a", d.TargetMachine)
	require.Equal(t, "best recent performance", d.Reasoning)
	require.InDelta(t, 0.95, d.ConfidenceScore, 1e-9)
}

func TestDecideAdaptivePrefersFreeAndFast(t *testing.T) {
	e, tr, perfs := newTestEngine()
	require.Equal(t, StrategyAdaptive, e.Strategy())

	addMachine(tr, "full", 22000, 24576, 90, 50)
	addMachine(tr, "free", 2000, 24576, 10, 10)
	perfs.ObserveLatency("free", 100)
	perfs.ObserveLatency("full", 100)

	d := e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 1000})
	require.Equal(t, "free", d.TargetMachine)
	require.Equal(t, 0, d.TargetGPU)
	require.Greater(t, d.ConfidenceScore, 0.0)
	require.LessOrEqual(t, d.ConfidenceScore, 1.0)
}

func TestEstimatedLoadTime(t *testing.T) {
	e, tr, _ := newTestEngine()
	addMachine(tr, "a", 0, 24576, 0, 0)

	d := e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 4096})
	require.InDelta(t, 8.0, d.EstimatedLoadTimeS, 1e-9) // 4GB at 2s/GB
}

func TestMaintenanceMachineExcluded(t *testing.T) {
	e, tr, _ := newTestEngine()
	addMachine(tr, "a", 0, 24576, 0, 0)
	addMachine(tr, "b", 0, 24576, 0, 0)
	require.True(t, tr.SetMaintenance("a", true))

	e.SetStrategy(StrategyRoundRobin)
	for i := 0; i < 4; i++ {
		d := e.Decide(Request{ModelID: "m", ExpectedVRAMMB: 1000})
		require.Equal(t, "b", d.TargetMachine)
	}
}

func TestAutoTune(t *testing.T) {
	e, _, perfs := newTestEngine()

	// No history: stays adaptive.
	e.AutoTune()
	require.Equal(t, StrategyAdaptive, e.Strategy())

	// Poor cluster performance: chase the fastest machines.
	perfs.ObserveScore("a", 40)
	e.AutoTune()
	require.Equal(t, StrategyBestPerformance, e.Strategy())

	// Healthy cluster: spread the load instead.
	for i := 0; i < 5; i++ {
		perfs.ObserveScore("a", 95)
	}
	e.AutoTune()
	require.Equal(t, StrategyLeastLoaded, e.Strategy())

	// Mid-band performance leaves the strategy alone.
	e.SetStrategy(StrategyAdaptive)
	for i := 0; i < 5; i++ {
		perfs.ObserveScore("a", 70)
	}
	e.AutoTune()
	require.Equal(t, StrategyAdaptive, e.Strategy())
}

func TestHandleLoadRequestedRemoteTargetPublishesTransfer(t *testing.T) {
	ctx := context.Background()
	e, tr, _ := newTestEngine()
	e.SetStrategy(StrategyLeastLoaded)

	addMachine(tr, "local", 20000, 24576, 90, 80)
	addMachine(tr, "remote", 1000, 24576, 5, 5)

	bus := events.NewInProcBus()
	var transfers []events.CrossMachineTransfer
	bus.Subscribe(events.TypeCrossMachineTransferRequested, func(ctx context.Context, ev events.Event) {
		transfers = append(transfers, *ev.CrossMachineTransfer)
	})

	d := e.HandleLoadRequested(ctx, Request{
		ModelID:          "m",
		ExpectedVRAMMB:   2000,
		RequesterMachine: "local",
	}, bus, nil)

	require.Equal(t, "remote", d.TargetMachine)
	require.Len(t, transfers, 1)
	require.Equal(t, "m", transfers[0].ModelID)
	require.Equal(t, "local", transfers[0].SourceMachine)
	require.Equal(t, "remote", transfers[0].TargetMachine)
	require.Equal(t, "load_balancing", transfers[0].CoordinationType)
}

func TestHandleLoadRequestedLocalTargetNoTransfer(t *testing.T) {
	ctx := context.Background()
	e, tr, _ := newTestEngine()
	e.SetStrategy(StrategyLeastLoaded)

	addMachine(tr, "local", 1000, 24576, 5, 5)

	bus := events.NewInProcBus()
	var transfers int
	bus.Subscribe(events.TypeCrossMachineTransferRequested, func(ctx context.Context, ev events.Event) { transfers++ })

	d := e.HandleLoadRequested(ctx, Request{
		ModelID:          "m",
		ExpectedVRAMMB:   2000,
		RequesterMachine: "local",
	}, bus, nil)

	require.Equal(t, "local", d.TargetMachine)
	require.Zero(t, transfers)
}

func TestBestGPUPicksMostFree(t *testing.T) {
	m := &state.MachineInfo{GPUs: []state.GPUMetrics{
		{Index: 0, MemoryUsedMB: 20000, MemoryTotalMB: 24576},
		{Index: 1, MemoryUsedMB: 2000, MemoryTotalMB: 24576},
	}}
	require.Equal(t, 1, bestGPU(m))
	require.Equal(t, -1, bestGPU(&state.MachineInfo{}))
}
