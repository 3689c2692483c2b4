package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcules/gpu-scheduler/internal/events"
)

func segmentSum(segs []MemorySegment) float64 {
	var sum float64
	for _, s := range segs {
		sum += s.SizeMB
	}
	return sum
}

func TestRebuildSegmentsPacksAndCoversThreshold(t *testing.T) {
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "a", 1000)
	loadModel(s, "b", 500)

	segs := s.Segments()
	require.Len(t, segs, 3)
	require.Equal(t, 24576.0, segmentSum(segs))

	// Same load instant falls back to model id ordering.
	require.Equal(t, "a", segs[0].ModelID)
	require.Equal(t, 0.0, segs[0].StartOffsetMB)
	require.Equal(t, "b", segs[1].ModelID)
	require.Equal(t, 1000.0, segs[1].StartOffsetMB)
	require.True(t, segs[2].IsFree)
	require.Equal(t, 23076.0, segs[2].SizeMB)
}

func TestUnloadLeavesHole(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 24576)

	loadModel(s, "a", 1000)
	loadModel(s, "b", 500)
	s.Segments() // build

	s.HandleModelUnloaded(ctx, events.ModelUnloaded{ModelID: "a"})

	segs := s.Segments()
	require.Len(t, segs, 3)
	require.True(t, segs[0].IsFree)
	require.Empty(t, segs[0].ModelID)
	require.Equal(t, 1000.0, segs[0].SizeMB)
	require.Equal(t, 24576.0, segmentSum(segs))

	// Two free blocks now; the small hole drives fragmentation above zero.
	frag := FragmentationPct(segs)
	require.InDelta(t, (1-23076.0/24076.0)*100, frag, 1e-9)
}

func TestFragmentationPct(t *testing.T) {
	require.Equal(t, 0.0, FragmentationPct(nil))
	require.Equal(t, 0.0, FragmentationPct([]MemorySegment{
		{SizeMB: 1000, ModelID: "a"},
	}))
	require.Equal(t, 0.0, FragmentationPct([]MemorySegment{
		{SizeMB: 1000, IsFree: true},
	}))
	require.Equal(t, 50.0, FragmentationPct([]MemorySegment{
		{SizeMB: 100, IsFree: true},
		{SizeMB: 400, ModelID: "a"},
		{SizeMB: 100, IsFree: true},
	}))
	require.InDelta(t, 41.1765, FragmentationPct([]MemorySegment{
		{SizeMB: 100, IsFree: true},
		{SizeMB: 50, IsFree: true},
		{SizeMB: 20, IsFree: true},
	}), 1e-3)
}

func TestFragmentationTickCompacts(t *testing.T) {
	ctx := context.Background()
	s, bus, _ := newTestScheduler(t, 0, 1000)

	var results []events.MemoryOptimizationResult
	bus.Subscribe(events.TypeMemoryOptimizationCompleted, func(ctx context.Context, ev events.Event) {
		results = append(results, *ev.MemoryOptimizationResult)
	})

	loadModel(s, "a", 100)

	// Shattered free space, well above the defrag threshold.
	s.segmentsMu.Lock()
	s.segments = []MemorySegment{
		{StartOffsetMB: 0, SizeMB: 300, IsFree: true},
		{StartOffsetMB: 300, SizeMB: 100, ModelID: "a"},
		{StartOffsetMB: 400, SizeMB: 300, IsFree: true},
		{StartOffsetMB: 700, SizeMB: 300, IsFree: true},
	}
	s.segmentsMu.Unlock()

	before := s.FragmentationTick(ctx)
	require.InDelta(t, (1-300.0/900.0)*100, before, 1e-9)

	segs := s.Segments()
	require.Len(t, segs, 2)
	require.Equal(t, "a", segs[0].ModelID)
	require.Equal(t, 0.0, FragmentationPct(segs))

	require.Len(t, results, 1)
	require.Equal(t, 0.0, results[0].FragmentationPct)
}

func TestFragmentationTickBelowThresholdLeavesLayout(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScheduler(t, 0, 1000)

	loadModel(s, "a", 100)
	s.segmentsMu.Lock()
	s.segments = []MemorySegment{
		{StartOffsetMB: 0, SizeMB: 100, ModelID: "a"},
		{StartOffsetMB: 100, SizeMB: 800, IsFree: true},
		{StartOffsetMB: 900, SizeMB: 100, IsFree: true},
	}
	s.segmentsMu.Unlock()

	frag := s.FragmentationTick(ctx)
	require.InDelta(t, (1-800.0/900.0)*100, frag, 1e-9)

	// Under the threshold, the holes stay.
	require.Len(t, s.Segments(), 3)
}
