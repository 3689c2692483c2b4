package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/metrics"
)

// defragThresholdPct triggers compaction once free space is this fragmented.
const defragThresholdPct = 40.0

// RunFragmentation analyzes the segment map on its own schedule.
func (s *Scheduler) RunFragmentation(ctx context.Context) {
	t := time.NewTicker(s.cfg.FragmentationInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.FragmentationTick(ctx)
		}
	}
}

// FragmentationTick measures fragmentation and compacts when it crosses the
// threshold. Returns the fragmentation before any compaction.
func (s *Scheduler) FragmentationTick(ctx context.Context) float64 {
	frag := FragmentationPct(s.Segments())

	s.statusMu.Lock()
	s.lastFragPct = frag
	s.statusMu.Unlock()
	metrics.FragmentationPct.Set(frag)

	if frag <= defragThresholdPct {
		return frag
	}

	log.Printf("fragmentation: %.2f%% > %.0f%%, defragmenting", frag, defragThresholdPct)
	s.RebuildSegments()
	after := FragmentationPct(s.Segments())

	s.statusMu.Lock()
	s.lastFragPct = after
	s.statusMu.Unlock()
	metrics.FragmentationPct.Set(after)
	metrics.DefragmentationsTotal.Inc()

	if err := s.bus.Publish(ctx, events.Event{
		Type: events.TypeMemoryOptimizationCompleted,
		At:   time.Now(),
		MemoryOptimizationResult: &events.MemoryOptimizationResult{FragmentationPct: after},
	}); err != nil {
		log.Printf("fragmentation: publish err=%v", err)
	}
	if s.activity != nil {
		s.activity.Add(activity.Event{
			At:      time.Now(),
			Type:    activity.EventDefragmentation,
			Machine: s.cfg.MachineID,
			Note:    "segment compaction",
		})
	}
	return frag
}
