package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/metrics"
)

// RunPressureMonitor ticks until the context is cancelled. Each tick reads
// usage, classifies pressure, records history and reacts to elevated levels.
func (s *Scheduler) RunPressureMonitor(ctx context.Context) {
	t := time.NewTicker(s.cfg.PressureInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.PressureTick(ctx)
		}
	}
}

// PressureTick is one monitoring pass. Exported so callers (and tests) can
// drive it without the ticker.
func (s *Scheduler) PressureTick(ctx context.Context) {
	usage, err := s.provider.ReadUsage(ctx)
	if err != nil {
		// Keep last-known values, retry next tick.
		log.Printf("pressure: metrics read failed: %v", err)
		return
	}
	s.setThreshold(usage.TotalMB)
	threshold := s.threshold()
	if threshold <= 0 {
		return
	}

	s.statusMu.Lock()
	s.currentUsageMB = usage.UsedMB
	if usage.UsedMB > s.peakUsageMB {
		s.peakUsageMB = usage.UsedMB
	}
	s.statusMu.Unlock()

	pct := usage.UsedMB / threshold * 100
	level := ClassifyPressure(pct)

	s.statusMu.Lock()
	s.lastLevel = level
	frag := s.lastFragPct
	s.statusMu.Unlock()

	s.profilesMu.Lock()
	modelCount := len(s.profiles)
	s.profilesMu.Unlock()

	s.appendHistory(HistorySample{
		At:               time.Now(),
		UsageMB:          usage.UsedMB,
		Level:            level,
		FragmentationPct: frag,
		ModelCount:       modelCount,
	})

	metrics.MemoryUsageMB.Set(usage.UsedMB)
	metrics.PressureLevel.Set(float64(level))
	s.statusMu.Lock()
	metrics.PeakMemoryUsageMB.Set(s.peakUsageMB)
	s.statusMu.Unlock()

	s.ttlPass(ctx)

	if level < PressureHigh {
		return
	}

	target := TargetOccupancy(level) * threshold
	toFree := usage.UsedMB - target
	if toFree <= 0 {
		return
	}
	log.Printf("pressure: level=%s usage=%.0fMB (%.1f%%), freeing %.0fMB", level, usage.UsedMB, pct, toFree)
	s.Optimize(ctx, StrategyForPressure(level), toFree)
}

// ttlPass unloads idle models whose policy TTL has expired, before pressure
// ever develops.
func (s *Scheduler) ttlPass(ctx context.Context) {
	if s.policies == nil {
		return
	}

	now := time.Now()
	for _, p := range s.Profiles() {
		pol, ok, err := s.policies.Get(ctx, p.ModelID)
		if err != nil {
			log.Printf("pressure: policy lookup model=%s err=%v", p.ModelID, err)
			continue
		}
		if !ok || pol.TTLSecs <= 0 || pol.Pinned {
			continue
		}
		idle := now.Sub(p.LastAccessTime)
		if idle < time.Duration(pol.TTLSecs)*time.Second {
			continue
		}

		if err := s.bus.Publish(ctx, events.Event{
			Type: events.TypeModelUnloadRequested,
			At:   now,
			ModelUnloadRequested: &events.ModelUnloadRequested{ModelID: p.ModelID},
		}); err != nil {
			log.Printf("pressure: ttl unload publish model=%s err=%v", p.ModelID, err)
			continue
		}
		if s.activity != nil {
			s.activity.Add(activity.Event{
				At:      now,
				Type:    activity.EventTTLUnload,
				Machine: s.cfg.MachineID,
				Model:   p.ModelID,
				Note:    "ttl expired",
			})
		}
		log.Printf("pressure: ttl unload requested model=%s idle=%s", p.ModelID, idle.Round(time.Second))
	}
}
