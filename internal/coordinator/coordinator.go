package coordinator

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/metrics"
	"github.com/mcules/gpu-scheduler/internal/state"
)

const (
	// CriticalUtilPct is the memory utilization above which a machine gets
	// emergency relief.
	CriticalUtilPct = 90.0

	// GapThresholdPct is the max-min load gap (percentage points) that
	// triggers a periodic rebalance move.
	GapThresholdPct = 30.0

	// emergencyMoveLimit caps how many models one emergency pass relocates.
	emergencyMoveLimit = 2
)

// Coordinator watches cluster health and evens out load across machines by
// requesting transfers. It decides and requests; agents move the weights.
type Coordinator struct {
	Cluster  *state.Tracker
	Bus      events.Publisher
	Activity *activity.Log

	HealthInterval    time.Duration // default 5s
	RebalanceInterval time.Duration // default 60s
}

func New(cluster *state.Tracker, bus events.Publisher) *Coordinator {
	return &Coordinator{
		Cluster:           cluster,
		Bus:               bus,
		HealthInterval:    5 * time.Second,
		RebalanceInterval: 60 * time.Second,
	}
}

// Run drives both periodic passes until the context is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	health := time.NewTicker(c.HealthInterval)
	defer health.Stop()
	rebalance := time.NewTicker(c.RebalanceInterval)
	defer rebalance.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-health.C:
			c.HealthTick(ctx)
		case <-rebalance.C:
			c.RebalanceTick(ctx)
		}
	}
}

// HealthTick reclassifies machine health and applies emergency relief to
// machines over the critical threshold.
func (c *Coordinator) HealthTick(ctx context.Context) {
	c.Cluster.EvaluateHealth(time.Now())

	counts := map[state.MachineStatus]int{}
	for _, m := range c.Cluster.Snapshot() {
		counts[m.Status]++
		if m.Eligible() && m.MemoryUtilizationPct() > CriticalUtilPct {
			c.emergencyRebalance(ctx, m)
		}
	}
	for _, st := range []state.MachineStatus{state.StatusOnline, state.StatusDegraded, state.StatusOffline, state.StatusMaintenance} {
		metrics.MachinesByStatus.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

// emergencyRebalance moves up to two models off an overloaded machine, each
// to the Online machine with the most available memory.
func (c *Coordinator) emergencyRebalance(ctx context.Context, src *state.MachineInfo) {
	models := modelsOldestFirst(src)
	if len(models) == 0 {
		return
	}
	if len(models) > emergencyMoveLimit {
		models = models[:emergencyMoveLimit]
	}

	if err := c.Bus.Publish(ctx, events.Event{
		Type: events.TypeLoadBalancingRequired,
		At:   time.Now(),
		LoadBalancingRequired: &events.LoadBalancingRequired{SourceMachine: src.MachineID},
	}); err != nil {
		log.Printf("coordinator: publish load balancing required err=%v", err)
	}

	// Track claimed capacity so both moves don't pile onto one target.
	claimed := map[string]float64{}
	for _, mp := range models {
		target := c.bestTarget(src.MachineID, mp.SizeMB, claimed)
		if target == "" {
			log.Printf("coordinator: no online machine fits model=%s (%.0fMB) from %s", mp.ModelID, mp.SizeMB, src.MachineID)
			continue
		}
		claimed[target] += mp.SizeMB
		c.requestTransfer(ctx, mp, src.MachineID, target, "emergency", "high")
	}
}

// RebalanceTick compares machine loads and moves one model from the most- to
// the least-loaded machine when the gap is too wide.
func (c *Coordinator) RebalanceTick(ctx context.Context) {
	var machines []*state.MachineInfo
	for _, m := range c.Cluster.Snapshot() {
		if m.Status == state.StatusOnline {
			machines = append(machines, m)
		}
	}
	if len(machines) < 2 {
		return
	}

	most, least := machines[0], machines[0]
	for _, m := range machines[1:] {
		if m.MemoryUtilizationPct() > most.MemoryUtilizationPct() {
			most = m
		}
		if m.MemoryUtilizationPct() < least.MemoryUtilizationPct() {
			least = m
		}
	}

	gap := most.MemoryUtilizationPct() - least.MemoryUtilizationPct()
	if gap <= GapThresholdPct {
		return
	}

	models := modelsOldestFirst(most)
	if len(models) == 0 {
		return
	}
	mp := models[0]
	if least.AvailableMemoryMB() < mp.SizeMB {
		log.Printf("coordinator: gap %.1f but model=%s (%.0fMB) does not fit on %s", gap, mp.ModelID, mp.SizeMB, least.MachineID)
		return
	}

	log.Printf("coordinator: load gap %.1f (%s %.1f%% -> %s %.1f%%), moving model=%s", gap, most.MachineID, most.MemoryUtilizationPct(), least.MachineID, least.MemoryUtilizationPct(), mp.ModelID)
	c.requestTransfer(ctx, mp, most.MachineID, least.MachineID, "rebalance", "normal")
}

func (c *Coordinator) requestTransfer(ctx context.Context, mp state.ModelPlacement, src, target, coordination, priority string) {
	if err := c.Bus.Publish(ctx, events.Event{
		Type: events.TypeCrossMachineTransferRequested,
		At:   time.Now(),
		CrossMachineTransfer: &events.CrossMachineTransfer{
			ModelID:          mp.ModelID,
			SourceMachine:    src,
			TargetMachine:    target,
			SizeMB:           mp.SizeMB,
			CoordinationType: coordination,
			Priority:         priority,
		},
	}); err != nil {
		log.Printf("coordinator: transfer publish model=%s err=%v", mp.ModelID, err)
		return
	}
	metrics.TransfersRequestedTotal.WithLabelValues(coordination).Inc()
	if c.Activity != nil {
		c.Activity.Add(activity.Event{
			At:      time.Now(),
			Type:    activity.EventRebalance,
			Machine: src,
			Model:   mp.ModelID,
			Note:    coordination + " -> " + target,
		})
	}
}

// bestTarget is the Online machine (other than src) with the most available
// memory after already-claimed capacity, that still fits sizeMB.
func (c *Coordinator) bestTarget(src string, sizeMB float64, claimed map[string]float64) string {
	var best string
	var bestAvail float64
	for _, m := range c.Cluster.Snapshot() {
		if m.MachineID == src || m.Status != state.StatusOnline {
			continue
		}
		avail := m.AvailableMemoryMB() - claimed[m.MachineID]
		if avail >= sizeMB && avail > bestAvail {
			best = m.MachineID
			bestAvail = avail
		}
	}
	return best
}

func modelsOldestFirst(m *state.MachineInfo) []state.ModelPlacement {
	out := make([]state.ModelPlacement, 0, len(m.Models))
	for _, mp := range m.Models {
		out = append(out, mp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadedSince.Equal(out[j].LoadedSince) {
			return out[i].LoadedSince.Before(out[j].LoadedSince)
		}
		return out[i].ModelID < out[j].ModelID
	})
	return out
}
