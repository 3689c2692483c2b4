package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/metrics"
)

// Eviction score weights. Hand-tuned; treated as constants, not re-derived.
const (
	ageWeight        = 30.0
	priorityWeight   = 40.0
	frequencyWeight  = 20.0
	efficiencyWeight = 10.0
	sizeWeight       = 20.0 // emergency only
)

// Strategy decision thresholds.
const (
	offloadPriorityBelow    = 50.0
	unloadPriorityBelow     = 30.0
	optimizeEfficiencyBelow = 0.9
)

// EvictionScore ranks a model for removal: higher scores are evicted first.
// Old, low-priority, rarely used, memory-inefficient models score high; under
// emergency strategy big models additionally score high.
func EvictionScore(p ModelMemoryProfile, now time.Time, maxFreq int64, maxSizeMB float64, strat Strategy) float64 {
	ageMinutes := now.Sub(p.LastAccessTime).Minutes()
	ageFactor := ageMinutes / 60
	if ageFactor > 1 {
		ageFactor = 1
	}
	if ageFactor < 0 {
		ageFactor = 0
	}

	priorityFactor := (100 - p.PriorityScore) / 100

	freqFactor := 0.0
	if maxFreq > 0 {
		freqFactor = 1 - float64(p.AccessFrequency)/float64(maxFreq)
	}

	efficiencyFactor := 1 - p.MemoryEfficiency

	score := ageFactor*ageWeight + priorityFactor*priorityWeight + freqFactor*frequencyWeight + efficiencyFactor*efficiencyWeight

	if strat == StrategyEmergency && maxSizeMB > 0 {
		score += p.CurrentMemoryMB / maxSizeMB * sizeWeight
	}
	return score
}

// BuildPlan scores all evictable models and assembles actions until the
// target amount of memory is covered.
func (s *Scheduler) BuildPlan(ctx context.Context, strat Strategy, targetMB float64) OptimizationPlan {
	plan := OptimizationPlan{Strategy: strat, Status: PlanPlanned, Risk: RiskLow}
	if targetMB <= 0 {
		plan.ConfidenceScore = 1
		return plan
	}

	now := time.Now()
	candidates := s.Profiles()

	// Pinned models are never eviction candidates.
	if s.policies != nil {
		kept := candidates[:0]
		for _, p := range candidates {
			pol, ok, err := s.policies.Get(ctx, p.ModelID)
			if err != nil {
				log.Printf("evict: policy lookup model=%s err=%v", p.ModelID, err)
			}
			if ok && pol.Pinned {
				continue
			}
			kept = append(kept, p)
		}
		candidates = kept
	}

	var maxFreq int64
	var maxSize float64
	for _, p := range candidates {
		if p.AccessFrequency > maxFreq {
			maxFreq = p.AccessFrequency
		}
		if p.CurrentMemoryMB > maxSize {
			maxSize = p.CurrentMemoryMB
		}
	}

	type scored struct {
		profile ModelMemoryProfile
		score   float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		ranked = append(ranked, scored{p, EvictionScore(p, now, maxFreq, maxSize, strat)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].profile.ModelID < ranked[j].profile.ModelID
	})

	var freed float64
	for _, c := range ranked {
		if freed >= targetMB {
			break
		}
		action, ok := s.planAction(c.profile, c.score, strat)
		if !ok {
			continue
		}
		plan.Actions = append(plan.Actions, action)
		freed += action.MemoryFreedMB
		if riskRank(action.Risk) > riskRank(plan.Risk) {
			plan.Risk = action.Risk
		}
	}

	plan.ExpectedMemoryFreedMB = freed
	plan.ConfidenceScore = freed / targetMB
	if plan.ConfidenceScore > 1 {
		plan.ConfidenceScore = 1
	}
	return plan
}

func (s *Scheduler) planAction(p ModelMemoryProfile, score float64, strat Strategy) (PlannedAction, bool) {
	reason := "eviction score " + strconv.FormatFloat(score, 'f', 1, 64)

	switch strat {
	case StrategyEmergency:
		return PlannedAction{
			Type:          ActionUnload,
			ModelID:       p.ModelID,
			MemoryFreedMB: p.CurrentMemoryMB,
			Risk:          RiskHigh,
			Reasoning:     reason + ", emergency unload",
		}, true

	case StrategyAggressive:
		if p.PriorityScore < offloadPriorityBelow && s.remoteFits(p.CurrentMemoryMB) {
			return PlannedAction{
				Type:          ActionOffload,
				ModelID:       p.ModelID,
				MemoryFreedMB: p.CurrentMemoryMB,
				Risk:          RiskMedium,
				Reasoning:     reason + ", offload to remote machine",
			}, true
		}
		return PlannedAction{
			Type:          ActionUnload,
			ModelID:       p.ModelID,
			MemoryFreedMB: p.CurrentMemoryMB,
			Risk:          RiskMedium,
			Reasoning:     reason + ", aggressive unload",
		}, true

	default: // balanced, conservative
		if p.MemoryEfficiency < optimizeEfficiencyBelow {
			return PlannedAction{
				Type:          ActionOptimize,
				ModelID:       p.ModelID,
				MemoryFreedMB: p.MemoryWasteMB(),
				Risk:          RiskLow,
				Reasoning:     reason + ", reclaim memory waste",
			}, true
		}
		if p.PriorityScore < unloadPriorityBelow {
			return PlannedAction{
				Type:          ActionUnload,
				ModelID:       p.ModelID,
				MemoryFreedMB: p.CurrentMemoryMB,
				Risk:          RiskLow,
				Reasoning:     reason + ", low priority unload",
			}, true
		}
		return PlannedAction{}, false
	}
}

// remoteFits reports whether any other eligible machine has room for a model
// of the given size.
func (s *Scheduler) remoteFits(sizeMB float64) bool {
	if s.cluster == nil {
		return false
	}
	for _, m := range s.cluster.SnapshotEligible() {
		if m.MachineID == s.cfg.MachineID {
			continue
		}
		if m.AvailableMemoryMB() >= sizeMB {
			return true
		}
	}
	return false
}

// remoteTarget picks the eligible machine with the most available memory.
func (s *Scheduler) remoteTarget(sizeMB float64) (string, bool) {
	if s.cluster == nil {
		return "", false
	}
	var best string
	var bestAvail float64
	for _, m := range s.cluster.SnapshotEligible() {
		if m.MachineID == s.cfg.MachineID {
			continue
		}
		if avail := m.AvailableMemoryMB(); avail >= sizeMB && avail > bestAvail {
			best = m.MachineID
			bestAvail = avail
		}
	}
	return best, best != ""
}

// Optimize builds and executes a plan under the single-flight gate. A second
// concurrent trigger is a silent no-op and returns false.
func (s *Scheduler) Optimize(ctx context.Context, strat Strategy, targetMB float64) bool {
	s.optMu.Lock()
	if s.optimizing {
		s.optMu.Unlock()
		return false
	}
	s.optimizing = true
	s.optMu.Unlock()

	defer func() {
		s.optMu.Lock()
		s.optimizing = false
		s.optMu.Unlock()
	}()

	s.statusMu.Lock()
	s.activeStrategy = strat
	s.statusMu.Unlock()

	plan := s.BuildPlan(ctx, strat, targetMB)
	if len(plan.Actions) == 0 {
		log.Printf("evict: no candidates for strategy=%s target=%.0fMB", strat, targetMB)
		return true
	}
	s.ExecutePlan(ctx, &plan)
	return true
}

// ExecutePlan runs actions sequentially with a short pause between them. A
// failing action is logged and skipped; there is no rollback and partial
// completion is a valid terminal state.
func (s *Scheduler) ExecutePlan(ctx context.Context, plan *OptimizationPlan) {
	plan.Status = PlanRunning

	var freed float64
	var affected []string
	var failures int

	for i, action := range plan.Actions {
		if i > 0 && s.cfg.ActionPause > 0 {
			time.Sleep(s.cfg.ActionPause)
		}

		err := s.executeAction(ctx, plan.Strategy, action)
		metrics.EvictionActionsTotal.WithLabelValues(string(action.Type), strconv.FormatBool(err == nil)).Inc()
		if err != nil {
			failures++
			log.Printf("evict: action %s model=%s failed: %v", action.Type, action.ModelID, err)
			continue
		}
		freed += action.MemoryFreedMB
		affected = append(affected, action.ModelID)
	}

	if failures > 0 {
		plan.Status = PlanFailed
	} else {
		plan.Status = PlanCompleted
	}

	if err := s.bus.Publish(ctx, events.Event{
		Type: events.TypeVRAMOptimized,
		At:   time.Now(),
		VRAMOptimized: &events.VRAMOptimized{FreedMB: freed, AffectedModels: affected},
	}); err != nil {
		log.Printf("evict: publish vram optimized err=%v", err)
	}
	log.Printf("evict: plan %s strategy=%s freed=%.0fMB actions=%d failures=%d", plan.Status, plan.Strategy, freed, len(plan.Actions), failures)
}

func (s *Scheduler) executeAction(ctx context.Context, strat Strategy, action PlannedAction) error {
	now := time.Now()

	switch action.Type {
	case ActionUnload:
		if !s.HasModel(action.ModelID) {
			return nil // already gone, idempotent
		}
		if err := s.bus.Publish(ctx, events.Event{
			Type: events.TypeModelUnloadRequested,
			At:   now,
			ModelUnloadRequested: &events.ModelUnloadRequested{ModelID: action.ModelID},
		}); err != nil {
			return err
		}
		s.logActivity(activity.EventUnloadRequested, action.ModelID, action.Reasoning)
		return nil

	case ActionOffload:
		if !s.HasModel(action.ModelID) {
			return nil
		}
		target, ok := s.remoteTarget(action.MemoryFreedMB)
		if !ok {
			return fmt.Errorf("no remote machine fits %.0fMB", action.MemoryFreedMB)
		}
		priority := "normal"
		if strat == StrategyEmergency {
			priority = "high"
		}
		if err := s.bus.Publish(ctx, events.Event{
			Type: events.TypeCrossMachineTransferRequested,
			At:   now,
			CrossMachineTransfer: &events.CrossMachineTransfer{
				ModelID:          action.ModelID,
				SourceMachine:    s.cfg.MachineID,
				TargetMachine:    target,
				SizeMB:           action.MemoryFreedMB,
				CoordinationType: "offload",
				Priority:         priority,
			},
		}); err != nil {
			return err
		}
		metrics.TransfersRequestedTotal.WithLabelValues("offload").Inc()
		s.logActivity(activity.EventOffloadRequested, action.ModelID, "target "+target)
		return nil

	case ActionOptimize:
		s.profilesMu.Lock()
		if p, ok := s.profiles[action.ModelID]; ok {
			p.CurrentMemoryMB = p.BaseMemoryMB
			p.MemoryEfficiency = 1
			p.FragmentationScore = 0
		}
		s.profilesMu.Unlock()
		s.RebuildSegments()
		s.logActivity(activity.EventOptimizeApplied, action.ModelID, action.Reasoning)
		return nil

	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func (s *Scheduler) logActivity(t activity.EventType, modelID, note string) {
	if s.activity == nil {
		return
	}
	s.activity.Add(activity.Event{
		At:      time.Now(),
		Type:    t,
		Machine: s.cfg.MachineID,
		Model:   modelID,
		Note:    note,
	})
}

func riskRank(r RiskLevel) int {
	switch r {
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}
