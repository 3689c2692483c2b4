package vram

import (
	"context"
	"errors"
	"sync"

	"github.com/mcules/gpu-scheduler/internal/state"
)

// Usage is one local VRAM reading.
type Usage struct {
	UsedMB  float64
	TotalMB float64
}

// ErrUnavailable means the provider could not produce a reading this tick.
// Callers keep last-known values and retry next tick.
var ErrUnavailable = errors.New("vram metrics unavailable")

// MetricsProvider supplies the local machine's current VRAM usage. The
// scheduler never branches on which implementation it got; real vs synthetic
// is a composition-time choice.
type MetricsProvider interface {
	ReadUsage(ctx context.Context) (Usage, error)
}

// TrackerProvider reads the local machine's usage from the cluster tracker,
// i.e. from what the local agent last reported over the control plane.
type TrackerProvider struct {
	Tracker   *state.Tracker
	MachineID string
}

func (p *TrackerProvider) ReadUsage(ctx context.Context) (Usage, error) {
	m, ok := p.Tracker.Get(p.MachineID)
	if !ok || len(m.GPUs) == 0 {
		return Usage{}, ErrUnavailable
	}
	return Usage{UsedMB: m.MemoryUsedMB(), TotalMB: m.MemoryTotalMB()}, nil
}

// Synthetic is a deterministic in-memory provider for tests and for running
// the scheduler without agents. Usage is whatever was last set.
type Synthetic struct {
	mu    sync.Mutex
	usage Usage
	fail  bool
}

func NewSynthetic(usedMB, totalMB float64) *Synthetic {
	return &Synthetic{usage: Usage{UsedMB: usedMB, TotalMB: totalMB}}
}

func (s *Synthetic) SetUsage(usedMB float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage.UsedMB = usedMB
}

func (s *Synthetic) SetFailing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *Synthetic) ReadUsage(ctx context.Context) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return Usage{}, ErrUnavailable
	}
	return s.usage, nil
}
