package scheduler

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/mcules/gpu-scheduler/internal/metrics"
)

const (
	// trendWindow is how many recent usage samples feed the fit.
	trendWindow = 10

	// forecastSteps looks this many steps past the window (x = n + 2).
	forecastSteps = 2

	// proactiveThresholdPct triggers proactive optimization when the
	// forecast crosses this share of the budget.
	proactiveThresholdPct = 80.0

	// accuracyWindow is how many resolved predictions feed the accuracy.
	accuracyWindow = 5
)

type predictionRecord struct {
	madeAt      time.Time
	dueAt       time.Time
	predictedMB float64
	resolved    bool
	relErr      float64
}

// olsFit fits y = slope*x + intercept over x = 0..len(ys)-1.
func olsFit(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if n < 2 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// ForecastUsageMB extrapolates the usage trend two steps past the sample
// window. ok is false with fewer than trendWindow samples.
func ForecastUsageMB(samples []HistorySample) (float64, bool) {
	if len(samples) < trendWindow {
		return 0, false
	}
	samples = samples[len(samples)-trendWindow:]
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.UsageMB
	}
	slope, intercept := olsFit(ys)
	predicted := slope*float64(len(ys)+forecastSteps) + intercept
	if predicted < 0 {
		predicted = 0
	}
	return predicted, true
}

// RunPrediction fits the usage trend on its own schedule and optimizes
// proactively when the forecast crosses the threshold.
func (s *Scheduler) RunPrediction(ctx context.Context) {
	t := time.NewTicker(s.cfg.PredictionInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.PredictionTick(ctx)
		}
	}
}

// PredictionTick resolves due predictions, fits the current trend and reacts
// to an elevated forecast.
func (s *Scheduler) PredictionTick(ctx context.Context) {
	s.statusMu.Lock()
	current := s.currentUsageMB
	s.statusMu.Unlock()
	s.resolvePredictions(time.Now(), current)

	predicted, ok := ForecastUsageMB(s.recentHistory(trendWindow))
	if !ok {
		return
	}
	threshold := s.threshold()
	if threshold <= 0 {
		return
	}

	s.predMu.Lock()
	s.predictions = append(s.predictions, predictionRecord{
		madeAt:      time.Now(),
		dueAt:       time.Now().Add(time.Duration(forecastSteps) * s.cfg.PredictionInterval),
		predictedMB: predicted,
	})
	// Bound the record list; only unresolved and recent entries matter.
	if len(s.predictions) > 4*accuracyWindow {
		s.predictions = s.predictions[len(s.predictions)-4*accuracyWindow:]
	}
	s.predMu.Unlock()

	pct := predicted / threshold * 100
	if pct <= proactiveThresholdPct {
		return
	}

	s.optMu.Lock()
	busy := s.optimizing
	s.optMu.Unlock()
	if busy {
		return
	}

	// Proactive pass aims at the medium-pressure target occupancy.
	target := TargetOccupancy(PressureMedium) * threshold
	toFree := current - target
	if toFree <= 0 {
		return
	}
	log.Printf("predict: forecast %.0fMB (%.1f%%), proactively freeing %.0fMB", predicted, pct, toFree)
	s.Optimize(ctx, StrategyBalanced, toFree)
}

// resolvePredictions grades past forecasts against actual usage and refreshes
// the rolling accuracy.
func (s *Scheduler) resolvePredictions(now time.Time, actualMB float64) {
	s.predMu.Lock()
	defer s.predMu.Unlock()

	for i := range s.predictions {
		r := &s.predictions[i]
		if r.resolved || now.Before(r.dueAt) {
			continue
		}
		r.resolved = true
		if actualMB > 0 {
			r.relErr = math.Abs(r.predictedMB-actualMB) / actualMB
		} else if r.predictedMB > 0 {
			r.relErr = 1
		}
	}

	var errs []float64
	for i := len(s.predictions) - 1; i >= 0 && len(errs) < accuracyWindow; i-- {
		if s.predictions[i].resolved {
			errs = append(errs, s.predictions[i].relErr)
		}
	}
	if len(errs) == 0 {
		return
	}
	var sum float64
	for _, e := range errs {
		sum += e
	}
	acc := 1 - sum/float64(len(errs))
	if acc < 0 {
		acc = 0
	}
	s.accuracy = acc
	metrics.PredictionAccuracy.Set(acc)
}
