package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPressure(t *testing.T) {
	cases := []struct {
		pct  float64
		want PressureLevel
	}{
		{0, PressureLow},
		{69.999, PressureLow},
		{70, PressureMedium},
		{84.999, PressureMedium},
		{85, PressureHigh},
		{94.999, PressureHigh},
		{95, PressureCritical},
		{97.999, PressureCritical},
		{98, PressureEmergency},
		{150, PressureEmergency},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ClassifyPressure(c.pct), "pct=%v", c.pct)
	}
}

func TestTargetOccupancy(t *testing.T) {
	require.Equal(t, 0.85, TargetOccupancy(PressureLow))
	require.Equal(t, 0.85, TargetOccupancy(PressureMedium))
	require.Equal(t, 0.80, TargetOccupancy(PressureHigh))
	require.Equal(t, 0.70, TargetOccupancy(PressureCritical))
	require.Equal(t, 0.60, TargetOccupancy(PressureEmergency))
}

func TestStrategyForPressure(t *testing.T) {
	require.Equal(t, StrategyConservative, StrategyForPressure(PressureLow))
	require.Equal(t, StrategyConservative, StrategyForPressure(PressureMedium))
	require.Equal(t, StrategyBalanced, StrategyForPressure(PressureHigh))
	require.Equal(t, StrategyAggressive, StrategyForPressure(PressureCritical))
	require.Equal(t, StrategyEmergency, StrategyForPressure(PressureEmergency))
}

func TestMemoryWasteMB(t *testing.T) {
	p := ModelMemoryProfile{BaseMemoryMB: 4000, CurrentMemoryMB: 5000}
	require.Equal(t, 1000.0, p.MemoryWasteMB())

	p.CurrentMemoryMB = 3500
	require.Equal(t, 0.0, p.MemoryWasteMB())
}
