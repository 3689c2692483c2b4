package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/metrics"
	"github.com/mcules/gpu-scheduler/internal/perf"
	"github.com/mcules/gpu-scheduler/internal/placement"
	"github.com/mcules/gpu-scheduler/internal/policy"
	"github.com/mcules/gpu-scheduler/internal/scheduler"
	"github.com/mcules/gpu-scheduler/internal/state"
	"github.com/mcules/gpu-scheduler/internal/vram"
)

func newTestServer(t *testing.T) (*httptest.Server, *state.Tracker) {
	t.Helper()

	bus := events.NewInProcBus()
	sched := scheduler.New(scheduler.Config{MachineID: "machine-a", MemoryThresholdMB: 24576},
		vram.NewSynthetic(0, 24576), bus, nil)
	cluster := state.NewTracker()
	engine := placement.NewEngine(cluster, perf.New(), metrics.NewLatencyTracker(0.2))

	store, err := policy.Open(filepath.Join(t.TempDir(), "policies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	h := &Handler{
		Scheduler: sched,
		Cluster:   cluster,
		Placement: engine,
		Policies:  store,
		Activity:  activity.New(10),
	}
	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, cluster
}

func TestOptimizationStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/status/optimization")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		PressureLevel string                    `json:"pressure_level"`
		Segments      []scheduler.MemorySegment `json:"segments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.PressureLevel)
}

func TestClusterStatusEndpoint(t *testing.T) {
	srv, cluster := newTestServer(t)

	cluster.UpsertHello("machine-b", state.Capabilities{GPUCount: 1})
	cluster.UpdateStatus("machine-b", []state.GPUMetrics{{MemoryUsedMB: 1000, MemoryTotalMB: 24576}}, 5, 0,
		map[string]state.ModelPlacement{"m": {ModelID: "m", SizeMB: 1000}})

	resp, err := http.Get(srv.URL + "/v1/status/cluster")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		PlacementStrategy string `json:"placement_strategy"`
		Machines          []struct {
			MachineID     string  `json:"machine_id"`
			MemoryTotalMB float64 `json:"memory_total_mb"`
		} `json:"machines"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "adaptive", body.PlacementStrategy)
	require.Len(t, body.Machines, 1)
	require.Equal(t, "machine-b", body.Machines[0].MachineID)
	require.Equal(t, 24576.0, body.Machines[0].MemoryTotalMB)
}

func TestPolicyEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	// Rejected: missing model id.
	resp, err := http.Post(srv.URL+"/v1/policies", "application/json", strings.NewReader(`{"priority":50}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Rejected: priority out of range.
	resp, err = http.Post(srv.URL+"/v1/policies", "application/json", strings.NewReader(`{"model_id":"m","priority":101}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/policies", "application/json", strings.NewReader(`{"model_id":"m","priority":80,"pinned":true}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/policies")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []policy.ModelPolicy
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	require.Equal(t, "m", list[0].ModelID)
	require.True(t, list[0].Pinned)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/policies/m", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
}

func TestMaintenanceEndpoint(t *testing.T) {
	srv, cluster := newTestServer(t)
	cluster.UpsertHello("machine-b", state.Capabilities{})

	resp, err := http.Post(srv.URL+"/v1/machines/ghost/maintenance", "application/json", strings.NewReader(`{"on":true}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/machines/machine-b/maintenance", "application/json", strings.NewReader(`{"on":true}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m, ok := cluster.Get("machine-b")
	require.True(t, ok)
	require.Equal(t, state.StatusMaintenance, m.Status)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
