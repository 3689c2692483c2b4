package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/httpx"
	"github.com/mcules/gpu-scheduler/internal/placement"
	"github.com/mcules/gpu-scheduler/internal/policy"
	"github.com/mcules/gpu-scheduler/internal/scheduler"
	"github.com/mcules/gpu-scheduler/internal/state"
)

// Handler serves the read-mostly query surface plus policy and maintenance
// administration.
type Handler struct {
	Scheduler *scheduler.Scheduler
	Cluster   *state.Tracker
	Placement *placement.Engine
	Policies  *policy.Store
	Activity  *activity.Log
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/status/optimization", h.optimizationStatus)
	mux.HandleFunc("GET /v1/status/cluster", h.clusterStatus)
	mux.HandleFunc("GET /v1/activity", h.activityLog)
	mux.HandleFunc("GET /v1/policies", h.listPolicies)
	mux.HandleFunc("POST /v1/policies", h.upsertPolicy)
	mux.HandleFunc("DELETE /v1/policies/{id}", h.deletePolicy)
	mux.HandleFunc("POST /v1/machines/{id}/maintenance", h.setMaintenance)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

type optimizationResponse struct {
	scheduler.OptimizationStatus
	Segments []scheduler.MemorySegment `json:"segments"`
}

func (h *Handler) optimizationStatus(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, optimizationResponse{
		OptimizationStatus: h.Scheduler.OptimizationStatus(),
		Segments:           h.Scheduler.Segments(),
	})
}

type clusterMachine struct {
	MachineID            string                 `json:"machine_id"`
	Status               state.MachineStatus    `json:"status"`
	GPUs                 []state.GPUMetrics     `json:"gpus"`
	CPUPercent           float64                `json:"cpu_percent"`
	NetworkLatencyMS     float64                `json:"network_latency_ms"`
	MemoryUsedMB         float64                `json:"memory_used_mb"`
	MemoryTotalMB        float64                `json:"memory_total_mb"`
	MemoryUtilizationPct float64                `json:"memory_utilization_pct"`
	Models               []state.ModelPlacement `json:"models"`
}

type clusterResponse struct {
	PlacementStrategy placement.Strategy `json:"placement_strategy"`
	Machines          []clusterMachine   `json:"machines"`
}

func (h *Handler) clusterStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.Cluster.Snapshot()
	sort.Slice(snap, func(i, j int) bool { return snap[i].MachineID < snap[j].MachineID })

	machines := make([]clusterMachine, 0, len(snap))
	for _, m := range snap {
		models := make([]state.ModelPlacement, 0, len(m.Models))
		for _, mp := range m.Models {
			models = append(models, mp)
		}
		sort.Slice(models, func(i, j int) bool { return models[i].ModelID < models[j].ModelID })

		machines = append(machines, clusterMachine{
			MachineID:            m.MachineID,
			Status:               m.Status,
			GPUs:                 m.GPUs,
			CPUPercent:           m.CPUPercent,
			NetworkLatencyMS:     m.NetworkLatencyMS,
			MemoryUsedMB:         m.MemoryUsedMB(),
			MemoryTotalMB:        m.MemoryTotalMB(),
			MemoryUtilizationPct: m.MemoryUtilizationPct(),
			Models:               models,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, clusterResponse{
		PlacementStrategy: h.Placement.Strategy(),
		Machines:          machines,
	})
}

func (h *Handler) activityLog(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Activity.List())
}

func (h *Handler) listPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Policies.List(r.Context())
	if err != nil {
		log.Printf("api: list policies err=%v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "list policies")
		return
	}
	if policies == nil {
		policies = []policy.ModelPolicy{}
	}
	httpx.WriteJSON(w, http.StatusOK, policies)
}

func (h *Handler) upsertPolicy(w http.ResponseWriter, r *http.Request) {
	var p policy.ModelPolicy
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid policy body")
		return
	}
	if p.ModelID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "model_id required")
		return
	}
	if p.Priority < 0 || p.Priority > 100 {
		httpx.WriteError(w, http.StatusBadRequest, "priority must be 0..100")
		return
	}
	if err := h.Policies.Upsert(r.Context(), p); err != nil {
		log.Printf("api: upsert policy model=%s err=%v", p.ModelID, err)
		httpx.WriteError(w, http.StatusInternalServerError, "store policy")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) deletePolicy(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("id")
	if err := h.Policies.Delete(r.Context(), modelID); err != nil {
		log.Printf("api: delete policy model=%s err=%v", modelID, err)
		httpx.WriteError(w, http.StatusInternalServerError, "delete policy")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type maintenanceRequest struct {
	On bool `json:"on"`
}

func (h *Handler) setMaintenance(w http.ResponseWriter, r *http.Request) {
	machineID := r.PathValue("id")

	var req maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !h.Cluster.SetMaintenance(machineID, req.On) {
		httpx.WriteError(w, http.StatusNotFound, "unknown machine")
		return
	}
	log.Printf("api: maintenance machine=%s on=%v", machineID, req.On)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"machine_id": machineID, "maintenance": req.On})
}
