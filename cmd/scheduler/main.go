package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	controlplanev1 "github.com/mcules/gpu-scheduler/gen/controlplane/v1"
	"github.com/mcules/gpu-scheduler/internal/activity"
	"github.com/mcules/gpu-scheduler/internal/api"
	"github.com/mcules/gpu-scheduler/internal/control"
	"github.com/mcules/gpu-scheduler/internal/coordinator"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/httpx"
	"github.com/mcules/gpu-scheduler/internal/metrics"
	"github.com/mcules/gpu-scheduler/internal/perf"
	"github.com/mcules/gpu-scheduler/internal/placement"
	"github.com/mcules/gpu-scheduler/internal/policy"
	"github.com/mcules/gpu-scheduler/internal/redisbus"
	"github.com/mcules/gpu-scheduler/internal/scheduler"
	"github.com/mcules/gpu-scheduler/internal/state"
	"github.com/mcules/gpu-scheduler/internal/vram"
)

func main() {
	ctx := context.Background()

	machineID := mustEnv("MACHINE_ID")

	// Cluster state shared across gRPC control plane, scheduler and HTTP API.
	cluster := state.NewTracker()

	dbPath := envOr("POLICIES_DB_PATH", "policies.db")
	policyStore, err := policy.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open policy store: %v", err)
	}
	defer policyStore.Close()

	activityLog := activity.New(300)
	latency := metrics.NewLatencyTracker(0.2)
	perfs := perf.New()

	// Event bus: redis when configured, in-process otherwise.
	var bus events.Bus
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rbus := redisbus.New(redis.NewClient(&redis.Options{Addr: redisAddr}))
		go func() {
			if err := rbus.Run(ctx); err != nil && err != context.Canceled {
				log.Fatalf("redis bus: %v", err)
			}
		}()
		bus = rbus
		log.Printf("event bus: redis addr=%s", redisAddr)
	} else {
		bus = events.NewInProcBus()
		log.Printf("event bus: in-process")
	}

	// Local VRAM readings come from this machine's own agent reports.
	provider := &vram.TrackerProvider{Tracker: cluster, MachineID: machineID}

	sched := scheduler.New(scheduler.Config{
		MachineID:             machineID,
		MemoryThresholdMB:     float64(envOrInt("MEMORY_THRESHOLD_MB", 0)),
		PressureInterval:      time.Duration(envOrInt("PRESSURE_INTERVAL_SECONDS", 5)) * time.Second,
		FragmentationInterval: time.Duration(envOrInt("FRAGMENTATION_INTERVAL_SECONDS", 60)) * time.Second,
		PredictionInterval:    time.Duration(envOrInt("PREDICTION_INTERVAL_SECONDS", 300)) * time.Second,
		ActionPause:           time.Duration(envOrInt("ACTION_PAUSE_MS", 100)) * time.Millisecond,
	}, provider, bus, cluster).
		WithPolicies(policyStore).
		WithActivity(activityLog).
		WithPerf(perfs)
	sched.Subscribe(bus)

	go sched.RunPressureMonitor(ctx)
	go sched.RunFragmentation(ctx)
	go sched.RunPrediction(ctx)

	// Placement engine over the same cluster view.
	engine := placement.NewEngine(cluster, perfs, latency)
	if s := os.Getenv("PLACEMENT_STRATEGY"); s != "" {
		engine.SetStrategy(placement.Strategy(s))
	}
	go engine.RunAutoTune(ctx, time.Duration(envOrInt("AUTOTUNE_INTERVAL_SECONDS", 60))*time.Second)

	bus.Subscribe(events.TypeModelLoadRequested, func(ctx context.Context, ev events.Event) {
		if ev.ModelLoadRequested == nil {
			return
		}
		req := placement.Request{
			ModelID:          ev.ModelLoadRequested.ModelID,
			ExpectedVRAMMB:   ev.ModelLoadRequested.ExpectedVRAMMB,
			RequesterMachine: ev.ModelLoadRequested.RequesterMachine,
		}
		if sched.HasModel(req.ModelID) {
			sched.RecordAccess(req.ModelID)
			return
		}
		d := engine.HandleLoadRequested(ctx, req, bus, activityLog)
		if d.TargetMachine == machineID {
			sched.EnsureCapacity(ctx, req.ExpectedVRAMMB)
		}
	})

	// Cross-machine coordinator.
	coord := coordinator.New(cluster, bus)
	coord.Activity = activityLog
	coord.HealthInterval = time.Duration(envOrInt("HEALTH_INTERVAL_SECONDS", 5)) * time.Second
	coord.RebalanceInterval = time.Duration(envOrInt("REBALANCE_INTERVAL_SECONDS", 60)) * time.Second
	go coord.Run(ctx)

	// gRPC server (control plane).
	grpcAddr := envOr("GRPC_ADDR", ":9090")
	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("grpc listen: %v", err)
	}

	grpcServer := grpc.NewServer()
	controlSvc := control.NewNodeControlService(cluster, latency, envOr("VERSION", "dev"))
	controlplanev1.RegisterNodeControlServer(grpcServer, controlSvc)

	go func() {
		log.Printf("gRPC listening on %s", grpcAddr)
		if err := grpcServer.Serve(grpcLis); err != nil {
			log.Fatalf("grpc serve: %v", err)
		}
	}()

	go controlSvc.RunPings(ctx, time.Duration(envOrInt("PING_INTERVAL_SECONDS", 10))*time.Second)

	// Scheduler decisions become agent commands.
	control.NewForwarder(controlSvc, cluster).Subscribe(bus)

	// HTTP server (query API + metrics).
	mux := http.NewServeMux()
	apiHandler := &api.Handler{
		Scheduler: sched,
		Cluster:   cluster,
		Placement: engine,
		Policies:  policyStore,
		Activity:  activityLog,
	}
	apiHandler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	handler := httpx.CORS{AllowOrigin: "*"}.Wrap(mux)

	srv := &http.Server{
		Addr:              envOr("HTTP_ADDR", ":8080"),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("HTTP listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("http serve: %v", err)
	}
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env: %s", k)
	}
	return v
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envOrInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
