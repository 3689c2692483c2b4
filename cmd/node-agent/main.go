package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	goruntime "runtime"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	controlplanev1 "github.com/mcules/gpu-scheduler/gen/controlplane/v1"
	"github.com/mcules/gpu-scheduler/internal/runtime"
)

func main() {
	machineID := mustEnv("MACHINE_ID")
	serverAddr := mustEnv("SCHEDULER_GRPC_ADDR")

	// Internal URL for agent->runtime (same host or docker network).
	runtimeBase := mustEnv("RUNTIME_BASE_URL")

	statusSec := envOrInt("STATUS_SECONDS", 2)
	pollModelsSec := envOrInt("POLL_MODELS_SECONDS", 5)
	primary := os.Getenv("PRIMARY") == "1" || strings.EqualFold(os.Getenv("PRIMARY"), "true")

	rt := runtime.New(runtimeBase)

	conn, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("grpc dial: %v", err)
	}
	defer conn.Close()

	client := controlplanev1.NewNodeControlClient(conn)

	for {
		if err := runOnce(client, rt, machineID, primary, statusSec, pollModelsSec); err != nil {
			log.Printf("stream ended: %v", err)
		}
		time.Sleep(2 * time.Second)
	}
}

func runOnce(
	client controlplanev1.NodeControlClient,
	rt *runtime.Client,
	machineID string,
	primary bool,
	statusSec, pollModelsSec int,
) error {
	ctx := context.Background()
	stream, err := client.Stream(ctx)
	if err != nil {
		return fmt.Errorf("stream open: %w", err)
	}

	hostname, _ := os.Hostname()
	gpus := readGPUMetrics()

	// Send hello.
	if err := stream.Send(&controlplanev1.NodeMessage{
		Msg: &controlplanev1.NodeMessage_Hello{
			Hello: &controlplanev1.NodeHello{
				MachineId: machineID,
				Version:   "dev",
				Hostname:  hostname,
				GpuCount:  int32(len(gpus)),
				Primary:   primary,
			},
		},
	}); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	// Receive loop (commands and pings) in background.
	cmdErr := make(chan error, 1)
	// Pings trigger an immediate status send.
	pingTrigger := make(chan struct{}, 1)

	ack := func(reqID string, err error) {
		a := &controlplanev1.CommandAck{
			RequestId: reqID,
			Ok:        err == nil,
		}
		if err != nil {
			a.Error = err.Error()
		}
		_ = stream.Send(&controlplanev1.NodeMessage{
			Msg: &controlplanev1.NodeMessage_Ack{Ack: a},
		})
	}

	go func() {
		for {
			in, err := stream.Recv()
			if err != nil {
				cmdErr <- err
				return
			}
			switch msg := in.Msg.(type) {
			case *controlplanev1.ServerMessage_UnloadModel:
				err := rt.UnloadModel(context.Background(), msg.UnloadModel.ModelId)
				if err != nil {
					log.Printf("unload model=%s: %v", msg.UnloadModel.ModelId, err)
				}
				ack(msg.UnloadModel.RequestId, err)

			case *controlplanev1.ServerMessage_TransferModel:
				cmd := msg.TransferModel
				err := rt.TransferModel(context.Background(), cmd.ModelId, cmd.TargetMachine, cmd.Priority)
				if err != nil {
					log.Printf("transfer model=%s -> %s: %v", cmd.ModelId, cmd.TargetMachine, err)
				}
				ack(cmd.RequestId, err)

			case *controlplanev1.ServerMessage_CacheClear:
				err := rt.ClearCache(context.Background())
				if err != nil {
					log.Printf("cache clear: %v", err)
				}
				ack(msg.CacheClear.RequestId, err)

			case *controlplanev1.ServerMessage_Ping:
				select {
				case pingTrigger <- struct{}{}:
				default:
				}

			default:
				// Ignore.
			}
		}
	}()

	var lastModels *runtime.ModelsResponse

	// Prime the first status quickly.
	_ = refreshModels(ctx, rt, &lastModels)

	tStatus := time.NewTicker(time.Duration(statusSec) * time.Second)
	defer tStatus.Stop()

	tModels := time.NewTicker(time.Duration(pollModelsSec) * time.Second)
	defer tModels.Stop()

	sendStatus := func() error {
		status := &controlplanev1.NodeStatus{
			TsUnixMs:   time.Now().UnixMilli(),
			Gpus:       readGPUMetrics(),
			CpuPercent: readCPUPercent(),
			Models:     convertModels(lastModels),
		}
		if err := stream.Send(&controlplanev1.NodeMessage{
			Msg: &controlplanev1.NodeMessage_Status{Status: status},
		}); err != nil {
			return fmt.Errorf("send status: %w", err)
		}
		return nil
	}

	for {
		select {
		case err := <-cmdErr:
			return fmt.Errorf("recv loop: %w", err)

		case <-pingTrigger:
			if err := sendStatus(); err != nil {
				return err
			}

		case <-tModels.C:
			_ = refreshModels(ctx, rt, &lastModels)

		case <-tStatus.C:
			if err := sendStatus(); err != nil {
				return err
			}
		}
	}
}

func refreshModels(ctx context.Context, rt *runtime.Client, last **runtime.ModelsResponse) error {
	m, err := rt.GetModels(ctx)
	if err != nil {
		return err
	}
	*last = m
	return nil
}

func convertModels(m *runtime.ModelsResponse) []*controlplanev1.ModelResidency {
	if m == nil {
		return nil
	}
	out := make([]*controlplanev1.ModelResidency, 0, len(m.Data))
	for _, x := range m.Data {
		out = append(out, &controlplanev1.ModelResidency{
			ModelId:           x.ID,
			SizeMb:            x.VRAMUsageMB,
			LoadedSinceUnixMs: x.LoadedAtUnixMs,
		})
	}
	return out
}

// readGPUMetrics queries nvidia-smi. Without a GPU (development) it reports a
// single synthetic device so the agent can still run.
func readGPUMetrics() []*controlplanev1.GpuMetrics {
	out, err := exec.Command("nvidia-smi",
		"--query-gpu=index,utilization.gpu,memory.used,memory.total",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		return []*controlplanev1.GpuMetrics{{
			Index:         0,
			MemoryUsedMb:  0,
			MemoryTotalMb: 24576,
		}}
	}

	var gpus []*controlplanev1.GpuMetrics
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			continue
		}
		idx, _ := strconv.Atoi(strings.TrimSpace(fields[0]))
		util, _ := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		used, _ := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		total, _ := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		gpus = append(gpus, &controlplanev1.GpuMetrics{
			Index:          int32(idx),
			UtilizationPct: util,
			MemoryUsedMb:   used,
			MemoryTotalMb:  total,
		})
	}
	return gpus
}

// readCPUPercent approximates CPU load from loadavg relative to core count.
func readCPUPercent() float64 {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	load1, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	pct := load1 / float64(goruntime.NumCPU()) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env: %s", k)
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
