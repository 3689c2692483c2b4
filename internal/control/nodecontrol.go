package control

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	controlplanev1 "github.com/mcules/gpu-scheduler/gen/controlplane/v1"
	"github.com/mcules/gpu-scheduler/internal/metrics"
	"github.com/mcules/gpu-scheduler/internal/state"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NodeControlService keeps one bidirectional stream per connected agent and
// feeds the cluster tracker from their hellos and status reports. Commands
// carry a request id; acks close the loop and feed the latency tracker.
type NodeControlService struct {
	controlplanev1.UnimplementedNodeControlServer
	Cluster *state.Tracker
	Latency *metrics.LatencyTracker
	Version string

	mu      sync.RWMutex
	streams map[string]*machineStream

	pendingMu sync.Mutex
	pending   map[string]pendingCommand
}

type machineStream struct {
	sendMu sync.Mutex
	stream controlplanev1.NodeControl_StreamServer
}

type pendingCommand struct {
	machineID string
	sentAt    time.Time
}

const pendingCommandTTL = 5 * time.Minute

func NewNodeControlService(cluster *state.Tracker, latency *metrics.LatencyTracker, version string) *NodeControlService {
	return &NodeControlService{
		Cluster: cluster,
		Latency: latency,
		Version: version,
		streams: map[string]*machineStream{},
		pending: map[string]pendingCommand{},
	}
}

// SendUnload asks the agent on machineID to unload a model.
func (s *NodeControlService) SendUnload(machineID, requestID, modelID string) error {
	return s.send(machineID, requestID, &controlplanev1.ServerMessage{
		Msg: &controlplanev1.ServerMessage_UnloadModel{
			UnloadModel: &controlplanev1.UnloadModel{
				RequestId: requestID,
				ModelId:   modelID,
			},
		},
	})
}

// SendTransfer asks the source machine's agent to hand a model over. The
// request id must already be set on cmd.
func (s *NodeControlService) SendTransfer(machineID string, cmd *controlplanev1.TransferModel) error {
	return s.send(machineID, cmd.RequestId, &controlplanev1.ServerMessage{
		Msg: &controlplanev1.ServerMessage_TransferModel{TransferModel: cmd},
	})
}

// SendCacheClear asks the agent on machineID to drop its runtime caches.
func (s *NodeControlService) SendCacheClear(machineID, requestID string) error {
	return s.send(machineID, requestID, &controlplanev1.ServerMessage{
		Msg: &controlplanev1.ServerMessage_CacheClear{
			CacheClear: &controlplanev1.CacheClear{RequestId: requestID},
		},
	})
}

func (s *NodeControlService) send(machineID, requestID string, msg *controlplanev1.ServerMessage) error {
	s.mu.RLock()
	ms := s.streams[machineID]
	s.mu.RUnlock()
	if ms == nil {
		return status.Errorf(codes.Unavailable, "machine stream not available: %s", machineID)
	}

	if requestID != "" {
		s.recordPending(machineID, requestID)
	}

	ms.sendMu.Lock()
	defer ms.sendMu.Unlock()

	if err := ms.stream.Send(msg); err != nil {
		s.dropPending(requestID)
		return status.Errorf(codes.Unavailable, "send to %s: %v", machineID, err)
	}
	return nil
}

// BroadcastPing sends a keepalive ping to every attached agent.
func (s *NodeControlService) BroadcastPing() {
	s.mu.RLock()
	streams := make(map[string]*machineStream, len(s.streams))
	for id, ms := range s.streams {
		streams[id] = ms
	}
	s.mu.RUnlock()

	msg := &controlplanev1.ServerMessage{
		Msg: &controlplanev1.ServerMessage_Ping{Ping: &controlplanev1.Ping{}},
	}
	for id, ms := range streams {
		ms.sendMu.Lock()
		err := ms.stream.Send(msg)
		ms.sendMu.Unlock()
		if err != nil {
			log.Printf("control: ping machine=%s err=%v", id, err)
		}
	}
}

// RunPings broadcasts keepalives until the context is cancelled.
func (s *NodeControlService) RunPings(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.BroadcastPing()
		}
	}
}

func (s *NodeControlService) Stream(stream controlplanev1.NodeControl_StreamServer) error {
	_ = stream.Send(&controlplanev1.ServerMessage{
		Msg: &controlplanev1.ServerMessage_Hello{
			Hello: &controlplanev1.ServerHello{ServerVersion: s.Version},
		},
	})

	var machineID string

	for {
		in, err := stream.Recv()
		if err == io.EOF {
			s.detach(machineID, stream)
			return nil
		}
		if err != nil {
			s.detach(machineID, stream)
			return status.Errorf(codes.Unavailable, "stream recv: %v", err)
		}

		switch msg := in.Msg.(type) {
		case *controlplanev1.NodeMessage_Hello:
			machineID = msg.Hello.MachineId

			s.Cluster.UpsertHello(machineID, state.Capabilities{
				GPUCount: int(msg.Hello.GpuCount),
				Primary:  msg.Hello.Primary,
			})

			s.attach(machineID, stream)
			log.Printf("control: hello machine=%s version=%s host=%s gpus=%d primary=%v",
				machineID, msg.Hello.Version, msg.Hello.Hostname, msg.Hello.GpuCount, msg.Hello.Primary)

		case *controlplanev1.NodeMessage_Status:
			if machineID == "" {
				// Status before hello; nothing to attribute it to.
				continue
			}

			gpus := make([]state.GPUMetrics, 0, len(msg.Status.Gpus))
			for _, g := range msg.Status.Gpus {
				gpus = append(gpus, state.GPUMetrics{
					Index:          int(g.Index),
					UtilizationPct: g.UtilizationPct,
					MemoryUsedMB:   g.MemoryUsedMb,
					MemoryTotalMB:  g.MemoryTotalMb,
				})
			}

			models := map[string]state.ModelPlacement{}
			for _, m := range msg.Status.Models {
				models[m.ModelId] = state.ModelPlacement{
					ModelID:     m.ModelId,
					SizeMB:      m.SizeMb,
					LoadedSince: unixMsToTime(m.LoadedSinceUnixMs),
				}
			}

			var latencyMS float64
			if s.Latency != nil {
				if l, ok := s.Latency.Get(machineID); ok {
					latencyMS = l.EWMAms
				}
			}

			s.Cluster.UpdateStatus(machineID, gpus, msg.Status.CpuPercent, latencyMS, models)

		case *controlplanev1.NodeMessage_Ack:
			s.resolveAck(msg.Ack)

		default:
			// Ignore unknown messages for forward compatibility.
		}
	}
}

func (s *NodeControlService) attach(machineID string, stream controlplanev1.NodeControl_StreamServer) {
	if machineID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams[machineID] = &machineStream{stream: stream}
}

func (s *NodeControlService) detach(machineID string, stream controlplanev1.NodeControl_StreamServer) {
	if machineID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.streams[machineID]; cur != nil && cur.stream == stream {
		delete(s.streams, machineID)
	}
}

func (s *NodeControlService) recordPending(machineID, requestID string) {
	now := time.Now()
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	for id, p := range s.pending {
		if now.Sub(p.sentAt) > pendingCommandTTL {
			delete(s.pending, id)
		}
	}
	s.pending[requestID] = pendingCommand{machineID: machineID, sentAt: now}
}

func (s *NodeControlService) dropPending(requestID string) {
	if requestID == "" {
		return
	}
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	delete(s.pending, requestID)
}

// resolveAck matches an ack to its command and feeds the round trip into the
// latency tracker.
func (s *NodeControlService) resolveAck(ack *controlplanev1.CommandAck) {
	s.pendingMu.Lock()
	p, ok := s.pending[ack.RequestId]
	if ok {
		delete(s.pending, ack.RequestId)
	}
	s.pendingMu.Unlock()

	if !ok {
		log.Printf("control: ack req=%s ok=%v err=%s (no pending command)", ack.RequestId, ack.Ok, ack.Error)
		return
	}

	rtt := time.Since(p.sentAt)
	if s.Latency != nil {
		if ack.Ok {
			s.Latency.ObserveOK(p.machineID, rtt)
		} else {
			s.Latency.ObserveError(p.machineID, rtt)
		}
	}
	if !ack.Ok {
		log.Printf("control: ack req=%s machine=%s failed: %s", ack.RequestId, p.machineID, ack.Error)
	}
}

func unixMsToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.Unix(0, ms*int64(time.Millisecond))
}
