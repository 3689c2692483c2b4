package control

import (
	"context"
	"log"

	"github.com/google/uuid"
	controlplanev1 "github.com/mcules/gpu-scheduler/gen/controlplane/v1"
	"github.com/mcules/gpu-scheduler/internal/events"
	"github.com/mcules/gpu-scheduler/internal/state"
)

// Forwarder turns scheduler decisions from the bus into agent commands.
type Forwarder struct {
	Service *NodeControlService
	Cluster *state.Tracker
}

func NewForwarder(svc *NodeControlService, cluster *state.Tracker) *Forwarder {
	return &Forwarder{Service: svc, Cluster: cluster}
}

func (f *Forwarder) Subscribe(bus events.Bus) {
	bus.Subscribe(events.TypeModelUnloadRequested, f.handleUnloadRequested)
	bus.Subscribe(events.TypeCrossMachineTransferRequested, f.handleTransferRequested)
}

func (f *Forwarder) handleUnloadRequested(ctx context.Context, ev events.Event) {
	if ev.ModelUnloadRequested == nil {
		return
	}
	modelID := ev.ModelUnloadRequested.ModelID

	owner, ok := f.Cluster.PlacementMap()[modelID]
	if !ok {
		log.Printf("control: unload requested for model=%s but no machine reports it", modelID)
		return
	}

	requestID := uuid.NewString()
	if err := f.Service.SendUnload(owner, requestID, modelID); err != nil {
		log.Printf("control: forward unload model=%s machine=%s err=%v", modelID, owner, err)
		return
	}
	log.Printf("control: unload req=%s model=%s -> machine=%s", requestID, modelID, owner)
}

func (f *Forwarder) handleTransferRequested(ctx context.Context, ev events.Event) {
	if ev.CrossMachineTransfer == nil {
		return
	}
	t := ev.CrossMachineTransfer

	cmd := &controlplanev1.TransferModel{
		RequestId:        uuid.NewString(),
		ModelId:          t.ModelID,
		SourceMachine:    t.SourceMachine,
		TargetMachine:    t.TargetMachine,
		SizeMb:           t.SizeMB,
		CoordinationType: t.CoordinationType,
		Priority:         t.Priority,
	}
	if err := f.Service.SendTransfer(t.SourceMachine, cmd); err != nil {
		log.Printf("control: forward transfer model=%s %s->%s err=%v", t.ModelID, t.SourceMachine, t.TargetMachine, err)
		return
	}
	log.Printf("control: transfer req=%s model=%s %s->%s (%s/%s)",
		cmd.RequestId, t.ModelID, t.SourceMachine, t.TargetMachine, t.CoordinationType, t.Priority)
}
