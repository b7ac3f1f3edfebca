// Package arc implements the directed links that move water records between
// endpoints under capacity and travel-time constraints.
package arc

import (
	"math"

	"github.com/barneydobson/wsi/flow"
)

// HookPosPush marks a committed push through an arc. Item is the accepted
// record, Detail the tag.
var HookPosPush = &flow.HookPos{Name: "Arc Push"}

// HookPosPull marks a committed pull through an arc. Item is the obtained
// record, Detail the tag.
var HookPosPull = &flow.HookPos{Name: "Arc Pull"}

// HookPosQueueResolve marks delivery of due queue entries. Item is the
// delivered record.
var HookPosQueueResolve = &flow.HookPos{Name: "Arc Queue Resolve"}

// HookPosQueueBackflow marks rejection of a due delivery by the destination.
// Item is the rejected record.
var HookPosQueueBackflow = &flow.HookPos{Name: "Arc Queue Backflow"}

// A Link is a directed transport connection between two endpoints. All arc
// variants implement it.
type Link interface {
	flow.Named
	flow.Hookable

	// Push attempts to send r to the destination and returns the amount not
	// accepted. force bypasses the link's own capacity check; it must only
	// be used when the destination is known to accept anything.
	Push(r flow.Record, tag flow.Tag, force bool) flow.Record

	// Pull attempts to obtain r from the source and returns the amount
	// actually obtained.
	Pull(r flow.Record, tag flow.Tag) flow.Record

	// PushCheck returns the amount that could be pushed without committing.
	PushCheck(r flow.Record, tag flow.Tag) flow.Record

	// PullCheck returns the amount that could be pulled without committing.
	PullCheck(r flow.Record, tag flow.Tag) flow.Record

	// Preference is the routing weight used by distribution policies. The
	// link itself does not consult it.
	Preference() float64

	// FlowIn and FlowOut are the running volumes of the current timestep.
	FlowIn() float64
	FlowOut() float64

	// TotalIn and TotalOut are the running records of the current timestep.
	TotalIn() flow.Record
	TotalOut() flow.Record

	// MassBalance evaluates the link's conservation ledger.
	MassBalance() (in, ds, out flow.Record, violations []flow.Violation)

	// EndTimestep resets per-timestep state and ages any queue.
	EndTimestep()

	// Reinit resets the link completely between simulation runs, discarding
	// any queued water.
	Reinit()
}

// A SourceEndpoint is implemented by endpoints that track the links leaving
// them; the builder registers new links automatically.
type SourceEndpoint interface {
	RegisterOutLink(l Link)
}

// A DestinationEndpoint is implemented by endpoints that track the links
// entering them.
type DestinationEndpoint interface {
	RegisterInLink(l Link)
}

// Arc is the base link. It moves a record between its two endpoints once per
// call, honoring its own capacity and the endpoint's checked capacity, and
// holds nothing between timesteps: flow out equals flow in within a
// timestep.
type Arc struct {
	flow.HookableBase

	name       string
	src        flow.Endpoint
	dst        flow.Endpoint
	capacity   float64
	preference float64

	flowIn  float64
	flowOut float64
	recIn   flow.Record
	recOut  flow.Record

	ledger *flow.Ledger
}

// Name returns the name of the arc.
func (a *Arc) Name() string {
	return a.name
}

// Source returns the endpoint the arc moves water from.
func (a *Arc) Source() flow.Endpoint {
	return a.src
}

// Destination returns the endpoint the arc moves water to.
func (a *Arc) Destination() flow.Endpoint {
	return a.dst
}

// Capacity returns the volume the arc can carry per timestep.
func (a *Arc) Capacity() float64 {
	return a.capacity
}

// Preference returns the routing weight of the arc.
func (a *Arc) Preference() float64 {
	return a.preference
}

// FlowIn returns the volume committed into the arc this timestep.
func (a *Arc) FlowIn() float64 {
	return a.flowIn
}

// FlowOut returns the volume delivered by the arc this timestep.
func (a *Arc) FlowOut() float64 {
	return a.flowOut
}

// TotalIn returns the record committed into the arc this timestep.
func (a *Arc) TotalIn() flow.Record {
	return a.recIn
}

// TotalOut returns the record delivered by the arc this timestep.
func (a *Arc) TotalOut() flow.Record {
	return a.recOut
}

// PushCheck returns the portion of r that could be pushed right now, the
// minimum of the arc's remaining capacity and the destination's own checked
// capacity. It does not mutate state.
func (a *Arc) PushCheck(r flow.Record, tag flow.Tag) flow.Record {
	return a.excess(flow.Push, r, tag)
}

// PullCheck returns the portion of r that could be pulled right now.
func (a *Arc) PullCheck(r flow.Record, tag flow.Tag) flow.Record {
	return a.excess(flow.Pull, r, tag)
}

// excess is the shared capacity-resolution routine of the checked
// operations. It returns the relevant endpoint's checked reply rescaled to
// the minimum of the endpoint's and the pipe's remaining volume.
func (a *Arc) excess(dir flow.Direction, r flow.Record, tag flow.Tag) flow.Record {
	pipeExcess := a.capacity - a.flowIn

	var nodeExcess flow.Record
	if dir == flow.Push {
		nodeExcess = a.dst.PushCheck(r, tag)
	} else {
		nodeExcess = a.src.PullCheck(r, tag)
	}

	v := math.Min(pipeExcess, nodeExcess.Volume)
	v = math.Max(v, 0)

	return nodeExcess.ScaleToVolume(v)
}

// Push attempts to send r to the destination. The record is first clipped to
// the checked-available amount (skipped when force is set), then forwarded
// to the destination's committed push, which may itself reject part of it.
// The returned record is everything that was not accepted; callers rely on
// it for their own retry or storage logic. Volumes below the noise floor are
// treated as zero without attempting a transfer.
func (a *Arc) Push(r flow.Record, tag flow.Tag, force bool) flow.Record {
	if r.IsNegligible() {
		return flow.Empty()
	}

	notPushed := flow.Empty()
	if !force {
		excess := a.excess(flow.Push, r, tag)
		notPushed = r.ScaleToVolume(math.Max(r.Volume-excess.Volume, 0))
	}

	// Don't attempt to send volume that exceeds capacity.
	sent := r.Extract(notPushed)

	reply := a.dst.PushSet(sent, tag)
	accepted := sent.Extract(reply)

	notPushed = reply.Add(notPushed)

	a.flowIn += accepted.Volume
	a.flowOut = a.flowIn
	a.recIn = a.recIn.Add(accepted)
	a.recOut = a.recIn

	if a.NumHooks() > 0 {
		a.InvokeHook(flow.HookCtx{
			Domain: a,
			Pos:    HookPosPush,
			Item:   accepted,
			Detail: tag,
		})
	}

	return notPushed
}

// Pull attempts to obtain r from the source. The requested record's additive
// constituents are scaled down proportionally to the volume actually
// obtainable before the committed pull is issued, preserving quality ratios.
// The returned record is what was obtained.
func (a *Arc) Pull(r flow.Record, tag flow.Tag) flow.Record {
	if r.IsNegligible() {
		return flow.Empty()
	}

	excess := a.excess(flow.Pull, r, tag)
	notPulled := math.Max(r.Volume-excess.Volume, 0)
	want := r.ScaleToVolume(r.Volume - notPulled)

	got := a.src.PullSet(want, tag)

	a.flowIn += got.Volume
	a.flowOut = a.flowIn
	a.recIn = a.recIn.Add(got)
	a.recOut = a.recIn

	if a.NumHooks() > 0 {
		a.InvokeHook(flow.HookCtx{
			Domain: a,
			Pos:    HookPosPull,
			Item:   got,
			Detail: tag,
		})
	}

	return got
}

// MassBalance evaluates the arc's ledger.
func (a *Arc) MassBalance() (in, ds, out flow.Record, violations []flow.Violation) {
	return a.ledger.Evaluate()
}

// Ledger returns the arc's conservation ledger, so collaborators can
// register additional contributors.
func (a *Arc) Ledger() *flow.Ledger {
	return a.ledger
}

// EndTimestep clears the running totals for the next timestep.
func (a *Arc) EndTimestep() {
	a.flowIn = 0
	a.flowOut = 0
	a.recIn = flow.Empty()
	a.recOut = flow.Empty()
}

// Reinit resets the arc between simulation runs.
func (a *Arc) Reinit() {
	a.EndTimestep()
}

var _ Link = (*Arc)(nil)
