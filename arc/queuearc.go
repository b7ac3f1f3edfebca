package arc

import (
	"log"
	"math"

	"github.com/barneydobson/wsi/flow"
)

// A queueEntry is one parcel in transit: its payload, remaining delay,
// direction, routing tag, and the average flow rate credited while the
// parcel is in the pipe.
type queueEntry struct {
	rec         flow.Record
	remaining   int
	dir         flow.Direction
	tag         flow.Tag
	averageFlow float64
}

// QueueArc is an arc that holds accepted parcels in transit for a
// configured travel time before delivery. Each parcel keeps its own
// direction and tag; delivery is attempted once the delay has elapsed.
//
// Backflow policy: a due push rejected by the destination is, unless
// backflow is disabled, removed from the queue entirely and returned to the
// caller, debiting the arc's own inflow ledger as if the water never
// successfully left. This favors simplicity over retry semantics and
// differs deliberately from BucketQueueArc's policy.
type QueueArc struct {
	Arc

	travelTime       int
	backflowDisabled bool
	decayer          *flow.Decayer

	queue            []*queueEntry
	queueStoragePrev flow.Record
}

// TravelTime returns the delay, in timesteps, stamped on each new parcel.
func (q *QueueArc) TravelTime() int {
	return q.travelTime
}

// QueuedVolume returns the total volume currently resident in the queue.
func (q *QueueArc) QueuedVolume() float64 {
	return q.queueSum().Volume
}

func (q *QueueArc) queueSum() flow.Record {
	sum := flow.Empty()
	for _, e := range q.queue {
		sum = sum.Add(e.rec)
	}
	return sum
}

// queueDelta reports the change in the queued total since the last
// timestep, the arc's storage-change contribution. It mutates nothing, so
// the ledger can be evaluated any number of times within a timestep.
func (q *QueueArc) queueDelta() flow.Record {
	return q.queueSum().Extract(q.queueStoragePrev)
}

// Push clips r to the checked-available amount, enqueues the remainder with
// the configured travel time, and resolves any due push entries. The
// returned record sums the clipped portion and any backflow generated by
// this call.
func (q *QueueArc) Push(r flow.Record, tag flow.Tag, force bool) flow.Record {
	if r.IsNegligible() {
		return flow.Empty()
	}

	notPushed := flow.Empty()
	if !force {
		excess := q.excess(flow.Push, r, tag)
		notPushed = r.ScaleToVolume(math.Max(r.Volume-excess.Volume, 0))
	}

	sent := r.Extract(notPushed)
	q.enterQueue(sent, flow.Push, tag)

	backflow := q.AdvanceQueue(flow.Push)
	notPushed = notPushed.Add(backflow)

	if backflow.Volume > r.Volume {
		log.Printf("%s: more backflow than pushed volume", q.name)
	}

	return notPushed
}

// Pull obtains from the source immediately, preserving quality ratios, and
// queues the obtained parcel for the travel time. The return value is
// whatever pull parcels resolved on this call, which for a non-zero travel
// time is water pulled in earlier timesteps.
func (q *QueueArc) Pull(r flow.Record, tag flow.Tag) flow.Record {
	if r.IsNegligible() {
		return flow.Empty()
	}

	excess := q.excess(flow.Pull, r, tag)
	notPulled := math.Max(r.Volume-excess.Volume, 0)
	want := r.ScaleToVolume(r.Volume - notPulled)

	got := q.src.PullSet(want, tag)
	q.enterQueue(got, flow.Pull, tag)

	return q.AdvanceQueue(flow.Pull)
}

// enterQueue credits the arc's running inflow and appends the parcel. The
// inflow rate is spread over the parcel's time in the pipe. With a decayer
// composed in, the parcel decays once on entry, after the inflow credit.
func (q *QueueArc) enterQueue(r flow.Record, dir flow.Direction, tag flow.Tag) {
	e := &queueEntry{
		rec:         r,
		remaining:   q.travelTime,
		dir:         dir,
		tag:         tag,
		averageFlow: r.Volume / float64(q.travelTime+1),
	}

	q.flowIn += e.averageFlow
	q.recIn = q.recIn.Add(r)

	if q.decayer != nil {
		e.rec = q.decayer.Apply(e.rec)
	}

	q.queue = append(q.queue, e)
}

// AdvanceQueue resolves every entry of the given direction whose delay has
// elapsed, in queue order. Due pushes are committed to the destination; due
// pulls were already obtained at pull time and count as fully delivered.
// Negligible entries are dropped. For pulls it returns the total delivered;
// for pushes it returns the total backflow.
func (q *QueueArc) AdvanceQueue(dir flow.Direction) flow.Record {
	totalRemoved := flow.Empty()
	totalBackflow := flow.Empty()

	kept := q.queue[:0]
	for _, e := range q.queue {
		if e.dir != dir {
			kept = append(kept, e)
			continue
		}

		if e.rec.IsNegligible() {
			continue
		}

		if e.remaining > 0 {
			kept = append(kept, e)
			continue
		}

		var removed float64
		if dir == flow.Push {
			reply := q.dst.PushSet(e.rec, e.tag)
			removed = e.rec.Volume - reply.Volume
		} else {
			removed = e.rec.Volume
		}

		q.flowOut += e.averageFlow * removed / e.rec.Volume

		delivered := e.rec.ScaleToVolume(removed)
		totalRemoved = totalRemoved.Add(delivered)

		rejected := e.rec.ScaleToVolume(e.rec.Volume - removed)

		if !q.backflowDisabled || rejected.Volume < flow.FloatAccuracy {
			totalBackflow = rejected.Add(totalBackflow)
		} else {
			e.rec = rejected
			kept = append(kept, e)
		}
	}
	q.queue = kept

	q.recOut = q.recOut.Add(totalRemoved)

	if q.NumHooks() > 0 && !totalRemoved.IsNegligible() {
		q.InvokeHook(flow.HookCtx{
			Domain: q,
			Pos:    HookPosQueueResolve,
			Item:   totalRemoved,
			Detail: dir,
		})
	}

	if dir == flow.Pull {
		return totalRemoved
	}

	// Rejected water never successfully left the source: debit it from the
	// inflow side so the ledger still closes.
	q.recIn = q.recIn.Extract(totalBackflow)

	if q.NumHooks() > 0 && !totalBackflow.IsNegligible() {
		q.InvokeHook(flow.HookCtx{
			Domain: q,
			Pos:    HookPosQueueBackflow,
			Item:   totalBackflow,
			Detail: dir,
		})
	}

	return totalBackflow
}

// EndTimestep resets the per-timestep accumulators, snapshots the queued
// total for storage-change reporting, decays residents when a decayer is
// composed in, and brings every entry one timestep closer to delivery. The
// snapshot precedes the resident decay so the loss appears in the next
// timestep's storage change, matching the decayer's outflow report. A
// still-pending zero-delay entry stays at zero and resolves on the next
// AdvanceQueue.
func (q *QueueArc) EndTimestep() {
	q.Arc.EndTimestep()

	if q.decayer != nil {
		q.decayer.Reset()
	}

	q.queueStoragePrev = q.queueSum()

	for _, e := range q.queue {
		if q.decayer != nil {
			e.rec = q.decayer.Apply(e.rec)
		}
		if e.remaining > 0 {
			e.remaining--
		}
	}
}

// Reinit additionally discards any water still in transit.
func (q *QueueArc) Reinit() {
	q.EndTimestep()
	q.queue = nil
	q.queueStoragePrev = flow.Empty()
}

var _ Link = (*QueueArc)(nil)

// QueueBuilder can help building queue arcs.
type QueueBuilder struct {
	src              flow.Endpoint
	dst              flow.Endpoint
	capacity         float64
	preference       float64
	travelTime       int
	backflowDisabled bool
	decayer          *flow.Decayer
}

// MakeQueueBuilder creates a builder with the default configuration:
// unbounded capacity, preference 1, zero travel time, backflow enabled, no
// decay.
func MakeQueueBuilder() QueueBuilder {
	return QueueBuilder{
		capacity:   flow.UnboundedCapacity,
		preference: 1,
	}
}

// WithSource sets the endpoint the arc moves water from.
func (b QueueBuilder) WithSource(src flow.Endpoint) QueueBuilder {
	b.src = src
	return b
}

// WithDestination sets the endpoint the arc moves water to.
func (b QueueBuilder) WithDestination(dst flow.Endpoint) QueueBuilder {
	b.dst = dst
	return b
}

// WithCapacity limits the volume the arc can carry per timestep.
func (b QueueBuilder) WithCapacity(capacity float64) QueueBuilder {
	b.capacity = capacity
	return b
}

// WithPreference sets the routing weight consulted by distribution policies.
func (b QueueBuilder) WithPreference(preference float64) QueueBuilder {
	b.preference = preference
	return b
}

// WithTravelTime sets the delay, in timesteps, applied to each new parcel.
func (b QueueBuilder) WithTravelTime(timesteps int) QueueBuilder {
	b.travelTime = timesteps
	return b
}

// WithBackflowDisabled keeps rejected due deliveries in the queue for
// another attempt instead of returning them as backflow.
func (b QueueBuilder) WithBackflowDisabled() QueueBuilder {
	b.backflowDisabled = true
	return b
}

// WithDecay composes a decay capability into the arc: parcels decay on
// entry and once per timestep while resident, and the decayed amounts are
// reported to the ledger as an outflow.
func (b QueueBuilder) WithDecay(d *flow.Decayer) QueueBuilder {
	b.decayer = d
	return b
}

// Build creates the queue arc and registers it with endpoints that track
// their links.
func (b QueueBuilder) Build(name string) *QueueArc {
	q := new(QueueArc)
	initArc(&q.Arc, name, b.src, b.dst, b.capacity, b.preference)

	if b.travelTime < 0 {
		log.Panicf("arc %s: travel time must not be negative", name)
	}
	q.travelTime = b.travelTime
	q.backflowDisabled = b.backflowDisabled
	q.decayer = b.decayer

	q.ledger.RegisterStorageChange(func() flow.Record { return q.queueDelta() })
	if q.decayer != nil {
		q.ledger.RegisterOutflow(func() flow.Record { return q.decayer.TotalDecayed() })
	}

	registerLink(q, b.src, b.dst)
	return q
}
