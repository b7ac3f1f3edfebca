package arc

import (
	"log"
	"math"

	"github.com/barneydobson/wsi/flow"
)

// BucketQueueArc is a fixed-lag variant of QueueArc for the common case of
// many small parcels sharing the same destination. The queue is an array
// mapping remaining delay to one aggregated record per delay, so aging is
// O(max delay) rather than O(entries). All parcels in the same bucket are
// indistinguishable: per-parcel tags are not kept. Pull transfers are not
// supported.
//
// Backflow policy: resolution only ever attempts bucket 0. With backflow
// disabled the rejected portion stays in bucket 0 for the next attempt; with
// backflow enabled bucket 0 is cleared regardless of what was accepted. Both
// behaviors, including their asymmetry with QueueArc, are relied upon by
// callers and kept intact.
type BucketQueueArc struct {
	Arc

	travelTime       int
	backflowDisabled bool
	decayer          *flow.Decayer

	buckets          []flow.Record
	maxTravel        int
	queueStoragePrev flow.Record
}

// TravelTime returns the delay, in timesteps, applied to each new parcel.
func (q *BucketQueueArc) TravelTime() int {
	return q.travelTime
}

// QueuedVolume returns the total volume currently resident in the buckets.
func (q *BucketQueueArc) QueuedVolume() float64 {
	return q.queueSum().Volume
}

func (q *BucketQueueArc) queueSum() flow.Record {
	sum := flow.Empty()
	for _, b := range q.buckets {
		sum = sum.Add(b)
	}
	return sum
}

// queueDelta is read-only, like QueueArc's.
func (q *BucketQueueArc) queueDelta() flow.Record {
	return q.queueSum().Extract(q.queueStoragePrev)
}

// Push clips r to the checked-available amount, adds the remainder into the
// bucket for the configured travel time, and resolves bucket 0. The
// returned record sums the clipped portion and any backflow.
func (q *BucketQueueArc) Push(r flow.Record, tag flow.Tag, force bool) flow.Record {
	if r.IsNegligible() {
		return flow.Empty()
	}

	notPushed := flow.Empty()
	if !force {
		excess := q.excess(flow.Push, r, tag)
		notPushed = r.ScaleToVolume(math.Max(r.Volume-excess.Volume, 0))
	}

	sent := r.Extract(notPushed)
	q.enterQueue(sent)

	backflow := q.AdvanceQueue(flow.Push)
	notPushed = notPushed.Add(backflow)

	if backflow.Volume > r.Volume {
		log.Printf("%s: more backflow than pushed volume", q.name)
	}

	return notPushed
}

// Pull is not supported on a bucket queue: buckets keep neither direction
// nor tag, so there is no way to resolve a pull parcel separately.
func (q *BucketQueueArc) Pull(_ flow.Record, _ flow.Tag) flow.Record {
	log.Panicf("%s: bucket queue arcs do not support pull transfers", q.name)
	return flow.Empty()
}

// enterQueue credits the running inflow and aggregates the parcel into the
// bucket for its delay, growing the array lazily.
func (q *BucketQueueArc) enterQueue(r flow.Record) {
	q.flowIn += r.Volume / float64(q.travelTime+1)
	q.recIn = q.recIn.Add(r)

	if q.decayer != nil {
		r = q.decayer.Apply(r)
	}

	for len(q.buckets) <= q.travelTime {
		q.buckets = append(q.buckets, flow.Empty())
	}
	if q.travelTime > q.maxTravel {
		q.maxTravel = q.travelTime
	}

	q.buckets[q.travelTime] = q.buckets[q.travelTime].Add(r)
}

// AdvanceQueue resolves bucket 0 against the destination. The direction
// argument exists for interface symmetry with QueueArc and is ignored: a
// bucket queue only carries pushes.
func (q *BucketQueueArc) AdvanceQueue(_ flow.Direction) flow.Record {
	totalRemoved := q.buckets[0]

	backflow := q.dst.PushSet(totalRemoved, flow.TagDefault)

	if q.backflowDisabled {
		q.buckets[0] = backflow
		backflow = flow.Empty()
	} else {
		q.buckets[0] = flow.Empty()
	}

	totalRemoved = totalRemoved.ScaleToVolume(totalRemoved.Volume - backflow.Volume)

	q.flowOut += totalRemoved.Volume
	q.recOut = q.recOut.Add(totalRemoved)

	if q.NumHooks() > 0 && !totalRemoved.IsNegligible() {
		q.InvokeHook(flow.HookCtx{
			Domain: q,
			Pos:    HookPosQueueResolve,
			Item:   totalRemoved,
			Detail: flow.Push,
		})
	}

	q.recIn = q.recIn.Extract(backflow)

	if q.NumHooks() > 0 && !backflow.IsNegligible() {
		q.InvokeHook(flow.HookCtx{
			Domain: q,
			Pos:    HookPosQueueBackflow,
			Item:   backflow,
			Detail: flow.Push,
		})
	}

	return backflow
}

// EndTimestep shifts every bucket one step closer to delivery: bucket i+1
// becomes bucket i, and the two lowest buckets merge into the new bucket 0.
// With a decayer composed in, every resident bucket decays as it shifts.
// The queued total is snapshotted before the decay so the loss shows up in
// the next timestep's storage change.
func (q *BucketQueueArc) EndTimestep() {
	q.Arc.EndTimestep()

	if q.decayer != nil {
		q.decayer.Reset()
	}

	q.queueStoragePrev = q.queueSum()

	old := make([]flow.Record, len(q.buckets))
	copy(old, q.buckets)

	for i := 0; i < q.maxTravel; i++ {
		if i+1 < len(old) {
			q.buckets[i] = q.maybeDecay(old[i+1])
			q.buckets[i+1] = flow.Empty()
		}
	}

	q.buckets[0] = q.maybeDecay(old[0]).Add(q.buckets[0])
}

func (q *BucketQueueArc) maybeDecay(r flow.Record) flow.Record {
	if q.decayer == nil {
		return r
	}
	return q.decayer.Apply(r)
}

// Reinit additionally discards any water still in the buckets.
func (q *BucketQueueArc) Reinit() {
	q.EndTimestep()
	q.buckets = []flow.Record{flow.Empty(), flow.Empty()}
	q.maxTravel = 1
	q.queueStoragePrev = flow.Empty()
}

var _ Link = (*BucketQueueArc)(nil)

// BucketQueueBuilder can help building bucket queue arcs.
type BucketQueueBuilder struct {
	src              flow.Endpoint
	dst              flow.Endpoint
	capacity         float64
	preference       float64
	travelTime       int
	backflowDisabled bool
	decayer          *flow.Decayer
}

// MakeBucketQueueBuilder creates a builder with the default configuration:
// unbounded capacity, preference 1, zero travel time, backflow enabled, no
// decay.
func MakeBucketQueueBuilder() BucketQueueBuilder {
	return BucketQueueBuilder{
		capacity:   flow.UnboundedCapacity,
		preference: 1,
	}
}

// WithSource sets the endpoint the arc moves water from.
func (b BucketQueueBuilder) WithSource(src flow.Endpoint) BucketQueueBuilder {
	b.src = src
	return b
}

// WithDestination sets the endpoint the arc moves water to.
func (b BucketQueueBuilder) WithDestination(dst flow.Endpoint) BucketQueueBuilder {
	b.dst = dst
	return b
}

// WithCapacity limits the volume the arc can carry per timestep.
func (b BucketQueueBuilder) WithCapacity(capacity float64) BucketQueueBuilder {
	b.capacity = capacity
	return b
}

// WithPreference sets the routing weight consulted by distribution policies.
func (b BucketQueueBuilder) WithPreference(preference float64) BucketQueueBuilder {
	b.preference = preference
	return b
}

// WithTravelTime sets the delay, in timesteps, applied to each new parcel.
func (b BucketQueueBuilder) WithTravelTime(timesteps int) BucketQueueBuilder {
	b.travelTime = timesteps
	return b
}

// WithBackflowDisabled keeps the rejected portion of bucket 0 in place for
// another attempt instead of returning it as backflow.
func (b BucketQueueBuilder) WithBackflowDisabled() BucketQueueBuilder {
	b.backflowDisabled = true
	return b
}

// WithDecay composes a decay capability into the arc.
func (b BucketQueueBuilder) WithDecay(d *flow.Decayer) BucketQueueBuilder {
	b.decayer = d
	return b
}

// Build creates the bucket queue arc and registers it with endpoints that
// track their links.
func (b BucketQueueBuilder) Build(name string) *BucketQueueArc {
	q := new(BucketQueueArc)
	initArc(&q.Arc, name, b.src, b.dst, b.capacity, b.preference)

	if b.travelTime < 0 {
		log.Panicf("arc %s: travel time must not be negative", name)
	}
	q.travelTime = b.travelTime
	q.backflowDisabled = b.backflowDisabled
	q.decayer = b.decayer
	q.buckets = []flow.Record{flow.Empty(), flow.Empty()}
	q.maxTravel = 1

	q.ledger.RegisterStorageChange(func() flow.Record { return q.queueDelta() })
	if q.decayer != nil {
		q.ledger.RegisterOutflow(func() flow.Record { return q.decayer.TotalDecayed() })
	}

	registerLink(q, b.src, b.dst)
	return q
}
