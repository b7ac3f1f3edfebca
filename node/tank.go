package node

import (
	"math"

	"github.com/barneydobson/wsi/flow"
)

// A Tank is a capacity-bounded store of water, the stateful capability
// behind storage nodes. It is not an endpoint itself; nodes wrap its
// operations in handlers.
type Tank struct {
	capacity float64

	storage     flow.Record
	storagePrev flow.Record
	initial     flow.Record

	decayer *flow.Decayer
}

// NewTank creates a tank holding initial, bounded by capacity.
func NewTank(capacity float64, initial flow.Record) *Tank {
	return &Tank{
		capacity:    capacity,
		storage:     initial,
		storagePrev: initial,
		initial:     initial,
	}
}

// NewDecayTank creates a tank whose contents decay once per timestep.
func NewDecayTank(
	capacity float64,
	initial flow.Record,
	decayer *flow.Decayer,
) *Tank {
	t := NewTank(capacity, initial)
	t.decayer = decayer
	return t
}

// Capacity returns the tank's volume limit.
func (t *Tank) Capacity() float64 {
	return t.capacity
}

// Storage returns the current contents.
func (t *Tank) Storage() flow.Record {
	return t.storage
}

// Decayer returns the composed decay capability, nil for a plain tank.
func (t *Tank) Decayer() *flow.Decayer {
	return t.decayer
}

// Avail returns what could be pulled: the whole storage for an empty query,
// otherwise the storage clipped to the requested volume, quality ratios
// preserved.
func (t *Tank) Avail(r flow.Record) flow.Record {
	if r.Volume <= 0 {
		return t.storage
	}
	return t.storage.ScaleToVolume(math.Min(r.Volume, t.storage.Volume))
}

// Excess returns what could be pushed: the spare capacity, clipped to the
// requested volume for a non-empty query, expressed with the quality of the
// current contents.
func (t *Tank) Excess(r flow.Record) flow.Record {
	v := math.Max(t.capacity-t.storage.Volume, 0)
	if r.Volume > 0 {
		v = math.Min(v, r.Volume)
	}
	return t.storage.ScaleToVolume(v)
}

// Push adds r to the storage, clipped to the spare capacity unless forced,
// and returns the amount not accepted. Forcing can pool the tank above its
// capacity.
func (t *Tank) Push(r flow.Record, force bool) flow.Record {
	accepted := r
	if !force {
		spare := math.Max(t.capacity-t.storage.Volume, 0)
		accepted = r.ScaleToVolume(math.Min(r.Volume, spare))
	}

	t.storage = t.storage.Add(accepted)

	return r.Extract(accepted)
}

// Pull removes up to r's volume from the storage, quality ratios preserved,
// and returns what was removed.
func (t *Tank) Pull(r flow.Record) flow.Record {
	pulled := t.storage.ScaleToVolume(math.Min(r.Volume, t.storage.Volume))
	t.storage = t.storage.Extract(pulled)
	return pulled
}

// Delta reports the storage change since the last timestep, for ledger
// registration.
func (t *Tank) Delta() flow.Record {
	return t.storage.Delta(t.storagePrev)
}

// EndTimestep snapshots the storage for the next Delta, then decays the
// contents when a decayer is composed in. The snapshot must precede the
// decay: the loss has to show up in the next timestep's storage change,
// where it reconciles against the decayer's outflow report.
func (t *Tank) EndTimestep() {
	t.storagePrev = t.storage

	if t.decayer != nil {
		t.decayer.Reset()
		t.storage = t.decayer.Apply(t.storage)
	}
}

// Reinit restores the initial contents.
func (t *Tank) Reinit() {
	t.storage = t.initial
	t.storagePrev = t.initial
}
