package node

import "github.com/barneydobson/wsi/flow"

// Waste is a terminal outlet that accepts any amount of water by pushes and
// denies all pulls. Received water leaves the system, so the node reports it
// as an outflow.
type Waste struct {
	*Node

	received flow.Record
}

// NewWaste creates a waste outlet.
func NewWaste(name string) *Waste {
	w := &Waste{Node: New(name)}

	w.HandlePushCheck(flow.TagDefault, w.pushCheckAccept)
	w.HandlePushSet(flow.TagDefault, w.pushSetAccept)

	w.Ledger().RegisterInflow(func() flow.Record { return w.received })
	w.Ledger().RegisterOutflow(func() flow.Record { return w.received })

	return w
}

// pushCheckAccept accepts all water. An empty query is answered with
// unbounded capacity.
func (w *Waste) pushCheckAccept(r flow.Record) flow.Record {
	if r.Volume <= 0 {
		r.Volume = flow.UnboundedCapacity
	}
	return r
}

func (w *Waste) pushSetAccept(r flow.Record) flow.Record {
	w.received = w.received.Add(r)
	return flow.Empty()
}

// Received returns the total accepted this timestep.
func (w *Waste) Received() flow.Record {
	return w.received
}

// EndTimestep clears the per-timestep total.
func (w *Waste) EndTimestep() {
	w.received = flow.Empty()
}

// Reinit resets the node between simulation runs.
func (w *Waste) Reinit() {
	w.received = flow.Empty()
}
