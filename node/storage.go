package node

import (
	"log"

	"github.com/barneydobson/wsi/flow"
)

// Storage is a node wrapping a tank: pushes fill it, pulls drain it, checks
// report its spare capacity and availability.
type Storage struct {
	*Node
	tank *Tank
}

// NewStorage creates a storage node around the given tank. The tank's
// storage change and, for a decaying tank, its decay loss are registered
// with the node's ledger.
func NewStorage(name string, tank *Tank) *Storage {
	s := &Storage{
		Node: New(name),
		tank: tank,
	}

	s.HandlePushCheck(flow.TagDefault, func(r flow.Record) flow.Record {
		return s.tank.Excess(r)
	})
	s.HandlePushSet(flow.TagDefault, func(r flow.Record) flow.Record {
		return s.tank.Push(r, false)
	})
	s.HandlePullCheck(flow.TagDefault, func(r flow.Record) flow.Record {
		return s.tank.Avail(r)
	})
	s.HandlePullSet(flow.TagDefault, func(r flow.Record) flow.Record {
		return s.tank.Pull(r)
	})

	s.Ledger().RegisterInflow(func() flow.Record { return s.totalArcIn() })
	s.Ledger().RegisterOutflow(func() flow.Record { return s.totalArcOut() })
	s.Ledger().RegisterStorageChange(func() flow.Record { return s.tank.Delta() })
	if d := tank.Decayer(); d != nil {
		s.Ledger().RegisterOutflow(func() flow.Record { return d.TotalDecayed() })
	}

	return s
}

// Tank returns the wrapped tank.
func (s *Storage) Tank() *Tank {
	return s.tank
}

// totalArcIn sums what the incoming links delivered this timestep.
func (s *Storage) totalArcIn() flow.Record {
	sum := flow.Empty()
	for _, l := range s.InLinks() {
		sum = sum.Add(l.TotalOut())
	}
	return sum
}

// totalArcOut sums what the outgoing links carried away this timestep.
func (s *Storage) totalArcOut() flow.Record {
	sum := flow.Empty()
	for _, l := range s.OutLinks() {
		sum = sum.Add(l.TotalIn())
	}
	return sum
}

// Distribute pushes the available storage out over the outgoing links by
// preference. Water no link would take is returned to the tank.
func (s *Storage) Distribute() {
	storage := s.tank.Pull(s.tank.Avail(flow.Empty()))
	retained := s.PushDistributed(storage, flow.TagDefault)

	if retained.Volume > flow.FloatAccuracy {
		log.Printf("%s: unable to push %g", s.Name(), retained.Volume)
		s.tank.Push(retained, true)
	}
}

// EndTimestep advances the tank.
func (s *Storage) EndTimestep() {
	s.tank.EndTimestep()
}

// Reinit restores the tank's initial contents.
func (s *Storage) Reinit() {
	s.tank.Reinit()
}
