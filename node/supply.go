package node

import "github.com/barneydobson/wsi/flow"

// Supply is an unlimited source: every pull is satisfied in full. The
// supplied water enters the system here, so the node reports it as an
// inflow.
type Supply struct {
	*Node

	// Quality is the per-volume concentration stamped on supplied water.
	Quality flow.Record

	supplied flow.Record
}

// NewSupply creates an unlimited source supplying water with the quality of
// the given concentration record.
func NewSupply(name string, quality flow.Record) *Supply {
	s := &Supply{Node: New(name), Quality: quality}

	s.HandlePullCheck(flow.TagDefault, s.pullCheckUnlimited)
	s.HandlePullSet(flow.TagDefault, s.pullSetUnlimited)

	s.Ledger().RegisterInflow(func() flow.Record { return s.supplied })
	s.Ledger().RegisterOutflow(func() flow.Record { return s.supplied })

	return s
}

func (s *Supply) pullCheckUnlimited(r flow.Record) flow.Record {
	v := flow.UnboundedCapacity
	if r.Volume > 0 {
		v = r.Volume
	}

	q := s.Quality
	q.Volume = v
	return q.ConcentrationToTotal()
}

func (s *Supply) pullSetUnlimited(r flow.Record) flow.Record {
	q := s.Quality
	q.Volume = r.Volume
	got := q.ConcentrationToTotal()

	s.supplied = s.supplied.Add(got)
	return got
}

// Supplied returns the total supplied this timestep.
func (s *Supply) Supplied() flow.Record {
	return s.supplied
}

// EndTimestep clears the per-timestep total.
func (s *Supply) EndTimestep() {
	s.supplied = flow.Empty()
}

// Reinit resets the node between simulation runs.
func (s *Supply) Reinit() {
	s.supplied = flow.Empty()
}
