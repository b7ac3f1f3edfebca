package arc

import (
	"log"

	"github.com/barneydobson/wsi/flow"
)

// Builder can help building base arcs.
type Builder struct {
	src        flow.Endpoint
	dst        flow.Endpoint
	capacity   float64
	preference float64
}

// MakeBuilder creates a builder with the default configuration: unbounded
// capacity, preference 1.
func MakeBuilder() Builder {
	return Builder{
		capacity:   flow.UnboundedCapacity,
		preference: 1,
	}
}

// WithSource sets the endpoint the arc moves water from.
func (b Builder) WithSource(src flow.Endpoint) Builder {
	b.src = src
	return b
}

// WithDestination sets the endpoint the arc moves water to.
func (b Builder) WithDestination(dst flow.Endpoint) Builder {
	b.dst = dst
	return b
}

// WithCapacity limits the volume the arc can carry per timestep.
func (b Builder) WithCapacity(capacity float64) Builder {
	b.capacity = capacity
	return b
}

// WithPreference sets the routing weight consulted by distribution policies.
func (b Builder) WithPreference(preference float64) Builder {
	b.preference = preference
	return b
}

// Build creates the arc and registers it with endpoints that track their
// links.
func (b Builder) Build(name string) *Arc {
	a := new(Arc)
	initArc(a, name, b.src, b.dst, b.capacity, b.preference)
	registerLink(a, b.src, b.dst)
	return a
}

func initArc(
	a *Arc,
	name string,
	src, dst flow.Endpoint,
	capacity, preference float64,
) {
	flow.NameMustBeValid(name)
	endpointsMustBeGiven(src, dst)
	if capacity <= 0 {
		log.Panicf("arc %s: capacity must be positive", name)
	}

	a.name = name
	a.src = src
	a.dst = dst
	a.capacity = capacity
	a.preference = preference

	a.ledger = flow.NewLedger(name)
	a.ledger.RegisterInflow(func() flow.Record { return a.recIn })
	a.ledger.RegisterOutflow(func() flow.Record { return a.recOut })
}

func endpointsMustBeGiven(src, dst flow.Endpoint) {
	if src == nil {
		log.Panic("arc source endpoint is not given")
	}
	if dst == nil {
		log.Panic("arc destination endpoint is not given")
	}
}

func registerLink(l Link, src, dst flow.Endpoint) {
	if s, ok := src.(SourceEndpoint); ok {
		s.RegisterOutLink(l)
	}
	if d, ok := dst.(DestinationEndpoint); ok {
		d.RegisterInLink(l)
	}
}
