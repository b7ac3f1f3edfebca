// Package network assembles nodes and arcs into a simulated system and
// drives their shared per-timestep lifecycle.
package network

import (
	"sort"

	"github.com/barneydobson/wsi/arc"
	"github.com/barneydobson/wsi/flow"
)

// An Endpoint is a node as the network sees it: an arc endpoint with the
// per-timestep lifecycle and a conservation ledger.
type Endpoint interface {
	flow.Endpoint

	MassBalance() (in, ds, out flow.Record, violations []flow.Violation)
	EndTimestep()
	Reinit()
}

// A Network owns the nodes and arcs of one simulated system. The network
// owns arcs; arcs hold non-owning references to endpoints.
//
// The network is single-threaded: the orchestrator runs node computations,
// resolves due deliveries, ends the timestep, and audits, strictly in that
// order, with no concurrent mutation.
type Network struct {
	nodes     map[string]Endpoint
	nodeOrder []string
	arcs      map[string]arc.Link
	arcOrder  []string
}

// New creates an empty network.
func New() *Network {
	return &Network{
		nodes: make(map[string]Endpoint),
		arcs:  make(map[string]arc.Link),
	}
}

// AddNode registers a node with the network. Registering two nodes with the
// same name is a programmer error.
func (n *Network) AddNode(e Endpoint) {
	name := e.Name()
	if _, ok := n.nodes[name]; ok {
		panic("node " + name + " already registered")
	}

	n.nodes[name] = e
	n.nodeOrder = append(n.nodeOrder, name)
}

// AddArc registers an arc with the network.
func (n *Network) AddArc(l arc.Link) {
	name := l.Name()
	if _, ok := n.arcs[name]; ok {
		panic("arc " + name + " already registered")
	}

	n.arcs[name] = l
	n.arcOrder = append(n.arcOrder, name)
}

// Node returns the node with the given name, nil if absent.
func (n *Network) Node(name string) Endpoint {
	return n.nodes[name]
}

// Arc returns the arc with the given name, nil if absent.
func (n *Network) Arc(name string) arc.Link {
	return n.arcs[name]
}

// Nodes returns the registered nodes in registration order.
func (n *Network) Nodes() []Endpoint {
	nodes := make([]Endpoint, 0, len(n.nodeOrder))
	for _, name := range n.nodeOrder {
		nodes = append(nodes, n.nodes[name])
	}
	return nodes
}

// Arcs returns the registered arcs in registration order.
func (n *Network) Arcs() []arc.Link {
	arcs := make([]arc.Link, 0, len(n.arcOrder))
	for _, name := range n.arcOrder {
		arcs = append(arcs, n.arcs[name])
	}
	return arcs
}

// A QueueLink is an arc that holds parcels in transit and needs its due
// deliveries resolved each timestep.
type QueueLink interface {
	arc.Link
	AdvanceQueue(dir flow.Direction) flow.Record
}

// AdvanceQueues resolves due push deliveries on every queue-holding arc, in
// registration order.
func (n *Network) AdvanceQueues() {
	for _, name := range n.arcOrder {
		if q, ok := n.arcs[name].(QueueLink); ok {
			q.AdvanceQueue(flow.Push)
		}
	}
}

// Audit evaluates every ledger in the network and returns the violations,
// keyed by the owning object's name.
func (n *Network) Audit() map[string][]flow.Violation {
	violations := make(map[string][]flow.Violation)

	for _, name := range n.arcOrder {
		if _, _, _, v := n.arcs[name].MassBalance(); len(v) > 0 {
			violations[name] = v
		}
	}
	for _, name := range n.nodeOrder {
		if _, _, _, v := n.nodes[name].MassBalance(); len(v) > 0 {
			violations[name] = v
		}
	}

	return violations
}

// EndTimestep ages queues and resets per-timestep state on every arc, then
// every node.
func (n *Network) EndTimestep() {
	for _, name := range n.arcOrder {
		n.arcs[name].EndTimestep()
	}
	for _, name := range n.nodeOrder {
		n.nodes[name].EndTimestep()
	}
}

// Reinit resets the whole network between simulation runs, discarding
// queued water.
func (n *Network) Reinit() {
	for _, name := range n.arcOrder {
		n.arcs[name].Reinit()
	}
	for _, name := range n.nodeOrder {
		n.nodes[name].Reinit()
	}
}

// SortedArcNames returns the arc names in lexicographic order, for stable
// reporting.
func (n *Network) SortedArcNames() []string {
	names := make([]string, len(n.arcOrder))
	copy(names, n.arcOrder)
	sort.Strings(names)
	return names
}
