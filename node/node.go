// Package node provides the endpoint side of the transport substrate: a
// handler-table base type plus the storage, sink and distribution behaviors
// the arcs are exercised against.
package node

import (
	"log"
	"math"

	"github.com/barneydobson/wsi/arc"
	"github.com/barneydobson/wsi/flow"
)

// distributionRounds caps the preference-weighted allocation loop. Rounds
// beyond this indicate endpoints whose checked and committed replies
// disagree persistently.
const distributionRounds = 10

// A Handler implements one endpoint operation for one routing tag.
type Handler func(r flow.Record) flow.Record

// Node is the base endpoint. Each of the four operations dispatches through
// an explicit tag-to-handler table with a generic fallback under
// flow.TagDefault; dispatching a tag with no handler and no default is a
// programmer error and panics.
//
// A Node also tracks the links attached to it, so preference-ordered
// distribution can fan a record out over them.
type Node struct {
	name   string
	ledger *flow.Ledger

	pushCheck map[flow.Tag]Handler
	pushSet   map[flow.Tag]Handler
	pullCheck map[flow.Tag]Handler
	pullSet   map[flow.Tag]Handler

	inLinks  []arc.Link
	outLinks []arc.Link
}

// New creates a named node with deny-everything default handlers. Concrete
// node types overwrite the defaults they support.
func New(name string) *Node {
	flow.NameMustBeValid(name)

	n := &Node{
		name:      name,
		ledger:    flow.NewLedger(name),
		pushCheck: map[flow.Tag]Handler{},
		pushSet:   map[flow.Tag]Handler{},
		pullCheck: map[flow.Tag]Handler{},
		pullSet:   map[flow.Tag]Handler{},
	}

	n.pushCheck[flow.TagDefault] = deny
	n.pushSet[flow.TagDefault] = echo
	n.pullCheck[flow.TagDefault] = deny
	n.pullSet[flow.TagDefault] = deny

	return n
}

// deny replies that nothing can be moved.
func deny(_ flow.Record) flow.Record {
	return flow.Empty()
}

// echo replies that nothing was accepted.
func echo(r flow.Record) flow.Record {
	return r
}

// Name returns the name of the node.
func (n *Node) Name() string {
	return n.name
}

// Ledger returns the node's conservation ledger.
func (n *Node) Ledger() *flow.Ledger {
	return n.ledger
}

// HandlePushCheck registers the push-check handler for a tag.
func (n *Node) HandlePushCheck(tag flow.Tag, h Handler) {
	n.pushCheck[tag] = h
}

// HandlePushSet registers the push-set handler for a tag.
func (n *Node) HandlePushSet(tag flow.Tag, h Handler) {
	n.pushSet[tag] = h
}

// HandlePullCheck registers the pull-check handler for a tag.
func (n *Node) HandlePullCheck(tag flow.Tag, h Handler) {
	n.pullCheck[tag] = h
}

// HandlePullSet registers the pull-set handler for a tag.
func (n *Node) HandlePullSet(tag flow.Tag, h Handler) {
	n.pullSet[tag] = h
}

func (n *Node) dispatch(
	table map[flow.Tag]Handler,
	op string,
	r flow.Record,
	tag flow.Tag,
) flow.Record {
	if h, ok := table[tag]; ok {
		return h(r)
	}
	if h, ok := table[flow.TagDefault]; ok {
		return h(r)
	}

	log.Panicf("%s: no %s handler for tag %q and no default", n.name, op, tag)
	return flow.Empty()
}

// PushCheck dispatches a checked push to the handler for the tag.
func (n *Node) PushCheck(r flow.Record, tag flow.Tag) flow.Record {
	return n.dispatch(n.pushCheck, "push check", r, tag)
}

// PushSet dispatches a committed push to the handler for the tag.
func (n *Node) PushSet(r flow.Record, tag flow.Tag) flow.Record {
	return n.dispatch(n.pushSet, "push set", r, tag)
}

// PullCheck dispatches a checked pull to the handler for the tag.
func (n *Node) PullCheck(r flow.Record, tag flow.Tag) flow.Record {
	return n.dispatch(n.pullCheck, "pull check", r, tag)
}

// PullSet dispatches a committed pull to the handler for the tag.
func (n *Node) PullSet(r flow.Record, tag flow.Tag) flow.Record {
	return n.dispatch(n.pullSet, "pull set", r, tag)
}

// RegisterInLink records a link that delivers into this node.
func (n *Node) RegisterInLink(l arc.Link) {
	n.inLinks = append(n.inLinks, l)
}

// RegisterOutLink records a link that carries water away from this node.
func (n *Node) RegisterOutLink(l arc.Link) {
	n.outLinks = append(n.outLinks, l)
}

// InLinks returns the links delivering into this node.
func (n *Node) InLinks() []arc.Link {
	return n.inLinks
}

// OutLinks returns the links carrying water away from this node.
func (n *Node) OutLinks() []arc.Link {
	return n.outLinks
}

// PushDistributed fans r out over the node's outgoing links, allocating in
// proportion to each link's checked excess weighted by its preference, and
// iterating while capacity remains. It returns the amount no link would
// take.
func (n *Node) PushDistributed(r flow.Record, tag flow.Tag) flow.Record {
	if len(n.outLinks) == 1 {
		return n.outLinks[0].Push(r, tag, false)
	}

	notPushed := r
	for iter := 0; iter < distributionRounds; iter++ {
		if notPushed.IsNegligible() {
			return notPushed.Clipped()
		}

		avail, weights := n.connectedExcess(flow.Push, tag)
		if avail < flow.FloatAccuracy {
			break
		}

		total := 0.0
		for _, w := range weights {
			total += w
		}
		if total <= 0 {
			break
		}

		amount := math.Min(avail, notPushed.Volume)
		for i, l := range n.outLinks {
			if weights[i] <= 0 {
				continue
			}
			toSend := notPushed.ScaleToVolume(amount * weights[i] / total)
			reply := l.Push(toSend, tag, false)
			notPushed = notPushed.Extract(toSend.Extract(reply))
		}
	}

	return notPushed.Clipped()
}

// PullDistributed gathers r from the node's incoming links, allocating in
// proportion to each link's checked availability weighted by its
// preference. It returns the total obtained.
func (n *Node) PullDistributed(r flow.Record, tag flow.Tag) flow.Record {
	if len(n.inLinks) == 1 {
		return n.inLinks[0].Pull(r, tag)
	}

	pulled := flow.Empty()
	remaining := r
	for iter := 0; iter < distributionRounds; iter++ {
		if remaining.IsNegligible() {
			break
		}

		avail, weights := n.connectedExcess(flow.Pull, tag)
		if avail < flow.FloatAccuracy {
			break
		}

		total := 0.0
		for _, w := range weights {
			total += w
		}
		if total <= 0 {
			break
		}

		amount := math.Min(avail, remaining.Volume)
		for i, l := range n.inLinks {
			if weights[i] <= 0 {
				continue
			}
			got := l.Pull(remaining.ScaleToVolume(amount*weights[i]/total), tag)
			pulled = pulled.Add(got)
			remaining = remaining.Extract(got).Clipped()
		}
	}

	return pulled
}

// connectedExcess sums the checked capacity of the relevant links and
// returns the preference-weighted excess per link.
func (n *Node) connectedExcess(
	dir flow.Direction,
	tag flow.Tag,
) (avail float64, weights []float64) {
	links := n.outLinks
	if dir == flow.Pull {
		links = n.inLinks
	}

	weights = make([]float64, len(links))
	for i, l := range links {
		var excess flow.Record
		if dir == flow.Push {
			excess = l.PushCheck(flow.Empty(), tag)
		} else {
			excess = l.PullCheck(flow.Empty(), tag)
		}

		avail += excess.Volume
		weights[i] = excess.Volume * l.Preference()
	}

	return avail, weights
}

// MassBalance evaluates the node's ledger.
func (n *Node) MassBalance() (in, ds, out flow.Record, violations []flow.Violation) {
	return n.ledger.Evaluate()
}

// EndTimestep resets per-timestep state. The base node holds none.
func (n *Node) EndTimestep() {}

// Reinit resets the node between simulation runs.
func (n *Node) Reinit() {}

var _ flow.Endpoint = (*Node)(nil)
var _ arc.SourceEndpoint = (*Node)(nil)
var _ arc.DestinationEndpoint = (*Node)(nil)
