package flow

// A Tag is an opaque routing key that lets an endpoint select among multiple
// named behaviors for the same operation. Endpoints fall back to TagDefault
// when no behavior is registered for a specific tag.
type Tag string

// TagDefault selects an endpoint's generic handler.
const TagDefault Tag = "default"

// Direction distinguishes the two transfer protocols an arc runs.
type Direction int

// The two transfer directions.
const (
	// Push moves water from the arc's source toward its destination at the
	// sender's initiative.
	Push Direction = iota

	// Pull obtains water from the arc's source at the receiver's initiative.
	Pull
)

func (d Direction) String() string {
	switch d {
	case Push:
		return "push"
	case Pull:
		return "pull"
	default:
		return "unknown"
	}
}

// An Endpoint is the minimal contract a node must expose for an arc to
// interoperate with it. Checked operations query capacity without mutating
// state; committed operations perform the transfer.
//
// All four operations are total: a shortfall is expressed through the
// returned record, never through an error.
type Endpoint interface {
	Named

	// PushCheck returns the amount of r the endpoint could accept without
	// committing. An empty r queries the endpoint's overall excess.
	PushCheck(r Record, tag Tag) Record

	// PushSet commits a push and returns the amount not accepted.
	PushSet(r Record, tag Tag) Record

	// PullCheck returns the amount of r obtainable from the endpoint. An
	// empty r queries the endpoint's overall availability.
	PullCheck(r Record, tag Tag) Record

	// PullSet commits a pull and returns the amount actually obtained.
	PullSet(r Record, tag Tag) Record
}
