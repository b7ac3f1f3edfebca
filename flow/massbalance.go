package flow

import (
	"log"
	"math"
)

// A Producer returns a component's current contribution to one side of the
// mass balance.
type Producer func() Record

// A Violation is one conserved field whose inflow, outflow and storage
// change do not reconcile within tolerance.
type Violation struct {
	// Field is "volume" or a pollutant name.
	Field string

	// Magnitude is the unnormalized residual, inflow - storage change -
	// outflow.
	Magnitude float64
}

// A Ledger audits conservation for one stateful object. The object registers
// zero-argument producers for its inflows, outflows and storage changes once
// at construction; any caller may then evaluate the ledger on demand,
// typically at the end of a timestep.
//
// The audit is diagnostic. Violations are logged and returned, never raised;
// the simulation continues.
type Ledger struct {
	name   string
	logger *log.Logger

	in  []Producer
	out []Producer
	ds  []Producer
}

// NewLedger creates a ledger for the named object, logging violations
// through the default logger.
func NewLedger(name string) *Ledger {
	return &Ledger{name: name, logger: log.Default()}
}

// SetLogger redirects violation diagnostics.
func (l *Ledger) SetLogger(logger *log.Logger) {
	l.logger = logger
}

// Name returns the name of the audited object.
func (l *Ledger) Name() string {
	return l.name
}

// RegisterInflow adds an inflow contributor.
func (l *Ledger) RegisterInflow(p Producer) {
	l.in = append(l.in, p)
}

// RegisterOutflow adds an outflow contributor.
func (l *Ledger) RegisterOutflow(p Producer) {
	l.out = append(l.out, p)
}

// RegisterStorageChange adds a storage-change contributor.
func (l *Ledger) RegisterStorageChange(p Producer) {
	l.ds = append(l.ds, p)
}

// Evaluate sums the three collections and checks, for volume and every
// additive constituent, that inflow - storage change - outflow is within
// tolerance of zero. The three sums are normalized by the order of magnitude
// of the largest of them first, so the absolute tolerance is
// scale-independent.
func (l *Ledger) Evaluate() (in, ds, out Record, violations []Violation) {
	in = Empty()
	for _, p := range l.in {
		in = in.Add(p())
	}

	out = Empty()
	for _, p := range l.out {
		out = out.Add(p())
	}

	ds = Empty()
	for _, p := range l.ds {
		ds = ds.Add(p())
	}

	l.checkField(&violations, "volume", in.Volume, ds.Volume, out.Volume)
	for p := Pollutant(0); p < NumPollutants; p++ {
		l.checkField(&violations, p.Name(),
			in.Pollutants[p], ds.Pollutants[p], out.Pollutants[p])
	}

	return in, ds, out, violations
}

func (l *Ledger) checkField(
	violations *[]Violation,
	field string,
	in, ds, out float64,
) {
	nIn, nDs, nOut := in, ds, out

	largest := math.Max(in, math.Max(ds, out))
	if largest > FloatAccuracy {
		magnitude := math.Pow(10, float64(int(math.Log10(largest))))
		nIn /= magnitude
		nDs /= magnitude
		nOut /= magnitude
	}

	if math.Abs(nIn-nDs-nOut) > FloatAccuracy {
		v := Violation{Field: field, Magnitude: in - ds - out}
		*violations = append(*violations, v)

		if l.logger != nil {
			l.logger.Printf("%s: mass balance error for %s of %g",
				l.name, field, v.Magnitude)
		}
	}
}
