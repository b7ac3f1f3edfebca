package flow

import (
	"fmt"
	"math"
)

// DecayParams are the rate parameters of a first-order temperature-dependent
// decay law for one constituent. The applied fraction per timestep is
// min(Constant * Exponent^(T - DecayReferenceTemperature), 1).
type DecayParams struct {
	Constant float64
	Exponent float64
}

// A DecayModel maps each governed constituent to its decay parameters.
// Constituents absent from the model do not decay.
type DecayModel map[Pollutant]DecayParams

// Validate reports a configuration error for parameters that cannot express
// a first-order loss.
func (m DecayModel) Validate() error {
	for pol, pars := range m {
		if pol < 0 || pol >= NumPollutants {
			return fmt.Errorf("decay model: unknown pollutant %d", int(pol))
		}
		if pars.Constant < 0 {
			return fmt.Errorf("decay model: %s: constant must be non-negative, got %g",
				pol, pars.Constant)
		}
		if pars.Exponent <= 0 {
			return fmt.Errorf("decay model: %s: exponent must be positive, got %g",
				pol, pars.Exponent)
		}
	}
	return nil
}

// TemperatureDecay applies the decay law to every governed constituent of r
// at the given ambient temperature. It returns the decayed record and the
// removed amounts, so callers can account for the loss in their ledgers.
func TemperatureDecay(
	r Record,
	m DecayModel,
	temperature float64,
) (decayed Record, removed Record) {
	removed = Empty()

	for pol, pars := range m {
		fraction := math.Min(
			pars.Constant*math.Pow(
				pars.Exponent, temperature-DecayReferenceTemperature),
			1,
		)
		removed.Pollutants[pol] = r.Pollutants[pol] * fraction
		r.Pollutants[pol] -= removed.Pollutants[pol]
	}

	return r, removed
}

// A TemperatureSource supplies the ambient temperature a Decayer reads for
// each application.
type TemperatureSource interface {
	Temperature() float64
}

// ConstantTemperature is a TemperatureSource that always reads the same
// value.
type ConstantTemperature float64

// Temperature returns the constant value.
func (t ConstantTemperature) Temperature() float64 {
	return float64(t)
}

// A Decayer is a composable decay capability. Components that degrade
// material in place hold one, call Apply on the resident records, and report
// TotalDecayed to their ledgers as an outflow.
type Decayer struct {
	model  DecayModel
	source TemperatureSource

	totalDecayed Record
}

// NewDecayer validates the model and returns a decayer reading ambient
// temperature from source.
func NewDecayer(model DecayModel, source TemperatureSource) (*Decayer, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("decayer: temperature source is not given")
	}

	return &Decayer{model: model, source: source}, nil
}

// Apply decays r at the current ambient temperature and accumulates the
// removed amounts into the running total.
func (d *Decayer) Apply(r Record) Record {
	decayed, removed := TemperatureDecay(r, d.model, d.source.Temperature())
	d.totalDecayed = d.totalDecayed.Add(removed)
	return decayed
}

// TotalDecayed returns the amounts removed since the last Reset.
func (d *Decayer) TotalDecayed() Record {
	return d.totalDecayed
}

// Reset clears the running total, typically at the end of a timestep.
func (d *Decayer) Reset() {
	d.totalDecayed = Empty()
}
