package flow

import "math"

// A Record describes one parcel of water: its volume, a fixed vector of
// additive quality constituents, and its temperature. Temperature is
// intensive and is never summed by the algebra; operations either keep the
// receiver's temperature or, for Blend, volume-weight it.
//
// Records are plain values. Every operation returns a new Record and leaves
// its operands untouched.
type Record struct {
	Volume      float64
	Pollutants  [NumPollutants]float64
	Temperature float64
}

// Empty returns a zero-filled record.
func Empty() Record {
	return Record{}
}

// IsNegligible reports whether the record's volume is below the
// numerical-noise floor.
func (r Record) IsNegligible() bool {
	return r.Volume < FloatAccuracy
}

// Add sums volume and every additive constituent. The receiver's temperature
// is kept; reconciling temperatures across summed parcels is the caller's
// responsibility.
func (r Record) Add(o Record) Record {
	r.Volume += o.Volume
	for p := range r.Pollutants {
		r.Pollutants[p] += o.Pollutants[p]
	}
	return r
}

// Blend combines two records given as concentrations. Volume sums; every
// constituent and the temperature become the volume-weighted average. A
// combined volume of zero yields zero concentrations.
func (r Record) Blend(o Record) Record {
	var c Record
	c.Volume = r.Volume + o.Volume
	if c.Volume <= 0 {
		return c
	}

	for p := range c.Pollutants {
		c.Pollutants[p] = (r.Pollutants[p]*r.Volume + o.Pollutants[p]*o.Volume) / c.Volume
	}
	c.Temperature = (r.Temperature*r.Volume + o.Temperature*o.Volume) / c.Volume

	return c
}

// Extract subtracts o's volume and additive constituents from r. Floating
// error can leave small negative residues; callers that require
// non-negativity clip with Clipped.
func (r Record) Extract(o Record) Record {
	r.Volume -= o.Volume
	for p := range r.Pollutants {
		r.Pollutants[p] -= o.Pollutants[p]
	}
	return r
}

// ScaleToVolume rescales every additive constituent proportionally so that
// the record's volume becomes v. A zero-volume receiver carries no ratio to
// scale by, so the result takes volume v with constituents left at zero.
func (r Record) ScaleToVolume(v float64) Record {
	if r.Volume > 0 {
		ratio := v / r.Volume
		r.Volume *= ratio
		for p := range r.Pollutants {
			r.Pollutants[p] *= ratio
		}
	} else {
		r.Volume = v
	}
	return r
}

// ConcentrationToTotal converts per-volume concentrations to volume-scaled
// totals. Temperature passes through unchanged.
func (r Record) ConcentrationToTotal() Record {
	for p := range r.Pollutants {
		r.Pollutants[p] *= r.Volume
	}
	return r
}

// TotalToConcentration converts volume-scaled totals to per-volume
// concentrations. Temperature passes through unchanged. A zero-volume record
// has no defined concentrations and comes back with them zeroed.
func (r Record) TotalToConcentration() Record {
	if r.Volume <= 0 {
		r.Pollutants = [NumPollutants]float64{}
		return r
	}
	for p := range r.Pollutants {
		r.Pollutants[p] /= r.Volume
	}
	return r
}

// Distill removes v of volume without touching the constituents. Removing
// more than is present clips the volume to zero and reports the shortfall.
func (r Record) Distill(v float64) (Record, float64) {
	r.Volume -= v

	var shortfall float64
	if r.Volume < 0 {
		shortfall = -r.Volume
		r.Volume = 0
	}

	return r, shortfall
}

// Delta returns r minus o for volume and every additive constituent, used
// for storage-change reporting. The result's temperature is zero.
func (r Record) Delta(o Record) Record {
	var ds Record
	ds.Volume = r.Volume - o.Volume
	for p := range ds.Pollutants {
		ds.Pollutants[p] = r.Pollutants[p] - o.Pollutants[p]
	}
	return ds
}

// Clipped clamps negative volume and constituent residues to zero.
func (r Record) Clipped() Record {
	r.Volume = math.Max(r.Volume, 0)
	for p := range r.Pollutants {
		r.Pollutants[p] = math.Max(r.Pollutants[p], 0)
	}
	return r
}
