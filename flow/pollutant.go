package flow

// A Pollutant identifies one additive quality constituent carried by a
// Record. Additive constituents are stored as volume-scaled totals or as
// per-volume concentrations depending on the convention of the caller; the
// algebra in this package works for either as long as it is applied
// consistently.
type Pollutant int

// The constituents tracked by every Record.
const (
	DissolvedOxygen Pollutant = iota
	OrganicPhosphorus
	Phosphate
	Ammonia
	Nitrate
	Nitrite
	OrganicNitrogen
	Solids
	BOD
	COD

	// NumPollutants is the number of additive constituents.
	NumPollutants
)

var pollutantNames = [NumPollutants]string{
	"do",
	"org-phosphorus",
	"phosphate",
	"ammonia",
	"nitrate",
	"nitrite",
	"org-nitrogen",
	"solids",
	"bod",
	"cod",
}

// Name returns the short identifier of the pollutant.
func (p Pollutant) Name() string {
	return pollutantNames[p]
}

func (p Pollutant) String() string {
	return pollutantNames[p]
}
