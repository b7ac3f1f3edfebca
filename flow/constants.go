package flow

// FloatAccuracy is the numerical-noise floor. Volumes and masses below this
// threshold are treated as exactly zero throughout the substrate, both to
// avoid wasted transfer attempts and to keep the mass-balance audit from
// flagging floating-point dust.
const FloatAccuracy = 1e-11

// UnboundedCapacity is the sentinel used for links and stores that impose no
// volume limit of their own.
const UnboundedCapacity = 1e15

// DecayReferenceTemperature is the temperature, in degrees Celsius, at which
// a decay law's rate constant applies unmodified.
const DecayReferenceTemperature = 20.0
