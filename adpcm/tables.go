package adpcm

// FrameSize is the size in bytes of one encoded ADPCM frame on the wire.
const FrameSize = 16

// SamplesPerFrame is the number of PCM samples one frame decodes to.
const SamplesPerFrame = 28

// shiftRange is the bit width the quantized residual is packed into before
// the 4-bit nibble split; 12 yields the canonical VAG packing.
const shiftRange = 12

// coefficient holds one predictor filter's pair of coefficients as
// float64, scaled down from the canonical fixed-point numerators (/64),
// matching the reference floating-point implementation this package is
// grounded on.
type coefficient struct {
	c0, c1 float64
}

func newCoefficient(rawC0, rawC1 int32) coefficient {
	return coefficient{
		c0: float64(rawC0) / 64.0,
		c1: float64(rawC1) / 64.0,
	}
}

// filterTable is the canonical PSX ADPCM predictor table. Real-world VAG
// encoders only ever emit indices 0-4; index 5 is carried as a degenerate
// all-zero filter (identical to index 0) so that the documented "filter
// index 0-5" and "coef_index > 5 coerced to 0" wording in the frame layout
// has a concrete 6th slot rather than silently aliasing 5 onto a 5-entry
// table. See DESIGN.md for this decision.
var filterTable = [6]coefficient{
	newCoefficient(0, 0),
	newCoefficient(60, 0),
	newCoefficient(115, -52),
	newCoefficient(98, -55),
	newCoefficient(122, -60),
	newCoefficient(0, 0),
}

// NumFilters is the count of predictor filters the encoder searches over.
const NumFilters = len(filterTable)
