package biquad

// Config is the public coefficient structure exchanged between filter design
// and the runtime filter. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
//
// Gain scales the output after filtering.
type Config struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
	Gain       float64 // output scaling
}

// IsIdentity reports whether the config passes audio through unchanged.
func (c Config) IsIdentity() bool {
	return c.B0 == 1 && c.B1 == 0 && c.B2 == 0 && c.A1 == 0 && c.A2 == 0 && c.Gain == 1
}
