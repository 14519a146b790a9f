package goldenseed

import (
	"math"
)

const (
	// MinEntropyPassBits is the per-byte min-entropy an estimate must
	// reach to pass.
	MinEntropyPassBits = 6.0

	// mcvZ is the z value of the 99% confidence bound used by the
	// SP800-90B most-common-value estimator.
	mcvZ = 2.576
)

// MinEntropyResult is a most-common-value min-entropy estimate.
type MinEntropyResult struct {
	Samples    int     `json:"samples"`
	MostCommon byte    `json:"most_common"`
	MaxCount   uint64  `json:"max_count"`
	PMax       float64 `json:"p_max"`

	// Bits is the point estimate -log2(PMax) in bits per byte.
	Bits float64 `json:"bits"`

	// PUpper is the upper 99% confidence bound on PMax and
	// ConservativeBits the matching estimate, as SP800-90B reports it.
	PUpper           float64 `json:"p_upper"`
	ConservativeBits float64 `json:"conservative_bits"`

	Pass bool `json:"pass"`
}

// MinEntropyEstimate returns -log2(maxCount/total), the min-entropy of the
// byte distribution of buf estimated from its most common value. The
// point estimate is biased low for small samples, so at least
// MinEntropyMinBytes are required. It passes when Bits reaches
// MinEntropyPassBits.
func MinEntropyEstimate(buf []byte) (MinEntropyResult, error) {
	h := NewHistogram(buf)
	return minEntropy(&h)
}

func minEntropy(h *Histogram) (MinEntropyResult, error) {
	total := h.Total()
	if total < MinEntropyMinBytes {
		return MinEntropyResult{}, insufficient("min_entropy", int(total), MinEntropyMinBytes)
	}

	value, count := h.Max()
	n := float64(total)
	p := float64(count) / n

	upper := p + mcvZ*math.Sqrt(p*(1-p)/(n-1))
	if upper > 1 {
		upper = 1
	}

	r := MinEntropyResult{
		Samples:    int(total),
		MostCommon: value,
		MaxCount:   count,
		PMax:       p,
		Bits:       nonNegative(-math.Log2(p)),
		PUpper:     upper,
	}
	r.ConservativeBits = nonNegative(-math.Log2(upper))
	r.Pass = r.Bits >= MinEntropyPassBits
	return r, nil
}

// nonNegative maps -0 to 0.
func nonNegative(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return x
}
