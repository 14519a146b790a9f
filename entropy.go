package goldenseed

import (
	"fmt"
	"math"
	"math/bits"
)

// Minimum sample sizes, in bytes, below which a test reports
// ErrInsufficientData instead of a statistic.
const (
	MonobitMinBytes    = 1
	RunsMinBytes       = 2
	ChiSquareMinBytes  = 2560 // 10 expected observations per byte value
	MinEntropyMinBytes = 1024
)

// Pass thresholds.
const (
	ShannonPassBits      = 7.0
	MonobitMaxBalance    = 0.05
	RunsRatioMin         = 0.9
	RunsRatioMax         = 1.1
	SerialMaxCorrelation = 0.1

	// ChiSquareCritical is the 99th percentile of the chi-square
	// distribution with 255 degrees of freedom.
	ChiSquareCritical         = 310.457
	ChiSquareDegreesOfFreedom = 255
)

// ShannonEntropy returns -sum p(b) log2 p(b) over the byte histogram of
// buf, in bits per byte. The result lies in [0, 8]; an empty buffer has
// entropy 0.
func ShannonEntropy(buf []byte) float64 {
	h := NewHistogram(buf)
	return h.ShannonEntropy()
}

// ShannonEntropy returns the Shannon entropy of the counted bytes.
func (h *Histogram) ShannonEntropy() float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	n := float64(total)
	var e float64
	for _, c := range h {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		e -= p * math.Log2(p)
	}
	return math.Min(8, math.Max(0, e))
}

// MonobitResult is the outcome of the frequency (monobit) test.
type MonobitResult struct {
	Ones      uint64  `json:"ones"`
	Zeros     uint64  `json:"zeros"`
	OnesRatio float64 `json:"ones_ratio"`
	Balance   float64 `json:"balance"` // |OnesRatio - 0.5|
	PValue    float64 `json:"p_value"` // SP800-22 frequency test p-value
	Pass      bool    `json:"pass"`
}

// MonobitFrequency compares the number of one and zero bits in buf. It
// passes when the ones ratio is within MonobitMaxBalance of one half.
// Requires MonobitMinBytes.
func MonobitFrequency(buf []byte) (MonobitResult, error) {
	h := NewHistogram(buf)
	return monobit(&h)
}

func monobit(h *Histogram) (MonobitResult, error) {
	total := h.Total()
	if total < MonobitMinBytes {
		return MonobitResult{}, insufficient("monobit_frequency", int(total), MonobitMinBytes)
	}

	var ones uint64
	for v, c := range h {
		ones += c * uint64(bits.OnesCount8(uint8(v)))
	}
	n := total * 8
	zeros := n - ones

	r := MonobitResult{
		Ones:      ones,
		Zeros:     zeros,
		OnesRatio: float64(ones) / float64(n),
	}
	r.Balance = math.Abs(r.OnesRatio - 0.5)

	diff := float64(ones) - float64(zeros)
	sObs := math.Abs(diff) / math.Sqrt(float64(n))
	r.PValue = math.Erfc(sObs / math.Sqrt2)
	r.Pass = r.Balance < MonobitMaxBalance
	return r, nil
}

// RunsResult is the outcome of the runs test.
type RunsResult struct {
	Runs         uint64  `json:"runs"`
	ExpectedRuns float64 `json:"expected_runs"`
	RunsRatio    float64 `json:"runs_ratio"`
	PValue       float64 `json:"p_value"`

	// Prerequisite reports whether the ones proportion pi satisfies
	// |pi - 0.5| < 2/sqrt(n); the runs count is meaningless otherwise.
	Prerequisite bool `json:"prerequisite"`
	Pass         bool `json:"pass"`
}

// RunsTest counts maximal runs of identical bits (most significant bit
// first within each byte) and compares them with 2*n0*n1/n + 1, the
// expected count for an independent sequence with the same ones ratio.
// It passes when the ratio is within [RunsRatioMin, RunsRatioMax] and the
// frequency prerequisite holds. Requires RunsMinBytes.
func RunsTest(buf []byte) (RunsResult, error) {
	if len(buf) < RunsMinBytes {
		return RunsResult{}, insufficient("runs", len(buf), RunsMinBytes)
	}

	var ones uint64
	runs := uint64(1)
	for i, b := range buf {
		ones += uint64(bits.OnesCount8(b))
		// Transitions between adjacent bits inside the byte.
		runs += uint64(bits.OnesCount8((b ^ b>>1) & 0x7f))
		// Transition from the last bit of the previous byte.
		if i > 0 && (buf[i-1]&1) != (b>>7) {
			runs++
		}
	}

	n := float64(len(buf) * 8)
	n1 := float64(ones)
	n0 := n - n1

	r := RunsResult{Runs: runs}
	r.ExpectedRuns = 2*n0*n1/n + 1
	r.RunsRatio = float64(runs) / r.ExpectedRuns

	pi := n1 / n
	r.Prerequisite = math.Abs(pi-0.5) < 2/math.Sqrt(n)
	if r.Prerequisite {
		num := math.Abs(float64(runs) - 2*n*pi*(1-pi))
		den := 2 * math.Sqrt(2*n) * pi * (1 - pi)
		r.PValue = math.Erfc(num / den)
	}
	r.Pass = r.Prerequisite && r.RunsRatio >= RunsRatioMin && r.RunsRatio <= RunsRatioMax
	return r, nil
}

// SerialResult is the outcome of the serial correlation test.
type SerialResult struct {
	Lag int     `json:"lag"`
	R   float64 `json:"r"`

	// Degenerate is set when either sequence has zero variance, in which
	// case R is undefined, reported as 0, and the test fails.
	Degenerate bool `json:"degenerate"`
	Pass       bool `json:"pass"`
}

// SerialCorrelation returns the Pearson correlation between buf[i] and
// buf[i+lag]. It passes when |r| < SerialMaxCorrelation. Requires lag+2
// bytes and lag >= 1.
func SerialCorrelation(buf []byte, lag int) (SerialResult, error) {
	if lag < 1 {
		return SerialResult{}, &ConfigurationError{
			Field: fmt.Sprintf("serial correlation lag %d must be positive", lag),
			Err:   ErrInvalidLag,
		}
	}
	if lag > len(buf)-2 {
		need := math.MaxInt
		if lag <= math.MaxInt-2 {
			need = lag + 2
		}
		return SerialResult{Lag: lag}, insufficient("serial_correlation", len(buf), need)
	}

	x := buf[:len(buf)-lag]
	y := buf[lag:]
	m := float64(len(x))

	var sx, sy uint64
	for i := range x {
		sx += uint64(x[i])
		sy += uint64(y[i])
	}
	mx := float64(sx) / m
	my := float64(sy) / m

	var sxy, sxx, syy float64
	for i := range x {
		dx := float64(x[i]) - mx
		dy := float64(y[i]) - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	r := SerialResult{Lag: lag}
	if sxx == 0 || syy == 0 {
		r.Degenerate = true
		return r, nil
	}
	r.R = sxy / math.Sqrt(sxx*syy)
	r.Pass = math.Abs(r.R) < SerialMaxCorrelation
	return r, nil
}

// ChiSquareResult is the outcome of the byte uniformity test.
type ChiSquareResult struct {
	ChiSquare        float64 `json:"chi_square"`
	Expected         float64 `json:"expected"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	CriticalValue    float64 `json:"critical_value"`
	Pass             bool    `json:"pass"`
}

// ChiSquareUniformity tests the 256-bin byte histogram of buf against the
// uniform distribution. It passes when the statistic is below
// ChiSquareCritical. Requires ChiSquareMinBytes; shorter buffers return
// an *InsufficientDataError rather than a statistic.
func ChiSquareUniformity(buf []byte) (ChiSquareResult, error) {
	h := NewHistogram(buf)
	return chiSquare(&h)
}

func chiSquare(h *Histogram) (ChiSquareResult, error) {
	total := h.Total()
	if total < ChiSquareMinBytes {
		return ChiSquareResult{}, insufficient("chi_square", int(total), ChiSquareMinBytes)
	}

	expected := float64(total) / 256
	var chi float64
	for _, c := range h {
		d := float64(c) - expected
		chi += d * d / expected
	}

	return ChiSquareResult{
		ChiSquare:        chi,
		Expected:         expected,
		DegreesOfFreedom: ChiSquareDegreesOfFreedom,
		CriticalValue:    ChiSquareCritical,
		Pass:             chi < ChiSquareCritical,
	}, nil
}
