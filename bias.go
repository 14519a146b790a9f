package goldenseed

// Bias reasons reported by BiasReport.Reasons.
const (
	ReasonEmptyData       = "empty_data"
	ReasonLeadingZeros    = "leading_zeros"
	ReasonTrailingZeros   = "trailing_zeros"
	ReasonRepeatedPattern = "repeated_pattern"
	ReasonLowDiversity    = "low_diversity"
	ReasonLongRun         = "long_run"
	ReasonAllZeros        = "all_zeros"
	ReasonAllOnes         = "all_ones"
)

// repeatedPatternBytes is how many leading bytes must be identical to
// report ReasonRepeatedPattern.
const repeatedPatternBytes = 8

// BiasThresholds tunes the heuristic bias scan.
type BiasThresholds struct {
	// EdgeRun is the number of zero bytes at the start or end of a
	// buffer that counts as a leading/trailing zero run.
	EdgeRun int

	// MinDiversity is the minimum ratio of distinct byte values to
	// min(len, 256).
	MinDiversity float64

	// MaxRun is the length of a same-byte run, anywhere in the buffer,
	// that counts as a defect.
	MaxRun int
}

// DefaultBiasThresholds returns the thresholds used by ValidateBias.
func DefaultBiasThresholds() BiasThresholds {
	return BiasThresholds{
		EdgeRun:      4,
		MinDiversity: 0.3,
		MaxRun:       16,
	}
}

// BiasReport is the result of a bias scan.
type BiasReport struct {
	HasBias    bool     `json:"has_bias"`
	Reasons    []string `json:"reasons"`
	Distinct   int      `json:"distinct"`
	Diversity  float64  `json:"diversity"`
	LongestRun int      `json:"longest_run"`
}

// HasReason reports whether reason was detected.
func (r BiasReport) HasReason(reason string) bool {
	for _, x := range r.Reasons {
		if x == reason {
			return true
		}
	}
	return false
}

func (r BiasReport) clone() BiasReport {
	r.Reasons = append([]string(nil), r.Reasons...)
	return r
}

// ValidateBias scans buf for obvious defects with DefaultBiasThresholds.
func ValidateBias(buf []byte) BiasReport {
	return DefaultBiasThresholds().Validate(buf)
}

// Validate scans buf for zero runs at its edges, a repeated leading byte,
// low byte diversity, long same-byte runs and all-zero or all-0xff
// content. It runs in one pass and is intended as a cheap pre-check
// before ComprehensiveAnalysis.
func (t BiasThresholds) Validate(buf []byte) BiasReport {
	h := NewHistogram(buf)
	return t.validate(buf, &h)
}

func (t BiasThresholds) validate(buf []byte, h *Histogram) BiasReport {
	if len(buf) == 0 {
		return BiasReport{HasBias: true, Reasons: []string{ReasonEmptyData}}
	}

	var r BiasReport
	add := func(reason string) { r.Reasons = append(r.Reasons, reason) }

	if t.EdgeRun > 0 && len(buf) >= t.EdgeRun {
		if allEqual(buf[:t.EdgeRun], 0) {
			add(ReasonLeadingZeros)
		}
		if allEqual(buf[len(buf)-t.EdgeRun:], 0) {
			add(ReasonTrailingZeros)
		}
	}

	if len(buf) >= repeatedPatternBytes && allEqual(buf[:repeatedPatternBytes], buf[0]) {
		add(ReasonRepeatedPattern)
	}

	r.Distinct = h.Distinct()
	possible := len(buf)
	if possible > 256 {
		possible = 256
	}
	r.Diversity = float64(r.Distinct) / float64(possible)
	if r.Diversity < t.MinDiversity {
		add(ReasonLowDiversity)
	}

	r.LongestRun = longestRun(buf)
	if t.MaxRun > 0 && r.LongestRun >= t.MaxRun {
		add(ReasonLongRun)
	}

	total := uint64(len(buf))
	if h[0x00] == total {
		add(ReasonAllZeros)
	}
	if h[0xff] == total {
		add(ReasonAllOnes)
	}

	r.HasBias = len(r.Reasons) > 0
	return r
}

func allEqual(buf []byte, v byte) bool {
	for _, b := range buf {
		if b != v {
			return false
		}
	}
	return true
}

// longestRun returns the length of the longest run of one repeated byte.
func longestRun(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	longest, cur := 1, 1
	for i := 1; i < len(buf); i++ {
		if buf[i] == buf[i-1] {
			cur++
			if cur > longest {
				longest = cur
			}
		} else {
			cur = 1
		}
	}
	return longest
}
