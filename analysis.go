package goldenseed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Metric names used in AnalysisResult.
const (
	MetricShannonEntropy    = "shannon_entropy"
	MetricMonobitFrequency  = "monobit_frequency"
	MetricRuns              = "runs"
	MetricSerialCorrelation = "serial_correlation"
	MetricChiSquare         = "chi_square"
	MetricMinEntropy        = "min_entropy"
)

// Verdict is the outcome of one metric.
type Verdict int

const (
	// VerdictPass means the metric met its threshold.
	VerdictPass Verdict = iota

	// VerdictFail means the metric was computed and missed its threshold.
	VerdictFail

	// VerdictInsufficientData means the buffer was too short to compute
	// the metric at all.
	VerdictInsufficientData
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "PASS"
	case VerdictFail:
		return "FAIL"
	case VerdictInsufficientData:
		return "INSUFFICIENT_DATA"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "PASS":
		*v = VerdictPass
	case "FAIL":
		*v = VerdictFail
	case "INSUFFICIENT_DATA":
		*v = VerdictInsufficientData
	default:
		return fmt.Errorf("goldenseed: unknown verdict %q", text)
	}
	return nil
}

// Quality is the overall verdict of a comprehensive analysis. Higher
// values are better.
type Quality int

const (
	QualityPoor Quality = iota
	QualityFair
	QualityGood
	QualityExcellent
)

// String returns the string representation of the quality.
func (q Quality) String() string {
	switch q {
	case QualityPoor:
		return "POOR"
	case QualityFair:
		return "FAIR"
	case QualityGood:
		return "GOOD"
	case QualityExcellent:
		return "EXCELLENT"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	parsed, err := ParseQuality(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// ParseQuality parses a quality name, case-insensitively.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "POOR":
		return QualityPoor, nil
	case "FAIR":
		return QualityFair, nil
	case "GOOD":
		return QualityGood, nil
	case "EXCELLENT":
		return QualityExcellent, nil
	default:
		return QualityPoor, fmt.Errorf("goldenseed: unknown quality %q", s)
	}
}

// Quality tier thresholds on Shannon entropy, in bits per byte.
const (
	excellentEntropy = 7.5
	goodEntropy      = 7.0
	fairEntropy      = 6.0
)

// Metric is one named statistic with its threshold and verdict.
type Metric struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold string  `json:"threshold"`
	Verdict   Verdict `json:"verdict"`
}

// AnalysisResult aggregates every statistic computed over one buffer. It
// is immutable; accessors return copies.
type AnalysisResult struct {
	length          int
	metrics         []Metric
	quality         Quality
	passesAll       bool
	recommendations []string
	bias            BiasReport

	monobit    MonobitResult
	runs       RunsResult
	serial     SerialResult
	chiSquare  ChiSquareResult
	minEntropy MinEntropyResult
}

// Length returns the number of bytes analyzed.
func (r AnalysisResult) Length() int { return r.length }

// Quality returns the overall verdict.
func (r AnalysisResult) Quality() Quality { return r.quality }

// PassesAll reports whether every metric was computed and passed.
func (r AnalysisResult) PassesAll() bool { return r.passesAll }

// Metrics returns the metrics in a fixed order.
func (r AnalysisResult) Metrics() []Metric {
	return append([]Metric(nil), r.metrics...)
}

// Metric returns the metric with the given name.
func (r AnalysisResult) Metric(name string) (Metric, bool) {
	for _, m := range r.metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Recommendations returns one message per failing or missing metric.
func (r AnalysisResult) Recommendations() []string {
	return append([]string(nil), r.recommendations...)
}

// Bias returns the bias scan of the buffer.
func (r AnalysisResult) Bias() BiasReport { return r.bias.clone() }

// Monobit returns the detailed monobit result.
func (r AnalysisResult) Monobit() MonobitResult { return r.monobit }

// Runs returns the detailed runs result.
func (r AnalysisResult) Runs() RunsResult { return r.runs }

// Serial returns the detailed lag-1 serial correlation result.
func (r AnalysisResult) Serial() SerialResult { return r.serial }

// ChiSquare returns the detailed chi-square result.
func (r AnalysisResult) ChiSquare() ChiSquareResult { return r.chiSquare }

// MinEntropy returns the detailed min-entropy result.
func (r AnalysisResult) MinEntropy() MinEntropyResult { return r.minEntropy }

// MarshalJSON implements json.Marshaler.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Length          int              `json:"length"`
		Quality         Quality          `json:"quality"`
		PassesAll       bool             `json:"passes_all"`
		Metrics         []Metric         `json:"metrics"`
		Recommendations []string         `json:"recommendations"`
		Bias            BiasReport       `json:"bias"`
		Monobit         MonobitResult    `json:"monobit"`
		Runs            RunsResult       `json:"runs"`
		Serial          SerialResult     `json:"serial"`
		ChiSquare       ChiSquareResult  `json:"chi_square"`
		MinEntropy      MinEntropyResult `json:"min_entropy"`
	}{
		Length:          r.length,
		Quality:         r.quality,
		PassesAll:       r.passesAll,
		Metrics:         r.metrics,
		Recommendations: r.recommendations,
		Bias:            r.bias,
		Monobit:         r.monobit,
		Runs:            r.runs,
		Serial:          r.serial,
		ChiSquare:       r.chiSquare,
		MinEntropy:      r.minEntropy,
	})
}

// ComprehensiveAnalysis runs every test over buf and derives an overall
// quality:
//
//	EXCELLENT  entropy >= 7.5 and every metric computed and passed
//	GOOD       entropy >= 7.0 and monobit and runs passed
//	FAIR       entropy >= 6.0
//	POOR       otherwise
//
// Metrics whose minimum sample size is not met are reported with
// VerdictInsufficientData rather than a value.
func ComprehensiveAnalysis(buf []byte) AnalysisResult {
	h := NewHistogram(buf)
	return analyze(buf, &h)
}

// ComprehensiveAnalysisParallel is ComprehensiveAnalysis with the byte
// histogram counted in shards on separate goroutines. Only the counts are
// combined across shards, so the result is identical to the sequential
// analysis.
func ComprehensiveAnalysisParallel(ctx context.Context, buf []byte, shards int) (AnalysisResult, error) {
	h, err := HistogramParallel(ctx, buf, shards)
	if err != nil {
		return AnalysisResult{}, err
	}
	return analyze(buf, &h), nil
}

func analyze(buf []byte, h *Histogram) AnalysisResult {
	r := AnalysisResult{length: len(buf)}

	entropy := h.ShannonEntropy()
	entropyVerdict := verdict(entropy >= ShannonPassBits, nil)
	if len(buf) == 0 {
		entropyVerdict = VerdictInsufficientData
	}
	r.metrics = append(r.metrics, Metric{
		Name:      MetricShannonEntropy,
		Value:     entropy,
		Threshold: fmt.Sprintf(">= %.1f bits/byte", ShannonPassBits),
		Verdict:   entropyVerdict,
	})

	var err error

	r.monobit, err = monobit(h)
	r.metrics = append(r.metrics, Metric{
		Name:      MetricMonobitFrequency,
		Value:     r.monobit.Balance,
		Threshold: fmt.Sprintf("balance < %.2f", MonobitMaxBalance),
		Verdict:   verdict(r.monobit.Pass, err),
	})

	r.runs, err = RunsTest(buf)
	r.metrics = append(r.metrics, Metric{
		Name:      MetricRuns,
		Value:     r.runs.RunsRatio,
		Threshold: fmt.Sprintf("ratio in [%.1f, %.1f]", RunsRatioMin, RunsRatioMax),
		Verdict:   verdict(r.runs.Pass, err),
	})

	r.serial, err = SerialCorrelation(buf, 1)
	r.metrics = append(r.metrics, Metric{
		Name:      MetricSerialCorrelation,
		Value:     r.serial.R,
		Threshold: fmt.Sprintf("|r| < %.1f", SerialMaxCorrelation),
		Verdict:   verdict(r.serial.Pass, err),
	})

	r.chiSquare, err = chiSquare(h)
	r.metrics = append(r.metrics, Metric{
		Name:      MetricChiSquare,
		Value:     r.chiSquare.ChiSquare,
		Threshold: fmt.Sprintf("< %.3f (%d dof)", ChiSquareCritical, ChiSquareDegreesOfFreedom),
		Verdict:   verdict(r.chiSquare.Pass, err),
	})

	r.minEntropy, err = minEntropy(h)
	r.metrics = append(r.metrics, Metric{
		Name:      MetricMinEntropy,
		Value:     r.minEntropy.Bits,
		Threshold: fmt.Sprintf(">= %.1f bits/byte", MinEntropyPassBits),
		Verdict:   verdict(r.minEntropy.Pass, err),
	})

	r.bias = DefaultBiasThresholds().validate(buf, h)

	r.passesAll = true
	for _, m := range r.metrics {
		if m.Verdict != VerdictPass {
			r.passesAll = false
		}
		if msg := recommendation(m); msg != "" {
			r.recommendations = append(r.recommendations, msg)
		}
	}
	if r.bias.HasBias {
		r.recommendations = append(r.recommendations,
			fmt.Sprintf("Bias heuristics triggered: %s", strings.Join(r.bias.Reasons, ", ")))
	}

	switch {
	case entropy >= excellentEntropy && r.passesAll:
		r.quality = QualityExcellent
	case entropy >= goodEntropy && r.monobit.Pass && r.runs.Pass:
		r.quality = QualityGood
	case entropy >= fairEntropy:
		r.quality = QualityFair
	default:
		r.quality = QualityPoor
	}

	return r
}

func verdict(pass bool, err error) Verdict {
	switch {
	case errors.Is(err, ErrInsufficientData):
		return VerdictInsufficientData
	case err != nil, !pass:
		return VerdictFail
	default:
		return VerdictPass
	}
}

func recommendation(m Metric) string {
	if m.Verdict == VerdictInsufficientData {
		return fmt.Sprintf("%s not computable: buffer below minimum sample size", m.Name)
	}
	if m.Verdict == VerdictPass {
		return ""
	}
	switch m.Name {
	case MetricShannonEntropy:
		return fmt.Sprintf("Shannon entropy (%.2f) is below the recommended %.1f bits/byte", m.Value, ShannonPassBits)
	case MetricMonobitFrequency:
		return "Monobit frequency test failed: bit distribution is biased"
	case MetricRuns:
		return "Runs test failed: bits may not be independent"
	case MetricSerialCorrelation:
		return "Serial correlation detected: data may have patterns"
	case MetricChiSquare:
		return "Chi-square test failed: byte distribution is not uniform"
	case MetricMinEntropy:
		return fmt.Sprintf("Min-entropy (%.2f) is below %.1f bits/byte", m.Value, MinEntropyPassBits)
	default:
		return fmt.Sprintf("%s failed", m.Name)
	}
}

// StreamAnalysis is the analysis of a sequence of output chunks, such as
// generator blocks: the aggregate over their concatenation plus the spread
// of per-chunk Shannon entropy.
type StreamAnalysis struct {
	Aggregate       AnalysisResult
	Chunks          int
	MeanEntropy     float64
	LowestEntropy   float64
	HighestEntropy  float64
	EntropyVariance float64
}

// AnalyzeChunks analyzes chunks individually and as one concatenated
// buffer. It fails with an *InsufficientDataError when the concatenation
// is shorter than minBytes.
func AnalyzeChunks(chunks [][]byte, minBytes int) (StreamAnalysis, error) {
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	if total < minBytes {
		return StreamAnalysis{}, insufficient("stream", total, minBytes)
	}

	combined := make([]byte, 0, total)
	entropies := make([]float64, 0, len(chunks))
	for _, c := range chunks {
		combined = append(combined, c...)
		if len(c) > 0 {
			entropies = append(entropies, ShannonEntropy(c))
		}
	}

	s := StreamAnalysis{
		Aggregate: ComprehensiveAnalysis(combined),
		Chunks:    len(chunks),
	}
	if len(entropies) == 0 {
		return s, nil
	}

	s.LowestEntropy, s.HighestEntropy = entropies[0], entropies[0]
	var sum float64
	for _, e := range entropies {
		sum += e
		if e < s.LowestEntropy {
			s.LowestEntropy = e
		}
		if e > s.HighestEntropy {
			s.HighestEntropy = e
		}
	}
	s.MeanEntropy = sum / float64(len(entropies))

	var v float64
	for _, e := range entropies {
		d := e - s.MeanEntropy
		v += d * d
	}
	s.EntropyVariance = v / float64(len(entropies))
	return s, nil
}

// AnalyzeBlocks is AnalyzeChunks over generator blocks.
func AnalyzeBlocks(blocks []Block, minBytes int) (StreamAnalysis, error) {
	chunks := make([][]byte, len(blocks))
	for i := range blocks {
		chunks[i] = blocks[i][:]
	}
	return AnalyzeChunks(chunks, minBytes)
}
