package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/opd-ai/go-goldenseed"
)

func newTestSampler(t *testing.T, cfg Config, opts ...Option) (*Sampler, *prometheus.Registry, *logtest.Hook) {
	t.Helper()
	gen, err := goldenseed.NewWithSeed(goldenseed.GCP1(), goldenseed.ReferenceSeed)
	assert.NilError(t, err)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	reg := prometheus.NewRegistry()

	opts = append([]Option{WithLogger(logrus.NewEntry(logger)), WithRegistry(reg)}, opts...)
	s, err := New(cfg, gen, opts...)
	assert.NilError(t, err)
	return s, reg, hook
}

func metricValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	assert.NilError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		m := mf.GetMetric()[0]
		if g := m.GetGauge(); g != nil {
			return g.GetValue()
		}
		return m.GetCounter().GetValue()
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestSampleOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleBlocks = 256
	s, reg, hook := newTestSampler(t, cfg)

	r, err := s.SampleOnce(context.Background())
	assert.NilError(t, err)

	assert.Check(t, is.Equal(s.RunID(), r.RunID))
	assert.Check(t, is.Equal(uint64(0), r.Sequence))
	assert.Check(t, is.Equal(uint64(0), r.Start))
	assert.Check(t, is.Equal(256, r.Blocks))
	want, err := goldenseed.GenerateRange(goldenseed.GCP1(), goldenseed.ReferenceSeed, 0, 256)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(goldenseed.Digest(want), r.Digest))
	assert.Check(t, is.Equal(goldenseed.ProtocolGCP1, r.Protocol))
	assert.Check(t, is.Equal(goldenseed.ReferenceSeed.Fingerprint(), r.SeedFingerprint))
	assert.Check(t, is.Equal(goldenseed.QualityExcellent, r.Quality))
	assert.Check(t, r.PassesAll)
	assert.Check(t, !r.Degraded)
	assert.Check(t, is.Len(r.Metrics, 6))
	assert.Check(t, r.ShannonEntropy > 7.9)

	assert.Check(t, is.Equal(1.0, metricValue(t, reg, "goldenseed_samples_total")))
	assert.Check(t, is.Equal(0.0, metricValue(t, reg, "goldenseed_degraded_samples_total")))
	assert.Check(t, is.Equal(256.0, metricValue(t, reg, "goldenseed_position")))
	assert.Check(t, is.Equal(float64(goldenseed.QualityExcellent), metricValue(t, reg, "goldenseed_quality")))
	assert.Check(t, is.Equal(r.ShannonEntropy, metricValue(t, reg, "goldenseed_shannon_entropy")))
	assert.Check(t, is.Equal(r.MinEntropyBits, metricValue(t, reg, "goldenseed_min_entropy_bits")))
	assert.Check(t, is.Equal(r.ChiSquare, metricValue(t, reg, "goldenseed_chi_square")))

	entry := hook.LastEntry()
	assert.Assert(t, entry != nil)
	assert.Check(t, is.Equal(logrus.DebugLevel, entry.Level))
	assert.Check(t, is.Equal("EXCELLENT", entry.Data["quality"]))

	// The next sample continues the stream.
	r, err = s.SampleOnce(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Equal(uint64(1), r.Sequence))
	assert.Check(t, is.Equal(uint64(256), r.Start))
	assert.Check(t, is.Equal(2.0, metricValue(t, reg, "goldenseed_samples_total")))
}

// 64 blocks are below the chi-square minimum, which caps quality at GOOD.
func TestSampleOnceDegraded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleBlocks = 64
	cfg.MinQuality = goldenseed.QualityExcellent
	s, reg, hook := newTestSampler(t, cfg)

	r, err := s.SampleOnce(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Equal(goldenseed.QualityGood, r.Quality))
	assert.Check(t, r.Degraded)
	assert.Check(t, is.Len(r.Recommendations, 1))
	assert.Check(t, is.Equal(1.0, metricValue(t, reg, "goldenseed_degraded_samples_total")))

	entry := hook.LastEntry()
	assert.Assert(t, entry != nil)
	assert.Check(t, is.Equal(logrus.WarnLevel, entry.Level))
}

func TestSampleOnceStore(t *testing.T) {
	st := openTestStore(t)
	cfg := DefaultConfig()
	cfg.SampleBlocks = 160
	s, _, _ := newTestSampler(t, cfg, WithStore(st))

	for i := 0; i < 3; i++ {
		_, err := s.SampleOnce(context.Background())
		assert.NilError(t, err)
	}

	reports, err := st.List(s.RunID())
	assert.NilError(t, err)
	assert.Assert(t, is.Len(reports, 3))
	for i, r := range reports {
		assert.Check(t, is.Equal(uint64(i), r.Sequence))
		assert.Check(t, is.Equal(uint64(i*160), r.Start))
	}
}

func TestSampleOnceCanceled(t *testing.T) {
	s, _, _ := newTestSampler(t, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.SampleOnce(ctx)
	assert.Check(t, is.ErrorIs(err, context.Canceled))
}

func TestRun(t *testing.T) {
	st := openTestStore(t)
	cfg := DefaultConfig()
	cfg.SampleBlocks = 16
	cfg.Interval = 10 * time.Millisecond
	cfg.MinQuality = goldenseed.QualityPoor
	s, reg, _ := newTestSampler(t, cfg, WithStore(st))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.Check(t, is.ErrorIs(err, context.DeadlineExceeded))

	reports, err := st.List(s.RunID())
	assert.NilError(t, err)
	assert.Assert(t, len(reports) >= 1)
	assert.Check(t, is.Equal(float64(len(reports)), metricValue(t, reg, "goldenseed_samples_total")))
}

func TestNewErrors(t *testing.T) {
	gen, err := goldenseed.NewWithSeed(goldenseed.GCP1(), goldenseed.ReferenceSeed)
	assert.NilError(t, err)

	_, err = New(Config{}, gen)
	assert.Check(t, is.ErrorContains(err, "interval must be positive"))

	_, err = New(DefaultConfig(), nil)
	assert.Check(t, is.ErrorIs(err, ErrNilGenerator))

	reg := prometheus.NewRegistry()
	_, err = New(DefaultConfig(), gen, WithRegistry(reg))
	assert.NilError(t, err)
	_, err = New(DefaultConfig(), gen, WithRegistry(reg))
	assert.Check(t, is.ErrorContains(err, "failed to register metrics"))
}
