package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/go-goldenseed"
)

// ErrNilGenerator is returned by New when no generator is supplied.
var ErrNilGenerator = errors.New("monitor: nil generator")

// Report is the persisted outcome of one sample.
type Report struct {
	RunID           uuid.UUID             `json:"run_id"`
	Sequence        uint64                `json:"sequence"`
	Time            time.Time             `json:"time"`
	Protocol        string                `json:"protocol"`
	SeedFingerprint string                `json:"seed_fingerprint"`
	Start           uint64                `json:"start"` // Position of the first sampled block
	Blocks          int                   `json:"blocks"`
	Digest          string                `json:"digest"` // BLAKE2b-256 of the sampled bytes
	Quality         goldenseed.Quality    `json:"quality"`
	PassesAll       bool                  `json:"passes_all"`
	ShannonEntropy  float64               `json:"shannon_entropy"`
	MinEntropyBits  float64               `json:"min_entropy_bits"`
	ChiSquare       float64               `json:"chi_square"`
	Metrics         []goldenseed.Metric   `json:"metrics"`
	Bias            goldenseed.BiasReport `json:"bias"`
	Recommendations []string              `json:"recommendations,omitempty"`
	Degraded        bool                  `json:"degraded"`
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithLogger sets the log entry samples are reported to.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Sampler) { s.log = l }
}

// WithRegistry registers the sampler metrics with reg instead of a
// private registry.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(s *Sampler) { s.registerer = reg }
}

// WithStore persists every report to st.
func WithStore(st *Store) Option {
	return func(s *Sampler) { s.store = st }
}

// Sampler draws consecutive samples from a generator and analyzes them.
// It owns the generator while running.
type Sampler struct {
	cfg        Config
	log        *logrus.Entry
	registerer prometheus.Registerer
	metrics    *Metrics
	store      *Store
	runID      uuid.UUID

	mu  sync.Mutex // Guards gen and seq
	gen *goldenseed.Generator
	seq uint64
}

// New creates a sampler reading from gen.
func New(cfg Config, gen *goldenseed.Generator, opts ...Option) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, ErrNilGenerator
	}

	s := &Sampler{
		cfg:   cfg,
		gen:   gen,
		runID: uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if s.registerer == nil {
		s.registerer = prometheus.NewRegistry()
	}

	m, err := NewMetrics(s.registerer)
	if err != nil {
		return nil, fmt.Errorf("monitor: failed to register metrics: %w", err)
	}
	s.metrics = m

	s.log = s.log.WithFields(logrus.Fields{
		"run_id":   s.runID.String(),
		"protocol": gen.Protocol().ID,
		"seed":     gen.Seed().Fingerprint()[:16],
	})
	return s, nil
}

// RunID identifies this sampler's reports in the store.
func (s *Sampler) RunID() uuid.UUID { return s.runID }

// SampleOnce draws the next SampleBlocks blocks, analyzes them and
// publishes the report to the metrics, the store and the log.
func (s *Sampler) SampleOnce(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	start := s.gen.Position()
	buf, err := s.gen.Bytes(s.cfg.SampleBlocks * goldenseed.BlockSize)
	if err != nil {
		return Report{}, err
	}

	result, err := goldenseed.ComprehensiveAnalysisParallel(ctx, buf, 0)
	if err != nil {
		// Rewind so the next sample covers the same blocks.
		s.gen.Seek(start)
		return Report{}, err
	}

	r := Report{
		RunID:           s.runID,
		Sequence:        s.seq,
		Time:            time.Now().UTC(),
		Protocol:        s.gen.Protocol().ID,
		SeedFingerprint: s.gen.Seed().Fingerprint(),
		Start:           start,
		Blocks:          s.cfg.SampleBlocks,
		Digest:          goldenseed.Digest(buf),
		Quality:         result.Quality(),
		PassesAll:       result.PassesAll(),
		MinEntropyBits:  result.MinEntropy().Bits,
		ChiSquare:       result.ChiSquare().ChiSquare,
		Metrics:         result.Metrics(),
		Bias:            result.Bias(),
		Recommendations: result.Recommendations(),
	}
	if m, ok := result.Metric(goldenseed.MetricShannonEntropy); ok {
		r.ShannonEntropy = m.Value
	}
	r.Degraded = r.Quality < s.cfg.MinQuality || r.Bias.HasBias

	if s.store != nil {
		if err := s.store.Put(r); err != nil {
			s.gen.Seek(start)
			return Report{}, err
		}
	}
	s.seq++
	s.metrics.observe(r, s.gen.Position())

	entry := s.log.WithFields(logrus.Fields{
		"sequence": r.Sequence,
		"position": r.Start,
		"quality":  r.Quality.String(),
		"entropy":  fmt.Sprintf("%.4f", r.ShannonEntropy),
	})
	if r.Degraded {
		entry.WithField("reasons", r.Bias.Reasons).Warn("sample below minimum quality")
	} else {
		entry.Debug("sample analyzed")
	}
	return r, nil
}

// Run samples immediately and then every Interval until ctx is done or a
// sample fails. It returns the context error on cancellation.
func (s *Sampler) Run(ctx context.Context) error {
	s.log.WithFields(logrus.Fields{
		"interval": s.cfg.Interval.String(),
		"blocks":   s.cfg.SampleBlocks,
	}).Info("sampler started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.SampleOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.WithError(err).Error("sampling failed")
			return err
		}

		select {
		case <-ctx.Done():
			s.log.Info("sampler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
