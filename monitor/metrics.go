package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "goldenseed"

// Metrics holds the Prometheus collectors updated after every sample.
type Metrics struct {
	shannonEntropy prometheus.Gauge
	minEntropy     prometheus.Gauge
	chiSquare      prometheus.Gauge
	quality        prometheus.Gauge
	position       prometheus.Gauge
	positionHigh   prometheus.Gauge
	samples        prometheus.Counter
	degraded       prometheus.Counter
}

// NewMetrics creates the sampler collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		shannonEntropy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shannon_entropy",
			Help:      "Shannon entropy of the last sample in bits per byte.",
		}),
		minEntropy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "min_entropy_bits",
			Help:      "Most-common-value min-entropy of the last sample in bits per byte.",
		}),
		chiSquare: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chi_square",
			Help:      "Chi-square statistic of the last sample's byte histogram.",
		}),
		quality: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "quality",
			Help:      "Quality of the last sample: 0 POOR, 1 FAIR, 2 GOOD, 3 EXCELLENT.",
		}),
		position: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "position",
			Help:      "Block position of the generator after the last sample. Exact below 2^53; use position_high above that.",
		}),
		positionHigh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "position_high",
			Help:      "Block position after the last sample divided by 2^32, exact over the whole position range.",
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Number of samples analyzed.",
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_samples_total",
			Help:      "Number of samples below the minimum quality or with detected bias.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.shannonEntropy, m.minEntropy, m.chiSquare, m.quality,
		m.position, m.positionHigh, m.samples, m.degraded,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(r Report, position uint64) {
	m.shannonEntropy.Set(r.ShannonEntropy)
	m.minEntropy.Set(r.MinEntropyBits)
	m.chiSquare.Set(r.ChiSquare)
	m.quality.Set(float64(r.Quality))
	m.position.Set(float64(position))
	m.positionHigh.Set(float64(position >> 32))
	m.samples.Inc()
	if r.Degraded {
		m.degraded.Inc()
	}
}
