package goldenseed

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Histogram counts byte values in a fixed 256-slot array indexed by value.
// Summation over it always runs in index order, so derived floating-point
// statistics are reproducible for identical input regardless of how the
// counts were accumulated.
type Histogram [256]uint64

// NewHistogram returns the byte histogram of buf.
func NewHistogram(buf []byte) Histogram {
	var h Histogram
	h.Add(buf)
	return h
}

// Add counts the bytes of buf.
func (h *Histogram) Add(buf []byte) {
	for _, b := range buf {
		h[b]++
	}
}

// Merge adds the counts of other.
func (h *Histogram) Merge(other *Histogram) {
	for i := range h {
		h[i] += other[i]
	}
}

// Total returns the number of bytes counted.
func (h *Histogram) Total() uint64 {
	var n uint64
	for _, c := range h {
		n += c
	}
	return n
}

// Max returns the most frequent byte value and its count. Ties resolve to
// the lowest byte value.
func (h *Histogram) Max() (value byte, count uint64) {
	for i, c := range h {
		if c > count {
			value, count = byte(i), c
		}
	}
	return value, count
}

// Distinct returns the number of byte values with a non-zero count.
func (h *Histogram) Distinct() int {
	n := 0
	for _, c := range h {
		if c != 0 {
			n++
		}
	}
	return n
}

// HistogramParallel counts buf in shards on separate goroutines and sums
// the per-shard counts. The result equals NewHistogram(buf).
// A shards value <= 0 uses runtime.NumCPU().
func HistogramParallel(ctx context.Context, buf []byte, shards int) (Histogram, error) {
	if shards <= 0 {
		shards = runtime.NumCPU()
	}
	if shards > len(buf) {
		shards = len(buf)
	}
	if shards <= 1 {
		return NewHistogram(buf), nil
	}

	partial := make([]Histogram, shards)
	size := len(buf) / shards

	eg, ctx := errgroup.WithContext(ctx)
	for s := 0; s < shards; s++ {
		s := s // per-iteration copy (go.mod targets go1.21 loop semantics)
		lo := s * size
		hi := lo + size
		if s == shards-1 {
			hi = len(buf)
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial[s].Add(buf[lo:hi])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Histogram{}, err
	}

	var h Histogram
	for i := range partial {
		h.Merge(&partial[i])
	}
	return h, nil
}
