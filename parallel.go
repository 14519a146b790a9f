package goldenseed

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// GenerateRange returns the blocks at positions [start, start+count)
// concatenated, generated sequentially.
func GenerateRange(p Protocol, seed Seed, start, count uint64) ([]byte, error) {
	if err := checkRange(p, start, count); err != nil {
		return nil, err
	}
	out := make([]byte, count*BlockSize)
	fillBlocks(&p, newSeedKey(seed), start, out)
	return out, nil
}

// GenerateParallel returns the same bytes as GenerateRange, splitting the
// range into one contiguous sub-range per worker. Workers share nothing
// but the output slice, into which each writes its own disjoint region.
// A workers value <= 0 uses runtime.NumCPU().
func GenerateParallel(ctx context.Context, p Protocol, seed Seed, start, count uint64, workers int) ([]byte, error) {
	if err := checkRange(p, start, count); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if uint64(workers) > count {
		workers = int(count)
	}

	out := make([]byte, count*BlockSize)
	if count == 0 {
		return out, nil
	}

	k := newSeedKey(seed)
	perWorker := count / uint64(workers)

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := uint64(w) * perWorker
		hi := lo + perWorker
		if w == workers-1 {
			hi = count
		}

		eg.Go(func() error {
			for from := lo; from < hi; from += parallelChunkBlocks {
				if err := ctx.Err(); err != nil {
					return err
				}
				to := from + parallelChunkBlocks
				if to > hi {
					to = hi
				}
				fillBlocks(&p, k, start+from, out[from*BlockSize:to*BlockSize])
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func checkRange(p Protocol, start, count uint64) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if count > math.MaxUint64-start {
		return &RangeError{Op: "range", Position: start, Delta: count}
	}
	if count > math.MaxInt/BlockSize {
		return &RangeError{Op: "range", Position: start, Delta: count}
	}
	return nil
}
