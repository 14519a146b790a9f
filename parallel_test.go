package goldenseed

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
)

func TestGenerateParallelMatchesSequential(t *testing.T) {
	seeds := map[string]Seed{
		"reference": ReferenceSeed,
		"zero":      {},
	}

	for name, seed := range seeds {
		want, err := GenerateRange(GCP1(), seed, 1000, 1037)
		if err != nil {
			t.Fatal(err)
		}
		for _, workers := range []int{0, 1, 2, 3, 7, 16, 5000} {
			got, err := GenerateParallel(context.Background(), GCP1(), seed, 1000, 1037, workers)
			if err != nil {
				t.Fatalf("%s: GenerateParallel(workers=%d) error = %v", name, workers, err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("%s: GenerateParallel(workers=%d) differs from sequential output", name, workers)
			}
		}
	}
}

func TestGenerateParallelEmpty(t *testing.T) {
	out, err := GenerateParallel(context.Background(), GCP1(), ReferenceSeed, 0, 0, 4)
	if err != nil {
		t.Fatalf("GenerateParallel() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}

func TestGenerateParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateParallel(ctx, GCP1(), ReferenceSeed, 0, 1024, 4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GenerateParallel() error = %v, want context.Canceled", err)
	}
}

func TestGenerateRangeOverflow(t *testing.T) {
	_, err := GenerateRange(GCP1(), ReferenceSeed, math.MaxUint64-1, 2)
	if !errors.Is(err, ErrPositionOverflow) {
		t.Errorf("GenerateRange() error = %v, want ErrPositionOverflow", err)
	}

	_, err = GenerateParallel(context.Background(), GCP1(), ReferenceSeed, 0, math.MaxUint64, 2)
	if !errors.Is(err, ErrPositionOverflow) {
		t.Errorf("GenerateParallel() error = %v, want ErrPositionOverflow", err)
	}
}

func TestGenerateRangeTail(t *testing.T) {
	out, err := GenerateRange(GCP1(), ReferenceSeed, math.MaxUint64-1, 1)
	if err != nil {
		t.Fatalf("GenerateRange() error = %v", err)
	}
	want := MixBlock(GCP1(), ReferenceSeed, math.MaxUint64-1)
	if !bytes.Equal(out, want[:]) {
		t.Error("GenerateRange() tail block mismatch")
	}
}

func BenchmarkGenerateParallel(b *testing.B) {
	const count = 1 << 16
	b.SetBytes(count * BlockSize)
	for i := 0; i < b.N; i++ {
		if _, err := GenerateParallel(context.Background(), GCP1(), ReferenceSeed, 0, count, 0); err != nil {
			b.Fatal(err)
		}
	}
}
