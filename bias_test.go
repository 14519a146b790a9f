package goldenseed

import (
	"bytes"
	"testing"
)

func TestValidateBias(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		wantBias bool
		reasons  []string
	}{
		{
			name:     "empty",
			buf:      nil,
			wantBias: true,
			reasons:  []string{ReasonEmptyData},
		},
		{
			name:     "all zeros",
			buf:      make([]byte, 64),
			wantBias: true,
			reasons: []string{
				ReasonLeadingZeros, ReasonTrailingZeros, ReasonRepeatedPattern,
				ReasonLowDiversity, ReasonLongRun, ReasonAllZeros,
			},
		},
		{
			name:     "all ones",
			buf:      bytes.Repeat([]byte{0xff}, 32),
			wantBias: true,
			reasons:  []string{ReasonRepeatedPattern, ReasonLowDiversity, ReasonLongRun, ReasonAllOnes},
		},
		{
			name:     "leading zeros only",
			buf:      append([]byte{0, 0, 0, 0}, cyclicBytes(1)[1:]...),
			wantBias: true,
			reasons:  []string{ReasonLeadingZeros},
		},
		{
			name:     "cyclic",
			buf:      cyclicBytes(2),
			wantBias: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateBias(tt.buf)
			if r.HasBias != tt.wantBias {
				t.Errorf("HasBias = %v, want %v (reasons %v)", r.HasBias, tt.wantBias, r.Reasons)
			}
			if len(r.Reasons) != len(tt.reasons) {
				t.Fatalf("Reasons = %v, want %v", r.Reasons, tt.reasons)
			}
			for i, reason := range tt.reasons {
				if r.Reasons[i] != reason {
					t.Errorf("Reasons[%d] = %s, want %s", i, r.Reasons[i], reason)
				}
			}
		})
	}
}

func TestValidateBiasMetrics(t *testing.T) {
	r := ValidateBias(make([]byte, 64))
	if r.Distinct != 1 || r.LongestRun != 64 {
		t.Errorf("Distinct = %d, LongestRun = %d", r.Distinct, r.LongestRun)
	}
	if want := 1.0 / 64; r.Diversity != want {
		t.Errorf("Diversity = %v, want %v", r.Diversity, want)
	}
	if !r.HasReason(ReasonAllZeros) || r.HasReason(ReasonAllOnes) {
		t.Errorf("HasReason mismatch: %v", r.Reasons)
	}
}

func TestValidateBiasReferenceStream(t *testing.T) {
	for _, blocks := range []uint64{4, 64, 1024} {
		r := ValidateBias(referenceStream(t, blocks))
		if r.HasBias {
			t.Errorf("%d blocks: unexpected bias %v", blocks, r.Reasons)
		}
	}
}

func TestBiasThresholdsCustom(t *testing.T) {
	buf := append(cyclicBytes(1), bytes.Repeat([]byte{0x33}, 6)...)

	if r := ValidateBias(buf); r.HasReason(ReasonLongRun) {
		t.Errorf("default thresholds flagged a 6-byte run: %v", r.Reasons)
	}

	strict := DefaultBiasThresholds()
	strict.MaxRun = 6
	if r := strict.Validate(buf); !r.HasReason(ReasonLongRun) {
		t.Errorf("MaxRun = 6 should flag a 6-byte run: %v", r.Reasons)
	}
}
