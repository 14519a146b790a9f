package goldenseed

import (
	"errors"
	"testing"
)

// Test basic configuration validation
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "valid reference config",
			config:  Config{Protocol: GCP1(), Seed: ReferenceSeed[:]},
			wantErr: nil,
		},
		{
			name:    "short seed",
			config:  Config{Protocol: GCP1(), Seed: make([]byte, 16)},
			wantErr: ErrInvalidSeedLength,
		},
		{
			name:    "long seed",
			config:  Config{Protocol: GCP1(), Seed: make([]byte, 33)},
			wantErr: ErrInvalidSeedLength,
		},
		{
			name:    "nil seed",
			config:  Config{Protocol: GCP1(), Seed: nil},
			wantErr: ErrInvalidSeedLength,
		},
		{
			name:    "zero protocol",
			config:  Config{Seed: ReferenceSeed[:]},
			wantErr: ErrInvalidProtocol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Validate() error %T should be a *ConfigurationError", err)
				}
			}
		})
	}
}

func TestNew(t *testing.T) {
	gen, err := New(Config{Protocol: GCP1(), Seed: ReferenceSeed[:], Position: 42})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if gen.Position() != 42 {
		t.Errorf("Position() = %d, want 42", gen.Position())
	}
	if gen.Seed() != ReferenceSeed {
		t.Errorf("Seed() = %s, want %s", gen.Seed(), ReferenceSeed)
	}
	if gen.Protocol().ID != ProtocolGCP1 {
		t.Errorf("Protocol() = %s, want %s", gen.Protocol(), ProtocolGCP1)
	}
}

func TestNewInvalidSeedLength(t *testing.T) {
	for _, n := range []int{0, 1, 31, 33, 64} {
		_, err := New(Config{Protocol: GCP1(), Seed: make([]byte, n)})
		if !errors.Is(err, ErrInvalidSeedLength) {
			t.Errorf("New() with %d-byte seed error = %v, want ErrInvalidSeedLength", n, err)
		}
	}
}

func TestNewWithSeedInvalidProtocol(t *testing.T) {
	p := GCP1()
	p.Rounds = 0
	if _, err := NewWithSeed(p, ReferenceSeed); !errors.Is(err, ErrInvalidProtocol) {
		t.Errorf("NewWithSeed() error = %v, want ErrInvalidProtocol", err)
	}
}

// The generator must not alias the caller's seed slice.
func TestNewCopiesSeed(t *testing.T) {
	raw := ReferenceSeed.Bytes()
	gen, err := New(Config{Protocol: GCP1(), Seed: raw})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := gen.PeekBlock(0)

	raw[0] ^= 0xff
	if got := gen.PeekBlock(0); got != want {
		t.Error("mutating the config seed changed generator output")
	}
}
