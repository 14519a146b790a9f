package goldenseed

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// TestVector is one published known-answer block: the expected output at
// Position for Seed under Protocol. Any implementation claiming the
// protocol must reproduce it byte for byte.
type TestVector struct {
	Name     string `json:"name"`
	Protocol string `json:"protocol"`
	Seed     string `json:"seed"`     // 64 hex characters
	Position uint64 `json:"position"` // Block position
	Expected string `json:"expected"` // Hex-encoded 16-byte block
}

// TestVectorSuite contains versioned test vectors with metadata about
// their source.
type TestVectorSuite struct {
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Vectors     []TestVector `json:"vectors"`
}

// LoadTestVectors loads test vectors from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadTestVectors(path string) (*TestVectorSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("goldenseed: failed to read test vectors: %w", err)
	}

	var suite TestVectorSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("goldenseed: failed to parse test vectors: %w", err)
	}

	return &suite, nil
}

// GenerateTestVectors computes vectors for the given positions, suitable
// for publishing with a new protocol identifier.
func GenerateTestVectors(p Protocol, seed Seed, positions []uint64) (*TestVectorSuite, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	suite := &TestVectorSuite{
		Version:     p.ID,
		Description: fmt.Sprintf("%s known-answer blocks for seed %s", p.ID, seed.Fingerprint()[:16]),
	}
	k := newSeedKey(seed)
	for _, pos := range positions {
		b := mixBlock(&p, k, pos)
		suite.Vectors = append(suite.Vectors, TestVector{
			Name:     fmt.Sprintf("block_%d", pos),
			Protocol: p.ID,
			Seed:     seed.String(),
			Position: pos,
			Expected: b.String(),
		})
	}
	return suite, nil
}

// GetSeed returns the decoded seed of the vector.
func (tv *TestVector) GetSeed() (Seed, error) {
	return ParseSeed(tv.Seed)
}

// GetExpected returns the decoded expected block.
func (tv *TestVector) GetExpected() (Block, error) {
	raw, err := hex.DecodeString(tv.Expected)
	if err != nil {
		return Block{}, fmt.Errorf("goldenseed: invalid expected block: %w", err)
	}
	if len(raw) != BlockSize {
		return Block{}, fmt.Errorf("goldenseed: expected block must be %d bytes, got %d", BlockSize, len(raw))
	}
	var b Block
	copy(b[:], raw)
	return b, nil
}

// Verify recomputes the vector and compares it exactly with Expected.
func (tv *TestVector) Verify() error {
	p, err := LookupProtocol(tv.Protocol)
	if err != nil {
		return err
	}
	seed, err := tv.GetSeed()
	if err != nil {
		return err
	}
	want, err := tv.GetExpected()
	if err != nil {
		return err
	}

	got := MixBlock(p, seed, tv.Position)
	if !bytes.Equal(got[:], want[:]) {
		return fmt.Errorf("goldenseed: vector %q: block %d = %s, want %s", tv.Name, tv.Position, got, want)
	}
	return nil
}

// Verify checks every vector and returns the first mismatch.
func (s *TestVectorSuite) Verify() error {
	if len(s.Vectors) == 0 {
		return fmt.Errorf("goldenseed: test vector suite %q is empty", s.Version)
	}
	for i := range s.Vectors {
		if err := s.Vectors[i].Verify(); err != nil {
			return err
		}
	}
	return nil
}
