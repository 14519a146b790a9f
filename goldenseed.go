// Package goldenseed provides a deterministic, position-addressable byte
// stream generator and a statistical engine for auditing byte streams.
//
// The generator expands a 32-byte seed into an unbounded sequence of
// 16-byte blocks using fixed-point golden-ratio constants, rotations and
// XOR fusion. Output is a pure function of (protocol, seed, position), so
// any block can be computed directly and disjoint ranges can be generated
// in parallel. It is NOT a cryptographic generator and must not be used
// for keys, nonces or tokens.
//
// Example usage:
//
//	gen, err := goldenseed.New(goldenseed.Config{
//	    Protocol: goldenseed.GCP1(),
//	    Seed:     goldenseed.ReferenceSeed[:],
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	block, err := gen.NextBlock()
//	...
//	result := goldenseed.ComprehensiveAnalysis(buf)
//	fmt.Println(result.Quality)
package goldenseed

import (
	"fmt"
)

// Config specifies the configuration for a Generator.
type Config struct {
	// Protocol selects the mixing constants. Use GCP1() unless
	// reproducing a stream published under another identifier.
	Protocol Protocol

	// Seed is the raw seed. Must be exactly SeedSize bytes.
	Seed []byte

	// Position is the initial block position. Zero starts at the
	// beginning of the stream.
	Position uint64
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Protocol.Validate(); err != nil {
		return err
	}

	if len(c.Seed) != SeedSize {
		return &ConfigurationError{
			Field: fmt.Sprintf("seed has %d bytes, want %d", len(c.Seed), SeedSize),
			Err:   ErrInvalidSeedLength,
		}
	}

	return nil
}

// New creates a generator positioned at config.Position.
func New(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seed, err := NewSeed(config.Seed)
	if err != nil {
		return nil, err
	}

	g := newGenerator(config.Protocol, seed)
	g.pos = config.Position
	return g, nil
}

// NewWithSeed creates a generator at position zero from an already
// validated seed.
func NewWithSeed(p Protocol, seed Seed) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return newGenerator(p, seed), nil
}
