package goldenseed

import (
	"fmt"
)

// ProtocolGCP1 is the identifier of the first published mixing protocol.
const ProtocolGCP1 = "GCP-1"

// Protocol binds one exact set of mixing constants to a versioned
// identifier. Output is reproducible only for a fixed (ID, seed, position)
// triple; any change to a field below requires a new ID.
type Protocol struct {
	// ID is the versioned protocol label, e.g. "GCP-1".
	ID string

	// Weyl is the odd fixed-point golden-ratio increment applied to the
	// position counter and used to derive round constants.
	Weyl uint64

	// Conjugate is the fixed-point phi^-2 constant used to whiten lanes.
	Conjugate uint64

	// Rotation is the primary rotation width in bits (1..63). The
	// complementary rotation is 64-Rotation.
	Rotation uint

	// Rounds is the number of mixing rounds per block.
	Rounds int

	// Fusion is the lane order for the two XOR fusion steps:
	// out0 = lane[Fusion[0]] ^ lane[Fusion[1]],
	// out1 = lane[Fusion[2]] ^ lane[Fusion[3]].
	Fusion [4]uint8
}

// GCP1 returns the GCP-1 protocol.
//
//	Weyl      = floor(frac(phi)  * 2^64) = 0x9e3779b97f4a7c15
//	Conjugate = floor(phi^-2     * 2^64) = 0x61c8864680b583ea
func GCP1() Protocol {
	return Protocol{
		ID:        ProtocolGCP1,
		Weyl:      0x9e3779b97f4a7c15,
		Conjugate: 0x61c8864680b583ea,
		Rotation:  27,
		Rounds:    6,
		Fusion:    [4]uint8{2, 0, 3, 1},
	}
}

// LookupProtocol returns the registered protocol with the given identifier.
func LookupProtocol(id string) (Protocol, error) {
	switch id {
	case ProtocolGCP1:
		return GCP1(), nil
	default:
		return Protocol{}, &ConfigurationError{
			Field: fmt.Sprintf("unknown protocol %q", id),
			Err:   ErrInvalidProtocol,
		}
	}
}

// Protocols lists the identifiers accepted by LookupProtocol.
func Protocols() []string {
	return []string{ProtocolGCP1}
}

// Validate checks that the protocol constants describe a usable mixer.
func (p Protocol) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return &ConfigurationError{Field: fmt.Sprintf(format, args...), Err: ErrInvalidProtocol}
	}

	if p.ID == "" {
		return fail("protocol id must not be empty")
	}
	if p.Weyl&1 == 0 {
		return fail("weyl constant %#x must be odd", p.Weyl)
	}
	if p.Conjugate == 0 {
		return fail("conjugate constant must not be zero")
	}
	if p.Rotation == 0 || p.Rotation >= 64 {
		return fail("rotation %d out of range [1,63]", p.Rotation)
	}
	if p.Rounds <= 0 {
		return fail("rounds %d must be positive", p.Rounds)
	}

	var seen [4]bool
	for _, lane := range p.Fusion {
		if lane > 3 || seen[lane] {
			return fail("fusion order %v is not a permutation of 0..3", p.Fusion)
		}
		seen[lane] = true
	}

	return nil
}

// String returns the protocol identifier.
func (p Protocol) String() string {
	return p.ID
}
