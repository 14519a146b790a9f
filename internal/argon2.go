package internal

import (
	"golang.org/x/crypto/argon2"
)

// Argon2Config specifies the Argon2id parameters used for seed derivation.
type Argon2Config struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory in KiB
	Threads uint8  // Parallelism factor
}

// DefaultArgon2Config returns the parameters used by DeriveSeed.
// Changing them changes every derived seed.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 1,
	}
}

// DeriveKey stretches a passphrase into a key of keyLen bytes with Argon2id.
func DeriveKey(passphrase, salt []byte, config Argon2Config, keyLen uint32) []byte {
	return argon2.IDKey(passphrase, salt, config.Time, config.Memory, config.Threads, keyLen)
}
