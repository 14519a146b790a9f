package goldenseed

import (
	"encoding/binary"
	"math/bits"
)

// seedKey holds the seed as four little-endian words so MixBlock does not
// reparse it on every call.
type seedKey [4]uint64

func newSeedKey(s Seed) seedKey {
	var k seedKey
	for i := range k {
		k[i] = binary.LittleEndian.Uint64(s[i*8 : i*8+8])
	}
	return k
}

// MixBlock returns the block at an absolute position. It is a pure
// function of (protocol, seed, position) using only wrapping integer
// arithmetic, so any position can be computed in constant time.
//
// The protocol is assumed valid; see Protocol.Validate.
func MixBlock(p Protocol, seed Seed, position uint64) Block {
	return mixBlock(&p, newSeedKey(seed), position)
}

func mixBlock(p *Protocol, k seedKey, pos uint64) Block {
	rot := int(p.Rotation)

	// Lane initialization: Weyl step of the counter plus phi^-2 whitening.
	a := k[0] ^ pos*p.Weyl
	b := k[1] ^ bits.RotateLeft64(pos, rot)
	c := k[2] ^ p.Conjugate
	d := k[3] ^ (pos+1)*p.Conjugate

	a0, b0, c0, d0 := a, b, c, d

	for r := 0; r < p.Rounds; r++ {
		rc := p.Weyl * uint64(r+1)

		a += b
		d = bits.RotateLeft64(d^a, rot)
		c += d
		b = bits.RotateLeft64(b^c, 64-rot)
		a += rc
	}

	lanes := [4]uint64{a + a0, b + b0, c + c0, d + d0}

	var out Block
	binary.LittleEndian.PutUint64(out[0:8], fmix64(lanes[p.Fusion[0]]^lanes[p.Fusion[1]]))
	binary.LittleEndian.PutUint64(out[8:16], fmix64(lanes[p.Fusion[2]]^lanes[p.Fusion[3]]))
	return out
}

// fmix64 is the splitmix64 finalizer.
func fmix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
