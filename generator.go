package goldenseed

import (
	"io"
	"math"
)

// Generator is a seekable stream over MixBlock output. It tracks a block
// position counter and is owned by a single goroutine; concurrent use
// requires external synchronization.
type Generator struct {
	protocol Protocol
	seed     Seed
	key      seedKey
	pos      uint64 // Position of the next block

	// Read buffer: the unread tail of the last block handed to Read.
	buf  Block
	bufN int
}

func newGenerator(p Protocol, seed Seed) *Generator {
	return &Generator{
		protocol: p,
		seed:     seed,
		key:      newSeedKey(seed),
	}
}

// Protocol returns the protocol the generator was created with.
func (g *Generator) Protocol() Protocol { return g.protocol }

// Seed returns the generator seed.
func (g *Generator) Seed() Seed { return g.seed }

// Position returns the position of the block NextBlock will return.
func (g *Generator) Position() uint64 { return g.pos }

// NextBlock returns the block at the current position and advances the
// position by one. At math.MaxUint64 the counter cannot advance and
// ErrPositionOverflow is returned; that block is still reachable through
// PeekBlock.
func (g *Generator) NextBlock() (Block, error) {
	if g.pos == math.MaxUint64 {
		return Block{}, &RangeError{Op: "next", Position: g.pos, Delta: 1}
	}
	g.bufN = 0
	b := mixBlock(&g.protocol, g.key, g.pos)
	g.pos++
	return b, nil
}

// Skip advances the position by n blocks without generating them. The
// state is unchanged if the counter would overflow.
func (g *Generator) Skip(n uint64) error {
	if n > math.MaxUint64-g.pos {
		return &RangeError{Op: "skip", Position: g.pos, Delta: n}
	}
	g.bufN = 0
	g.pos += n
	return nil
}

// Seek moves the generator to an absolute block position.
func (g *Generator) Seek(position uint64) {
	g.bufN = 0
	g.pos = position
}

// PeekBlock returns the block at an absolute position without changing
// the generator state.
func (g *Generator) PeekBlock(index uint64) Block {
	return mixBlock(&g.protocol, g.key, index)
}

// Read fills p with stream bytes. Bytes of a partially consumed block are
// kept for the next Read; NextBlock, Skip and Seek discard them. Read
// returns io.EOF once the final block at math.MaxUint64-1 is exhausted.
func (g *Generator) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if g.bufN == 0 {
			if g.pos == math.MaxUint64 {
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
			g.buf = mixBlock(&g.protocol, g.key, g.pos)
			g.pos++
			g.bufN = BlockSize
		}
		c := copy(p[n:], g.buf[BlockSize-g.bufN:])
		g.bufN -= c
		n += c
	}
	return n, nil
}

// Bytes returns the next n stream bytes, generating ceil(n/BlockSize)
// blocks. Unused bytes of the final block are discarded.
func (g *Generator) Bytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	count := uint64((n + BlockSize - 1) / BlockSize)
	if count > math.MaxUint64-g.pos {
		return nil, &RangeError{Op: "bytes", Position: g.pos, Delta: count}
	}

	out := make([]byte, count*BlockSize)
	fillBlocks(&g.protocol, g.key, g.pos, out)
	g.bufN = 0
	g.pos += count
	return out[:n], nil
}

// WriteBlocks writes count raw blocks to w with no framing, for consumers
// such as external statistical suites reading from a file or pipe. The
// position advances only by the blocks that were fully written.
func (g *Generator) WriteBlocks(w io.Writer, count uint64) (int64, error) {
	if count > math.MaxUint64-g.pos {
		return 0, &RangeError{Op: "write", Position: g.pos, Delta: count}
	}
	g.bufN = 0

	chunk := getWriteBuffer()
	defer putWriteBuffer(chunk)

	var written int64
	for count > 0 {
		blocks := uint64(len(chunk) / BlockSize)
		if blocks > count {
			blocks = count
		}
		out := chunk[:blocks*BlockSize]
		fillBlocks(&g.protocol, g.key, g.pos, out)

		n, err := w.Write(out)
		written += int64(n)
		g.pos += uint64(n / BlockSize)
		if err != nil {
			return written, err
		}
		if n < len(out) {
			return written, io.ErrShortWrite
		}
		count -= blocks
	}
	return written, nil
}

// fillBlocks writes consecutive blocks starting at start into dst, whose
// length must be a multiple of BlockSize.
func fillBlocks(p *Protocol, k seedKey, start uint64, dst []byte) {
	for off := 0; off+BlockSize <= len(dst); off += BlockSize {
		b := mixBlock(p, k, start)
		copy(dst[off:off+BlockSize], b[:])
		start++
	}
}
