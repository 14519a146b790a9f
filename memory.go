package goldenseed

import (
	"sync"
)

const (
	// writeBufferBlocks is the number of blocks staged per Write call.
	writeBufferBlocks = 4096

	// parallelChunkBlocks bounds the work a parallel worker does between
	// context checks.
	parallelChunkBlocks = 1 << 16
)

// Global pool for staging buffers used by WriteBlocks.
var writeBufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, writeBufferBlocks*BlockSize)
		return &b
	},
}

// getWriteBuffer acquires a staging buffer from the pool.
func getWriteBuffer() []byte {
	return *writeBufferPool.Get().(*[]byte)
}

// putWriteBuffer returns a staging buffer to the pool.
func putWriteBuffer(b []byte) {
	if cap(b) != writeBufferBlocks*BlockSize {
		return
	}
	b = b[:cap(b)]
	writeBufferPool.Put(&b)
}
