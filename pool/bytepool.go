// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

// Package pool provides fixed-size byte slice pooling for processor I/O
// buffers.
package pool

import "sync"

// BytePool hands out fixed-size byte slices backed by a sync.Pool.
type BytePool struct {
	pool sync.Pool
	size int
}

// NewBytePool creates a pool of slices of the given size.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.pool.New = func() any {
		return make([]byte, size)
	}
	return bp
}

// Size returns the slice size this pool hands out.
func (b *BytePool) Size() int { return b.size }

// GetBuffer returns a buffer from the pool.
func (b *BytePool) GetBuffer() []byte {
	return b.pool.Get().([]byte)
}

// PutBuffer returns a buffer to the pool. Slices of a different size are
// dropped for the GC to collect.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	b.pool.Put(buf[:b.size])
}
