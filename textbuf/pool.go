package textbuf

import (
	"math/bits"
	"sync"
)

// Pool hands out byte slices for Builder storage. Implementations must be
// safe for concurrent use.
type Pool interface {
	// Rent returns a slice with len >= minLen.
	Rent(minLen int) []byte
	// Return gives a slice obtained from Rent back to the pool.
	Return(buf []byte)
}

const (
	minBucketShift = 6  // 64 B
	maxBucketShift = 20 // 1 MiB
	numBuckets     = maxBucketShift - minBucketShift + 1
)

// SharedPool is the process-wide pool used when a Builder is created with a
// nil Pool. Slices are bucketed by power-of-two size; larger requests are
// allocated directly and dropped on return.
var SharedPool Pool = &bucketPool{}

type bucketPool struct {
	buckets [numBuckets]sync.Pool
}

func bucketFor(n int) int {
	if n <= 1<<minBucketShift {
		return 0
	}
	shift := bits.Len(uint(n - 1))
	if shift > maxBucketShift {
		return -1
	}
	return shift - minBucketShift
}

func (p *bucketPool) Rent(minLen int) []byte {
	idx := bucketFor(minLen)
	if idx < 0 {
		return make([]byte, minLen)
	}
	if v := p.buckets[idx].Get(); v != nil {
		return *(v.(*[]byte))
	}
	return make([]byte, 1<<(idx+minBucketShift))
}

func (p *bucketPool) Return(buf []byte) {
	c := cap(buf)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	idx := bucketFor(c)
	if idx < 0 || 1<<(idx+minBucketShift) != c {
		return
	}
	buf = buf[:c]
	p.buckets[idx].Put(&buf)
}
