// Package posepool recycles scratch poses. A Pool is owned by one worker and
// is not safe for concurrent use; Set hands out one Pool per thread index.
package posepool

import (
	"fmt"
	"sync"

	"github.com/zeusync/motionmatching/internal/core/skeleton"
)

// Pool keeps released poses for reuse and tracks every pose currently handed out.
type Pool struct {
	free        []*skeleton.Pose
	outstanding map[*skeleton.Pose]struct{}
	allocated   int
}

// New creates an empty pool. Poses are allocated on demand.
func New() *Pool {
	return &Pool{
		outstanding: make(map[*skeleton.Pose]struct{}),
	}
}

// Acquire returns a pose linked to inst and reset to its bind pose.
func (p *Pool) Acquire(inst *skeleton.Instance) *skeleton.Pose {
	var pose *skeleton.Pose
	if n := len(p.free); n > 0 {
		pose = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		pose.LinkToInstance(inst)
	} else {
		pose = skeleton.NewPose(inst)
		p.allocated++
	}
	p.outstanding[pose] = struct{}{}
	return pose
}

// Release hands pose back. Releasing a pose this pool did not hand out, or
// releasing it twice, panics.
func (p *Pool) Release(pose *skeleton.Pose) {
	if _, ok := p.outstanding[pose]; !ok {
		panic(fmt.Sprintf("posepool: release of pose %p not acquired from this pool", pose))
	}
	delete(p.outstanding, pose)
	p.free = append(p.free, pose)
}

// Outstanding is the number of acquired poses not yet released.
func (p *Pool) Outstanding() int { return len(p.outstanding) }

// Free is the number of poses waiting for reuse.
func (p *Pool) Free() int { return len(p.free) }

// Allocated is the number of poses this pool ever created.
func (p *Pool) Allocated() int { return p.allocated }

// Set maps thread indices onto their own Pool.
type Set struct {
	mu    sync.Mutex
	pools map[int]*Pool
}

// NewSet creates an empty set of per-thread pools.
func NewSet() *Set {
	return &Set{pools: make(map[int]*Pool)}
}

// Pool returns the pool for threadIndex, creating it on first use.
func (s *Set) Pool(threadIndex int) *Pool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, ok := s.pools[threadIndex]
	if !ok {
		pool = New()
		s.pools[threadIndex] = pool
	}
	return pool
}

// For returns the pool serving inst.
func (s *Set) For(inst *skeleton.Instance) *Pool {
	return s.Pool(inst.ThreadIndex())
}

// Len is the number of pools created so far.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pools)
}
