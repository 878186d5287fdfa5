// Package features drives the joint velocity channel over a set of motion
// samples, producing the per-frame pose data a motion matching database is
// built from.
package features

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/motionmatching/internal/core/motion"
	"github.com/zeusync/motionmatching/internal/core/observability/log"
	"github.com/zeusync/motionmatching/internal/core/posedata"
	"github.com/zeusync/motionmatching/internal/core/posepool"
	"github.com/zeusync/motionmatching/internal/core/skeleton"
)

// ErrInvalidJob is returned for jobs without a motion or with an out of
// range reference joint.
var ErrInvalidJob = errors.New("invalid extraction job")

// Job asks for velocity snapshots of one motion instance at Times.
// RelativeTo is the reference joint; skeleton.InvalidIndex selects the
// skeleton's motion extraction joint.
type Job struct {
	Motion     *motion.Instance
	Times      []float64
	RelativeTo int
}

// Frame is one extracted sample.
type Frame struct {
	ClipID   uuid.UUID
	ClipName string
	Time     float64
	Snapshot *posedata.Snapshot
}

// VelocityExtractor fills velocity snapshots for batches of motions.
type VelocityExtractor struct {
	logger   log.Log
	pools    *posepool.Set
	sampling posedata.Sampling
	workers  int
}

// NewVelocityExtractor creates an extractor running at most workers thread
// groups at once.
func NewVelocityExtractor(logger log.Log, pools *posepool.Set, sampling posedata.Sampling, workers int) *VelocityExtractor {
	if workers < 1 {
		workers = 1
	}
	return &VelocityExtractor{
		logger:   logger.Named("features"),
		pools:    pools,
		sampling: sampling,
		workers:  workers,
	}
}

// Extract computes one snapshot per requested time. Jobs whose skeleton
// instances share a thread index run sequentially on that thread's pool;
// distinct thread indices run in parallel. The result is indexed like jobs.
func (e *VelocityExtractor) Extract(ctx context.Context, jobs []Job) ([][]Frame, error) {
	groups := make(map[int][]int)
	for i, job := range jobs {
		if job.Motion == nil {
			return nil, fmt.Errorf("%w: job %d has no motion", ErrInvalidJob, i)
		}
		thread := job.Motion.SkeletonInstance().ThreadIndex()
		groups[thread] = append(groups[thread], i)
	}

	threads := make([]int, 0, len(groups))
	for thread := range groups {
		threads = append(threads, thread)
	}
	sort.Ints(threads)

	results := make([][]Frame, len(jobs))
	started := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, thread := range threads {
		indices := groups[thread]
		pool := e.pools.Pool(thread)
		g.Go(func() error {
			for _, i := range indices {
				frames, err := e.extractJob(ctx, pool, jobs[i])
				if err != nil {
					return fmt.Errorf("job %d: %w", i, err)
				}
				results[i] = frames
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Warn("velocity extraction aborted", log.Error(err))
		return nil, err
	}

	e.logger.Info("velocity extraction finished",
		log.Int("jobs", len(jobs)),
		log.Int("threads", len(threads)),
		log.Duration("took", time.Since(started)),
	)
	return results, nil
}

func (e *VelocityExtractor) extractJob(ctx context.Context, pool *posepool.Pool, job Job) ([]Frame, error) {
	inst := job.Motion
	actor := inst.SkeletonInstance()
	m := inst.Motion()

	relativeTo := job.RelativeTo
	if relativeTo == skeleton.InvalidIndex {
		relativeTo = actor.MotionExtractionJointIndex()
	}
	if relativeTo >= actor.NumJoints() || relativeTo < skeleton.InvalidIndex {
		return nil, fmt.Errorf("%w: relative-to joint %d out of range", ErrInvalidJob, relativeTo)
	}

	originalTime := inst.CurrentTime()
	defer inst.SetCurrentTime(originalTime)

	frames := make([]Frame, 0, len(job.Times))
	for _, t := range job.Times {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		inst.SetCurrentTime(t)
		snap := posedata.NewSnapshot(actor, posedata.ChannelJointVelocities)
		inst.Evaluate(snap.Pose())

		velocities := snap.Velocities()
		velocities.ComputeVelocitiesWith(e.sampling, inst, pool, relativeTo)
		velocities.SetUsed(true)

		frames = append(frames, Frame{
			ClipID:   motion.ClipID(m),
			ClipName: m.Name(),
			Time:     t,
			Snapshot: snap,
		})
	}

	e.logger.Debug("extracted motion velocities",
		log.String("motion", m.Name()),
		log.Int("frames", len(frames)),
		log.Int("relative_to", relativeTo),
	)
	return frames, nil
}

// UniformTimes returns sample times from 0 to duration inclusive, spaced by step.
func UniformTimes(duration, step float64) []float64 {
	if duration < 0 || step <= 0 {
		return nil
	}
	n := int(duration/step) + 1
	times := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		times = append(times, float64(i)*step)
	}
	if last := times[len(times)-1]; duration-last > step*1e-6 {
		times = append(times, duration)
	}
	return times
}
