// Package jobs runs fire-and-forget background work: timestamp stamping,
// request tracking and credential notifications. Jobs are best-effort by
// contract — a crash between enqueue and completion silently drops the
// job, which is acceptable because every job here writes purely
// observational data.
package jobs

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wowlabz/accounts-api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Job is a unit of detached work. Jobs sharing a Key land on the same
// worker and therefore run in enqueue order.
type Job struct {
	Key  string
	Name string
	Fn   func(ctx context.Context) error
}

// Queue is the enqueue-only view handed to request-path code.
type Queue interface {
	Enqueue(job Job)
}

// Dispatcher routes jobs to a fixed set of workers using consistent
// hashing on the job key.
type Dispatcher struct {
	workers []chan Job
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is
// cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its key. Enqueue
// never blocks: when the worker's buffer is full the job is dropped and
// counted, consistent with the best-effort contract.
func (d *Dispatcher) Enqueue(job Job) {
	idx := d.shardIndex(job.Key)
	select {
	case d.workers[idx] <- job:
		metrics.JobsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.BackgroundJobsTotal.WithLabelValues(job.Name, "dropped").Inc()
		d.log.Warn().
			Str("job", job.Name).
			Int("worker_id", idx).
			Msg("worker queue full, dropping job")
	}
}

// shardIndex maps a job key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := job.Fn(ctx); err != nil {
				metrics.BackgroundJobsTotal.WithLabelValues(job.Name, "error").Inc()
				d.log.Error().Err(err).
					Str("job", job.Name).
					Int("worker_id", id).
					Msg("background job failed")
				continue
			}
			metrics.BackgroundJobsTotal.WithLabelValues(job.Name, "ok").Inc()
		}
	}
}
