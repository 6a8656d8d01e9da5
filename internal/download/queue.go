package download

import (
	"context"
	"errors"
	"sync"

	"github.com/ytget/ytdown/internal/model"
)

// ErrQueueStopped is returned by Dequeue once the stop sentinel is reached.
var ErrQueueStopped = errors.New("job queue stopped")

type queueEntry struct {
	job  model.DownloadJob
	stop bool
}

// Queue is an unbounded FIFO of download jobs with a blocking Dequeue.
// Enqueue never blocks and never fails.
type Queue struct {
	mu      sync.Mutex
	entries []queueEntry
	ready   chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Enqueue appends a job in submission order
func (q *Queue) Enqueue(job model.DownloadJob) {
	q.push(queueEntry{job: job})
}

// Stop appends the stop sentinel. Jobs enqueued before it are still
// delivered; the consumer terminates when it dequeues the sentinel.
func (q *Queue) Stop() {
	q.push(queueEntry{stop: true})
}

func (q *Queue) push(e queueEntry) {
	q.mu.Lock()
	q.entries = append(q.entries, e)
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Dequeue blocks until a job is available, the sentinel is reached
// (ErrQueueStopped) or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (model.DownloadJob, error) {
	for {
		q.mu.Lock()
		if len(q.entries) > 0 {
			e := q.entries[0]
			q.entries[0] = queueEntry{}
			q.entries = q.entries[1:]
			remaining := len(q.entries)
			q.mu.Unlock()

			if remaining > 0 {
				q.signal()
			}
			if e.stop {
				return model.DownloadJob{}, ErrQueueStopped
			}
			return e.job, nil
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return model.DownloadJob{}, ctx.Err()
		}
	}
}

// Len returns the number of entries waiting, sentinel included
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
