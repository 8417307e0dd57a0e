package stats

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/types"
)

// RecorderConfig sizes the background write path.
type RecorderConfig struct {
	Workers      int
	QueueSize    int
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the settings used when nothing is configured.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Workers:      4,
		QueueSize:    1024,
		WriteTimeout: 5 * time.Second,
	}
}

type recordJob struct {
	eventID string
	inc     types.StatsIncrement
}

// Recorder applies match outcomes to the shard store in the background.
// Record never blocks and never reports store failures to its caller.
type Recorder struct {
	store   ShardStore
	router  *Router
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time

	queue chan recordJob
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
	failed  atomic.Int64
}

// NewRecorder starts cfg.Workers goroutines draining a queue of cfg.QueueSize
// pending writes. Call Close to stop them.
func NewRecorder(store ShardStore, router *Router, cfg RecorderConfig, logger *zap.Logger) *Recorder {
	defaults := DefaultRecorderConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Recorder{
		store:   store,
		router:  router,
		logger:  logger.Named("recorder"),
		timeout: cfg.WriteTimeout,
		now:     time.Now,
		queue:   make(chan recordJob, cfg.QueueSize),
	}

	r.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go r.worker()
	}
	return r
}

// Record queues one match outcome. It returns false when the outcome was
// discarded because the queue is full or the recorder is closed.
func (r *Recorder) Record(candidateID string, questionsAnswered int) bool {
	job := recordJob{
		eventID: uuid.NewString(),
		inc: types.StatsIncrement{
			CandidateID:       candidateID,
			QuestionsAnswered: questionsAnswered,
			At:                r.now().UTC(),
		},
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		r.logger.Warn("recorder closed, dropping match result", zap.String("candidate_id", candidateID))
		return false
	}

	select {
	case r.queue <- job:
		return true
	default:
		r.dropped.Add(1)
		r.logger.Warn("recorder queue full, dropping match result",
			zap.String("candidate_id", candidateID),
			zap.Int("queue_size", cap(r.queue)))
		return false
	}
}

// Close stops accepting outcomes and waits for queued writes to finish.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}

// Dropped reports how many outcomes were discarded before reaching the store.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Failed reports how many store writes returned an error.
func (r *Recorder) Failed() int64 {
	return r.failed.Load()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for job := range r.queue {
		r.apply(job)
	}
}

// apply runs on a context of its own so the write outlives the request that
// produced it.
func (r *Recorder) apply(job recordJob) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	key := r.router.WriteShardFor(job.eventID)
	if err := r.store.IncrementShard(ctx, key, job.inc); err != nil {
		r.failed.Add(1)
		r.logger.Warn("failed to record match result",
			zap.String("shard", key),
			zap.String("candidate_id", job.inc.CandidateID),
			zap.Error(err))
		return
	}

	r.logger.Debug("recorded match result",
		zap.String("shard", key),
		zap.String("candidate_id", job.inc.CandidateID))
}
