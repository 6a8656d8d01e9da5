package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/model"
)

// Errors wrapped around engine failures
var (
	ErrMetadata       = errors.New("metadata resolution failed")
	ErrEngine         = errors.New("download failed")
	ErrNoOutput       = errors.New("engine reported no output file")
	ErrAlreadyRunning = errors.New("download worker already running")
)

// JobError is a failure of one job stage. Its message is the engine's
// detail only; errors.Is matches both Stage and the cause.
type JobError struct {
	Stage error
	Err   error
}

func (e *JobError) Error() string {
	return e.Err.Error()
}

func (e *JobError) Unwrap() []error {
	return []error{e.Stage, e.Err}
}

// Options configures a Service
type Options struct {
	Catalog   *format.Catalog
	Engine    Engine
	Publisher Publisher
	Logger    zerolog.Logger
}

// Service is the download coordinator: one worker consuming a FIFO queue,
// one job in flight at a time. Job failures become events and never stop
// the worker; only the stop sentinel does.
type Service struct {
	catalog   *format.Catalog
	engine    Engine
	publisher Publisher
	logger    zerolog.Logger
	queue     *Queue

	running atomic.Bool
	done    chan struct{}
}

// NewService creates a coordinator. The worker is not started.
func NewService(opts Options) *Service {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = format.Default()
	}
	return &Service{
		catalog:   catalog,
		engine:    opts.Engine,
		publisher: opts.Publisher,
		logger:    opts.Logger.With().Str("component", "coordinator").Logger(),
		queue:     NewQueue(),
		done:      make(chan struct{}),
	}
}

// Submit enqueues a job and returns immediately
func (s *Service) Submit(url, formatKey string) model.DownloadJob {
	job := model.NewDownloadJob(url, formatKey)
	s.queue.Enqueue(job)
	s.logger.Info().
		Str("job_id", job.ID).
		Str("url", job.URL).
		Str("format", job.FormatKey).
		Int("queued", s.queue.Len()).
		Msg("job queued")
	return job
}

// Pending returns the number of queued entries not yet picked up
func (s *Service) Pending() int {
	return s.queue.Len()
}

// Start runs the worker loop in its own goroutine. The worker is marked
// running before Start returns, so a following Shutdown waits for it.
func (s *Service) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	go func() {
		if err := s.loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error().Err(err).Msg("download worker stopped")
		}
	}()
	return nil
}

// Run is the worker loop. It returns nil once the stop sentinel is
// dequeued and ctx.Err() if ctx ends first.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	return s.loop(ctx)
}

func (s *Service) loop(ctx context.Context) error {
	defer close(s.done)

	s.logger.Info().Msg("download worker started")
	for {
		job, err := s.queue.Dequeue(ctx)
		if errors.Is(err, ErrQueueStopped) {
			s.logger.Info().Msg("download worker stopped")
			return nil
		}
		if err != nil {
			return err
		}
		s.processJob(ctx, job)
	}
}

// Shutdown enqueues the stop sentinel and waits for the worker to drain
// the jobs queued before it.
func (s *Service) Shutdown(ctx context.Context) error {
	s.queue.Stop()
	if !s.running.Load() {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// processJob runs one job to its terminal event
func (s *Service) processJob(ctx context.Context, job model.DownloadJob) {
	logger := s.logger.With().
		Str("job_id", job.ID).
		Str("url", job.URL).
		Str("format", job.FormatKey).
		Logger()
	logger.Info().Msg("job started")

	// Title is cosmetic: a failure is reported and the download still runs
	meta, err := s.resolveMetadata(ctx, job.URL)
	if err != nil {
		logger.Warn().Err(err).Msg("metadata resolution failed")
		s.publish(model.ErrorStatus(job.URL, err))
	} else if meta != nil && meta.Title != "" {
		s.publish(model.TitleResolved{URL: job.URL, Title: meta.Title})
	}

	spec, err := s.catalog.Lookup(job.FormatKey)
	if err != nil {
		logger.Error().Err(err).Msg("job rejected")
		s.publish(model.ErrorStatus(job.URL, err))
		return
	}

	sink := &progressSink{url: job.URL, publish: s.publish, logger: logger}
	res, err := s.execute(ctx, job.URL, spec.Engine, sink.handle)
	sink.close()
	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		s.publish(model.ErrorStatus(job.URL, err))
		return
	}

	path := FinalPath(res.ReportedPath, spec)
	s.publish(model.StatusChanged{URL: job.URL, Message: model.StatusComplete})
	s.publish(model.Finished{URL: job.URL, FilePath: path})
	logger.Info().Str("path", path).Msg("job completed")
}

// resolveMetadata wraps engine failures and panics in ErrMetadata
func (s *Service) resolveMetadata(ctx context.Context, url string) (meta *Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			meta, err = nil, &JobError{Stage: ErrMetadata, Err: fmt.Errorf("engine panic: %v", r)}
		}
	}()

	meta, err = s.engine.ResolveMetadata(ctx, url)
	if err != nil {
		return nil, &JobError{Stage: ErrMetadata, Err: err}
	}
	return meta, nil
}

// execute wraps engine failures and panics in ErrEngine
func (s *Service) execute(ctx context.Context, url string, opts format.EngineOptions, onProgress ProgressFunc) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &JobError{Stage: ErrEngine, Err: fmt.Errorf("engine panic: %v", r)}
		}
	}()

	res, err = s.engine.Execute(ctx, url, opts, onProgress)
	if err != nil {
		return nil, &JobError{Stage: ErrEngine, Err: err}
	}
	if res == nil || strings.TrimSpace(res.ReportedPath) == "" {
		return nil, &JobError{Stage: ErrEngine, Err: ErrNoOutput}
	}
	return res, nil
}

func (s *Service) publish(ev model.JobEvent) {
	if s.publisher != nil {
		s.publisher.Publish(ev)
	}
}

// FinalPath corrects the engine-reported path for formats with an output
// codec: the engine names the pre-transcode container.
func FinalPath(reported string, spec format.Spec) string {
	if !spec.HasOutputCodec() {
		return reported
	}
	return strings.TrimSuffix(reported, filepath.Ext(reported)) + spec.Extension()
}

// progressSink serializes engine callbacks for one job and drops the ones
// arriving after Execute returned, so no progress follows a terminal event.
type progressSink struct {
	mu      sync.Mutex
	closed  bool
	url     string
	publish func(model.JobEvent)
	logger  zerolog.Logger
}

func (p *progressSink) handle(raw RawProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	ev, ok := NormalizeProgress(p.url, raw)
	if !ok {
		if raw.Status == ProgressStatusDownloading {
			p.logger.Debug().Str("percent_text", raw.PercentText).Msg("dropping malformed progress")
		}
		return
	}
	p.publish(ev)
}

func (p *progressSink) close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
