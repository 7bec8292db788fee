package spectrogram

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Progress is sent once per executed task. Done counts tasks finished so far
// across all workers.
type Progress struct {
	Worker int
	Row    int
	Done   int
	Total  int
}

type WorkerStats struct {
	Worker   int
	Claimed  int
	LocalMax float64
}

// Result describes a finished run. GlobalMax and a fully written Grid are only
// valid when the run was not aborted.
type Result struct {
	GlobalMax float64
	Grid      *Grid
	Tasks     int
	Done      int
	Workers   []WorkerStats
	Aborted   bool
	Elapsed   time.Duration
}

type Option func(*Pool)

func WithLogger(l logrus.FieldLogger) Option { return func(p *Pool) { p.log = l } }

// WithProgress installs a per-task callback. It is called from worker
// goroutines concurrently and must not block.
func WithProgress(f func(Progress)) Option { return func(p *Pool) { p.onProgress = f } }

// WithComplete installs a callback fired once per successful run after the
// global maximum is known. It must not call back into the Pool.
func WithComplete(f func(Result)) Option { return func(p *Pool) { p.onComplete = f } }

// run is the state shared by all workers for one pass over a task list.
type run struct {
	samples *SampleBuffer
	tasks   *TaskList
	grid    *Grid
	total   int

	stop  atomic.Bool
	done  atomic.Int64
	group errgroup.Group

	onProgress func(Progress)
	started    time.Time

	finished chan struct{}
	result   Result
	err      error
}

func (r *run) progress(worker, row int) {
	n := int(r.done.Add(1))
	if r.onProgress != nil {
		r.onProgress(Progress{Worker: worker, Row: row, Done: n, Total: r.total})
	}
	if n == r.total {
		// Every task is accounted for; let the others quit scanning.
		r.stop.Store(true)
	}
}

func (r *run) active() bool {
	select {
	case <-r.finished:
		return false
	default:
		return true
	}
}

// Pool owns a fixed set of workers reused across runs.
type Pool struct {
	cfg        Config
	log        logrus.FieldLogger
	onProgress func(Progress)
	onComplete func(Result)
	workers    []*Worker

	mu           sync.Mutex
	samples      *SampleBuffer
	windowLength int
	step         int
	taskCount    int
	grid         *Grid
	gridUsed     bool
	cur          *run
}

func NewPool(cfg Config, opts ...Option) (*Pool, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pool{cfg: cfg, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(p)
	}
	p.workers = make([]*Worker, cfg.Workers)
	for i := range p.workers {
		p.workers[i] = newWorker(i, cfg, p.log)
	}
	return p, nil
}

func (p *Pool) Config() Config { return p.cfg }

func (p *Pool) Workers() []*Worker { return append([]*Worker(nil), p.workers...) }

// Configure validates the run parameters and lays out tasks and the output
// grid. It returns the number of tasks. Nothing changes on error.
func (p *Pool) Configure(sb *SampleBuffer, windowLength int, stride float64) (int, error) {
	if !IsPow2(windowLength) {
		return 0, fmt.Errorf("%w: %d", ErrWindowLength, windowLength)
	}
	if sb.Len() == 0 {
		return 0, ErrEmptyBuffer
	}
	step := TaskStep(windowLength, stride)
	if stride <= 0 || step < 1 {
		return 0, fmt.Errorf("%w: %g", ErrStride, stride)
	}
	count := TaskCount(sb.Len(), windowLength, stride)
	if count == 0 {
		return 0, fmt.Errorf("%w: %d samples, window %d", ErrNoTasks, sb.Len(), windowLength)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur != nil && p.cur.active() {
		return 0, ErrRunning
	}
	p.samples, p.windowLength, p.step, p.taskCount = sb, windowLength, step, count
	p.grid, p.gridUsed = NewGrid(windowLength, count), false
	p.log.WithFields(logrus.Fields{
		"samples": sb.Len(),
		"window":  windowLength,
		"step":    step,
		"tasks":   count,
	}).Debug("configured")
	return count, nil
}

// Start launches every worker on a fresh task list.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur != nil && p.cur.active() {
		return ErrRunning
	}
	if p.samples == nil {
		return ErrNotConfigured
	}
	for _, w := range p.workers {
		if err := w.reset(p.windowLength); err != nil {
			return err
		}
	}
	if p.gridUsed {
		p.grid = NewGrid(p.windowLength, p.taskCount)
	}
	p.gridUsed = true

	r := &run{
		samples:    p.samples,
		tasks:      NewTaskList(p.taskCount, p.windowLength, p.step),
		grid:       p.grid,
		total:      p.taskCount,
		onProgress: p.onProgress,
		started:    time.Now(),
		finished:   make(chan struct{}),
	}
	for _, w := range p.workers {
		if err := w.start(r); err != nil {
			// Workers already launched see the stop flag on their next task.
			r.stop.Store(true)
			r.group.Wait()
			close(r.finished)
			return err
		}
	}
	p.cur = r
	p.log.WithFields(logrus.Fields{"tasks": r.total, "workers": len(p.workers)}).Info("run started")
	go p.supervise(r)
	return nil
}

// supervise joins the workers of r and, if every task completed, reduces the
// per-worker maxima.
func (p *Pool) supervise(r *run) {
	defer close(r.finished)
	err := r.group.Wait()

	res := Result{Grid: r.grid, Tasks: r.total, Elapsed: time.Since(r.started)}
	maxima := make([]float64, len(p.workers))
	for i, w := range p.workers {
		res.Workers = append(res.Workers, WorkerStats{Worker: w.ID(), Claimed: w.Claimed(), LocalMax: w.LocalMax()})
		maxima[i] = w.LocalMax()
	}
	done := int(r.done.Load())
	res.Done = done
	r.tasks = nil

	switch {
	case err != nil:
		r.err = err
		p.log.WithError(err).WithField("done", done).Error("run failed")
	case done < r.total:
		res.Aborted = true
		p.log.WithFields(logrus.Fields{"done": done, "tasks": r.total}).Info("run aborted")
	default:
		res.GlobalMax = floats.Max(maxima)
		p.log.WithFields(logrus.Fields{
			"tasks":   r.total,
			"max":     res.GlobalMax,
			"elapsed": res.Elapsed,
		}).Info("run complete")
	}
	r.result = res
	if err == nil && !res.Aborted && p.onComplete != nil {
		p.onComplete(res)
	}
}

// Abort stops the current run and waits for every worker to exit. Rows not
// yet written stay zero. Abort with no active run does nothing.
func (p *Pool) Abort() {
	p.mu.Lock()
	r := p.cur
	p.mu.Unlock()
	if r == nil {
		return
	}
	r.stop.Store(true)
	<-r.finished
}

// Wait blocks until the current run ends. Aborted runs are not errors.
func (p *Pool) Wait(ctx context.Context) (Result, error) {
	p.mu.Lock()
	r := p.cur
	p.mu.Unlock()
	if r == nil {
		return Result{}, ErrNotStarted
	}
	select {
	case <-r.finished:
		return r.result, r.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Run is Start followed by Wait; the run is aborted if ctx ends first.
func (p *Pool) Run(ctx context.Context) (Result, error) {
	if err := p.Start(); err != nil {
		return Result{}, err
	}
	res, err := p.Wait(ctx)
	if ctx.Err() != nil {
		p.Abort()
	}
	return res, err
}

// Running reports whether a run is in progress.
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur != nil && p.cur.active()
}

// Progress returns the number of tasks executed in the current run.
func (p *Pool) Progress() (done, total int) {
	p.mu.Lock()
	r := p.cur
	p.mu.Unlock()
	if r == nil {
		return 0, 0
	}
	return int(r.done.Load()), r.total
}

// Grid is the output grid of the current or most recent run.
func (p *Pool) Grid() *Grid {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid
}

// Close aborts any run and releases transform resources.
func (p *Pool) Close() {
	p.Abort()
	for _, w := range p.workers {
		w.close()
	}
}
