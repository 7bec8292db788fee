package spectrogram

import (
	"fmt"
	"sync/atomic"

	"github.com/mdobak/go-xerrors"
	"github.com/sirupsen/logrus"
)

type WorkerState int32

const (
	WorkerIdle WorkerState = iota
	WorkerRunning
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRunning:
		return "running"
	case WorkerStopped:
		return "stopped"
	}
	return fmt.Sprintf("WorkerState(%d)", int32(s))
}

// Worker scans a run's task list from the start, executing every task it
// manages to claim. Workers never share a cursor: each one walks the whole
// list and the claim flag alone keeps a task from running twice.
type Worker struct {
	id    int
	cfg   Config
	log   logrus.FieldLogger
	stage *Stage
	state atomic.Int32

	// Owned by the worker goroutine while running.
	localMax float64
	claimed  int
}

func newWorker(id int, cfg Config, log logrus.FieldLogger) *Worker {
	return &Worker{id: id, cfg: cfg, log: log.WithField("worker", id)}
}

func (w *Worker) ID() int { return w.id }

func (w *Worker) State() WorkerState { return WorkerState(w.state.Load()) }

// LocalMax is the largest magnitude the worker wrote during its last run.
// Only meaningful once the run has been joined.
func (w *Worker) LocalMax() float64 { return w.localMax }

// Claimed is the number of tasks the worker executed during its last run.
func (w *Worker) Claimed() int { return w.claimed }

// reset readies the worker for a run over windowLength-sample windows. The
// transform is only rebuilt when the window length changes.
func (w *Worker) reset(windowLength int) error {
	if w.State() == WorkerRunning {
		return ErrRunning
	}
	if w.stage == nil {
		s, err := NewStage(w.cfg.Backend, w.cfg.Taper, windowLength)
		if err != nil {
			return err
		}
		w.stage = s
	} else if err := w.stage.Resize(windowLength); err != nil {
		return err
	}
	w.localMax, w.claimed = 0, 0
	w.state.Store(int32(WorkerIdle))
	return nil
}

func (w *Worker) start(r *run) error {
	if r == nil {
		return ErrNotConfigured
	}
	if !w.state.CompareAndSwap(int32(WorkerIdle), int32(WorkerRunning)) {
		return ErrRunning
	}
	r.group.Go(func() error { return w.run(r) })
	return nil
}

func (w *Worker) run(r *run) (err error) {
	defer w.state.Store(int32(WorkerStopped))
	defer func() {
		if rec := recover(); rec != nil {
			r.stop.Store(true)
			err = xerrors.New(fmt.Errorf("worker %d: transform failed: %v", w.id, rec))
			w.log.WithError(err).Error("transform defect, stopping run")
		}
	}()
	for i := 0; i < r.tasks.Len() && !r.stop.Load(); i++ {
		t := r.tasks.At(i)
		if !t.TryClaim() {
			continue
		}
		peak := w.stage.Run(r.grid.Row(t.Row), r.samples.Window(t.Offset, t.Length))
		if peak > w.localMax {
			w.localMax = peak
		}
		w.claimed++
		r.progress(w.id, t.Row)
	}
	w.log.WithFields(logrus.Fields{"claimed": w.claimed, "max": w.localMax}).Debug("worker done")
	return nil
}

func (w *Worker) close() {
	if w.stage != nil {
		w.stage.Close()
	}
}
