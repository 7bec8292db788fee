package spectrogram

import "sync/atomic"

// Task is one window of the sample buffer and the grid row it fills.
// Offset, Length and Row never change after construction.
type Task struct {
	Offset int
	Length int
	Row    int

	claimed atomic.Bool
}

// TryClaim reports whether the caller won ownership of the task. Exactly one
// caller ever wins, no matter how many race on the same task.
func (t *Task) TryClaim() bool { return t.claimed.CompareAndSwap(false, true) }

func (t *Task) Claimed() bool { return t.claimed.Load() }

// TaskList is the fixed, ordered set of tasks for one run.
type TaskList struct {
	tasks []*Task
}

// NewTaskList builds count tasks of windowLength samples, step samples apart.
func NewTaskList(count, windowLength, step int) *TaskList {
	tl := &TaskList{tasks: make([]*Task, count)}
	for k := range tl.tasks {
		tl.tasks[k] = &Task{Offset: k * step, Length: windowLength, Row: k}
	}
	return tl
}

func (tl *TaskList) Len() int { return len(tl.tasks) }

func (tl *TaskList) At(i int) *Task { return tl.tasks[i] }

// Claimed counts claimed tasks.
func (tl *TaskList) Claimed() (n int) {
	for _, t := range tl.tasks {
		if t.Claimed() {
			n++
		}
	}
	return n
}

// TaskStep is the distance in samples between consecutive window starts.
func TaskStep(windowLength int, stride float64) int {
	return int(float64(windowLength) * stride)
}

// TaskCount returns how many windows of windowLength fit in n samples with
// windows starting windowLength*stride apart.
func TaskCount(n, windowLength int, stride float64) int {
	step := TaskStep(windowLength, stride)
	if n <= 0 || windowLength <= 0 || step <= 0 {
		return 0
	}
	count := (n - n%step) / step
	if windowLength > step {
		// Overlapping windows: the last ones would run past the buffer.
		fit := 0
		if n >= windowLength {
			fit = (n-windowLength)/step + 1
		}
		count = min(count, fit)
	}
	return count
}
