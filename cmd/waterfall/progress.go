package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/chzchzchz/waterfall/spectrogram"
)

// progressBar redraws one status line on a terminal. Workers only store the
// latest counts; a ticker goroutine does the drawing.
type progressBar struct {
	out   *os.File
	tty   bool
	done  atomic.Int64
	total atomic.Int64
	quit  chan struct{}
	exit  chan struct{}
}

func newProgressBar(out *os.File) *progressBar {
	return &progressBar{out: out, tty: term.IsTerminal(int(out.Fd()))}
}

func (pb *progressBar) update(p spectrogram.Progress) {
	pb.total.Store(int64(p.Total))
	// Callbacks race; keep the largest count seen.
	for {
		cur := pb.done.Load()
		if int64(p.Done) <= cur || pb.done.CompareAndSwap(cur, int64(p.Done)) {
			return
		}
	}
}

func (pb *progressBar) start() {
	if !pb.tty {
		return
	}
	pb.quit, pb.exit = make(chan struct{}), make(chan struct{})
	go func() {
		defer close(pb.exit)
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				pb.draw()
			case <-pb.quit:
				pb.draw()
				fmt.Fprintln(pb.out)
				return
			}
		}
	}()
}

func (pb *progressBar) stop() {
	if pb.quit == nil {
		return
	}
	close(pb.quit)
	<-pb.exit
	pb.quit = nil
}

func (pb *progressBar) draw() {
	width := 80
	if w, _, err := term.GetSize(int(pb.out.Fd())); err == nil && w > 0 {
		width = w
	}
	fmt.Fprintf(pb.out, "\r%s", progressLine(int(pb.done.Load()), int(pb.total.Load()), width-1))
}

// progressLine renders "[####    ] done/total" to fit in width columns.
func progressLine(done, total, width int) string {
	label := fmt.Sprintf(" %d/%d", done, total)
	barw := width - len(label) - 2
	if barw < 1 || total <= 0 {
		return label[1:]
	}
	fill := min(barw, done*barw/total)
	return "[" + strings.Repeat("#", fill) + strings.Repeat(" ", barw-fill) + "]" + label
}
