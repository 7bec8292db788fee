package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chzchzchz/waterfall/radio"
	"github.com/chzchzchz/waterfall/render"
	"github.com/chzchzchz/waterfall/spectrogram"
	"github.com/chzchzchz/waterfall/store"
)

func poolConfig() spectrogram.Config {
	return spectrogram.Config{
		Workers: workers,
		Backend: spectrogram.Backend(backend),
		Taper:   spectrogram.Taper(taper),
	}
}

// compute loads inf and runs it through a pool. An interrupted run is
// returned as an error.
func compute(ctx context.Context, inf string) (*radio.Recording, spectrogram.Result, error) {
	rec, err := radio.Load(inf, radio.Format(flagFormat), flagBand)
	if err != nil {
		return nil, spectrogram.Result{}, err
	}
	log := logrus.WithField("input", inf)
	log.WithFields(logrus.Fields{
		"samples": len(rec.Samples),
		"band":    rec.Band.String(),
		"seconds": rec.Seconds(),
	}).Debug("loaded")

	pb := newProgressBar(os.Stderr)
	p, err := spectrogram.NewPool(poolConfig(), spectrogram.WithLogger(log), spectrogram.WithProgress(pb.update))
	if err != nil {
		return nil, spectrogram.Result{}, err
	}
	defer p.Close()
	if _, err := p.Configure(spectrogram.NewSampleBuffer(rec.Samples), windowLength, stride); err != nil {
		return nil, spectrogram.Result{}, err
	}

	pb.start()
	res, err := p.Run(ctx)
	pb.stop()
	if err != nil {
		return nil, res, err
	}
	if res.Aborted {
		return nil, res, fmt.Errorf("aborted after %d of %d windows", res.Done, res.Tasks)
	}
	return rec, res, nil
}

func runRender(ctx context.Context, inf, outf string) error {
	rec, res, err := compute(ctx, inf)
	if err != nil {
		return err
	}
	if savePath != "" {
		if err := store.Save(savePath, store.NewGridRecord(res, rec.Band, stride)); err != nil {
			return err
		}
	}
	return render.WriteFile(outf, render.Image(res.Grid, res.GlobalMax, imageOptions()))
}

func runReplot(inf, outf string) error {
	rec, err := store.Load(inf)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"band":   rec.Band.String(),
		"window": rec.Window,
		"rows":   rec.Rows,
		"date":   rec.Date,
	}).Debug("loaded grid")
	return render.WriteFile(outf, render.Image(rec.Grid(), rec.GlobalMax, imageOptions()))
}

func runStats(ctx context.Context, w io.Writer, inf string) error {
	rec, res, err := compute(ctx, inf)
	if err != nil {
		return err
	}
	writeStats(w, rec.Band, res)
	return nil
}

func writeStats(w io.Writer, band radio.HzBand, res spectrogram.Result) {
	g := res.Grid
	fmt.Fprintf(w, "band:       %v\n", band)
	fmt.Fprintf(w, "windows:    %d x %d bins\n", res.Tasks, g.Bins)
	fmt.Fprintf(w, "elapsed:    %v\n", res.Elapsed)
	fmt.Fprintf(w, "global max: %g\n", res.GlobalMax)
	mean, std := g.MeanStdDev()
	fmt.Fprintf(w, "mean:       %g\n", mean)
	fmt.Fprintf(w, "stddev:     %g\n", std)

	peakRow, peakBin := 0, 0
	for row := 0; row < g.Rows; row++ {
		if bin := g.PeakBin(row); g.At(row, bin) > g.At(peakRow, peakBin) {
			peakRow, peakBin = row, bin
		}
	}
	fmt.Fprintf(w, "peak:       %.6f MHz in window %d\n", band.BinHz(peakBin, g.Bins)/1e6, peakRow)
	sp := radio.NewSpectralPower(g, band)
	fmt.Fprintf(w, "noise:      %.2f dB (spread %.2f, stddev %.2f)\n", sp.NoiseFloor(), sp.Spread(), sp.Stddev())
	for _, fb := range sp.Signals(minSignalHz) {
		fmt.Fprintf(w, "signal:     %.6f MHz, %.1f kHz wide\n", fb.Center, fb.Width*1e3)
	}
	for _, ws := range res.Workers {
		fmt.Fprintf(w, "worker %2d:  %d windows, max %g\n", ws.Worker, ws.Claimed, ws.LocalMax)
	}
}
